// Package plugin defines the contracts a plugin implements and wires them
// into a hook table.
//
// A plugin is one state type plus lifecycle methods on its pointer. Bind
// inspects the type and registers a trampoline for every contract it
// implements, nothing more: a type with only the lifecycle methods gets the
// four lifecycle slots, adding OnUpdate chains a frame trampoline, adding
// OnInput chains the two controller read trampolines. There is no further
// combination; the set of variants is closed.
//
// Every trampoline except initialization acquires the plugin's state cell
// for its full body, so callbacks are serialized and reentrancy is
// impossible. A panic inside a callback releases the cell on the way out and
// is stopped at the hook dispatch boundary; the state keeps whatever partial
// mutation the callback had applied, and later callbacks run normally.
package plugin

import (
	"fmt"

	"github.com/go-wups/wupf/pkg/errors"
	"github.com/go-wups/wupf/pkg/gamepad"
	"github.com/go-wups/wupf/pkg/handler"
	"github.com/go-wups/wupf/pkg/hooks"
)

// Plugin is the base lifecycle contract. Construction is not part of the
// interface: no state exists before initialization, so Bind takes a
// construct function instead.
type Plugin interface {
	// OnDeinit runs once when the host unloads the plugin.
	OnDeinit()
	// OnStart runs every time a foreground application launches.
	OnStart()
	// OnExit runs every time the foreground application begins shutting
	// down. Start and exit pair up repeatedly within one plugin lifetime.
	OnExit()
}

// UpdateHandler marks a plugin that wants a callback after every presented
// frame.
type UpdateHandler interface {
	Plugin
	OnUpdate()
}

// InputHandler marks a plugin that intercepts controller input. Samples from
// both controller families arrive through the one OnInput method; the port
// tells them apart. The returned state is merged back into the host's buffer
// as a bitwise AND, so the callback can suppress buttons but never add them.
type InputHandler interface {
	Plugin
	OnInput(port gamepad.Port, state gamepad.State) gamepad.State
}

// StatePtr constrains a plugin's pointer type: *P carrying at least the
// lifecycle methods.
type StatePtr[P any] interface {
	*P
	Plugin
}

// Register wires a plugin into the default hook table, the one the process's
// loader consumes. A plugin binary calls it once, usually from main or an
// init function.
func Register[P any, PP StatePtr[P]](construct func() P) {
	Bind[P, PP](hooks.Default, construct)
}

// Bind wires a plugin into an explicit hook table. The construct function
// runs on the initialization slot and its first result becomes the plugin
// state; every other implemented contract method is dispatched against that
// state under exclusive access.
func Bind[P any, PP StatePtr[P]](t *hooks.Table, construct func() P) {
	if t == nil {
		panic("plugin: Bind with nil hook table")
	}
	if construct == nil {
		panic("plugin: Bind with nil construct")
	}

	h := handler.For[P]()

	t.On(hooks.InitPlugin, func() {
		// Repeat initialization constructs and discards: the first stored
		// value wins and Set never fails.
		h.Set(construct())
	})
	t.On(hooks.DeinitPlugin, func() {
		withState(h, func(p PP) { p.OnDeinit() })
	})
	t.On(hooks.ApplicationStarts, func() {
		withState(h, func(p PP) { p.OnStart() })
	})
	t.On(hooks.ApplicationRequestsExit, func() {
		withState(h, func(p PP) { p.OnExit() })
	})

	var probe PP
	if _, ok := any(probe).(UpdateHandler); ok {
		t.ChainFrame(func() {
			withState(h, func(p PP) { any(p).(UpdateHandler).OnUpdate() })
		})
	}
	if _, ok := any(probe).(InputHandler); ok {
		t.ChainVPADRead(vpadTrampoline[P, PP](h))
		t.ChainKPADRead(kpadTrampoline[P, PP](h))
	}
}

// withState runs fn with exclusive access to the plugin state.
func withState[P any, PP StatePtr[P]](h *handler.Handler[P], fn func(PP)) {
	g := h.Acquire()
	defer g.Release()
	fn(PP(g.State()))
}

// vpadTrampoline interposes on the host's gamepad read. The host ran first;
// on a successful read the newest sample is normalized, handed to OnInput,
// and the returned state is masked back into the buffer.
func vpadTrampoline[P any, PP StatePtr[P]](h *handler.Handler[P]) hooks.VPADReadCallback {
	return func(ch gamepad.VPADChannel, status []gamepad.VPADStatus, rerr *gamepad.VPADReadError) {
		if rerr != nil && !rerr.Ok() {
			return
		}
		if len(status) == 0 {
			errors.Report(&errors.PluginError{
				Op:   "plugin.onInput",
				Kind: errors.KindInput,
				Hook: hooks.FuncVPADRead.String(),
				Err:  fmt.Errorf("read succeeded with an empty status buffer"),
			})
			return
		}

		g := h.Acquire()
		defer g.Release()
		next := any(PP(g.State())).(InputHandler).OnInput(gamepad.PortDRC, gamepad.StateFromVPAD(status[0]))
		status[0].Mask(next)
	}
}

// kpadTrampoline is the Wii remote counterpart of vpadTrampoline.
func kpadTrampoline[P any, PP StatePtr[P]](h *handler.Handler[P]) hooks.KPADReadCallback {
	return func(ch gamepad.WPADChannel, status []gamepad.KPADStatus, kerr *gamepad.KPADError) {
		if kerr != nil && !kerr.Ok() {
			return
		}
		if len(status) == 0 {
			errors.Report(&errors.PluginError{
				Op:   "plugin.onInput",
				Kind: errors.KindInput,
				Hook: hooks.FuncKPADReadEx.String(),
				Err:  fmt.Errorf("read succeeded with an empty status buffer"),
			})
			return
		}

		g := h.Acquire()
		defer g.Release()
		next := any(PP(g.State())).(InputHandler).OnInput(gamepad.PortFromWPAD(ch), gamepad.StateFromKPAD(status[0]))
		status[0].Mask(next)
	}
}
