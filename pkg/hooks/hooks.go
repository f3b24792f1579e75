// Package hooks is the registration surface between a plugin and the host
// loader.
//
// A Table is plain data: named lifecycle slots holding no-argument
// trampolines, plus chain bindings for the small set of host functions a
// plugin may interpose on. The loader consumes the table in two ways. For
// lifecycle slots it calls Dispatch when the host fires the matching event.
// For chain bindings it wraps its original function with WrapVPADRead,
// WrapKPADRead or WrapSwapBuffers and installs the result in the original's
// place: the wrapper calls the original first, runs every chained trampoline,
// and returns the original's status untouched.
//
// Dispatch and the wrappers are the boundary to the host process. Each
// trampoline runs under panic recovery, so a failing callback aborts itself,
// is reported through pkg/errors, and never unwinds into the host.
package hooks

import (
	"sync"

	"github.com/go-wups/wupf/pkg/errors"
	"github.com/go-wups/wupf/pkg/gamepad"
)

// Event names a host lifecycle slot a trampoline can be bound to.
type Event int

const (
	// InitPlugin fires once when the host loads the plugin.
	InitPlugin Event = iota
	// DeinitPlugin fires once when the host unloads the plugin.
	DeinitPlugin
	// ApplicationStarts fires every time a foreground application launches.
	ApplicationStarts
	// ApplicationRequestsExit fires every time the foreground application
	// begins shutting down.
	ApplicationRequestsExit
)

func (e Event) String() string {
	switch e {
	case InitPlugin:
		return "INIT_PLUGIN"
	case DeinitPlugin:
		return "DEINIT_PLUGIN"
	case ApplicationStarts:
		return "APPLICATION_STARTS"
	case ApplicationRequestsExit:
		return "APPLICATION_REQUESTS_EXIT"
	default:
		return "UNKNOWN"
	}
}

// Events lists every lifecycle slot in dispatch order.
func Events() []Event {
	return []Event{InitPlugin, DeinitPlugin, ApplicationStarts, ApplicationRequestsExit}
}

// EventFromName resolves a host slot name, as written in a plugin manifest,
// back to its Event.
func EventFromName(name string) (Event, bool) {
	for _, e := range Events() {
		if e.String() == name {
			return e, true
		}
	}
	return 0, false
}

// Callback is a host-invocable trampoline. It takes no arguments and returns
// nothing; everything it needs lives in package or closure state with static
// duration.
type Callback func()

// FunctionID names a host function a plugin can chain after, as the pair of
// the exporting library and the function symbol.
type FunctionID struct {
	Module   string
	Function string
}

func (f FunctionID) String() string {
	return f.Module + "/" + f.Function
}

// The closed set of chainable host functions.
var (
	FuncVPADRead           = FunctionID{Module: "vpad", Function: "VPADRead"}
	FuncKPADReadEx         = FunctionID{Module: "padscore", Function: "KPADReadEx"}
	FuncGX2SwapScanBuffers = FunctionID{Module: "gx2", Function: "GX2SwapScanBuffers"}
)

// VPADReadFunc matches the host's gamepad read function.
type VPADReadFunc func(ch gamepad.VPADChannel, status []gamepad.VPADStatus, err *gamepad.VPADReadError) int32

// VPADReadCallback is a trampoline chained after the host's gamepad read.
// It sees the same buffer the host filled and may rewrite it in place.
type VPADReadCallback func(ch gamepad.VPADChannel, status []gamepad.VPADStatus, err *gamepad.VPADReadError)

// KPADReadFunc matches the host's Wii remote read function.
type KPADReadFunc func(ch gamepad.WPADChannel, status []gamepad.KPADStatus, err *gamepad.KPADError) int32

// KPADReadCallback is a trampoline chained after the host's Wii remote read.
type KPADReadCallback func(ch gamepad.WPADChannel, status []gamepad.KPADStatus, err *gamepad.KPADError)

// SwapFunc matches the host's scan buffer swap, the per-frame boundary.
type SwapFunc func()

// Table collects every binding one plugin registers. The zero value is not
// usable; create tables with NewTable. Default is the table the process's
// loader consumes.
type Table struct {
	mu    sync.RWMutex
	slots map[Event][]Callback
	vpad  []VPADReadCallback
	kpad  []KPADReadCallback
	frame []Callback
}

// Default is the hook table a plugin binary registers into. The loader for
// the process consumes exactly this table; explicit tables exist for tests
// and embedded hosts.
var Default = NewTable()

// NewTable returns an empty hook table.
func NewTable() *Table {
	return &Table{
		slots: make(map[Event][]Callback),
	}
}

// On binds a trampoline to a lifecycle slot. Trampolines fire in the order
// they were bound.
func (t *Table) On(e Event, cb Callback) {
	if cb == nil {
		panic("hooks: nil callback bound to " + e.String())
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.slots[e] = append(t.slots[e], cb)
}

// Dispatch fires a lifecycle slot. Every bound trampoline runs even when an
// earlier one panics; panics are reported and stop at this boundary.
func (t *Table) Dispatch(e Event) {
	t.mu.RLock()
	cbs := make([]Callback, len(t.slots[e]))
	copy(cbs, t.slots[e])
	t.mu.RUnlock()

	for _, cb := range cbs {
		run(cb, "hooks.Dispatch", e.String())
	}
}

// Bound returns the number of trampolines bound to a lifecycle slot.
func (t *Table) Bound(e Event) int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.slots[e])
}

// ChainVPADRead chains a trampoline after the host's gamepad read.
func (t *Table) ChainVPADRead(cb VPADReadCallback) {
	if cb == nil {
		panic("hooks: nil callback chained to " + FuncVPADRead.String())
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.vpad = append(t.vpad, cb)
}

// ChainKPADRead chains a trampoline after the host's Wii remote read.
func (t *Table) ChainKPADRead(cb KPADReadCallback) {
	if cb == nil {
		panic("hooks: nil callback chained to " + FuncKPADReadEx.String())
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.kpad = append(t.kpad, cb)
}

// ChainFrame chains a trampoline after the host's scan buffer swap. It fires
// once per presented frame.
func (t *Table) ChainFrame(cb Callback) {
	if cb == nil {
		panic("hooks: nil callback chained to " + FuncGX2SwapScanBuffers.String())
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.frame = append(t.frame, cb)
}

// Chained returns the number of trampolines chained to a host function.
func (t *Table) Chained(f FunctionID) int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	switch f {
	case FuncVPADRead:
		return len(t.vpad)
	case FuncKPADReadEx:
		return len(t.kpad)
	case FuncGX2SwapScanBuffers:
		return len(t.frame)
	default:
		return 0
	}
}

// WrapVPADRead builds the function the loader installs in place of the
// host's gamepad read. The original runs first and its status is returned
// unchanged; trampolines only see, and may rewrite, the original's buffer
// side effects.
func (t *Table) WrapVPADRead(orig VPADReadFunc) VPADReadFunc {
	if orig == nil {
		panic("hooks: wrapping nil original for " + FuncVPADRead.String())
	}
	return func(ch gamepad.VPADChannel, status []gamepad.VPADStatus, err *gamepad.VPADReadError) int32 {
		res := orig(ch, status, err)

		t.mu.RLock()
		cbs := make([]VPADReadCallback, len(t.vpad))
		copy(cbs, t.vpad)
		t.mu.RUnlock()

		for _, cb := range cbs {
			run(func() { cb(ch, status, err) }, "hooks.Chain", FuncVPADRead.String())
		}
		return res
	}
}

// WrapKPADRead builds the function the loader installs in place of the
// host's Wii remote read, with the same contract as WrapVPADRead.
func (t *Table) WrapKPADRead(orig KPADReadFunc) KPADReadFunc {
	if orig == nil {
		panic("hooks: wrapping nil original for " + FuncKPADReadEx.String())
	}
	return func(ch gamepad.WPADChannel, status []gamepad.KPADStatus, err *gamepad.KPADError) int32 {
		res := orig(ch, status, err)

		t.mu.RLock()
		cbs := make([]KPADReadCallback, len(t.kpad))
		copy(cbs, t.kpad)
		t.mu.RUnlock()

		for _, cb := range cbs {
			run(func() { cb(ch, status, err) }, "hooks.Chain", FuncKPADReadEx.String())
		}
		return res
	}
}

// WrapSwapBuffers builds the function the loader installs in place of the
// host's scan buffer swap. The original swap runs first, then every frame
// trampoline.
func (t *Table) WrapSwapBuffers(orig SwapFunc) SwapFunc {
	if orig == nil {
		panic("hooks: wrapping nil original for " + FuncGX2SwapScanBuffers.String())
	}
	return func() {
		orig()

		t.mu.RLock()
		cbs := make([]Callback, len(t.frame))
		copy(cbs, t.frame)
		t.mu.RUnlock()

		for _, cb := range cbs {
			run(cb, "hooks.Chain", FuncGX2SwapScanBuffers.String())
		}
	}
}

// Reset drops every binding. Mainly for tests and embedded hosts that
// rebuild their table between sessions.
func (t *Table) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.slots = make(map[Event][]Callback)
	t.vpad = nil
	t.kpad = nil
	t.frame = nil
}

// run executes one trampoline under the boundary recovery.
func run(cb Callback, op, hook string) {
	defer errors.RecoverHook(op, hook)
	cb()
}
