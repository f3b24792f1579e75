// Package hosttest provides a scripted host for exercising plugins without
// the real loader.
//
// A Host consumes a hook table exactly the way the loader does: it wraps its
// own controller reads and buffer swap with the table's chain bindings at
// construction, and it dispatches the lifecycle slots when told to. Tests
// and demos queue controller samples, then drive load, sessions, frames and
// reads in whatever order the scenario needs.
//
// A Host is not safe for concurrent use; the real host delivers callbacks
// from one thread and tests should too.
package hosttest

import (
	"github.com/go-wups/wupf/pkg/gamepad"
	"github.com/go-wups/wupf/pkg/hooks"
)

// VPADSample is one scripted gamepad read result.
type VPADSample struct {
	Status gamepad.VPADStatus
	Err    gamepad.VPADReadError
	// Result is the host function's return value, passed through the
	// chain untouched.
	Result int32
}

// KPADSample is one scripted Wii remote read result.
type KPADSample struct {
	Status gamepad.KPADStatus
	Err    gamepad.KPADError
	Result int32
}

// Host drives a hook table like the real loader.
type Host struct {
	table *hooks.Table

	vpadScript []VPADSample
	kpadScript []KPADSample

	vpadReads int
	kpadReads int
	swaps     int

	wrappedVPAD hooks.VPADReadFunc
	wrappedKPAD hooks.KPADReadFunc
	wrappedSwap hooks.SwapFunc
}

// New wraps the table's chain bindings around the host's own functions and
// returns the ready host. Bind plugins into the table before calling New;
// trampolines chained later still run because wrapping snapshots nothing.
func New(t *hooks.Table) *Host {
	h := &Host{table: t}
	h.wrappedVPAD = t.WrapVPADRead(h.vpadRead)
	h.wrappedKPAD = t.WrapKPADRead(h.kpadRead)
	h.wrappedSwap = t.WrapSwapBuffers(h.swap)
	return h
}

// QueueVPAD scripts the next gamepad read result.
func (h *Host) QueueVPAD(s VPADSample) {
	h.vpadScript = append(h.vpadScript, s)
}

// QueueKPAD scripts the next Wii remote read result.
func (h *Host) QueueKPAD(s KPADSample) {
	h.kpadScript = append(h.kpadScript, s)
}

// Load fires the plugin initialization slot.
func (h *Host) Load() {
	h.table.Dispatch(hooks.InitPlugin)
}

// Unload fires the plugin deinitialization slot.
func (h *Host) Unload() {
	h.table.Dispatch(hooks.DeinitPlugin)
}

// StartApplication fires the application start slot.
func (h *Host) StartApplication() {
	h.table.Dispatch(hooks.ApplicationStarts)
}

// ExitApplication fires the application exit slot.
func (h *Host) ExitApplication() {
	h.table.Dispatch(hooks.ApplicationRequestsExit)
}

// Frame presents one frame: the host's swap runs, then every chained frame
// trampoline.
func (h *Host) Frame() {
	h.wrappedSwap()
}

// ReadVPAD performs a gamepad read through the interposed chain, using a
// buffer of n records. It returns the buffer after the plugin's merge, the
// read error, and the host function's return value.
func (h *Host) ReadVPAD(ch gamepad.VPADChannel, n int) ([]gamepad.VPADStatus, gamepad.VPADReadError, int32) {
	status := make([]gamepad.VPADStatus, n)
	var rerr gamepad.VPADReadError
	res := h.wrappedVPAD(ch, status, &rerr)
	return status, rerr, res
}

// ReadKPAD performs a Wii remote read through the interposed chain.
func (h *Host) ReadKPAD(ch gamepad.WPADChannel, n int) ([]gamepad.KPADStatus, gamepad.KPADError, int32) {
	status := make([]gamepad.KPADStatus, n)
	var kerr gamepad.KPADError
	res := h.wrappedKPAD(ch, status, &kerr)
	return status, kerr, res
}

// VPADReads returns how many times the host's own gamepad read ran.
func (h *Host) VPADReads() int {
	return h.vpadReads
}

// KPADReads returns how many times the host's own Wii remote read ran.
func (h *Host) KPADReads() int {
	return h.kpadReads
}

// Swaps returns how many frames the host presented.
func (h *Host) Swaps() int {
	return h.swaps
}

// vpadRead is the host's original gamepad read: it pops the next scripted
// sample, or reports no samples when the script is empty.
func (h *Host) vpadRead(ch gamepad.VPADChannel, status []gamepad.VPADStatus, err *gamepad.VPADReadError) int32 {
	h.vpadReads++
	if len(h.vpadScript) == 0 {
		if err != nil {
			*err = gamepad.VPADReadNoSamples
		}
		return 0
	}
	s := h.vpadScript[0]
	h.vpadScript = h.vpadScript[1:]
	if len(status) > 0 {
		status[0] = s.Status
	}
	if err != nil {
		*err = s.Err
	}
	return s.Result
}

// kpadRead is the host's original Wii remote read.
func (h *Host) kpadRead(ch gamepad.WPADChannel, status []gamepad.KPADStatus, err *gamepad.KPADError) int32 {
	h.kpadReads++
	if len(h.kpadScript) == 0 {
		if err != nil {
			*err = gamepad.KPADErrorNoSamples
		}
		return 0
	}
	s := h.kpadScript[0]
	h.kpadScript = h.kpadScript[1:]
	if len(status) > 0 {
		status[0] = s.Status
	}
	if err != nil {
		*err = s.Err
	}
	return s.Result
}

// swap is the host's original scan buffer swap.
func (h *Host) swap() {
	h.swaps++
}
