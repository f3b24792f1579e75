// Package handler holds plugin state between host callbacks.
//
// A Handler is a process-wide slot for exactly one value of the plugin's
// state type. It starts empty, is filled once when the host initializes the
// plugin, and from then on hands out exclusive access one callback at a time.
// The zero value is ready for use, so a Handler can live in a package-level
// var with no constructor or init function.
//
// The access rules mirror the host protocol: initialization is guaranteed to
// be the first callback delivered, so acquiring an empty Handler is a
// contract violation and panics loudly rather than returning an error.
package handler

import (
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"

	"github.com/go-wups/wupf/pkg/errors"
)

// Handler stores zero or one P and serializes access to it.
// The zero value is an empty, usable Handler.
type Handler[P any] struct {
	mu  sync.Mutex
	p   *P
	set atomic.Bool
}

// Set installs v if the Handler is still empty and reports whether this call
// installed it. Later calls are silent no-ops: the first value wins and is
// never replaced. Set never fails.
func (h *Handler[P]) Set(v P) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.p != nil {
		return false
	}
	h.p = &v
	h.set.Store(true)
	return true
}

// Initialized reports whether Set has installed a value. It does not block,
// even while a Guard is held.
func (h *Handler[P]) Initialized() bool {
	return h.set.Load()
}

// Acquire blocks until the Handler is free and returns a Guard with
// exclusive access to the stored value. It panics if Set has never been
// called: the host delivers initialization first, so an empty Handler here
// means the plugin's hook wiring is broken.
func (h *Handler[P]) Acquire() *Guard[P] {
	h.mu.Lock()
	if h.p == nil {
		h.mu.Unlock()
		panic(&errors.PluginError{
			Op:   "handler.Acquire",
			Kind: errors.KindContract,
			Err:  fmt.Errorf("%s acquired before initialization", reflect.TypeOf((*P)(nil)).Elem()),
		})
	}
	return &Guard[P]{h: h}
}

// Guard is exclusive access to a Handler's value, held from Acquire until
// Release. Callbacks hold it for their full body, so at most one callback
// touches the state at a time.
type Guard[P any] struct {
	h        *Handler[P]
	released atomic.Bool
}

// State returns the guarded value. It panics if the Guard was released.
func (g *Guard[P]) State() *P {
	if g.released.Load() {
		panic(&errors.PluginError{
			Op:   "handler.State",
			Kind: errors.KindContract,
			Err:  fmt.Errorf("guard for %s used after Release", reflect.TypeOf((*P)(nil)).Elem()),
		})
	}
	return g.h.p
}

// Release returns exclusive access to the Handler. Releasing twice is a
// no-op.
func (g *Guard[P]) Release() {
	if g.released.CompareAndSwap(false, true) {
		g.h.mu.Unlock()
	}
}

var (
	cellsMu sync.RWMutex
	cells   = map[reflect.Type]any{}
)

// For returns the Handler owned by state type P, creating it on first use.
// Every caller naming the same P gets the same Handler; distinct types never
// share one. Plugins that prefer an explicit package-level Handler var can
// skip For entirely.
func For[P any]() *Handler[P] {
	key := reflect.TypeOf((*P)(nil)).Elem()

	cellsMu.RLock()
	v, ok := cells[key]
	cellsMu.RUnlock()
	if ok {
		return v.(*Handler[P])
	}

	cellsMu.Lock()
	defer cellsMu.Unlock()
	if v, ok := cells[key]; ok {
		return v.(*Handler[P])
	}
	h := &Handler[P]{}
	cells[key] = h
	return h
}

// ResetForTest discards all Handlers created by For. Handles returned
// earlier keep their old cells; the next For call per type starts fresh.
// Only tests should call this.
func ResetForTest() {
	cellsMu.Lock()
	defer cellsMu.Unlock()
	cells = map[reflect.Type]any{}
}
