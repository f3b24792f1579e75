// Package logger is the plugin-side logging subsystem.
//
// Logs either go to stderr through a console writer or across the network as
// JSON datagrams, one per event, aimed at the log viewer that listens on the
// host ecosystem's broadcast port. The sink is chosen once, usually during
// plugin initialization, and torn down with Deinit when the plugin unloads.
// Before initialization and after Deinit the package logger is a no-op, so
// logging is always safe to call. Nothing in the framework core depends on
// it; it is purely advisory.
package logger

import (
	"net"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// DefaultUDPTarget is the broadcast address the log viewer listens on.
const DefaultUDPTarget = "255.255.255.255:4405"

var (
	mu    sync.Mutex
	base  = zerolog.Nop()
	conn  net.Conn
	ready bool
)

// Console routes logs to stderr through a console writer. If a sink is
// already active the call is a no-op; tear it down with Deinit first to
// switch sinks.
func Console() error {
	mu.Lock()
	defer mu.Unlock()
	if ready {
		return nil
	}
	out := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.TimeOnly,
	}
	base = zerolog.New(out).With().Timestamp().Logger()
	ready = true
	return nil
}

// UDP routes logs to the default broadcast target as JSON datagrams.
func UDP() error {
	return UDPAddr(DefaultUDPTarget)
}

// UDPAddr routes logs to an explicit UDP address. If a sink is already
// active the call is a no-op and the existing sink keeps the logs.
func UDPAddr(addr string) error {
	mu.Lock()
	defer mu.Unlock()
	if ready {
		return nil
	}
	c, err := net.Dial("udp", addr)
	if err != nil {
		return err
	}
	conn = c
	base = zerolog.New(c).With().Timestamp().Logger()
	ready = true
	return nil
}

// Deinit closes the active sink and resets the package logger to a no-op.
// Calling it without an active sink is harmless.
func Deinit() {
	mu.Lock()
	defer mu.Unlock()
	if conn != nil {
		conn.Close()
		conn = nil
	}
	base = zerolog.Nop()
	ready = false
}

// Initialized reports whether a sink is active.
func Initialized() bool {
	mu.Lock()
	defer mu.Unlock()
	return ready
}

// L returns the current logger. The returned value stays bound to the sink
// that was active when L was called.
func L() zerolog.Logger {
	mu.Lock()
	defer mu.Unlock()
	return base
}
