// Package errors provides structured error reporting for the wupf framework.
//
// Plugin callbacks return nothing to the host, so failures inside them cannot
// propagate as return values. They are reported instead: framework code and
// plugin callbacks hand errors to Report, and panics are stopped at the hook
// dispatch boundary and handed to ReportPanic. Nothing ever unwinds into the
// host process.
package errors

import (
	"fmt"
	"time"
)

// ErrorKind identifies the category of an error.
type ErrorKind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown ErrorKind = iota
	// KindContract indicates a violated framework contract, such as
	// acquiring a plugin state cell before it was initialized.
	KindContract
	// KindPanic indicates a recovered panic.
	KindPanic
	// KindInput indicates an anomaly on the input interception path.
	KindInput
	// KindStorage indicates a plugin settings storage error.
	KindStorage
	// KindNotify indicates a notification rendering or delivery error.
	KindNotify
)

func (k ErrorKind) String() string {
	switch k {
	case KindContract:
		return "contract"
	case KindPanic:
		return "panic"
	case KindInput:
		return "input"
	case KindStorage:
		return "storage"
	case KindNotify:
		return "notify"
	default:
		return "unknown"
	}
}

// PluginError represents a structured error in the wupf framework.
type PluginError struct {
	// Op is the operation that failed (e.g., "handler.Acquire").
	Op string
	// Kind categorizes the error.
	Kind ErrorKind
	// Err is the underlying error.
	Err error
	// Hook is the host hook slot or function binding involved, if any
	// (e.g., "DEINIT_PLUGIN" or "vpad/VPADRead").
	Hook string
	// StackTrace contains the call stack at the time of the error.
	StackTrace string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *PluginError) Error() string {
	if e.Hook != "" {
		return fmt.Sprintf("%s [%s] hook=%s: %v", e.Op, e.Kind, e.Hook, e.Err)
	}
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
}

func (e *PluginError) Unwrap() error {
	return e.Err
}

// PanicError represents a panic recovered at the hook dispatch boundary.
type PanicError struct {
	// Op is the operation that panicked (e.g., "hooks.Dispatch").
	Op string
	// Hook is the host hook slot or function binding being dispatched.
	Hook string
	// Value is the value passed to panic().
	Value any
	// StackTrace contains the call stack at the time of the panic.
	StackTrace string
	// Timestamp is when the panic occurred.
	Timestamp time.Time
}

func (e *PanicError) Error() string {
	switch {
	case e.Op != "" && e.Hook != "":
		return fmt.Sprintf("panic in %s [%s]: %v", e.Op, e.Hook, e.Value)
	case e.Op != "":
		return fmt.Sprintf("panic in %s: %v", e.Op, e.Value)
	default:
		return fmt.Sprintf("panic: %v", e.Value)
	}
}

// Handler receives errors reported by the wupf framework.
type Handler interface {
	// HandleError is called when an error occurs.
	HandleError(err *PluginError)
	// HandlePanic is called when a panic is recovered.
	HandlePanic(err *PanicError)
}
