package errors

import (
	"fmt"
	"os"
)

// LogHandler is a Handler that logs errors to stderr.
type LogHandler struct {
	// Verbose enables detailed output including stack traces.
	Verbose bool
}

// HandleError logs a PluginError to stderr.
func (h *LogHandler) HandleError(err *PluginError) {
	if err == nil {
		return
	}
	if h.Verbose {
		fmt.Fprintf(os.Stderr, "[wupf error] %s [%s]", err.Op, err.Kind)
		if err.Hook != "" {
			fmt.Fprintf(os.Stderr, " hook=%s", err.Hook)
		}
		fmt.Fprintf(os.Stderr, ": %v\n", err.Err)
		if err.StackTrace != "" {
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", err.StackTrace)
		}
	} else {
		fmt.Fprintf(os.Stderr, "[wupf error] %s: %v\n", err.Op, err.Err)
	}
}

// HandlePanic logs a PanicError to stderr.
func (h *LogHandler) HandlePanic(err *PanicError) {
	if err == nil {
		return
	}
	switch {
	case err.Op != "" && err.Hook != "":
		fmt.Fprintf(os.Stderr, "[wupf panic] %s [%s]: %v\n", err.Op, err.Hook, err.Value)
	case err.Op != "":
		fmt.Fprintf(os.Stderr, "[wupf panic] %s: %v\n", err.Op, err.Value)
	default:
		fmt.Fprintf(os.Stderr, "[wupf panic] %v\n", err.Value)
	}
	if h.Verbose && err.StackTrace != "" {
		fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", err.StackTrace)
	}
}
