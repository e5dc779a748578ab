package compiler

import (
	"fmt"

	"github.com/arrowslasharrow/tasm/diag"
)

// Error is a compile-time failure raised by a single instruction
// handler. The driver converts it into a diag.Diagnostic, attaching
// the source line the handler was invoked for.
type Error struct {
	Kind    diag.Kind
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func newError(kind diag.Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}
