package emit

import (
	"fmt"

	"oogen/internal/diag"
)

// EmitError is a failure to produce text for a class: an unknown default
// template, an unrendered placeholder, or a method left without a body.
type EmitError struct {
	Code   diag.Code
	Class  string
	Member string
	Msg    string
}

func (e *EmitError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Member != "" {
		return fmt.Sprintf("%s: %s.%s: %s", e.Code, e.Class, e.Member, e.Msg)
	}
	return fmt.Sprintf("%s: %s: %s", e.Code, e.Class, e.Msg)
}

// Diagnostic converts the error into a reportable diagnostic.
func (e *EmitError) Diagnostic() diag.Diagnostic {
	return diag.NewError(e.Code, e.Class, e.Member, e.Msg)
}

func emitErrf(code diag.Code, class, member, format string, args ...any) *EmitError {
	return &EmitError{
		Code:   code,
		Class:  class,
		Member: member,
		Msg:    fmt.Sprintf(format, args...),
	}
}
