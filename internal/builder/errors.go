package builder

import (
	"fmt"

	"oogen/internal/diag"
)

// ConfigError is a caller mistake in a class description. It is
// non-recoverable for the affected class and never corrupts other classes.
type ConfigError struct {
	Code   diag.Code
	Class  string
	Member string
	Msg    string
}

func (e *ConfigError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Member != "" {
		return fmt.Sprintf("%s: %s.%s: %s", e.Code, e.Class, e.Member, e.Msg)
	}
	return fmt.Sprintf("%s: %s: %s", e.Code, e.Class, e.Msg)
}

// Diagnostic converts the error into a reportable diagnostic.
func (e *ConfigError) Diagnostic() diag.Diagnostic {
	return diag.NewError(e.Code, e.Class, e.Member, e.Msg)
}

func configErrf(code diag.Code, class, member, format string, args ...any) *ConfigError {
	return &ConfigError{
		Code:   code,
		Class:  class,
		Member: member,
		Msg:    fmt.Sprintf(format, args...),
	}
}
