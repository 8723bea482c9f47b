// Package diag carries user-facing diagnostics for schema loading, class
// building and artifact emission. Diagnostics are attributed to a class
// and optionally a member instead of source spans: the declarative input
// has no token positions worth reporting.
package diag

// Severity defines the importance of a diagnostic.
type Severity uint8

const (
	// SevInfo is for informational diagnostics.
	SevInfo Severity = iota
	// SevWarning is for warning diagnostics.
	SevWarning
	SevError
)

func (s Severity) String() string {
	switch s {
	case SevInfo:
		return "INFO"
	case SevWarning:
		return "WARNING"
	case SevError:
		return "ERROR"
	}
	return "UNKNOWN"
}

// Diagnostic is one reportable condition.
type Diagnostic struct {
	Severity Severity
	Code     Code
	// Class names the class description the condition belongs to.
	Class string
	// Member optionally names the field or method involved.
	Member  string
	Message string
}

func New(sev Severity, code Code, class, member, msg string) Diagnostic {
	return Diagnostic{
		Severity: sev,
		Code:     code,
		Class:    class,
		Member:   member,
		Message:  msg,
	}
}

func NewError(code Code, class, member, msg string) Diagnostic {
	return New(SevError, code, class, member, msg)
}
