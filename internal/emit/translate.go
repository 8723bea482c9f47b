package emit

import (
	"context"
	"fmt"
	"strings"
)

// BodyTranslator turns a structured method-body description into literal C
// text. Implementations must be pure and deterministic for identical input.
// A failure aborts generation for the owning class only.
type BodyTranslator interface {
	Translate(ctx context.Context, desc string) (string, error)
}

// TranslationError wraps an opaque translator failure with its origin.
type TranslationError struct {
	Class  string
	Method string
	Err    error
}

func (e *TranslationError) Error() string {
	return fmt.Sprintf("translate %s.%s: %v", e.Class, e.Method, e.Err)
}

func (e *TranslationError) Unwrap() error {
	return e.Err
}

// PassthroughTranslator treats descriptions as pre-lowered C statements:
// each non-empty line is indented one level and emitted as-is. It is the
// default collaborator for descriptions authored directly in C.
type PassthroughTranslator struct{}

func (PassthroughTranslator) Translate(_ context.Context, desc string) (string, error) {
	if strings.TrimSpace(desc) == "" {
		return "", fmt.Errorf("empty body description")
	}
	lines := strings.Split(strings.TrimRight(desc, "\n"), "\n")
	for i, ln := range lines {
		if strings.TrimSpace(ln) == "" {
			lines[i] = ""
			continue
		}
		if !strings.HasPrefix(ln, "    ") {
			lines[i] = "    " + ln
		}
	}
	return strings.Join(lines, "\n"), nil
}
