// Package trace provides leveled build tracing for the generator pipeline.
// Events carry a scope (pipeline, class, member) so the same tracer serves
// coarse progress logging and the debug-level logged-and-skipped paths.
package trace

import "fmt"

// Level controls tracing verbosity.
type Level uint8

const (
	// LevelOff disables tracing.
	LevelOff   Level = iota // no tracing
	LevelPhase              // pipeline stage boundaries
	LevelClass              // per-class events
	LevelDebug              // everything including member-level
)

// String returns the string representation of Level.
func (l Level) String() string {
	switch l {
	case LevelOff:
		return "off"
	case LevelPhase:
		return "phase"
	case LevelClass:
		return "class"
	case LevelDebug:
		return "debug"
	default:
		return "unknown"
	}
}

// ParseLevel converts a string to a Level.
func ParseLevel(s string) (Level, error) {
	switch s {
	case "off", "OFF":
		return LevelOff, nil
	case "phase", "PHASE":
		return LevelPhase, nil
	case "class", "CLASS":
		return LevelClass, nil
	case "debug", "DEBUG":
		return LevelDebug, nil
	default:
		return LevelOff, fmt.Errorf("invalid trace level: %q (expected: off|phase|class|debug)", s)
	}
}

// Scope indicates the granularity of an event. Lower values are coarser.
type Scope uint8

const (
	// ScopePipeline covers whole-run stage boundaries.
	ScopePipeline Scope = iota + 1
	// ScopeClass covers per-class processing.
	ScopeClass
	// ScopeMember covers individual fields and methods.
	ScopeMember
)

func (s Scope) String() string {
	switch s {
	case ScopePipeline:
		return "pipeline"
	case ScopeClass:
		return "class"
	case ScopeMember:
		return "member"
	default:
		return "unknown"
	}
}

// ShouldEmit returns true if the given scope should emit at this level.
func (l Level) ShouldEmit(scope Scope) bool {
	switch l {
	case LevelOff:
		return false
	case LevelPhase:
		return scope <= ScopePipeline
	case LevelClass:
		return scope <= ScopeClass
	case LevelDebug:
		return true
	}
	return false
}
