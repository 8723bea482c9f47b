package trace

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// Event is a single trace record.
type Event struct {
	Time   time.Time
	Scope  Scope
	Name   string // e.g. "build", "class:Neuron"
	Detail string
}

// Tracer is the interface for emitting trace events.
type Tracer interface {
	// Emit records a trace event. Must be goroutine-safe.
	Emit(ev Event)

	// Level returns the current tracing level.
	Level() Level

	// Enabled returns true if tracing is active (Level > LevelOff).
	Enabled() bool
}

// nopTracer is a no-op implementation for zero overhead when tracing is
// disabled.
type nopTracer struct{}

func (nopTracer) Emit(Event)    {}
func (nopTracer) Level() Level  { return LevelOff }
func (nopTracer) Enabled() bool { return false }

// Nop is the package-level singleton nop tracer.
var Nop Tracer = nopTracer{}

// streamTracer writes events line-by-line to a writer.
type streamTracer struct {
	mu    sync.Mutex
	w     io.Writer
	level Level
}

// NewStream creates a tracer that writes text lines to w at the given level.
func NewStream(w io.Writer, level Level) Tracer {
	if level == LevelOff {
		return Nop
	}
	return &streamTracer{w: w, level: level}
}

func (t *streamTracer) Emit(ev Event) {
	if !t.level.ShouldEmit(ev.Scope) {
		return
	}
	if ev.Time.IsZero() {
		ev.Time = time.Now()
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if ev.Detail != "" {
		fmt.Fprintf(t.w, "%s [%s] %s: %s\n", ev.Time.Format("15:04:05.000"), ev.Scope, ev.Name, ev.Detail)
		return
	}
	fmt.Fprintf(t.w, "%s [%s] %s\n", ev.Time.Format("15:04:05.000"), ev.Scope, ev.Name)
}

func (t *streamTracer) Level() Level  { return t.level }
func (t *streamTracer) Enabled() bool { return true }

// Pointf emits a formatted point event when the tracer level admits it.
func Pointf(tr Tracer, scope Scope, name, format string, args ...any) {
	if tr == nil || !tr.Enabled() || !tr.Level().ShouldEmit(scope) {
		return
	}
	tr.Emit(Event{Scope: scope, Name: name, Detail: fmt.Sprintf(format, args...)})
}
