package trace

import (
	"bytes"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]Level{
		"off": LevelOff, "phase": LevelPhase, "class": LevelClass, "DEBUG": LevelDebug,
	} {
		got, err := ParseLevel(in)
		if err != nil || got != want {
			t.Errorf("ParseLevel(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseLevel("verbose"); err == nil {
		t.Error("unknown level accepted")
	}
}

func TestLevelScoping(t *testing.T) {
	if LevelPhase.ShouldEmit(ScopeClass) {
		t.Error("phase level admitted class scope")
	}
	if !LevelClass.ShouldEmit(ScopePipeline) || !LevelDebug.ShouldEmit(ScopeMember) {
		t.Error("coarser scopes not admitted")
	}
	if LevelOff.ShouldEmit(ScopePipeline) {
		t.Error("off level emitted")
	}
}

func TestStreamTracerFiltersByScope(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStream(&buf, LevelClass)

	Pointf(tr, ScopeClass, "build:Neuron", "superclass=%q", "Object")
	Pointf(tr, ScopeMember, "classify:Neuron", "skipped")

	out := buf.String()
	if !strings.Contains(out, "build:Neuron") {
		t.Errorf("class event missing from output: %q", out)
	}
	if strings.Contains(out, "classify:Neuron") {
		t.Errorf("member event leaked at class level: %q", out)
	}
}

func TestOffLevelIsNop(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStream(&buf, LevelOff)
	if tr != Nop {
		t.Error("off-level stream is not the nop tracer")
	}
	Pointf(tr, ScopePipeline, "run", "start")
	Pointf(nil, ScopePipeline, "run", "nil tracer must be safe")
	if buf.Len() != 0 {
		t.Errorf("nop tracer wrote %q", buf.String())
	}
}
