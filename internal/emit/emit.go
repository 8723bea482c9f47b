// Package emit renders finished class models into C artifacts: one header,
// one source file and, when accelerator support is requested, one device
// header per class. This is the only package that produces program text;
// everything upstream stays structural.
package emit

import (
	"context"
	"fmt"
	"strings"

	"oogen/internal/ctype"
	"oogen/internal/diag"
	"oogen/internal/object"
	"oogen/internal/trace"
)

// Artifact is one generated output file.
type Artifact struct {
	Name string
	Data []byte
}

// Emitter renders class models. It is stateless between classes and safe to
// reuse for a whole compilation run.
type Emitter struct {
	Types      *ctype.Interner
	Translator BodyTranslator
	Tracer     trace.Tracer
}

// New constructs an emitter. A nil translator defaults to passing method
// descriptions through as literal C.
func New(types *ctype.Interner, translator BodyTranslator, tracer trace.Tracer) *Emitter {
	if translator == nil {
		translator = PassthroughTranslator{}
	}
	if tracer == nil {
		tracer = trace.Nop
	}
	return &Emitter{Types: types, Translator: translator, Tracer: tracer}
}

// Class renders all artifacts for one finished model. A body that fails to
// resolve aborts this class only; the caller decides what happens to the
// rest of the chain.
func (e *Emitter) Class(ctx context.Context, model *object.ClassModel, accel bool) ([]Artifact, error) {
	if model == nil || !model.Finished() {
		return nil, emitErrf(diag.EmtUnresolved, "", "", "emit of an unfinished class model")
	}
	trace.Pointf(e.Tracer, trace.ScopeClass, "emit:"+model.Name, "accel=%v", accel)

	artifacts := make([]Artifact, 0, 3)
	artifacts = append(artifacts, Artifact{Name: model.Name + ".h", Data: e.header(model)})

	src, err := e.source(ctx, model, accel)
	if err != nil {
		return nil, err
	}
	artifacts = append(artifacts, Artifact{Name: model.Name + ".c", Data: src})

	if accel {
		artifacts = append(artifacts, Artifact{Name: model.Name + ".cuh", Data: e.accelHeader(model)})
	}
	return artifacts, nil
}

// resolveBody turns one method descriptor's body into C statements.
func (e *Emitter) resolveBody(ctx context.Context, model *object.ClassModel, m object.MethodDescriptor) (string, error) {
	switch m.Body.Form {
	case object.BodyLiteral:
		return m.Body.Literal, nil
	case object.BodyTranslatable:
		text, err := e.Translator.Translate(ctx, m.Body.Desc)
		if err != nil {
			return "", &TranslationError{Class: model.Name, Method: m.Name, Err: err}
		}
		return text, nil
	case object.BodyTemplate:
		return e.renderDefault(model, m)
	default:
		return "", emitErrf(diag.EmtUnresolved, model.Name, m.Name, "method has no body")
	}
}

// cw is a minimal line-oriented code writer.
type cw struct {
	sb strings.Builder
}

func (w *cw) line(s string) {
	w.sb.WriteString(s)
	w.sb.WriteByte('\n')
}

func (w *cw) linef(format string, args ...any) {
	fmt.Fprintf(&w.sb, format, args...)
	w.sb.WriteByte('\n')
}

func (w *cw) blank() {
	w.sb.WriteByte('\n')
}

func (w *cw) bytes() []byte {
	return []byte(w.sb.String())
}

// slotMethod recovers the method name from a vtable slot field name.
func slotMethod(slotName string) string {
	return strings.TrimPrefix(slotName, "my_")
}

// clsSelector maps a class-internal bootstrap method to the lifecycle
// selector it binds onto.
func clsSelector(name string) string {
	return strings.TrimPrefix(name, "cls_")
}

// structDef renders one struct definition from its layout.
func (e *Emitter) structDef(w *cw, l *object.StructLayout) {
	w.linef("struct %s", l.StructName)
	w.line("{")
	for _, el := range l.Elems {
		switch el.Kind {
		case object.ElemEmbed:
			w.linef("    const struct %s _;", el.Embed.StructName)
		case object.ElemSlot:
			w.linef("    %s %s;", typedefName(slotMethod(el.Name)), el.Name)
		default:
			w.linef("    %s;", declOf(e.Types, el.Type, el.Name))
		}
	}
	w.line("};")
}
