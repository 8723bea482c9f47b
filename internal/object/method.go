package object

import (
	"fmt"

	"oogen/internal/ctype"
)

// MethodKind enumerates how a declared method is interpreted.
type MethodKind uint8

const (
	// MethodInstance is an ordinary dispatchable method whose body is a
	// translatable description.
	MethodInstance MethodKind = iota
	// MethodVerbatim is a dispatchable method whose body is literal C text.
	MethodVerbatim
	// MethodClassInternal is a bootstrap method used by class construction
	// itself; it never becomes an object-visible dispatch slot.
	MethodClassInternal
)

func (k MethodKind) String() string {
	switch k {
	case MethodInstance:
		return "instance"
	case MethodVerbatim:
		return "verbatim"
	case MethodClassInternal:
		return "class-internal"
	default:
		return fmt.Sprintf("MethodKind(%d)", k)
	}
}

// Param is one named parameter of a method signature.
type Param struct {
	Name string
	Type ctype.TypeID
}

// Signature is an ordered parameter list plus a return type.
type Signature struct {
	Params []Param
	Return ctype.TypeID
}

// Compatible reports whether two signatures agree on parameter and return
// types. Parameter names are not part of slot identity.
func (s Signature) Compatible(other Signature) bool {
	if s.Return != other.Return {
		return false
	}
	if len(s.Params) != len(other.Params) {
		return false
	}
	for i := range s.Params {
		if s.Params[i].Type != other.Params[i].Type {
			return false
		}
	}
	return true
}

// WithLeadingParam returns a copy of the signature with one extra parameter
// inserted before all existing ones.
func (s Signature) WithLeadingParam(p Param) Signature {
	params := make([]Param, 0, len(s.Params)+1)
	params = append(params, p)
	params = append(params, s.Params...)
	return Signature{Params: params, Return: s.Return}
}

// BodyForm discriminates the representations a method body can take.
type BodyForm uint8

const (
	// BodyNone marks a declaration with no body yet (filled later).
	BodyNone BodyForm = iota
	// BodyLiteral carries verbatim C text.
	BodyLiteral
	// BodyTranslatable carries a structured description for the body
	// translator collaborator.
	BodyTranslatable
	// BodyTemplate names a default-body template plus its parameters;
	// the emission engine renders it.
	BodyTemplate
)

// BodySource is the body representation of a method.
type BodySource struct {
	Form     BodyForm
	Literal  string
	Desc     string
	Template string
	Vars     map[string]string
}

// LiteralBody wraps verbatim C text.
func LiteralBody(text string) BodySource {
	return BodySource{Form: BodyLiteral, Literal: text}
}

// TranslatableBody wraps a body description for the translator.
func TranslatableBody(desc string) BodySource {
	return BodySource{Form: BodyTranslatable, Desc: desc}
}

// TemplateBody names a synthesized default body.
func TemplateBody(name string, vars map[string]string) BodySource {
	return BodySource{Form: BodyTemplate, Template: name, Vars: vars}
}

// MethodDescriptor is one declared (or synthesized) method.
type MethodDescriptor struct {
	Name string
	Kind MethodKind
	Sig  Signature
	Body BodySource
}

// NeedsLiteralBody reports whether this method kind requires verbatim text.
func (m MethodDescriptor) NeedsLiteralBody() bool {
	return m.Kind == MethodVerbatim || m.Kind == MethodClassInternal
}
