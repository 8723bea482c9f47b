// Package schema loads declarative class descriptions and the project
// manifest from TOML. Loading is purely syntactic plus type-reference
// lowering; all semantic validation happens in the builder.
package schema

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"oogen/internal/builder"
	"oogen/internal/ctype"
	"oogen/internal/diag"
	"oogen/internal/object"
	"oogen/internal/trace"
)

type classDoc struct {
	Name       string      `toml:"name"`
	Superclass any         `toml:"superclass"`
	Fields     []fieldDoc  `toml:"field"`
	Methods    []methodDoc `toml:"method"`
}

type fieldDoc struct {
	Name string `toml:"name"`
	Type string `toml:"type"`
	Init string `toml:"init"`
}

type methodDoc struct {
	Name   string     `toml:"name"`
	Kind   string     `toml:"kind"`
	Return string     `toml:"return"`
	Body   string     `toml:"body"`
	Params []paramDoc `toml:"param"`
}

type paramDoc struct {
	Name string `toml:"name"`
	Type string `toml:"type"`
}

// Loader turns description documents into class descriptions.
type Loader struct {
	Types  *ctype.Interner
	Tracer trace.Tracer
}

// NewLoader constructs a loader over the shared type interner.
func NewLoader(types *ctype.Interner, tracer trace.Tracer) *Loader {
	if tracer == nil {
		tracer = trace.Nop
	}
	return &Loader{Types: types, Tracer: tracer}
}

// LoadFile reads one description document from disk.
func (l *Loader) LoadFile(path string) (*object.ClassDescription, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read description: %w", err)
	}
	return l.Parse(path, data)
}

// Parse decodes one description document. The origin is used for error
// attribution only.
func (l *Loader) Parse(origin string, data []byte) (*object.ClassDescription, error) {
	var doc classDoc
	meta, err := toml.Decode(string(data), &doc)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", origin, err)
	}
	if !meta.IsDefined("name") || doc.Name == "" {
		return nil, fmt.Errorf("%s: missing class name", origin)
	}

	super, err := superclassOf(doc)
	if err != nil {
		return nil, err
	}

	desc := &object.ClassDescription{Name: doc.Name, Superclass: super}

	for _, f := range doc.Fields {
		id, err := ParseTypeRef(l.Types, f.Type)
		if err != nil {
			return nil, &builder.ConfigError{
				Code: diag.CfgBadTypeRef, Class: doc.Name, Member: f.Name,
				Msg: fmt.Sprintf("field type %q: %v", f.Type, err),
			}
		}
		desc.Fields = append(desc.Fields, object.FieldDescriptor{
			Name: f.Name,
			Type: id,
			Init: f.Init,
		})
	}

	for _, m := range doc.Methods {
		md, ok, err := l.method(doc.Name, m)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		desc.Methods = append(desc.Methods, md)
	}
	return desc, nil
}

// superclassOf accepts either a single name or a one-element list. Multiple
// superclasses were never part of the model; a longer list is rejected
// outright instead of silently taking the first entry.
func superclassOf(doc classDoc) (string, error) {
	switch v := doc.Superclass.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case []any:
		if len(v) == 0 {
			return "", nil
		}
		if len(v) > 1 {
			return "", &builder.ConfigError{
				Code: diag.CfgMultipleSuperclass, Class: doc.Name,
				Msg: fmt.Sprintf("class declares %d superclasses; single inheritance only", len(v)),
			}
		}
		s, ok := v[0].(string)
		if !ok {
			return "", &builder.ConfigError{
				Code: diag.CfgUnknownSuperclass, Class: doc.Name,
				Msg: fmt.Sprintf("superclass entry is %T, want string", v[0]),
			}
		}
		return s, nil
	default:
		return "", &builder.ConfigError{
			Code: diag.CfgUnknownSuperclass, Class: doc.Name,
			Msg: fmt.Sprintf("superclass is %T, want string", v),
		}
	}
}

// method lowers one method document. Unknown kinds are not errors: they are
// traced and skipped so a description written for a newer generator version
// degrades instead of failing.
func (l *Loader) method(class string, m methodDoc) (object.MethodDescriptor, bool, error) {
	var kind object.MethodKind
	switch m.Kind {
	case "", "instance":
		kind = object.MethodInstance
	case "verbatim":
		kind = object.MethodVerbatim
	case "class-internal":
		kind = object.MethodClassInternal
	default:
		trace.Pointf(l.Tracer, trace.ScopeMember, "schema:"+class,
			"skipping method %q: unknown kind %q", m.Name, m.Kind)
		return object.MethodDescriptor{}, false, nil
	}

	sig := object.Signature{Return: l.Types.Builtins().Void}
	if m.Return != "" {
		ret, err := ParseTypeRef(l.Types, m.Return)
		if err != nil {
			return object.MethodDescriptor{}, false, &builder.ConfigError{
				Code: diag.CfgBadTypeRef, Class: class, Member: m.Name,
				Msg: fmt.Sprintf("return type %q: %v", m.Return, err),
			}
		}
		sig.Return = ret
	}
	for _, p := range m.Params {
		id, err := ParseTypeRef(l.Types, p.Type)
		if err != nil {
			return object.MethodDescriptor{}, false, &builder.ConfigError{
				Code: diag.CfgBadTypeRef, Class: class, Member: m.Name,
				Msg: fmt.Sprintf("parameter %q type %q: %v", p.Name, p.Type, err),
			}
		}
		sig.Params = append(sig.Params, object.Param{Name: p.Name, Type: id})
	}

	body := object.TranslatableBody(m.Body)
	if kind != object.MethodInstance {
		body = object.LiteralBody(m.Body)
	}
	return object.MethodDescriptor{Name: m.Name, Kind: kind, Sig: sig, Body: body}, true, nil
}
