// Package builder implements the class-model compiler core: layout
// building, method classification and slot allocation, delegator synthesis
// and lifecycle default filling. A class is built only after its superclass
// is fully built; the pipeline enforces dependency order, this package
// enforces it again per call.
package builder

import (
	"unicode"

	"oogen/internal/ctype"
	"oogen/internal/diag"
	"oogen/internal/object"
	"oogen/internal/trace"
)

// Builder compiles class descriptions into finished class models. The type
// interner is shared, read-only configuration; the builder itself holds no
// per-class state, so one builder serves a whole compilation run.
type Builder struct {
	Types  *ctype.Interner
	Tracer trace.Tracer
}

// New constructs a builder over the given interner.
func New(types *ctype.Interner, tracer trace.Tracer) *Builder {
	if tracer == nil {
		tracer = trace.Nop
	}
	return &Builder{Types: types, Tracer: tracer}
}

// BuildClass compiles one class description against its finished
// superclass model (nil only for the root). This is the explicit entry
// point replacing any definition-time side effects: calling code drives
// the whole pipeline.
func (b *Builder) BuildClass(desc *object.ClassDescription, super *object.ClassModel) (*object.ClassModel, error) {
	if desc == nil {
		return nil, configErrf(diag.UnknownCode, "", "", "missing class description")
	}
	name := desc.Name
	className := name + "Class"
	trace.Pointf(b.Tracer, trace.ScopeClass, "build:"+name, "superclass=%q", desc.Superclass)

	if err := b.checkSuperclass(desc, super); err != nil {
		return nil, err
	}
	if !validIdent(name) {
		return nil, configErrf(diag.CfgBadMethodName, name, "",
			"class name %q is not a valid identifier", name)
	}

	declared := make([]object.MethodDescriptor, 0, len(desc.Methods)+8)
	declared = append(declared, desc.Methods...)
	if super == nil {
		declared = b.mergeRootCanonical(name, className, declared)
	}
	for i, m := range declared {
		declared[i] = b.normalizeReceiver(m)
	}
	if err := b.checkMethods(name, declared); err != nil {
		return nil, err
	}

	cls, err := b.classify(name, super, declared)
	if err != nil {
		return nil, err
	}

	// Slots introduced by this class are the tail the classifier appended
	// beyond the inherited table.
	inherited := 0
	if super != nil {
		inherited = super.Slots.Len()
	}
	ownSlots := cls.slots.Entries()[inherited:]

	instance, vtable, err := b.buildLayouts(name, className, super, desc.Fields, ownSlots)
	if err != nil {
		return nil, err
	}

	model := &object.ClassModel{
		Name:       name,
		ClassName:  className,
		Super:      super,
		OwnFields:  desc.Fields,
		OwnMethods: cls.own,
		Instance:   instance,
		VTable:     vtable,
		Slots:      cls.slots,
	}

	// Delegator and super-delegator are synthesized exactly once, at the
	// introducing class; overrides never regenerate them.
	for _, m := range cls.own {
		d, sd := b.synthesize(m, name)
		model.Delegators = append(model.Delegators, d)
		model.SuperDelegators = append(model.SuperDelegators, sd)
	}

	model.Methods = b.fillDefaults(model, declared)
	model.Finish()
	return model, nil
}

func (b *Builder) checkSuperclass(desc *object.ClassDescription, super *object.ClassModel) error {
	switch {
	case desc.IsRoot() && super != nil:
		return configErrf(diag.CfgUnknownSuperclass, desc.Name, "",
			"description designates a root class but a superclass model was supplied")
	case !desc.IsRoot() && super == nil:
		return configErrf(diag.CfgUnknownSuperclass, desc.Name, "",
			"superclass %q has no finished model", desc.Superclass)
	case super != nil && super.Name != desc.Superclass:
		return configErrf(diag.CfgUnknownSuperclass, desc.Name, "",
			"superclass model is %q, description names %q", super.Name, desc.Superclass)
	case super != nil && !super.Finished():
		return configErrf(diag.CfgUnfinishedSuper, desc.Name, "",
			"superclass %q is not a finished class model", desc.Superclass)
	}
	return nil
}

func (b *Builder) checkMethods(class string, methods []object.MethodDescriptor) error {
	seen := make(map[string]struct{}, len(methods))
	for _, m := range methods {
		if _, dup := seen[m.Name]; dup {
			return configErrf(diag.CfgBadMethodName, class, m.Name,
				"method %q declared more than once", m.Name)
		}
		seen[m.Name] = struct{}{}
		if !validIdent(m.Name) {
			return configErrf(diag.CfgBadMethodName, class, m.Name,
				"method name %q is not a valid identifier", m.Name)
		}
		if m.NeedsLiteralBody() && m.Body.Form == object.BodyLiteral && m.Body.Literal == "" {
			return configErrf(diag.CfgEmptyVerbatimBody, class, m.Name,
				"verbatim method has an empty body")
		}
		if m.Kind == object.MethodVerbatim && m.Body.Form != object.BodyLiteral {
			return configErrf(diag.CfgEmptyVerbatimBody, class, m.Name,
				"verbatim method must carry a literal body")
		}
	}
	return nil
}

func validIdent(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		if r > unicode.MaxASCII {
			return false
		}
		if i == 0 && r != '_' && !unicode.IsLetter(r) {
			return false
		}
		if i > 0 && r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
