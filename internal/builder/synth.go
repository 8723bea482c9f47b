package builder

import (
	"oogen/internal/ctype"
	"oogen/internal/object"
)

// synthesize produces the public dispatch entry point and the
// explicit-superclass entry point for one newly introduced method. It runs
// exactly once per own method, at the introducing class; descendants
// reference the results and never regenerate them.
func (b *Builder) synthesize(m object.MethodDescriptor, owner string) (object.Delegator, object.SuperDelegator) {
	slot := object.SlotFor(m.Name)

	delegator := object.Delegator{
		Method: m.Name,
		Slot:   slot,
		Sig:    m.Sig,
		Owner:  owner,
	}

	// The super delegator takes one additional leading parameter: an
	// explicit vtable reference ahead of the receiver. Dispatch resolves
	// that vtable's statically-known superclass, so an override can reach
	// exactly one ancestor level without reentering dynamic dispatch.
	superSig := m.Sig.WithLeadingParam(object.Param{
		Name: "_class",
		Type: b.Types.Builtins().ConstVoidPtr,
	})
	superDelegator := object.SuperDelegator{
		Method: m.Name,
		Slot:   slot,
		Sig:    superSig,
		Owner:  owner,
	}

	return delegator, superDelegator
}

// receiverType is the first-parameter type shared by every dispatchable
// method.
func (b *Builder) receiverType() ctype.TypeID {
	return b.Types.Builtins().VoidPtr
}

// normalizeReceiver prepends the implicit receiver parameter when the
// declaration omits it. Descriptions list only the explicit parameters;
// the object model carries complete signatures.
func (b *Builder) normalizeReceiver(m object.MethodDescriptor) object.MethodDescriptor {
	if len(m.Sig.Params) > 0 && m.Sig.Params[0].Name == "self" {
		return m
	}
	m.Sig = m.Sig.WithLeadingParam(object.Param{Name: "self", Type: b.receiverType()})
	return m
}
