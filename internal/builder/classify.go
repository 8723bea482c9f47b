package builder

import (
	"oogen/internal/diag"
	"oogen/internal/object"
	"oogen/internal/trace"
)

// classification is the result of walking one class's declared methods
// against the ancestor slot table.
type classification struct {
	// own are the newly introduced dispatchable methods, in declaration
	// order. Overrides and class-internal methods are excluded.
	own []object.MethodDescriptor
	// slots is the chain-accumulated slot table: a clone of the
	// superclass's table plus one entry per new method. Inherited entries
	// are never removed or renumbered.
	slots *object.SlotTable
	// overrides maps method name to the inherited slot it rebinds.
	overrides map[string]object.SlotEntry
}

// classify decides, per declared method, override vs new-slot.
//
// Ancestor method names come exclusively from the superclass's slot table;
// the table already accumulates every introduction in the chain, so no
// ancestor re-walk is needed. The result depends only on (ancestor table,
// declared list); re-running on identical inputs yields identical slot
// identifiers.
func (b *Builder) classify(class string, super *object.ClassModel, declared []object.MethodDescriptor) (*classification, error) {
	var inherited *object.SlotTable
	if super != nil {
		inherited = super.Slots
	}

	res := &classification{
		slots:     inherited.Clone(),
		overrides: make(map[string]object.SlotEntry, 4),
	}

	for _, m := range declared {
		if m.Kind == object.MethodClassInternal {
			// Bootstrap methods bind onto the lifecycle slots at class
			// construction; they never introduce object-visible slots.
			trace.Pointf(b.Tracer, trace.ScopeMember, "classify:"+class,
				"%s is a class-internal bootstrap method", m.Name)
			continue
		}

		if entry, ok := res.slots.Lookup(m.Name); ok {
			// Override: reuse the inherited slot identity unchanged.
			if !m.Sig.Compatible(entry.Sig) {
				return nil, configErrf(diag.CfgSignatureMismatch, class, m.Name,
					"override of %q is incompatible with the slot introduced by %q",
					m.Name, entry.Owner)
			}
			res.overrides[m.Name] = entry
			continue
		}

		// New slot: the identifier is a pure function of the method name,
		// unique within the chain by construction.
		res.slots.Add(object.SlotEntry{
			Method:    m.Name,
			Slot:      object.SlotFor(m.Name),
			Sig:       m.Sig,
			Owner:     class,
			Lifecycle: super == nil && object.IsLifecycle(m.Name),
		})
		res.own = append(res.own, m)
	}

	return res, nil
}
