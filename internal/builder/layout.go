package builder

import (
	"oogen/internal/ctype"
	"oogen/internal/diag"
	"oogen/internal/object"
)

// buildLayouts computes the instance and vtable layouts for one class.
//
// Every non-root layout begins with a single embedded copy of the
// superclass's full layout, which is the structural-prefix property that
// makes upcast-by-reinterpretation safe at any chain depth. The root is the
// exception: its instance layout holds only the dispatch-table
// back-reference, and its vtable carries the fixed bookkeeping prefix ahead
// of the lifecycle slots.
func (b *Builder) buildLayouts(
	name, className string,
	super *object.ClassModel,
	ownFields []object.FieldDescriptor,
	ownSlots []object.SlotEntry,
) (*object.StructLayout, *object.StructLayout, error) {
	if err := b.checkFieldNames(name, super, ownFields); err != nil {
		return nil, nil, err
	}

	instance := &object.StructLayout{StructName: name}
	vtable := &object.StructLayout{StructName: className}

	classPtr := b.Types.Intern(ctype.MakePointer(
		b.Types.Intern(ctype.MakeConstStruct(className))))

	if super == nil {
		// Root instance: a single back-reference to the dispatch table.
		rootClassPtr := b.Types.Intern(ctype.MakePointer(
			b.Types.Intern(ctype.MakeConstStruct(className))))
		instance.Elems = append(instance.Elems, object.Element{
			Kind: object.ElemClassRef,
			Name: "mclass",
			Type: rootClassPtr,
		})

		// Root vtable bookkeeping: the class is itself an object, so it
		// embeds the instance record, then carries the superclass pointer
		// (null for the root), the accelerator mirror pointer (null until
		// mirrored) and the instance byte size.
		vtable.Elems = append(vtable.Elems,
			object.Element{Kind: object.ElemEmbed, Name: "_", Embed: instance},
			object.Element{Kind: object.ElemClassRef, Name: "super", Type: classPtr},
			object.Element{Kind: object.ElemClassRef, Name: "device_class", Type: classPtr},
			object.Element{Kind: object.ElemSize, Name: "size", Type: b.Types.Builtins().SizeT},
		)
	} else {
		instance.Elems = append(instance.Elems, object.Element{
			Kind:  object.ElemEmbed,
			Name:  "_",
			Embed: super.Instance,
		})
		vtable.Elems = append(vtable.Elems, object.Element{
			Kind:  object.ElemEmbed,
			Name:  "_",
			Embed: super.VTable,
		})
	}

	for _, f := range ownFields {
		instance.Elems = append(instance.Elems, object.Element{
			Kind: object.ElemField,
			Name: f.Name,
			Type: f.Type,
		})
	}

	// New slots only; overrides never add vtable members.
	for _, s := range ownSlots {
		vtable.Elems = append(vtable.Elems, object.Element{
			Kind: object.ElemSlot,
			Name: string(s.Slot),
			Sig:  s.Sig,
		})
	}

	return instance, vtable, nil
}

// checkFieldNames rejects duplicate names within the class's own field list
// and collisions against any ancestor's fields. The generated C gives a
// shadowed field no addressable meaning, so cross-chain collisions are
// treated as configuration errors rather than silent shadowing.
func (b *Builder) checkFieldNames(class string, super *object.ClassModel, ownFields []object.FieldDescriptor) error {
	seen := make(map[string]struct{}, len(ownFields))
	for _, f := range ownFields {
		if _, dup := seen[f.Name]; dup {
			return configErrf(diag.CfgDuplicateField, class, f.Name,
				"field %q declared more than once", f.Name)
		}
		seen[f.Name] = struct{}{}
	}
	for p := super; p != nil; p = p.Super {
		for _, f := range p.OwnFields {
			if _, clash := seen[f.Name]; clash {
				return configErrf(diag.CfgFieldShadowsChain, class, f.Name,
					"field %q collides with a field of ancestor %q", f.Name, p.Name)
			}
		}
	}
	return nil
}
