package object

import "oogen/internal/ctype"

// ElementKind discriminates what occupies one position of a struct layout.
type ElementKind uint8

const (
	// ElemEmbed is a by-value embedded copy of the superclass's full layout.
	ElemEmbed ElementKind = iota
	// ElemField is an instance-state field.
	ElemField
	// ElemSlot is a function-pointer vtable slot.
	ElemSlot
	// ElemClassRef is a pointer to a class record (the root instance
	// back-reference and the vtable bookkeeping pointers).
	ElemClassRef
	// ElemSize is the instance-byte-size bookkeeping field of a root vtable.
	ElemSize
)

// Element is one ordered member of a struct layout.
type Element struct {
	Kind ElementKind
	Name string
	// Type is set for ElemField, ElemClassRef and ElemSize members.
	Type ctype.TypeID
	// Sig is set for ElemSlot members.
	Sig Signature
	// Embed is set for ElemEmbed members and references the superclass's
	// finished layout. It is shared, never copied.
	Embed *StructLayout
}

// StructLayout is the ordered member list of a generated struct.
type StructLayout struct {
	// StructName is the C tag, e.g. "Neuron" or "NeuronClass".
	StructName string
	Elems      []Element
}

// EmbeddedPrefix returns the embedded superclass layout when the first
// element is an embed, nil otherwise.
func (l *StructLayout) EmbeddedPrefix() *StructLayout {
	if l == nil || len(l.Elems) == 0 || l.Elems[0].Kind != ElemEmbed {
		return nil
	}
	return l.Elems[0].Embed
}

// HasPrefix reports the structural prefix property: the layout begins with
// a single embedded element whose shape equals super's full layout.
func (l *StructLayout) HasPrefix(super *StructLayout) bool {
	prefix := l.EmbeddedPrefix()
	return prefix != nil && prefix.Equal(super)
}

// Equal compares two layouts structurally, recursing through embeds.
func (l *StructLayout) Equal(other *StructLayout) bool {
	if l == nil || other == nil {
		return l == other
	}
	if l.StructName != other.StructName || len(l.Elems) != len(other.Elems) {
		return false
	}
	for i := range l.Elems {
		a, b := l.Elems[i], other.Elems[i]
		if a.Kind != b.Kind || a.Name != b.Name || a.Type != b.Type {
			return false
		}
		if a.Kind == ElemSlot && !a.Sig.Compatible(b.Sig) {
			return false
		}
		if a.Kind == ElemEmbed && !a.Embed.Equal(b.Embed) {
			return false
		}
	}
	return true
}

// SlotNames returns the names of this layout's own function-pointer slots,
// in order, excluding anything contributed by the embedded prefix.
func (l *StructLayout) SlotNames() []string {
	if l == nil {
		return nil
	}
	var names []string
	for _, e := range l.Elems {
		if e.Kind == ElemSlot {
			names = append(names, e.Name)
		}
	}
	return names
}

// FieldNames returns the names of this layout's own fields, in order.
func (l *StructLayout) FieldNames() []string {
	if l == nil {
		return nil
	}
	var names []string
	for _, e := range l.Elems {
		if e.Kind == ElemField {
			names = append(names, e.Name)
		}
	}
	return names
}
