package ctype

import (
	"fmt"

	"fortio.org/safecast"
)

// Builtins stores TypeIDs for the primitive types every description can use.
type Builtins struct {
	Invalid      TypeID
	Void         TypeID
	VoidPtr      TypeID
	Int          TypeID
	UInt         TypeID
	Double       TypeID
	SizeT        TypeID
	VarArgs      TypeID
	ConstVoidPtr TypeID
}

// Interner provides stable TypeIDs by hashing structural descriptors.
// It is populated once at process start and read-only afterwards.
type Interner struct {
	types    []Type
	index    map[Type]TypeID
	builtins Builtins
}

// NewInterner constructs an interner seeded with built-in primitives.
func NewInterner() *Interner {
	in := &Interner{
		index: make(map[Type]TypeID, 32),
	}
	in.builtins.Invalid = in.internRaw(Type{Kind: KindInvalid})
	in.builtins.Void = in.Intern(Type{Kind: KindVoid})
	in.builtins.VoidPtr = in.Intern(MakePointer(in.builtins.Void))
	in.builtins.Int = in.Intern(MakeScalar("int"))
	in.builtins.UInt = in.Intern(MakeScalar("unsigned int"))
	in.builtins.Double = in.Intern(MakeScalar("double"))
	in.builtins.SizeT = in.Intern(MakeScalar("size_t"))
	in.builtins.VarArgs = in.Intern(Type{Kind: KindVariadic, Base: "va_list"})
	in.builtins.ConstVoidPtr = in.Intern(MakeConstPointer(in.builtins.Void))
	return in
}

// Builtins returns TypeIDs for primitive types.
func (in *Interner) Builtins() Builtins {
	return in.builtins
}

// Intern ensures the provided descriptor has a stable TypeID.
func (in *Interner) Intern(t Type) TypeID {
	if t.Kind == KindInvalid {
		return NoTypeID
	}
	if id, ok := in.index[t]; ok {
		return id
	}
	return in.internRaw(t)
}

// internRaw adds the descriptor to the storage without consulting the map.
func (in *Interner) internRaw(t Type) TypeID {
	lenTypes, err := safecast.Conv[uint32](len(in.types))
	if err != nil {
		panic(fmt.Errorf("len(types) overflow: %w", err))
	}
	id := TypeID(lenTypes)
	in.types = append(in.types, t)
	in.index[t] = id
	return id
}

// Lookup returns the descriptor for a TypeID.
func (in *Interner) Lookup(id TypeID) (Type, bool) {
	if id == NoTypeID || int(id) >= len(in.types) {
		return Type{}, false
	}
	return in.types[id], true
}

// MustLookup panics when id is invalid.
func (in *Interner) MustLookup(id TypeID) Type {
	tt, ok := in.Lookup(id)
	if !ok {
		panic("ctype: invalid TypeID")
	}
	return tt
}

// IsVoidNonPointer reports whether id is plain void (not a pointer to void).
// Delegator bodies use this to decide between bare and value returns.
func (in *Interner) IsVoidNonPointer(id TypeID) bool {
	tt, ok := in.Lookup(id)
	return ok && tt.Kind == KindVoid
}
