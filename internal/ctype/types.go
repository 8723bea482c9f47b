package ctype

import "fmt"

// TypeID uniquely identifies a type descriptor inside the interner.
type TypeID uint32

// NoTypeID marks the absence of a type.
const NoTypeID TypeID = 0

// Kind enumerates the supported descriptor shapes.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindVoid
	KindScalar
	KindPointer
	KindArray
	KindVariadic
	KindStruct
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindVoid:
		return "void"
	case KindScalar:
		return "scalar"
	case KindPointer:
		return "pointer"
	case KindArray:
		return "array"
	case KindVariadic:
		return "variadic"
	case KindStruct:
		return "struct"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Type is a compact descriptor for any supported C-facing type.
// Descriptors are immutable once interned and shared by TypeID.
type Type struct {
	Kind  Kind
	Base  string // scalar base identifier ("double", "size_t", ...)
	Elem  TypeID // pointee/element for pointer and array kinds
	Len   string // symbolic array length ("" means incomplete)
	Const bool
}

// Descriptor helpers ---------------------------------------------------------

// MakeScalar describes a named base type.
func MakeScalar(base string) Type {
	return Type{Kind: KindScalar, Base: base}
}

// MakeConstScalar describes a const-qualified base type.
func MakeConstScalar(base string) Type {
	return Type{Kind: KindScalar, Base: base, Const: true}
}

// MakePointer describes a pointer to elem.
func MakePointer(elem TypeID) Type {
	return Type{Kind: KindPointer, Elem: elem}
}

// MakeConstPointer describes a const-qualified pointer to elem.
func MakeConstPointer(elem TypeID) Type {
	return Type{Kind: KindPointer, Elem: elem, Const: true}
}

// MakeArray describes an array of elem with a symbolic length. An empty
// length produces an incomplete array type.
func MakeArray(elem TypeID, length string) Type {
	return Type{Kind: KindArray, Elem: elem, Len: length}
}

// MakeStruct describes a named struct by tag only; member layout is owned
// by the class model, not the type descriptor.
func MakeStruct(tag string) Type {
	return Type{Kind: KindStruct, Base: tag}
}

// MakeConstStruct describes a const-qualified named struct.
func MakeConstStruct(tag string) Type {
	return Type{Kind: KindStruct, Base: tag, Const: true}
}
