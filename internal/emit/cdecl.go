package emit

import (
	"strings"

	"oogen/internal/ctype"
	"oogen/internal/object"
)

// C declaration spelling. Interned descriptors are turned back into source
// text only here; everything upstream works on TypeIDs.

// typePrefix returns the base spelling of a type and its pointer depth.
// A const qualifier on a pointer descriptor qualifies the pointee, matching
// how descriptions declare "const void*" receivers.
func typePrefix(types *ctype.Interner, id ctype.TypeID) (string, int) {
	t := types.MustLookup(id)
	switch t.Kind {
	case ctype.KindVoid:
		return "void", 0
	case ctype.KindScalar:
		if t.Const {
			return "const " + t.Base, 0
		}
		return t.Base, 0
	case ctype.KindStruct:
		if t.Const {
			return "const struct " + t.Base, 0
		}
		return "struct " + t.Base, 0
	case ctype.KindVariadic:
		return t.Base, 0
	case ctype.KindPointer:
		base, stars := typePrefix(types, t.Elem)
		if t.Const && !strings.HasPrefix(base, "const ") {
			base = "const " + base
		}
		return base, stars + 1
	default:
		return "void", 0
	}
}

// declOf spells one declaration, e.g. "const double dt", "void* self",
// "struct Compartment* comps[NUM_COMPS]". An empty name yields the bare
// type spelling for casts and va_arg.
func declOf(types *ctype.Interner, id ctype.TypeID, name string) string {
	t := types.MustLookup(id)
	if t.Kind == ctype.KindArray {
		base, stars := typePrefix(types, t.Elem)
		return base + strings.Repeat("*", stars) + " " + name + "[" + t.Len + "]"
	}
	base, stars := typePrefix(types, id)
	if name == "" {
		if stars > 0 {
			return base + strings.Repeat("*", stars)
		}
		return base
	}
	return base + strings.Repeat("*", stars) + " " + name
}

// paramList spells a signature's parameters as a comma-separated list.
func paramList(types *ctype.Interner, sig object.Signature) string {
	parts := make([]string, 0, len(sig.Params))
	for _, p := range sig.Params {
		parts = append(parts, declOf(types, p.Type, p.Name))
	}
	if len(parts) == 0 {
		return "void"
	}
	return strings.Join(parts, ", ")
}

// argList spells a signature's parameter names for a forwarded call.
func argList(sig object.Signature) string {
	parts := make([]string, 0, len(sig.Params))
	for _, p := range sig.Params {
		parts = append(parts, p.Name)
	}
	return strings.Join(parts, ", ")
}

// funcDecl spells a function declaration head without storage class,
// e.g. "double fire(void* self, const double dt)".
func funcDecl(types *ctype.Interner, name string, sig object.Signature) string {
	return declOf(types, sig.Return, "") + " " + name + "(" + paramList(types, sig) + ")"
}

// typedefName is the function-pointer typedef generated for one method.
func typedefName(method string) string {
	return method + "_t"
}

// typedefDecl spells the typedef introducing a method's pointer type.
func typedefDecl(types *ctype.Interner, method string, sig object.Signature) string {
	return "typedef " + declOf(types, sig.Return, "") +
		" (* " + typedefName(method) + ")(" + paramList(types, sig) + ")"
}
