package schema

import (
	"testing"

	"oogen/internal/ctype"
)

func TestParseTypeRefScalars(t *testing.T) {
	types := ctype.NewInterner()

	id, err := ParseTypeRef(types, "double")
	if err != nil {
		t.Fatalf("double: %v", err)
	}
	if id != types.Builtins().Double {
		t.Fatalf("double did not intern to the builtin")
	}

	id, err = ParseTypeRef(types, "unsigned int")
	if err != nil {
		t.Fatalf("unsigned int: %v", err)
	}
	if id != types.Builtins().UInt {
		t.Fatalf("unsigned int did not intern to the builtin")
	}
}

func TestParseTypeRefPointers(t *testing.T) {
	types := ctype.NewInterner()

	id, err := ParseTypeRef(types, "void*")
	if err != nil {
		t.Fatalf("void*: %v", err)
	}
	if id != types.Builtins().VoidPtr {
		t.Fatalf("void* did not intern to the builtin")
	}

	id, err = ParseTypeRef(types, "const void*")
	if err != nil {
		t.Fatalf("const void*: %v", err)
	}
	if id != types.Builtins().ConstVoidPtr {
		t.Fatalf("const void* did not intern to the builtin")
	}

	id, err = ParseTypeRef(types, "va_list*")
	if err != nil {
		t.Fatalf("va_list*: %v", err)
	}
	tt := types.MustLookup(id)
	if tt.Kind != ctype.KindPointer {
		t.Fatalf("va_list* kind = %v", tt.Kind)
	}
	if elem := types.MustLookup(tt.Elem); elem.Kind != ctype.KindVariadic {
		t.Fatalf("va_list* pointee kind = %v", elem.Kind)
	}
}

func TestParseTypeRefStructsAndArrays(t *testing.T) {
	types := ctype.NewInterner()

	id, err := ParseTypeRef(types, "struct Compartment*")
	if err != nil {
		t.Fatalf("struct ptr: %v", err)
	}
	tt := types.MustLookup(id)
	if tt.Kind != ctype.KindPointer {
		t.Fatalf("struct ptr kind = %v", tt.Kind)
	}
	elem := types.MustLookup(tt.Elem)
	if elem.Kind != ctype.KindStruct || elem.Base != "Compartment" {
		t.Fatalf("struct ptr pointee = %+v", elem)
	}

	id, err = ParseTypeRef(types, "double[SIMUL_LEN]")
	if err != nil {
		t.Fatalf("array: %v", err)
	}
	tt = types.MustLookup(id)
	if tt.Kind != ctype.KindArray || tt.Len != "SIMUL_LEN" {
		t.Fatalf("array = %+v", tt)
	}
	if tt.Elem != types.Builtins().Double {
		t.Fatalf("array element is not double")
	}
}

func TestParseTypeRefRejectsGarbage(t *testing.T) {
	types := ctype.NewInterner()
	for _, bad := range []string{"", "const void", "double)", "struct ", "int[", "a;b"} {
		if _, err := ParseTypeRef(types, bad); err == nil {
			t.Fatalf("%q: want error", bad)
		}
	}
}
