package ctype

import "testing"

func TestInternerBuiltins(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	if b.Void == NoTypeID || b.Double == NoTypeID {
		t.Fatalf("builtins not initialized")
	}
	void, _ := in.Lookup(b.Void)
	if void.Kind != KindVoid {
		t.Fatalf("expected void kind, got %v", void.Kind)
	}
	vp := in.MustLookup(b.VoidPtr)
	if vp.Kind != KindPointer || vp.Elem != b.Void {
		t.Fatalf("void pointer not built over void")
	}
}

func TestInternerDeduplicatesDescriptors(t *testing.T) {
	in := NewInterner()
	d1 := in.Intern(MakeScalar("double"))
	d2 := in.Intern(MakeScalar("double"))
	if d1 != d2 {
		t.Fatalf("identical scalars should be deduplicated")
	}
	if d1 != in.Builtins().Double {
		t.Fatalf("double should resolve to the seeded builtin")
	}
	p1 := in.Intern(MakePointer(d1))
	p2 := in.Intern(MakePointer(d1))
	if p1 != p2 {
		t.Fatalf("pointer descriptors should be deduplicated")
	}
}

func TestConstAffectsIdentity(t *testing.T) {
	in := NewInterner()
	plain := in.Intern(MakeScalar("int"))
	constant := in.Intern(MakeConstScalar("int"))
	if plain == constant {
		t.Fatalf("const and non-const scalars must differ")
	}
}

func TestIsVoidNonPointer(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	if !in.IsVoidNonPointer(b.Void) {
		t.Fatalf("void should be void-non-pointer")
	}
	if in.IsVoidNonPointer(b.VoidPtr) {
		t.Fatalf("void* must not count as void-non-pointer")
	}
	if in.IsVoidNonPointer(b.Int) {
		t.Fatalf("int must not count as void-non-pointer")
	}
}
