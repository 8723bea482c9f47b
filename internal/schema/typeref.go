package schema

import (
	"fmt"
	"strings"

	"oogen/internal/ctype"
)

// Type references in descriptions are short C-like strings: "double",
// "unsigned int", "const void*", "struct Compartment**", "double[SIMUL_LEN]",
// "va_list*". ParseTypeRef lowers one of them into an interned descriptor.
func ParseTypeRef(types *ctype.Interner, ref string) (ctype.TypeID, error) {
	s := strings.TrimSpace(ref)
	if s == "" {
		return ctype.NoTypeID, fmt.Errorf("empty type reference")
	}

	// Array suffix binds last: "double[SIMUL_LEN]".
	if strings.HasSuffix(s, "]") {
		open := strings.LastIndexByte(s, '[')
		if open < 0 {
			return ctype.NoTypeID, fmt.Errorf("unbalanced %q", s)
		}
		length := strings.TrimSpace(s[open+1 : len(s)-1])
		elem, err := ParseTypeRef(types, s[:open])
		if err != nil {
			return ctype.NoTypeID, err
		}
		return types.Intern(ctype.MakeArray(elem, length)), nil
	}

	depth := 0
	for strings.HasSuffix(s, "*") {
		s = strings.TrimSpace(strings.TrimSuffix(s, "*"))
		depth++
	}

	isConst := false
	if rest, ok := strings.CutPrefix(s, "const "); ok {
		isConst = true
		s = strings.TrimSpace(rest)
	}
	if s == "" {
		return ctype.NoTypeID, fmt.Errorf("missing base type in %q", ref)
	}
	if !validBase(s) {
		return ctype.NoTypeID, fmt.Errorf("malformed base type %q", s)
	}

	var base ctype.TypeID
	switch {
	case s == "void":
		base = types.Builtins().Void
	case s == "va_list":
		base = types.Builtins().VarArgs
	case s == "struct":
		return ctype.NoTypeID, fmt.Errorf("missing struct tag in %q", ref)
	case strings.HasPrefix(s, "struct "):
		tag := strings.TrimSpace(strings.TrimPrefix(s, "struct "))
		if tag == "" {
			return ctype.NoTypeID, fmt.Errorf("missing struct tag in %q", ref)
		}
		if isConst {
			base = types.Intern(ctype.MakeConstStruct(tag))
		} else {
			base = types.Intern(ctype.MakeStruct(tag))
		}
		isConst = false
	default:
		if isConst {
			base = types.Intern(ctype.MakeConstScalar(s))
		} else {
			base = types.Intern(ctype.MakeScalar(s))
		}
		isConst = false
	}

	id := base
	for i := 0; i < depth; i++ {
		// "const void*" qualifies the pointee; the qualifier rides on the
		// innermost pointer so the spelling round-trips.
		if i == 0 && isConst {
			id = types.Intern(ctype.MakeConstPointer(id))
			continue
		}
		id = types.Intern(ctype.MakePointer(id))
	}
	if isConst && depth == 0 {
		return ctype.NoTypeID, fmt.Errorf("const void is not a usable type")
	}
	return id, nil
}

func validBase(s string) bool {
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '_', r == ' ':
		default:
			return false
		}
	}
	return true
}
