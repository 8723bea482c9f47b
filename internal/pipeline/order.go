package pipeline

import (
	"fmt"

	"oogen/internal/ctype"
	"oogen/internal/diag"
	"oogen/internal/schema"
	"oogen/internal/trace"
)

// parseAll decodes every description, keeping the raw bytes for cache keys.
// A document that fails to parse is reported and dropped; the rest of the
// run continues.
func parseAll(types *ctype.Interner, tracer trace.Tracer, inputs []Input, bags *diag.Bag) []parsedInput {
	loader := schema.NewLoader(types, tracer)
	parsed := make([]parsedInput, 0, len(inputs))
	for _, in := range inputs {
		desc, err := loader.Parse(in.Origin, in.Data)
		if err != nil {
			addError(bags, in.Origin, err)
			continue
		}
		parsed = append(parsed, parsedInput{desc: desc, data: in.Data})
	}
	return parsed
}

// orderChain arranges descriptions so every class follows its superclass,
// with the single root first. Descriptions that cannot be placed (duplicate
// names, unknown superclasses, cycles) are reported and returned as dropped.
func orderChain(parsed []parsedInput, bags *diag.Bag) (ordered []parsedInput, dropped []string) {
	byName := make(map[string]parsedInput, len(parsed))
	var root string
	var unique []parsedInput

	for _, p := range parsed {
		name := p.desc.Name
		if _, dup := byName[name]; dup {
			bags.Add(diag.NewError(diag.CfgDuplicateClass, name, "",
				"class described more than once"))
			dropped = append(dropped, name)
			continue
		}
		byName[name] = p
		unique = append(unique, p)
		if p.desc.IsRoot() {
			if root == "" {
				root = name
			} else {
				bags.Add(diag.NewError(diag.CfgDuplicateClass, name, "",
					fmt.Sprintf("second root class; %q is already the root", root)))
			}
		}
	}
	if root == "" {
		if len(unique) > 0 {
			bags.Add(diag.NewError(diag.CfgMissingRoot, "", "",
				"no description declares the root class"))
		}
		for _, p := range unique {
			dropped = append(dropped, p.desc.Name)
		}
		return nil, dropped
	}

	children := make(map[string][]parsedInput, len(unique))
	for _, p := range unique {
		if p.desc.Name == root {
			continue
		}
		children[p.desc.Superclass] = append(children[p.desc.Superclass], p)
	}

	visited := make(map[string]bool, len(unique))
	queue := []parsedInput{byName[root]}
	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		if visited[p.desc.Name] {
			continue
		}
		visited[p.desc.Name] = true
		ordered = append(ordered, p)
		queue = append(queue, children[p.desc.Name]...)
	}

	for _, p := range unique {
		if visited[p.desc.Name] {
			continue
		}
		dropped = append(dropped, p.desc.Name)
		bags.Add(placementError(byName, visited, p))
	}
	return ordered, dropped
}

// placementError explains why one description never joined the chain.
func placementError(byName map[string]parsedInput, visited map[string]bool, p parsedInput) diag.Diagnostic {
	seen := map[string]bool{p.desc.Name: true}
	for cur := p.desc.Superclass; ; {
		next, ok := byName[cur]
		if !ok {
			return diag.NewError(diag.CfgUnknownSuperclass, p.desc.Name, "",
				fmt.Sprintf("superclass chain reaches undescribed class %q", cur))
		}
		if seen[cur] {
			return diag.NewError(diag.CfgInheritanceCycle, p.desc.Name, "",
				fmt.Sprintf("superclass chain cycles at %q", cur))
		}
		seen[cur] = true
		if visited[cur] {
			// Ancestors are fine; this description itself was skipped, which
			// only happens when an intermediate duplicate was dropped.
			return diag.NewError(diag.CfgUnknownSuperclass, p.desc.Name, "",
				fmt.Sprintf("superclass %q was not generated", p.desc.Superclass))
		}
		cur = next.desc.Superclass
	}
}
