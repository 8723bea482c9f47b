// Package object holds the semantic class model: type-bearing descriptors
// for fields and methods, struct layouts, slot tables and the synthesized
// dispatch bindings. Everything here is plain immutable-after-build data;
// construction logic lives in the builder package and text production in
// the emit package.
package object

// Lifecycle method names. The root class seeds exactly these four slots;
// every class in the chain always has all four populated.
const (
	LifecycleConstruct = "ctor"
	LifecycleDestruct  = "dtor"
	LifecycleMigrate   = "cudafy"
	LifecycleRelease   = "decudafy"
)

// LifecycleMethods lists the four mandatory slots in vtable order.
var LifecycleMethods = []string{
	LifecycleConstruct,
	LifecycleDestruct,
	LifecycleMigrate,
	LifecycleRelease,
}

// IsLifecycle reports whether name is one of the four mandatory methods.
func IsLifecycle(name string) bool {
	for _, m := range LifecycleMethods {
		if name == m {
			return true
		}
	}
	return false
}

// ClassDescription is the declarative input for one class: the redesigned
// replacement for definition-time member probing. Producers (the schema
// loader, tests) fill it directly.
type ClassDescription struct {
	Name string
	// Superclass names the single superclass; empty only for the root.
	Superclass string
	Fields     []FieldDescriptor
	Methods    []MethodDescriptor
}

// IsRoot reports whether the description designates the root class.
func (d *ClassDescription) IsRoot() bool {
	return d.Superclass == ""
}

// ClassModel is the finished compilation model of one class. It is created
// strictly after its superclass's model and never mutated once the
// per-class pipeline completes.
type ClassModel struct {
	Name string
	// ClassName is the vtable struct tag, conventionally "<Name>Class".
	ClassName string
	// Super is the finished superclass model; nil only for the root.
	Super *ClassModel

	// OwnFields are the fields declared by this class, in order.
	OwnFields []FieldDescriptor
	// Methods are all bodies this class defines or synthesizes, including
	// overrides and class-internal bootstrap methods, in declaration order
	// with defaults appended.
	Methods []MethodDescriptor
	// OwnMethods are the newly introduced dispatchable methods only: the
	// classifier output that drives slot and delegator synthesis.
	OwnMethods []MethodDescriptor

	Instance *StructLayout
	VTable   *StructLayout
	// Slots accumulates slot identity across the whole chain.
	Slots *SlotTable

	Delegators      []Delegator
	SuperDelegators []SuperDelegator

	finished bool
}

// Finish marks the model complete. The builder calls this once, after the
// per-class pipeline; subclasses may only be built on finished models.
func (c *ClassModel) Finish() {
	c.finished = true
}

// Finished reports whether the per-class pipeline has completed.
func (c *ClassModel) Finished() bool {
	return c != nil && c.finished
}

// IsRoot reports whether this is the unique class with no superclass.
func (c *ClassModel) IsRoot() bool {
	return c.Super == nil
}

// Root walks to the root of the chain.
func (c *ClassModel) Root() *ClassModel {
	for c.Super != nil {
		c = c.Super
	}
	return c
}

// Depth returns the number of ancestors above this class.
func (c *ClassModel) Depth() int {
	n := 0
	for p := c.Super; p != nil; p = p.Super {
		n++
	}
	return n
}

// Method returns this class's body for the named method, when present.
func (c *ClassModel) Method(name string) (MethodDescriptor, bool) {
	for _, m := range c.Methods {
		if m.Name == name {
			return m, true
		}
	}
	return MethodDescriptor{}, false
}

// OverridesAnything reports whether the class rebinds any inherited slot
// with a body of its own (synthesized forwarding defaults do not count).
// The mirror bootstrap uses this to choose between the null-slot shadow
// and the full-copy strategy.
func (c *ClassModel) OverridesAnything() bool {
	if c.IsRoot() {
		return true
	}
	for _, m := range c.Methods {
		if m.Kind == MethodClassInternal || m.Body.Form == BodyTemplate {
			continue
		}
		if _, inherited := c.Super.Slots.Lookup(m.Name); inherited {
			return true
		}
	}
	return len(c.OwnMethods) > 0
}
