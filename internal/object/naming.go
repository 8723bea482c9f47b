package object

import "strings"

// ImplSymbol is the module-scope symbol of a class's own implementation of
// a method, e.g. "Neuron_fire". Class-internal bootstrap methods hang off
// the class struct name instead: "NeuronClass_ctor".
func ImplSymbol(class, method string) string {
	return class + "_" + method
}

// MethodImplSymbol resolves the implementation symbol for one method
// descriptor of the given class.
func MethodImplSymbol(c *ClassModel, m MethodDescriptor) string {
	if m.Kind == MethodClassInternal {
		return ImplSymbol(c.ClassName, strings.TrimPrefix(m.Name, "cls_"))
	}
	return ImplSymbol(c.Name, m.Name)
}

// InitSymbol is the generated startup routine for one class,
// e.g. "initNeuron".
func InitSymbol(class string) string {
	return "init" + class
}
