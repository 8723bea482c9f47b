package object

// Delegator is the public dispatch entry point for one slot. It is
// synthesized exactly once, at the class that introduces the slot, and
// referenced (never regenerated) by every descendant.
type Delegator struct {
	Method string
	Slot   SlotID
	// Sig is the method signature, unchanged.
	Sig Signature
	// Owner names the introducing class.
	Owner string
}

// SuperDelegator is the explicit-superclass entry point for one slot: the
// method signature with one additional leading `_class` vtable parameter.
// It resolves the given vtable's statically-known superclass, letting an
// override reach exactly one ancestor level without reentering dynamic
// dispatch.
type SuperDelegator struct {
	Method string
	Slot   SlotID
	Sig    Signature
	Owner  string
}

// Name returns the generated delegator symbol, which is the method name.
func (d Delegator) Name() string {
	return d.Method
}

// Name returns the generated super-delegator symbol.
func (d SuperDelegator) Name() string {
	return "super_" + d.Method
}
