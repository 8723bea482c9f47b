// Package mirror plans the dual-representation bootstrap: the root pair's
// self-referential fixed point and, when accelerator support is requested,
// the ordering and copy strategy for every class's device-resident mirror.
// The plans are metadata; the generated program executes them at startup.
package mirror

import (
	"fmt"

	"oogen/internal/object"
)

// Strategy selects how a class's vtable shadow is prepared before the copy
// to accelerator storage.
type Strategy uint8

const (
	// StrategyInherit leaves the class's own slots null in the shadow and
	// relies on structural-prefix embedding to reach the superclass's
	// already-mirrored resolved slots.
	StrategyInherit Strategy = iota
	// StrategyCopy obtains the class's fully resolved vtable bytes and
	// copies them verbatim; required as soon as the class overrides any
	// behavior or introduces slots of its own.
	StrategyCopy
)

func (s Strategy) String() string {
	switch s {
	case StrategyInherit:
		return "inherit"
	case StrategyCopy:
		return "copy"
	default:
		return fmt.Sprintf("Strategy(%d)", s)
	}
}

// Plan is the mirror decision for one class.
type Plan struct {
	Class    *object.ClassModel
	Strategy Strategy
	// Order is the position in the startup sequence. The root pair is
	// always 0; every class's superclass has a smaller order.
	Order int
}

// Bootstrap is the whole-chain startup plan.
type Bootstrap struct {
	Root  *object.ClassModel
	Plans []Plan
	// Accel records whether accelerator mirrors are requested; without it
	// only the host-resident pair construction is planned.
	Accel bool
}

// PlanChain orders the finished models for startup and assigns mirror
// strategies. Models must arrive in build order (superclass before
// subclass), the same order the compiler produced them in.
func PlanChain(models []*object.ClassModel, accel bool) (*Bootstrap, error) {
	if len(models) == 0 {
		return nil, fmt.Errorf("mirror: no classes to plan")
	}

	boot := &Bootstrap{Accel: accel}
	position := make(map[*object.ClassModel]int, len(models))

	for i, m := range models {
		if m == nil || !m.Finished() {
			return nil, fmt.Errorf("mirror: class %d is not a finished model", i)
		}
		if m.IsRoot() {
			if boot.Root != nil {
				return nil, fmt.Errorf("mirror: more than one root class (%s and %s)", boot.Root.Name, m.Name)
			}
			if i != 0 {
				return nil, fmt.Errorf("mirror: root class %s must be planned first", m.Name)
			}
			boot.Root = m
		} else {
			if _, ok := position[m.Super]; !ok {
				return nil, fmt.Errorf("mirror: class %s planned before its superclass %s", m.Name, m.Super.Name)
			}
		}
		strategy := StrategyInherit
		if m.OverridesAnything() {
			strategy = StrategyCopy
		}
		position[m] = i
		boot.Plans = append(boot.Plans, Plan{Class: m, Strategy: strategy, Order: i})
	}

	if boot.Root == nil {
		return nil, fmt.Errorf("mirror: chain has no root class")
	}
	return boot, nil
}

// PairRecord describes one of the two statically initialized root records.
type PairRecord struct {
	// SizeOf is the struct tag whose byte size fills the record's size
	// bookkeeping field.
	SizeOf string
	// Methods are the implementation symbols bound to the four lifecycle
	// slots, in vtable order.
	Methods []string
}

// RootPair returns the fixed 2-cycle terminating the class-of-a-class
// regress: record 0 is the object vtable, record 1 the class-of-classes
// vtable. Both class references point at record 1; record 1 thereby refers
// to itself.
func RootPair(root *object.ClassModel) [2]PairRecord {
	instance := make([]string, 0, len(object.LifecycleMethods))
	class := make([]string, 0, len(object.LifecycleMethods))
	for _, lc := range object.LifecycleMethods {
		instance = append(instance, object.ImplSymbol(root.Name, lc))
		class = append(class, object.ImplSymbol(root.ClassName, lc))
	}
	return [2]PairRecord{
		{SizeOf: root.Name, Methods: instance},
		{SizeOf: root.ClassName, Methods: class},
	}
}
