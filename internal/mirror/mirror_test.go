package mirror

import (
	"strings"
	"testing"

	"oogen/internal/builder"
	"oogen/internal/ctype"
	"oogen/internal/object"
)

func buildChain(t *testing.T) (root, mech, neuron *object.ClassModel) {
	t.Helper()
	b := builder.New(ctype.NewInterner(), nil)

	root, err := b.BuildClass(&object.ClassDescription{Name: "Object"}, nil)
	if err != nil {
		t.Fatalf("build root: %v", err)
	}

	dbl := b.Types.Builtins().Double
	mech, err = b.BuildClass(&object.ClassDescription{
		Name:       "Mechanism",
		Superclass: "Object",
		Methods: []object.MethodDescriptor{{
			Name: "transmit",
			Kind: object.MethodInstance,
			Sig: object.Signature{
				Params: []object.Param{{Name: "dt", Type: dbl}},
				Return: dbl,
			},
			Body: object.TranslatableBody("carry the signal"),
		}},
	}, root)
	if err != nil {
		t.Fatalf("build Mechanism: %v", err)
	}

	neuron, err = b.BuildClass(&object.ClassDescription{
		Name:       "Neuron",
		Superclass: "Mechanism",
		Fields:     []object.FieldDescriptor{{Name: "vm", Type: dbl}},
	}, mech)
	if err != nil {
		t.Fatalf("build Neuron: %v", err)
	}
	return root, mech, neuron
}

func TestPlanChainOrdersAndStrategies(t *testing.T) {
	root, mech, neuron := buildChain(t)

	boot, err := PlanChain([]*object.ClassModel{root, mech, neuron}, true)
	if err != nil {
		t.Fatalf("PlanChain: %v", err)
	}
	if boot.Root != root || !boot.Accel {
		t.Fatalf("Root=%v Accel=%v", boot.Root, boot.Accel)
	}
	if len(boot.Plans) != 3 {
		t.Fatalf("plan count = %d", len(boot.Plans))
	}
	for i, p := range boot.Plans {
		if p.Order != i {
			t.Errorf("plan %d order = %d", i, p.Order)
		}
	}
	// The root and any slot-introducing class need their resolved bytes
	// copied; a class adding only state can shadow with null slots.
	if boot.Plans[0].Strategy != StrategyCopy {
		t.Errorf("root strategy = %v", boot.Plans[0].Strategy)
	}
	if boot.Plans[1].Strategy != StrategyCopy {
		t.Errorf("Mechanism strategy = %v", boot.Plans[1].Strategy)
	}
	if boot.Plans[2].Strategy != StrategyInherit {
		t.Errorf("Neuron strategy = %v", boot.Plans[2].Strategy)
	}
}

func TestPlanChainRejectsBadOrder(t *testing.T) {
	root, mech, neuron := buildChain(t)

	if _, err := PlanChain([]*object.ClassModel{mech, root, neuron}, false); err == nil {
		t.Error("root planned second was accepted")
	}
	if _, err := PlanChain([]*object.ClassModel{root, neuron, mech}, false); err == nil {
		t.Error("subclass planned before its superclass was accepted")
	}
	if _, err := PlanChain(nil, false); err == nil {
		t.Error("empty chain was accepted")
	}
	if _, err := PlanChain([]*object.ClassModel{neuron}, false); err == nil {
		t.Error("rootless chain was accepted")
	}
}

func TestPlanChainRejectsUnfinishedModels(t *testing.T) {
	unfinished := &object.ClassModel{Name: "Object"}
	_, err := PlanChain([]*object.ClassModel{unfinished}, false)
	if err == nil || !strings.Contains(err.Error(), "finished") {
		t.Fatalf("err = %v", err)
	}
}

func TestRootPairBindsLifecycleImpls(t *testing.T) {
	root, _, _ := buildChain(t)

	pair := RootPair(root)
	if pair[0].SizeOf != "Object" || pair[1].SizeOf != "ObjectClass" {
		t.Fatalf("sizeof tags = %q / %q", pair[0].SizeOf, pair[1].SizeOf)
	}
	wantInstance := []string{"Object_ctor", "Object_dtor", "Object_cudafy", "Object_decudafy"}
	wantClass := []string{"ObjectClass_ctor", "ObjectClass_dtor", "ObjectClass_cudafy", "ObjectClass_decudafy"}
	for i := range wantInstance {
		if pair[0].Methods[i] != wantInstance[i] {
			t.Errorf("instance method %d = %q, want %q", i, pair[0].Methods[i], wantInstance[i])
		}
		if pair[1].Methods[i] != wantClass[i] {
			t.Errorf("class method %d = %q, want %q", i, pair[1].Methods[i], wantClass[i])
		}
	}
}
