package emit

import (
	"context"
	"errors"
	"strings"
	"testing"

	"oogen/internal/builder"
	"oogen/internal/ctype"
	"oogen/internal/diag"
	"oogen/internal/object"
)

func buildChain(t *testing.T) (*ctype.Interner, *object.ClassModel, *object.ClassModel) {
	t.Helper()
	types := ctype.NewInterner()
	b := builder.New(types, nil)

	root, err := b.BuildClass(&object.ClassDescription{Name: "Object"}, nil)
	if err != nil {
		t.Fatalf("build root: %v", err)
	}

	dbl := types.Builtins().Double
	neuron, err := b.BuildClass(&object.ClassDescription{
		Name:       "Neuron",
		Superclass: "Object",
		Fields: []object.FieldDescriptor{
			{Name: "vm", Type: dbl},
		},
		Methods: []object.MethodDescriptor{
			{
				Name: "fire",
				Kind: object.MethodInstance,
				Sig: object.Signature{
					Params: []object.Param{{Name: "dt", Type: dbl}},
					Return: dbl,
				},
				Body: object.TranslatableBody("const struct Neuron* _self = (const struct Neuron*) self;\nreturn _self->vm * dt;"),
			},
		},
	}, root)
	if err != nil {
		t.Fatalf("build neuron: %v", err)
	}
	return types, root, neuron
}

func artifactNamed(t *testing.T, arts []Artifact, name string) string {
	t.Helper()
	for _, a := range arts {
		if a.Name == name {
			return string(a.Data)
		}
	}
	t.Fatalf("no artifact %q (have %d)", name, len(arts))
	return ""
}

func mustContain(t *testing.T, text string, wants ...string) {
	t.Helper()
	for _, want := range wants {
		if !strings.Contains(text, want) {
			t.Fatalf("output missing %q\n----\n%s", want, text)
		}
	}
}

func TestRootHeader(t *testing.T) {
	types, root, _ := buildChain(t)
	e := New(types, nil, nil)

	arts, err := e.Class(context.Background(), root, false)
	if err != nil {
		t.Fatalf("emit root: %v", err)
	}
	h := artifactNamed(t, arts, "Object.h")

	mustContain(t, h,
		"#ifndef OBJECT_H",
		"typedef void (* voidf) ();",
		"typedef void* (* ctor_t)(void* self, va_list* app);",
		"typedef int (* dtor_t)(void* self);",
		"extern const void* Object;",
		"extern const void* ObjectClass;",
		"extern void* oo_new(const void* _class, ...);",
		"extern void initObject(int init_cuda);",
		"extern void* ctor(void* self, va_list* app);",
		"extern void* super_ctor(const void* _class, void* self, va_list* app);",
		"const struct ObjectClass* mclass;",
		"const struct Object _;",
		"const struct ObjectClass* super;",
		"const struct ObjectClass* device_class;",
		"size_t size;",
		"ctor_t my_ctor;",
		"decudafy_t my_decudafy;",
	)
}

func TestRootSourcePairAndHelpers(t *testing.T) {
	types, root, _ := buildChain(t)
	e := New(types, nil, nil)

	arts, err := e.Class(context.Background(), root, false)
	if err != nil {
		t.Fatalf("emit root: %v", err)
	}
	c := artifactNamed(t, arts, "Object.c")

	mustContain(t, c,
		"static struct ObjectClass object[] =",
		"{ object + 1 },",
		"sizeof(struct Object),",
		"sizeof(struct ObjectClass),",
		"Object_ctor,",
		"ObjectClass_decudafy,",
		"const void* Object = object;",
		"const void* ObjectClass = object + 1;",
		"const void* oo_class_of(const void* self)",
		"size_t oo_size_of(const void* self)",
		"const void* oo_super(const void* _class)",
		"void* oo_new(const void* _class, ...)",
		"void initObject(int init_cuda)",
	)

	// The class-construction bootstrap copies the slot table then walks the
	// selector list.
	mustContain(t, c,
		"offsetof(struct ObjectClass, my_ctor)",
		"selector = va_arg(ap, voidf);",
		"if (selector == (voidf) ctor)",
	)
}

func TestDelegatorBodies(t *testing.T) {
	types, _, neuron := buildChain(t)
	e := New(types, nil, nil)

	arts, err := e.Class(context.Background(), neuron, false)
	if err != nil {
		t.Fatalf("emit neuron: %v", err)
	}
	c := artifactNamed(t, arts, "Neuron.c")

	mustContain(t, c,
		"double fire(void* self, double dt)",
		"const struct NeuronClass* m_class = (const struct NeuronClass*) oo_class_of(self);",
		"assert(m_class->my_fire);",
		"return m_class->my_fire(self, dt);",
		"double super_fire(const void* _class, void* self, double dt)",
		"const struct NeuronClass* s_class = (const struct NeuronClass*) oo_super(_class);",
		"return s_class->my_fire(self, dt);",
	)
}

func TestDefaultBodies(t *testing.T) {
	types, _, neuron := buildChain(t)
	e := New(types, nil, nil)

	arts, err := e.Class(context.Background(), neuron, false)
	if err != nil {
		t.Fatalf("emit neuron: %v", err)
	}
	c := artifactNamed(t, arts, "Neuron.c")

	// Synthesized constructor forwards up the chain and consumes one
	// variadic argument per own field.
	mustContain(t, c,
		"static void* Neuron_ctor(void* self, va_list* app)",
		"super_ctor(Neuron, self, app);",
		"_self->vm = va_arg(*app, double);",
	)

	// Synthesized class constructor rebinds the class's own selector.
	mustContain(t, c,
		"static void* NeuronClass_ctor(void* self, va_list* app)",
		"super_ctor(NeuronClass, self, app);",
		"if (selector == (voidf) fire)",
		"*(voidf *) &_self->my_fire = curr_method;",
	)
}

func TestModuleInit(t *testing.T) {
	types, _, neuron := buildChain(t)
	e := New(types, nil, nil)

	arts, err := e.Class(context.Background(), neuron, false)
	if err != nil {
		t.Fatalf("emit neuron: %v", err)
	}
	c := artifactNamed(t, arts, "Neuron.c")

	mustContain(t, c,
		"void initNeuron(int init_cuda)",
		"if (!NeuronClass)",
		"sizeof(struct NeuronClass),",
		"ctor, NeuronClass_ctor,",
		"cudafy, NeuronClass_cudafy,",
		"if (!Neuron)",
		"sizeof(struct Neuron),",
		"fire, Neuron_fire,",
		"ctor, Neuron_ctor,",
	)
}

func TestAccelArtifacts(t *testing.T) {
	types, _, neuron := buildChain(t)
	e := New(types, nil, nil)

	arts, err := e.Class(context.Background(), neuron, true)
	if err != nil {
		t.Fatalf("emit neuron: %v", err)
	}
	if len(arts) != 3 {
		t.Fatalf("want 3 artifacts with accel, got %d", len(arts))
	}
	cuh := artifactNamed(t, arts, "Neuron.cuh")
	mustContain(t, cuh,
		"#ifndef NEURON_CUH",
		"#include \"Object.cuh\"",
		"extern __device__ __constant__ const void* Neuron_dev_t;",
		"extern __device__ __constant__ const void* NeuronClass_dev_t;",
		"extern __device__ fire_t Neuron_cuda_fire_t;",
	)

	c := artifactNamed(t, arts, "Neuron.c")
	mustContain(t, c,
		"cudaMemcpyFromSymbol(",
		"&Neuron_cuda_fire_t,",
		"copy_class.my_fire = my_fire;",
		"super_cudafy(NeuronClass, (void*) &copy_class, 0);",
		"cudaMemcpyToSymbol(",
	)
}

func TestTranslatableBodyPassesThrough(t *testing.T) {
	types, _, neuron := buildChain(t)
	e := New(types, nil, nil)

	arts, err := e.Class(context.Background(), neuron, false)
	if err != nil {
		t.Fatalf("emit neuron: %v", err)
	}
	c := artifactNamed(t, arts, "Neuron.c")
	mustContain(t, c,
		"static double Neuron_fire(void* self, double dt)",
		"    return _self->vm * dt;",
	)
}

type failingTranslator struct{}

func (failingTranslator) Translate(context.Context, string) (string, error) {
	return "", errors.New("boom")
}

func TestTranslatorFailureIsScoped(t *testing.T) {
	types, _, neuron := buildChain(t)
	e := New(types, failingTranslator{}, nil)

	_, err := e.Class(context.Background(), neuron, false)
	if err == nil {
		t.Fatal("want translation error")
	}
	var terr *TranslationError
	if !errors.As(err, &terr) {
		t.Fatalf("want *TranslationError, got %T: %v", err, err)
	}
	if terr.Class != "Neuron" || terr.Method != "fire" {
		t.Fatalf("wrong attribution: %+v", terr)
	}
}

func TestUnknownTemplateIsEmitError(t *testing.T) {
	types, root, _ := buildChain(t)
	e := New(types, nil, nil)

	// Corrupt a copy of the model with a bogus template reference.
	bad := *root
	bad.Methods = append([]object.MethodDescriptor(nil), root.Methods...)
	bad.Methods[0].Body = object.TemplateBody("no_such_template", nil)

	_, err := e.Class(context.Background(), &bad, false)
	if err == nil {
		t.Fatal("want emit error")
	}
	var eerr *EmitError
	if !errors.As(err, &eerr) {
		t.Fatalf("want *EmitError, got %T: %v", err, err)
	}
	if eerr.Code != diag.EmtUnresolved {
		t.Fatalf("want %v, got %v", diag.EmtUnresolved, eerr.Code)
	}
}
