package builder

import (
	"oogen/internal/object"
	"oogen/internal/trace"
)

// Default-body template names resolved by the emission engine.
const (
	TemplateCtorDefault      = "ctor_default"
	TemplateClsCtorDefault   = "cls_ctor_default"
	TemplateClsCudafyDefault = "cls_cudafy_default"
)

// fillDefaults guarantees every class carries bodies for the construct
// bootstrap trio. It runs after classification: vtable shape is already
// fixed, only bodies are supplied here.
//
// The remaining lifecycle slots (destruct, migrate, release) need no
// per-class body. The class-construction bootstrap copies the superclass's
// resolved slot table, so they arrive populated by inheritance. The root is
// fully covered by its canonical literal bodies before this runs.
func (b *Builder) fillDefaults(model *object.ClassModel, methods []object.MethodDescriptor) []object.MethodDescriptor {
	if model.IsRoot() {
		return methods
	}

	has := make(map[string]struct{}, len(methods))
	for _, m := range methods {
		has[m.Name] = struct{}{}
	}
	vars := map[string]string{
		"class": model.Name,
		"super": model.Super.Name,
	}
	sigs := lifecycleSignatures(b.Types)

	if _, ok := has[object.LifecycleConstruct]; !ok {
		trace.Pointf(b.Tracer, trace.ScopeMember, "defaults:"+model.Name,
			"synthesizing default %s", object.LifecycleConstruct)
		methods = append(methods, object.MethodDescriptor{
			Name: object.LifecycleConstruct,
			Kind: object.MethodInstance,
			Sig:  sigs[object.LifecycleConstruct],
			Body: object.TemplateBody(TemplateCtorDefault, vars),
		})
	}
	if _, ok := has["cls_"+object.LifecycleConstruct]; !ok {
		methods = append(methods, object.MethodDescriptor{
			Name: "cls_" + object.LifecycleConstruct,
			Kind: object.MethodClassInternal,
			Sig:  sigs[object.LifecycleConstruct],
			Body: object.TemplateBody(TemplateClsCtorDefault, vars),
		})
	}
	if _, ok := has["cls_"+object.LifecycleMigrate]; !ok {
		methods = append(methods, object.MethodDescriptor{
			Name: "cls_" + object.LifecycleMigrate,
			Kind: object.MethodClassInternal,
			Sig:  sigs[object.LifecycleMigrate],
			Body: object.TemplateBody(TemplateClsCudafyDefault, vars),
		})
	}
	return methods
}
