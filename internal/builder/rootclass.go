package builder

import (
	"fmt"

	"oogen/internal/ctype"
	"oogen/internal/object"
)

// Canonical root bodies. The root class is the one place where lifecycle
// behavior is written out literally instead of synthesized from templates:
// these bodies are the ground truth every subclass default ultimately
// forwards to.

func rootCtorBody() string {
	return "    return self;"
}

func rootDtorBody() string {
	return "    free(self);\n    return 0;"
}

func rootCudafyBody(name, className string) string {
	return fmt.Sprintf(`    #ifdef CUDA
    struct %[1]s* _self = (struct %[1]s*) self;
    void* n_dev_obj = NULL;
    size_t my_size = oo_size_of(self);

    const struct %[2]s* tmp = _self->mclass;
    _self->mclass = _self->mclass->device_class;

    CUDA_CHECK_RETURN(cudaMalloc(&n_dev_obj, my_size));

    CUDA_CHECK_RETURN(
        cudaMemcpy(
            n_dev_obj,
            _self,
            my_size,
            cudaMemcpyHostToDevice
            )
        );

    _self->mclass = tmp;

    return n_dev_obj;
    #else
    return NULL;
    #endif`, name, className)
}

func rootDecudafyBody() string {
	return "    return;"
}

// rootClsCtorBody is the class-construction bootstrap: copy the immediate
// superclass's slot table from the first lifecycle slot onward, then walk
// the variadic {selector, function} list rebinding only the slots whose
// selector matches a lifecycle marker. Unmatched selectors are ignored.
func rootClsCtorBody(className string) string {
	return fmt.Sprintf(`    struct %[1]s* _self = (struct %[1]s*) self;
    const size_t offset = offsetof(struct %[1]s, my_ctor);

    _self->super = va_arg(*app, struct %[1]s*);
    _self->size = va_arg(*app, size_t);

    assert(_self->super);

    memcpy((char*) _self + offset,
           (char*) _self->super + offset,
           oo_size_of(_self->super) - offset);

    va_list ap;
    va_copy(ap, *app);

    voidf selector = NULL; selector = va_arg(ap, voidf);

    while (selector)
    {
        const voidf curr_method = va_arg(ap, voidf);
        if (selector == (voidf) ctor)
        {
            *(voidf *) &_self->my_ctor = curr_method;
        } else if (selector == (voidf) cudafy) {
            *(voidf *) &_self->my_cudafy = curr_method;
        } else if (selector == (voidf) dtor) {
            *(voidf *) &_self->my_dtor = curr_method;
        } else if (selector == (voidf) decudafy) {
            *(voidf *) &_self->my_decudafy = curr_method;
        }
        selector = va_arg(ap, voidf);
    }
    return _self;`, className)
}

func rootClsDtorBody() string {
	return `    fprintf(stderr, "Destroying a class is undefined behavior.");
    return -1;`
}

// rootClsCudafyBody mirrors a class record wholesale: the entire host
// record is copied to a fresh heap shadow, the shadow's embedded object
// class pointer is retargeted to the accelerator copy, and the shadow bytes
// are pushed to freshly allocated device storage.
func rootClsCudafyBody(className string) string {
	return fmt.Sprintf(`    #ifdef CUDA
    struct %[1]s* _self = (struct %[1]s*) self;

    const struct %[1]s* dev_class = NULL;

    const size_t class_size = oo_size_of(_self);

    CUDA_CHECK_RETURN(cudaMalloc((void**)&dev_class, class_size));

    const struct %[1]s* class_cpy =
        (const struct %[1]s*) calloc(1, class_size);
    memcpy((void*)class_cpy, self, class_size);

    memcpy((void*)&class_cpy->_.mclass, &dev_class, sizeof(void*));

    CUDA_CHECK_RETURN(
        cudaMemcpy(
            (void*)dev_class,
            class_cpy,
            class_size,
            cudaMemcpyHostToDevice
            )
        );

    free((void*)class_cpy);

    return (void*) dev_class;
    #else
    return NULL;
    #endif`, className)
}

func rootClsDecudafyBody() string {
	return `    fputs("Releasing a class from the accelerator is undefined behavior.", stderr);
    return;`
}

// lifecycleSignatures returns the canonical signatures of the four
// lifecycle methods, receiver included.
func lifecycleSignatures(types *ctype.Interner) map[string]object.Signature {
	b := types.Builtins()
	self := object.Param{Name: "self", Type: b.VoidPtr}
	vaListPtr := types.Intern(ctype.MakePointer(b.VarArgs))
	return map[string]object.Signature{
		object.LifecycleConstruct: {
			Params: []object.Param{self, {Name: "app", Type: vaListPtr}},
			Return: b.VoidPtr,
		},
		object.LifecycleDestruct: {
			Params: []object.Param{self},
			Return: b.Int,
		},
		object.LifecycleMigrate: {
			Params: []object.Param{self, {Name: "clobber", Type: b.Int}},
			Return: b.VoidPtr,
		},
		object.LifecycleRelease: {
			Params: []object.Param{self, {Name: "cuda_self", Type: b.VoidPtr}},
			Return: b.Void,
		},
	}
}

// canonicalRootMethods returns the root's literal lifecycle bodies plus the
// class-internal bootstrap methods, in vtable order.
func (b *Builder) canonicalRootMethods(name, className string) []object.MethodDescriptor {
	sigs := lifecycleSignatures(b.Types)
	return []object.MethodDescriptor{
		{
			Name: object.LifecycleConstruct,
			Kind: object.MethodVerbatim,
			Sig:  sigs[object.LifecycleConstruct],
			Body: object.LiteralBody(rootCtorBody()),
		},
		{
			Name: object.LifecycleDestruct,
			Kind: object.MethodVerbatim,
			Sig:  sigs[object.LifecycleDestruct],
			Body: object.LiteralBody(rootDtorBody()),
		},
		{
			Name: object.LifecycleMigrate,
			Kind: object.MethodVerbatim,
			Sig:  sigs[object.LifecycleMigrate],
			Body: object.LiteralBody(rootCudafyBody(name, className)),
		},
		{
			Name: object.LifecycleRelease,
			Kind: object.MethodVerbatim,
			Sig:  sigs[object.LifecycleRelease],
			Body: object.LiteralBody(rootDecudafyBody()),
		},
		{
			Name: "cls_" + object.LifecycleConstruct,
			Kind: object.MethodClassInternal,
			Sig:  sigs[object.LifecycleConstruct],
			Body: object.LiteralBody(rootClsCtorBody(className)),
		},
		{
			Name: "cls_" + object.LifecycleDestruct,
			Kind: object.MethodClassInternal,
			Sig:  sigs[object.LifecycleDestruct],
			Body: object.LiteralBody(rootClsDtorBody()),
		},
		{
			Name: "cls_" + object.LifecycleMigrate,
			Kind: object.MethodClassInternal,
			Sig:  sigs[object.LifecycleMigrate],
			Body: object.LiteralBody(rootClsCudafyBody(className)),
		},
		{
			Name: "cls_" + object.LifecycleRelease,
			Kind: object.MethodClassInternal,
			Sig:  sigs[object.LifecycleRelease],
			Body: object.LiteralBody(rootClsDecudafyBody()),
		},
	}
}

// mergeRootCanonical builds the root's effective declaration list: the
// canonical lifecycle and bootstrap methods, each replaced by a
// user-declared body when present, followed by any additional user
// methods in declaration order.
func (b *Builder) mergeRootCanonical(name, className string, declared []object.MethodDescriptor) []object.MethodDescriptor {
	byName := make(map[string]object.MethodDescriptor, len(declared))
	for _, m := range declared {
		byName[m.Name] = m
	}

	canonical := b.canonicalRootMethods(name, className)
	merged := make([]object.MethodDescriptor, 0, len(canonical)+len(declared))
	taken := make(map[string]struct{}, len(canonical))
	for _, c := range canonical {
		if user, ok := byName[c.Name]; ok {
			merged = append(merged, user)
		} else {
			merged = append(merged, c)
		}
		taken[c.Name] = struct{}{}
	}
	for _, m := range declared {
		if _, done := taken[m.Name]; done {
			continue
		}
		merged = append(merged, m)
	}
	return merged
}
