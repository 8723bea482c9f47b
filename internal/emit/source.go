package emit

import (
	"context"

	"oogen/internal/mirror"
	"oogen/internal/object"
)

// source renders one class's implementation file: static method bodies,
// delegators, module variables and the startup routine.
func (e *Emitter) source(ctx context.Context, model *object.ClassModel, accel bool) ([]byte, error) {
	w := &cw{}
	root := model.IsRoot()

	w.line("#include <assert.h>")
	w.line("#include <stdio.h>")
	w.line("#include <stdlib.h>")
	w.line("#include <string.h>")
	w.blank()
	if !root {
		w.linef("#include \"%s.h\"", model.Super.Name)
	}
	w.linef("#include \"%s.h\"", model.Name)
	if accel {
		w.line("#ifdef CUDA")
		w.linef("#include \"%s.cuh\"", model.Name)
		w.line("#endif")
	}
	w.blank()

	for _, m := range model.Methods {
		w.linef("static %s;", funcDecl(e.Types, object.MethodImplSymbol(model, m), m.Sig))
	}
	w.blank()

	if root {
		e.rootPairBlock(w, model)
	} else {
		w.linef("const void *%s, *%s;", model.ClassName, model.Name)
	}
	w.blank()

	for _, m := range model.Methods {
		body, err := e.resolveBody(ctx, model, m)
		if err != nil {
			return nil, err
		}
		w.linef("static %s", funcDecl(e.Types, object.MethodImplSymbol(model, m), m.Sig))
		w.line("{")
		w.line(body)
		w.line("}")
		w.blank()
	}

	for i, d := range model.Delegators {
		e.delegatorDef(w, d)
		w.blank()
		e.superDelegatorDef(w, model.SuperDelegators[i])
		w.blank()
	}

	if root {
		e.rootHelpers(w, model)
		e.rootInit(w, model, accel)
	} else {
		e.moduleInit(w, model, accel)
	}
	return w.bytes(), nil
}

// delegatorDef renders the public dispatch entry point for one slot.
func (e *Emitter) delegatorDef(w *cw, d object.Delegator) {
	ownerCls := d.Owner + "Class"
	recv := d.Sig.Params[0].Name
	call := "m_class->" + string(d.Slot) + "(" + argList(d.Sig) + ")"

	w.line(funcDecl(e.Types, d.Name(), d.Sig))
	w.line("{")
	w.linef("    const struct %s* m_class = (const struct %s*) oo_class_of(%s);", ownerCls, ownerCls, recv)
	w.blank()
	w.linef("    assert(m_class->%s);", d.Slot)
	w.blank()
	if e.Types.IsVoidNonPointer(d.Sig.Return) {
		w.linef("    %s;", call)
		w.line("    return;")
	} else {
		w.linef("    return %s;", call)
	}
	w.line("}")
}

// superDelegatorDef renders the explicit-superclass entry point: dispatch
// through the statically-known superclass of the given vtable, skipping the
// receiver's own override exactly once.
func (e *Emitter) superDelegatorDef(w *cw, d object.SuperDelegator) {
	ownerCls := d.Owner + "Class"
	clsParam := d.Sig.Params[0].Name
	fwd := object.Signature{Params: d.Sig.Params[1:], Return: d.Sig.Return}
	recv := fwd.Params[0].Name
	call := "s_class->" + string(d.Slot) + "(" + argList(fwd) + ")"

	w.line(funcDecl(e.Types, d.Name(), d.Sig))
	w.line("{")
	w.linef("    const struct %s* s_class = (const struct %s*) oo_super(%s);", ownerCls, ownerCls, clsParam)
	w.blank()
	w.linef("    assert(%s && s_class->%s);", recv, d.Slot)
	w.blank()
	if e.Types.IsVoidNonPointer(d.Sig.Return) {
		w.linef("    %s;", call)
		w.line("    return;")
	} else {
		w.linef("    return %s;", call)
	}
	w.line("}")
}

// rootPairBlock renders the statically initialized two-record array that
// terminates the class-of-a-class regress, plus the module variables
// aliasing its records.
func (e *Emitter) rootPairBlock(w *cw, model *object.ClassModel) {
	pair := mirror.RootPair(model)
	slots := model.VTable.SlotNames()

	w.linef("static struct %s object[] =", model.ClassName)
	w.line("{")
	for i, rec := range pair {
		w.line("    {")
		w.line("        { object + 1 },")
		w.line("        object,")
		w.line("        NULL,")
		w.linef("        sizeof(struct %s),", rec.SizeOf)
		for s, slot := range slots {
			if s < len(rec.Methods) {
				w.linef("        %s,", rec.Methods[s])
			} else if i == 0 {
				// Extra root slots: the object record binds the root's own
				// implementation, the class record leaves them unbound.
				w.linef("        %s,", object.ImplSymbol(model.Name, slotMethod(slot)))
			} else {
				w.line("        NULL,")
			}
		}
		if i == 0 {
			w.line("    },")
		} else {
			w.line("    }")
		}
	}
	w.line("};")
	w.blank()
	w.linef("const void* %s = object;", model.Name)
	w.linef("const void* %s = object + 1;", model.ClassName)
}

// rootHelpers renders the runtime support functions every generated module
// relies on.
func (e *Emitter) rootHelpers(w *cw, model *object.ClassModel) {
	obj := model.Name
	cls := model.ClassName

	w.line("const void* oo_class_of(const void* self)")
	w.line("{")
	w.linef("    const struct %s* _self = (const struct %s*) self;", obj, obj)
	w.blank()
	w.line("    assert(_self && _self->mclass);")
	w.blank()
	w.line("    return _self->mclass;")
	w.line("}")
	w.blank()

	w.line("size_t oo_size_of(const void* self)")
	w.line("{")
	w.linef("    const struct %s* m_class = (const struct %s*) oo_class_of(self);", cls, cls)
	w.blank()
	w.line("    return m_class->size;")
	w.line("}")
	w.blank()

	w.linef("int oo_is_a(const void* self, const struct %s* m_class)", cls)
	w.line("{")
	w.line("    return self && oo_class_of(self) == m_class;")
	w.line("}")
	w.blank()

	w.linef("int oo_is_of(const void* self, const struct %s* m_class)", cls)
	w.line("{")
	w.line("    if (self)")
	w.line("    {")
	w.linef("        const struct %s* my_class = (const struct %s*) oo_class_of(self);", cls, cls)
	w.blank()
	w.linef("        if (m_class != (const struct %s*) %s)", cls, obj)
	w.line("        {")
	w.line("            while (my_class != m_class)")
	w.line("            {")
	w.linef("                if (my_class == (const struct %s*) %s)", cls, obj)
	w.line("                {")
	w.line("                    return 0;")
	w.line("                }")
	w.line("                my_class = my_class->super;")
	w.line("            }")
	w.line("        }")
	w.blank()
	w.line("        return 1;")
	w.line("    }")
	w.blank()
	w.line("    return 0;")
	w.line("}")
	w.blank()

	w.line("const void* oo_super(const void* _class)")
	w.line("{")
	w.linef("    const struct %s* self = (const struct %s*) _class;", cls, cls)
	w.blank()
	w.line("    assert(self && self->super);")
	w.blank()
	w.line("    return self->super;")
	w.line("}")
	w.blank()

	w.line("void* oo_new(const void* _class, ...)")
	w.line("{")
	w.linef("    const struct %s* m_class = (const struct %s*) _class;", cls, cls)
	w.linef("    struct %s* curr_obj = NULL;", obj)
	w.line("    va_list ap;")
	w.blank()
	w.line("    assert(m_class && m_class->size);")
	w.blank()
	w.linef("    curr_obj = (struct %s*) calloc(1, m_class->size);", obj)
	w.line("    assert(curr_obj);")
	w.blank()
	w.line("    curr_obj->mclass = m_class;")
	w.blank()
	w.line("    va_start(ap, _class);")
	w.linef("    curr_obj = (struct %s*) ctor(curr_obj, &ap);", obj)
	w.line("    va_end(ap);")
	w.blank()
	w.line("    return curr_obj;")
	w.line("}")
	w.blank()
}

// rootInit renders the root startup routine. On the host the pair is fully
// initialized at link time; the routine's only work is raising the
// accelerator mirrors of the two records.
func (e *Emitter) rootInit(w *cw, model *object.ClassModel, accel bool) {
	obj := model.Name
	cls := model.ClassName
	nslots := len(model.VTable.SlotNames())

	w.linef("void %s(int init_cuda)", object.InitSymbol(obj))
	w.line("{")
	if !accel {
		w.line("    (void) init_cuda;")
		w.line("}")
		return
	}
	w.line("    #ifdef CUDA")
	w.line("    if (init_cuda)")
	w.line("    {")
	w.linef("        const struct %s *obj_addr = NULL, *class_addr = NULL;", cls)
	w.linef("        const size_t obj_size = sizeof(struct %s);", obj)
	w.linef("        const size_t class_size = sizeof(struct %s);", cls)
	w.blank()
	w.line("        CUDA_CHECK_RETURN(cudaMalloc((void**) &obj_addr, class_size));")
	w.line("        CUDA_CHECK_RETURN(cudaMalloc((void**) &class_addr, class_size));")
	w.blank()
	for _, rec := range []struct{ local, size string }{
		{"anon_class_class", "class_size"},
		{"anon_obj_class", "obj_size"},
	} {
		w.linef("        const struct %s %s =", cls, rec.local)
		w.line("        {")
		w.line("            { class_addr },")
		w.line("            obj_addr,")
		w.line("            class_addr,")
		w.linef("            %s,", rec.size)
		for i := 0; i < nslots; i++ {
			w.line("            NULL,")
		}
		w.line("        };")
		w.blank()
	}
	w.line("        CUDA_CHECK_RETURN(")
	w.line("            cudaMemcpy(")
	w.line("                (void*) class_addr,")
	w.line("                &anon_class_class,")
	w.linef("                sizeof(struct %s),", cls)
	w.line("                cudaMemcpyHostToDevice")
	w.line("                )")
	w.line("            );")
	w.blank()
	w.line("        object[1].device_class = class_addr;")
	w.blank()
	w.line("        CUDA_CHECK_RETURN(")
	w.line("            cudaMemcpy(")
	w.line("                (void*) obj_addr,")
	w.line("                &anon_obj_class,")
	w.linef("                sizeof(struct %s),", cls)
	w.line("                cudaMemcpyHostToDevice")
	w.line("                )")
	w.line("            );")
	w.blank()
	w.line("        object[0].device_class = obj_addr;")
	w.blank()
	e.memcpyToSymbol(w, "        ", cls+"_dev_t", "class_addr")
	w.blank()
	e.memcpyToSymbol(w, "        ", obj+"_dev_t", "obj_addr")
	w.line("    }")
	w.line("    #else")
	w.line("    (void) init_cuda;")
	w.line("    #endif")
	w.line("}")
}

func (e *Emitter) memcpyToSymbol(w *cw, indent, symbol, addr string) {
	w.line(indent + "CUDA_CHECK_RETURN(")
	w.line(indent + "    cudaMemcpyToSymbol(")
	w.linef("%s        (const void*) &%s,", indent, symbol)
	w.linef("%s        &%s,", indent, addr)
	w.line(indent + "        sizeof(void*),")
	w.line(indent + "        0,")
	w.line(indent + "        cudaMemcpyHostToDevice")
	w.line(indent + "        )")
	w.line(indent + "    );")
}

// moduleInit renders the startup routine of a non-root class: lazily create
// the class record, then the instance-class record, and raise their
// accelerator mirrors when requested.
func (e *Emitter) moduleInit(w *cw, model *object.ClassModel, accel bool) {
	obj := model.Name
	cls := model.ClassName
	root := model.Root()

	w.linef("void %s(int init_cuda)", object.InitSymbol(obj))
	w.line("{")
	if !accel {
		w.line("    (void) init_cuda;")
	}

	// Class record: bootstrap bindings hang off the lifecycle selectors.
	w.linef("    if (!%s)", cls)
	w.line("    {")
	w.linef("        %s =", cls)
	w.line("            oo_new(")
	w.linef("                %s,", root.ClassName)
	w.linef("                %s,", model.Super.ClassName)
	w.linef("                sizeof(struct %s),", cls)
	for _, m := range model.Methods {
		if m.Kind != object.MethodClassInternal {
			continue
		}
		w.linef("                %s, %s,", clsSelector(m.Name), object.MethodImplSymbol(model, m))
	}
	w.line("                0")
	w.line("            );")
	w.blank()
	w.linef("        struct %s* class_obj = (struct %s*) %s;", root.Name, root.Name, cls)
	w.linef("        memcpy((void**) &class_obj->mclass, &%s, sizeof(void*));", cls)
	if accel {
		e.initCUDABlock(w, model, cls, cls+"_dev_t", "tmp_class")
	}
	w.line("    }")
	w.blank()

	// Instance-class record: every body the class carries is registered
	// against its selector.
	w.linef("    if (!%s)", obj)
	w.line("    {")
	w.linef("        %s =", obj)
	w.line("            oo_new(")
	w.linef("                %s,", cls)
	w.linef("                %s,", model.Super.Name)
	w.linef("                sizeof(struct %s),", obj)
	for _, m := range model.Methods {
		if m.Kind == object.MethodClassInternal {
			continue
		}
		w.linef("                %s, %s,", m.Name, object.MethodImplSymbol(model, m))
	}
	w.line("                0")
	w.line("            );")
	if accel {
		e.initCUDABlock(w, model, obj, obj+"_dev_t", "tmp_obj")
	}
	w.line("    }")
	w.line("}")
}

func (e *Emitter) initCUDABlock(w *cw, model *object.ClassModel, varName, symbol, tmp string) {
	root := model.Root()
	w.blank()
	w.line("        #ifdef CUDA")
	w.line("        if (init_cuda)")
	w.line("        {")
	w.linef("            void* %s = cudafy((void*) %s, 1);", tmp, varName)
	w.linef("            ((struct %s*) %s)->device_class = (struct %s*) %s;", root.ClassName, varName, root.ClassName, tmp)
	w.line("            CUDA_CHECK_RETURN(")
	w.line("                cudaMemcpyToSymbol(")
	w.linef("                    (const void*) &%s,", symbol)
	w.linef("                    &%s,", tmp)
	w.line("                    sizeof(void*),")
	w.line("                    0,")
	w.line("                    cudaMemcpyHostToDevice")
	w.line("                    )")
	w.line("                );")
	w.line("        }")
	w.line("        #endif")
}
