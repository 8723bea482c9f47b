package emit

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"oogen/internal/object"
)

var upper = cases.Upper(language.Und)

func includeGuard(name string) string {
	return upper.String(name) + "_H"
}

// cudaCheckMacro aborts on any accelerator API failure. It lives in the
// root header so every generated body can use it.
const cudaCheckMacro = `#define CUDA_CHECK_RETURN(value) {                          \
    cudaError_t _m_cuda_stat = value;                       \
    if (_m_cuda_stat != cudaSuccess) {                      \
        fprintf(stderr, "Error %s at line %d in file %s\n", \
            cudaGetErrorString(_m_cuda_stat),               \
            __LINE__, __FILE__);                            \
        exit(1);                                            \
    } }`

// header renders the public interface of one class: function-pointer
// typedefs, module variable and entry-point externs, and the two struct
// definitions. Accelerator declarations stay behind the CUDA guard, so the
// header is the same with and without accelerator support.
func (e *Emitter) header(model *object.ClassModel) []byte {
	w := &cw{}
	guard := includeGuard(model.Name)
	root := model.IsRoot()

	w.linef("#ifndef %s", guard)
	w.linef("#define %s", guard)
	w.blank()
	for _, lib := range []string{"assert.h", "stdarg.h", "stddef.h", "stdint.h", "stdio.h", "stdlib.h"} {
		w.linef("#include <%s>", lib)
	}
	w.blank()

	if root {
		w.line("#ifdef CUDA")
		w.line("#include <cuda_runtime.h>")
		w.line("#include <cuda_runtime_api.h>")
		w.blank()
		w.line(cudaCheckMacro)
		w.line("#endif")
		w.blank()
		w.line("typedef void (* voidf) ();")
		w.blank()
	} else {
		w.linef("#include \"%s.h\"", model.Super.Name)
		w.blank()
	}

	for _, m := range model.OwnMethods {
		w.linef("%s;", typedefDecl(e.Types, m.Name, m.Sig))
	}
	if len(model.OwnMethods) > 0 {
		w.blank()
	}

	w.linef("struct %s;", model.ClassName)
	w.linef("struct %s;", model.Name)
	w.blank()
	w.linef("extern const void* %s;", model.Name)
	w.linef("extern const void* %s;", model.ClassName)
	w.blank()

	if root {
		cls := model.ClassName
		w.line("extern const void* oo_class_of(const void* self);")
		w.line("extern size_t oo_size_of(const void* self);")
		w.linef("extern int oo_is_a(const void* self, const struct %s* m_class);", cls)
		w.linef("extern int oo_is_of(const void* self, const struct %s* m_class);", cls)
		w.line("extern const void* oo_super(const void* _class);")
		w.line("extern void* oo_new(const void* _class, ...);")
		w.blank()
	}
	w.linef("extern void %s(int init_cuda);", object.InitSymbol(model.Name))
	w.blank()

	for _, d := range model.Delegators {
		w.linef("extern %s;", funcDecl(e.Types, d.Name(), d.Sig))
	}
	for _, d := range model.SuperDelegators {
		w.linef("extern %s;", funcDecl(e.Types, d.Name(), d.Sig))
	}
	if len(model.Delegators) > 0 {
		w.blank()
	}

	e.structDef(w, model.Instance)
	w.blank()
	e.structDef(w, model.VTable)
	w.blank()
	w.linef("#endif /* %s */", guard)
	return w.bytes()
}
