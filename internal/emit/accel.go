package emit

import (
	"oogen/internal/object"
)

// accelHeader renders the device-side companion header: the constant
// symbols the startup routines publish device addresses through, and the
// device function-pointer symbols the class-migration default reads back.
func (e *Emitter) accelHeader(model *object.ClassModel) []byte {
	w := &cw{}
	guard := upper.String(model.Name) + "_CUH"

	w.linef("#ifndef %s", guard)
	w.linef("#define %s", guard)
	w.blank()
	w.line("#ifdef CUDA")
	w.blank()
	w.linef("#include \"%s.h\"", model.Name)
	if !model.IsRoot() {
		w.linef("#include \"%s.cuh\"", model.Super.Name)
	}
	w.blank()
	w.linef("extern __device__ __constant__ const void* %s_dev_t;", model.Name)
	w.linef("extern __device__ __constant__ const void* %s_dev_t;", model.ClassName)
	if !model.IsRoot() && len(model.OwnMethods) > 0 {
		w.blank()
		for _, m := range model.OwnMethods {
			w.linef("extern __device__ %s %s_cuda_%s_t;", typedefName(m.Name), model.Name, m.Name)
		}
	}
	w.blank()
	w.line("#endif")
	w.blank()
	w.linef("#endif /* %s */", guard)
	return w.bytes()
}
