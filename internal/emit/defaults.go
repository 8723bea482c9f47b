package emit

import (
	"strings"
	"text/template"

	"oogen/internal/builder"
	"oogen/internal/ctype"
	"oogen/internal/diag"
	"oogen/internal/object"
)

// Synthesized default bodies. The builder records only a template name and
// its parameters on the method descriptor; the text is produced here, at
// emission time, from the finished class model.

const ctorDefaultText = `    struct {{.class}}* _self = (struct {{.class}}*) super_ctor({{.class}}, self, app);
{{- range .fields}}
    _self->{{.Name}} = va_arg(*app, {{.Type}});
{{- end}}
    return _self;`

const clsCtorDefaultText = `    struct {{.cls}}* _self = (struct {{.cls}}*) super_ctor({{.cls}}, self, app);
{{- if .own}}

    voidf selector = NULL; selector = va_arg(*app, voidf);

    while (selector)
    {
        const voidf curr_method = va_arg(*app, voidf);
{{- range .own}}
        if (selector == (voidf) {{.Method}})
        {
            *(voidf *) &_self->{{.Slot}} = curr_method;
        }
{{- end}}
        selector = va_arg(*app, voidf);
    }
{{- end}}

    return _self;`

const clsCudafyDefaultText = `    #ifdef CUDA
    struct {{.cls}}* my_class = (struct {{.cls}}*) self;

    struct {{.cls}} copy_class = *my_class;
    struct {{.rootCls}}* copy_class_class = (struct {{.rootCls}}*) &copy_class;
{{- range .own}}

    {{.Typedef}} my_{{.Method}} = NULL;
    CUDA_CHECK_RETURN(
        cudaMemcpyFromSymbol(
            (void**) &my_{{.Method}},
            (const void*) &{{.DeviceSymbol}},
            sizeof(void*),
            0,
            cudaMemcpyDeviceToHost
            )
        );
    copy_class.{{.Slot}} = my_{{.Method}};
{{- end}}

    if (clobber)
    {
        const struct {{.rootCls}}* super_class = (const struct {{.rootCls}}*) {{.superCls}};
        memcpy((void**) &copy_class_class->super, &super_class->device_class, sizeof(void*));
    }

    return super_cudafy({{.cls}}, (void*) &copy_class, 0);
    #else
    return NULL;
    #endif`

var defaultTemplates = template.Must(template.New("defaults").
	Option("missingkey=error").
	Parse(strings.Join([]string{
		`{{define "` + builder.TemplateCtorDefault + `"}}` + ctorDefaultText + `{{end}}`,
		`{{define "` + builder.TemplateClsCtorDefault + `"}}` + clsCtorDefaultText + `{{end}}`,
		`{{define "` + builder.TemplateClsCudafyDefault + `"}}` + clsCudafyDefaultText + `{{end}}`,
	}, "\n")))

type ownMethodCtx struct {
	Method       string
	Slot         string
	Typedef      string
	DeviceSymbol string
}

type ctorFieldCtx struct {
	Name string
	Type string
}

// templateContext assembles the render context for one default body. It
// starts from the descriptor's recorded parameters and adds the model-level
// values the template iterates over.
func (e *Emitter) templateContext(model *object.ClassModel, m object.MethodDescriptor) map[string]any {
	ctx := make(map[string]any, len(m.Body.Vars)+6)
	for k, v := range m.Body.Vars {
		ctx[k] = v
	}
	ctx["cls"] = model.ClassName
	ctx["rootCls"] = model.Root().ClassName
	if model.Super != nil {
		ctx["superCls"] = model.Super.ClassName
	}

	own := make([]ownMethodCtx, 0, len(model.OwnMethods))
	for _, om := range model.OwnMethods {
		own = append(own, ownMethodCtx{
			Method:       om.Name,
			Slot:         string(object.SlotFor(om.Name)),
			Typedef:      typedefName(om.Name),
			DeviceSymbol: model.Name + "_cuda_" + om.Name + "_t",
		})
	}
	ctx["own"] = own

	fields := make([]ctorFieldCtx, 0, len(model.OwnFields))
	for _, f := range model.OwnFields {
		// Arrays cannot travel through va_arg; array state stays
		// zero-initialized until assigned explicitly.
		if t := e.Types.MustLookup(f.Type); t.Kind == ctype.KindArray {
			continue
		}
		fields = append(fields, ctorFieldCtx{
			Name: f.Name,
			Type: declOf(e.Types, f.Type, ""),
		})
	}
	ctx["fields"] = fields
	return ctx
}

// renderDefault produces the text of one synthesized default body.
func (e *Emitter) renderDefault(model *object.ClassModel, m object.MethodDescriptor) (string, error) {
	tmpl := defaultTemplates.Lookup(m.Body.Template)
	if tmpl == nil {
		return "", emitErrf(diag.EmtUnresolved, model.Name, m.Name,
			"unknown default-body template %q", m.Body.Template)
	}
	var sb strings.Builder
	if err := tmpl.Execute(&sb, e.templateContext(model, m)); err != nil {
		return "", emitErrf(diag.EmtUnresolved, model.Name, m.Name,
			"rendering %q: %v", m.Body.Template, err)
	}
	return sb.String(), nil
}
