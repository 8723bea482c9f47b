// Package pipeline drives a whole generation run: parse descriptions, order
// them by inheritance, build each class model on its finished superclass,
// plan the startup bootstrap and emit artifacts. One broken class never
// takes down the rest of the chain; its subclasses are marked failed and
// everything else proceeds.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/sync/errgroup"

	"oogen/internal/builder"
	"oogen/internal/cache"
	"oogen/internal/ctype"
	"oogen/internal/diag"
	"oogen/internal/emit"
	"oogen/internal/mirror"
	"oogen/internal/object"
	"oogen/internal/trace"
)

// Input is one class description document.
type Input struct {
	// Origin labels the document in diagnostics, usually its path.
	Origin string
	Data   []byte
}

// Options configures one run.
type Options struct {
	// Accel requests accelerator mirror planning and artifacts.
	Accel bool
	// OutputDir receives the artifacts; empty keeps them in memory only.
	OutputDir string
	// Cache short-circuits emission for unchanged classes. Nil disables.
	Cache *cache.DiskCache
	// Translator lowers structured method bodies; nil passes them through.
	Translator emit.BodyTranslator
	Tracer     trace.Tracer
}

// ClassResult is the per-class outcome.
type ClassResult struct {
	Name      string
	Model     *object.ClassModel
	Artifacts []emit.Artifact
	// Cached marks artifacts served from the disk cache.
	Cached bool
	// Failed marks classes whose description, superclass or emission was
	// broken. A failed class produces no artifacts.
	Failed bool
}

// Result is the whole-run outcome.
type Result struct {
	Classes   []ClassResult
	Bootstrap *mirror.Bootstrap
	Diags     *diag.Bag
}

// Succeeded counts classes that produced artifacts.
func (r *Result) Succeeded() int {
	n := 0
	for _, c := range r.Classes {
		if !c.Failed {
			n++
		}
	}
	return n
}

const maxDiagnostics = 256

// Run executes the pipeline over the given descriptions.
func Run(ctx context.Context, inputs []Input, opts Options) (*Result, error) {
	tracer := opts.Tracer
	if tracer == nil {
		tracer = trace.Nop
	}
	types := ctype.NewInterner()
	bags := diag.NewBag(maxDiagnostics)
	res := &Result{Diags: bags}

	trace.Pointf(tracer, trace.ScopePipeline, "parse", "%d descriptions", len(inputs))
	parsed := parseAll(types, tracer, inputs, bags)

	trace.Pointf(tracer, trace.ScopePipeline, "order", "%d parsed", len(parsed))
	ordered, dropped := orderChain(parsed, bags)
	for _, name := range dropped {
		res.Classes = append(res.Classes, ClassResult{Name: name, Failed: true})
	}

	b := builder.New(types, tracer)
	e := emit.New(types, opts.Translator, tracer)

	models := make(map[string]*object.ClassModel, len(ordered))
	keys := make(map[string]cache.Digest, len(ordered))

	trace.Pointf(tracer, trace.ScopePipeline, "build", "%d classes in order", len(ordered))
	for _, p := range ordered {
		cr := ClassResult{Name: p.desc.Name}

		var super *object.ClassModel
		if !p.desc.IsRoot() {
			parent, ok := models[p.desc.Superclass]
			if !ok {
				bags.Add(diag.NewError(diag.CfgUnfinishedSuper, p.desc.Name, "",
					fmt.Sprintf("superclass %q failed; class not generated", p.desc.Superclass)))
				cr.Failed = true
				res.Classes = append(res.Classes, cr)
				continue
			}
			super = parent
		}

		model, err := b.BuildClass(p.desc, super)
		if err != nil {
			addError(bags, p.desc.Name, err)
			cr.Failed = true
			res.Classes = append(res.Classes, cr)
			continue
		}
		cr.Model = model
		models[model.Name] = model

		key := cache.Key(p.data, keys[p.desc.Superclass], opts.Accel)
		keys[model.Name] = key

		if arts, ok := cacheGet(opts.Cache, key); ok {
			cr.Artifacts = arts
			cr.Cached = true
			res.Classes = append(res.Classes, cr)
			continue
		}

		arts, err := e.Class(ctx, model, opts.Accel)
		if err != nil {
			addError(bags, model.Name, err)
			cr.Failed = true
			delete(models, model.Name)
			res.Classes = append(res.Classes, cr)
			continue
		}
		cr.Artifacts = arts
		cachePut(opts.Cache, key, model.Name, arts)
		res.Classes = append(res.Classes, cr)
	}

	res.Bootstrap = planBootstrap(res, models, opts.Accel, bags)

	if opts.OutputDir != "" {
		writeArtifacts(ctx, opts.OutputDir, res, bags)
	}

	bags.Sort()
	return res, nil
}

type parsedInput struct {
	desc *object.ClassDescription
	data []byte
}

// addError converts a stage error into a diagnostic.
func addError(bags *diag.Bag, class string, err error) {
	var cerr *builder.ConfigError
	if errors.As(err, &cerr) {
		bags.Add(cerr.Diagnostic())
		return
	}
	var eerr *emit.EmitError
	if errors.As(err, &eerr) {
		bags.Add(eerr.Diagnostic())
		return
	}
	var terr *emit.TranslationError
	if errors.As(err, &terr) {
		bags.Add(diag.NewError(diag.TrnFailed, terr.Class, terr.Method, terr.Err.Error()))
		return
	}
	bags.Add(diag.NewError(diag.UnknownCode, class, "", err.Error()))
}

// planBootstrap assembles the startup plan over every successful model, in
// generation order.
func planBootstrap(res *Result, models map[string]*object.ClassModel, accel bool, bags *diag.Bag) *mirror.Bootstrap {
	chain := make([]*object.ClassModel, 0, len(models))
	for _, cr := range res.Classes {
		if cr.Failed || cr.Model == nil {
			continue
		}
		if _, ok := models[cr.Name]; !ok {
			continue
		}
		chain = append(chain, cr.Model)
	}
	if len(chain) == 0 {
		return nil
	}
	boot, err := mirror.PlanChain(chain, accel)
	if err != nil {
		bags.Add(diag.NewError(diag.UnknownCode, "", "", err.Error()))
		return nil
	}
	return boot
}

func cacheGet(c *cache.DiskCache, key cache.Digest) ([]emit.Artifact, bool) {
	if c == nil {
		return nil, false
	}
	var payload cache.Payload
	hit, err := c.Get(key, &payload)
	if err != nil || !hit || len(payload.Names) != len(payload.Blobs) {
		return nil, false
	}
	arts := make([]emit.Artifact, len(payload.Names))
	for i := range payload.Names {
		arts[i] = emit.Artifact{Name: payload.Names[i], Data: payload.Blobs[i]}
	}
	return arts, true
}

func cachePut(c *cache.DiskCache, key cache.Digest, class string, arts []emit.Artifact) {
	if c == nil {
		return
	}
	names := make([]string, len(arts))
	blobs := make([][]byte, len(arts))
	for i, a := range arts {
		names[i] = a.Name
		blobs[i] = a.Data
	}
	// A failed write only costs a future regeneration.
	_ = c.Put(key, cache.NewPayload(class, names, blobs))
}

// writeArtifacts fans the artifact writes out over a bounded worker group.
func writeArtifacts(ctx context.Context, dir string, res *Result, bags *diag.Bag) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		bags.Add(diag.NewError(diag.EmtWriteFail, "", "", err.Error()))
		return
	}

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(8)
	var mu sync.Mutex

	for _, cr := range res.Classes {
		for _, a := range cr.Artifacts {
			class, art := cr.Name, a
			g.Go(func() error {
				if err := os.WriteFile(filepath.Join(dir, art.Name), art.Data, 0o644); err != nil {
					mu.Lock()
					bags.Add(diag.NewError(diag.EmtWriteFail, class, art.Name, err.Error()))
					mu.Unlock()
				}
				return nil
			})
		}
	}
	_ = g.Wait()
}
