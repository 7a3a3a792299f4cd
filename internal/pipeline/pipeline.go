// Package pipeline drives a build through its phases: applicability
// filtering, setup, before-analysis registration, then the reachability
// pass. A feature whose applicability check fails never sees any later
// phase.
package pipeline

import (
	"context"
	"fmt"
	"io"

	"github.com/vk/aotbake/internal/analysis"
	"github.com/vk/aotbake/internal/catalog"
	"github.com/vk/aotbake/internal/ctxlog"
	"github.com/vk/aotbake/internal/feature"
	"github.com/vk/aotbake/internal/image"
)

// Pipeline owns the per-build collaborators the feature surfaces delegate to.
type Pipeline struct {
	registry *feature.Registry
	catalog  *catalog.Catalog
	image    *image.Builder
	engine   *analysis.Engine
}

// New assembles a pipeline for one build.
func New(registry *feature.Registry, cat *catalog.Catalog, img *image.Builder, engine *analysis.Engine) *Pipeline {
	return &Pipeline{
		registry: registry,
		catalog:  cat,
		image:    img,
		engine:   engine,
	}
}

// access implements every phase surface by delegating to the pipeline's
// collaborators. One value serves all phases; the interfaces restrict
// what each phase can reach.
type access struct {
	p *Pipeline
}

var _ feature.AnalysisAccess = (*access)(nil)

func (a *access) FindClassByName(name string) *catalog.Class {
	return a.p.catalog.FindClassByName(name)
}

func (a *access) InitializeAtRunTime(classes ...*catalog.Class) {
	for _, class := range classes {
		a.p.image.InitializeAtRunTime(class)
	}
}

func (a *access) RegisterReachabilityHandler(fn func(feature.AnalysisAccess), method *catalog.Method) {
	a.p.engine.RegisterReachabilityHandler(func() { fn(a) }, method)
}

func (a *access) RegisterResource(path string, r io.Reader) {
	a.p.image.EmbedResource(path, r)
}

func (a *access) RegisterFieldsForNativeAccess(fields []*catalog.Field) {
	a.p.image.RegisterNativeAccessFields(fields)
}

// Run executes the build phases in order. Phase callbacks run
// synchronously on the calling goroutine; only reachability handlers run
// on analysis workers.
func (p *Pipeline) Run(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	a := &access{p: p}

	var active []feature.Feature
	for _, f := range p.registry.Features() {
		if f.IsInConfiguration(a) {
			logger.Debug("Feature is in configuration.", "feature", f.Name())
			active = append(active, f)
		} else {
			logger.Debug("Feature not applicable, skipping.", "feature", f.Name())
		}
	}

	for _, f := range active {
		logger.Debug("Running setup phase.", "feature", f.Name())
		f.DuringSetup(a)
	}

	for _, f := range active {
		logger.Debug("Running before-analysis phase.", "feature", f.Name())
		f.BeforeAnalysis(a)
	}

	if err := p.engine.Run(ctx); err != nil {
		return fmt.Errorf("reachability analysis failed: %w", err)
	}
	return nil
}
