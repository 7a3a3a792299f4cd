package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/aotbake/internal/analysis"
	"github.com/vk/aotbake/internal/catalog"
	"github.com/vk/aotbake/internal/classpath"
	"github.com/vk/aotbake/internal/config"
	"github.com/vk/aotbake/internal/ctxlog"
	"github.com/vk/aotbake/internal/feature"
	"github.com/vk/aotbake/internal/image"
)

// App encapsulates one build's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	registry *feature.Registry
	catalog  *catalog.Catalog
	image    *image.Builder
	engine   *analysis.Engine
}

// NewApp constructs a fully initialized App: isolated logger, loaded
// program model, catalog, image builder, analysis engine, and the feature
// registry. When no features are passed, the built-in set is used.
//
// Startup errors here mean the build cannot proceed at all, so NewApp
// panics; cmd/cli recovers and turns the panic into a clean exit.
func NewApp(outW io.Writer, appConfig *Config, loader config.Loader, features ...feature.Feature) *App {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	model, err := loader.Load(ctx, appConfig.ManifestPath)
	if err != nil {
		panic(fmt.Errorf("failed to load program manifest: %w", err))
	}
	logger.Debug("Program manifest loaded into unified model.")

	cp := classpath.NewDirLoader(model.ResourceRoots...)
	cat := catalog.Build(model, cp)
	logger.Debug("Class catalog built.", "classes", len(model.Classes))

	img := image.NewBuilder()
	engine := analysis.New(cat, model.EntryPoints, appConfig.WorkerCount)

	reg := feature.NewRegistry()
	if len(features) == 0 {
		features = builtinFeatures()
	}
	for _, f := range features {
		reg.Register(f)
	}
	logger.Debug("All features registered.", "count", len(features))

	return &App{
		outW:     outW,
		logger:   logger,
		registry: reg,
		catalog:  cat,
		image:    img,
		engine:   engine,
	}
}

// Image exposes the build's image builder, mainly for tests that assert on
// the final registrations.
func (a *App) Image() *image.Builder {
	return a.image
}
