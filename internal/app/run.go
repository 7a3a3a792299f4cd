package app

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/vk/aotbake/internal/ctxlog"
	"github.com/vk/aotbake/internal/pipeline"
)

// Run executes the build pipeline and writes the image manifest.
func (a *App) Run(ctx context.Context, appConfig *Config) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	p := pipeline.New(a.registry, a.catalog, a.image, a.engine)
	if err := p.Run(ctx); err != nil {
		return fmt.Errorf("build pipeline failed: %w", err)
	}

	var w io.Writer = a.outW
	if appConfig.OutputPath != "" {
		f, err := os.Create(appConfig.OutputPath)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		w = f
	}
	if err := a.image.WriteManifest(w); err != nil {
		return err
	}

	a.logger.Info("Image manifest written.",
		"build_id", a.image.BuildID(),
		"output", appConfig.OutputPath,
		"runtime_init_classes", len(a.image.RuntimeInitClasses()))
	a.logger.Debug("App.Run method finished.")
	return nil
}
