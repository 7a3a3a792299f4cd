package hcl

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/aotbake/internal/config"
	"github.com/vk/aotbake/internal/ctxlog"
	"github.com/vk/aotbake/internal/fsutil"
	"github.com/zclconf/go-cty/cty"
)

// Loader is the HCL implementation of config.Loader.
type Loader struct{}

// NewLoader creates an HCL manifest loader.
func NewLoader() *Loader {
	return &Loader{}
}

// evalContext exposes the build's target platform to manifest expressions.
func evalContext() *hcl.EvalContext {
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"platform": cty.StringVal(runtime.GOOS),
			"arch":     cty.StringVal(runtime.GOARCH),
		},
	}
}

// Load reads every .hcl manifest reachable from the given paths and merges
// them into one model. A path may be a single file or a directory searched
// recursively.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)

	var files []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("failed to stat manifest path %s: %w", path, err)
		}
		if info.IsDir() {
			found, err := fsutil.FindFilesByExtension(path, ".hcl")
			if err != nil {
				return nil, fmt.Errorf("failed to walk manifest directory %s: %w", path, err)
			}
			files = append(files, found...)
		} else {
			files = append(files, path)
		}
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("no .hcl manifest files found in %v", paths)
	}
	logger.Debug("Found manifest files to load.", "files", files)

	parser := hclparse.NewParser()
	evalCtx := evalContext()
	model := &config.Model{Classes: make(map[string]*config.ClassDefinition)}

	for _, filePath := range files {
		hclFile, diags := parser.ParseHCLFile(filePath)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse manifest file %s: %w", filePath, diags)
		}

		var mf manifestFile
		if diags := gohcl.DecodeBody(hclFile.Body, evalCtx, &mf); diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode manifest file %s: %w", filePath, diags)
		}

		model.Merge(translate(&mf, filepath.Dir(filePath)))
		logger.Debug("Loaded manifest file.", "file", filePath)
	}

	logger.Info("Program manifest loaded.",
		"classes", len(model.Classes),
		"entry_points", len(model.EntryPoints),
		"resource_roots", len(model.ResourceRoots))
	return model, nil
}

// translate converts the HCL-specific schema into the agnostic model.
// Relative resource roots resolve against the manifest file's directory.
func translate(mf *manifestFile, baseDir string) *config.Model {
	model := &config.Model{Classes: make(map[string]*config.ClassDefinition, len(mf.Classes))}

	if mf.Image != nil {
		model.EntryPoints = append(model.EntryPoints, mf.Image.EntryPoints...)
		for _, root := range mf.Image.ResourceRoots {
			if !filepath.IsAbs(root) {
				root = filepath.Join(baseDir, root)
			}
			model.ResourceRoots = append(model.ResourceRoots, root)
		}
	}

	for _, cb := range mf.Classes {
		def := &config.ClassDefinition{
			Name:    cb.Name,
			Fields:  cb.Fields,
			Methods: make(map[string]*config.MethodDefinition, len(cb.Methods)),
		}
		for _, mb := range cb.Methods {
			def.Methods[mb.Name] = &config.MethodDefinition{
				Name:   mb.Name,
				Calls:  mb.Calls,
				Native: mb.Native,
			}
		}
		model.Classes[cb.Name] = def
	}

	return model
}
