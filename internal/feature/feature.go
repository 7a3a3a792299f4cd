// Package feature defines the extension points a build exposes to
// pluggable features, and the registry the app populates at startup.
//
// A feature sees the build through three access surfaces, one per
// pipeline phase. The surfaces deliberately expose only lookups and
// registrations: features describe metadata, they do not compute.
package feature

import (
	"io"

	"github.com/vk/aotbake/internal/catalog"
)

// ConfigurationAccess is the applicability-phase surface: lookups only.
type ConfigurationAccess interface {
	// FindClassByName resolves a fully-qualified class name, nil when the
	// class is not part of this build.
	FindClassByName(name string) *catalog.Class
}

// SetupAccess is the setup-phase surface.
type SetupAccess interface {
	ConfigurationAccess

	// InitializeAtRunTime defers each class's static initialization to
	// process start. Repeated calls for the same class are no-ops.
	InitializeAtRunTime(classes ...*catalog.Class)
}

// AnalysisAccess is the before-analysis surface. Reachability handlers
// installed here fire asynchronously during the analysis pass, possibly
// concurrently with each other, and receive this same surface.
type AnalysisAccess interface {
	ConfigurationAccess

	// RegisterReachabilityHandler invokes fn exactly once, on an analysis
	// worker, the first time method is proven reachable. A method that is
	// never reached never fires.
	RegisterReachabilityHandler(fn func(AnalysisAccess), method *catalog.Method)

	// RegisterResource embeds a resource payload in the image. A nil
	// reader records an explicitly-absent entry; the build applies no
	// validation of its own.
	RegisterResource(path string, r io.Reader)

	// RegisterFieldsForNativeAccess marks fields as accessible to foreign
	// code at run time.
	RegisterFieldsForNativeAccess(fields []*catalog.Field)
}

// Feature is one pluggable unit of build configuration.
type Feature interface {
	// Name identifies the feature in logs and the registry.
	Name() string

	// IsInConfiguration reports whether the feature applies to this build.
	// Inactive features see no later phase. Must be side-effect free.
	IsInConfiguration(access ConfigurationAccess) bool

	// DuringSetup runs once, synchronously, before analysis begins.
	DuringSetup(access SetupAccess)

	// BeforeAnalysis runs once, synchronously, immediately before the
	// reachability pass; this is where handlers and eager resources are
	// registered.
	BeforeAnalysis(access AnalysisAccess)
}
