package pipeline

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/aotbake/internal/analysis"
	"github.com/vk/aotbake/internal/catalog"
	"github.com/vk/aotbake/internal/classpath"
	"github.com/vk/aotbake/internal/config"
	"github.com/vk/aotbake/internal/feature"
	"github.com/vk/aotbake/internal/image"
)

// recordingFeature records which phases the pipeline invoked.
type recordingFeature struct {
	name   string
	marker string

	mu     sync.Mutex
	phases []string

	beforeAnalysis func(access feature.AnalysisAccess)
}

func (f *recordingFeature) Name() string { return f.name }

func (f *recordingFeature) IsInConfiguration(access feature.ConfigurationAccess) bool {
	f.record("isInConfiguration")
	return access.FindClassByName(f.marker) != nil
}

func (f *recordingFeature) DuringSetup(access feature.SetupAccess) {
	f.record("duringSetup")
}

func (f *recordingFeature) BeforeAnalysis(access feature.AnalysisAccess) {
	f.record("beforeAnalysis")
	if f.beforeAnalysis != nil {
		f.beforeAnalysis(access)
	}
}

func (f *recordingFeature) record(phase string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.phases = append(f.phases, phase)
}

func (f *recordingFeature) recorded() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.phases...)
}

func testPipeline(t *testing.T, model *config.Model, features ...feature.Feature) (*Pipeline, *image.Builder) {
	t.Helper()

	cat := catalog.Build(model, classpath.NewLoader())
	img := image.NewBuilder()
	engine := analysis.New(cat, model.EntryPoints, 2)
	reg := feature.NewRegistry()
	for _, f := range features {
		reg.Register(f)
	}
	return New(reg, cat, img, engine), img
}

func markerModel() *config.Model {
	return &config.Model{
		Classes: map[string]*config.ClassDefinition{
			"app.Marker": {
				Name:   "app.Marker",
				Fields: []string{"state"},
				Methods: map[string]*config.MethodDefinition{
					"init": {Name: "init", Native: true},
				},
			},
		},
		EntryPoints: []string{"app.Marker#init"},
	}
}

func TestRun_InactiveFeatureSeesNoLaterPhase(t *testing.T) {
	t.Parallel()

	f := &recordingFeature{name: "stub", marker: "app.NotOnClasspath"}
	p, _ := testPipeline(t, markerModel(), f)

	require.NoError(t, p.Run(context.Background()))
	require.Equal(t, []string{"isInConfiguration"}, f.recorded())
}

func TestRun_PhasesRunInOrder(t *testing.T) {
	t.Parallel()

	f := &recordingFeature{name: "stub", marker: "app.Marker"}
	p, _ := testPipeline(t, markerModel(), f)

	require.NoError(t, p.Run(context.Background()))
	require.Equal(t, []string{"isInConfiguration", "duringSetup", "beforeAnalysis"}, f.recorded())
}

func TestRun_ReachabilityHandlerGetsWorkingAccess(t *testing.T) {
	t.Parallel()

	// The handler installed in beforeAnalysis must receive an access
	// surface wired to the same image builder.
	f := &recordingFeature{
		name:   "stub",
		marker: "app.Marker",
		beforeAnalysis: func(access feature.AnalysisAccess) {
			class := access.FindClassByName("app.Marker")
			access.RegisterReachabilityHandler(func(a feature.AnalysisAccess) {
				a.RegisterFieldsForNativeAccess(class.DeclaredFields())
			}, class.Method("init"))
		},
	}
	p, img := testPipeline(t, markerModel(), f)

	require.NoError(t, p.Run(context.Background()))
	require.Equal(t, []string{"state"}, img.NativeAccessFields("app.Marker"))
}
