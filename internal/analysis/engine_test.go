package analysis

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/aotbake/internal/catalog"
	"github.com/vk/aotbake/internal/classpath"
	"github.com/vk/aotbake/internal/config"
)

// chainCatalog builds main -> helper#run -> native#init.
func chainCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()

	model := &config.Model{
		Classes: map[string]*config.ClassDefinition{
			"app.Main": {
				Name: "app.Main",
				Methods: map[string]*config.MethodDefinition{
					"main": {Name: "main", Calls: []string{"app.Helper#run"}},
				},
			},
			"app.Helper": {
				Name: "app.Helper",
				Methods: map[string]*config.MethodDefinition{
					"run": {Name: "run", Calls: []string{"app.Native#init"}},
					// idle is declared but never called by anyone.
					"idle": {Name: "idle"},
				},
			},
			"app.Native": {
				Name: "app.Native",
				Methods: map[string]*config.MethodDefinition{
					"init": {Name: "init", Native: true},
				},
			},
		},
	}
	return catalog.Build(model, classpath.NewLoader())
}

func TestRun_FiresHandlerForReachableMethod(t *testing.T) {
	t.Parallel()

	cat := chainCatalog(t)
	engine := New(cat, []string{"app.Main#main"}, 2)

	var fired atomic.Int32
	initMethod := cat.FindClassByName("app.Native").Method("init")
	engine.RegisterReachabilityHandler(func() { fired.Add(1) }, initMethod)

	require.NoError(t, engine.Run(context.Background()))

	require.Equal(t, int32(1), fired.Load())
	require.True(t, engine.Reached("app.Native#init"))
	require.True(t, engine.Reached("app.Helper#run"))
}

func TestRun_UnreachableMethodNeverFires(t *testing.T) {
	t.Parallel()

	cat := chainCatalog(t)
	engine := New(cat, []string{"app.Main#main"}, 2)

	var fired atomic.Int32
	idle := cat.FindClassByName("app.Helper").Method("idle")
	engine.RegisterReachabilityHandler(func() { fired.Add(1) }, idle)

	require.NoError(t, engine.Run(context.Background()))

	require.Equal(t, int32(0), fired.Load())
	require.False(t, engine.Reached("app.Helper#idle"))
}

func TestRun_SkipsUnknownEntryPoints(t *testing.T) {
	t.Parallel()

	cat := chainCatalog(t)
	engine := New(cat, []string{"app.Gone#main", "app.Main#main"}, 2)

	require.NoError(t, engine.Run(context.Background()), "unknown entry points are skipped, not fatal")
	require.True(t, engine.Reached("app.Main#main"))
}

func TestRun_CyclicCallGraphTerminates(t *testing.T) {
	t.Parallel()

	model := &config.Model{
		Classes: map[string]*config.ClassDefinition{
			"app.A": {
				Name: "app.A",
				Methods: map[string]*config.MethodDefinition{
					"f": {Name: "f", Calls: []string{"app.B#g"}},
				},
			},
			"app.B": {
				Name: "app.B",
				Methods: map[string]*config.MethodDefinition{
					"g": {Name: "g", Calls: []string{"app.A#f"}},
				},
			},
		},
		EntryPoints: []string{"app.A#f"},
	}
	cat := catalog.Build(model, classpath.NewLoader())
	engine := New(cat, model.EntryPoints, 4)

	require.NoError(t, engine.Run(context.Background()))
	require.True(t, engine.Reached("app.B#g"))
}

func TestRegisterReachabilityHandler_DuplicatePanics(t *testing.T) {
	t.Parallel()

	cat := chainCatalog(t)
	engine := New(cat, nil, 1)
	initMethod := cat.FindClassByName("app.Native").Method("init")

	engine.RegisterReachabilityHandler(func() {}, initMethod)
	require.Panics(t, func() {
		engine.RegisterReachabilityHandler(func() {}, initMethod)
	}, "two handlers for the same method is a host-level conflict")
}

func TestRun_ConcurrentHandlersFireAtMostOnceEach(t *testing.T) {
	t.Parallel()

	// A wide fan-out: one entry point calling many watched methods, run
	// with many workers so handlers fire from worker goroutines in
	// parallel.
	const fanout = 32

	classes := map[string]*config.ClassDefinition{}
	var calls []string
	for i := 0; i < fanout; i++ {
		name := fmt.Sprintf("app.Jni%02d", i)
		classes[name] = &config.ClassDefinition{
			Name: name,
			Methods: map[string]*config.MethodDefinition{
				"init": {Name: "init", Native: true},
			},
		}
		calls = append(calls, name+"#init")
	}
	classes["app.Main"] = &config.ClassDefinition{
		Name: "app.Main",
		Methods: map[string]*config.MethodDefinition{
			"main": {Name: "main", Calls: calls},
		},
	}

	cat := catalog.Build(&config.Model{Classes: classes}, classpath.NewLoader())
	engine := New(cat, []string{"app.Main#main"}, 16)

	var total atomic.Int32
	perMethod := make([]*atomic.Int32, fanout)
	for i := 0; i < fanout; i++ {
		perMethod[i] = &atomic.Int32{}
		counter := perMethod[i]
		name := fmt.Sprintf("app.Jni%02d", i)
		m := cat.FindClassByName(name).Method("init")
		engine.RegisterReachabilityHandler(func() {
			counter.Add(1)
			total.Add(1)
		}, m)
	}

	require.NoError(t, engine.Run(context.Background()))

	require.Equal(t, int32(fanout), total.Load())
	for i, counter := range perMethod {
		require.Equal(t, int32(1), counter.Load(), "handler %d must fire exactly once", i)
	}
}
