package analysis

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/vk/aotbake/internal/catalog"
	"github.com/vk/aotbake/internal/ctxlog"
)

// DefaultWorkerCount is used when the caller does not override it.
const DefaultWorkerCount = 4

// Engine runs the reachability analysis for one build.
type Engine struct {
	graph       *callGraph
	entryPoints []string
	workers     int

	mu       sync.Mutex
	visited  map[string]struct{}
	handlers map[string]*handler
	ran      bool
}

// handler is one reachability subscription. The fired flag is the
// at-most-once delivery guard; it is flipped with a compare-and-swap
// because watched methods can be reached by several workers at once.
type handler struct {
	method *catalog.Method
	fn     func()
	fired  atomic.Bool
}

// New creates an engine over the catalog's call graph. workers <= 0 selects
// DefaultWorkerCount.
func New(cat *catalog.Catalog, entryPoints []string, workers int) *Engine {
	if workers <= 0 {
		workers = DefaultWorkerCount
	}
	return &Engine{
		graph:       buildCallGraph(cat),
		entryPoints: entryPoints,
		workers:     workers,
		visited:     make(map[string]struct{}),
		handlers:    make(map[string]*handler),
	}
}

// RegisterReachabilityHandler subscribes fn to the first proof that method
// is reachable. Delivery is asynchronous, on an analysis worker, and
// happens at most once. Registering two handlers for the same method is a
// host-level conflict and panics.
func (e *Engine) RegisterReachabilityHandler(fn func(), method *catalog.Method) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.ran {
		panic("analysis: handler registered after the analysis pass started")
	}
	key := method.Key()
	if _, exists := e.handlers[key]; exists {
		panic(fmt.Sprintf("analysis: reachability handler for %q already registered", key))
	}
	e.handlers[key] = &handler{method: method, fn: fn}
}

// Reached reports whether the analysis proved the given method key
// reachable. Only meaningful after Run returns.
func (e *Engine) Reached(key string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, ok := e.visited[key]
	return ok
}

// markVisited claims a method key for processing. It returns false when
// another worker already claimed it.
func (e *Engine) markVisited(key string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.visited[key]; ok {
		return false
	}
	e.visited[key] = struct{}{}
	return true
}

// Run walks the call graph from the entry points. Entry points naming
// unknown methods are skipped; a build for one platform may share a
// manifest that names entry points of another.
func (e *Engine) Run(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)

	e.mu.Lock()
	e.ran = true
	e.mu.Unlock()

	// Each method is enqueued at most once, so the graph size bounds the
	// queue and enqueues never block a worker.
	frontier := make(chan string, e.graph.size()+len(e.entryPoints))
	var wg sync.WaitGroup

	seeded := 0
	for _, entry := range e.entryPoints {
		if e.graph.lookup(entry) == nil {
			logger.Debug("Skipping unknown entry point.", "method", entry)
			continue
		}
		if e.markVisited(entry) {
			wg.Add(1)
			frontier <- entry
			seeded++
		}
	}
	logger.Debug("Reachability analysis starting.", "entry_points", seeded, "workers", e.workers)

	for i := 0; i < e.workers; i++ {
		go e.worker(ctx, frontier, &wg, i)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(frontier)
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		<-done
		return ctx.Err()
	}

	e.mu.Lock()
	reached := len(e.visited)
	e.mu.Unlock()
	logger.Debug("Reachability analysis finished.", "methods_reached", reached)
	return nil
}

// worker is the processing loop for one analysis worker. Firing the
// handler here, on the worker goroutine, is what makes delivery
// asynchronous and possibly concurrent across watched methods.
func (e *Engine) worker(ctx context.Context, frontier chan string, wg *sync.WaitGroup, workerID int) {
	logger := ctxlog.FromContext(ctx)

	for key := range frontier {
		if ctx.Err() != nil {
			wg.Done()
			continue
		}

		e.mu.Lock()
		h := e.handlers[key]
		e.mu.Unlock()
		if h != nil && h.fired.CompareAndSwap(false, true) {
			logger.Debug("Watched method reached, firing handler.", "workerID", workerID, "method", key)
			h.fn()
		}

		for _, callee := range e.graph.callees(key) {
			if e.markVisited(callee) {
				wg.Add(1)
				frontier <- callee
			}
		}

		wg.Done()
	}
}
