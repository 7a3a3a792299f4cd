package analysis

import (
	"sync"

	"github.com/vk/aotbake/internal/catalog"
)

// callGraph is a directed graph over qualified method keys. Nodes and
// edges come straight from the catalog; edges whose target is not a known
// method are dropped, because a call into a class the build does not carry
// is a leaf, not an error.
type callGraph struct {
	mu    sync.RWMutex
	nodes map[string]*catalog.Method
	edges map[string][]string
}

func buildCallGraph(cat *catalog.Catalog) *callGraph {
	g := &callGraph{
		nodes: make(map[string]*catalog.Method),
		edges: make(map[string][]string),
	}
	for _, m := range cat.Methods() {
		g.nodes[m.Key()] = m
	}
	for _, m := range cat.Methods() {
		for _, target := range m.Calls {
			if _, ok := g.nodes[target]; ok {
				g.edges[m.Key()] = append(g.edges[m.Key()], target)
			}
		}
	}
	return g
}

// lookup resolves a method key to its catalog entry, nil when unknown.
func (g *callGraph) lookup(key string) *catalog.Method {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.nodes[key]
}

// callees returns the outgoing edges of the given method key.
func (g *callGraph) callees(key string) []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.edges[key]
}

// size returns the node count, used to bound the work queue.
func (g *callGraph) size() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.nodes)
}
