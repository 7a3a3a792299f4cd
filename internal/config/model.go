package config

// Model is the unified, format-agnostic representation of everything the
// image build knows about the compiling program.
type Model struct {
	// Classes is keyed by fully-qualified class name.
	Classes map[string]*ClassDefinition

	// EntryPoints are qualified method keys ("pkg.Class#method") from which
	// the reachability analysis starts.
	EntryPoints []string

	// ResourceRoots are directories searched, in order, when a feature asks
	// the classpath loader for a resource.
	ResourceRoots []string
}

// ClassDefinition describes one class of the compiling program.
type ClassDefinition struct {
	Name    string
	Fields  []string
	Methods map[string]*MethodDefinition
}

// MethodDefinition describes one declared method and its outgoing calls.
type MethodDefinition struct {
	Name string
	// Calls holds qualified method keys this method may invoke. Targets
	// absent from the model are tolerated; they are leaves of the graph.
	Calls []string
	// Native marks methods whose body is provided by a foreign library.
	Native bool
}

// Merge folds another model into the receiver. Later class definitions
// replace earlier ones wholesale; entry points and resource roots append.
func (m *Model) Merge(other *Model) {
	if m.Classes == nil {
		m.Classes = make(map[string]*ClassDefinition)
	}
	for name, def := range other.Classes {
		m.Classes[name] = def
	}
	m.EntryPoints = append(m.EntryPoints, other.EntryPoints...)
	m.ResourceRoots = append(m.ResourceRoots, other.ResourceRoots...)
}
