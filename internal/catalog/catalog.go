// Package catalog is the build's view of the compiling program: a lookup
// table from fully-qualified class names to class descriptors. Lookups for
// absent names return nil rather than an error; partial-platform builds
// routinely reference classes that are not on the classpath.
package catalog

import (
	"sort"

	"github.com/vk/aotbake/internal/classpath"
	"github.com/vk/aotbake/internal/config"
)

// Catalog holds every class descriptor known to the build. It is populated
// once, before any feature runs, and read-only thereafter.
type Catalog struct {
	classes map[string]*Class
}

// Class describes one class of the compiling program.
type Class struct {
	Name string

	fields  []*Field
	methods map[string]*Method
	loader  *classpath.Loader
}

// Field is a declared field of a class.
type Field struct {
	Owner *Class
	Name  string
}

// Method is a declared method of a class, with its outgoing call edges.
type Method struct {
	Owner  *Class
	Name   string
	Calls  []string
	Native bool
}

// Key returns the qualified method key used by the analysis graph.
func (m *Method) Key() string {
	return m.Owner.Name + "#" + m.Name
}

// Build constructs a catalog from a decoded manifest model. Every class
// shares the build's classpath loader for resource resolution.
func Build(model *config.Model, loader *classpath.Loader) *Catalog {
	cat := &Catalog{classes: make(map[string]*Class, len(model.Classes))}

	for name, def := range model.Classes {
		class := &Class{
			Name:    name,
			methods: make(map[string]*Method, len(def.Methods)),
			loader:  loader,
		}
		for _, fieldName := range def.Fields {
			class.fields = append(class.fields, &Field{Owner: class, Name: fieldName})
		}
		for methodName, methodDef := range def.Methods {
			class.methods[methodName] = &Method{
				Owner:  class,
				Name:   methodName,
				Calls:  methodDef.Calls,
				Native: methodDef.Native,
			}
		}
		cat.classes[name] = class
	}

	return cat
}

// FindClassByName resolves a fully-qualified class name. A nil result means
// the class is not part of this build; callers treat that as a normal
// outcome and skip the corresponding registration.
func (c *Catalog) FindClassByName(name string) *Class {
	return c.classes[name]
}

// Methods returns every method in the catalog, ordered by qualified key.
// The analysis engine uses this to seed its call graph.
func (c *Catalog) Methods() []*Method {
	var methods []*Method
	for _, class := range c.classes {
		for _, m := range class.methods {
			methods = append(methods, m)
		}
	}
	sort.Slice(methods, func(i, j int) bool { return methods[i].Key() < methods[j].Key() })
	return methods
}

// DeclaredFields returns the class's declared fields in declaration order.
func (cl *Class) DeclaredFields() []*Field {
	return cl.fields
}

// Method resolves a method by simple name, or nil when the class does not
// declare one. Like class lookup, absence is silent.
func (cl *Class) Method(name string) *Method {
	return cl.methods[name]
}

// Loader returns the resource loader that provides this class, used by
// features that read resources bundled next to the class itself.
func (cl *Class) Loader() *classpath.Loader {
	return cl.loader
}
