package feature

import (
	"fmt"
	"log/slog"
)

// Registry holds the features compiled into one app instance, in
// registration order.
type Registry struct {
	byName map[string]Feature
	order  []Feature
}

// NewRegistry creates an empty feature registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]Feature)}
}

// Register adds a feature. Two features with the same name is a wiring
// error, so it panics.
func (r *Registry) Register(f Feature) {
	if _, exists := r.byName[f.Name()]; exists {
		panic(fmt.Sprintf("feature with name '%s' already registered", f.Name()))
	}
	slog.Debug("Registering feature.", "name", f.Name())
	r.byName[f.Name()] = f
	r.order = append(r.order, f)
}

// Features returns the registered features in registration order.
func (r *Registry) Features() []Feature {
	return r.order
}
