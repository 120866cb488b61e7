package provider

import (
	"fmt"

	"github.com/nguyentantai21042004/minutes-flow/internal/model"
)

// Registry is the static provider table. It is read-only after construction
// and safe for concurrent use.
type Registry struct {
	backends map[string]Backend
	names    []string
}

// NewRegistry registers backends in order. Names must be unique.
func NewRegistry(backends ...Backend) (*Registry, error) {
	r := &Registry{backends: make(map[string]Backend, len(backends))}
	for _, b := range backends {
		name := b.Descriptor().Name
		if name == "" {
			return nil, fmt.Errorf("provider with empty name")
		}
		if _, ok := r.backends[name]; ok {
			return nil, fmt.Errorf("duplicate provider %q", name)
		}
		r.backends[name] = b
		r.names = append(r.names, name)
	}
	return r, nil
}

// Resolve returns the backend registered under name.
func (r *Registry) Resolve(name string) (Backend, error) {
	b, ok := r.backends[name]
	if !ok {
		return nil, model.Errorf(model.ErrUnknownProvider, "unknown provider %q", name)
	}
	return b, nil
}

// Names lists providers in registration order.
func (r *Registry) Names() []string {
	return append([]string(nil), r.names...)
}

// Catalog is the read-only public view of the table.
func (r *Registry) Catalog() map[string]model.CatalogEntry {
	out := make(map[string]model.CatalogEntry, len(r.backends))
	for name, b := range r.backends {
		d := b.Descriptor()
		out[name] = model.CatalogEntry{API: d.API, ModelID: d.ModelID, Capability: d.Capability}
	}
	return out
}
