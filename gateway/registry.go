package gateway

import "sort"

// Service is a registered upstream.
type Service struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Registry holds the known upstream services. It is built once at
// startup and read-only afterwards, so it needs no locking.
type Registry struct {
	byName map[string]string
	names  []string
}

// NewRegistry builds a registry from the configured endpoints.
func NewRegistry(cfg Config) *Registry {
	byName := make(map[string]string, len(cfg.Services))
	names := make([]string, 0, len(cfg.Services))
	for name, endpoint := range cfg.Services {
		byName[name] = endpoint
		names = append(names, name)
	}
	sort.Strings(names)
	return &Registry{byName: byName, names: names}
}

// Lookup returns the base URL for a service name.
func (r *Registry) Lookup(name string) (string, bool) {
	endpoint, ok := r.byName[name]
	return endpoint, ok
}

// List returns all registered services sorted by name.
func (r *Registry) List() []Service {
	out := make([]Service, 0, len(r.names))
	for _, name := range r.names {
		out = append(out, Service{Name: name, URL: r.byName[name]})
	}
	return out
}
