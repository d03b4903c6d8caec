package module

import (
	"fmt"
	"sync"

	"github.com/kingrea/searchbridge/internal/artifact"
)

// Registry keeps generators in registration order.
type Registry struct {
	mu      sync.RWMutex
	order   []string
	modules map[string]Module
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{modules: map[string]Module{}}
}

// Register installs a module. Returns an error if the ID already exists or
// the module's info is incomplete.
func (r *Registry) Register(m Module) error {
	if m == nil {
		return fmt.Errorf("module: module is required")
	}
	info := m.Info()
	if err := info.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.modules[info.ID]; exists {
		return fmt.Errorf("module: %s already registered", info.ID)
	}
	r.modules[info.ID] = m
	r.order = append(r.order, info.ID)
	return nil
}

// MustRegister panics if registration fails.
func (r *Registry) MustRegister(m Module) {
	if err := r.Register(m); err != nil {
		panic(err)
	}
}

// Resolve returns a module by ID.
func (r *Registry) Resolve(id string) (Module, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.modules[id]
	if !ok {
		return nil, fmt.Errorf("module: unknown id %s", id)
	}
	return m, nil
}

// IDs returns module identifiers in registration order.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order...)
}

// Outputs returns the artifacts the registered modules produce, in
// registration order without duplicates.
func (r *Registry) Outputs() []artifact.ArtifactRef {
	var refs []artifact.ArtifactRef
	seen := map[string]bool{}
	for _, id := range r.IDs() {
		m, err := r.Resolve(id)
		if err != nil {
			continue
		}
		for _, ref := range m.Outputs() {
			if seen[ref.ID] {
				continue
			}
			seen[ref.ID] = true
			refs = append(refs, ref)
		}
	}
	return refs
}

// RunAll runs every module in registration order and stops at the first
// failure. Results of the modules that ran are returned either way; files
// written before a failure are left in place.
func (r *Registry) RunAll(ctx *Context) ([]Result, error) {
	var results []Result
	for _, id := range r.IDs() {
		m, err := r.Resolve(id)
		if err != nil {
			return results, err
		}
		if err := ctx.Validate(id); err != nil {
			return results, err
		}
		res, err := m.Run(ctx)
		results = append(results, res)
		if err != nil {
			ctx.Logbook.Error("%s failed: %v", id, err)
			return results, err
		}
		ctx.Logbook.Info("%s wrote %s", id, res.Path)
	}
	return results, nil
}
