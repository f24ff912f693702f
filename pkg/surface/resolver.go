package surface

import (
	"sync"

	"github.com/matzehuels/masonry/pkg/errors"
)

// Resolver maps selector strings to surfaces.
type Resolver interface {
	Resolve(selector string) (Surface, bool)
}

// Registry is a map-backed [Resolver].
type Registry struct {
	mu       sync.RWMutex
	surfaces map[string]Surface
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{surfaces: make(map[string]Surface)}
}

// Register associates a selector with a surface.
func (r *Registry) Register(selector string, s Surface) error {
	if err := errors.ValidateSelector(selector); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.surfaces[selector] = s
	return nil
}

// Resolve returns the surface registered under selector.
func (r *Registry) Resolve(selector string) (Surface, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.surfaces[selector]
	return s, ok
}

// Resolve validates selector and looks it up in r. A malformed selector is
// an INVALID_SELECTOR error; a well-formed one with no match (or no resolver)
// is CONTAINER_NOT_FOUND.
func Resolve(r Resolver, selector string) (Surface, error) {
	if err := errors.ValidateSelector(selector); err != nil {
		return nil, err
	}
	if r == nil {
		return nil, errors.New(errors.ErrCodeContainerNotFound, "no resolver for selector %q", selector)
	}
	s, ok := r.Resolve(selector)
	if !ok || s == nil {
		return nil, errors.New(errors.ErrCodeContainerNotFound, "no container matches %q", selector)
	}
	return s, nil
}
