package postprocessors

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/custodia-labs/polyglot/internal/core/ports/driven"
)

// ErrUnknownProcessor is returned when a pipeline names an unregistered stage.
var ErrUnknownProcessor = errors.New("unknown processor")

// Builder creates a stage from its section of the pipeline configuration.
type Builder func(cfg map[string]any) (driven.PostProcessor, error)

// Registry holds the stages a pipeline can be assembled from.
type Registry struct {
	builders map[string]Builder
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{builders: make(map[string]Builder)}
}

// Register adds a builder under name. Names are unique.
func (r *Registry) Register(name string, b Builder) error {
	if _, dup := r.builders[name]; dup {
		return fmt.Errorf("processor %s already registered", name)
	}
	r.builders[name] = b
	return nil
}

// Build creates the stage registered under name.
func (r *Registry) Build(name string, cfg map[string]any) (driven.PostProcessor, error) {
	b, ok := r.builders[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProcessor, name)
	}
	stage, err := b(cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return stage, nil
}

// Names returns the registered names, sorted.
func (r *Registry) Names() []string {
	return slices.Sorted(maps.Keys(r.builders))
}
