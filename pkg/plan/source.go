package plan

import (
	"context"
	"errors"
	"maps"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

// Source defines how the limits table is loaded into a Catalog.
type Source interface {
	Load(ctx context.Context) (map[Tier]Limits, error)
}

// inMemSource serves a fixed limits table from memory.
type inMemSource struct {
	mu     sync.RWMutex
	limits map[Tier]Limits
}

// NewInMemSource returns a Source backed by a copy of the given table.
func NewInMemSource(limits map[Tier]Limits) Source {
	return &inMemSource{limits: maps.Clone(limits)}
}

// Load returns a copy of the limits table.
func (s *inMemSource) Load(ctx context.Context) (map[Tier]Limits, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.limits), nil
}

// yamlSource loads the limits table from a YAML file keyed by tier name.
type yamlSource struct {
	path string
}

// NewYAMLSource returns a Source that reads the limits table from path on
// every Load call, allowing catalog overrides without a rebuild.
func NewYAMLSource(path string) Source {
	return &yamlSource{path: path}
}

func (s *yamlSource) Load(ctx context.Context) (map[Tier]Limits, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return nil, errors.Join(ErrFailedToLoadCatalog, err)
	}

	var limits map[Tier]Limits
	if err := yaml.Unmarshal(raw, &limits); err != nil {
		return nil, errors.Join(ErrFailedToLoadCatalog, err)
	}

	return limits, nil
}
