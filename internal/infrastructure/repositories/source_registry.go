package repositories

import (
	"fmt"
	"sort"

	domainRepos "github.com/rios0rios0/liquiconvert/internal/domain/repositories"
)

// SourceFactory is a constructor function that creates a SourceRepository for a revision.
type SourceFactory func(revision string) domainRepos.SourceRepository

// SourceRegistry manages all registered source repository implementations.
type SourceRegistry struct {
	sources map[string]SourceFactory
}

// NewSourceRegistry creates an empty source registry.
func NewSourceRegistry() *SourceRegistry {
	return &SourceRegistry{
		sources: make(map[string]SourceFactory),
	}
}

// Register adds a source factory under the given name (e.g. "git").
func (r *SourceRegistry) Register(name string, factory SourceFactory) {
	r.sources[name] = factory
}

// Get returns a configured source repository for the given name and revision.
func (r *SourceRegistry) Get(name, revision string) (domainRepos.SourceRepository, error) {
	factory, ok := r.sources[name]
	if !ok {
		return nil, fmt.Errorf("unknown source type: %q", name)
	}
	return factory(revision), nil
}

// Names returns the sorted list of registered source names.
func (r *SourceRegistry) Names() []string {
	names := make([]string, 0, len(r.sources))
	for name := range r.sources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
