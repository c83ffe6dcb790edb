//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"
	"sync"

	"github.com/rios0rios0/liquiconvert/internal/domain/entities"
	"github.com/rios0rios0/liquiconvert/internal/domain/repositories"
)

// SpyTargetRepository implements repositories.TargetRepository in memory.
type SpyTargetRepository struct {
	WriteErr error
	Existing map[string]bool // relPath -> already present

	mu      sync.Mutex
	Written map[string][]byte
}


var _ repositories.TargetRepository = (*SpyTargetRepository)(nil)

func (s *SpyTargetRepository) Write(
	_ context.Context,
	_ string,
	relPath string,
	content []byte,
	policy entities.OverwritePolicy,
) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.WriteErr != nil {
		return false, s.WriteErr
	}
	if policy == entities.SkipExisting && s.Existing[relPath] {
		return false, nil
	}
	if s.Written == nil {
		s.Written = make(map[string][]byte)
	}
	s.Written[relPath] = content
	return true, nil
}

// Paths returns the relative paths written so far.
func (s *SpyTargetRepository) Paths() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	paths := make([]string, 0, len(s.Written))
	for p := range s.Written {
		paths = append(paths, p)
	}
	return paths
}
