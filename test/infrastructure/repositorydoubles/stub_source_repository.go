//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"
	"fmt"
	"sort"

	"github.com/rios0rios0/liquiconvert/internal/domain/entities"
	"github.com/rios0rios0/liquiconvert/internal/domain/repositories"
)

// StubSourceRepository implements repositories.SourceRepository over in-memory files.
type StubSourceRepository struct {
	Files   map[string]string // ID -> content
	ScanErr error
	ReadErr map[string]error // ID -> error returned by Read
}

var _ repositories.SourceRepository = (*StubSourceRepository)(nil)

func (s *StubSourceRepository) Name() string { return "stub" }

func (s *StubSourceRepository) Scan(_ context.Context, _ string, _ []string) ([]entities.SourceFile, error) {
	if s.ScanErr != nil {
		return nil, s.ScanErr
	}
	files := make([]entities.SourceFile, 0, len(s.Files))
	for id := range s.Files {
		files = append(files, entities.SourceFile{ID: id, Path: id})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].ID < files[j].ID })
	return files, nil
}

func (s *StubSourceRepository) Read(_ context.Context, file entities.SourceFile) ([]byte, error) {
	if err, ok := s.ReadErr[file.ID]; ok {
		return nil, err
	}
	content, ok := s.Files[file.ID]
	if !ok {
		return nil, fmt.Errorf("no such file: %s", file.ID)
	}
	return []byte(content), nil
}
