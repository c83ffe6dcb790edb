//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"sync"

	"github.com/rios0rios0/liquiconvert/internal/domain/entities"
	"github.com/rios0rios0/liquiconvert/internal/domain/repositories"
)

// StubParserRepository implements repositories.ParserRepository with a canned result.
type StubParserRepository struct {
	FormatName string
	Exts       []string
	Changelog  *entities.Changelog
	ParseErr   error

	mu           sync.Mutex
	ParsedFiles  []string
	LastBindings entities.ParameterBindings
}

var _ repositories.ParserRepository = (*StubParserRepository)(nil)

func (s *StubParserRepository) Format() string { return s.FormatName }

func (s *StubParserRepository) Extensions() []string {
	if s.Exts == nil {
		return []string{s.FormatName}
	}
	return s.Exts
}

func (s *StubParserRepository) Parse(
	fileID string,
	_ []byte,
	bindings entities.ParameterBindings,
) (*entities.Changelog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ParsedFiles = append(s.ParsedFiles, fileID)
	s.LastBindings = bindings
	if s.ParseErr != nil {
		return nil, s.ParseErr
	}
	if s.Changelog != nil {
		return s.Changelog, nil
	}
	return &entities.Changelog{FileID: fileID}, nil
}

// StubSerializerRepository implements repositories.SerializerRepository with a canned result.
type StubSerializerRepository struct {
	FormatName   string
	Output       []byte
	SerializeErr error

	mu         sync.Mutex
	Serialized []*entities.Changelog
}

var _ repositories.SerializerRepository = (*StubSerializerRepository)(nil)

func (s *StubSerializerRepository) Format() string { return s.FormatName }

func (s *StubSerializerRepository) Serialize(changelog *entities.Changelog) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Serialized = append(s.Serialized, changelog)
	if s.SerializeErr != nil {
		return nil, s.SerializeErr
	}
	return s.Output, nil
}
