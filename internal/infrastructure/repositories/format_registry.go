package repositories

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/rios0rios0/liquiconvert/internal/domain/entities"
	domainRepos "github.com/rios0rios0/liquiconvert/internal/domain/repositories"
)

// FormatRegistry maps format identifiers to parsers and serializers.
// It is filled once at startup and frozen; lookups are then read-only.
type FormatRegistry struct {
	mu          sync.RWMutex
	parsers     map[string]domainRepos.ParserRepository
	serializers map[string]domainRepos.SerializerRepository
	frozen      bool
}

// NewFormatRegistry creates an empty format registry.
func NewFormatRegistry() *FormatRegistry {
	return &FormatRegistry{
		parsers:     make(map[string]domainRepos.ParserRepository),
		serializers: make(map[string]domainRepos.SerializerRepository),
	}
}

// NormalizeFormat lowercases an identifier and drops a leading dot.
func NormalizeFormat(format string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(format), "."))
}

// RegisterParser adds a parser under its format and the given aliases.
func (r *FormatRegistry) RegisterParser(parser domainRepos.ParserRepository, aliases ...string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.frozen {
		return fmt.Errorf("register parser %q: %w", parser.Format(), entities.ErrRegistryFrozen)
	}
	for _, name := range append([]string{parser.Format()}, aliases...) {
		r.parsers[NormalizeFormat(name)] = parser
	}
	return nil
}

// RegisterSerializer adds a serializer under its format and the given aliases.
func (r *FormatRegistry) RegisterSerializer(serializer domainRepos.SerializerRepository, aliases ...string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.frozen {
		return fmt.Errorf("register serializer %q: %w", serializer.Format(), entities.ErrRegistryFrozen)
	}
	for _, name := range append([]string{serializer.Format()}, aliases...) {
		r.serializers[NormalizeFormat(name)] = serializer
	}
	return nil
}

// Freeze ends registration.
func (r *FormatRegistry) Freeze() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frozen = true
}

// Parser returns the parser registered for format.
func (r *FormatRegistry) Parser(format string) (domainRepos.ParserRepository, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	parser, ok := r.parsers[NormalizeFormat(format)]
	if !ok {
		return nil, &entities.UnsupportedFormatError{Format: format, Role: entities.SourceRole}
	}
	return parser, nil
}

// Serializer returns the serializer registered for format.
func (r *FormatRegistry) Serializer(format string) (domainRepos.SerializerRepository, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	serializer, ok := r.serializers[NormalizeFormat(format)]
	if !ok {
		return nil, &entities.UnsupportedFormatError{Format: format, Role: entities.TargetRole}
	}
	return serializer, nil
}

// Supports reports whether format is registered for role.
func (r *FormatRegistry) Supports(format string, role entities.Role) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	key := NormalizeFormat(format)
	if role == entities.SourceRole {
		_, ok := r.parsers[key]
		return ok
	}
	_, ok := r.serializers[key]
	return ok
}

// Formats returns the registered identifiers for role, aliases included, sorted.
func (r *FormatRegistry) Formats(role entities.Role) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var names []string
	if role == entities.SourceRole {
		for name := range r.parsers {
			names = append(names, name)
		}
	} else {
		for name := range r.serializers {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
