package repositories

import (
	"github.com/rios0rios0/liquiconvert/internal/domain/entities"
)

// ParserRepository turns raw changelog text of one format into the canonical model.
// Implementations are stateless and safe for concurrent use.
type ParserRepository interface {
	// Format returns the format identifier (e.g. "xml", "yaml").
	Format() string

	// Extensions returns the file extensions, without the dot, that hold this format.
	Extensions() []string

	// Parse builds the changelog of fileID from raw, substituting every ${name}
	// placeholder from bindings. Malformed input fails with *entities.ParseError
	// and an unbound name with *entities.UnresolvedParameterError.
	Parse(fileID string, raw []byte, bindings entities.ParameterBindings) (*entities.Changelog, error)
}

// SerializerRepository renders the canonical model as text of one format.
// Implementations are stateless, safe for concurrent use and never touch the filesystem.
type SerializerRepository interface {
	// Format returns the format identifier (e.g. "xml", "yaml").
	Format() string

	// Serialize renders the changelog. Shapes the format cannot express fail
	// with an error wrapping entities.ErrUnrepresentable.
	Serialize(changelog *entities.Changelog) ([]byte, error)
}
