package repositories

import (
	"context"

	"github.com/rios0rios0/liquiconvert/internal/domain/entities"
)

// SourceRepository abstracts where source changelogs are read from.
type SourceRepository interface {
	// Name returns the repository identifier (e.g. "filesystem", "git").
	Name() string

	// Scan lists the files under root whose extension is one of exts,
	// sorted by ID.
	Scan(ctx context.Context, root string, exts []string) ([]entities.SourceFile, error)

	// Read returns the content of a file returned by Scan.
	Read(ctx context.Context, file entities.SourceFile) ([]byte, error)
}
