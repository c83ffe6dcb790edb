package repositories

import (
	"context"

	"github.com/rios0rios0/liquiconvert/internal/domain/entities"
)

// TargetRepository abstracts where converted changelogs are written to.
type TargetRepository interface {
	// Write stores content at relPath under dir, creating directories as
	// needed. It returns false when policy is skip and the file already exists.
	Write(
		ctx context.Context,
		dir, relPath string,
		content []byte,
		policy entities.OverwritePolicy,
	) (bool, error)
}
