package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rios0rios0/liquiconvert/internal/domain/entities"
)

const (
	dirPermission  = 0o755
	filePermission = 0o644
)

// TargetRepository writes converted files under a target directory.
type TargetRepository struct{}

// NewTargetRepository creates a filesystem target.
func NewTargetRepository() *TargetRepository {
	return &TargetRepository{}
}

// Write stores content at dir/relPath through a temporary file and a rename,
// so readers never observe a partial file.
func (it *TargetRepository) Write(
	ctx context.Context,
	dir, relPath string,
	content []byte,
	policy entities.OverwritePolicy,
) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	target := filepath.Join(dir, filepath.FromSlash(relPath))
	if policy == entities.SkipExisting {
		if _, err := os.Stat(target); err == nil {
			return false, nil
		} else if !errors.Is(err, fs.ErrNotExist) {
			return false, err
		}
	}

	if err := os.MkdirAll(filepath.Dir(target), dirPermission); err != nil {
		return false, fmt.Errorf("failed to create directory for %q: %w", target, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(target), "."+filepath.Base(target)+".*.tmp")
	if err != nil {
		return false, fmt.Errorf("failed to create temporary file for %q: %w", target, err)
	}
	defer os.Remove(tmp.Name())

	if _, err = tmp.Write(content); err != nil {
		_ = tmp.Close()
		return false, fmt.Errorf("failed to write %q: %w", target, err)
	}
	if err = tmp.Close(); err != nil {
		return false, fmt.Errorf("failed to write %q: %w", target, err)
	}
	if err = os.Chmod(tmp.Name(), filePermission); err != nil {
		return false, fmt.Errorf("failed to write %q: %w", target, err)
	}
	if err = os.Rename(tmp.Name(), target); err != nil {
		return false, fmt.Errorf("failed to replace %q: %w", target, err)
	}
	return true, nil
}
