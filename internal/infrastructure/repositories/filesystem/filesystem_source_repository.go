package filesystem

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rios0rios0/liquiconvert/internal/domain/entities"
	"github.com/rios0rios0/liquiconvert/internal/domain/repositories"
)

// SourceRepository scans the working tree.
type SourceRepository struct{}

// NewSourceRepository creates a filesystem source. The revision is ignored.
func NewSourceRepository(_ string) repositories.SourceRepository {
	return &SourceRepository{}
}

func (it *SourceRepository) Name() string { return "filesystem" }

// Scan walks root and returns the regular files whose extension is in exts.
func (it *SourceRepository) Scan(ctx context.Context, root string, exts []string) ([]entities.SourceFile, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("failed to read source directory %q: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("source %q is not a directory", root)
	}

	var files []entities.SourceFile
	walkErr := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if !entry.Type().IsRegular() || !HasExtension(path, exts) {
			return nil
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return relErr
		}
		files = append(files, entities.SourceFile{ID: filepath.ToSlash(rel), Path: path})
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("failed to scan %q: %w", root, walkErr)
	}

	sort.Slice(files, func(i, j int) bool { return files[i].ID < files[j].ID })
	return files, nil
}

// Read returns the content of a scanned file.
func (it *SourceRepository) Read(_ context.Context, file entities.SourceFile) ([]byte, error) {
	return os.ReadFile(file.Path)
}

// HasExtension reports whether path ends in one of exts, case-insensitively.
func HasExtension(path string, exts []string) bool {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	for _, candidate := range exts {
		if ext == strings.ToLower(strings.TrimPrefix(candidate, ".")) {
			return true
		}
	}
	return false
}
