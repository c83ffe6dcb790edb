package git

import (
	"context"
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"sort"
	"sync"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/filemode"
	"github.com/go-git/go-git/v5/plumbing/object"
	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/liquiconvert/internal/domain/entities"
	"github.com/rios0rios0/liquiconvert/internal/domain/repositories"
	"github.com/rios0rios0/liquiconvert/internal/infrastructure/repositories/filesystem"
)

// SourceRepository reads changelogs as they were committed at a revision,
// ignoring the working tree.
type SourceRepository struct {
	revision string

	mu   sync.Mutex
	tree *object.Tree
}

// NewSourceRepository creates a git source pinned to revision
// (a branch, tag, commit hash or any expression go-git resolves).
func NewSourceRepository(revision string) repositories.SourceRepository {
	if revision == "" {
		revision = plumbing.HEAD.String()
	}
	return &SourceRepository{revision: revision}
}

func (it *SourceRepository) Name() string { return "git" }

// Scan resolves the revision in the repository containing root and lists
// the matching files below root's repository-relative path.
func (it *SourceRepository) Scan(ctx context.Context, root string, exts []string) ([]entities.SourceFile, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving %q: %w", root, err)
	}

	repo, err := gogit.PlainOpenWithOptions(absRoot, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("opening repository at %s: %w", absRoot, err)
	}
	worktree, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("getting worktree: %w", err)
	}
	prefix, err := filepath.Rel(worktree.Filesystem.Root(), absRoot)
	if err != nil {
		return nil, fmt.Errorf("locating %q in repository: %w", root, err)
	}
	prefix = filepath.ToSlash(prefix)
	if prefix == "." {
		prefix = ""
	}

	hash, err := repo.ResolveRevision(plumbing.Revision(it.revision))
	if err != nil {
		return nil, fmt.Errorf("resolving revision %q: %w", it.revision, err)
	}
	commit, err := repo.CommitObject(*hash)
	if err != nil {
		return nil, fmt.Errorf("reading commit %s: %w", hash, err)
	}
	tree, err := commit.Tree()
	if err != nil {
		return nil, fmt.Errorf("reading tree of %s: %w", hash, err)
	}
	logger.Debugf("[git] reading %q at %s (%s)", prefix, it.revision, hash.String()[:7])

	scanned := tree
	if prefix != "" {
		if scanned, err = tree.Tree(prefix); err != nil {
			if errors.Is(err, object.ErrDirectoryNotFound) {
				return nil, fmt.Errorf("source directory %q does not exist at %s", prefix, it.revision)
			}
			return nil, fmt.Errorf("reading %q at %s: %w", prefix, it.revision, err)
		}
	}

	var files []entities.SourceFile
	walkErr := scanned.Files().ForEach(func(file *object.File) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if file.Mode != filemode.Regular && file.Mode != filemode.Executable {
			return nil
		}
		if !filesystem.HasExtension(file.Name, exts) {
			return nil
		}
		files = append(files, entities.SourceFile{ID: file.Name, Path: path.Join(prefix, file.Name)})
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("walking %q at %s: %w", prefix, it.revision, walkErr)
	}

	it.mu.Lock()
	it.tree = tree
	it.mu.Unlock()

	sort.Slice(files, func(i, j int) bool { return files[i].ID < files[j].ID })
	return files, nil
}

// Read returns the committed content of a scanned file.
func (it *SourceRepository) Read(_ context.Context, file entities.SourceFile) ([]byte, error) {
	it.mu.Lock()
	defer it.mu.Unlock()
	if it.tree == nil {
		return nil, errors.New("git source has not been scanned")
	}
	blob, err := it.tree.File(file.Path)
	if err != nil {
		return nil, fmt.Errorf("reading %q at %s: %w", file.Path, it.revision, err)
	}
	contents, err := blob.Contents()
	if err != nil {
		return nil, fmt.Errorf("reading %q at %s: %w", file.Path, it.revision, err)
	}
	return []byte(contents), nil
}
