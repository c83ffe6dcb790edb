//go:build unit

package git_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/liquiconvert/internal/domain/entities"
	"github.com/rios0rios0/liquiconvert/internal/infrastructure/repositories/git"
)

// initRepository commits files (path -> content) into a fresh repository.
func initRepository(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()

	repo, err := gogit.PlainInit(dir, false)
	require.NoError(t, err)
	worktree, err := repo.Worktree()
	require.NoError(t, err)

	for path, content := range files {
		full := filepath.Join(dir, filepath.FromSlash(path))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o750))
		require.NoError(t, os.WriteFile(full, []byte(content), 0o600))
		_, err = worktree.Add(path)
		require.NoError(t, err)
	}
	_, err = worktree.Commit("Initial commit", &gogit.CommitOptions{
		Author: &object.Signature{
			Name:  "Test",
			Email: "test@test.com",
		},
	})
	require.NoError(t, err)
	return dir
}

func TestSourceRepositoryScan(t *testing.T) {
	t.Parallel()

	t.Run("should read committed content instead of the working tree", func(t *testing.T) {
		t.Parallel()

		// given
		dir := initRepository(t, map[string]string{
			"db/changelog/a.xml":        "<committed/>",
			"db/changelog/nested/b.xml": "<b/>",
			"db/changelog/readme.md":    "skip",
			"other/c.xml":               "<outside/>",
		})
		root := filepath.Join(dir, "db", "changelog")
		require.NoError(t, os.WriteFile(filepath.Join(root, "a.xml"), []byte("<edited/>"), 0o600))
		require.NoError(t, os.WriteFile(filepath.Join(root, "untracked.xml"), []byte("<new/>"), 0o600))
		source := git.NewSourceRepository("")

		// when
		files, err := source.Scan(context.Background(), root, []string{"xml"})

		// then
		require.NoError(t, err)
		require.Len(t, files, 2)
		assert.Equal(t, "a.xml", files[0].ID)
		assert.Equal(t, "nested/b.xml", files[1].ID)
		content, readErr := source.Read(context.Background(), files[0])
		require.NoError(t, readErr)
		assert.Equal(t, "<committed/>", string(content))
		assert.Equal(t, "git", source.Name())
	})

	t.Run("should return error for an unknown revision", func(t *testing.T) {
		t.Parallel()

		// given
		dir := initRepository(t, map[string]string{"a.xml": "<a/>"})
		source := git.NewSourceRepository("no-such-branch")

		// when
		_, err := source.Scan(context.Background(), dir, []string{"xml"})

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no-such-branch")
	})

	t.Run("should return error when the directory is not in the revision", func(t *testing.T) {
		t.Parallel()

		// given
		dir := initRepository(t, map[string]string{"a.xml": "<a/>"})
		root := filepath.Join(dir, "later")
		require.NoError(t, os.MkdirAll(root, 0o750))

		// when
		_, err := git.NewSourceRepository("HEAD").Scan(context.Background(), root, []string{"xml"})

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "does not exist")
	})

	t.Run("should refuse to read before scanning", func(t *testing.T) {
		t.Parallel()

		// given
		source := git.NewSourceRepository("")

		// when
		_, err := source.Read(context.Background(), entities.SourceFile{ID: "a.xml", Path: "a.xml"})

		// then
		require.Error(t, err)
	})
}
