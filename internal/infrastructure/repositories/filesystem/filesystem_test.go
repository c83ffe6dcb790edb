//go:build unit

package filesystem_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/liquiconvert/internal/domain/entities"
	"github.com/rios0rios0/liquiconvert/internal/infrastructure/repositories/filesystem"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestSourceRepositoryScan(t *testing.T) {
	t.Parallel()

	t.Run("should list matching files recursively in sorted order", func(t *testing.T) {
		t.Parallel()

		// given
		root := t.TempDir()
		writeFile(t, filepath.Join(root, "b.xml"), "<b/>")
		writeFile(t, filepath.Join(root, "nested", "a.XML"), "<a/>")
		writeFile(t, filepath.Join(root, "notes.txt"), "skip")
		source := filesystem.NewSourceRepository("")

		// when
		files, err := source.Scan(context.Background(), root, []string{"xml"})

		// then
		require.NoError(t, err)
		require.Len(t, files, 2)
		assert.Equal(t, "b.xml", files[0].ID)
		assert.Equal(t, "nested/a.XML", files[1].ID)

		content, readErr := source.Read(context.Background(), files[1])
		require.NoError(t, readErr)
		assert.Equal(t, "<a/>", string(content))
	})

	t.Run("should return error when the directory is missing", func(t *testing.T) {
		t.Parallel()

		// given
		source := filesystem.NewSourceRepository("")

		// when
		files, err := source.Scan(context.Background(), filepath.Join(t.TempDir(), "missing"), []string{"xml"})

		// then
		require.Error(t, err)
		assert.Nil(t, files)
		assert.Contains(t, err.Error(), "failed to read source directory")
	})

	t.Run("should stop when the context is cancelled", func(t *testing.T) {
		t.Parallel()

		// given
		root := t.TempDir()
		writeFile(t, filepath.Join(root, "a.xml"), "<a/>")
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		// when
		_, err := filesystem.NewSourceRepository("").Scan(ctx, root, []string{"xml"})

		// then
		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestHasExtension(t *testing.T) {
	t.Parallel()

	t.Run("should match extensions case-insensitively with or without a dot", func(t *testing.T) {
		t.Parallel()

		// given / when / then
		assert.True(t, filesystem.HasExtension("a.YML", []string{"yaml", ".yml"}))
		assert.False(t, filesystem.HasExtension("a.yaml.bak", []string{"yaml"}))
		assert.False(t, filesystem.HasExtension("Makefile", []string{"yaml"}))
	})
}

func TestTargetRepositoryWrite(t *testing.T) {
	t.Parallel()

	t.Run("should create parent directories and write the content", func(t *testing.T) {
		t.Parallel()

		// given
		dir := t.TempDir()
		target := filesystem.NewTargetRepository()

		// when
		written, err := target.Write(context.Background(), dir, "db/v1/a.yaml", []byte("x: 1\n"), entities.OverwriteExisting)

		// then
		require.NoError(t, err)
		assert.True(t, written)
		content, readErr := os.ReadFile(filepath.Join(dir, "db", "v1", "a.yaml"))
		require.NoError(t, readErr)
		assert.Equal(t, "x: 1\n", string(content))
		entries, _ := os.ReadDir(filepath.Join(dir, "db", "v1"))
		assert.Len(t, entries, 1, "no temporary file is left behind")
	})

	t.Run("should replace an existing file when overwriting", func(t *testing.T) {
		t.Parallel()

		// given
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, "a.yaml"), "old")
		target := filesystem.NewTargetRepository()

		// when
		written, err := target.Write(context.Background(), dir, "a.yaml", []byte("new"), entities.OverwriteExisting)

		// then
		require.NoError(t, err)
		assert.True(t, written)
		content, _ := os.ReadFile(filepath.Join(dir, "a.yaml"))
		assert.Equal(t, "new", string(content))
	})

	t.Run("should keep an existing file when skipping", func(t *testing.T) {
		t.Parallel()

		// given
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, "a.yaml"), "old")
		target := filesystem.NewTargetRepository()

		// when
		written, err := target.Write(context.Background(), dir, "a.yaml", []byte("new"), entities.SkipExisting)

		// then
		require.NoError(t, err)
		assert.False(t, written)
		content, _ := os.ReadFile(filepath.Join(dir, "a.yaml"))
		assert.Equal(t, "old", string(content))
	})
}
