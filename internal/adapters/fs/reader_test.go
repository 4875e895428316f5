package fs_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.trai.ch/pakt/internal/adapters/fs"
	"go.trai.ch/pakt/internal/core/domain"
)

func TestReader_Read(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"package.json":  `{"name":"app","version":"1.0.0"}`,
		"src/index.js":  "code",
		".git/HEAD":     "ref: refs/heads/main",
		"nested/a/b.js": "deep",
	})

	tree, err := fs.NewReader().Read(dir, 16)
	require.NoError(t, err)

	manifest, err := tree.Resolve("package.json")
	require.NoError(t, err)
	require.Equal(t, []byte(`{"name":"app","version":"1.0.0"}`), manifest.Data)

	_, err = tree.Resolve(".git")
	require.True(t, errors.Is(err, domain.ErrPathNotFound), "version control metadata must be skipped")

	file, err := tree.Resolve("nested/a/b.js")
	require.NoError(t, err)
	require.Equal(t, "nested/a/b.js", file.RelPath)
	require.Equal(t, filepath.Join(dir, "nested", "a", "b.js"), file.AbsPath)
}

func TestReader_DepthBound(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"a/b/c/d.js": "deep"})

	tree, err := fs.NewReader().Read(dir, 2)
	require.NoError(t, err)

	b, err := tree.Resolve("a/b")
	require.NoError(t, err)
	require.True(t, b.Unexplored)
	require.Empty(t, b.Children)

	_, err = tree.Resolve("a/b/c")
	require.True(t, errors.Is(err, domain.ErrPathNotFound))
}

func TestReader_Snapshot(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"a.js": "original"})

	tree, err := fs.NewReader().Read(dir, 16)
	require.NoError(t, err)

	// Later filesystem changes are invisible to the snapshot.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.js"), []byte("mutated"), 0o600))
	file, err := tree.Resolve("a.js")
	require.NoError(t, err)
	require.Equal(t, []byte("original"), file.Data)
}
