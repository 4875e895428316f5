package domain_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.trai.ch/pakt/internal/core/domain"
)

func sampleTree() *domain.TreeNode {
	return &domain.TreeNode{
		RelPath: "",
		Kind:    domain.DirNode,
		Children: map[string]*domain.TreeNode{
			"package.json": {
				RelPath: "package.json",
				Kind:    domain.FileNode,
				Data:    []byte(`{"name": "app", "version": "1.0.0"}`),
			},
			"config.toml": {
				RelPath: "config.toml",
				Kind:    domain.FileNode,
				Data:    []byte("title = \"demo\"\n"),
			},
			"src": {
				RelPath: "src",
				Kind:    domain.DirNode,
				Children: map[string]*domain.TreeNode{
					"index.js": {
						RelPath: "src/index.js",
						Kind:    domain.FileNode,
						Data:    []byte("module.exports = 1\n"),
					},
				},
			},
		},
	}
}

func TestTreeNode_Resolve(t *testing.T) {
	tree := sampleTree()

	file, err := tree.Resolve("src/index.js")
	require.NoError(t, err)
	require.Equal(t, domain.FileNode, file.Kind)

	self, err := tree.Resolve("")
	require.NoError(t, err)
	require.Same(t, tree, self)

	_, err = tree.Resolve("src/missing.js")
	require.True(t, errors.Is(err, domain.ErrPathNotFound))

	// A file cannot be descended into.
	_, err = tree.Resolve("package.json/foo")
	require.True(t, errors.Is(err, domain.ErrPathNotFound))
}

func TestTreeNode_JSON(t *testing.T) {
	tree := sampleTree()

	file, err := tree.Resolve("package.json")
	require.NoError(t, err)
	v, err := file.JSON()
	require.NoError(t, err)
	require.Equal(t, "app", v.(map[string]any)["name"])

	// Memoized: the same value comes back.
	again, err := file.JSON()
	require.NoError(t, err)
	require.Equal(t, v, again)

	bad := &domain.TreeNode{RelPath: "x.json", Kind: domain.FileNode, Data: []byte("{")}
	_, err = bad.JSON()
	require.True(t, errors.Is(err, domain.ErrParse))
}

func TestTreeNode_TOML(t *testing.T) {
	tree := sampleTree()

	file, err := tree.Resolve("config.toml")
	require.NoError(t, err)
	v, err := file.TOML()
	require.NoError(t, err)
	require.Equal(t, "demo", v.(map[string]any)["title"])

	bad := &domain.TreeNode{RelPath: "x.toml", Kind: domain.FileNode, Data: []byte("=")}
	_, err = bad.TOML()
	require.True(t, errors.Is(err, domain.ErrParse))
}

func TestTreeNode_FilesSorted(t *testing.T) {
	tree := sampleTree()

	var paths []string
	for f := range tree.Files() {
		paths = append(paths, f.RelPath)
	}
	require.Equal(t, []string{"config.toml", "package.json", "src/index.js"}, paths)
}
