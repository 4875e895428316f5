package orchestrator_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.trai.ch/pakt/internal/core/domain"
	"go.uber.org/mock/gomock"
)

// TestRun_ComposedLayout verifies the output tree for a conflicting graph:
// the shared spot holds the highest version while the root's own pin nests
// inside the root scope, and executables are linked for both.
func TestRun_ComposedLayout(t *testing.T) {
	f := setupOrchestrator(t)
	g := buildGraph(t, map[string][]string{
		"app@1.0.0": {"a@1.0.0", "b@1.0.0"},
		"b@1.0.0":   {"a@2.0.0"},
	})

	root := g.Root()
	root.Bin = map[string]string{"app": "main.js"}
	a2, ok := g.Node(domain.NewPackageRef("a", "2.0.0"))
	require.True(t, ok)
	a2.Bin = map[string]string{"a-cli": "index.js"}

	f.runner.EXPECT().Run(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).Times(4)

	opts := defaultOptions(t)
	opts.InstallMethod = domain.InstallCopy

	report, err := f.orch.Run(context.Background(), g, planFor(t, g), opts)
	require.NoError(t, err)
	require.True(t, report.Success)

	// Root files under lib, shared packages at the top level, the root's
	// conflicting pin nested in the root scope.
	requireDir(t, filepath.Join(opts.OutputDir, "lib"))
	requireFile(t, filepath.Join(opts.OutputDir, "lib", "main.js"))
	requireDir(t, filepath.Join(opts.OutputDir, "lib", "node_modules", "a"))
	requireDir(t, filepath.Join(opts.OutputDir, "node_modules", "a"))
	requireDir(t, filepath.Join(opts.OutputDir, "node_modules", "b"))

	// The stage-only dependency directories are not part of the output.
	_, err = os.Stat(filepath.Join(opts.OutputDir, "node_modules", "b", "node_modules"))
	require.True(t, os.IsNotExist(err))

	// Executable links.
	target, err := os.Readlink(filepath.Join(opts.OutputDir, "bin", "app"))
	require.NoError(t, err)
	require.Equal(t, filepath.Join("..", "lib", "main.js"), target)

	target, err = os.Readlink(filepath.Join(opts.OutputDir, "node_modules", ".bin", "a-cli"))
	require.NoError(t, err)
	require.Equal(t, filepath.Join("..", "a", "index.js"), target)
}

// TestRun_ComposedLayoutSymlink checks the symlink install method keeps the
// package directories real so nested placements can be created inside them.
func TestRun_ComposedLayoutSymlink(t *testing.T) {
	f := setupOrchestrator(t)
	g := buildGraph(t, map[string][]string{
		"app@1.0.0": {"a@1.0.0", "b@1.0.0"},
		"b@1.0.0":   {"a@2.0.0"},
	})
	f.runner.EXPECT().Run(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).Times(4)

	opts := defaultOptions(t)
	report, err := f.orch.Run(context.Background(), g, planFor(t, g), opts)
	require.NoError(t, err)
	require.True(t, report.Success)

	// lib itself is a real directory even though its entries are links.
	info, err := os.Lstat(filepath.Join(opts.OutputDir, "lib"))
	require.NoError(t, err)
	require.True(t, info.IsDir())

	link, err := os.Readlink(filepath.Join(opts.OutputDir, "lib", "main.js"))
	require.NoError(t, err)
	require.Contains(t, link, "app@1.0.0")

	requireDir(t, filepath.Join(opts.OutputDir, "lib", "node_modules", "a"))
}

// TestRun_OutputReplacedWholesale ensures a stale output tree is replaced,
// not merged into.
func TestRun_OutputReplacedWholesale(t *testing.T) {
	f := setupOrchestrator(t)
	g := buildGraph(t, map[string][]string{"app@1.0.0": {}})
	f.runner.EXPECT().Run(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	opts := defaultOptions(t)
	stale := filepath.Join(opts.OutputDir, "lib", "removed.js")
	require.NoError(t, os.MkdirAll(filepath.Dir(stale), 0o750))
	require.NoError(t, os.WriteFile(stale, []byte("old"), 0o600))

	_, err := f.orch.Run(context.Background(), g, planFor(t, g), opts)
	require.NoError(t, err)

	_, err = os.Stat(stale)
	require.True(t, os.IsNotExist(err))
	requireDir(t, filepath.Join(opts.OutputDir, "lib"))
}

func requireDir(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	require.NoError(t, err, "missing directory %s", path)
	require.True(t, info.IsDir(), "%s is not a directory", path)
}

func requireFile(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	require.NoError(t, err, "missing file %s", path)
	require.True(t, info.Mode().IsRegular(), "%s is not a regular file", path)
}
