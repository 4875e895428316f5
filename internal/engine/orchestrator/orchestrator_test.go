package orchestrator_test

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.trai.ch/pakt/internal/adapters/fs"
	"go.trai.ch/pakt/internal/adapters/telemetry"
	"go.trai.ch/pakt/internal/core/domain"
	"go.trai.ch/pakt/internal/core/ports/mocks"
	"go.trai.ch/pakt/internal/engine/flatten"
	"go.trai.ch/pakt/internal/engine/orchestrator"
	"go.uber.org/mock/gomock"
)

type orchestratorFixture struct {
	runner *mocks.MockScriptRunner
	store  *mocks.MockArtifactStore
	orch   *orchestrator.Orchestrator
}

func setupOrchestrator(t *testing.T) orchestratorFixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	runner := mocks.NewMockScriptRunner(ctrl)
	store := mocks.NewMockArtifactStore(ctrl)

	// Dependency sources come out of the store as packed archives; stored
	// build artifacts are accepted silently.
	depDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(depDir, "index.js"), []byte("module.exports = 1\n"), 0o600))
	archive, err := fs.Pack(depDir)
	require.NoError(t, err)
	store.EXPECT().Get(gomock.Any()).Return(archive, nil).AnyTimes()
	store.EXPECT().Put(gomock.Any(), gomock.Any()).Return("/store/entry", nil).AnyTimes()

	logger := mocks.NewMockLogger(ctrl)
	logger.EXPECT().Info(gomock.Any()).AnyTimes()
	logger.EXPECT().Warn(gomock.Any()).AnyTimes()
	logger.EXPECT().Error(gomock.Any()).AnyTimes()

	return orchestratorFixture{
		runner: runner,
		store:  store,
		orch:   orchestrator.New(runner, store, telemetry.NewNoOp(), logger),
	}
}

// buildGraph constructs a graph rooted at app@1.0.0. Every node gets a
// postinstall script named after its ref so runner expectations can target
// individual packages.
func buildGraph(t *testing.T, edges map[string][]string) *domain.LockGraph {
	t.Helper()

	parse := func(s string) domain.PackageRef {
		for i := len(s) - 1; i > 0; i-- {
			if s[i] == '@' {
				return domain.NewPackageRef(s[:i], s[i+1:])
			}
		}
		t.Fatalf("bad ref %q", s)
		return domain.PackageRef{}
	}

	nodes := make(map[domain.PackageRef]*domain.GraphNode)
	ensure := func(ref domain.PackageRef) *domain.GraphNode {
		if n, ok := nodes[ref]; ok {
			return n
		}
		n := &domain.GraphNode{
			Ref:          ref,
			Integrity:    "sha512-" + ref.String(),
			Dependencies: make(map[string]domain.PackageRef),
			Scripts:      domain.LifecycleScripts{Postinstall: "install " + ref.String()},
		}
		nodes[ref] = n
		return n
	}

	rootRef := domain.NewPackageRef("app", "1.0.0")
	ensure(rootRef)
	for from, deps := range edges {
		n := ensure(parse(from))
		for _, dep := range deps {
			depRef := parse(dep)
			ensure(depRef)
			n.Dependencies[depRef.Name()] = depRef
		}
	}

	g := domain.NewLockGraph(nodes[rootRef])
	for _, n := range nodes {
		g.Add(n)
	}
	require.NoError(t, g.Validate())
	return g
}

func planFor(t *testing.T, g *domain.LockGraph) *domain.PlacementPlan {
	t.Helper()
	plan, err := flatten.Flatten(g)
	require.NoError(t, err)
	return plan
}

// sourceDir creates a minimal project directory for the root package.
func sourceDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "package.json"), []byte(`{"name":"app","version":"1.0.0"}`), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.js"), []byte("require('a')\n"), 0o600))
	return dir
}

func defaultOptions(t *testing.T) orchestrator.Options {
	t.Helper()
	base := t.TempDir()
	return orchestrator.Options{
		Parallelism:   2,
		InstallMethod: domain.InstallSymlink,
		SourceDir:     sourceDir(t),
		StageDir:      filepath.Join(base, "stage"),
		OutputDir:     filepath.Join(base, "out"),
	}
}

func TestRun_DependencyOrder(t *testing.T) {
	f := setupOrchestrator(t)
	g := buildGraph(t, map[string][]string{
		"app@1.0.0": {"a@1.0.0"},
		"a@1.0.0":   {"b@1.0.0"},
	})

	var mu sync.Mutex
	var order []string
	record := func(_ context.Context, _ string, script string, _, _ io.Writer) error {
		mu.Lock()
		defer mu.Unlock()
		order = append(order, script)
		return nil
	}
	f.runner.EXPECT().Run(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(record).Times(3)

	report, err := f.orch.Run(context.Background(), g, planFor(t, g), defaultOptions(t))
	require.NoError(t, err)
	require.True(t, report.Success)

	require.Equal(t, []string{"install b@1.0.0", "install a@1.0.0", "install app@1.0.0"}, order)
	for ref, status := range report.Packages {
		require.Equal(t, domain.StatusDone, status, "package %s", ref)
	}
}

func TestRun_FailureBlocksDependents(t *testing.T) {
	f := setupOrchestrator(t)
	// app depends on a and c; a depends on b. b fails, so a and app are
	// blocked while the independent branch c still completes.
	g := buildGraph(t, map[string][]string{
		"app@1.0.0": {"a@1.0.0", "c@1.0.0"},
		"a@1.0.0":   {"b@1.0.0"},
	})

	scriptErr := errors.New("exit status 1")
	f.runner.EXPECT().Run(gomock.Any(), gomock.Any(), "install b@1.0.0", gomock.Any(), gomock.Any()).Return(scriptErr)
	f.runner.EXPECT().Run(gomock.Any(), gomock.Any(), "install c@1.0.0", gomock.Any(), gomock.Any()).Return(nil)

	report, err := f.orch.Run(context.Background(), g, planFor(t, g), defaultOptions(t))
	require.Error(t, err)
	require.True(t, errors.Is(err, domain.ErrBuildFailed))
	require.True(t, errors.Is(err, domain.ErrLifecycleScript))

	require.False(t, report.Success)
	require.Equal(t, domain.StatusFailed, report.Packages["b@1.0.0"])
	require.Equal(t, domain.StatusBlocked, report.Packages["a@1.0.0"])
	require.Equal(t, domain.StatusBlocked, report.Packages["app@1.0.0"])
	require.Equal(t, domain.StatusDone, report.Packages["c@1.0.0"])
}

func TestRun_FailFast(t *testing.T) {
	f := setupOrchestrator(t)
	g := buildGraph(t, map[string][]string{
		"app@1.0.0": {"a@1.0.0", "b@1.0.0"},
	})

	// With one worker the ready queue is processed in sorted order, so a
	// runs first. Its failure stops b from ever starting.
	f.runner.EXPECT().Run(gomock.Any(), gomock.Any(), "install a@1.0.0", gomock.Any(), gomock.Any()).Return(errors.New("exit status 1"))

	opts := defaultOptions(t)
	opts.Parallelism = 1
	opts.FailFast = true

	report, err := f.orch.Run(context.Background(), g, planFor(t, g), opts)
	require.Error(t, err)
	require.False(t, report.Success)
	require.Equal(t, domain.StatusFailed, report.Packages["a@1.0.0"])
	require.Equal(t, domain.StatusBlocked, report.Packages["b@1.0.0"])
	require.Equal(t, domain.StatusBlocked, report.Packages["app@1.0.0"])
}

func TestRun_CancelledContext(t *testing.T) {
	f := setupOrchestrator(t)
	g := buildGraph(t, map[string][]string{
		"app@1.0.0": {"a@1.0.0"},
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := f.orch.Run(ctx, g, planFor(t, g), defaultOptions(t))
	require.Error(t, err)
	require.True(t, errors.Is(err, context.Canceled))
	require.False(t, report.Success)
	for ref, status := range report.Packages {
		require.Equal(t, domain.StatusBlocked, status, "package %s", ref)
	}
}

func TestRun_ScriptsRunInStageDir(t *testing.T) {
	f := setupOrchestrator(t)
	g := buildGraph(t, map[string][]string{
		"app@1.0.0": {"a@1.0.0"},
	})
	opts := defaultOptions(t)

	var dirs []string
	var mu sync.Mutex
	f.runner.EXPECT().Run(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, dir string, _ string, _, _ io.Writer) error {
			mu.Lock()
			defer mu.Unlock()
			dirs = append(dirs, dir)
			return nil
		},
	).Times(2)

	_, err := f.orch.Run(context.Background(), g, planFor(t, g), opts)
	require.NoError(t, err)

	for _, dir := range dirs {
		require.True(t, filepath.IsAbs(dir) || dir != "", "unexpected dir %q", dir)
		require.Contains(t, dir, opts.StageDir)
	}

	// The dependency was materialized into the root's stage directory.
	appStage := filepath.Join(opts.StageDir, "app@1.0.0")
	link, err := os.Readlink(filepath.Join(appStage, "node_modules", "a"))
	require.NoError(t, err)
	require.Contains(t, link, "a@1.0.0")
}
