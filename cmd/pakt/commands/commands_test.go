package commands_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"go.trai.ch/pakt/cmd/pakt/commands"
	"go.trai.ch/pakt/internal/adapters/fs"
	"go.trai.ch/pakt/internal/adapters/lockfile"
	"go.trai.ch/pakt/internal/adapters/telemetry"
	"go.trai.ch/pakt/internal/app"
	"go.trai.ch/pakt/internal/core/domain"
	"go.trai.ch/pakt/internal/core/ports/mocks"
	"go.trai.ch/pakt/internal/engine/orchestrator"
	"go.uber.org/mock/gomock"
)

func newCLI(t *testing.T, ctrl *gomock.Controller) (*commands.CLI, *mocks.MockConfigLoader, *mocks.MockArtifactStore, *mocks.MockScriptRunner) {
	t.Helper()

	mockLoader := mocks.NewMockConfigLoader(ctrl)
	mockStore := mocks.NewMockArtifactStore(ctrl)
	mockRunner := mocks.NewMockScriptRunner(ctrl)
	mockSynth := mocks.NewMockLockfileSynthesizer(ctrl)

	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Info(gomock.Any()).AnyTimes()
	mockLogger.EXPECT().Warn(gomock.Any()).AnyTimes()
	mockLogger.EXPECT().Error(gomock.Any()).AnyTimes()

	tel := telemetry.NewNoOp()
	orch := orchestrator.New(mockRunner, mockStore, tel, mockLogger)
	a := app.New(mockLoader, fs.NewReader(), fs.NewHasher(), mockStore, lockfile.NewSet(mockSynth), orch, tel, mockLogger)

	return commands.New(a), mockLoader, mockStore, mockRunner
}

// writeProject lays out a dependency-free project so the build command can
// run end to end against mocked side effects.
func writeProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	manifest := `{"name":"app","version":"1.0.0","scripts":{"install":"make"}}`
	lock := `{"name":"app","version":"1.0.0","lockfileVersion":2,"packages":{"":{"name":"app","version":"1.0.0"}}}`
	if err := os.WriteFile(filepath.Join(dir, "package.json"), []byte(manifest), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "package-lock.json"), []byte(lock), 0o600); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestBuild_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	cli, mockLoader, mockStore, mockRunner := newCLI(t, ctrl)

	cfg := &domain.BuildConfig{
		Projects: []domain.ProjectConfig{{
			Name:          "app",
			Path:          writeProject(t),
			Translator:    domain.TranslatorPackageLock,
			Builder:       domain.BuilderGranular,
			InstallMethod: domain.InstallSymlink,
			Exclude:       []string{"pakt_out", "pakt.yaml"},
			MaxDepth:      16,
		}},
	}

	mockLoader.EXPECT().Load(".").Return(cfg, nil).Times(1)
	mockStore.EXPECT().Get(gomock.Any()).Return(nil, domain.ErrNotCached).AnyTimes()
	mockStore.EXPECT().Put(gomock.Any(), gomock.Any()).Return("/store/entry", nil).AnyTimes()
	mockRunner.EXPECT().Run(gomock.Any(), gomock.Any(), "make", gomock.Any(), gomock.Any()).Return(nil).Times(1)

	cli.SetArgs([]string{"build"})

	if err := cli.Execute(context.Background()); err != nil {
		t.Errorf("Expected no error, got: %v", err)
	}
}

func TestBuild_UnknownProject(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	cli, mockLoader, _, _ := newCLI(t, ctrl)

	mockLoader.EXPECT().Load(".").Return(&domain.BuildConfig{}, nil).Times(1)

	cli.SetArgs([]string{"build", "ghost"})

	err := cli.Execute(context.Background())
	if !errors.Is(err, domain.ErrNoProjects) {
		t.Errorf("Expected ErrNoProjects, got: %v", err)
	}
}

func TestBuild_ConfigFlag(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	cli, mockLoader, _, _ := newCLI(t, ctrl)

	// The flag value is handed to the loader untouched.
	mockLoader.EXPECT().Load("custom.yaml").Return(&domain.BuildConfig{}, nil).Times(1)

	cli.SetArgs([]string{"build", "-c", "custom.yaml"})

	err := cli.Execute(context.Background())
	if !errors.Is(err, domain.ErrNoProjects) {
		t.Errorf("Expected ErrNoProjects, got: %v", err)
	}
}

func TestVersion(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	cli, _, _, _ := newCLI(t, ctrl)

	cli.SetArgs([]string{"version"})

	if err := cli.Execute(context.Background()); err != nil {
		t.Errorf("Expected no error for version, got: %v", err)
	}
}

func TestRoot_Help(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	cli, _, _, _ := newCLI(t, ctrl)

	cli.SetArgs([]string{"--help"})

	if err := cli.Execute(context.Background()); err != nil {
		t.Errorf("Expected no error for help, got: %v", err)
	}
}
