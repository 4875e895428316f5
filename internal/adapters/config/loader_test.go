package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.trai.ch/pakt/internal/adapters/config"
	"go.trai.ch/pakt/internal/core/domain"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.DefaultFilename), []byte(content), 0o600))
	return dir
}

func TestLoader_Load(t *testing.T) {
	dir := writeConfig(t, `
version: "1"
projects:
  web:
    path: ./web
    translator: yarn-lock
    builder: strict
    installMethod: copy
    exclude: ["dist"]
    maxDepth: 8
    args:
      registry: internal
  api:
    path: ./api
`)

	cfg, err := config.NewLoader().Load(dir)
	require.NoError(t, err)
	require.Len(t, cfg.Projects, 2)

	// Projects come back sorted by name.
	require.Equal(t, "api", cfg.Projects[0].Name)
	require.Equal(t, "web", cfg.Projects[1].Name)

	web, ok := cfg.Project("web")
	require.True(t, ok)
	require.Equal(t, domain.TranslatorYarnLock, web.Translator)
	require.Equal(t, domain.BuilderStrict, web.Builder)
	require.Equal(t, domain.InstallCopy, web.InstallMethod)
	require.Equal(t, 8, web.MaxDepth)
	require.Equal(t, map[string]string{"registry": "internal"}, web.Args)
	// Conventional exclusions are always appended.
	require.Contains(t, web.Exclude, "dist")
	require.Contains(t, web.Exclude, config.OutputDirName)
	require.Contains(t, web.Exclude, config.DefaultFilename)
}

func TestLoader_Defaults(t *testing.T) {
	dir := writeConfig(t, `
projects:
  app: {}
`)

	cfg, err := config.NewLoader().Load(dir)
	require.NoError(t, err)

	app, ok := cfg.Project("app")
	require.True(t, ok)
	require.Equal(t, ".", app.Path)
	require.Equal(t, domain.TranslatorPackageLock, app.Translator)
	require.Equal(t, domain.BuilderGranular, app.Builder)
	require.Equal(t, domain.InstallSymlink, app.InstallMethod)
	require.Positive(t, app.MaxDepth)
}

func TestLoader_RejectsUnknownEnumValues(t *testing.T) {
	cases := map[string]string{
		"translator": "projects:\n  app:\n    translator: pnpm\n",
		"builder":    "projects:\n  app:\n    builder: optimistic\n",
		"install":    "projects:\n  app:\n    installMethod: hardlink\n",
	}
	wantErrs := map[string]error{
		"translator": domain.ErrUnknownTranslator,
		"builder":    domain.ErrUnknownBuilder,
		"install":    domain.ErrUnknownInstallMethod,
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := config.NewLoader().Load(writeConfig(t, content))
			require.True(t, errors.Is(err, wantErrs[name]))
		})
	}
}

func TestLoader_MissingFile(t *testing.T) {
	_, err := config.NewLoader().Load(t.TempDir())
	require.Error(t, err)
}
