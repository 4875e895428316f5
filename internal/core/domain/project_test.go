package domain_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.trai.ch/pakt/internal/core/domain"
)

func manifestNode(t *testing.T, data string) *domain.TreeNode {
	t.Helper()
	return &domain.TreeNode{
		RelPath: "package.json",
		Kind:    domain.FileNode,
		Data:    []byte(data),
	}
}

func TestProjectFromManifest(t *testing.T) {
	project, err := domain.ProjectFromManifest(manifestNode(t, `{
		"name": "app",
		"version": "1.2.3",
		"dependencies": {"left-pad": "^1.0.0"},
		"bin": {"app": "cli.js"},
		"scripts": {"postinstall": "node setup.js", "test": "jest"}
	}`))
	require.NoError(t, err)
	require.Equal(t, "app", project.Name)
	require.Equal(t, "app@1.2.3", project.Ref().String())
	require.Equal(t, map[string]string{"left-pad": "^1.0.0"}, project.Dependencies)
	require.Equal(t, map[string]string{"app": "cli.js"}, project.Bin)
	require.Equal(t, "node setup.js", project.Scripts.Postinstall)
	// Non-lifecycle scripts are not part of the model.
	require.Empty(t, project.Scripts.Install)
}

func TestProjectFromManifest_Invalid(t *testing.T) {
	_, err := domain.ProjectFromManifest(manifestNode(t, `{"version": "1.0.0"}`))
	require.True(t, errors.Is(err, domain.ErrParse))

	_, err = domain.ProjectFromManifest(manifestNode(t, `not json`))
	require.True(t, errors.Is(err, domain.ErrParse))
}

func TestParseBin(t *testing.T) {
	bin, err := domain.ParseBin("tool", []byte(`"cli.js"`))
	require.NoError(t, err)
	require.Equal(t, map[string]string{"tool": "cli.js"}, bin)

	bin, err = domain.ParseBin("tool", []byte(`{"a": "a.js", "b": "b.js"}`))
	require.NoError(t, err)
	require.Len(t, bin, 2)

	// A scoped package's executable is keyed by the unscoped name.
	bin, err = domain.ParseBin("@scope/tool", []byte(`"cli.js"`))
	require.NoError(t, err)
	require.Equal(t, map[string]string{"tool": "cli.js"}, bin)

	bin, err = domain.ParseBin("tool", nil)
	require.NoError(t, err)
	require.Nil(t, bin)

	_, err = domain.ParseBin("tool", []byte(`42`))
	require.True(t, errors.Is(err, domain.ErrParse))
}

func TestProject_CanonicalDeterministic(t *testing.T) {
	p := &domain.Project{
		Name:         "app",
		Version:      "1.0.0",
		Dependencies: map[string]string{"b": "1", "a": "2", "c": "3"},
	}
	first, err := p.Canonical()
	require.NoError(t, err)
	for range 10 {
		again, err := p.Canonical()
		require.NoError(t, err)
		require.Equal(t, first, again)
	}
}

func TestLifecycleScripts_StageOrder(t *testing.T) {
	s := domain.LifecycleScripts{Preinstall: "p", Install: "i", Postinstall: "q"}
	stages := s.Stages()
	require.Equal(t, []string{"preinstall", "install", "postinstall"}, []string{stages[0].Name, stages[1].Name, stages[2].Name})
}
