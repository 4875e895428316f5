package lockfile_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.trai.ch/pakt/internal/adapters/lockfile"
	"go.trai.ch/pakt/internal/core/domain"
	"go.trai.ch/pakt/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func TestManifest_Translate(t *testing.T) {
	ctrl := gomock.NewController(t)
	synth := mocks.NewMockLockfileSynthesizer(ctrl)

	tree := &domain.TreeNode{Kind: domain.DirNode, AbsPath: "/work/app"}
	synth.EXPECT().Synthesize(gomock.Any(), "/work/app").Return([]byte(v2Lock), nil)

	translator := lockfile.NewManifest(synth)
	require.Equal(t, domain.TranslatorManifest, translator.ID())

	graph, err := translator.Translate(context.Background(), testProject(map[string]string{"a": "^1.0.0", "b": "^1.0.0"}), tree, nil)
	require.NoError(t, err)
	require.Equal(t, domain.NewPackageRef("a", "1.2.0"), graph.Root().Dependencies["a"])
}

func TestManifest_SynthesisFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	synth := mocks.NewMockLockfileSynthesizer(ctrl)

	wantErr := errors.New("npm not found")
	synth.EXPECT().Synthesize(gomock.Any(), gomock.Any()).Return(nil, wantErr)

	_, err := lockfile.NewManifest(synth).Translate(context.Background(), testProject(nil), &domain.TreeNode{Kind: domain.DirNode}, nil)
	require.True(t, errors.Is(err, wantErr))
}

func TestSet_For(t *testing.T) {
	ctrl := gomock.NewController(t)
	set := lockfile.NewSet(mocks.NewMockLockfileSynthesizer(ctrl))

	for _, id := range []domain.TranslatorID{domain.TranslatorPackageLock, domain.TranslatorYarnLock, domain.TranslatorManifest} {
		translator, err := set.For(id)
		require.NoError(t, err)
		require.Equal(t, id, translator.ID())
	}

	_, err := set.For(domain.TranslatorID("pnpm"))
	require.True(t, errors.Is(err, domain.ErrUnknownTranslator))
}
