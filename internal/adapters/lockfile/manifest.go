package lockfile

import (
	"context"

	"go.trai.ch/pakt/internal/core/domain"
	"go.trai.ch/pakt/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Translator = (*Manifest)(nil)

// Manifest is the impure translator for projects with a manifest but no
// lockfile. It invokes the package manager to synthesize a lockfile, then
// delegates to the pure package-lock translator. This is the single
// sanctioned non-deterministic entry point.
type Manifest struct {
	synth    ports.LockfileSynthesizer
	delegate *PackageLock
}

// NewManifest creates a Manifest translator backed by the given synthesizer.
func NewManifest(synth ports.LockfileSynthesizer) *Manifest {
	return &Manifest{
		synth:    synth,
		delegate: NewPackageLock(),
	}
}

// ID returns the translator identity.
func (t *Manifest) ID() domain.TranslatorID {
	return domain.TranslatorManifest
}

// Translate synthesizes a lockfile for the tree's root directory and
// translates it. The result still has to be a structurally valid lock graph.
func (t *Manifest) Translate(ctx context.Context, project *domain.Project, tree *domain.TreeNode, _ map[string]string) (*domain.LockGraph, error) {
	data, err := t.synth.Synthesize(ctx, tree.AbsPath)
	if err != nil {
		return nil, zerr.Wrap(err, "lockfile synthesis failed")
	}

	graph, err := t.delegate.FromBytes(project, data)
	if err != nil {
		return nil, err
	}
	if err := graph.Validate(); err != nil {
		return nil, err
	}
	return graph, nil
}
