// Package ports defines the core interfaces for the application.
package ports

import (
	"context"

	"go.trai.ch/pakt/internal/core/domain"
)

// Translator maps a lockfile format into the canonical lock graph.
//
// Pure translators must be deterministic: byte-identical input produces a
// structurally identical graph on every invocation. The package-json
// translator is the single sanctioned impure variant; it shells out to the
// package manager to synthesize a lockfile first.
//
//go:generate go run go.uber.org/mock/mockgen -source=translator.go -destination=mocks/mock_translator.go -package=mocks
type Translator interface {
	// ID returns the translator's identity, used in the invalidation key.
	ID() domain.TranslatorID

	// Translate builds the lock graph for a project from its source tree.
	Translate(ctx context.Context, project *domain.Project, tree *domain.TreeNode, args map[string]string) (*domain.LockGraph, error)
}

// LockfileSynthesizer produces lockfile bytes for a project that has only a
// manifest, typically by running the package manager in lockfile-only mode.
type LockfileSynthesizer interface {
	// Synthesize resolves the manifest in dir and returns lockfile bytes.
	Synthesize(ctx context.Context, dir string) ([]byte, error)
}
