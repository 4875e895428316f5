package shell

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"

	"go.trai.ch/pakt/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.LockfileSynthesizer = (*Synthesizer)(nil)

// Synthesizer produces a lockfile for a manifest-only project by running the
// package manager in lockfile-only mode. Network-capable and therefore
// impure; every other translator path stays deterministic.
type Synthesizer struct {
	logger ports.Logger
}

// NewSynthesizer creates a new Synthesizer.
func NewSynthesizer(logger ports.Logger) *Synthesizer {
	return &Synthesizer{logger: logger}
}

// Synthesize runs the package manager in dir and returns the generated
// lockfile bytes.
func (s *Synthesizer) Synthesize(ctx context.Context, dir string) ([]byte, error) {
	s.logger.Info("synthesizing lockfile via package manager")

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, "npm", "install", "--package-lock-only", "--ignore-scripts")
	cmd.Dir = dir
	cmd.Env = os.Environ()
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		wrapped := zerr.Wrap(err, "package manager resolution failed")
		return nil, zerr.With(wrapped, "stderr", stderr.String())
	}

	data, err := os.ReadFile(filepath.Join(dir, "package-lock.json")) //nolint:gosec // Path is the project directory
	if err != nil {
		return nil, zerr.Wrap(err, "package manager produced no lockfile")
	}
	return data, nil
}
