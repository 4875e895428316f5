// Package shell provides the subprocess adapters: the lifecycle script
// runner and the lockfile synthesizer.
package shell

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"

	"go.trai.ch/pakt/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.ScriptRunner = (*Runner)(nil)

// Runner executes lifecycle scripts through the system shell.
type Runner struct {
	logger ports.Logger
}

// NewRunner creates a new Runner.
func NewRunner(logger ports.Logger) *Runner {
	return &Runner{logger: logger}
}

// Run executes a script with dir as working directory. Output streams go to
// the provided writers so the caller can attach them to a telemetry vertex.
// A non-zero exit carries the exit code as error metadata.
func (r *Runner) Run(ctx context.Context, dir, script string, stdout, stderr io.Writer) error {
	cmd := exec.CommandContext(ctx, "sh", "-c", script) //nolint:gosec // Scripts come from the lock graph
	cmd.Dir = dir
	cmd.Env = os.Environ()
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	if err := cmd.Run(); err != nil {
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		return zerr.With(zerr.Wrap(err, "script exited"), "exit_code", exitCode)
	}
	return nil
}
