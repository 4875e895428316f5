package ports

import (
	"context"
	"io"
)

// ScriptRunner executes one lifecycle script in a package build directory.
//
//go:generate go run go.uber.org/mock/mockgen -source=executor.go -destination=mocks/mock_executor.go -package=mocks
type ScriptRunner interface {
	// Run executes the script with the build directory as working directory.
	// Output streams are wired to the given writers. A non-zero exit is
	// returned as an error carrying the exit code in its metadata.
	Run(ctx context.Context, dir, script string, stdout, stderr io.Writer) error
}
