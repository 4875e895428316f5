package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRun(t *testing.T) {
	// Save original args
	originalArgs := os.Args
	defer func() {
		os.Args = originalArgs
	}()

	tests := []struct {
		name         string
		setup        func(t *testing.T, tmpDir string)
		args         []string
		expectedExit int
	}{
		{
			name: "Success with valid config",
			setup: func(t *testing.T, tmpDir string) {
				t.Helper()
				configContent := `projects:
  app:
    path: .
`
				manifest := `{"name":"app","version":"1.0.0"}`
				lock := `{"name":"app","version":"1.0.0","lockfileVersion":2,"packages":{"":{"name":"app","version":"1.0.0"}}}`
				assert.NoError(t, os.WriteFile(filepath.Join(tmpDir, "pakt.yaml"), []byte(configContent), 0o600))
				assert.NoError(t, os.WriteFile(filepath.Join(tmpDir, "package.json"), []byte(manifest), 0o600))
				assert.NoError(t, os.WriteFile(filepath.Join(tmpDir, "package-lock.json"), []byte(lock), 0o600))
			},
			args:         []string{"pakt", "build"},
			expectedExit: 0,
		},
		{
			name:         "Error with missing config",
			setup:        func(_ *testing.T, _ string) {},
			args:         []string{"pakt", "build", "-c", "nonexistent.yaml"},
			expectedExit: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			t.Setenv("PAKT_STORE_DIR", filepath.Join(tmpDir, "store"))

			tt.setup(t, tmpDir)

			// Change to tmpDir for relative path resolution
			originalWd, _ := os.Getwd()
			err := os.Chdir(tmpDir)
			if err != nil {
				t.Fatalf("failed to chdir: %v", err)
			}
			defer func() {
				_ = os.Chdir(originalWd)
			}()

			os.Args = tt.args

			exitCode := run()
			assert.Equal(t, tt.expectedExit, exitCode)
		})
	}
}
