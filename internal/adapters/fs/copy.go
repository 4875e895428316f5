package fs

import (
	"io"
	"os"
	"path/filepath"

	"go.trai.ch/zerr"
)

// CopyDir copies a directory tree, preserving file modes and skipping any
// top-level or nested entry whose name matches one of skipNames.
func CopyDir(src, dst string, skipNames []string) error {
	entries, err := os.ReadDir(src)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to read source directory"), "dir", src)
	}
	if err := os.MkdirAll(dst, 0o750); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create directory"), "dir", dst)
	}

	for _, entry := range entries {
		name := entry.Name()
		if skip(name, skipNames) {
			continue
		}
		srcPath := filepath.Join(src, name)
		dstPath := filepath.Join(dst, name)

		info, err := entry.Info()
		if err != nil {
			return zerr.With(zerr.Wrap(err, "failed to stat entry"), "path", srcPath)
		}

		switch {
		case entry.IsDir():
			if err := CopyDir(srcPath, dstPath, skipNames); err != nil {
				return err
			}
		case info.Mode()&os.ModeSymlink != 0:
			target, err := os.Readlink(srcPath)
			if err != nil {
				return zerr.With(zerr.Wrap(err, "failed to read symlink"), "path", srcPath)
			}
			if err := os.Symlink(target, dstPath); err != nil {
				return zerr.With(zerr.Wrap(err, "failed to create symlink"), "path", dstPath)
			}
		case info.Mode().IsRegular():
			if err := copyFile(srcPath, dstPath, info.Mode().Perm()); err != nil {
				return err
			}
		}
	}
	return nil
}

func copyFile(src, dst string, perm os.FileMode) error {
	in, err := os.Open(src) //nolint:gosec // Path is under the caller's source dir
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to open file"), "path", src)
	}
	defer in.Close() //nolint:errcheck // Best effort close in defer

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm) //nolint:gosec // Destination under caller's dir
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create file"), "path", dst)
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return zerr.With(zerr.Wrap(err, "failed to copy file"), "path", dst)
	}
	if err := out.Close(); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to close file"), "path", dst)
	}
	return nil
}

func skip(name string, skipNames []string) bool {
	for _, s := range skipNames {
		if name == s {
			return true
		}
	}
	return false
}
