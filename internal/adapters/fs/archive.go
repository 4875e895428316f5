package fs

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"errors"
	"io"
	iofs "io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/zerr"
)

// Pack archives a directory into gzipped tar bytes, suitable for the
// content-addressed artifact store. Entries are emitted in the lexical order
// of filepath.WalkDir, so equal trees pack to equal bytes.
func Pack(dir string) ([]byte, error) {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)

	err := filepath.WalkDir(dir, func(p string, d iofs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}

		switch {
		case d.IsDir():
			hdr := &tar.Header{Name: rel + "/", Mode: int64(info.Mode().Perm()), Typeflag: tar.TypeDir}
			return tw.WriteHeader(hdr)
		case info.Mode()&os.ModeSymlink != 0:
			target, err := os.Readlink(p)
			if err != nil {
				return err
			}
			hdr := &tar.Header{Name: rel, Linkname: target, Typeflag: tar.TypeSymlink}
			return tw.WriteHeader(hdr)
		case info.Mode().IsRegular():
			hdr := &tar.Header{Name: rel, Mode: int64(info.Mode().Perm()), Size: info.Size(), Typeflag: tar.TypeReg}
			if err := tw.WriteHeader(hdr); err != nil {
				return err
			}
			f, err := os.Open(p) //nolint:gosec // Path comes from the walk under dir
			if err != nil {
				return err
			}
			defer f.Close() //nolint:errcheck // Best effort close in defer
			_, err = io.Copy(tw, f)
			return err
		}
		return nil
	})
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to pack directory"), "dir", dir)
	}

	if err := tw.Close(); err != nil {
		return nil, zerr.Wrap(err, "failed to finalize archive")
	}
	if err := gz.Close(); err != nil {
		return nil, zerr.Wrap(err, "failed to finalize archive")
	}
	return buf.Bytes(), nil
}

// Unpack extracts gzipped tar bytes into dest. Entries escaping dest are
// rejected.
func Unpack(data []byte, dest string) error {
	gz, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return zerr.Wrap(err, "failed to open archive")
	}
	tr := tar.NewReader(gz)

	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return zerr.Wrap(err, "failed to read archive entry")
		}

		target := filepath.Join(dest, filepath.Clean(hdr.Name))
		if !strings.HasPrefix(target, filepath.Clean(dest)+string(os.PathSeparator)) {
			return zerr.With(zerr.New("archive entry escapes destination"), "entry", hdr.Name)
		}

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, iofs.FileMode(hdr.Mode)|0o700); err != nil { //nolint:gosec // Mode from trusted archive
				return zerr.With(zerr.Wrap(err, "failed to create directory"), "entry", hdr.Name)
			}
		case tar.TypeSymlink:
			if err := os.MkdirAll(filepath.Dir(target), 0o750); err != nil {
				return zerr.Wrap(err, "failed to create parent directory")
			}
			if err := os.Symlink(hdr.Linkname, target); err != nil {
				return zerr.With(zerr.Wrap(err, "failed to create symlink"), "entry", hdr.Name)
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(target), 0o750); err != nil {
				return zerr.Wrap(err, "failed to create parent directory")
			}
			f, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, iofs.FileMode(hdr.Mode)) //nolint:gosec // Target is confined to dest
			if err != nil {
				return zerr.With(zerr.Wrap(err, "failed to create file"), "entry", hdr.Name)
			}
			if _, err := io.Copy(f, tr); err != nil { //nolint:gosec // Archive produced by Pack
				_ = f.Close()
				return zerr.With(zerr.Wrap(err, "failed to extract file"), "entry", hdr.Name)
			}
			if err := f.Close(); err != nil {
				return zerr.Wrap(err, "failed to close file")
			}
		}
	}
	return nil
}
