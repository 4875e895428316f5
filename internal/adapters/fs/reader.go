// Package fs provides filesystem adapters: the source tree reader, the
// invalidation hasher and the copy/archive helpers used during assembly.
package fs

import (
	"os"
	"path"
	"path/filepath"

	"go.trai.ch/pakt/internal/core/domain"
	"go.trai.ch/pakt/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.TreeReader = (*Reader)(nil)

// Reader builds frozen source tree snapshots.
type Reader struct{}

// NewReader creates a new Reader.
func NewReader() *Reader {
	return &Reader{}
}

// Read mirrors the directory at root into an in-memory tree. Each regular
// file's raw bytes are loaded eagerly; structured parsing stays lazy on the
// node. Directories beyond maxDepth become childless leaves marked
// Unexplored. The result is a snapshot: later filesystem changes are not
// observed.
func (r *Reader) Read(root string, maxDepth int) (*domain.TreeNode, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to resolve root"), "path", root)
	}
	return r.readDir(abs, "", maxDepth)
}

func (r *Reader) readDir(abs, rel string, depth int) (*domain.TreeNode, error) {
	node := &domain.TreeNode{
		RelPath:  rel,
		AbsPath:  abs,
		Kind:     domain.DirNode,
		Children: make(map[string]*domain.TreeNode),
	}

	if depth <= 0 {
		node.Unexplored = true
		return node, nil
	}

	entries, err := os.ReadDir(abs)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to read directory"), "path", abs)
	}

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() && (name == ".git" || name == ".jj") {
			continue
		}

		childAbs := filepath.Join(abs, name)
		childRel := path.Join(rel, name)

		switch {
		case entry.IsDir():
			child, err := r.readDir(childAbs, childRel, depth-1)
			if err != nil {
				return nil, err
			}
			node.Children[name] = child
		case entry.Type().IsRegular():
			data, err := os.ReadFile(childAbs) //nolint:gosec // Path is under the caller's root
			if err != nil {
				return nil, zerr.With(zerr.Wrap(err, "failed to read file"), "path", childAbs)
			}
			node.Children[name] = &domain.TreeNode{
				RelPath: childRel,
				AbsPath: childAbs,
				Kind:    domain.FileNode,
				Data:    data,
			}
		}
	}

	return node, nil
}
