// Package domain contains the core domain models for the dependency builder.
package domain

import (
	"encoding/json"
	"iter"
	"slices"
	"strings"
	"sync"

	"github.com/pelletier/go-toml/v2"
	"go.trai.ch/zerr"
)

// NodeKind discriminates between file and directory tree nodes.
type NodeKind int

const (
	// FileNode is a regular file with raw content.
	FileNode NodeKind = iota
	// DirNode is a directory owning its children exclusively.
	DirNode
)

// TreeNode is one node of a frozen source tree snapshot.
// A directory owns its children; no node is shared between two parents and
// lookups always descend from the root, never chase parent pointers.
type TreeNode struct {
	RelPath string
	AbsPath string
	Kind    NodeKind

	// Data holds the raw bytes of a file node.
	Data []byte

	// Children maps entry name to child node for a directory node.
	Children map[string]*TreeNode

	// Unexplored marks a directory that was cut off by the depth limit.
	Unexplored bool

	jsonOnce sync.Once
	jsonVal  any
	jsonErr  error

	tomlOnce sync.Once
	tomlVal  any
	tomlErr  error
}

// JSON parses the file content as JSON. The result is parsed once and
// memoized on the node for the lifetime of the snapshot.
func (n *TreeNode) JSON() (any, error) {
	n.jsonOnce.Do(func() {
		if n.Kind != FileNode {
			n.jsonErr = zerr.With(ErrParse, "path", n.RelPath)
			return
		}
		if err := json.Unmarshal(n.Data, &n.jsonVal); err != nil {
			n.jsonErr = zerr.With(zerr.Wrap(ErrParse, err.Error()), "path", n.RelPath)
		}
	})
	return n.jsonVal, n.jsonErr
}

// TOML parses the file content as TOML, memoized like JSON.
func (n *TreeNode) TOML() (any, error) {
	n.tomlOnce.Do(func() {
		if n.Kind != FileNode {
			n.tomlErr = zerr.With(ErrParse, "path", n.RelPath)
			return
		}
		var v map[string]any
		if err := toml.Unmarshal(n.Data, &v); err != nil {
			n.tomlErr = zerr.With(zerr.Wrap(ErrParse, err.Error()), "path", n.RelPath)
			return
		}
		n.tomlVal = v
	})
	return n.tomlVal, n.tomlErr
}

// Resolve descends from this node along a slash-separated relative path.
// It fails with ErrPathNotFound if any segment is absent from the snapshot.
func (n *TreeNode) Resolve(relPath string) (*TreeNode, error) {
	cur := n
	relPath = strings.Trim(relPath, "/")
	if relPath == "" {
		return cur, nil
	}
	for seg := range strings.SplitSeq(relPath, "/") {
		if cur.Kind != DirNode {
			return nil, zerr.With(ErrPathNotFound, "path", relPath)
		}
		child, ok := cur.Children[seg]
		if !ok {
			return nil, zerr.With(ErrPathNotFound, "path", relPath)
		}
		cur = child
	}
	return cur, nil
}

// Files yields every file node in the subtree, sorted by relative path.
// The order is deterministic so the invalidation hasher can stream it.
func (n *TreeNode) Files() iter.Seq[*TreeNode] {
	return func(yield func(*TreeNode) bool) {
		n.walkFiles(yield)
	}
}

func (n *TreeNode) walkFiles(yield func(*TreeNode) bool) bool {
	if n.Kind == FileNode {
		return yield(n)
	}
	names := make([]string, 0, len(n.Children))
	for name := range n.Children {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		if !n.Children[name].walkFiles(yield) {
			return false
		}
	}
	return true
}
