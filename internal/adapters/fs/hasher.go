package fs

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"io"
	"path"
	"path/filepath"
	"slices"
	"sort"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/pakt/internal/core/domain"
	"go.trai.ch/pakt/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.KeyCalculator = (*Hasher)(nil)

// Hasher derives invalidation keys from filtered source tree snapshots.
type Hasher struct{}

// NewHasher creates a new Hasher.
func NewHasher() *Hasher {
	return &Hasher{}
}

// CalcKey computes the build's invalidation key. The tree is streamed in
// sorted order with excluded paths pruned, each file contributing its
// relative path and an xxhash content digest; the project's canonical
// serialization, the translator identity and the lexicographically sorted
// arguments follow. The final digest is SHA-256, rendered as lowercase hex.
//
// Exclusion exists to break the feedback loop where a previous build's own
// generated output would perturb the key of the next build.
func (h *Hasher) CalcKey(
	project *domain.Project,
	tree *domain.TreeNode,
	translator domain.TranslatorID,
	args map[string]string,
	excludes []string,
) (domain.InvalidationKey, error) {
	digest := sha256.New()

	if err := h.hashNode(tree, excludes, digest); err != nil {
		return "", err
	}
	_, _ = digest.Write([]byte{0})

	meta, err := project.Canonical()
	if err != nil {
		return "", err
	}
	_, _ = digest.Write(meta)
	_, _ = digest.Write([]byte{0})

	_, _ = digest.Write([]byte(translator))
	_, _ = digest.Write([]byte{0})

	h.hashArgs(args, digest)

	return domain.InvalidationKey(hex.EncodeToString(digest.Sum(nil))), nil
}

// hashNode streams the subtree into w, pruning excluded paths. Children are
// visited in sorted name order so the stream is deterministic.
func (h *Hasher) hashNode(n *domain.TreeNode, excludes []string, w io.Writer) error {
	if n.Kind == domain.FileNode {
		return h.hashFile(n, w)
	}

	names := make([]string, 0, len(n.Children))
	for name := range n.Children {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		child := n.Children[name]
		if excluded(child.RelPath, excludes) {
			continue
		}
		if err := h.hashNode(child, excludes, w); err != nil {
			return err
		}
	}
	return nil
}

func (h *Hasher) hashFile(n *domain.TreeNode, w io.Writer) error {
	_, _ = w.Write([]byte(n.RelPath))
	_, _ = w.Write([]byte{0})

	if err := binary.Write(w, binary.LittleEndian, xxhash.Sum64(n.Data)); err != nil {
		return zerr.Wrap(err, "failed to write hash to digest")
	}
	return nil
}

// hashArgs writes translator arguments sorted lexicographically by key.
func (h *Hasher) hashArgs(args map[string]string, w io.Writer) {
	keys := make([]string, 0, len(args))
	for k := range args {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		_, _ = w.Write([]byte(k))
		_, _ = w.Write([]byte{'='})
		_, _ = w.Write([]byte(args[k]))
		_, _ = w.Write([]byte{0})
	}
}

// excluded reports whether a relative path matches any exclude pattern,
// either as a whole or by its base name.
func excluded(relPath string, excludes []string) bool {
	base := path.Base(relPath)
	for _, pattern := range excludes {
		if ok, _ := filepath.Match(pattern, relPath); ok {
			return true
		}
		if ok, _ := filepath.Match(pattern, base); ok {
			return true
		}
	}
	return false
}
