package domain

import (
	"cmp"
	"iter"
	"slices"

	"go.trai.ch/zerr"
)

// GraphNode is one resolved package in a lock graph. Dependencies reference
// other nodes by name+version pair, not by identity; two nodes with an equal
// ref are interchangeable.
type GraphNode struct {
	Ref       PackageRef
	Resolved  string
	Integrity string

	// Dependencies maps dependency name to the exact ref it resolved to.
	Dependencies map[string]PackageRef

	Scripts LifecycleScripts
	Bin     map[string]string
}

// DependencyNames returns the node's dependency names in sorted order.
func (n *GraphNode) DependencyNames() []string {
	names := make([]string, 0, len(n.Dependencies))
	for name := range n.Dependencies {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// LockGraph is the canonical dependency graph produced by a translator:
// a set of GraphNodes plus one designated root. It is immutable once built.
type LockGraph struct {
	root  PackageRef
	nodes map[PackageRef]*GraphNode
}

// NewLockGraph creates a graph with the given root node.
func NewLockGraph(root *GraphNode) *LockGraph {
	g := &LockGraph{
		root:  root.Ref,
		nodes: make(map[PackageRef]*GraphNode),
	}
	g.Add(root)
	return g
}

// Add inserts a node. A node with the same ref is already interchangeable
// with the incoming one, so duplicates are dropped.
func (g *LockGraph) Add(n *GraphNode) {
	if _, exists := g.nodes[n.Ref]; exists {
		return
	}
	g.nodes[n.Ref] = n
}

// Root returns the designated root node.
func (g *LockGraph) Root() *GraphNode {
	return g.nodes[g.root]
}

// Node looks up a node by ref.
func (g *LockGraph) Node(ref PackageRef) (*GraphNode, bool) {
	n, ok := g.nodes[ref]
	return n, ok
}

// Len returns the number of distinct nodes.
func (g *LockGraph) Len() int {
	return len(g.nodes)
}

// Nodes yields all nodes sorted by name then version, so every consumer
// observes the same deterministic order.
func (g *LockGraph) Nodes() iter.Seq[*GraphNode] {
	refs := make([]PackageRef, 0, len(g.nodes))
	for ref := range g.nodes {
		refs = append(refs, ref)
	}
	slices.SortFunc(refs, func(a, b PackageRef) int {
		if c := cmp.Compare(a.Name(), b.Name()); c != 0 {
			return c
		}
		return cmp.Compare(a.Version(), b.Version())
	})
	return func(yield func(*GraphNode) bool) {
		for _, ref := range refs {
			if !yield(g.nodes[ref]) {
				return
			}
		}
	}
}

// Validate checks that every dependency edge resolves to exactly one node.
func (g *LockGraph) Validate() error {
	for node := range g.Nodes() {
		for _, name := range node.DependencyNames() {
			ref := node.Dependencies[name]
			if _, ok := g.nodes[ref]; !ok {
				err := zerr.Wrap(ErrMalformedLockfile, "dangling dependency reference")
				err = zerr.With(err, "package", node.Ref.String())
				return zerr.With(err, "dependency", ref.String())
			}
		}
	}
	return nil
}
