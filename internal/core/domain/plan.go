package domain

import (
	"iter"
	"path"
	"slices"
	"strings"

	"go.trai.ch/zerr"
)

// RootDir is the plan-relative directory of the root package. The root gets
// a scope of its own so a conflicting version it requires can nest under
// RootDir/node_modules without colliding with the shared hoisted location.
const RootDir = "lib"

// depDir is the name of a package's private dependency directory.
const depDir = "node_modules"

// Placement is the chosen install location for one dependency edge.
type Placement struct {
	Dependency PackageRef
	Dir        string
	Hoisted    bool
}

type planKey struct {
	requirer PackageRef
	dep      string
}

// PlacementPlan maps each (requiring package, dependency name) edge to its
// chosen install location and records which package occupies every directory.
// Invariant: Node-style upward resolution from any package's directory finds
// the exact version the lock graph records for that dependency.
type PlacementPlan struct {
	root       PackageRef
	placements map[planKey]Placement
	dirs       map[string]PackageRef
}

// NewPlacementPlan creates an empty plan rooted at the given package, which
// occupies RootDir.
func NewPlacementPlan(root PackageRef) *PlacementPlan {
	return &PlacementPlan{
		root:       root,
		placements: make(map[planKey]Placement),
		dirs:       map[string]PackageRef{RootDir: root},
	}
}

// Root returns the root package ref.
func (p *PlacementPlan) Root() PackageRef {
	return p.root
}

// Record registers the placement for one dependency edge. It fails with
// ErrUnresolvableConflict if a different version already claims the same
// exact directory.
func (p *PlacementPlan) Record(requirer PackageRef, depName string, pl Placement) error {
	if prev, ok := p.dirs[pl.Dir]; ok && prev != pl.Dependency {
		err := zerr.With(ErrUnresolvableConflict, "dir", pl.Dir)
		err = zerr.With(err, "placed", prev.String())
		return zerr.With(err, "conflicting", pl.Dependency.String())
	}
	p.dirs[pl.Dir] = pl.Dependency
	key := planKey{requirer: requirer, dep: depName}
	if _, ok := p.placements[key]; !ok {
		p.placements[key] = pl
	}
	return nil
}

// Lookup returns the placement chosen for a dependency edge.
func (p *PlacementPlan) Lookup(requirer PackageRef, depName string) (Placement, bool) {
	pl, ok := p.placements[planKey{requirer: requirer, dep: depName}]
	return pl, ok
}

// Dirs yields every occupied directory and its package, sorted by path, so
// the output tree can be composed parents-first.
func (p *PlacementPlan) Dirs() iter.Seq2[string, PackageRef] {
	dirs := make([]string, 0, len(p.dirs))
	for dir := range p.dirs {
		dirs = append(dirs, dir)
	}
	slices.Sort(dirs)
	return func(yield func(string, PackageRef) bool) {
		for _, dir := range dirs {
			if !yield(dir, p.dirs[dir]) {
				return
			}
		}
	}
}

// ResolveFrom walks upward from a package directory through ancestor scopes
// and returns the first package found for the dependency name together with
// the directory it occupies, mirroring Node-style module resolution over the
// planned layout.
func (p *PlacementPlan) ResolveFrom(fromDir, depName string) (PackageRef, string, bool) {
	dir := fromDir
	for {
		cand := path.Join(dir, depDir, depName)
		if ref, ok := p.dirs[cand]; ok {
			return ref, cand, true
		}
		if dir == "" {
			return PackageRef{}, "", false
		}
		dir = parentScope(dir)
	}
}

// parentScope strips the innermost node_modules/<name> component, or returns
// the top-level scope for a directory outside any node_modules.
func parentScope(dir string) string {
	idx := strings.LastIndex(dir, depDir+"/")
	if idx < 0 {
		return ""
	}
	return strings.TrimSuffix(dir[:idx], "/")
}

// NestedDir returns the private placement directory for a dependency nested
// under the given requirer directory.
func NestedDir(requirerDir, depName string) string {
	return path.Join(requirerDir, depDir, depName)
}

// HoistedDir returns the shared top-level placement directory for a name.
func HoistedDir(depName string) string {
	return path.Join(depDir, depName)
}
