// Package lockfile implements the translators that map package manager
// lockfiles into the canonical lock graph.
package lockfile

import (
	"context"
	"encoding/json"
	"strings"

	"go.trai.ch/pakt/internal/core/domain"
	"go.trai.ch/pakt/internal/core/ports"
	"go.trai.ch/zerr"
)

// LockfileName is the package manager lockfile consumed by PackageLock.
const LockfileName = "package-lock.json"

var _ ports.Translator = (*PackageLock)(nil)

// PackageLock is the pure package-lock.json translator. It understands both
// the v1 nested `dependencies` schema and the v2/v3 path-keyed `packages`
// schema.
type PackageLock struct{}

// NewPackageLock creates a new PackageLock translator.
func NewPackageLock() *PackageLock {
	return &PackageLock{}
}

// ID returns the translator identity.
func (t *PackageLock) ID() domain.TranslatorID {
	return domain.TranslatorPackageLock
}

// Translate parses package-lock.json out of the source tree snapshot.
func (t *PackageLock) Translate(_ context.Context, project *domain.Project, tree *domain.TreeNode, _ map[string]string) (*domain.LockGraph, error) {
	file, err := tree.Resolve(LockfileName)
	if err != nil {
		return nil, err
	}
	return t.FromBytes(project, file.Data)
}

// FromBytes builds the lock graph from raw lockfile bytes. The manifest
// translator delegates here after synthesizing a lockfile.
func (t *PackageLock) FromBytes(project *domain.Project, data []byte) (*domain.LockGraph, error) {
	var lock lockJSON
	if err := json.Unmarshal(data, &lock); err != nil {
		return nil, zerr.Wrap(domain.ErrMalformedLockfile, err.Error())
	}

	if lock.Packages != nil {
		return buildFromPackages(project, lock.Packages)
	}
	return buildFromDependencies(project, lock.Dependencies)
}

type lockJSON struct {
	Name            string             `json:"name"`
	Version         string             `json:"version"`
	LockfileVersion int                `json:"lockfileVersion"`
	Dependencies    map[string]lockDep `json:"dependencies"`
	Packages        map[string]lockPkg `json:"packages"`
}

// lockDep is a v1 entry: nested dependencies carry resolved versions,
// requires carries name to range edges.
type lockDep struct {
	Version      string             `json:"version"`
	Resolved     string             `json:"resolved"`
	Integrity    string             `json:"integrity"`
	Requires     map[string]string  `json:"requires"`
	Dependencies map[string]lockDep `json:"dependencies"`
}

// lockPkg is a v2/v3 entry keyed by its node_modules path.
type lockPkg struct {
	Version      string            `json:"version"`
	Resolved     string            `json:"resolved"`
	Integrity    string            `json:"integrity"`
	Dependencies map[string]string `json:"dependencies"`
	Bin          json.RawMessage   `json:"bin"`
	Scripts      map[string]string `json:"scripts"`
}

// buildFromPackages translates the v2/v3 schema. Edges are resolved the way
// Node would: from the entry's own path upward through enclosing
// node_modules scopes.
func buildFromPackages(project *domain.Project, packages map[string]lockPkg) (*domain.LockGraph, error) {
	root := &domain.GraphNode{
		Ref:          project.Ref(),
		Dependencies: make(map[string]domain.PackageRef),
		Scripts:      project.Scripts,
		Bin:          project.Bin,
	}
	graph := domain.NewLockGraph(root)

	rootDeps := project.Dependencies
	if entry, ok := packages[""]; ok && entry.Dependencies != nil {
		rootDeps = entry.Dependencies
	}
	for name := range rootDeps {
		ref, err := resolvePackagePath(packages, "", name)
		if err != nil {
			return nil, err
		}
		root.Dependencies[name] = ref
	}

	for path, entry := range packages {
		if path == "" {
			continue
		}
		name := packageNameFromPath(path)
		if name == "" || entry.Version == "" {
			return nil, zerr.With(zerr.Wrap(domain.ErrMalformedLockfile, "entry is missing a version"), "path", path)
		}

		bin, err := domain.ParseBin(name, entry.Bin)
		if err != nil {
			return nil, zerr.With(err, "path", path)
		}

		node := &domain.GraphNode{
			Ref:          domain.NewPackageRef(name, entry.Version),
			Resolved:     entry.Resolved,
			Integrity:    entry.Integrity,
			Dependencies: make(map[string]domain.PackageRef),
			Bin:          bin,
			Scripts: domain.LifecycleScripts{
				Preinstall:  entry.Scripts["preinstall"],
				Install:     entry.Scripts["install"],
				Postinstall: entry.Scripts["postinstall"],
			},
		}
		for depName := range entry.Dependencies {
			ref, err := resolvePackagePath(packages, path, depName)
			if err != nil {
				return nil, err
			}
			node.Dependencies[depName] = ref
		}
		graph.Add(node)
	}

	return graph, nil
}

// resolvePackagePath finds the entry a dependency name resolves to from a
// given package path, walking upward through enclosing scopes.
func resolvePackagePath(packages map[string]lockPkg, from, depName string) (domain.PackageRef, error) {
	scope := from
	for {
		var candidate string
		if scope == "" {
			candidate = "node_modules/" + depName
		} else {
			candidate = scope + "/node_modules/" + depName
		}
		if entry, ok := packages[candidate]; ok {
			if entry.Version == "" {
				return domain.PackageRef{}, zerr.With(zerr.Wrap(domain.ErrMalformedLockfile, "entry is missing a version"), "path", candidate)
			}
			return domain.NewPackageRef(depName, entry.Version), nil
		}
		if scope == "" {
			err := zerr.Wrap(domain.ErrMalformedLockfile, "unresolvable dependency reference")
			err = zerr.With(err, "from", from)
			return domain.PackageRef{}, zerr.With(err, "dependency", depName)
		}
		scope = parentPackagePath(scope)
	}
}

// parentPackagePath strips the innermost node_modules/<name> component.
func parentPackagePath(path string) string {
	idx := strings.LastIndex(path, "node_modules/")
	if idx <= 0 {
		return ""
	}
	return strings.TrimSuffix(path[:idx], "/")
}

// packageNameFromPath extracts the (possibly scoped) package name from a
// node_modules path key.
func packageNameFromPath(path string) string {
	idx := strings.LastIndex(path, "node_modules/")
	if idx < 0 {
		return ""
	}
	return path[idx+len("node_modules/"):]
}

// buildFromDependencies translates the v1 nested schema. An entry's requires
// edges resolve against its own nested dependencies first, then outward
// scope by scope up to the top level.
func buildFromDependencies(project *domain.Project, deps map[string]lockDep) (*domain.LockGraph, error) {
	root := &domain.GraphNode{
		Ref:          project.Ref(),
		Dependencies: make(map[string]domain.PackageRef),
		Scripts:      project.Scripts,
		Bin:          project.Bin,
	}
	graph := domain.NewLockGraph(root)
	scopes := []map[string]lockDep{deps}

	for name := range project.Dependencies {
		entry, ok := deps[name]
		if !ok {
			err := zerr.Wrap(domain.ErrMalformedLockfile, "unresolvable dependency reference")
			return nil, zerr.With(err, "dependency", name)
		}
		ref, err := addDepEntry(graph, name, entry, scopes)
		if err != nil {
			return nil, err
		}
		root.Dependencies[name] = ref
	}

	// Entries not reachable from the manifest still belong to the node set.
	for name, entry := range deps {
		if _, err := addDepEntry(graph, name, entry, scopes); err != nil {
			return nil, err
		}
	}

	return graph, nil
}

func addDepEntry(graph *domain.LockGraph, name string, entry lockDep, scopes []map[string]lockDep) (domain.PackageRef, error) {
	if entry.Version == "" {
		return domain.PackageRef{}, zerr.With(zerr.Wrap(domain.ErrMalformedLockfile, "entry is missing a version"), "package", name)
	}
	ref := domain.NewPackageRef(name, entry.Version)
	if _, ok := graph.Node(ref); ok {
		return ref, nil
	}

	node := &domain.GraphNode{
		Ref:          ref,
		Resolved:     entry.Resolved,
		Integrity:    entry.Integrity,
		Dependencies: make(map[string]domain.PackageRef),
	}
	graph.Add(node)

	inner := scopes
	if len(entry.Dependencies) > 0 {
		inner = append([]map[string]lockDep{entry.Dependencies}, scopes...)
	}

	for depName := range entry.Requires {
		depEntry, ok := lookupScopes(inner, depName)
		if !ok {
			err := zerr.Wrap(domain.ErrMalformedLockfile, "unresolvable nested dependency reference")
			err = zerr.With(err, "package", name)
			return domain.PackageRef{}, zerr.With(err, "dependency", depName)
		}
		depRef, err := addDepEntry(graph, depName, depEntry, inner)
		if err != nil {
			return domain.PackageRef{}, err
		}
		node.Dependencies[depName] = depRef
	}

	for depName, depEntry := range entry.Dependencies {
		if _, err := addDepEntry(graph, depName, depEntry, inner); err != nil {
			return domain.PackageRef{}, err
		}
	}

	return ref, nil
}

// lookupScopes finds the nearest enclosing scope declaring a name.
func lookupScopes(scopes []map[string]lockDep, name string) (lockDep, bool) {
	for _, scope := range scopes {
		if entry, ok := scope[name]; ok {
			return entry, true
		}
	}
	return lockDep{}, false
}
