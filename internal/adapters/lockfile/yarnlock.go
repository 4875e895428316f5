package lockfile

import (
	"context"
	"strings"

	"go.trai.ch/pakt/internal/core/domain"
	"go.trai.ch/pakt/internal/core/ports"
	"go.trai.ch/zerr"
)

// YarnLockfileName is the yarn lockfile consumed by YarnLock.
const YarnLockfileName = "yarn.lock"

var _ ports.Translator = (*YarnLock)(nil)

// YarnLock is the pure translator for the yarn v1 lockfile text format:
// block-based, non-JSON, where several name@range selectors can share one
// resolved entry.
type YarnLock struct{}

// NewYarnLock creates a new YarnLock translator.
func NewYarnLock() *YarnLock {
	return &YarnLock{}
}

// ID returns the translator identity.
func (t *YarnLock) ID() domain.TranslatorID {
	return domain.TranslatorYarnLock
}

// yarnEntry is one resolved block of the lockfile.
type yarnEntry struct {
	name         string
	version      string
	resolved     string
	integrity    string
	dependencies map[string]string
}

// Translate parses yarn.lock out of the source tree snapshot and resolves
// the project's declared ranges against it.
func (t *YarnLock) Translate(_ context.Context, project *domain.Project, tree *domain.TreeNode, _ map[string]string) (*domain.LockGraph, error) {
	file, err := tree.Resolve(YarnLockfileName)
	if err != nil {
		return nil, err
	}

	entries, err := parseYarnLock(string(file.Data))
	if err != nil {
		return nil, err
	}

	root := &domain.GraphNode{
		Ref:          project.Ref(),
		Dependencies: make(map[string]domain.PackageRef),
		Scripts:      project.Scripts,
		Bin:          project.Bin,
	}
	graph := domain.NewLockGraph(root)

	for name, rng := range project.Dependencies {
		ref, err := addYarnEntry(graph, entries, name, rng)
		if err != nil {
			return nil, err
		}
		root.Dependencies[name] = ref
	}

	return graph, nil
}

// addYarnEntry resolves one name@range selector and recursively adds the
// entry it points at. Entries are deduplicated by name+version, so multiple
// ranges satisfied by one resolved version share a single node.
func addYarnEntry(graph *domain.LockGraph, entries map[string]*yarnEntry, name, rng string) (domain.PackageRef, error) {
	entry, ok := entries[name+"@"+rng]
	if !ok {
		err := zerr.Wrap(domain.ErrMalformedLockfile, "no entry satisfies range")
		err = zerr.With(err, "package", name)
		return domain.PackageRef{}, zerr.With(err, "range", rng)
	}

	ref := domain.NewPackageRef(name, entry.version)
	if _, exists := graph.Node(ref); exists {
		return ref, nil
	}

	node := &domain.GraphNode{
		Ref:          ref,
		Resolved:     entry.resolved,
		Integrity:    entry.integrity,
		Dependencies: make(map[string]domain.PackageRef),
	}
	graph.Add(node)

	for depName, depRange := range entry.dependencies {
		depRef, err := addYarnEntry(graph, entries, depName, depRange)
		if err != nil {
			return domain.PackageRef{}, err
		}
		node.Dependencies[depName] = depRef
	}

	return ref, nil
}

// parseYarnLock scans the lockfile line by line. A block starts with an
// unindented selector list ending in a colon; two-space indented lines carry
// scalar fields or sub-block headers, and a sub-block's entries follow as
// four-space indented name range pairs. Only the dependencies sub-block
// contributes graph edges; others (optionalDependencies, peerDependencies)
// are structurally valid and skipped.
func parseYarnLock(text string) (map[string]*yarnEntry, error) {
	entries := make(map[string]*yarnEntry)
	var current *yarnEntry
	subBlock := ""

	for line := range strings.Lines(text) {
		line = strings.TrimRight(line, "\r\n")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		switch {
		case !strings.HasPrefix(line, " "):
			if !strings.HasSuffix(line, ":") {
				return nil, zerr.With(zerr.Wrap(domain.ErrMalformedLockfile, "selector line does not end with a colon"), "line", line)
			}
			entry := &yarnEntry{dependencies: make(map[string]string)}
			for _, sel := range strings.Split(strings.TrimSuffix(line, ":"), ",") {
				sel = unquote(strings.TrimSpace(sel))
				name, _, err := splitSelector(sel)
				if err != nil {
					return nil, err
				}
				entry.name = name
				entries[sel] = entry
			}
			current = entry
			subBlock = ""

		case strings.HasPrefix(line, "    "):
			if current == nil || subBlock == "" {
				return nil, zerr.With(zerr.Wrap(domain.ErrMalformedLockfile, "unexpected indented line"), "line", line)
			}
			if subBlock != "dependencies" {
				continue
			}
			name, rng, ok := splitFieldLine(strings.TrimSpace(line))
			if !ok {
				return nil, zerr.With(zerr.Wrap(domain.ErrMalformedLockfile, "malformed dependency line"), "line", line)
			}
			current.dependencies[name] = rng

		default:
			if current == nil {
				return nil, zerr.With(zerr.Wrap(domain.ErrMalformedLockfile, "field line outside a block"), "line", line)
			}
			field := strings.TrimSpace(line)
			if strings.HasSuffix(field, ":") {
				subBlock = unquote(strings.TrimSuffix(field, ":"))
				continue
			}
			subBlock = ""
			key, value, ok := splitFieldLine(field)
			if !ok {
				return nil, zerr.With(zerr.Wrap(domain.ErrMalformedLockfile, "malformed field line"), "line", line)
			}
			switch key {
			case "version":
				current.version = value
			case "resolved":
				current.resolved = value
			case "integrity":
				current.integrity = value
			}
		}
	}

	for sel, entry := range entries {
		if entry.version == "" {
			return nil, zerr.With(zerr.Wrap(domain.ErrMalformedLockfile, "entry is missing a version"), "selector", sel)
		}
	}
	return entries, nil
}

// splitSelector splits name@range, keeping the leading @ of scoped names.
func splitSelector(sel string) (name, rng string, err error) {
	idx := strings.LastIndex(sel, "@")
	if idx <= 0 {
		return "", "", zerr.With(zerr.Wrap(domain.ErrMalformedLockfile, "malformed selector"), "selector", sel)
	}
	return sel[:idx], sel[idx+1:], nil
}

// splitFieldLine splits a `key value` or `"key" "value"` pair.
func splitFieldLine(s string) (key, value string, ok bool) {
	key, value, ok = strings.Cut(s, " ")
	if !ok {
		return "", "", false
	}
	return unquote(key), unquote(strings.TrimSpace(value)), true
}

func unquote(s string) string {
	if len(s) >= 2 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) {
		return s[1 : len(s)-1]
	}
	return s
}
