package orchestrator

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"go.trai.ch/pakt/internal/adapters/fs"
	"go.trai.ch/pakt/internal/core/domain"
	"go.trai.ch/zerr"
)

// compose builds the final output tree from the finished stage directories,
// following the placement plan. Any previous output is replaced wholesale;
// the tree is never mutated in place.
//
// The layout places the root package under lib/, shared hoisted dependencies
// under node_modules/ and nested conflict copies inside their requirer's own
// node_modules. Executables land in bin/ for the root and in .bin/ beside
// each placed package.
func (o *Orchestrator) compose(g *domain.LockGraph, plan *domain.PlacementPlan, opts Options) error {
	if err := os.RemoveAll(opts.OutputDir); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to clear output directory"), "dir", opts.OutputDir)
	}
	if err := os.MkdirAll(opts.OutputDir, 0o750); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create output directory"), "dir", opts.OutputDir)
	}

	// Dirs yields parents before children, so a nested placement always finds
	// its enclosing package directory already materialized.
	for dir, ref := range plan.Dirs() {
		src := workDirFor(opts.StageDir, ref)
		dst := filepath.Join(opts.OutputDir, filepath.FromSlash(dir))
		if err := composePackage(src, dst, opts.InstallMethod); err != nil {
			return zerr.With(err, "package", ref.String())
		}
	}

	return o.linkExecutables(g, plan, opts)
}

// composePackage materializes a package's own files at dst. The stage copy's
// node_modules is deliberately left behind: the plan guarantees upward
// resolution over the composed layout, and skipping it keeps the directory
// real so nested placements can be created inside it.
func composePackage(src, dst string, method domain.InstallMethod) error {
	if err := os.MkdirAll(dst, 0o750); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create package directory"), "dir", dst)
	}
	if method == domain.InstallCopy {
		return fs.CopyDir(src, dst, []string{depDirName})
	}

	entries, err := os.ReadDir(src)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to read stage directory"), "dir", src)
	}
	for _, entry := range entries {
		if entry.Name() == depDirName {
			continue
		}
		abs, err := filepath.Abs(filepath.Join(src, entry.Name()))
		if err != nil {
			return zerr.Wrap(err, "failed to resolve stage entry")
		}
		if err := os.Symlink(abs, filepath.Join(dst, entry.Name())); err != nil {
			return zerr.With(zerr.Wrap(err, "failed to link package entry"), "entry", entry.Name())
		}
	}
	return nil
}

// linkExecutables creates the bin entries declared by placed packages. The
// root's executables go to bin/ at the output top level; every other package
// links into the .bin directory beside its placement, where dependents
// expect to find them.
func (o *Orchestrator) linkExecutables(g *domain.LockGraph, plan *domain.PlacementPlan, opts Options) error {
	for dir, ref := range plan.Dirs() {
		node, ok := g.Node(ref)
		if !ok || len(node.Bin) == 0 {
			continue
		}

		binDir := filepath.Join(opts.OutputDir, "bin")
		if ref != plan.Root() {
			binDir = filepath.Join(opts.OutputDir, filepath.FromSlash(binDirFor(dir)))
		}
		if err := os.MkdirAll(binDir, 0o750); err != nil {
			return zerr.With(zerr.Wrap(err, "failed to create bin directory"), "dir", binDir)
		}

		for _, exe := range sortedKeys(node.Bin) {
			script := filepath.Join(opts.OutputDir, filepath.FromSlash(dir), filepath.FromSlash(node.Bin[exe]))
			target, err := filepath.Rel(binDir, script)
			if err != nil {
				return zerr.Wrap(err, "failed to resolve executable path")
			}
			link := filepath.Join(binDir, exe)
			if _, err := os.Lstat(link); err == nil {
				// First placement in sorted order wins a contested name.
				o.logger.Warn(fmt.Sprintf("executable name %s already taken, skipping link for %s", exe, ref))
				continue
			}
			if err := os.Symlink(target, link); err != nil {
				return zerr.With(zerr.Wrap(err, "failed to link executable"), "executable", exe)
			}
		}
	}
	return nil
}

// binDirFor returns the .bin directory beside a placement, the one inside
// the innermost node_modules of the placement path.
func binDirFor(dir string) string {
	idx := strings.LastIndex(dir, depDirName+"/")
	if idx < 0 {
		return path.Join(path.Dir(dir), ".bin")
	}
	return path.Join(dir[:idx+len(depDirName)], ".bin")
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	// Deterministic link order fixes which package wins a contested name.
	slices.Sort(keys)
	return keys
}
