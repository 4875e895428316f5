package orchestrator

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/pakt/internal/adapters/fs"
	"go.trai.ch/pakt/internal/core/domain"
	"go.trai.ch/zerr"
)

// buildPackage runs one package through Assembling and Installing in its own
// isolated stage directory.
func (o *Orchestrator) buildPackage(ctx context.Context, n *domain.GraphNode, plan *domain.PlacementPlan, opts Options) (err error) {
	vertex := o.telemetry.Record(ctx, n.Ref.String())
	defer func() { vertex.Complete(err) }()

	o.setStatus(n.Ref, domain.StatusAssembling)
	workDir := workDirFor(opts.StageDir, n.Ref)
	if err := o.assemble(n, plan, workDir, opts); err != nil {
		return err
	}

	o.setStatus(n.Ref, domain.StatusInstalling)
	for _, stage := range n.Scripts.Stages() {
		if stage.Script == "" {
			continue
		}
		o.logger.Info(fmt.Sprintf("running %s script for %s", stage.Name, n.Ref))
		if err := o.runner.Run(ctx, workDir, stage.Script, vertex.Stdout(), vertex.Stderr()); err != nil {
			err = zerr.Wrap(domain.ErrLifecycleScript, err.Error())
			return zerr.With(err, "stage", stage.Name)
		}
	}

	o.archive(n, workDir)
	return nil
}

// assemble lays out the package's own files plus its direct dependencies in
// the stage directory. Dependencies are materialized from their finished
// stage directories; topological scheduling guarantees they are complete.
func (o *Orchestrator) assemble(n *domain.GraphNode, plan *domain.PlacementPlan, workDir string, opts Options) error {
	if err := os.MkdirAll(workDir, 0o750); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create stage directory"), "dir", workDir)
	}

	if n.Ref == plan.Root() {
		skip := append([]string{depDirName, ".git"}, opts.SourceSkip...)
		if err := fs.CopyDir(opts.SourceDir, workDir, skip); err != nil {
			return zerr.Wrap(err, "failed to copy project sources")
		}
	} else {
		data, err := o.store.Get(sourceKey(n))
		if err != nil {
			return zerr.With(zerr.Wrap(err, "package sources not available"), "resolved", n.Resolved)
		}
		if err := fs.Unpack(data, workDir); err != nil {
			return zerr.Wrap(err, "failed to unpack package sources")
		}
	}

	for _, depName := range n.DependencyNames() {
		ref := n.Dependencies[depName]
		if ref == n.Ref {
			continue
		}
		src := workDirFor(opts.StageDir, ref)
		dst := filepath.Join(workDir, depDirName, filepath.FromSlash(depName))
		if err := os.MkdirAll(filepath.Dir(dst), 0o750); err != nil {
			return zerr.Wrap(err, "failed to create dependency directory")
		}
		if err := materialize(src, dst, opts.InstallMethod); err != nil {
			return zerr.With(err, "dependency", ref.String())
		}
	}
	return nil
}

// archive stores the installed package for later reuse. Failures here never
// fail the build.
func (o *Orchestrator) archive(n *domain.GraphNode, workDir string) {
	data, err := fs.Pack(workDir)
	if err != nil {
		o.logger.Warn(fmt.Sprintf("failed to archive installed package %s: %v", n.Ref, err))
		return
	}
	location, err := o.store.Put(installedKey(n), data)
	if err != nil {
		o.logger.Warn(fmt.Sprintf("failed to store installed package %s: %v", n.Ref, err))
		return
	}
	o.logger.Info(fmt.Sprintf("stored installed package %s at %s", n.Ref, location))
}

// materialize places a finished package directory at dst, either as a
// symlink to the stage copy or as a full copy.
func materialize(src, dst string, method domain.InstallMethod) error {
	switch method {
	case domain.InstallCopy:
		return fs.CopyDir(src, dst, nil)
	default:
		abs, err := filepath.Abs(src)
		if err != nil {
			return zerr.Wrap(err, "failed to resolve stage directory")
		}
		if err := os.Symlink(abs, dst); err != nil {
			return zerr.With(zerr.Wrap(err, "failed to link dependency"), "path", dst)
		}
		return nil
	}
}

// depDirName is the per-package dependency directory created during assembly.
const depDirName = "node_modules"

// workDirFor returns the stage directory for a package. Scoped names contain
// a slash, which is flattened so every package stages at the same depth.
func workDirFor(stageDir string, ref domain.PackageRef) string {
	return filepath.Join(stageDir, strings.ReplaceAll(ref.String(), "/", "_"))
}

// sourceKey addresses a package's pristine sources in the artifact store.
// The lockfile integrity value pins the content; the ref disambiguates the
// rare case of equal tarballs published under two names.
func sourceKey(n *domain.GraphNode) domain.InvalidationKey {
	sum := sha256.Sum256([]byte("source\x00" + n.Ref.String() + "\x00" + n.Integrity))
	return domain.InvalidationKey(hex.EncodeToString(sum[:]))
}

// installedKey addresses a package after its lifecycle scripts ran. Scripts
// are part of the key since different scripts over the same sources produce
// different installed trees.
func installedKey(n *domain.GraphNode) domain.InvalidationKey {
	var scripts strings.Builder
	for _, stage := range n.Scripts.Stages() {
		scripts.WriteString(stage.Name)
		scripts.WriteByte(0)
		scripts.WriteString(stage.Script)
		scripts.WriteByte(0)
	}
	sum := sha256.Sum256([]byte("installed\x00" + n.Ref.String() + "\x00" + n.Integrity + "\x00" + scripts.String()))
	return domain.InvalidationKey(hex.EncodeToString(sum[:]))
}
