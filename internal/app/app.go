// Package app implements the application layer for pakt.
package app

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"go.trai.ch/pakt/internal/adapters/config"
	"go.trai.ch/pakt/internal/adapters/lockfile"
	"go.trai.ch/pakt/internal/core/domain"
	"go.trai.ch/pakt/internal/core/ports"
	"go.trai.ch/pakt/internal/engine/flatten"
	"go.trai.ch/pakt/internal/engine/orchestrator"
	"go.trai.ch/zerr"
)

// manifestName is the project manifest expected at every project root.
const manifestName = "package.json"

// App represents the main application logic.
type App struct {
	loader       ports.ConfigLoader
	reader       ports.TreeReader
	hasher       ports.KeyCalculator
	store        ports.ArtifactStore
	translators  *lockfile.Set
	orchestrator *orchestrator.Orchestrator
	telemetry    ports.Telemetry
	logger       ports.Logger
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	reader ports.TreeReader,
	hasher ports.KeyCalculator,
	store ports.ArtifactStore,
	translators *lockfile.Set,
	orch *orchestrator.Orchestrator,
	telemetry ports.Telemetry,
	logger ports.Logger,
) *App {
	return &App{
		loader:       loader,
		reader:       reader,
		hasher:       hasher,
		store:        store,
		translators:  translators,
		orchestrator: orch,
		telemetry:    telemetry,
		logger:       logger,
	}
}

// RunOptions controls one invocation of the build pipeline.
type RunOptions struct {
	// Projects names the configured projects to build. Empty builds all.
	Projects []string
	// Config overrides the configuration path. Empty means the working
	// directory's conventional file.
	Config string
	// Jobs bounds build parallelism. Zero or less means one worker per CPU.
	Jobs int
	// NoCache forces a full rebuild even when the invalidation key matches.
	NoCache bool
	// FailFast stops launching new work after the first failure regardless
	// of the configured builder kind.
	FailFast bool
}

// Run executes the build pipeline for the selected projects.
func (a *App) Run(ctx context.Context, opts RunOptions) error {
	defer func() {
		if err := a.telemetry.Close(); err != nil {
			a.logger.Warn(fmt.Sprintf("failed to close telemetry: %v", err))
		}
	}()

	cfg, err := a.loader.Load(cmp.Or(opts.Config, "."))
	if err != nil {
		return zerr.Wrap(err, "failed to load configuration")
	}

	projects, err := selectProjects(cfg, opts.Projects)
	if err != nil {
		return err
	}

	var errs error
	for _, pc := range projects {
		report, err := a.buildProject(ctx, pc, opts)
		if err != nil {
			a.logger.Error(err)
			errs = errors.Join(errs, zerr.With(err, "project", pc.Name))
			continue
		}
		if report.Cached {
			a.logger.Info(fmt.Sprintf("project %s is up to date (key %s)", pc.Name, report.Key))
			continue
		}
		a.logger.Info(fmt.Sprintf("project %s built (%d packages)", pc.Name, len(report.Packages)))
	}
	return errs
}

// buildProject runs the pipeline for one project: snapshot, key, translate,
// flatten, orchestrate. A prior report stored under the same invalidation key
// short-circuits the whole build as long as the output tree still exists.
func (a *App) buildProject(ctx context.Context, pc domain.ProjectConfig, opts RunOptions) (report *domain.BuildReport, err error) {
	vertex := a.telemetry.Record(ctx, "project "+pc.Name)
	defer func() { vertex.Complete(err) }()

	tree, err := a.reader.Read(pc.Path, pc.MaxDepth)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to snapshot project sources")
	}
	manifest, err := tree.Resolve(manifestName)
	if err != nil {
		return nil, zerr.Wrap(err, "project has no manifest")
	}
	project, err := domain.ProjectFromManifest(manifest)
	if err != nil {
		return nil, err
	}

	key, err := a.hasher.CalcKey(project, tree, pc.Translator, pc.Args, pc.Exclude)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to calculate invalidation key")
	}

	base := filepath.Join(pc.Path, config.OutputDirName)
	outDir := filepath.Join(base, "out")
	if !opts.NoCache {
		if cached, ok := a.cachedReport(key, outDir); ok {
			vertex.Cached()
			return cached, nil
		}
	}

	translator, err := a.translators.For(pc.Translator)
	if err != nil {
		return nil, err
	}
	graph, err := translator.Translate(ctx, project, tree, pc.Args)
	if err != nil {
		return nil, err
	}
	if err := graph.Validate(); err != nil {
		return nil, err
	}

	plan, err := flatten.Flatten(graph)
	if err != nil {
		return nil, err
	}

	stageDir := filepath.Join(base, "stage")
	if err := os.RemoveAll(stageDir); err != nil {
		return nil, zerr.Wrap(err, "failed to clear stage directory")
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	report, err = a.orchestrator.Run(ctx, graph, plan, orchestrator.Options{
		Parallelism:   jobs,
		FailFast:      opts.FailFast || pc.Builder == domain.BuilderStrict,
		InstallMethod: pc.InstallMethod,
		SourceDir:     pc.Path,
		StageDir:      stageDir,
		OutputDir:     outDir,
		SourceSkip:    pc.Exclude,
	})
	if report != nil {
		report.Project = project.Ref().String()
		report.Key = key
	}
	if err != nil {
		return report, err
	}

	a.persistReport(key, report)
	return report, nil
}

// cachedReport loads the report stored under the invalidation key. The hit
// only counts when that build succeeded and its output tree is still present.
func (a *App) cachedReport(key domain.InvalidationKey, outDir string) (*domain.BuildReport, bool) {
	data, err := a.store.Get(key)
	if err != nil {
		return nil, false
	}
	report, err := domain.UnmarshalBuildReport(data)
	if err != nil || !report.Success {
		return nil, false
	}
	if _, err := os.Stat(outDir); err != nil {
		return nil, false
	}
	report.Cached = true
	return report, true
}

// persistReport stores a successful report under its invalidation key.
// Storage trouble downgrades caching, never the build itself.
func (a *App) persistReport(key domain.InvalidationKey, report *domain.BuildReport) {
	data, err := report.Marshal()
	if err != nil {
		a.logger.Warn(fmt.Sprintf("failed to serialize build report: %v", err))
		return
	}
	if _, err := a.store.Put(key, data); err != nil {
		a.logger.Warn(fmt.Sprintf("failed to store build report: %v", err))
	}
}

func selectProjects(cfg *domain.BuildConfig, names []string) ([]domain.ProjectConfig, error) {
	if len(cfg.Projects) == 0 {
		return nil, domain.ErrNoProjects
	}
	if len(names) == 0 {
		return cfg.Projects, nil
	}
	selected := make([]domain.ProjectConfig, 0, len(names))
	for _, name := range names {
		pc, ok := cfg.Project(name)
		if !ok {
			return nil, zerr.With(domain.ErrUnknownProject, "project", name)
		}
		selected = append(selected, pc)
	}
	return selected, nil
}
