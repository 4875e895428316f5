// Package orchestrator executes isolated per-package install lifecycles in
// dependency order and composes the final output tree.
package orchestrator

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"
	"time"

	"go.trai.ch/pakt/internal/core/domain"
	"go.trai.ch/pakt/internal/core/ports"
	"go.trai.ch/zerr"
)

// Options configures one build run.
type Options struct {
	// Parallelism bounds the worker pool, independent of graph size.
	Parallelism int
	// FailFast stops launching new work after the first failure (the strict
	// builder). Packages already installing are allowed to finish.
	FailFast bool
	// InstallMethod selects symlink or copy materialization.
	InstallMethod domain.InstallMethod
	// SourceDir is the project directory holding the root package's files.
	SourceDir string
	// StageDir is the scratch area for isolated per-package build dirs.
	StageDir string
	// OutputDir receives the composed lib and out trees.
	OutputDir string
	// SourceSkip lists entry names never copied from the project source.
	SourceSkip []string
}

// Orchestrator drives the per-package state machine
// Pending -> Assembling -> Installing -> Done | Failed over a worker pool.
type Orchestrator struct {
	runner    ports.ScriptRunner
	store     ports.ArtifactStore
	telemetry ports.Telemetry
	logger    ports.Logger

	mu     sync.RWMutex
	status map[domain.PackageRef]domain.PackageStatus
}

// New creates a new Orchestrator.
func New(runner ports.ScriptRunner, store ports.ArtifactStore, telemetry ports.Telemetry, logger ports.Logger) *Orchestrator {
	return &Orchestrator{
		runner:    runner,
		store:     store,
		telemetry: telemetry,
		logger:    logger,
		status:    make(map[domain.PackageRef]domain.PackageStatus),
	}
}

func (o *Orchestrator) setStatus(ref domain.PackageRef, s domain.PackageStatus) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.status[ref] = s
}

func (o *Orchestrator) getStatus(ref domain.PackageRef) domain.PackageStatus {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.status[ref]
}

// Run builds every package reachable from the root and composes the output
// tree. The returned report carries one terminal status per package; the
// error is non-nil when the overall build failed, with the individual
// lifecycle failures joined in.
func (o *Orchestrator) Run(ctx context.Context, g *domain.LockGraph, plan *domain.PlacementPlan, opts Options) (*domain.BuildReport, error) {
	if opts.Parallelism < 1 {
		opts.Parallelism = 1
	}

	state := o.newRunState(ctx, g, plan, opts)

	// Statuses are scoped to one run; a fresh map keeps consecutive project
	// builds on the same instance independent.
	o.mu.Lock()
	o.status = make(map[domain.PackageRef]domain.PackageStatus, len(state.nodes))
	o.mu.Unlock()
	for ref := range state.nodes {
		o.setStatus(ref, domain.StatusPending)
	}

	for !state.isDone() {
		state.schedule()
		if state.isDone() {
			break
		}

		select {
		case res := <-state.resultsCh:
			state.handleResult(res)
		case <-ctx.Done():
			state.drain()
			return o.finish(state, errors.Join(state.errs, ctx.Err()))
		}
	}

	return o.finish(state, state.errs)
}

// finish marks leftovers, composes the output on success and assembles the
// report.
func (o *Orchestrator) finish(state *runState, errs error) (*domain.BuildReport, error) {
	o.mu.Lock()
	for ref, s := range o.status {
		if !s.Terminal() {
			o.status[ref] = domain.StatusBlocked
		}
	}
	success := true
	packages := make(map[string]domain.PackageStatus, len(o.status))
	for ref, s := range o.status {
		packages[ref.String()] = s
		if s != domain.StatusDone {
			success = false
		}
	}
	o.mu.Unlock()

	if success {
		if err := o.compose(state.graph, state.plan, state.opts); err != nil {
			success = false
			errs = errors.Join(errs, err)
		}
	}

	report := &domain.BuildReport{
		Packages:  packages,
		Success:   success,
		Timestamp: time.Now(),
	}
	if !success {
		return report, errors.Join(domain.ErrBuildFailed, errs)
	}
	return report, nil
}

type result struct {
	ref domain.PackageRef
	err error
}

type runState struct {
	ctx   context.Context
	o     *Orchestrator
	graph *domain.LockGraph
	plan  *domain.PlacementPlan
	opts  Options

	nodes      map[domain.PackageRef]*domain.GraphNode
	inDegree   map[domain.PackageRef]int
	dependents map[domain.PackageRef][]domain.PackageRef
	ready      []domain.PackageRef
	active     int
	failed     bool
	resultsCh  chan result
	errs       error
}

// newRunState seeds the scheduling state from the packages reachable from
// the root.
func (o *Orchestrator) newRunState(ctx context.Context, g *domain.LockGraph, plan *domain.PlacementPlan, opts Options) *runState {
	state := &runState{
		ctx:        ctx,
		o:          o,
		graph:      g,
		plan:       plan,
		opts:       opts,
		nodes:      make(map[domain.PackageRef]*domain.GraphNode),
		inDegree:   make(map[domain.PackageRef]int),
		dependents: make(map[domain.PackageRef][]domain.PackageRef),
		resultsCh:  make(chan result, opts.Parallelism),
	}

	var visit func(n *domain.GraphNode)
	visit = func(n *domain.GraphNode) {
		if _, seen := state.nodes[n.Ref]; seen {
			return
		}
		state.nodes[n.Ref] = n
		deps := 0
		for _, name := range n.DependencyNames() {
			ref := n.Dependencies[name]
			if ref == n.Ref {
				continue
			}
			deps++
			state.dependents[ref] = append(state.dependents[ref], n.Ref)
			if dep, ok := g.Node(ref); ok {
				visit(dep)
			}
		}
		state.inDegree[n.Ref] = deps
	}
	visit(g.Root())

	for ref, degree := range state.inDegree {
		if degree == 0 {
			state.ready = append(state.ready, ref)
		}
	}
	sortRefs(state.ready)
	return state
}

func (state *runState) isDone() bool {
	return state.active == 0 && len(state.ready) == 0
}

// schedule launches ready packages up to the parallelism bound. After a
// failure with FailFast set, nothing new starts.
func (state *runState) schedule() {
	for len(state.ready) > 0 && state.active < state.opts.Parallelism && state.ctx.Err() == nil {
		if state.failed && state.opts.FailFast {
			state.ready = nil
			return
		}
		ref := state.ready[0]
		state.ready = state.ready[1:]
		state.active++

		go func(n *domain.GraphNode) {
			state.resultsCh <- result{ref: n.Ref, err: state.o.buildPackage(state.ctx, n, state.plan, state.opts)}
		}(state.nodes[ref])
	}
}

func (state *runState) handleResult(res result) {
	state.active--
	if res.err != nil {
		state.failed = true
		state.errs = errors.Join(state.errs, zerr.With(res.err, "package", res.ref.String()))
		state.o.setStatus(res.ref, domain.StatusFailed)
		state.block(res.ref)
		return
	}

	state.o.setStatus(res.ref, domain.StatusDone)
	for _, dep := range state.dependents[res.ref] {
		state.inDegree[dep]--
		if state.inDegree[dep] == 0 {
			state.ready = append(state.ready, dep)
			sortRefs(state.ready)
		}
	}
}

// block marks every transitive dependent of a failed package. Blocked
// packages never become ready, so the loop drains without attempting them.
func (state *runState) block(failed domain.PackageRef) {
	queue := []domain.PackageRef{failed}
	for len(queue) > 0 {
		ref := queue[0]
		queue = queue[1:]
		for _, dep := range state.dependents[ref] {
			if state.o.getStatus(dep) == domain.StatusPending {
				state.o.setStatus(dep, domain.StatusBlocked)
				queue = append(queue, dep)
			}
		}
	}
}

// drain waits for in-flight workers after cancellation; installs are never
// forcibly terminated by the orchestrator itself.
func (state *runState) drain() {
	for state.active > 0 {
		res := <-state.resultsCh
		state.handleResult(res)
	}
}

func sortRefs(refs []domain.PackageRef) {
	slices.SortFunc(refs, func(a, b domain.PackageRef) int {
		return strings.Compare(a.String(), b.String())
	})
}
