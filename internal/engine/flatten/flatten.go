// Package flatten resolves version conflicts across a lock graph and decides
// hoist versus nest placement for every dependency edge.
package flatten

import (
	"go.trai.ch/pakt/internal/core/domain"
	"go.trai.ch/zerr"
)

// Flatten derives the placement plan for a lock graph.
//
// Every package name with a single version across the graph is hoisted to
// the shared top-level location. For conflicting names the highest version
// wins the hoisted spot and every other version nests directly under its
// requiring package's own dependency directory, so upward resolution from
// the requirer finds the exact version before the hoisted copy shadows it.
// A requirer whose needed version is already reachable through an enclosing
// scope is exempted from nesting. The reverse holds too: when a nearer
// conflicting copy shadows the shared location, the hoist winner itself is
// nested privately under the requirer.
func Flatten(g *domain.LockGraph) (*domain.PlacementPlan, error) {
	root := g.Root()
	plan := domain.NewPlacementPlan(root.Ref)
	hoisted := selectHoisted(g)

	type item struct {
		node *domain.GraphNode
		dir  string
	}
	queue := []item{{node: root, dir: domain.RootDir}}
	visited := map[string]bool{root.Ref.String() + "|" + domain.RootDir: true}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		for _, depName := range cur.node.DependencyNames() {
			ref := cur.node.Dependencies[depName]
			pl := place(plan, hoisted, cur.dir, depName, ref)

			if err := plan.Record(cur.node.Ref, depName, pl); err != nil {
				return nil, err
			}

			dep, ok := g.Node(ref)
			if !ok {
				err := zerr.Wrap(domain.ErrMalformedLockfile, "dangling dependency reference")
				return nil, zerr.With(err, "dependency", ref.String())
			}
			key := ref.String() + "|" + pl.Dir
			if !visited[key] {
				visited[key] = true
				queue = append(queue, item{node: dep, dir: pl.Dir})
			}
		}
	}

	return plan, nil
}

// place picks the install location for one dependency edge. What matters is
// not where the version lives but what upward resolution from the requirer
// actually reaches: a copy some enclosing scope already provides is reused
// when it matches, and a mismatching nearer copy shadows everything behind
// it, so the required version nests privately even when it won the hoist.
// BFS order guarantees every ancestor scope is fully placed before the
// requirer's own edges, which makes the resolution check complete; the reuse
// branch also terminates placement on cyclic graphs.
func place(plan *domain.PlacementPlan, hoisted map[string]domain.PackageRef, requirerDir, depName string, ref domain.PackageRef) domain.Placement {
	if existing, dir, ok := plan.ResolveFrom(requirerDir, depName); ok {
		if existing == ref {
			return domain.Placement{Dependency: ref, Dir: dir, Hoisted: dir == domain.HoistedDir(depName)}
		}
		return domain.Placement{Dependency: ref, Dir: domain.NestedDir(requirerDir, depName)}
	}
	if hoisted[depName] == ref {
		return domain.Placement{Dependency: ref, Dir: domain.HoistedDir(depName), Hoisted: true}
	}
	return domain.Placement{Dependency: ref, Dir: domain.NestedDir(requirerDir, depName)}
}

// selectHoisted picks the hoisted candidate per package name: the single
// version where there is no conflict, otherwise the highest version by
// semantic comparison. Versions are collected in a deterministic traversal
// from the root, dependents visited in lexicographic name order, which
// fixes the tie-break between equal highest versions.
func selectHoisted(g *domain.LockGraph) map[string]domain.PackageRef {
	groups := make(map[string][]domain.PackageRef)
	seen := make(map[domain.PackageRef]bool)

	var visit func(n *domain.GraphNode)
	visit = func(n *domain.GraphNode) {
		if seen[n.Ref] {
			return
		}
		seen[n.Ref] = true
		groups[n.Ref.Name()] = append(groups[n.Ref.Name()], n.Ref)
		for _, depName := range n.DependencyNames() {
			if dep, ok := g.Node(n.Dependencies[depName]); ok {
				visit(dep)
			}
		}
	}
	visit(g.Root())

	hoisted := make(map[string]domain.PackageRef, len(groups))
	for name, refs := range groups {
		hoisted[name] = SelectHighest(refs)
	}
	// The root occupies its own scope and is never hoisted.
	delete(hoisted, g.Root().Ref.Name())
	return hoisted
}
