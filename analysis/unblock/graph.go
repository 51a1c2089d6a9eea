// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package unblock builds and resolves unblock graphs: the transitive set of
// blocking relations that must be released, and the order to release them in,
// to restore unrestricted access to a place.
//
// A graph is created empty per request, populated by a history-guarded
// recursive traversal of the blocking-relation oracle, consumed once by the
// resolver, and discarded. Both failure classes (cyclic blocking structures
// discovered while building, stuck peeling passes while resolving) are
// invariant violations in the facts supplied upstream and surface as errors
// carrying the full graph context.
package unblock

import (
	"errors"
	"fmt"

	"github.com/unblock-tools/ub-go-analyzer/analysis/borrows"
	"github.com/unblock-tools/ub-go-analyzer/analysis/cfg"
)

// ErrCyclicBlocking reports that a place or reborrow was revisited within one
// traversal, i.e. the borrow structure is not acyclic.
var ErrCyclicBlocking = errors.New("cyclic blocking structure")

// ErrStuckResolution reports that a peeling pass removed no edge while edges
// remain, i.e. the accumulated graph is not a DAG.
var ErrStuckResolution = errors.New("no resolvable edge remains")

// Graph is the set of blocking edges accumulated for a single unblock
// request. Edges keep insertion order so that resolution is deterministic.
type Graph struct {
	edges []borrows.Edge
}

// New returns an empty unblock graph.
func New() *Graph {
	return &Graph{}
}

// ForPlace builds the full transitive unblock graph for ref against the
// given oracle snapshot.
func ForPlace(ref borrows.PlaceRef, state borrows.State) (*Graph, error) {
	g := New()
	if err := g.UnblockPlace(ref, state); err != nil {
		return nil, err
	}
	return g, nil
}

// IsEmpty reports whether the graph holds no edges.
func (g *Graph) IsEmpty() bool {
	return len(g.edges) == 0
}

// Edges returns the accumulated edges in insertion order.
func (g *Graph) Edges() []borrows.Edge {
	return g.edges
}

// FilterForPath retains only the edges whose path conditions hold on the
// concrete path, specializing a graph built against all paths down to one
// execution trace.
func (g *Graph) FilterForPath(path cfg.Path) {
	var kept []borrows.Edge
	for _, e := range g.edges {
		if e.ValidForPath(path) {
			kept = append(kept, e)
		}
	}
	g.edges = kept
}

// addDependency records an edge, ignoring duplicates.
func (g *Graph) addDependency(e borrows.Edge) {
	for _, have := range g.edges {
		if have.Equal(e) {
			return
		}
	}
	g.edges = append(g.edges, e)
}

// UnblockPlace accumulates everything transitively blocking ref.
func (g *Graph) UnblockPlace(ref borrows.PlaceRef, state borrows.State) error {
	return g.unblockPlace(ref, state, NewHistory())
}

func (g *Graph) unblockPlace(ref borrows.PlaceRef, state borrows.State, history *History) error {
	if !history.Record(unblockEntry(ref)) {
		return fmt.Errorf("%w: place %s revisited\ntraversal history:\n%s", ErrCyclicBlocking, ref, history)
	}
	for _, edge := range state.EdgesBlocking(ref) {
		switch kind := edge.Kind().(type) {
		case *borrows.Reborrow:
			if err := g.killReborrow(kind, edge.Conditions(), state, history.Clone()); err != nil {
				return err
			}
		case *borrows.Expansion:
			// The expansion must be fully resolved before it can collapse.
			g.addDependency(edge)
			for _, field := range kind.Fields {
				if err := g.unblockPlace(field, state, history.Clone()); err != nil {
					return err
				}
			}
		case *borrows.Abstraction:
			for _, blocker := range kind.Blockers {
				if err := g.unblockPlace(blocker, state, history.Clone()); err != nil {
					return err
				}
			}
			g.addDependency(edge)
		case *borrows.RegionMember:
			// Region-projection membership is not resolved here.
		}
	}
	if ref.IsCurrent() {
		// A borrow of a field blocks an access to the whole containing place.
		for _, edge := range state.ReborrowsBlockingPrefixOf(ref.Place()) {
			rb := edge.Kind().(*borrows.Reborrow)
			if err := g.KillReborrow(rb, edge.Conditions(), state); err != nil {
				return err
			}
		}
	}
	return nil
}

// KillReborrow accumulates everything that must be released before the
// reborrow can terminate, then records the reborrow itself.
func (g *Graph) KillReborrow(rb *borrows.Reborrow, conditions borrows.PathConditions, state borrows.State) error {
	return g.killReborrow(rb, conditions, state, NewHistory())
}

func (g *Graph) killReborrow(rb *borrows.Reborrow, conditions borrows.PathConditions, state borrows.State, history *History) error {
	if !history.Record(killEntry(rb)) {
		return fmt.Errorf("%w: reborrow %s revisited\ntraversal history:\n%s", ErrCyclicBlocking, rb, history)
	}
	if err := g.unblockPlace(rb.Assigned, state, history); err != nil {
		return err
	}
	g.addDependency(borrows.NewEdge(rb, conditions))
	return nil
}

// KillReborrowsReservedAt records every reborrow reserved at the program
// point whose blocked side is not a snapshot, resolving only the assigned
// side of each. Used when a borrow's scope ends at a known point rather than
// via a place query.
func (g *Graph) KillReborrowsReservedAt(at borrows.Location, state borrows.State) error {
	for _, edge := range state.ReborrowsReservedAt(at) {
		rb := edge.Kind().(*borrows.Reborrow)
		if rb.Blocked.IsOld() {
			continue
		}
		if err := g.UnblockPlace(rb.Assigned, state); err != nil {
			return err
		}
		g.addDependency(edge)
	}
	return nil
}

// KillAbstraction records the abstraction edge after trimming: any place the
// abstraction blocks that is a historical snapshot is first freed of the
// reborrows transitively blocking it, so snapshots are never left dangling as
// unresolved dependencies.
func (g *Graph) KillAbstraction(state borrows.State, abs *borrows.Abstraction, conditions borrows.PathConditions) error {
	for _, blocked := range abs.Blocked {
		if snap, ok := blocked.Snapshot(); ok {
			if err := g.TrimOldLeavesFrom(state, snap); err != nil {
				return err
			}
		}
	}
	g.addDependency(borrows.NewEdge(abs, conditions))
	return nil
}

// TrimOldLeavesFrom kills every reborrow blocked by the snapshot, trimming
// transitively through reborrows whose own blocked side is a snapshot.
func (g *Graph) TrimOldLeavesFrom(state borrows.State, snap borrows.PlaceSnapshot) error {
	for _, edge := range state.ReborrowsBlockedBy(borrows.Old(snap.Place, snap.At)) {
		rb := edge.Kind().(*borrows.Reborrow)
		if blockedSnap, ok := rb.Blocked.Snapshot(); ok {
			if err := g.TrimOldLeavesFrom(state, blockedSnap); err != nil {
				return err
			}
		}
		if err := g.KillReborrow(rb, edge.Conditions(), state); err != nil {
			return err
		}
	}
	return nil
}
