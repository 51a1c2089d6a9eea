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

package unblock

import (
	"fmt"
	"strings"

	"github.com/unblock-tools/ub-go-analyzer/analysis/borrows"
	"github.com/unblock-tools/ub-go-analyzer/internal/funcutil"
	"golang.org/x/exp/slices"
)

// ActionKind discriminates the release actions the resolver emits.
type ActionKind int

const (
	// TerminateReborrowAction releases a reborrow, returning access to the
	// blocked place.
	TerminateReborrowAction ActionKind = iota

	// CollapseAction reassembles an expanded aggregate from its fields.
	CollapseAction

	// TerminateAbstractionAction releases an abstract region summary.
	TerminateAbstractionAction
)

// Action is one release step. Fields are populated by kind: a reborrow
// termination carries Blocked/Assigned/Mutable and its reserve location in
// At; a collapse carries Base/Expansion; an abstraction termination carries
// At/Blockers.
type Action struct {
	Kind      ActionKind
	Blocked   borrows.PlaceRef
	Assigned  borrows.PlaceRef
	Mutable   bool
	At        borrows.Location
	Base      borrows.PlaceRef
	Expansion []borrows.PlaceRef
	Blockers  []borrows.PlaceRef
}

// Equal reports whether two actions release the same thing.
func (a Action) Equal(b Action) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case TerminateReborrowAction:
		return a.Blocked.Equal(b.Blocked) && a.Assigned.Equal(b.Assigned) &&
			a.Mutable == b.Mutable && a.At == b.At
	case CollapseAction:
		return a.Base.Equal(b.Base) && refListEqual(a.Expansion, b.Expansion)
	default:
		return a.At == b.At && refListEqual(a.Blockers, b.Blockers)
	}
}

func (a Action) String() string {
	switch a.Kind {
	case TerminateReborrowAction:
		mut := ""
		if a.Mutable {
			mut = "mut "
		}
		return fmt.Sprintf("terminate reborrow %s%s -> %s at %s", mut, a.Blocked, a.Assigned, a.At)
	case CollapseAction:
		fields := funcutil.Map(a.Expansion, func(r borrows.PlaceRef) string { return r.String() })
		return fmt.Sprintf("collapse %s from {%s}", a.Base, strings.Join(fields, ", "))
	default:
		blockers := funcutil.Map(a.Blockers, func(r borrows.PlaceRef) string { return r.String() })
		return fmt.Sprintf("terminate abstraction at %s blockers {%s}", a.At, strings.Join(blockers, ", "))
	}
}

// Actions resolves the graph into a totally ordered release sequence by
// iteratively peeling resolvable edges. Each pass removes every edge whose
// kind-specific leaf predicate holds; dependencies are therefore always
// released before their dependents. The same release may be required by two
// branches of the graph, so duplicate actions are suppressed.
//
// A pass that removes nothing while edges remain means the graph is not a
// DAG; the returned error lists the remaining edges and the elementary
// blocking cycles among them.
func (g *Graph) Actions() ([]Action, error) {
	edges := slices.Clone(g.edges)
	var actions []Action
	pushAction := func(a Action) {
		if !funcutil.Contains(actions, a.Equal) {
			actions = append(actions, a)
		}
	}

	for len(edges) > 0 {
		// A place is a leaf iff no remaining edge blocks it.
		isLeaf := func(ref borrows.PlaceRef) bool {
			return !funcutil.Contains(edges, func(e borrows.Edge) bool { return e.Blocks(ref) })
		}

		var keep []borrows.Edge
		removed := 0
		for _, edge := range edges {
			switch kind := edge.Kind().(type) {
			case *borrows.Reborrow:
				if isLeaf(kind.Assigned) {
					pushAction(Action{
						Kind:     TerminateReborrowAction,
						Blocked:  kind.Blocked,
						Assigned: kind.Assigned,
						Mutable:  kind.Mutable,
						At:       kind.ReservedAt,
					})
					removed++
					continue
				}
			case *borrows.Expansion:
				if funcutil.All(kind.Fields, isLeaf) {
					pushAction(Action{
						Kind:      CollapseAction,
						Base:      kind.Base,
						Expansion: kind.Fields,
					})
					removed++
					continue
				}
			case *borrows.Abstraction:
				if funcutil.All(kind.Blockers, isLeaf) {
					pushAction(Action{
						Kind:     TerminateAbstractionAction,
						At:       kind.At,
						Blockers: kind.Blockers,
					})
					removed++
					continue
				}
			}
			keep = append(keep, edge)
		}
		if removed == 0 {
			return nil, stuckError(edges)
		}
		edges = keep
	}
	return actions, nil
}

func refListEqual(a, b []borrows.PlaceRef) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}
