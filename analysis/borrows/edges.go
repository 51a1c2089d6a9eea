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

package borrows

import (
	"fmt"
	"strings"

	"github.com/unblock-tools/ub-go-analyzer/analysis/cfg"
)

// EdgeKind is a typed blocking relation between abstract locations. Each
// variant knows which locations it blocks; the unblock analysis dispatches on
// the concrete type.
type EdgeKind interface {
	// Blocks reports whether this relation blocks ref, i.e. ref cannot be
	// accessed freely while the relation is outstanding.
	Blocks(ref PlaceRef) bool

	// EqualKind reports whether two relations are the same relation.
	EqualKind(other EdgeKind) bool

	fmt.Stringer
}

// Reborrow records that access to Blocked has been temporarily re-granted to
// Assigned.
type Reborrow struct {
	Blocked    PlaceRef
	Assigned   PlaceRef
	Mutable    bool
	ReservedAt Location
}

// Blocks implements EdgeKind: a reborrow blocks the place it borrows from.
func (r *Reborrow) Blocks(ref PlaceRef) bool {
	return r.Blocked.Equal(ref)
}

// EqualKind implements EdgeKind.
func (r *Reborrow) EqualKind(other EdgeKind) bool {
	o, ok := other.(*Reborrow)
	return ok && r.Blocked.Equal(o.Blocked) && r.Assigned.Equal(o.Assigned) &&
		r.Mutable == o.Mutable && r.ReservedAt == o.ReservedAt
}

func (r *Reborrow) String() string {
	mut := ""
	if r.Mutable {
		mut = "mut "
	}
	return fmt.Sprintf("reborrow %s%s -> %s at %s", mut, r.Blocked, r.Assigned, r.ReservedAt)
}

// Expansion records that the aggregate Base was split into its constituent
// Fields for independent tracking. The reverse action is a collapse, which
// requires every field to be unblocked first.
type Expansion struct {
	Base   PlaceRef
	Fields []PlaceRef
}

// Blocks implements EdgeKind: an expansion blocks its base until collapsed.
func (e *Expansion) Blocks(ref PlaceRef) bool {
	return e.Base.Equal(ref)
}

// EqualKind implements EdgeKind.
func (e *Expansion) EqualKind(other EdgeKind) bool {
	o, ok := other.(*Expansion)
	return ok && e.Base.Equal(o.Base) && refsEqual(e.Fields, o.Fields)
}

func (e *Expansion) String() string {
	return fmt.Sprintf("expand %s -> {%s}", e.Base, refsString(e.Fields))
}

// Abstraction summarizes a set of concrete locations by an abstract region
// value introduced at a program point. Blockers are the concrete locations
// that block the abstraction; Blocked are the locations it stands in for.
type Abstraction struct {
	At       Location
	Blockers []PlaceRef
	Blocked  []PlaceRef
}

// Blocks implements EdgeKind.
func (a *Abstraction) Blocks(ref PlaceRef) bool {
	for _, b := range a.Blocked {
		if b.Equal(ref) {
			return true
		}
	}
	return false
}

// EqualKind implements EdgeKind.
func (a *Abstraction) EqualKind(other EdgeKind) bool {
	o, ok := other.(*Abstraction)
	return ok && a.At == o.At && refsEqual(a.Blockers, o.Blockers) && refsEqual(a.Blocked, o.Blocked)
}

func (a *Abstraction) String() string {
	return fmt.Sprintf("abstraction at %s blockers {%s} blocked {%s}",
		a.At, refsString(a.Blockers), refsString(a.Blocked))
}

// RegionMember is the membership of a concrete place in an abstract region
// projection. The unblock analysis records no dependencies for this relation
// and never resolves it into an action.
type RegionMember struct {
	Region int
	Place  PlaceRef
	At     Location
}

// Blocks implements EdgeKind. Region membership does not by itself block a
// place.
func (m *RegionMember) Blocks(PlaceRef) bool {
	return false
}

// EqualKind implements EdgeKind.
func (m *RegionMember) EqualKind(other EdgeKind) bool {
	o, ok := other.(*RegionMember)
	return ok && m.Region == o.Region && m.Place.Equal(o.Place) && m.At == o.At
}

func (m *RegionMember) String() string {
	return fmt.Sprintf("region 'r%d member %s at %s", m.Region, m.Place, m.At)
}

// Edge is a blocking relation annotated with the path conditions under which
// it holds. Edges are owned by the graph holding them; places are referenced
// by value.
type Edge struct {
	kind       EdgeKind
	conditions PathConditions
}

// NewEdge returns an edge for the relation under the given conditions. The
// conditions are copied so later fixpoint updates do not mutate stored edges.
func NewEdge(kind EdgeKind, conditions PathConditions) Edge {
	return Edge{kind: kind, conditions: conditions.Clone()}
}

// Kind returns the relation of the edge.
func (e Edge) Kind() EdgeKind {
	return e.kind
}

// Conditions returns the path conditions under which the edge holds.
func (e Edge) Conditions() PathConditions {
	return e.conditions
}

// Blocks reports whether the edge blocks ref.
func (e Edge) Blocks(ref PlaceRef) bool {
	return e.kind.Blocks(ref)
}

// ValidForPath reports whether the edge's conditions hold on the concrete
// path.
func (e Edge) ValidForPath(path cfg.Path) bool {
	return e.conditions.ValidForPath(path)
}

// Equal reports whether two edges record the same relation under the same
// conditions.
func (e Edge) Equal(other Edge) bool {
	return e.kind.EqualKind(other.kind) && e.conditions.Equal(other.conditions)
}

func (e Edge) String() string {
	return fmt.Sprintf("%s under %s", e.kind, e.conditions)
}

func refsEqual(a, b []PlaceRef) bool {
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

func refsString(refs []PlaceRef) string {
	parts := make([]string, len(refs))
	for i, r := range refs {
		parts[i] = r.String()
	}
	return strings.Join(parts, ", ")
}
