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
	"golang.org/x/exp/slices"
)

// PathCondition records that one CFG edge was traversed. It is an immutable,
// value-comparable pair of blocks.
type PathCondition struct {
	From cfg.BlockID
	To   cfg.BlockID
}

// NewPathCondition returns the condition for the CFG edge from -> to.
func NewPathCondition(from, to cfg.BlockID) PathCondition {
	return PathCondition{From: from, To: to}
}

func (pc PathCondition) String() string {
	return fmt.Sprintf("%s -> %s", pc.From, pc.To)
}

// compare orders conditions by (From, To) so that set iteration is
// deterministic.
func (pc PathCondition) compare(other PathCondition) int {
	if pc.From != other.From {
		if pc.From < other.From {
			return -1
		}
		return 1
	}
	if pc.To == other.To {
		return 0
	}
	if pc.To < other.To {
		return -1
	}
	return 1
}

// PCGraph is a set of path conditions representing one or more CFG paths.
// The set only grows: Insert and Join are monotone, which makes the fixpoint
// joins of the surrounding dataflow analysis converge.
type PCGraph struct {
	edges map[PathCondition]struct{}
}

// SingletonPCGraph returns a graph containing exactly pc.
func SingletonPCGraph(pc PathCondition) *PCGraph {
	return &PCGraph{edges: map[PathCondition]struct{}{pc: {}}}
}

// Insert adds pc to the set and reports whether the set changed.
func (g *PCGraph) Insert(pc PathCondition) bool {
	if _, ok := g.edges[pc]; ok {
		return false
	}
	if g.edges == nil {
		g.edges = map[PathCondition]struct{}{}
	}
	g.edges[pc] = struct{}{}
	return true
}

// Join adds every condition of other to g and reports whether g changed.
// Join never removes a condition.
func (g *PCGraph) Join(other *PCGraph) bool {
	changed := false
	for _, pc := range other.Conditions() {
		if g.Insert(pc) {
			changed = true
		}
	}
	return changed
}

// Len returns the number of conditions in the set.
func (g *PCGraph) Len() int {
	return len(g.edges)
}

// Conditions returns the conditions in (From, To) order.
func (g *PCGraph) Conditions() []PathCondition {
	conds := make([]PathCondition, 0, len(g.edges))
	for pc := range g.edges {
		conds = append(conds, pc)
	}
	slices.SortFunc(conds, func(a, b PathCondition) bool { return a.compare(b) < 0 })
	return conds
}

// Contains reports whether pc is in the set.
func (g *PCGraph) Contains(pc PathCondition) bool {
	_, ok := g.edges[pc]
	return ok
}

// HasPathToBlock reports whether some condition ends at block.
func (g *PCGraph) HasPathToBlock(block cfg.BlockID) bool {
	for pc := range g.edges {
		if pc.To == block {
			return true
		}
	}
	return false
}

// HasPathFromBlock reports whether some condition starts at block.
func (g *PCGraph) HasPathFromBlock(block cfg.BlockID) bool {
	for pc := range g.edges {
		if pc.From == block {
			return true
		}
	}
	return false
}

// Root returns the first source block that no condition leads into. The
// second return value is false when the set has no such block (e.g. it is
// empty).
func (g *PCGraph) Root() (cfg.BlockID, bool) {
	for _, pc := range g.Conditions() {
		if !g.HasPathToBlock(pc.From) {
			return pc.From, true
		}
	}
	return cfg.InvalidBlock, false
}

// End returns the first sink block that no condition leaves from. The second
// return value is false when the set has no such block.
func (g *PCGraph) End() (cfg.BlockID, bool) {
	for _, pc := range g.Conditions() {
		if !g.HasPathFromBlock(pc.To) {
			return pc.To, true
		}
	}
	return cfg.InvalidBlock, false
}

// HasSuffixOf reports whether the suffix of path starting at the root's
// first occurrence follows a chain of the graph: every step of the suffix
// taken while the graph still has an outgoing edge from the current block
// must be an edge of the graph. Steps past the end of the recorded chain do
// not invalidate the match. When the root does not occur in path (or the
// graph has no root), the whole path is checked.
func (g *PCGraph) HasSuffixOf(path cfg.Path) bool {
	if root, ok := g.Root(); ok {
		if i := slices.Index(path, root); i >= 0 {
			path = path[i:]
		}
	}
	for i := 0; i+1 < len(path); i++ {
		if !g.HasPathFromBlock(path[i]) {
			break
		}
		if !g.Contains(NewPathCondition(path[i], path[i+1])) {
			return false
		}
	}
	return true
}

// Equal reports whether two graphs contain the same conditions.
func (g *PCGraph) Equal(other *PCGraph) bool {
	if len(g.edges) != len(other.edges) {
		return false
	}
	for pc := range g.edges {
		if _, ok := other.edges[pc]; !ok {
			return false
		}
	}
	return true
}

// Clone returns an independent copy of the graph.
func (g *PCGraph) Clone() *PCGraph {
	edges := make(map[PathCondition]struct{}, len(g.edges))
	for pc := range g.edges {
		edges[pc] = struct{}{}
	}
	return &PCGraph{edges: edges}
}

func (g *PCGraph) String() string {
	var b strings.Builder
	for _, pc := range g.Conditions() {
		fmt.Fprintf(&b, "%s,", pc)
	}
	return b.String()
}

// PathConditions records the CFG paths under which a relation holds. A fresh
// value is the degenerate single-block condition ("at block b, before any
// path edge is known"); the first Insert promotes it to a materialized path
// set, and a promoted value never reverts.
type PathConditions struct {
	atBlock cfg.BlockID
	paths   *PCGraph
}

// NewPathConditions seeds the condition at block b.
func NewPathConditions(b cfg.BlockID) PathConditions {
	return PathConditions{atBlock: b}
}

// PathsFrom returns an already-promoted condition holding the given edges.
func PathsFrom(pcs ...PathCondition) PathConditions {
	g := &PCGraph{edges: make(map[PathCondition]struct{}, len(pcs))}
	for _, pc := range pcs {
		g.Insert(pc)
	}
	return PathConditions{atBlock: cfg.InvalidBlock, paths: g}
}

// IsAtBlock reports whether the condition is still in its degenerate
// single-block form.
func (c PathConditions) IsAtBlock() bool {
	return c.paths == nil
}

// Insert adds a traversed CFG edge. Inserting into a single-block condition
// whose block is not the edge source is a programming contract violation and
// panics.
func (c *PathConditions) Insert(pc PathCondition) bool {
	if c.paths == nil {
		if c.atBlock != pc.From {
			panic(fmt.Sprintf("path condition at %s cannot insert edge %s", c.atBlock, pc))
		}
		c.paths = SingletonPCGraph(pc)
		return true
	}
	return c.paths.Insert(pc)
}

// Join merges other into c and reports whether c changed. Joining two
// single-block conditions requires they denote the same block; a mismatch is
// an upstream analysis bug and panics. Joining a single-block condition with
// a path set leaves the receiver unchanged.
func (c *PathConditions) Join(other PathConditions) bool {
	switch {
	case c.paths == nil && other.paths == nil:
		if c.atBlock != other.atBlock {
			panic(fmt.Sprintf("joining path conditions at distinct blocks %s and %s", c.atBlock, other.atBlock))
		}
		return false
	case c.paths != nil && other.paths != nil:
		return c.paths.Join(other.paths)
	default:
		return false
	}
}

// Root returns the unique source block of the condition, if any.
func (c PathConditions) Root() (cfg.BlockID, bool) {
	if c.paths == nil {
		return c.atBlock, true
	}
	return c.paths.Root()
}

// End returns the unique sink block of the condition, if any.
func (c PathConditions) End() (cfg.BlockID, bool) {
	if c.paths == nil {
		return c.atBlock, true
	}
	return c.paths.End()
}

// MutuallyExclusive reports whether no single execution of the procedure can
// satisfy both conditions: neither condition's end block may reach the
// other's root through CFG predecessor edges. Equal conditions are never
// exclusive, and conditions without a defined root or end are conservatively
// not exclusive.
func (c PathConditions) MutuallyExclusive(other PathConditions, preds cfg.PredOracle) bool {
	if c.Equal(other) {
		return false
	}
	r1, ok1 := c.Root()
	r2, ok2 := other.Root()
	e1, ok3 := c.End()
	e2, ok4 := other.End()
	if !ok1 || !ok2 || !ok3 || !ok4 {
		return false
	}
	return !reachesBackward(preds, r1, e2) && !reachesBackward(preds, r2, e1)
}

// reachesBackward reports whether from is reachable from to by walking CFG
// predecessor edges starting at to, i.e. whether some execution passes
// through from before to.
func reachesBackward(preds cfg.PredOracle, to, from cfg.BlockID) bool {
	if to == from {
		return true
	}
	seen := map[cfg.BlockID]bool{to: true}
	work := []cfg.BlockID{to}
	for len(work) > 0 {
		b := work[len(work)-1]
		work = work[:len(work)-1]
		for _, p := range preds.Preds(b) {
			if p == from {
				return true
			}
			if !seen[p] {
				seen[p] = true
				work = append(work, p)
			}
		}
	}
	return false
}

// ValidForPath reports whether the condition holds on the concrete path: a
// single-block condition requires the path to end at its block, and a path
// set requires the path's suffix from the root to match a recorded chain.
func (c PathConditions) ValidForPath(path cfg.Path) bool {
	if c.paths == nil {
		return len(path) > 0 && path[len(path)-1] == c.atBlock
	}
	return c.paths.HasSuffixOf(path)
}

// Equal reports whether two conditions are the same shape with the same
// content.
func (c PathConditions) Equal(other PathConditions) bool {
	if (c.paths == nil) != (other.paths == nil) {
		return false
	}
	if c.paths == nil {
		return c.atBlock == other.atBlock
	}
	return c.paths.Equal(other.paths)
}

// Clone returns an independent copy of the condition.
func (c PathConditions) Clone() PathConditions {
	if c.paths == nil {
		return c
	}
	return PathConditions{atBlock: c.atBlock, paths: c.paths.Clone()}
}

func (c PathConditions) String() string {
	if c.paths == nil {
		return c.atBlock.String()
	}
	return c.paths.String()
}
