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

// Package cfg implements the control-flow-graph model the borrow analyses
// operate on: opaque block identifiers, a per-procedure graph with
// predecessor and successor adjacency, and concrete execution paths.
package cfg

import (
	"fmt"
	"strings"

	"golang.org/x/exp/slices"
)

// BlockID identifies a basic block within one procedure. Identifiers are
// totally ordered so that sets and graphs keyed by blocks iterate
// deterministically.
type BlockID int

// InvalidBlock is the zero-information block identifier.
const InvalidBlock BlockID = -1

func (b BlockID) String() string {
	return fmt.Sprintf("bb%d", int(b))
}

// Path is one concrete execution trace through a procedure, as the sequence
// of blocks traversed.
type Path []BlockID

func (p Path) String() string {
	parts := make([]string, len(p))
	for i, b := range p {
		parts[i] = b.String()
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// PredOracle answers direct-predecessor queries for blocks of one procedure.
// *Graph satisfies it; callers embedding the analysis in a host compiler can
// answer from their own representation instead.
type PredOracle interface {
	Preds(b BlockID) []BlockID
}

// Graph is the control-flow graph of a single procedure.
type Graph struct {
	entry  BlockID
	blocks []BlockID
	succs  map[BlockID][]BlockID
	preds  map[BlockID][]BlockID
}

// NewGraph returns a graph containing only the entry block.
func NewGraph(entry BlockID) *Graph {
	g := &Graph{
		entry: entry,
		succs: map[BlockID][]BlockID{},
		preds: map[BlockID][]BlockID{},
	}
	g.AddBlock(entry)
	return g
}

// Entry returns the procedure entry block.
func (g *Graph) Entry() BlockID {
	return g.entry
}

// AddBlock adds a block with no edges. Adding a block twice is a no-op.
func (g *Graph) AddBlock(b BlockID) {
	if !g.HasBlock(b) {
		g.blocks = append(g.blocks, b)
	}
}

// AddEdge adds the CFG edge from -> to, adding either endpoint if it is not
// yet in the graph. Duplicate edges are ignored.
func (g *Graph) AddEdge(from, to BlockID) {
	g.AddBlock(from)
	g.AddBlock(to)
	if slices.Contains(g.succs[from], to) {
		return
	}
	g.succs[from] = append(g.succs[from], to)
	g.preds[to] = append(g.preds[to], from)
}

// HasBlock reports whether b is a block of the graph.
func (g *Graph) HasBlock(b BlockID) bool {
	return slices.Contains(g.blocks, b)
}

// Blocks returns all blocks in ascending order.
func (g *Graph) Blocks() []BlockID {
	blocks := slices.Clone(g.blocks)
	slices.Sort(blocks)
	return blocks
}

// Succs returns the direct successors of b.
func (g *Graph) Succs(b BlockID) []BlockID {
	return g.succs[b]
}

// Preds returns the direct predecessors of b.
func (g *Graph) Preds(b BlockID) []BlockID {
	return g.preds[b]
}
