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

package graphutil

import (
	"testing"
)

func TestFindAllElementaryCyclesNone(t *testing.T) {
	g := NewIndexGraph([]string{"a", "b", "c"})
	g.AddEdge(0, 1)
	g.AddEdge(1, 2)

	cycles := FindAllElementaryCycles(g)
	if len(cycles) != 0 {
		t.Fatalf("expected no cycles, got %v", cycles)
	}
}

func TestFindAllElementaryCyclesSimple(t *testing.T) {
	g := NewIndexGraph([]string{"a", "b", "c", "d"})
	g.AddEdge(0, 1)
	g.AddEdge(1, 2)
	g.AddEdge(2, 0)
	g.AddEdge(2, 3) // a tail that is not part of any cycle

	cycles := FindAllElementaryCycles(g)
	if len(cycles) != 1 {
		t.Fatalf("expected exactly one cycle, got %v", cycles)
	}
	cycle := cycles[0]
	if len(cycle) != 4 || cycle[0] != cycle[len(cycle)-1] {
		t.Fatalf("expected a closed 3-cycle, got %v", cycle)
	}
}

func TestFindAllElementaryCyclesMultiple(t *testing.T) {
	// Two 2-cycles through a shared node.
	g := NewIndexGraph([]string{"a", "b", "c"})
	g.AddEdge(0, 1)
	g.AddEdge(1, 0)
	g.AddEdge(0, 2)
	g.AddEdge(2, 0)

	cycles := FindAllElementaryCycles(g)
	if len(cycles) != 2 {
		t.Fatalf("expected two cycles, got %v", cycles)
	}
	for _, cycle := range cycles {
		if len(cycle) != 3 || cycle[0] != cycle[len(cycle)-1] {
			t.Fatalf("expected closed 2-cycles, got %v", cycle)
		}
	}
}

func TestSubgraph(t *testing.T) {
	g := NewIndexGraph([]string{"a", "b", "c"})
	g.AddEdge(0, 1)
	g.AddEdge(1, 2)

	sub := Subgraph(g, []int64{0, 1})
	if len(sub.Keys) != 2 {
		t.Fatalf("expected two nodes, got %v", sub.Keys)
	}
	if !sub.Edges[0][1] {
		t.Error("expected the edge 0 -> 1 to survive")
	}
	if len(sub.Edges[1]) != 0 {
		t.Errorf("edges leaving the subgraph must be dropped, got %v", sub.Edges[1])
	}
	if sub.Order() != g.Order() {
		t.Error("subgraph order must match the original so indices stay consistent")
	}
}
