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
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/unblock-tools/ub-go-analyzer/analysis/borrows"
	"github.com/unblock-tools/ub-go-analyzer/internal/formatutil"
)

// renderEdge is one source -> target pair of a blocking edge, with a label
// naming the relation.
type renderEdge struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Label  string `json:"label"`
}

// renderPairs flattens an edge into its blocking pairs.
func renderPairs(e borrows.Edge) []renderEdge {
	switch kind := e.Kind().(type) {
	case *borrows.Reborrow:
		label := "reborrow"
		if kind.Mutable {
			label = "reborrow mut"
		}
		return []renderEdge{{Source: kind.Assigned.String(), Target: kind.Blocked.String(), Label: label}}
	case *borrows.Expansion:
		var out []renderEdge
		for _, f := range kind.Fields {
			out = append(out, renderEdge{Source: f.String(), Target: kind.Base.String(), Label: "expansion"})
		}
		return out
	case *borrows.Abstraction:
		var out []renderEdge
		for _, blocker := range kind.Blockers {
			for _, blocked := range kind.Blocked {
				out = append(out, renderEdge{
					Source: blocker.String(),
					Target: blocked.String(),
					Label:  fmt.Sprintf("abstraction at %s", kind.At),
				})
			}
		}
		return out
	case *borrows.RegionMember:
		return []renderEdge{{
			Source: kind.Place.String(),
			Target: fmt.Sprintf("'r%d", kind.Region),
			Label:  "region member",
		}}
	}
	return nil
}

// WriteGraphviz writes a graphviz representation of the unblock graph to w.
// The export is read-only and carries no contract beyond faithfully listing
// the current edges.
func WriteGraphviz(w io.Writer, g *Graph) error {
	if _, err := io.WriteString(w, "digraph unblock {\n"); err != nil {
		return fmt.Errorf("error while writing graph: %w", err)
	}
	for _, e := range g.Edges() {
		for _, pair := range renderPairs(e) {
			s := fmt.Sprintf("  \"%s\" -> \"%s\" [label=\"%s\"];\n",
				formatutil.Sanitize(pair.Source), formatutil.Sanitize(pair.Target), formatutil.Sanitize(pair.Label))
			if _, err := io.WriteString(w, s); err != nil {
				return fmt.Errorf("error while writing graph: %w", err)
			}
		}
	}
	if _, err := io.WriteString(w, "}\n"); err != nil {
		return fmt.Errorf("error while writing graph: %w", err)
	}
	return nil
}

// GraphvizToFile writes the graphviz representation of the graph to filename.
func GraphvizToFile(g *Graph, filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("could not create file: %w", err)
	}
	defer f.Close()
	w := bufio.NewWriter(f)
	defer w.Flush()
	return WriteGraphviz(w, g)
}

// jsonGraph is the serialized form of an unblock graph.
type jsonGraph struct {
	Empty bool         `json:"empty"`
	Nodes []string     `json:"nodes"`
	Edges []renderEdge `json:"edges"`
}

// ToJSON serializes the graph for external visualization: an emptiness flag,
// the nodes in order of first appearance, and the current edges as labeled
// source/target pairs.
func ToJSON(g *Graph) ([]byte, error) {
	out := jsonGraph{Empty: g.IsEmpty(), Nodes: []string{}, Edges: []renderEdge{}}
	seen := map[string]bool{}
	addNode := func(name string) {
		if !seen[name] {
			seen[name] = true
			out.Nodes = append(out.Nodes, name)
		}
	}
	for _, e := range g.Edges() {
		for _, pair := range renderPairs(e) {
			addNode(pair.Source)
			addNode(pair.Target)
			out.Edges = append(out.Edges, pair)
		}
	}
	return json.Marshal(out)
}
