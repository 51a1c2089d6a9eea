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

// Package graphutil provides a small directed-graph representation over
// labeled integer nodes, satisfying the interfaces of the graph libraries the
// analyses use for diagnostics.
package graphutil

import (
	"sort"

	"gonum.org/v1/gonum/graph"
)

// IndexGraph is a directed graph over nodes 0..n-1, each carrying a label.
// It implements the methods to satisfy yourbasic's graph.Iterator and Gonum's
// graph.Graph.
type IndexGraph struct {
	// The order of the graph
	order int

	// Labels maps node IDs to human-readable labels
	Labels map[int64]string

	// Keys are all the node IDs, sorted
	Keys []int64

	// Edges is an adjacency matrix: Edges[x][y] means there is a directed
	// edge between node x and node y
	Edges map[int64]map[int64]bool
}

// NewIndexGraph returns an empty graph whose nodes are the indices of labels.
func NewIndexGraph(labels []string) *IndexGraph {
	n := len(labels)
	lm := make(map[int64]string, n)
	edges := make(map[int64]map[int64]bool, n)
	keys := make([]int64, n)
	for i, label := range labels {
		keys[i] = int64(i)
		lm[int64(i)] = label
		edges[int64(i)] = map[int64]bool{}
	}
	return &IndexGraph{
		order:  n,
		Labels: lm,
		Keys:   keys,
		Edges:  edges,
	}
}

// AddEdge adds the directed edge x -> y. Unknown endpoints are ignored.
func (g *IndexGraph) AddEdge(x, y int64) {
	if _, ok := g.Edges[x]; !ok {
		return
	}
	if _, ok := g.Edges[y]; !ok {
		return
	}
	g.Edges[x][y] = true
}

// Subgraph returns a new graph that is the original graph with only the nodes
// in include. Only the edges with both endpoints in include are kept. The
// subgraph's order and Labels are the same as in the original, so node
// indices stay consistent across subgraphs.
func Subgraph(original *IndexGraph, include []int64) *IndexGraph {
	keys := make([]int64, len(include))
	edges := make(map[int64]map[int64]bool, len(include))
	in := make(map[int64]bool, len(include))

	for j, i := range include {
		keys[j] = i
		in[i] = true
	}
	for _, i := range include {
		edges[i] = map[int64]bool{}
		for e := range original.Edges[i] {
			if in[e] {
				edges[i][e] = true
			}
		}
	}

	return &IndexGraph{
		order:  original.Order(),
		Labels: original.Labels,
		Keys:   keys,
		Edges:  edges,
	}
}

// Order implements the order of the graph.Iterator interface
func (g *IndexGraph) Order() int {
	return g.order
}

// Visit implements the graph.Iterator interface
func (g *IndexGraph) Visit(v int, do func(w int, c int64) (skip bool)) (aborted bool) {
	if _, ok := g.Edges[int64(v)]; !ok {
		return false
	}
	for w := range g.Edges[int64(v)] {
		if do(int(w), 1) {
			return true
		}
	}
	return false
}

// *************** Gonum graph interface implementation **********************

// Node implements the Graph interface
func (g *IndexGraph) Node(id int64) graph.Node {
	if _, ok := g.Labels[id]; !ok {
		return nil
	}
	return LNode{id: id, label: g.Labels[id]}
}

// Nodes returns the set of nodes in the graph
func (g *IndexGraph) Nodes() graph.Nodes {
	ids := make([]int64, len(g.Keys))
	copy(ids, g.Keys)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return &NodeSet{graph: g, ids: ids, cur: 0}
}

// From returns the set of nodes reachable from the id
func (g *IndexGraph) From(id int64) graph.Nodes {
	var ids []int64
	for out := range g.Edges[id] {
		ids = append(ids, out)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return &NodeSet{graph: g, ids: ids, cur: 0}
}

// HasEdgeBetween returns whether an edge exists between the two nodes
func (g *IndexGraph) HasEdgeBetween(xid, yid int64) bool {
	return g.Edges[xid][yid] || g.Edges[yid][xid]
}

// Edge returns the edge between the two identifiers (nil if none exists)
func (g *IndexGraph) Edge(uid, vid int64) graph.Edge {
	if g.Edges[uid][vid] {
		return LEdge{from: g.Node(uid).(LNode), to: g.Node(vid).(LNode)}
	}
	return nil
}

// LNode is a labeled node implementing the graph.Node interface
type LNode struct {
	id    int64
	label string
}

// ID returns the id of the node
func (n LNode) ID() int64 {
	return n.id
}

func (n LNode) String() string {
	return n.label
}

// NodeSet implements the graph.Nodes interface, an iterator over a set of nodes
type NodeSet struct {
	graph *IndexGraph
	ids   []int64
	cur   int
}

// Next moves the current node to the next, and returns true if such a node
// exists. Otherwise, returns false and the current node has not changed.
func (ns *NodeSet) Next() bool {
	if ns.cur < len(ns.ids)-1 {
		ns.cur++
		return true
	}
	return false
}

// Len returns the length of the node set
func (ns *NodeSet) Len() int {
	return len(ns.ids)
}

// Reset resets the iterator
func (ns *NodeSet) Reset() {
	ns.cur = 0
}

// Node returns the current node in the set
func (ns *NodeSet) Node() graph.Node {
	return ns.graph.Node(ns.ids[ns.cur])
}

// LEdge implements the graph.Edge interface
type LEdge struct {
	from LNode
	to   LNode
}

// From returns the origin of the edge
func (e LEdge) From() graph.Node {
	return e.from
}

// To returns the destination of the edge
func (e LEdge) To() graph.Node {
	return e.to
}

// ReversedEdge returns a new value representing the reversed edge
func (e LEdge) ReversedEdge() graph.Edge {
	return LEdge{from: e.to, to: e.from}
}
