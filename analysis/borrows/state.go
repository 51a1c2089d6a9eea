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

// State is the blocking-relation oracle the unblock analysis reads from. An
// implementation must reflect a consistent snapshot of analysis state for the
// duration of one graph-building call; the analysis never mutates it.
type State interface {
	// EdgesBlocking returns the active edges that block ref.
	EdgesBlocking(ref PlaceRef) []Edge

	// ReborrowsReservedAt returns the reborrow edges reserved at the program
	// point.
	ReborrowsReservedAt(at Location) []Edge

	// ReborrowsBlockingPrefixOf returns the reborrow edges whose blocked side
	// is the current value of a strict prefix of p.
	ReborrowsBlockingPrefixOf(p Place) []Edge

	// ReborrowsBlockedBy returns the reborrow edges whose assigned side is
	// ref, i.e. the reborrows that cannot terminate while ref is in use.
	ReborrowsBlockedBy(ref PlaceRef) []Edge
}

// FactSet is a slice-backed State for drivers and tests that assemble borrow
// facts by hand or from a fact file.
type FactSet struct {
	edges []Edge
}

// NewFactSet returns a fact set holding the given edges.
func NewFactSet(edges ...Edge) *FactSet {
	s := &FactSet{}
	for _, e := range edges {
		s.Add(e)
	}
	return s
}

// Add records an edge. Duplicate edges are ignored.
func (s *FactSet) Add(e Edge) {
	for _, have := range s.edges {
		if have.Equal(e) {
			return
		}
	}
	s.edges = append(s.edges, e)
}

// Edges returns all recorded edges in insertion order.
func (s *FactSet) Edges() []Edge {
	return s.edges
}

// EdgesBlocking implements State.
func (s *FactSet) EdgesBlocking(ref PlaceRef) []Edge {
	var out []Edge
	for _, e := range s.edges {
		if e.Blocks(ref) {
			out = append(out, e)
		}
	}
	return out
}

// ReborrowsReservedAt implements State.
func (s *FactSet) ReborrowsReservedAt(at Location) []Edge {
	var out []Edge
	for _, e := range s.edges {
		if rb, ok := e.Kind().(*Reborrow); ok && rb.ReservedAt == at {
			out = append(out, e)
		}
	}
	return out
}

// ReborrowsBlockingPrefixOf implements State.
func (s *FactSet) ReborrowsBlockingPrefixOf(p Place) []Edge {
	var out []Edge
	for _, e := range s.edges {
		rb, ok := e.Kind().(*Reborrow)
		if !ok || !rb.Blocked.IsCurrent() {
			continue
		}
		if rb.Blocked.Place().IsStrictPrefixOf(p) {
			out = append(out, e)
		}
	}
	return out
}

// ReborrowsBlockedBy implements State.
func (s *FactSet) ReborrowsBlockedBy(ref PlaceRef) []Edge {
	var out []Edge
	for _, e := range s.edges {
		if rb, ok := e.Kind().(*Reborrow); ok && rb.Assigned.Equal(ref) {
			out = append(out, e)
		}
	}
	return out
}
