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
	"github.com/unblock-tools/ub-go-analyzer/internal/graphutil"
)

// stuckError composes the fatal stuck-resolution error: the full listing of
// remaining edges plus the elementary blocking cycles among them, which is
// usually the shortest route to the upstream fact bug.
func stuckError(edges []borrows.Edge) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%d edges remain:\n", len(edges))
	for _, e := range edges {
		fmt.Fprintf(&b, "  %s\n", e)
	}
	cycles := blockingCycles(edges)
	if len(cycles) > 0 {
		fmt.Fprintf(&b, "blocking cycles:\n")
		for _, cycle := range cycles {
			fmt.Fprintf(&b, "  %s\n", strings.Join(cycle, " -> "))
		}
	}
	return fmt.Errorf("%w\n%s", ErrStuckResolution, b.String())
}

// blockingCycles returns the elementary cycles of the place-blocks-place
// relation induced by the edges, as label sequences.
func blockingCycles(edges []borrows.Edge) [][]string {
	var refs []borrows.PlaceRef
	indexOf := func(ref borrows.PlaceRef) int {
		for i, r := range refs {
			if r.Equal(ref) {
				return i
			}
		}
		refs = append(refs, ref)
		return len(refs) - 1
	}

	type pair struct{ from, to int }
	var pairs []pair
	for _, e := range edges {
		switch kind := e.Kind().(type) {
		case *borrows.Reborrow:
			pairs = append(pairs, pair{indexOf(kind.Assigned), indexOf(kind.Blocked)})
		case *borrows.Expansion:
			base := indexOf(kind.Base)
			for _, f := range kind.Fields {
				pairs = append(pairs, pair{indexOf(f), base})
			}
		case *borrows.Abstraction:
			for _, blocker := range kind.Blockers {
				from := indexOf(blocker)
				for _, blocked := range kind.Blocked {
					pairs = append(pairs, pair{from, indexOf(blocked)})
				}
			}
		}
	}

	labels := make([]string, len(refs))
	for i, r := range refs {
		labels[i] = r.String()
	}
	g := graphutil.NewIndexGraph(labels)
	for _, p := range pairs {
		g.AddEdge(int64(p.from), int64(p.to))
	}

	var out [][]string
	for _, cycle := range graphutil.FindAllElementaryCycles(g) {
		names := make([]string, len(cycle))
		for i, id := range cycle {
			names[i] = labels[id]
		}
		out = append(out, names)
	}
	return out
}
