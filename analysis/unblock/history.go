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
	"golang.org/x/exp/slices"
)

type historyKind int

const (
	unblockPlaceEntry historyKind = iota
	killReborrowEntry
)

// HistoryEntry is one step of a graph-building traversal: either the request
// to unblock a place or the request to kill a reborrow.
type HistoryEntry struct {
	kind     historyKind
	ref      borrows.PlaceRef
	reborrow *borrows.Reborrow
}

func unblockEntry(ref borrows.PlaceRef) HistoryEntry {
	return HistoryEntry{kind: unblockPlaceEntry, ref: ref}
}

func killEntry(rb *borrows.Reborrow) HistoryEntry {
	return HistoryEntry{kind: killReborrowEntry, reborrow: rb}
}

func (e HistoryEntry) equal(o HistoryEntry) bool {
	if e.kind != o.kind {
		return false
	}
	if e.kind == killReborrowEntry {
		return e.reborrow.EqualKind(o.reborrow)
	}
	return e.ref.Equal(o.ref)
}

func (e HistoryEntry) String() string {
	if e.kind == killReborrowEntry {
		return fmt.Sprintf("kill %s", e.reborrow)
	}
	return fmt.Sprintf("unblock place %s", e.ref)
}

// History is the ordered, duplicate-rejecting log of the steps taken by one
// recursive traversal. A revisit signals a cyclic blocking structure. The
// history is cloned, not shared, across sibling recursive branches so that
// independent subtrees do not collide.
type History struct {
	entries []HistoryEntry
}

// NewHistory returns an empty history.
func NewHistory() *History {
	return &History{}
}

// Record appends the entry if it is not already present and returns false iff
// the entry was already present.
func (h *History) Record(e HistoryEntry) bool {
	for _, have := range h.entries {
		if have.equal(e) {
			return false
		}
	}
	h.entries = append(h.entries, e)
	return true
}

// Clone returns an independent copy for a sibling branch.
func (h *History) Clone() *History {
	return &History{entries: slices.Clone(h.entries)}
}

func (h *History) String() string {
	var b strings.Builder
	for _, e := range h.entries {
		fmt.Fprintf(&b, "%s\n", e)
	}
	return b.String()
}
