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

// Package borrows defines the value model of the borrow analysis: abstract
// memory places, program points, path conditions over CFG edges, and the
// typed blocking edges between places that the unblock analysis consumes.
package borrows

import (
	"fmt"
	"strings"

	"github.com/unblock-tools/ub-go-analyzer/analysis/cfg"
	"golang.org/x/exp/slices"
)

// Local identifies a value slot of the analyzed procedure.
type Local int

func (l Local) String() string {
	return fmt.Sprintf("_%d", int(l))
}

// Place is an abstract memory location: a local together with a (possibly
// empty) sequence of field projections.
type Place struct {
	Local      Local
	Projection []string
}

// NewPlace returns the place for local with the given projections.
func NewPlace(local Local, projection ...string) Place {
	return Place{Local: local, Projection: projection}
}

// Equal reports whether p and q denote the same location.
func (p Place) Equal(q Place) bool {
	return p.Local == q.Local && slices.Equal(p.Projection, q.Projection)
}

// IsPrefixOf reports whether p is q or a projection ancestor of q.
func (p Place) IsPrefixOf(q Place) bool {
	if p.Local != q.Local || len(p.Projection) > len(q.Projection) {
		return false
	}
	return slices.Equal(p.Projection, q.Projection[:len(p.Projection)])
}

// IsStrictPrefixOf reports whether p is a proper projection ancestor of q.
func (p Place) IsStrictPrefixOf(q Place) bool {
	return len(p.Projection) < len(q.Projection) && p.IsPrefixOf(q)
}

func (p Place) String() string {
	if len(p.Projection) == 0 {
		return p.Local.String()
	}
	return p.Local.String() + "." + strings.Join(p.Projection, ".")
}

// Location is a program point: a statement index within a basic block.
// Locations are totally ordered.
type Location struct {
	Block cfg.BlockID
	Stmt  int
}

// Compare orders locations lexicographically by block, then statement index.
// The result can be compared to zero as with other three-way comparisons.
func (l Location) Compare(o Location) int {
	if l.Block != o.Block {
		if l.Block < o.Block {
			return -1
		}
		return 1
	}
	return l.Stmt - o.Stmt
}

func (l Location) String() string {
	return fmt.Sprintf("%s[%d]", l.Block, l.Stmt)
}

// PlaceSnapshot is the value a place held at a specific program point, as
// opposed to its current value.
type PlaceSnapshot struct {
	Place Place
	At    Location
}

func (s PlaceSnapshot) Equal(o PlaceSnapshot) bool {
	return s.Place.Equal(o.Place) && s.At == o.At
}

func (s PlaceSnapshot) String() string {
	return fmt.Sprintf("%s@%s", s.Place, s.At)
}

// RefKind discriminates the variants of a PlaceRef.
type RefKind int

const (
	// CurrentRef denotes the current value of a place.
	CurrentRef RefKind = iota

	// OldRef denotes a historical snapshot of a place.
	OldRef

	// RemoteRef denotes a place owned by a caller of the analyzed procedure.
	RemoteRef
)

// PlaceRef is an immutable reference to an abstract location: the current
// value of a place, a historical snapshot, or a place outside the analyzed
// procedure.
type PlaceRef struct {
	kind  RefKind
	place Place
	at    Location
}

// Current returns a reference to the current value of p.
func Current(p Place) PlaceRef {
	return PlaceRef{kind: CurrentRef, place: p}
}

// Old returns a reference to the snapshot of p taken at the given point.
func Old(p Place, at Location) PlaceRef {
	return PlaceRef{kind: OldRef, place: p, at: at}
}

// Remote returns a reference to a caller-side place.
func Remote(local Local) PlaceRef {
	return PlaceRef{kind: RemoteRef, place: NewPlace(local)}
}

// Kind returns the variant of the reference.
func (r PlaceRef) Kind() RefKind {
	return r.kind
}

// Place returns the underlying place.
func (r PlaceRef) Place() Place {
	return r.place
}

// Snapshot returns the snapshot this reference denotes. Valid only for OldRef
// references; the second return value reports validity.
func (r PlaceRef) Snapshot() (PlaceSnapshot, bool) {
	if r.kind != OldRef {
		return PlaceSnapshot{}, false
	}
	return PlaceSnapshot{Place: r.place, At: r.at}, true
}

// IsCurrent reports whether the reference denotes the current value of an
// originally-named place.
func (r PlaceRef) IsCurrent() bool {
	return r.kind == CurrentRef
}

// IsOld reports whether the reference denotes a historical snapshot.
func (r PlaceRef) IsOld() bool {
	return r.kind == OldRef
}

// Equal reports whether two references denote the same location.
func (r PlaceRef) Equal(o PlaceRef) bool {
	return r.kind == o.kind && r.place.Equal(o.place) && r.at == o.at
}

func (r PlaceRef) String() string {
	switch r.kind {
	case OldRef:
		return fmt.Sprintf("%s@%s", r.place, r.at)
	case RemoteRef:
		return fmt.Sprintf("remote(%s)", r.place)
	default:
		return r.place.String()
	}
}
