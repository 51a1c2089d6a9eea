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

package borrows_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/unblock-tools/ub-go-analyzer/analysis/borrows"
)

func TestPlacePrefix(t *testing.T) {
	base := borrows.NewPlace(1)
	field := borrows.NewPlace(1, "f")
	deep := borrows.NewPlace(1, "f", "g")
	other := borrows.NewPlace(2, "f")

	assert.True(t, base.IsPrefixOf(base))
	assert.True(t, base.IsPrefixOf(field))
	assert.True(t, base.IsPrefixOf(deep))
	assert.True(t, field.IsPrefixOf(deep))
	assert.False(t, field.IsPrefixOf(base))
	assert.False(t, base.IsPrefixOf(other), "places rooted at distinct locals are unrelated")

	assert.False(t, base.IsStrictPrefixOf(base))
	assert.True(t, base.IsStrictPrefixOf(field))
	assert.False(t, deep.IsStrictPrefixOf(field))
}

func TestPlaceRefVariants(t *testing.T) {
	p := borrows.NewPlace(3, "f")
	loc := borrows.Location{Block: 1, Stmt: 4}

	cur := borrows.Current(p)
	old := borrows.Old(p, loc)
	rem := borrows.Remote(3)

	assert.True(t, cur.IsCurrent())
	assert.False(t, old.IsCurrent())
	assert.True(t, old.IsOld())

	assert.False(t, cur.Equal(old), "a snapshot is never the current value")
	assert.False(t, cur.Equal(rem))
	assert.True(t, old.Equal(borrows.Old(p, loc)))
	assert.False(t, old.Equal(borrows.Old(p, borrows.Location{Block: 1, Stmt: 5})))

	snap, ok := old.Snapshot()
	assert.True(t, ok)
	assert.Equal(t, borrows.PlaceSnapshot{Place: p, At: loc}, snap)
	_, ok = cur.Snapshot()
	assert.False(t, ok)

	assert.Equal(t, "_3.f", cur.String())
	assert.Equal(t, "_3.f@bb1[4]", old.String())
	assert.Equal(t, "remote(_3)", rem.String())
}

func TestLocationCompare(t *testing.T) {
	a := borrows.Location{Block: 0, Stmt: 2}
	b := borrows.Location{Block: 0, Stmt: 5}
	c := borrows.Location{Block: 1, Stmt: 0}

	assert.Negative(t, a.Compare(b))
	assert.Positive(t, c.Compare(b))
	assert.Zero(t, a.Compare(a))
	assert.Equal(t, "bb0[2]", a.String())
}
