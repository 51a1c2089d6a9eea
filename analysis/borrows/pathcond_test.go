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
	"github.com/unblock-tools/ub-go-analyzer/analysis/cfg"
)

func pc(from, to int) borrows.PathCondition {
	return borrows.NewPathCondition(cfg.BlockID(from), cfg.BlockID(to))
}

// branchCFG is the CFG used by the mutual-exclusion tests:
//
//	b0 -> b1 -> b2
//	b0 -> b3
func branchCFG() *cfg.Graph {
	g := cfg.NewGraph(0)
	g.AddEdge(0, 1)
	g.AddEdge(1, 2)
	g.AddEdge(0, 3)
	return g
}

func TestPCGraphJoinIsMonotone(t *testing.T) {
	a := borrows.SingletonPCGraph(pc(0, 1))
	b := borrows.SingletonPCGraph(pc(1, 2))
	b.Insert(pc(0, 3))

	assert.True(t, a.Join(b), "join with new conditions must report a change")
	for _, c := range []borrows.PathCondition{pc(0, 1), pc(1, 2), pc(0, 3)} {
		assert.True(t, a.Contains(c), "join must not remove %s", c)
	}
	assert.False(t, a.Join(b), "repeated join with the same graph must be a no-op")
	assert.Equal(t, 3, a.Len())
}

func TestPCGraphRootAndEnd(t *testing.T) {
	g := borrows.SingletonPCGraph(pc(0, 1))
	g.Insert(pc(1, 2))

	root, ok := g.Root()
	assert.True(t, ok)
	assert.Equal(t, cfg.BlockID(0), root)

	end, ok := g.End()
	assert.True(t, ok)
	assert.Equal(t, cfg.BlockID(2), end)

	// A cyclic set has no source and no sink.
	cyclic := borrows.SingletonPCGraph(pc(0, 1))
	cyclic.Insert(pc(1, 0))
	_, ok = cyclic.Root()
	assert.False(t, ok)
	_, ok = cyclic.End()
	assert.False(t, ok)
}

func TestPathConditionsPromotion(t *testing.T) {
	c := borrows.NewPathConditions(0)
	assert.True(t, c.IsAtBlock())

	root, ok := c.Root()
	assert.True(t, ok)
	assert.Equal(t, cfg.BlockID(0), root)

	assert.True(t, c.Insert(pc(0, 1)), "first insert must promote and report a change")
	assert.False(t, c.IsAtBlock(), "promotion is one-way")
	assert.True(t, c.Insert(pc(1, 2)))
	assert.False(t, c.Insert(pc(1, 2)), "re-inserting an edge must not report a change")
}

func TestPathConditionsInsertContract(t *testing.T) {
	c := borrows.NewPathConditions(0)
	assert.Panics(t, func() {
		c.Insert(pc(1, 2))
	}, "inserting an edge not rooted at the seed block is a contract violation")
}

func TestPathConditionsJoin(t *testing.T) {
	a := borrows.NewPathConditions(0)
	b := borrows.NewPathConditions(0)
	assert.False(t, a.Join(b), "joining equal single-block conditions changes nothing")

	mismatch := borrows.NewPathConditions(1)
	assert.Panics(t, func() { a.Join(mismatch) })

	p1 := borrows.PathsFrom(pc(0, 1))
	p2 := borrows.PathsFrom(pc(1, 2))
	assert.True(t, p1.Join(p2))
	assert.False(t, p1.Join(p2), "second join with the same condition is idempotent")

	// Mixed shapes do not change the receiver.
	atBlock := borrows.NewPathConditions(0)
	assert.False(t, atBlock.Join(p1))
	assert.True(t, atBlock.IsAtBlock())
	assert.False(t, p1.Join(atBlock))
}

func TestMutuallyExclusive(t *testing.T) {
	g := branchCFG()

	onThen := borrows.PathsFrom(pc(0, 1))
	onElse := borrows.PathsFrom(pc(0, 3))
	after := borrows.PathsFrom(pc(1, 2))

	assert.True(t, onThen.MutuallyExclusive(onElse, g), "the two branch arms cannot both be taken")
	assert.True(t, onElse.MutuallyExclusive(onThen, g))

	assert.False(t, onThen.MutuallyExclusive(after, g), "b0->b1 and b1->b2 lie on one path")
	assert.False(t, after.MutuallyExclusive(onThen, g))

	assert.False(t, onThen.MutuallyExclusive(onThen, g), "a condition is never exclusive with itself")

	// Degenerate single-block conditions follow the same reachability rule.
	atThen := borrows.NewPathConditions(1)
	atElse := borrows.NewPathConditions(3)
	atEntry := borrows.NewPathConditions(0)
	atEnd := borrows.NewPathConditions(2)
	assert.True(t, atThen.MutuallyExclusive(atElse, g))
	assert.False(t, atEntry.MutuallyExclusive(atEnd, g))
}

func TestValidForPath(t *testing.T) {
	path := cfg.Path{0, 1, 2}

	atEnd := borrows.NewPathConditions(2)
	assert.True(t, atEnd.ValidForPath(path))
	atEntry := borrows.NewPathConditions(0)
	assert.False(t, atEntry.ValidForPath(path), "a single-block condition holds only at the path end")
	assert.False(t, atEnd.ValidForPath(nil))

	onThen := borrows.PathsFrom(pc(0, 1))
	after := borrows.PathsFrom(pc(1, 2))
	onElse := borrows.PathsFrom(pc(0, 3))
	assert.True(t, onThen.ValidForPath(path))
	assert.True(t, after.ValidForPath(path))
	assert.False(t, onElse.ValidForPath(path))

	chain := borrows.PathsFrom(pc(0, 1), pc(1, 2))
	assert.True(t, chain.ValidForPath(path))
	assert.False(t, chain.ValidForPath(cfg.Path{0, 3}))
}
