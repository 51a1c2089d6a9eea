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

package cfg_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/unblock-tools/ub-go-analyzer/analysis/cfg"
)

func TestGraphEdges(t *testing.T) {
	g := cfg.NewGraph(0)
	g.AddEdge(0, 1)
	g.AddEdge(1, 2)
	g.AddEdge(0, 3)
	g.AddEdge(0, 1) // duplicate

	assert.Equal(t, cfg.BlockID(0), g.Entry())
	assert.Equal(t, []cfg.BlockID{0, 1, 2, 3}, g.Blocks())
	assert.Equal(t, []cfg.BlockID{1, 3}, g.Succs(0))
	assert.Equal(t, []cfg.BlockID{0}, g.Preds(1))
	assert.Equal(t, []cfg.BlockID{1}, g.Preds(2))
	assert.Empty(t, g.Preds(0))
	assert.True(t, g.HasBlock(3))
	assert.False(t, g.HasBlock(4))
}

func TestGraphAddBlock(t *testing.T) {
	g := cfg.NewGraph(0)
	g.AddBlock(5)
	g.AddBlock(5)

	assert.Equal(t, []cfg.BlockID{0, 5}, g.Blocks())
	assert.Empty(t, g.Succs(5))
}

func TestPathString(t *testing.T) {
	p := cfg.Path{0, 1, 2}
	assert.Equal(t, "[bb0 bb1 bb2]", p.String())
	assert.Equal(t, "bb7", cfg.BlockID(7).String())
}
