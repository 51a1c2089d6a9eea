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

package cfg

import (
	"golang.org/x/tools/go/ssa"
)

// FromSSAFunction builds the control-flow graph of an ssa function, using
// block indices as block identifiers. Functions without a body (external
// functions) yield a graph with only the entry block.
func FromSSAFunction(fn *ssa.Function) *Graph {
	g := NewGraph(0)
	for _, b := range fn.Blocks {
		g.AddBlock(BlockID(b.Index))
		for _, succ := range b.Succs {
			g.AddEdge(BlockID(b.Index), BlockID(succ.Index))
		}
	}
	return g
}
