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
	"os"
	"path"
	"runtime"
	"testing"

	"golang.org/x/tools/go/loader"
	"golang.org/x/tools/go/ssa"
	"golang.org/x/tools/go/ssa/ssautil"
)

func loadProgram(file string) (*ssa.Program, error) {
	cfg := loader.Config{}
	cfg.CreateFromFilenames("main", file)
	prog, err := cfg.Load()
	if err != nil {
		return nil, err
	}
	program := ssautil.CreateProgram(prog, 0)
	program.Build()
	return program, err
}

// Test that the adapted graph mirrors the block structure of the ssa function.
func TestFromSSAFunction(t *testing.T) {
	_, filename, _, _ := runtime.Caller(0)
	dir := path.Join(path.Dir(filename), "testdata/src/branch/")
	if err := os.Chdir(dir); err != nil {
		panic(err)
	}
	program, err := loadProgram("branch.go")
	if err != nil {
		t.Fatalf("could not load program: %v", err)
	}
	for f := range ssautil.AllFunctions(program) {
		if f.Name() != "classify" {
			continue
		}
		g := FromSSAFunction(f)
		if len(g.Blocks()) != len(f.Blocks) {
			t.Fatalf("expected %d blocks, got %d", len(f.Blocks), len(g.Blocks()))
		}
		if g.Entry() != 0 {
			t.Fatalf("expected entry bb0, got %s", g.Entry())
		}
		for _, b := range f.Blocks {
			succs := g.Succs(BlockID(b.Index))
			if len(succs) != len(b.Succs) {
				t.Fatalf("block %d: expected %d successors, got %d", b.Index, len(b.Succs), len(succs))
			}
			for i, succ := range b.Succs {
				if succs[i] != BlockID(succ.Index) {
					t.Fatalf("block %d: successor %d is %s, expected bb%d", b.Index, i, succs[i], succ.Index)
				}
			}
			for _, pred := range b.Preds {
				found := false
				for _, p := range g.Preds(BlockID(b.Index)) {
					if p == BlockID(pred.Index) {
						found = true
					}
				}
				if !found {
					t.Fatalf("block %d: missing predecessor bb%d", b.Index, pred.Index)
				}
			}
		}
		return
	}
	t.Fatal("function classify not found in test program")
}
