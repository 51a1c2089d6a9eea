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

package funcutil

import (
	"reflect"
	"strconv"
	"testing"
)

func TestMap(t *testing.T) {
	got := Map([]int{1, 2, 3}, strconv.Itoa)
	if !reflect.DeepEqual(got, []string{"1", "2", "3"}) {
		t.Errorf("unexpected result %v", got)
	}
}

func TestContainsAll(t *testing.T) {
	even := func(x int) bool { return x%2 == 0 }
	if !Contains([]int{1, 2, 3}, even) {
		t.Error("expected Contains to find 2")
	}
	if Contains([]int{1, 3}, even) {
		t.Error("expected Contains to find nothing")
	}
	if !All([]int{2, 4}, even) {
		t.Error("expected All to hold")
	}
	if All([]int{2, 3}, even) {
		t.Error("expected All to fail on 3")
	}
	if !All(nil, even) {
		t.Error("All must hold vacuously on an empty slice")
	}
}

func TestUnion(t *testing.T) {
	a := map[string]bool{"x": true}
	b := map[string]bool{"y": true}
	got := Union(a, b)
	if !got["x"] || !got["y"] {
		t.Errorf("unexpected union %v", got)
	}
}

func TestSortedKeys(t *testing.T) {
	m := map[int]string{3: "c", 1: "a", 2: "b"}
	if got := SortedKeys(m); !reflect.DeepEqual(got, []int{1, 2, 3}) {
		t.Errorf("unexpected keys %v", got)
	}
}
