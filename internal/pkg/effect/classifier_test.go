// Copyright 2020 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package effect

import (
	"testing"

	"github.com/heapverify/effectelab/internal/pkg/ir"
)

func TestLevel(t *testing.T) {
	dummyReads := &ir.Var{}
	dummyModifies := &ir.Var{}

	testCases := []struct {
		name string
		spec ir.Spec
		want Level
	}{
		{"neither clause", ir.Spec{}, Pure},
		{"reads only", ir.Spec{Reads: dummyReads}, Reads},
		{"modifies implies reads+writes", ir.Spec{Reads: dummyReads, Modifies: dummyModifies}, ReadsWrites},
		{"modifies without explicit reads clause still ReadsWrites", ir.Spec{Modifies: dummyModifies}, ReadsWrites},
	}

	c := New()
	for i, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			f := &ir.FunDef{ID: ir.ID(tt.name + string(rune('0'+i))), Spec: tt.spec}
			if got := c.Level(f); got != tt.want {
				t.Errorf("Level(%s) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestLevelCachedByID(t *testing.T) {
	f := &ir.FunDef{ID: "f", Spec: ir.Spec{}}
	c := New()
	first := c.Level(f)
	// Mutate the definition's spec after the first classification;
	// the cached result must not change, matching "Derived once per
	// function ... and cached" (spec §4.3).
	f.Spec.Modifies = &ir.Var{}
	second := c.Level(f)
	if first != second {
		t.Errorf("Level(f) changed after caching: first=%v second=%v", first, second)
	}
	if second != Pure {
		t.Errorf("Level(f) = %v, want cached Pure", second)
	}
}
