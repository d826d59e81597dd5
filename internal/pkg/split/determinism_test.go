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

package split

import (
	"context"
	"reflect"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/sync/errgroup"

	"github.com/heapverify/effectelab/internal/pkg/ir"
)

// TestExtractFunctionDeterministic exercises spec §8's property 5/9
// (determinism independent of processing order) and the ordering
// invariant of spec §5: running ExtractFunction for several unrelated
// functions concurrently, on independent Splitter instances sharing no
// mutable state, must produce byte-for-byte the same output as running
// them sequentially. Unlike C1-C3's memoized caches, a Splitter keeps
// no cross-call cache of its own, so this doubles as a check that
// splitInner/splitShim build every synthesized name freshly per call
// rather than leaking state across functions.
func TestExtractFunctionDeterministic(t *testing.T) {
	_, cType, _ := classFixture()
	intSort := &ir.SortType{Def: &ir.SortDef{ID: "Int"}}

	funcs := []*ir.FunDef{
		{
			ID:    "peekA",
			Param: []ir.Param{{Name: "m", Type: cType}},
			Ret:   intSort,
			Spec:  ir.Spec{Reads: ir.NewVar(ir.NoPos, ir.HeapRefSetType{}, "rA")},
			Body:  mField(ir.NoPos, ir.NewVar(ir.NoPos, cType, "m"), intSort),
		},
		{
			ID:    "peekB",
			Param: []ir.Param{{Name: "m", Type: cType}},
			Ret:   intSort,
			Spec:  ir.Spec{Reads: ir.NewVar(ir.NoPos, ir.HeapRefSetType{}, "rB")},
			Body:  mField(ir.NoPos, ir.NewVar(ir.NoPos, cType, "m"), intSort),
		},
		{
			ID:    "bumpC",
			Param: []ir.Param{{Name: "m", Type: cType}},
			Ret:   ir.UnitType(),
			Spec:  ir.Spec{Modifies: ir.NewVar(ir.NoPos, ir.HeapRefSetType{}, "mC")},
			Body:  ir.Unit(ir.NoPos),
		},
		{
			ID:    "pureD",
			Param: []ir.Param{{Name: "x", Type: intSort}},
			Ret:   intSort,
			Body:  ir.NewVar(ir.NoPos, intSort, "x"),
		},
	}

	sequential := make([][]*ir.FunDef, len(funcs))
	for i, f := range funcs {
		_, _, s := classFixture()
		sequential[i] = s.ExtractFunction(f)
	}

	concurrent := make([][]*ir.FunDef, len(funcs))
	g, _ := errgroup.WithContext(context.Background())
	for i, f := range funcs {
		i, f := i, f
		g.Go(func() error {
			_, _, s := classFixture()
			concurrent[i] = s.ExtractFunction(f)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatalf("errgroup: %v", err)
	}

	// ir's node types embed the unexported base/patternBase structs;
	// this test only cares about structural equality of the synthesized
	// trees, so every field is made visible to cmp rather than trying
	// to name each unexported embedded type from outside the package.
	opts := cmp.Options{cmp.Exporter(func(reflect.Type) bool { return true })}
	for i, f := range funcs {
		if diff := cmp.Diff(sequential[i], concurrent[i], opts); diff != "" {
			t.Errorf("ExtractFunction(%s) sequential vs concurrent (-want +got):\n%s", f.ID, diff)
		}
	}
}
