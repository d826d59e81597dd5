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

package preamble

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/heapverify/effectelab/internal/pkg/ir"
)

func TestInjectDropsMarkedDefinitionsAndAddsSupport(t *testing.T) {
	anyHeapRef := &ir.ClassDef{ID: "AnyHeapRef", Flags: ir.NewFlagSet(ir.AnyHeapRef)}
	refEqFn := &ir.FunDef{ID: "refEqImpl", Flags: ir.NewFlagSet(ir.RefEq)}
	kept := &ir.ClassDef{ID: "Widget"}

	in := ir.NewSymbolTable().WithClass(anyHeapRef).WithClass(kept).WithFunction(refEqFn)

	out := Inject(in)

	if _, ok := out.Classes["AnyHeapRef"]; ok {
		t.Error("AnyHeapRef class survived Inject")
	}
	if _, ok := out.Functions["refEqImpl"]; ok {
		t.Error("refEq function survived Inject")
	}
	if _, ok := out.Classes["Widget"]; !ok {
		t.Error("unrelated class Widget was dropped")
	}
	if _, ok := out.Sorts["HeapRef"]; !ok {
		t.Error("HeapRef sort not added")
	}
	if _, ok := out.Sorts["Option"]; !ok {
		t.Error("Option sort not added")
	}
	if _, ok := out.Functions[ir.DummyHeapConstID]; !ok {
		t.Error("dummyHeap constant not added")
	}
	for _, id := range []ir.ID{ir.NoneID, ir.SomeID, ir.IsEmptyID, ir.GetID} {
		if _, ok := out.Functions[id]; !ok {
			t.Errorf("Option helper %s not added", id)
		}
	}

	// ir.ID slices are plain exported values, so their sorted contents
	// diff cleanly with cmp.Diff: Widget is the only class Inject must
	// carry through unchanged, once AnyHeapRef is filtered out.
	wantClassIDs := []ir.ID{"Widget"}
	if diff := cmp.Diff(wantClassIDs, out.ClassIDs()); diff != "" {
		t.Errorf("ClassIDs mismatch (-want +got):\n%s", diff)
	}

	// The input table must not have been mutated in place (spec §3).
	if _, ok := in.Classes["AnyHeapRef"]; !ok {
		t.Error("Inject mutated its input table's Classes")
	}
}
