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

// Package preamble implements the Preamble Injector (C7), the last
// step before an output symbol table is returned (spec §4.7): it
// drops the definitions that existed only to drive earlier components
// (the AnyHeapRef root class, the RefEq built-in), then adds the
// "standard support library" every other component assumed was
// already there — the HeapRef sort, the dummyHeap constant, and the
// Option sort with its none/some/isEmpty/get helpers.
package preamble

import "github.com/heapverify/effectelab/internal/pkg/ir"

// heapRefSort is the identity-constructor sort backing ir.HeapRefType
// (spec §4.7: "single constructor with one identity field"). This
// pass treats HeapRef as opaque — ir.HeapRefType{} is a built-in Go
// type, not routed through a SortDef lookup the way a frontend sort
// reference is — so this declaration exists purely to satisfy the
// output-table contract (spec §6) that the HeapRef sort is present.
var heapRefSort = &ir.SortDef{ID: "HeapRef"}

// dummyHeapConst is the nullary Heap-valued constant the Function
// Splitter (C6) calls ir.DummyHeapConst to reference.
var dummyHeapConst = &ir.FunDef{
	ID:    ir.DummyHeapConstID,
	Ret:   ir.HeapType{},
	Flags: ir.NewFlagSet(ir.Synthetic, ir.DropVCs),
	Pos:   ir.NoPos,
}

func optionTypeParamRef() ir.Type { return &ir.TypeParam{Name: "T"} }

// optionHelperFuncs builds the Option sort's constructors (none, some)
// and accessors (isEmpty, get) as axiomatized declarations: like the
// HeapRef sort above, their actual semantics live in the downstream
// background theory, not in this pass, so Body is left nil (the same
// "declaration, not definition" shape ir.SortDef itself has).
func optionHelperFuncs() []*ir.FunDef {
	t := optionTypeParamRef()
	optionOfT := ir.NewOptionType(t)

	none := &ir.FunDef{
		ID:        ir.NoneID,
		TypeParam: []string{"T"},
		Ret:       optionOfT,
		Flags:     ir.NewFlagSet(ir.Synthetic, ir.DropVCs),
		Pos:       ir.NoPos,
	}
	some := &ir.FunDef{
		ID:        ir.SomeID,
		TypeParam: []string{"T"},
		Param:     []ir.Param{{Name: "value", Type: t}},
		Ret:       optionOfT,
		Flags:     ir.NewFlagSet(ir.Synthetic, ir.DropVCs),
		Pos:       ir.NoPos,
	}
	isEmpty := &ir.FunDef{
		ID:        ir.IsEmptyID,
		TypeParam: []string{"T"},
		Param:     []ir.Param{{Name: "opt", Type: optionOfT}},
		Ret:       ir.BoolType(),
		Flags:     ir.NewFlagSet(ir.Synthetic, ir.DropVCs),
		Pos:       ir.NoPos,
	}
	get := &ir.FunDef{
		ID:        ir.GetID,
		TypeParam: []string{"T"},
		Param:     []ir.Param{{Name: "opt", Type: optionOfT}},
		Ret:       t,
		Flags:     ir.NewFlagSet(ir.Synthetic, ir.DropVCs),
		Pos:       ir.NoPos,
	}
	return []*ir.FunDef{none, some, isEmpty, get}
}

// Inject implements spec §4.7: drop the AnyHeapRef/RefEq-flagged
// definitions, then add the HeapRef sort, the dummyHeap constant, and
// the Option sort plus its helper functions.
func Inject(out *ir.SymbolTable) *ir.SymbolTable {
	for id, c := range out.Classes {
		if c.Flags.Has(ir.AnyHeapRef) {
			out = out.WithoutClass(id)
		}
	}
	for id, f := range out.Functions {
		if f.Flags.Has(ir.RefEq) {
			out = out.WithoutFunction(id)
		}
	}

	out = out.WithSort(heapRefSort)
	out = out.WithFunction(dummyHeapConst)
	out = out.WithSort(ir.OptionSort)
	for _, f := range optionHelperFuncs() {
		out = out.WithFunction(f)
	}
	return out
}
