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

package pattern

import "github.com/heapverify/effectelab/internal/pkg/ir"

const (
	unapplyHeapParam      = "heap"
	unapplyReadsDomParam  = "readsDom"
	unapplyScrutineeParam = "x"
)

// SynthesizeUnapply builds the unapply_C function for heap-class c,
// implementing the pseudocode of spec §4.5:
//
//	unapply_C[T…](heap, readsDom, x) : Option<C'>
//	  requires  readsDom is none OR x ∈ readsDom.get
//	  returns   some(heap(x) as C')  if heap(x) is C'
//	            none                   otherwise
//
// Positions throughout the synthesized body are ir.NoPos: none of
// this corresponds to any source location (spec §4.6's closing
// sentence makes the same call for the Function Splitter's synthesized
// nodes, and C5's extractor is synthesized for the same reason).
func (r *Rewriter) SynthesizeUnapply(c *ir.ClassDef) *ir.FunDef {
	classPrime := &ir.ClassType{Def: r.types.ClassDef(c), TypeArg: typeParamRefs(c.TypeParam)}

	heapParam := ir.NewVar(ir.NoPos, ir.HeapType{}, unapplyHeapParam)
	readsDomParam := ir.NewVar(ir.NoPos, ir.NewOptionType(ir.HeapRefSetType{}), unapplyReadsDomParam)
	scrutineeParam := ir.NewVar(ir.NoPos, ir.HeapRefType{}, unapplyScrutineeParam)

	readsDomIsEmpty := ir.NewCall(ir.NoPos, ir.BoolType(), ir.IsEmptyID, []ir.Type{ir.HeapRefSetType{}}, []ir.Expr{readsDomParam})
	readsDomSet := ir.NewCall(ir.NoPos, ir.HeapRefSetType{}, ir.GetID, []ir.Type{ir.HeapRefSetType{}}, []ir.Expr{readsDomParam})
	requires := ir.Or(ir.NoPos, readsDomIsEmpty, ir.NewSetContains(ir.NoPos, ir.BoolType(), scrutineeParam, readsDomSet))

	value := ir.NewHeapRead(ir.NoPos, ir.DynClassType{}, heapParam, scrutineeParam)
	body := ir.NewIf(ir.NoPos,
		ir.NewTypeTest(ir.NoPos, value, classPrime),
		ir.Some(ir.NoPos, classPrime, ir.NewAssumeType(ir.NoPos, value, classPrime)),
		ir.None(ir.NoPos, classPrime),
	)

	return &ir.FunDef{
		ID:        UnapplyID(c.ID),
		TypeParam: c.TypeParam,
		Param: []ir.Param{
			{Name: unapplyHeapParam, Type: ir.HeapType{}},
			{Name: unapplyReadsDomParam, Type: ir.NewOptionType(ir.HeapRefSetType{})},
			{Name: unapplyScrutineeParam, Type: ir.HeapRefType{}},
		},
		Ret:     ir.NewOptionType(classPrime),
		Spec:    ir.Spec{Requires: []ir.Expr{requires}},
		Body:    body,
		Flags:   ir.NewFlagSet(ir.Synthetic, ir.DropVCs),
		Pos:     ir.NoPos,
		Unapply: &ir.IsUnapplyFlag{IsEmpty: ir.IsEmptyID, Get: ir.GetID},
	}
}

func typeParamRefs(names []string) []ir.Type {
	if names == nil {
		return nil
	}
	out := make([]ir.Type, len(names))
	for i, n := range names {
		out[i] = &ir.TypeParam{Name: n}
	}
	return out
}
