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
	"github.com/heapverify/effectelab/internal/pkg/ir"
	"github.com/heapverify/effectelab/internal/pkg/rewrite"
)

// splitShim builds the externally-callable Shim for an effectful
// source f (spec §4.6): it re-derives a bounded sub-heap from the
// caller's frame, calls Inner, and merges the result back.
func (s *Splitter) splitShim(f *ir.FunDef, writes bool, readsClause ir.Expr) *ir.FunDef {
	pos := ir.NoPos
	heapParam := ir.NewVar(pos, ir.HeapType{}, "heap")
	readsDomParam := ir.NewVar(pos, ir.HeapRefSetType{}, "readsDom")

	specEnv := rewrite.Env{HeapVd: heapParam, ReadsVd: rewrite.AllowAll(), ModifiesVd: rewrite.Forbidden()}
	readsTranslated := s.exprs.Expr(specEnv, readsClause)
	readsVar := ir.NewVar(pos, ir.HeapRefSetType{}, "reads")

	params := []ir.Param{
		{Name: "heap", Type: ir.HeapType{}},
		{Name: "readsDom", Type: ir.HeapRefSetType{}},
	}

	var modifiesDomParam, modifiesVar *ir.Var
	var modifiesTranslated ir.Expr
	if writes {
		modifiesDomParam = ir.NewVar(pos, ir.HeapRefSetType{}, "modifiesDom")
		params = append(params, ir.Param{Name: "modifiesDom", Type: ir.HeapRefSetType{}})
		modifiesTranslated = s.exprs.Expr(specEnv, f.Spec.Modifies)
		modifiesVar = ir.NewVar(pos, ir.HeapRefSetType{}, "modifies")
	}

	realArgs := make([]ir.Expr, len(f.Param))
	for i, p := range f.Param {
		pt := s.types.Type(p.Type)
		params = append(params, ir.Param{Name: p.Name, Type: pt})
		realArgs[i] = ir.NewVar(pos, pt, p.Name)
	}

	retType := s.types.Type(f.Ret)
	heapInVar := ir.NewVar(pos, ir.HeapType{}, "heapIn")
	innerArgs := append([]ir.Expr{ir.Expr(heapInVar)}, realArgs...)

	var core ir.Expr
	if writes {
		innerRetType := &ir.TupleType{Elem: []ir.Type{retType, ir.HeapType{}}}
		innerCall := ir.NewCall(pos, innerRetType, f.ID, typeParamRefs(f.TypeParam), innerArgs)
		pairVar := ir.NewVar(pos, innerRetType, "$inner")
		resVar := ir.NewVar(pos, retType, "res")
		heapOutVar := ir.NewVar(pos, ir.HeapType{}, "heapOut")

		finalPair := ir.NewTuple(pos, resVar, ir.NewMapMerge(pos, modifiesVar, heapOutVar, heapParam))
		destructured := ir.NewLet(pos, "res", ir.NewTupleAccess(pos, pairVar, 0),
			ir.NewLet(pos, "heapOut", ir.NewTupleAccess(pos, pairVar, 1), finalPair))
		core = ir.NewLet(pos, "$inner", innerCall, destructured)
	} else {
		innerCall := ir.NewCall(pos, retType, f.ID, typeParamRefs(f.TypeParam), innerArgs)
		resVar := ir.NewVar(pos, retType, "res")
		core = ir.NewLet(pos, "res", innerCall, resVar)
	}

	core = ir.NewLet(pos, "heapIn", ir.NewMapMerge(pos, readsVar, heapParam, ir.DummyHeapConst(pos)), core)

	if writes {
		assertModifies := ir.NewAssert(pos, ir.NewSetSubset(pos, ir.BoolType(), modifiesVar, modifiesDomParam), core)
		core = assertModifies
	}
	core = ir.NewAssert(pos, ir.NewSetSubset(pos, ir.BoolType(), readsVar, readsDomParam), core)

	if writes {
		core = ir.NewLet(pos, "modifies", modifiesTranslated, core)
	}
	core = ir.NewLet(pos, "reads", readsTranslated, core)

	return &ir.FunDef{
		ID:        rewrite.ShimID(f.ID),
		TypeParam: f.TypeParam,
		Param:     params,
		Ret:       retType,
		Body:      core,
		Flags:     f.Flags.Union(ir.NewFlagSet(ir.Synthetic, ir.DropVCs, ir.InlineOnce)),
		Pos:       f.Pos,
	}
}
