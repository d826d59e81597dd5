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

// splitInner builds the Inner function for an effectful source f
// (spec §4.6). It keeps f's own id, takes an explicit heap0 parameter,
// and returns a (result, heap) pair when writes is set.
func (s *Splitter) splitInner(f *ir.FunDef, writes bool, readsClause ir.Expr) *ir.FunDef {
	pos := ir.NoPos
	heap0 := ir.NewVar(pos, ir.HeapType{}, "heap0")

	// Frame-clause expressions are translated independently of the
	// body, with reads left unrestricted, to avoid bootstrapping the
	// reads/modifies let-bindings off their own not-yet-defined selves.
	specEnv := rewrite.Env{HeapVd: heap0, ReadsVd: rewrite.AllowAll(), ModifiesVd: rewrite.Forbidden()}

	readsTranslated := s.exprs.Expr(specEnv, readsClause)
	readsVar := ir.NewVar(pos, ir.HeapRefSetType{}, "reads")
	readsFrame := rewrite.Restricted(readsVar)

	var modifiesTranslated ir.Expr
	var modifiesVar *ir.Var
	if writes {
		modifiesTranslated = s.exprs.Expr(specEnv, f.Spec.Modifies)
		modifiesVar = ir.NewVar(pos, ir.HeapRefSetType{}, "modifies")
	}

	params := make([]ir.Param, 0, len(f.Param)+1)
	params = append(params, ir.Param{Name: "heap0", Type: ir.HeapType{}})
	for _, p := range f.Param {
		params = append(params, ir.Param{Name: p.Name, Type: s.types.Type(p.Type)})
	}

	valueRetType := s.types.Type(f.Ret)
	retType := valueRetType
	if writes {
		retType = &ir.TupleType{Elem: []ir.Type{valueRetType, ir.HeapType{}}}
	}

	var core ir.Expr
	var postHeap *ir.Var
	if writes {
		heapMut := ir.NewVar(pos, ir.HeapType{}, "heap")
		bodyEnv := rewrite.Env{HeapVd: heapMut, ReadsVd: readsFrame, ModifiesVd: rewrite.Restricted(modifiesVar)}
		rewrittenBody := s.exprs.Expr(bodyEnv, f.Body)

		resVar := ir.NewVar(pos, rewrittenBody.Type(), "res")
		pair := ir.NewTuple(pos, resVar, heapMut)
		core = ir.NewMutableLet(pos, "heap", heap0, ir.NewLet(pos, "res", rewrittenBody, pair))
		postHeap = ir.NewVar(pos, ir.HeapType{}, "heap1")
	} else {
		bodyEnv := rewrite.Env{HeapVd: heap0, ReadsVd: readsFrame, ModifiesVd: rewrite.Forbidden()}
		core = s.exprs.Expr(bodyEnv, f.Body)
		postHeap = heap0
	}

	if writes {
		assertSubset := ir.NewAssert(pos, ir.NewSetSubset(pos, ir.BoolType(), modifiesVar, readsVar), core)
		core = ir.NewLet(pos, "modifies", modifiesTranslated, assertSubset)
	}
	// A second copy of the translated reads expression sits in the
	// body so a downstream verification-condition generator can also
	// check the reads clause itself, not just uses of the `reads` let.
	core = ir.NewLet(pos, "reads", readsTranslated, ir.NewBlock(pos, readsTranslated, core))

	preEnv := rewrite.Env{HeapVd: heap0, ReadsVd: readsFrame, ModifiesVd: rewrite.Forbidden()}
	postEnv := rewrite.Env{HeapVd: postHeap, ReadsVd: readsFrame, ModifiesVd: rewrite.Forbidden()}

	requires := make([]ir.Expr, len(f.Spec.Requires))
	for i, r := range f.Spec.Requires {
		requires[i] = s.exprs.Expr(specEnv, r)
	}
	decreases := make([]ir.Expr, len(f.Spec.Decreases))
	for i, d := range f.Spec.Decreases {
		decreases[i] = s.exprs.Expr(specEnv, d)
	}
	ensures := make([]ir.EnsuresClause, len(f.Spec.Ensures))
	for i, ec := range f.Spec.Ensures {
		ensures[i] = ir.EnsuresClause{ResultName: ec.ResultName, Cond: s.rewritePostcondition(preEnv, postEnv, false, ec.Cond)}
	}

	return &ir.FunDef{
		ID:        f.ID,
		TypeParam: f.TypeParam,
		Param:     params,
		Ret:       retType,
		Spec:      ir.Spec{Requires: requires, Decreases: decreases, Ensures: ensures},
		Body:      core,
		Flags:     f.Flags,
		Pos:       f.Pos,
	}
}
