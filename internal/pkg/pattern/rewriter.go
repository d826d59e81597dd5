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

// Package pattern implements the Pattern Rewriter (C5): turning a
// class pattern matched against a heap-class type into a call to a
// synthesized per-class unapply function (spec §4.5). It depends on
// the Expression Rewriter (C4) for its "no binding in scope" fallback
// behavior (ExpectHeap/ExpectReads), the same accessors C4 uses for
// FieldRead/FieldWrite, so a pattern match against a heap class
// reports the same fixed diagnostics a field access would.
package pattern

import (
	"github.com/heapverify/effectelab/internal/pkg/heapclass"
	"github.com/heapverify/effectelab/internal/pkg/ir"
	"github.com/heapverify/effectelab/internal/pkg/memo"
	"github.com/heapverify/effectelab/internal/pkg/rewrite"
	"github.com/heapverify/effectelab/internal/pkg/typerewrite"
)

// Rewriter rewrites patterns under a threaded rewrite.Env.
type Rewriter struct {
	oracle  *heapclass.Oracle
	types   *typerewrite.Rewriter
	exprs   *rewrite.Rewriter
	unapply *memo.Cache[ir.ID, ir.ID]
}

// New creates a Rewriter. exprs supplies the ExpectHeap/ExpectReads
// fallback behavior a heap-class pattern match needs; unapply
// memoizes the class-id -> unapply-function-id mapping so every match
// site against the same class agrees on the same synthesized name.
func New(oracle *heapclass.Oracle, types *typerewrite.Rewriter, exprs *rewrite.Rewriter, unapply *memo.Cache[ir.ID, ir.ID]) *Rewriter {
	return &Rewriter{oracle: oracle, types: types, exprs: exprs, unapply: unapply}
}

// UnapplyID returns the synthesized extractor identifier for a
// heap-class's original id (spec §4.5: "unapply_C").
func UnapplyID(class ir.ID) ir.ID {
	return ir.ID("unapply_" + string(class))
}

// Pattern rewrites p under env, implementing spec §4.5.
func (r *Rewriter) Pattern(env rewrite.Env, p ir.Pattern) ir.Pattern {
	switch pt := p.(type) {
	case *ir.WildcardPattern, *ir.VarPattern, *ir.LitPattern:
		return pt

	case *ir.ClassPattern:
		return r.classPattern(env, pt)

	case *ir.UnapplyPattern:
		// Already rewritten (spec §8 property 7, idempotence); recurse
		// into Sub defensively so re-running the pass on its own output
		// is a no-op rather than a partial rewrite.
		return ir.NewUnapplyPattern(pt.Pos(), pt.Unapply, r.typeList(pt.TypeArg), pt.HeapArg, pt.ReadsArg, pt.Scrutinee, r.subPatterns(env, pt.Sub))

	default:
		panic("pattern: unhandled pattern form")
	}
}

// classPattern implements spec §4.5's class-pattern row: a value-class
// pattern recurses structurally; a heap-class pattern becomes an
// UnapplyPattern wrapping a single ClassPattern sub-pattern against
// the rewritten class, matching the `some(...)` arm of unapply_C's
// Option result.
func (r *Rewriter) classPattern(env rewrite.Env, p *ir.ClassPattern) ir.Pattern {
	if !r.oracle.IsHeapType(p.Class) {
		return ir.NewClassPattern(p.Pos(), r.types.Type(p.Class), r.typeList(p.TypeArg), r.subPatterns(env, p.Sub))
	}

	ct := p.Class.(*ir.ClassType)
	classPrime := &ir.ClassType{Def: r.types.ClassDef(ct.Def), TypeArg: r.typeList(p.TypeArg)}
	inner := ir.NewClassPattern(p.Pos(), classPrime, r.typeList(p.TypeArg), r.subPatterns(env, p.Sub))

	unapplyID := r.unapply.GetOrCompute(ct.Def.ID, func() ir.ID { return UnapplyID(ct.Def.ID) })
	heap := r.exprs.ExpectHeap(env, p.Pos(), "match against heap-class pattern")
	frame := r.exprs.ExpectReads(env, p.Pos(), "match against heap-class pattern")

	var readsArg ir.Expr
	if frame.IsRestricted() {
		readsArg = ir.Some(p.Pos(), ir.HeapRefSetType{}, frame.Set())
	} else {
		readsArg = ir.None(p.Pos(), ir.HeapRefSetType{})
	}

	return ir.NewUnapplyPattern(p.Pos(), unapplyID, r.typeList(p.TypeArg), heap, readsArg, nil, []ir.Pattern{inner})
}

func (r *Rewriter) subPatterns(env rewrite.Env, ps []ir.Pattern) []ir.Pattern {
	if ps == nil {
		return nil
	}
	out := make([]ir.Pattern, len(ps))
	for i, p := range ps {
		out[i] = r.Pattern(env, p)
	}
	return out
}

func (r *Rewriter) typeList(ts []ir.Type) []ir.Type {
	if ts == nil {
		return nil
	}
	out := make([]ir.Type, len(ts))
	for i, t := range ts {
		out[i] = r.types.Type(t)
	}
	return out
}
