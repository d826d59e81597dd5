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

// Package split implements the Function Splitter (C6): turning one
// source FunDef into its output form (spec §4.6). A Pure function is
// rewritten in place. An effectful function becomes two: an Inner
// function that keeps the source's own id and does the real work
// against an explicit heap parameter, and a Shim, named by
// rewrite.ShimID, that re-derives a bounded sub-heap from the caller's
// frame and merges the result back.
package split

import (
	"github.com/heapverify/effectelab/internal/pkg/effect"
	"github.com/heapverify/effectelab/internal/pkg/heapclass"
	"github.com/heapverify/effectelab/internal/pkg/ir"
	"github.com/heapverify/effectelab/internal/pkg/rewrite"
	"github.com/heapverify/effectelab/internal/pkg/typerewrite"
)

// Splitter implements C6.
type Splitter struct {
	oracle  *heapclass.Oracle
	types   *typerewrite.Rewriter
	effects *effect.Classifier
	exprs   *rewrite.Rewriter
}

// New creates a Splitter. exprs supplies C4's expression rewriting
// (and its ExpectHeap/ExpectReads/ExpectModifies fallbacks) for both
// the Inner and Shim bodies.
func New(oracle *heapclass.Oracle, types *typerewrite.Rewriter, effects *effect.Classifier, exprs *rewrite.Rewriter) *Splitter {
	return &Splitter{oracle: oracle, types: types, effects: effects, exprs: exprs}
}

// ExtractFunction implements spec §4.6: a Pure function yields a
// single rewritten FunDef with the same id; an effectful function
// yields exactly two, Inner then Shim.
func (s *Splitter) ExtractFunction(f *ir.FunDef) []*ir.FunDef {
	if s.effects.Level(f) == effect.Pure {
		return []*ir.FunDef{s.splitPure(f)}
	}

	// effect.Classifier promotes a function with only a modifies
	// clause straight to ReadsWrites (modifies implies reads); there is
	// no finer level for "writes without a reads clause", so the reads
	// domain used to seed heapIn/readsVar falls back to the modifies
	// clause itself when no reads clause was written.
	writes := f.Spec.HasModifies()
	readsClause := f.Spec.Reads
	if readsClause == nil {
		readsClause = f.Spec.Modifies
	}

	return []*ir.FunDef{
		s.splitInner(f, writes, readsClause),
		s.splitShim(f, writes, readsClause),
	}
}

// splitPure rewrites a Pure function's signature and body with heap
// access forbidden throughout (spec §4.6's Pure case).
func (s *Splitter) splitPure(f *ir.FunDef) *ir.FunDef {
	env := rewrite.Env{}

	params := make([]ir.Param, len(f.Param))
	for i, p := range f.Param {
		params[i] = ir.Param{Name: p.Name, Type: s.types.Type(p.Type)}
	}

	requires := make([]ir.Expr, len(f.Spec.Requires))
	for i, r := range f.Spec.Requires {
		requires[i] = s.exprs.Expr(env, r)
	}
	decreases := make([]ir.Expr, len(f.Spec.Decreases))
	for i, d := range f.Spec.Decreases {
		decreases[i] = s.exprs.Expr(env, d)
	}
	ensures := make([]ir.EnsuresClause, len(f.Spec.Ensures))
	for i, ec := range f.Spec.Ensures {
		ensures[i] = ir.EnsuresClause{ResultName: ec.ResultName, Cond: s.exprs.Expr(env, ec.Cond)}
	}

	return &ir.FunDef{
		ID:        f.ID,
		TypeParam: f.TypeParam,
		Param:     params,
		Ret:       s.types.Type(f.Ret),
		Spec:      ir.Spec{Requires: requires, Decreases: decreases, Ensures: ensures},
		Body:      s.exprs.Expr(env, f.Body),
		Flags:     f.Flags,
		Pos:       f.Pos,
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
