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

package rewrite

import (
	"github.com/heapverify/effectelab/internal/pkg/effect"
	"github.com/heapverify/effectelab/internal/pkg/ir"
)

// rewriteNew implements spec §4.4's `new C(args)` row. For a
// heap-class C it allocates a fresh reference, stores the constructed
// value at it, and evaluates to the reference; for a value class it
// is a structural rewrite of the constructor call.
func (r *Rewriter) rewriteNew(env Env, e *ir.New) ir.Expr {
	if !r.oracle.IsHeapType(e.Class) {
		return ir.NewNew(e.Pos(), r.types.Type(e.Type()), r.types.Type(e.Class), r.exprList(env, e.Arg))
	}
	heap := r.ExpectHeap(env, e.Pos(), "allocate heap object")
	value := ir.NewClassValue(e.Pos(), e.Class, r.exprList(env, e.Arg))
	ref := ir.NewChoose(e.Pos(), ir.True(e.Pos()))
	update := ir.NewHeapUpdate(e.Pos(), heap, ref, value)
	return ir.NewBlock(e.Pos(), ir.NewAssign(e.Pos(), heap.Name, update), ref)
}

// rewriteFieldRead implements spec §4.4's `obj.f` row: assert
// membership in the reads frame (if restricted), then project the
// field out of the object's current dynamic heap value.
func (r *Rewriter) rewriteFieldRead(env Env, e *ir.FieldRead) ir.Expr {
	if !r.oracle.IsHeapType(e.Recv.Type()) {
		return ir.NewFieldRead(e.Pos(), r.types.Type(e.Type()), r.Expr(env, e.Recv), e.Field)
	}
	frame := r.ExpectReads(env, e.Pos(), "read from heap object")
	var heap *ir.Var
	if env.ReadsVd.IsForbidden() && env.HeapVd == nil {
		// The missing reads clause was just reported for this read; a
		// second, heap-access diagnostic for it would be redundant.
		heap = ir.DummyHeapVar(e.Pos()).(*ir.Var)
	} else {
		heap = r.ExpectHeap(env, e.Pos(), "read from heap object")
	}
	ref := r.Expr(env, e.Recv)
	value := ir.NewAssumeType(e.Pos(), ir.NewHeapRead(e.Pos(), ir.DynClassType{}, heap, ref), e.Recv.Type())
	projection := ir.NewFieldRead(e.Pos(), r.types.Type(e.Type()), value, e.Field)
	return r.assertMembership(e.Pos(), ref, frame, projection)
}

// rewriteFieldWrite implements spec §4.4's `obj.f = v` row: assert
// membership in the modifies frame (if restricted), then replace the
// object's dynamic value with one field updated and write it back.
// FieldWrite never appears in output; this is the one form C4
// eliminates entirely rather than structurally preserving.
func (r *Rewriter) rewriteFieldWrite(env Env, e *ir.FieldWrite) ir.Expr {
	frame := r.ExpectModifies(env, e.Pos(), "write to heap object")
	var heap *ir.Var
	if env.ModifiesVd.IsForbidden() && env.HeapVd == nil {
		// The missing frame clause was just reported for this write; a
		// second, heap-access diagnostic for it would be redundant.
		heap = ir.DummyHeapVar(e.Pos()).(*ir.Var)
	} else {
		heap = r.ExpectHeap(env, e.Pos(), "write to heap object")
	}
	ref := r.Expr(env, e.Recv)
	old := ir.NewAssumeType(e.Pos(), ir.NewHeapRead(e.Pos(), ir.DynClassType{}, heap, ref), e.Recv.Type())
	updated := ir.NewFieldUpdate(e.Pos(), old, e.Field, r.Expr(env, e.Value))
	write := ir.NewAssign(e.Pos(), heap.Name, ir.NewHeapUpdate(e.Pos(), heap, ref, updated))
	result := ir.NewBlock(e.Pos(), write, ir.Unit(e.Pos()))
	return r.assertMembership(e.Pos(), ref, frame, result)
}

// rewriteTypeTest implements spec §4.4's `obj is C` row: assert
// membership in the reads frame (if restricted), then test the
// object's current dynamic heap value against the class as written
// (the same class tag rewriteNew stores in a new object's value).
func (r *Rewriter) rewriteTypeTest(env Env, e *ir.TypeTest) ir.Expr {
	if !r.oracle.IsHeapType(e.Recv.Type()) {
		return ir.NewTypeTest(e.Pos(), r.Expr(env, e.Recv), r.types.Type(e.Class))
	}
	frame := r.ExpectReads(env, e.Pos(), "check heap object's type")
	heap := r.ExpectHeap(env, e.Pos(), "check heap object's type")
	ref := r.Expr(env, e.Recv)
	value := ir.NewHeapRead(e.Pos(), ir.DynClassType{}, heap, ref)
	test := ir.NewTypeTest(e.Pos(), value, e.Class)
	return r.assertMembership(e.Pos(), ref, frame, test)
}

// rewriteCall implements spec §4.4's call row: a pure callee is
// rewritten structurally with its target unchanged; an effectful
// callee's target is redirected to its synthesized shim, whose
// parameter list (split/shim.go) is `heap, readsDom, [modifiesDom],
// realArgs...` — the caller's current heap, its current reads set (the
// empty set if unrestricted), and, only when the callee writes, its
// current modifies set, all prepended ahead of the real arguments. A
// callee classified ReadsWrites returns a `(result, heap')` pair that
// gets unpacked with heap' flowing back into env.HeapVd; a Reads-only
// callee's shim returns just the result (split/shim.go's non-writes
// branch), so the caller's heap variable passes through unchanged.
func (r *Rewriter) rewriteCall(env Env, e *ir.Call) ir.Expr {
	args := r.exprList(env, e.Arg)
	targs := r.typeList(e.TypeArg)
	resultType := r.types.Type(e.Type())

	callee, known := r.symbols.Functions[e.Target]
	if !known || r.effects.Level(callee) == effect.Pure {
		return ir.NewCall(e.Pos(), resultType, e.Target, targs, args)
	}

	heap := r.ExpectHeap(env, e.Pos(), "call an effectful function")
	shim := r.shims.GetOrCompute(callee.ID, func() ir.ID { return ShimID(callee.ID) })

	shimArgs := []ir.Expr{heap, frameDomain(env.ReadsVd, e.Pos())}

	writes := r.effects.Level(callee) == effect.ReadsWrites
	if writes {
		shimArgs = append(shimArgs, frameDomain(env.ModifiesVd, e.Pos()))
	}
	shimArgs = append(shimArgs, args...)

	if !writes {
		return ir.NewCall(e.Pos(), resultType, shim, targs, shimArgs)
	}

	pairType := &ir.TupleType{Elem: []ir.Type{resultType, ir.HeapType{}}}
	call := ir.NewCall(e.Pos(), pairType, shim, targs, shimArgs)

	tmp := r.freshName("$call")
	tmpVar := ir.NewVar(e.Pos(), pairType, tmp)
	newHeap := ir.NewTupleAccess(e.Pos(), tmpVar, 1)
	value := ir.NewTupleAccess(e.Pos(), tmpVar, 0)

	return ir.NewLet(e.Pos(), tmp, call,
		ir.NewBlock(e.Pos(), ir.NewAssign(e.Pos(), heap.Name, newHeap), value),
	)
}

// frameDomain returns the set expression to pass as a shim's reads- or
// modifies-domain argument for frame: the restricting set if frame
// names one, the empty set otherwise (spec §4.4, "prepend heap, then
// the current reads set (or the empty set if unrestricted)").
func frameDomain(frame Frame, pos ir.Pos) ir.Expr {
	if frame.IsRestricted() {
		return frame.Set()
	}
	return ir.EmptyHeapRefSet(pos)
}

// rewriteMatch rewrites a pattern match: the scrutinee and each arm's
// guard/body go through Expr, and each arm's pattern goes through the
// Pattern Rewriter (C5), which is the only component allowed to turn a
// heap-class ClassPattern into an UnapplyPattern (spec §4.5). An
// UnapplyPattern's Scrutinee is the value the synthesized unapply_C is
// applied to; C5's Pattern signature carries no scrutinee parameter
// (spec §6.5), so rewriteMatch fills that field in once Pattern
// returns rather than threading it through C5's own recursion.
func (r *Rewriter) rewriteMatch(env Env, e *ir.Match) ir.Expr {
	scrutinee := r.Expr(env, e.Scrutinee)
	cases := make([]ir.MatchCase, len(e.Case))
	for i, c := range e.Case {
		pat := c.Pattern
		if r.patterns != nil {
			pat = r.patterns.Pattern(env, pat)
			if up, ok := pat.(*ir.UnapplyPattern); ok && up.Scrutinee == nil {
				up.Scrutinee = scrutinee
			}
		}
		var guard ir.Expr
		if c.Guard != nil {
			guard = r.Expr(env, c.Guard)
		}
		cases[i] = ir.MatchCase{Pattern: pat, Guard: guard, Body: r.Expr(env, c.Body)}
	}
	return ir.NewMatch(e.Pos(), r.types.Type(e.Type()), scrutinee, cases)
}
