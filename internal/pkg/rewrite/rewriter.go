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

// Package rewrite implements the Expression Rewriter (C4): the core
// term transformer that threads an explicit heap variable through a
// function body, turning field reads/writes, allocations, type tests
// and reference equality into the map-based operations of spec §4.4.
// It is the largest component of the pass (spec §1) and every other
// component that touches expressions (C5, C6) builds on it rather
// than walking ir.Expr itself.
//
// The structure mirrors the teacher's levee.Propagation dataflow walk:
// a single recursive method dispatching on concrete node type, backed
// by a small environment value threaded down through the recursion
// rather than mutated in place (there levee.visit(*ssa.SomeInstr,
// levee.propagation), here Rewriter.Expr(Env, ir.Expr)).
package rewrite

import (
	"sync/atomic"

	"github.com/heapverify/effectelab/internal/pkg/config"
	"github.com/heapverify/effectelab/internal/pkg/effect"
	"github.com/heapverify/effectelab/internal/pkg/heapclass"
	"github.com/heapverify/effectelab/internal/pkg/ir"
	"github.com/heapverify/effectelab/internal/pkg/memo"
	"github.com/heapverify/effectelab/internal/pkg/reporter"
	"github.com/heapverify/effectelab/internal/pkg/typerewrite"
)

// PatternRewriter is the slice of the Pattern Rewriter (C5) that
// Match-expression handling needs. C4 depends on it through this
// interface, declared here rather than by importing package pattern,
// because C5 itself needs Env to build a heap-class unapply call
// (spec §4.5): an import the other way would cycle. Wire a concrete
// *pattern.Rewriter in via SetPatternRewriter once both components
// exist (see pkg/elaborate, which owns construction order).
type PatternRewriter interface {
	Pattern(env Env, p ir.Pattern) ir.Pattern
}

// Rewriter rewrites expressions under a threaded Env (spec §4.4).
type Rewriter struct {
	symbols *ir.SymbolTable
	oracle  *heapclass.Oracle
	types   *typerewrite.Rewriter
	effects *effect.Classifier
	shims   *memo.Cache[ir.ID, ir.ID]
	cfg     config.Config
	rep     reporter.Reporter

	patterns PatternRewriter
	fresh    uint64 // atomic; see freshName
}

// New creates a Rewriter. symbols resolves a Call's target to a
// FunDef so its effect level can be consulted; shims memoizes the
// original-id -> synthesized-shim-id mapping so every call site agrees
// on the same shim name (spec §4.6 constructs the shim itself; C4 only
// needs to name it consistently).
func New(symbols *ir.SymbolTable, oracle *heapclass.Oracle, types *typerewrite.Rewriter, effects *effect.Classifier, shims *memo.Cache[ir.ID, ir.ID], cfg config.Config, rep reporter.Reporter) *Rewriter {
	return &Rewriter{symbols: symbols, oracle: oracle, types: types, effects: effects, shims: shims, cfg: cfg, rep: rep}
}

// SetPatternRewriter wires the Pattern Rewriter used for Match's
// pattern arms. It must be called before Expr is asked to rewrite any
// Match node; pkg/elaborate does this immediately after constructing
// both components.
func (r *Rewriter) SetPatternRewriter(p PatternRewriter) {
	r.patterns = p
}

// ShimID returns the synthesized shim identifier for an effectful
// function's original id (spec §4.6: "Shim f__shim"). The Function
// Splitter (C6) assigns this id to the shim FunDef it produces; C4
// calls it to redirect a Call's target to the same name. The inner,
// heap-threading implementation keeps the function's original id
// (spec §4.6: "Inner f") — every pre-existing reference to f in the
// input program is, by construction, a call C4 rewrites away to the
// shim, so reusing f for the inner never collides with a live call
// site in the output.
func ShimID(original ir.ID) ir.ID {
	return ir.ID(string(original) + "__shim")
}

func (r *Rewriter) freshName(prefix string) ir.ID {
	n := atomic.AddUint64(&r.fresh, 1)
	return ir.ID(prefix + itoa(n))
}

// itoa avoids importing strconv for a single call site; kept tiny and
// local since the only caller needs base-10 digits of a small counter.
func itoa(n uint64) string {
	if n == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}

// ExpectHeap returns the current heap variable, reporting
// MsgNoHeapAccess and falling back to a dummy heap variable if heap
// access is forbidden here (spec §7).
func (r *Rewriter) ExpectHeap(env Env, pos ir.Pos, usage string) *ir.Var {
	if env.HeapVd == nil {
		r.rep.Reportf(pos, reporter.MsgNoHeapAccess, usage)
		return ir.DummyHeapVar(pos).(*ir.Var)
	}
	return env.HeapVd
}

// ExpectReads returns the current reads frame, reporting
// MsgMissingReads and falling back to an empty restricted frame if no
// reads clause is in scope (spec §7).
func (r *Rewriter) ExpectReads(env Env, pos ir.Pos, usage string) Frame {
	if env.ReadsVd.IsForbidden() {
		r.rep.Reportf(pos, reporter.MsgMissingReads, usage)
		return Restricted(ir.EmptyHeapRefSet(pos))
	}
	return env.ReadsVd
}

// ExpectModifies returns the current modifies frame. If none is in
// scope, it reports MsgReadOnlyWrite when a reads clause is present
// (a Reads-level function attempting a write) or MsgMissingModifies
// when neither clause is present at all (spec §7).
func (r *Rewriter) ExpectModifies(env Env, pos ir.Pos, usage string) Frame {
	if env.ModifiesVd.IsForbidden() {
		if env.ReadsVd.IsForbidden() {
			r.rep.Reportf(pos, reporter.MsgMissingModifies, usage)
		} else {
			r.rep.Reportf(pos, reporter.MsgReadOnlyWrite)
		}
		return Restricted(ir.EmptyHeapRefSet(pos))
	}
	return env.ModifiesVd
}

// assertMembership wraps then in `assert elem ∈ set; then` when frame
// is restricted and the pass is configured to check heap contracts;
// otherwise it returns then unchanged (spec §6, "Configuration").
func (r *Rewriter) assertMembership(pos ir.Pos, elem ir.Expr, frame Frame, then ir.Expr) ir.Expr {
	if !frame.IsRestricted() || !r.cfg.CheckHeapContracts {
		return then
	}
	cond := ir.NewSetContains(pos, ir.BoolType(), elem, frame.Set())
	return ir.NewAssert(pos, cond, then)
}

func (r *Rewriter) exprList(env Env, es []ir.Expr) []ir.Expr {
	if es == nil {
		return nil
	}
	out := make([]ir.Expr, len(es))
	for i, e := range es {
		out[i] = r.Expr(env, e)
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

// Expr rewrites e under env, implementing the rewrite table of spec
// §4.4. Every heap-class-typed subexpression rewrites to an
// expression of ir.HeapRefType; every construct that touches the
// heap goes through heap(...) / heap[... := ...] explicitly and
// threads the result back into env.HeapVd via an Assign, never
// returning an implicit updated heap out of band (spec §3,
// invariant 4).
func (r *Rewriter) Expr(env Env, e ir.Expr) ir.Expr {
	switch ex := e.(type) {
	case *ir.Var:
		return ir.NewVar(ex.Pos(), r.types.Type(ex.Type()), ex.Name)

	case *ir.Lit:
		return ir.NewLit(ex.Pos(), r.types.Type(ex.Type()), ex.Value)

	case *ir.New:
		return r.rewriteNew(env, ex)

	case *ir.FieldRead:
		return r.rewriteFieldRead(env, ex)

	case *ir.FieldWrite:
		return r.rewriteFieldWrite(env, ex)

	case *ir.TypeTest:
		return r.rewriteTypeTest(env, ex)

	case *ir.RefEq:
		return ir.NewCall(ex.Pos(), ir.BoolType(), ir.EqualsID, nil, []ir.Expr{r.Expr(env, ex.A), r.Expr(env, ex.B)})

	case *ir.ObjectIdentity:
		// The identity of a heap object is its reference; once rewritten,
		// the operand already evaluates to that reference directly.
		return r.Expr(env, ex.Operand)

	case *ir.Call:
		return r.rewriteCall(env, ex)

	case *ir.Old:
		// Well-formed input only contains Old inside an ensures clause,
		// which the Function Splitter (C6) strips and rewrites specially
		// before any subexpression reaches Expr. This case exists only so
		// Expr stays total if one slips through.
		return ir.NewOld(ex.Pos(), r.Expr(env, ex.Operand))

	case *ir.Let:
		value := r.Expr(env, ex.Value)
		body := r.Expr(env, ex.Body)
		if ex.Mutable {
			return ir.NewMutableLet(ex.Pos(), ex.Name, value, body)
		}
		return ir.NewLet(ex.Pos(), ex.Name, value, body)

	case *ir.Assign:
		return ir.NewAssign(ex.Pos(), ex.Name, r.Expr(env, ex.Value))

	case *ir.If:
		return ir.NewIf(ex.Pos(), r.Expr(env, ex.Cond), r.Expr(env, ex.Then), r.Expr(env, ex.Else))

	case *ir.Match:
		return r.rewriteMatch(env, ex)

	case *ir.Block:
		return ir.NewBlock(ex.Pos(), r.exprList(env, ex.Stmt)...)

	case *ir.Assert:
		return ir.NewAssert(ex.Pos(), r.Expr(env, ex.Cond), r.Expr(env, ex.Then))

	case *ir.Tuple:
		return ir.NewTuple(ex.Pos(), r.exprList(env, ex.Elem)...)

	case *ir.TupleAccess:
		return ir.NewTupleAccess(ex.Pos(), r.Expr(env, ex.Operand), ex.Index)

	case *ir.HeapRead:
		return ir.NewHeapRead(ex.Pos(), ex.Type(), r.Expr(env, ex.Heap), r.Expr(env, ex.Ref))

	case *ir.HeapUpdate:
		return ir.NewHeapUpdate(ex.Pos(), r.Expr(env, ex.Heap), r.Expr(env, ex.Ref), r.Expr(env, ex.Value))

	case *ir.Choose:
		return ir.NewChoose(ex.Pos(), r.Expr(env, ex.Cond))

	case *ir.SetContains:
		return ir.NewSetContains(ex.Pos(), ex.Type(), r.Expr(env, ex.Elem), r.Expr(env, ex.Set))

	case *ir.SetSubset:
		return ir.NewSetSubset(ex.Pos(), ex.Type(), r.Expr(env, ex.Sub), r.Expr(env, ex.Super))

	case *ir.MapMerge:
		return ir.NewMapMerge(ex.Pos(), r.Expr(env, ex.Set), r.Expr(env, ex.A), r.Expr(env, ex.B))

	case *ir.AssumeType:
		return ir.NewAssumeType(ex.Pos(), r.Expr(env, ex.Operand), ex.Class)

	case *ir.FieldUpdate:
		return ir.NewFieldUpdate(ex.Pos(), r.Expr(env, ex.Operand), ex.Field, r.Expr(env, ex.Value))

	default:
		panic("rewrite: unhandled expression form")
	}
}
