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

// rewritePostcondition rewrites an ensures clause's condition,
// implementing spec §4.6's split of old(e) sub-expressions (rewritten
// against pre, the heap0 environment) from every other sub-expression
// (rewritten against post, the result-heap environment — heap0 itself
// again when the function does not write).
//
// Only the structural glue a postcondition is actually built from (If,
// Let, Block, Assert, Tuple, TupleAccess, and Call's argument list, so
// that `old(a) && b` splits its two operands correctly) is walked here;
// everything else is handed to C4 in one shot under whichever
// environment currently applies. A postcondition is assumed to invoke
// only pure helper functions — idiomatic for ensures clauses — so
// Call's own target is never redirected to a shim here.
func (s *Splitter) rewritePostcondition(pre, post rewrite.Env, inPre bool, e ir.Expr) ir.Expr {
	switch ex := e.(type) {
	case *ir.Old:
		return s.rewritePostcondition(pre, post, true, ex.Operand)

	case *ir.If:
		return ir.NewIf(ex.Pos(),
			s.rewritePostcondition(pre, post, inPre, ex.Cond),
			s.rewritePostcondition(pre, post, inPre, ex.Then),
			s.rewritePostcondition(pre, post, inPre, ex.Else))

	case *ir.Let:
		value := s.rewritePostcondition(pre, post, inPre, ex.Value)
		body := s.rewritePostcondition(pre, post, inPre, ex.Body)
		if ex.Mutable {
			return ir.NewMutableLet(ex.Pos(), ex.Name, value, body)
		}
		return ir.NewLet(ex.Pos(), ex.Name, value, body)

	case *ir.Block:
		stmts := make([]ir.Expr, len(ex.Stmt))
		for i, st := range ex.Stmt {
			stmts[i] = s.rewritePostcondition(pre, post, inPre, st)
		}
		return ir.NewBlock(ex.Pos(), stmts...)

	case *ir.Assert:
		return ir.NewAssert(ex.Pos(),
			s.rewritePostcondition(pre, post, inPre, ex.Cond),
			s.rewritePostcondition(pre, post, inPre, ex.Then))

	case *ir.Tuple:
		elems := make([]ir.Expr, len(ex.Elem))
		for i, el := range ex.Elem {
			elems[i] = s.rewritePostcondition(pre, post, inPre, el)
		}
		return ir.NewTuple(ex.Pos(), elems...)

	case *ir.TupleAccess:
		return ir.NewTupleAccess(ex.Pos(), s.rewritePostcondition(pre, post, inPre, ex.Operand), ex.Index)

	case *ir.Call:
		args := make([]ir.Expr, len(ex.Arg))
		for i, a := range ex.Arg {
			args[i] = s.rewritePostcondition(pre, post, inPre, a)
		}
		targs := make([]ir.Type, len(ex.TypeArg))
		for i, t := range ex.TypeArg {
			targs[i] = s.types.Type(t)
		}
		return ir.NewCall(ex.Pos(), s.types.Type(ex.Type()), ex.Target, targs, args)

	default:
		env := post
		if inPre {
			env = pre
		}
		return s.exprs.Expr(env, e)
	}
}
