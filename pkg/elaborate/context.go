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

// Package elaborate wires C1-C7 into the pass's public entry point
// (spec §6, "External interfaces"): Run processes a whole symbol
// table; Context bundles the per-run component instances so
// ExtractFunction/ExtractClass/ExtractSort can also be driven one
// definition at a time, the way a caller re-elaborating a single
// edited function would want to (spec §5, "pure function of (input
// definition, symbol table, pass caches)").
package elaborate

import (
	"github.com/heapverify/effectelab/internal/pkg/config"
	"github.com/heapverify/effectelab/internal/pkg/effect"
	"github.com/heapverify/effectelab/internal/pkg/heapclass"
	"github.com/heapverify/effectelab/internal/pkg/ir"
	"github.com/heapverify/effectelab/internal/pkg/memo"
	"github.com/heapverify/effectelab/internal/pkg/pattern"
	"github.com/heapverify/effectelab/internal/pkg/preamble"
	"github.com/heapverify/effectelab/internal/pkg/reporter"
	"github.com/heapverify/effectelab/internal/pkg/rewrite"
	"github.com/heapverify/effectelab/internal/pkg/split"
	"github.com/heapverify/effectelab/internal/pkg/typerewrite"
)

// Context bundles one run's worth of component instances: the Heap-
// Class Oracle (C1), the Type Rewriter (C2), the Effect Classifier
// (C3), the Expression Rewriter (C4), the Pattern Rewriter (C5), the
// Function Splitter (C6), and the shim/unapply name caches C4-C6
// share. All of it is built once, against a fixed input symbol table,
// and then reused across every ExtractFunction/ExtractClass/
// ExtractSort call in the run; apart from the rewrite.Rewriter's
// atomic fresh-name counter and the internally locked memo caches,
// none of the components mutate their own fields after New returns,
// so a *Context is safe to share across
// the goroutines Run's parallel mode spawns.
type Context struct {
	Oracle   *heapclass.Oracle
	Types    *typerewrite.Rewriter
	Effects  *effect.Classifier
	Exprs    *rewrite.Rewriter
	Patterns *pattern.Rewriter
	Splitter *split.Splitter

	shims   *memo.Cache[ir.ID, ir.ID]
	unapply *memo.Cache[ir.ID, ir.ID]
}

// NewContext wires a fresh Context against in, following the same
// construction order the package-level doc comments of rewrite.New
// and pattern.New call out: the Expression Rewriter (C4) is built
// before the Pattern Rewriter (C5), since C5 depends on C4, and then
// wired back into C4 via SetPatternRewriter so C4's rewriteMatch can
// call into C5 (spec §4.4/§4.5's mutual dependency).
func NewContext(in *ir.SymbolTable, cfg config.Config, rep reporter.Reporter) *Context {
	oracle := heapclass.New(in)
	types := typerewrite.New(oracle, rep)
	effects := effect.New()
	shims := memo.New[ir.ID, ir.ID]()
	unapply := memo.New[ir.ID, ir.ID]()

	exprs := rewrite.New(in, oracle, types, effects, shims, cfg, rep)
	patterns := pattern.New(oracle, types, exprs, unapply)
	exprs.SetPatternRewriter(patterns)

	splitter := split.New(oracle, types, effects, exprs)

	return &Context{
		Oracle:   oracle,
		Types:    types,
		Effects:  effects,
		Exprs:    exprs,
		Patterns: patterns,
		Splitter: splitter,
		shims:    shims,
		unapply:  unapply,
	}
}

// injectPreamble is the Preamble Injector (C7) step every Run
// performs after extraction; it is a plain function of the output
// table rather than a Context field since, unlike C1-C6, it carries
// no per-run state of its own (spec §4.7).
func injectPreamble(out *ir.SymbolTable) *ir.SymbolTable {
	return preamble.Inject(out)
}
