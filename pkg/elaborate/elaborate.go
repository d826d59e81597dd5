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

package elaborate

import (
	"context"

	"golang.org/x/sync/errgroup"
	"golang.org/x/xerrors"

	"github.com/heapverify/effectelab/internal/pkg/config"
	"github.com/heapverify/effectelab/internal/pkg/ir"
	"github.com/heapverify/effectelab/internal/pkg/reporter"
)

// Options configures a Run beyond spec.md's fixed external signature
// (spec §7, "supplemented features").
type Options struct {
	// Parallel processes independent classes/sorts/functions
	// concurrently via errgroup instead of one at a time. Off by
	// default: spec §8 property 9 requires the output to be invariant
	// under processing order, and the default keeps that invariant
	// trivially true rather than relying on it.
	Parallel bool

	// MaxConcurrency bounds the errgroup's SetLimit when Parallel is
	// set. Zero means errgroup.Group's own unbounded default.
	MaxConcurrency int
}

// Run elaborates every definition in in and returns the resulting
// symbol table (spec §6). This is the fixed-signature entry point;
// RunWithOptions exposes the supplemented Options.Parallel switch.
func Run(cfg config.Config, rep reporter.Reporter, in *ir.SymbolTable) (*ir.SymbolTable, error) {
	return RunWithOptions(cfg, rep, in, Options{})
}

// RunWithOptions is Run with explicit Options (spec §7).
func RunWithOptions(cfg config.Config, rep reporter.Reporter, in *ir.SymbolTable, opts Options) (out *ir.SymbolTable, err error) {
	// Category-2 internal-invariant violations (spec §7) surface as
	// panics from deep inside C1-C6 (heapclass.ErrCyclicHierarchy,
	// rewrite/typerewrite/pattern's "unhandled form" panics). Run is
	// the pass's fail-fast boundary: it recovers them here and returns
	// a wrapped error rather than letting them escape to the caller's
	// goroutine, the one place in the pass that must not panic.
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = xerrors.Errorf("elaborate: internal invariant violated: %w", e)
			} else {
				err = xerrors.Errorf("elaborate: internal invariant violated: %v", r)
			}
			out = nil
		}
	}()

	ctx := NewContext(in, cfg, rep)
	result := ir.NewSymbolTable()

	// The AnyHeapRef class and any RefEq-flagged function are
	// frontend scaffolding the Preamble Injector (C7) owns the
	// lifecycle of (spec §4.7): they exist only to drive C1/C2's
	// heap-class walk and are never meant to survive into the output
	// table. The Type Rewriter strips the AnyHeapRef flag from every
	// class it rewrites (spec §4.2, "the rewritten hierarchy no
	// longer needs the marker"), so by the time a rewritten class
	// would reach C7 its own flag check can no longer recognize it;
	// filtering by the *original* definition's flags here, before
	// rewriting, is what actually keeps them out of result.
	sortIDs := in.SortIDs()
	classIDs := filterIDs(in.ClassIDs(), func(id ir.ID) bool { return !in.Classes[id].Flags.Has(ir.AnyHeapRef) })
	funcIDs := filterIDs(in.FunctionIDs(), func(id ir.ID) bool { return !in.Functions[id].Flags.Has(ir.RefEq) })

	if !opts.Parallel {
		for _, id := range sortIDs {
			result = result.WithSort(ExtractSort(ctx, in.Sorts[id]))
		}
		for _, id := range classIDs {
			c, unapply := ExtractClass(ctx, in.Classes[id])
			result = result.WithClass(c)
			if unapply != nil {
				result = result.WithFunction(unapply)
			}
		}
		for _, id := range funcIDs {
			for _, f := range ExtractFunction(ctx, in.Functions[id]) {
				result = result.WithFunction(f)
			}
		}
		for _, a := range in.Aliases {
			result = result.WithAlias(ctx.Types.AliasDef(a))
		}
		return injectPreamble(result), nil
	}

	type classOut struct {
		class   *ir.ClassDef
		unapply *ir.FunDef
	}
	sortResults := make([]*ir.SortDef, len(sortIDs))
	classResults := make([]classOut, len(classIDs))
	funcResults := make([][]*ir.FunDef, len(funcIDs))

	g, gctx := errgroup.WithContext(context.Background())
	if opts.MaxConcurrency > 0 {
		g.SetLimit(opts.MaxConcurrency)
	}
	for i, id := range sortIDs {
		i, s := i, in.Sorts[id]
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			sortResults[i] = ExtractSort(ctx, s)
			return nil
		})
	}
	for i, id := range classIDs {
		i, c := i, in.Classes[id]
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			rewritten, unapply := ExtractClass(ctx, c)
			classResults[i] = classOut{class: rewritten, unapply: unapply}
			return nil
		})
	}
	for i, id := range funcIDs {
		i, f := i, in.Functions[id]
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			funcResults[i] = ExtractFunction(ctx, f)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, xerrors.Errorf("elaborate: %w", err)
	}

	for _, s := range sortResults {
		result = result.WithSort(s)
	}
	for _, co := range classResults {
		result = result.WithClass(co.class)
		if co.unapply != nil {
			result = result.WithFunction(co.unapply)
		}
	}
	for _, fs := range funcResults {
		for _, f := range fs {
			result = result.WithFunction(f)
		}
	}
	for _, a := range in.Aliases {
		result = result.WithAlias(ctx.Types.AliasDef(a))
	}

	return injectPreamble(result), nil
}

func filterIDs(ids []ir.ID, keep func(ir.ID) bool) []ir.ID {
	out := ids[:0:0]
	for _, id := range ids {
		if keep(id) {
			out = append(out, id)
		}
	}
	return out
}
