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
	"testing"

	"github.com/heapverify/effectelab/internal/pkg/config"
	"github.com/heapverify/effectelab/internal/pkg/effect"
	"github.com/heapverify/effectelab/internal/pkg/heapclass"
	"github.com/heapverify/effectelab/internal/pkg/ir"
	"github.com/heapverify/effectelab/internal/pkg/memo"
	"github.com/heapverify/effectelab/internal/pkg/reporter"
	"github.com/heapverify/effectelab/internal/pkg/typerewrite"
)

// recordingReporter captures every formatted message for assertions.
type recordingReporter struct{ msgs []string }

func (r *recordingReporter) Reportf(pos ir.Pos, format string, args ...interface{}) {
	r.msgs = append(r.msgs, sprintf(format, args...))
}

func sprintf(format string, args ...interface{}) string {
	// Matches fmt.Sprintf's %s handling for the single-argument messages
	// this pass emits, without importing fmt into the test for one call.
	out := format
	for _, a := range args {
		s, _ := a.(string)
		for i := 0; i < len(out)-1; i++ {
			if out[i] == '%' && out[i+1] == 's' {
				out = out[:i] + s + out[i+2:]
				break
			}
		}
	}
	return out
}

func heapClassFixture() (*ir.SymbolTable, *ir.ClassType) {
	anyHeapRef := &ir.ClassDef{ID: "AnyHeapRef", Flags: ir.NewFlagSet(ir.AnyHeapRef)}
	c := &ir.ClassDef{
		ID:     "C",
		Parent: []ir.Type{&ir.ClassType{Def: anyHeapRef}},
		Field:  []ir.Field{{Name: "v", Type: &ir.SortType{Def: &ir.SortDef{ID: "Int"}}}},
	}
	symbols := ir.NewSymbolTable().WithClass(anyHeapRef).WithClass(c)
	return symbols, &ir.ClassType{Def: c}
}

func newRewriter(symbols *ir.SymbolTable, rep reporter.Reporter) *Rewriter {
	oracle := heapclass.New(symbols)
	types := typerewrite.New(oracle, rep)
	effects := effect.New()
	shims := memo.New[ir.ID, ir.ID]()
	return New(symbols, oracle, types, effects, shims, config.Default(), rep)
}

func TestFieldReadRestrictedAssertsMembership(t *testing.T) {
	symbols, cType := heapClassFixture()
	rep := &recordingReporter{}
	r := newRewriter(symbols, rep)

	heapVar := ir.NewVar(ir.NoPos, ir.HeapType{}, "heap")
	frameSet := ir.NewVar(ir.NoPos, ir.HeapRefSetType{}, "rds")
	env := Env{HeapVd: heapVar, ReadsVd: Restricted(frameSet)}

	obj := ir.NewVar(ir.NoPos, cType, "c")
	read := ir.NewFieldRead(ir.NoPos, &ir.SortType{Def: &ir.SortDef{ID: "Int"}}, obj, "v")

	got := r.Expr(env, read)

	assert, ok := got.(*ir.Assert)
	if !ok {
		t.Fatalf("FieldRead under a restricted reads frame = %T, want *ir.Assert", got)
	}
	if _, ok := assert.Cond.(*ir.SetContains); !ok {
		t.Errorf("Assert.Cond = %T, want *ir.SetContains", assert.Cond)
	}
	proj, ok := assert.Then.(*ir.FieldRead)
	if !ok {
		t.Fatalf("Assert.Then = %T, want *ir.FieldRead", assert.Then)
	}
	if _, ok := proj.Recv.(*ir.AssumeType); !ok {
		t.Errorf("FieldRead.Recv = %T, want *ir.AssumeType", proj.Recv)
	}
	if len(rep.msgs) != 0 {
		t.Errorf("unexpected diagnostics: %v", rep.msgs)
	}
}

func TestFieldReadMissingReadsClauseReportsError(t *testing.T) {
	symbols, cType := heapClassFixture()
	rep := &recordingReporter{}
	r := newRewriter(symbols, rep)

	// Zero Env: no reads clause at all (spec §8 scenario S6).
	obj := ir.NewVar(ir.NoPos, cType, "c")
	read := ir.NewFieldRead(ir.NoPos, &ir.SortType{Def: &ir.SortDef{ID: "Int"}}, obj, "v")

	r.Expr(Env{}, read)

	if len(rep.msgs) != 1 {
		t.Fatalf("got %d diagnostics, want 1: %v", len(rep.msgs), rep.msgs)
	}
	want := "Cannot read from heap object without a reads clause"
	if rep.msgs[0] != want {
		t.Errorf("diagnostic = %q, want %q", rep.msgs[0], want)
	}
}

func TestFieldWriteMissingModifiesClauseReportsError(t *testing.T) {
	symbols, cType := heapClassFixture()
	rep := &recordingReporter{}
	r := newRewriter(symbols, rep)

	obj := ir.NewVar(ir.NoPos, cType, "c")
	write := &ir.FieldWrite{Recv: obj, Field: "v", Value: ir.NewLit(ir.NoPos, &ir.SortType{Def: &ir.SortDef{ID: "Int"}}, 1)}

	r.Expr(Env{}, write)

	if len(rep.msgs) != 1 || rep.msgs[0] != "Cannot write to heap object without a modifies clause" {
		t.Fatalf("diagnostics = %v, want [missing-modifies]", rep.msgs)
	}
}

func TestFieldWriteReadOnlyContextReportsError(t *testing.T) {
	symbols, cType := heapClassFixture()
	rep := &recordingReporter{}
	r := newRewriter(symbols, rep)

	heapVar := ir.NewVar(ir.NoPos, ir.HeapType{}, "heap")
	env := Env{HeapVd: heapVar, ReadsVd: AllowAll(), ModifiesVd: Forbidden()}

	obj := ir.NewVar(ir.NoPos, cType, "c")
	write := &ir.FieldWrite{Recv: obj, Field: "v", Value: ir.NewLit(ir.NoPos, &ir.SortType{Def: &ir.SortDef{ID: "Int"}}, 1)}

	r.Expr(env, write)

	if len(rep.msgs) != 1 || rep.msgs[0] != "Can't modify heap in read-only context" {
		t.Fatalf("diagnostics = %v, want [read-only-write]", rep.msgs)
	}
}

func TestFieldWriteRewritesToHeapUpdateAndUnit(t *testing.T) {
	symbols, cType := heapClassFixture()
	rep := &recordingReporter{}
	r := newRewriter(symbols, rep)

	heapVar := ir.NewVar(ir.NoPos, ir.HeapType{}, "heap")
	env := Env{HeapVd: heapVar, ReadsVd: AllowAll(), ModifiesVd: AllowAll()}

	obj := ir.NewVar(ir.NoPos, cType, "c")
	write := &ir.FieldWrite{Recv: obj, Field: "v", Value: ir.NewLit(ir.NoPos, &ir.SortType{Def: &ir.SortDef{ID: "Int"}}, 1)}

	got, ok := r.Expr(env, write).(*ir.Block)
	if !ok {
		t.Fatalf("FieldWrite rewrite = %T, want *ir.Block", r.Expr(env, write))
	}
	if len(got.Stmt) != 2 {
		t.Fatalf("Block has %d statements, want 2 (assign, unit)", len(got.Stmt))
	}
	assign, ok := got.Stmt[0].(*ir.Assign)
	if !ok {
		t.Fatalf("Block.Stmt[0] = %T, want *ir.Assign", got.Stmt[0])
	}
	if assign.Name != heapVar.Name {
		t.Errorf("Assign.Name = %s, want %s", assign.Name, heapVar.Name)
	}
	if _, ok := assign.Value.(*ir.HeapUpdate); !ok {
		t.Errorf("Assign.Value = %T, want *ir.HeapUpdate", assign.Value)
	}
	if len(rep.msgs) != 0 {
		t.Errorf("unexpected diagnostics: %v", rep.msgs)
	}
}

func TestCallPureCalleeTargetUnchanged(t *testing.T) {
	symbols, _ := heapClassFixture()
	pure := &ir.FunDef{ID: "double", Param: []ir.Param{{Name: "x", Type: &ir.SortType{Def: &ir.SortDef{ID: "Int"}}}}, Ret: &ir.SortType{Def: &ir.SortDef{ID: "Int"}}}
	symbols = symbols.WithFunction(pure)
	rep := &recordingReporter{}
	r := newRewriter(symbols, rep)

	call := ir.NewCall(ir.NoPos, pure.Ret, pure.ID, nil, []ir.Expr{ir.NewLit(ir.NoPos, pure.Ret, 1)})
	got, ok := r.Expr(Env{}, call).(*ir.Call)
	if !ok {
		t.Fatalf("Call rewrite = %T, want *ir.Call", r.Expr(Env{}, call))
	}
	if got.Target != pure.ID {
		t.Errorf("Target = %s, want unchanged %s", got.Target, pure.ID)
	}
}

func TestCallEffectfulWritesCalleeRedirectsToShimAndThreadsHeap(t *testing.T) {
	symbols, cType := heapClassFixture()
	readsExpr := ir.NewVar(ir.NoPos, ir.HeapRefSetType{}, "rds")
	effectful := &ir.FunDef{
		ID:    "touch",
		Param: []ir.Param{{Name: "c", Type: cType}},
		Ret:   ir.UnitType(),
		Spec:  ir.Spec{Reads: readsExpr, Modifies: readsExpr},
	}
	symbols = symbols.WithFunction(effectful)
	rep := &recordingReporter{}
	r := newRewriter(symbols, rep)

	heapVar := ir.NewVar(ir.NoPos, ir.HeapType{}, "heap")
	restrictedReads := ir.NewVar(ir.NoPos, ir.HeapRefSetType{}, "reads")
	env := Env{HeapVd: heapVar, ReadsVd: Restricted(restrictedReads), ModifiesVd: AllowAll()}

	arg := ir.NewVar(ir.NoPos, cType, "c")
	call := ir.NewCall(ir.NoPos, ir.UnitType(), effectful.ID, nil, []ir.Expr{arg})

	got, ok := r.Expr(env, call).(*ir.Let)
	if !ok {
		t.Fatalf("effectful Call rewrite = %T, want *ir.Let", r.Expr(env, call))
	}
	inner, ok := got.Value.(*ir.Call)
	if !ok {
		t.Fatalf("Let.Value = %T, want *ir.Call", got.Value)
	}
	if inner.Target != ShimID(effectful.ID) {
		t.Errorf("Call.Target = %s, want %s", inner.Target, ShimID(effectful.ID))
	}
	// heap, readsDom, modifiesDom, c: the callee writes, so all three
	// domain args precede the real argument (split/shim.go:34-53).
	if len(inner.Arg) != 4 {
		t.Fatalf("shim call has %d args, want 4 (heap, readsDom, modifiesDom, c)", len(inner.Arg))
	}
	if inner.Arg[0] != ir.Expr(heapVar) {
		t.Errorf("shim arg[0] = %v, want the caller's heap variable", inner.Arg[0])
	}
	if inner.Arg[1] != ir.Expr(restrictedReads) {
		t.Errorf("shim arg[1] = %v, want the caller's restricted reads set", inner.Arg[1])
	}
	modifiesArg, ok := inner.Arg[2].(*ir.Var)
	if !ok || modifiesArg.Name != ir.EmptyHeapRefSetID {
		t.Errorf("shim arg[2] = %v, want the empty set (caller's modifies is unrestricted)", inner.Arg[2])
	}
	if av, ok := inner.Arg[3].(*ir.Var); !ok || av.Name != arg.Name {
		t.Errorf("shim arg[3] = %v, want the (rewritten) real argument %q", inner.Arg[3], arg.Name)
	}
	block, ok := got.Body.(*ir.Block)
	if !ok {
		t.Fatalf("Let.Body = %T, want *ir.Block", got.Body)
	}
	assign, ok := block.Stmt[0].(*ir.Assign)
	if !ok || assign.Name != heapVar.Name {
		t.Fatalf("Block.Stmt[0] = %v, want an Assign back into %s", block.Stmt[0], heapVar.Name)
	}
}

// TestCallEffectfulReadsOnlyCalleeReturnsValueDirectly covers spec
// invariant 3: a Reads-only callee's shim returns just the result
// (split/shim.go:71-75's non-writes branch), not a (result, heap)
// pair, so the call site must not unpack a tuple or reassign the
// caller's heap variable.
func TestCallEffectfulReadsOnlyCalleeReturnsValueDirectly(t *testing.T) {
	symbols, cType := heapClassFixture()
	intType := &ir.SortType{Def: &ir.SortDef{ID: "Int"}}
	readsExpr := ir.NewVar(ir.NoPos, ir.HeapRefSetType{}, "rds")
	effectful := &ir.FunDef{
		ID:    "peekAt",
		Param: []ir.Param{{Name: "c", Type: cType}},
		Ret:   intType,
		Spec:  ir.Spec{Reads: readsExpr},
	}
	symbols = symbols.WithFunction(effectful)
	rep := &recordingReporter{}
	r := newRewriter(symbols, rep)

	heapVar := ir.NewVar(ir.NoPos, ir.HeapType{}, "heap")
	restrictedReads := ir.NewVar(ir.NoPos, ir.HeapRefSetType{}, "reads")
	env := Env{HeapVd: heapVar, ReadsVd: Restricted(restrictedReads)}

	arg := ir.NewVar(ir.NoPos, cType, "c")
	call := ir.NewCall(ir.NoPos, intType, effectful.ID, nil, []ir.Expr{arg})

	got, ok := r.Expr(env, call).(*ir.Call)
	if !ok {
		t.Fatalf("reads-only effectful Call rewrite = %T, want *ir.Call (no tuple unpacking)", r.Expr(env, call))
	}
	if got.Target != ShimID(effectful.ID) {
		t.Errorf("Call.Target = %s, want %s", got.Target, ShimID(effectful.ID))
	}
	// heap, readsDom, c: no modifiesDom for a callee that does not write.
	if len(got.Arg) != 3 {
		t.Fatalf("shim call has %d args, want 3 (heap, readsDom, c)", len(got.Arg))
	}
	if got.Arg[0] != ir.Expr(heapVar) {
		t.Errorf("shim arg[0] = %v, want the caller's heap variable", got.Arg[0])
	}
	if got.Arg[1] != ir.Expr(restrictedReads) {
		t.Errorf("shim arg[1] = %v, want the caller's restricted reads set", got.Arg[1])
	}
	if av, ok := got.Arg[2].(*ir.Var); !ok || av.Name != arg.Name {
		t.Errorf("shim arg[2] = %v, want the (rewritten) real argument %q", got.Arg[2], arg.Name)
	}
	if len(rep.msgs) != 0 {
		t.Errorf("unexpected diagnostics: %v", rep.msgs)
	}
}

func TestCallEffectfulCalleeWithoutHeapReportsError(t *testing.T) {
	symbols, cType := heapClassFixture()
	readsExpr := ir.NewVar(ir.NoPos, ir.HeapRefSetType{}, "rds")
	effectful := &ir.FunDef{
		ID:    "touch",
		Param: []ir.Param{{Name: "c", Type: cType}},
		Ret:   ir.UnitType(),
		Spec:  ir.Spec{Reads: readsExpr},
	}
	symbols = symbols.WithFunction(effectful)
	rep := &recordingReporter{}
	r := newRewriter(symbols, rep)

	arg := ir.NewVar(ir.NoPos, cType, "c")
	call := ir.NewCall(ir.NoPos, ir.UnitType(), effectful.ID, nil, []ir.Expr{arg})

	r.Expr(Env{}, call)

	if len(rep.msgs) != 1 {
		t.Fatalf("diagnostics = %v, want exactly one missing-heap error", rep.msgs)
	}
}
