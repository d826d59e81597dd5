// Copyright 2019 Google LLC
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

package ir

// This file collects small constructors for nodes that the rewriting
// passes synthesize often. They exist purely to keep call sites in
// rewrite/split/pattern free of repeated base{...} literals; they do
// not add behavior.

// NewVar builds a variable reference.
func NewVar(pos Pos, typ Type, name ID) *Var {
	return &Var{base: base{P: pos, T: typ}, Name: name}
}

// NewLit builds a literal of the given type and Go value.
func NewLit(pos Pos, typ Type, value interface{}) *Lit {
	return &Lit{base: base{P: pos, T: typ}, Value: value}
}

// NewHeapRead builds a `heap(ref)` map read.
func NewHeapRead(pos Pos, elemType Type, heap, ref Expr) *HeapRead {
	return &HeapRead{base: base{P: pos, T: elemType}, Heap: heap, Ref: ref}
}

// NewHeapUpdate builds a `heap[ref := value]` map update; its type is
// always Heap.
func NewHeapUpdate(pos Pos, heap, ref, value Expr) *HeapUpdate {
	return &HeapUpdate{base: base{P: pos, T: HeapType{}}, Heap: heap, Ref: ref, Value: value}
}

// NewAssert builds a frame-condition assertion. Callers that need the
// check-heap-contracts-disabled behavior should not call this at all
// and should use Then directly instead (see config.Config.
// CheckHeapContracts).
func NewAssert(pos Pos, cond, then Expr) *Assert {
	return &Assert{base: base{P: pos, T: then.Type()}, Cond: cond, Then: then}
}

// NewSetContains builds `elem ∈ set`, typed as a value-level boolean
// sort reference supplied by the caller (this package has no built-in
// Bool type; callers pass the frontend's own boolean sort type).
func NewSetContains(pos Pos, boolType Type, elem, set Expr) *SetContains {
	return &SetContains{base: base{P: pos, T: boolType}, Elem: elem, Set: set}
}

// NewSetSubset builds `sub ⊆ super`.
func NewSetSubset(pos Pos, boolType Type, sub, super Expr) *SetSubset {
	return &SetSubset{base: base{P: pos, T: boolType}, Sub: sub, Super: super}
}

// NewMapMerge builds `mapMerge(set, a, b)`; its type is Heap.
func NewMapMerge(pos Pos, set, a, b Expr) *MapMerge {
	return &MapMerge{base: base{P: pos, T: HeapType{}}, Set: set, A: a, B: b}
}

// NewCall builds a call to target with the given arguments and result
// type.
func NewCall(pos Pos, resultType Type, target ID, typeArg []Type, arg []Expr) *Call {
	return &Call{base: base{P: pos, T: resultType}, Target: target, TypeArg: typeArg, Arg: arg}
}

// NewTuple builds a tuple literal; its type is the tuple of its
// elements' types.
func NewTuple(pos Pos, elems ...Expr) *Tuple {
	ts := make([]Type, len(elems))
	for i, e := range elems {
		ts[i] = e.Type()
	}
	return &Tuple{base: base{P: pos, T: &TupleType{Elem: ts}}, Elem: elems}
}

// NewTupleAccess projects component i of a tuple-typed operand.
func NewTupleAccess(pos Pos, operand Expr, index int) *TupleAccess {
	tt, ok := operand.Type().(*TupleType)
	var elemType Type
	if ok && index < len(tt.Elem) {
		elemType = tt.Elem[index]
	}
	return &TupleAccess{base: base{P: pos, T: elemType}, Operand: operand, Index: index}
}

// NewLet builds a non-mutable let-binding.
func NewLet(pos Pos, name ID, value, body Expr) *Let {
	return &Let{base: base{P: pos, T: body.Type()}, Name: name, Value: value, Body: body}
}

// NewMutableLet builds a mutable let-binding, used for the inner
// body's local heap variable (spec §4.6).
func NewMutableLet(pos Pos, name ID, value, body Expr) *Let {
	return &Let{base: base{P: pos, T: body.Type()}, Name: name, Value: value, Mutable: true, Body: body}
}

// NewAssign builds a mutable-variable update; its type is Unit-like
// (callers that need a concrete Unit type pass SortType for it through
// the enclosing Block, this node itself carries the assigned value's
// type since that is all a heap-reassignment needs downstream).
func NewAssign(pos Pos, name ID, value Expr) *Assign {
	return &Assign{base: base{P: pos, T: value.Type()}, Name: name, Value: value}
}

// NewBlock sequences stmts, evaluating to the last one's type (or to
// nil Type if stmts is empty, which should not happen in well-formed
// output).
func NewBlock(pos Pos, stmt ...Expr) *Block {
	var t Type
	if len(stmt) > 0 {
		t = stmt[len(stmt)-1].Type()
	}
	return &Block{base: base{P: pos, T: t}, Stmt: stmt}
}

// NewChoose builds a non-deterministic HeapRef allocation.
func NewChoose(pos Pos, cond Expr) *Choose {
	return &Choose{base: base{P: pos, T: HeapRefType{}}, Cond: cond}
}

// NewIf builds a conditional; its type follows the then-branch, which
// every caller in this pass keeps in lockstep with the else-branch.
func NewIf(pos Pos, cond, then, els Expr) *If {
	return &If{base: base{P: pos, T: then.Type()}, Cond: cond, Then: then, Else: els}
}

// NewMatch builds a pattern match of the given result type.
func NewMatch(pos Pos, typ Type, scrutinee Expr, cases []MatchCase) *Match {
	return &Match{base: base{P: pos, T: typ}, Scrutinee: scrutinee, Case: cases}
}

// NewFieldRead builds a field projection of the given result type.
func NewFieldRead(pos Pos, typ Type, recv Expr, field string) *FieldRead {
	return &FieldRead{base: base{P: pos, T: typ}, Recv: recv, Field: field}
}

// NewTypeTest builds a dynamic-type test; always boolean-typed.
func NewTypeTest(pos Pos, recv Expr, class Type) *TypeTest {
	return &TypeTest{base: base{P: pos, T: BoolType()}, Recv: recv, Class: class}
}

// NewFieldUpdate builds a value-level functional record update.
func NewFieldUpdate(pos Pos, operand Expr, field string, value Expr) *FieldUpdate {
	return &FieldUpdate{base: base{P: pos, T: DynClassType{}}, Operand: operand, Field: field, Value: value}
}

// NewOld builds an `old(operand)` reference, its type equal to
// operand's.
func NewOld(pos Pos, operand Expr) *Old {
	return &Old{base: base{P: pos, T: operand.Type()}, Operand: operand}
}

// NewClassValue builds the raw stored shape of a class instance: the
// Heap's codomain value a HeapUpdate writes and a HeapRead reads back,
// as opposed to ir.New's use as a value-class constructor expression.
// class should be the class's own (unrewritten) type identity, used
// here purely as a tag for the stored shape.
func NewClassValue(pos Pos, class Type, arg []Expr) *New {
	return &New{base: base{P: pos, T: DynClassType{}}, Class: class, Arg: arg}
}

// NewNew builds a value-class constructor call of the given result
// type, used when rewriting `new C(args)` for a non-heap class.
func NewNew(pos Pos, typ Type, class Type, arg []Expr) *New {
	return &New{base: base{P: pos, T: typ}, Class: class, Arg: arg}
}

// NewWildcardPattern builds a `_` pattern.
func NewWildcardPattern(pos Pos) *WildcardPattern {
	return &WildcardPattern{patternBase: patternBase{P: pos}}
}

// NewVarPattern builds a binding pattern.
func NewVarPattern(pos Pos, name ID) *VarPattern {
	return &VarPattern{patternBase: patternBase{P: pos}, Name: name}
}

// NewLitPattern builds a literal pattern.
func NewLitPattern(pos Pos, value interface{}) *LitPattern {
	return &LitPattern{patternBase: patternBase{P: pos}, Value: value}
}

// NewClassPattern builds a class-shape pattern `C(sub...)`.
func NewClassPattern(pos Pos, class Type, typeArg []Type, sub []Pattern) *ClassPattern {
	return &ClassPattern{patternBase: patternBase{P: pos}, Class: class, TypeArg: typeArg, Sub: sub}
}

// NewUnapplyPattern builds the extractor-call pattern C5 rewrites a
// heap-class ClassPattern into (spec §4.5). scrutinee may be left nil
// by a caller that fills it in once the enclosing Match's own
// scrutinee has been rewritten (see rewrite.rewriteMatch).
func NewUnapplyPattern(pos Pos, unapply ID, typeArg []Type, heapArg, readsArg, scrutinee Expr, sub []Pattern) *UnapplyPattern {
	return &UnapplyPattern{
		patternBase: patternBase{P: pos},
		Unapply:     unapply,
		TypeArg:     typeArg,
		HeapArg:     heapArg,
		ReadsArg:    readsArg,
		Scrutinee:   scrutinee,
		Sub:         sub,
	}
}
