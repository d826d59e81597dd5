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

// This file collects the handful of built-in identifiers and types
// this pass relies on but does not itself define: they are assumed to
// be part of the frontend's own standard environment (Bool, true,
// equality, empty-set), the same way the teacher's code assumes
// go/types.Universe already has bool/int/string without declaring
// them itself.

// BoolSort is the frontend's boolean sort. This pass never declares
// it; it references it by identity when it needs to type a comparison
// or assertion condition it synthesizes.
var BoolSort = &SortDef{ID: "Bool"}

// BoolType returns the boolean type.
func BoolType() Type { return &SortType{Def: BoolSort} }

// True builds the literal `true`.
func True(pos Pos) Expr {
	return &Lit{base: base{P: pos, T: BoolType()}, Value: true}
}

// EqualsID is the frontend-provided pure polymorphic equality
// function that `RefEq(a, b)` rewrites to (spec §4.4).
const EqualsID ID = "Equals"

// AndID, OrID and NotID are the frontend-provided boolean connectives
// this pass builds into synthesized conditions (e.g. a synthesized
// unapply_C's requires clause, spec §4.5), the same way EqualsID is
// assumed rather than declared.
const (
	AndID ID = "And"
	OrID  ID = "Or"
	NotID ID = "Not"
)

// And builds `a && b`.
func And(pos Pos, a, b Expr) Expr {
	return NewCall(pos, BoolType(), AndID, nil, []Expr{a, b})
}

// Or builds `a || b`.
func Or(pos Pos, a, b Expr) Expr {
	return NewCall(pos, BoolType(), OrID, nil, []Expr{a, b})
}

// Not builds `!a`.
func Not(pos Pos, a Expr) Expr {
	return NewCall(pos, BoolType(), NotID, nil, []Expr{a})
}

// EmptyHeapRefSetID is the frontend-provided empty-set constant used
// as the fallback frame when a reads/modifies clause is missing and
// this pass must keep rewriting after reporting the error (spec §7:
// "an empty frame set").
const EmptyHeapRefSetID ID = "emptyHeapRefSet"

// EmptyHeapRefSet builds a reference to the empty HeapRefSet constant.
func EmptyHeapRefSet(pos Pos) Expr {
	return NewVar(pos, HeapRefSetType{}, EmptyHeapRefSetID)
}

// DummyHeapVarID names the placeholder heap variable substituted when
// a heap-accessing construct appears where no heap is bound (spec §7).
// It is distinct from the dummyHeap constant the Preamble Injector
// (C7) adds to the output symbol table: that one is the fallback side
// of the mapMerge that builds every shim's heapIn; this one exists
// purely so error recovery can keep producing well-typed output.
const DummyHeapVarID ID = "$dummyHeap"

// DummyHeapVar builds a reference to the placeholder heap variable.
func DummyHeapVar(pos Pos) Expr {
	return NewVar(pos, HeapType{}, DummyHeapVarID)
}

// DummyHeapConstID names the nullary Heap-valued constant the
// Preamble Injector (C7) adds to the output symbol table (spec §4.7).
// The Function Splitter (C6) uses it as mapMerge's fallback value for
// heap positions outside a shim's reads domain, where the value can
// never actually be observed.
const DummyHeapConstID ID = "dummyHeap"

// DummyHeapConst builds a reference to the dummyHeap constant.
func DummyHeapConst(pos Pos) Expr {
	return NewVar(pos, HeapType{}, DummyHeapConstID)
}

// DynClassType is the type of a value read out of the heap before its
// dynamic class has been confirmed: the heap's codomain. A field
// projection narrows it to a concrete ClassType via AssumeType; a type
// test (`is C`) can be checked directly against it.
type DynClassType struct{}

func (DynClassType) isType()        {}
func (DynClassType) String() string { return "DynClass" }

// UnitType is the type of a heap-write statement's result, modeled as
// the empty tuple rather than adding a dedicated sort.
func UnitType() Type { return &TupleType{} }

// Unit builds the single empty-tuple value of UnitType.
func Unit(pos Pos) Expr {
	return &Tuple{base: base{P: pos, T: UnitType()}}
}

// OptionSort names the two-variant sum the Preamble Injector (C7)
// seeds into the output symbol table (spec §4.7); C5 references the
// same identifiers when it builds `none`/`some(...)` values for a
// synthesized unapply_C's result and a pattern's ReadsArg, so the ids
// live here where both packages can see them without importing C7.
var OptionSort = &SortDef{ID: "Option", TypeParam: []string{"T"}}

// NewOptionType builds Option<elem>.
func NewOptionType(elem Type) Type { return &OptionType{Elem: elem} }

// NoneID, SomeID, IsEmptyID and GetID name the Option sort's
// constructors and accessors (spec §4.7's "none/some/isEmpty/get").
const (
	NoneID    ID = "none"
	SomeID    ID = "some"
	IsEmptyID ID = "isEmpty"
	GetID     ID = "get"
)

// None builds `none` at Option<elem>.
func None(pos Pos, elem Type) Expr {
	return NewCall(pos, NewOptionType(elem), NoneID, []Type{elem}, nil)
}

// Some builds `some(value)`.
func Some(pos Pos, elem Type, value Expr) Expr {
	return NewCall(pos, NewOptionType(elem), SomeID, []Type{elem}, []Expr{value})
}

// AssumeType narrows a DynClassType-typed value to Class, modeling
// spec §4.4's "assume the read value has class type C" step of
// rewriting a field read. The downstream verification-condition
// generator (out of scope) is expected to treat this as an assumption,
// not a checked cast.
type AssumeType struct {
	base
	Operand Expr
	Class   Type
}

func (*AssumeType) isExpr() {}

// NewAssumeType builds an AssumeType narrowing operand to class.
func NewAssumeType(pos Pos, operand Expr, class Type) *AssumeType {
	return &AssumeType{base: base{P: pos, T: class}, Operand: operand, Class: class}
}
