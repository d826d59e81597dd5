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

import "fmt"

// Type is the closed set of type shapes this pass understands. It
// plays the role types.Type plays for real Go source, but the variant
// is closed (a type switch over it can be exhaustive) rather than an
// open interface satisfied by arbitrary implementations, following the
// "closed variant for expression kinds" design called for by spec §9.
type Type interface {
	fmt.Stringer
	isType()
}

// ClassType refers to a declared class, with instantiated type
// arguments.
type ClassType struct {
	Def     *ClassDef
	TypeArg []Type
}

func (*ClassType) isType() {}
func (t *ClassType) String() string {
	return formatGeneric(string(t.Def.ID), t.TypeArg)
}

// SortType refers to an uninterpreted or built-in sort.
type SortType struct {
	Def     *SortDef
	TypeArg []Type
}

func (*SortType) isType() {}
func (t *SortType) String() string {
	return formatGeneric(string(t.Def.ID), t.TypeArg)
}

// TypeParam is a reference to an enclosing declaration's type
// parameter.
type TypeParam struct {
	Name string
}

func (*TypeParam) isType() {}
func (t *TypeParam) String() string { return t.Name }

// FunctionType is the type of a function value. Spec §9's Open
// Question forbids storing one of these in a heap-class field; see
// typerewrite.Rewriter.ClassDef.
type FunctionType struct {
	Param []Type
	Ret   Type
}

func (*FunctionType) isType() {}
func (t *FunctionType) String() string {
	return fmt.Sprintf("(%s) => %s", formatList(t.Param), t.Ret)
}

// TupleType is a fixed-arity product type, used for the
// (result, Heap) pair result of a writing inner function (spec §4.6).
type TupleType struct {
	Elem []Type
}

func (*TupleType) isType() {}
func (t *TupleType) String() string {
	return fmt.Sprintf("(%s)", formatList(t.Elem))
}

// HeapRefType is the opaque reference type every heap-class type is
// rewritten to (spec §3, invariant 2).
type HeapRefType struct{}

func (HeapRefType) isType()        {}
func (HeapRefType) String() string { return "HeapRef" }

// HeapType is the type of the heap value: a finite map from HeapRef to
// the dynamic class value (spec §3).
type HeapType struct{}

func (HeapType) isType()        {}
func (HeapType) String() string { return "Heap" }

// HeapRefSetType is the type of a reads/modifies frame.
type HeapRefSetType struct{}

func (HeapRefSetType) isType()        {}
func (HeapRefSetType) String() string { return "HeapRefSet" }

// OptionType is the synthesized two-variant sum imported from the
// standard support library (spec §3).
type OptionType struct {
	Elem Type
}

func (*OptionType) isType() {}
func (t *OptionType) String() string {
	return fmt.Sprintf("Option[%s]", t.Elem)
}

func formatGeneric(name string, targs []Type) string {
	if len(targs) == 0 {
		return name
	}
	return fmt.Sprintf("%s[%s]", name, formatList(targs))
}

func formatList(ts []Type) string {
	s := ""
	for i, t := range ts {
		if i > 0 {
			s += ", "
		}
		s += t.String()
	}
	return s
}

// Equal reports whether a and b denote the same type, the way
// go/types.Identical compares two types.Type values. typeArgsEqual
// below is its only caller; package typerewrite's own tests compare
// ir.Type values with cmp.Diff instead, since every concrete ir.Type
// is a plain exported struct and needs no custom equality.
func Equal(a, b Type) bool {
	switch at := a.(type) {
	case *ClassType:
		bt, ok := b.(*ClassType)
		return ok && at.Def == bt.Def && typeArgsEqual(at.TypeArg, bt.TypeArg)
	case *SortType:
		bt, ok := b.(*SortType)
		return ok && at.Def == bt.Def && typeArgsEqual(at.TypeArg, bt.TypeArg)
	case *TypeParam:
		bt, ok := b.(*TypeParam)
		return ok && at.Name == bt.Name
	case *FunctionType:
		bt, ok := b.(*FunctionType)
		if !ok || !Equal(at.Ret, bt.Ret) {
			return false
		}
		return typeArgsEqual(at.Param, bt.Param)
	case *TupleType:
		bt, ok := b.(*TupleType)
		return ok && typeArgsEqual(at.Elem, bt.Elem)
	case HeapRefType:
		_, ok := b.(HeapRefType)
		return ok
	case HeapType:
		_, ok := b.(HeapType)
		return ok
	case HeapRefSetType:
		_, ok := b.(HeapRefSetType)
		return ok
	case *OptionType:
		bt, ok := b.(*OptionType)
		return ok && Equal(at.Elem, bt.Elem)
	case DynClassType:
		_, ok := b.(DynClassType)
		return ok
	default:
		return false
	}
}

func typeArgsEqual(a, b []Type) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}
