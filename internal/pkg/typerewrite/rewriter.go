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

// Package typerewrite implements the Type Rewriter (C2): mapping
// heap-class types to HeapRef and recursively rewriting class/sort/
// alias declarations (spec §4.2). The recursive-descent-with-a-
// classifying-base-case shape follows the teacher's
// source.IsSourceType, which recurses through array/slice/chan/map/
// struct shapes after checking the named type at the root.
package typerewrite

import (
	"fmt"

	"github.com/heapverify/effectelab/internal/pkg/heapclass"
	"github.com/heapverify/effectelab/internal/pkg/ir"
	"github.com/heapverify/effectelab/internal/pkg/reporter"
)

// Rewriter rewrites ir.Type values and the definitions that contain
// them.
type Rewriter struct {
	oracle *heapclass.Oracle
	rep    reporter.Reporter
}

// New creates a Rewriter backed by oracle. rep receives the one
// user-program diagnostic this component can raise: a function-valued
// field on a heap-class (spec §9, Open Question).
func New(oracle *heapclass.Oracle, rep reporter.Reporter) *Rewriter {
	return &Rewriter{oracle: oracle, rep: rep}
}

// Type rewrites t, replacing every heap-class occurrence with
// ir.HeapRefType (spec §3, invariant 2). The result is structurally
// idempotent: rewriting an already-rewritten tree returns an equal
// tree (spec §4.2, §8 property 7).
func (r *Rewriter) Type(t ir.Type) ir.Type {
	switch tt := t.(type) {
	case *ir.ClassType:
		if r.oracle.IsHeapType(tt) {
			return ir.HeapRefType{}
		}
		return &ir.ClassType{Def: tt.Def, TypeArg: r.typeList(tt.TypeArg)}
	case *ir.SortType:
		return &ir.SortType{Def: tt.Def, TypeArg: r.typeList(tt.TypeArg)}
	case *ir.TypeParam:
		return tt
	case *ir.FunctionType:
		return &ir.FunctionType{Param: r.typeList(tt.Param), Ret: r.Type(tt.Ret)}
	case *ir.TupleType:
		return &ir.TupleType{Elem: r.typeList(tt.Elem)}
	case *ir.OptionType:
		return &ir.OptionType{Elem: r.Type(tt.Elem)}
	case ir.HeapRefType, ir.HeapType, ir.HeapRefSetType:
		// Already in output form; idempotent no-op.
		return tt
	default:
		panic(fmt.Sprintf("typerewrite: unhandled type %T", t))
	}
}

func (r *Rewriter) typeList(ts []ir.Type) []ir.Type {
	if ts == nil {
		return nil
	}
	out := make([]ir.Type, len(ts))
	for i, t := range ts {
		out[i] = r.Type(t)
	}
	return out
}

// ClassDef rewrites a class definition: its parent list is filtered to
// remove the AnyHeapRef marker (spec §4.2), and its fields and type
// arguments are recursively rewritten. A function-valued field on a
// heap-resident class is a user-program error (spec §9, Open
// Question): this module does not attempt to thread the heap through
// first-class functions, so it rejects the program instead of silently
// miscompiling it.
func (r *Rewriter) ClassDef(c *ir.ClassDef) *ir.ClassDef {
	isHeap := r.oracle.IsHeapType(&ir.ClassType{Def: c})

	fields := make([]ir.Field, len(c.Field))
	for i, f := range c.Field {
		if isHeap {
			if _, isFunc := f.Type.(*ir.FunctionType); isFunc {
				r.rep.Reportf(c.Pos, "Cannot store a function value in a heap-class field")
			}
		}
		fields[i] = ir.Field{Name: f.Name, Type: r.Type(f.Type)}
	}

	var parents []ir.Type
	for _, p := range c.Parent {
		if ct, ok := p.(*ir.ClassType); ok && ct.Def.Flags.Has(ir.AnyHeapRef) {
			continue
		}
		parents = append(parents, r.Type(p))
	}

	return &ir.ClassDef{
		ID:        c.ID,
		TypeParam: c.TypeParam,
		Parent:    parents,
		Field:     fields,
		Flags:     c.Flags.Without(ir.AnyHeapRef),
		Pos:       c.Pos,
	}
}

// SortDef performs a recursive rewrite only; sorts carry no types of
// their own beyond their type parameters, so this is an identity
// transform retained for symmetry with ClassDef/AliasDef and to give
// C6/C7 one uniform "rewrite this definition" entry point per kind.
func (r *Rewriter) SortDef(s *ir.SortDef) *ir.SortDef {
	return &ir.SortDef{ID: s.ID, TypeParam: s.TypeParam, Pos: s.Pos}
}

// AliasDef recursively rewrites the alias's underlying type.
func (r *Rewriter) AliasDef(a *ir.TypeAliasDef) *ir.TypeAliasDef {
	return &ir.TypeAliasDef{
		ID:         a.ID,
		TypeParam:  a.TypeParam,
		Underlying: r.Type(a.Underlying),
		Pos:        a.Pos,
	}
}
