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

// Field is a single class field.
type Field struct {
	Name string
	Type Type
}

// ClassDef is a class declaration. Parents are walked by the
// Heap-Class Oracle (C1) to decide whether the class is heap-resident
// (spec §4.1).
type ClassDef struct {
	ID        ID
	TypeParam []string
	Parent    []Type
	Field     []Field
	Flags     FlagSet
	Pos       Pos
}

// SortDef is an uninterpreted or built-in sort declaration.
type SortDef struct {
	ID        ID
	TypeParam []string
	Pos       Pos
}

// TypeAliasDef aliases a name to an underlying type.
type TypeAliasDef struct {
	ID        ID
	TypeParam []string
	Underlying Type
	Pos        Pos
}

// Param is a function parameter.
type Param struct {
	Name string
	Type Type
}

// EnsuresClause binds a fresh result identifier to a postcondition
// expression (spec §4.6, "ensures(res => P)").
type EnsuresClause struct {
	ResultName string
	Cond       Expr
}

// Spec carries a function's specification clauses (spec §4.3).
type Spec struct {
	Requires  []Expr
	Reads     Expr // nil: no reads clause
	Modifies  Expr // nil: no modifies clause
	Decreases []Expr
	Ensures   []EnsuresClause
}

// HasReads reports whether the spec declares a reads clause.
func (s Spec) HasReads() bool { return s.Reads != nil }

// HasModifies reports whether the spec declares a modifies clause.
func (s Spec) HasModifies() bool { return s.Modifies != nil }

// FunDef is a function declaration, pure or effectful; the Function
// Splitter (C6) is the only component allowed to turn one FunDef into
// two (spec §4.6).
type FunDef struct {
	ID        ID
	TypeParam []string
	Param     []Param
	Ret       Type
	Spec      Spec
	Body      Expr
	Flags     FlagSet
	Pos       Pos

	// Unapply carries the isEmpty/get accessor ids for a function
	// synthesized by the Pattern Rewriter (C5) as a heap-class's
	// extractor (spec §4.5). Nil on every other function.
	Unapply *IsUnapplyFlag
}
