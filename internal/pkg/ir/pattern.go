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

// Pattern is the closed set of pattern forms (spec §4.5).
type Pattern interface {
	Pos() Pos
	isPattern()
}

type patternBase struct {
	P Pos
}

func (p patternBase) Pos() Pos { return p.P }

// WildcardPattern matches anything, binding nothing.
type WildcardPattern struct{ patternBase }

func (*WildcardPattern) isPattern() {}

// VarPattern binds the scrutinee to Name.
type VarPattern struct {
	patternBase
	Name ID
}

func (*VarPattern) isPattern() {}

// LitPattern matches a literal value.
type LitPattern struct {
	patternBase
	Value interface{}
}

func (*LitPattern) isPattern() {}

// ClassPattern matches a class's runtime shape, e.g. `C(v)`. Before
// rewriting, Class may be a heap-class type; after C5 rewrites it, any
// remaining ClassPattern is against a rewritten (non-heap) class type.
type ClassPattern struct {
	patternBase
	Class   Type
	TypeArg []Type
	Sub     []Pattern
}

func (*ClassPattern) isPattern() {}

// UnapplyPattern is what C5 rewrites a heap-class ClassPattern into:
// a call to `unapply_C(heap, readsDomArg)(x)`, matching on the result
// with Sub (spec §4.5).
type UnapplyPattern struct {
	patternBase
	Unapply   ID
	TypeArg   []Type
	HeapArg   Expr
	ReadsArg  Expr // evaluates to an Option<HeapRefSet>
	Scrutinee Expr
	Sub       []Pattern
}

func (*UnapplyPattern) isPattern() {}
