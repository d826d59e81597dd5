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

import "github.com/heapverify/effectelab/internal/pkg/ir"

// ExtractFunction elaborates one function definition, delegating to
// the Function Splitter (C6): a pure function is rewritten in place
// (one output); an effectful one is split into an inner function and
// a shim (two outputs), per spec §4.6.
func ExtractFunction(ctx *Context, f *ir.FunDef) []*ir.FunDef {
	return ctx.Splitter.ExtractFunction(f)
}

// ExtractClass elaborates one class definition: its parent list and
// field types are rewritten by the Type Rewriter (C2, spec §4.2), and
// if the class is heap-resident (C1), its unapply_C extractor function
// is synthesized alongside it (C5, spec §4.5) so a caller threading
// ExtractClass's second result into the output table's Functions map
// gets a complete heap-class in one step. A value class's second
// result is nil.
func ExtractClass(ctx *Context, c *ir.ClassDef) (*ir.ClassDef, *ir.FunDef) {
	rewritten := ctx.Types.ClassDef(c)
	if !ctx.Oracle.IsHeapType(&ir.ClassType{Def: c}) {
		return rewritten, nil
	}
	return rewritten, ctx.Patterns.SynthesizeUnapply(c)
}

// ExtractSort elaborates one sort definition. Sorts carry no
// rewritable type references of their own (ir.SortDef is an
// uninterpreted or built-in declaration, spec §3), so this is the
// identity function; it exists so callers can treat all three
// definition kinds uniformly when walking a symbol table.
func ExtractSort(ctx *Context, s *ir.SortDef) *ir.SortDef {
	return s
}
