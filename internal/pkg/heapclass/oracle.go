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

// Package heapclass implements the Heap-Class Oracle (C1): deciding
// whether a type is heap-resident by walking class parents (spec
// §4.1). The walk-and-cache shape mirrors the teacher's
// source.IsSourceType, which recursively classifies a types.Type as a
// "source type" by walking named types and then their structure;
// here the structure walked is a class hierarchy instead.
package heapclass

import (
	"fmt"

	"github.com/heapverify/effectelab/internal/pkg/ir"
	"github.com/heapverify/effectelab/internal/pkg/memo"
)

// ErrCyclicHierarchy is reported when a class's parent chain cycles
// back to itself. Spec §9 assumes the frontend rules this out; the
// oracle still guards against looping forever rather than trusting
// that assumption silently.
type ErrCyclicHierarchy struct {
	Class ir.ID
}

func (e *ErrCyclicHierarchy) Error() string {
	return fmt.Sprintf("heapclass: cyclic class hierarchy rooted at %s", e.Class)
}

// maxHierarchyDepth bounds the parent walk; real class hierarchies in
// this language are shallow (single digits), so a cycle manifests long
// before this is reached.
const maxHierarchyDepth = 10000

// Oracle answers IsHeapType queries against a fixed symbol table,
// caching results per class so each one is inspected at most once per
// pass (spec §4.1).
type Oracle struct {
	symbols *ir.SymbolTable
	cache   *memo.Cache[ir.ID, bool]
}

// New creates an Oracle backed by symbols. symbols must not change for
// the lifetime of the Oracle; the cache assumes a fixed hierarchy.
func New(symbols *ir.SymbolTable) *Oracle {
	return &Oracle{symbols: symbols, cache: memo.New[ir.ID, bool]()}
}

// IsHeapType reports whether t is heap-resident: the marker class
// itself, or a class whose transitive parent list contains a type
// carrying the AnyHeapRef flag (spec §3, invariant 1; spec §4.1).
// Non-class shapes (sorts, type parameters, functions, tuples, and the
// already-rewritten Heap*/Option types) are never heap-resident.
func (o *Oracle) IsHeapType(t ir.Type) bool {
	ct, ok := t.(*ir.ClassType)
	if !ok {
		return false
	}
	return o.isHeapClass(ct.Def, 0)
}

func (o *Oracle) isHeapClass(c *ir.ClassDef, depth int) bool {
	return o.cache.GetOrCompute(c.ID, func() bool {
		if depth > maxHierarchyDepth {
			panic(&ErrCyclicHierarchy{Class: c.ID})
		}
		if c.Flags.Has(ir.AnyHeapRef) {
			return true
		}
		for _, parent := range o.symbols.ClassParents(c) {
			if o.isHeapClass(parent, depth+1) {
				return true
			}
		}
		return false
	})
}

// Len reports how many classes have been classified so far, mainly
// for tests asserting the "at most once per pass" invariant.
func (o *Oracle) Len() int {
	return o.cache.Len()
}
