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

import (
	"sort"

	"golang.org/x/exp/maps"
)

// SymbolTable maps identifiers to the four kinds of definitions this
// pass understands. Instances are immutable after construction; every
// mutator returns a new table rather than editing the receiver in
// place (spec §3, "the pass produces a new output table rather than
// mutating the input").
type SymbolTable struct {
	Functions map[ID]*FunDef
	Classes   map[ID]*ClassDef
	Sorts     map[ID]*SortDef
	Aliases   map[ID]*TypeAliasDef
}

// NewSymbolTable builds an empty table.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{
		Functions: map[ID]*FunDef{},
		Classes:   map[ID]*ClassDef{},
		Sorts:     map[ID]*SortDef{},
		Aliases:   map[ID]*TypeAliasDef{},
	}
}

// clone performs a shallow, one-level-deep copy of the four maps
// (golang.org/x/exp/maps.Clone does exactly this) so a With*/Without*
// mutator can edit its own copy without disturbing the receiver.
func (t *SymbolTable) clone() *SymbolTable {
	return &SymbolTable{
		Functions: maps.Clone(t.Functions),
		Classes:   maps.Clone(t.Classes),
		Sorts:     maps.Clone(t.Sorts),
		Aliases:   maps.Clone(t.Aliases),
	}
}

// WithFunction returns a new table with f added (or replacing an
// existing definition with the same ID).
func (t *SymbolTable) WithFunction(f *FunDef) *SymbolTable {
	out := t.clone()
	out.Functions[f.ID] = f
	return out
}

// WithoutFunction returns a new table with id removed from Functions.
func (t *SymbolTable) WithoutFunction(id ID) *SymbolTable {
	out := t.clone()
	delete(out.Functions, id)
	return out
}

// WithClass returns a new table with c added or replaced.
func (t *SymbolTable) WithClass(c *ClassDef) *SymbolTable {
	out := t.clone()
	out.Classes[c.ID] = c
	return out
}

// WithoutClass returns a new table with id removed from Classes.
func (t *SymbolTable) WithoutClass(id ID) *SymbolTable {
	out := t.clone()
	delete(out.Classes, id)
	return out
}

// WithSort returns a new table with s added or replaced.
func (t *SymbolTable) WithSort(s *SortDef) *SymbolTable {
	out := t.clone()
	out.Sorts[s.ID] = s
	return out
}

// WithAlias returns a new table with a added or replaced.
func (t *SymbolTable) WithAlias(a *TypeAliasDef) *SymbolTable {
	out := t.clone()
	out.Aliases[a.ID] = a
	return out
}

// ClassParents resolves the Type entries of c.Parent that refer to
// other classes in t, skipping any that do not (e.g. classes may also
// "extend" a sort or type parameter bound, which the oracle ignores).
func (t *SymbolTable) ClassParents(c *ClassDef) []*ClassDef {
	var parents []*ClassDef
	for _, p := range c.Parent {
		if ct, ok := p.(*ClassType); ok {
			parents = append(parents, ct.Def)
		}
	}
	return parents
}

// FunctionIDs returns the table's function identifiers sorted into a
// fixed order, for callers (pkg/elaborate.Run in particular) that must
// walk a map's contents in some concrete sequence while keeping the
// result independent of that sequence (spec §5, "output is invariant
// under the order definitions are processed").
func (t *SymbolTable) FunctionIDs() []ID { return sortedIDs(maps.Keys(t.Functions)) }

// ClassIDs returns the table's class identifiers sorted into a fixed
// order. See FunctionIDs.
func (t *SymbolTable) ClassIDs() []ID { return sortedIDs(maps.Keys(t.Classes)) }

// SortIDs returns the table's sort identifiers sorted into a fixed
// order. See FunctionIDs.
func (t *SymbolTable) SortIDs() []ID { return sortedIDs(maps.Keys(t.Sorts)) }

func sortedIDs(ids []ID) []ID {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
