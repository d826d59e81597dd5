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

// Package ir defines the typed tree that the effect-elaboration pass
// consumes and produces. It stands in for the frontend's own tree
// representation, which is out of scope for this module.
package ir

import "fmt"

// Pos is a source position. It plays the role that token.Pos/
// token.Position play for a real Go frontend; this module has no
// token.FileSet to resolve positions against; a file name and 1-based
// line/column are carried directly on every node.
type Pos struct {
	File string
	Line int
	Col  int
}

// NoPos is the zero value, used whenever a position is deliberately
// left unset so a later stage can stamp it in (see the Function
// Splitter's synthesized assertions and inner calls).
var NoPos = Pos{}

// IsValid reports whether p was ever set to something meaningful.
func (p Pos) IsValid() bool {
	return p != NoPos
}

func (p Pos) String() string {
	if !p.IsValid() {
		return "-"
	}
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Col)
}

// ID identifies a definition (function, class, sort, or type alias)
// within a symbol table.
type ID string
