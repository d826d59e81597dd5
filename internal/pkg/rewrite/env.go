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

package rewrite

import "github.com/heapverify/effectelab/internal/pkg/ir"

// frameKind is Frame's three states (spec §4.4): a reads or modifies
// clause is either wholly absent, present with no restriction
// ("reads *"), or present restricted to a set-valued expression.
type frameKind int

const (
	frameForbidden frameKind = iota
	frameAllowAll
	frameRestricted
)

// Frame is the tri-state binding for a reads or modifies clause. The
// zero Frame is Forbidden, so a zero Env forbids heap access
// entirely — the shape C6's Pure case wants for free.
type Frame struct {
	kind frameKind
	set  ir.Expr
}

// Forbidden returns a Frame denoting "no such clause at all".
func Forbidden() Frame { return Frame{kind: frameForbidden} }

// AllowAll returns a Frame denoting an unrestricted clause ("reads *").
func AllowAll() Frame { return Frame{kind: frameAllowAll} }

// Restricted returns a Frame denoting a clause restricted to the
// HeapRefSet-valued set.
func Restricted(set ir.Expr) Frame { return Frame{kind: frameRestricted, set: set} }

// IsForbidden reports whether the clause is absent.
func (f Frame) IsForbidden() bool { return f.kind == frameForbidden }

// IsRestricted reports whether the clause names a specific set (as
// opposed to being absent or unrestricted); only then does a
// frame-condition assertion need to be emitted.
func (f Frame) IsRestricted() bool { return f.kind == frameRestricted }

// Set returns the restricting set expression. Only meaningful when
// IsRestricted is true.
func (f Frame) Set() ir.Expr { return f.set }

// Env carries the three heap-shaped bindings threaded through a
// function body during expression rewriting (spec §4.4):
//
//   - HeapVd names the current heap variable. Nil forbids every
//     heap-accessing construct outright (the Pure case).
//   - ReadsVd and ModifiesVd are the current reads/modifies frames.
//
// Env is passed by value; rewriting never mutates it; pattern-match
// arms and let-bound scopes that would extend it do so by deriving a
// new Env and passing that down, never by writing back into a shared
// one (spec §3, "Lifecycles").
type Env struct {
	HeapVd     *ir.Var
	ReadsVd    Frame
	ModifiesVd Frame
}
