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

// Package irtest is a test-only helper for building small ir.SymbolTable
// fixtures from a single human-readable file, the way the analysis
// pack's own tests load multi-file fixtures with txtar.
//
// This module has no frontend/parser in scope (spec.md §1 lists "the
// parser/frontend producing the typed tree" as an out-of-scope external
// collaborator), so ParseFixture does not parse an object-language
// surface syntax into ir nodes the way a real compiler's test harness
// would. Instead each txtar archive's Comment section names a fixture
// registered with Register, and the archive's file sections hold a
// human-readable description of the symbol table's shape (classes,
// fields, function signatures) that documents the registered builder
// next to the test that exercises it, so a reader sees the fixture's
// shape without having to trace through ir/build.go constructor calls.
// The registry indirection keeps the description and the ir.SymbolTable
// it describes from drifting apart silently: an archive naming an
// unregistered fixture fails the test immediately instead of silently
// building nothing.
package irtest

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"golang.org/x/tools/txtar"

	"github.com/heapverify/effectelab/internal/pkg/ir"
)

var (
	mu       sync.Mutex
	registry = map[string]func() *ir.SymbolTable{}
)

// Register associates name with a fixture builder. Scenario tests call
// this from an init or a TestMain-adjacent package var so ParseFixture
// can resolve a txtar archive's Comment to a concrete symbol table.
// Registering the same name twice panics: fixture names must be unique
// within a test binary the same way archive file names must be.
func Register(name string, build func() *ir.SymbolTable) {
	mu.Lock()
	defer mu.Unlock()
	if _, dup := registry[name]; dup {
		panic(fmt.Sprintf("irtest: fixture %q already registered", name))
	}
	registry[name] = build
}

// ParseFixture parses archive as a txtar file and builds the
// ir.SymbolTable registered under the archive's Comment line (trimmed
// of whitespace). archive's file sections are not interpreted; they
// exist purely so the fixture's shape is readable next to the test
// that uses it. The test fails immediately if the named fixture was
// never registered.
func ParseFixture(t *testing.T, archive string) *ir.SymbolTable {
	t.Helper()
	ar := txtar.Parse([]byte(archive))
	name := strings.TrimSpace(string(ar.Comment))
	if name == "" {
		t.Fatalf("irtest: fixture archive has no Comment naming a registered fixture")
	}

	mu.Lock()
	build, ok := registry[name]
	mu.Unlock()
	if !ok {
		t.Fatalf("irtest: no fixture registered under %q", name)
	}
	return build()
}
