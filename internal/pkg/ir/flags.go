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

// Flag is an immutable tag attached to a class or function definition.
type Flag string

const (
	// AnyHeapRef marks the root class whose descendants are
	// heap-resident (spec §3, "Class-hierarchy flags").
	AnyHeapRef Flag = "anyHeapRef"

	// RefEq marks a function whose body is the built-in
	// reference-equality primitive; such functions are deleted by the
	// Preamble Injector (C7).
	RefEq Flag = "refEq"

	// Synthetic marks a definition produced by this pass rather than
	// present in the input.
	Synthetic Flag = "synthetic"

	// DropVCs marks a synthesized definition whose body should not be
	// checked by the downstream verification-condition generator.
	DropVCs Flag = "dropVCs"

	// InlineOnce marks a shim as eligible for a single inlining pass
	// downstream (spec §1: "shims carry an inline-once flag consumed
	// downstream").
	InlineOnce Flag = "inlineOnce"
)

// IsUnapplyFlag carries the extractor metadata a synthesized unapply
// function needs downstream: the identifiers of its isEmpty/get
// accessors.
type IsUnapplyFlag struct {
	IsEmpty ID
	Get     ID
}

// FlagSet is an immutable-by-convention set of flags: callers must use
// With/Without to derive a new set rather than mutate one in place, so
// that definitions flow input to output without being mutated (spec
// §3, "Lifecycles").
type FlagSet map[Flag]bool

// NewFlagSet builds a FlagSet from the given flags.
func NewFlagSet(flags ...Flag) FlagSet {
	fs := make(FlagSet, len(flags))
	for _, f := range flags {
		fs[f] = true
	}
	return fs
}

// Has reports whether fs contains f.
func (fs FlagSet) Has(f Flag) bool {
	return fs[f]
}

// With returns a new FlagSet equal to fs plus the given flags.
func (fs FlagSet) With(flags ...Flag) FlagSet {
	out := make(FlagSet, len(fs)+len(flags))
	for f := range fs {
		out[f] = true
	}
	for _, f := range flags {
		out[f] = true
	}
	return out
}

// Without returns a new FlagSet equal to fs minus the given flags.
func (fs FlagSet) Without(flags ...Flag) FlagSet {
	drop := make(map[Flag]bool, len(flags))
	for _, f := range flags {
		drop[f] = true
	}
	out := make(FlagSet, len(fs))
	for f := range fs {
		if !drop[f] {
			out[f] = true
		}
	}
	return out
}

// Union returns a new FlagSet containing every flag in fs or other,
// the shape the Function Splitter needs to combine a shim's own flags
// with the source function's transformed flags (spec §4.6).
func (fs FlagSet) Union(other FlagSet) FlagSet {
	out := make(FlagSet, len(fs)+len(other))
	for f := range fs {
		out[f] = true
	}
	for f := range other {
		out[f] = true
	}
	return out
}
