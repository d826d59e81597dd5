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

// Package effect implements the Effect Classifier (C3): labeling each
// function as Pure, Reads, or ReadsWrites by inspecting its spec
// clauses (spec §4.3). The classify-and-cache shape mirrors the
// teacher's config.Config.IsSink/IsSource/IsSanitizer family, which
// answer a one-shot classification question about a function and are
// cheap enough there not to need a cache; here the classification is
// cached because the same function is asked about from several
// components (C4, C5, C6) during a single pass.
package effect

import (
	"github.com/heapverify/effectelab/internal/pkg/ir"
	"github.com/heapverify/effectelab/internal/pkg/memo"
)

// Level is a function's effect level (spec §3).
type Level int

const (
	// Pure functions declare neither reads nor modifies.
	Pure Level = iota
	// Reads functions declare reads but not modifies.
	Reads
	// ReadsWrites functions declare modifies (which implies reads).
	ReadsWrites
)

func (l Level) String() string {
	switch l {
	case Pure:
		return "Pure"
	case Reads:
		return "Reads"
	case ReadsWrites:
		return "ReadsWrites"
	default:
		return "Level(?)"
	}
}

// Classifier computes and caches effect levels.
type Classifier struct {
	cache *memo.Cache[ir.ID, Level]
}

// New creates an empty Classifier.
func New() *Classifier {
	return &Classifier{cache: memo.New[ir.ID, Level]()}
}

// Level returns f's effect level (spec §4.3):
//   - Pure if neither reads nor modifies is present;
//   - Reads if reads is present but modifies is not;
//   - ReadsWrites if modifies is present.
func (c *Classifier) Level(f *ir.FunDef) Level {
	return c.cache.GetOrCompute(f.ID, func() Level {
		switch {
		case f.Spec.HasModifies():
			return ReadsWrites
		case f.Spec.HasReads():
			return Reads
		default:
			return Pure
		}
	})
}
