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

package reporter

import (
	"fmt"
	"sync"

	"github.com/heapverify/effectelab/internal/pkg/ir"
)

// CountingReporter forwards every diagnostic to Inner while counting
// occurrences per formatted message, so a caller can implement "the
// pipeline decides whether to proceed based on the reporter's error
// count" (spec §7) without this module hard-coding that policy. Safe
// for concurrent use, matching spec §5's "the reporter is the only
// external sink; it is assumed thread-safe".
type CountingReporter struct {
	Inner Reporter

	mu     sync.Mutex
	counts map[string]int
	total  int
}

// NewCountingReporter wraps inner. A nil inner is allowed; diagnostics
// are then only counted, not forwarded.
func NewCountingReporter(inner Reporter) *CountingReporter {
	return &CountingReporter{Inner: inner, counts: map[string]int{}}
}

// Reportf implements Reporter.
func (c *CountingReporter) Reportf(pos ir.Pos, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	c.mu.Lock()
	c.counts[msg]++
	c.total++
	c.mu.Unlock()
	if c.Inner != nil {
		c.Inner.Reportf(pos, format, args...)
	}
}

// Total returns the number of diagnostics reported so far.
func (c *CountingReporter) Total() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.total
}

// Counts returns a snapshot of per-message diagnostic counts.
func (c *CountingReporter) Counts() map[string]int {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]int, len(c.counts))
	for k, v := range c.counts {
		out[k] = v
	}
	return out
}
