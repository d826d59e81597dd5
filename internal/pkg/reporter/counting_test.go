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
	"sync"
	"testing"

	"github.com/heapverify/effectelab/internal/pkg/ir"
)

func TestCountingReporterCountsPerMessage(t *testing.T) {
	c := NewCountingReporter(nil)
	c.Reportf(ir.NoPos, MsgMissingReads, "read from c.v")
	c.Reportf(ir.NoPos, MsgMissingReads, "read from c.v")
	c.Reportf(ir.NoPos, MsgMissingModifies, "write to c.v")

	if got := c.Total(); got != 3 {
		t.Errorf("Total() = %d, want 3", got)
	}
	counts := c.Counts()
	if got := counts["Cannot read from c.v without a reads clause"]; got != 2 {
		t.Errorf("Counts()[reads msg] = %d, want 2", got)
	}
	if got := counts["Cannot write to c.v without a modifies clause"]; got != 1 {
		t.Errorf("Counts()[modifies msg] = %d, want 1", got)
	}
}

func TestCountingReporterForwardsToInner(t *testing.T) {
	var forwarded int
	inner := ReporterFunc(func(pos ir.Pos, format string, args ...interface{}) {
		forwarded++
	})
	c := NewCountingReporter(inner)

	c.Reportf(ir.NoPos, MsgNoHeapAccess, "read")

	if forwarded != 1 {
		t.Errorf("inner reporter invoked %d times, want 1", forwarded)
	}
	if got := c.Total(); got != 1 {
		t.Errorf("Total() = %d, want 1", got)
	}
}

func TestCountingReporterNilInner(t *testing.T) {
	c := NewCountingReporter(nil)
	// Must not panic with a nil Inner.
	c.Reportf(ir.NoPos, MsgReadOnlyWrite)
	if got := c.Total(); got != 1 {
		t.Errorf("Total() = %d, want 1", got)
	}
}

func TestCountingReporterCountsSnapshotIsCopy(t *testing.T) {
	c := NewCountingReporter(nil)
	c.Reportf(ir.NoPos, MsgReadOnlyWrite)

	snapshot := c.Counts()
	snapshot["Can't modify heap in read-only context"] = 99

	if got := c.Total(); got != 1 {
		t.Errorf("Total() = %d, want 1 after mutating snapshot", got)
	}
	if got := c.Counts()["Can't modify heap in read-only context"]; got != 1 {
		t.Errorf("Counts() after snapshot mutation = %d, want 1", got)
	}
}

func TestCountingReporterConcurrentUse(t *testing.T) {
	c := NewCountingReporter(nil)
	const goroutines = 32

	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Reportf(ir.NoPos, MsgMissingReads, "x")
		}()
	}
	wg.Wait()

	if got := c.Total(); got != goroutines {
		t.Errorf("Total() = %d, want %d", got, goroutines)
	}
}
