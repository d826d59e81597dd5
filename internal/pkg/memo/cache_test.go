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

package memo

import (
	"sync"
	"testing"
)

func TestGetMissing(t *testing.T) {
	c := New[string, int]()
	if _, ok := c.Get("absent"); ok {
		t.Errorf("Get(absent) = _, true, want false")
	}
	if got := c.Len(); got != 0 {
		t.Errorf("Len() = %d, want 0", got)
	}
}

func TestGetOrComputeCachesResult(t *testing.T) {
	c := New[string, int]()
	calls := 0
	compute := func() int {
		calls++
		return 42
	}

	first := c.GetOrCompute("k", compute)
	second := c.GetOrCompute("k", compute)

	if first != 42 || second != 42 {
		t.Errorf("GetOrCompute results = %d, %d, want 42, 42", first, second)
	}
	if calls != 1 {
		t.Errorf("compute called %d times, want 1", calls)
	}
	if got, ok := c.Get("k"); !ok || got != 42 {
		t.Errorf("Get(k) = %d, %v, want 42, true", got, ok)
	}
}

func TestGetOrComputeDistinctKeys(t *testing.T) {
	c := New[string, int]()
	c.GetOrCompute("a", func() int { return 1 })
	c.GetOrCompute("b", func() int { return 2 })
	if got := c.Len(); got != 2 {
		t.Errorf("Len() = %d, want 2", got)
	}
}

// TestConcurrentGetOrCompute matches "safe for concurrent use" (spec
// §5, "Shared mutable state"): many goroutines racing on the same key
// must all observe one consistent final value, never a partial write
// that the race detector or a crash would catch.
func TestConcurrentGetOrCompute(t *testing.T) {
	c := New[string, int]()
	const goroutines = 64

	var wg sync.WaitGroup
	results := make([]int, goroutines)
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = c.GetOrCompute("shared", func() int { return 7 })
		}(i)
	}
	wg.Wait()

	for i, got := range results {
		if got != 7 {
			t.Errorf("goroutine %d: GetOrCompute(shared) = %d, want 7", i, got)
		}
	}
	if got := c.Len(); got != 1 {
		t.Errorf("Len() = %d, want 1", got)
	}
}
