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

// Package memo implements the pass's memoization caches: a set-once
// map per key, safe for concurrent use. Every component that
// classifies a definition once and reuses the result (the Heap-Class
// Oracle, the Effect Classifier, the shim/unapply name allocators)
// shares this implementation rather than rolling its own map, closing
// the gap the teacher's own earpointer/state.go left open ("TODO: the
// maps are not concurrency safe. Use sync.RWMutex for concurrency
// usage").
package memo

import "sync"

// Cache memoizes a deterministic, pure function of K and is safe for
// concurrent access from multiple goroutines (spec §5, "Shared mutable
// state"). A key whose value is already stored is never recomputed.
// Cache does not prevent redundant concurrent computation of a key
// that is still missing (there is no per-key lock): racing callers may
// each run compute, and the last write is the one stored. Concurrent
// callers computing the same key are expected to agree on the result,
// since the computation is pure; every reader observes a
// fully-computed value.
type Cache[K comparable, V any] struct {
	mu sync.RWMutex
	m  map[K]V
}

// New creates an empty cache.
func New[K comparable, V any]() *Cache[K, V] {
	return &Cache[K, V]{m: make(map[K]V)}
}

// Get returns the cached value for key and true, or the zero value and
// false if key has not been computed yet.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.m[key]
	return v, ok
}

// GetOrCompute returns the cached value for key, computing and storing
// it via compute if absent. If two goroutines race to compute the same
// key, both computations may run; each of those callers returns the
// value its own compute produced, and the value stored for the key is
// the one written last.
func (c *Cache[K, V]) GetOrCompute(key K, compute func() V) V {
	if v, ok := c.Get(key); ok {
		return v
	}
	v := compute()
	c.mu.Lock()
	c.m[key] = v
	c.mu.Unlock()
	return v
}

// Len reports the number of memoized entries, mainly useful for tests
// asserting that a definition was visited at most once (spec §4.1,
// "each class is inspected at most once per pass").
func (c *Cache[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.m)
}
