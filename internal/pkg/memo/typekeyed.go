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

// Stringer is the subset of fmt.Stringer a TypeKeyed cache needs. It
// is satisfied by ir.Type without this package importing ir, avoiding
// a dependency cycle (ir has no reason to know about memo).
type Stringer interface {
	String() string
}

// TypeKeyed memoizes a function of a type value that is not itself a
// valid Go map key (ir.Type implementations that embed slices, such as
// *ir.FunctionType and *ir.TupleType, are not comparable). It
// canonicalizes keys via String(), the same way
// golang.org/x/tools/go/types/typeutil.Map canonicalizes types.Type
// values that are not comparable either.
type TypeKeyed[T Stringer, V any] struct {
	inner *Cache[string, V]
}

// NewTypeKeyed creates an empty TypeKeyed cache.
func NewTypeKeyed[T Stringer, V any]() *TypeKeyed[T, V] {
	return &TypeKeyed[T, V]{inner: New[string, V]()}
}

// GetOrCompute returns the cached value for t's canonical string form,
// computing and storing it via compute if absent.
func (c *TypeKeyed[T, V]) GetOrCompute(t T, compute func() V) V {
	return c.inner.GetOrCompute(t.String(), compute)
}

// Len reports the number of memoized entries.
func (c *TypeKeyed[T, V]) Len() int {
	return c.inner.Len()
}
