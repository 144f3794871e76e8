// Copyright 2026 Bob Vawter (bob@vawter.org)
// SPDX-License-Identifier: Apache-2.0

package seq

// Indexed associates a value with its zero-based position in a
// sequence.
type Indexed[T any] struct {
	Index int
	Value T
}

// Enumerate numbers the values of a sequence, starting from zero.
// Errors are passed through with a zero Indexed and do not consume an
// index.
func Enumerate[T any](items Seq[T]) Seq[Indexed[T]] {
	return func(yield func(Indexed[T], error) bool) {
		idx := 0
		for v, err := range items {
			if err != nil {
				if !yield(Indexed[T]{}, err) {
					return
				}
				continue
			}
			if !yield(Indexed[T]{Index: idx, Value: v}, nil) {
				return
			}
			idx++
		}
	}
}
