// Copyright 2026 Bob Vawter (bob@vawter.org)
// SPDX-License-Identifier: Apache-2.0

// Package seq contains helpers for observing several independently
// progressing sequences at once.
//
// A [Seq] is an [iter.Seq2] whose second element reports a producer
// failure. A producer yields at most one non-nil error and then stops.
// Consumers control pull timing by ranging over the sequence; breaking
// out of the loop releases whatever the producer holds.
//
// [Tick] counts down toward a deadline, [Enumerate] numbers the values
// of a sequence, and [Combine] merges two sequences into a sequence of
// [Pair] values that carry the latest value seen from each side. None
// of the functions in this package log or retain state between
// iterations.
package seq

import "iter"

// A Seq is a sequence of values that may fail.
type Seq[T any] = iter.Seq2[T, error]

// Values returns a Seq that yields the arguments in order.
func Values[T any](values ...T) Seq[T] {
	return func(yield func(T, error) bool) {
		for _, v := range values {
			if !yield(v, nil) {
				return
			}
		}
	}
}

// From adapts an infallible [iter.Seq] to a [Seq].
func From[T any](items iter.Seq[T]) Seq[T] {
	return func(yield func(T, error) bool) {
		for v := range items {
			if !yield(v, nil) {
				return
			}
		}
	}
}
