// Copyright 2026 Bob Vawter (bob@vawter.org)
// SPDX-License-Identifier: Apache-2.0

package seq

import "fmt"

// An Option holds a value that may be absent. The zero value is absent.
// A present zero value, e.g. Some(0), is distinct from an absent one.
type Option[T any] struct {
	value T
	ok    bool
}

// Some returns a present Option.
func Some[T any](v T) Option[T] {
	return Option[T]{value: v, ok: true}
}

// Get returns the enclosed value and whether it is present.
func (o Option[T]) Get() (T, bool) { return o.value, o.ok }

// OK reports whether a value is present.
func (o Option[T]) OK() bool { return o.ok }

// Or returns the enclosed value, or the argument if absent.
func (o Option[T]) Or(fallback T) T {
	if o.ok {
		return o.value
	}
	return fallback
}

// String is for debugging use only.
func (o Option[T]) String() string {
	if !o.ok {
		return "<absent>"
	}
	return fmt.Sprint(o.value)
}
