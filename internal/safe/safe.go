// Copyright 2026 Bob Vawter (bob@vawter.org)
// SPDX-License-Identifier: Apache-2.0

// Package safe runs user-provided code, converting panics into errors.
package safe

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

const captureDepth = 32

// A RecoveredError associates a recovered panic with the stack of the
// goroutine that panicked.
type RecoveredError struct {
	Err   error
	Stack []uintptr
}

// Error implements error.
func (e *RecoveredError) Error() string {
	var sb strings.Builder
	_, _ = fmt.Fprintf(&sb, "recovered: %v\n", e.Err)
	frames := runtime.CallersFrames(e.Stack)
	for {
		frame, more := frames.Next()
		_, _ = fmt.Fprintf(&sb, "%s ( %s:%d )\n", frame.Function, frame.File, frame.Line)
		if !more {
			return sb.String()
		}
	}
}

// String is for debugging use only.
func (e *RecoveredError) String() string { return e.Error() }

// Unwrap returns the enclosed error.
func (e *RecoveredError) Unwrap() error { return e.Err }

// Call executes the function. If the function panics, a
// [RecoveredError] is returned.
func Call(fn func()) error {
	return CallE(func() error {
		fn()
		return nil
	})
}

// CallE executes the function. If the function panics, the recovered
// value is joined with any error already returned and wrapped in a
// [RecoveredError].
func CallE(fn func() error) (err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		rErr, ok := r.(error)
		if !ok {
			rErr = fmt.Errorf("panic: %v", r)
		}
		stack := make([]uintptr, captureDepth)
		// Skip runtime.Callers, this closure, and the runtime's panic frame.
		stack = stack[:runtime.Callers(3, stack)]
		err = &RecoveredError{
			Err:   errors.Join(err, rErr),
			Stack: stack,
		}
	}()
	return fn()
}
