// Copyright 2026 Bob Vawter (bob@vawter.org)
// SPDX-License-Identifier: Apache-2.0

// Package abort provides a broadcast cancellation signal.
//
// A [Signal] fires at most once. Firing it closes the [Signal.Done]
// channel, which any number of goroutines may wait on, and runs every
// callback registered through [Signal.OnAbort] exactly once. Because a
// Signal is also a [context.Context], it can be handed directly to any
// API that accepts a context:
//
//	sig := abort.New()
//	for u := range seq.Tick(sig, 10*time.Second) {
//	    if u.Expired() {
//	        sig.Abort()
//	    }
//	}
package abort

import (
	"context"
	"errors"
	"sync"
	"time"

	"vawter.tech/keyrate/internal/safe"
)

// ErrAborted is the default cause recorded by [Signal.Abort].
var ErrAborted = errors.New("aborted")

var errCanceledAborted = errors.Join(context.Canceled, ErrAborted)

// Key is a [context.Context.Value] key for a [Signal] used by [From].
type Key struct{}

// A Signal is a single-fire, idempotent, broadcast cancellation flag.
//
// The cause passed to [Signal.AbortCause] is available only from
// [Signal.Cause]. Calling [context.Cause] on a Signal does not report
// it: the standard library does not consult custom Context
// implementations for causes, so that call falls back to [Signal.Err]
// or to the cause of an enclosing standard context.
//
// All methods on a Signal are safe for concurrent use.
type Signal struct {
	done   chan struct{}
	parent context.Context

	mu struct {
		sync.RWMutex
		cause   error
		err     error // Fixed when the Signal fires.
		fired   bool
		hooks   map[uint64]func()
		hooksID uint64
		unhook  func() bool // Detaches from the parent, if any.
	}
}

var _ context.Context = (*Signal)(nil)

// New returns a Signal that fires only when [Signal.Abort] or
// [Signal.AbortCause] is called.
func New() *Signal {
	return &Signal{
		done:   make(chan struct{}),
		parent: context.Background(),
	}
}

// WithContext returns a Signal that also fires when the parent context
// is canceled. The parent's [context.Cause] becomes the Signal's cause.
func WithContext(parent context.Context) *Signal {
	s := &Signal{
		done:   make(chan struct{}),
		parent: parent,
	}
	stop := context.AfterFunc(parent, func() {
		s.AbortCause(context.Cause(parent))
	})

	s.mu.Lock()
	fired := s.mu.fired
	if !fired {
		s.mu.unhook = stop
	}
	s.mu.Unlock()

	// The parent may have been canceled before we could record stop.
	if fired {
		stop()
	}
	return s
}

// From returns an enclosing Signal or returns false if the context is
// not derived from one.
func From(ctx context.Context) (*Signal, bool) {
	s, ok := ctx.Value(Key{}).(*Signal)
	return s, ok
}

// Abort fires the Signal with [ErrAborted] as its cause. Calling Abort
// more than once has no further effect.
func (s *Signal) Abort() { s.AbortCause(ErrAborted) }

// AbortCause fires the Signal, recording the error as its cause. A nil
// error is replaced with [ErrAborted]. It returns true only for the
// call that actually fired the Signal.
func (s *Signal) AbortCause(cause error) bool {
	if cause == nil {
		cause = ErrAborted
	}
	hooks, unhook, ok := s.fire(cause)
	if !ok {
		return false
	}
	if unhook != nil {
		unhook()
	}
	// User callbacks are never executed while holding the mutex.
	for _, fn := range hooks {
		_ = safe.Call(fn)
	}
	return true
}

// fire is the one-shot critical section.
func (s *Signal) fire(cause error) (hooks []func(), unhook func() bool, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mu.fired {
		return nil, nil, false
	}
	s.mu.fired = true
	s.mu.cause = cause
	if err := s.parent.Err(); err != nil {
		s.mu.err = err
	} else {
		s.mu.err = errCanceledAborted
	}
	close(s.done)

	hooks = make([]func(), 0, len(s.mu.hooks))
	for _, fn := range s.mu.hooks {
		hooks = append(hooks, fn)
	}
	s.mu.hooks = nil
	unhook = s.mu.unhook
	s.mu.unhook = nil
	return hooks, unhook, true
}

// Aborted reports whether the Signal has fired.
func (s *Signal) Aborted() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mu.fired
}

// Cause returns the error passed to the call that fired the Signal, or
// nil if it has not fired.
func (s *Signal) Cause() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mu.cause
}

// OnAbort registers a callback that will be executed exactly once, when
// the Signal fires. If the Signal has already fired, the callback runs
// immediately in the calling goroutine. The returned function
// deregisters the callback if it has not yet been executed.
func (s *Signal) OnAbort(fn func()) (cancel func()) {
	s.mu.Lock()
	if s.mu.fired {
		s.mu.Unlock()
		_ = safe.Call(fn)
		return func() {}
	}
	if s.mu.hooks == nil {
		s.mu.hooks = make(map[uint64]func())
	}
	id := s.mu.hooksID
	s.mu.hooksID++
	s.mu.hooks[id] = fn
	s.mu.Unlock()

	return func() {
		// Disarm once fired; the hooks map has been handed off.
		select {
		case <-s.done:
			return
		default:
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.mu.hooks, id)
	}
}

// Deadline implements [context.Context] by delegating to the parent.
func (s *Signal) Deadline() (deadline time.Time, ok bool) {
	return s.parent.Deadline()
}

// Done implements [context.Context]. The channel is closed when the
// Signal fires.
func (s *Signal) Done() <-chan struct{} { return s.done }

// Err implements [context.Context]. It returns nil until the Signal
// fires. Afterward, it returns the parent's error if the parent had
// been canceled when the Signal fired, otherwise an error that is both
// [context.Canceled] and [ErrAborted]. The value does not change once
// set.
func (s *Signal) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mu.err
}

// Value implements [context.Context]. It responds to [Key] with the
// receiver and delegates all other keys to the parent.
func (s *Signal) Value(key any) any {
	if _, ok := key.(Key); ok {
		return s
	}
	return s.parent.Value(key)
}

// String is for debugging use only.
func (s *Signal) String() string {
	if cause := s.Cause(); cause != nil {
		return "abort.Signal(fired: " + cause.Error() + ")"
	}
	return "abort.Signal(armed)"
}
