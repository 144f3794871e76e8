// Copyright 2026 Bob Vawter (bob@vawter.org)
// SPDX-License-Identifier: Apache-2.0

package retry

import (
	"context"
	"errors"
	"io/fs"
	"math"
	"math/rand/v2"
	"syscall"
	"time"
)

// Backoff implements an exponential backoff with jitter.
type Backoff struct {
	Jitter      time.Duration    // Delays are adjusted ±50% of this value. Default is 0.
	MaxAttempts int              // Defaults to 4 if unset.
	MaxDelay    time.Duration    // Defaults to 1s if unset.
	MinDelay    time.Duration    // Defaults to 10ms if unset.
	Multiplier  float64          // Defaults to 10.0 if unset.
	Retryable   func(error) bool // Defaults to [Transient].

	// OnRetry, if set, is called before each pause with the number of
	// the attempt about to be made and the length of the pause.
	OnRetry func(attempt int, wait time.Duration, err error)
}

// Transient reports whether a failed file operation could succeed if it
// were repeated. Permission problems, missing or misplaced paths, a full
// or read-only filesystem, and context cancellation are permanent.
func Transient(err error) bool {
	for _, permanent := range []error{
		context.Canceled,
		context.DeadlineExceeded,
		fs.ErrExist,
		fs.ErrInvalid,
		fs.ErrNotExist,
		fs.ErrPermission,
		syscall.EISDIR,
		syscall.ENOSPC,
		syscall.ENOTDIR,
		syscall.EROFS,
	} {
		if errors.Is(err, permanent) {
			return false
		}
	}
	return true
}

// Do calls the operation, sleeping between failed attempts. It returns
// a [*MaxAttemptsError] once the attempts are exhausted and returns
// non-retryable errors as-is.
func (b *Backoff) Do(ctx context.Context, op func(context.Context) error) error {
	return Run(ctx, b.classifier(), op)
}

// Delay returns the pause, without jitter, that precedes the given
// retry. The first retry is numbered 1.
func (b *Backoff) Delay(retry int) time.Duration {
	return b.sanitize().delay(retry)
}

func (b *Backoff) delay(retry int) time.Duration {
	d := float64(b.MinDelay) * math.Pow(b.Multiplier, float64(max(retry, 1)-1))
	if math.IsInf(d, 0) || d >= float64(b.MaxDelay) {
		return b.MaxDelay
	}
	return max(time.Duration(d), b.MinDelay)
}

// classifier counts the retries already made.
func (b *Backoff) classifier() Classifier[int, time.Time] {
	b = b.sanitize()
	return func(_ context.Context, retries *int, err error) (<-chan time.Time, error) {
		if !b.Retryable(err) {
			return nil, err
		}
		if *retries+1 >= b.MaxAttempts {
			return nil, &MaxAttemptsError{Err: err}
		}
		*retries++

		wait := b.delay(*retries)
		if b.Jitter > 0 {
			wait += time.Duration((rand.Float64() - 0.5) * float64(b.Jitter))
		}
		wait = max(wait, 0)
		if b.OnRetry != nil {
			b.OnRetry(*retries+1, wait, err)
		}
		return time.After(wait), nil
	}
}

// sanitize returns a copy with all fields initialized to a reasonable default.
func (b *Backoff) sanitize() *Backoff {
	ret := *b
	if ret.MaxAttempts <= 0 {
		ret.MaxAttempts = 4
	}
	if ret.MaxDelay <= 0 {
		ret.MaxDelay = 1 * time.Second
	}
	if ret.MinDelay <= 0 {
		ret.MinDelay = 10 * time.Millisecond
	}
	if ret.Multiplier <= 0 {
		ret.Multiplier = 10
	}
	if ret.Retryable == nil {
		ret.Retryable = Transient
	}
	return &ret
}
