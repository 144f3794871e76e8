// Copyright 2026 Bob Vawter (bob@vawter.org)
// SPDX-License-Identifier: Apache-2.0

package seq

import (
	"context"
	"errors"
	"time"
)

// DefaultInterval is the cadence of [Tick] when [Every] is not given.
const DefaultInterval = 250 * time.Millisecond

// An Update reports progress toward the deadline of a [Tick].
type Update struct {
	Elapsed   time.Duration // Time since the ticker started.
	Remaining time.Duration // Negative if the final wake-up overshot.
}

// ElapsedMs returns Elapsed in whole milliseconds.
func (u Update) ElapsedMs() int64 { return u.Elapsed.Milliseconds() }

// Expired reports whether the deadline has been reached. An expired
// Update is the last one a Tick produces.
func (u Update) Expired() bool { return u.Remaining <= 0 }

// RemainingMs returns Remaining in whole milliseconds.
func (u Update) RemainingMs() int64 { return u.Remaining.Milliseconds() }

// A TickOption configures [Tick].
type TickOption func(*tickConfig)

type tickConfig struct {
	interval time.Duration
}

// Every sets the time between successive updates.
func Every(interval time.Duration) TickOption {
	if interval <= 0 {
		panic(errors.New("interval must be greater than zero"))
	}
	return func(cfg *tickConfig) {
		cfg.interval = interval
	}
}

// Tick returns a sequence that counts down the total duration. The
// deadline is fixed when iteration begins.
//
// The first Update is produced immediately and subsequent updates
// follow at the configured interval ([DefaultInterval] unless [Every]
// is given). The sequence ends after yielding an [Update.Expired]
// value. If the context is canceled, the sequence ends at its next
// wake-up without yielding anything further. The sequence never yields
// an error.
func Tick(ctx context.Context, total time.Duration, opts ...TickOption) Seq[Update] {
	if total <= 0 {
		panic(errors.New("total duration must be greater than zero"))
	}
	cfg := &tickConfig{interval: DefaultInterval}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(yield func(Update, error) bool) {
		// time.Now carries a monotonic reading, so wall-clock changes
		// do not affect the arithmetic below.
		start := time.Now()
		end := start.Add(total)

		deadline := time.NewTimer(total)
		defer deadline.Stop()
		next := time.NewTimer(0)
		defer next.Stop()

		for {
			select {
			case <-deadline.C:
			case <-next.C:
			case <-ctx.Done():
			}
			// Cancellation wins regardless of which case woke us.
			if ctx.Err() != nil {
				return
			}

			now := time.Now()
			u := Update{
				Elapsed:   now.Sub(start),
				Remaining: end.Sub(now),
			}
			if !yield(u, nil) || u.Expired() {
				return
			}
			next.Reset(cfg.interval)
		}
	}
}
