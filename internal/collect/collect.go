// Copyright 2026 Bob Vawter (bob@vawter.org)
// SPDX-License-Identifier: Apache-2.0

// Package collect runs a single timed measurement: it records every
// key pressed until a deadline while keeping a countdown on screen.
package collect

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"vawter.tech/keyrate/abort"
	"vawter.tech/keyrate/seq"
)

// Prompt is shown while waiting for the user to start.
const Prompt = "Press any key when ready..."

// Options configures [Gather].
type Options struct {
	Description string        // Shown above the counters.
	Interval    time.Duration // The length of the measurement.
	Update      time.Duration // How often the countdown is refreshed.
	FPS         int           // Upper bound on redraws per second.

	// Keys returns the keystrokes typed while the context is live. The
	// sequence must end once the context is canceled.
	Keys func(ctx context.Context) seq.Seq[string]
	// Wait blocks until the user is ready. It may be nil.
	Wait func(ctx context.Context) error

	Screen Screen
	Logger *zap.Logger
}

func (o *Options) validate() error {
	var errs []error
	if o.Interval <= 0 {
		errs = append(errs, errors.New("interval must be positive"))
	}
	if o.Update <= 0 {
		errs = append(errs, errors.New("update must be positive"))
	}
	if o.FPS < 1 {
		errs = append(errs, errors.New("fps must be >= 1"))
	}
	if o.Keys == nil {
		errs = append(errs, errors.New("no key source"))
	}
	if o.Screen == nil {
		errs = append(errs, errors.New("no screen"))
	}
	return errors.Join(errs...)
}

// Gather shows the description, waits for the user, and then records
// keystrokes until the interval has elapsed. It returns the keys in
// the order they were typed.
//
// If the context is canceled or the key source fails, Gather returns
// the keys recorded so far along with the error.
func Gather(ctx context.Context, opts Options) ([]string, error) {
	if err := opts.validate(); err != nil {
		return nil, fmt.Errorf("collect: %w", err)
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	if err := opts.Screen.Draw(opts.Description, "", Prompt); err != nil {
		return nil, err
	}
	if opts.Wait != nil {
		if err := opts.Wait(ctx); err != nil {
			return nil, err
		}
	}

	// Every producer runs against the signal, so firing it ends the
	// whole pipeline.
	sig := abort.WithContext(ctx)
	defer sig.Abort()

	limiter := rate.NewLimiter(rate.Limit(opts.FPS), 1)
	draw := func(keys []string, remaining time.Duration) error {
		return opts.Screen.Draw(
			opts.Description,
			"",
			fmt.Sprintf("Keys pressed: %d", len(keys)),
			fmt.Sprintf("Remaining time: %ds", int64(max(remaining, 0)/time.Second)),
		)
	}

	log.Debug("measurement starting",
		zap.Duration("interval", opts.Interval),
		zap.Duration("update", opts.Update))

	var keys []string
	lastIndex := -1
	pairs := seq.Combine(sig,
		seq.Enumerate(opts.Keys(sig)),
		seq.Tick(sig, opts.Interval, seq.Every(opts.Update)),
	)
	for p, err := range pairs {
		if err != nil {
			// Release the producers before leaving the loop.
			sig.AbortCause(err)
			log.Warn("measurement failed", zap.Error(err), zap.Int("keys", len(keys)))
			return keys, err
		}

		if k, ok := p.Left.Get(); ok && k.Index > lastIndex {
			lastIndex = k.Index
			keys = append(keys, k.Value)
			log.Debug("key", zap.Int("index", k.Index), zap.String("value", k.Value))
		}

		u, ticked := p.Right.Get()
		if !ticked {
			u.Remaining = opts.Interval
		}
		expired := ticked && u.Expired()

		// The final frame is always drawn.
		if expired || limiter.Allow() {
			if err := draw(keys, u.Remaining); err != nil {
				sig.AbortCause(err)
				return keys, err
			}
		}

		if expired {
			sig.Abort()
			break
		}
	}

	if err := ctx.Err(); err != nil {
		log.Info("measurement canceled", zap.Int("keys", len(keys)))
		return keys, context.Cause(ctx)
	}
	log.Info("measurement complete", zap.Int("keys", len(keys)))
	return keys, nil
}
