// Copyright 2026 Bob Vawter (bob@vawter.org)
// SPDX-License-Identifier: Apache-2.0

package seq

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"
	"vawter.tech/keyrate/internal/safe"
)

// A Pair holds the latest value seen from each side of [Combine]. A
// side is absent until its sequence has produced a value.
type Pair[S, T any] struct {
	Left  Option[S]
	Right Option[T]
}

// Combine merges two sequences that progress independently of one
// another. Each element of the returned sequence is a [Pair] carrying
// the most recent value produced by each input.
//
// Both inputs are consumed concurrently, each by its own goroutine.
// As soon as an input hands off a value, it is asked for the next one,
// so a slow input never delays a fast one. A Pair is emitted only when
// at least one input has produced a new value since the previous Pair;
// the end of an input emits nothing. Values that arrive from both
// inputs at the same moment are reported in a single Pair, but no
// value is ever skipped: finite inputs of lengths m and n yield between
// max(m, n) and m+n Pairs.
//
// The sequence ends once both inputs have ended. If the context is
// canceled, it ends without emitting anything further. If either input
// yields an error or panics, the error is yielded as the final element
// and the other input is canceled: its next value is refused, which
// makes it unwind. No Pair is emitted once the failure has been
// observed. A value the other input handed off before then may still
// be reported ahead of the error. In every case, including the consumer
// breaking out of its loop, Combine waits for both inputs to unwind
// before the range statement completes. An input that may block indefinitely should be
// built on a context the consumer cancels when it stops consuming,
// typically the one passed to Combine.
func Combine[S, T any](ctx context.Context, a Seq[S], b Seq[T]) Seq[Pair[S, T]] {
	return func(yield func(Pair[S, T], error) bool) {
		inner, cancel := context.WithCancel(ctx)
		g, gCtx := errgroup.WithContext(inner)
		defer func() {
			cancel()
			_ = g.Wait()
		}()

		aCh := make(chan S)
		bCh := make(chan T)
		g.Go(func() error { return pump(gCtx, a, aCh) })
		g.Go(func() error { return pump(gCtx, b, bCh) })

		var pair Pair[S, T]
		for aCh != nil || bCh != nil {
			fresh := false
			select {
			case v, ok := <-aCh:
				if ok {
					pair.Left, fresh = Some(v), true
				} else {
					aCh = nil
				}
				// Coalesce with a value the other side already has ready.
				select {
				case v, ok := <-bCh:
					if ok {
						pair.Right, fresh = Some(v), true
					} else {
						bCh = nil
					}
				default:
				}

			case v, ok := <-bCh:
				if ok {
					pair.Right, fresh = Some(v), true
				} else {
					bCh = nil
				}
				select {
				case v, ok := <-aCh:
					if ok {
						pair.Left, fresh = Some(v), true
					} else {
						aCh = nil
					}
				default:
				}

			case <-gCtx.Done():
			}

			// Canceled, or one of the pumps has failed.
			if gCtx.Err() != nil {
				break
			}
			if fresh && !yield(pair, nil) {
				return
			}
		}

		if gCtx.Err() == nil {
			// Both inputs ended on their own, so this will not block.
			if err := g.Wait(); err != nil {
				yield(Pair[S, T]{}, err)
			}
			return
		}
		// Report a failure before waiting on the surviving input, so
		// that the consumer has a chance to release it.
		if err := context.Cause(gCtx); !isCancellation(ctx, err) {
			yield(Pair[S, T]{}, err)
		}
	}
}

// isCancellation reports whether an input merely relayed the
// cancellation of the enclosing context.
func isCancellation(ctx context.Context, err error) bool {
	ctxErr := ctx.Err()
	if ctxErr == nil {
		return false
	}
	return errors.Is(err, ctxErr) || errors.Is(err, context.Canceled)
}

// pump hands each value of the sequence to the channel, one at a time,
// until the sequence ends, fails, or the context is canceled. The
// channel is closed only when pump returns without error, so a failure
// is observed through the group's context rather than as an input that
// has ended.
func pump[T any](ctx context.Context, items Seq[T], out chan<- T) error {
	err := safe.CallE(func() error {
		for v, err := range items {
			if err != nil {
				return err
			}
			select {
			case out <- v:
			case <-ctx.Done():
				return nil
			}
		}
		return nil
	})
	if err == nil {
		close(out)
	}
	return err
}
