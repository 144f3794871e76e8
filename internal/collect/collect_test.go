// Copyright 2026 Bob Vawter (bob@vawter.org)
// SPDX-License-Identifier: Apache-2.0

package collect

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"slices"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"vawter.tech/keyrate/seq"
)

// recorder is a Screen that remembers every frame.
type recorder struct {
	frames    [][]string
	err       error // Returned once failAfter frames have been drawn.
	failAfter int
}

func (r *recorder) Draw(lines ...string) error {
	if r.err != nil && len(r.frames) >= r.failAfter {
		return r.err
	}
	r.frames = append(r.frames, slices.Clone(lines))
	return nil
}

func (r *recorder) last() []string { return r.frames[len(r.frames)-1] }

type step struct {
	at  time.Duration // Relative to the start of iteration.
	key string
	err error
}

// scripted returns a key source that types according to the script
// and then waits, like an idle keyboard, until the context is canceled.
func scripted(steps ...step) func(context.Context) seq.Seq[string] {
	return func(ctx context.Context) seq.Seq[string] {
		return func(yield func(string, error) bool) {
			start := time.Now()
			for _, s := range steps {
				select {
				case <-time.After(s.at - time.Since(start)):
				case <-ctx.Done():
					return
				}
				if s.err != nil {
					yield("", s.err)
					return
				}
				if !yield(s.key, nil) {
					return
				}
			}
			<-ctx.Done()
		}
	}
}

func testOptions(t *testing.T, screen Screen, keys func(context.Context) seq.Seq[string]) Options {
	return Options{
		Description: "Press the key",
		Interval:    time.Second,
		Update:      500 * time.Millisecond,
		FPS:         20,
		Keys:        keys,
		Screen:      screen,
		Logger:      zaptest.NewLogger(t),
	}
}

func TestGather(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		r := require.New(t)

		screen := &recorder{}
		opts := testOptions(t, screen, scripted(
			step{at: 100 * time.Millisecond, key: "a"},
			step{at: 200 * time.Millisecond, key: "a"},
			step{at: 300 * time.Millisecond, key: "s"},
		))

		start := time.Now()
		keys, err := Gather(t.Context(), opts)
		r.NoError(err)
		r.Equal([]string{"a", "a", "s"}, keys)
		r.Equal(time.Second, time.Since(start))

		r.Equal([]string{"Press the key", "", Prompt}, screen.frames[0])
		r.Equal([]string{
			"Press the key",
			"",
			"Keys pressed: 0",
			"Remaining time: 1s",
		}, screen.frames[1])
		r.Equal([]string{
			"Press the key",
			"",
			"Keys pressed: 3",
			"Remaining time: 0s",
		}, screen.last())
	})
}

// TestGatherFirstKey verifies that a key typed the instant the
// measurement begins is counted.
func TestGatherFirstKey(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		r := require.New(t)

		keys, err := Gather(t.Context(), testOptions(t, &recorder{}, scripted(
			step{at: 0, key: "x"},
		)))
		r.NoError(err)
		r.Equal([]string{"x"}, keys)
	})
}

func TestGatherWait(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		r := require.New(t)

		screen := &recorder{}
		opts := testOptions(t, screen, scripted(step{at: 100 * time.Millisecond, key: "q"}))
		opts.Wait = func(context.Context) error {
			r.Len(screen.frames, 1)
			time.Sleep(5 * time.Second)
			return nil
		}

		start := time.Now()
		keys, err := Gather(t.Context(), opts)
		r.NoError(err)
		r.Equal([]string{"q"}, keys)
		r.Equal(6*time.Second, time.Since(start))
	})
}

func TestGatherWaitError(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		r := require.New(t)

		boom := errors.New("boom")
		opts := testOptions(t, &recorder{}, func(context.Context) seq.Seq[string] {
			r.Fail("should not read keys")
			return seq.Values[string]()
		})
		opts.Wait = func(context.Context) error { return boom }

		keys, err := Gather(t.Context(), opts)
		r.ErrorIs(err, boom)
		r.Empty(keys)
	})
}

func TestGatherCanceled(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		r := require.New(t)

		ctx, cancel := context.WithCancel(t.Context())
		go func() {
			time.Sleep(600 * time.Millisecond)
			cancel()
		}()

		start := time.Now()
		keys, err := Gather(ctx, testOptions(t, &recorder{}, scripted(
			step{at: 100 * time.Millisecond, key: "a"},
			step{at: 200 * time.Millisecond, key: "b"},
			step{at: 700 * time.Millisecond, key: "c"},
		)))
		r.ErrorIs(err, context.Canceled)
		r.Equal([]string{"a", "b"}, keys)
		r.Equal(600*time.Millisecond, time.Since(start))
	})
}

// TestGatherKeyError verifies that a failing key source ends the
// measurement right away.
func TestGatherKeyError(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		r := require.New(t)

		interrupted := errors.New("interrupted")
		start := time.Now()
		keys, err := Gather(t.Context(), testOptions(t, &recorder{}, scripted(
			step{at: 100 * time.Millisecond, key: "a"},
			step{at: 200 * time.Millisecond, err: interrupted},
		)))
		r.ErrorIs(err, interrupted)
		r.Equal([]string{"a"}, keys)
		r.Equal(200*time.Millisecond, time.Since(start))
	})
}

func TestGatherScreenError(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		r := require.New(t)

		boom := errors.New("screen gone")
		screen := &recorder{err: boom, failAfter: 1}
		_, err := Gather(t.Context(), testOptions(t, screen, scripted()))
		r.ErrorIs(err, boom)
		r.Len(screen.frames, 1)
	})
}

// TestGatherThrottle verifies that a flood of keys is recorded in full
// while the screen is redrawn at a bounded rate.
func TestGatherThrottle(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		r := require.New(t)

		var steps []step
		var expect []string
		for i := range 500 {
			key := fmt.Sprintf("k%d", i)
			steps = append(steps, step{at: time.Duration(i+1) * time.Millisecond, key: key})
			expect = append(expect, key)
		}

		screen := &recorder{}
		opts := testOptions(t, screen, scripted(steps...))
		opts.FPS = 10

		keys, err := Gather(t.Context(), opts)
		r.NoError(err)
		r.Equal(expect, keys)

		// The prompt, a burst of one, ten per second, and the final frame.
		r.LessOrEqual(len(screen.frames), 13)
		r.Equal("Keys pressed: 500", screen.last()[2])
	})
}

func TestGatherInvalid(t *testing.T) {
	r := require.New(t)

	_, err := Gather(t.Context(), Options{})
	r.ErrorContains(err, "interval must be positive")
	r.ErrorContains(err, "no key source")
	r.ErrorContains(err, "no screen")
}

func TestTerminal(t *testing.T) {
	r := require.New(t)

	var buf bytes.Buffer
	term := NewTerminal(&buf)
	r.NoError(term.Draw("one", "two\nthree"))
	r.Equal("\x1b[H\x1b[2Jone\r\ntwo\r\nthree\r\n", buf.String())

	buf.Reset()
	r.NoError(term.Draw())
	r.Equal(clearHome, buf.String())
}
