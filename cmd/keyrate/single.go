// Copyright 2026 Bob Vawter (bob@vawter.org)
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"vawter.tech/keyrate/abort"
	"vawter.tech/keyrate/internal/collect"
	"vawter.tech/keyrate/internal/keys"
	"vawter.tech/keyrate/internal/layout"
	"vawter.tech/keyrate/internal/score"
	"vawter.tech/keyrate/internal/store"
	"vawter.tech/keyrate/retry"
	"vawter.tech/keyrate/seq"
)

// singleName is the result file for single-key measurements.
const singleName = "single"

func (a *app) singleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "single",
		Short: "Measure how fast each position can be pressed repeatedly",
		Long: `For every finger position, press the described key as fast as you
can until the countdown ends. Keys other than the most frequent one count
as mistypes. Results are written once, to single.json in the data
directory; the command does nothing if that file already exists.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runSingle(cmd.Context(), cmd.OutOrStdout(), os.Stdin)
		},
	}
	cmd.Flags().Duration("interval", 0, "measurement length for each position (default 10s)")
	cmd.Flags().Duration("update", 0, "countdown refresh interval (default 500ms)")
	cmd.Flags().Int("penalty", 0, "points subtracted for each mistype (default 4)")
	return cmd
}

func (a *app) runSingle(ctx context.Context, out io.Writer, in *os.File) error {
	dir := a.cfg.Output.Directory
	exists, err := store.Exists(dir, singleName)
	if err != nil {
		return err
	}
	if exists {
		a.logger.Info("results already recorded", zap.String("path", store.Path(dir, singleName)))
		_, err := fmt.Fprintf(out, "%s already exists\n", store.Path(dir, singleName))
		return err
	}

	interval := a.cfg.Measure.Interval
	screen := collect.NewTerminal(out)
	results := store.NewResults(time.Now(), interval)
	log := a.logger.With(zap.Stringer("run", results.RunID))

	for _, pos := range layout.All() {
		typed, err := collect.Gather(ctx, collect.Options{
			Description: fmt.Sprintf(
				"You will have to press the described key as fast as you can for %s.\nPosition: %s.",
				interval, pos.Description),
			Interval: interval,
			Update:   a.cfg.Measure.Update,
			FPS:      a.cfg.Render.FPS,
			Keys: func(ctx context.Context) seq.Seq[string] {
				return keys.Read(ctx, in)
			},
			Wait: func(ctx context.Context) error {
				return keys.WaitAny(ctx, in)
			},
			Screen: screen,
			Logger: log.With(zap.String("position", pos.Name)),
		})
		if err != nil {
			if errors.Is(err, keys.ErrInterrupted) || errors.Is(err, abort.ErrAborted) {
				log.Info("run interrupted", zap.String("position", pos.Name))
				_ = screen.Draw("Interrupted; nothing was saved.")
				return nil
			}
			return fmt.Errorf("measuring %s: %w", pos.Name, err)
		}

		s := score.Same(typed, a.cfg.Measure.Penalty)
		results.PerMinute[pos.Name] = score.PerMinute(s, interval)
		log.Info("position measured",
			zap.String("position", pos.Name),
			zap.Int("keys", len(typed)),
			zap.Int("score", s))
	}

	_ = screen.Draw()
	backoff := &retry.Backoff{
		MaxAttempts: 5,
		MinDelay:    50 * time.Millisecond,
		MaxDelay:    2 * time.Second,
		Jitter:      20 * time.Millisecond,
		OnRetry: func(attempt int, wait time.Duration, err error) {
			log.Warn("retrying results write",
				zap.Int("attempt", attempt),
				zap.Duration("wait", wait),
				zap.Error(err))
		},
	}
	if err := store.Write(ctx, dir, singleName, results, backoff); err != nil {
		return err
	}
	log.Info("results written", zap.String("path", store.Path(dir, singleName)))
	_, err = fmt.Fprintf(out, "Results written to %s\n", store.Path(dir, singleName))
	return err
}
