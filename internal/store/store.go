// Copyright 2026 Bob Vawter (bob@vawter.org)
// SPDX-License-Identifier: Apache-2.0

// Package store persists measurement results as JSON files.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"vawter.tech/keyrate/retry"
)

// Results holds the typing rates from one run of the collector.
type Results struct {
	RunID     uuid.UUID          `json:"run_id"`
	Started   time.Time          `json:"started"`
	Interval  time.Duration      `json:"interval_ns"`
	PerMinute map[string]float64 `json:"per_minute"` // Keyed by position name.
}

// NewResults returns an empty Results with a fresh run id.
func NewResults(started time.Time, interval time.Duration) *Results {
	return &Results{
		RunID:     uuid.New(),
		Started:   started,
		Interval:  interval,
		PerMinute: make(map[string]float64),
	}
}

// Path returns the location of a named result file.
func Path(dir, name string) string {
	return filepath.Join(dir, name+".json")
}

// Exists reports whether the named result file has been written.
func Exists(dir, name string) (bool, error) {
	_, err := os.Stat(Path(dir, name))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, err
	}
}

// Write stores the value as indented JSON. The file is replaced
// atomically, so readers never observe a partial file. Failed attempts
// are retried according to the backoff, which may be nil.
func Write(ctx context.Context, dir, name string, v any, backoff *retry.Backoff) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", name, err)
	}
	data = append(data, '\n')

	path := Path(dir, name)
	if backoff == nil {
		return writeFile(dir, path, data)
	}
	return backoff.Do(ctx, func(context.Context) error {
		return writeFile(dir, path, data)
	})
}

func writeFile(dir, path string, data []byte) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	// Harmless once the rename has succeeded.
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// Read decodes the named result file into v.
func Read(dir, name string, v any) error {
	data, err := os.ReadFile(Path(dir, name))
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decoding %s: %w", name, err)
	}
	return nil
}
