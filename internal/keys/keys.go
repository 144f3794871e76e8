// Copyright 2026 Bob Vawter (bob@vawter.org)
// SPDX-License-Identifier: Apache-2.0

// Package keys reads individual keystrokes from a terminal.
package keys

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/muesli/cancelreader"
	"golang.org/x/term"
	"vawter.tech/keyrate/seq"
)

// ErrInterrupted is yielded when the user presses Ctrl-C. Raw mode
// turns off the terminal's own interrupt handling, so the keystroke
// arrives as data.
var ErrInterrupted = errors.New("interrupted")

const ctrlC = 0x03

// Read returns a sequence of the keys typed into the terminal. Each
// element is the text delivered by a single read, which is usually one
// key but may be an escape sequence or several keys typed faster than
// they were consumed.
//
// While the sequence is being iterated, the terminal is in raw mode.
// The previous mode is restored when iteration ends, however it ends.
// Canceling the context interrupts a pending read and ends the
// sequence without an error. If the input is not a terminal, it is read
// as-is until EOF.
func Read(ctx context.Context, in *os.File) seq.Seq[string] {
	return func(yield func(string, error) bool) {
		restore, err := makeRaw(in)
		if err != nil {
			yield("", err)
			return
		}
		defer restore()

		r, err := cancelreader.NewReader(in)
		if err != nil {
			yield("", fmt.Errorf("opening key reader: %w", err))
			return
		}
		defer func() { _ = r.Close() }()

		stop := context.AfterFunc(ctx, func() { r.Cancel() })
		defer stop()

		buf := make([]byte, 64)
		for {
			n, err := r.Read(buf)
			if n > 0 {
				if bytes.IndexByte(buf[:n], ctrlC) >= 0 {
					yield("", ErrInterrupted)
					return
				}
				if !yield(string(buf[:n]), nil) {
					return
				}
			}
			switch {
			case err == nil:
			case errors.Is(err, cancelreader.ErrCanceled), errors.Is(err, io.EOF):
				return
			default:
				yield("", fmt.Errorf("reading keys: %w", err))
				return
			}
		}
	}
}

// WaitAny blocks until a single key is pressed. It returns the
// context's error if the context is canceled first and [io.EOF] if the
// input ends.
func WaitAny(ctx context.Context, in *os.File) error {
	for _, err := range Read(ctx, in) {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return io.EOF
}

// makeRaw switches a terminal into raw mode and returns a function to
// undo it.
func makeRaw(in *os.File) (restore func(), _ error) {
	fd := int(in.Fd())
	if !term.IsTerminal(fd) {
		return func() {}, nil
	}
	prev, err := term.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("entering raw mode: %w", err)
	}
	return func() { _ = term.Restore(fd, prev) }, nil
}
