// Copyright 2026 Bob Vawter (bob@vawter.org)
// SPDX-License-Identifier: Apache-2.0

package collect

import (
	"io"
	"strings"
)

// A Screen displays the state of a measurement.
type Screen interface {
	// Draw replaces the contents of the screen with the lines.
	Draw(lines ...string) error
}

// clearHome moves the cursor to the top-left corner and erases the
// display.
const clearHome = "\x1b[H\x1b[2J"

// Terminal is a Screen backed by an ANSI terminal.
type Terminal struct {
	w io.Writer
}

var _ Screen = (*Terminal)(nil)

// NewTerminal returns a Screen that writes to w, typically
// [os.Stdout].
func NewTerminal(w io.Writer) *Terminal {
	return &Terminal{w: w}
}

// Draw implements [Screen]. Lines may contain embedded newlines. Every
// line ends with CRLF since output post-processing is disabled while
// the terminal is in raw mode.
func (t *Terminal) Draw(lines ...string) error {
	var sb strings.Builder
	sb.WriteString(clearHome)
	for _, line := range lines {
		sb.WriteString(strings.ReplaceAll(line, "\n", "\r\n"))
		sb.WriteString("\r\n")
	}
	_, err := io.WriteString(t.w, sb.String())
	return err
}
