// Copyright 2026 Bob Vawter (bob@vawter.org)
// SPDX-License-Identifier: Apache-2.0

// Package layout describes the finger positions of a split keyboard
// with three rows of six keys and three thumb keys per hand.
package layout

import (
	"fmt"
	"strings"
)

// Hand identifies the left or right hand.
type Hand string

// The hands, in measurement order.
const (
	Left  Hand = "left"
	Right Hand = "right"
)

// Finger identifies the finger responsible for a key.
type Finger string

// The fingers.
const (
	Pinkie Finger = "pinkie"
	Ring   Finger = "ring finger"
	Middle Finger = "middle finger"
	Index  Finger = "index finger"
	Thumb  Finger = "thumb"
)

// Dimensions of the key grid for each hand.
const (
	Rows      = 3
	Columns   = 6
	ThumbKeys = 3
)

// A Position is a single key reachable from the home row.
type Position struct {
	Name        string // For example, left_r1_c2 or right_thumb_0.
	Hand        Hand
	Finger      Finger
	Horizontal  int // -1 is one key to the left of the finger's resting key.
	Vertical    int // -1 is one key up from the finger's resting key.
	Description string
}

// fingerColumns maps each column, reading left to right, to the finger
// that reaches it and that finger's horizontal displacement.
var fingerColumns = map[Hand][Columns]struct {
	finger Finger
	offset int
}{
	Left: {
		{Pinkie, -1}, {Pinkie, 0}, {Ring, 0}, {Middle, 0}, {Index, 0}, {Index, 1},
	},
	Right: {
		{Index, -1}, {Index, 0}, {Middle, 0}, {Ring, 0}, {Pinkie, 0}, {Pinkie, 1},
	},
}

var all = build()

func build() []Position {
	ret := make([]Position, 0, 2*(Rows*Columns+ThumbKeys))
	for _, hand := range []Hand{Left, Right} {
		for row := range Rows {
			for col, fc := range fingerColumns[hand] {
				ret = append(ret, newPosition(
					fmt.Sprintf("%s_r%d_c%d", hand, row, col),
					hand, fc.finger, fc.offset, row-1))
			}
		}
		for key := range ThumbKeys {
			ret = append(ret, newPosition(
				fmt.Sprintf("%s_thumb_%d", hand, key),
				hand, Thumb, key-1, 0))
		}
	}
	return ret
}

func newPosition(name string, hand Hand, finger Finger, horizontal, vertical int) Position {
	return Position{
		Name:        name,
		Hand:        hand,
		Finger:      finger,
		Horizontal:  horizontal,
		Vertical:    vertical,
		Description: describe(hand, finger, horizontal, vertical),
	}
}

func describe(hand Hand, finger Finger, horizontal, vertical int) string {
	var moves []string
	switch {
	case horizontal < 0:
		moves = append(moves, "one key to the left")
	case horizontal > 0:
		moves = append(moves, "one key to the right")
	}
	switch {
	case vertical < 0:
		moves = append(moves, "one key up")
	case vertical > 0:
		moves = append(moves, "one key down")
	}
	if len(moves) == 0 {
		return fmt.Sprintf("Leave your %s %s in its resting position", hand, finger)
	}
	return fmt.Sprintf("Move your %s %s %s from its resting position",
		hand, finger, strings.Join(moves, " and "))
}

// All returns every position in measurement order: the left hand's
// rows from top to bottom and then its thumb keys, followed by the
// right hand in the same order.
func All() []Position {
	ret := make([]Position, len(all))
	copy(ret, all)
	return ret
}

// Lookup returns the position with the given name.
func Lookup(name string) (Position, bool) {
	for _, p := range all {
		if p.Name == name {
			return p, true
		}
	}
	return Position{}, false
}
