// Copyright 2026 Bob Vawter (bob@vawter.org)
// SPDX-License-Identifier: Apache-2.0

// Package score turns collected keystrokes into typing rates.
package score

import "time"

// Same scores a run in which a single key was to be pressed repeatedly.
// The most frequently pressed key counts as the intended key. Every
// other keystroke is a mistype and subtracts the penalty. An empty run
// scores zero.
func Same(keys []string, penalty int) int {
	if len(keys) == 0 {
		return 0
	}
	counts := make(map[string]int)
	for _, k := range keys {
		counts[k]++
	}
	best := 0
	for _, n := range counts {
		best = max(best, n)
	}
	mistypes := len(keys) - best
	return best - mistypes*penalty
}

// PerMinute scales a score collected over the interval to a rate per
// minute.
func PerMinute(score int, interval time.Duration) float64 {
	if interval <= 0 {
		return 0
	}
	return float64(score) * float64(time.Minute) / float64(interval)
}
