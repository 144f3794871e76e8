// Copyright 2026 Bob Vawter (bob@vawter.org)
// SPDX-License-Identifier: Apache-2.0

package abort

// OnReceive will fire the Signal when a value is received from the
// channel or if the channel is closed. OnReceive can be used, for
// example, with [os/signal.Notify]. If the Signal has already fired,
// this function is a no-op.
func OnReceive[T any](s *Signal, ch <-chan T) {
	if s.Aborted() {
		return
	}
	go func() {
		select {
		case <-ch:
			s.Abort()
		case <-s.Done():
		}
	}()
}
