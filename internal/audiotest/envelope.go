// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"testing"

	"github.com/ik5/opsynth/envelope"
)

// Flat returns an envelope that holds intensity 1 for the whole note and
// has no release tail.
func Flat(tb testing.TB, rate int) *envelope.Envelope {
	tb.Helper()

	return Envelope(tb, envelope.Params{IMax: 1, IMin: 1, Sustain: 1}, rate)
}

// Envelope builds p or fails the test.
func Envelope(tb testing.TB, p envelope.Params, rate int) *envelope.Envelope {
	tb.Helper()

	e, err := envelope.New(p, rate)
	if err != nil {
		tb.Fatalf("envelope.New(%+v, %d) error = %v", p, rate, err)
	}

	return e
}
