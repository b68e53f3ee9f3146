// SPDX-License-Identifier: EPL-2.0

package render

import (
	"fmt"
	"math"
)

// Note is one voice to render. Times are in samples at the instrument's
// rate.
type Note struct {
	Instrument *Instrument
	Start      int     // first output sample
	Freq       float64 // carrier frequency in Hz
	Duration   int     // nominal length, the release tail comes on top
	Gain       float64 // 0 plays at unit gain
}

func (n Note) validate() error {
	switch {
	case n.Instrument == nil:
		return ErrNoInstrument
	case n.Start < 0:
		return fmt.Errorf("start=%d: %w", n.Start, ErrNoteRange)
	case n.Duration < 1:
		return fmt.Errorf("duration=%d: %w", n.Duration, ErrNoteRange)
	case math.IsNaN(n.Freq) || math.IsInf(n.Freq, 0) || n.Freq <= 0:
		return fmt.Errorf("freq=%g: %w", n.Freq, ErrNoteRange)
	case math.IsNaN(n.Gain) || math.IsInf(n.Gain, 0):
		return fmt.Errorf("gain=%g: %w", n.Gain, ErrNoteRange)
	}

	return nil
}

func (n Note) gain() float64 {
	if n.Gain == 0 {
		return 1
	}

	return n.Gain
}
