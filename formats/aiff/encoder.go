// SPDX-License-Identifier: EPL-2.0

package aiff

import (
	"fmt"
	"io"

	goaiff "github.com/go-audio/aiff"

	"github.com/ik5/opsynth/formats/internal/pcm"
)

// Encode writes samples as a mono big-endian PCM AIFF file.
func Encode(w io.WriteSeeker, rate, bitDepth int, samples []float32) error {
	if rate <= 0 {
		return fmt.Errorf("%d Hz: %w", rate, ErrInvalidSampleRate)
	}
	if err := pcm.CheckBitDepth(bitDepth); err != nil {
		return err
	}

	if err := pcm.Encode(goaiff.NewEncoder(w, rate, bitDepth, 1), rate, bitDepth, samples); err != nil {
		return fmt.Errorf("aiff: %w", err)
	}

	return nil
}
