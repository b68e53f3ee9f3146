// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"fmt"
	"io"

	gowav "github.com/go-audio/wav"

	"github.com/ik5/opsynth/formats/internal/pcm"
)

// Encode writes samples as a mono integer PCM file of the given bit depth.
// Samples outside [-1,1] are clamped. w is seeked back to patch the header
// but is not closed.
func Encode(w io.WriteSeeker, rate, bitDepth int, samples []float32) error {
	if rate <= 0 {
		return fmt.Errorf("%d Hz: %w", rate, ErrInvalidSampleRate)
	}
	if err := pcm.CheckBitDepth(bitDepth); err != nil {
		return err
	}

	enc := gowav.NewEncoder(w, rate, bitDepth, 1, formatPCM)
	if err := pcm.Encode(enc, rate, bitDepth, samples); err != nil {
		return fmt.Errorf("wav: %w", err)
	}

	return nil
}
