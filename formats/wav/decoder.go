// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"fmt"
	"io"

	gowav "github.com/go-audio/wav"

	"github.com/ik5/opsynth/audio"
	"github.com/ik5/opsynth/formats/internal/pcm"
)

const formatPCM = 1

type Decoder struct{}

// Decode reads a 16, 24 or 32 bit integer PCM file. r is buffered in
// memory unless it can seek.
func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	rs, err := pcm.ReadSeeker(r)
	if err != nil {
		return nil, err
	}

	d := gowav.NewDecoder(rs)
	if !d.IsValidFile() {
		if err := d.Err(); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrNotWavFile, err)
		}
		return nil, ErrNotWavFile
	}

	if d.WavAudioFormat != formatPCM {
		return nil, fmt.Errorf("format tag %d: %w", d.WavAudioFormat, ErrUnsupportedWavLayout)
	}

	bits := int(d.BitDepth)
	if err := pcm.CheckBitDepth(bits); err != nil {
		return nil, err
	}

	return pcm.NewSource(d, bits), nil
}
