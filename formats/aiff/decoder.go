// SPDX-License-Identifier: EPL-2.0

package aiff

import (
	"io"

	goaiff "github.com/go-audio/aiff"

	"github.com/ik5/opsynth/audio"
	"github.com/ik5/opsynth/formats/internal/pcm"
)

type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	rs, err := pcm.ReadSeeker(r)
	if err != nil {
		return nil, err
	}

	dec := goaiff.NewDecoder(rs)
	if !dec.IsValidFile() {
		return nil, ErrNotAiffFile
	}
	dec.ReadInfo()

	bits := int(dec.BitDepth)
	if err := pcm.CheckBitDepth(bits); err != nil {
		return nil, err
	}

	f := dec.Format()
	if f == nil || f.NumChannels < 1 || f.SampleRate <= 0 {
		return nil, ErrUnsupportedAiffLayout
	}

	return pcm.NewSource(dec, bits), nil
}
