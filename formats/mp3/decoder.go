// SPDX-License-Identifier: EPL-2.0

package mp3

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	gomp3 "github.com/hajimehoshi/go-mp3"

	"github.com/ik5/opsynth/audio"
)

// go-mp3 always decodes to interleaved 16 bit stereo.
const channels = 2

// ErrNoProgress is returned when the decoder keeps yielding nothing.
var ErrNoProgress = errors.New("mp3 decoder made no progress")

// pcmReader is the part of gomp3.Decoder the source uses.
type pcmReader interface {
	Read([]byte) (int, error)
	SampleRate() int
}

type source struct {
	dec  pcmReader
	rate int
	buf  []byte
	odd  []byte // trailing byte of a split sample
}

func newSource(dec pcmReader) *source {
	return &source{
		dec:  dec,
		rate: dec.SampleRate(),
		buf:  make([]byte, 8192),
	}
}

func (s *source) SampleRate() int { return s.rate }
func (s *source) Channels() int   { return channels }
func (s *source) Close() error    { return nil }
func (s *source) BufSize() int    { return cap(s.buf) / 2 }

func (s *source) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}

	need := len(dst) * 2
	if cap(s.buf) < need {
		s.buf = make([]byte, need)
	}

	for tries := 0; ; tries++ {
		pre := copy(s.buf, s.odd)
		s.odd = s.odd[:0]

		n, err := s.dec.Read(s.buf[pre:need])
		n += pre

		samples := n / 2
		if n%2 == 1 {
			s.odd = append(s.odd, s.buf[n-1])
		}

		for i := range samples {
			dst[i] = float32(int16(binary.LittleEndian.Uint16(s.buf[2*i:]))) / 32768
		}

		switch {
		case err == io.EOF:
			return samples, io.EOF
		case err != nil:
			return samples, fmt.Errorf("decoding mp3: %w", err)
		case samples > 0:
			return samples, nil
		case tries >= 100:
			return 0, ErrNoProgress
		}
	}
}

type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	dec, err := gomp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("opening mp3 stream: %w", err)
	}

	return newSource(dec), nil
}
