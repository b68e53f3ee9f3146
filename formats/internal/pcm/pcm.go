// SPDX-License-Identifier: EPL-2.0

// Package pcm bridges go-audio integer buffers and float32 sample streams
// for the wav and aiff packages.
package pcm

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"

	"github.com/ik5/opsynth/utils"
)

// ErrBitDepth is returned for sample sizes other than 16, 24 or 32 bits.
var ErrBitDepth = errors.New("unsupported PCM bit depth")

const chunk = 4096

// CheckBitDepth accepts the signed integer sample sizes both containers
// store the same way.
func CheckBitDepth(bits int) error {
	switch bits {
	case 16, 24, 32:
		return nil
	default:
		return fmt.Errorf("%d bit: %w", bits, ErrBitDepth)
	}
}

// Reader is the read side of the go-audio wav and aiff decoders.
type Reader interface {
	Format() *goaudio.Format
	PCMBuffer(buf *goaudio.IntBuffer) (int, error)
}

// Source streams a Reader as normalized float32 samples.
type Source struct {
	r        Reader
	rate     int
	channels int
	bits     int
	buf      *goaudio.IntBuffer
}

func NewSource(r Reader, bits int) *Source {
	f := r.Format()

	return &Source{
		r:        r,
		rate:     f.SampleRate,
		channels: f.NumChannels,
		bits:     bits,
		buf:      &goaudio.IntBuffer{Format: f, Data: make([]int, chunk-chunk%f.NumChannels)},
	}
}

func (s *Source) SampleRate() int { return s.rate }
func (s *Source) Channels() int   { return s.channels }
func (s *Source) BufSize() int    { return len(s.buf.Data) }
func (s *Source) Close() error    { return nil }

func (s *Source) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}

	if cap(s.buf.Data) < len(dst) {
		s.buf.Data = make([]int, len(dst))
	}
	s.buf.Data = s.buf.Data[:len(dst)]

	n, err := s.r.PCMBuffer(s.buf)
	if err != nil && err != io.EOF {
		return 0, fmt.Errorf("decoding PCM: %w", err)
	}
	if n == 0 {
		return 0, io.EOF
	}

	for i, v := range s.buf.Data[:n] {
		dst[i] = utils.PCMToFloat(v, s.bits)
	}

	return n, err
}

// Writer is the write side of the go-audio wav and aiff encoders.
type Writer interface {
	Write(buf *goaudio.IntBuffer) error
	Close() error
}

// Encode writes mono samples to w in chunks and closes it, which lets the
// encoder patch its header sizes.
func Encode(w Writer, rate, bits int, samples []float32) error {
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: 1, SampleRate: rate},
		Data:           make([]int, 0, min(len(samples), chunk)),
		SourceBitDepth: bits,
	}

	// an empty render still gets a header
	for first := true; first || len(samples) > 0; first = false {
		n := min(len(samples), chunk)

		buf.Data = buf.Data[:n]
		for i, v := range samples[:n] {
			buf.Data[i] = utils.FloatToPCM(v, bits)
		}

		if err := w.Write(buf); err != nil {
			return fmt.Errorf("writing PCM: %w", err)
		}
		samples = samples[n:]
	}

	if err := w.Close(); err != nil {
		return fmt.Errorf("finishing PCM stream: %w", err)
	}

	return nil
}

// ReadSeeker returns r itself when it can seek, and otherwise buffers it
// in memory; the go-audio decoders need to seek between chunks.
func ReadSeeker(r io.Reader) (io.ReadSeeker, error) {
	if rs, ok := r.(io.ReadSeeker); ok {
		return rs, nil
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("buffering input: %w", err)
	}

	return bytes.NewReader(data), nil
}
