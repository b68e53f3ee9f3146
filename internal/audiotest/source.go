// SPDX-License-Identifier: EPL-2.0

// Package audiotest holds fixtures shared by the package tests and examples:
// scripted audio sources and ready-made envelopes.
package audiotest

import (
	"io"
	"math"
)

// Source plays back frames computed by a function of (frame, channel).
// It implements audio.Source without importing it.
type Source struct {
	rate     int
	channels int
	frames   int
	pos      int
	fn       func(frame, channel int) float32
	closed   bool
}

// NewSource returns a source of the given number of frames.
func NewSource(rate, channels, frames int, fn func(frame, channel int) float32) *Source {
	return &Source{
		rate:     rate,
		channels: channels,
		frames:   frames,
		fn:       fn,
	}
}

// Silence is all zeros.
func Silence(rate, channels, frames int) *Source {
	return NewSource(rate, channels, frames, func(int, int) float32 { return 0 })
}

// Constant repeats value on every channel.
func Constant(rate, channels, frames int, value float32) *Source {
	return NewSource(rate, channels, frames, func(int, int) float32 { return value })
}

// Tone is a sine of freq Hz and peak amp on every channel.
func Tone(rate, channels, frames int, freq, amp float64) *Source {
	return NewSource(rate, channels, frames, func(frame, _ int) float32 {
		return float32(amp * math.Sin(2*math.Pi*freq*float64(frame)/float64(rate)))
	})
}

// Samples plays back a mono slice.
func Samples(rate int, data []float32) *Source {
	return NewSource(rate, 1, len(data), func(frame, _ int) float32 { return data[frame] })
}

func (s *Source) SampleRate() int { return s.rate }
func (s *Source) Channels() int   { return s.channels }
func (s *Source) BufSize() int    { return 4096 }

func (s *Source) Close() error {
	s.closed = true
	return nil
}

// Closed reports whether Close was called.
func (s *Source) Closed() bool { return s.closed }

// Rewind starts playback over.
func (s *Source) Rewind() { s.pos = 0 }

func (s *Source) ReadSamples(dst []float32) (int, error) {
	if s.pos >= s.frames {
		return 0, io.EOF
	}

	n := min(len(dst)/s.channels, s.frames-s.pos)
	for f := range n {
		for c := range s.channels {
			dst[f*s.channels+c] = s.fn(s.pos+f, c)
		}
	}
	s.pos += n

	if s.pos >= s.frames {
		return n * s.channels, io.EOF
	}

	return n * s.channels, nil
}
