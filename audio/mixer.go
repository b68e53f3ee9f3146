// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
	"io"
)

// Mixer sums sources that start at given frame offsets into one stream.
// The stream ends when every source has ended.
type Mixer struct {
	rate     int
	channels int
	tracks   []*track
	pos      int // frames emitted
	tmp      []float32
}

type track struct {
	src    Source
	offset int
	done   bool
}

func NewMixer(rate, channels int) *Mixer {
	return &Mixer{rate: rate, channels: channels}
}

// Add schedules src to start offset frames into the mix. Sources must
// match the mixer's rate and channel count.
func (m *Mixer) Add(src Source, offset int) error {
	switch {
	case src.SampleRate() != m.rate:
		return fmt.Errorf("%d Hz into %d Hz mix: %w", src.SampleRate(), m.rate, ErrRateMismatch)
	case src.Channels() != m.channels:
		return fmt.Errorf("%d channels into %d channel mix: %w", src.Channels(), m.channels, ErrChannelMismatch)
	case offset < 0:
		return fmt.Errorf("offset %d: %w", offset, ErrNegativeOffset)
	}

	m.tracks = append(m.tracks, &track{src: src, offset: offset})
	return nil
}

func (m *Mixer) SampleRate() int { return m.rate }
func (m *Mixer) Channels() int   { return m.channels }
func (m *Mixer) BufSize() int    { return 4096 - 4096%m.channels }

// Close closes every source, returning all errors joined.
func (m *Mixer) Close() error {
	var errs []error
	for _, t := range m.tracks {
		if err := t.src.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

func (m *Mixer) ReadSamples(dst []float32) (int, error) {
	if len(dst)%m.channels != 0 {
		return 0, ErrInvalidDstSize
	}

	frames := len(dst) / m.channels
	clear(dst)

	if cap(m.tmp) < len(dst) {
		m.tmp = make([]float32, len(dst))
	}

	extent := 0
	live := false

	for _, t := range m.tracks {
		if t.done {
			continue
		}

		start := t.offset - m.pos
		if start >= frames {
			live = true
			extent = frames
			continue
		}
		start = max(start, 0)

		n, err := m.fill(t, m.tmp[:(frames-start)*m.channels])
		o := start * m.channels
		for i, v := range m.tmp[:n] {
			dst[o+i] += v
		}

		if err != nil {
			return 0, err
		}

		if t.done {
			extent = max(extent, start+n/m.channels)
		} else {
			live = true
			extent = frames
		}
	}

	m.pos += extent

	if !live {
		return extent * m.channels, io.EOF
	}

	return extent * m.channels, nil
}

// fill reads from t until buf is full or the source ends.
func (m *Mixer) fill(t *track, buf []float32) (int, error) {
	got := 0
	for got < len(buf) {
		n, err := t.src.ReadSamples(buf[got:])
		got += n

		if err == io.EOF {
			t.done = true
			break
		}
		if err != nil {
			return got, fmt.Errorf("mixer track at %d: %w", t.offset, err)
		}
		if n == 0 {
			return got, fmt.Errorf("mixer track at %d: %w", t.offset, io.ErrNoProgress)
		}
	}

	return got, nil
}
