// SPDX-License-Identifier: EPL-2.0

package render

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/ik5/opsynth/audio"
)

const chunk = 4096

// Options control Render.
type Options struct {
	// Workers bounds how many voices render at once. Zero or less uses
	// GOMAXPROCS.
	Workers int
	// SkipFaulty drops notes that fail instead of aborting the render.
	SkipFaulty bool
	// Logger receives one line per skipped note. Nil discards them.
	Logger *log.Logger
}

// Render plays every note and sums them into one mono buffer at the
// notes' common sample rate. Voices render in parallel; each owns its
// instance data and only reads the shared graphs.
//
// A failing note aborts the render with a *VoiceError unless
// opts.SkipFaulty is set. Cancelling ctx stops the render and returns the
// context's error.
func Render(ctx context.Context, notes []Note, opts Options) ([]float32, error) {
	if err := sameRate(notes); err != nil {
		return nil, err
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	voices := make([][]float32, len(notes))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, n := range notes {
		g.Go(func() error {
			buf, err := renderNote(ctx, n)
			if err == nil {
				voices[i] = buf
				return nil
			}

			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}

			verr := &VoiceError{Index: i, Note: n, Err: err}
			if !opts.SkipFaulty {
				return verr
			}
			if opts.Logger != nil {
				opts.Logger.Printf("skipping %v", verr)
			}

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return mix(notes, voices), nil
}

func renderNote(ctx context.Context, n Note) ([]float32, error) {
	vs, err := NewVoiceSource(n)
	if err != nil {
		return nil, err
	}

	out := make([]float32, vs.Len())
	pos := 0

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		m, err := vs.ReadSamples(out[pos:min(pos+chunk, len(out))])
		pos += m

		if err == io.EOF {
			return out[:pos], nil
		}
		if err != nil {
			return nil, err
		}
	}
}

// mix sums the rendered voices in note order so the result does not depend
// on scheduling.
func mix(notes []Note, voices [][]float32) []float32 {
	total := 0
	for i, v := range voices {
		if v != nil {
			total = max(total, notes[i].Start+len(v))
		}
	}

	out := make([]float32, total)
	for i, v := range voices {
		if v == nil {
			continue
		}
		dst := out[notes[i].Start:]
		for j, s := range v {
			dst[j] += s
		}
	}

	return out
}

func sameRate(notes []Note) error {
	rate := 0
	for i, n := range notes {
		if n.Instrument == nil {
			continue
		}
		if rate == 0 {
			rate = n.Instrument.SampleRate
			continue
		}
		if n.Instrument.SampleRate != rate {
			return &VoiceError{
				Index: i,
				Note:  n,
				Err:   fmt.Errorf("%d Hz in a %d Hz render: %w", n.Instrument.SampleRate, rate, ErrMixedRates),
			}
		}
	}

	return nil
}

// Stream returns the notes as an audio.Mixer that renders each voice while
// it is read, for output that should not be held in memory at once. Faults
// surface as read errors.
func Stream(rate int, notes []Note) (*audio.Mixer, error) {
	m := audio.NewMixer(rate, 1)

	for i, n := range notes {
		vs, err := NewVoiceSource(n)
		if err != nil {
			return nil, &VoiceError{Index: i, Note: n, Err: err}
		}
		if err := m.Add(vs, n.Start); err != nil {
			return nil, &VoiceError{Index: i, Note: n, Err: err}
		}
	}

	return m, nil
}
