// SPDX-License-Identifier: EPL-2.0

package compare

import (
	"fmt"
	"io"
	"math"
	"os"

	"github.com/ik5/opsynth/audio"
)

// Load decodes the recording at path with the decoder registered for its
// extension and returns it as mono samples at rate.
func Load(reg *audio.Registry, path string, rate int) ([]float32, error) {
	dec, err := reg.ForPath(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening reference: %w", err)
	}
	defer f.Close()

	samples, err := Read(dec, f, rate)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return samples, nil
}

// Read decodes r with dec, downmixes to mono and resamples to rate.
func Read(dec audio.Decoder, r io.Reader, rate int) (samples []float32, err error) {
	if rate < 1 {
		return nil, fmt.Errorf("rate=%d: %w", rate, ErrInvalidRate)
	}

	src, err := dec.Decode(r)
	if err != nil {
		return nil, err
	}

	var s audio.Source = audio.NewMonoMixer(src)
	if s.SampleRate() != rate {
		s = audio.NewResampler(s, rate)
	}
	defer func() {
		if cerr := s.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	samples, err = audio.ReadAll(s)
	if err != nil {
		return nil, err
	}
	if len(samples) == 0 {
		return nil, ErrEmpty
	}

	return samples, nil
}

// Report summarises how far a render strays from a reference.
type Report struct {
	Samples     int // compared length, the shorter input is padded with silence
	LengthDelta int // len(got) - len(want)
	RMS         float64
	Peak        float64
	PeakAt      int

	diff []float32
}

// Diff compares got against want sample by sample.
func Diff(got, want []float32) Report {
	n := max(len(got), len(want))
	r := Report{
		Samples:     n,
		LengthDelta: len(got) - len(want),
		PeakAt:      -1,
		diff:        make([]float32, n),
	}

	var sum float64
	for i := range n {
		var g, w float32
		if i < len(got) {
			g = got[i]
		}
		if i < len(want) {
			w = want[i]
		}

		d := g - w
		r.diff[i] = d

		a := math.Abs(float64(d))
		sum += a * a
		if a > r.Peak {
			r.Peak, r.PeakAt = a, i
		}
	}

	if n > 0 {
		r.RMS = math.Sqrt(sum / float64(n))
	}

	return r
}

// FirstOver returns the first sample whose deviation exceeds threshold, or
// -1 when none does.
func (r Report) FirstOver(threshold float64) int {
	for i, d := range r.diff {
		if math.Abs(float64(d)) > threshold {
			return i
		}
	}

	return -1
}

// Within reports whether no sample deviates by more than tolerance.
func (r Report) Within(tolerance float64) bool { return r.Peak <= tolerance }

func (r Report) String() string {
	return fmt.Sprintf("%d samples, length delta %d, rms %.6f, peak %.6f at %d",
		r.Samples, r.LengthDelta, r.RMS, r.Peak, r.PeakAt)
}
