// SPDX-License-Identifier: EPL-2.0

package envelope

import (
	"fmt"
	"math"
	"sync/atomic"
)

const (
	// MaxTime is the longest attack, decay or release, in samples.
	MaxTime = 1 << 24

	MinSampleRate = 1
	MaxSampleRate = 768000
)

// Params describes an ADSR envelope in musical units.
type Params struct {
	IMax      float64 // peak intensity reached at the end of the attack
	IMin      float64 // intensity at the first sample of a note
	AttackMS  float64
	DecayMS   float64
	Sustain   float64 // fraction of IMax held until the note ends
	ReleaseMS float64

	// Curve shapes every phase. Nil selects Linear.
	Curve Curve
}

// Envelope is an immutable ADSR envelope with all durations resolved to
// whole samples. It is shared by every voice of an instrument.
type Envelope struct {
	attack  int
	decay   int
	release int
	sustain float64
	iMin    float64
	iMax    float64
	curve   Curve

	refs atomic.Int32
}

// New resolves p at sampleRate. The returned envelope holds one reference.
func New(p Params, sampleRate int) (*Envelope, error) {
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"imax", p.IMax},
		{"imin", p.IMin},
		{"attack", p.AttackMS},
		{"decay", p.DecayMS},
		{"sustain", p.Sustain},
		{"release", p.ReleaseMS},
	} {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return nil, fmt.Errorf("%s: %w", f.name, ErrNonFinite)
		}
	}

	if p.IMax <= 0 || p.IMax > 1 || p.IMin < 0 || p.IMin > 1 {
		return nil, fmt.Errorf("imax=%g imin=%g: %w", p.IMax, p.IMin, ErrIntensityRange)
	}
	if p.IMax < p.IMin {
		return nil, fmt.Errorf("imax=%g imin=%g: %w", p.IMax, p.IMin, ErrIntensityOrder)
	}
	if p.Sustain < 0 || p.Sustain > 1 {
		return nil, fmt.Errorf("sustain=%g: %w", p.Sustain, ErrSustainRange)
	}
	if sampleRate < MinSampleRate || sampleRate > MaxSampleRate {
		return nil, fmt.Errorf("%d Hz: %w", sampleRate, ErrSampleRate)
	}

	decayMS, releaseMS := p.DecayMS, p.ReleaseMS
	switch p.Sustain {
	case 0:
		// nothing left to release
		releaseMS = 0
	case 1:
		// nothing to decay towards
		decayMS = 0
	}

	curve := p.Curve
	if curve == nil {
		curve = Linear
	}

	e := &Envelope{
		attack:  toSamples(p.AttackMS, sampleRate),
		decay:   toSamples(decayMS, sampleRate),
		release: toSamples(releaseMS, sampleRate),
		sustain: p.Sustain,
		iMin:    p.IMin,
		iMax:    p.IMax,
		curve:   curve,
	}
	e.refs.Store(1)

	return e, nil
}

func toSamples(ms float64, rate int) int {
	n := math.Round(float64(rate) * (ms / 1000))
	switch {
	case math.IsNaN(n) || math.IsInf(n, 0) || n >= MaxTime:
		return MaxTime
	case n <= 0:
		return 0
	}

	return int(n)
}

func (e *Envelope) AttackSamples() int  { return e.attack }
func (e *Envelope) DecaySamples() int   { return e.decay }
func (e *Envelope) ReleaseSamples() int { return e.release }

// SustainLevel is the absolute intensity held during the sustain phase.
func (e *Envelope) SustainLevel() float64 { return e.sustain * e.iMax }

// ExtraSamples is how far past the nominal note duration the envelope
// still produces sound.
func (e *Envelope) ExtraSamples() int { return e.release }

// Length is the full rendered span of a note lasting dur samples.
func (e *Envelope) Length(dur int) int {
	if dur < 1 {
		panic(fmt.Errorf("length(%d): %w", dur, ErrDuration))
	}

	return dur + e.release
}

// Intensity returns the amplitude multiplier at sample t of a note lasting
// dur samples. It is zero before the note and from Length(dur) on.
func (e *Envelope) Intensity(t, dur int) float64 {
	if t < 0 || t >= e.Length(dur) {
		return 0
	}
	if t < dur {
		return e.body(t)
	}

	// release starts from the last body sample, so short notes never jump
	// up to the sustain level
	from := e.body(dur - 1)
	p := float64(t-dur) / float64(e.release)

	return from * (1 - e.curve.apply(p))
}

// body is the attack/decay/sustain shape, ignoring the note's end.
func (e *Envelope) body(t int) float64 {
	if t < e.attack {
		p := float64(t) / float64(e.attack)
		return e.iMin + (e.iMax-e.iMin)*e.curve.apply(p)
	}

	level := e.SustainLevel()

	t -= e.attack
	if t < e.decay {
		p := float64(t) / float64(e.decay)
		return e.iMax - (e.iMax-level)*e.curve.apply(p)
	}

	return level
}

// Retain adds a reference.
func (e *Envelope) Retain() {
	for {
		n := e.refs.Load()
		if n <= 0 {
			panic(ErrReleased)
		}
		if n == math.MaxInt32 {
			panic(ErrRefOverflow)
		}
		if e.refs.CompareAndSwap(n, n+1) {
			return
		}
	}
}

// Release drops a reference. Releasing more often than retained panics.
func (e *Envelope) Release() {
	if e.refs.Add(-1) < 0 {
		panic(ErrReleased)
	}
}

// Refs reports the live reference count; zero means released.
func (e *Envelope) Refs() int { return int(e.refs.Load()) }
