// SPDX-License-Identifier: EPL-2.0

package generator

import (
	"fmt"
	"math"
	"sync/atomic"

	"github.com/ik5/opsynth/envelope"
)

// MaxHarmonics bounds OperatorParams.HarmonicLimit.
const MaxHarmonics = 4096

// Generator is a node of the class graph. The set of implementations is
// closed: *Operator, *Additive, *Scale and *Clip.
type Generator interface {
	// Retain adds a reference to the node.
	Retain()
	// Release drops a reference. The last release also releases every node
	// and envelope this node references.
	Release()
	// Refs reports the live reference count; zero means released.
	Refs() int

	counted() *refCount
}

type refCount struct {
	n atomic.Int32
}

func (r *refCount) counted() *refCount { return r }

func (r *refCount) init() { r.n.Store(1) }

func (r *refCount) Refs() int { return int(r.n.Load()) }

func (r *refCount) Retain() {
	for {
		n := r.n.Load()
		if n <= 0 {
			panic(ErrReleased)
		}
		if n == math.MaxInt32 {
			panic(ErrRefOverflow)
		}
		if r.n.CompareAndSwap(n, n+1) {
			return
		}
	}
}

// drop reports whether the last reference went away.
func (r *refCount) drop() bool {
	n := r.n.Add(-1)
	if n < 0 {
		panic(ErrReleased)
	}

	return n == 0
}

func live(g Generator) bool { return g.counted().n.Load() > 0 }

func mustLive(g Generator) {
	if !live(g) {
		panic(fmt.Errorf("%w: %T", ErrReleased, g))
	}
}

// isNil catches typed nil pointers stored in the interface.
func isNil(g Generator) bool {
	switch n := g.(type) {
	case nil:
		return true
	case *Operator:
		return n == nil
	case *Additive:
		return n == nil
	case *Scale:
		return n == nil
	case *Clip:
		return n == nil
	}

	return false
}

func checkInput(name string, g Generator) error {
	if isNil(g) {
		return fmt.Errorf("%s: %w", name, ErrNilInput)
	}
	if !live(g) {
		return fmt.Errorf("%s: %w", name, ErrReleased)
	}

	return nil
}

func checkFinite(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%s=%g: %w", name, v, ErrNonFinite)
	}

	return nil
}

// OperatorParams configures NewOperator.
type OperatorParams struct {
	Wave      Wave
	FreqMul   float64 // multiplies the voice's carrier frequency
	FreqBoost float64 // constant offset in Hz added after FreqMul
	Envelope  *envelope.Envelope

	// FM is added to the phase increment, in cycles per sample. AM is added
	// to the envelope intensity. Either may be nil.
	//
	// The silencing check uses the effective frequency, FM and feedback
	// included, so an operator driven at or past NyquistLimit by deep FM is
	// muted for the rest of the note.
	FM Generator
	AM Generator

	// Feedback coefficients applied to the operator's own previous sample.
	FeedbackFM float64
	FeedbackAM float64

	SampleRate int
	// NyquistLimit is the frequency at or above which the operator goes
	// silent. Zero selects SampleRate/2.
	NyquistLimit float64
	// HarmonicLimit caps the partials of square, triangle and sawtooth
	// waves. Zero selects the naive, unlimited shapes.
	HarmonicLimit int
}

// Operator is a single oscillator with its envelope and modulators.
type Operator struct {
	refCount

	wave       Wave
	freqMul    float64
	freqBoost  float64
	env        *envelope.Envelope
	fm         Generator
	am         Generator
	feedbackFM float64
	feedbackAM float64
	rate       float64
	nyquist    float64
	harmonics  int

	slot int    // index into the instance array, -1 until bound
	pass uint64 // bind pass that assigned slot
}

// NewOperator validates p and returns an operator holding one reference.
// The envelope and modulators are retained.
func NewOperator(p OperatorParams) (*Operator, error) {
	if !p.Wave.valid() {
		return nil, fmt.Errorf("wave %d: %w", p.Wave, ErrUnknownWave)
	}

	for _, f := range []struct {
		name string
		v    float64
	}{
		{"freq_mul", p.FreqMul},
		{"freq_boost", p.FreqBoost},
		{"feedback_fm", p.FeedbackFM},
		{"feedback_am", p.FeedbackAM},
		{"nyquist_limit", p.NyquistLimit},
	} {
		if err := checkFinite(f.name, f.v); err != nil {
			return nil, err
		}
	}

	if p.Envelope == nil {
		return nil, fmt.Errorf("envelope: %w", ErrNilInput)
	}
	if p.Envelope.Refs() <= 0 {
		return nil, fmt.Errorf("envelope: %w", ErrReleased)
	}
	if p.FM != nil {
		if err := checkInput("fm", p.FM); err != nil {
			return nil, err
		}
	}
	if p.AM != nil {
		if err := checkInput("am", p.AM); err != nil {
			return nil, err
		}
	}

	if p.SampleRate < envelope.MinSampleRate || p.SampleRate > envelope.MaxSampleRate {
		return nil, fmt.Errorf("sample_rate=%d: %w", p.SampleRate, ErrRange)
	}

	half := float64(p.SampleRate) / 2
	nyquist := p.NyquistLimit
	if nyquist == 0 {
		nyquist = half
	}
	if nyquist < 0 || nyquist > half {
		return nil, fmt.Errorf("nyquist_limit=%g: %w", p.NyquistLimit, ErrRange)
	}
	if p.HarmonicLimit < 0 || p.HarmonicLimit > MaxHarmonics {
		return nil, fmt.Errorf("harmonic_limit=%d: %w", p.HarmonicLimit, ErrRange)
	}

	op := &Operator{
		wave:       p.Wave,
		freqMul:    p.FreqMul,
		freqBoost:  p.FreqBoost,
		env:        p.Envelope,
		feedbackFM: p.FeedbackFM,
		feedbackAM: p.FeedbackAM,
		rate:       float64(p.SampleRate),
		nyquist:    nyquist,
		harmonics:  p.HarmonicLimit,
		slot:       -1,
	}
	if !isNil(p.FM) {
		op.fm = p.FM
		op.fm.Retain()
	}
	if !isNil(p.AM) {
		op.am = p.AM
		op.am.Retain()
	}
	op.env.Retain()
	op.init()

	return op, nil
}

func (op *Operator) Release() {
	if !op.drop() {
		return
	}

	if op.fm != nil {
		op.fm.Release()
	}
	if op.am != nil {
		op.am.Release()
	}
	op.env.Release()
}

func (op *Operator) Wave() Wave                   { return op.wave }
func (op *Operator) Envelope() *envelope.Envelope { return op.env }
func (op *Operator) NyquistLimit() float64        { return op.nyquist }
func (op *Operator) SampleRate() int              { return int(op.rate) }

// Slot is the operator's index in the instance array, or -1 when unbound.
func (op *Operator) Slot() int { return op.slot }

// Additive sums its children.
type Additive struct {
	refCount

	children []Generator
}

// NewAdditive retains every child. An empty sum is silent.
func NewAdditive(children ...Generator) (*Additive, error) {
	for i, c := range children {
		if err := checkInput(fmt.Sprintf("child %d", i), c); err != nil {
			return nil, err
		}
	}

	a := &Additive{children: append([]Generator(nil), children...)}
	for _, c := range a.children {
		c.Retain()
	}
	a.init()

	return a, nil
}

func (a *Additive) Release() {
	if !a.drop() {
		return
	}

	for _, c := range a.children {
		c.Release()
	}
}

// Children returns a copy of the child list.
func (a *Additive) Children() []Generator { return append([]Generator(nil), a.children...) }

// Scale multiplies its base by a constant gain.
type Scale struct {
	refCount

	base Generator
	k    float64
}

func NewScale(base Generator, k float64) (*Scale, error) {
	if err := checkInput("base", base); err != nil {
		return nil, err
	}
	if err := checkFinite("k", k); err != nil {
		return nil, err
	}

	base.Retain()
	s := &Scale{base: base, k: k}
	s.init()

	return s, nil
}

func (s *Scale) Release() {
	if s.drop() {
		s.base.Release()
	}
}

func (s *Scale) Gain() float64 { return s.k }

// Clip hard-limits its base to [-level, level].
type Clip struct {
	refCount

	base  Generator
	level float64
}

func NewClip(base Generator, level float64) (*Clip, error) {
	if err := checkInput("base", base); err != nil {
		return nil, err
	}
	if err := checkFinite("level", level); err != nil {
		return nil, err
	}
	if level < 0 {
		return nil, fmt.Errorf("level=%g: %w", level, ErrRange)
	}

	base.Retain()
	c := &Clip{base: base, level: level}
	c.init()

	return c, nil
}

func (c *Clip) Release() {
	if c.drop() {
		c.base.Release()
	}
}

func (c *Clip) Level() float64 { return c.level }
