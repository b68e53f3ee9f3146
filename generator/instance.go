// SPDX-License-Identifier: EPL-2.0

package generator

import (
	"fmt"
	"math"
	"math/rand/v2"
)

// Cursor values below zero.
const (
	unstarted = -1
	silenced  = -2
)

// noiseSeed is mixed with the slot index so renders are repeatable.
const noiseSeed = 0x6f70_7379_6e74_68

// Instance is the mutable state of one operator within one voice. A voice
// owns a []Instance indexed by the slots Bind assigned.
type Instance struct {
	phase  float64
	freq   float64
	last   float64
	cursor int
	dur    int
	rng    *rand.Rand
}

// Init prepares the slot for a note at freq Hz lasting dur samples, not
// counting the envelope release.
func (in *Instance) Init(freq float64, dur int) {
	if math.IsNaN(freq) || math.IsInf(freq, 0) || freq <= 0 || dur < 1 {
		panic(fmt.Errorf("freq=%g dur=%d: %w", freq, dur, ErrInstanceParams))
	}

	*in = Instance{
		freq:   freq,
		dur:    dur,
		cursor: unstarted,
	}
}

// NewInstances allocates and initializes the state of one voice.
func NewInstances(size int, freq float64, dur int) []Instance {
	if size < 0 {
		panic(fmt.Errorf("size %d: %w", size, ErrInstanceRange))
	}

	ins := make([]Instance, size)
	for i := range ins {
		ins[i].Init(freq, dur)
	}

	return ins
}

func (in *Instance) Phase() float64 { return in.phase }
func (in *Instance) Last() float64  { return in.last }
func (in *Instance) Freq() float64  { return in.freq }
func (in *Instance) Duration() int  { return in.dur }
func (in *Instance) Silenced() bool { return in.cursor == silenced }

func (in *Instance) initialized() bool { return in.dur >= 1 }

// Cursor is the last sample index computed, -1 before the first one and
// -2 once silenced.
func (in *Instance) Cursor() int { return in.cursor }

func (in *Instance) noise(slot int) float64 {
	if in.rng == nil {
		in.rng = rand.New(rand.NewPCG(uint64(slot)+1, noiseSeed))
	}

	return 2*in.rng.Float64() - 1
}
