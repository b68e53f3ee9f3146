// SPDX-License-Identifier: EPL-2.0

package generator

import (
	"fmt"
	"math"
)

// Invoke returns the value of g at sample index t for the voice whose
// state is ins.
//
// Every operator in the graph must see t == its previous index (cached
// value) or t == previous index + 1 (new value). The first index may be any
// t >= 0. Anything else panics with ErrNonMonotonic.
func Invoke(g Generator, ins []Instance, t int) float64 {
	mustLive(g)

	switch n := g.(type) {
	case *Operator:
		return n.invoke(ins, t)
	case *Additive:
		sum := 0.0
		for _, c := range n.children {
			sum += finite(Invoke(c, ins, t))
		}
		return finite(sum)
	case *Scale:
		return finite(Invoke(n.base, ins, t) * n.k)
	case *Clip:
		v := finite(Invoke(n.base, ins, t))
		return math.Max(-n.level, math.Min(n.level, v))
	}

	panic(fmt.Sprintf("generator: unknown node %T", g))
}

// Length returns the number of samples the voice produces: the operator's
// envelope length, or the longest child of an additive node. It never
// advances evaluation state.
func Length(g Generator, ins []Instance) int {
	mustLive(g)

	switch n := g.(type) {
	case *Operator:
		return n.env.Length(n.instance(ins).dur)
	case *Additive:
		longest := 0
		for _, c := range n.children {
			longest = max(longest, Length(c, ins))
		}
		return longest
	case *Scale:
		return Length(n.base, ins)
	case *Clip:
		return Length(n.base, ins)
	}

	panic(fmt.Sprintf("generator: unknown node %T", g))
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}

	return v
}

func (op *Operator) instance(ins []Instance) *Instance {
	switch {
	case op.slot < 0:
		panic(fmt.Errorf("%s operator: %w", op.wave, ErrUnbound))
	case op.slot >= len(ins):
		panic(fmt.Errorf("slot %d of %d: %w", op.slot, len(ins), ErrInstanceRange))
	}

	in := &ins[op.slot]
	if !in.initialized() {
		panic(fmt.Errorf("slot %d: %w", op.slot, ErrUninitialized))
	}

	return in
}

func (op *Operator) invoke(ins []Instance, t int) float64 {
	in := op.instance(ins)

	switch {
	case in.cursor == silenced:
		return 0
	case in.cursor >= 0 && t == in.cursor:
		return in.last
	case t < 0 || (in.cursor >= 0 && t != in.cursor+1):
		panic(fmt.Errorf("slot %d at %d, asked for %d: %w", op.slot, in.cursor, t, ErrNonMonotonic))
	}

	var inc float64
	if op.wave != Noise {
		f := in.freq*op.freqMul + op.freqBoost
		// written so that NaN fails too
		if !(f > 0 && f < op.nyquist) {
			in.cursor = silenced
			return 0
		}
		inc = f / op.rate
	}

	var fm, am float64
	if op.fm != nil {
		fm = Invoke(op.fm, ins, t)
	}
	if op.am != nil {
		am = Invoke(op.am, ins, t)
	}

	var v float64
	if op.wave == Noise {
		v = in.noise(op.slot)
	} else {
		inc += op.feedbackFM*in.last + fm

		freq := math.Abs(inc) * op.rate
		if !(freq < op.nyquist) {
			in.cursor = silenced
			return 0
		}

		in.phase += inc
		in.phase -= math.Floor(in.phase)
		// Floor can round a tiny negative phase up to exactly 1
		if in.phase >= 1 {
			in.phase = 0
		}

		v = op.wave.shape(in.phase, freq, op.nyquist, op.harmonics)
	}

	amp := op.env.Intensity(t, in.dur) + op.feedbackAM*in.last + am

	in.last = finite(finite(v) * finite(amp))
	in.cursor = t

	return in.last
}
