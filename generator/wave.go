// SPDX-License-Identifier: EPL-2.0

package generator

import (
	"fmt"
	"math"
	"strings"
)

// Wave selects an operator's oscillator shape.
type Wave int

const (
	Sine Wave = iota
	Square
	Triangle
	Sawtooth
	Noise
)

var waveNames = [...]string{"sine", "square", "triangle", "sawtooth", "noise"}

func (w Wave) valid() bool { return w >= Sine && w <= Noise }

func (w Wave) String() string {
	if !w.valid() {
		return fmt.Sprintf("Wave(%d)", int(w))
	}

	return waveNames[w]
}

// ParseWave accepts the names printed by String, plus "saw" and "tri".
func ParseWave(s string) (Wave, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sine", "sin":
		return Sine, nil
	case "square", "sqr":
		return Square, nil
	case "triangle", "tri":
		return Triangle, nil
	case "sawtooth", "saw":
		return Sawtooth, nil
	case "noise":
		return Noise, nil
	}

	return 0, fmt.Errorf("%q: %w", s, ErrUnknownWave)
}

const twoPi = 2 * math.Pi

// shape evaluates a periodic wave at phase w in [0,1). freq is the absolute
// instantaneous frequency, used to decide how many partials fit below
// nyquist; limit is the operator's harmonic limit.
func (w Wave) shape(phase, freq, nyquist float64, limit int) float64 {
	if w == Sine {
		return math.Sin(twoPi * phase)
	}

	if limit == 0 {
		return w.naive(phase)
	}

	n := limit
	if freq > 0 {
		if fit := nyquist / freq; fit < float64(n) {
			n = int(fit)
		}
	}
	if n < 1 {
		n = 1
	}

	return w.partials(phase, n)
}

// naive shapes share their zero crossings and sign with the sine at the same
// phase.
func (w Wave) naive(phase float64) float64 {
	switch w {
	case Square:
		if phase < 0.5 {
			return 1
		}
		return -1
	case Triangle:
		switch {
		case phase < 0.25:
			return 4 * phase
		case phase < 0.75:
			return 2 - 4*phase
		default:
			return 4*phase - 4
		}
	case Sawtooth:
		if phase < 0.5 {
			return 2 * phase
		}
		return 2*phase - 2
	}

	return 0
}

// partials sums the Fourier series of the wave up to harmonic n.
func (w Wave) partials(phase float64, n int) float64 {
	x := twoPi * phase
	sum := 0.0

	switch w {
	case Square:
		for k := 1; k <= n; k += 2 {
			sum += math.Sin(float64(k)*x) / float64(k)
		}
		return sum * 4 / math.Pi
	case Triangle:
		sign := 1.0
		for k := 1; k <= n; k += 2 {
			sum += sign * math.Sin(float64(k)*x) / float64(k*k)
			sign = -sign
		}
		return sum * 8 / (math.Pi * math.Pi)
	case Sawtooth:
		sign := 1.0
		for k := 1; k <= n; k++ {
			sum += sign * math.Sin(float64(k)*x) / float64(k)
			sign = -sign
		}
		return sum * 2 / math.Pi
	}

	return 0
}
