// SPDX-License-Identifier: EPL-2.0

package envelope

import "math"

// Curve maps the progress through one envelope phase, p in [0,1], to the
// fraction of that phase's travel. Curves must be monotonic non-decreasing
// with Curve(0) == 0 and Curve(1) == 1.
type Curve func(p float64) float64

// Linear is the default curve.
func Linear(p float64) float64 { return p }

// expK controls how sharply Exponential bends.
const expK = 5.0

var expNorm = 1 - math.Exp(-expK)

// Exponential moves quickly at the start of a phase and settles towards its
// target, the shape of an RC charge curve.
func Exponential(p float64) float64 {
	return (1 - math.Exp(-expK*p)) / expNorm
}

// apply clamps p before handing it to c, so a misbehaving curve can never be
// asked for values outside its domain.
func (c Curve) apply(p float64) float64 {
	if p <= 0 {
		return 0
	}
	if p >= 1 {
		return 1
	}

	v := c(p)
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	if v > 1 {
		return 1
	}

	return v
}
