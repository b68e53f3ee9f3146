// SPDX-License-Identifier: EPL-2.0

package utils

import "math"

// FloatToPCM scales x in [-1,1] to a signed integer of the given bit depth.
// Out of range and NaN input is clamped first; bits must be in 2..32.
func FloatToPCM(x float32, bits int) int {
	switch {
	case x != x:
		x = 0
	case x > 1:
		x = 1
	case x < -1:
		x = -1
	}

	full := float64(int64(1)<<(bits-1) - 1)
	return int(math.Round(float64(x) * full))
}

// Float32ToInt16 is FloatToPCM for 16 bit output.
func Float32ToInt16(x float32) int16 {
	return int16(FloatToPCM(x, 16))
}

// PCMToFloat is the inverse of FloatToPCM.
func PCMToFloat(v, bits int) float32 {
	full := float64(int64(1)<<(bits-1) - 1)
	f := float64(v) / full
	if f < -1 {
		f = -1
	}
	return float32(f)
}
