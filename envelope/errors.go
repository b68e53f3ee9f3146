// SPDX-License-Identifier: EPL-2.0

package envelope

import "errors"

var (
	ErrNonFinite      = errors.New("envelope parameter is not finite")
	ErrIntensityRange = errors.New("intensity must be in [0,1] with maximum above zero")
	ErrIntensityOrder = errors.New("maximum intensity below minimum intensity")
	ErrSustainRange   = errors.New("sustain must be in [0,1]")
	ErrSampleRate     = errors.New("unsupported sample rate")
	ErrReleased       = errors.New("envelope already released")
	ErrRefOverflow    = errors.New("envelope reference count overflow")
	ErrDuration       = errors.New("note duration must be at least one sample")
)
