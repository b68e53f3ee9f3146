// SPDX-License-Identifier: EPL-2.0

package generator

import "errors"

// Construction errors, returned by the factories.
var (
	ErrNonFinite   = errors.New("generator parameter is not finite")
	ErrRange       = errors.New("generator parameter out of range")
	ErrNilInput    = errors.New("generator input is nil")
	ErrUnknownWave = errors.New("unknown waveform")
)

// Protocol errors. These are raised with panic because they can only be
// caused by a caller bug; render recovers them per voice.
var (
	ErrReleased       = errors.New("generator already released")
	ErrRefOverflow    = errors.New("generator reference count overflow")
	ErrUnbound        = errors.New("operator invoked before binding")
	ErrAlreadyBound   = errors.New("generator graph already bound")
	ErrInstanceRange  = errors.New("instance data too short for binding")
	ErrUninitialized  = errors.New("instance data not initialized")
	ErrInstanceParams = errors.New("invalid instance frequency or duration")
	ErrNonMonotonic   = errors.New("sample index not monotonic")
)
