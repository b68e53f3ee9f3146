// SPDX-License-Identifier: EPL-2.0

package aiff

import (
	"errors"

	"github.com/ik5/opsynth/formats/internal/pcm"
)

var (
	// ErrNotAiffFile indicates the input is not an AIFF file
	ErrNotAiffFile = errors.New("not an AIFF file")

	// ErrUnsupportedAiffLayout indicates the header carried no usable format
	ErrUnsupportedAiffLayout = errors.New("unsupported AIFF layout")

	ErrInvalidSampleRate = errors.New("sample rate must be positive")

	// ErrUnsupportedBitDepth is shared with the wav package.
	ErrUnsupportedBitDepth = pcm.ErrBitDepth
)
