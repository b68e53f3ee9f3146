// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"errors"

	"github.com/ik5/opsynth/formats/internal/pcm"
)

var (
	ErrNotWavFile           = errors.New("not a WAV file")
	ErrUnsupportedWavLayout = errors.New("unsupported WAV layout")
	ErrInvalidSampleRate    = errors.New("sample rate must be positive")

	// ErrUnsupportedBitDepth is shared with the aiff package.
	ErrUnsupportedBitDepth = pcm.ErrBitDepth
)
