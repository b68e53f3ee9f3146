// SPDX-License-Identifier: EPL-2.0

package audio

import "errors"

var (
	ErrInvalidDstSize  = errors.New("dst size must be multiple of channels")
	ErrUnknownFormat   = errors.New("no decoder registered for format")
	ErrChannelMismatch = errors.New("sources have different channel counts")
	ErrRateMismatch    = errors.New("sources have different sample rates")
	ErrNegativeOffset  = errors.New("source offset is negative")
)
