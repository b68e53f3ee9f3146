// SPDX-License-Identifier: EPL-2.0

package compare

import "errors"

var (
	ErrInvalidRate = errors.New("invalid sample rate")
	ErrEmpty       = errors.New("recording has no samples")
)
