// SPDX-License-Identifier: EPL-2.0

package patch

import "errors"

var (
	ErrScript            = errors.New("script error")
	ErrArgument          = errors.New("invalid argument")
	ErrUnknownCurve      = errors.New("unknown envelope curve")
	ErrUnknownInstrument = errors.New("unknown instrument")
	ErrDuplicateName     = errors.New("instrument already defined")
	ErrRate              = errors.New("sample rate out of range")
)
