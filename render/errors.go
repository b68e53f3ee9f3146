// SPDX-License-Identifier: EPL-2.0

package render

import (
	"errors"
	"fmt"
)

var (
	ErrNilRoot      = errors.New("instrument has no generator graph")
	ErrReleased     = errors.New("generator graph already released")
	ErrSilentGraph  = errors.New("generator graph has no operators")
	ErrMixedRates   = errors.New("operators use different sample rates")
	ErrNoInstrument = errors.New("note has no instrument")
	ErrNoteRange    = errors.New("note parameter out of range")
	ErrVoiceFault   = errors.New("voice fault")
)

// VoiceError reports the note a render failed on.
type VoiceError struct {
	Index int // position in the note list
	Note  Note
	Err   error
}

func (e *VoiceError) Error() string {
	name := "<nil>"
	if e.Note.Instrument != nil {
		name = e.Note.Instrument.Name
	}

	return fmt.Sprintf("note %d (%s at %d): %v", e.Index, name, e.Note.Start, e.Err)
}

func (e *VoiceError) Unwrap() error { return e.Err }

// fault turns a panic recovered while playing a voice into an error
// wrapping ErrVoiceFault and the recovered value.
func fault(r any) error {
	return fmt.Errorf("%w: %w", ErrVoiceFault, recovered(r))
}

func recovered(r any) error {
	if err, ok := r.(error); ok {
		return err
	}

	return fmt.Errorf("%v", r)
}
