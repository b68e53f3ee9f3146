// SPDX-License-Identifier: EPL-2.0

// Package render turns bound generator graphs and a list of notes into
// audio.
//
// An Instrument binds its graph once and is shared by every note that
// plays it. Each note gets its own voice, so Render can work on many notes
// at once:
//
//	inst, err := render.NewInstrument("bell", root)
//	notes := []render.Note{
//	    {Instrument: inst, Start: 0, Freq: 440, Duration: 22050},
//	    {Instrument: inst, Start: 11025, Freq: 660, Duration: 22050},
//	}
//	samples, err := render.Render(ctx, notes, render.Options{})
//
// Stream builds the same mix as an audio.Mixer that renders while it is
// read.
//
// Contract violations inside a graph panic in the generator package. Both
// paths recover them per note and report a *VoiceError wrapping
// ErrVoiceFault, so one bad note can be skipped with Options.SkipFaulty
// instead of taking the whole render down.
package render
