// SPDX-License-Identifier: EPL-2.0

// Package patch builds instruments and scores from Lua scripts.
//
// A script runs in a gopher-lua state with the base, table, string and
// math libraries and the following globals:
//
//	rate                                   sample rate of the render
//	envelope{imax, imin, attack, decay, sustain, release, curve}
//	operator{wave, mul, boost, env, fm, am, feedback_fm, feedback_am, nyquist, harmonics}
//	additive{g1, g2, ...}
//	scale(g, k)
//	clip(g, level)
//	instrument(name, root)                 binds root, returns the instrument
//	note(instrument, start, freq, dur [, gain])
//	midi(n)                                frequency of MIDI note n
//
// Envelope times are in milliseconds, note times in seconds. Envelope
// fields default to a flat unit envelope, operator fields to a sine with
// multiplier 1. Unknown table fields are rejected.
//
// Every handle a script creates is released when the script ends; only the
// graphs passed to instrument stay alive, owned by the returned Patch.
package patch
