// SPDX-License-Identifier: EPL-2.0

// Package opsynth renders notes played by operator synthesis instruments.
//
// An instrument is a graph of generators: operators (an oscillator shaped
// by an ADSR envelope, optionally frequency or amplitude modulated by
// another generator), additive sums, constant gains and clippers. The graph
// is bound once, which assigns each operator a slot in a flat per-voice
// state array, and then plays any number of notes, each with its own state.
//
// # Packages
//
//   - envelope: ADSR envelopes resolved to whole samples
//   - generator: the generator graph, binding and the per-sample engine
//   - render: instruments, notes and parallel rendering of a score
//   - audio: streaming sources, mixing, resampling and downmixing
//   - formats/wav, formats/aiff: PCM encoders and decoders
//   - formats/mp3, formats/vorbis: decoders for reference recordings
//   - compare: measure a render against a reference recording
//
// # Quick Start
//
//	env, _ := envelope.New(envelope.Params{
//		IMax: 1, AttackMS: 5, DecayMS: 100, Sustain: 0.6, ReleaseMS: 200,
//	}, 44100)
//
//	mod, _ := generator.NewOperator(generator.OperatorParams{
//		Wave: generator.Sine, FreqMul: 2, Envelope: env, SampleRate: 44100,
//	})
//	car, _ := generator.NewOperator(generator.OperatorParams{
//		Wave: generator.Sine, FreqMul: 1, Envelope: env, FM: mod, SampleRate: 44100,
//	})
//
//	inst, _ := render.NewInstrument("bell", car)
//	notes := []render.Note{
//		{Instrument: inst, Start: 0, Freq: 440, Duration: 22050},
//		{Instrument: inst, Start: 22050, Freq: 660, Duration: 22050},
//	}
//
//	// mono 16-bit PCM at 8 kHz
//	pcm16, rate, err := opsynth.RenderToMono16(notes, 8000, 4096)
//
// # Writing Files
//
// Float renders go straight to the encoders:
//
//	samples, _ := render.Render(ctx, notes, render.Options{})
//	f, _ := os.Create("out.wav")
//	wav.Encode(f, 44100, 24, samples)
//
// The cmd/opsynth tool does the same for instruments and scores written in
// Lua, see internal/patch for the script globals.
package opsynth
