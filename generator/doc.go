// SPDX-License-Identifier: EPL-2.0

// Package generator implements the synthesis graph: oscillator operators
// with frequency and amplitude modulation, and the additive, scale and clip
// combinators that join them.
//
// # Class graph and instance data
//
// A graph is built once per instrument from immutable, reference-counted
// nodes and then shared by every voice that plays the instrument:
//
//	env, _ := envelope.New(envelope.Params{IMax: 1, Sustain: 1}, 44100)
//	mod, _ := generator.NewOperator(generator.OperatorParams{
//	    Wave: generator.Sine, FreqMul: 2, Envelope: env, SampleRate: 44100,
//	})
//	car, _ := generator.NewOperator(generator.OperatorParams{
//	    Wave: generator.Sine, FreqMul: 1, Envelope: env, FM: mod, SampleRate: 44100,
//	})
//	size := generator.Bind(car)
//
// Bind walks the graph once and gives every operator a slot in a flat
// per-voice array of Instance values. Each voice then owns its own array:
//
//	ins := generator.NewInstances(size, 440, 22050)
//	for t := range generator.Length(car, ins) {
//	    out[t] = generator.Invoke(car, ins, t)
//	}
//
// Voice wraps the same loop behind a Clock so that the sample index can only
// move forward one step at a time.
//
// # Evaluation order
//
// Operators cache the last sample they produced. Invoking a graph at the
// index it was last invoked at returns the cached values, which is what lets
// several consumers share one operator; invoking it at any index other than
// the current one or the next one panics with ErrNonMonotonic.
//
// # Numeric safety
//
// Non-finite intermediate values become 0. An operator whose frequency
// leaves (0, nyquist), including through frequency modulation, is silenced
// for the rest of the note rather than aliasing.
//
// # Errors
//
// Factories return construction errors (ErrNonFinite, ErrRange, ErrNilInput,
// ErrReleased). Misusing the protocol, such as invoking an unbound graph,
// skipping a sample index, or releasing a node too often, panics with an
// error wrapping one of the protocol sentinels.
package generator
