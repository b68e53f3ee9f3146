// SPDX-License-Identifier: EPL-2.0

package render_test

import (
	"context"
	"fmt"

	"github.com/ik5/opsynth/envelope"
	"github.com/ik5/opsynth/generator"
	"github.com/ik5/opsynth/render"
)

func ExampleRender() {
	env, _ := envelope.New(envelope.Params{IMax: 1, Sustain: 0.8, AttackMS: 5, DecayMS: 20, ReleaseMS: 100}, 44100)
	op, _ := generator.NewOperator(generator.OperatorParams{
		Wave:       generator.Triangle,
		FreqMul:    1,
		Envelope:   env,
		SampleRate: 44100,
	})

	inst, err := render.NewInstrument("triangle", op)
	if err != nil {
		fmt.Println(err)
		return
	}
	defer inst.Release()

	notes := []render.Note{
		{Instrument: inst, Start: 0, Freq: 261.63, Duration: 44100},
		{Instrument: inst, Start: 22050, Freq: 329.63, Duration: 44100},
	}

	samples, err := render.Render(context.Background(), notes, render.Options{})
	if err != nil {
		fmt.Println(err)
		return
	}

	fmt.Println(len(samples), "samples")
	// Output: 70560 samples
}
