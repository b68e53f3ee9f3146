// SPDX-License-Identifier: EPL-2.0

package opsynth

import (
	"fmt"
	"io"

	"github.com/ik5/opsynth/audio"
	"github.com/ik5/opsynth/render"
	"github.com/ik5/opsynth/utils"
)

// RenderToMono16 streams notes through an audio.Mixer, resamples the mix to
// targetRate and collects it as 16-bit PCM.
//
// Every note must use an instrument at the same sample rate. bufferSize is
// the number of samples pulled through the pipeline per read; values below
// one select 4096.
//
// For more control use render.Render or render.Stream directly.
func RenderToMono16(notes []render.Note, targetRate, bufferSize int) ([]int16, int, error) {
	if len(notes) == 0 {
		return nil, targetRate, nil
	}
	if notes[0].Instrument == nil {
		return nil, targetRate, &render.VoiceError{Note: notes[0], Err: render.ErrNoInstrument}
	}
	if bufferSize < 1 {
		bufferSize = 4096
	}

	mix, err := render.Stream(notes[0].Instrument.SampleRate, notes)
	if err != nil {
		return nil, targetRate, err
	}

	var src audio.Source = mix
	if mix.SampleRate() != targetRate {
		src = audio.NewResampler(mix, targetRate)
	}
	defer src.Close()

	pcm16 := make([]int16, 0, targetRate)
	buf := make([]float32, bufferSize)

	for {
		n, err := src.ReadSamples(buf)
		for _, x := range buf[:n] {
			pcm16 = append(pcm16, utils.Float32ToInt16(x))
		}

		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, targetRate, fmt.Errorf("rendering: %w", err)
		}
	}

	return pcm16, targetRate, nil
}
