// SPDX-License-Identifier: EPL-2.0

package render

import (
	"io"

	"github.com/ik5/opsynth/generator"
)

// VoiceSource plays one note as a mono audio.Source. Protocol faults in
// the graph come back from ReadSamples as errors wrapping ErrVoiceFault.
type VoiceSource struct {
	note  Note
	voice *generator.Voice
	gain  float64
	tmp   []float64
}

func NewVoiceSource(n Note) (vs *VoiceSource, err error) {
	if err := n.validate(); err != nil {
		return nil, err
	}

	defer func() {
		if r := recover(); r != nil {
			vs, err = nil, fault(r)
		}
	}()

	inst := n.Instrument

	return &VoiceSource{
		note:  n,
		voice: generator.NewVoice(inst.Root, inst.Size, n.Freq, n.Duration),
		gain:  n.gain(),
	}, nil
}

func (v *VoiceSource) SampleRate() int { return v.note.Instrument.SampleRate }
func (v *VoiceSource) Channels() int   { return 1 }
func (v *VoiceSource) BufSize() int    { return 1024 }
func (v *VoiceSource) Close() error    { return nil }

// Len is the number of samples the note produces, release included.
func (v *VoiceSource) Len() int { return v.voice.Len() }

func (v *VoiceSource) ReadSamples(dst []float32) (n int, err error) {
	if v.voice.Done() {
		return 0, io.EOF
	}

	if cap(v.tmp) < len(dst) {
		v.tmp = make([]float64, len(dst))
	}

	defer func() {
		if r := recover(); r != nil {
			n, err = 0, fault(r)
		}
	}()

	n = v.voice.Fill(v.tmp[:len(dst)])
	for i, s := range v.tmp[:n] {
		dst[i] = float32(s * v.gain)
	}

	if v.voice.Done() {
		return n, io.EOF
	}

	return n, nil
}
