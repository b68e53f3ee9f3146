// SPDX-License-Identifier: EPL-2.0

// Package audio holds the streaming side of the synthesizer: the Source
// interface every voice, decoder and processor implements, and the small
// set of processors that chain them.
//
//   - Source streams interleaved float32 samples in [-1,1]
//   - Mixer sums sources that start at different frame offsets
//   - Resampler changes the sample rate with cubic interpolation
//   - MonoMixer averages channels down to one
//   - Registry maps file extensions to decoders
//
// # Mixing
//
// Rendered voices are mono sources that begin at their note's start frame:
//
//	mix := audio.NewMixer(44100, 1)
//	if err := mix.Add(voice, startFrame); err != nil {
//	    return err
//	}
//	samples, err := audio.ReadAll(mix)
//
// The mix ends once its last source ends.
//
// # Reference Recordings
//
// Recordings in other formats are brought to the render rate before they
// are compared:
//
//	dec, err := registry.ForPath("ref.ogg")
//	src, err := dec.Decode(f)
//	mono := audio.NewResampler(audio.NewMonoMixer(src), 44100)
//
// # Errors
//
// ReadSamples returns io.EOF when the stream has ended, possibly together
// with its final samples:
//
//	for {
//	    n, err := src.ReadSamples(buf)
//	    process(buf[:n])
//	    if err == io.EOF {
//	        break
//	    }
//	    if err != nil {
//	        return err
//	    }
//	}
package audio
