// SPDX-License-Identifier: EPL-2.0

// Package mp3 decodes MP3 reference recordings with
// github.com/hajimehoshi/go-mp3.
//
// The decoder always produces interleaved stereo at the file's sample
// rate; wrap it in audio.NewMonoMixer and audio.NewResampler to compare it
// with a mono render:
//
//	src, err := mp3.Decoder{}.Decode(f)
//	ref := audio.NewResampler(audio.NewMonoMixer(src), 44100)
package mp3
