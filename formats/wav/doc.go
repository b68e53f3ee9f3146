// SPDX-License-Identifier: EPL-2.0

// Package wav reads and writes integer PCM WAV files through
// github.com/go-audio/wav.
//
// Encode is the render output path:
//
//	f, _ := os.Create("song.wav")
//	defer f.Close()
//	err := wav.Encode(f, 44100, 16, samples)
//
// Decoder turns a WAV file of any channel count into an audio.Source,
// which the compare package uses for reference recordings. 16, 24 and 32
// bit samples are supported; anything else fails with
// ErrUnsupportedBitDepth.
package wav
