// SPDX-License-Identifier: EPL-2.0

// Package aiff reads and writes AIFF files through github.com/go-audio/aiff.
//
// It mirrors the wav package: Encode writes a mono render at 16, 24 or 32
// bits, and Decoder returns an audio.Source with samples normalized to
// [-1,1].
//
//	f, _ := os.Create("song.aiff")
//	defer f.Close()
//	err := aiff.Encode(f, 48000, 24, samples)
package aiff
