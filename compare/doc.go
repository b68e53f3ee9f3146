// SPDX-License-Identifier: EPL-2.0

// Package compare checks a render against a reference recording.
//
// The reference may be any format with a decoder in an audio.Registry. It
// is downmixed to mono and resampled to the render rate before Diff
// measures the per-sample deviation:
//
//	reg := audio.NewRegistry()
//	reg.Register("wav", wav.Decoder{})
//
//	want, err := compare.Load(reg, "reference.wav", 44100)
//	if err != nil {
//		return err
//	}
//
//	report := compare.Diff(got, want)
//	if !report.Within(0.01) {
//		log.Printf("drift from sample %d: %v", report.FirstOver(0.01), report)
//	}
package compare
