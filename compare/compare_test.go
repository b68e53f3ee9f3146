// SPDX-License-Identifier: EPL-2.0

package compare

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ik5/opsynth/audio"
	"github.com/ik5/opsynth/formats/wav"
	"github.com/ik5/opsynth/internal/audiotest"
)

type stubDecoder struct {
	src audio.Source
	err error
}

func (d stubDecoder) Decode(io.Reader) (audio.Source, error) { return d.src, d.err }

func TestDiff(t *testing.T) {
	t.Parallel()

	t.Run("identical", func(t *testing.T) {
		r := Diff([]float32{0.1, -0.2, 0.3}, []float32{0.1, -0.2, 0.3})

		assert.Equal(t, 3, r.Samples)
		assert.Zero(t, r.LengthDelta)
		assert.Zero(t, r.RMS)
		assert.Zero(t, r.Peak)
		assert.Equal(t, -1, r.PeakAt)
		assert.Equal(t, -1, r.FirstOver(0))
		assert.True(t, r.Within(0))
	})

	t.Run("longer render", func(t *testing.T) {
		r := Diff([]float32{0.5, 0.5}, []float32{0.5})

		assert.Equal(t, 2, r.Samples)
		assert.Equal(t, 1, r.LengthDelta)
		assert.InDelta(t, 0.5, r.Peak, 1e-9)
		assert.Equal(t, 1, r.PeakAt)
		assert.InDelta(t, 0.353553, r.RMS, 1e-6)
	})

	t.Run("shorter render", func(t *testing.T) {
		r := Diff(nil, []float32{0, -0.25})

		assert.Equal(t, -2, r.LengthDelta)
		assert.InDelta(t, 0.25, r.Peak, 1e-9)
		assert.Equal(t, 1, r.PeakAt)
	})

	t.Run("empty", func(t *testing.T) {
		r := Diff(nil, nil)

		assert.Zero(t, r.Samples)
		assert.Zero(t, r.RMS)
		assert.Equal(t, -1, r.FirstOver(0))
	})
}

func TestReport_FirstOver(t *testing.T) {
	t.Parallel()

	r := Diff([]float32{0, 0.1, 0.3, 0.05}, make([]float32, 4))

	tests := []struct {
		threshold float64
		want      int
	}{
		{0, 1},
		{0.05, 1},
		{0.2, 2},
		{0.5, -1},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, r.FirstOver(tt.threshold), "threshold %v", tt.threshold)
	}

	assert.False(t, r.Within(0.2))
	assert.True(t, r.Within(0.31))
	assert.Contains(t, r.String(), "peak 0.300000 at 2")
}

func TestRead_DownmixesAndResamples(t *testing.T) {
	t.Parallel()

	src := audiotest.Constant(16000, 2, 1600, 0.25)

	got, err := Read(stubDecoder{src: src}, strings.NewReader(""), 8000)
	require.NoError(t, err)

	assert.Len(t, got, 800)
	for i, v := range got {
		require.InDelta(t, 0.25, v, 1e-5, "sample %d", i)
	}
	assert.True(t, src.Closed())
}

func TestRead_SameRate(t *testing.T) {
	t.Parallel()

	want := []float32{0.1, 0.2, -0.3}
	src := audiotest.Samples(8000, want)

	got, err := Read(stubDecoder{src: src}, strings.NewReader(""), 8000)
	require.NoError(t, err)

	assert.Equal(t, want, got)
	assert.True(t, src.Closed())
}

func TestRead_Errors(t *testing.T) {
	t.Parallel()

	errBad := errors.New("bad header")

	_, err := Read(stubDecoder{src: audiotest.Silence(8000, 1, 10)}, strings.NewReader(""), 0)
	assert.ErrorIs(t, err, ErrInvalidRate)

	_, err = Read(stubDecoder{err: errBad}, strings.NewReader(""), 8000)
	assert.ErrorIs(t, err, errBad)

	_, err = Read(stubDecoder{src: audiotest.Samples(8000, nil)}, strings.NewReader(""), 8000)
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestLoad(t *testing.T) {
	t.Parallel()

	in := make([]float32, 441)
	for i := range in {
		in[i] = float32(i%21)/20 - 0.5
	}

	path := filepath.Join(t.TempDir(), "reference.WAV")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, wav.Encode(f, 44100, 16, in))
	require.NoError(t, f.Close())

	reg := audio.NewRegistry()
	reg.Register("wav", wav.Decoder{})

	got, err := Load(reg, path, 44100)
	require.NoError(t, err)
	require.Len(t, got, len(in))

	r := Diff(got, in)
	assert.True(t, r.Within(1.0/32767), "report: %v", r)
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	reg := audio.NewRegistry()
	reg.Register("wav", wav.Decoder{})

	_, err := Load(reg, "take.flac", 8000)
	assert.ErrorIs(t, err, audio.ErrUnknownFormat)

	_, err = Load(reg, filepath.Join(t.TempDir(), "missing.wav"), 8000)
	assert.ErrorIs(t, err, os.ErrNotExist)

	junk := filepath.Join(t.TempDir(), "junk.wav")
	require.NoError(t, os.WriteFile(junk, []byte("not audio at all"), 0o600))

	_, err = Load(reg, junk, 8000)
	assert.ErrorIs(t, err, wav.ErrNotWavFile)
}

func BenchmarkDiff(b *testing.B) {
	got := make([]float32, 44100)
	want := make([]float32, 44100)
	for i := range got {
		got[i] = float32(i%100) / 100
		want[i] = float32(i%99) / 99
	}

	b.ReportAllocs()
	for b.Loop() {
		Diff(got, want)
	}
}
