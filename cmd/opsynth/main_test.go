// SPDX-License-Identifier: EPL-2.0

package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ik5/opsynth/formats/aiff"
	"github.com/ik5/opsynth/formats/wav"
)

const script = `
local env = envelope{ attack = 2, decay = 20, sustain = 0.5, release = 30 }
instrument("lead", operator{ wave = "tri", env = env })
note("lead", 0, 440, 0.1)
note("lead", 0.05, 660, 0.1, 0.5)
`

func writeScript(t *testing.T, dir, src string) string {
	t.Helper()

	path := filepath.Join(dir, "song.lua")
	if err := os.WriteFile(path, []byte(src), 0o600); err != nil {
		t.Fatal(err)
	}

	return path
}

func TestRun_WritesWav(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfg := config{
		script:    writeScript(t, dir, script),
		rate:      8000,
		out:       filepath.Join(dir, "song.wav"),
		bits:      16,
		tolerance: 0.01,
	}

	if err := run(context.Background(), cfg); err != nil {
		t.Fatalf("run() error = %v", err)
	}

	f, err := os.Open(cfg.out)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	src, err := wav.Decoder{}.Decode(f)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if src.SampleRate() != 8000 {
		t.Errorf("SampleRate() = %d, want 8000", src.SampleRate())
	}

	// the render is its own reference
	cfg.ref = cfg.out
	cfg.out = filepath.Join(dir, "again.wav")
	if err := run(context.Background(), cfg); err != nil {
		t.Errorf("run() against own render error = %v", err)
	}
}

func TestRun_AiffFormatFlag(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfg := config{
		script: writeScript(t, dir, script),
		rate:   22050,
		out:    filepath.Join(dir, "song.out"),
		format: "AIFF",
		bits:   24,
	}

	if err := run(context.Background(), cfg); err != nil {
		t.Fatalf("run() error = %v", err)
	}

	f, err := os.Open(cfg.out)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	if _, err := (aiff.Decoder{}).Decode(f); err != nil {
		t.Errorf("Decode() error = %v", err)
	}
}

func TestRun_Mismatch(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	ref := filepath.Join(dir, "silence.wav")

	f, err := os.Create(ref)
	if err != nil {
		t.Fatal(err)
	}
	if err := wav.Encode(f, 8000, 16, make([]float32, 800)); err != nil {
		t.Fatal(err)
	}
	f.Close()

	err = run(context.Background(), config{
		script:    writeScript(t, dir, script),
		rate:      8000,
		out:       filepath.Join(dir, "song.wav"),
		bits:      16,
		ref:       ref,
		tolerance: 0.01,
	})
	if !errors.Is(err, errMismatch) {
		t.Errorf("run() error = %v, want errMismatch", err)
	}
}

func TestRun_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	good := writeScript(t, dir, script)

	tests := []struct {
		name string
		cfg  config
	}{
		{"format", config{script: good, rate: 8000, out: filepath.Join(dir, "x.flac"), bits: 16}},
		{"bits", config{script: good, rate: 8000, out: filepath.Join(dir, "x.wav"), bits: 12}},
		{"missing script", config{script: filepath.Join(dir, "none.lua"), rate: 8000, out: filepath.Join(dir, "y.wav"), bits: 16}},
		{"reference format", config{script: good, rate: 8000, out: filepath.Join(dir, "z.wav"), bits: 16, ref: "ref.flac"}},
	}

	for _, tt := range tests {
		if err := run(context.Background(), tt.cfg); err == nil {
			t.Errorf("%s: run() error = nil", tt.name)
		}
	}
}
