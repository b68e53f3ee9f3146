// SPDX-License-Identifier: EPL-2.0

// Command opsynth renders a Lua instrument script to a WAV or AIFF file and
// optionally checks the result against a reference recording.
//
//	opsynth -rate 44100 -bits 24 -out song.wav song.lua
//	opsynth -ref take.mp3 -tolerance 0.05 song.lua
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/ik5/opsynth/audio"
	"github.com/ik5/opsynth/compare"
	"github.com/ik5/opsynth/formats/aiff"
	"github.com/ik5/opsynth/formats/mp3"
	"github.com/ik5/opsynth/formats/vorbis"
	"github.com/ik5/opsynth/formats/wav"
	"github.com/ik5/opsynth/internal/patch"
	"github.com/ik5/opsynth/render"
)

var errMismatch = errors.New("render deviates from reference")

type encodeFunc func(w io.WriteSeeker, rate, bitDepth int, samples []float32) error

var encoders = map[string]encodeFunc{
	"wav":  wav.Encode,
	"aiff": aiff.Encode,
	"aif":  aiff.Encode,
}

type config struct {
	script     string
	rate       int
	out        string
	format     string
	bits       int
	workers    int
	ref        string
	tolerance  float64
	skipFaulty bool
	verbose    bool
}

func main() {
	log.SetFlags(log.Lshortfile)

	var cfg config
	flag.IntVar(&cfg.rate, "rate", 44100, "sample rate in Hz")
	flag.StringVar(&cfg.out, "out", "out.wav", "output file")
	flag.StringVar(&cfg.format, "format", "", "output format: wav or aiff (default from -out extension)")
	flag.IntVar(&cfg.bits, "bits", 16, "output bit depth: 16, 24 or 32")
	flag.IntVar(&cfg.workers, "workers", 0, "voices rendered in parallel (default GOMAXPROCS)")
	flag.StringVar(&cfg.ref, "ref", "", "reference recording (wav, aiff, mp3 or ogg) to compare against")
	flag.Float64Var(&cfg.tolerance, "tolerance", 0.01, "largest per-sample deviation from -ref")
	flag.BoolVar(&cfg.skipFaulty, "skip-faulty", false, "drop notes whose voice faults instead of failing")
	flag.BoolVar(&cfg.verbose, "v", false, "verbose logging")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] <script.lua>\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	cfg.script = flag.Arg(0)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := run(ctx, cfg)
	stop()

	if err != nil {
		log.Println(err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config) error {
	logger := log.New(io.Discard, "", 0)
	if cfg.verbose {
		logger = log.Default()
	}

	format := cfg.format
	if format == "" {
		format = strings.TrimPrefix(filepath.Ext(cfg.out), ".")
	}
	encode, ok := encoders[strings.ToLower(format)]
	if !ok {
		return fmt.Errorf("unsupported output format %q", format)
	}

	p, err := patch.Load(ctx, cfg.script, cfg.rate)
	if err != nil {
		return err
	}
	defer p.Release()

	logger.Printf("%s: %d instruments, %d notes", cfg.script, len(p.Instruments), len(p.Notes))

	samples, err := render.Render(ctx, p.Notes, render.Options{
		Workers:    cfg.workers,
		SkipFaulty: cfg.skipFaulty,
		Logger:     logger,
	})
	if err != nil {
		return err
	}

	if err := write(cfg.out, encode, cfg.rate, cfg.bits, samples); err != nil {
		return err
	}
	logger.Printf("wrote %s: %d samples at %d Hz", cfg.out, len(samples), cfg.rate)

	if cfg.ref == "" {
		return nil
	}

	want, err := compare.Load(registry(), cfg.ref, cfg.rate)
	if err != nil {
		return err
	}

	report := compare.Diff(samples, want)
	logger.Printf("%s: %v", cfg.ref, report)

	if !report.Within(cfg.tolerance) {
		return fmt.Errorf("%w: %v, first over %g at sample %d",
			errMismatch, report, cfg.tolerance, report.FirstOver(cfg.tolerance))
	}

	return nil
}

func write(path string, encode encodeFunc, rate, bits int, samples []float32) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := encode(f, rate, bits, samples); err != nil {
		f.Close()
		return fmt.Errorf("encoding %s: %w", path, err)
	}

	return f.Close()
}

func registry() *audio.Registry {
	reg := audio.NewRegistry()
	reg.Register("wav", wav.Decoder{})
	reg.Register("aiff", aiff.Decoder{})
	reg.Register("aif", aiff.Decoder{})
	reg.Register("mp3", mp3.Decoder{})
	reg.Register("ogg", vorbis.Decoder{})

	return reg
}
