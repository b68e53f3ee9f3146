// SPDX-License-Identifier: EPL-2.0

package envelope

import (
	"errors"
	"math"
	"math/rand/v2"
	"testing"
)

func mustNew(t *testing.T, p Params, rate int) *Envelope {
	t.Helper()

	e, err := New(p, rate)
	if err != nil {
		t.Fatalf("New(%+v, %d) error = %v", p, rate, err)
	}

	return e
}

func TestNew_SustainOneScenario(t *testing.T) {
	t.Parallel()

	e := mustNew(t, Params{
		IMax:      1.0,
		IMin:      0.25,
		AttackMS:  10,
		DecayMS:   0,
		Sustain:   1.0,
		ReleaseMS: 50,
	}, 44100)

	if e.AttackSamples() != 441 {
		t.Errorf("AttackSamples() = %d, want 441", e.AttackSamples())
	}
	if e.DecaySamples() != 0 {
		t.Errorf("DecaySamples() = %d, want 0", e.DecaySamples())
	}
	if e.ReleaseSamples() != 2205 {
		t.Errorf("ReleaseSamples() = %d, want 2205", e.ReleaseSamples())
	}
	if got := e.Length(1000); got != 3205 {
		t.Errorf("Length(1000) = %d, want 3205", got)
	}

	tests := []struct {
		t    int
		want float64
		tol  float64
	}{
		{0, 0.25, 0},
		{441, 1.0, 0},
		{999, 1.0, 0},
		{1000, 1.0, 0},
		{3204, 0, 1e-3},
		{3205, 0, 0},
		{-1, 0, 0},
	}

	for _, tt := range tests {
		got := e.Intensity(tt.t, 1000)
		if math.Abs(got-tt.want) > tt.tol {
			t.Errorf("Intensity(%d, 1000) = %v, want %v (±%v)", tt.t, got, tt.want, tt.tol)
		}
	}

	if e.Intensity(1001, 1000) >= e.Intensity(1000, 1000) {
		t.Error("release ramp does not fall after the note ends")
	}
}

func TestNew_DecayForcedByFullSustain(t *testing.T) {
	t.Parallel()

	e := mustNew(t, Params{IMax: 1, IMin: 0, AttackMS: 1, DecayMS: 200, Sustain: 1, ReleaseMS: 5}, 8000)
	if e.DecaySamples() != 0 {
		t.Errorf("DecaySamples() = %d, want 0 when sustain is 1", e.DecaySamples())
	}
}

func TestNew_ReleaseForcedBySilentSustain(t *testing.T) {
	t.Parallel()

	e := mustNew(t, Params{IMax: 1, IMin: 0, AttackMS: 1, DecayMS: 20, Sustain: 0, ReleaseMS: 500}, 8000)
	if e.ReleaseSamples() != 0 {
		t.Errorf("ReleaseSamples() = %d, want 0 when sustain is 0", e.ReleaseSamples())
	}
	if e.ExtraSamples() != 0 {
		t.Errorf("ExtraSamples() = %d, want 0", e.ExtraSamples())
	}
	if e.DecaySamples() != 160 {
		t.Errorf("DecaySamples() = %d, want 160", e.DecaySamples())
	}
}

func TestNew_ClampsToMaxTime(t *testing.T) {
	t.Parallel()

	e := mustNew(t, Params{IMax: 1, IMin: 0, AttackMS: 1e300, DecayMS: -5, Sustain: 0.5, ReleaseMS: 1e12}, 44100)

	if e.AttackSamples() != MaxTime {
		t.Errorf("AttackSamples() = %d, want %d", e.AttackSamples(), MaxTime)
	}
	if e.DecaySamples() != 0 {
		t.Errorf("DecaySamples() = %d, want 0 for negative time", e.DecaySamples())
	}
	if e.ReleaseSamples() != MaxTime {
		t.Errorf("ReleaseSamples() = %d, want %d", e.ReleaseSamples(), MaxTime)
	}
}

func TestNew_Errors(t *testing.T) {
	t.Parallel()

	valid := Params{IMax: 1, IMin: 0, AttackMS: 10, DecayMS: 10, Sustain: 0.5, ReleaseMS: 10}

	tests := []struct {
		name   string
		modify func(p *Params)
		rate   int
		want   error
	}{
		{"nan attack", func(p *Params) { p.AttackMS = math.NaN() }, 44100, ErrNonFinite},
		{"inf release", func(p *Params) { p.ReleaseMS = math.Inf(1) }, 44100, ErrNonFinite},
		{"zero imax", func(p *Params) { p.IMax = 0 }, 44100, ErrIntensityRange},
		{"imax above one", func(p *Params) { p.IMax = 1.5 }, 44100, ErrIntensityRange},
		{"negative imin", func(p *Params) { p.IMin = -0.1 }, 44100, ErrIntensityRange},
		{"imax below imin", func(p *Params) { p.IMax, p.IMin = 0.3, 0.6 }, 44100, ErrIntensityOrder},
		{"sustain above one", func(p *Params) { p.Sustain = 1.01 }, 44100, ErrSustainRange},
		{"negative sustain", func(p *Params) { p.Sustain = -0.01 }, 44100, ErrSustainRange},
		{"zero rate", func(p *Params) {}, 0, ErrSampleRate},
		{"huge rate", func(p *Params) {}, MaxSampleRate + 1, ErrSampleRate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := valid
			tt.modify(&p)

			_, err := New(p, tt.rate)
			if !errors.Is(err, tt.want) {
				t.Errorf("New() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestIntensity_Monotonic(t *testing.T) {
	t.Parallel()

	r := rand.New(rand.NewPCG(1, 2))

	for _, curve := range []struct {
		name string
		c    Curve
	}{
		{"linear", Linear},
		{"exponential", Exponential},
	} {
		t.Run(curve.name, func(t *testing.T) {
			for range 200 {
				iMax := 0.05 + 0.95*r.Float64()
				p := Params{
					IMax:      iMax,
					IMin:      iMax * r.Float64(),
					AttackMS:  r.Float64() * 20,
					DecayMS:   r.Float64() * 20,
					Sustain:   r.Float64(),
					ReleaseMS: r.Float64() * 20,
					Curve:     curve.c,
				}
				e := mustNew(t, p, 8000)
				dur := 1 + r.IntN(500)
				checkMonotonic(t, e, dur)
			}
		})
	}
}

func checkMonotonic(t *testing.T, e *Envelope, dur int) {
	t.Helper()

	a, d := e.AttackSamples(), e.DecaySamples()
	length := e.Length(dur)

	for i := 1; i < length; i++ {
		prev, cur := e.Intensity(i-1, dur), e.Intensity(i, dur)

		switch {
		case i < dur && i < a:
			if cur < prev {
				t.Fatalf("attack falls at %d: %v -> %v", i, prev, cur)
			}
		case i < dur && i > a && i < a+d:
			if cur > prev {
				t.Fatalf("decay rises at %d: %v -> %v", i, prev, cur)
			}
		case i < dur && i > a+d:
			if cur != prev {
				t.Fatalf("sustain moves at %d: %v -> %v", i, prev, cur)
			}
		case i > dur:
			if cur > prev {
				t.Fatalf("release rises at %d: %v -> %v", i, prev, cur)
			}
		}
	}

	if e.Intensity(length, dur) != 0 || e.Intensity(-1, dur) != 0 {
		t.Fatalf("intensity outside [0,%d) is not zero", length)
	}
}

func TestIntensity_ShortNoteReleasesFromReachedLevel(t *testing.T) {
	t.Parallel()

	e := mustNew(t, Params{IMax: 1, IMin: 0, AttackMS: 100, DecayMS: 0, Sustain: 0.8, ReleaseMS: 10}, 1000)

	// the note ends a fifth of the way into the attack
	dur := 20
	peak := e.Intensity(dur-1, dur)
	for i := dur; i < e.Length(dur); i++ {
		if v := e.Intensity(i, dur); v > peak+1e-12 {
			t.Fatalf("Intensity(%d) = %v rises above body level %v", i, v, peak)
		}
	}
}

func TestLength_Additive(t *testing.T) {
	t.Parallel()

	e := mustNew(t, Params{IMax: 1, IMin: 0, AttackMS: 3, DecayMS: 4, Sustain: 0.3, ReleaseMS: 7}, 48000)

	for _, dur := range []int{1, 2, 100, 48000} {
		if got, want := e.Length(dur), dur+e.ExtraSamples(); got != want {
			t.Errorf("Length(%d) = %d, want %d", dur, got, want)
		}
	}
}

func TestLength_PanicsOnZeroDuration(t *testing.T) {
	t.Parallel()

	e := mustNew(t, Params{IMax: 1, Sustain: 1}, 8000)

	defer func() {
		r := recover()
		err, ok := r.(error)
		if !ok || !errors.Is(err, ErrDuration) {
			t.Errorf("recover() = %v, want ErrDuration", r)
		}
	}()

	e.Length(0)
}

func TestRefs(t *testing.T) {
	t.Parallel()

	e := mustNew(t, Params{IMax: 1, Sustain: 1}, 8000)
	if e.Refs() != 1 {
		t.Fatalf("Refs() = %d, want 1", e.Refs())
	}

	e.Retain()
	e.Release()
	e.Release()

	if e.Refs() != 0 {
		t.Fatalf("Refs() = %d, want 0", e.Refs())
	}

	defer func() {
		if r := recover(); r != ErrReleased {
			t.Errorf("recover() = %v, want ErrReleased", r)
		}
	}()

	e.Retain()
}

func TestCurve_Bounds(t *testing.T) {
	t.Parallel()

	for _, c := range []Curve{Linear, Exponential} {
		if c.apply(0) != 0 || c.apply(1) != 1 {
			t.Errorf("curve endpoints = %v, %v, want 0, 1", c.apply(0), c.apply(1))
		}
		if c.apply(-3) != 0 || c.apply(7) != 1 {
			t.Error("curve does not clamp its domain")
		}
	}

	bad := Curve(func(p float64) float64 { return math.NaN() })
	if bad.apply(0.5) != 0 {
		t.Error("NaN curve output not clamped to 0")
	}
}

func BenchmarkIntensity(b *testing.B) {
	e, _ := New(Params{IMax: 1, IMin: 0, AttackMS: 5, DecayMS: 50, Sustain: 0.6, ReleaseMS: 100}, 44100)

	b.ReportAllocs()

	i := 0
	for b.Loop() {
		_ = e.Intensity(i%10000, 6000)
		i++
	}
}
