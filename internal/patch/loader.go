// SPDX-License-Identifier: EPL-2.0

package patch

import (
	"fmt"
	"math"
	"slices"

	lua "github.com/yuin/gopher-lua"

	"github.com/ik5/opsynth/envelope"
	"github.com/ik5/opsynth/generator"
	"github.com/ik5/opsynth/render"
)

const (
	envelopeType   = "envelope"
	generatorType  = "generator"
	instrumentType = "instrument"

	// largest note position, note length or harmonic count a script may ask
	// for
	maxCount = math.MaxInt32
)

// loader owns one reference on every envelope and generator the script
// creates until the run ends.
type loader struct {
	rate  int
	patch *Patch

	envs  []*envelope.Envelope
	nodes []generator.Generator

	err    error
	errMsg string
}

func newLoader(rate int) *loader {
	return &loader{rate: rate, patch: &Patch{Rate: rate}}
}

func (l *loader) install(L *lua.LState) {
	for _, typ := range []string{envelopeType, generatorType, instrumentType} {
		mt := L.NewTypeMetatable(typ)
		L.SetField(mt, "__tostring", L.NewFunction(func(L *lua.LState) int {
			L.Push(lua.LString(typ))
			return 1
		}))
	}

	L.SetGlobal("rate", lua.LNumber(l.rate))

	for name, fn := range map[string]lua.LGFunction{
		"envelope":   l.envelope,
		"operator":   l.operator,
		"additive":   l.additive,
		"scale":      l.scale,
		"clip":       l.clip,
		"instrument": l.instrument,
		"note":       l.note,
		"midi":       midi,
	} {
		L.SetGlobal(name, L.NewFunction(fn))
	}
}

func (l *loader) dropHandles() {
	for _, g := range l.nodes {
		g.Release()
	}
	for _, e := range l.envs {
		e.Release()
	}
	l.nodes, l.envs = nil, nil
}

// fail raises err into the script at the caller's position and remembers
// it so that the Go error survives the trip through Lua.
func (l *loader) fail(L *lua.LState, err error) int {
	where := L.Where(1)
	l.err = fmt.Errorf("%w: %s %w", ErrScript, where, err)
	l.errMsg = where + " " + err.Error()
	L.Error(lua.LString(l.errMsg), 0)

	return 0
}

func (l *loader) wrap(L *lua.LState, v any, typ string) *lua.LUserData {
	ud := L.NewUserData()
	ud.Value = v
	L.SetMetatable(ud, L.GetTypeMetatable(typ))

	return ud
}

// envelope{imax, imin, attack, decay, sustain, release, curve}
func (l *loader) envelope(L *lua.LState) int {
	t := L.CheckTable(1)
	l.checkFields(L, t, "imax", "imin", "attack", "decay", "sustain", "release", "curve")

	p := envelope.Params{
		IMax:      l.number(L, t, "imax", 1),
		IMin:      l.number(L, t, "imin", 0),
		AttackMS:  l.number(L, t, "attack", 0),
		DecayMS:   l.number(L, t, "decay", 0),
		Sustain:   l.number(L, t, "sustain", 1),
		ReleaseMS: l.number(L, t, "release", 0),
	}

	switch c := l.str(L, t, "curve", "linear"); c {
	case "linear":
		p.Curve = envelope.Linear
	case "exp", "exponential":
		p.Curve = envelope.Exponential
	default:
		return l.fail(L, fmt.Errorf("curve %q: %w", c, ErrUnknownCurve))
	}

	env, err := envelope.New(p, l.rate)
	if err != nil {
		return l.fail(L, fmt.Errorf("envelope: %w", err))
	}
	l.envs = append(l.envs, env)

	L.Push(l.wrap(L, env, envelopeType))
	return 1
}

// operator{wave, mul, boost, env, fm, am, feedback_fm, feedback_am, nyquist, harmonics}
func (l *loader) operator(L *lua.LState) int {
	t := L.CheckTable(1)
	l.checkFields(L, t, "wave", "mul", "boost", "env", "fm", "am",
		"feedback_fm", "feedback_am", "nyquist", "harmonics")

	wave, err := generator.ParseWave(l.str(L, t, "wave", "sine"))
	if err != nil {
		return l.fail(L, err)
	}

	harmonics := l.number(L, t, "harmonics", 0)
	if harmonics != math.Trunc(harmonics) || harmonics < 0 || harmonics > maxCount {
		return l.fail(L, fmt.Errorf("harmonics=%g: %w", harmonics, ErrArgument))
	}

	op, err := generator.NewOperator(generator.OperatorParams{
		Wave:          wave,
		FreqMul:       l.number(L, t, "mul", 1),
		FreqBoost:     l.number(L, t, "boost", 0),
		Envelope:      l.envelopeField(L, t, "env"),
		FM:            l.generatorField(L, t, "fm"),
		AM:            l.generatorField(L, t, "am"),
		FeedbackFM:    l.number(L, t, "feedback_fm", 0),
		FeedbackAM:    l.number(L, t, "feedback_am", 0),
		SampleRate:    l.rate,
		NyquistLimit:  l.number(L, t, "nyquist", 0),
		HarmonicLimit: int(harmonics),
	})
	if err != nil {
		return l.fail(L, fmt.Errorf("operator: %w", err))
	}

	return l.push(L, op)
}

// additive{g1, g2, ...}
func (l *loader) additive(L *lua.LState) int {
	t := L.CheckTable(1)

	children := make([]generator.Generator, 0, t.Len())
	for i := 1; i <= t.Len(); i++ {
		g, ok := toGenerator(t.RawGetInt(i))
		if !ok {
			return l.fail(L, fmt.Errorf("additive element %d is not a generator: %w", i, ErrArgument))
		}
		children = append(children, g)
	}

	a, err := generator.NewAdditive(children...)
	if err != nil {
		return l.fail(L, fmt.Errorf("additive: %w", err))
	}

	return l.push(L, a)
}

// scale(g, k)
func (l *loader) scale(L *lua.LState) int {
	s, err := generator.NewScale(l.checkGenerator(L, 1), float64(L.CheckNumber(2)))
	if err != nil {
		return l.fail(L, fmt.Errorf("scale: %w", err))
	}

	return l.push(L, s)
}

// clip(g, level)
func (l *loader) clip(L *lua.LState) int {
	c, err := generator.NewClip(l.checkGenerator(L, 1), float64(L.CheckNumber(2)))
	if err != nil {
		return l.fail(L, fmt.Errorf("clip: %w", err))
	}

	return l.push(L, c)
}

// instrument(name, root)
func (l *loader) instrument(L *lua.LState) int {
	name := L.CheckString(1)
	root := l.checkGenerator(L, 2)

	if _, ok := l.patch.Instrument(name); ok {
		return l.fail(L, fmt.Errorf("%q: %w", name, ErrDuplicateName))
	}

	inst, err := render.NewInstrument(name, root)
	if err != nil {
		return l.fail(L, fmt.Errorf("instrument: %w", err))
	}
	l.patch.Instruments = append(l.patch.Instruments, inst)

	L.Push(l.wrap(L, inst, instrumentType))
	return 1
}

// note(instrument, start_s, freq, dur_s [, gain]). A note with zero gain is
// silent and dropped.
func (l *loader) note(L *lua.LState) int {
	inst := l.checkInstrument(L, 1)
	start := float64(L.CheckNumber(2))
	freq := float64(L.CheckNumber(3))
	dur := float64(L.CheckNumber(4))
	gain := float64(L.OptNumber(5, 1))

	switch {
	case !finite(start) || start < 0:
		return l.fail(L, fmt.Errorf("start=%g: %w", start, ErrArgument))
	case !finite(freq) || freq <= 0:
		return l.fail(L, fmt.Errorf("freq=%g: %w", freq, ErrArgument))
	case !finite(dur) || dur <= 0:
		return l.fail(L, fmt.Errorf("duration=%g: %w", dur, ErrArgument))
	case !finite(gain):
		return l.fail(L, fmt.Errorf("gain=%g: %w", gain, ErrArgument))
	}

	rate := float64(l.rate)
	first, length := math.Round(start*rate), math.Round(dur*rate)
	if first > maxCount || length > maxCount {
		return l.fail(L, fmt.Errorf("start=%g duration=%g: too many samples: %w", start, dur, ErrArgument))
	}

	if gain == 0 {
		return 0
	}

	l.patch.Notes = append(l.patch.Notes, render.Note{
		Instrument: inst,
		Start:      int(first),
		Freq:       freq,
		Duration:   max(1, int(length)),
		Gain:       gain,
	})

	return 0
}

// midi(n) returns the equal tempered frequency of MIDI note n.
func midi(L *lua.LState) int {
	n := float64(L.CheckNumber(1))
	L.Push(lua.LNumber(440 * math.Pow(2, (n-69)/12)))

	return 1
}

func (l *loader) push(L *lua.LState, g generator.Generator) int {
	l.nodes = append(l.nodes, g)
	L.Push(l.wrap(L, g, generatorType))

	return 1
}

func (l *loader) checkGenerator(L *lua.LState, n int) generator.Generator {
	g, ok := toGenerator(L.Get(n))
	if !ok {
		L.ArgError(n, "generator expected")
	}

	return g
}

func (l *loader) checkInstrument(L *lua.LState, n int) *render.Instrument {
	switch v := L.Get(n).(type) {
	case lua.LString:
		inst, ok := l.patch.Instrument(string(v))
		if !ok {
			l.fail(L, fmt.Errorf("%q: %w", string(v), ErrUnknownInstrument))
		}
		return inst
	case *lua.LUserData:
		if inst, ok := v.Value.(*render.Instrument); ok {
			return inst
		}
	}

	L.ArgError(n, "instrument or instrument name expected")
	return nil
}

func toGenerator(v lua.LValue) (generator.Generator, bool) {
	ud, ok := v.(*lua.LUserData)
	if !ok {
		return nil, false
	}
	g, ok := ud.Value.(generator.Generator)

	return g, ok
}

func (l *loader) generatorField(L *lua.LState, t *lua.LTable, key string) generator.Generator {
	v := t.RawGetString(key)
	if v == lua.LNil {
		return nil
	}

	g, ok := toGenerator(v)
	if !ok {
		l.fail(L, fmt.Errorf("%s: generator expected, got %s: %w", key, v.Type(), ErrArgument))
	}

	return g
}

func (l *loader) envelopeField(L *lua.LState, t *lua.LTable, key string) *envelope.Envelope {
	v := t.RawGetString(key)
	if v == lua.LNil {
		return nil
	}

	if ud, ok := v.(*lua.LUserData); ok {
		if env, ok := ud.Value.(*envelope.Envelope); ok {
			return env
		}
	}

	l.fail(L, fmt.Errorf("%s: envelope expected, got %s: %w", key, v.Type(), ErrArgument))
	return nil
}

func (l *loader) number(L *lua.LState, t *lua.LTable, key string, def float64) float64 {
	switch v := t.RawGetString(key).(type) {
	case lua.LNumber:
		return float64(v)
	default:
		if v == lua.LNil {
			return def
		}
		l.fail(L, fmt.Errorf("%s: number expected, got %s: %w", key, v.Type(), ErrArgument))
	}

	return 0
}

func (l *loader) str(L *lua.LState, t *lua.LTable, key, def string) string {
	switch v := t.RawGetString(key).(type) {
	case lua.LString:
		return string(v)
	default:
		if v == lua.LNil {
			return def
		}
		l.fail(L, fmt.Errorf("%s: string expected, got %s: %w", key, v.Type(), ErrArgument))
	}

	return ""
}

// checkFields rejects keys outside fields so that typos do not pass
// silently.
func (l *loader) checkFields(L *lua.LState, t *lua.LTable, fields ...string) {
	var bad lua.LValue
	t.ForEach(func(k, _ lua.LValue) {
		if bad != nil {
			return
		}
		if s, ok := k.(lua.LString); !ok || !slices.Contains(fields, string(s)) {
			bad = k
		}
	})

	if bad != nil {
		l.fail(L, fmt.Errorf("unknown field %s: %w", bad, ErrArgument))
	}
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
