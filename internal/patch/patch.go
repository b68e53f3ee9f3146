// SPDX-License-Identifier: EPL-2.0

package patch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/ik5/opsynth/envelope"
	"github.com/ik5/opsynth/render"
)

// Patch is the result of running a script: bound instruments and the notes
// that play them, all at Rate.
type Patch struct {
	Rate        int
	Instruments []*render.Instrument
	Notes       []render.Note
}

// Instrument looks up an instrument by name.
func (p *Patch) Instrument(name string) (*render.Instrument, bool) {
	for _, inst := range p.Instruments {
		if inst.Name == name {
			return inst, true
		}
	}

	return nil, false
}

// Release drops every instrument. The notes must not be rendered afterwards.
func (p *Patch) Release() {
	for _, inst := range p.Instruments {
		inst.Release()
	}
	p.Instruments = nil
}

// Load runs the script at path.
func Load(ctx context.Context, path string, rate int) (*Patch, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading script: %w", err)
	}

	return Parse(ctx, path, string(src), rate)
}

// Parse runs src as a script named name. Errors raised while the script
// builds envelopes, generators or notes carry the script position and wrap
// both ErrScript and the underlying cause.
func Parse(ctx context.Context, name, src string, rate int) (*Patch, error) {
	if rate < envelope.MinSampleRate || rate > envelope.MaxSampleRate {
		return nil, fmt.Errorf("rate=%d: %w", rate, ErrRate)
	}

	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	defer L.Close()

	openLibs(L)
	L.SetContext(ctx)

	l := newLoader(rate)
	l.install(L)

	fn, err := L.Load(strings.NewReader(src), name)
	if err != nil {
		return nil, l.scriptError(err)
	}

	L.Push(fn)
	err = L.PCall(0, lua.MultRet, nil)

	// instruments hold their own references from here on
	l.dropHandles()

	if err != nil {
		l.patch.Release()
		if cerr := ctx.Err(); cerr != nil {
			return nil, fmt.Errorf("running %s: %w", name, cerr)
		}
		return nil, l.scriptError(err)
	}

	return l.patch, nil
}

func openLibs(L *lua.LState) {
	for _, lib := range []struct {
		name string
		fn   lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	} {
		L.Push(L.NewFunction(lib.fn))
		L.Push(lua.LString(lib.name))
		L.Call(1, 0)
	}
}

func (l *loader) scriptError(err error) error {
	var apiErr *lua.ApiError
	if !errors.As(err, &apiErr) {
		return fmt.Errorf("%w: %w", ErrScript, err)
	}

	msg := apiErr.Object.String()
	if l.err != nil && msg == l.errMsg {
		return l.err
	}

	return fmt.Errorf("%w: %s", ErrScript, msg)
}
