// SPDX-License-Identifier: EPL-2.0

package render

import (
	"fmt"

	"github.com/ik5/opsynth/generator"
)

// Instrument is a bound generator graph that can play any number of notes.
type Instrument struct {
	Name       string
	Root       generator.Generator
	Size       int // instance slots one voice needs
	SampleRate int
}

// NewInstrument binds root and takes a reference on it. Every operator in
// the graph must share one sample rate. Binding a graph that shares an
// operator with an instrument built earlier fails with an error wrapping
// generator.ErrAlreadyBound.
func NewInstrument(name string, root generator.Generator) (inst *Instrument, err error) {
	if root == nil {
		return nil, fmt.Errorf("%s: %w", name, ErrNilRoot)
	}
	if root.Refs() <= 0 {
		return nil, fmt.Errorf("%s: %w", name, ErrReleased)
	}

	ops := generator.Operators(root)
	if len(ops) == 0 {
		return nil, fmt.Errorf("%s: %w", name, ErrSilentGraph)
	}

	rate := ops[0].SampleRate()
	for _, op := range ops[1:] {
		if op.SampleRate() != rate {
			return nil, fmt.Errorf("%s: %d and %d Hz: %w", name, rate, op.SampleRate(), ErrMixedRates)
		}
	}

	defer func() {
		if r := recover(); r != nil {
			inst, err = nil, fmt.Errorf("binding %s: %w", name, recovered(r))
		}
	}()

	size := generator.Bind(root)
	root.Retain()

	return &Instrument{
		Name:       name,
		Root:       root,
		Size:       size,
		SampleRate: rate,
	}, nil
}

// Release drops the instrument's reference on its graph. Notes must not be
// rendered with it afterwards.
func (i *Instrument) Release() { i.Root.Release() }
