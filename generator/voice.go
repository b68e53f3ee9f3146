// SPDX-License-Identifier: EPL-2.0

package generator

import "fmt"

// Clock is a sample index that can only move forward by one. The zero
// value has not started: Now reports -1 until the first Advance.
type Clock struct {
	next int
}

// Advance moves to the next sample index and returns it.
func (c *Clock) Advance() int {
	t := c.next
	c.next++

	return t
}

// Now is the current sample index, -1 before the first Advance.
func (c *Clock) Now() int { return c.next - 1 }

// Voice renders one note from a bound graph. It owns its instance data but
// does not hold a reference on the graph; the caller keeps the graph alive
// until the voice is no longer used.
type Voice struct {
	root   Generator
	ins    []Instance
	clock  Clock
	length int
}

// NewVoice prepares a note at freq Hz lasting dur samples. size is the
// value Bind returned for root.
func NewVoice(root Generator, size int, freq float64, dur int) *Voice {
	mustLive(root)

	v := &Voice{
		root: root,
		ins:  NewInstances(size, freq, dur),
	}
	v.length = Length(root, v.ins)

	return v
}

// Len is the total number of samples the note produces.
func (v *Voice) Len() int { return v.length }

// Pos is the index of the sample most recently produced, -1 before Next.
func (v *Voice) Pos() int { return v.clock.Now() }

// Done reports whether every sample has been produced.
func (v *Voice) Done() bool { return v.clock.Now() >= v.length-1 }

// Next produces the following sample. ok is false once the note is over,
// in which case the clock does not move.
func (v *Voice) Next() (sample float64, ok bool) {
	if v.Done() {
		return 0, false
	}

	return Invoke(v.root, v.ins, v.clock.Advance()), true
}

// Current re-reads the sample at Pos without advancing any state.
func (v *Voice) Current() float64 {
	t := v.clock.Now()
	if t < 0 {
		panic(fmt.Errorf("current before first sample: %w", ErrNonMonotonic))
	}

	return Invoke(v.root, v.ins, t)
}

// Fill writes up to len(dst) following samples and returns how many.
func (v *Voice) Fill(dst []float64) int {
	n := 0
	for n < len(dst) {
		s, ok := v.Next()
		if !ok {
			break
		}
		dst[n] = s
		n++
	}

	return n
}

// Instances is the voice's per-operator state, indexed by slot.
func (v *Voice) Instances() []Instance { return v.ins }
