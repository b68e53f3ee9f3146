// SPDX-License-Identifier: EPL-2.0

package generator

import (
	"fmt"
	"sync/atomic"
)

var bindPasses atomic.Uint64

// Bind assigns instance slots to every operator reachable from root,
// starting at 0, and returns the instance array length one voice needs.
// A graph is bound exactly once, before any voice is rendered.
func Bind(root Generator) int {
	return BindFrom(root, 0)
}

// BindFrom is Bind with an explicit first slot. Operators come first, then
// their FM and AM modulators; additive children are bound in order. An
// operator shared inside the graph gets a single slot. Reaching an operator
// bound by an earlier call, or a released node, panics with ErrAlreadyBound
// or ErrReleased before any slot is assigned.
func BindFrom(root Generator, start int) int {
	if start < 0 {
		panic(fmt.Errorf("bind start %d: %w", start, ErrInstanceRange))
	}

	checkUnbound(root)

	b := binder{pass: bindPasses.Add(1)}

	return b.bind(root, start)
}

type binder struct {
	pass uint64
}

// bind runs after checkUnbound, so every node is live and unbound.
func (b *binder) bind(g Generator, next int) int {
	switch n := g.(type) {
	case *Operator:
		if n.pass == b.pass {
			return next
		}

		n.slot, n.pass = next, b.pass
		next++

		if n.fm != nil {
			next = b.bind(n.fm, next)
		}
		if n.am != nil {
			next = b.bind(n.am, next)
		}
	case *Additive:
		for _, c := range n.children {
			next = b.bind(c, next)
		}
	case *Scale:
		next = b.bind(n.base, next)
	case *Clip:
		next = b.bind(n.base, next)
	}

	return next
}

// checkUnbound walks the whole graph so that a failing bind leaves no slot
// assigned.
func checkUnbound(root Generator) {
	seen := make(map[Generator]bool)

	var walk func(Generator)
	walk = func(g Generator) {
		mustLive(g)
		if seen[g] {
			return
		}
		seen[g] = true

		switch n := g.(type) {
		case *Operator:
			if n.slot >= 0 {
				panic(fmt.Errorf("%s operator in slot %d: %w", n.wave, n.slot, ErrAlreadyBound))
			}
			if n.fm != nil {
				walk(n.fm)
			}
			if n.am != nil {
				walk(n.am)
			}
		case *Additive:
			for _, c := range n.children {
				walk(c)
			}
		case *Scale:
			walk(n.base)
		case *Clip:
			walk(n.base)
		}
	}
	walk(root)
}

// Operators lists the distinct operators reachable from root in the order
// Bind visits them.
func Operators(root Generator) []*Operator {
	seen := make(map[*Operator]bool)
	var ops []*Operator

	var walk func(Generator)
	walk = func(g Generator) {
		switch n := g.(type) {
		case *Operator:
			if seen[n] {
				return
			}
			seen[n] = true
			ops = append(ops, n)

			if n.fm != nil {
				walk(n.fm)
			}
			if n.am != nil {
				walk(n.am)
			}
		case *Additive:
			for _, c := range n.children {
				walk(c)
			}
		case *Scale:
			walk(n.base)
		case *Clip:
			walk(n.base)
		}
	}
	walk(root)

	return ops
}
