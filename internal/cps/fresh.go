// Package cps implements the CPS transformer (spec §4.5): cps_atomic,
// cps, and the fresh-variable discipline they share.
package cps

import "strconv"

// FreshGen draws fresh variable names $0, $1, … from a monotonic counter.
// The leading '$' is lexically unavailable to the source language, so a
// fresh name can never shadow a user binding (spec §4.5). Like
// label.Allocator, one FreshGen belongs to exactly one Transform call
// (spec §5) rather than being process-wide state.
type FreshGen struct{ next int }

// NewFreshGen returns a generator starting at $0.
func NewFreshGen() *FreshGen { return &FreshGen{} }

// Fresh returns the next fresh name.
func (g *FreshGen) Fresh() string {
	n := g.next
	g.next++
	return "$" + strconv.Itoa(n)
}
