// Package cfa implements the 0-CFA analysis core: constraint generation
// (spec §4.2), the worklist solver (spec §4.3), and the dynamic marker
// (spec §4.4), all operating over the abstract-value domain defined here.
package cfa

import "github.com/bits-and-blooms/bitset"

// AbstractValue is the 0-CFA analysis domain (spec §3): a stochastic taint,
// the fixpoint combinator as a value, or the closure of a lambda identified
// by its three defining labels.
type AbstractValue struct {
	kind kind
	fun  Fun
}

type kind uint8

const (
	kindStoch kind = iota
	kindFix
	kindFun
)

// Fun identifies the closure of a lambda by three labels: the lambda
// term's own label, its body's label, and its parameter's var-label.
// Fun equality is structural over these three labels (spec §9).
type Fun struct {
	LOuter int
	LInner int
	LVar   int
}

// Stoch is the stochastic-taint abstract value.
var Stoch = AbstractValue{kind: kindStoch}

// FixVal is the fixpoint combinator's abstract value.
var FixVal = AbstractValue{kind: kindFix}

// NewFun builds the abstract value for the closure of a lambda.
func NewFun(lOuter, lInner, lVar int) AbstractValue {
	return AbstractValue{kind: kindFun, fun: Fun{LOuter: lOuter, LInner: lInner, LVar: lVar}}
}

// IsStoch reports whether av is the Stoch value.
func (av AbstractValue) IsStoch() bool { return av.kind == kindStoch }

// AsFun returns (Fun, true) if av represents a closure.
func (av AbstractValue) AsFun() (Fun, bool) {
	if av.kind == kindFun {
		return av.fun, true
	}
	return Fun{}, false
}

// Interner assigns every distinct AbstractValue a dense uint index, so
// per-label abstract-value sets can be represented as compact bitsets
// (spec §9 Design Notes) rather than Go map[AbstractValue]struct{} sets.
type Interner struct {
	ids    map[AbstractValue]uint
	values []AbstractValue
}

// NewInterner returns an empty, single-use interner. Like label.Allocator,
// one of these belongs to exactly one analysis run (spec §5).
func NewInterner() *Interner {
	return &Interner{ids: make(map[AbstractValue]uint)}
}

// Intern returns the dense index for av, assigning a new one on first use.
func (in *Interner) Intern(av AbstractValue) uint {
	if id, ok := in.ids[av]; ok {
		return id
	}
	id := uint(len(in.values))
	in.ids[av] = id
	in.values = append(in.values, av)
	return id
}

// Lookup returns the AbstractValue interned at id.
func (in *Interner) Lookup(id uint) AbstractValue { return in.values[id] }

// Len returns how many distinct abstract values have been interned so far.
func (in *Interner) Len() int { return len(in.values) }

// ValueSet is a set of AbstractValues backed by a bitset over an
// Interner's dense indices.
type ValueSet struct {
	bits *bitset.BitSet
	in   *Interner
}

// NewValueSet returns an empty set backed by in.
func NewValueSet(in *Interner) *ValueSet {
	return &ValueSet{bits: new(bitset.BitSet), in: in}
}

// Add inserts av and reports whether the set actually grew.
func (s *ValueSet) Add(av AbstractValue) bool {
	id := s.in.Intern(av)
	if s.bits.Test(id) {
		return false
	}
	s.bits.Set(id)
	return true
}

// Contains reports whether av is a member, without interning av if it has
// never been seen before (a never-seen value cannot be a member).
func (s *ValueSet) Contains(av AbstractValue) bool {
	id, ok := s.in.ids[av]
	if !ok {
		return false
	}
	return s.bits.Test(id)
}

// UnionFrom merges other into s in place, reporting whether s grew.
func (s *ValueSet) UnionFrom(other *ValueSet) bool {
	if other == nil || other.bits.None() {
		return false
	}
	before := s.bits.Clone()
	s.bits.InPlaceUnion(other.bits)
	return !before.Equal(s.bits)
}

// Each calls f for every abstract value currently in the set.
func (s *ValueSet) Each(f func(AbstractValue)) {
	for i, ok := s.bits.NextSet(0); ok; i, ok = s.bits.NextSet(i + 1) {
		f(s.in.Lookup(i))
	}
}

// Len returns the number of members.
func (s *ValueSet) Len() int { return int(s.bits.Count()) }
