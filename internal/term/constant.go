package term

import "github.com/aathn/dppl-core/internal/diagnostics"

// Constant is the closed set of constant values a Const node can carry.
type Constant interface {
	isConstant()
}

// AtomID names a built-in symbolic constant of fixed arity.
type AtomID string

const (
	AtomNormal      AtomID = "normal"
	AtomUniform     AtomID = "uniform"
	AtomGamma       AtomID = "gamma"
	AtomExponential AtomID = "exponential"
	AtomBernoulli   AtomID = "bernoulli"
	AtomInfer       AtomID = "infer"
	AtomProb        AtomID = "prob"
	AtomSample      AtomID = "sample"
	AtomWeight      AtomID = "weight"
)

// maxArity is the fixed, full arity of every atom symbol (spec §3).
var maxArity = map[AtomID]int{
	AtomNormal:      2,
	AtomUniform:     2,
	AtomGamma:       2,
	AtomExponential: 1,
	AtomBernoulli:   1,
	AtomInfer:       1,
	AtomProb:        2,
	AtomSample:      2,
	AtomWeight:      2,
}

// preCPSAtoms are CPS-wrapped like any other constant of their arity.
var preCPSAtoms = map[AtomID]bool{
	AtomNormal:      true,
	AtomUniform:     true,
	AtomGamma:       true,
	AtomExponential: true,
	AtomBernoulli:   true,
	AtomInfer:       true,
	AtomProb:        true,
}

// postCPSAtoms are left in raw form by the CPS transformer: their
// continuation is threaded as an ordinary argument instead of being
// synthesized by the constant-wrapping formula (spec §4.5).
var postCPSAtoms = map[AtomID]bool{
	AtomSample: true,
	AtomWeight: true,
}

// IsPreCPS reports whether id is subject to CPS constant-wrapping.
func IsPreCPS(id AtomID) bool { return preCPSAtoms[id] }

// IsPostCPS reports whether id is a raw, post-CPS atom.
func IsPostCPS(id AtomID) bool { return postCPSAtoms[id] }

// MaxArity returns the full (uncurried) arity of id and true, or false if
// id is unrecognized. It does not panic; the caller (Atom.Arity, cps)
// decides how to report an unknown atom.
func MaxArity(id AtomID) (int, bool) {
	n, ok := maxArity[id]
	return n, ok
}

// Atom represents a (possibly partially applied) built-in atom: symbol id
// with a reversed list of already-applied arguments (spec §3).
type Atom struct {
	ID      AtomID
	ArgsRev []Term
}

func (*Atom) isConstant() {}

// Arity returns the remaining arity of a (partially applied) atom: 0 means
// "ready to fire". Panics if id is unknown — callers in cfa/cps decide how
// to surface that fatally.
func (a *Atom) Arity() int {
	n, ok := MaxArity(a.ID)
	if !ok {
		diagnostics.Fatal(diagnostics.ErrUnknownAtom, -1, "unknown atom %q", a.ID)
	}
	return n - len(a.ArgsRev)
}

// WithArg returns a new Atom with arg appended to the reversed argument
// list (Atoms are immutable, like every other Term).
func (a *Atom) WithArg(arg Term) *Atom {
	args := make([]Term, len(a.ArgsRev), len(a.ArgsRev)+1)
	copy(args, a.ArgsRev)
	args = append(args, arg)
	return &Atom{ID: a.ID, ArgsRev: args}
}

// NewAtom0 builds a fresh, unapplied atom.
func NewAtom0(id AtomID) *Atom { return &Atom{ID: id} }

// ArityOf returns the remaining arity of c when c is an *Atom, and false
// otherwise (numeric/bool/string literals have no arity — they are not
// applied as functions).
func ArityOf(c Constant) (int, bool) {
	a, ok := c.(*Atom)
	if !ok {
		return 0, false
	}
	return a.Arity(), true
}

// Numeric, boolean, and string literal constants, needed to express and
// test `if`/arithmetic-bearing programs even though this core doesn't
// define arithmetic operators itself (those live in the builtin table,
// §6, as ordinary atoms or host functions outside this module's scope).

type Int struct{ Value int64 }
type Float struct{ Value float64 }
type Bool struct{ Value bool }
type Str struct{ Value string }

func (Int) isConstant()   {}
func (Float) isConstant() {}
func (Bool) isConstant()  {}
func (Str) isConstant()   {}
