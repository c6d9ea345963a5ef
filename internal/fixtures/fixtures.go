// Package fixtures builds example programs directly with term
// constructors, standing in for the surface-syntax parser this module
// doesn't own (spec.md's Non-goals explicitly exclude parsing). Both the
// CLI's demo mode and the package tests use these as shared, named inputs.
package fixtures

import "github.com/aathn/dppl-core/internal/term"

// Program is a named example term plus the free builtin names it refers
// to, so callers can build a matching builtins.Table.
type Program struct {
	Name    string
	Term    term.Term
	Free    []string // non-PPL free variables the program references
	Summary string
}

func letBind(name string, value, body term.Term) term.Term {
	return term.NewApp(term.NewLam(name, body), value)
}

// callAtom builds App(...App(Const(atom), arg0)..., argN), the only shape
// the rest of this module ever sees atoms in (constants are applied like
// any other function, spec §3).
func callAtom(id term.AtomID, args ...term.Term) term.Term {
	var t term.Term = term.NewConst(term.NewAtom0(id))
	for _, arg := range args {
		t = term.NewApp(t, arg)
	}
	return t
}

// Identity is scenario S1: λx. x.
func Identity() Program {
	return Program{
		Name:    "identity",
		Term:    term.NewLam("x", term.NewVar("x")),
		Summary: "λx. x — CPS yields λk.λx. k x; nothing is dynamic.",
	}
}

// SampleNormal is scenario S2: let d = normal 0.0 1.0 in sample d.
func SampleNormal() Program {
	d := callAtom(term.AtomNormal, term.NewConst(term.Float{Value: 0.0}), term.NewConst(term.Float{Value: 1.0}))
	body := term.NewApp(term.NewVar("sample"), term.NewVar("d"))
	return Program{
		Name:    "sample-normal",
		Term:    letBind("d", d, body),
		Summary: "let d = normal 0.0 1.0 in sample d — the sample call is marked dynamic.",
	}
}

// IfSampleBernoulli is scenario S3:
// if sample (bernoulli 0.5) then 1 else 2, written in saturated
// App(App(App(IfExp, cond), thenThunk), elseThunk) form (spec §3).
func IfSampleBernoulli() term.Term {
	cond := term.NewApp(term.NewVar("sample"), callAtom(term.AtomBernoulli, term.NewConst(term.Float{Value: 0.5})))
	thenT := term.NewLam("_", term.NewConst(term.Int{Value: 1}))
	elseT := term.NewLam("_", term.NewConst(term.Int{Value: 2}))
	return term.AppN(term.NewIfExp(), cond, thenT, elseT)
}

// IfSample wraps IfSampleBernoulli as a named Program.
func IfSample() Program {
	return Program{
		Name:    "if-sample",
		Term:    IfSampleBernoulli(),
		Summary: "if sample (bernoulli 0.5) then 1 else 2 — both branches are dynamic.",
	}
}

// FixFactorial is scenario S4: fix (λf. λn. if n=0 then 1 else n * f(n-1)),
// with the arithmetic left as free variables ("eq0", "mul", "sub1") since
// this core has no arithmetic builtins of its own (spec §6).
func FixFactorial() Program {
	n := term.NewVar("n")
	f := term.NewVar("f")
	cond := term.NewApp(term.NewVar("eq0"), n)
	thenT := term.NewLam("_", term.NewConst(term.Int{Value: 1}))
	elseT := term.NewLam("_", term.NewApp(
		term.NewApp(term.NewVar("mul"), n),
		term.NewApp(f, term.NewApp(term.NewVar("sub1"), n)),
	))
	body := term.AppN(term.NewIfExp(), cond, thenT, elseT)
	fn := term.NewLam("f", term.NewLam("n", body))
	return Program{
		Name:    "fix-factorial",
		Term:    term.NewApp(term.NewFix(), fn),
		Free:    []string{"eq0", "mul", "sub1"},
		Summary: "fix (λf.λn. if eq0 n then 1 else mul n (f (sub1 n))) — mark stays all-false.",
	}
}

// FreeVariable is scenario S5: an unbound reference to z, used to exercise
// the Labeler's unbound-variable error path.
func FreeVariable() Program {
	return Program{
		Name:    "free-variable",
		Term:    term.NewVar("z"),
		Summary: "bare reference to z — labeling aborts with E_UNBOUND_VARIABLE.",
	}
}

// NestedApplication is scenario S6: (f x) (g y), where the CPS transformer
// must bind both the function position and the argument position through
// fresh continuations since neither is atomic.
func NestedApplication() Program {
	fx := term.NewApp(term.NewVar("f"), term.NewVar("x"))
	gy := term.NewApp(term.NewVar("g"), term.NewVar("y"))
	return Program{
		Name:    "nested-application",
		Term:    term.NewApp(fx, gy),
		Free:    []string{"f", "x", "g", "y"},
		Summary: "(f x) (g y) — CPS introduces two fresh $-bindings for the two applications.",
	}
}

// All returns every named fixture, in spec §8's S1..S6 order.
func All() []Program {
	return []Program{Identity(), SampleNormal(), IfSample(), FixFactorial(), FreeVariable(), NestedApplication()}
}
