package cps

import (
	"github.com/aathn/dppl-core/internal/diagnostics"
	"github.com/aathn/dppl-core/internal/term"
)

// Identity builds a fresh λx. x term, used wherever the transform needs to
// drive a sub-computation to a value without further continuation-passing
// (the Fix and Utest cases, spec §4.5).
func Identity(g *FreshGen) term.Term {
	x := g.Fresh()
	return term.NewLam(x, term.NewVar(x))
}

// Atomic implements cps_atomic(t): transform a term that is already a
// value, with no supplied continuation (spec §4.5).
//
// Panics with a *diagnostics.CoreError if t is an App (App is never
// atomic) or any other unsupported variant.
func Atomic(g *FreshGen, t term.Term) term.Term {
	switch n := t.(type) {
	case *term.Var, *term.Nop, *term.Rec, *term.Proj:
		return t

	case *term.Lam:
		k := g.Fresh()
		return term.NewLam(k, term.NewLam(n.ParamName, Transform(g, term.NewVar(k), n.Body)))

	case *term.Const:
		return atomicConst(g, n)

	case *term.IfExp:
		return atomicIf(g)

	case *term.Fix:
		return atomicFix(g)

	case *term.Utest:
		idL := Identity(g)
		idR := Identity(g)
		idN := Identity(g)
		return term.NewUtest(
			Transform(g, idL, n.Lhs),
			Transform(g, idR, n.Rhs),
			Transform(g, idN, n.Next),
		)

	case *term.App:
		diagnostics.Fatal(diagnostics.ErrAppNotAtomic, t.GetAttr().Label, "App is never atomic")
		return nil

	case *term.Closure:
		diagnostics.Fatal(diagnostics.ErrClosureSeen, t.GetAttr().Label, "Closure encountered by the CPS transformer")
		return nil

	default:
		diagnostics.Fatal(diagnostics.ErrUnsupportedVariant, t.GetAttr().Label, "unsupported term variant %T in cps_atomic", t)
		return nil
	}
}

// atomicConst wraps a constant of arity n into n curried continuation-
// passing layers (spec §4.5 item 3). Non-atom constants (plain literals)
// have no arity and are returned unchanged, since they're already fully
// realized values.
func atomicConst(g *FreshGen, c *term.Const) term.Term {
	at, ok := c.C.(*term.Atom)
	if !ok {
		return c
	}
	if term.IsPostCPS(at.ID) {
		// sample/weight keep their raw form; the CPS pass applies them
		// with a continuation as an ordinary argument (spec §3, §4.5).
		return c
	}
	n, ok := term.MaxArity(at.ID)
	if !ok {
		diagnostics.Fatal(diagnostics.ErrUnknownAtom, c.GetAttr().Label, "unknown atom %q", at.ID)
	}
	return atomChain(g, at.ID, n, nil)
}

// atomChain builds the nested-lambda formula for a constant of remaining
// arity, collecting the already-bound argument vars as it recurses inward.
func atomChain(g *FreshGen, id term.AtomID, remaining int, collected []term.Term) term.Term {
	k := g.Fresh()
	v := g.Fresh()
	args := append(append([]term.Term{}, collected...), term.NewVar(v))

	var body term.Term
	if remaining == 1 {
		body = term.NewApp(term.NewVar(k), term.AppN(term.NewConst(term.NewAtom0(id)), args...))
	} else {
		body = term.NewApp(term.NewVar(k), atomChain(g, id, remaining-1, args))
	}
	return term.NewLam(k, term.NewLam(v, body))
}

// atomicIf builds the explicit three-continuation form
//
//	λk1.λa. k1 (λk2.λb. k2 (λk3.λc. λkFinal. IfExp a (b kFinal) (c kFinal)))
//
// so the then/else thunks each receive the final continuation directly
// rather than having their results re-applied to it (spec §4.5 item, If).
func atomicIf(g *FreshGen) term.Term {
	k1, a := g.Fresh(), g.Fresh()
	k2, b := g.Fresh(), g.Fresh()
	k3, c := g.Fresh(), g.Fresh()
	kFinal := g.Fresh()

	innermost := term.NewLam(kFinal, term.NewApp(
		term.NewApp(
			term.NewApp(term.NewIfExp(), term.NewVar(a)),
			term.NewApp(term.NewVar(b), term.NewVar(kFinal)),
		),
		term.NewApp(term.NewVar(c), term.NewVar(kFinal)),
	))

	level3 := term.NewLam(k3, term.NewLam(c, term.NewApp(term.NewVar(k3), innermost)))
	level2 := term.NewLam(k2, term.NewLam(b, term.NewApp(term.NewVar(k2), level3)))
	level1 := term.NewLam(k1, term.NewLam(a, term.NewApp(term.NewVar(k1), level2)))
	return level1
}

// atomicFix builds λk. λv. k (Fix (v idFun)) (spec §4.5 item, Fix): the
// fixed function takes a continuation as its first parameter, but Fix
// itself needs the unwrapped value, so v is driven through the identity
// continuation before being handed to Fix.
func atomicFix(g *FreshGen) term.Term {
	k, v := g.Fresh(), g.Fresh()
	idFun := Identity(g)
	body := term.NewApp(term.NewVar(k), term.NewApp(term.NewFix(), term.NewApp(term.NewVar(v), idFun)))
	return term.NewLam(k, term.NewLam(v, body))
}

// Transform implements cps(cont, t): transform a computation given an
// explicit continuation term cont (spec §4.5). Only App is non-atomic;
// every other term is driven through Atomic and handed to cont directly.
func Transform(g *FreshGen, cont term.Term, t term.Term) term.Term {
	app, ok := t.(*term.App)
	if !ok {
		return term.NewApp(cont, Atomic(g, t))
	}

	t1, t2 := app.Fn, app.Arg

	fPrime, fBound := bindIfNonAtomic(g, t1)
	ePrime, eBound := bindIfNonAtomic(g, t2)

	core := term.NewApp(term.NewApp(fPrime, cont), ePrime)

	var inner term.Term = core
	if eBound != "" {
		inner = Transform(g, term.NewLam(eBound, core), t2)
	}

	outer := inner
	if fBound != "" {
		outer = Transform(g, term.NewLam(fBound, inner), t1)
	}
	return outer
}

// bindIfNonAtomic returns (cps_atomic(t), "") when t is atomic (not an
// App), or (Var(name), name) for a freshly bound name when t is itself an
// application that must first be transformed before its value is known.
func bindIfNonAtomic(g *FreshGen, t term.Term) (term.Term, string) {
	if _, ok := t.(*term.App); ok {
		name := g.Fresh()
		return term.NewVar(name), name
	}
	return Atomic(g, t), ""
}
