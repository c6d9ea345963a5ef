package cfa

import (
	"github.com/aathn/dppl-core/internal/diagnostics"
	"github.com/aathn/dppl-core/internal/term"
)

// Generate walks labeledTerm and emits the 0-CFA constraints described by
// spec §4.2, in the stated priority order. bmap is consulted once, for the
// label bound to the builtin name "sample" (spec §9 Design Notes: cache
// the lookup once per Generate call).
//
// Generate panics with a *diagnostics.CoreError on any unsupported term
// variant (a Closure, or anything outside the enumerated cases).
func Generate(bmap map[string]int, labeledTerm term.Term) []Constraint {
	g := &generator{
		sampleLabel: lookupSample(bmap),
		funs:        collectFuns(labeledTerm),
	}
	g.walk(labeledTerm)
	return g.out
}

type generator struct {
	sampleLabel int // -1 if "sample" isn't in bmap
	funs        []AbstractValue
	out         []Constraint
}

func lookupSample(bmap map[string]int) int {
	if l, ok := bmap["sample"]; ok {
		return l
	}
	return -1
}

// collectFuns gathers the Fun{...} abstract value for every Lam in the
// term, ignoring every other case (spec §4.2: "ignores non-lambda cases").
func collectFuns(t term.Term) []AbstractValue {
	var funs []AbstractValue
	var visit func(term.Term)
	visit = func(t term.Term) {
		switch n := t.(type) {
		case *term.Lam:
			a := n.GetAttr()
			body := n.Body.GetAttr()
			funs = append(funs, NewFun(a.Label, body.Label, a.VarLabel))
			visit(n.Body)
		case *term.App:
			visit(n.Fn)
			visit(n.Arg)
		case *term.Const:
			if at, ok := n.C.(*term.Atom); ok {
				for _, arg := range at.ArgsRev {
					visit(arg)
				}
			}
		case *term.Rec:
			for _, v := range n.Fields {
				visit(v)
			}
		case *term.Proj:
			visit(n.Term)
		case *term.Utest:
			visit(n.Lhs)
			visit(n.Rhs)
			visit(n.Next)
		case *term.Var, *term.IfExp, *term.Fix, *term.Nop:
		case *term.Closure:
			diagnostics.Fatal(diagnostics.ErrClosureSeen, -1, "Closure encountered while collecting funs")
		default:
			diagnostics.Fatal(diagnostics.ErrUnsupportedVariant, -1, "unsupported term variant %T", t)
		}
	}
	visit(t)
	return funs
}

func (g *generator) emit(c Constraint) { g.out = append(g.out, c) }

// walk dispatches on the head/argument-list view of t (spec §9: a
// normalized "head + argument list" view of an application chain), trying
// the ten patterns of spec §4.2 in priority order.
func (g *generator) walk(t term.Term) {
	label := t.GetAttr().Label

	if app, ok := t.(*term.App); ok {
		head, args := term.Spine(app)

		// Rule 1: binary operator application, App(App(Const c, t1), t2).
		if c, ok := headConst(head); ok {
			if n, isAtom := term.ArityOf(c); isAtom && n == 2 && len(args) == 2 {
				t1, t2 := args[0], args[1]
				g.emit(Sub{P1: t1.GetAttr().Label, P2: label})
				g.emit(Sub{P1: t2.GetAttr().Label, P2: label})
				g.walk(t1)
				g.walk(t2)
				return
			}
			// Rule 2: unary operator application, App(Const c, t1).
			if n, isAtom := term.ArityOf(c); isAtom && n == 1 && len(args) == 1 {
				t1 := args[0]
				g.emit(Sub{P1: t1.GetAttr().Label, P2: label})
				g.walk(t1)
				return
			}
		}

		// Rule 3: if expression, App(App(App(IfExp,cond),Lam(thenBody)),Lam(elseBody)).
		if _, ok := head.(*term.IfExp); ok && len(args) == 3 {
			cond := args[0]
			thenLam, okT := args[1].(*term.Lam)
			elseLam, okE := args[2].(*term.Lam)
			if okT && okE {
				g.emit(Sub{P1: thenLam.Body.GetAttr().Label, P2: label})
				g.emit(Sub{P1: elseLam.Body.GetAttr().Label, P2: label})
				g.walk(cond)
				g.walk(thenLam.Body)
				g.walk(elseLam.Body)
				return
			}
		}

		// Rule 4: sample call, App(Var v, t1) where v.var_label == bmap["sample"].
		if v, ok := head.(*term.Var); ok && len(args) == 1 && g.sampleLabel >= 0 &&
			v.GetAttr().VarLabel == g.sampleLabel {
			t1 := args[0]
			g.emit(Dir{AV: Stoch, P: label})
			g.walk(t1)
			return
		}

		// Rule 5: fix application, App(Fix, t1).
		if _, ok := head.(*term.Fix); ok && len(args) == 1 {
			t1 := args[0]
			for _, av := range g.funs {
				fn, _ := av.AsFun()
				g.emit(Impl{AV: av, P: t1.GetAttr().Label, P1: fn.LInner, P2: fn.LVar})
				g.emit(Impl{AV: av, P: t1.GetAttr().Label, P1: fn.LInner, P2: label})
			}
			g.walk(t1)
			return
		}

		// Rule 8: general application, App(t1, t2).
		t1, t2 := app.Fn, app.Arg
		for _, av := range g.funs {
			fn, _ := av.AsFun()
			g.emit(Impl{AV: av, P: t1.GetAttr().Label, P1: t2.GetAttr().Label, P2: fn.LVar})
			g.emit(Impl{AV: av, P: t1.GetAttr().Label, P1: fn.LInner, P2: label})
		}
		g.walk(t1)
		g.walk(t2)
		return
	}

	switch n := t.(type) {
	// Rule 6: variable.
	case *term.Var:
		a := n.GetAttr()
		g.emit(Sub{P1: a.VarLabel, P2: a.Label})

	// Rule 7: lambda.
	case *term.Lam:
		a := n.GetAttr()
		body := n.Body.GetAttr()
		g.emit(Dir{AV: NewFun(a.Label, body.Label, a.VarLabel), P: a.Label})
		g.walk(n.Body)

	// Rule 9: no constraints, but still recurse into substructure so
	// nested lambdas inside records/assertions are visited.
	case *term.Const:
		if at, ok := n.C.(*term.Atom); ok {
			for _, arg := range at.ArgsRev {
				g.walk(arg)
			}
		}
	case *term.IfExp, *term.Fix, *term.Nop:
	case *term.Rec:
		for _, v := range n.Fields {
			g.walk(v)
		}
	case *term.Proj:
		g.walk(n.Term)
	case *term.Utest:
		g.walk(n.Lhs)
		g.walk(n.Rhs)
		g.walk(n.Next)

	// Rule 10: fatal.
	case *term.Closure:
		diagnostics.Fatal(diagnostics.ErrClosureSeen, label, "Closure encountered by the constraint generator")
	default:
		diagnostics.Fatal(diagnostics.ErrUnsupportedVariant, label, "unsupported term variant %T", t)
	}
}

func headConst(t term.Term) (term.Constant, bool) {
	c, ok := t.(*term.Const)
	if !ok {
		return nil, false
	}
	return c.C, true
}
