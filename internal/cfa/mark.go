package cfa

import (
	"github.com/aathn/dppl-core/internal/diagnostics"
	"github.com/aathn/dppl-core/internal/term"
)

// MarkDynamic runs the dynamic marker (spec §4.4) to fixpoint, given the
// Data produced by Solve, and returns Mark indexed by label. Every label
// whose Data set contains Stoch starts out marked.
//
// The outer loop re-traverses the whole term each pass until a pass makes
// no change, exactly as spec §4.4 describes (no incremental worklist: the
// marking rule depends on both the current Mark array and the traversal's
// flag state, so a full re-traversal per pass is the simplest correct
// implementation of the fixpoint).
func MarkDynamic(bmap map[string]int, labeledTerm term.Term, nLabels int, data Data) Mark {
	mark := make(Mark, nLabels)
	for l := range mark {
		mark[l] = data[l].Contains(Stoch)
	}
	m := &marker{data: data, mark: mark}

	for {
		m.changed = false
		m.visit(labeledTerm, false)
		if !m.changed {
			break
		}
	}
	return mark
}

type marker struct {
	data    Data
	mark    Mark
	changed bool
}

// touch applies the per-node marking rule at label l: if flag is set or l
// is already marked, mark l (and every Fun flowing to l gets its outer
// lambda label marked too).
func (m *marker) touch(l int, flag bool) {
	if !(flag || m.mark[l]) {
		return
	}
	if !m.mark[l] {
		m.mark[l] = true
		m.changed = true
	}
	m.data[l].Each(func(av AbstractValue) {
		if fn, ok := av.AsFun(); ok {
			if !m.mark[fn.LOuter] {
				m.mark[fn.LOuter] = true
				m.changed = true
			}
		}
	})
}

func (m *marker) visit(t term.Term, flag bool) {
	l := t.GetAttr().Label
	m.touch(l, flag)

	if app, ok := t.(*term.App); ok {
		if !flag && isIfApplication(app) {
			// App(App(App(IfExp, cond), thenT), elseT), flag currently false.
			innerApp := app.Fn.(*term.App)
			cond := innerApp.Fn.(*term.App).Arg
			thenT := innerApp.Arg
			elseT := app.Arg

			m.visit(cond, false)
			newFlag := m.data[cond.GetAttr().Label].Contains(Stoch)
			m.visit(thenT, newFlag)
			m.visit(elseT, newFlag)
			return
		}

		// General application (also covers the if-shape once flag is
		// already true: spec §4.4 only special-cases the if-shape when
		// flag is false, so a dynamic-already context just recurses
		// structurally like any other App).
		m.visit(app.Fn, flag)
		m.visit(app.Arg, flag)
		return
	}

	switch n := t.(type) {
	case *term.Lam:
		m.visit(n.Body, flag || m.mark[n.GetAttr().Label])
	case *term.Var, *term.Const, *term.IfExp, *term.Fix, *term.Rec, *term.Proj, *term.Nop:
		// No recursion for any of these (spec §4.4): Rec/Proj are treated
		// atomically here exactly as in the data model (spec §3).
	case *term.Utest:
		// Utest isn't named in spec §4.4's leaf list, but it sequences a
		// next computation the way App does; treat it like App's general
		// rule so dynamic taint still flows through `next`.
		m.visit(n.Lhs, flag)
		m.visit(n.Rhs, flag)
		m.visit(n.Next, flag)
	case *term.Closure:
		diagnostics.Fatal(diagnostics.ErrClosureSeen, l, "Closure encountered by the dynamic marker")
	default:
		diagnostics.Fatal(diagnostics.ErrUnsupportedVariant, l, "unsupported term variant %T", t)
	}
}

// isIfApplication reports whether app is the saturated if-shape
// App(App(App(IfExp{}, cond), thenT), elseT).
func isIfApplication(app *term.App) bool {
	inner, ok := app.Fn.(*term.App)
	if !ok {
		return false
	}
	innermost, ok := inner.Fn.(*term.App)
	if !ok {
		return false
	}
	_, ok = innermost.Fn.(*term.IfExp)
	return ok
}
