// Package debruijn implements the de Bruijn indexer collaborator (spec
// §6). It is modeled as an external interface there, but its contract is
// small enough — and every CPS-transformed term needs it exercised by
// tests — that a real implementation lives here rather than a stub.
package debruijn

import (
	"github.com/aathn/dppl-core/internal/diagnostics"
	"github.com/aathn/dppl-core/internal/term"
)

// Index walks t, setting every Var's DeBruijnIdx to its lexical depth: the
// number of enclosing Lam binders between the occurrence and its binder,
// counting the innermost Lam as depth 0. freeVars names the free variables
// in scope (the builtin table, in evaluator-environment order); they are
// treated as binders below everything else in the term, with the last
// entry of freeVars nearest in scope (depth len(locals) for the last
// element), so that index 0 within the free tier lands on freeVars'
// final/most-local entry — the convention this module settles on for the
// Open Question spec.md leaves to the evaluator (spec §6, §9).
//
// Index panics with a *diagnostics.CoreError if a Var's name resolves to
// nothing in scope, or an unsupported term variant is encountered.
func Index(freeVars []string, t term.Term) term.Term {
	scope := make([]string, len(freeVars))
	for i, n := range freeVars {
		scope[len(freeVars)-1-i] = n
	}
	indexTerm(t, scope)
	return t
}

func indexTerm(t term.Term, scope []string) {
	switch n := t.(type) {
	case *term.Var:
		idx, ok := find(scope, n.Name)
		if !ok {
			diagnostics.Fatal(diagnostics.ErrUnboundVariable, t.GetAttr().Label, "unbound variable %q", n.Name)
		}
		n.DeBruijnIdx = idx

	case *term.Lam:
		inner := make([]string, 0, len(scope)+1)
		inner = append(inner, n.ParamName)
		inner = append(inner, scope...)
		indexTerm(n.Body, inner)

	case *term.App:
		indexTerm(n.Fn, scope)
		indexTerm(n.Arg, scope)

	case *term.Const:
		if at, ok := n.C.(*term.Atom); ok {
			for _, arg := range at.ArgsRev {
				indexTerm(arg, scope)
			}
		}

	case *term.Rec:
		for _, v := range n.Fields {
			indexTerm(v, scope)
		}

	case *term.Proj:
		indexTerm(n.Term, scope)

	case *term.Utest:
		indexTerm(n.Lhs, scope)
		indexTerm(n.Rhs, scope)
		indexTerm(n.Next, scope)

	case *term.IfExp, *term.Fix, *term.Nop:
		// leaves

	case *term.Closure:
		diagnostics.Fatal(diagnostics.ErrClosureSeen, t.GetAttr().Label, "Closure encountered by the de Bruijn indexer")

	default:
		diagnostics.Fatal(diagnostics.ErrUnsupportedVariant, t.GetAttr().Label, "unsupported term variant %T", t)
	}
}

func find(scope []string, name string) (int, bool) {
	for i, n := range scope {
		if n == name {
			return i, true
		}
	}
	return 0, false
}
