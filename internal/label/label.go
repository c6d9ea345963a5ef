// Package label implements the Labeler (spec §4.1): it assigns unique,
// dense integer labels to every subterm and every variable binding
// occurrence, and records the labels assigned to the builtin table.
package label

import (
	"github.com/aathn/dppl-core/internal/diagnostics"
	"github.com/aathn/dppl-core/internal/term"
)

// BMap maps a builtin name to the label allocated for it.
type BMap map[string]int

// Allocator is an explicit, single-use monotonic counter. Each compilation
// gets its own Allocator rather than sharing process-wide state (spec §5,
// §9): nothing here needs a reset discipline because nothing is shared.
type Allocator struct{ next int }

// NewAllocator returns a fresh allocator starting at 0.
func NewAllocator() *Allocator { return &Allocator{} }

// Next returns the next unused label and advances the counter.
func (a *Allocator) Next() int {
	n := a.next
	a.next++
	return n
}

// Count returns how many labels have been allocated so far.
func (a *Allocator) Count() int { return a.next }

// Label runs the Labeler over t, given the ordered list of builtin names
// (spec §6: user builtins, then pre-CPS PPL atoms, then post-CPS PPL
// atoms). It returns a freshly-built labeled term (t itself is left
// untouched, per spec §3's Lifecycle note that every pipeline function
// consumes a term and returns a new one), the builtin label map, and the
// total number of labels allocated (nLabels).
//
// A single counter is threaded through builtin registration, the
// variable-binding pass, and the term-labeling pass, exactly as spec §4.1
// describes; the three phases consume disjoint, successive label ranges.
//
// Label panics with a *diagnostics.CoreError on any unbound variable or
// unsupported term variant; callers that want a returned error should wrap
// the call with diagnostics.Recover, as pipeline.LabelStage does.
func Label(builtins []string, t term.Term) (term.Term, BMap, int) {
	alloc := NewAllocator()
	bmap := make(BMap, len(builtins))
	for _, name := range builtins {
		bmap[name] = alloc.Next()
	}

	env := make(map[string]int, len(bmap))
	for name, l := range bmap {
		env[name] = l
	}

	bound := bindVariables(t, env, alloc)
	labeled := labelTerms(bound, alloc)

	return labeled, bmap, alloc.Count()
}

// bindVariables is pass 1: rebuild the term, allocating a fresh VarLabel at
// every Lam and resolving every Var's VarLabel from the enclosing
// environment. The environment is never mutated in place across sibling
// branches — every recursive call either reuses the parent map read-only
// or passes a new, shadowed copy, so sibling branches never observe each
// other's bindings.
func bindVariables(t term.Term, env map[string]int, alloc *Allocator) term.Term {
	switch n := t.(type) {
	case *term.Var:
		l, ok := env[n.Name]
		if !ok {
			diagnostics.Fatal(diagnostics.ErrUnboundVariable, -1, "unbound variable %q", n.Name)
		}
		out := term.NewVar(n.Name)
		setVarLabel(out, l)
		return out

	case *term.Lam:
		i := alloc.Next()
		inner := shadow(env, n.ParamName, i)
		body := bindVariables(n.Body, inner, alloc)
		out := term.NewLam(n.ParamName, body)
		setVarLabel(out, i)
		return out

	case *term.App:
		return term.NewApp(bindVariables(n.Fn, env, alloc), bindVariables(n.Arg, env, alloc))

	case *term.Const:
		return term.NewConst(bindConstant(n.C, env, alloc))

	case *term.IfExp:
		return term.NewIfExp()

	case *term.Fix:
		return term.NewFix()

	case *term.Nop:
		return term.NewNop()

	case *term.Rec:
		fields := make(map[string]term.Term, len(n.Fields))
		for k, v := range n.Fields {
			fields[k] = bindVariables(v, env, alloc)
		}
		return term.NewRec(fields)

	case *term.Proj:
		return term.NewProj(bindVariables(n.Term, env, alloc), n.Field)

	case *term.Utest:
		return term.NewUtest(
			bindVariables(n.Lhs, env, alloc),
			bindVariables(n.Rhs, env, alloc),
			bindVariables(n.Next, env, alloc),
		)

	case *term.Closure:
		diagnostics.Fatal(diagnostics.ErrClosureSeen, -1, "Closure encountered by the labeler")
		return nil

	default:
		diagnostics.Fatal(diagnostics.ErrUnsupportedVariant, -1, "unsupported term variant %T in labeler", t)
		return nil
	}
}

func bindConstant(c term.Constant, env map[string]int, alloc *Allocator) term.Constant {
	a, ok := c.(*term.Atom)
	if !ok {
		return c
	}
	args := make([]term.Term, len(a.ArgsRev))
	for i, arg := range a.ArgsRev {
		args[i] = bindVariables(arg, env, alloc)
	}
	return &term.Atom{ID: a.ID, ArgsRev: args}
}

// setVarLabel writes l into n's Attr.VarLabel.
func setVarLabel(t term.Term, l int) {
	a := t.GetAttr()
	a.VarLabel = l
	t.SetAttr(a)
}

// shadow returns a new environment equal to env but with name rebound to l,
// leaving env itself untouched.
func shadow(env map[string]int, name string, l int) map[string]int {
	next := make(map[string]int, len(env)+1)
	for k, v := range env {
		next[k] = v
	}
	next[name] = l
	return next
}

// labelTerms is pass 2: rebuild the term again, assigning Attr.Label to
// every node depth-first (preserving whatever VarLabel pass 1 already set).
// Lam, App, Rec, Proj, and Utest recurse into their sub-terms, and Const
// relabels the already-applied arguments of an Atom; the remaining cases
// carry no substructure to relabel (spec §4.1).
func labelTerms(t term.Term, alloc *Allocator) term.Term {
	var out term.Term

	switch n := t.(type) {
	case *term.Var:
		v := term.NewVar(n.Name)
		v.DeBruijnIdx = n.DeBruijnIdx
		out = v

	case *term.IfExp:
		out = term.NewIfExp()

	case *term.Fix:
		out = term.NewFix()

	case *term.Nop:
		out = term.NewNop()

	case *term.Lam:
		out = term.NewLam(n.ParamName, labelTerms(n.Body, alloc))

	case *term.App:
		out = term.NewApp(labelTerms(n.Fn, alloc), labelTerms(n.Arg, alloc))

	case *term.Const:
		out = term.NewConst(labelConstant(n.C, alloc))

	case *term.Rec:
		fields := make(map[string]term.Term, len(n.Fields))
		for k, v := range n.Fields {
			fields[k] = labelTerms(v, alloc)
		}
		out = term.NewRec(fields)

	case *term.Proj:
		out = term.NewProj(labelTerms(n.Term, alloc), n.Field)

	case *term.Utest:
		out = term.NewUtest(labelTerms(n.Lhs, alloc), labelTerms(n.Rhs, alloc), labelTerms(n.Next, alloc))

	case *term.Closure:
		diagnostics.Fatal(diagnostics.ErrClosureSeen, -1, "Closure encountered by the labeler")

	default:
		diagnostics.Fatal(diagnostics.ErrUnsupportedVariant, -1, "unsupported term variant %T in labeler", t)
	}

	a := out.GetAttr()
	a.Label = alloc.Next()
	a.VarLabel = t.GetAttr().VarLabel
	out.SetAttr(a)
	return out
}

func labelConstant(c term.Constant, alloc *Allocator) term.Constant {
	a, ok := c.(*term.Atom)
	if !ok {
		return c
	}
	args := make([]term.Term, len(a.ArgsRev))
	for i, arg := range a.ArgsRev {
		args[i] = labelTerms(arg, alloc)
	}
	return &term.Atom{ID: a.ID, ArgsRev: args}
}
