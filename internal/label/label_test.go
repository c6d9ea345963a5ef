package label

import (
	"testing"

	"github.com/aathn/dppl-core/internal/term"
)

// collectLabels walks t and returns every Attr.Label seen, to check
// density/uniqueness invariants.
func collectLabels(t_ term.Term, out *[]int) {
	*out = append(*out, t_.GetAttr().Label)
	switch n := t_.(type) {
	case *term.Lam:
		collectLabels(n.Body, out)
	case *term.App:
		collectLabels(n.Fn, out)
		collectLabels(n.Arg, out)
	case *term.Utest:
		collectLabels(n.Lhs, out)
		collectLabels(n.Rhs, out)
		collectLabels(n.Next, out)
	case *term.Proj:
		collectLabels(n.Term, out)
	case *term.Rec:
		for _, v := range n.Fields {
			collectLabels(v, out)
		}
	}
}

func TestLabel_Identity_DenseUniqueLabels(t *testing.T) {
	prog := term.NewLam("x", term.NewVar("x"))

	labeled, bmap, n := Label(nil, prog)

	if len(bmap) != 0 {
		t.Fatalf("bmap = %v, want empty", bmap)
	}
	// Lam + Var = 2 nodes labeled in pass 2; pass 1 allocates 1 var-label
	// for x. Total labels allocated = 1 (var) + 2 (terms) = 3.
	if n != 3 {
		t.Fatalf("nLabels = %d, want 3", n)
	}

	var labels []int
	collectLabels(labeled, &labels)
	seen := make(map[int]bool)
	for _, l := range labels {
		if seen[l] {
			t.Fatalf("duplicate label %d in %v", l, labels)
		}
		seen[l] = true
		if l < 0 || l >= n {
			t.Fatalf("label %d out of dense range [0,%d)", l, n)
		}
	}
}

func TestLabel_VarLabelMatchesBinder(t *testing.T) {
	// λx. x — the Var's VarLabel must equal the Lam's own VarLabel.
	prog := term.NewLam("x", term.NewVar("x"))
	labeled, _, _ := Label(nil, prog)

	lam := labeled.(*term.Lam)
	v := lam.Body.(*term.Var)

	if v.GetAttr().VarLabel != lam.GetAttr().VarLabel {
		t.Fatalf("var_label(x) = %d, binder var_label = %d, want equal",
			v.GetAttr().VarLabel, lam.GetAttr().VarLabel)
	}
}

func TestLabel_BuiltinsGetLeadingLabels(t *testing.T) {
	_, bmap, _ := Label([]string{"foo", "bar"}, term.NewVar("foo"))
	if bmap["foo"] != 0 || bmap["bar"] != 1 {
		t.Fatalf("bmap = %v, want foo:0 bar:1", bmap)
	}
}

func TestLabel_UnboundVariablePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected a panic for unbound variable z")
		}
	}()
	Label(nil, term.NewVar("z"))
}

func TestLabel_DoesNotMutateInput(t *testing.T) {
	prog := term.NewLam("x", term.NewVar("x"))
	before := prog.GetAttr()

	Label(nil, prog)

	after := prog.GetAttr()
	if before != after {
		t.Fatalf("Label mutated the input term's Attr: before=%+v after=%+v", before, after)
	}
}
