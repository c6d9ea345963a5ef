package cfa_test

import (
	"testing"

	"github.com/aathn/dppl-core/internal/cfa"
	"github.com/aathn/dppl-core/internal/label"
	"github.com/aathn/dppl-core/internal/term"
)

func analyze(t *testing.T, builtins []string, prog term.Term) (cfa.Data, cfa.Mark, int) {
	t.Helper()
	labeled, bmap, n := label.Label(builtins, prog)
	in := cfa.NewInterner()
	constraints := cfa.Generate(bmap, labeled)
	data := cfa.Solve(constraints, n, in)
	mark := cfa.MarkDynamic(bmap, labeled, n, data)
	return data, mark, n
}

// S1: λx. x — nothing is dynamic.
func TestAnalyze_Identity_NothingDynamic(t *testing.T) {
	prog := term.NewLam("x", term.NewVar("x"))
	_, mark, _ := analyze(t, nil, prog)
	for i, m := range mark {
		if m {
			t.Fatalf("label %d marked dynamic, want all-false for identity", i)
		}
	}
}

// S2: let d = normal 0.0 1.0 in sample d — the sample application's own
// label must carry Stoch and be marked dynamic.
func TestAnalyze_SampleNormal_MarksDynamic(t *testing.T) {
	d := term.NewApp(
		term.NewApp(term.NewConst(term.NewAtom0(term.AtomNormal)), term.NewConst(term.Float{Value: 0})),
		term.NewConst(term.Float{Value: 1}),
	)
	sampleApp := term.NewApp(term.NewVar("sample"), term.NewVar("d"))
	prog := term.NewApp(term.NewLam("d", sampleApp), d)

	builtins := []string{"sample"}
	labeled, bmap, n := label.Label(builtins, prog)
	in := cfa.NewInterner()
	constraints := cfa.Generate(bmap, labeled)
	data := cfa.Solve(constraints, n, in)
	mark := cfa.MarkDynamic(bmap, labeled, n, data)

	// Find the sample application's label: the outer App in sampleApp.
	app := labeled.(*term.App).Fn.(*term.Lam).Body.(*term.App)
	sampleLabel := app.GetAttr().Label

	if !data[sampleLabel].Contains(cfa.Stoch) {
		t.Fatalf("data[%d] does not contain Stoch", sampleLabel)
	}
	if !mark[sampleLabel] {
		t.Fatalf("mark[%d] = false, want true (sample call must be dynamic)", sampleLabel)
	}
}

// S5: a bare unbound variable must abort labeling before Generate ever runs.
func TestAnalyze_FreeVariable_PanicsDuringLabel(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected a panic for the unbound variable")
		}
	}()
	label.Label(nil, term.NewVar("z"))
}

func TestValueSet_AddContainsUnion(t *testing.T) {
	in := cfa.NewInterner()
	a := cfa.NewValueSet(in)
	b := cfa.NewValueSet(in)

	if !a.Add(cfa.Stoch) {
		t.Fatalf("Add should report growth on first insert")
	}
	if a.Add(cfa.Stoch) {
		t.Fatalf("Add should report no growth on duplicate insert")
	}
	if !a.Contains(cfa.Stoch) {
		t.Fatalf("a should contain Stoch")
	}
	if b.Contains(cfa.Stoch) {
		t.Fatalf("b should not contain Stoch before union")
	}

	grew := b.UnionFrom(a)
	if !grew {
		t.Fatalf("UnionFrom should report growth")
	}
	if !b.Contains(cfa.Stoch) {
		t.Fatalf("b should contain Stoch after union")
	}
	if b.UnionFrom(a) {
		t.Fatalf("UnionFrom should report no further growth once already a superset")
	}
}

func TestFun_IdentityAndEquality(t *testing.T) {
	f1 := cfa.NewFun(1, 2, 3)
	f2 := cfa.NewFun(1, 2, 3)
	f3 := cfa.NewFun(1, 2, 4)

	if f1 != f2 {
		t.Fatalf("structurally identical Fun values should be ==")
	}
	if f1 == f3 {
		t.Fatalf("structurally different Fun values should not be ==")
	}
	fn, ok := f1.AsFun()
	if !ok || fn.LOuter != 1 || fn.LInner != 2 || fn.LVar != 3 {
		t.Fatalf("AsFun() = (%+v, %v), want ({1 2 3}, true)", fn, ok)
	}
	if cfa.Stoch.IsStoch() != true {
		t.Fatalf("Stoch.IsStoch() should be true")
	}
	if f1.IsStoch() {
		t.Fatalf("a Fun value should not report IsStoch")
	}
}
