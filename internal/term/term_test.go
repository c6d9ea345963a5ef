package term

import "testing"

func TestSpineAndAppN_RoundTrip(t *testing.T) {
	f := NewVar("f")
	x := NewVar("x")
	y := NewVar("y")
	app := AppN(f, x, y) // (f x) y

	head, args := Spine(app)
	if head != Term(f) {
		t.Fatalf("head = %v, want f", head)
	}
	if len(args) != 2 || args[0] != Term(x) || args[1] != Term(y) {
		t.Fatalf("args = %v, want [x y]", args)
	}

	rebuilt := AppN(head, args...)
	h2, a2 := Spine(rebuilt)
	if h2 != Term(f) || len(a2) != 2 {
		t.Fatalf("round-trip mismatch: head=%v args=%v", h2, a2)
	}
}

func TestSpine_NonApplication(t *testing.T) {
	v := NewVar("x")
	head, args := Spine(v)
	if head != Term(v) {
		t.Fatalf("head = %v, want v itself", head)
	}
	if len(args) != 0 {
		t.Fatalf("args = %v, want empty", args)
	}
}

func TestAttr_GetSetRoundTrip(t *testing.T) {
	v := NewVar("x")
	v.SetAttr(Attr{Label: 3, VarLabel: 7})
	got := v.GetAttr()
	if got.Label != 3 || got.VarLabel != 7 {
		t.Fatalf("GetAttr() = %+v, want {3 7}", got)
	}
}

func TestAtomArity(t *testing.T) {
	a := NewAtom0(AtomNormal)
	if a.Arity() != 2 {
		t.Fatalf("Arity() = %d, want 2", a.Arity())
	}
	a1 := a.WithArg(NewConst(Float{Value: 0}))
	if a1.Arity() != 1 {
		t.Fatalf("Arity() after one arg = %d, want 1", a1.Arity())
	}
	a2 := a1.WithArg(NewConst(Float{Value: 1}))
	if a2.Arity() != 0 {
		t.Fatalf("Arity() after two args = %d, want 0", a2.Arity())
	}
	// WithArg must not mutate the receiver (terms are immutable).
	if a.Arity() != 2 {
		t.Fatalf("original atom mutated: Arity() = %d, want 2", a.Arity())
	}
}

func TestIsPreCPSIsPostCPS(t *testing.T) {
	if !IsPreCPS(AtomNormal) || IsPostCPS(AtomNormal) {
		t.Fatalf("normal should be pre-CPS only")
	}
	if !IsPostCPS(AtomSample) || IsPreCPS(AtomSample) {
		t.Fatalf("sample should be post-CPS only")
	}
}

func TestArityOf(t *testing.T) {
	if _, ok := ArityOf(Int{Value: 1}); ok {
		t.Fatalf("ArityOf(Int) should report ok=false")
	}
	if n, ok := ArityOf(NewAtom0(AtomWeight)); !ok || n != 2 {
		t.Fatalf("ArityOf(weight atom) = (%d, %v), want (2, true)", n, ok)
	}
}
