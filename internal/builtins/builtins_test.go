package builtins

import (
	"testing"

	"github.com/aathn/dppl-core/internal/term"
)

func TestBuild_OrderIsUserThenPreCPSThenPostCPS(t *testing.T) {
	user := []Entry{{Name: "eq0"}, {Name: "mul"}}
	table := Build(user)

	names := table.Names()
	if len(names) != 2+len(preCPSOrder)+len(postCPSOrder) {
		t.Fatalf("len(names) = %d, want %d", len(names), 2+len(preCPSOrder)+len(postCPSOrder))
	}
	if names[0] != "eq0" || names[1] != "mul" {
		t.Fatalf("user entries not first: %v", names[:2])
	}
	if names[2] != string(preCPSOrder[0]) {
		t.Fatalf("pre-CPS atoms don't follow user entries: %v", names[2])
	}
	lastPreCPS := 2 + len(preCPSOrder) - 1
	if names[lastPreCPS] != string(preCPSOrder[len(preCPSOrder)-1]) {
		t.Fatalf("pre-CPS order mismatch at %d: %v", lastPreCPS, names[lastPreCPS])
	}
	if names[lastPreCPS+1] != string(postCPSOrder[0]) {
		t.Fatalf("post-CPS atoms don't follow pre-CPS atoms: %v", names[lastPreCPS+1])
	}
}

func TestBuild_AtomEntriesCarryFreshUnappliedAtoms(t *testing.T) {
	table := Build(nil)
	for _, e := range table.Entries {
		c, ok := e.Term.(*term.Const)
		if !ok {
			t.Fatalf("entry %q: Term = %T, want *term.Const", e.Name, e.Term)
		}
		at, ok := c.C.(*term.Atom)
		if !ok {
			t.Fatalf("entry %q: Const.C = %T, want *term.Atom", e.Name, c.C)
		}
		if len(at.ArgsRev) != 0 {
			t.Fatalf("entry %q: atom should be unapplied, got %d args", e.Name, len(at.ArgsRev))
		}
	}
}

func TestNames_MatchesEntryOrder(t *testing.T) {
	table := Build([]Entry{{Name: "z"}})
	names := table.Names()
	if names[0] != "z" {
		t.Fatalf("Names()[0] = %q, want %q", names[0], "z")
	}
}
