// Package builtins assembles the ordered builtin table (spec §6): user
// builtins, then the pre-CPS PPL atoms (distribution constructors, infer,
// prob), then the post-CPS PPL atoms (sample, weight). The final order
// fixes both label assignment (via label.Label) and evaluator-environment
// position, and must stay identical across compilation and evaluation.
package builtins

import "github.com/aathn/dppl-core/internal/term"

// Entry is one (name, term) pair of the builtin table.
type Entry struct {
	Name string
	Term term.Term
}

// Table is the builtin table in final, evaluator-facing order.
type Table struct {
	Entries []Entry
}

// preCPSOrder and postCPSOrder fix a stable iteration order for the atom
// tables (spec §3) independent of Go map iteration order.
var preCPSOrder = []term.AtomID{
	term.AtomNormal,
	term.AtomUniform,
	term.AtomGamma,
	term.AtomExponential,
	term.AtomBernoulli,
	term.AtomInfer,
	term.AtomProb,
}

var postCPSOrder = []term.AtomID{
	term.AtomSample,
	term.AtomWeight,
}

// Build augments user with the PPL atom tables in the order spec §6
// requires: user builtins first, then pre-CPS atoms, then post-CPS atoms.
func Build(user []Entry) Table {
	entries := make([]Entry, 0, len(user)+len(preCPSOrder)+len(postCPSOrder))
	entries = append(entries, user...)

	for _, id := range preCPSOrder {
		entries = append(entries, Entry{Name: string(id), Term: term.NewConst(term.NewAtom0(id))})
	}
	for _, id := range postCPSOrder {
		entries = append(entries, Entry{Name: string(id), Term: term.NewConst(term.NewAtom0(id))})
	}

	return Table{Entries: entries}
}

// Names returns the table's names in order — the slice label.Label and
// the evaluator both expect (spec §4.1, §6).
func (t Table) Names() []string {
	names := make([]string, len(t.Entries))
	for i, e := range t.Entries {
		names[i] = e.Name
	}
	return names
}
