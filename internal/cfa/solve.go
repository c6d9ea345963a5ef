package cfa

import "github.com/aathn/dppl-core/internal/diagnostics"

// Solve runs the worklist fixpoint (spec §4.3) over constraints, producing
// Data indexed by label. in is the shared interner so AbstractValue
// equality/membership checks are cheap bitset operations throughout.
func Solve(constraints []Constraint, nLabels int, in *Interner) Data {
	data := NewData(nLabels, in)
	edges := NewEdges(nLabels)

	var worklist []int
	inQueue := make([]bool, nLabels)

	add := func(q int, d *ValueSet) {
		if data[q].UnionFrom(d) {
			if !inQueue[q] {
				inQueue[q] = true
				worklist = append(worklist, q)
			}
		}
	}

	addOne := func(q int, av AbstractValue) {
		tmp := NewValueSet(in)
		tmp.Add(av)
		add(q, tmp)
	}

	// Graph construction.
	for _, c := range constraints {
		switch k := c.(type) {
		case Dir:
			addOne(k.P, k.AV)
		case Sub:
			edges[k.P1] = append(edges[k.P1], k)
		case Impl:
			edges[k.P1] = append(edges[k.P1], k)
			edges[k.P] = append(edges[k.P], k)
		default:
			diagnostics.Fatal(diagnostics.ErrStrayConstraint, -1, "unsupported constraint %T", c)
		}
	}

	// Iteration.
	for len(worklist) > 0 {
		q := worklist[len(worklist)-1]
		worklist = worklist[:len(worklist)-1]
		inQueue[q] = false

		for _, c := range edges[q] {
			switch k := c.(type) {
			case Sub:
				add(k.P2, data[k.P1])
			case Impl:
				if data[k.P].Contains(k.AV) {
					add(k.P2, data[k.P1])
				}
			case Dir:
				diagnostics.Fatal(diagnostics.ErrStrayConstraint, -1, "Dir constraint must not appear in edges")
			}
		}
	}

	return data
}
