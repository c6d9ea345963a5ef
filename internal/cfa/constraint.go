package cfa

// Constraint is the closed set of 0-CFA constraint shapes (spec §3):
//
//   Dir(av, p)         av ∈ data[p]                        unconditionally
//   Sub(p1, p2)        data[p1] ⊆ data[p2]
//   Impl(av, p, p1, p2) if av ∈ data[p] then data[p1] ⊆ data[p2]
type Constraint interface {
	isConstraint()
}

// Dir asserts AV is unconditionally a member of data[P].
type Dir struct {
	AV AbstractValue
	P  int
}

// Sub asserts data[P1] ⊆ data[P2].
type Sub struct {
	P1, P2 int
}

// Impl asserts: if AV ∈ data[P] then data[P1] ⊆ data[P2].
type Impl struct {
	AV         AbstractValue
	P, P1, P2 int
}

func (Dir) isConstraint()  {}
func (Sub) isConstraint()  {}
func (Impl) isConstraint() {}

// Data is the solver's output: data[l] is the set of abstract values that
// may flow to label l.
type Data []*ValueSet

// NewData allocates an empty Data array of length nLabels, all sets backed
// by the shared interner in.
func NewData(nLabels int, in *Interner) Data {
	d := make(Data, nLabels)
	for i := range d {
		d[i] = NewValueSet(in)
	}
	return d
}

// Edges holds, per label, the constraints to re-fire when that label's data
// grows (spec §4.3's graph construction): a Sub under its P1, an Impl under
// both its P1 and its P.
type Edges [][]Constraint

// NewEdges allocates an empty Edges array of length nLabels.
func NewEdges(nLabels int) Edges { return make(Edges, nLabels) }

// Mark is the dynamic-marker's output: Mark[l] is true iff label l is
// dynamic.
type Mark []bool
