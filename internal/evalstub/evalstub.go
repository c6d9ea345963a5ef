// Package evalstub describes, with interfaces only, the shape the real
// evaluator/inference backend must satisfy (spec §1, §6 Non-goals: the
// concrete evaluator and importance-sampling execution are out of scope).
// Nothing here evaluates anything; it exists so internal/pipeline can be
// wired end-to-end against a caller-supplied implementation without this
// module taking on evaluation itself.
package evalstub

import "github.com/aathn/dppl-core/internal/term"

// Env is the evaluator's environment: one entry per builtin, in the order
// fixed by the builtin table (spec §6).
type Env interface {
	// Lookup returns the value bound at de Bruijn depth idx.
	Lookup(idx int) (any, bool)
}

// Evaluator consumes a de-Bruijn-indexed, CPS-transformed term plus an
// environment and evaluates it. It may produce term.Closure values
// internally; those never round-trip through this module (spec §3, §6).
type Evaluator interface {
	Eval(t term.Term, env Env) (any, error)
}

// InferenceBackend is the downstream consumer of the aligned CPS term plus
// the Mark array (spec §6): it uses Stoch/dynamic labels to place
// checkpoints. This module does not constrain how.
type InferenceBackend interface {
	PlaceCheckpoints(aligned term.Term, mark []bool) error
}
