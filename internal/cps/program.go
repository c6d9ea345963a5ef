package cps

import "github.com/aathn/dppl-core/internal/term"

// TransformProgram transforms a whole program term. It drives the program to a
// final value through a fresh identity continuation, the same way the
// Utest case of cps_atomic drives each of its three sub-terms (spec
// §4.5) — there being no separate "top-level driver" construct in spec
// §4.5, this is the natural reading of "Transform" as an operation on a
// standalone computation rather than a value already bound to an outer
// continuation.
//
// Transform panics with a *diagnostics.CoreError (via Atomic/cps
// internally) on any structural failure; wrap the call with
// diagnostics.Recover to turn that into a returned error, as the pipeline
// package's stages do.
func TransformProgram(program term.Term) term.Term {
	g := NewFreshGen()
	return TransformProgramWith(g, program)
}

// TransformProgramWith is TransformProgram but with a caller-supplied
// FreshGen, so a caller that needs fresh names to keep counting across
// several transformed builtins and the main program (spec §6: "Invoked on
// every CPS-transformed builtin and on the main program") can share one
// generator.
func TransformProgramWith(g *FreshGen, program term.Term) term.Term {
	return Transform(g, Identity(g), program)
}
