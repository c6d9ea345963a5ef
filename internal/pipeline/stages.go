package pipeline

import (
	"github.com/aathn/dppl-core/internal/cfa"
	"github.com/aathn/dppl-core/internal/cps"
	"github.com/aathn/dppl-core/internal/debruijn"
	"github.com/aathn/dppl-core/internal/diagnostics"
	"github.com/aathn/dppl-core/internal/label"
)

// LabelStage runs the Labeler (spec §4.1).
type LabelStage struct{}

func (LabelStage) Process(ctx *Context) (result *Context) {
	result = ctx
	defer diagnostics.Recover(&ctx.Err)
	t, bmap, n := label.Label(ctx.Builtins.Names(), ctx.Program)
	if ctx.Config != nil && ctx.Config.MaxLabels > 0 && n > ctx.Config.MaxLabels {
		diagnostics.Fatal(diagnostics.ErrLimitExceeded, -1,
			"label count %d exceeds configured max_labels %d", n, ctx.Config.MaxLabels)
	}
	ctx.Program = t
	ctx.BMap = bmap
	ctx.NLabels = n
	return ctx
}

// GenerateStage runs the constraint generator (spec §4.2).
type GenerateStage struct{}

func (GenerateStage) Process(ctx *Context) (result *Context) {
	result = ctx
	defer diagnostics.Recover(&ctx.Err)
	ctx.Interner = cfa.NewInterner()
	ctx.Constraints = cfa.Generate(ctx.BMap, ctx.Program)
	if ctx.Config != nil && ctx.Config.MaxConstraints > 0 && len(ctx.Constraints) > ctx.Config.MaxConstraints {
		diagnostics.Fatal(diagnostics.ErrLimitExceeded, -1,
			"constraint count %d exceeds configured max_constraints %d", len(ctx.Constraints), ctx.Config.MaxConstraints)
	}
	return ctx
}

// SolveStage runs the worklist solver (spec §4.3).
type SolveStage struct{}

func (SolveStage) Process(ctx *Context) (result *Context) {
	result = ctx
	defer diagnostics.Recover(&ctx.Err)
	ctx.Data = cfa.Solve(ctx.Constraints, ctx.NLabels, ctx.Interner)
	return ctx
}

// MarkStage runs the dynamic marker (spec §4.4).
type MarkStage struct{}

func (MarkStage) Process(ctx *Context) (result *Context) {
	result = ctx
	defer diagnostics.Recover(&ctx.Err)
	ctx.Mark = cfa.MarkDynamic(ctx.BMap, ctx.Program, ctx.NLabels, ctx.Data)
	return ctx
}

// Analyze chains LabelStage, GenerateStage, SolveStage, and MarkStage: the
// whole analysis branch of spec §2's pipeline diagram.
func Analyze() *Pipeline {
	return New(LabelStage{}, GenerateStage{}, SolveStage{}, MarkStage{})
}

// CPSStage runs the CPS transformer (spec §4.5) over ctx.Program,
// independent of the analysis branch (it consumes the pre-label term, not
// the labeled one — spec §2's diagram shows the two branches as parallel
// inputs from the parsed AST, sharing only the builtin table).
type CPSStage struct{}

func (CPSStage) Process(ctx *Context) (result *Context) {
	result = ctx
	defer diagnostics.Recover(&ctx.Err)
	ctx.CPSProgram = cps.TransformProgram(ctx.Program)
	return ctx
}

// DeBruijnStage runs the de Bruijn indexer (spec §6) over ctx.CPSProgram,
// given the builtin table's names as the free-variable environment.
type DeBruijnStage struct{}

func (DeBruijnStage) Process(ctx *Context) (result *Context) {
	result = ctx
	defer diagnostics.Recover(&ctx.Err)
	ctx.Indexed = debruijn.Index(ctx.Builtins.Names(), ctx.CPSProgram)
	return ctx
}

// Compile chains CPSStage and DeBruijnStage: the whole CPS branch of spec
// §2's pipeline diagram, producing an evaluator-ready term.
func Compile() *Pipeline {
	return New(CPSStage{}, DeBruijnStage{})
}

// RunFull runs whichever of the analysis and CPS branches ctx.Config
// enables, in that order, stopping early on the first error. Both branches
// read ctx.Program as their input (spec §2 shows them as parallel consumers
// of the parsed AST); CPS runs against the original program regardless of
// whether the analysis branch already ran and rewrote ctx.Program, since
// labeling only adds Attr information and never changes term shape. Once
// the CPS branch is done, ctx.Program again holds the term the analysis
// branch left there (the labeled one, when analysis ran).
func RunFull(ctx *Context) (result *Context) {
	cfg := ctx.Config
	original := ctx.Program

	if cfg == nil || cfg.RunAnalysis() {
		ctx = Analyze().Run(ctx)
	}
	if ctx.Err != nil {
		return ctx
	}
	if cfg == nil || cfg.RunCompile() {
		analyzed := ctx.Program
		ctx.Program = original
		ctx = Compile().Run(ctx)
		ctx.Program = analyzed
	}
	if ctx.Err == nil && ctx.Backend != nil && ctx.Indexed != nil && ctx.Mark != nil {
		result = ctx
		defer diagnostics.Recover(&ctx.Err)
		if err := ctx.Backend.PlaceCheckpoints(ctx.Indexed, ctx.Mark); err != nil {
			diagnostics.Fatal(diagnostics.ErrInternal, -1, "backend checkpoint placement: %v", err)
		}
	}
	return ctx
}
