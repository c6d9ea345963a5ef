// Package pipeline chains the compiler core's stages the way the teacher's
// internal/pipeline package chains lexer/parser/analyzer/evaluator
// Processors: a Context threaded through a sequence of Stages, each
// contributing its outputs to the Context for the next stage to consume.
//
// Unlike the teacher's pipeline — which keeps running every stage so an
// LSP client can see diagnostics from later stages even after an earlier
// one failed — this pipeline stops at the first error, matching spec §7:
// every failure in this core is fatal and aborts that compilation.
package pipeline

import (
	"github.com/aathn/dppl-core/internal/builtins"
	"github.com/aathn/dppl-core/internal/cfa"
	"github.com/aathn/dppl-core/internal/evalstub"
	"github.com/aathn/dppl-core/internal/label"
	"github.com/aathn/dppl-core/internal/pipelinecfg"
	"github.com/aathn/dppl-core/internal/term"
)

// Context carries one compilation's state through the pipeline.
type Context struct {
	// Inputs.
	Program  term.Term
	Builtins builtins.Table
	Config   *pipelinecfg.Config

	// Populated by LabelStage.
	BMap    label.BMap
	NLabels int

	// Populated by GenerateStage.
	Interner    *cfa.Interner
	Constraints []cfa.Constraint

	// Populated by SolveStage.
	Data cfa.Data

	// Populated by MarkStage.
	Mark cfa.Mark

	// Populated by CPSStage.
	CPSProgram term.Term

	// Populated by DeBruijnStage.
	Indexed term.Term

	// RunID correlates this Context's diagnostics across logs
	// (internal/runid); empty when the caller doesn't care.
	RunID string

	// Backend, when set, receives the aligned CPS term and Mark array once
	// both pipeline branches finish (spec §6: this core stops at producing
	// that pair, the backend decides what to do with it). Nil by default;
	// callers that only want the analysis or CPS result leave it unset.
	Backend evalstub.InferenceBackend

	// Err holds the first fatal error raised by any stage. Once set, the
	// Pipeline stops invoking further stages.
	Err error
}

// NewContext builds a Context ready to run the analysis branch, the CPS
// branch, or both, over program with the given builtin table.
func NewContext(program term.Term, table builtins.Table) *Context {
	return &Context{Program: program, Builtins: table, Config: pipelinecfg.Default()}
}

// WithConfig attaches an explicit pipelinecfg.Config to ctx, replacing the
// default one NewContext installs.
func (ctx *Context) WithConfig(cfg *pipelinecfg.Config) *Context {
	ctx.Config = cfg
	return ctx
}

// Stage is one step of the pipeline.
type Stage interface {
	Process(ctx *Context) *Context
}

// Pipeline is an ordered sequence of Stages.
type Pipeline struct {
	stages []Stage
}

// New builds a Pipeline running stages in order.
func New(stages ...Stage) *Pipeline {
	return &Pipeline{stages: stages}
}

// Run executes every stage in order, stopping as soon as a stage sets
// ctx.Err (spec §7: a failure aborts that compilation; there is no
// partial-result consumer downstream for this core the way there is for
// the teacher's LSP).
func (p *Pipeline) Run(ctx *Context) *Context {
	for _, s := range p.stages {
		if ctx.Err != nil {
			break
		}
		ctx = s.Process(ctx)
	}
	return ctx
}
