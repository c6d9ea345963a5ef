package pipeline

import (
	"errors"
	"testing"

	"github.com/aathn/dppl-core/internal/builtins"
	"github.com/aathn/dppl-core/internal/pipelinecfg"
	"github.com/aathn/dppl-core/internal/term"
)

// fakeBackend records the arguments RunFull hands to an evalstub.InferenceBackend.
type fakeBackend struct {
	called bool
	aligned term.Term
	mark    []bool
	err     error
}

func (b *fakeBackend) PlaceCheckpoints(aligned term.Term, mark []bool) error {
	b.called = true
	b.aligned = aligned
	b.mark = mark
	return b.err
}

func TestAnalyze_Identity_Succeeds(t *testing.T) {
	table := builtins.Build(nil)
	ctx := NewContext(term.NewLam("x", term.NewVar("x")), table)

	ctx = Analyze().Run(ctx)

	if ctx.Err != nil {
		t.Fatalf("Analyze().Run() error = %v", ctx.Err)
	}
	if ctx.NLabels == 0 {
		t.Fatalf("NLabels = 0, want > 0")
	}
	if len(ctx.Mark) != ctx.NLabels {
		t.Fatalf("len(Mark) = %d, want %d", len(ctx.Mark), ctx.NLabels)
	}
}

func TestCompile_Identity_Succeeds(t *testing.T) {
	table := builtins.Build(nil)
	ctx := NewContext(term.NewLam("x", term.NewVar("x")), table)

	ctx = Compile().Run(ctx)

	if ctx.Err != nil {
		t.Fatalf("Compile().Run() error = %v", ctx.Err)
	}
	if ctx.Indexed == nil {
		t.Fatalf("Indexed is nil after Compile")
	}
}

func TestRun_StopsAtFirstError(t *testing.T) {
	table := builtins.Build(nil)
	// A bare free variable: LabelStage fails, GenerateStage/SolveStage/
	// MarkStage must never run.
	ctx := NewContext(term.NewVar("z"), table)

	ctx = Analyze().Run(ctx)

	if ctx.Err == nil {
		t.Fatalf("expected an error for an unbound free variable")
	}
	if ctx.BMap != nil && ctx.Constraints != nil {
		t.Fatalf("GenerateStage ran despite LabelStage's error")
	}
}

func TestRunFull_RespectsConfigToggles(t *testing.T) {
	table := builtins.Build(nil)
	ctx := NewContext(term.NewLam("x", term.NewVar("x")), table)
	cfg := pipelinecfg.Default()
	cfg.Compile = boolPtr(false)
	ctx.Config = cfg

	ctx = RunFull(ctx)

	if ctx.Err != nil {
		t.Fatalf("RunFull error = %v", ctx.Err)
	}
	if ctx.Indexed != nil {
		t.Fatalf("Indexed should remain nil when Compile is disabled")
	}
	if ctx.Mark == nil {
		t.Fatalf("Mark should be populated when Analysis is enabled")
	}
}

func TestLabelStage_MaxLabelsGuard(t *testing.T) {
	table := builtins.Build(nil)
	ctx := NewContext(term.NewLam("x", term.NewVar("x")), table)
	cfg := pipelinecfg.Default()
	cfg.MaxLabels = 1
	ctx.Config = cfg

	ctx = LabelStage{}.Process(ctx)

	if ctx.Err == nil {
		t.Fatalf("expected a limit-exceeded error with max_labels=1")
	}
}

func TestRunFull_InvokesBackendWhenBothBranchesSucceed(t *testing.T) {
	table := builtins.Build(nil)
	ctx := NewContext(term.NewLam("x", term.NewVar("x")), table)
	backend := &fakeBackend{}
	ctx.Backend = backend

	ctx = RunFull(ctx)

	if ctx.Err != nil {
		t.Fatalf("RunFull error = %v", ctx.Err)
	}
	if !backend.called {
		t.Fatalf("Backend.PlaceCheckpoints was never called")
	}
	if backend.aligned != ctx.Indexed {
		t.Fatalf("Backend received a different term than ctx.Indexed")
	}
	if len(backend.mark) != ctx.NLabels {
		t.Fatalf("Backend received mark of length %d, want %d", len(backend.mark), ctx.NLabels)
	}
}

func TestRunFull_BackendErrorBecomesCtxErr(t *testing.T) {
	table := builtins.Build(nil)
	ctx := NewContext(term.NewLam("x", term.NewVar("x")), table)
	ctx.Backend = &fakeBackend{err: errors.New("boom")}

	ctx = RunFull(ctx)

	if ctx.Err == nil {
		t.Fatalf("expected RunFull to surface the backend's error")
	}
}

func TestRunFull_BackendSkippedWhenCompileDisabled(t *testing.T) {
	table := builtins.Build(nil)
	ctx := NewContext(term.NewLam("x", term.NewVar("x")), table)
	cfg := pipelinecfg.Default()
	cfg.Compile = boolPtr(false)
	ctx.Config = cfg
	backend := &fakeBackend{}
	ctx.Backend = backend

	ctx = RunFull(ctx)

	if ctx.Err != nil {
		t.Fatalf("RunFull error = %v", ctx.Err)
	}
	if backend.called {
		t.Fatalf("Backend should not run when Compile never populated ctx.Indexed")
	}
}

func boolPtr(b bool) *bool { return &b }
