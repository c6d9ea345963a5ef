package pipelinecfg

import "testing"

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse([]byte(``), "test.yaml")
	if err != nil {
		t.Fatalf("Parse(empty) error = %v", err)
	}
	if !cfg.RunAnalysis() || !cfg.RunCompile() {
		t.Fatalf("empty config should default both toggles to true")
	}
	if cfg.CacheEnabled() {
		t.Fatalf("empty config should not enable caching")
	}
}

func TestParse_ExplicitToggles(t *testing.T) {
	cfg, err := Parse([]byte("analysis: false\nmax_labels: 10\n"), "test.yaml")
	if err != nil {
		t.Fatalf("Parse error = %v", err)
	}
	if cfg.RunAnalysis() {
		t.Fatalf("analysis: false should disable RunAnalysis")
	}
	if !cfg.RunCompile() {
		t.Fatalf("compile should default to true")
	}
	if cfg.MaxLabels != 10 {
		t.Fatalf("MaxLabels = %d, want 10", cfg.MaxLabels)
	}
}

func TestParse_RejectsBothBranchesDisabled(t *testing.T) {
	_, err := Parse([]byte("analysis: false\ncompile: false\n"), "test.yaml")
	if err == nil {
		t.Fatalf("expected an error when both branches are disabled")
	}
}

func TestParse_RejectsNegativeGuards(t *testing.T) {
	_, err := Parse([]byte("max_labels: -1\n"), "test.yaml")
	if err == nil {
		t.Fatalf("expected an error for a negative max_labels")
	}
}
