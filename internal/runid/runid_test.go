package runid

import "testing"

func TestNew_ReturnsDistinctNonEmptyIDs(t *testing.T) {
	a := New()
	b := New()
	if a == "" || b == "" {
		t.Fatalf("New() returned an empty id")
	}
	if a == b {
		t.Fatalf("two calls to New() returned the same id: %q", a)
	}
}
