package pagination

import "testing"

func TestNormalizeLimit(t *testing.T) {
	if got := NormalizeLimit(0); got != DefaultLimit {
		t.Fatalf("expected default limit, got %d", got)
	}
	if got := NormalizeLimit(-3); got != DefaultLimit {
		t.Fatalf("expected default limit for negative input, got %d", got)
	}
	if got := NormalizeLimit(500); got != MaxLimit {
		t.Fatalf("expected max limit, got %d", got)
	}
	if got := NormalizeLimit(15); got != 15 {
		t.Fatalf("expected passthrough, got %d", got)
	}
}

func TestOffset(t *testing.T) {
	if got := (Params{Page: 1, Limit: 10}).Offset(); got != 0 {
		t.Fatalf("expected offset 0, got %d", got)
	}
	if got := (Params{Page: 3, Limit: 10}).Offset(); got != 20 {
		t.Fatalf("expected offset 20, got %d", got)
	}
	if got := (Params{Page: 0, Limit: 0}).Offset(); got != 0 {
		t.Fatalf("expected clamped offset 0, got %d", got)
	}
}

func TestPageFor(t *testing.T) {
	page := PageFor(Params{Page: 2, Limit: 10}, 25)
	if page.Current != 2 || page.Pages != 3 || page.Total != 25 {
		t.Fatalf("unexpected page summary %+v", page)
	}

	empty := PageFor(Params{Page: 1, Limit: 10}, 0)
	if empty.Pages != 0 || empty.Total != 0 {
		t.Fatalf("unexpected empty summary %+v", empty)
	}
}
