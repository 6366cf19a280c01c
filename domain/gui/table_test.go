package gui

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestHandlerTable_FirstRegistrationWins(t *testing.T) {
	table := NewHandlerTable()

	var called string
	first := func(ctx context.Context, st *State, ev Event) error {
		called = "first"
		return nil
	}
	second := func(ctx context.Context, st *State, ev Event) error {
		called = "second"
		return nil
	}

	if !table.Put("on_click", first) {
		t.Fatal("first Put() = false, want true")
	}
	if table.Put("on_click", second) {
		t.Fatal("second Put() = true, want false")
	}

	fn, ok := table.Get("on_click")
	if !ok {
		t.Fatal("Get() = not found")
	}
	if err := fn(context.Background(), nil, Event{}); err != nil {
		t.Fatalf("handler error = %v", err)
	}
	if called != "first" {
		t.Errorf("stored handler = %q, want the first registration", called)
	}
}

func TestHandlerTable_Lookup(t *testing.T) {
	table := NewHandlerTable()
	noop := func(ctx context.Context, st *State, ev Event) error { return nil }
	table.Put("show", noop)
	table.Put("hide", noop)

	if !table.Has("show") {
		t.Error("Has(show) = false")
	}
	if table.Has("close") {
		t.Error("Has(close) = true, want false")
	}
	if _, ok := table.Get("missing"); ok {
		t.Error("Get(missing) = found")
	}
	if got := table.Len(); got != 2 {
		t.Errorf("Len() = %d, want 2", got)
	}
	if diff := cmp.Diff([]string{"hide", "show"}, table.Names()); diff != "" {
		t.Errorf("Names() mismatch (-want +got):\n%s", diff)
	}
}
