package memory

import (
	"context"
	"errors"
	"testing"
)

func TestSheetReplaceAndRead(t *testing.T) {
	s := New("Transactions")
	rows := [][]string{{"Date", "Amount"}, {"2026-01-01", "1.00"}}

	ref, err := s.ReplaceRows(context.Background(), rows)
	if err != nil {
		t.Fatalf("ReplaceRows error: %v", err)
	}
	if ref != "mem:Transactions!2" {
		t.Fatalf("unexpected ref: %s", ref)
	}

	rows[1][1] = "mutated"
	got, err := s.ReadRows(context.Background())
	if err != nil {
		t.Fatalf("ReadRows error: %v", err)
	}
	if got[1][1] != "1.00" {
		t.Fatalf("stored rows must be a copy, got %v", got)
	}

	if _, err := s.ReplaceRows(context.Background(), nil); err != nil {
		t.Fatal(err)
	}
	got, _ = s.ReadRows(context.Background())
	if len(got) != 0 || s.Writes() != 2 {
		t.Fatalf("expected empty sheet after 2 writes, got %v (%d)", got, s.Writes())
	}
}

func TestSheetFailWith(t *testing.T) {
	s := New("x")
	boom := errors.New("boom")
	s.FailWith(boom)
	if _, err := s.ReplaceRows(context.Background(), nil); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	s.FailWith(nil)
	if _, err := s.ReplaceRows(context.Background(), nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
