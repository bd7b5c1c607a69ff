package memory

import (
	"context"
	"testing"

	"legendarios/internal/core"
)

func TestAppendEntry(t *testing.T) {
	s := New()
	ctx := context.Background()

	ref, err := s.AppendEntry(ctx, core.LedgerEntry{
		ID: "dues_p1", Description: "Mensalidade - João Silva (Março/2024)",
		Category: "Mensalidade", Type: core.Income,
		Amount: core.Money{Cents: 5000}, Date: core.NewDate(2024, 3, 10),
	})
	if err != nil {
		t.Fatal(err)
	}
	if ref != "mem:1" {
		t.Errorf("ref = %q", ref)
	}

	rows := s.Rows()
	if len(rows) != 1 || rows[0].ID != "dues_p1" {
		t.Errorf("rows = %v", rows)
	}

	// The returned slice must not alias internal state.
	rows[0].Description = "changed"
	if s.Rows()[0].Description != "Mensalidade - João Silva (Março/2024)" {
		t.Error("Rows aliases internal slice")
	}
}
