package worker

import (
	"context"
	"strings"
	"testing"

	"legendarios/internal/amqp"
	"legendarios/internal/core"
	"legendarios/internal/log"
	"legendarios/internal/sheets/memory"
	"legendarios/internal/store"
)

func newWorker(t *testing.T) (*SyncWorker, *store.MemoryStore, *memory.Store) {
	t.Helper()
	st := store.NewMemoryStore()
	cashbook := memory.New()
	return New(st, cashbook, log.New(log.DefaultConfig())), st, cashbook
}

func TestHandleDuesMessage(t *testing.T) {
	ctx := context.Background()
	w, st, cashbook := newWorker(t)

	st.CreateMember(ctx, core.Member{ID: "m1", FullName: "João Silva", LegendaryNumber: "L-001", Status: core.StatusActivePaying})
	st.CreateDuesPayment(ctx, core.DuesPayment{ID: "p1", MemberID: "m1", Month: 3, Year: 2024,
		Amount: core.Money{Cents: 5000}, PaidDate: core.NewDate(2024, 3, 10)})

	if err := w.HandleMessage(ctx, amqp.NewEntrySyncMessage("dues", "p1")); err != nil {
		t.Fatal(err)
	}

	rows := cashbook.Rows()
	if len(rows) != 1 {
		t.Fatalf("cashbook rows = %d, want 1", len(rows))
	}
	if !strings.Contains(rows[0].Description, "João Silva") {
		t.Errorf("description = %q", rows[0].Description)
	}
	if rows[0].Type != core.Income || rows[0].Amount.Cents != 5000 {
		t.Errorf("row = %+v", rows[0])
	}
}

func TestHandleTransactionMessage(t *testing.T) {
	ctx := context.Background()
	w, st, cashbook := newWorker(t)

	st.CreateTransaction(ctx, core.Transaction{ID: "t1", Description: "Compra de materiais",
		Amount: core.Money{Cents: 2000}, Type: core.Expense, Category: "Materiais",
		Date: core.NewDate(2024, 3, 12)})

	if err := w.HandleMessage(ctx, amqp.NewEntrySyncMessage("transaction", "t1")); err != nil {
		t.Fatal(err)
	}

	rows := cashbook.Rows()
	if len(rows) != 1 || rows[0].Type != core.Expense {
		t.Fatalf("rows = %v", rows)
	}
}

func TestHandleMissingSourceIsAcked(t *testing.T) {
	ctx := context.Background()
	w, _, cashbook := newWorker(t)

	// Deleted between publish and consume: not an error, nothing mirrored.
	if err := w.HandleMessage(ctx, amqp.NewEntrySyncMessage("transaction", "gone")); err != nil {
		t.Fatalf("missing source should not fail: %v", err)
	}
	if err := w.HandleMessage(ctx, amqp.NewEntrySyncMessage("dues", "gone")); err != nil {
		t.Fatalf("missing dues should not fail: %v", err)
	}
	if len(cashbook.Rows()) != 0 {
		t.Errorf("cashbook rows = %d, want 0", len(cashbook.Rows()))
	}
}

func TestDuplicateMessageMirroredOnce(t *testing.T) {
	ctx := context.Background()
	w, st, cashbook := newWorker(t)

	st.CreateTransaction(ctx, core.Transaction{ID: "t1", Description: "Doação",
		Amount: core.Money{Cents: 1000}, Type: core.Income, Category: "Doações",
		Date: core.NewDate(2024, 4, 1)})

	for i := 0; i < 3; i++ {
		if err := w.HandleMessage(ctx, amqp.NewEntrySyncMessage("transaction", "t1")); err != nil {
			t.Fatal(err)
		}
	}
	if got := len(cashbook.Rows()); got != 1 {
		t.Fatalf("cashbook rows = %d, want 1", got)
	}
}

func TestCatchUpSweepsOnlyNewEntries(t *testing.T) {
	ctx := context.Background()
	w, st, cashbook := newWorker(t)

	// Present before the baseline: never mirrored by the sweep.
	st.CreateTransaction(ctx, core.Transaction{ID: "old", Description: "Saldo antigo",
		Amount: core.Money{Cents: 500}, Type: core.Income, Category: "Outros",
		Date: core.NewDate(2024, 1, 1)})
	if err := w.baseline(ctx); err != nil {
		t.Fatal(err)
	}

	// Appears after the baseline, as if its publish had been lost.
	st.CreateTransaction(ctx, core.Transaction{ID: "missed", Description: "Publicação perdida",
		Amount: core.Money{Cents: 700}, Type: core.Expense, Category: "Outros",
		Date: core.NewDate(2024, 2, 1)})

	if err := w.sweep(ctx, 10); err != nil {
		t.Fatal(err)
	}
	rows := cashbook.Rows()
	if len(rows) != 1 || rows[0].SourceID != "missed" {
		t.Fatalf("rows = %+v", rows)
	}

	// A second sweep finds nothing new.
	if err := w.sweep(ctx, 10); err != nil {
		t.Fatal(err)
	}
	if got := len(cashbook.Rows()); got != 1 {
		t.Fatalf("rows after second sweep = %d, want 1", got)
	}
}

func TestCatchUpRespectsBatchSize(t *testing.T) {
	ctx := context.Background()
	w, st, cashbook := newWorker(t)

	if err := w.baseline(ctx); err != nil {
		t.Fatal(err)
	}
	for _, id := range []string{"a", "b", "c"} {
		st.CreateTransaction(ctx, core.Transaction{ID: id, Description: "Lançamento " + id,
			Amount: core.Money{Cents: 100}, Type: core.Income, Category: "Outros",
			Date: core.NewDate(2024, 5, 1)})
	}

	if err := w.sweep(ctx, 2); err != nil {
		t.Fatal(err)
	}
	if got := len(cashbook.Rows()); got != 2 {
		t.Fatalf("rows = %d, want batch of 2", got)
	}
	if err := w.sweep(ctx, 2); err != nil {
		t.Fatal(err)
	}
	if got := len(cashbook.Rows()); got != 3 {
		t.Fatalf("rows = %d, want 3 after second batch", got)
	}
}

func TestHandleUnknownKind(t *testing.T) {
	ctx := context.Background()
	w, _, _ := newWorker(t)

	if err := w.HandleMessage(ctx, amqp.NewEntrySyncMessage("mystery", "x")); err == nil {
		t.Error("unknown source kind should fail")
	}
}
