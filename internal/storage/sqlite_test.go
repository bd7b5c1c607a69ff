package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"legendarios/internal/core"
	"legendarios/internal/store"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteMemberRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	m := core.Member{
		ID: "m1", LegendaryNumber: "L-001", FullName: "João Silva",
		BirthDate: core.NewDate(1985, 3, 12), Profession: "Engenheiro",
		City: "Campinas", Status: core.StatusActivePaying,
		Children: []core.Child{{Name: "Ana", Age: "7"}},
		AssistanceHistory: []core.AssistanceRecord{
			{ID: "a1", Description: "Cesta básica", StartDate: core.NewDate(2024, 1, 5)},
		},
		JoinedDate: core.NewDate(2020, 6, 1),
	}
	if err := s.CreateMember(ctx, m); err != nil {
		t.Fatal(err)
	}

	got, err := s.GetMember(ctx, "m1")
	if err != nil {
		t.Fatal(err)
	}
	if got.FullName != m.FullName || got.Profession != m.Profession {
		t.Errorf("got %+v", got)
	}
	if got.BirthDate.String() != "1985-03-12" {
		t.Errorf("birth date = %s", got.BirthDate)
	}
	if len(got.Children) != 1 || got.Children[0].Name != "Ana" {
		t.Errorf("children = %v", got.Children)
	}
	if len(got.AssistanceHistory) != 1 || !got.AssistanceHistory[0].IsOngoing() {
		t.Errorf("assistance = %v", got.AssistanceHistory)
	}

	if _, err := s.GetMember(ctx, "missing"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("missing member err = %v", err)
	}
}

func TestSQLiteDuplicateDues(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	p := core.DuesPayment{ID: "p1", MemberID: "m1", Month: 3, Year: 2024,
		Amount: core.Money{Cents: 5000}, PaidDate: core.NewDate(2024, 3, 10)}
	if err := s.CreateDuesPayment(ctx, p); err != nil {
		t.Fatal(err)
	}
	p.ID = "p2"
	if err := s.CreateDuesPayment(ctx, p); !errors.Is(err, store.ErrDuplicateDues) {
		t.Errorf("duplicate err = %v, want ErrDuplicateDues", err)
	}

	p.Month = 4
	if err := s.CreateDuesPayment(ctx, p); err != nil {
		t.Fatal(err)
	}

	// Moving p2 onto p1's period trips the unique index.
	p.Month = 3
	if err := s.UpdateDuesPayment(ctx, p); !errors.Is(err, store.ErrDuplicateDues) {
		t.Errorf("update clash err = %v, want ErrDuplicateDues", err)
	}

	p.Month = 5
	p.Amount = core.Money{Cents: 5500}
	if err := s.UpdateDuesPayment(ctx, p); err != nil {
		t.Fatal(err)
	}
	payments, err := s.ListDuesPayments(ctx)
	if err != nil {
		t.Fatal(err)
	}
	var found bool
	for _, got := range payments {
		if got.ID == "p2" {
			found = true
			if got.Month != 5 || got.Amount.Cents != 5500 {
				t.Errorf("updated payment = %+v", got)
			}
		}
	}
	if !found {
		t.Fatal("updated payment not listed")
	}
}

func TestSQLiteSnapshotAndReplace(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	s.CreateMember(ctx, core.Member{ID: "m1", LegendaryNumber: "L-1", FullName: "João", Status: core.StatusActivePaying})
	s.CreateDuesPayment(ctx, core.DuesPayment{ID: "p1", MemberID: "m1", Month: 1, Year: 2024, Amount: core.Money{Cents: 5000}})
	s.CreateTransaction(ctx, core.Transaction{ID: "t1", Description: "Doação", Amount: core.Money{Cents: 1000},
		Type: core.Income, Date: core.NewDate(2024, 1, 15)})

	snap, err := s.Snapshot(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(snap.Members) != 1 || len(snap.DuesPayments) != 1 || len(snap.Transactions) != 1 {
		t.Fatalf("snapshot sizes = %d/%d/%d", len(snap.Members), len(snap.DuesPayments), len(snap.Transactions))
	}

	replacement := store.Snapshot{
		Members: []core.Member{{ID: "m9", LegendaryNumber: "L-9", FullName: "Pedro", Status: core.StatusActiveExempt}},
	}
	if err := s.Replace(ctx, replacement); err != nil {
		t.Fatal(err)
	}
	after, err := s.Snapshot(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(after.Members) != 1 || after.Members[0].ID != "m9" {
		t.Errorf("members after replace = %v", after.Members)
	}
	if len(after.DuesPayments) != 0 || len(after.Transactions) != 0 {
		t.Errorf("replace kept old records: %d dues, %d transactions",
			len(after.DuesPayments), len(after.Transactions))
	}
}

func TestSQLiteUpdateDelete(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	tx := core.Transaction{ID: "t1", Description: "Compra", Amount: core.Money{Cents: 2000},
		Type: core.Expense, Category: "Materiais", Date: core.NewDate(2024, 2, 1)}
	if err := s.CreateTransaction(ctx, tx); err != nil {
		t.Fatal(err)
	}

	tx.Amount = core.Money{Cents: 2500}
	if err := s.UpdateTransaction(ctx, tx); err != nil {
		t.Fatal(err)
	}
	got, err := s.GetTransaction(ctx, "t1")
	if err != nil {
		t.Fatal(err)
	}
	if got.Amount.Cents != 2500 {
		t.Errorf("amount = %d", got.Amount.Cents)
	}

	if err := s.DeleteTransaction(ctx, "t1"); err != nil {
		t.Fatal(err)
	}
	if err := s.DeleteTransaction(ctx, "t1"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("double delete err = %v", err)
	}
}
