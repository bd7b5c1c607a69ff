package core

import (
	"strings"
	"testing"
)

func testMembers() []Member {
	return []Member{
		{ID: "m1", FullName: "João Silva", LegendaryNumber: "L-001", Status: StatusActivePaying},
		{ID: "m2", FullName: "Pedro Santos", LegendaryNumber: "L-002", Status: StatusActiveExempt},
	}
}

func TestBuildLedgerMerges(t *testing.T) {
	payments := []DuesPayment{
		{ID: "p1", MemberID: "m1", Month: 3, Year: 2024, Amount: Money{Cents: 5000}, PaidDate: NewDate(2024, 3, 10)},
	}
	transactions := []Transaction{
		{ID: "t1", Description: "Compra de materiais", Amount: Money{Cents: 2000}, Type: Expense, Category: "Materiais", Date: NewDate(2024, 3, 12)},
	}

	ledger := BuildLedger(payments, transactions, testMembers())
	if len(ledger) != 2 {
		t.Fatalf("len(ledger) = %d, want 2", len(ledger))
	}

	// Newest first
	if ledger[0].SourceID != "t1" || ledger[1].SourceID != "p1" {
		t.Fatalf("unexpected order: %s, %s", ledger[0].SourceID, ledger[1].SourceID)
	}

	dues := ledger[1]
	if dues.Description != "Mensalidade - João Silva (Março/2024)" {
		t.Errorf("dues description = %q", dues.Description)
	}
	if dues.Category != "Mensalidade" || dues.Type != Income {
		t.Errorf("dues entry = category %q type %q", dues.Category, dues.Type)
	}
	if dues.SourceKind != SourceDues || dues.ID != "dues_p1" {
		t.Errorf("dues source = %q id %q", dues.SourceKind, dues.ID)
	}
}

func TestBuildLedgerDeletedMember(t *testing.T) {
	payments := []DuesPayment{
		{ID: "p1", MemberID: "gone", Month: 1, Year: 2024, Amount: Money{Cents: 5000}, PaidDate: NewDate(2024, 1, 5)},
	}
	ledger := BuildLedger(payments, nil, testMembers())
	if len(ledger) != 1 {
		t.Fatalf("len(ledger) = %d, want 1", len(ledger))
	}
	if !strings.Contains(ledger[0].Description, "Membro Excluído") {
		t.Errorf("description = %q, want fallback label", ledger[0].Description)
	}
}

func TestBuildLedgerLengthAndOrder(t *testing.T) {
	payments := []DuesPayment{
		{ID: "p1", MemberID: "m1", Month: 1, Year: 2024, Amount: Money{Cents: 5000}, PaidDate: NewDate(2024, 1, 10)},
		{ID: "p2", MemberID: "m2", Month: 2, Year: 2024, Amount: Money{Cents: 5000}, PaidDate: NewDate(2024, 2, 10)},
	}
	transactions := []Transaction{
		{ID: "t1", Description: "Doação", Amount: Money{Cents: 10000}, Type: Income, Date: NewDate(2024, 1, 20)},
		{ID: "t2", Description: "Aluguel", Amount: Money{Cents: 30000}, Type: Expense, Date: NewDate(2024, 2, 1)},
		{ID: "t3", Description: "Doação", Amount: Money{Cents: 500}, Type: Income, Date: NewDate(2024, 2, 10)},
	}

	ledger := BuildLedger(payments, transactions, testMembers())
	if got, want := len(ledger), len(payments)+len(transactions); got != want {
		t.Fatalf("len(ledger) = %d, want %d", got, want)
	}
	for i := 1; i < len(ledger); i++ {
		if ledger[i-1].Date.Before(ledger[i].Date) {
			t.Fatalf("ledger not sorted descending at %d: %v before %v",
				i, ledger[i-1].Date, ledger[i].Date)
		}
	}
	// Same-day: dues p2 was appended before t3, so it stays first.
	if ledger[0].SourceID != "p2" || ledger[1].SourceID != "t3" {
		t.Errorf("same-day order: got %s then %s, want p2 then t3",
			ledger[0].SourceID, ledger[1].SourceID)
	}
}

func TestBuildLedgerEmpty(t *testing.T) {
	ledger := BuildLedger(nil, nil, nil)
	if len(ledger) != 0 {
		t.Fatalf("len(ledger) = %d, want 0", len(ledger))
	}
}

func TestMonthName(t *testing.T) {
	if MonthName(1) != "Janeiro" || MonthName(12) != "Dezembro" {
		t.Errorf("MonthName bounds wrong: %q, %q", MonthName(1), MonthName(12))
	}
	if MonthName(0) != "" || MonthName(13) != "" {
		t.Error("out-of-range months should map to empty string")
	}
}
