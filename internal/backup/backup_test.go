package backup

import (
	"errors"
	"strings"
	"testing"
	"time"

	"legendarios/internal/core"
	"legendarios/internal/store"
)

func TestExportParseRoundTrip(t *testing.T) {
	snap := store.Snapshot{
		Members: []core.Member{
			{ID: "m1", LegendaryNumber: "L-001", FullName: "João Silva",
				Status: core.StatusActivePaying, BirthDate: core.NewDate(1985, 3, 12)},
		},
		DuesPayments: []core.DuesPayment{
			{ID: "p1", MemberID: "m1", Month: 3, Year: 2024,
				Amount: core.Money{Cents: 5000}, PaidDate: core.NewDate(2024, 3, 10)},
		},
		Transactions: []core.Transaction{
			{ID: "t1", Description: "Doação", Amount: core.Money{Cents: 10000},
				Type: core.Income, Date: core.NewDate(2024, 3, 12)},
		},
	}

	data, err := Export(snap, time.Date(2024, 4, 1, 12, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"version": "1.1"`) {
		t.Error("export missing version stamp")
	}

	back, err := Parse(data)
	if err != nil {
		t.Fatal(err)
	}
	if len(back.Members) != 1 || back.Members[0].FullName != "João Silva" {
		t.Errorf("members = %v", back.Members)
	}
	if len(back.DuesPayments) != 1 || back.DuesPayments[0].Amount.Cents != 5000 {
		t.Errorf("dues = %v", back.DuesPayments)
	}
	if len(back.Transactions) != 1 || back.Transactions[0].Amount.Cents != 10000 {
		t.Errorf("transactions = %v", back.Transactions)
	}
}

func TestParseRejectsMalformed(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		wantErr error
	}{
		{name: "missing members", in: `{"duesPayments": []}`, wantErr: ErrMissingMembers},
		{name: "null members", in: `{"members": null, "duesPayments": []}`, wantErr: ErrMissingMembers},
		{name: "missing dues", in: `{"members": []}`, wantErr: ErrMissingDues},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.in)); !errors.Is(err, tt.wantErr) {
				t.Errorf("Parse = %v, want %v", err, tt.wantErr)
			}
		})
	}

	if _, err := Parse([]byte(`not json`)); err == nil {
		t.Error("invalid JSON accepted")
	}
}

func TestParseDefaultsTransactions(t *testing.T) {
	// Snapshots from before transactions existed carry only the two
	// original collections.
	snap, err := Parse([]byte(`{"members": [], "duesPayments": [], "exportedAt": "2023-01-01T00:00:00Z", "version": "1.0"}`))
	if err != nil {
		t.Fatal(err)
	}
	if snap.Transactions == nil || len(snap.Transactions) != 0 {
		t.Errorf("transactions = %v, want empty slice", snap.Transactions)
	}
}

func TestParseEmptyCollectionsAreValid(t *testing.T) {
	snap, err := Parse([]byte(`{"members": [], "duesPayments": [], "transactions": []}`))
	if err != nil {
		t.Fatal(err)
	}
	if len(snap.Members) != 0 || len(snap.DuesPayments) != 0 {
		t.Errorf("snapshot = %+v", snap)
	}
}
