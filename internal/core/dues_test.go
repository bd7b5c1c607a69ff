package core

import "testing"

func gridPayments() []DuesPayment {
	return []DuesPayment{
		{ID: "p1", MemberID: "m1", Month: 1, Year: 2024, Amount: Money{Cents: 5000}},
		{ID: "p2", MemberID: "m1", Month: 2, Year: 2024, Amount: Money{Cents: 5000}},
		{ID: "p3", MemberID: "m2", Month: 1, Year: 2024, Amount: Money{Cents: 4000}},
		{ID: "p4", MemberID: "m1", Month: 1, Year: 2023, Amount: Money{Cents: 4500}},
	}
}

func TestPaymentFor(t *testing.T) {
	p, ok := PaymentFor(gridPayments(), "m1", 2, 2024)
	if !ok || p.ID != "p2" {
		t.Errorf("PaymentFor(m1, 2, 2024) = %v, %v", p, ok)
	}
	if _, ok := PaymentFor(gridPayments(), "m2", 2, 2024); ok {
		t.Error("PaymentFor(m2, 2, 2024) should be absent")
	}
}

func TestMonthTotal(t *testing.T) {
	if got := MonthTotal(gridPayments(), 1, 2024); got.Cents != 9000 {
		t.Errorf("MonthTotal(1, 2024) = %d, want 9000", got.Cents)
	}
	if got := MonthTotal(gridPayments(), 6, 2024); got.Cents != 0 {
		t.Errorf("MonthTotal(6, 2024) = %d, want 0", got.Cents)
	}
}

func TestMemberYearTotal(t *testing.T) {
	if got := MemberYearTotal(gridPayments(), "m1", 2024); got.Cents != 10000 {
		t.Errorf("MemberYearTotal(m1, 2024) = %d, want 10000", got.Cents)
	}
	if got := MemberYearTotal(gridPayments(), "m1", 2022); got.Cents != 0 {
		t.Errorf("MemberYearTotal(m1, 2022) = %d, want 0", got.Cents)
	}
}

func TestFilterDues(t *testing.T) {
	if got := FilterDues(gridPayments(), 1, 2024); len(got) != 2 {
		t.Errorf("FilterDues(1, 2024) = %d payments, want 2", len(got))
	}
	if got := FilterDues(gridPayments(), 0, 2024); len(got) != 3 {
		t.Errorf("FilterDues(0, 2024) = %d payments, want 3", len(got))
	}
	if got := FilterDues(gridPayments(), 1, 0); len(got) != 3 {
		t.Errorf("FilterDues(1, 0) = %d payments, want 3", len(got))
	}
}

func TestMemberValidate(t *testing.T) {
	tests := []struct {
		name    string
		member  Member
		wantErr bool
	}{
		{name: "valid", member: Member{FullName: "João", LegendaryNumber: "L-1", Status: StatusActivePaying}},
		{name: "missing name", member: Member{LegendaryNumber: "L-1", Status: StatusActivePaying}, wantErr: true},
		{name: "missing number", member: Member{FullName: "João", Status: StatusActivePaying}, wantErr: true},
		{name: "bad status", member: Member{FullName: "João", LegendaryNumber: "L-1", Status: "suspended"}, wantErr: true},
		{name: "inactive without reason", member: Member{FullName: "João", LegendaryNumber: "L-1", Status: StatusInactive}, wantErr: true},
		{name: "inactive with reason", member: Member{FullName: "João", LegendaryNumber: "L-1", Status: StatusInactive, InactiveReason: "Mudou"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.member.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDuesPaymentValidate(t *testing.T) {
	base := DuesPayment{MemberID: "m1", Month: 3, Year: 2024, Amount: Money{Cents: 5000}}
	if err := base.Validate(); err != nil {
		t.Fatalf("valid payment rejected: %v", err)
	}

	bad := base
	bad.Month = 13
	if err := bad.Validate(); err == nil {
		t.Error("month 13 accepted")
	}
	bad = base
	bad.Year = 1800
	if err := bad.Validate(); err == nil {
		t.Error("year 1800 accepted")
	}
	bad = base
	bad.Amount = Money{Cents: -1}
	if err := bad.Validate(); err == nil {
		t.Error("negative amount accepted")
	}
}

func TestTransactionValidate(t *testing.T) {
	base := Transaction{Description: "Doação", Amount: Money{Cents: 1000}, Type: Income}
	if err := base.Validate(); err != nil {
		t.Fatalf("valid transaction rejected: %v", err)
	}

	bad := base
	bad.Description = "  "
	if err := bad.Validate(); err == nil {
		t.Error("blank description accepted")
	}
	bad = base
	bad.Type = "transfer"
	if err := bad.Validate(); err == nil {
		t.Error("unknown type accepted")
	}
}
