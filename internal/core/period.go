package core

import "fmt"

// PeriodSummary aggregates the ledger around one calendar month.
// PriorBalance is the net of everything strictly before the period;
// Balance carries that forward through the period's own flows.
type PeriodSummary struct {
	Month        int   `json:"month"`
	Year         int   `json:"year"`
	PriorBalance Money `json:"priorBalance"`
	Income       Money `json:"income"`
	Expense      Money `json:"expense"`
	Balance      Money `json:"balance"`
}

// Label returns the summary's period as "Março/2024".
func (s PeriodSummary) Label() string {
	return fmt.Sprintf("%s/%d", MonthName(s.Month), s.Year)
}

// Aggregate summarizes the ledger for the month containing ref.
func Aggregate(ledger []LedgerEntry, ref Date) PeriodSummary {
	return AggregateForPeriod(ledger, ref.Month(), ref.Year())
}

// AggregateForPeriod partitions the ledger against the given month.
// Entries before the first day of the month feed the prior balance;
// entries inside the month feed income or expense; later entries are
// ignored. month and year are assumed already validated at the boundary
// that received them.
func AggregateForPeriod(ledger []LedgerEntry, month, year int) PeriodSummary {
	s := PeriodSummary{Month: month, Year: year}
	start := NewDate(year, month, 1)
	for _, e := range ledger {
		switch {
		case e.Date.Before(start):
			if e.Type == Income {
				s.PriorBalance = s.PriorBalance.Add(e.Amount)
			} else {
				s.PriorBalance = s.PriorBalance.Sub(e.Amount)
			}
		case e.Date.SameMonth(month, year):
			if e.Type == Income {
				s.Income = s.Income.Add(e.Amount)
			} else {
				s.Expense = s.Expense.Add(e.Amount)
			}
		}
	}
	s.Balance = s.PriorBalance.Add(s.Income).Sub(s.Expense)
	return s
}

// ValidatePeriod checks a month/year pair coming from an external
// boundary. Aggregation itself does not re-check.
func ValidatePeriod(month, year int) error {
	if month < 1 || month > 12 {
		return fmt.Errorf("month %d: %w", month, ErrInvalidMonth)
	}
	if year < 1900 || year > 9999 {
		return fmt.Errorf("year %d: %w", year, ErrInvalidYear)
	}
	return nil
}
