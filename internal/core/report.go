package core

// Report is a month's ledger slice plus its summary, ready for
// rendering or export. Entries keep the ledger's newest-first order.
type Report struct {
	Summary PeriodSummary `json:"summary"`
	Entries []LedgerEntry `json:"entries"`
}

// ReportForPeriod selects the month's entries and pairs them with the
// summary computed from the same ledger, so the report's totals and
// the dashboard's never disagree.
func ReportForPeriod(ledger []LedgerEntry, month, year int) Report {
	entries := make([]LedgerEntry, 0)
	for _, e := range ledger {
		if e.Date.SameMonth(month, year) {
			entries = append(entries, e)
		}
	}
	return Report{
		Summary: AggregateForPeriod(ledger, month, year),
		Entries: entries,
	}
}

// Totals sums a set of entries by type. Exporters use this instead of
// re-deriving figures so rendered documents match the source report.
func Totals(entries []LedgerEntry) (income, expense Money) {
	for _, e := range entries {
		if e.Type == Income {
			income = income.Add(e.Amount)
		} else {
			expense = expense.Add(e.Amount)
		}
	}
	return income, expense
}
