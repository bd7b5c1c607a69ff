// Package export renders the member roster and the monthly financial
// report as CSV and Word-compatible HTML documents. Figures come from
// the shared aggregation routine; nothing here recomputes totals on its
// own.
package export

import (
	"fmt"

	"legendarios/internal/core"
)

// StatusLabel renders a member status in Portuguese for documents.
func StatusLabel(s core.MemberStatus) string {
	switch s {
	case core.StatusActivePaying:
		return "Ativo (Pagante)"
	case core.StatusActiveExempt:
		return "Ativo (Dispensado)"
	case core.StatusInactive:
		return "Inativo"
	}
	return string(s)
}

func typeLabel(t core.TransactionType) string {
	if t == core.Income {
		return "Entrada"
	}
	return "Saída"
}

func formatDateBR(d core.Date) string {
	if d.IsZero() {
		return ""
	}
	return fmt.Sprintf("%02d/%02d/%04d", d.Day(), d.Month(), d.Year())
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
