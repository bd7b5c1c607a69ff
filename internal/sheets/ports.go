// Package sheets defines the outbound port for mirroring the cashbook
// into a spreadsheet.
package sheets

import (
	"context"

	"legendarios/internal/core"
)

// CashbookWriter appends ledger entries to an external cashbook sheet.
type CashbookWriter interface {
	AppendEntry(ctx context.Context, e core.LedgerEntry) (rowRef string, err error)
}
