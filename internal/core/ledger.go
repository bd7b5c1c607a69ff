package core

import (
	"sort"
	"strconv"
)

const (
	SourceDues        SourceKind = "dues"
	SourceTransaction SourceKind = "transaction"
)

// FallbackMemberLabel replaces the member name on dues entries whose
// member has been deleted since the payment was recorded.
const FallbackMemberLabel = "Membro Excluído"

// DuesCategory is the fixed category of every dues-derived ledger entry.
const DuesCategory = "Mensalidade"

// Months are the Portuguese month names used in entry descriptions,
// period labels and exported reports. Index 0 is January.
var Months = [12]string{
	"Janeiro", "Fevereiro", "Março", "Abril", "Maio", "Junho",
	"Julho", "Agosto", "Setembro", "Outubro", "Novembro", "Dezembro",
}

// MonthName returns the Portuguese name for month 1-12, or "" outside
// that range.
func MonthName(month int) string {
	if month < 1 || month > 12 {
		return ""
	}
	return Months[month-1]
}

type (
	SourceKind string

	// LedgerEntry is the normalized projection of either a DuesPayment
	// or a Transaction into the unified cashbook. It is derived and
	// never persisted: editing an entry means editing its source record,
	// located through SourceKind and SourceID.
	LedgerEntry struct {
		ID          string          `json:"id"`
		Date        Date            `json:"date"`
		Description string          `json:"description"`
		Category    string          `json:"category"`
		Type        TransactionType `json:"type"`
		Amount      Money           `json:"amount"`
		SourceKind  SourceKind      `json:"sourceKind"`
		SourceID    string          `json:"sourceId"`
	}
)

// BuildLedger merges dues payments and transactions into one cashbook,
// newest first. Dues entries are always income with a generated
// description; a payment whose member no longer exists gets the fallback
// label instead of failing. The function is pure: inputs are not
// mutated and no combination of inputs makes it error.
func BuildLedger(payments []DuesPayment, transactions []Transaction, members []Member) []LedgerEntry {
	byID := make(map[string]Member, len(members))
	for _, m := range members {
		byID[m.ID] = m
	}

	entries := make([]LedgerEntry, 0, len(payments)+len(transactions))
	for _, p := range payments {
		name := FallbackMemberLabel
		if m, ok := byID[p.MemberID]; ok {
			name = m.FullName
		}
		entries = append(entries, LedgerEntry{
			ID:          string(SourceDues) + "_" + p.ID,
			Date:        p.PaidDate,
			Description: DuesCategory + " - " + name + " (" + MonthName(p.Month) + "/" + strconv.Itoa(p.Year) + ")",
			Category:    DuesCategory,
			Type:        Income,
			Amount:      p.Amount,
			SourceKind:  SourceDues,
			SourceID:    p.ID,
		})
	}
	for _, t := range transactions {
		entries = append(entries, LedgerEntry{
			ID:          string(SourceTransaction) + "_" + t.ID,
			Date:        t.Date,
			Description: t.Description,
			Category:    t.Category,
			Type:        t.Type,
			Amount:      t.Amount,
			SourceKind:  SourceTransaction,
			SourceID:    t.ID,
		})
	}

	// Descending by calendar day; same-day entries keep insertion order.
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[j].Date.Before(entries[i].Date)
	})
	return entries
}
