package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"legendarios/internal/core"
	"legendarios/internal/export"
	"legendarios/internal/log"
	"legendarios/internal/store"
)

// dashboardResponse bundles the landing-page projections in one call.
type dashboardResponse struct {
	Summary    core.PeriodSummary   `json:"summary"`
	Census     core.Census          `json:"census"`
	Birthdays  []core.Member        `json:"birthdays"`
	Assistance core.AssistanceStats `json:"assistance"`
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	now := time.Now().UTC()
	key := fmt.Sprintf("dashboard:%04d-%02d", now.Year(), int(now.Month()))
	if cached, ok := s.dashboardCache.Get(key); ok {
		respondJSON(w, http.StatusOK, cached)
		return
	}

	snap, err := s.store.Snapshot(r.Context())
	if err != nil {
		respondStoreError(w, err)
		return
	}
	ledger := core.BuildLedger(snap.DuesPayments, snap.Transactions, snap.Members)

	resp := dashboardResponse{
		Summary:    core.AggregateForPeriod(ledger, int(now.Month()), now.Year()),
		Census:     core.TakeCensus(snap.Members),
		Birthdays:  core.BirthdaysInMonth(snap.Members, int(now.Month())),
		Assistance: core.TakeAssistanceStats(snap.Members),
	}
	s.dashboardCache.Set(key, resp)
	respondJSON(w, http.StatusOK, resp)
}

// ledgerResponse pairs the cashbook with its totals, computed from the
// same entry set so the figures never drift from the rows shown.
type ledgerResponse struct {
	Entries []core.LedgerEntry `json:"entries"`
	Income  core.Money         `json:"income"`
	Expense core.Money         `json:"expense"`
	Balance core.Money         `json:"balance"`
}

func (s *Server) handleLedger(w http.ResponseWriter, r *http.Request) {
	month, year, err := parsePeriodQuery(r)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	// The ledger filter is a full period; half of one would silently
	// return the unfiltered cashbook.
	if (month == 0) != (year == 0) {
		respondError(w, http.StatusUnprocessableEntity, "month and year must be given together")
		return
	}

	ledger, err := s.loadLedger(r.Context())
	if err != nil {
		respondStoreError(w, err)
		return
	}
	if month != 0 && year != 0 {
		filtered := make([]core.LedgerEntry, 0, len(ledger))
		for _, e := range ledger {
			if e.Date.SameMonth(month, year) {
				filtered = append(filtered, e)
			}
		}
		ledger = filtered
	}

	income, expense := core.Totals(ledger)
	respondJSON(w, http.StatusOK, ledgerResponse{
		Entries: ledger,
		Income:  income,
		Expense: expense,
		Balance: income.Sub(expense),
	})
}

// duesListResponse carries the filtered payments plus the totals the
// payment grid shows next to them. MonthTotal is filled when a full
// period is given, MemberYearTotal when a member and a year are.
type duesListResponse struct {
	Payments        []core.DuesPayment `json:"payments"`
	MonthTotal      core.Money         `json:"monthTotal"`
	MemberYearTotal core.Money         `json:"memberYearTotal"`
}

func (s *Server) handleListDues(w http.ResponseWriter, r *http.Request) {
	month, year, err := parsePeriodQuery(r)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	all, err := s.store.ListDuesPayments(r.Context())
	if err != nil {
		respondStoreError(w, err)
		return
	}
	payments := core.FilterDues(all, month, year)
	memberID := r.URL.Query().Get("memberId")
	if memberID != "" {
		filtered := payments[:0]
		for _, p := range payments {
			if p.MemberID == memberID {
				filtered = append(filtered, p)
			}
		}
		payments = filtered
	}

	resp := duesListResponse{Payments: payments}
	if month != 0 && year != 0 {
		resp.MonthTotal = core.MonthTotal(all, month, year)
	}
	if memberID != "" && year != 0 {
		resp.MemberYearTotal = core.MemberYearTotal(all, memberID, year)
	}
	respondJSON(w, http.StatusOK, resp)
}

// createDuesRequest leaves Amount optional: absent means the configured
// default dues value.
type createDuesRequest struct {
	MemberID string      `json:"memberId"`
	Month    int         `json:"month"`
	Year     int         `json:"year"`
	Amount   *core.Money `json:"amount"`
	PaidDate core.Date   `json:"paidDate"`
}

func (s *Server) handleCreateDues(w http.ResponseWriter, r *http.Request) {
	var req createDuesRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	p := core.DuesPayment{
		ID:       uuid.NewString(),
		MemberID: req.MemberID,
		Month:    req.Month,
		Year:     req.Year,
		PaidDate: req.PaidDate,
	}
	if req.Amount != nil {
		p.Amount = *req.Amount
	} else {
		p.Amount = core.Money{Cents: s.defaultDuesCents}
	}
	if p.PaidDate.IsZero() {
		now := time.Now().UTC()
		p.PaidDate = core.NewDate(now.Year(), int(now.Month()), now.Day())
	}
	if err := p.Validate(); err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	// The member must exist when the payment is recorded; the reference
	// only becomes weak after a later deletion.
	if _, err := s.store.GetMember(r.Context(), p.MemberID); err != nil {
		respondStoreError(w, err)
		return
	}

	// Reject a second payment for the same period up front; the store
	// still enforces uniqueness for concurrent writers.
	existing, err := s.store.ListDuesPayments(r.Context())
	if err != nil {
		respondStoreError(w, err)
		return
	}
	if _, found := core.PaymentFor(existing, p.MemberID, p.Month, p.Year); found {
		respondStoreError(w, store.ErrDuplicateDues)
		return
	}

	if err := s.store.CreateDuesPayment(r.Context(), p); err != nil {
		respondStoreError(w, err)
		return
	}
	s.invalidateCaches()
	s.publishSync(r.Context(), core.SourceDues, p.ID)

	fields := log.NewFields().WithOperation(log.OpCreate).WithPeriod(p.Month, p.Year)
	fields[log.FieldMemberID] = p.MemberID
	fields[log.FieldAmountCents] = p.Amount.Cents
	log.FromContext(r.Context()).InfoContext(r.Context(), "Dues payment recorded", fields.ToSlice()...)
	respondJSON(w, http.StatusCreated, p)
}

func (s *Server) handleUpdateDues(w http.ResponseWriter, r *http.Request) {
	var p core.DuesPayment
	if err := decodeJSON(w, r, &p); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	p.ID = chi.URLParam(r, "id")
	if err := p.Validate(); err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	if err := s.store.UpdateDuesPayment(r.Context(), p); err != nil {
		respondStoreError(w, err)
		return
	}
	s.invalidateCaches()
	s.publishSync(r.Context(), core.SourceDues, p.ID)
	respondJSON(w, http.StatusOK, p)
}

func (s *Server) handleDeleteDues(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.store.DeleteDuesPayment(r.Context(), id); err != nil {
		respondStoreError(w, err)
		return
	}
	s.invalidateCaches()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	transactions, err := s.store.ListTransactions(r.Context())
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, transactions)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var t core.Transaction
	if err := decodeJSON(w, r, &t); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	t.Description = sanitizeInput(t.Description)
	if t.Date.IsZero() {
		now := time.Now().UTC()
		t.Date = core.NewDate(now.Year(), int(now.Month()), now.Day())
	}
	if err := t.Validate(); err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	if err := s.store.CreateTransaction(r.Context(), t); err != nil {
		respondStoreError(w, err)
		return
	}
	s.invalidateCaches()
	s.publishSync(r.Context(), core.SourceTransaction, t.ID)

	log.FromContext(r.Context()).InfoContext(r.Context(), "Transaction recorded",
		log.FieldOperation, log.OpCreate,
		"transaction_id", t.ID,
		log.FieldCategory, t.Category,
		log.FieldAmountCents, t.Amount.Cents)
	respondJSON(w, http.StatusCreated, t)
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	var t core.Transaction
	if err := decodeJSON(w, r, &t); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	t.ID = chi.URLParam(r, "id")
	t.Description = sanitizeInput(t.Description)
	if err := t.Validate(); err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	if err := s.store.UpdateTransaction(r.Context(), t); err != nil {
		respondStoreError(w, err)
		return
	}
	s.invalidateCaches()
	s.publishSync(r.Context(), core.SourceTransaction, t.ID)
	respondJSON(w, http.StatusOK, t)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.store.DeleteTransaction(r.Context(), id); err != nil {
		respondStoreError(w, err)
		return
	}
	s.invalidateCaches()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) reportForRequest(w http.ResponseWriter, r *http.Request) (core.Report, bool) {
	month, year, err := parsePeriodPath(r)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return core.Report{}, false
	}
	ledger, err := s.loadLedger(r.Context())
	if err != nil {
		respondStoreError(w, err)
		return core.Report{}, false
	}
	return core.ReportForPeriod(ledger, month, year), true
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	report, ok := s.reportForRequest(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, report)
}

func (s *Server) handleReportCSV(w http.ResponseWriter, r *http.Request) {
	report, ok := s.reportForRequest(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(
		`attachment; filename="relatorio_financeiro_%02d_%d.csv"`,
		report.Summary.Month, report.Summary.Year))
	if err := export.FinancialReportCSV(w, report); err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Financial CSV export failed",
			log.NewFields().WithOperation(log.OpExport).WithError(err).ToSlice()...)
	}
}

func (s *Server) handleReportDoc(w http.ResponseWriter, r *http.Request) {
	report, ok := s.reportForRequest(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "application/msword")
	w.Header().Set("Content-Disposition", fmt.Sprintf(
		`attachment; filename="relatorio_financeiro_%02d_%d.doc"`,
		report.Summary.Month, report.Summary.Year))
	if err := export.FinancialReportWord(w, report, time.Now()); err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Financial doc export failed",
			log.NewFields().WithOperation(log.OpExport).WithError(err).ToSlice()...)
	}
}
