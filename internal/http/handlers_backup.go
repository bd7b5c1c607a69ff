package http

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"legendarios/internal/backup"
	"legendarios/internal/log"
)

func (s *Server) handleBackup(w http.ResponseWriter, r *http.Request) {
	snap, err := s.store.Snapshot(r.Context())
	if err != nil {
		respondStoreError(w, err)
		return
	}

	now := time.Now().UTC()
	data, err := backup.Export(snap, now)
	if err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Backup export failed",
			log.NewFields().WithOperation(log.OpExport).WithError(err).ToSlice()...)
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(
		`attachment; filename="legendarios_backup_%s.json"`, now.Format("2006-01-02")))
	w.Write(data)
}

// handleRestore replaces the whole dataset with the uploaded backup.
// The file is fully parsed and validated before the store is touched,
// so a malformed upload leaves existing data intact.
func (s *Server) handleRestore(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 32<<20))
	if err != nil {
		respondError(w, http.StatusBadRequest, "read backup: "+err.Error())
		return
	}

	snap, err := backup.Parse(data)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.store.Replace(r.Context(), snap); err != nil {
		respondStoreError(w, err)
		return
	}
	s.invalidateCaches()

	log.FromContext(r.Context()).InfoContext(r.Context(), "Backup restored",
		log.FieldOperation, log.OpRestore,
		"members", len(snap.Members),
		"dues_payments", len(snap.DuesPayments),
		"transactions", len(snap.Transactions))
	respondJSON(w, http.StatusOK, map[string]int{
		"members":      len(snap.Members),
		"duesPayments": len(snap.DuesPayments),
		"transactions": len(snap.Transactions),
	})
}
