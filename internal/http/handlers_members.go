package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"legendarios/internal/core"
	"legendarios/internal/export"
	"legendarios/internal/log"
)

// memberFilterFromQuery reads the census filter parameters.
func memberFilterFromQuery(r *http.Request) (core.MemberFilter, error) {
	q := r.URL.Query()
	f := core.MemberFilter{
		SearchText: sanitizeInput(q.Get("q")),
		Profession: sanitizeInput(q.Get("profession")),
		Status:     core.MemberStatus(strings.TrimSpace(q.Get("status"))),
	}
	if v := strings.TrimSpace(q.Get("birthMonth")); v != "" {
		m, err := strconv.Atoi(v)
		if err != nil || m < 1 || m > 12 {
			return core.MemberFilter{}, core.ErrInvalidMonth
		}
		f.BirthMonth = m
	}
	if f.Status != "" && !f.Status.Valid() {
		return core.MemberFilter{}, core.ErrInvalidStatus
	}
	return f, nil
}

func (s *Server) handleListMembers(w http.ResponseWriter, r *http.Request) {
	filter, err := memberFilterFromQuery(r)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	members, err := s.store.ListMembers(r.Context())
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, core.FilterMembers(members, filter))
}

func (s *Server) handleGetMember(w http.ResponseWriter, r *http.Request) {
	m, err := s.store.GetMember(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, m)
}

func (s *Server) handleCreateMember(w http.ResponseWriter, r *http.Request) {
	var m core.Member
	if err := decodeJSON(w, r, &m); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	m.FullName = sanitizeInput(m.FullName)
	if err := m.Validate(); err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	if err := s.store.CreateMember(r.Context(), m); err != nil {
		respondStoreError(w, err)
		return
	}
	s.invalidateCaches()

	log.FromContext(r.Context()).InfoContext(r.Context(), "Member created",
		log.NewFields().WithOperation(log.OpCreate).WithMember(m.ID, m.FullName).ToSlice()...)
	respondJSON(w, http.StatusCreated, m)
}

func (s *Server) handleUpdateMember(w http.ResponseWriter, r *http.Request) {
	var m core.Member
	if err := decodeJSON(w, r, &m); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	m.ID = chi.URLParam(r, "id")
	m.FullName = sanitizeInput(m.FullName)
	if err := m.Validate(); err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	if err := s.store.UpdateMember(r.Context(), m); err != nil {
		respondStoreError(w, err)
		return
	}
	s.invalidateCaches()

	log.FromContext(r.Context()).InfoContext(r.Context(), "Member updated",
		log.NewFields().WithOperation(log.OpUpdate).WithMember(m.ID, m.FullName).ToSlice()...)
	respondJSON(w, http.StatusOK, m)
}

func (s *Server) handleDeleteMember(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.store.DeleteMember(r.Context(), id); err != nil {
		respondStoreError(w, err)
		return
	}
	s.invalidateCaches()

	// Dues payments stay behind on purpose; the ledger renders them
	// with the fallback label from now on.
	log.FromContext(r.Context()).InfoContext(r.Context(), "Member deleted",
		log.FieldOperation, log.OpDelete,
		log.FieldMemberID, id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMembersCSV(w http.ResponseWriter, r *http.Request) {
	members, err := s.store.ListMembers(r.Context())
	if err != nil {
		respondStoreError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="legendarios_export.csv"`)
	if err := export.MembersCSV(w, members); err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Member CSV export failed",
			log.NewFields().WithOperation(log.OpExport).WithError(err).ToSlice()...)
	}
}

func (s *Server) handleMembersDoc(w http.ResponseWriter, r *http.Request) {
	members, err := s.store.ListMembers(r.Context())
	if err != nil {
		respondStoreError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/msword")
	w.Header().Set("Content-Disposition", `attachment; filename="legendarios_relatorio.doc"`)
	if err := export.MembersWord(w, members); err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Member doc export failed",
			log.NewFields().WithOperation(log.OpExport).WithError(err).ToSlice()...)
	}
}

func (s *Server) handleProfessions(w http.ResponseWriter, r *http.Request) {
	members, err := s.store.ListMembers(r.Context())
	if err != nil {
		respondStoreError(w, err)
		return
	}

	if profession := sanitizeInput(r.URL.Query().Get("profession")); profession != "" {
		respondJSON(w, http.StatusOK, core.MembersByProfession(members, profession))
		return
	}
	respondJSON(w, http.StatusOK, core.ProfessionCounts(members))
}

func (s *Server) handleAssistance(w http.ResponseWriter, r *http.Request) {
	members, err := s.store.ListMembers(r.Context())
	if err != nil {
		respondStoreError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, struct {
		Stats   core.AssistanceStats `json:"stats"`
		Members []core.Member        `json:"members"`
	}{
		Stats:   core.TakeAssistanceStats(members),
		Members: core.AssistedMembers(members),
	})
}
