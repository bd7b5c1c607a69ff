// Package http exposes the record-keeper as a JSON API.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"legendarios/internal/cache"
	"legendarios/internal/core"
	"legendarios/internal/log"
	"legendarios/internal/store"
)

// EntryPublisher notifies the sync pipeline that a ledger source record
// changed. It may be nil when no broker is configured.
type EntryPublisher interface {
	PublishEntrySync(ctx context.Context, sourceKind, sourceID string) error
}

type Server struct {
	http.Server

	store     store.Store
	publisher EntryPublisher
	logger    *log.Logger

	defaultDuesCents int64

	rateLimiter *rateLimiter

	ledgerCache    cache.Cache[[]core.LedgerEntry]
	dashboardCache cache.Cache[dashboardResponse]
	stopJanitor    chan struct{}

	shutdownOnce sync.Once
}

// Options tune the server beyond its collaborators.
type Options struct {
	DefaultDuesCents int64
	CacheTTL         time.Duration
}

// NewServer wires routes, middleware and caches around the store.
func NewServer(addr string, st store.Store, publisher EntryPublisher, logger *log.Logger, opts Options) *Server {
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 30 * time.Second
	}

	s := &Server{
		store:            st,
		publisher:        publisher,
		logger:           logger.WithComponent(log.ComponentHTTP),
		defaultDuesCents: opts.DefaultDuesCents,
		rateLimiter:      newRateLimiter(),
		ledgerCache:      cache.NewLRUCache[[]core.LedgerEntry](8, opts.CacheTTL),
		dashboardCache:   cache.NewLRUCache[dashboardResponse](32, opts.CacheTTL),
		stopJanitor:      make(chan struct{}),
	}
	go s.runCacheJanitor(opts.CacheTTL)

	r := chi.NewRouter()
	r.Use(s.withSecurityHeaders)

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)

	r.Route("/api", func(r chi.Router) {
		r.Get("/dashboard", s.handleDashboard)

		r.Route("/members", func(r chi.Router) {
			r.Get("/", s.handleListMembers)
			r.Post("/", s.handleCreateMember)
			r.Get("/export/csv", s.handleMembersCSV)
			r.Get("/export/doc", s.handleMembersDoc)
			r.Get("/{id}", s.handleGetMember)
			r.Put("/{id}", s.handleUpdateMember)
			r.Delete("/{id}", s.handleDeleteMember)
		})

		r.Get("/ledger", s.handleLedger)

		r.Route("/dues", func(r chi.Router) {
			r.Get("/", s.handleListDues)
			r.Post("/", s.handleCreateDues)
			r.Put("/{id}", s.handleUpdateDues)
			r.Delete("/{id}", s.handleDeleteDues)
		})

		r.Route("/transactions", func(r chi.Router) {
			r.Get("/", s.handleListTransactions)
			r.Post("/", s.handleCreateTransaction)
			r.Put("/{id}", s.handleUpdateTransaction)
			r.Delete("/{id}", s.handleDeleteTransaction)
		})

		r.Route("/reports/{year}/{month}", func(r chi.Router) {
			r.Get("/", s.handleReport)
			r.Get("/csv", s.handleReportCSV)
			r.Get("/doc", s.handleReportDoc)
		})

		r.Get("/professions", s.handleProfessions)
		r.Get("/assistance", s.handleAssistance)

		r.Get("/backup", s.handleBackup)
		r.Post("/restore", s.handleRestore)
	})

	s.Server = http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Shutdown stops the server and its background routines once.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		close(s.stopJanitor)
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// runCacheJanitor sweeps expired entries out of the derived-view caches
// so an idle server does not keep stale data resident until the next
// read. Stops with the server.
func (s *Server) runCacheJanitor(ttl time.Duration) {
	ticker := time.NewTicker(ttl)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.ledgerCache.CleanExpired()
			s.dashboardCache.CleanExpired()
		case <-s.stopJanitor:
			return
		}
	}
}

// invalidateCaches drops derived views after any write.
func (s *Server) invalidateCaches() {
	s.ledgerCache.Clear()
	s.dashboardCache.Clear()
}

// loadLedger builds (or reuses) the merged ledger for the current data.
func (s *Server) loadLedger(ctx context.Context) ([]core.LedgerEntry, error) {
	if ledger, ok := s.ledgerCache.Get("ledger"); ok {
		return ledger, nil
	}
	snap, err := s.store.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	ledger := core.BuildLedger(snap.DuesPayments, snap.Transactions, snap.Members)
	s.ledgerCache.Set("ledger", ledger)
	return ledger, nil
}

// publishSync notifies the worker about a changed source record. The
// write has already been committed; a publish failure only delays the
// spreadsheet mirror, so it is logged and swallowed.
func (s *Server) publishSync(ctx context.Context, kind core.SourceKind, id string) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishEntrySync(ctx, string(kind), id); err != nil {
		log.FromContext(ctx).WarnContext(ctx, "Failed to publish sync message",
			log.FieldEntryKind, string(kind),
			"source_id", id,
			log.FieldError, err.Error())
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if _, err := s.store.ListMembers(r.Context()); err != nil {
		respondError(w, http.StatusServiceUnavailable, "store not ready")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
