// Package worker mirrors ledger source records to the spreadsheet
// cashbook as sync messages arrive.
package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"legendarios/internal/amqp"
	"legendarios/internal/core"
	"legendarios/internal/log"
	"legendarios/internal/sheets"
	"legendarios/internal/store"
)

// Consumer is the slice of the AMQP client the worker depends on.
type Consumer interface {
	ConsumeEntrySync(ctx context.Context, handler func(*amqp.EntrySyncMessage) error) error
}

type SyncWorker struct {
	store    store.Store
	cashbook sheets.CashbookWriter
	logger   *log.Logger

	// mirrored tracks entry IDs already appended to the cashbook, so
	// the catch-up sweep and the message stream never double-write.
	mu       sync.Mutex
	mirrored map[string]struct{}
}

func New(st store.Store, cashbook sheets.CashbookWriter, logger *log.Logger) *SyncWorker {
	return &SyncWorker{
		store:    st,
		cashbook: cashbook,
		logger:   logger.WithComponent(log.ComponentWorker),
		mirrored: make(map[string]struct{}),
	}
}

func (w *SyncWorker) markMirrored(entryID string) {
	w.mu.Lock()
	w.mirrored[entryID] = struct{}{}
	w.mu.Unlock()
}

func (w *SyncWorker) alreadyMirrored(entryID string) bool {
	w.mu.Lock()
	_, ok := w.mirrored[entryID]
	w.mu.Unlock()
	return ok
}

// Run consumes sync messages until the context ends.
func (w *SyncWorker) Run(ctx context.Context, consumer Consumer) error {
	w.logger.InfoContext(ctx, "Sync worker started")
	return consumer.ConsumeEntrySync(ctx, func(msg *amqp.EntrySyncMessage) error {
		return w.HandleMessage(ctx, msg)
	})
}

// HandleMessage mirrors one source record to the cashbook. A source
// that no longer exists is acknowledged and skipped: the record was
// deleted between publish and consume, and there is nothing to mirror.
func (w *SyncWorker) HandleMessage(ctx context.Context, msg *amqp.EntrySyncMessage) error {
	entry, ok, err := w.resolveEntry(ctx, msg)
	if err != nil {
		return err
	}
	if !ok {
		w.logger.WarnContext(ctx, "Sync source no longer exists, skipping",
			log.FieldEntryKind, msg.SourceKind,
			"source_id", msg.SourceID)
		return nil
	}
	if w.alreadyMirrored(entry.ID) {
		return nil
	}

	ref, err := w.cashbook.AppendEntry(ctx, entry)
	if err != nil {
		return fmt.Errorf("append entry %s to cashbook: %w", entry.ID, err)
	}
	w.markMirrored(entry.ID)

	w.logger.InfoContext(ctx, "Entry mirrored to cashbook",
		log.FieldEntryKind, msg.SourceKind,
		"source_id", msg.SourceID,
		log.FieldAmountCents, entry.Amount.Cents,
		log.FieldSheetsRef, ref)
	return nil
}

// RunCatchUp periodically sweeps the ledger for entries created since
// startup that never arrived as messages, for example when the server
// swallowed a publish failure. The first pass marks the existing
// ledger as the baseline; only entries appearing after that are
// mirrored, at most batchSize per tick.
func (w *SyncWorker) RunCatchUp(ctx context.Context, interval time.Duration, batchSize int) error {
	if err := w.baseline(ctx); err != nil {
		return err
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := w.sweep(ctx, batchSize); err != nil {
				w.logger.ErrorContext(ctx, "Catch-up sweep failed",
					log.NewFields().WithOperation(log.OpSync).WithError(err).ToSlice()...)
			}
		}
	}
}

func (w *SyncWorker) baseline(ctx context.Context) error {
	ledger, err := w.loadLedger(ctx)
	if err != nil {
		return fmt.Errorf("load baseline ledger: %w", err)
	}
	for _, e := range ledger {
		w.markMirrored(e.ID)
	}
	w.logger.InfoContext(ctx, "Catch-up baseline recorded", log.FieldCount, len(ledger))
	return nil
}

func (w *SyncWorker) sweep(ctx context.Context, batchSize int) error {
	ledger, err := w.loadLedger(ctx)
	if err != nil {
		return err
	}

	var mirrored int
	for _, e := range ledger {
		if mirrored >= batchSize {
			break
		}
		if w.alreadyMirrored(e.ID) {
			continue
		}
		ref, err := w.cashbook.AppendEntry(ctx, e)
		if err != nil {
			return fmt.Errorf("append entry %s to cashbook: %w", e.ID, err)
		}
		w.markMirrored(e.ID)
		mirrored++
		w.logger.InfoContext(ctx, "Missed entry mirrored by catch-up",
			log.FieldEntryKind, string(e.SourceKind),
			"source_id", e.SourceID,
			log.FieldSheetsRef, ref)
	}
	return nil
}

func (w *SyncWorker) loadLedger(ctx context.Context) ([]core.LedgerEntry, error) {
	snap, err := w.store.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return core.BuildLedger(snap.DuesPayments, snap.Transactions, snap.Members), nil
}

func (w *SyncWorker) resolveEntry(ctx context.Context, msg *amqp.EntrySyncMessage) (core.LedgerEntry, bool, error) {
	switch core.SourceKind(msg.SourceKind) {
	case core.SourceDues:
		snap, err := w.store.Snapshot(ctx)
		if err != nil {
			return core.LedgerEntry{}, false, fmt.Errorf("load snapshot: %w", err)
		}
		for _, p := range snap.DuesPayments {
			if p.ID == msg.SourceID {
				ledger := core.BuildLedger([]core.DuesPayment{p}, nil, snap.Members)
				return ledger[0], true, nil
			}
		}
		return core.LedgerEntry{}, false, nil

	case core.SourceTransaction:
		t, err := w.store.GetTransaction(ctx, msg.SourceID)
		if errors.Is(err, store.ErrNotFound) {
			return core.LedgerEntry{}, false, nil
		}
		if err != nil {
			return core.LedgerEntry{}, false, fmt.Errorf("load transaction: %w", err)
		}
		ledger := core.BuildLedger(nil, []core.Transaction{t}, nil)
		return ledger[0], true, nil
	}

	return core.LedgerEntry{}, false, fmt.Errorf("unknown source kind %q", msg.SourceKind)
}
