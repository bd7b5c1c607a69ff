// Package store defines the persistence port for the record-keeper.
// Implementations live in memory (tests, demos) and SQLite (production).
package store

import (
	"context"
	"errors"

	"legendarios/internal/core"
)

var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateDues is returned when a member already has a payment
	// recorded for the same month and year.
	ErrDuplicateDues = errors.New("dues already paid for this period")
)

// Snapshot is the full dataset, taken atomically for backups and for
// building derived views.
type Snapshot struct {
	Members      []core.Member
	DuesPayments []core.DuesPayment
	Transactions []core.Transaction
}

// Store is the persistence port. Implementations must be safe for
// concurrent use.
type Store interface {
	ListMembers(ctx context.Context) ([]core.Member, error)
	GetMember(ctx context.Context, id string) (core.Member, error)
	CreateMember(ctx context.Context, m core.Member) error
	UpdateMember(ctx context.Context, m core.Member) error
	// DeleteMember removes the member only. Their dues payments stay in
	// the ledger and are rendered with a fallback label.
	DeleteMember(ctx context.Context, id string) error

	ListDuesPayments(ctx context.Context) ([]core.DuesPayment, error)
	CreateDuesPayment(ctx context.Context, p core.DuesPayment) error
	UpdateDuesPayment(ctx context.Context, p core.DuesPayment) error
	DeleteDuesPayment(ctx context.Context, id string) error

	ListTransactions(ctx context.Context) ([]core.Transaction, error)
	GetTransaction(ctx context.Context, id string) (core.Transaction, error)
	CreateTransaction(ctx context.Context, t core.Transaction) error
	UpdateTransaction(ctx context.Context, t core.Transaction) error
	DeleteTransaction(ctx context.Context, id string) error

	// Snapshot reads all three collections as one consistent view.
	Snapshot(ctx context.Context) (Snapshot, error)
	// Replace swaps the entire dataset, used by restore. It is all or
	// nothing: on error the previous data is untouched.
	Replace(ctx context.Context, snap Snapshot) error

	Close() error
}
