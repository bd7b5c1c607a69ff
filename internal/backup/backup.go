// Package backup serializes the full dataset to a portable snapshot and
// restores it all or nothing.
package backup

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"legendarios/internal/core"
	"legendarios/internal/store"
)

// Version is stamped on every snapshot this build writes.
const Version = "1.1"

var (
	ErrMissingMembers = errors.New("snapshot missing members array")
	ErrMissingDues    = errors.New("snapshot missing duesPayments array")
)

// File is the on-disk snapshot shape. Transactions may be absent in
// snapshots taken before transactions existed; members and duesPayments
// are mandatory.
type File struct {
	Members      []core.Member      `json:"members"`
	DuesPayments []core.DuesPayment `json:"duesPayments"`
	Transactions []core.Transaction `json:"transactions"`
	ExportedAt   time.Time          `json:"exportedAt"`
	Version      string             `json:"version"`
}

// Export renders a snapshot as indented JSON.
func Export(snap store.Snapshot, now time.Time) ([]byte, error) {
	f := File{
		Members:      orEmpty(snap.Members),
		DuesPayments: orEmpty(snap.DuesPayments),
		Transactions: orEmpty(snap.Transactions),
		ExportedAt:   now.UTC(),
		Version:      Version,
	}
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	return data, nil
}

// Parse validates raw snapshot JSON and returns the dataset it holds.
// A snapshot without its mandatory arrays is rejected before anything
// touches the store, so a failed restore never leaves partial data.
func Parse(data []byte) (store.Snapshot, error) {
	// Check field presence first: a snapshot with the key absent is
	// malformed, one with an empty array is a valid empty dataset.
	var shape struct {
		Members      json.RawMessage `json:"members"`
		DuesPayments json.RawMessage `json:"duesPayments"`
	}
	if err := json.Unmarshal(data, &shape); err != nil {
		return store.Snapshot{}, fmt.Errorf("parse snapshot: %w", err)
	}
	if len(shape.Members) == 0 || string(shape.Members) == "null" {
		return store.Snapshot{}, ErrMissingMembers
	}
	if len(shape.DuesPayments) == 0 || string(shape.DuesPayments) == "null" {
		return store.Snapshot{}, ErrMissingDues
	}

	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return store.Snapshot{}, fmt.Errorf("parse snapshot: %w", err)
	}
	return store.Snapshot{
		Members:      orEmpty(f.Members),
		DuesPayments: orEmpty(f.DuesPayments),
		Transactions: orEmpty(f.Transactions),
	}, nil
}

func orEmpty[T any](in []T) []T {
	if in == nil {
		return []T{}
	}
	return in
}
