// Package memory is an in-process cashbook used by tests and by runs
// without Google credentials.
package memory

import (
	"context"
	"fmt"
	"sync"

	"legendarios/internal/core"
)

type Store struct {
	mu   sync.Mutex
	rows []core.LedgerEntry
}

func New() *Store {
	return &Store{}
}

// AppendEntry records the entry and returns a synthetic row reference.
func (s *Store) AppendEntry(_ context.Context, e core.LedgerEntry) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append(s.rows, e)
	return fmt.Sprintf("mem:%d", len(s.rows)), nil
}

// Rows returns a copy of everything appended so far.
func (s *Store) Rows() []core.LedgerEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.LedgerEntry, len(s.rows))
	copy(out, s.rows)
	return out
}
