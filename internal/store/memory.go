package store

import (
	"context"
	"sync"

	"legendarios/internal/core"
)

// MemoryStore keeps everything in process memory. It backs tests and
// the "memory" data backend.
type MemoryStore struct {
	mu           sync.RWMutex
	members      []core.Member
	duesPayments []core.DuesPayment
	transactions []core.Transaction
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) ListMembers(ctx context.Context) ([]core.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copySlice(s.members), nil
}

func (s *MemoryStore) GetMember(ctx context.Context, id string) (core.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, m := range s.members {
		if m.ID == id {
			return m, nil
		}
	}
	return core.Member{}, ErrNotFound
}

func (s *MemoryStore) CreateMember(ctx context.Context, m core.Member) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.members = append(s.members, m)
	return nil
}

func (s *MemoryStore) UpdateMember(ctx context.Context, m core.Member) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.members {
		if s.members[i].ID == m.ID {
			s.members[i] = m
			return nil
		}
	}
	return ErrNotFound
}

func (s *MemoryStore) DeleteMember(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.members {
		if s.members[i].ID == id {
			s.members = append(s.members[:i], s.members[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (s *MemoryStore) ListDuesPayments(ctx context.Context) ([]core.DuesPayment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copySlice(s.duesPayments), nil
}

func (s *MemoryStore) CreateDuesPayment(ctx context.Context, p core.DuesPayment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.duesPayments {
		if existing.MemberID == p.MemberID && existing.Month == p.Month && existing.Year == p.Year {
			return ErrDuplicateDues
		}
	}
	s.duesPayments = append(s.duesPayments, p)
	return nil
}

func (s *MemoryStore) UpdateDuesPayment(ctx context.Context, p core.DuesPayment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.duesPayments {
		if existing.ID != p.ID && existing.MemberID == p.MemberID &&
			existing.Month == p.Month && existing.Year == p.Year {
			return ErrDuplicateDues
		}
	}
	for i := range s.duesPayments {
		if s.duesPayments[i].ID == p.ID {
			s.duesPayments[i] = p
			return nil
		}
	}
	return ErrNotFound
}

func (s *MemoryStore) DeleteDuesPayment(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.duesPayments {
		if s.duesPayments[i].ID == id {
			s.duesPayments = append(s.duesPayments[:i], s.duesPayments[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (s *MemoryStore) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copySlice(s.transactions), nil
}

func (s *MemoryStore) GetTransaction(ctx context.Context, id string) (core.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.transactions {
		if t.ID == id {
			return t, nil
		}
	}
	return core.Transaction{}, ErrNotFound
}

func (s *MemoryStore) CreateTransaction(ctx context.Context, t core.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transactions = append(s.transactions, t)
	return nil
}

func (s *MemoryStore) UpdateTransaction(ctx context.Context, t core.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.transactions {
		if s.transactions[i].ID == t.ID {
			s.transactions[i] = t
			return nil
		}
	}
	return ErrNotFound
}

func (s *MemoryStore) DeleteTransaction(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.transactions {
		if s.transactions[i].ID == id {
			s.transactions = append(s.transactions[:i], s.transactions[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (s *MemoryStore) Snapshot(ctx context.Context) (Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		Members:      copySlice(s.members),
		DuesPayments: copySlice(s.duesPayments),
		Transactions: copySlice(s.transactions),
	}, nil
}

func (s *MemoryStore) Replace(ctx context.Context, snap Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.members = copySlice(snap.Members)
	s.duesPayments = copySlice(snap.DuesPayments)
	s.transactions = copySlice(snap.Transactions)
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}

func copySlice[T any](in []T) []T {
	out := make([]T, len(in))
	copy(out, in)
	return out
}
