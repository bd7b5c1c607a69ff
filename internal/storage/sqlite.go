// Package storage implements the persistence port on SQLite.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"legendarios/internal/core"
	"legendarios/internal/store"

	_ "modernc.org/sqlite"
)

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

const memberColumns = `id, legendary_number, conquest_date, top_number, track_name,
	full_name, birth_date, profession, address, neighborhood, city, state,
	phone, email, spouse_name, spouse_phone, children_json, church_name,
	pastor_name, pastor_phone, is_community_active, status, inactive_reason,
	assistance_json, socio_economic_notes, joined_date`

func (s *SQLiteStore) ListMembers(ctx context.Context) ([]core.Member, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+memberColumns+` FROM members ORDER BY full_name`)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	defer rows.Close()

	var members []core.Member
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

func (s *SQLiteStore) GetMember(ctx context.Context, id string) (core.Member, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+memberColumns+` FROM members WHERE id = ?`, id)
	m, err := scanMember(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Member{}, store.ErrNotFound
	}
	return m, err
}

func (s *SQLiteStore) CreateMember(ctx context.Context, m core.Member) error {
	return s.execMember(ctx, s.db, `INSERT INTO members (`+memberColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, m)
}

func (s *SQLiteStore) UpdateMember(ctx context.Context, m core.Member) error {
	children, assistance, err := marshalMemberJSON(m)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `UPDATE members SET
		legendary_number = ?, conquest_date = ?, top_number = ?, track_name = ?,
		full_name = ?, birth_date = ?, profession = ?, address = ?,
		neighborhood = ?, city = ?, state = ?, phone = ?, email = ?,
		spouse_name = ?, spouse_phone = ?, children_json = ?, church_name = ?,
		pastor_name = ?, pastor_phone = ?, is_community_active = ?, status = ?,
		inactive_reason = ?, assistance_json = ?, socio_economic_notes = ?,
		joined_date = ?
		WHERE id = ?`,
		m.LegendaryNumber, m.ConquestDate.String(), m.TopNumber, m.TrackName,
		m.FullName, m.BirthDate.String(), m.Profession, m.Address,
		m.Neighborhood, m.City, m.State, m.Phone, m.Email,
		m.SpouseName, m.SpousePhone, children, m.ChurchName,
		m.PastorName, m.PastorPhone, boolToInt(m.IsCommunityActive), string(m.Status),
		m.InactiveReason, assistance, m.SocioEconomicNotes,
		m.JoinedDate.String(), m.ID)
	if err != nil {
		return fmt.Errorf("update member: %w", err)
	}
	return requireRow(res)
}

func (s *SQLiteStore) DeleteMember(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM members WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete member: %w", err)
	}
	return requireRow(res)
}

func (s *SQLiteStore) ListDuesPayments(ctx context.Context) ([]core.DuesPayment, error) {
	return listDues(ctx, s.db)
}

func (s *SQLiteStore) CreateDuesPayment(ctx context.Context, p core.DuesPayment) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO dues_payments
		(id, member_id, month, year, amount_cents, paid_date)
		VALUES (?, ?, ?, ?, ?, ?)`,
		p.ID, p.MemberID, p.Month, p.Year, p.Amount.Cents, p.PaidDate.String())
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return store.ErrDuplicateDues
		}
		return fmt.Errorf("create dues payment: %w", err)
	}
	return nil
}

func (s *SQLiteStore) UpdateDuesPayment(ctx context.Context, p core.DuesPayment) error {
	res, err := s.db.ExecContext(ctx, `UPDATE dues_payments
		SET member_id = ?, month = ?, year = ?, amount_cents = ?, paid_date = ?
		WHERE id = ?`,
		p.MemberID, p.Month, p.Year, p.Amount.Cents, p.PaidDate.String(), p.ID)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return store.ErrDuplicateDues
		}
		return fmt.Errorf("update dues payment: %w", err)
	}
	return requireRow(res)
}

func (s *SQLiteStore) DeleteDuesPayment(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM dues_payments WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete dues payment: %w", err)
	}
	return requireRow(res)
}

func (s *SQLiteStore) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	return listTransactions(ctx, s.db)
}

func (s *SQLiteStore) GetTransaction(ctx context.Context, id string) (core.Transaction, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, description, amount_cents, type, category, date, member_id
		FROM transactions WHERE id = ?`, id)
	t, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, store.ErrNotFound
	}
	return t, err
}

func (s *SQLiteStore) CreateTransaction(ctx context.Context, t core.Transaction) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO transactions
		(id, description, amount_cents, type, category, date, member_id)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Description, t.Amount.Cents, string(t.Type), t.Category, t.Date.String(), t.MemberID)
	if err != nil {
		return fmt.Errorf("create transaction: %w", err)
	}
	return nil
}

func (s *SQLiteStore) UpdateTransaction(ctx context.Context, t core.Transaction) error {
	res, err := s.db.ExecContext(ctx, `UPDATE transactions SET
		description = ?, amount_cents = ?, type = ?, category = ?, date = ?, member_id = ?
		WHERE id = ?`,
		t.Description, t.Amount.Cents, string(t.Type), t.Category, t.Date.String(), t.MemberID, t.ID)
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	return requireRow(res)
}

func (s *SQLiteStore) DeleteTransaction(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	return requireRow(res)
}

// Snapshot loads the three collections concurrently.
func (s *SQLiteStore) Snapshot(ctx context.Context) (store.Snapshot, error) {
	var snap store.Snapshot
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		members, err := s.ListMembers(ctx)
		snap.Members = members
		return err
	})
	g.Go(func() error {
		payments, err := listDues(ctx, s.db)
		snap.DuesPayments = payments
		return err
	})
	g.Go(func() error {
		transactions, err := listTransactions(ctx, s.db)
		snap.Transactions = transactions
		return err
	})
	if err := g.Wait(); err != nil {
		return store.Snapshot{}, err
	}
	return snap, nil
}

// Replace swaps the dataset inside one SQL transaction; the previous
// data survives any failure.
func (s *SQLiteStore) Replace(ctx context.Context, snap store.Snapshot) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"members", "dues_payments", "transactions"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	for _, m := range snap.Members {
		if err := s.execMember(ctx, tx, `INSERT INTO members (`+memberColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, m); err != nil {
			return err
		}
	}
	for _, p := range snap.DuesPayments {
		if _, err := tx.ExecContext(ctx, `INSERT INTO dues_payments
			(id, member_id, month, year, amount_cents, paid_date)
			VALUES (?, ?, ?, ?, ?, ?)`,
			p.ID, p.MemberID, p.Month, p.Year, p.Amount.Cents, p.PaidDate.String()); err != nil {
			return fmt.Errorf("restore dues payment %s: %w", p.ID, err)
		}
	}
	for _, t := range snap.Transactions {
		if _, err := tx.ExecContext(ctx, `INSERT INTO transactions
			(id, description, amount_cents, type, category, date, member_id)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			t.ID, t.Description, t.Amount.Cents, string(t.Type), t.Category, t.Date.String(), t.MemberID); err != nil {
			return fmt.Errorf("restore transaction %s: %w", t.ID, err)
		}
	}

	return tx.Commit()
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *SQLiteStore) execMember(ctx context.Context, db execer, query string, m core.Member) error {
	children, assistance, err := marshalMemberJSON(m)
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, query,
		m.ID, m.LegendaryNumber, m.ConquestDate.String(), m.TopNumber, m.TrackName,
		m.FullName, m.BirthDate.String(), m.Profession, m.Address,
		m.Neighborhood, m.City, m.State, m.Phone, m.Email,
		m.SpouseName, m.SpousePhone, children, m.ChurchName,
		m.PastorName, m.PastorPhone, boolToInt(m.IsCommunityActive), string(m.Status),
		m.InactiveReason, assistance, m.SocioEconomicNotes, m.JoinedDate.String())
	if err != nil {
		return fmt.Errorf("write member %s: %w", m.ID, err)
	}
	return nil
}

func marshalMemberJSON(m core.Member) (children, assistance string, err error) {
	c := m.Children
	if c == nil {
		c = []core.Child{}
	}
	cb, err := json.Marshal(c)
	if err != nil {
		return "", "", fmt.Errorf("marshal children: %w", err)
	}
	a := m.AssistanceHistory
	if a == nil {
		a = []core.AssistanceRecord{}
	}
	ab, err := json.Marshal(a)
	if err != nil {
		return "", "", fmt.Errorf("marshal assistance history: %w", err)
	}
	return string(cb), string(ab), nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMember(row rowScanner) (core.Member, error) {
	var (
		m                                                 core.Member
		conquest, birth, joined, childrenJSON, assistJSON string
		active                                            int
		status                                            string
	)
	err := row.Scan(
		&m.ID, &m.LegendaryNumber, &conquest, &m.TopNumber, &m.TrackName,
		&m.FullName, &birth, &m.Profession, &m.Address,
		&m.Neighborhood, &m.City, &m.State, &m.Phone, &m.Email,
		&m.SpouseName, &m.SpousePhone, &childrenJSON, &m.ChurchName,
		&m.PastorName, &m.PastorPhone, &active, &status,
		&m.InactiveReason, &assistJSON, &m.SocioEconomicNotes, &joined)
	if err != nil {
		return core.Member{}, err
	}
	m.IsCommunityActive = active != 0
	m.Status = core.MemberStatus(status)
	if m.ConquestDate, err = parseStoredDate(conquest); err != nil {
		return core.Member{}, fmt.Errorf("member %s conquest date: %w", m.ID, err)
	}
	if m.BirthDate, err = parseStoredDate(birth); err != nil {
		return core.Member{}, fmt.Errorf("member %s birth date: %w", m.ID, err)
	}
	if m.JoinedDate, err = parseStoredDate(joined); err != nil {
		return core.Member{}, fmt.Errorf("member %s joined date: %w", m.ID, err)
	}
	if err := json.Unmarshal([]byte(childrenJSON), &m.Children); err != nil {
		return core.Member{}, fmt.Errorf("member %s children: %w", m.ID, err)
	}
	if err := json.Unmarshal([]byte(assistJSON), &m.AssistanceHistory); err != nil {
		return core.Member{}, fmt.Errorf("member %s assistance history: %w", m.ID, err)
	}
	return m, nil
}

func listDues(ctx context.Context, db *sql.DB) ([]core.DuesPayment, error) {
	rows, err := db.QueryContext(ctx, `SELECT id, member_id, month, year, amount_cents, paid_date
		FROM dues_payments ORDER BY year, month`)
	if err != nil {
		return nil, fmt.Errorf("list dues payments: %w", err)
	}
	defer rows.Close()

	var payments []core.DuesPayment
	for rows.Next() {
		var (
			p     core.DuesPayment
			cents int64
			paid  string
		)
		if err := rows.Scan(&p.ID, &p.MemberID, &p.Month, &p.Year, &cents, &paid); err != nil {
			return nil, fmt.Errorf("scan dues payment: %w", err)
		}
		p.Amount = core.Money{Cents: cents}
		if p.PaidDate, err = parseStoredDate(paid); err != nil {
			return nil, fmt.Errorf("dues payment %s paid date: %w", p.ID, err)
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

func listTransactions(ctx context.Context, db *sql.DB) ([]core.Transaction, error) {
	rows, err := db.QueryContext(ctx, `SELECT id, description, amount_cents, type, category, date, member_id
		FROM transactions ORDER BY date DESC`)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var transactions []core.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, t)
	}
	return transactions, rows.Err()
}

func scanTransaction(row rowScanner) (core.Transaction, error) {
	var (
		t     core.Transaction
		cents int64
		typ   string
		date  string
	)
	err := row.Scan(&t.ID, &t.Description, &cents, &typ, &t.Category, &date, &t.MemberID)
	if err != nil {
		return core.Transaction{}, err
	}
	t.Amount = core.Money{Cents: cents}
	t.Type = core.TransactionType(typ)
	if t.Date, err = parseStoredDate(date); err != nil {
		return core.Transaction{}, fmt.Errorf("transaction %s date: %w", t.ID, err)
	}
	return t, nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func parseStoredDate(s string) (core.Date, error) {
	if s == "" {
		return core.Date{}, nil
	}
	return core.ParseDate(s)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
