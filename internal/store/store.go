package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrNotFound signals a missing record.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate signals a unique constraint violation.
	ErrDuplicate = errors.New("duplicate record")
)

// Store provides persistence backed by Postgres.
type Store struct {
	db *sql.DB
}

// New sets up a Store using the provided database handle.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Page bounds a listing. A zero Limit returns every remaining row.
type Page struct {
	Limit  int
	Offset int
}

// paginate appends LIMIT/OFFSET placeholders. LIMIT NULL is unbounded in Postgres.
func paginate(query string, args []any, page Page) (string, []any) {
	var limit any
	if page.Limit > 0 {
		limit = page.Limit
	}
	args = append(args, limit, page.Offset)
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	return query, args
}

// withTx runs fn inside a transaction, rolling back on any error.
func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if tx != nil {
			_ = tx.Rollback()
		}
	}()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	tx = nil
	return nil
}

// assignment is one column = value pair of a partial update.
type assignment struct {
	column string
	value  any
}

// updateRow applies a partial update to a catalogue table.
func (s *Store) updateRow(ctx context.Context, table string, id uuid.UUID, sets []assignment) error {
	if len(sets) == 0 {
		return nil
	}

	var (
		clauses []string
		args    []any
	)
	for _, a := range sets {
		args = append(args, a.value)
		clauses = append(clauses, fmt.Sprintf("%s = $%d", a.column, len(args)))
	}
	args = append(args, id)

	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = $%d", table, strings.Join(clauses, ", "), len(args))
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("update %s: %w", table, err)
	}
	return rowsAffected(res, "update "+table)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func rowsAffected(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
