// Package repository persists the workflow entities in PostgreSQL through lib/pq.
package repository

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"

	apperrors "coaching-workers/internal/common/errors"
	"coaching-workers/internal/common/logger"

	"github.com/lib/pq"
)

//go:embed schema.sql
var schema string

const pgUniqueViolation = "23505"

// DBTX is satisfied by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// Repository runs queries against a connection or a transaction.
type Repository struct {
	db DBTX
}

func New(db DBTX) *Repository {
	return &Repository{db: db}
}

// Store owns the connection pool and opens transactions.
type Store struct {
	db     *sql.DB
	logger logger.Logger
}

func NewStore(db *sql.DB, log logger.Logger) *Store {
	return &Store{
		db:     db,
		logger: log.WithFields(map[string]interface{}{"component": "repository"}),
	}
}

// Reader returns a repository bound to the pool, outside any transaction.
func (s *Store) Reader() *Repository {
	return New(s.db)
}

// WithTx runs fn in one transaction, committed only when fn returns nil.
func (s *Store) WithTx(ctx context.Context, fn func(*Repository) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return apperrors.NewDatabaseError("begin transaction", err)
	}

	if err := fn(New(tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			s.logger.Error("rollback failed", map[string]interface{}{"error": rbErr.Error()})
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return mapError("commit transaction", "transaction", "", err)
	}
	return nil
}

// Migrate applies the embedded schema. Statements are idempotent.
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return apperrors.NewDatabaseError("migrate schema", err)
	}
	return nil
}

// mapError translates driver errors: no rows to NotFound, unique violations to
// Conflict, anything else to a retryable database error.
func mapError(op, entity, key string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return apperrors.NewNotFoundError(entity, key)
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == pgUniqueViolation {
		return apperrors.NewConflictError(entity, key).WithMetadata("constraint", pqErr.Constraint)
	}
	return apperrors.NewDatabaseError(op, err)
}

type scanner interface {
	Scan(dest ...interface{}) error
}
