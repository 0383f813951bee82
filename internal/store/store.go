// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store provides the PostgreSQL implementation of the taxonomy
// repository: category sets, categories and category relations.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgconn"

	"taxonomy/internal/models"
	"taxonomy/internal/taxonomy"
)

// uniqueViolation is the PostgreSQL SQLSTATE for unique constraint failures.
const uniqueViolation = "23505"

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store implements taxonomy.Repository on PostgreSQL.
type Store struct {
	db *sql.DB
	q  querier
}

var _ taxonomy.Repository = (*Store)(nil)

// New returns a Store using db.
func New(db *sql.DB) *Store {
	return &Store{db: db, q: db}
}

// psql builds statements with $n placeholders.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Atomic runs fn inside a transaction. Calls made on a Store that is
// already bound to a transaction join it.
func (s *Store) Atomic(ctx context.Context, fn func(repo taxonomy.Repository) error) error {
	if _, inTx := s.q.(*sql.Tx); inTx {
		return fn(s)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := fn(&Store{db: s.db, q: tx}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// isUniqueViolation reports whether err comes from a unique constraint.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// scanner is implemented by *sql.Row and *sql.Rows.
type scanner interface{ Scan(...any) error }

// duplicateOr converts a unique violation into a duplicate error and wraps
// anything else with op.
func duplicateOr(err error, field, op string) error {
	if isUniqueViolation(err) {
		return models.Duplicate(field, "already exists")
	}
	return fmt.Errorf("%s: %w", op, err)
}
