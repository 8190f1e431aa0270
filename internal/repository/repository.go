// Package repository handles all interactions with the database.
//
// It contains raw SQL queries and methods to fetch, persist,
// or update data, abstracting SQL logic away from the service layer.
//
// Every operation runs exactly one parameterized statement on the
// injected pool. Outcomes are reported through errors:
//   - nil: success
//   - ErrNotFound: no row matched
//   - ErrNoFields: a partial update carried nothing to change
//   - anything else: a driver error wrapped with %w (see sqlerr)
package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrNotFound is returned when a lookup, update or delete matched no row.
	ErrNotFound = errors.New("not found")

	// ErrNoFields is returned when a partial update has nothing to set.
	ErrNoFields = errors.New("no fields provided")

	// ErrMalformedRow is returned when a row does not have the expected shape.
	ErrMalformedRow = errors.New("malformed row")
)

// DBTX is the subset of pgxpool.Pool the repositories use.
// pgx.Tx satisfies it as well.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// notFoundIfNoRows maps pgx.ErrNoRows onto ErrNotFound.
func notFoundIfNoRows(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
