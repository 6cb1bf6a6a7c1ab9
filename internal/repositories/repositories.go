// package repositories provides persistence layer implementations for all model types.
//
// Each repository handles CRUD operations for one table of the primary backend.
package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"

	"github.com/desertthunder/mytunes/internal/shared"
)

// scanner is satisfied by both [*sql.Row] and [*sql.Rows].
type scanner interface {
	Scan(dest ...any) error
}

// queryer is satisfied by both [*sql.DB] and [*sql.Tx].
type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// base holds what every repository needs: the pool and the dialect to rebind for.
type base struct {
	db      *sql.DB
	dialect shared.Dialect
}

func (b base) q(query string) string {
	return b.dialect.Rebind(query)
}

// inTx runs fn in a transaction, committing on success and rolling back otherwise.
// The returned error is classified.
func (b base) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return classify(fmt.Errorf("failed to begin transaction: %w", err))
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return classify(err)
	}

	if err := tx.Commit(); err != nil {
		return classify(fmt.Errorf("failed to commit transaction: %w", err))
	}
	return nil
}

// insertID inserts a row and returns its generated id.
func (b base) insertID(ctx context.Context, qr queryer, query string, args ...any) (int64, error) {
	if b.dialect.Returning() {
		var id int64
		if err := qr.QueryRowContext(ctx, b.q(query+" RETURNING id"), args...).Scan(&id); err != nil {
			return 0, err
		}
		return id, nil
	}

	result, err := qr.ExecContext(ctx, b.q(query), args...)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

func (b base) exists(ctx context.Context, qr queryer, table string, id int64) (bool, error) {
	var n int
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE id = ?", table)
	if err := qr.QueryRowContext(ctx, b.q(query), id).Scan(&n); err != nil {
		return false, fmt.Errorf("failed to check %s: %w", table, err)
	}
	return n > 0, nil
}

// contractErrors are caller-facing failures that say nothing about backend health.
var contractErrors = []error{
	shared.ErrInvalidPosition,
	shared.ErrInvalidInput,
	shared.ErrPlaylistNotFound,
	shared.ErrSongNotFound,
	shared.ErrConstraintViolation,
	shared.ErrBackendUnreachable,
}

// classify sorts an error from the primary into constraint, contract, or unreachable.
func classify(err error) error {
	if err == nil {
		return nil
	}
	for _, target := range contractErrors {
		if errors.Is(err, target) {
			return err
		}
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	if IsConstraintViolation(err) {
		return fmt.Errorf("%w: %w", shared.ErrConstraintViolation, err)
	}
	return fmt.Errorf("%w: %w", shared.ErrBackendUnreachable, err)
}

// IsConstraintViolation reports whether err is an integrity constraint failure from any supported driver.
func IsConstraintViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code == sqlite3.ErrConstraint
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// SQLSTATE class 23: integrity constraint violation
		return strings.HasPrefix(pgErr.Code, "23")
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case 1062, 1451, 1452, 3819: // duplicate key, fk parent, fk child, check
			return true
		}
	}

	return false
}

// likePattern builds a case-insensitive substring pattern escaped with '!'.
func likePattern(text string) string {
	r := strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")
	return "%" + r.Replace(strings.ToLower(strings.TrimSpace(text))) + "%"
}
