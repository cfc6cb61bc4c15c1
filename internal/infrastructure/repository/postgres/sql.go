package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/football-tournament/internal/platform/resilience"
)

// maxRowsPerInsert keeps multi-row inserts well below the 65535 bind
// parameter limit.
const maxRowsPerInsert = 500

func isNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// IsDependencyFailure reports whether err should count against the database
// circuit breaker. Missing rows and caller cancellation do not.
func IsDependencyFailure(err error) bool {
	if err == nil || isNotFound(err) {
		return false
	}
	return !errors.Is(err, context.Canceled)
}

// NewBreaker builds the breaker shared by every repository on one pool.
func NewBreaker(cfg resilience.CircuitBreakerConfig, opts ...resilience.BreakerOption) *resilience.CircuitBreaker {
	opts = append([]resilience.BreakerOption{resilience.WithFailureClassifier(IsDependencyFailure)}, opts...)
	return resilience.NewCircuitBreaker(cfg, opts...)
}

type store struct {
	db      *sqlx.DB
	breaker *resilience.CircuitBreaker
}

func (s store) guard(fn func() error) error {
	return s.breaker.Execute(fn)
}

// inTx runs fn in one transaction guarded by the breaker.
func (s store) inTx(ctx context.Context, op string, fn func(tx *sqlx.Tx) error) error {
	return s.guard(func() error {
		tx, err := s.db.BeginTxx(ctx, nil)
		if err != nil {
			return crerr.Wrapf(err, "begin tx %s", op)
		}
		defer func() {
			_ = tx.Rollback()
		}()

		if err := fn(tx); err != nil {
			return err
		}
		if err := tx.Commit(); err != nil {
			return crerr.Wrapf(err, "commit tx %s", op)
		}
		return nil
	})
}

func chunk[T any](items []T, size int) [][]T {
	if len(items) == 0 {
		return nil
	}
	out := make([][]T, 0, (len(items)+size-1)/size)
	for start := 0; start < len(items); start += size {
		end := min(start+size, len(items))
		out = append(out, items[start:end])
	}
	return out
}

func nullableInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func intPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	out := int(v.Int64)
	return &out
}

func nullableString(v string) sql.NullString {
	v = strings.TrimSpace(v)
	if v == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: v, Valid: true}
}
