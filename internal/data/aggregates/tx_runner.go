package aggregates

import (
	"context"
	"time"

	domainagg "github.com/yungbote/coincollector-backend/internal/domain/aggregates"
	"github.com/yungbote/coincollector-backend/internal/platform/dbctx"
	"gorm.io/gorm"
)

const defaultRetryBackoff = 25 * time.Millisecond

// TxRunner opens the transaction of a self-managed unit of work.
type TxRunner interface {
	InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error
}

type TxOption func(*gormTxRunner)

// WithAttempts lets the runner rerun a transaction that failed with a
// retryable error (deadlock, serialization failure, busy sqlite file, a
// group row removed mid-save) up to n times in total.
func WithAttempts(n int) TxOption {
	return func(r *gormTxRunner) {
		if n > 0 {
			r.attempts = n
		}
	}
}

// WithBackoff sets the pause before the first rerun; it doubles per rerun.
func WithBackoff(d time.Duration) TxOption {
	return func(r *gormTxRunner) {
		if d >= 0 {
			r.backoff = d
		}
	}
}

type gormTxRunner struct {
	db       *gorm.DB
	attempts int
	backoff  time.Duration
}

// NewGormTxRunner returns a transaction runner backed by GORM transactions.
// Called on a handle that is already a transaction it nests with a savepoint.
// Without options every transaction runs once.
func NewGormTxRunner(db *gorm.DB, opts ...TxOption) TxRunner {
	r := &gormTxRunner{db: db, attempts: 1, backoff: defaultRetryBackoff}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *gormTxRunner) InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error {
	if fn == nil {
		return nil
	}
	if r == nil || r.db == nil {
		return domainagg.NewError(domainagg.CodeInternal, "storage.tx", "transaction runner has nil db", nil)
	}
	wait := r.backoff
	for attempt := 1; ; attempt++ {
		err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return fn(dbctx.WithTx(ctx, tx))
		})
		if err == nil || attempt >= r.attempts || !isRetryable(err) || ctx.Err() != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return err
		case <-time.After(wait):
		}
		wait *= 2
	}
}

// withSavepoint runs fn so that a failing statement does not poison the
// surrounding transaction. Without a transaction fn runs as is.
func withSavepoint(dbc dbctx.Context, fn func(dbc dbctx.Context) error) error {
	if dbc.Tx == nil {
		return fn(dbc)
	}
	return dbc.Tx.WithContext(dbc.Context()).Transaction(func(tx *gorm.DB) error {
		return fn(dbctx.WithTx(dbc.Context(), tx))
	})
}
