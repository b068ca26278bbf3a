package testutil

import (
	"context"
	"sync"

	"github.com/yungbote/coincollector-backend/internal/data/aggregates"
	"github.com/yungbote/coincollector-backend/internal/platform/dbctx"
	"gorm.io/gorm"
)

// InjectedTxRunner is a test helper for storage tests with begin, body and
// commit failure injection. With DB set the body runs in a real transaction
// that is rolled back on every injected or body failure; without DB the body
// gets a Context without a transaction.
type InjectedTxRunner struct {
	mu sync.Mutex

	DB *gorm.DB

	FailBegin      error
	FailBeforeBody error
	FailCommit     error

	BeginCalls    int
	CommitCalls   int
	RollbackCalls int
}

var _ aggregates.TxRunner = (*InjectedTxRunner)(nil)

func (r *InjectedTxRunner) InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error {
	r.mu.Lock()
	r.BeginCalls++
	failBegin := r.FailBegin
	failBeforeBody := r.FailBeforeBody
	failCommit := r.FailCommit
	r.mu.Unlock()

	if failBegin != nil {
		return failBegin
	}
	if failBeforeBody != nil {
		r.count(&r.RollbackCalls)
		return failBeforeBody
	}
	if r.DB == nil {
		return r.finish(fn, dbctx.New(ctx), failCommit)
	}
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return r.finish(fn, dbctx.WithTx(ctx, tx), failCommit)
	})
}

// finish runs fn and records the outcome. A returned error makes a real
// transaction roll back.
func (r *InjectedTxRunner) finish(fn func(dbc dbctx.Context) error, dbc dbctx.Context, failCommit error) error {
	if fn != nil {
		if err := fn(dbc); err != nil {
			r.count(&r.RollbackCalls)
			return err
		}
	}
	if failCommit != nil {
		r.count(&r.RollbackCalls)
		return failCommit
	}
	r.count(&r.CommitCalls)
	return nil
}

func (r *InjectedTxRunner) count(n *int) {
	r.mu.Lock()
	*n++
	r.mu.Unlock()
}
