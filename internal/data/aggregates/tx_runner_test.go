package aggregates_test

import (
	"context"
	"errors"
	"testing"

	"github.com/yungbote/coincollector-backend/internal/data/aggregates"
	repotest "github.com/yungbote/coincollector-backend/internal/data/repos/testutil"
	types "github.com/yungbote/coincollector-backend/internal/domain"
	"github.com/yungbote/coincollector-backend/internal/platform/dbctx"
)

func TestGormTxRunnerRerunsRetryableFailures(t *testing.T) {
	db := repotest.DB(t)
	runner := aggregates.NewGormTxRunner(db, aggregates.WithAttempts(3), aggregates.WithBackoff(0))

	calls := 0
	err := runner.InTx(context.Background(), func(dbc dbctx.Context) error {
		calls++
		if err := dbc.Tx.Create(mustGroup(t, "Attempt", "u1")).Error; err != nil {
			return err
		}
		if calls < 3 {
			return aggregates.RetryableError("database is locked")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("InTx: %v", err)
	}
	if calls != 3 {
		t.Fatalf("calls: want=3 got=%d", calls)
	}
	// Failed attempts were rolled back.
	if n := countRows(t, db, &types.Group{}); n != 1 {
		t.Fatalf("groups: want=1 got=%d", n)
	}
}

func TestGormTxRunnerStopsRetrying(t *testing.T) {
	db := repotest.DB(t)

	cases := []struct {
		name   string
		runner aggregates.TxRunner
		ctx    func() context.Context
		fail   error
		calls  int
	}{
		{
			name:   "non retryable",
			runner: aggregates.NewGormTxRunner(db, aggregates.WithAttempts(3), aggregates.WithBackoff(0)),
			ctx:    context.Background,
			fail:   errInjected,
			calls:  1,
		},
		{
			name:   "attempts exhausted",
			runner: aggregates.NewGormTxRunner(db, aggregates.WithAttempts(2), aggregates.WithBackoff(0)),
			ctx:    context.Background,
			fail:   aggregates.RetryableError("deadlock detected"),
			calls:  2,
		},
		{
			name:   "single attempt by default",
			runner: aggregates.NewGormTxRunner(db),
			ctx:    context.Background,
			fail:   aggregates.RetryableError("deadlock detected"),
			calls:  1,
		},
		{
			name:   "context cancelled",
			runner: aggregates.NewGormTxRunner(db, aggregates.WithAttempts(5), aggregates.WithBackoff(0)),
			ctx: func() context.Context {
				ctx, cancel := context.WithCancel(context.Background())
				cancel()
				return ctx
			},
			fail:  aggregates.RetryableError("deadlock detected"),
			calls: 0,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			calls := 0
			err := tc.runner.InTx(tc.ctx(), func(dbctx.Context) error {
				calls++
				return tc.fail
			})
			if err == nil {
				t.Fatalf("InTx: want error")
			}
			if tc.calls > 0 && !errors.Is(err, tc.fail) {
				t.Fatalf("error: want=%v got=%v", tc.fail, err)
			}
			if calls > tc.calls || (tc.calls > 0 && calls != tc.calls) {
				t.Fatalf("calls: want=%d got=%d", tc.calls, calls)
			}
		})
	}
}
