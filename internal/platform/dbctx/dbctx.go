package dbctx

import (
	"context"

	"gorm.io/gorm"
)

// Context is the unit of work handed to repos and storage services.
// A nil Tx means the callee owns the transaction boundary; a non-nil Tx
// means the caller does and the callee must only execute statements on it.
type Context struct {
	Ctx context.Context
	Tx  *gorm.DB
}

// New returns a Context without a transaction.
func New(ctx context.Context) Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return Context{Ctx: ctx}
}

// WithTx returns a Context bound to the given transaction.
func WithTx(ctx context.Context, tx *gorm.DB) Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return Context{Ctx: ctx, Tx: tx}
}

// CallerManaged reports whether the transaction belongs to the caller.
func (c Context) CallerManaged() bool { return c.Tx != nil }

// Context returns Ctx, falling back to context.Background.
func (c Context) Context() context.Context {
	if c.Ctx == nil {
		return context.Background()
	}
	return c.Ctx
}

// DB returns the handle statements should run on: Tx when present, fallback otherwise.
func (c Context) DB(fallback *gorm.DB) *gorm.DB {
	txx := c.Tx
	if txx == nil {
		txx = fallback
	}
	return txx.WithContext(c.Context())
}
