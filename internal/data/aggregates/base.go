package aggregates

import (
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"gorm.io/gorm"

	domainagg "github.com/yungbote/coincollector-backend/internal/domain/aggregates"
	"github.com/yungbote/coincollector-backend/internal/observability"
	"github.com/yungbote/coincollector-backend/internal/platform/dbctx"
	"github.com/yungbote/coincollector-backend/internal/platform/logger"
)

type BaseDeps struct {
	DB     *gorm.DB
	Log    *logger.Logger
	Runner TxRunner
	Hooks  Hooks
}

func (d BaseDeps) withDefaults() BaseDeps {
	if d.Runner == nil {
		d.Runner = NewGormTxRunner(d.DB)
	}
	if d.Hooks == nil {
		d.Hooks = noopHooks{}
	}
	if d.Log == nil {
		d.Log = logger.NewNop()
	}
	return d
}

// unit describes one storage operation: its name, the entity it is about and
// the error code any unclassified failure is reported with.
type unit struct {
	op     string
	entity domainagg.Entity
	id     string
	fail   domainagg.ErrorCode
}

// inUnit runs fn inside the unit of work selected by dbc. A caller-managed
// dbc is handed through untouched; otherwise the runner opens, commits or
// rolls back a transaction around fn.
func inUnit(dbc dbctx.Context, deps BaseDeps, u unit, fn func(dbc dbctx.Context) error) error {
	start := time.Now()
	deps = deps.withDefaults()
	u.op = strings.TrimSpace(u.op)
	if u.op == "" {
		u.op = "storage.unit"
	}

	ctx, span := observability.StartSpan(dbc.Context(), u.op,
		attribute.String("storage.entity", string(u.entity)),
		attribute.String("storage.id", u.id),
		attribute.Bool("storage.caller_managed", dbc.CallerManaged()),
	)
	defer span.End()

	var raw error
	if dbc.CallerManaged() {
		raw = fn(dbctx.WithTx(ctx, dbc.Tx))
	} else {
		raw = deps.Runner.InTx(ctx, fn)
	}
	err := classify(u, raw)

	ev := UnitEvent{
		Op:            u.op,
		Entity:        u.entity,
		ID:            u.id,
		Status:        aggregateErrorStatus(err),
		CallerManaged: dbc.CallerManaged(),
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, ev.Status)
		ev.Conflict = domainagg.IsCode(err, domainagg.CodeConflict)
		ev.Retryable = isRetryable(raw)
	}
	ev.Duration = time.Since(start)
	deps.Hooks.UnitFinished(ev)
	return err
}

// classify keeps storage errors produced inside the unit and reports every
// other failure (driver, begin, commit) with the unit's fail code.
func classify(u unit, err error) error {
	if err == nil {
		return nil
	}
	if domainagg.CodeOf(err) != "" {
		return err
	}
	return domainagg.EntityError(u.fail, u.entity, u.id, u.op, err)
}

func aggregateErrorStatus(err error) string {
	if err == nil {
		return "success"
	}
	code := strings.TrimSpace(string(domainagg.CodeOf(err)))
	if code == "" {
		code = strings.TrimSpace(string(domainagg.CodeOf(MapError("storage.status", err))))
	}
	if code == "" {
		return "failure"
	}
	return code
}

func invalid(entity domainagg.Entity, id, op string, err error) error {
	return domainagg.EntityError(domainagg.CodeValidation, entity, id, op, err)
}
