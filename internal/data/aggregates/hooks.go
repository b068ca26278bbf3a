package aggregates

import (
	"time"

	domainagg "github.com/yungbote/coincollector-backend/internal/domain/aggregates"
	"github.com/yungbote/coincollector-backend/internal/observability"
	"github.com/yungbote/coincollector-backend/internal/platform/logger"
)

// UnitEvent reports one finished storage unit of work. Status is "success"
// or the error code the unit failed with.
type UnitEvent struct {
	Op            string
	Entity        domainagg.Entity
	ID            string
	Status        string
	CallerManaged bool
	Conflict      bool
	Retryable     bool
	Duration      time.Duration
}

// Hooks receives an event for every storage unit of work, nested units of a
// cascade included.
type Hooks interface {
	UnitFinished(ev UnitEvent)
}

type noopHooks struct{}

func (noopHooks) UnitFinished(UnitEvent) {}

type observabilityHooks struct {
	metrics *observability.Metrics
	log     *logger.Logger
}

// NewObservabilityHooks exports unit events as Prometheus metrics labelled by
// entity kind and logs conflicts and retryable failures at debug level.
func NewObservabilityHooks(metrics *observability.Metrics, log *logger.Logger) Hooks {
	if metrics == nil && log == nil {
		return noopHooks{}
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &observabilityHooks{metrics: metrics, log: log.With("component", "StorageHooks")}
}

func (h *observabilityHooks) UnitFinished(ev UnitEvent) {
	entity := string(ev.Entity)
	h.metrics.ObserveStorageOperation(observability.StorageOperation{
		Entity:        entity,
		Op:            ev.Op,
		Status:        ev.Status,
		CallerManaged: ev.CallerManaged,
	}, ev.Duration)
	if ev.Conflict {
		h.metrics.IncStorageConflict(entity, ev.Op)
		h.log.Debug("Storage conflict", "op", ev.Op, "entity", entity, "id", ev.ID)
	}
	if ev.Retryable {
		h.metrics.IncStorageRetry(entity, ev.Op)
		h.log.Debug("Retryable storage failure", "op", ev.Op, "entity", entity, "id", ev.ID, "caller_managed", ev.CallerManaged)
	}
}
