package testutil

import (
	"sync"

	"github.com/yungbote/coincollector-backend/internal/data/aggregates"
	domainagg "github.com/yungbote/coincollector-backend/internal/domain/aggregates"
)

// HooksRecorder keeps every storage unit event for assertions.
type HooksRecorder struct {
	mu     sync.Mutex
	events []aggregates.UnitEvent
}

var _ aggregates.Hooks = (*HooksRecorder)(nil)

func (h *HooksRecorder) UnitFinished(ev aggregates.UnitEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, ev)
}

// Events returns a copy of the recorded events in completion order. Nested
// units finish before the unit that cascaded into them.
func (h *HooksRecorder) Events() []aggregates.UnitEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]aggregates.UnitEvent(nil), h.events...)
}

// Statuses returns the statuses recorded for op.
func (h *HooksRecorder) Statuses(op string) []string {
	var out []string
	for _, ev := range h.Events() {
		if ev.Op == op {
			out = append(out, ev.Status)
		}
	}
	return out
}

// Conflicts returns the ops of units that ended in a conflict.
func (h *HooksRecorder) Conflicts() []string {
	var out []string
	for _, ev := range h.Events() {
		if ev.Conflict {
			out = append(out, ev.Op)
		}
	}
	return out
}

// Retries returns the ops of units that ended in a retryable failure.
func (h *HooksRecorder) Retries() []string {
	var out []string
	for _, ev := range h.Events() {
		if ev.Retryable {
			out = append(out, ev.Op)
		}
	}
	return out
}

// ForEntity returns the events of units about entity.
func (h *HooksRecorder) ForEntity(entity domainagg.Entity) []aggregates.UnitEvent {
	var out []aggregates.UnitEvent
	for _, ev := range h.Events() {
		if ev.Entity == entity {
			out = append(out, ev)
		}
	}
	return out
}
