package doculyzer

import (
	"sync"

	"github.com/msureshc21/Doculyzer/pkg/facts"
	"github.com/msureshc21/Doculyzer/pkg/resolve"
)

// Hook function types for fact events.
type (
	// FactCreatedHook is called when a new fact is created.
	FactCreatedHook func(fact facts.Fact)

	// FactUpdatedHook is called when a fact's value or confidence changes.
	FactUpdatedHook func(fact facts.Fact)

	// FactDeprecatedHook is called when a fact is retired.
	FactDeprecatedHook func(fact facts.Fact)
)

// hooks manages event callbacks for fact changes.
type hooks struct {
	mu           sync.RWMutex
	onCreated    []FactCreatedHook
	onUpdated    []FactUpdatedHook
	onDeprecated []FactDeprecatedHook
}

func newHooks() *hooks {
	return &hooks{}
}

// OnFactCreated registers a callback for new facts.
func (h *hooks) OnFactCreated(fn FactCreatedHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onCreated = append(h.onCreated, fn)
}

// OnFactUpdated registers a callback for fact changes.
func (h *hooks) OnFactUpdated(fn FactUpdatedHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onUpdated = append(h.onUpdated, fn)
}

// OnFactDeprecated registers a callback for retired facts.
func (h *hooks) OnFactDeprecated(fn FactDeprecatedHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onDeprecated = append(h.onDeprecated, fn)
}

// triggerResult fires hooks for each committed outcome in a batch.
// Suppressed, rejected, and failed candidates changed nothing and stay
// silent.
func (h *hooks) triggerResult(result *resolve.Result) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, out := range result.Touched() {
		if out.Fact == nil {
			continue
		}
		if out.Action == resolve.ActionCreated {
			for _, fn := range h.onCreated {
				fn(*out.Fact)
			}
			continue
		}
		for _, fn := range h.onUpdated {
			fn(*out.Fact)
		}
	}
}

// triggerUpdated fires update hooks for a single fact.
func (h *hooks) triggerUpdated(fact *facts.Fact) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, fn := range h.onUpdated {
		fn(*fact)
	}
}

// triggerDeprecated fires deprecation hooks for a single fact.
func (h *hooks) triggerDeprecated(fact *facts.Fact) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, fn := range h.onDeprecated {
		fn(*fact)
	}
}
