package manager

import "mapbuilder/internal/engine"

// EventManager subscribes the configured handlers and unsubscribes the same
// handler values on teardown.
type EventManager struct {
	m        engine.Map
	handlers []EventHandler
}

func NewEventManager(m engine.Map, handlers []EventHandler) *EventManager {
	return &EventManager{m: m, handlers: handlers}
}

func (em *EventManager) RegisterEvents() {
	if em.m == nil {
		return
	}
	for _, h := range em.handlers {
		if h.Handler == nil || h.EventName == "" {
			continue
		}
		em.m.On(h.EventName, h.Handler)
	}
}

func (em *EventManager) UnregisterEvents() {
	if em.m == nil {
		return
	}
	for _, h := range em.handlers {
		if h.Handler == nil || h.EventName == "" {
			continue
		}
		em.m.Off(h.EventName, h.Handler)
	}
}
