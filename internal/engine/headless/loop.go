package headless

import (
	"context"

	"mapbuilder/internal/engine"
)

type listener struct {
	h    engine.Handler
	once bool
}

// post queues fn for the next loop turn.
func (m *Map) post(fn func()) {
	m.mu.Lock()
	m.tasks = append(m.tasks, fn)
	m.mu.Unlock()
	select {
	case m.wake <- struct{}{}:
	default:
	}
}

// Flush runs queued tasks, including tasks queued while flushing, on the
// calling goroutine and returns how many ran.
func (m *Map) Flush() int {
	n := 0
	for {
		m.mu.Lock()
		if len(m.tasks) == 0 {
			m.mu.Unlock()
			return n
		}
		t := m.tasks[0]
		m.tasks = m.tasks[1:]
		m.mu.Unlock()
		t()
		n++
	}
}

// Run drains tasks as they are posted until ctx is done or the map is removed.
func (m *Map) Run(ctx context.Context) {
	for {
		m.Flush()
		select {
		case <-ctx.Done():
			return
		case <-m.done:
			return
		case <-m.wake:
		}
	}
}

// emit delivers e to the listeners of e.Type. Handlers run without the lock
// held so they may call back into the map.
func (m *Map) emit(e engine.Event) {
	m.mu.Lock()
	ls := m.listeners[e.Type]
	if len(ls) == 0 {
		m.mu.Unlock()
		return
	}
	snapshot := make([]engine.Handler, 0, len(ls))
	kept := ls[:0]
	for _, l := range ls {
		snapshot = append(snapshot, l.h)
		if !l.once {
			kept = append(kept, l)
		}
	}
	if len(kept) == 0 {
		delete(m.listeners, e.Type)
	} else {
		m.listeners[e.Type] = kept
	}
	m.mu.Unlock()

	e.Target = m
	for _, h := range snapshot {
		h.HandleEvent(e)
	}
}
