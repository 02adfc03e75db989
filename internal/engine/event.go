package engine

// Event is delivered to handlers.
type Event struct {
	Type   string
	Target Map
	Data   any
}

// Handler receives engine events. Implementations must be comparable
// (pointer types): Off removes the subscription whose handler == h.
type Handler interface {
	HandleEvent(Event)
}

type funcHandler struct {
	fn func(Event)
}

func (h *funcHandler) HandleEvent(e Event) { h.fn(e) }

// NewHandler wraps fn in a Handler with a stable identity. Keep the returned
// value to unsubscribe; wrapping the same fn twice yields two handlers.
func NewHandler(fn func(Event)) Handler {
	return &funcHandler{fn: fn}
}
