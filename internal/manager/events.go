package manager

// Event represents a lifecycle event of one Initializer run.
// Minimal and stable: name + run ID and optional fields via key/values.
type Event struct {
	Name   string
	RunID  string
	Fields map[string]any
}

// Lifecycle event names.
const (
	EventInitStart       = "init_start"
	EventInitDone        = "init_done"
	EventInitFailed      = "init_failed"
	EventStyleLoaded     = "style_loaded"
	EventSetupFailed     = "setup_failed"
	EventImageRegistered = "image_registered"
	EventImageFailed     = "image_failed"
	EventDestroyStart    = "destroy_start"
	EventDestroyDone     = "destroy_done"
)

// EventPublisher receives events from the initializer. Implementations should be
// lightweight and non-blocking; Publish must not panic.
type EventPublisher interface {
	Publish(Event)
}

// noopPublisher is the default; it drops events.
type noopPublisher struct{}

func (noopPublisher) Publish(Event) {}
