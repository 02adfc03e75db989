package manager

import (
	"mapbuilder/internal/engine"
	"mapbuilder/internal/imageres"
	"mapbuilder/pkg/types"
)

// State is the lifecycle state of an Initializer.
type State string

const (
	StateIdle         State = "idle"
	StateInitializing State = "initializing"
	StateReady        State = "ready"
	StateFailed       State = "failed"
	StateDestroyed    State = "destroyed"
)

// MapConfig is the complete description of one map session. It must not be
// modified after it is handed to an Initializer.
type MapConfig struct {
	// ContainerID identifies where the engine renders.
	ContainerID   string
	Options       types.Options
	Style         types.Style
	Controls      []Control
	EventHandlers []EventHandler
	Sources       []Source
	Layers        []Layer
	Images        []Image
}

// Control is a control and its anchor. An empty Position means top-right.
type Control struct {
	Control  engine.Control
	Position engine.Position
}

// EventHandler subscribes Handler to EventName. The same Handler value is
// used to unsubscribe.
type EventHandler struct {
	EventName string
	Handler   engine.Handler
}

// Source is a named data source.
type Source struct {
	ID     string
	Source types.SourceSpec
}

// Layer is a layer with an optional insertion point. An empty BeforeID
// appends to the top of the draw order.
type Layer struct {
	Layer    types.LayerSpec
	BeforeID string
}

// Image is a sprite image registered under ID once Src has decoded.
type Image struct {
	ID  string
	Src imageres.Resource
}

// ImageState tracks one configured image.
type ImageState int

const (
	ImagePending ImageState = iota
	ImageLoaded
	ImageRegistered
	ImageFailed
	// ImageDiscarded marks a completion that arrived after teardown.
	ImageDiscarded
)

func (s ImageState) String() string {
	switch s {
	case ImagePending:
		return "pending"
	case ImageLoaded:
		return "loaded"
	case ImageRegistered:
		return "registered"
	case ImageFailed:
		return "failed"
	case ImageDiscarded:
		return "discarded"
	default:
		return "unknown"
	}
}
