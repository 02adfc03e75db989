// Package engine defines the capability surface of a map rendering engine as
// consumed by the lifecycle managers. Implementations own drawing, projection
// and tile fetching; callers only sequence resources onto them.
package engine

import (
	"image"

	"mapbuilder/pkg/types"
)

// Event names emitted by engines.
const (
	EventStyleLoad = "style.load"
	EventStyleData = "styledata"
	EventLoad      = "load"
	EventRemove    = "remove"
	EventError     = "error"
)

// Factory creates engine instances bound to a container.
type Factory interface {
	// New creates an instance rendering into containerID. It fails when the
	// container cannot be resolved.
	New(containerID string, opts types.Options) (Map, error)
}

// Map is a live engine instance.
type Map interface {
	AddControl(c Control, pos Position) error
	RemoveControl(c Control) error

	On(event string, h Handler)
	Off(event string, h Handler)
	// Once subscribes h for the next emission of event only.
	Once(event string, h Handler)

	// SetStyle replaces the style. Completion is asynchronous and signalled
	// with EventStyleLoad; it is never emitted before SetStyle returns.
	SetStyle(style types.Style) error

	AddSource(id string, spec types.SourceSpec) error
	RemoveSource(id string) error
	// GetSource returns nil when no source with id exists.
	GetSource(id string) Source

	AddLayer(layer types.LayerSpec, beforeID string) error
	RemoveLayer(id string) error
	GetLayer(id string) (types.LayerSpec, bool)
	SetLayoutProperty(layerID, name string, value any) error
	SetPaintProperty(layerID, name string, value any) error

	AddImage(id string, img image.Image) error
	RemoveImage(id string) error
	HasImage(id string) bool

	// Remove disposes the instance. Further calls fail.
	Remove() error
}

// Source is a live data source.
type Source interface {
	ID() string
	Type() string
}

// GeoJSONSource is a source whose data can be replaced in place.
type GeoJSONSource interface {
	Source
	SetData(data any) error
}
