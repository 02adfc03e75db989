// Package builder assembles a manager.MapConfig step by step.
package builder

import (
	"mapbuilder/internal/engine"
	"mapbuilder/internal/manager"
	"mapbuilder/pkg/types"
)

// Builder collects map configuration fields. Each setter replaces the field
// it names; the last call wins. Build does not validate.
type Builder struct {
	cfg      manager.MapConfig
	options  bool
	style    bool
	defaults bool
}

// New returns an empty Builder. Fields never set stay zero.
func New() *Builder { return &Builder{} }

// WithDefaults returns a Builder that fills options, style and container
// from the package defaults when they are not set explicitly.
func WithDefaults() *Builder { return &Builder{defaults: true} }

func (b *Builder) SetContainerID(id string) *Builder {
	b.cfg.ContainerID = id
	return b
}

func (b *Builder) SetOptions(opts types.Options) *Builder {
	b.cfg.Options = opts
	b.options = true
	return b
}

func (b *Builder) SetStyle(style types.Style) *Builder {
	b.cfg.Style = style
	b.style = true
	return b
}

func (b *Builder) SetControls(controls []manager.Control) *Builder {
	b.cfg.Controls = controls
	return b
}

func (b *Builder) SetEventHandlers(handlers []manager.EventHandler) *Builder {
	b.cfg.EventHandlers = handlers
	return b
}

func (b *Builder) SetSources(sources []manager.Source) *Builder {
	b.cfg.Sources = sources
	return b
}

func (b *Builder) SetLayers(layers []manager.Layer) *Builder {
	b.cfg.Layers = layers
	return b
}

func (b *Builder) SetImages(images []manager.Image) *Builder {
	b.cfg.Images = images
	return b
}

// AddControl appends one control.
func (b *Builder) AddControl(c engine.Control, pos engine.Position) *Builder {
	b.cfg.Controls = append(b.cfg.Controls, manager.Control{Control: c, Position: pos})
	return b
}

// On appends one event handler.
func (b *Builder) On(event string, fn func(engine.Event)) *Builder {
	b.cfg.EventHandlers = append(b.cfg.EventHandlers, manager.EventHandler{EventName: event, Handler: engine.NewHandler(fn)})
	return b
}

// AddSource appends one source.
func (b *Builder) AddSource(id string, spec types.SourceSpec) *Builder {
	b.cfg.Sources = append(b.cfg.Sources, manager.Source{ID: id, Source: spec})
	return b
}

// AddLayer appends one layer placed before beforeID, or on top when empty.
func (b *Builder) AddLayer(layer types.LayerSpec, beforeID string) *Builder {
	b.cfg.Layers = append(b.cfg.Layers, manager.Layer{Layer: layer, BeforeID: beforeID})
	return b
}

// Build returns the assembled configuration. Slices are copied so later
// builder calls do not alter a config already handed out.
func (b *Builder) Build() manager.MapConfig {
	cfg := b.cfg
	if b.defaults {
		if !b.options {
			cfg.Options = DefaultOptions()
		}
		if !b.style {
			cfg.Style = DefaultStyle()
		}
		if cfg.ContainerID == "" {
			cfg.ContainerID = DefaultContainerID
		}
	}
	cfg.Controls = append([]manager.Control(nil), cfg.Controls...)
	cfg.EventHandlers = append([]manager.EventHandler(nil), cfg.EventHandlers...)
	cfg.Sources = append([]manager.Source(nil), cfg.Sources...)
	cfg.Layers = append([]manager.Layer(nil), cfg.Layers...)
	cfg.Images = append([]manager.Image(nil), cfg.Images...)
	return cfg
}
