package host

import (
	"errors"
	"fmt"

	"mapbuilder/internal/builder"
	"mapbuilder/internal/engine"
	"mapbuilder/internal/manager"
	"mapbuilder/internal/registry"
	"mapbuilder/pkg/types"
)

// Resolve turns a declarative document into a MapConfig: controls come from
// the catalogue, log_events get logging handlers and images start decoding
// on the host's loader. Missing options and style fall back to the builder
// defaults.
func (h *Host) Resolve(doc types.MapDocument) (manager.MapConfig, error) {
	var errs []error
	b := builder.WithDefaults().SetContainerID(h.container)
	if doc.Options != (types.Options{}) {
		b.SetOptions(doc.Options)
	}
	if doc.Style.Version != 0 {
		b.SetStyle(doc.Style)
	}

	for i, c := range doc.Controls {
		ctl, err := engine.NewControl(c.Type, c.Options)
		if err != nil {
			errs = append(errs, fmt.Errorf("control %d: %w", i, err))
			continue
		}
		pos, err := engine.ParsePosition(c.Position)
		if err != nil {
			errs = append(errs, fmt.Errorf("control %d: %w", i, err))
			continue
		}
		b.AddControl(ctl, pos)
	}

	for _, name := range doc.LogEvents {
		name := name
		b.On(name, func(e engine.Event) {
			h.log.Info().Str("event", name).Interface("data", e.Data).Msg("map event")
		})
	}

	for _, s := range doc.Sources {
		b.AddSource(s.ID, s.Source)
	}
	for _, l := range doc.Layers {
		b.AddLayer(l.Layer, l.BeforeID)
	}

	specs := doc.Images
	if h.spriteDir != "" {
		sprites, err := registry.LoadDir(h.spriteDir)
		if err != nil {
			errs = append(errs, fmt.Errorf("sprites: %w", err))
		} else {
			specs = registry.Merge(specs, sprites)
		}
	}
	if len(errs) > 0 {
		return manager.MapConfig{}, fmt.Errorf("%w: %w", ErrInvalidDocument, errors.Join(errs...))
	}
	images, err := h.loadImages(specs)
	if err != nil {
		return manager.MapConfig{}, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	b.SetImages(images)
	return b.Build(), nil
}

func (h *Host) loadImages(specs []types.ImageSpec) ([]manager.Image, error) {
	if len(specs) == 0 {
		return nil, nil
	}
	if h.loader == nil {
		return nil, errors.New("document declares images but no image loader is configured")
	}
	for _, s := range specs {
		if (s.Path == "") == (s.URL == "") {
			return nil, fmt.Errorf("image %q: exactly one of path or url is required", s.ID)
		}
	}
	images := make([]manager.Image, 0, len(specs))
	for _, s := range specs {
		img := manager.Image{ID: s.ID}
		if s.Path != "" {
			img.Src = h.loader.File(s.Path)
		} else {
			img.Src = h.loader.URL(h.baseCtx, s.URL)
		}
		images = append(images, img)
	}
	return images, nil
}
