package manager

import (
	"errors"
	"fmt"

	"mapbuilder/internal/engine"
)

// opacityProperties maps a layer type to the paint property that controls
// its opacity. Types not listed here ignore opacity requests.
var opacityProperties = map[string]string{
	"fill":           "fill-opacity",
	"line":           "line-opacity",
	"circle":         "circle-opacity",
	"symbol":         "icon-opacity",
	"raster":         "raster-opacity",
	"fill-extrusion": "fill-extrusion-opacity",
	"heatmap":        "heatmap-opacity",
}

// OpacityProperty returns the opacity paint property for a layer type.
func OpacityProperty(layerType string) (string, bool) {
	p, ok := opacityProperties[layerType]
	return p, ok
}

// LayerManager adds configured layers that are absent, removes the ones it
// added in reverse order, and applies visibility and opacity changes.
type LayerManager struct {
	m      engine.Map
	layers []Layer
	added  []string
}

func NewLayerManager(m engine.Map, layers []Layer) *LayerManager {
	return &LayerManager{m: m, layers: layers}
}

// AddLayers adds each absent layer in configured order. Every source and
// BeforeID a layer references must already exist in the engine.
func (lm *LayerManager) AddLayers() error {
	if lm.m == nil {
		return ErrMapNotCreated
	}
	for _, l := range lm.layers {
		if _, ok := lm.m.GetLayer(l.Layer.ID); ok {
			continue
		}
		if err := lm.m.AddLayer(l.Layer, l.BeforeID); err != nil {
			return fmt.Errorf("add layer %q: %w", l.Layer.ID, err)
		}
		lm.added = append(lm.added, l.Layer.ID)
	}
	return nil
}

// RemoveLayers removes the layers AddLayers added, last first, skipping
// ones that are already gone. Layers owned by the style stay.
func (lm *LayerManager) RemoveLayers() error {
	if lm.m == nil {
		return ErrMapNotCreated
	}
	var errs []error
	for i := len(lm.added) - 1; i >= 0; i-- {
		id := lm.added[i]
		if _, ok := lm.m.GetLayer(id); !ok {
			continue
		}
		if err := lm.m.RemoveLayer(id); err != nil {
			errs = append(errs, fmt.Errorf("remove layer %q: %w", id, err))
		}
	}
	lm.added = nil
	return errors.Join(errs...)
}

// SetLayerVisibility shows or hides a layer. Absent layers are ignored.
func (lm *LayerManager) SetLayerVisibility(id string, visible bool) error {
	if lm.m == nil {
		return ErrMapNotCreated
	}
	if _, ok := lm.m.GetLayer(id); !ok {
		return nil
	}
	v := "none"
	if visible {
		v = "visible"
	}
	return lm.m.SetLayoutProperty(id, "visibility", v)
}

// SetLayerOpacity sets the type-specific opacity property of a layer.
// Absent layers and layer types without an opacity property are ignored.
func (lm *LayerManager) SetLayerOpacity(id string, opacity float64) error {
	if lm.m == nil {
		return ErrMapNotCreated
	}
	spec, ok := lm.m.GetLayer(id)
	if !ok {
		return nil
	}
	prop, ok := OpacityProperty(spec.Type)
	if !ok {
		return nil
	}
	return lm.m.SetPaintProperty(id, prop, opacity)
}
