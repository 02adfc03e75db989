package builder

import "mapbuilder/pkg/types"

// Defaults for a map that declares nothing. They centre on Tehran and draw
// OpenStreetMap raster tiles.
const (
	DefaultContainerID = "maplibregl-element"
	DefaultZoom        = 4
	DefaultMinZoom     = 1
	DefaultMaxZoom     = 18

	BaseMapSourceID = "raster-tiles"
	BaseMapLayerID  = "simple-tiles"
)

// DefaultCenter is [longitude, latitude].
var DefaultCenter = [2]float64{51.40426, 35.730123}

// DefaultOptions returns the construction options used when none are set.
func DefaultOptions() types.Options {
	return types.Options{
		Center:  DefaultCenter,
		Zoom:    DefaultZoom,
		MinZoom: DefaultMinZoom,
		MaxZoom: DefaultMaxZoom,
	}
}

// DefaultStyle returns a style with a single OpenStreetMap raster layer.
func DefaultStyle() types.Style {
	return types.Style{
		Version: 8,
		Name:    "osm-raster",
		Sources: map[string]types.SourceSpec{
			BaseMapSourceID: {
				Type:     "raster",
				Tiles:    []string{"https://tile.openstreetmap.org/{z}/{x}/{y}.png"},
				TileSize: 256,
			},
		},
		Layers: []types.LayerSpec{{
			ID:      BaseMapLayerID,
			Type:    "raster",
			Source:  BaseMapSourceID,
			MaxZoom: 19,
		}},
	}
}
