package types

// Options are the engine construction parameters of a map session.
type Options struct {
	// Initial center as [lng, lat].
	// example: [51.389, 35.6892]
	Center [2]float64 `json:"center" yaml:"center" toml:"center" example:"51.389,35.6892"`
	// Initial zoom level.
	// example: 5
	Zoom    float64 `json:"zoom" yaml:"zoom" toml:"zoom" example:"5"`
	MinZoom float64 `json:"min_zoom,omitempty" yaml:"min_zoom,omitempty" toml:"min_zoom,omitempty"`
	MaxZoom float64 `json:"max_zoom,omitempty" yaml:"max_zoom,omitempty" toml:"max_zoom,omitempty"`
	Bearing float64 `json:"bearing,omitempty" yaml:"bearing,omitempty" toml:"bearing,omitempty"`
	Pitch   float64 `json:"pitch,omitempty" yaml:"pitch,omitempty" toml:"pitch,omitempty"`
	// Disable user interaction when false. Nil means the engine default (interactive).
	Interactive *bool `json:"interactive,omitempty" yaml:"interactive,omitempty" toml:"interactive,omitempty"`
	// When false the engine does not add its own attribution control.
	AttributionControl bool `json:"attribution_control,omitempty" yaml:"attribution_control,omitempty" toml:"attribution_control,omitempty"`
}

// Style is a style document. Field names follow the external style format.
type Style struct {
	// Style format version; engines only accept 8.
	// example: 8
	Version int                   `json:"version" yaml:"version" toml:"version" example:"8"`
	Name    string                `json:"name,omitempty" yaml:"name,omitempty" toml:"name,omitempty"`
	Sprite  string                `json:"sprite,omitempty" yaml:"sprite,omitempty" toml:"sprite,omitempty"`
	Glyphs  string                `json:"glyphs,omitempty" yaml:"glyphs,omitempty" toml:"glyphs,omitempty"`
	Sources map[string]SourceSpec `json:"sources" yaml:"sources" toml:"sources"`
	Layers  []LayerSpec           `json:"layers" yaml:"layers" toml:"layers"`
}

// SourceSpec describes a data source. Data is only meaningful for geojson sources.
type SourceSpec struct {
	// example: geojson
	Type        string   `json:"type" yaml:"type" toml:"type" example:"geojson"`
	Data        any      `json:"data,omitempty" yaml:"data,omitempty" toml:"data,omitempty"`
	URL         string   `json:"url,omitempty" yaml:"url,omitempty" toml:"url,omitempty"`
	Tiles       []string `json:"tiles,omitempty" yaml:"tiles,omitempty" toml:"tiles,omitempty"`
	TileSize    int      `json:"tileSize,omitempty" yaml:"tileSize,omitempty" toml:"tileSize,omitempty"`
	MinZoom     float64  `json:"minzoom,omitempty" yaml:"minzoom,omitempty" toml:"minzoom,omitempty"`
	MaxZoom     float64  `json:"maxzoom,omitempty" yaml:"maxzoom,omitempty" toml:"maxzoom,omitempty"`
	Attribution string   `json:"attribution,omitempty" yaml:"attribution,omitempty" toml:"attribution,omitempty"`
	Cluster     bool     `json:"cluster,omitempty" yaml:"cluster,omitempty" toml:"cluster,omitempty"`
}

// LayerSpec describes a visual layer bound to a source.
type LayerSpec struct {
	// example: points-layer
	ID string `json:"id" yaml:"id" toml:"id" example:"points-layer"`
	// One of fill, line, circle, symbol, raster, fill-extrusion, heatmap, hillshade, background.
	// example: symbol
	Type        string         `json:"type" yaml:"type" toml:"type" example:"symbol"`
	Source      string         `json:"source,omitempty" yaml:"source,omitempty" toml:"source,omitempty"`
	SourceLayer string         `json:"source-layer,omitempty" yaml:"source-layer,omitempty" toml:"source-layer,omitempty"`
	Filter      []any          `json:"filter,omitempty" yaml:"filter,omitempty" toml:"filter,omitempty"`
	MinZoom     float64        `json:"minzoom,omitempty" yaml:"minzoom,omitempty" toml:"minzoom,omitempty"`
	MaxZoom     float64        `json:"maxzoom,omitempty" yaml:"maxzoom,omitempty" toml:"maxzoom,omitempty"`
	Layout      map[string]any `json:"layout,omitempty" yaml:"layout,omitempty" toml:"layout,omitempty"`
	Paint       map[string]any `json:"paint,omitempty" yaml:"paint,omitempty" toml:"paint,omitempty"`
}

// Clone returns a copy whose layout and paint maps can be mutated independently.
func (l LayerSpec) Clone() LayerSpec {
	out := l
	if l.Layout != nil {
		out.Layout = make(map[string]any, len(l.Layout))
		for k, v := range l.Layout {
			out.Layout[k] = v
		}
	}
	if l.Paint != nil {
		out.Paint = make(map[string]any, len(l.Paint))
		for k, v := range l.Paint {
			out.Paint[k] = v
		}
	}
	if l.Filter != nil {
		out.Filter = append([]any(nil), l.Filter...)
	}
	return out
}
