package types

// MapDocument is the file/HTTP form of a map configuration. Live objects
// (controls, handlers, image resources) are described declaratively and
// resolved by the host.
type MapDocument struct {
	Options  Options       `json:"options" yaml:"options" toml:"options"`
	Style    Style         `json:"style" yaml:"style" toml:"style"`
	Controls []ControlSpec `json:"controls,omitempty" yaml:"controls,omitempty" toml:"controls,omitempty"`
	// Event names that get a logging handler attached.
	// example: ["load","click"]
	LogEvents []string      `json:"log_events,omitempty" yaml:"log_events,omitempty" toml:"log_events,omitempty"`
	Sources   []SourceEntry `json:"sources,omitempty" yaml:"sources,omitempty" toml:"sources,omitempty"`
	Layers    []LayerEntry  `json:"layers,omitempty" yaml:"layers,omitempty" toml:"layers,omitempty"`
	Images    []ImageSpec   `json:"images,omitempty" yaml:"images,omitempty" toml:"images,omitempty"`
}

// ControlSpec declares a catalogue control.
type ControlSpec struct {
	// One of navigation, scale, fullscreen, attribution, geolocate.
	// example: scale
	Type string `json:"type" yaml:"type" toml:"type" example:"scale"`
	// Anchor corner; empty means top-right.
	// example: bottom-right
	Position string         `json:"position,omitempty" yaml:"position,omitempty" toml:"position,omitempty" example:"bottom-right"`
	Options  map[string]any `json:"options,omitempty" yaml:"options,omitempty" toml:"options,omitempty"`
}

// SourceEntry is a named source.
type SourceEntry struct {
	// example: points-source
	ID     string     `json:"id" yaml:"id" toml:"id" example:"points-source"`
	Source SourceSpec `json:"source" yaml:"source" toml:"source"`
}

// LayerEntry is a layer plus its optional insertion point.
type LayerEntry struct {
	Layer    LayerSpec `json:"layer" yaml:"layer" toml:"layer"`
	BeforeID string    `json:"before_id,omitempty" yaml:"before_id,omitempty" toml:"before_id,omitempty"`
}

// ImageSpec names a sprite image by file path or URL. Exactly one should be set.
type ImageSpec struct {
	// example: tehran
	ID   string `json:"id" yaml:"id" toml:"id" example:"tehran"`
	Path string `json:"path,omitempty" yaml:"path,omitempty" toml:"path,omitempty"`
	URL  string `json:"url,omitempty" yaml:"url,omitempty" toml:"url,omitempty"`
}
