package types

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: invalid JSON body
	Error string `json:"error" example:"invalid JSON body"`
	// HTTP status code.
	// example: 400
	Code int `json:"code" example:"400"`
}

// VisibilityRequest is the body of PUT /layers/{id}/visibility.
type VisibilityRequest struct {
	// example: true
	Visible bool `json:"visible" example:"true"`
}

// OpacityRequest is the body of PUT /layers/{id}/opacity.
type OpacityRequest struct {
	// example: 0.5
	Opacity float64 `json:"opacity" example:"0.5"`
}

// RemoveImagesRequest is the body of DELETE /images.
type RemoveImagesRequest struct {
	// example: ["tehran"]
	IDs []string `json:"ids"`
}

// LayerStatus summarizes a configured layer.
type LayerStatus struct {
	// example: points-layer
	ID string `json:"id" example:"points-layer"`
	// example: symbol
	Type string `json:"type" example:"symbol"`
	// example: points-source
	Source string `json:"source,omitempty" example:"points-source"`
	// Whether the engine currently reports the layer.
	Present bool `json:"present"`
}

// ImageStatus summarizes a configured image.
type ImageStatus struct {
	// example: tehran
	ID string `json:"id" example:"tehran"`
	// One of pending, loaded, registered, failed, discarded.
	// example: registered
	State string `json:"state" example:"registered"`
	Error string `json:"error,omitempty"`
}

// StatusResponse is returned by GET /status.
type StatusResponse struct {
	// Lifecycle state: idle, initializing, ready, destroyed.
	// example: ready
	State string `json:"state" example:"ready"`
	// Identifier of the current initializer run.
	RunID string `json:"run_id,omitempty"`
	// example: map
	ContainerID string `json:"container_id,omitempty" example:"map"`
	// Whether the style-load setup has completed.
	StyleLoaded bool          `json:"style_loaded"`
	Controls    int           `json:"controls"`
	Events      int           `json:"events"`
	Sources     []string      `json:"sources"`
	Layers      []LayerStatus `json:"layers"`
	Images      []ImageStatus `json:"images"`
	// Last error observed by the host (setup or image failure).
	LastError string `json:"last_error,omitempty"`
	// Number of configurations applied since start.
	// example: 3
	AppliedTotal uint64 `json:"applied_total" example:"3"`
	// example: 3600
	UptimeSeconds int64 `json:"uptime_seconds" example:"3600"`
}
