package headless

import (
	"encoding/json"
	"fmt"
	"strings"

	geom "github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"

	"mapbuilder/internal/engine"
	"mapbuilder/pkg/types"
)

var knownSourceTypes = map[string]bool{
	"geojson":    true,
	"vector":     true,
	"raster":     true,
	"raster-dem": true,
	"image":      true,
	"video":      true,
}

type source struct {
	m        *Map
	id       string
	spec     types.SourceSpec
	features int
}

func newSource(m *Map, id string, spec types.SourceSpec) (*source, error) {
	if !knownSourceTypes[spec.Type] {
		return nil, &engine.Error{Op: "addSource", ID: id, Msg: fmt.Sprintf("unknown source type %q", spec.Type)}
	}
	s := &source{m: m, id: id, spec: spec}
	if spec.Type == "geojson" {
		n, err := countFeatures(spec.Data)
		if err != nil {
			return nil, &engine.Error{Op: "addSource", ID: id, Msg: err.Error()}
		}
		s.features = n
	}
	return s, nil
}

func (s *source) ID() string   { return s.id }
func (s *source) Type() string { return s.spec.Type }

type geojsonSource struct {
	*source
}

// SetData replaces the source's data after validating it as GeoJSON.
func (g *geojsonSource) SetData(data any) error {
	n, err := countFeatures(data)
	if err != nil {
		return &engine.Error{Op: "setData", ID: g.id, Msg: err.Error()}
	}
	m := g.m
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.removed {
		return engine.ErrRemoved
	}
	cur, ok := m.sources[g.id]
	if !ok {
		return &engine.Error{Op: "setData", ID: g.id, Msg: "source does not exist"}
	}
	cur.spec.Data = data
	cur.features = n
	m.record("setData", g.id)
	return nil
}

// Features returns the feature count parsed from the source's current data.
func (g *geojsonSource) Features() int {
	g.m.mu.Lock()
	defer g.m.mu.Unlock()
	if cur, ok := g.m.sources[g.id]; ok {
		return cur.features
	}
	return 0
}

// countFeatures validates GeoJSON data and returns its feature count. A
// string that is not a JSON object is taken as a URL and not fetched.
func countFeatures(data any) (int, error) {
	var raw []byte
	switch v := data.(type) {
	case nil:
		return 0, nil
	case *geojson.FeatureCollection:
		return len(v.Features), nil
	case *geojson.Feature:
		return 1, nil
	case string:
		if !strings.HasPrefix(strings.TrimSpace(v), "{") {
			return 0, nil
		}
		raw = []byte(v)
	case []byte:
		raw = v
	case json.RawMessage:
		raw = v
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return 0, fmt.Errorf("encode geojson: %w", err)
		}
		raw = b
	}

	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(raw, &head); err != nil {
		return 0, fmt.Errorf("invalid geojson: %w", err)
	}
	switch head.Type {
	case "FeatureCollection":
		var fc geojson.FeatureCollection
		if err := json.Unmarshal(raw, &fc); err != nil {
			return 0, fmt.Errorf("invalid feature collection: %w", err)
		}
		return len(fc.Features), nil
	case "Feature":
		var f geojson.Feature
		if err := json.Unmarshal(raw, &f); err != nil {
			return 0, fmt.Errorf("invalid feature: %w", err)
		}
		return 1, nil
	case "":
		return 0, fmt.Errorf("invalid geojson: missing type")
	default:
		var g geom.T
		if err := geojson.Unmarshal(raw, &g); err != nil {
			return 0, fmt.Errorf("invalid geometry: %w", err)
		}
		return 1, nil
	}
}
