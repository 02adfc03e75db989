package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const demoYAML = `
options:
  center: [51.40426, 35.730123]
  zoom: 4
style:
  version: 8
  sources:
    raster-tiles:
      type: raster
      tiles: ["https://tile.openstreetmap.org/{z}/{x}/{y}.png"]
      tileSize: 256
  layers:
    - id: simple-tiles
      type: raster
      source: raster-tiles
controls:
  - type: scale
    position: bottom-right
    options: {unit: metric}
  - type: navigation
log_events: [load, click]
sources:
  - id: points-source
    source:
      type: geojson
      data:
        type: FeatureCollection
        features:
          - type: Feature
            geometry: {type: Point, coordinates: [51.389, 35.6892]}
            properties: {title: Tehran}
layers:
  - layer:
      id: points-layer
      type: symbol
      source: points-source
      layout: {icon-image: tehran, icon-allow-overlap: true}
    before_id: simple-tiles
images:
  - id: tehran
    path: sprites/tehran.png
  - id: mashhad
    url: https://cdn.example.com/mashhad.png
`

func TestLoadDocument_YAML(t *testing.T) {
	d := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(d, "sprites"), 0o755))
	writeTempFile(t, filepath.Join(d, "sprites"), "tehran.png", "")
	p := writeTempFile(t, d, "map.yaml", demoYAML)
	doc, err := LoadDocument(p)
	require.NoError(t, err)

	assert.Equal(t, [2]float64{51.40426, 35.730123}, doc.Options.Center)
	assert.Equal(t, 8, doc.Style.Version)
	assert.Equal(t, 256, doc.Style.Sources["raster-tiles"].TileSize)
	require.Len(t, doc.Controls, 2)
	assert.Equal(t, "metric", doc.Controls[0].Options["unit"])
	assert.Equal(t, []string{"load", "click"}, doc.LogEvents)
	require.Len(t, doc.Sources, 1)
	data, ok := doc.Sources[0].Source.Data.(map[string]any)
	require.True(t, ok, "data decoded as %T", doc.Sources[0].Source.Data)
	assert.Equal(t, "FeatureCollection", data["type"])
	require.Len(t, doc.Layers, 1)
	assert.Equal(t, "simple-tiles", doc.Layers[0].BeforeID)
	assert.Equal(t, true, doc.Layers[0].Layer.Layout["icon-allow-overlap"])
	require.Len(t, doc.Images, 2)
	assert.Equal(t, filepath.Join(d, "sprites", "tehran.png"), doc.Images[0].Path)
	assert.Equal(t, "https://cdn.example.com/mashhad.png", doc.Images[1].URL)
}

func TestLoadDocument_MissingImageFile(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "map.yaml", demoYAML)
	_, err := LoadDocument(p)
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist), "got %v", err)
	assert.Contains(t, err.Error(), `image "tehran"`)
}

func TestLoadDocument_TOML(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "map.toml", `
[options]
center = [59.6168, 36.2974]
zoom = 6

[style]
version = 8

[[sources]]
id = "s1"
[sources.source]
type = "geojson"
data = "https://example.com/points.geojson"

[[layers]]
[layers.layer]
id = "l1"
type = "circle"
source = "s1"
`)
	doc, err := LoadDocument(p)
	require.NoError(t, err)
	assert.Equal(t, 6.0, doc.Options.Zoom)
	require.Len(t, doc.Sources, 1)
	assert.Equal(t, "https://example.com/points.geojson", doc.Sources[0].Source.Data)
	require.Len(t, doc.Layers, 1)
	assert.Equal(t, "s1", doc.Layers[0].Layer.Source)
}

func TestParseDocument_JSON(t *testing.T) {
	doc, err := ParseDocument([]byte(`{"style":{"version":8},"images":[{"id":"a","path":"/abs/a.png"}]}`), "json")
	require.NoError(t, err)
	assert.Equal(t, "/abs/a.png", doc.Images[0].Path)

	_, err = ParseDocument([]byte(`{}`), "xml")
	assert.Error(t, err)
}
