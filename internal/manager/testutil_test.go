package manager

import (
	"context"
	"image"
	"image/color"
	"testing"
	"time"

	"mapbuilder/internal/engine"
	"mapbuilder/internal/engine/headless"
	"mapbuilder/internal/imageres"
	"mapbuilder/pkg/types"
)

const testContainer = "map"

func baseStyle() types.Style {
	return types.Style{Version: 8, Name: "base"}
}

func geojsonSource() types.SourceSpec {
	return types.SourceSpec{
		Type: "geojson",
		Data: map[string]any{
			"type": "FeatureCollection",
			"features": []any{
				map[string]any{
					"type":       "Feature",
					"geometry":   map[string]any{"type": "Point", "coordinates": []any{51.389, 35.689}},
					"properties": map[string]any{"name": "Tehran"},
				},
			},
		},
	}
}

func circleLayer(id, source string) types.LayerSpec {
	return types.LayerSpec{ID: id, Type: "circle", Source: source}
}

// dot returns a tiny opaque image.
func dot() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	return img
}

func decodedImage() imageres.Resource { return imageres.Decoded(dot()) }

// styledMap returns a headless instance whose style has finished loading.
func styledMap(t *testing.T) *headless.Map {
	t.Helper()
	m, err := headless.NewFactory().New(testContainer, types.Options{})
	if err != nil {
		t.Fatalf("new map: %v", err)
	}
	if err := m.SetStyle(baseStyle()); err != nil {
		t.Fatalf("set style: %v", err)
	}
	hm := m.(*headless.Map)
	hm.Flush()
	return hm
}

// startInit initializes cfg on a fresh headless factory without delivering
// the style-load notification.
func startInit(t *testing.T, cfg MapConfig, opts ...Option) (*Initializer, *headless.Map) {
	t.Helper()
	if cfg.ContainerID == "" {
		cfg.ContainerID = testContainer
	}
	if cfg.Style.Version == 0 {
		cfg.Style = baseStyle()
	}
	f := headless.NewFactory()
	in := NewInitializer(f, cfg, opts...)
	if _, err := in.Initialize(context.Background()); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	return in, f.Last()
}

// newInit builds an Initializer on a fresh factory. The returned func yields
// the created instance once Initialize has run.
func newInit(cfg MapConfig, opts ...Option) (*Initializer, func() *headless.Map) {
	f := headless.NewFactory()
	return NewInitializer(f, cfg, opts...), f.Last
}

// ready initializes cfg and drains the engine task queue.
func ready(t *testing.T, cfg MapConfig, opts ...Option) (*Initializer, *headless.Map) {
	t.Helper()
	in, hm := startInit(t, cfg, opts...)
	hm.Flush()
	return in, hm
}

func waitCtx(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)
	return ctx
}

// filterJournal keeps entries whose op is in ops.
func filterJournal(journal []string, ops ...string) []string {
	var out []string
	for _, e := range journal {
		for _, op := range ops {
			if len(e) > len(op) && e[:len(op)+1] == op+":" {
				out = append(out, e)
				break
			}
		}
	}
	return out
}

func mustControl(t *testing.T, kind string) *engine.BuiltinControl {
	t.Helper()
	c, err := engine.NewControl(kind, nil)
	if err != nil {
		t.Fatalf("control %s: %v", kind, err)
	}
	return c
}
