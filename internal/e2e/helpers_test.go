package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"mapbuilder/internal/engine/headless"
	"mapbuilder/internal/host"
	"mapbuilder/internal/httpapi"
	"mapbuilder/internal/imageres"
	"mapbuilder/internal/manager"
	"mapbuilder/pkg/types"
)

type env struct {
	srv       *httptest.Server
	host      *host.Host
	factory   *headless.Factory
	publisher *manager.MemoryPublisher
}

// newServer wires the HTTP API to a host on the headless engine, with the
// engine loop running in the background like `mapbuilder serve`.
func newServer(t *testing.T, opts ...host.Option) *env {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	loader, err := imageres.NewLoader(2)
	if err != nil {
		t.Fatalf("loader: %v", err)
	}
	factory := headless.NewFactory(headless.WithLoop(ctx), headless.WithContainers("map"))
	pub := manager.NewMemoryPublisher()
	base := []host.Option{
		host.WithImageLoader(loader),
		host.WithEventPublisher(pub),
		host.WithStrict(true),
		host.WithBaseContext(ctx),
	}
	h := host.New(factory, "map", append(base, opts...)...)
	t.Cleanup(func() { _ = h.Close() })

	httpapi.SetBaseContext(ctx)
	srv := httptest.NewServer(httpapi.NewMux(h))
	t.Cleanup(srv.Close)
	return &env{srv: srv, host: h, factory: factory, publisher: pub}
}

func (e *env) do(t *testing.T, method, path, ct string, body []byte) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequest(method, e.srv.URL+path, bytes.NewReader(body))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if ct != "" {
		req.Header.Set("Content-Type", ct)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	return resp, b
}

func (e *env) putJSON(t *testing.T, path string, v any) (*http.Response, []byte) {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return e.do(t, http.MethodPut, path, "application/json", b)
}

func (e *env) status(t *testing.T) types.StatusResponse {
	t.Helper()
	resp, b := e.do(t, http.MethodGet, "/status", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("/status: %d %s", resp.StatusCode, b)
	}
	var st types.StatusResponse
	if err := json.Unmarshal(b, &st); err != nil {
		t.Fatalf("status json: %v", err)
	}
	return st
}

// waitReady polls /readyz until the map finished its style setup.
func (e *env) waitReady(t *testing.T) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		resp, _ := e.do(t, http.MethodGet, "/readyz", "", nil)
		if resp.StatusCode == http.StatusOK {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("map not ready, status: %+v", e.status(t))
}

func writePNG(t *testing.T, dir, name string) string {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 2, 2))); err != nil {
		t.Fatalf("encode: %v", err)
	}
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return p
}

func pointsDoc() types.MapDocument {
	return types.MapDocument{
		Style: types.Style{
			Version: 8,
			Sources: map[string]types.SourceSpec{
				"raster-tiles": {Type: "raster", Tiles: []string{"https://tile.openstreetmap.org/{z}/{x}/{y}.png"}, TileSize: 256},
			},
			Layers: []types.LayerSpec{{ID: "simple-tiles", Type: "raster", Source: "raster-tiles"}},
		},
		Controls:  []types.ControlSpec{{Type: "navigation"}, {Type: "scale", Position: "bottom-left"}},
		LogEvents: []string{"click"},
		Sources: []types.SourceEntry{{
			ID: "points-source",
			Source: types.SourceSpec{Type: "geojson", Data: map[string]any{
				"type": "FeatureCollection",
				"features": []any{map[string]any{
					"type":       "Feature",
					"geometry":   map[string]any{"type": "Point", "coordinates": []any{51.389, 35.6892}},
					"properties": map[string]any{"title": "Tehran"},
				}},
			}},
		}},
		Layers: []types.LayerEntry{{Layer: types.LayerSpec{ID: "points-layer", Type: "circle", Source: "points-source"}}},
	}
}
