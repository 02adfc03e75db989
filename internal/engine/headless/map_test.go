package headless

import (
	"context"
	"errors"
	"image"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"mapbuilder/internal/engine"
	"mapbuilder/pkg/types"
)

func newTestMap(t *testing.T) *Map {
	t.Helper()
	m, err := NewFactory().New("map", types.Options{Zoom: 3})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	return m.(*Map)
}

func loaded(t *testing.T, style types.Style) *Map {
	t.Helper()
	m := newTestMap(t)
	if err := m.SetStyle(style); err != nil {
		t.Fatalf("set style: %v", err)
	}
	m.Flush()
	return m
}

func TestFactory_Containers(t *testing.T) {
	f := NewFactory(WithContainers("map"))
	if _, err := f.New("", types.Options{}); !engine.IsEngineError(err) {
		t.Fatalf("empty container: %v", err)
	}
	if _, err := f.New("elsewhere", types.Options{}); !engine.IsEngineError(err) {
		t.Fatalf("unknown container: %v", err)
	}
	m, err := f.New("map", types.Options{Zoom: 4})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if f.Created() != 1 || f.Last() != m {
		t.Fatalf("factory did not track instance")
	}
	if f.Last().Options().Zoom != 4 || f.Last().ContainerID() != "map" {
		t.Fatalf("options not kept")
	}
}

func TestSetStyle_CompletesAsynchronously(t *testing.T) {
	m := newTestMap(t)
	var got []string
	for _, ev := range []string{engine.EventStyleLoad, engine.EventStyleData, engine.EventLoad} {
		ev := ev
		m.On(ev, engine.NewHandler(func(e engine.Event) {
			if e.Target != engine.Map(m) {
				t.Errorf("event target mismatch")
			}
			got = append(got, ev)
		}))
	}
	if err := m.SetStyle(types.Style{Version: 8}); err != nil {
		t.Fatalf("set style: %v", err)
	}
	if len(got) != 0 || m.StyleLoaded() {
		t.Fatalf("style completed synchronously")
	}
	if err := m.AddSource("s", types.SourceSpec{Type: "geojson"}); err == nil {
		t.Fatalf("addSource before style load should fail")
	}
	m.Flush()
	want := []string{engine.EventStyleLoad, engine.EventStyleData, engine.EventLoad}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("events mismatch (-want +got):\n%s", diff)
	}
	// load fires only for the first style
	got = nil
	_ = m.SetStyle(types.Style{Version: 8})
	m.Flush()
	if diff := cmp.Diff([]string{engine.EventStyleLoad, engine.EventStyleData}, got); diff != "" {
		t.Fatalf("reload events mismatch (-want +got):\n%s", diff)
	}
}

func TestSetStyle_Rejects(t *testing.T) {
	m := newTestMap(t)
	if err := m.SetStyle(types.Style{Version: 7}); !engine.IsEngineError(err) {
		t.Fatalf("version 7: %v", err)
	}
	style := types.Style{Version: 8, Layers: []types.LayerSpec{{ID: "x", Type: "fill", Source: "nope"}}}
	if err := m.SetStyle(style); !engine.IsEngineError(err) {
		t.Fatalf("dangling source: %v", err)
	}
}

func TestSetStyle_BadInlineSourceEmitsError(t *testing.T) {
	m := newTestMap(t)
	var errs []any
	m.On(engine.EventError, engine.NewHandler(func(e engine.Event) { errs = append(errs, e.Data) }))
	style := types.Style{Version: 8, Sources: map[string]types.SourceSpec{"bad": {Type: "geojson", Data: "{oops"}}}
	if err := m.SetStyle(style); err != nil {
		t.Fatalf("set style: %v", err)
	}
	m.Flush()
	if len(errs) != 1 {
		t.Fatalf("error events = %d, want 1", len(errs))
	}
	if m.GetSource("bad") != nil {
		t.Fatalf("bad source kept")
	}
}

func TestOnce(t *testing.T) {
	m := newTestMap(t)
	n := 0
	m.Once(engine.EventStyleLoad, engine.NewHandler(func(engine.Event) { n++ }))
	for i := 0; i < 2; i++ {
		_ = m.SetStyle(types.Style{Version: 8})
		m.Flush()
	}
	if n != 1 {
		t.Fatalf("once handler ran %d times", n)
	}
	if m.ListenerCount(engine.EventStyleLoad) != 0 {
		t.Fatalf("once listener kept")
	}
}

func TestOff_MatchesHandlerIdentity(t *testing.T) {
	m := newTestMap(t)
	fn := func(engine.Event) {}
	a, b := engine.NewHandler(fn), engine.NewHandler(fn)
	m.On("click", a)
	m.On("click", b)
	m.Off("click", a)
	if m.ListenerCount("click") != 1 {
		t.Fatalf("listeners = %d, want 1", m.ListenerCount("click"))
	}
	m.Off("click", a)
	if m.ListenerCount("click") != 1 {
		t.Fatalf("unknown handler removed a listener")
	}
}

func TestSourcesAndLayers(t *testing.T) {
	m := loaded(t, types.Style{Version: 8})
	if err := m.AddSource("s", types.SourceSpec{Type: "geojson"}); err != nil {
		t.Fatalf("add source: %v", err)
	}
	if err := m.AddSource("s", types.SourceSpec{Type: "geojson"}); !engine.IsEngineError(err) {
		t.Fatalf("duplicate source: %v", err)
	}
	if err := m.AddSource("w", types.SourceSpec{Type: "wms"}); !engine.IsEngineError(err) {
		t.Fatalf("unknown type: %v", err)
	}
	if err := m.AddLayer(types.LayerSpec{ID: "l", Type: "circle", Source: "missing"}, ""); !engine.IsEngineError(err) {
		t.Fatalf("layer without source: %v", err)
	}
	if err := m.AddLayer(types.LayerSpec{ID: "l", Type: "circle", Source: "s"}, ""); err != nil {
		t.Fatalf("add layer: %v", err)
	}
	if err := m.AddLayer(types.LayerSpec{ID: "bg", Type: "background"}, "l"); err != nil {
		t.Fatalf("add background: %v", err)
	}
	if err := m.AddLayer(types.LayerSpec{ID: "x", Type: "fill", Source: "s"}, "nope"); !engine.IsEngineError(err) {
		t.Fatalf("bad beforeID: %v", err)
	}
	if diff := cmp.Diff([]string{"bg", "l"}, m.LayerIDs()); diff != "" {
		t.Fatalf("draw order (-want +got):\n%s", diff)
	}
	if err := m.RemoveSource("s"); !engine.IsEngineError(err) {
		t.Fatalf("remove in-use source: %v", err)
	}
	if err := m.RemoveLayer("l"); err != nil {
		t.Fatalf("remove layer: %v", err)
	}
	if err := m.RemoveSource("s"); err != nil {
		t.Fatalf("remove source: %v", err)
	}
	if err := m.RemoveLayer("l"); !engine.IsEngineError(err) {
		t.Fatalf("remove absent layer: %v", err)
	}
}

func TestGetLayerReturnsCopy(t *testing.T) {
	m := loaded(t, types.Style{Version: 8})
	_ = m.AddLayer(types.LayerSpec{ID: "bg", Type: "background", Paint: map[string]any{"background-color": "#fff"}}, "")
	l, _ := m.GetLayer("bg")
	l.Paint["background-color"] = "#000"
	again, _ := m.GetLayer("bg")
	if again.Paint["background-color"] != "#fff" {
		t.Fatalf("GetLayer leaked internal state")
	}
	if err := m.SetPaintProperty("bg", "background-opacity", 0.3); err != nil {
		t.Fatalf("set paint: %v", err)
	}
	if err := m.SetLayoutProperty("nope", "visibility", "none"); !engine.IsEngineError(err) {
		t.Fatalf("set layout on absent layer: %v", err)
	}
}

func TestGeoJSONSetData(t *testing.T) {
	m := loaded(t, types.Style{Version: 8})
	_ = m.AddSource("pts", types.SourceSpec{Type: "geojson", Data: `{"type":"FeatureCollection","features":[]}`})
	gs, ok := m.GetSource("pts").(*geojsonSource)
	if !ok {
		t.Fatalf("geojson source type %T", m.GetSource("pts"))
	}
	data := `{"type":"FeatureCollection","features":[
		{"type":"Feature","geometry":{"type":"Point","coordinates":[51.4,35.7]},"properties":{}},
		{"type":"Feature","geometry":{"type":"Point","coordinates":[59.6,36.3]},"properties":{}}]}`
	if err := gs.SetData(data); err != nil {
		t.Fatalf("set data: %v", err)
	}
	if gs.Features() != 2 {
		t.Fatalf("features = %d", gs.Features())
	}
	if err := gs.SetData(map[string]any{"type": "Point", "coordinates": []float64{1, 2}}); err != nil {
		t.Fatalf("bare geometry: %v", err)
	}
	if err := gs.SetData(map[string]any{"coordinates": []float64{1, 2}}); err == nil {
		t.Fatalf("missing type accepted")
	}
	if err := gs.SetData("https://example.com/points.geojson"); err != nil {
		t.Fatalf("url data: %v", err)
	}
}

func TestImages(t *testing.T) {
	m := newTestMap(t)
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	if err := m.AddImage("pin", img); err != nil {
		t.Fatalf("add image before style: %v", err)
	}
	if err := m.AddImage("pin", img); !engine.IsEngineError(err) {
		t.Fatalf("duplicate image: %v", err)
	}
	if err := m.AddImage("nil", nil); !engine.IsEngineError(err) {
		t.Fatalf("nil image: %v", err)
	}
	if !m.HasImage("pin") {
		t.Fatalf("image missing")
	}
	if err := m.RemoveImage("pin"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := m.RemoveImage("pin"); !engine.IsEngineError(err) {
		t.Fatalf("remove absent: %v", err)
	}
}

func TestControls(t *testing.T) {
	m := newTestMap(t)
	c, _ := engine.NewControl(engine.KindScale, nil)
	if err := m.AddControl(c, engine.BottomLeft); err != nil {
		t.Fatalf("add control: %v", err)
	}
	if err := m.AddControl(c, engine.TopLeft); !engine.IsEngineError(err) {
		t.Fatalf("duplicate control: %v", err)
	}
	if !c.Attached() {
		t.Fatalf("control not attached")
	}
	if err := m.RemoveControl(c); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := m.RemoveControl(c); err != nil {
		t.Fatalf("remove absent control: %v", err)
	}
	if c.Attached() {
		t.Fatalf("control still attached")
	}
}

func TestRemove(t *testing.T) {
	m := loaded(t, types.Style{Version: 8})
	c, _ := engine.NewControl(engine.KindNavigation, nil)
	_ = m.AddControl(c, engine.TopRight)
	removed := 0
	m.On(engine.EventRemove, engine.NewHandler(func(engine.Event) { removed++ }))
	if err := m.Remove(); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if removed != 1 || !m.Removed() || c.Attached() {
		t.Fatalf("remove did not dispose: removed=%d attached=%v", removed, c.Attached())
	}
	if err := m.Remove(); !errors.Is(err, engine.ErrRemoved) {
		t.Fatalf("second remove: %v", err)
	}
	if err := m.AddSource("s", types.SourceSpec{Type: "geojson"}); !errors.Is(err, engine.ErrRemoved) {
		t.Fatalf("add after remove: %v", err)
	}
	if err := m.SetStyle(types.Style{Version: 8}); !errors.Is(err, engine.ErrRemoved) {
		t.Fatalf("set style after remove: %v", err)
	}
}

func TestRunLoop(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	f := NewFactory(WithLoop(ctx))
	em, err := f.New("map", types.Options{})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	done := make(chan struct{})
	em.Once(engine.EventStyleLoad, engine.NewHandler(func(engine.Event) { close(done) }))
	if err := em.SetStyle(types.Style{Version: 8}); err != nil {
		t.Fatalf("set style: %v", err)
	}
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("loop did not deliver style.load")
	}
	_ = em.Remove()
}
