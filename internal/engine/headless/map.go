package headless

import (
	"fmt"
	"image"
	"sort"
	"sync"

	"mapbuilder/internal/engine"
	"mapbuilder/pkg/types"
)

type controlEntry struct {
	c   engine.Control
	pos engine.Position
}

// Map is an in-memory engine instance.
type Map struct {
	container string
	opts      types.Options

	mu          sync.Mutex
	removed     bool
	style       types.Style
	styleLoaded bool
	loaded      bool
	controls    []controlEntry
	listeners   map[string][]listener
	sources     map[string]*source
	layers      []types.LayerSpec
	images      map[string]image.Image
	journal     []string

	tasks []func()
	wake  chan struct{}
	done  chan struct{}
}

var _ engine.Map = (*Map)(nil)

func newMap(container string, opts types.Options) *Map {
	return &Map{
		container: container,
		opts:      opts,
		listeners: make(map[string][]listener),
		sources:   make(map[string]*source),
		images:    make(map[string]image.Image),
		wake:      make(chan struct{}, 1),
		done:      make(chan struct{}),
	}
}

// record appends to the call journal. Caller holds m.mu.
func (m *Map) record(op, id string) {
	m.journal = append(m.journal, op+":"+id)
}

func (m *Map) AddControl(c engine.Control, pos engine.Position) error {
	if c == nil {
		return &engine.Error{Op: "addControl", Msg: "nil control"}
	}
	m.mu.Lock()
	if m.removed {
		m.mu.Unlock()
		return engine.ErrRemoved
	}
	for _, e := range m.controls {
		if e.c == c {
			m.mu.Unlock()
			return &engine.Error{Op: "addControl", ID: controlName(c), Msg: "control already added"}
		}
	}
	m.mu.Unlock()

	if err := c.OnAdd(m); err != nil {
		return &engine.Error{Op: "addControl", ID: controlName(c), Msg: err.Error()}
	}

	m.mu.Lock()
	m.controls = append(m.controls, controlEntry{c: c, pos: pos})
	m.record("addControl", controlName(c)+"@"+string(pos))
	m.mu.Unlock()
	return nil
}

func (m *Map) RemoveControl(c engine.Control) error {
	m.mu.Lock()
	if m.removed {
		m.mu.Unlock()
		return engine.ErrRemoved
	}
	idx := -1
	for i, e := range m.controls {
		if e.c == c {
			idx = i
			break
		}
	}
	if idx < 0 {
		m.mu.Unlock()
		return nil
	}
	m.controls = append(m.controls[:idx], m.controls[idx+1:]...)
	m.record("removeControl", controlName(c))
	m.mu.Unlock()
	c.OnRemove(m)
	return nil
}

func (m *Map) On(event string, h engine.Handler) { m.subscribe(event, h, false) }

func (m *Map) Once(event string, h engine.Handler) { m.subscribe(event, h, true) }

func (m *Map) subscribe(event string, h engine.Handler, once bool) {
	if h == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.removed {
		return
	}
	m.listeners[event] = append(m.listeners[event], listener{h: h, once: once})
}

func (m *Map) Off(event string, h engine.Handler) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ls := m.listeners[event]
	for i, l := range ls {
		if l.h == h {
			ls = append(ls[:i], ls[i+1:]...)
			break
		}
	}
	if len(ls) == 0 {
		delete(m.listeners, event)
	} else {
		m.listeners[event] = ls
	}
}

func (m *Map) SetStyle(style types.Style) error {
	if style.Version != 8 {
		return &engine.Error{Op: "setStyle", Msg: fmt.Sprintf("unsupported style version %d", style.Version)}
	}
	for _, l := range style.Layers {
		if l.Source == "" {
			continue
		}
		if _, ok := style.Sources[l.Source]; !ok {
			return &engine.Error{Op: "setStyle", ID: l.ID, Msg: fmt.Sprintf("layer references unknown source %q", l.Source)}
		}
	}
	m.mu.Lock()
	if m.removed {
		m.mu.Unlock()
		return engine.ErrRemoved
	}
	m.styleLoaded = false
	m.record("setStyle", style.Name)
	m.mu.Unlock()

	m.post(func() { m.applyStyle(style) })
	return nil
}

// applyStyle rebuilds the source/layer graph from style and emits the
// completion notifications.
func (m *Map) applyStyle(style types.Style) {
	m.mu.Lock()
	if m.removed {
		m.mu.Unlock()
		return
	}
	m.style = style
	m.sources = make(map[string]*source, len(style.Sources))
	var bad []error
	for id, spec := range style.Sources {
		s, err := newSource(m, id, spec)
		if err != nil {
			bad = append(bad, err)
			continue
		}
		m.sources[id] = s
	}
	m.layers = make([]types.LayerSpec, 0, len(style.Layers))
	for _, l := range style.Layers {
		m.layers = append(m.layers, l.Clone())
	}
	m.styleLoaded = true
	first := !m.loaded
	m.loaded = true
	m.mu.Unlock()

	// Bad inline data in the style is reported as an error event, not by SetStyle.
	for _, err := range bad {
		m.emit(engine.Event{Type: engine.EventError, Data: err})
	}
	m.emit(engine.Event{Type: engine.EventStyleLoad})
	m.emit(engine.Event{Type: engine.EventStyleData})
	if first {
		m.emit(engine.Event{Type: engine.EventLoad})
	}
}

func (m *Map) AddSource(id string, spec types.SourceSpec) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkStyle("addSource"); err != nil {
		return err
	}
	if id == "" {
		return &engine.Error{Op: "addSource", Msg: "source id is required"}
	}
	if _, ok := m.sources[id]; ok {
		return &engine.Error{Op: "addSource", ID: id, Msg: "source already exists"}
	}
	s, err := newSource(m, id, spec)
	if err != nil {
		return err
	}
	m.sources[id] = s
	m.record("addSource", id)
	return nil
}

func (m *Map) RemoveSource(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkStyle("removeSource"); err != nil {
		return err
	}
	if _, ok := m.sources[id]; !ok {
		return &engine.Error{Op: "removeSource", ID: id, Msg: "source does not exist"}
	}
	for _, l := range m.layers {
		if l.Source == id {
			return &engine.Error{Op: "removeSource", ID: id, Msg: fmt.Sprintf("source is used by layer %q", l.ID)}
		}
	}
	delete(m.sources, id)
	m.record("removeSource", id)
	return nil
}

func (m *Map) GetSource(id string) engine.Source {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sources[id]
	if !ok || m.removed {
		return nil
	}
	if s.spec.Type == "geojson" {
		return &geojsonSource{source: s}
	}
	return s
}

func (m *Map) AddLayer(layer types.LayerSpec, beforeID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkStyle("addLayer"); err != nil {
		return err
	}
	if layer.ID == "" {
		return &engine.Error{Op: "addLayer", Msg: "layer id is required"}
	}
	if m.layerIndex(layer.ID) >= 0 {
		return &engine.Error{Op: "addLayer", ID: layer.ID, Msg: "layer already exists"}
	}
	if layer.Type != "background" {
		if layer.Source == "" {
			return &engine.Error{Op: "addLayer", ID: layer.ID, Msg: "layer requires a source"}
		}
		if _, ok := m.sources[layer.Source]; !ok {
			return &engine.Error{Op: "addLayer", ID: layer.ID, Msg: fmt.Sprintf("source %q not found", layer.Source)}
		}
	}
	pos := len(m.layers)
	if beforeID != "" {
		pos = m.layerIndex(beforeID)
		if pos < 0 {
			return &engine.Error{Op: "addLayer", ID: layer.ID, Msg: fmt.Sprintf("cannot add before non-existing layer %q", beforeID)}
		}
	}
	m.layers = append(m.layers, types.LayerSpec{})
	copy(m.layers[pos+1:], m.layers[pos:])
	m.layers[pos] = layer.Clone()
	m.record("addLayer", layer.ID)
	return nil
}

func (m *Map) RemoveLayer(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkStyle("removeLayer"); err != nil {
		return err
	}
	i := m.layerIndex(id)
	if i < 0 {
		return &engine.Error{Op: "removeLayer", ID: id, Msg: "layer does not exist"}
	}
	m.layers = append(m.layers[:i], m.layers[i+1:]...)
	m.record("removeLayer", id)
	return nil
}

func (m *Map) GetLayer(id string) (types.LayerSpec, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.removed {
		return types.LayerSpec{}, false
	}
	i := m.layerIndex(id)
	if i < 0 {
		return types.LayerSpec{}, false
	}
	return m.layers[i].Clone(), true
}

func (m *Map) SetLayoutProperty(layerID, name string, value any) error {
	return m.setProperty("setLayoutProperty", layerID, name, value, func(l *types.LayerSpec) map[string]any {
		if l.Layout == nil {
			l.Layout = make(map[string]any)
		}
		return l.Layout
	})
}

func (m *Map) SetPaintProperty(layerID, name string, value any) error {
	return m.setProperty("setPaintProperty", layerID, name, value, func(l *types.LayerSpec) map[string]any {
		if l.Paint == nil {
			l.Paint = make(map[string]any)
		}
		return l.Paint
	})
}

func (m *Map) setProperty(op, layerID, name string, value any, target func(*types.LayerSpec) map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.removed {
		return engine.ErrRemoved
	}
	i := m.layerIndex(layerID)
	if i < 0 {
		return &engine.Error{Op: op, ID: layerID, Msg: "layer does not exist"}
	}
	target(&m.layers[i])[name] = value
	m.record(op, layerID+"."+name)
	return nil
}

func (m *Map) AddImage(id string, img image.Image) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.removed {
		return engine.ErrRemoved
	}
	if img == nil {
		return &engine.Error{Op: "addImage", ID: id, Msg: "nil image"}
	}
	if _, ok := m.images[id]; ok {
		return &engine.Error{Op: "addImage", ID: id, Msg: "an image with this name already exists"}
	}
	m.images[id] = img
	m.record("addImage", id)
	return nil
}

func (m *Map) RemoveImage(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.removed {
		return engine.ErrRemoved
	}
	if _, ok := m.images[id]; !ok {
		return &engine.Error{Op: "removeImage", ID: id, Msg: "image does not exist"}
	}
	delete(m.images, id)
	m.record("removeImage", id)
	return nil
}

func (m *Map) HasImage(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.images[id]
	return ok && !m.removed
}

func (m *Map) Remove() error {
	m.mu.Lock()
	if m.removed {
		m.mu.Unlock()
		return engine.ErrRemoved
	}
	m.mu.Unlock()

	m.emit(engine.Event{Type: engine.EventRemove})

	m.mu.Lock()
	controls := m.controls
	m.removed = true
	m.controls = nil
	m.listeners = make(map[string][]listener)
	m.sources = make(map[string]*source)
	m.layers = nil
	m.images = make(map[string]image.Image)
	m.tasks = nil
	m.record("remove", m.container)
	close(m.done)
	m.mu.Unlock()

	for _, e := range controls {
		e.c.OnRemove(m)
	}
	return nil
}

// checkStyle guards graph mutations. Caller holds m.mu.
func (m *Map) checkStyle(op string) error {
	if m.removed {
		return engine.ErrRemoved
	}
	if !m.styleLoaded {
		return &engine.Error{Op: op, Msg: "style is not done loading"}
	}
	return nil
}

// layerIndex returns the draw-order index of id or -1. Caller holds m.mu.
func (m *Map) layerIndex(id string) int {
	for i, l := range m.layers {
		if l.ID == id {
			return i
		}
	}
	return -1
}

func controlName(c engine.Control) string {
	if b, ok := c.(*engine.BuiltinControl); ok {
		return b.Kind
	}
	return fmt.Sprintf("%T", c)
}

// ContainerID returns the container the instance was created for.
func (m *Map) ContainerID() string { return m.container }

// Options returns the construction options.
func (m *Map) Options() types.Options { return m.opts }

// Removed reports whether Remove has been called.
func (m *Map) Removed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.removed
}

// StyleLoaded reports whether the current style finished loading.
func (m *Map) StyleLoaded() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.styleLoaded
}

// LayerIDs returns layer ids in draw order, bottom first.
func (m *Map) LayerIDs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.layers))
	for i, l := range m.layers {
		out[i] = l.ID
	}
	return out
}

// SourceIDs returns source ids sorted.
func (m *Map) SourceIDs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.sources))
	for id := range m.sources {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// ImageIDs returns registered image ids sorted.
func (m *Map) ImageIDs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.images))
	for id := range m.images {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// ControlCount returns the number of attached controls.
func (m *Map) ControlCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.controls)
}

// ControlPosition reports where c is anchored.
func (m *Map) ControlPosition(c engine.Control) (engine.Position, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.controls {
		if e.c == c {
			return e.pos, true
		}
	}
	return "", false
}

// ListenerCount returns the number of subscriptions for event.
func (m *Map) ListenerCount(event string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.listeners[event])
}

// Journal returns the mutating calls in the order they were applied, as
// "op:id" strings.
func (m *Map) Journal() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.journal...)
}
