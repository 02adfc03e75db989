package engine

import (
	"fmt"
	"sort"
	"sync"
)

// Control is a decoration attached to a map corner.
type Control interface {
	OnAdd(m Map) error
	OnRemove(m Map)
}

// Catalogue control kinds.
const (
	KindNavigation  = "navigation"
	KindScale       = "scale"
	KindFullscreen  = "fullscreen"
	KindAttribution = "attribution"
	KindGeolocate   = "geolocate"
)

var knownKinds = map[string]bool{
	KindNavigation:  true,
	KindScale:       true,
	KindFullscreen:  true,
	KindAttribution: true,
	KindGeolocate:   true,
}

// Kinds lists the catalogue control kinds in sorted order.
func Kinds() []string {
	out := make([]string, 0, len(knownKinds))
	for k := range knownKinds {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// BuiltinControl is a catalogue control. It carries no behaviour beyond
// tracking the instance it is attached to.
type BuiltinControl struct {
	Kind    string
	Options map[string]any

	mu       sync.Mutex
	attached Map
}

// NewControl builds a catalogue control of the given kind.
func NewControl(kind string, opts map[string]any) (*BuiltinControl, error) {
	if !knownKinds[kind] {
		return nil, fmt.Errorf("unknown control type %q", kind)
	}
	return &BuiltinControl{Kind: kind, Options: opts}, nil
}

func (c *BuiltinControl) OnAdd(m Map) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.attached != nil {
		return fmt.Errorf("%s control already attached", c.Kind)
	}
	c.attached = m
	return nil
}

func (c *BuiltinControl) OnRemove(Map) {
	c.mu.Lock()
	c.attached = nil
	c.mu.Unlock()
}

// Attached reports whether the control is currently on a map.
func (c *BuiltinControl) Attached() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.attached != nil
}
