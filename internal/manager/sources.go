package manager

import (
	"errors"
	"fmt"

	"mapbuilder/internal/engine"
)

// SourceManager adds configured sources that the engine does not already
// have, removes the ones it added in reverse order, and pushes new data to
// GeoJSON sources.
type SourceManager struct {
	m       engine.Map
	sources []Source
	added   []string
}

func NewSourceManager(m engine.Map, sources []Source) *SourceManager {
	return &SourceManager{m: m, sources: sources}
}

// AddSources adds each source in configured order, skipping ids the engine
// already knows (for example sources the style itself declared). Only the
// ids added here are removed later.
func (sm *SourceManager) AddSources() error {
	if sm.m == nil {
		return ErrMapNotCreated
	}
	for _, s := range sm.sources {
		if sm.m.GetSource(s.ID) != nil {
			continue
		}
		if err := sm.m.AddSource(s.ID, s.Source); err != nil {
			return fmt.Errorf("add source %q: %w", s.ID, err)
		}
		sm.added = append(sm.added, s.ID)
	}
	return nil
}

// RemoveSources removes the sources AddSources added, last first, skipping
// ones that are already gone. Sources owned by the style stay.
func (sm *SourceManager) RemoveSources() error {
	if sm.m == nil {
		return ErrMapNotCreated
	}
	var errs []error
	for i := len(sm.added) - 1; i >= 0; i-- {
		id := sm.added[i]
		if sm.m.GetSource(id) == nil {
			continue
		}
		if err := sm.m.RemoveSource(id); err != nil {
			errs = append(errs, fmt.Errorf("remove source %q: %w", id, err))
		}
	}
	sm.added = nil
	return errors.Join(errs...)
}

// UpdateSource replaces the data of a GeoJSON source. Absent sources and
// sources of other types are ignored.
func (sm *SourceManager) UpdateSource(id string, data any) error {
	if sm.m == nil {
		return ErrMapNotCreated
	}
	gs, ok := sm.m.GetSource(id).(engine.GeoJSONSource)
	if !ok {
		return nil
	}
	if err := gs.SetData(data); err != nil {
		return fmt.Errorf("update source %q: %w", id, err)
	}
	return nil
}
