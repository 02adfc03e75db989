package manager

import (
	"mapbuilder/pkg/types"
)

// Snapshot is a read-only view of an Initializer.
type Snapshot struct {
	State       State
	RunID       string
	ContainerID string
	StyleLoaded bool
	Err         string
}

// Snapshot returns a read-only view of the initializer state.
func (i *Initializer) Snapshot() Snapshot {
	i.mu.Lock()
	defer i.mu.Unlock()
	s := Snapshot{
		State:       i.state,
		RunID:       i.runID,
		ContainerID: i.cfg.ContainerID,
		StyleLoaded: i.styleLoaded,
	}
	if i.lastErr != nil {
		s.Err = i.lastErr.Error()
	}
	return s
}

// Status builds a detailed status response for /status. Engine presence is
// read live, so layers removed behind the initializer's back show up absent.
func (i *Initializer) Status() types.StatusResponse {
	i.mu.Lock()
	defer i.mu.Unlock()
	resp := types.StatusResponse{
		State:       string(i.state),
		RunID:       i.runID,
		ContainerID: i.cfg.ContainerID,
		StyleLoaded: i.styleLoaded,
		Controls:    len(i.cfg.Controls),
		Events:      len(i.cfg.EventHandlers),
	}
	if i.lastErr != nil {
		resp.LastError = i.lastErr.Error()
	}
	resp.Sources = make([]string, 0, len(i.cfg.Sources))
	for _, s := range i.cfg.Sources {
		if i.m != nil && i.m.GetSource(s.ID) != nil {
			resp.Sources = append(resp.Sources, s.ID)
		}
	}
	resp.Layers = make([]types.LayerStatus, 0, len(i.cfg.Layers))
	for _, l := range i.cfg.Layers {
		present := false
		if i.m != nil {
			_, present = i.m.GetLayer(l.Layer.ID)
		}
		resp.Layers = append(resp.Layers, types.LayerStatus{
			ID:      l.Layer.ID,
			Type:    l.Layer.Type,
			Source:  l.Layer.Source,
			Present: present,
		})
	}
	resp.Images = make([]types.ImageStatus, 0, len(i.cfg.Images))
	for _, img := range i.cfg.Images {
		st := types.ImageStatus{ID: img.ID, State: ImagePending.String()}
		if i.state == StateDestroyed {
			st.State = ImageDiscarded.String()
		}
		if i.imageManager != nil {
			if s, ok := i.imageManager.State(img.ID); ok {
				st.State = s.String()
			}
			if err := i.imageManager.errOf(img.ID); err != nil {
				st.Error = err.Error()
			}
		}
		resp.Images = append(resp.Images, st)
	}
	return resp
}
