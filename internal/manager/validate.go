package manager

import "fmt"

// Validate checks the references inside cfg that the engine would reject
// during setup: duplicate ids, layers whose source is neither configured nor
// declared by the style, and BeforeIDs that name no earlier layer.
func Validate(cfg MapConfig) error {
	var problems []string
	add := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	sources := make(map[string]bool, len(cfg.Style.Sources)+len(cfg.Sources))
	for id := range cfg.Style.Sources {
		sources[id] = true
	}
	seen := make(map[string]bool, len(cfg.Sources))
	for _, s := range cfg.Sources {
		if s.ID == "" {
			add("source with empty id")
			continue
		}
		if seen[s.ID] {
			add("duplicate source %q", s.ID)
		}
		seen[s.ID] = true
		sources[s.ID] = true
	}

	layers := make(map[string]bool, len(cfg.Style.Layers)+len(cfg.Layers))
	for _, l := range cfg.Style.Layers {
		layers[l.ID] = true
	}
	seen = make(map[string]bool, len(cfg.Layers))
	for _, l := range cfg.Layers {
		id := l.Layer.ID
		if id == "" {
			add("layer with empty id")
			continue
		}
		if seen[id] {
			add("duplicate layer %q", id)
		}
		seen[id] = true
		if l.Layer.Type != "background" && !sources[l.Layer.Source] {
			add("layer %q references unknown source %q", id, l.Layer.Source)
		}
		if l.BeforeID != "" && !layers[l.BeforeID] {
			add("layer %q is placed before unknown layer %q", id, l.BeforeID)
		}
		layers[id] = true
	}

	seen = make(map[string]bool, len(cfg.Images))
	for _, img := range cfg.Images {
		if img.ID == "" {
			add("image with empty id")
			continue
		}
		if seen[img.ID] {
			add("duplicate image %q", img.ID)
		}
		seen[img.ID] = true
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}
