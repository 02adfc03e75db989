// Package headless implements engine.Map in memory. It enforces the same
// dependency rules as a browser engine (style must be loaded before sources
// and layers are added, layers need their source, sources cannot be removed
// while in use) and models the engine's event loop as a task queue that is
// drained by Flush or by a Run loop.
package headless

import (
	"context"
	"sync"

	"mapbuilder/internal/engine"
	"mapbuilder/pkg/types"
)

// Option configures a Factory.
type Option func(*Factory)

// WithContainers restricts the container ids New accepts.
func WithContainers(ids ...string) Option {
	return func(f *Factory) {
		if f.containers == nil {
			f.containers = make(map[string]bool, len(ids))
		}
		for _, id := range ids {
			f.containers[id] = true
		}
	}
}

// WithLoop runs every created instance's task loop on its own goroutine
// until ctx is done or the instance is removed.
func WithLoop(ctx context.Context) Option {
	return func(f *Factory) { f.loopCtx = ctx }
}

// Factory creates headless map instances.
type Factory struct {
	containers map[string]bool
	loopCtx    context.Context

	mu      sync.Mutex
	created []*Map
}

// NewFactory returns a Factory. Without WithContainers any non-empty id resolves.
func NewFactory(opts ...Option) *Factory {
	f := &Factory{}
	for _, o := range opts {
		o(f)
	}
	return f
}

// New implements engine.Factory.
func (f *Factory) New(containerID string, opts types.Options) (engine.Map, error) {
	if containerID == "" {
		return nil, &engine.Error{Op: "create", Msg: "container id is required"}
	}
	if f.containers != nil && !f.containers[containerID] {
		return nil, &engine.Error{Op: "create", ID: containerID, Msg: "container not found"}
	}
	m := newMap(containerID, opts)
	f.mu.Lock()
	f.created = append(f.created, m)
	f.mu.Unlock()
	if f.loopCtx != nil {
		go m.Run(f.loopCtx)
	}
	return m, nil
}

// Last returns the most recently created instance, or nil.
func (f *Factory) Last() *Map {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.created) == 0 {
		return nil
	}
	return f.created[len(f.created)-1]
}

// Created returns the number of instances created so far.
func (f *Factory) Created() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.created)
}
