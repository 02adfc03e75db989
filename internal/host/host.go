// Package host owns the map of a running process. It keeps at most one
// Initializer alive and always destroys the previous one before a new
// configuration is initialized.
package host

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"mapbuilder/internal/engine"
	"mapbuilder/internal/imageres"
	"mapbuilder/internal/manager"
	"mapbuilder/pkg/types"
)

var (
	// ErrNoMap is returned by operations that need an active map.
	ErrNoMap = errors.New("no map is active")
	// ErrInvalidDocument wraps problems found while resolving a document.
	ErrInvalidDocument = errors.New("invalid map document")
)

// Host drives Initializers against one engine factory and container.
type Host struct {
	factory   engine.Factory
	container string
	log       zerolog.Logger
	publisher manager.EventPublisher
	loader    *imageres.Loader
	spriteDir string
	strict    bool
	baseCtx   context.Context
	started   time.Time

	mu      sync.Mutex
	current *manager.Initializer
	applied atomic.Uint64
	lastErr atomic.Pointer[string]
}

// Option configures a Host.
type Option func(*Host)

func WithLogger(l zerolog.Logger) Option {
	return func(h *Host) { h.log = l }
}

func WithEventPublisher(p manager.EventPublisher) Option {
	return func(h *Host) { h.publisher = p }
}

// WithImageLoader sets the loader used to decode document images.
func WithImageLoader(l *imageres.Loader) Option {
	return func(h *Host) { h.loader = l }
}

// WithSpriteDir adds every image in dir to each applied document.
func WithSpriteDir(dir string) Option {
	return func(h *Host) { h.spriteDir = dir }
}

// WithStrict validates configurations before they are initialized.
func WithStrict(strict bool) Option {
	return func(h *Host) { h.strict = strict }
}

// WithBaseContext bounds image downloads started by ApplyDocument. Request
// contexts are not used for them because images outlive the request.
func WithBaseContext(ctx context.Context) Option {
	return func(h *Host) { h.baseCtx = ctx }
}

func New(factory engine.Factory, containerID string, opts ...Option) *Host {
	h := &Host{
		factory:   factory,
		container: containerID,
		log:       zerolog.Nop(),
		baseCtx:   context.Background(),
		started:   time.Now(),
	}
	for _, o := range opts {
		o(h)
	}
	return h
}

// Apply destroys the active map, if any, and initializes cfg. An empty
// cfg.ContainerID takes the host's container. The returned Initializer is
// the new active one even when Initialize failed, so it can be inspected
// and destroyed.
func (h *Host) Apply(ctx context.Context, cfg manager.MapConfig) (*manager.Initializer, error) {
	if cfg.ContainerID == "" {
		cfg.ContainerID = h.container
	}
	if h.strict {
		if err := manager.Validate(cfg); err != nil {
			return nil, err
		}
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.destroyLocked()

	in := manager.NewInitializer(h.factory, cfg,
		manager.WithLogger(h.log),
		manager.WithEventPublisher(h.publisher),
		manager.WithErrorHandler(h.recordErr),
	)
	h.current = in
	h.applied.Add(1)
	h.lastErr.Store(nil)
	if _, err := in.Initialize(ctx); err != nil {
		h.recordErr(err)
		return in, err
	}
	h.log.Info().Str("run_id", in.RunID()).Str("container", cfg.ContainerID).Msg("map applied")
	return in, nil
}

// ApplyDocument resolves doc and applies it.
func (h *Host) ApplyDocument(ctx context.Context, doc types.MapDocument) (*manager.Initializer, error) {
	cfg, err := h.Resolve(doc)
	if err != nil {
		return nil, err
	}
	return h.Apply(ctx, cfg)
}

// Destroy tears down the active map.
func (h *Host) Destroy() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.current == nil {
		return ErrNoMap
	}
	return h.destroyLocked()
}

func (h *Host) destroyLocked() error {
	if h.current == nil {
		return nil
	}
	err := h.current.Destroy()
	if err != nil {
		h.log.Warn().Err(err).Str("run_id", h.current.RunID()).Msg("previous map destroyed with errors")
	}
	h.current = nil
	return err
}

// Close destroys the active map and releases the image loader.
func (h *Host) Close() error {
	h.mu.Lock()
	err := h.destroyLocked()
	h.mu.Unlock()
	if h.loader != nil {
		h.loader.Release()
	}
	return err
}

// Current returns the active Initializer, or nil.
func (h *Host) Current() *manager.Initializer {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.current
}

// Wait blocks until the active map has finished setup.
func (h *Host) Wait(ctx context.Context) error {
	in := h.Current()
	if in == nil {
		return ErrNoMap
	}
	return in.Wait(ctx)
}

// Ready reports whether a map is active and its style setup succeeded.
func (h *Host) Ready() bool {
	in := h.Current()
	return in != nil && in.State() == manager.StateReady
}

// Status describes the active map.
func (h *Host) Status() types.StatusResponse {
	in := h.Current()
	var resp types.StatusResponse
	if in == nil {
		resp = types.StatusResponse{
			State:   string(manager.StateIdle),
			Sources: []string{},
			Layers:  []types.LayerStatus{},
			Images:  []types.ImageStatus{},
		}
	} else {
		resp = in.Status()
	}
	if p := h.lastErr.Load(); p != nil {
		resp.LastError = *p
	}
	resp.AppliedTotal = h.applied.Load()
	resp.UptimeSeconds = int64(time.Since(h.started).Seconds())
	return resp
}

// recordErr keeps the latest asynchronous failure for Status. It must not
// take h.mu: it can run while Apply holds it.
func (h *Host) recordErr(err error) {
	if err == nil {
		return
	}
	msg := err.Error()
	h.lastErr.Store(&msg)
}

func (h *Host) SetLayerVisibility(id string, visible bool) error {
	return h.withActive(func(in *manager.Initializer) error {
		lm := in.Layers()
		if lm == nil {
			return ErrNoMap
		}
		return lm.SetLayerVisibility(id, visible)
	})
}

func (h *Host) SetLayerOpacity(id string, opacity float64) error {
	return h.withActive(func(in *manager.Initializer) error {
		lm := in.Layers()
		if lm == nil {
			return ErrNoMap
		}
		return lm.SetLayerOpacity(id, opacity)
	})
}

func (h *Host) UpdateSource(id string, data any) error {
	return h.withActive(func(in *manager.Initializer) error {
		sm := in.Sources()
		if sm == nil {
			return ErrNoMap
		}
		return sm.UpdateSource(id, data)
	})
}

// RemoveImages removes the named images, or every configured image when
// ids is empty.
func (h *Host) RemoveImages(ids []string) error {
	return h.withActive(func(in *manager.Initializer) error {
		im := in.Images()
		if im == nil {
			return ErrNoMap
		}
		if len(ids) == 0 {
			return im.RemoveImages()
		}
		return im.RemoveImagesByIDs(ids)
	})
}

// withActive runs fn against the active map while holding the host lock so
// it cannot interleave with Apply or Destroy.
func (h *Host) withActive(fn func(*manager.Initializer) error) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.current == nil || h.current.Map() == nil {
		return ErrNoMap
	}
	return fn(h.current)
}

// Replace applies doc in place of the active map. Unlike ApplyDocument it
// does not hand out the Initializer.
func (h *Host) Replace(ctx context.Context, doc types.MapDocument) error {
	_, err := h.ApplyDocument(ctx, doc)
	return err
}
