package manager

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"mapbuilder/internal/engine"
)

// Initializer turns one MapConfig into a live engine instance and tears it
// down again. Sources and layers are only added after the engine signals
// that the style has loaded; controls, events and images do not wait for it.
//
// An Initializer is single use: a new configuration needs a new Initializer
// and the old one must be destroyed first.
type Initializer struct {
	factory   engine.Factory
	cfg       MapConfig
	log       zerolog.Logger
	publisher EventPublisher
	onError   func(error)
	runID     string

	mu             sync.Mutex
	state          State
	m              engine.Map
	controlManager *ControlManager
	eventManager   *EventManager
	sourceManager  *SourceManager
	layerManager   *LayerManager
	imageManager   *ImageManager
	styleRequested bool
	styleLoaded    bool
	setupErr       error
	lastErr        error
	setupDone      chan struct{}
	setupClosed    bool
}

func NewInitializer(factory engine.Factory, cfg MapConfig, opts ...Option) *Initializer {
	i := &Initializer{
		factory:   factory,
		cfg:       cfg,
		log:       zerolog.Nop(),
		publisher: noopPublisher{},
		runID:     newRunID(),
		state:     StateIdle,
	}
	for _, o := range opts {
		o(i)
	}
	i.log = i.log.With().Str("run_id", i.runID).Str("container", cfg.ContainerID).Logger()
	return i
}

// Initialize creates the engine and starts setup. It returns once the style
// has been requested; sources and layers follow on the style-load
// notification. Use Wait to block until setup and images have settled.
func (i *Initializer) Initialize(ctx context.Context) (engine.Map, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	i.mu.Lock()
	defer i.mu.Unlock()
	switch i.state {
	case StateIdle:
	case StateDestroyed:
		return nil, ErrDestroyed
	default:
		return nil, ErrAlreadyInitialized
	}
	i.state = StateInitializing
	i.setupDone = make(chan struct{})
	i.publish(EventInitStart, nil)
	i.log.Info().Int("sources", len(i.cfg.Sources)).Int("layers", len(i.cfg.Layers)).Int("images", len(i.cfg.Images)).Msg("initializing map")

	if err := i.initLocked(); err != nil {
		i.state = StateFailed
		i.lastErr = err
		if !i.styleRequested {
			// no style-load notification will arrive
			i.setupErr = err
			i.closeSetupLocked()
		}
		metricInitializations.WithLabelValues("error").Inc()
		i.log.Error().Err(err).Msg("map initialization failed")
		i.publish(EventInitFailed, map[string]any{"error": err.Error()})
		return i.m, err
	}
	metricInitializations.WithLabelValues("ok").Inc()
	i.publish(EventInitDone, nil)
	return i.m, nil
}

func (i *Initializer) initLocked() error {
	if err := i.createMap(); err != nil {
		return err
	}
	if err := i.setupManagers(); err != nil {
		return err
	}
	// Images are not gated on the style; their failures are reported after
	// the style request so that a bad sprite does not block sources and layers.
	imgErr := i.imageManager.AddImages()
	i.setupSourcesAndLayers()
	if err := i.m.SetStyle(i.cfg.Style); err != nil {
		return errors.Join(fmt.Errorf("apply style: %w", err), imgErr)
	}
	i.styleRequested = true
	return imgErr
}

func (i *Initializer) createMap() error {
	m, err := i.factory.New(i.cfg.ContainerID, i.cfg.Options)
	if err != nil {
		return fmt.Errorf("create map: %w", err)
	}
	i.m = m
	metricActiveMaps.Inc()
	return nil
}

func (i *Initializer) setupManagers() error {
	if i.m == nil {
		return ErrMapNotCreated
	}
	i.controlManager = NewControlManager(i.m, i.cfg.Controls)
	i.eventManager = NewEventManager(i.m, i.cfg.EventHandlers)
	if err := i.controlManager.AttachControls(); err != nil {
		return err
	}
	i.eventManager.RegisterEvents()

	i.sourceManager = NewSourceManager(i.m, i.cfg.Sources)
	i.layerManager = NewLayerManager(i.m, i.cfg.Layers)
	i.imageManager = NewImageManager(i.m, i.cfg.Images,
		WithImageLogger(i.log),
		OnImageError(i.imageFailed),
		OnImageRegistered(func(id string) {
			i.publish(EventImageRegistered, map[string]any{"image": id})
		}),
	)
	return nil
}

// setupSourcesAndLayers subscribes the one-shot style-load setup. It must
// run before SetStyle so the notification cannot be missed.
func (i *Initializer) setupSourcesAndLayers() {
	i.m.Once(engine.EventStyleLoad, engine.NewHandler(i.onStyleLoad))
}

func (i *Initializer) onStyleLoad(engine.Event) {
	i.mu.Lock()
	if i.state == StateDestroyed || i.sourceManager == nil {
		i.mu.Unlock()
		return
	}
	err := i.sourceManager.AddSources()
	if err == nil {
		err = i.layerManager.AddLayers()
	}
	i.styleLoaded = true
	if err != nil {
		i.state = StateFailed
		i.setupErr = err
		i.lastErr = err
	} else if i.state == StateInitializing {
		i.state = StateReady
	}
	i.closeSetupLocked()
	i.mu.Unlock()

	if err != nil {
		metricStyleSetups.WithLabelValues("error").Inc()
		i.log.Error().Err(err).Msg("style setup failed")
		i.publish(EventSetupFailed, map[string]any{"error": err.Error()})
		i.report(err)
		return
	}
	metricStyleSetups.WithLabelValues("ok").Inc()
	i.log.Info().Msg("style loaded, sources and layers added")
	i.publish(EventStyleLoaded, nil)
}

func (i *Initializer) imageFailed(err error) {
	fields := map[string]any{"error": err.Error()}
	var ie *ImageLoadError
	if errors.As(err, &ie) {
		fields["image"] = ie.ID
	}
	i.publish(EventImageFailed, fields)
	i.report(err)
}

func (i *Initializer) report(err error) {
	if i.onError != nil {
		i.onError(err)
	}
}

func (i *Initializer) closeSetupLocked() {
	if i.setupDone != nil && !i.setupClosed {
		close(i.setupDone)
		i.setupClosed = true
	}
}

// Destroy tears the run down: images stop registering, then events, layers,
// sources and controls are removed and the engine is disposed. Every step
// runs even when an earlier one fails; the failures are joined. Calling
// Destroy again is a no-op.
func (i *Initializer) Destroy() error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.state == StateDestroyed {
		return nil
	}
	i.publish(EventDestroyStart, nil)
	var errs []error
	if i.imageManager != nil {
		i.imageManager.Close()
	}
	if i.eventManager != nil {
		i.eventManager.UnregisterEvents()
	}
	if i.layerManager != nil {
		errs = append(errs, i.layerManager.RemoveLayers())
	}
	if i.sourceManager != nil {
		errs = append(errs, i.sourceManager.RemoveSources())
	}
	if i.controlManager != nil {
		errs = append(errs, i.controlManager.DetachControls())
	}
	if i.m != nil {
		if err := i.m.Remove(); err != nil && !errors.Is(err, engine.ErrRemoved) {
			errs = append(errs, fmt.Errorf("remove map: %w", err))
		}
		metricActiveMaps.Dec()
	}
	i.m = nil
	i.controlManager = nil
	i.eventManager = nil
	i.sourceManager = nil
	i.layerManager = nil
	i.imageManager = nil
	i.state = StateDestroyed
	i.closeSetupLocked()
	metricDestroys.Inc()

	err := errors.Join(errs...)
	if err != nil {
		i.log.Warn().Err(err).Msg("map destroyed with errors")
	} else {
		i.log.Info().Msg("map destroyed")
	}
	i.publish(EventDestroyDone, nil)
	return err
}

// Wait blocks until the style-load setup has run and every image has
// settled. It returns the setup error joined with image failures.
func (i *Initializer) Wait(ctx context.Context) error {
	i.mu.Lock()
	done := i.setupDone
	i.mu.Unlock()
	if done == nil {
		return ErrMapNotCreated
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
	}

	i.mu.Lock()
	destroyed := i.state == StateDestroyed
	setupErr := i.setupErr
	im := i.imageManager
	i.mu.Unlock()
	if destroyed {
		return ErrDestroyed
	}
	var imgErr error
	if im != nil {
		imgErr = im.Wait(ctx)
	}
	return errors.Join(setupErr, imgErr)
}

// Map returns the engine instance, or nil before Initialize and after Destroy.
func (i *Initializer) Map() engine.Map {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.m
}

func (i *Initializer) Controls() *ControlManager {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.controlManager
}

func (i *Initializer) Events() *EventManager {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.eventManager
}

func (i *Initializer) Sources() *SourceManager {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.sourceManager
}

func (i *Initializer) Layers() *LayerManager {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.layerManager
}

func (i *Initializer) Images() *ImageManager {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.imageManager
}

// StyleLoaded reports whether the style-load setup has run.
func (i *Initializer) StyleLoaded() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.styleLoaded
}

func (i *Initializer) State() State {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.state
}

func (i *Initializer) RunID() string { return i.runID }

// Config returns the configuration the initializer was built with.
func (i *Initializer) Config() MapConfig { return i.cfg }

func (i *Initializer) publish(name string, fields map[string]any) {
	i.publisher.Publish(Event{Name: name, RunID: i.runID, Fields: fields})
}
