package manager

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"

	"github.com/rs/zerolog"

	"mapbuilder/internal/engine"
	"mapbuilder/internal/imageres"
)

var errNilResource = errors.New("image has no source")

type imageEntry struct {
	id         string
	src        imageres.Resource
	state      ImageState
	err        error
	subscribed bool
	// reporting is set while completion callbacks run outside the lock.
	reporting bool
}

// awaiting reports whether the entry waits for a completion or for its
// callbacks to finish.
func (e *imageEntry) awaiting() bool {
	return e.subscribed && (e.state == ImagePending || e.reporting)
}

// ImageManager registers configured images with the engine as soon as each
// has decoded. Every image moves through an explicit state machine:
//
//	pending -> loaded -> registered
//	pending -> failed (terminal)
//	pending -> discarded (completion after Close)
//
// Registration is attempted only from loaded, so repeated completions and
// repeated AddImages calls collapse into one engine registration.
type ImageManager struct {
	m       engine.Map
	log     zerolog.Logger
	onError func(error)
	onReady func(id string)

	mu      sync.Mutex
	entries []*imageEntry
	byID    map[string]*imageEntry
	closed  bool
	changed chan struct{}
}

// ImageOption configures an ImageManager.
type ImageOption func(*ImageManager)

// WithImageLogger sets the logger used for image state changes.
func WithImageLogger(l zerolog.Logger) ImageOption {
	return func(im *ImageManager) { im.log = l }
}

// OnImageError sets the callback for failures that happen after AddImages
// has returned.
func OnImageError(fn func(error)) ImageOption {
	return func(im *ImageManager) { im.onError = fn }
}

// OnImageRegistered sets the callback invoked after each registration.
func OnImageRegistered(fn func(id string)) ImageOption {
	return func(im *ImageManager) { im.onReady = fn }
}

func NewImageManager(m engine.Map, images []Image, opts ...ImageOption) *ImageManager {
	im := &ImageManager{
		m:       m,
		log:     zerolog.Nop(),
		byID:    make(map[string]*imageEntry, len(images)),
		changed: make(chan struct{}),
	}
	for _, o := range opts {
		o(im)
	}
	for _, img := range images {
		e := &imageEntry{id: img.ID, src: img.Src}
		im.entries = append(im.entries, e)
		im.byID[img.ID] = e
	}
	return im
}

// AddImages registers every decoded image and subscribes to the rest.
// Images that already failed are returned as ImageLoadError; failures that
// happen later go to the error callback and to Wait.
func (im *ImageManager) AddImages() error {
	if im.m == nil {
		return ErrMapNotCreated
	}
	var (
		errs      []error
		ready     []string
		subscribe []*imageEntry
	)
	im.mu.Lock()
	if im.closed {
		im.mu.Unlock()
		return ErrDestroyed
	}
	for _, e := range im.entries {
		switch e.state {
		case ImageRegistered, ImageDiscarded:
			continue
		case ImageFailed:
			errs = append(errs, e.err)
			continue
		}
		if e.src == nil {
			im.failLocked(e, errNilResource)
			errs = append(errs, e.err)
			continue
		}
		switch e.src.Status() {
		case imageres.StatusLoaded:
			e.state = ImageLoaded
			if err := im.registerLocked(e, e.src.Image()); err != nil {
				errs = append(errs, err)
			} else {
				ready = append(ready, e.id)
			}
		case imageres.StatusFailed:
			im.failLocked(e, e.src.Err())
			errs = append(errs, e.err)
		default:
			if !e.subscribed {
				e.subscribed = true
				subscribe = append(subscribe, e)
			}
		}
	}
	im.notifyLocked()
	im.mu.Unlock()

	for _, id := range ready {
		im.registered(id)
	}
	// Subscribing outside the lock: an already settled resource calls back
	// synchronously and complete takes the lock itself.
	for _, e := range subscribe {
		e := e
		e.src.OnComplete(func(img image.Image, err error) { im.complete(e, img, err) })
	}
	return errors.Join(errs...)
}

// complete handles a decode completion for e.
func (im *ImageManager) complete(e *imageEntry, img image.Image, err error) {
	im.mu.Lock()
	if im.closed || e.state == ImageDiscarded {
		im.mu.Unlock()
		im.log.Debug().Str("image", e.id).Msg("discarding image completed after teardown")
		metricImages.WithLabelValues("discarded").Inc()
		return
	}
	var report error
	var ok bool
	switch {
	case e.state == ImageFailed || e.state == ImageRegistered:
		// terminal or already merged
	case err != nil:
		im.failLocked(e, err)
		report = e.err
	default:
		e.state = ImageLoaded
		if rerr := im.registerLocked(e, img); rerr != nil {
			report = rerr
		} else {
			ok = true
		}
	}
	if !ok && report == nil {
		im.notifyLocked()
		im.mu.Unlock()
		return
	}
	e.reporting = true
	im.mu.Unlock()

	if ok {
		im.registered(e.id)
	}
	if report != nil && im.onError != nil {
		im.onError(report)
	}

	im.mu.Lock()
	e.reporting = false
	im.notifyLocked()
	im.mu.Unlock()
}

func (im *ImageManager) registerLocked(e *imageEntry, img image.Image) error {
	if !im.m.HasImage(e.id) {
		if err := im.m.AddImage(e.id, img); err != nil {
			e.err = fmt.Errorf("register image %q: %w", e.id, err)
			return e.err
		}
	}
	e.state = ImageRegistered
	e.err = nil
	return nil
}

func (im *ImageManager) failLocked(e *imageEntry, err error) {
	e.state = ImageFailed
	e.err = &ImageLoadError{ID: e.id, Err: err}
	im.log.Error().Str("image", e.id).Err(err).Msg("image failed to load")
	metricImages.WithLabelValues("failed").Inc()
}

func (im *ImageManager) registered(id string) {
	im.log.Debug().Str("image", id).Msg("image registered")
	metricImages.WithLabelValues("registered").Inc()
	if im.onReady != nil {
		im.onReady(id)
	}
}

func (im *ImageManager) notifyLocked() {
	close(im.changed)
	im.changed = make(chan struct{})
}

// RemoveImages removes every configured image from the engine, last first.
// Removed images return to loaded and can be registered again.
func (im *ImageManager) RemoveImages() error {
	if im.m == nil {
		return ErrMapNotCreated
	}
	im.mu.Lock()
	defer im.mu.Unlock()
	var errs []error
	for i := len(im.entries) - 1; i >= 0; i-- {
		if err := im.removeLocked(im.entries[i]); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// RemoveImagesByIDs removes the named configured images. Unknown ids are
// ignored.
func (im *ImageManager) RemoveImagesByIDs(ids []string) error {
	if im.m == nil {
		return ErrMapNotCreated
	}
	im.mu.Lock()
	defer im.mu.Unlock()
	var errs []error
	for _, id := range ids {
		e, ok := im.byID[id]
		if !ok {
			continue
		}
		if err := im.removeLocked(e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (im *ImageManager) removeLocked(e *imageEntry) error {
	if !im.m.HasImage(e.id) {
		return nil
	}
	if err := im.m.RemoveImage(e.id); err != nil {
		return fmt.Errorf("remove image %q: %w", e.id, err)
	}
	if e.state == ImageRegistered {
		e.state = ImageLoaded
	}
	return nil
}

// Wait blocks until no subscribed image is pending and returns the errors
// of failed images.
func (im *ImageManager) Wait(ctx context.Context) error {
	for {
		im.mu.Lock()
		pending := false
		var errs []error
		for _, e := range im.entries {
			if e.awaiting() {
				pending = true
			}
			if e.err != nil {
				errs = append(errs, e.err)
			}
		}
		ch := im.changed
		im.mu.Unlock()
		if !pending {
			return errors.Join(errs...)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ch:
		}
	}
}

// State returns the state of the image configured under id.
func (im *ImageManager) State(id string) (ImageState, bool) {
	im.mu.Lock()
	defer im.mu.Unlock()
	e, ok := im.byID[id]
	if !ok {
		return 0, false
	}
	return e.state, true
}

// Close stops the manager from registering anything else. Images still
// decoding are marked discarded and their completions are dropped.
func (im *ImageManager) Close() {
	im.mu.Lock()
	defer im.mu.Unlock()
	if im.closed {
		return
	}
	im.closed = true
	for _, e := range im.entries {
		if e.state == ImagePending {
			e.state = ImageDiscarded
		}
	}
	im.notifyLocked()
}

func (im *ImageManager) errOf(id string) error {
	im.mu.Lock()
	defer im.mu.Unlock()
	if e, ok := im.byID[id]; ok {
		return e.err
	}
	return nil
}
