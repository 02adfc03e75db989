// Package imageres provides decodable image resources. A resource starts
// pending, decodes asynchronously and settles as loaded or failed; callers
// subscribe to completion instead of blocking.
package imageres

import (
	"image"
	"slices"
	"sync"
)

// Status is the decode state of a resource.
type Status int

const (
	StatusPending Status = iota
	StatusLoaded
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusLoaded:
		return "loaded"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Resource is an image that may still be decoding.
type Resource interface {
	Status() Status
	// Image is nil unless Status is StatusLoaded.
	Image() image.Image
	// Err is nil unless Status is StatusFailed.
	Err() error
	// OnComplete subscribes fn to completion. When the resource has already
	// settled fn runs immediately on the calling goroutine; otherwise it runs
	// on the goroutine that settles the resource.
	OnComplete(fn func(image.Image, error))
}

type state struct {
	mu     sync.Mutex
	status Status
	img    image.Image
	err    error
	subs   []func(image.Image, error)
}

func (s *state) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func (s *state) Image() image.Image {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.img
}

func (s *state) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *state) OnComplete(fn func(image.Image, error)) {
	s.mu.Lock()
	if s.status == StatusPending {
		s.subs = append(s.subs, fn)
		s.mu.Unlock()
		return
	}
	img, err := s.img, s.err
	s.mu.Unlock()
	fn(img, err)
}

// settle records the outcome and notifies subscribers. With once set a
// second settle is ignored.
func (s *state) settle(img image.Image, err error, once bool) {
	s.mu.Lock()
	if once && s.status != StatusPending {
		s.mu.Unlock()
		return
	}
	if err != nil {
		s.status, s.img, s.err = StatusFailed, nil, err
	} else {
		s.status, s.img, s.err = StatusLoaded, img, nil
	}
	subs := slices.Clone(s.subs)
	s.mu.Unlock()
	for _, fn := range subs {
		fn(img, err)
	}
}

// Decoded returns a resource that is already loaded.
func Decoded(img image.Image) Resource {
	return &state{status: StatusLoaded, img: img}
}

// Failed returns a resource that has already failed with err.
func Failed(err error) Resource {
	return &state{status: StatusFailed, err: err}
}

// Deferred is a resource settled by hand. Unlike decoded resources it
// notifies subscribers on every Resolve or Reject, the way a DOM image fires
// load again when its source is reassigned.
type Deferred struct {
	state
}

// NewDeferred returns a pending resource.
func NewDeferred() *Deferred { return &Deferred{} }

// Resolve marks the resource loaded with img and notifies subscribers.
func (d *Deferred) Resolve(img image.Image) { d.settle(img, nil, false) }

// Reject marks the resource failed with err and notifies subscribers.
func (d *Deferred) Reject(err error) { d.settle(nil, err, false) }
