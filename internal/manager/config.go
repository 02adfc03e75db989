package manager

import (
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Option configures an Initializer.
type Option func(*Initializer)

// WithLogger sets the structured logger. The default discards output.
func WithLogger(l zerolog.Logger) Option {
	return func(i *Initializer) { i.log = l }
}

// WithEventPublisher sets the lifecycle event sink. A nil publisher keeps
// the no-op default.
func WithEventPublisher(p EventPublisher) Option {
	return func(i *Initializer) {
		if p != nil {
			i.publisher = p
		}
	}
}

// WithErrorHandler sets the callback for errors raised after Initialize has
// returned: setup failures inside the style-load notification and late image
// failures. fn runs on the goroutine that raised the error and must not
// call back into the Initializer.
func WithErrorHandler(fn func(error)) Option {
	return func(i *Initializer) { i.onError = fn }
}

// WithRunID overrides the generated run id.
func WithRunID(id string) Option {
	return func(i *Initializer) {
		if id != "" {
			i.runID = id
		}
	}
}

func newRunID() string { return uuid.NewString() }
