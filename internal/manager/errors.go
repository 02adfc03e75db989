package manager

import (
	"errors"
	"fmt"
)

var (
	// ErrMapNotCreated is returned when a step needs the engine before it exists.
	ErrMapNotCreated = errors.New("map must be created first")
	// ErrAlreadyInitialized is returned by a second Initialize call.
	ErrAlreadyInitialized = errors.New("initializer already initialized")
	// ErrDestroyed is returned by operations on a destroyed Initializer.
	ErrDestroyed = errors.New("initializer destroyed")
)

// ImageLoadError reports an image that failed to decode. It is never
// swallowed: symbol layers referencing the id render wrong without it.
type ImageLoadError struct {
	ID  string
	Err error
}

func (e *ImageLoadError) Error() string {
	if e.Err == nil {
		return "failed to load image: " + e.ID
	}
	return fmt.Sprintf("failed to load image: %s: %v", e.ID, e.Err)
}

func (e *ImageLoadError) Unwrap() error { return e.Err }

// IsImageLoadError reports whether err contains an ImageLoadError.
func IsImageLoadError(err error) bool {
	var ie *ImageLoadError
	return errors.As(err, &ie)
}

// ValidationError lists reference problems in a MapConfig.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	if len(e.Problems) == 1 {
		return "invalid map config: " + e.Problems[0]
	}
	return fmt.Sprintf("invalid map config: %d problems, first: %s", len(e.Problems), e.Problems[0])
}

// IsValidationError reports whether err contains a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
