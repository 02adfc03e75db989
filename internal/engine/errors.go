package engine

import (
	"errors"
	"fmt"
)

// ErrRemoved is returned by every call on a disposed instance.
var ErrRemoved = errors.New("map instance has been removed")

// Error is an engine-level failure tied to an operation and resource id.
type Error struct {
	Op  string
	ID  string
	Msg string
}

func (e *Error) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Msg)
	}
	return fmt.Sprintf("%s %q: %s", e.Op, e.ID, e.Msg)
}

// IsEngineError reports whether err carries an *Error.
func IsEngineError(err error) bool {
	var ee *Error
	return errors.As(err, &ee)
}
