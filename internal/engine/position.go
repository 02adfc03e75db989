package engine

import "fmt"

// Position anchors a control to a corner of the map.
type Position string

const (
	TopLeft     Position = "top-left"
	TopRight    Position = "top-right"
	BottomLeft  Position = "bottom-left"
	BottomRight Position = "bottom-right"
)

// DefaultPosition is used when a control declares none.
const DefaultPosition = TopRight

// ParsePosition accepts the four corner names; empty yields DefaultPosition.
func ParsePosition(s string) (Position, error) {
	switch p := Position(s); p {
	case "":
		return DefaultPosition, nil
	case TopLeft, TopRight, BottomLeft, BottomRight:
		return p, nil
	default:
		return "", fmt.Errorf("unknown control position %q", s)
	}
}
