package manager

import (
	"errors"
	"fmt"

	"mapbuilder/internal/engine"
)

// ControlManager attaches the configured controls to a map and detaches them
// in the same order.
type ControlManager struct {
	m        engine.Map
	controls []Control
}

func NewControlManager(m engine.Map, controls []Control) *ControlManager {
	return &ControlManager{m: m, controls: controls}
}

// AttachControls adds every control at its position. The first engine
// failure is returned and later controls are not attached.
func (cm *ControlManager) AttachControls() error {
	if cm.m == nil {
		return ErrMapNotCreated
	}
	for i, c := range cm.controls {
		if c.Control == nil {
			continue
		}
		pos := c.Position
		if pos == "" {
			pos = engine.DefaultPosition
		}
		if err := cm.m.AddControl(c.Control, pos); err != nil {
			return fmt.Errorf("attach control %d: %w", i, err)
		}
	}
	return nil
}

// DetachControls removes every control in configured order. Failures are
// joined; one failing control does not keep the others attached.
func (cm *ControlManager) DetachControls() error {
	if cm.m == nil {
		return ErrMapNotCreated
	}
	var errs []error
	for i, cc := range cm.controls {
		c := cc.Control
		if c == nil {
			continue
		}
		if err := cm.m.RemoveControl(c); err != nil {
			errs = append(errs, fmt.Errorf("detach control %d: %w", i, err))
		}
	}
	return errors.Join(errs...)
}
