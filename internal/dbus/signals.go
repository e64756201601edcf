package dbus

import (
	"fmt"

	"github.com/godbus/dbus/v5"
)

// EmitBrightnessChanged emits the BrightnessChanged signal.
func (s *ControlServer) EmitBrightnessChanged(brightness float64) error {
	if s.conn == nil {
		return fmt.Errorf("not connected to D-Bus")
	}

	err := s.conn.Emit(DBusPath, DBusInterface+"."+SignalBrightnessChanged, brightness)
	if err != nil {
		return fmt.Errorf("failed to emit %s signal: %w", SignalBrightnessChanged, err)
	}

	s.logger.Debug("emitted BrightnessChanged signal", "brightness", brightness)
	return nil
}

// parseBrightnessChanged extracts the value from a BrightnessChanged
// signal. ok is false for any other signal.
func parseBrightnessChanged(sig *dbus.Signal) (float64, bool) {
	if sig == nil || sig.Path != DBusPath || sig.Name != DBusInterface+"."+SignalBrightnessChanged {
		return 0, false
	}
	if len(sig.Body) < 1 {
		return 0, false
	}
	v, ok := sig.Body[0].(float64)
	return v, ok
}
