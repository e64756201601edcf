package dbus

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/godbus/dbus/v5"
)

// BrightnessHandler receives values from BrightnessChanged signals.
type BrightnessHandler func(brightness float64)

// Monitor subscribes to shaded's BrightnessChanged signal.
type Monitor struct {
	conn   *dbus.Conn
	logger *slog.Logger

	onChange BrightnessHandler
}

// NewMonitor creates a monitor on conn.
func NewMonitor(conn *dbus.Conn, logger *slog.Logger) *Monitor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Monitor{
		conn:   conn,
		logger: logger,
	}
}

// SetHandler sets the callback for received values.
func (m *Monitor) SetHandler(handler BrightnessHandler) {
	m.onChange = handler
}

// Run adds the match rule and dispatches signals until ctx is done.
func (m *Monitor) Run(ctx context.Context) error {
	opts := []dbus.MatchOption{
		dbus.WithMatchObjectPath(DBusPath),
		dbus.WithMatchInterface(DBusInterface),
		dbus.WithMatchMember(SignalBrightnessChanged),
	}
	if err := m.conn.AddMatchSignalContext(ctx, opts...); err != nil {
		return fmt.Errorf("failed to add match rule: %w", err)
	}
	defer func() {
		if err := m.conn.RemoveMatchSignal(opts...); err != nil {
			m.logger.Debug("failed to remove match rule", "error", err)
		}
	}()

	ch := make(chan *dbus.Signal, 16)
	m.conn.Signal(ch)
	defer m.conn.RemoveSignal(ch)

	m.logger.Debug("watching brightness signals")
	for {
		select {
		case <-ctx.Done():
			return nil
		case sig, ok := <-ch:
			if !ok {
				return nil
			}
			v, ok := parseBrightnessChanged(sig)
			if !ok {
				continue
			}
			if m.onChange != nil {
				m.onChange(v)
			}
		}
	}
}
