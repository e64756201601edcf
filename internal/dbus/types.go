package dbus

import (
	"errors"
	"time"
)

const (
	// DBusInterface is the control interface name.
	DBusInterface = "io.github.jmylchreest.shade.Control"
	// DBusPath is the control object path.
	DBusPath = "/io/github/jmylchreest/shade"
	// DBusBusName is the bus name shaded claims.
	DBusBusName = "io.github.jmylchreest.shade"
	// DaemonAppID is shaded's GApplication id. GApplication owns it on its
	// own bus connection before activation, so it must differ from
	// DBusBusName.
	DaemonAppID = "io.github.jmylchreest.shaded"

	// SignalBrightnessChanged is emitted after every brightness change.
	SignalBrightnessChanged = "BrightnessChanged"
)

var (
	// ErrAlreadyRunning is returned by Start when another shaded owns the
	// bus name.
	ErrAlreadyRunning = errors.New("shaded is already running")
	// ErrNotRunning is returned by the client when no shaded owns the bus
	// name.
	ErrNotRunning = errors.New("shaded is not running")
)

// Handler carries out control requests. Implementations are called on
// D-Bus goroutines and must hand work to the UI thread themselves.
type Handler interface {
	Increase() (float64, error)
	Decrease() (float64, error)
	SetBrightness(v float64) (float64, error)
	// Brightness must not block; it reads a published snapshot.
	Brightness() float64
	ShowSlider() error
	Quit() error
}

// ServerInfo describes the running daemon.
type ServerInfo struct {
	Name      string    // "shaded"
	Version   string    // Build version
	StartedAt time.Time // Process start
}

// DefaultServerInfo returns the server information for a daemon starting
// now.
func DefaultServerInfo(version string) ServerInfo {
	if version == "" {
		version = "dev"
	}
	return ServerInfo{
		Name:      "shaded",
		Version:   version,
		StartedAt: time.Now(),
	}
}

// Uptime returns how long the daemon has been running at now.
func (i ServerInfo) Uptime(now time.Time) time.Duration {
	if i.StartedAt.IsZero() || now.Before(i.StartedAt) {
		return 0
	}
	return now.Sub(i.StartedAt)
}
