package dbus

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"
)

// ControlServer implements the io.github.jmylchreest.shade.Control D-Bus
// interface.
type ControlServer struct {
	conn    *dbus.Conn
	logger  *slog.Logger
	handler Handler

	mu         sync.RWMutex
	serverInfo ServerInfo
	running    bool
}

// NewControlServer creates a server dispatching to handler.
func NewControlServer(handler Handler, logger *slog.Logger) *ControlServer {
	if logger == nil {
		logger = slog.Default()
	}
	return &ControlServer{
		logger:     logger,
		handler:    handler,
		serverInfo: DefaultServerInfo(""),
	}
}

// SetServerInfo sets the information returned by GetServerInformation.
func (s *ControlServer) SetServerInfo(info ServerInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.serverInfo = info
}

// Start connects to the session bus, exports the control object and claims
// the bus name. ErrAlreadyRunning means another daemon owns it.
func (s *ControlServer) Start() error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return fmt.Errorf("server already running")
	}
	s.mu.Unlock()

	conn, err := dbus.SessionBus()
	if err != nil {
		return fmt.Errorf("failed to connect to session bus: %w", err)
	}
	s.conn = conn

	if err := conn.Export(s, DBusPath, DBusInterface); err != nil {
		return fmt.Errorf("failed to export object: %w", err)
	}

	node := &introspect.Node{
		Name: DBusPath,
		Interfaces: []introspect.Interface{
			introspect.IntrospectData,
			{
				Name:    DBusInterface,
				Methods: controlMethods(),
				Signals: controlSignals(),
			},
		},
	}
	if err := conn.Export(introspect.NewIntrospectable(node), DBusPath,
		"org.freedesktop.DBus.Introspectable"); err != nil {
		return fmt.Errorf("failed to export introspectable: %w", err)
	}

	reply, err := conn.RequestName(DBusBusName, dbus.NameFlagDoNotQueue)
	if err != nil {
		return fmt.Errorf("failed to request bus name: %w", err)
	}
	if reply != dbus.RequestNameReplyPrimaryOwner {
		_ = conn.Export(nil, DBusPath, DBusInterface)
		return fmt.Errorf("%w: bus name %s taken", ErrAlreadyRunning, DBusBusName)
	}

	s.mu.Lock()
	s.running = true
	s.mu.Unlock()

	s.logger.Info("D-Bus control server started", "interface", DBusInterface, "path", DBusPath)
	return nil
}

// Stop releases the bus name. The shared session connection stays open.
func (s *ControlServer) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}
	s.running = false

	if s.conn != nil {
		if _, err := s.conn.ReleaseName(DBusBusName); err != nil {
			s.logger.Warn("failed to release bus name", "error", err)
		}
	}

	s.logger.Info("D-Bus control server stopped")
	return nil
}

// Connection returns the session bus connection, for services that share
// it such as the tray icon.
func (s *ControlServer) Connection() *dbus.Conn {
	return s.conn
}

// Increase raises brightness by one step.
// D-Bus method: Increase() -> d
func (s *ControlServer) Increase() (float64, *dbus.Error) {
	s.logger.Debug("Increase called")
	v, err := s.handler.Increase()
	if err != nil {
		return 0, dbus.MakeFailedError(err)
	}
	return v, nil
}

// Decrease lowers brightness by one step.
// D-Bus method: Decrease() -> d
func (s *ControlServer) Decrease() (float64, *dbus.Error) {
	s.logger.Debug("Decrease called")
	v, err := s.handler.Decrease()
	if err != nil {
		return 0, dbus.MakeFailedError(err)
	}
	return v, nil
}

// SetBrightness sets an absolute brightness and returns the clamped value.
// D-Bus method: SetBrightness(d) -> d
func (s *ControlServer) SetBrightness(v float64) (float64, *dbus.Error) {
	s.logger.Debug("SetBrightness called", "value", v)
	got, err := s.handler.SetBrightness(v)
	if err != nil {
		return 0, dbus.MakeFailedError(err)
	}
	return got, nil
}

// GetBrightness returns the current brightness.
// D-Bus method: GetBrightness() -> d
func (s *ControlServer) GetBrightness() (float64, *dbus.Error) {
	return s.handler.Brightness(), nil
}

// ShowSlider presents the slider popup.
// D-Bus method: ShowSlider()
func (s *ControlServer) ShowSlider() *dbus.Error {
	s.logger.Debug("ShowSlider called")
	if err := s.handler.ShowSlider(); err != nil {
		return dbus.MakeFailedError(err)
	}
	return nil
}

// Quit shuts the daemon down.
// D-Bus method: Quit()
func (s *ControlServer) Quit() *dbus.Error {
	s.logger.Info("Quit called over D-Bus")
	if err := s.handler.Quit(); err != nil {
		return dbus.MakeFailedError(err)
	}
	return nil
}

// GetServerInformation returns the daemon name, version and start time.
// D-Bus method: GetServerInformation() -> (ssx)
func (s *ControlServer) GetServerInformation() (string, string, int64, *dbus.Error) {
	s.mu.RLock()
	info := s.serverInfo
	s.mu.RUnlock()
	return info.Name, info.Version, info.StartedAt.Unix(), nil
}

// controlMethods returns the D-Bus method introspection data.
func controlMethods() []introspect.Method {
	brightnessOut := []introspect.Arg{{Name: "brightness", Type: "d", Direction: "out"}}
	return []introspect.Method{
		{Name: "Increase", Args: brightnessOut},
		{Name: "Decrease", Args: brightnessOut},
		{
			Name: "SetBrightness",
			Args: []introspect.Arg{
				{Name: "value", Type: "d", Direction: "in"},
				{Name: "brightness", Type: "d", Direction: "out"},
			},
		},
		{Name: "GetBrightness", Args: brightnessOut},
		{Name: "ShowSlider"},
		{Name: "Quit"},
		{
			Name: "GetServerInformation",
			Args: []introspect.Arg{
				{Name: "name", Type: "s", Direction: "out"},
				{Name: "version", Type: "s", Direction: "out"},
				{Name: "started", Type: "x", Direction: "out"},
			},
		},
	}
}

// controlSignals returns the D-Bus signal introspection data.
func controlSignals() []introspect.Signal {
	return []introspect.Signal{
		{
			Name: SignalBrightnessChanged,
			Args: []introspect.Arg{
				{Name: "brightness", Type: "d"},
			},
		},
	}
}
