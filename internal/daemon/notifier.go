package daemon

import (
	"log/slog"
	"sync"
	"time"

	"github.com/jmylchreest/shade/internal/dbus"
)

// NotificationLevel indicates the severity of an internal notification.
type NotificationLevel int

const (
	NotificationLevelInfo NotificationLevel = iota
	NotificationLevelWarning
	NotificationLevelError
)

// DefaultNotifyInterval is the minimum gap between two notifications with
// the same key.
const DefaultNotifyInterval = 5 * time.Second

// SendFunc delivers a desktop notification.
type SendFunc func(n dbus.DesktopNotification) error

// InternalNotifier tells the user about shaded's own events through the
// desktop notification daemon. Repeats of the same key are rate limited.
type InternalNotifier struct {
	mu     sync.Mutex
	logger *slog.Logger
	send   SendFunc
	now    func() time.Time

	lastNotifyTime map[string]time.Time
	minInterval    time.Duration

	enabled bool
}

// NewInternalNotifier creates a notifier. Nothing is sent until a sender is
// set.
func NewInternalNotifier(logger *slog.Logger) *InternalNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &InternalNotifier{
		logger:         logger,
		now:            time.Now,
		lastNotifyTime: make(map[string]time.Time),
		minInterval:    DefaultNotifyInterval,
		enabled:        true,
	}
}

// SetSender sets the function used to deliver notifications.
func (n *InternalNotifier) SetSender(send SendFunc) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.send = send
}

// SetEnabled enables or disables internal notifications.
func (n *InternalNotifier) SetEnabled(enabled bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.enabled = enabled
}

// SetMinInterval sets the minimum interval between duplicate notifications.
func (n *InternalNotifier) SetMinInterval(interval time.Duration) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.minInterval = interval
}

// Notify sends a notification unless the same key was sent within the
// minimum interval. Delivery failures are logged.
func (n *InternalNotifier) Notify(key, summary, body string, level NotificationLevel) {
	n.mu.Lock()
	if !n.enabled {
		n.mu.Unlock()
		return
	}
	if n.send == nil {
		n.mu.Unlock()
		n.logger.Debug("internal notification skipped: no sender", "summary", summary)
		return
	}

	now := n.now()
	if last, ok := n.lastNotifyTime[key]; ok && now.Sub(last) < n.minInterval {
		n.mu.Unlock()
		n.logger.Debug("internal notification rate-limited", "key", key, "summary", summary)
		return
	}
	n.lastNotifyTime[key] = now
	send := n.send
	n.mu.Unlock()

	notification := dbus.DesktopNotification{
		AppName:       "shaded",
		AppIcon:       levelIcon(level),
		Summary:       summary,
		Body:          body,
		Urgency:       levelUrgency(level),
		ExpireTimeout: 5000,
	}

	n.logger.Debug("sending internal notification", "key", key, "summary", summary, "level", level)
	if err := send(notification); err != nil {
		n.logger.Debug("internal notification failed", "key", key, "error", err)
	}
}

// NotifyConfigReloaded reports a successful config reload.
func (n *InternalNotifier) NotifyConfigReloaded() {
	n.Notify(
		"config-reload",
		"Configuration Reloaded",
		"shade configuration has been reloaded.",
		NotificationLevelInfo,
	)
}

// NotifyConfigError reports a config file that was rejected.
func (n *InternalNotifier) NotifyConfigError(err error) {
	n.Notify(
		"config-error",
		"Configuration Error",
		"Keeping the previous configuration: "+err.Error(),
		NotificationLevelWarning,
	)
}

// NotifyThemeError reports a theme that failed to load.
func (n *InternalNotifier) NotifyThemeError(err error) {
	n.Notify(
		"theme-error",
		"Theme Error",
		"Failed to load theme: "+err.Error(),
		NotificationLevelWarning,
	)
}

// NotifyHotkeyError reports a chord that could not be registered.
func (n *InternalNotifier) NotifyHotkeyError(chord string, err error) {
	n.Notify(
		"hotkey-error:"+chord,
		"Hotkey Unavailable",
		"Could not register "+chord+": "+err.Error(),
		NotificationLevelError,
	)
}

func levelUrgency(level NotificationLevel) byte {
	switch level {
	case NotificationLevelInfo:
		return dbus.UrgencyLow
	case NotificationLevelError:
		return dbus.UrgencyCritical
	default:
		return dbus.UrgencyNormal
	}
}

func levelIcon(level NotificationLevel) string {
	switch level {
	case NotificationLevelInfo:
		return "dialog-information"
	case NotificationLevelError:
		return "dialog-error"
	default:
		return "dialog-warning"
	}
}
