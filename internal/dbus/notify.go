package dbus

import (
	"fmt"

	"github.com/godbus/dbus/v5"
)

const (
	notificationsName      = "org.freedesktop.Notifications"
	notificationsPath      = "/org/freedesktop/Notifications"
	notificationsInterface = "org.freedesktop.Notifications"
)

// Urgency levels of the freedesktop notification spec.
const (
	UrgencyLow      byte = 0
	UrgencyNormal   byte = 1
	UrgencyCritical byte = 2
)

// DesktopNotification is a message for the user's notification daemon.
type DesktopNotification struct {
	AppName       string
	AppIcon       string
	Summary       string
	Body          string
	Urgency       byte
	ExpireTimeout int32 // milliseconds; -1 lets the server decide
}

// hints returns the Notify hints for n.
func (n DesktopNotification) hints() map[string]dbus.Variant {
	return map[string]dbus.Variant{
		"urgency":       dbus.MakeVariant(n.Urgency),
		"category":      dbus.MakeVariant("device"),
		"transient":     dbus.MakeVariant(true),
		"desktop-entry": dbus.MakeVariant(n.AppName),
	}
}

// SendNotification delivers n to whatever owns org.freedesktop.Notifications
// and returns the notification id.
func SendNotification(conn *dbus.Conn, n DesktopNotification) (uint32, error) {
	if conn == nil {
		return 0, fmt.Errorf("not connected to D-Bus")
	}
	obj := conn.Object(notificationsName, notificationsPath)

	var id uint32
	err := obj.Call(notificationsInterface+".Notify", 0,
		n.AppName,
		uint32(0),
		n.AppIcon,
		n.Summary,
		n.Body,
		[]string{},
		n.hints(),
		n.ExpireTimeout,
	).Store(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to send notification: %w", err)
	}
	return id, nil
}
