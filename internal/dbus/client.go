package dbus

import (
	"context"
	"fmt"
	"time"

	"github.com/godbus/dbus/v5"
)

// Client calls a running shaded over the session bus.
type Client struct {
	conn *dbus.Conn
	obj  dbus.BusObject
}

// NewClient connects to the session bus and checks that shaded is running.
func NewClient() (*Client, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to session bus: %w", err)
	}

	var hasOwner bool
	err = conn.BusObject().Call("org.freedesktop.DBus.NameHasOwner", 0, DBusBusName).Store(&hasOwner)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to query bus name owner: %w", err)
	}
	if !hasOwner {
		conn.Close()
		return nil, ErrNotRunning
	}

	return &Client{
		conn: conn,
		obj:  conn.Object(DBusBusName, DBusPath),
	}, nil
}

// Close closes the client's private connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

// Increase raises brightness by one step.
func (c *Client) Increase(ctx context.Context) (float64, error) {
	return c.callFloat(ctx, "Increase")
}

// Decrease lowers brightness by one step.
func (c *Client) Decrease(ctx context.Context) (float64, error) {
	return c.callFloat(ctx, "Decrease")
}

// SetBrightness sets an absolute value and returns the clamped result.
func (c *Client) SetBrightness(ctx context.Context, v float64) (float64, error) {
	return c.callFloat(ctx, "SetBrightness", v)
}

// Brightness returns the current brightness.
func (c *Client) Brightness(ctx context.Context) (float64, error) {
	return c.callFloat(ctx, "GetBrightness")
}

// ShowSlider presents the slider popup.
func (c *Client) ShowSlider(ctx context.Context) error {
	return c.call(ctx, "ShowSlider").Err
}

// Quit asks shaded to exit.
func (c *Client) Quit(ctx context.Context) error {
	return c.call(ctx, "Quit").Err
}

// ServerInformation returns the daemon's name, version and start time.
func (c *Client) ServerInformation(ctx context.Context) (ServerInfo, error) {
	var (
		info    ServerInfo
		started int64
	)
	if err := c.call(ctx, "GetServerInformation").Store(&info.Name, &info.Version, &started); err != nil {
		return ServerInfo{}, fmt.Errorf("GetServerInformation failed: %w", err)
	}
	info.StartedAt = time.Unix(started, 0)
	return info, nil
}

// Connection returns the client's bus connection.
func (c *Client) Connection() *dbus.Conn {
	return c.conn
}

func (c *Client) call(ctx context.Context, method string, args ...any) *dbus.Call {
	return c.obj.CallWithContext(ctx, DBusInterface+"."+method, 0, args...)
}

func (c *Client) callFloat(ctx context.Context, method string, args ...any) (float64, error) {
	var v float64
	if err := c.call(ctx, method, args...).Store(&v); err != nil {
		return 0, fmt.Errorf("%s failed: %w", method, err)
	}
	return v, nil
}
