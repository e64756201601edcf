package x11

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/shape"
	"github.com/jezek/xgb/xproto"
)

// ErrWindowNotFound is returned when no managed window carries the title.
var ErrWindowNotFound = errors.New("window not found")

const (
	netWMStateRemove = 0
	netWMStateAdd    = 1
)

var atomNames = []string{
	"_NET_CLIENT_LIST",
	"_NET_WM_NAME",
	"_NET_WM_STATE",
	"_NET_WM_STATE_ABOVE",
	"UTF8_STRING",
}

// Client is a connection to the X server.
type Client struct {
	conn   *xgb.Conn
	root   xproto.Window
	width  uint16
	height uint16
	atoms  map[string]xproto.Atom
	shape  bool
}

// Available reports whether an X display is configured.
func Available() bool {
	return os.Getenv("DISPLAY") != ""
}

// Connect opens a connection to the default display and interns the atoms
// used by the other methods.
func Connect() (*Client, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X server: %w", err)
	}

	screen := xproto.Setup(conn).DefaultScreen(conn)
	c := &Client{
		conn:   conn,
		root:   screen.Root,
		width:  screen.WidthInPixels,
		height: screen.HeightInPixels,
		atoms:  make(map[string]xproto.Atom, len(atomNames)),
	}

	for _, name := range atomNames {
		reply, err := xproto.InternAtom(conn, false, uint16(len(name)), name).Reply()
		if err != nil {
			conn.Close()
			return nil, fmt.Errorf("failed to intern atom %s: %w", name, err)
		}
		c.atoms[name] = reply.Atom
	}

	// Without SHAPE the overlay still dims but swallows clicks.
	c.shape = shape.Init(conn) == nil

	return c, nil
}

// Close releases the connection.
func (c *Client) Close() {
	c.conn.Close()
}

// ScreenSize returns the default screen's size in pixels.
func (c *Client) ScreenSize() (int, int) {
	return int(c.width), int(c.height)
}

// FindWindowByTitle searches the window manager's client list for a
// top-level window whose _NET_WM_NAME equals title.
func (c *Client) FindWindowByTitle(title string) (xproto.Window, error) {
	data, err := c.property(c.root, c.atoms["_NET_CLIENT_LIST"], xproto.AtomWindow, 1<<16)
	if err != nil {
		return 0, fmt.Errorf("failed to read client list: %w", err)
	}

	for _, win := range decodeWindows(data) {
		name, err := c.property(win, c.atoms["_NET_WM_NAME"], c.atoms["UTF8_STRING"], 256)
		if err != nil || len(name) == 0 {
			name, err = c.property(win, xproto.AtomWmName, xproto.AtomString, 256)
			if err != nil {
				continue
			}
		}
		if string(name) == title {
			return win, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrWindowNotFound, title)
}

// SetAbove asks the window manager to keep win above other windows.
func (c *Client) SetAbove(win xproto.Window, above bool) error {
	action := uint32(netWMStateRemove)
	if above {
		action = netWMStateAdd
	}

	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: win,
		Type:   c.atoms["_NET_WM_STATE"],
		Data: xproto.ClientMessageDataUnionData32New(
			netWMStateData(action, c.atoms["_NET_WM_STATE_ABOVE"]),
		),
	}

	mask := uint32(xproto.EventMaskSubstructureRedirect | xproto.EventMaskSubstructureNotify)
	if err := xproto.SendEventChecked(c.conn, false, c.root, mask, string(ev.Bytes())).Check(); err != nil {
		return fmt.Errorf("failed to set _NET_WM_STATE_ABOVE: %w", err)
	}
	return nil
}

// ClearInputShape gives win an empty input region so pointer events pass
// through to whatever is below it.
func (c *Client) ClearInputShape(win xproto.Window) error {
	if !c.shape {
		return errors.New("X SHAPE extension not available")
	}
	err := shape.RectanglesChecked(c.conn, shape.SoSet, shape.SkInput,
		xproto.ClipOrderingUnsorted, win, 0, 0, nil).Check()
	if err != nil {
		return fmt.Errorf("failed to clear input shape: %w", err)
	}
	return nil
}

// Move places win's top-left corner at x, y on the root window.
func (c *Client) Move(win xproto.Window, x, y int) error {
	mask := uint16(xproto.ConfigWindowX | xproto.ConfigWindowY)
	values := []uint32{uint32(int32(x)), uint32(int32(y))}
	if err := xproto.ConfigureWindowChecked(c.conn, win, mask, values).Check(); err != nil {
		return fmt.Errorf("failed to move window: %w", err)
	}
	return nil
}

func (c *Client) property(win xproto.Window, atom, typ xproto.Atom, length uint32) ([]byte, error) {
	reply, err := xproto.GetProperty(c.conn, false, win, atom, typ, 0, length).Reply()
	if err != nil {
		return nil, err
	}
	return reply.Value, nil
}

// decodeWindows splits a 32-bit WINDOW[] property value.
func decodeWindows(data []byte) []xproto.Window {
	windows := make([]xproto.Window, 0, len(data)/4)
	for i := 0; i+4 <= len(data); i += 4 {
		windows = append(windows, xproto.Window(binary.LittleEndian.Uint32(data[i:])))
	}
	return windows
}

// netWMStateData builds the five longs of a _NET_WM_STATE client message.
// Source indication 1 marks a normal application.
func netWMStateData(action uint32, prop xproto.Atom) []uint32 {
	return []uint32{action, uint32(prop), 0, 1, 0}
}
