package tray

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"
	"github.com/godbus/dbus/v5/prop"
)

const (
	itemPath      = "/StatusNotifierItem"
	itemInterface = "org.kde.StatusNotifierItem"

	watcherName      = "org.kde.StatusNotifierWatcher"
	watcherPath      = "/StatusNotifierWatcher"
	watcherInterface = "org.kde.StatusNotifierWatcher"

	itemID    = "shade"
	itemTitle = "Screen Dimmer"
)

// toolTip is the StatusNotifierItem ToolTip property. D-Bus signature
// (sa(iiay)ss).
type toolTip struct {
	IconName    string
	IconPixmap  []Pixmap
	Title       string
	Description string
}

// Options configures a Tray.
type Options struct {
	// OnShowSlider runs on the tray goroutine; it must only enqueue work.
	OnShowSlider func()
	// OnExit runs on the tray goroutine after the tray has stopped.
	OnExit func()
	Logger *slog.Logger
}

// Tray is a StatusNotifierItem with a two-entry menu.
type Tray struct {
	opts   Options
	logger *slog.Logger
	menu   *menu

	mu      sync.Mutex
	busName string
	stopCh  chan struct{}
	stopped bool
}

// New creates a tray icon. Nothing is published until Run.
func New(opts Options) *Tray {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	t := &Tray{
		opts:    opts,
		logger:  logger,
		busName: fmt.Sprintf("org.kde.StatusNotifierItem-%d-1", os.Getpid()),
		stopCh:  make(chan struct{}),
	}
	t.menu = newMenu(
		menuItem{id: menuShowSliderID, label: "Show Slider", action: t.showSlider},
		menuItem{id: menuExitID, label: "Exit", action: t.exit},
	)
	return t
}

// Run publishes the icon and serves it until ctx is done or Stop is
// called. It blocks; run it on its own goroutine.
func (t *Tray) Run(ctx context.Context) error {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return fmt.Errorf("failed to connect to session bus: %w", err)
	}
	defer conn.Close()

	if err := t.export(conn); err != nil {
		return err
	}

	reply, err := conn.RequestName(t.busName, dbus.NameFlagDoNotQueue)
	if err != nil {
		return fmt.Errorf("failed to request bus name: %w", err)
	}
	if reply != dbus.RequestNameReplyPrimaryOwner {
		return fmt.Errorf("bus name %s already taken", t.busName)
	}

	watchOpts := []dbus.MatchOption{
		dbus.WithMatchInterface("org.freedesktop.DBus"),
		dbus.WithMatchMember("NameOwnerChanged"),
		dbus.WithMatchArg(0, watcherName),
	}
	if err := conn.AddMatchSignalContext(ctx, watchOpts...); err != nil {
		t.logger.Warn("failed to watch for tray host restarts", "error", err)
	}
	signals := make(chan *dbus.Signal, 8)
	conn.Signal(signals)
	defer conn.RemoveSignal(signals)

	if err := t.register(conn); err != nil {
		// A host may appear later; NameOwnerChanged triggers a retry.
		t.logger.Warn("no tray host available yet", "error", err)
	}

	for {
		select {
		case <-ctx.Done():
			t.logger.Debug("tray stopped", "reason", ctx.Err())
			return nil
		case <-t.stopCh:
			t.logger.Debug("tray stopped")
			return nil
		case sig, ok := <-signals:
			if !ok {
				return nil
			}
			if watcherAppeared(sig) {
				if err := t.register(conn); err != nil {
					t.logger.Warn("failed to re-register tray icon", "error", err)
				}
			}
		}
	}
}

// Stop ends Run. Safe to call more than once and from any goroutine.
func (t *Tray) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped {
		return
	}
	t.stopped = true
	close(t.stopCh)
}

func (t *Tray) showSlider() {
	t.logger.Debug("tray: show slider")
	if t.opts.OnShowSlider != nil {
		t.opts.OnShowSlider()
	}
}

func (t *Tray) exit() {
	t.logger.Info("tray: exit selected")
	t.Stop()
	if t.opts.OnExit != nil {
		t.opts.OnExit()
	}
}

func (t *Tray) export(conn *dbus.Conn) error {
	item := &statusNotifierItem{tray: t}
	if err := conn.Export(item, itemPath, itemInterface); err != nil {
		return fmt.Errorf("failed to export tray item: %w", err)
	}
	itemProps, err := prop.Export(conn, itemPath, prop.Map{itemInterface: itemProperties()})
	if err != nil {
		return fmt.Errorf("failed to export tray item properties: %w", err)
	}

	if err := conn.Export(t.menu, menuPath, menuInterface); err != nil {
		return fmt.Errorf("failed to export tray menu: %w", err)
	}
	menuProps, err := prop.Export(conn, menuPath, prop.Map{menuInterface: menuProperties()})
	if err != nil {
		return fmt.Errorf("failed to export tray menu properties: %w", err)
	}

	nodes := map[dbus.ObjectPath]introspect.Interface{
		itemPath: {
			Name:       itemInterface,
			Methods:    itemMethods(),
			Properties: itemProps.Introspection(itemInterface),
		},
		menuPath: {
			Name:       menuInterface,
			Methods:    menuMethods(),
			Signals:    menuSignals(),
			Properties: menuProps.Introspection(menuInterface),
		},
	}
	for path, iface := range nodes {
		node := &introspect.Node{
			Name: string(path),
			Interfaces: []introspect.Interface{
				introspect.IntrospectData,
				prop.IntrospectData,
				iface,
			},
		}
		if err := conn.Export(introspect.NewIntrospectable(node), path,
			"org.freedesktop.DBus.Introspectable"); err != nil {
			return fmt.Errorf("failed to export introspectable: %w", err)
		}
	}
	return nil
}

func (t *Tray) register(conn *dbus.Conn) error {
	obj := conn.Object(watcherName, watcherPath)
	call := obj.Call(watcherInterface+".RegisterStatusNotifierItem", 0, t.busName)
	if call.Err != nil {
		return fmt.Errorf("failed to register with %s: %w", watcherName, call.Err)
	}
	t.logger.Info("tray icon registered", "name", t.busName)
	return nil
}

// watcherAppeared reports whether sig announces a new StatusNotifierWatcher
// owner.
func watcherAppeared(sig *dbus.Signal) bool {
	if sig == nil || sig.Name != "org.freedesktop.DBus.NameOwnerChanged" || len(sig.Body) < 3 {
		return false
	}
	name, _ := sig.Body[0].(string)
	newOwner, _ := sig.Body[2].(string)
	return name == watcherName && newOwner != ""
}

func itemProperties() map[string]*prop.Prop {
	pixmaps := Pixmaps()
	ro := func(v any) *prop.Prop {
		return &prop.Prop{Value: v, Writable: false, Emit: prop.EmitTrue}
	}
	return map[string]*prop.Prop{
		"Category":      ro("Hardware"),
		"Id":            ro(itemID),
		"Title":         ro(itemTitle),
		"Status":        ro("Active"),
		"WindowId":      ro(int32(0)),
		"IconName":      ro(""),
		"IconPixmap":    ro(pixmaps),
		"IconThemePath": ro(""),
		"ToolTip":       ro(toolTip{IconPixmap: pixmaps, Title: itemTitle}),
		"ItemIsMenu":    ro(false),
		"Menu":          ro(dbus.ObjectPath(menuPath)),
	}
}

func menuProperties() map[string]*prop.Prop {
	ro := func(v any) *prop.Prop {
		return &prop.Prop{Value: v, Writable: false, Emit: prop.EmitTrue}
	}
	return map[string]*prop.Prop{
		"Version":       ro(uint32(3)),
		"TextDirection": ro("ltr"),
		"Status":        ro("normal"),
		"IconThemePath": ro([]string{}),
	}
}

func errUnknownProperty(id int32, name string) error {
	return fmt.Errorf("menu item %d has no property %q", id, name)
}
