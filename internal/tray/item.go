package tray

import (
	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"
)

// statusNotifierItem carries the org.kde.StatusNotifierItem methods.
type statusNotifierItem struct {
	tray *Tray
}

// Activate is a primary click on the icon.
// D-Bus method: Activate(ii)
func (i *statusNotifierItem) Activate(x, y int32) *dbus.Error {
	i.tray.showSlider()
	return nil
}

// SecondaryActivate is a middle click on the icon.
// D-Bus method: SecondaryActivate(ii)
func (i *statusNotifierItem) SecondaryActivate(x, y int32) *dbus.Error {
	i.tray.showSlider()
	return nil
}

// ContextMenu is only called by hosts that ignore the Menu property.
// D-Bus method: ContextMenu(ii)
func (i *statusNotifierItem) ContextMenu(x, y int32) *dbus.Error {
	return nil
}

// Scroll is ignored.
// D-Bus method: Scroll(is)
func (i *statusNotifierItem) Scroll(delta int32, orientation string) *dbus.Error {
	return nil
}

func itemMethods() []introspect.Method {
	xy := []introspect.Arg{
		{Name: "x", Type: "i", Direction: "in"},
		{Name: "y", Type: "i", Direction: "in"},
	}
	return []introspect.Method{
		{Name: "Activate", Args: xy},
		{Name: "SecondaryActivate", Args: xy},
		{Name: "ContextMenu", Args: xy},
		{
			Name: "Scroll",
			Args: []introspect.Arg{
				{Name: "delta", Type: "i", Direction: "in"},
				{Name: "orientation", Type: "s", Direction: "in"},
			},
		},
	}
}
