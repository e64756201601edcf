package tray

import (
	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"
)

const (
	menuPath      = "/MenuBar"
	menuInterface = "com.canonical.dbusmenu"

	menuRootID       int32 = 0
	menuShowSliderID int32 = 1
	menuExitID       int32 = 2
)

// menuLayout is a dbusmenu layout node. D-Bus signature (ia{sv}av).
type menuLayout struct {
	ID         int32
	Properties map[string]dbus.Variant
	Children   []dbus.Variant
}

// menuItemProperties is one GetGroupProperties entry. D-Bus signature (ia{sv}).
type menuItemProperties struct {
	ID         int32
	Properties map[string]dbus.Variant
}

// menuEvent is one EventGroup entry. D-Bus signature (isvu).
type menuEvent struct {
	ID        int32
	EventID   string
	Data      dbus.Variant
	Timestamp uint32
}

type menuItem struct {
	id     int32
	label  string
	action func()
}

// menu implements com.canonical.dbusmenu for a flat list of items.
type menu struct {
	items    []menuItem
	revision uint32
}

func newMenu(items ...menuItem) *menu {
	return &menu{items: items, revision: 1}
}

func (m *menu) item(id int32) (menuItem, bool) {
	for _, it := range m.items {
		if it.id == id {
			return it, true
		}
	}
	return menuItem{}, false
}

func (m *menu) properties(id int32) map[string]dbus.Variant {
	if id == menuRootID {
		return map[string]dbus.Variant{
			"children-display": dbus.MakeVariant("submenu"),
		}
	}
	it, ok := m.item(id)
	if !ok {
		return nil
	}
	return map[string]dbus.Variant{
		"type":    dbus.MakeVariant("standard"),
		"label":   dbus.MakeVariant(it.label),
		"enabled": dbus.MakeVariant(true),
		"visible": dbus.MakeVariant(true),
	}
}

func (m *menu) layout(id int32, depth int32) menuLayout {
	node := menuLayout{
		ID:         id,
		Properties: m.properties(id),
		Children:   []dbus.Variant{},
	}
	if id != menuRootID || depth == 0 {
		return node
	}
	for _, it := range m.items {
		node.Children = append(node.Children, dbus.MakeVariant(menuLayout{
			ID:         it.id,
			Properties: m.properties(it.id),
			Children:   []dbus.Variant{},
		}))
	}
	return node
}

// dispatch runs the action for a "clicked" event. It reports whether id
// named an item.
func (m *menu) dispatch(id int32, eventID string) bool {
	it, ok := m.item(id)
	if !ok {
		return false
	}
	if eventID == "clicked" && it.action != nil {
		it.action()
	}
	return true
}

// GetLayout returns the menu tree below parentID.
// D-Bus method: GetLayout(iias) -> (u(ia{sv}av))
func (m *menu) GetLayout(parentID int32, recursionDepth int32, propertyNames []string) (uint32, menuLayout, *dbus.Error) {
	return m.revision, m.layout(parentID, recursionDepth), nil
}

// GetGroupProperties returns the properties of several items.
// D-Bus method: GetGroupProperties(aias) -> a(ia{sv})
func (m *menu) GetGroupProperties(ids []int32, propertyNames []string) ([]menuItemProperties, *dbus.Error) {
	if len(ids) == 0 {
		ids = []int32{menuRootID}
		for _, it := range m.items {
			ids = append(ids, it.id)
		}
	}
	result := make([]menuItemProperties, 0, len(ids))
	for _, id := range ids {
		if props := m.properties(id); props != nil {
			result = append(result, menuItemProperties{ID: id, Properties: props})
		}
	}
	return result, nil
}

// GetProperty returns a single item property.
// D-Bus method: GetProperty(is) -> v
func (m *menu) GetProperty(id int32, name string) (dbus.Variant, *dbus.Error) {
	v, ok := m.properties(id)[name]
	if !ok {
		return dbus.Variant{}, dbus.MakeFailedError(errUnknownProperty(id, name))
	}
	return v, nil
}

// Event handles a user interaction with an item.
// D-Bus method: Event(isvu)
func (m *menu) Event(id int32, eventID string, data dbus.Variant, timestamp uint32) *dbus.Error {
	m.dispatch(id, eventID)
	return nil
}

// EventGroup handles several events and returns the ids not found.
// D-Bus method: EventGroup(a(isvu)) -> ai
func (m *menu) EventGroup(events []menuEvent) ([]int32, *dbus.Error) {
	notFound := []int32{}
	for _, ev := range events {
		if !m.dispatch(ev.ID, ev.EventID) {
			notFound = append(notFound, ev.ID)
		}
	}
	return notFound, nil
}

// AboutToShow reports whether the menu needs an update before showing.
// D-Bus method: AboutToShow(i) -> b
func (m *menu) AboutToShow(id int32) (bool, *dbus.Error) {
	return false, nil
}

// AboutToShowGroup is the batched AboutToShow.
// D-Bus method: AboutToShowGroup(ai) -> (aiai)
func (m *menu) AboutToShowGroup(ids []int32) ([]int32, []int32, *dbus.Error) {
	return []int32{}, []int32{}, nil
}

func menuMethods() []introspect.Method {
	return []introspect.Method{
		{
			Name: "GetLayout",
			Args: []introspect.Arg{
				{Name: "parentId", Type: "i", Direction: "in"},
				{Name: "recursionDepth", Type: "i", Direction: "in"},
				{Name: "propertyNames", Type: "as", Direction: "in"},
				{Name: "revision", Type: "u", Direction: "out"},
				{Name: "layout", Type: "(ia{sv}av)", Direction: "out"},
			},
		},
		{
			Name: "GetGroupProperties",
			Args: []introspect.Arg{
				{Name: "ids", Type: "ai", Direction: "in"},
				{Name: "propertyNames", Type: "as", Direction: "in"},
				{Name: "properties", Type: "a(ia{sv})", Direction: "out"},
			},
		},
		{
			Name: "GetProperty",
			Args: []introspect.Arg{
				{Name: "id", Type: "i", Direction: "in"},
				{Name: "name", Type: "s", Direction: "in"},
				{Name: "value", Type: "v", Direction: "out"},
			},
		},
		{
			Name: "Event",
			Args: []introspect.Arg{
				{Name: "id", Type: "i", Direction: "in"},
				{Name: "eventId", Type: "s", Direction: "in"},
				{Name: "data", Type: "v", Direction: "in"},
				{Name: "timestamp", Type: "u", Direction: "in"},
			},
		},
		{
			Name: "EventGroup",
			Args: []introspect.Arg{
				{Name: "events", Type: "a(isvu)", Direction: "in"},
				{Name: "idErrors", Type: "ai", Direction: "out"},
			},
		},
		{
			Name: "AboutToShow",
			Args: []introspect.Arg{
				{Name: "id", Type: "i", Direction: "in"},
				{Name: "needUpdate", Type: "b", Direction: "out"},
			},
		},
		{
			Name: "AboutToShowGroup",
			Args: []introspect.Arg{
				{Name: "ids", Type: "ai", Direction: "in"},
				{Name: "updatesNeeded", Type: "ai", Direction: "out"},
				{Name: "idErrors", Type: "ai", Direction: "out"},
			},
		},
	}
}

func menuSignals() []introspect.Signal {
	return []introspect.Signal{
		{
			Name: "ItemsPropertiesUpdated",
			Args: []introspect.Arg{
				{Name: "updatedProps", Type: "a(ia{sv})"},
				{Name: "removedProps", Type: "a(ias)"},
			},
		},
		{
			Name: "LayoutUpdated",
			Args: []introspect.Arg{
				{Name: "revision", Type: "u"},
				{Name: "parent", Type: "i"},
			},
		},
	}
}
