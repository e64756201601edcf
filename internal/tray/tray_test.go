package tray

import (
	"testing"

	"github.com/godbus/dbus/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	shown  int
	exited int
}

func newTestTray(r *recorder) *Tray {
	return New(Options{
		OnShowSlider: func() { r.shown++ },
		OnExit:       func() { r.exited++ },
	})
}

func TestMenuLayout(t *testing.T) {
	tr := newTestTray(&recorder{})

	revision, root, dErr := tr.menu.GetLayout(0, -1, nil)
	require.Nil(t, dErr)
	assert.NotZero(t, revision)
	assert.Equal(t, int32(0), root.ID)
	require.Len(t, root.Children, 2)

	labels := make([]string, 0, 2)
	for _, child := range root.Children {
		node, ok := child.Value().(menuLayout)
		require.True(t, ok)
		labels = append(labels, node.Properties["label"].Value().(string))
	}
	assert.Equal(t, []string{"Show Slider", "Exit"}, labels)
}

func TestMenuLayout_NoRecursion(t *testing.T) {
	tr := newTestTray(&recorder{})
	_, root, _ := tr.menu.GetLayout(0, 0, nil)
	assert.Empty(t, root.Children)
}

func TestMenuEvent_ShowSlider(t *testing.T) {
	r := &recorder{}
	tr := newTestTray(r)

	require.Nil(t, tr.menu.Event(menuShowSliderID, "clicked", dbus.MakeVariant(""), 0))
	assert.Equal(t, 1, r.shown)
	assert.Zero(t, r.exited)

	// Hover events do nothing.
	require.Nil(t, tr.menu.Event(menuShowSliderID, "hovered", dbus.MakeVariant(""), 0))
	assert.Equal(t, 1, r.shown)
}

func TestMenuEvent_ExitStopsTray(t *testing.T) {
	r := &recorder{}
	tr := newTestTray(r)

	require.Nil(t, tr.menu.Event(menuExitID, "clicked", dbus.MakeVariant(""), 0))
	assert.Equal(t, 1, r.exited)

	select {
	case <-tr.stopCh:
	default:
		t.Fatal("exit should stop the tray loop")
	}

	// A second Stop is harmless.
	tr.Stop()
}

func TestMenuEventGroup(t *testing.T) {
	r := &recorder{}
	tr := newTestTray(r)

	notFound, dErr := tr.menu.EventGroup([]menuEvent{
		{ID: menuShowSliderID, EventID: "clicked", Data: dbus.MakeVariant("")},
		{ID: 42, EventID: "clicked", Data: dbus.MakeVariant("")},
	})
	require.Nil(t, dErr)
	assert.Equal(t, []int32{42}, notFound)
	assert.Equal(t, 1, r.shown)
}

func TestMenuGetProperty(t *testing.T) {
	tr := newTestTray(&recorder{})

	v, dErr := tr.menu.GetProperty(menuExitID, "label")
	require.Nil(t, dErr)
	assert.Equal(t, "Exit", v.Value())

	_, dErr = tr.menu.GetProperty(menuExitID, "icon-name")
	assert.NotNil(t, dErr)
}

func TestMenuGetGroupProperties(t *testing.T) {
	tr := newTestTray(&recorder{})

	all, dErr := tr.menu.GetGroupProperties(nil, nil)
	require.Nil(t, dErr)
	assert.Len(t, all, 3)

	some, _ := tr.menu.GetGroupProperties([]int32{menuShowSliderID, 99}, nil)
	require.Len(t, some, 1)
	assert.Equal(t, menuShowSliderID, some[0].ID)
}

func TestItemActivate(t *testing.T) {
	r := &recorder{}
	tr := newTestTray(r)
	item := &statusNotifierItem{tray: tr}

	require.Nil(t, item.Activate(0, 0))
	require.Nil(t, item.SecondaryActivate(0, 0))
	require.Nil(t, item.Scroll(1, "vertical"))
	assert.Equal(t, 2, r.shown)
}

func TestItemProperties(t *testing.T) {
	props := itemProperties()

	assert.Equal(t, "Screen Dimmer", props["Title"].Value)
	assert.Equal(t, "shade", props["Id"].Value)
	assert.Equal(t, dbus.ObjectPath("/MenuBar"), props["Menu"].Value)
	assert.Equal(t, false, props["ItemIsMenu"].Value)

	tip, ok := props["ToolTip"].Value.(toolTip)
	require.True(t, ok)
	assert.Equal(t, "Screen Dimmer", tip.Title)
}

func TestWatcherAppeared(t *testing.T) {
	owner := "org.freedesktop.DBus.NameOwnerChanged"
	tests := []struct {
		name string
		sig  *dbus.Signal
		want bool
	}{
		{"new owner", &dbus.Signal{Name: owner, Body: []any{watcherName, "", ":1.42"}}, true},
		{"owner gone", &dbus.Signal{Name: owner, Body: []any{watcherName, ":1.42", ""}}, false},
		{"other name", &dbus.Signal{Name: owner, Body: []any{"org.example", "", ":1.5"}}, false},
		{"other signal", &dbus.Signal{Name: "org.example.Foo", Body: []any{watcherName, "", ":1.5"}}, false},
		{"short body", &dbus.Signal{Name: owner, Body: []any{watcherName}}, false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, watcherAppeared(tt.sig))
		})
	}
}
