package daemon

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/shade/internal/dbus"
)

type recordingSender struct {
	sent []dbus.DesktopNotification
	err  error
}

func (r *recordingSender) send(n dbus.DesktopNotification) error {
	r.sent = append(r.sent, n)
	return r.err
}

func newTestNotifier(rec *recordingSender, now *time.Time) *InternalNotifier {
	n := NewInternalNotifier(nil)
	n.SetSender(rec.send)
	n.now = func() time.Time { return *now }
	return n
}

func TestInternalNotifier_RateLimit(t *testing.T) {
	rec := &recordingSender{}
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	n := newTestNotifier(rec, &now)

	n.NotifyConfigReloaded()
	n.NotifyConfigReloaded()
	require.Len(t, rec.sent, 1)

	// A different key is not limited.
	n.NotifyConfigError(errors.New("bad step"))
	require.Len(t, rec.sent, 2)

	now = now.Add(DefaultNotifyInterval)
	n.NotifyConfigReloaded()
	assert.Len(t, rec.sent, 3)
}

func TestInternalNotifier_Disabled(t *testing.T) {
	rec := &recordingSender{}
	now := time.Now()
	n := newTestNotifier(rec, &now)
	n.SetEnabled(false)

	n.NotifyConfigReloaded()
	assert.Empty(t, rec.sent)
}

func TestInternalNotifier_NoSender(t *testing.T) {
	n := NewInternalNotifier(nil)
	assert.NotPanics(t, n.NotifyConfigReloaded)
}

func TestInternalNotifier_SendErrorIsSwallowed(t *testing.T) {
	rec := &recordingSender{err: errors.New("no notification daemon")}
	now := time.Now()
	n := newTestNotifier(rec, &now)

	assert.NotPanics(t, func() { n.NotifyThemeError(errors.New("parse error")) })
	assert.Len(t, rec.sent, 1)
}

func TestInternalNotifier_Levels(t *testing.T) {
	tests := []struct {
		name    string
		fire    func(n *InternalNotifier)
		urgency byte
		icon    string
	}{
		{"config reloaded", func(n *InternalNotifier) { n.NotifyConfigReloaded() }, dbus.UrgencyLow, "dialog-information"},
		{"config error", func(n *InternalNotifier) { n.NotifyConfigError(errors.New("x")) }, dbus.UrgencyNormal, "dialog-warning"},
		{"hotkey error", func(n *InternalNotifier) { n.NotifyHotkeyError("alt+q", errors.New("grabbed")) }, dbus.UrgencyCritical, "dialog-error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recordingSender{}
			now := time.Now()
			n := newTestNotifier(rec, &now)

			tt.fire(n)
			require.Len(t, rec.sent, 1)
			assert.Equal(t, "shaded", rec.sent[0].AppName)
			assert.Equal(t, tt.urgency, rec.sent[0].Urgency)
			assert.Equal(t, tt.icon, rec.sent[0].AppIcon)
			assert.Equal(t, int32(5000), rec.sent[0].ExpireTimeout)
		})
	}
}

func TestInternalNotifier_HotkeyKeysPerChord(t *testing.T) {
	rec := &recordingSender{}
	now := time.Now()
	n := newTestNotifier(rec, &now)

	n.NotifyHotkeyError("alt+q", errors.New("grabbed"))
	n.NotifyHotkeyError("alt+w", errors.New("grabbed"))
	require.Len(t, rec.sent, 2)
	assert.Contains(t, rec.sent[1].Body, "alt+w")
}
