package tui

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/shade/internal/dimmer"
)

type fakeClient struct {
	mu         sync.Mutex
	brightness float64
	calls      []string
	err        error
}

func (f *fakeClient) record(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name)
}

func (f *fakeClient) Increase(ctx context.Context) (float64, error) {
	f.record("increase")
	f.brightness = dimmer.Clamp(f.brightness + dimmer.DefaultStep)
	return f.brightness, f.err
}

func (f *fakeClient) Decrease(ctx context.Context) (float64, error) {
	f.record("decrease")
	f.brightness = dimmer.Clamp(f.brightness - dimmer.DefaultStep)
	return f.brightness, f.err
}

func (f *fakeClient) SetBrightness(ctx context.Context, v float64) (float64, error) {
	f.record("set")
	f.brightness = dimmer.Clamp(v)
	return f.brightness, f.err
}

func (f *fakeClient) Brightness(ctx context.Context) (float64, error) {
	f.record("get")
	return f.brightness, f.err
}

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

// press feeds k to m and runs the resulting command once.
func press(t *testing.T, m Model, k tea.KeyMsg) Model {
	t.Helper()
	next, cmd := m.Update(k)
	m = next.(Model)
	if cmd == nil {
		return m
	}
	next, _ = m.Update(cmd())
	return next.(Model)
}

func TestModel_Keys(t *testing.T) {
	tests := []struct {
		name string
		key  tea.KeyMsg
		want float64
		call string
	}{
		{"right arrow", tea.KeyMsg{Type: tea.KeyRight}, 85, "increase"},
		{"l", runeKey('l'), 85, "increase"},
		{"plus", runeKey('+'), 85, "increase"},
		{"left arrow", tea.KeyMsg{Type: tea.KeyLeft}, 75, "decrease"},
		{"h", runeKey('h'), 75, "decrease"},
		{"minus", runeKey('-'), 75, "decrease"},
		{"digit 1", runeKey('1'), 10, "set"},
		{"digit 5", runeKey('5'), 50, "set"},
		{"digit 0", runeKey('0'), 100, "set"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &fakeClient{brightness: 80}
			m := press(t, New(client, nil), tt.key)

			assert.Equal(t, tt.want, m.Brightness())
			assert.Equal(t, []string{tt.call}, client.calls)
		})
	}
}

func TestModel_Quit(t *testing.T) {
	for _, k := range []tea.KeyMsg{runeKey('q'), {Type: tea.KeyEsc}, {Type: tea.KeyCtrlC}} {
		t.Run(k.String(), func(t *testing.T) {
			_, cmd := New(&fakeClient{}, nil).Update(k)
			require.NotNil(t, cmd)
			assert.IsType(t, tea.QuitMsg{}, cmd())
		})
	}
}

func TestModel_HelpToggle(t *testing.T) {
	m := New(&fakeClient{}, nil)
	m = press(t, m, runeKey('?'))
	assert.True(t, m.showHelp)
	m = press(t, m, runeKey('?'))
	assert.False(t, m.showHelp)
}

func TestModel_ErrorShowsStatus(t *testing.T) {
	client := &fakeClient{brightness: 80, err: errors.New("not running")}
	m := New(client, nil)

	next, cmd := m.Update(runeKey('l'))
	m = next.(Model)
	next, cmd = m.Update(cmd())
	m = next.(Model)
	require.NotNil(t, cmd)
	next, _ = m.Update(cmd())
	m = next.(Model)

	assert.True(t, m.statusErr)
	assert.Contains(t, m.statusMsg, "not running")
	assert.Contains(t, m.View(), "not running")
}

func TestModel_LiveUpdates(t *testing.T) {
	updates := make(chan float64, 1)
	m := New(&fakeClient{brightness: 80}, updates)

	updates <- 35
	msg := m.waitForUpdate()
	next, cmd := m.Update(msg)
	m = next.(Model)

	assert.Equal(t, 35.0, m.Brightness())
	assert.NotNil(t, cmd, "should keep listening")

	close(updates)
	assert.Nil(t, m.waitForUpdate())
}

func TestModel_View(t *testing.T) {
	m := New(&fakeClient{brightness: 60}, nil)
	assert.Contains(t, m.View(), "Connecting")

	next, _ := m.Update(brightnessMsg{value: 60})
	view := next.(Model).View()
	assert.Contains(t, view, "60%")
	assert.Contains(t, view, "0.36")
}

func TestJumpTarget(t *testing.T) {
	tests := []struct {
		key  string
		want float64
		ok   bool
	}{
		{"1", 10, true},
		{"9", 90, true},
		{"0", 100, true},
		{"a", 0, false},
		{"10", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, ok := jumpTarget(tt.key)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRenderBar(t *testing.T) {
	tests := []struct {
		brightness float64
		filled     int
	}{
		{100, 20},
		{50, 10},
		{10, 2},
		{0, 2}, // clamped to the minimum
	}

	for _, tt := range tests {
		bar := renderBar(tt.brightness, 20)
		assert.Equal(t, tt.filled, strings.Count(bar, "█"), "brightness %v", tt.brightness)
		assert.Equal(t, 20-tt.filled, strings.Count(bar, "░"), "brightness %v", tt.brightness)
	}
}
