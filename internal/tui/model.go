// Package tui provides the BubbleTea-based terminal brightness slider.
package tui

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jmylchreest/shade/internal/dimmer"
)

// Client is the subset of the shaded D-Bus client the TUI drives.
type Client interface {
	Increase(ctx context.Context) (float64, error)
	Decrease(ctx context.Context) (float64, error)
	SetBrightness(ctx context.Context, v float64) (float64, error)
	Brightness(ctx context.Context) (float64, error)
}

const (
	callTimeout    = 3 * time.Second
	defaultBarSize = 40
	maxBarSize     = 60
)

// Model is the main TUI model.
type Model struct {
	client Client
	keys   KeyMap
	help   help.Model

	brightness float64
	loaded     bool
	showHelp   bool
	width      int

	// Status message
	statusMsg string
	statusErr bool

	// Values pushed by BrightnessChanged signals.
	updates <-chan float64
}

// New creates a new TUI model. updates may be nil.
func New(client Client, updates <-chan float64) Model {
	return Model{
		client:  client,
		keys:    DefaultKeyMap(),
		help:    help.New(),
		updates: updates,
	}
}

// Brightness returns the last value reported by shaded.
func (m Model) Brightness() float64 {
	return m.brightness
}

// Init loads the current brightness and starts listening for changes.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.call(func(ctx context.Context) (float64, error) { return m.client.Brightness(ctx) }),
		m.waitForUpdate,
	)
}

type brightnessMsg struct {
	value float64
	err   error
}

type updateMsg struct {
	value float64
}

type statusMsg struct {
	text  string
	isErr bool
}

type clearStatusMsg struct{}

// waitForUpdate blocks on the next signal value.
func (m Model) waitForUpdate() tea.Msg {
	if m.updates == nil {
		return nil
	}
	v, ok := <-m.updates
	if !ok {
		return nil
	}
	return updateMsg{value: v}
}

// call runs fn against shaded off the Update loop.
func (m Model) call(fn func(ctx context.Context) (float64, error)) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
		defer cancel()
		v, err := fn(ctx)
		return brightnessMsg{value: v, err: err}
	}
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case brightnessMsg:
		if msg.err != nil {
			return m, func() tea.Msg {
				return statusMsg{text: "shaded: " + msg.err.Error(), isErr: true}
			}
		}
		m.brightness = msg.value
		m.loaded = true
		return m, nil

	case updateMsg:
		m.brightness = msg.value
		m.loaded = true
		return m, m.waitForUpdate

	case statusMsg:
		m.statusMsg = msg.text
		m.statusErr = msg.isErr
		return m, tea.Tick(3*time.Second, func(t time.Time) tea.Msg {
			return clearStatusMsg{}
		})

	case clearStatusMsg:
		m.statusMsg = ""
		m.statusErr = false
		return m, nil
	}

	return m, nil
}

// handleKey handles key presses.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		m.help.ShowAll = m.showHelp
		return m, nil

	case key.Matches(msg, m.keys.Decrease):
		return m, m.call(func(ctx context.Context) (float64, error) { return m.client.Decrease(ctx) })

	case key.Matches(msg, m.keys.Increase):
		return m, m.call(func(ctx context.Context) (float64, error) { return m.client.Increase(ctx) })

	case key.Matches(msg, m.keys.Jump):
		target, ok := jumpTarget(msg.String())
		if !ok {
			return m, nil
		}
		return m, m.call(func(ctx context.Context) (float64, error) { return m.client.SetBrightness(ctx, target) })
	}

	return m, nil
}

// View renders the TUI.
func (m Model) View() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("12"))
	mutedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	var b strings.Builder
	b.WriteString(titleStyle.Render("Screen Dimmer"))
	b.WriteString("\n\n")

	if !m.loaded {
		b.WriteString(mutedStyle.Render("Connecting to shaded..."))
	} else {
		b.WriteString(renderBar(m.brightness, m.barWidth()))
		b.WriteString(fmt.Sprintf(" %3.0f%%", m.brightness))
		b.WriteString("\n")
		b.WriteString(mutedStyle.Render(fmt.Sprintf("overlay alpha %.2f", dimmer.Alpha(m.brightness))))
	}
	b.WriteString("\n\n")

	if m.statusMsg != "" {
		statusStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
		if m.statusErr {
			statusStyle = statusStyle.Foreground(lipgloss.Color("9"))
		}
		b.WriteString(statusStyle.Render(m.statusMsg))
		b.WriteString("\n")
	}

	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m Model) barWidth() int {
	if m.width <= 0 {
		return defaultBarSize
	}
	// Leave room for the percentage.
	w := m.width - 6
	if w > maxBarSize {
		w = maxBarSize
	}
	if w < 10 {
		w = 10
	}
	return w
}

// renderBar draws a brightness bar of width cells.
func renderBar(brightness float64, width int) string {
	filled := int(math.Round(dimmer.Clamp(brightness) / dimmer.MaxBrightness * float64(width)))
	if filled > width {
		filled = width
	}

	fullStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	emptyStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	return fullStyle.Render(strings.Repeat("█", filled)) +
		emptyStyle.Render(strings.Repeat("░", width-filled))
}

// RunOptions configures the TUI.
type RunOptions struct {
	Client  Client
	Updates <-chan float64
}

// Run starts the TUI and blocks until the user quits.
func Run(opts RunOptions) error {
	if opts.Client == nil {
		return fmt.Errorf("no shaded client")
	}
	p := tea.NewProgram(New(opts.Client, opts.Updates))
	_, err := p.Run()
	return err
}
