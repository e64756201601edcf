package store

import (
	"log/slog"
	"sync"
	"time"
)

// DefaultSaveDelay coalesces bursts of changes, such as a held hotkey or a
// slider drag, into one write.
const DefaultSaveDelay = time.Second

// Saver writes brightness changes to the state file after a quiet period.
type Saver struct {
	mu     sync.Mutex
	logger *slog.Logger
	path   string
	delay  time.Duration

	state   *State
	dirty   bool
	timer   *time.Timer
	stopped bool
}

// NewSaver creates a saver for path seeded with state.
func NewSaver(path string, state *State, logger *slog.Logger) *Saver {
	if logger == nil {
		logger = slog.Default()
	}
	if state == nil {
		state = DefaultState()
	}
	return &Saver{
		logger: logger,
		path:   path,
		delay:  DefaultSaveDelay,
		state:  state,
	}
}

// SetDelay sets the quiet period before a write.
func (s *Saver) SetDelay(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.delay = d
}

// Record notes a new brightness and schedules a write. Safe from any
// goroutine.
func (s *Saver) Record(brightness float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	s.state.SetBrightness(brightness)
	s.dirty = true
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.delay, func() {
		if err := s.flush(); err != nil {
			s.logger.Warn("failed to save state", "path", s.path, "error", err)
		}
	})
}

// Close cancels the pending write and writes any unsaved change now.
func (s *Saver) Close() error {
	s.mu.Lock()
	s.stopped = true
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.mu.Unlock()
	return s.flush()
}

func (s *Saver) flush() error {
	s.mu.Lock()
	if !s.dirty {
		s.mu.Unlock()
		return nil
	}
	snapshot := *s.state
	s.dirty = false
	s.mu.Unlock()

	if err := SaveState(s.path, &snapshot); err != nil {
		return err
	}
	s.logger.Debug("state saved", "brightness", snapshot.Brightness)
	return nil
}
