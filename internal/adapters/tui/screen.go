// Package tui shows the playback in a terminal with bubbletea.
package tui

import (
	"sync"
	"sync/atomic"

	"github.com/mikey/spam-sorter/internal/core"
)

// Screen receives frames from the controller and carries the user's cancel
// request back to it. It is handed to the controller before the Model exists.
type Screen struct {
	mu       sync.RWMutex
	frame    core.Frame
	frames   int
	canceled atomic.Bool
}

// NewScreen creates an empty screen
func NewScreen() *Screen {
	return &Screen{}
}

// Render keeps the latest frame
func (s *Screen) Render(f core.Frame) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.frame = f
	s.frames++
}

// Frame returns the latest frame and how many frames were rendered so far
func (s *Screen) Frame() (core.Frame, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.frame, s.frames
}

// RequestCancel asks the controller to settle at its next suspension point
func (s *Screen) RequestCancel() {
	s.canceled.Store(true)
}

// CancelRequested reports whether the user asked to stop
func (s *Screen) CancelRequested() bool {
	return s.canceled.Load()
}
