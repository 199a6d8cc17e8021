package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mikey/spam-sorter/internal/core"
	"github.com/mikey/spam-sorter/internal/playback"
	"go.uber.org/zap"
)

// Options tunes the viewer
type Options struct {
	WordInterval time.Duration
	TickInterval time.Duration
	Scale        Scale
	PanStep      float64
}

type stepMsg struct{}

// viewState holds what only the viewer cares about. The pan offset never
// reaches the items.
type viewState struct {
	offset   core.Point
	dragging bool
	lastX    int
	lastY    int
}

// Model is the bubbletea model driving the controller. Step is only ever
// called from Update, so the controller has a single mutator.
type Model struct {
	ctx    context.Context
	ctrl   *playback.Controller
	screen *Screen
	opts   Options
	keys   keyMap
	logger *zap.Logger

	view          viewState
	width, height int

	settled      bool
	quitOnSettle bool
	outcome      *playback.Outcome
	err          error
}

// NewModel creates the viewer for ctrl, which must render to screen
func NewModel(ctx context.Context, ctrl *playback.Controller, screen *Screen, opts Options, logger *zap.Logger) Model {
	if opts.Scale.PixelsPerColumn <= 0 {
		opts.Scale.PixelsPerColumn = 8
	}
	if opts.Scale.PixelsPerRow <= 0 {
		opts.Scale.PixelsPerRow = 16
	}
	if opts.PanStep <= 0 {
		opts.PanStep = 40
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return Model{
		ctx:    ctx,
		ctrl:   ctrl,
		screen: screen,
		opts:   opts,
		keys:   defaultKeyMap(),
		logger: logger,
	}
}

// Outcome returns the run outcome once settled
func (m Model) Outcome() *playback.Outcome {
	return m.outcome
}

// Err returns the error the controller reported, if any
func (m Model) Err() error {
	return m.err
}

// Init starts the playback loop
func (m Model) Init() tea.Cmd {
	return func() tea.Msg { return stepMsg{} }
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case stepMsg:
		return m.step()

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		m.handleMouse(msg)
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}
	return m, nil
}

func (m Model) step() (tea.Model, tea.Cmd) {
	if m.settled {
		return m, nil
	}

	pause, err := m.ctrl.Step(m.ctx)
	if err != nil {
		m.err = err
	}
	if m.ctrl.State() == playback.Settled {
		m.settled = true
		m.outcome = m.ctrl.Outcome()
		m.logger.Debug("Viewer settled", zap.Bool("canceled", m.outcome.Canceled))
		if m.quitOnSettle {
			return m, tea.Quit
		}
		return m, nil
	}
	if err != nil {
		return m, tea.Quit
	}

	delay := m.opts.TickInterval
	if pause == playback.PauseWord {
		delay = m.opts.WordInterval
	}
	return m, tea.Tick(delay, func(time.Time) tea.Msg { return stepMsg{} })
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.ForceQuit):
		if m.settled {
			return m, tea.Quit
		}
		m.quitOnSettle = true
		m.screen.RequestCancel()
	case key.Matches(msg, m.keys.Quit):
		if m.settled {
			return m, tea.Quit
		}
		m.screen.RequestCancel()
	case key.Matches(msg, m.keys.Left):
		m.view.offset.X += m.opts.PanStep
	case key.Matches(msg, m.keys.Right):
		m.view.offset.X -= m.opts.PanStep
	case key.Matches(msg, m.keys.Up):
		m.view.offset.Y += m.opts.PanStep
	case key.Matches(msg, m.keys.Down):
		m.view.offset.Y -= m.opts.PanStep
	case key.Matches(msg, m.keys.Reset):
		m.view.offset = core.Point{}
	}
	return m, nil
}

// handleMouse pans the view while the left button is dragged
func (m *Model) handleMouse(msg tea.MouseMsg) {
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button == tea.MouseButtonLeft {
			m.view.dragging = true
			m.view.lastX, m.view.lastY = msg.X, msg.Y
		}
	case tea.MouseActionMotion:
		if !m.view.dragging {
			return
		}
		m.view.offset.X += float64(msg.X-m.view.lastX) * m.opts.Scale.PixelsPerColumn
		m.view.offset.Y += float64(msg.Y-m.view.lastY) * m.opts.Scale.PixelsPerRow
		m.view.lastX, m.view.lastY = msg.X, msg.Y
	case tea.MouseActionRelease:
		m.view.dragging = false
	}
}

// View renders the items and a status line
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	frame, _ := m.screen.Frame()
	active := -1
	if frame.Highlight != nil {
		active = frame.Highlight.Index
	}

	status := m.status(frame)
	canvasHeight := m.height - len(status)
	if canvasHeight < 1 {
		canvasHeight = 1
	}

	var b strings.Builder
	b.WriteString(drawItems(frame.Items, active, m.opts.Scale, m.view.offset, m.width, canvasHeight))
	for _, line := range status {
		b.WriteByte('\n')
		b.WriteString(line)
	}
	return b.String()
}

func (m Model) status(frame core.Frame) []string {
	spam, ham, pending := countLabels(frame.Items)
	state := frame.State
	if state == "" {
		state = m.ctrl.State().String()
	}

	first := fmt.Sprintf("%s  spam %d  non-spam %d  pending %d", state, spam, ham, pending)
	second := describeHighlight(frame.Highlight, frame.Items)
	switch {
	case m.err != nil:
		second = fmt.Sprintf("error: %v", m.err)
	case m.settled && m.outcome != nil && m.outcome.Canceled:
		second = "Canceled. Reports were written for the items classified so far."
	case m.settled:
		second = "Done. Reports were written."
	}
	return []string{statusStyle.Render(first), second, statusStyle.Render(m.keys.help())}
}
