package tui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mikey/spam-sorter/internal/adapters/sink"
	"github.com/mikey/spam-sorter/internal/core"
	"github.com/mikey/spam-sorter/internal/keywords"
	"github.com/mikey/spam-sorter/internal/layout"
	"github.com/mikey/spam-sorter/internal/playback"
	"go.uber.org/zap"
)

func newTestModel(t *testing.T) (Model, *Screen, *sink.MemorySink) {
	t.Helper()
	corpus := core.NewCorpus([]core.Record{
		{Address: "a@x.com", Content: "free offer now"},
		{Address: "b@x.com", Content: "meeting notes"},
	})
	matcher := keywords.NewMatcher(keywords.NewSet("free"), keywords.NewSet("meeting"), zap.NewNop())
	screen := NewScreen()
	mem := sink.NewMemorySink()

	ctrl, err := playback.New(corpus, matcher, playback.Collaborators{
		Renderer: screen,
		Cancel:   screen,
		Sink:     mem,
	}, playback.Config{
		Geometry: layout.Geometry{
			ViewportWidth: 1900, ViewportHeight: 900,
			CellWidth: 21, CellHeight: 10,
			Spacing: 40, CharWidth: 8,
			StartX: 50, StartY: 50,
			Mode: layout.ModeSplit,
		},
		Damping: 0.1,
		Epsilon: 0.1,
	}, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}

	m := NewModel(context.Background(), ctrl, screen, Options{}, zap.NewNop())
	next, _ := m.Update(tea.WindowSizeMsg{Width: 240, Height: 60})
	return next.(Model), screen, mem
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestModelPlaysToSettled(t *testing.T) {
	m, screen, mem := newTestModel(t)

	var cmd tea.Cmd
	for i := 0; i < 10000 && !m.settled; i++ {
		m, cmd = update(t, m, stepMsg{})
		if !m.settled && cmd == nil {
			t.Fatal("a running model must schedule its next step")
		}
	}
	if !m.settled {
		t.Fatal("model never settled")
	}
	if m.Outcome() == nil || m.Outcome().Canceled {
		t.Fatalf("outcome = %+v", m.Outcome())
	}
	if isQuit(cmd) {
		t.Error("the viewer should stay open after settling")
	}
	if len(mem.Reports()) != 1 {
		t.Errorf("reports = %d, want 1", len(mem.Reports()))
	}
	if _, frames := screen.Frame(); frames == 0 {
		t.Error("no frames rendered")
	}

	view := m.View()
	for _, want := range []string{"a@x.com", "b@x.com", "settled", "spam 1", "non-spam 1", "Done."} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}

	// further steps are no-ops and q now quits
	if m, cmd = update(t, m, stepMsg{}); cmd != nil {
		t.Error("settled model should not schedule steps")
	}
	if _, cmd = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}}); !isQuit(cmd) {
		t.Error("q should quit once settled")
	}
}

func TestModelCancelDuringReplay(t *testing.T) {
	m, screen, mem := newTestModel(t)

	m, _ = update(t, m, stepMsg{})
	if m.settled {
		t.Fatal("settled too early")
	}
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if isQuit(cmd) {
		t.Fatal("q during playback cancels, it must not quit")
	}
	if !screen.CancelRequested() {
		t.Fatal("cancel was not requested")
	}

	m, _ = update(t, m, stepMsg{})
	if !m.settled || !m.Outcome().Canceled {
		t.Fatalf("expected a canceled settle, got settled=%v outcome=%+v", m.settled, m.Outcome())
	}
	if len(mem.Reports()) != 1 || !mem.Reports()[0].Canceled {
		t.Error("a canceled run still emits its reports once")
	}
	if !strings.Contains(m.View(), "Canceled.") {
		t.Errorf("view should mention the cancel:\n%s", m.View())
	}
}

func TestModelForceQuitSettlesFirst(t *testing.T) {
	m, _, mem := newTestModel(t)

	m, _ = update(t, m, stepMsg{})
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	if isQuit(cmd) {
		t.Fatal("ctrl+c must let the controller settle before quitting")
	}
	_, cmd = update(t, m, stepMsg{})
	if !isQuit(cmd) {
		t.Error("expected quit right after the canceled settle")
	}
	if len(mem.Reports()) != 1 {
		t.Errorf("reports = %d, want 1", len(mem.Reports()))
	}
}

func TestModelPan(t *testing.T) {
	m, _, _ := newTestModel(t)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRight})
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	if m.view.offset != (core.Point{X: -40, Y: -40}) {
		t.Errorf("offset after keys = %+v", m.view.offset)
	}

	m, _ = update(t, m, tea.MouseMsg{X: 10, Y: 5, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	m, _ = update(t, m, tea.MouseMsg{X: 13, Y: 6, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
	m, _ = update(t, m, tea.MouseMsg{X: 13, Y: 6, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
	m, _ = update(t, m, tea.MouseMsg{X: 30, Y: 30, Action: tea.MouseActionMotion})
	if m.view.offset != (core.Point{X: -40 + 3*8, Y: -40 + 16}) {
		t.Errorf("offset after drag = %+v", m.view.offset)
	}

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'0'}})
	if m.view.offset != (core.Point{}) {
		t.Errorf("offset after reset = %+v", m.view.offset)
	}
}

func TestDrawItemsClipsAndOffsets(t *testing.T) {
	items := []core.ItemView{
		{Address: "left@x", Pos: core.Point{X: 0, Y: 0}},
		{Address: "far@x", Pos: core.Point{X: 10000, Y: 0}},
		{Address: "low@x", Pos: core.Point{X: 0, Y: 16}, Classified: true, Spam: true},
	}
	scale := Scale{PixelsPerColumn: 8, PixelsPerRow: 16}

	out := drawItems(items, -1, scale, core.Point{}, 20, 2)
	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("lines = %d", len(lines))
	}
	if !strings.Contains(lines[0], "left@x") || strings.Contains(out, "far@x") {
		t.Errorf("unexpected canvas:\n%s", out)
	}
	if !strings.Contains(lines[1], "low@x") {
		t.Errorf("second row missing item:\n%s", out)
	}

	shifted := drawItems(items, -1, scale, core.Point{X: 0, Y: -16}, 20, 2)
	if strings.Contains(shifted, "left@x") || !strings.Contains(strings.Split(shifted, "\n")[0], "low@x") {
		t.Errorf("offset not applied:\n%s", shifted)
	}
}
