package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mikey/spam-sorter/internal/playback"
	"go.uber.org/zap"
)

// Run shows the playback until the user quits. If the program ends before
// the controller settled, the run is canceled and settled headlessly so the
// reports are still written.
func Run(ctx context.Context, ctrl *playback.Controller, screen *Screen, opts Options, logger *zap.Logger) (*playback.Outcome, error) {
	model := NewModel(ctx, ctrl, screen, opts, logger)
	p := tea.NewProgram(model,
		tea.WithContext(ctx),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	final, runErr := p.Run()
	if runErr != nil {
		logger.Warn("Viewer stopped", zap.Error(runErr))
	}

	if m, ok := final.(Model); ok && m.settled {
		return m.outcome, m.err
	}

	screen.RequestCancel()
	outcome, err := ctrl.Run(context.WithoutCancel(ctx))
	if err != nil {
		return outcome, err
	}
	if runErr != nil && ctx.Err() == nil {
		return outcome, fmt.Errorf("viewer failed: %w", runErr)
	}
	return outcome, nil
}
