// Package app runs one sorting session: load the sources, build the
// controller and drive it either headless or in the terminal viewer.
package app

import (
	"context"
	"fmt"

	"github.com/mikey/spam-sorter/internal/adapters/sink"
	"github.com/mikey/spam-sorter/internal/adapters/tui"
	"github.com/mikey/spam-sorter/internal/config"
	"github.com/mikey/spam-sorter/internal/core"
	"github.com/mikey/spam-sorter/internal/factory"
	"github.com/mikey/spam-sorter/internal/keywords"
	"github.com/mikey/spam-sorter/internal/playback"
	"github.com/mikey/spam-sorter/internal/ports"
	"go.uber.org/dig"
	"go.uber.org/zap"
)

// Deps are the parts the container provides
type Deps struct {
	dig.In

	Config       *config.Config
	Logger       *zap.Logger
	Corpus       ports.CorpusSource
	SpamWords    ports.KeywordSource `name:"spam"`
	NonSpamWords ports.KeywordSource `name:"non_spam"`
	Sink         *sink.MultiSink
	Playback     *factory.PlaybackFactory
}

// App owns the sources and the report sinks of a session
type App struct {
	cfg          *config.Config
	logger       *zap.Logger
	corpus       ports.CorpusSource
	spamWords    ports.KeywordSource
	nonSpamWords ports.KeywordSource
	sink         *sink.MultiSink
	playback     *factory.PlaybackFactory
}

// New creates an App
func New(d Deps) *App {
	return &App{
		cfg:          d.Config,
		logger:       d.Logger,
		corpus:       d.Corpus,
		spamWords:    d.SpamWords,
		nonSpamWords: d.NonSpamWords,
		sink:         d.Sink,
		playback:     d.Playback,
	}
}

// NewController loads the sources and creates a controller emitting to the
// configured sinks. collab.Sink is always replaced.
func (a *App) NewController(ctx context.Context, collab playback.Collaborators) (*playback.Controller, error) {
	spam, err := a.spamWords.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load spam words: %w", err)
	}
	nonSpam, err := a.nonSpamWords.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load non-spam words: %w", err)
	}
	records, err := a.corpus.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load corpus: %w", err)
	}

	pcfg, err := a.playback.CreateConfig()
	if err != nil {
		return nil, err
	}
	collab.Sink = a.sink

	matcher := keywords.NewMatcher(spam, nonSpam, a.logger)
	return playback.New(core.NewCorpus(records), matcher, collab, pcfg, a.logger)
}

// RunHeadless plays the session without a viewer, paced only when
// playback.paced is set
func (a *App) RunHeadless(ctx context.Context) (*playback.Outcome, error) {
	word, tick, err := a.playback.CreatePacers()
	if err != nil {
		return nil, err
	}
	ctrl, err := a.NewController(ctx, playback.Collaborators{WordPacer: word, TickPacer: tick})
	if err != nil {
		return nil, err
	}

	outcome, err := ctrl.Run(ctx)
	a.logOutcome(outcome)
	return outcome, err
}

// RunTUI plays the session in the terminal viewer
func (a *App) RunTUI(ctx context.Context) (*playback.Outcome, error) {
	pc, err := a.cfg.GetPlayback()
	if err != nil {
		return nil, err
	}
	tc := a.cfg.GetTUI()

	screen := tui.NewScreen()
	ctrl, err := a.NewController(ctx, playback.Collaborators{Renderer: screen, Cancel: screen})
	if err != nil {
		return nil, err
	}

	outcome, err := tui.Run(ctx, ctrl, screen, tui.Options{
		WordInterval: pc.WordInterval,
		TickInterval: pc.TickInterval,
		Scale: tui.Scale{
			PixelsPerColumn: tc.PixelsPerColumn,
			PixelsPerRow:    tc.PixelsPerRow,
		},
		PanStep: tc.PanStep,
	}, a.logger)
	a.logOutcome(outcome)
	return outcome, err
}

// Close releases the report sinks
func (a *App) Close() error {
	return a.sink.Close()
}

func (a *App) logOutcome(o *playback.Outcome) {
	if o == nil {
		return
	}
	a.logger.Info("Session finished",
		zap.String("run_id", o.RunID),
		zap.Stringer("state", o.State),
		zap.Bool("canceled", o.Canceled),
		zap.Int("classified", o.Classified),
		zap.Int("wordsteps", o.Wordsteps),
		zap.Int("ticks", o.Ticks))
}
