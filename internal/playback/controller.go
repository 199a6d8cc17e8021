// Package playback drives classification replay and the transition to the
// grouped layout as a single cooperative state machine.
package playback

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/mikey/spam-sorter/internal/classifier"
	"github.com/mikey/spam-sorter/internal/core"
	"github.com/mikey/spam-sorter/internal/keywords"
	"github.com/mikey/spam-sorter/internal/layout"
	"github.com/mikey/spam-sorter/internal/ports"
	"github.com/mikey/spam-sorter/internal/report"
	"github.com/mikey/spam-sorter/internal/tokenizer"
	"go.uber.org/zap"
)

const (
	DefaultDamping = 0.1
	DefaultEpsilon = 0.1
)

// Config holds the tuning values of a run
type Config struct {
	Geometry  layout.Geometry
	Damping   float64
	Epsilon   float64
	Threshold float64
	// OnTransition, when set, is called on every state change
	OnTransition func(from, to State)
}

// Collaborators are the external parts the controller talks to.
// Nil members fall back to no-ops.
type Collaborators struct {
	Renderer  ports.Renderer
	Cancel    ports.CancelSignal
	Sink      ports.ReportSink
	WordPacer ports.Pacer
	TickPacer ports.Pacer
}

// Outcome summarizes a finished (or in-progress) run
type Outcome struct {
	RunID      string
	State      State
	Canceled   bool
	Classified int
	Wordsteps  int
	Ticks      int
	Report     *report.Report
}

// Controller owns the items and mutates them from a single loop
type Controller struct {
	corpus  core.Corpus
	matcher *keywords.Matcher
	collab  Collaborators
	cfg     Config
	logger  *zap.Logger
	runID   string

	state  State
	model  *classifier.Model
	item   int
	tokens []string
	word   int

	canceled   bool
	classified int
	wordsteps  int
	ticks      int
	report     *report.Report
}

type nopRenderer struct{}

func (nopRenderer) Render(core.Frame) {}

type nopCancel struct{}

func (nopCancel) CancelRequested() bool { return false }

type nopPacer struct{}

func (nopPacer) Wait(ctx context.Context) error { return ctx.Err() }

// New creates a controller. The corpus precondition is checked here, before
// any state transition happens.
func New(
	corpus core.Corpus,
	matcher *keywords.Matcher,
	collab Collaborators,
	cfg Config,
	logger *zap.Logger,
) (*Controller, error) {
	if err := classifier.Validate(len(corpus)); err != nil {
		return nil, fmt.Errorf("cannot start playback: %w", err)
	}
	if cfg.Damping <= 0 || cfg.Damping > 1 {
		cfg.Damping = DefaultDamping
	}
	if cfg.Epsilon <= 0 {
		cfg.Epsilon = DefaultEpsilon
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if matcher == nil {
		matcher = keywords.NewMatcher(nil, nil, logger)
	}
	if collab.Renderer == nil {
		collab.Renderer = nopRenderer{}
	}
	if collab.Cancel == nil {
		collab.Cancel = nopCancel{}
	}
	if collab.WordPacer == nil {
		collab.WordPacer = nopPacer{}
	}
	if collab.TickPacer == nil {
		collab.TickPacer = nopPacer{}
	}

	runID := uuid.NewString()
	return &Controller{
		corpus:  corpus,
		matcher: matcher,
		collab:  collab,
		cfg:     cfg,
		logger:  logger.With(zap.String("run_id", runID)),
		runID:   runID,
		state:   Idle,
	}, nil
}

// State returns the current state
func (c *Controller) State() State {
	return c.state
}

// Model returns the trained model, nil before training
func (c *Controller) Model() *classifier.Model {
	return c.model
}

// Corpus returns the items owned by the controller
func (c *Controller) Corpus() core.Corpus {
	return c.corpus
}

// Outcome returns the counters of the run so far
func (c *Controller) Outcome() *Outcome {
	return &Outcome{
		RunID:      c.runID,
		State:      c.state,
		Canceled:   c.canceled,
		Classified: c.classified,
		Wordsteps:  c.wordsteps,
		Ticks:      c.ticks,
		Report:     c.report,
	}
}

// Step advances the machine to its next suspension point and returns the
// pause the driver must honor before calling Step again. Once settled, Step
// is a no-op returning PauseNone. The returned error is either a training
// failure or the report sink's error on settling.
func (c *Controller) Step(ctx context.Context) (Pause, error) {
	for {
		switch c.state {
		case Idle:
			c.prelabel()

		case PrelabelDone:
			if err := c.train(); err != nil {
				return PauseNone, err
			}

		case TrainingDone:
			c.enterItem(0)
			c.transition(Replaying)

		case Replaying:
			if c.word < len(c.tokens) {
				c.transition(Wordstep)
				c.renderWordstep()
				c.wordsteps++
				return PauseWord, nil
			}
			c.classifyCurrent()
			if c.item+1 < len(c.corpus) {
				c.enterItem(c.item + 1)
				continue
			}
			c.computeGroups()

		case Wordstep:
			// resuming after a word pause
			if c.cancelRequested(ctx) {
				return PauseNone, c.settle(ctx, true)
			}
			c.word++
			c.transition(Replaying)

		case GroupingComputed:
			c.transition(Animating)

		case Animating:
			// the first tick follows no pause
			if c.ticks > 0 && c.cancelRequested(ctx) {
				return PauseNone, c.settle(ctx, true)
			}
			if c.converged() {
				return PauseNone, c.settle(ctx, false)
			}
			c.tick()
			return PauseTick, nil

		case Settled:
			return PauseNone, nil

		default:
			return PauseNone, fmt.Errorf("unknown playback state %d", c.state)
		}
	}
}

// Run drives Step until the machine settles, waiting on the pacers between
// steps. Cancellation through ctx settles the run like the cancel signal does.
func (c *Controller) Run(ctx context.Context) (*Outcome, error) {
	for {
		pause, err := c.Step(ctx)
		if err != nil {
			return c.Outcome(), err
		}
		if c.state == Settled {
			return c.Outcome(), nil
		}

		var pacer ports.Pacer
		switch pause {
		case PauseWord:
			pacer = c.collab.WordPacer
		case PauseTick:
			pacer = c.collab.TickPacer
		default:
			continue
		}
		if err := pacer.Wait(ctx); err != nil {
			// ctx is done; the next Step observes it and settles
			c.logger.Debug("Pacer interrupted", zap.Error(err))
		}
	}
}

func (c *Controller) transition(to State) {
	from := c.state
	c.state = to
	if c.cfg.OnTransition != nil {
		c.cfg.OnTransition(from, to)
	}
}

func (c *Controller) cancelRequested(ctx context.Context) bool {
	return ctx.Err() != nil || c.collab.Cancel.CancelRequested()
}

func (c *Controller) prelabel() {
	plan := layout.PackColumn(layout.Labels(c.corpus), c.cfg.Geometry)
	for _, pl := range plan {
		c.corpus[pl.Index].Place(pl.Pos)
	}

	spam := c.matcher.Prelabel(c.corpus)
	c.logger.Info("Applied keyword pre-pass",
		zap.Int("items", len(c.corpus)),
		zap.Int("spam", spam))
	c.transition(PrelabelDone)
}

func (c *Controller) train() error {
	model, err := classifier.TrainCorpus(c.corpus)
	if err != nil {
		return fmt.Errorf("failed to train classifier: %w", err)
	}
	if model.Degenerate() {
		c.logger.Warn("All training items share one label; the classifier cannot separate them",
			zap.Int("items", len(c.corpus)))
	}
	c.model = model

	priors := model.Priors()
	c.logger.Info("Trained classifier",
		zap.Int("vocabulary", model.VocabularySize()),
		zap.Float64("spam_prior", priors.Spam))
	c.transition(TrainingDone)
	return nil
}

func (c *Controller) enterItem(i int) {
	c.item = i
	c.word = 0
	c.tokens = tokenizer.Split(c.corpus[i].Content)
}

func (c *Controller) classifyCurrent() {
	it := c.corpus[c.item]
	it.MarkClassified(c.model.Classify(it.Content))
	c.classified++

	c.logger.Debug("Classified item",
		zap.Int("index", c.item),
		zap.String("address", it.Address),
		zap.Bool("prelabel_spam", it.PrelabelSpam),
		zap.Bool("spam", it.Spam))
}

func (c *Controller) computeGroups() {
	plan := layout.PackTwoGroups(layout.Labels(c.corpus), layout.SpamLabels(c.corpus), c.cfg.Geometry)
	plan.Apply(c.corpus)
	c.transition(GroupingComputed)
}

func (c *Controller) converged() bool {
	for _, it := range c.corpus {
		if !it.Settled(c.cfg.Epsilon) {
			return false
		}
	}
	return true
}

// tick moves every item before rendering, so a frame never shows a partial update
func (c *Controller) tick() {
	for _, it := range c.corpus {
		it.Step(c.cfg.Damping)
	}
	c.ticks++
	c.collab.Renderer.Render(c.frame(nil))
}

func (c *Controller) renderWordstep() {
	tok := c.tokens[c.word]
	h := &core.Highlight{
		Index:      c.item,
		Token:      tok,
		TokenIndex: c.word,
		Class:      c.matcher.ClassOf(tok),
		Known:      c.model.Contains(tok),
		SpamProb:   c.model.SpamProbability(tok),
		HamProb:    c.model.HamProbability(tok),
	}
	c.collab.Renderer.Render(c.frame(h))
}

func (c *Controller) frame(h *core.Highlight) core.Frame {
	return core.Frame{
		State:     c.state.String(),
		Items:     c.corpus.Snapshot(),
		Highlight: h,
	}
}

func (c *Controller) settle(ctx context.Context, canceled bool) error {
	c.canceled = canceled
	c.transition(Settled)

	if canceled {
		c.logger.Info("Playback canceled",
			zap.Int("classified", c.classified),
			zap.Int("items", len(c.corpus)))
	} else {
		c.logger.Info("Playback settled",
			zap.Int("classified", c.classified),
			zap.Int("ticks", c.ticks))
	}

	c.report = report.Build(c.corpus, c.model, report.Options{
		RunID:     c.runID,
		Canceled:  canceled,
		Threshold: c.cfg.Threshold,
	})
	c.collab.Renderer.Render(c.frame(nil))

	if c.collab.Sink == nil {
		return nil
	}
	// the sink may still run after ctx was canceled
	if err := c.collab.Sink.Emit(context.WithoutCancel(ctx), c.report); err != nil {
		c.logger.Error("Failed to emit reports", zap.Error(err))
		return fmt.Errorf("failed to emit reports: %w", err)
	}
	return nil
}
