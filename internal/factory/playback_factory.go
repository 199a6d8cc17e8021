package factory

import (
	"github.com/mikey/spam-sorter/internal/config"
	"github.com/mikey/spam-sorter/internal/playback"
	"github.com/mikey/spam-sorter/internal/ports"
	"go.uber.org/zap"
)

// PlaybackFactory creates the controller configuration and pacers
type PlaybackFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewPlaybackFactory creates a new playback factory
func NewPlaybackFactory(cfg *config.Config, logger *zap.Logger) *PlaybackFactory {
	return &PlaybackFactory{cfg: cfg, logger: logger}
}

// CreateConfig builds the controller configuration
func (f *PlaybackFactory) CreateConfig() (playback.Config, error) {
	geometry, err := f.cfg.GetLayout()
	if err != nil {
		return playback.Config{}, err
	}
	pc, err := f.cfg.GetPlayback()
	if err != nil {
		return playback.Config{}, err
	}

	return playback.Config{
		Geometry:  geometry,
		Damping:   pc.Damping,
		Epsilon:   pc.Epsilon,
		Threshold: f.cfg.GetReport().Threshold,
		OnTransition: func(from, to playback.State) {
			f.logger.Debug("Playback transition",
				zap.Stringer("from", from),
				zap.Stringer("to", to))
		},
	}, nil
}

// CreatePacers returns the word and tick pacers for headless runs. Unpaced
// runs get nil pacers, which the controller treats as no-ops.
func (f *PlaybackFactory) CreatePacers() (word, tick ports.Pacer, err error) {
	pc, err := f.cfg.GetPlayback()
	if err != nil {
		return nil, nil, err
	}
	if !pc.Paced {
		return nil, nil, nil
	}
	return playback.NewRatePacer(pc.WordInterval), playback.NewRatePacer(pc.TickInterval), nil
}
