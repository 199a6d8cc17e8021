package di

import (
	"io"

	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mikey/spam-sorter/internal/adapters/sink"
	"github.com/mikey/spam-sorter/internal/app"
	"github.com/mikey/spam-sorter/internal/config"
	"github.com/mikey/spam-sorter/internal/factory"
	"github.com/mikey/spam-sorter/internal/logging"
	"github.com/mikey/spam-sorter/internal/ports"
)

type keywordSources struct {
	dig.Out

	Spam    ports.KeywordSource `name:"spam"`
	NonSpam ports.KeywordSource `name:"non_spam"`
}

// BuildContainer creates and configures a dependency injection container.
// console receives the output of the console report sink.
func BuildContainer(cfg *config.Config, console io.Writer) (*dig.Container, error) {
	container := dig.New()

	// Register configuration
	if err := container.Provide(func() *config.Config { return cfg }); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(logging.InitLogger); err != nil {
		return nil, err
	}

	// Register factories
	if err := container.Provide(factory.NewSourceFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(func(cfg *config.Config, logger *zap.Logger) *factory.SinkFactory {
		return factory.NewSinkFactory(cfg, logger, console)
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewPlaybackFactory); err != nil {
		return nil, err
	}

	// Register sources
	if err := container.Provide(func(f *factory.SourceFactory) (ports.CorpusSource, error) {
		return f.CreateCorpusSource()
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(f *factory.SourceFactory) keywordSources {
		spam, nonSpam := f.CreateKeywordSources()
		return keywordSources{Spam: spam, NonSpam: nonSpam}
	}); err != nil {
		return nil, err
	}

	// Register report sinks
	if err := container.Provide(func(f *factory.SinkFactory) (*sink.MultiSink, error) {
		return f.CreateReportSink()
	}); err != nil {
		return nil, err
	}

	// Register the session
	if err := container.Provide(app.New); err != nil {
		return nil, err
	}

	return container, nil
}
