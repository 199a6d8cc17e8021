package factory

import (
	"fmt"
	"io"

	"github.com/mikey/spam-sorter/internal/adapters/sink"
	"github.com/mikey/spam-sorter/internal/config"
	"github.com/mikey/spam-sorter/internal/ports"
	"go.uber.org/zap"
)

// SinkFactory creates report sinks based on configuration
type SinkFactory struct {
	cfg     *config.Config
	logger  *zap.Logger
	console io.Writer
}

// NewSinkFactory creates a new sink factory. console receives the output of
// the console sink.
func NewSinkFactory(cfg *config.Config, logger *zap.Logger, console io.Writer) *SinkFactory {
	return &SinkFactory{
		cfg:     cfg,
		logger:  logger,
		console: console,
	}
}

// CreateReportSink creates one sink per entry of report.type, fanned out
// through a MultiSink. Sinks opened before a failure are closed again.
func (f *SinkFactory) CreateReportSink() (*sink.MultiSink, error) {
	rc := f.cfg.GetReport()
	if len(rc.Types) == 0 {
		return nil, fmt.Errorf("no report sink configured")
	}

	var sinks []sink.Named
	for _, typ := range rc.Types {
		s, err := f.create(typ, rc)
		if err != nil {
			if closeErr := sink.NewMultiSink(f.logger, sinks...).Close(); closeErr != nil {
				f.logger.Warn("Failed to close report sinks", zap.Error(closeErr))
			}
			return nil, err
		}
		sinks = append(sinks, sink.Named{Name: typ, Sink: s})
	}

	f.logger.Debug("Created report sinks", zap.Strings("types", rc.Types))
	return sink.NewMultiSink(f.logger, sinks...), nil
}

func (f *SinkFactory) create(typ string, rc config.ReportConfig) (ports.ReportSink, error) {
	switch typ {
	case "text":
		return sink.NewTextFileSink(rc.Path, f.logger), nil
	case "console":
		return sink.NewConsoleSink(f.console, f.cfg.GetBool("cli.verbose")), nil
	case "memory":
		return sink.NewMemorySink(), nil
	case "sqlite":
		return sink.NewSQLiteSink(rc.SQLitePath, f.logger)
	case "mysql":
		return sink.NewMySQLSink(rc.MySQLDSN, f.logger)
	case "smtp":
		return sink.NewSMTPSink(sink.SMTPOptions{
			Address:  rc.SMTP.Address,
			From:     rc.SMTP.From,
			To:       rc.SMTP.To,
			Username: rc.SMTP.Username,
			Password: rc.SMTP.Password,
		}, f.logger)
	default:
		return nil, fmt.Errorf("unsupported report type: %s", typ)
	}
}
