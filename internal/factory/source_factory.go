package factory

import (
	"fmt"

	"github.com/mikey/spam-sorter/internal/adapters/source"
	"github.com/mikey/spam-sorter/internal/config"
	"github.com/mikey/spam-sorter/internal/ports"
	"github.com/mikey/spam-sorter/internal/utils"
	"go.uber.org/zap"
)

// SourceFactory creates corpus and keyword sources based on configuration
type SourceFactory struct {
	cfg       *config.Config
	logger    *zap.Logger
	processor *utils.TextProcessor
}

// NewSourceFactory creates a new source factory
func NewSourceFactory(cfg *config.Config, logger *zap.Logger) *SourceFactory {
	return &SourceFactory{
		cfg:       cfg,
		logger:    logger,
		processor: utils.NewTextProcessor(logger),
	}
}

// CreateCorpusSource creates the corpus source named by corpus.type
func (f *SourceFactory) CreateCorpusSource() (ports.CorpusSource, error) {
	cc, err := f.cfg.GetCorpus()
	if err != nil {
		return nil, err
	}

	switch cc.Type {
	case "file":
		return source.NewFileSource(cc.Path, cc.MaxAddressLength, f.processor, f.logger), nil
	case "eml":
		return source.NewEMLDirSource(cc.Path, cc.MaxAddressLength, f.processor, f.logger), nil
	case "smtp":
		return source.NewSMTPSource(source.SMTPOptions{
			ListenAddress:   cc.SMTP.ListenAddress,
			Domain:          cc.SMTP.Domain,
			Window:          cc.SMTP.Window,
			MaxMessages:     cc.SMTP.MaxMessages,
			MaxMessageBytes: cc.SMTP.MaxMessageBytes,
			MaxAddress:      cc.MaxAddressLength,
		}, f.processor, f.logger), nil
	default:
		return nil, fmt.Errorf("unsupported corpus type: %s", cc.Type)
	}
}

// CreateKeywordSources creates the spam and non-spam keyword list sources
func (f *SourceFactory) CreateKeywordSources() (spam, nonSpam ports.KeywordSource) {
	kc := f.cfg.GetKeywords()
	return source.NewKeywordFile(kc.SpamPath, f.logger), source.NewKeywordFile(kc.NonSpamPath, f.logger)
}
