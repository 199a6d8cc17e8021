package di

import (
	"github.com/spf13/pflag"

	"github.com/mikey/spam-sorter/internal/config"
)

// Flags contains the command line flags shared by every command
type Flags struct {
	ConfigFile   string
	Corpus       string
	CorpusType   string
	SpamWords    string
	NonSpamWords string
	Report       string
	ReportType   string
	Verbose      bool
	JSONLog      bool
}

// Register binds the flags to fs
func (f *Flags) Register(fs *pflag.FlagSet) {
	fs.StringVar(&f.ConfigFile, "config", "", "Path to config file")
	fs.StringVar(&f.Corpus, "corpus", "", "Corpus file, mail directory or nothing for SMTP intake")
	fs.StringVar(&f.CorpusType, "corpus-type", "", "Corpus source (file, eml, smtp)")
	fs.StringVar(&f.SpamWords, "spam-words", "", "Spam keyword list")
	fs.StringVar(&f.NonSpamWords, "non-spam-words", "", "Non-spam keyword list")
	fs.StringVar(&f.Report, "report", "", "Text report file")
	fs.StringVar(&f.ReportType, "report-type", "", "Comma separated report sinks (text, console, memory, sqlite, mysql, smtp)")
	fs.BoolVar(&f.Verbose, "verbose", false, "Enable verbose logging")
	fs.BoolVar(&f.JSONLog, "json-log", false, "Output logs in JSON format")
}

// LoadConfig reads the configuration and applies the flags on top of it.
// Only flags that were set override file and environment values.
func LoadConfig(f *Flags) (*config.Config, error) {
	cfg, err := config.New(f.ConfigFile)
	if err != nil {
		return nil, err
	}
	applyFlags(cfg, f)
	return cfg, nil
}

func applyFlags(cfg *config.Config, f *Flags) {
	overrides := map[string]string{
		"corpus.path":            f.Corpus,
		"corpus.type":            f.CorpusType,
		"keywords.spam_path":     f.SpamWords,
		"keywords.non_spam_path": f.NonSpamWords,
		"report.path":            f.Report,
		"report.type":            f.ReportType,
	}
	for key, value := range overrides {
		if value != "" {
			cfg.Set(key, value)
		}
	}

	if f.Verbose {
		cfg.Set("cli.verbose", true)
		cfg.Set("logging.level", "debug")
	}
	if f.JSONLog {
		cfg.Set("logging.format", "json")
	}
}
