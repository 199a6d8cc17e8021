package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/mikey/spam-sorter/internal/layout"
)

// CorpusConfig represents where the messages come from
type CorpusConfig struct {
	Type             string
	Path             string
	MaxAddressLength int
	SMTP             SMTPIntakeConfig
}

// SMTPIntakeConfig configures the capture window of the SMTP intake source
type SMTPIntakeConfig struct {
	ListenAddress   string
	Domain          string
	Window          time.Duration
	MaxMessages     int
	MaxMessageBytes int64
}

// KeywordsConfig represents the two keyword list files
type KeywordsConfig struct {
	SpamPath    string
	NonSpamPath string
}

// PlaybackConfig represents the pacing and animation tuning
type PlaybackConfig struct {
	WordInterval time.Duration
	TickInterval time.Duration
	Damping      float64
	Epsilon      float64
	Paced        bool
}

// ReportConfig represents where reports are written
type ReportConfig struct {
	Types      []string
	Path       string
	Threshold  float64
	SQLitePath string
	MySQLDSN   string
	SMTP       SMTPReportConfig
}

// SMTPReportConfig configures report delivery by mail
type SMTPReportConfig struct {
	Address  string
	From     string
	To       []string
	Username string
	Password string
}

// TUIConfig represents the terminal viewer settings
type TUIConfig struct {
	PixelsPerColumn float64
	PixelsPerRow    float64
	PanStep         float64
}

// GetCorpus returns the corpus configuration
func (c *Config) GetCorpus() (CorpusConfig, error) {
	window, err := c.GetDuration("corpus.smtp.window")
	if err != nil {
		return CorpusConfig{}, err
	}
	return CorpusConfig{
		Type:             c.GetString("corpus.type"),
		Path:             c.GetString("corpus.path"),
		MaxAddressLength: c.GetInt("corpus.max_address_length"),
		SMTP: SMTPIntakeConfig{
			ListenAddress:   c.GetString("corpus.smtp.listen_address"),
			Domain:          c.GetString("corpus.smtp.domain"),
			Window:          window,
			MaxMessages:     c.GetInt("corpus.smtp.max_messages"),
			MaxMessageBytes: int64(c.GetInt("corpus.smtp.max_message_bytes")),
		},
	}, nil
}

// GetKeywords returns the keyword list configuration
func (c *Config) GetKeywords() KeywordsConfig {
	return KeywordsConfig{
		SpamPath:    c.GetString("keywords.spam_path"),
		NonSpamPath: c.GetString("keywords.non_spam_path"),
	}
}

// GetLayout returns the layout geometry
func (c *Config) GetLayout() (layout.Geometry, error) {
	g := layout.Geometry{
		ViewportWidth:  c.GetFloat64("layout.viewport_width"),
		ViewportHeight: c.GetFloat64("layout.viewport_height"),
		CellWidth:      c.GetFloat64("layout.cell_width"),
		CellHeight:     c.GetFloat64("layout.cell_height"),
		Spacing:        c.GetFloat64("layout.spacing"),
		CharWidth:      c.GetFloat64("layout.char_width"),
		StartX:         c.GetFloat64("layout.start_x"),
		StartY:         c.GetFloat64("layout.start_y"),
		SplitX:         c.GetFloat64("layout.split_x"),
		Mode:           layout.Mode(c.GetString("layout.mode")),
	}
	switch g.Mode {
	case layout.ModeSplit, layout.ModeEdges:
	default:
		return layout.Geometry{}, fmt.Errorf("unsupported layout mode: %s", g.Mode)
	}
	if g.ViewportWidth <= 0 || g.ViewportHeight <= 0 || g.CellHeight <= 0 {
		return layout.Geometry{}, fmt.Errorf("layout viewport and cell height must be positive")
	}
	return g, nil
}

// GetPlayback returns the playback configuration
func (c *Config) GetPlayback() (PlaybackConfig, error) {
	word, err := c.GetDuration("playback.word_interval")
	if err != nil {
		return PlaybackConfig{}, err
	}
	tick, err := c.GetDuration("playback.tick_interval")
	if err != nil {
		return PlaybackConfig{}, err
	}
	return PlaybackConfig{
		WordInterval: word,
		TickInterval: tick,
		Damping:      c.GetFloat64("playback.damping"),
		Epsilon:      c.GetFloat64("playback.epsilon"),
		Paced:        c.GetBool("playback.paced"),
	}, nil
}

// GetReport returns the report configuration. report.type may name
// several sinks separated by commas.
func (c *Config) GetReport() ReportConfig {
	return ReportConfig{
		Types:      splitList(c.GetStringSlice("report.type")),
		Path:       c.GetString("report.path"),
		Threshold:  c.GetFloat64("report.threshold"),
		SQLitePath: c.GetString("report.sqlite_path"),
		MySQLDSN:   c.GetString("report.mysql_dsn"),
		SMTP: SMTPReportConfig{
			Address:  c.GetString("report.smtp.address"),
			From:     c.GetString("report.smtp.from"),
			To:       splitList(c.GetStringSlice("report.smtp.to")),
			Username: c.GetString("report.smtp.username"),
			Password: c.GetString("report.smtp.password"),
		},
	}
}

// GetTUI returns the terminal viewer configuration
func (c *Config) GetTUI() TUIConfig {
	return TUIConfig{
		PixelsPerColumn: c.GetFloat64("tui.pixels_per_column"),
		PixelsPerRow:    c.GetFloat64("tui.pixels_per_row"),
		PanStep:         c.GetFloat64("tui.pan_step"),
	}
}

// splitList flattens comma separated entries, as env vars and flags carry them
func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
