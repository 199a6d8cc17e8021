package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	v *viper.Viper
}

// New creates a new configuration instance. An explicit path must exist;
// otherwise config.yaml is searched in the usual places and is optional.
func New(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	// Environment variables
	v.SetEnvPrefix("SPAM_SORTER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		return &Config{v: v}, nil
	}

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("/etc/spam-sorter/")
	v.AddConfigPath("$HOME/.spam-sorter")
	v.AddConfigPath("./configs")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found, using defaults
	}

	return &Config{v: v}, nil
}

// NewFromViper creates a new configuration instance from an existing Viper instance
func NewFromViper(v *viper.Viper) *Config {
	return &Config{v: v}
}

// NewEmptyViper creates a new Viper instance with defaults
func NewEmptyViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	return v
}

// setDefaults sets the default configuration values
func setDefaults(v *viper.Viper) {
	// Corpus defaults
	v.SetDefault("corpus.type", "file")
	v.SetDefault("corpus.path", "emails.txt")
	v.SetDefault("corpus.max_address_length", 64)
	v.SetDefault("corpus.smtp.listen_address", "127.0.0.1:10026")
	v.SetDefault("corpus.smtp.domain", "localhost")
	v.SetDefault("corpus.smtp.window", "30s")
	v.SetDefault("corpus.smtp.max_messages", 0)
	v.SetDefault("corpus.smtp.max_message_bytes", 1024*1024)

	// Keyword lists
	v.SetDefault("keywords.spam_path", "spam_words.txt")
	v.SetDefault("keywords.non_spam_path", "non_spam_words.txt")

	// Layout defaults
	v.SetDefault("layout.viewport_width", 1900)
	v.SetDefault("layout.viewport_height", 900)
	v.SetDefault("layout.cell_width", 21)
	v.SetDefault("layout.cell_height", 10)
	v.SetDefault("layout.spacing", 40)
	v.SetDefault("layout.char_width", 8)
	v.SetDefault("layout.start_x", 50)
	v.SetDefault("layout.start_y", 50)
	v.SetDefault("layout.split_x", 0)
	v.SetDefault("layout.mode", "split")

	// Playback defaults
	v.SetDefault("playback.word_interval", "30ms")
	v.SetDefault("playback.tick_interval", "16ms")
	v.SetDefault("playback.damping", 0.1)
	v.SetDefault("playback.epsilon", 0.1)
	v.SetDefault("playback.paced", false)

	// Report defaults
	v.SetDefault("report.type", "text")
	v.SetDefault("report.path", "classification_report.txt")
	v.SetDefault("report.threshold", 0.7)
	v.SetDefault("report.sqlite_path", "spam_sorter.db")
	v.SetDefault("report.mysql_dsn", "user:password@tcp(localhost:3306)/spam_sorter")
	v.SetDefault("report.smtp.address", "localhost:25")
	v.SetDefault("report.smtp.from", "spam-sorter@localhost")
	v.SetDefault("report.smtp.to", []string{})
	v.SetDefault("report.smtp.username", "")
	v.SetDefault("report.smtp.password", "")

	// TUI defaults
	v.SetDefault("tui.pixels_per_column", 8)
	v.SetDefault("tui.pixels_per_row", 16)
	v.SetDefault("tui.pan_step", 40)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.output", "stderr")
}

// GetString gets a string value from the configuration
func (c *Config) GetString(key string) string {
	return c.v.GetString(key)
}

// GetInt gets an integer value from the configuration
func (c *Config) GetInt(key string) int {
	return c.v.GetInt(key)
}

// GetFloat64 gets a float64 value from the configuration
func (c *Config) GetFloat64(key string) float64 {
	return c.v.GetFloat64(key)
}

// GetBool gets a boolean value from the configuration
func (c *Config) GetBool(key string) bool {
	return c.v.GetBool(key)
}

// GetStringSlice gets a string slice value from the configuration
func (c *Config) GetStringSlice(key string) []string {
	return c.v.GetStringSlice(key)
}

// GetDuration gets a duration value from the configuration
func (c *Config) GetDuration(key string) (time.Duration, error) {
	d, err := time.ParseDuration(c.GetString(key))
	if err != nil {
		return 0, fmt.Errorf("invalid duration for %s: %w", key, err)
	}
	return d, nil
}

// Set overrides a value, taking precedence over file and environment
func (c *Config) Set(key string, value any) {
	c.v.Set(key, value)
}

// GetViper returns the underlying Viper instance
func (c *Config) GetViper() *viper.Viper {
	return c.v
}
