// Package config loads CLI configuration: an optional config file merged
// with AUTOFILL_-prefixed environment variables over built-in defaults.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/goliatone/go-autofill/internal/logging"
)

// Config holds all CLI configuration.
type Config struct {
	AI     AIConfig
	Report ReportConfig
	Log    logging.Config
}

// AIConfig holds refinement service settings. Endpoint and Model stay empty
// unless configured; the refiner supplies its own defaults.
type AIConfig struct {
	Enabled  bool
	Endpoint string
	Key      string
	Model    string
	Timeout  time.Duration
}

// ReportConfig holds plan rendering settings. Threshold 0 falls back to the
// built-in default.
type ReportConfig struct {
	Format    string // json, text, html
	Theme     string // path to a theme manifest, optional
	Threshold int    // minimum confidence marked fillable
}

// Load reads configuration with this priority, highest first: environment
// variables with an AUTOFILL_ prefix (e.g. AUTOFILL_AI_KEY), the config
// file, built-in defaults. An empty path searches the working directory and
// $HOME/.config/autofill for autofill.yaml; a missing file is only an error
// when the path was explicit.
func Load(path string) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("autofill")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/autofill")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: read file: %w", err)
		}
	}

	v.SetEnvPrefix("AUTOFILL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		AI: AIConfig{
			Enabled:  v.GetBool("ai.enabled"),
			Endpoint: v.GetString("ai.endpoint"),
			Key:      v.GetString("ai.key"),
			Model:    v.GetString("ai.model"),
			Timeout:  v.GetDuration("ai.timeout"),
		},
		Report: ReportConfig{
			Format:    v.GetString("report.format"),
			Theme:     v.GetString("report.theme"),
			Threshold: v.GetInt("report.threshold"),
		},
		Log: logging.Config{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
	}

	applyDefaults(cfg)
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.AI.Timeout == 0 {
		cfg.AI.Timeout = 20 * time.Second
	}
	if cfg.Report.Format == "" {
		cfg.Report.Format = "text"
	}
	if cfg.Report.Threshold == 0 {
		cfg.Report.Threshold = 85
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stderr"
	}
}

func (c *Config) validate() error {
	switch c.Report.Format {
	case "json", "text", "html":
	default:
		return fmt.Errorf("config: unknown report format %q", c.Report.Format)
	}
	if c.Report.Threshold < 0 || c.Report.Threshold > 100 {
		return fmt.Errorf("config: report threshold %d out of range", c.Report.Threshold)
	}
	if c.AI.Enabled && c.AI.Key == "" {
		return errors.New("config: ai.enabled requires ai.key")
	}
	return nil
}
