// Package config loads the lexscore application configuration and scoring
// profiles.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/kasheena/code-for-good/internal/logging"
)

const envPrefix = "LEXSCORE"

const (
	SentimentVADER = "vader"
	SentimentOff   = "off"
)

type Config struct {
	Log    logging.LogConfig `mapstructure:"log"`
	Server ServerConfig      `mapstructure:"server"`
	Engine EngineConfig      `mapstructure:"engine"`
}

type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	MaxBodyBytes    int64         `mapstructure:"max_body_bytes"`
}

type EngineConfig struct {
	// Profile names a built-in profile. ProfilePath, when set, wins.
	Profile     string `mapstructure:"profile"`
	ProfilePath string `mapstructure:"profile_path"`
	// LexiconDB replaces the profile's lexicon with a sqlite lexicon pack.
	LexiconDB string `mapstructure:"lexicon_db"`
	// Sentiment is "vader" or "off".
	Sentiment string `mapstructure:"sentiment"`
	Workers   int    `mapstructure:"workers"`
}

// newViper returns a viper instance where LEXSCORE_SECTION_FIELD overrides
// section.field. Every known key gets a default so AutomaticEnv can see it.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("log.level", DefaultLogLevel)
	v.SetDefault("log.format", DefaultLogFormat)
	v.SetDefault("log.output_paths", []string{"stderr"})
	v.SetDefault("server.addr", DefaultServerAddr)
	v.SetDefault("server.read_timeout", DefaultReadTimeout)
	v.SetDefault("server.write_timeout", DefaultWriteTimeout)
	v.SetDefault("server.shutdown_timeout", DefaultShutdownTimeout)
	v.SetDefault("server.max_body_bytes", DefaultMaxBodyBytes)
	v.SetDefault("engine.profile", DefaultProfile)
	v.SetDefault("engine.profile_path", "")
	v.SetDefault("engine.lexicon_db", "")
	v.SetDefault("engine.sentiment", SentimentVADER)
	v.SetDefault("engine.workers", 0)
	return v
}

// Load reads the YAML file at path, applies LEXSCORE_* overrides and
// defaults, and validates the result.
func Load(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: read %q: %w", path, err)
	}
	return unmarshalAndFinalize(v)
}

// LoadFromEnv builds a Config from LEXSCORE_* variables and defaults only.
func LoadFromEnv() (*Config, error) {
	return unmarshalAndFinalize(newViper())
}

func unmarshalAndFinalize(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	ApplyDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validation failed: %w", err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("log.level %q is invalid; expected debug|info|warn|error", c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("log.format %q is invalid; expected json|console", c.Log.Format)
	}

	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	if c.Server.ReadTimeout <= 0 || c.Server.WriteTimeout <= 0 || c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("server timeouts must be positive")
	}
	if c.Server.MaxBodyBytes <= 0 {
		return fmt.Errorf("server.max_body_bytes must be positive, got %d", c.Server.MaxBodyBytes)
	}

	if c.Engine.Profile == "" && c.Engine.ProfilePath == "" {
		return fmt.Errorf("engine.profile or engine.profile_path is required")
	}
	switch c.Engine.Sentiment {
	case SentimentVADER, SentimentOff:
	default:
		return fmt.Errorf("engine.sentiment %q is invalid; expected %s|%s", c.Engine.Sentiment, SentimentVADER, SentimentOff)
	}
	if c.Engine.Workers < 0 {
		return fmt.Errorf("engine.workers must be >= 0, got %d", c.Engine.Workers)
	}
	return nil
}
