package config

import "time"

const (
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	DefaultServerAddr      = ":8080"
	DefaultReadTimeout     = 10 * time.Second
	DefaultWriteTimeout    = 30 * time.Second
	DefaultShutdownTimeout = 15 * time.Second
	DefaultMaxBodyBytes    = 1 << 20

	DefaultProfile = "job_ad_bias"
)

// ApplyDefaults fills zero-value fields. Explicit values always win.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}
	if len(cfg.Log.OutputPaths) == 0 {
		cfg.Log.OutputPaths = []string{"stderr"}
	}

	if cfg.Server.Addr == "" {
		cfg.Server.Addr = DefaultServerAddr
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}
	if cfg.Server.MaxBodyBytes == 0 {
		cfg.Server.MaxBodyBytes = DefaultMaxBodyBytes
	}

	if cfg.Engine.Profile == "" && cfg.Engine.ProfilePath == "" {
		cfg.Engine.Profile = DefaultProfile
	}
	if cfg.Engine.Sentiment == "" {
		cfg.Engine.Sentiment = SentimentVADER
	}
}
