package config

import (
	"time"

	"github.com/caarlos0/env"
)

type Config struct {
	Port                  string        `env:"PORT" envDefault:"5000"`
	DefaultEncoding       string        `env:"DEFAULT_ENCODING" envDefault:"cl100k_base"`
	TokenizerBackend      string        `env:"TOKENIZER_BACKEND" envDefault:"tiktoken"`
	CorsAllowedOrigins    []string      `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
	MaxUploadSizeBytes    int64         `env:"MAX_UPLOAD_SIZE_BYTES" envDefault:"33554432"`
	SettingsFile          string        `env:"SETTINGS_FILE"`
	TelemetryProvider     string        `env:"TELEMETRY_PROVIDER"`
	StatsAddress          string        `env:"STATS_ADDRESS" envDefault:"127.0.0.1:8125"`
	OpenTelemetryEnabled  bool          `env:"OTEL_ENABLED" envDefault:"false"`
	OpenTelemetryEndpoint string        `env:"OTEL_ENDPOINT" envDefault:"localhost:4318"`
	ShutdownTimeout       time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"5s"`

	// EncodingAliases is only populated from the settings file.
	EncodingAliases map[string]string
}

func ParseEnvVariables() (*Config, error) {
	cfg := &Config{}
	err := env.Parse(cfg)
	if err != nil {
		return nil, err
	}

	return cfg, nil
}
