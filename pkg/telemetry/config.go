package telemetry

import (
	"io"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

// envPrefix is prepended to every environment variable read by this package.
const envPrefix = "ASTRO_"

// Config holds the logging and tracing settings. It is read from ASTRO_ prefixed environment
// variables unless Options.Config is set.
type Config struct {
	// Tracing exports spans over OTLP when true, otherwise spans are dropped.
	Tracing bool `env:"OTEL_ENABLED" envDefault:"false"`

	// Endpoint is the OTLP collector endpoint.
	Endpoint string `env:"OTEL_ENDPOINT" envDefault:"localhost:4317"`

	// TraceSampleRate is the fraction of traces sampled, 0.0 to 1.0.
	TraceSampleRate float64 `env:"OTEL_TRACE_SAMPLE_RATE" envDefault:"1.0"`

	// LogLevel is the minimum level written ("debug", "info", "warn", "error").
	LogLevel zerolog.Level `env:"LOG_LEVEL" envDefault:"info"`

	// LogFormat is "json" or "pretty".
	LogFormat LogFormat `env:"LOG_FORMAT" envDefault:"pretty"`
}

// DefaultConfig returns the configuration used when no environment variable is set.
func DefaultConfig() Config {
	return Config{
		Endpoint:        "localhost:4317",
		TraceSampleRate: 1.0,
		LogLevel:        zerolog.InfoLevel,
		LogFormat:       LogFormatPretty,
	}
}

// loadConfig loads the configuration from environment variables.
func loadConfig() (Config, error) {
	cfg := Config{}
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: envPrefix}); err != nil {
		return cfg, eris.Wrap(err, "failed to parse telemetry config")
	}
	return cfg, nil
}

func (cfg *Config) validate() error {
	if cfg.LogFormat == LogFormatUndefined {
		return eris.New("log format must be 'json' or 'pretty'")
	}
	if cfg.TraceSampleRate < 0.0 || cfg.TraceSampleRate > 1.0 {
		return eris.Errorf("trace sample rate %v must be between 0.0 and 1.0", cfg.TraceSampleRate)
	}
	if cfg.Tracing && cfg.Endpoint == "" {
		return eris.New("OTLP endpoint cannot be empty when tracing is enabled")
	}
	return nil
}

type Options struct {
	ServiceName string    // Name of the service, required
	Output      io.Writer // Log destination, stdout when nil
	Config      *Config   // Used instead of the environment when set
}

// LogFormat represents the log output format.
type LogFormat uint8

const (
	LogFormatUndefined LogFormat = iota // Used as the zero value
	LogFormatJSON                       // Outputs structured JSON logs
	LogFormatPretty                     // Outputs human-readable console logs
)

var logFormatNames = map[LogFormat]string{ //nolint:gochecknoglobals // lookup table
	LogFormatUndefined: "undefined",
	LogFormatJSON:      "json",
	LogFormatPretty:    "pretty",
}

func (f LogFormat) String() string {
	if name, ok := logFormatNames[f]; ok {
		return name
	}
	return logFormatNames[LogFormatUndefined]
}

// UnmarshalText lets env parse LogFormat fields directly.
func (f *LogFormat) UnmarshalText(text []byte) error {
	*f = ParseLogFormat(string(text))
	if *f == LogFormatUndefined {
		return eris.Errorf("invalid log format %q (must be 'json' or 'pretty')", text)
	}
	return nil
}

// ParseLogFormat converts a string to LogFormat enum.
func ParseLogFormat(s string) LogFormat {
	s = strings.ToLower(s)
	for f, name := range logFormatNames {
		if f != LogFormatUndefined && name == s {
			return f
		}
	}
	return LogFormatUndefined
}
