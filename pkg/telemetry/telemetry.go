// Package telemetry sets up the zerolog logger and OpenTelemetry tracer shared by the
// simulation. Settings come from ASTRO_ prefixed environment variables or an explicit Config.
package telemetry

import (
	"context"
	"os"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

type Telemetry struct {
	Logger      zerolog.Logger
	Tracer      trace.Tracer
	serviceName string

	shutdown func(context.Context) error
}

func New(opts Options) (Telemetry, error) {
	if opts.ServiceName == "" {
		return Telemetry{}, eris.New("service name cannot be empty")
	}

	var cfg Config
	if opts.Config != nil {
		cfg = *opts.Config
	} else {
		var err error
		if cfg, err = loadConfig(); err != nil {
			return Telemetry{}, eris.Wrap(err, "failed to load otel config")
		}
	}
	if err := cfg.validate(); err != nil {
		return Telemetry{}, eris.Wrap(err, "invalid otel config")
	}

	out := opts.Output
	if out == nil {
		out = os.Stdout
	}
	logger := newLogger(cfg, out)

	tracer, shutdown, err := setupTracing(context.Background(), opts.ServiceName, cfg)
	if err != nil {
		return Telemetry{}, eris.Wrap(err, "failed to setup telemetry")
	}

	return Telemetry{
		Logger:      logger,
		Tracer:      tracer,
		serviceName: opts.ServiceName,
		shutdown:    shutdown,
	}, nil
}

// Nop returns a Telemetry that discards logs and records no spans.
func Nop(serviceName string) Telemetry {
	return Telemetry{
		Logger:      zerolog.Nop(),
		Tracer:      noop.NewTracerProvider().Tracer(serviceName),
		serviceName: serviceName,
	}
}

// Shutdown flushes pending spans and stops the exporter.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	if t.shutdown != nil {
		return t.shutdown(ctx)
	}
	return nil
}

// GetLogger returns a component-specific logger.
func (t *Telemetry) GetLogger(component string) zerolog.Logger {
	return t.Logger.With().Str("component", t.serviceName+"."+component).Logger()
}
