package sim

import (
	"github.com/argus-labs/astro/pkg/telemetry"
	"github.com/caarlos0/env/v11"
	"github.com/rotisserie/eris"
)

// simConfig holds the configuration for a Simulation.
// Configuration can be set via environment variables with the specified defaults.
type simConfig struct {
	// Number of physics steps per simulated second.
	TickRate float64 `env:"TICK_RATE" envDefault:"120"`

	// Upper bound on the steps run by one Advance call. Wall time beyond that is dropped so a
	// long stall doesn't trigger a burst of catch-up steps.
	MaxStepsPerFrame int `env:"MAX_STEPS_PER_FRAME" envDefault:"8"`
}

// loadSimConfig loads the simulation configuration from environment variables.
func loadSimConfig() (simConfig, error) {
	cfg := simConfig{}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: "ASTRO_"}); err != nil {
		return cfg, eris.Wrap(err, "failed to parse sim config")
	}

	if err := cfg.validate(); err != nil {
		return cfg, eris.Wrap(err, "failed to validate config")
	}

	return cfg, nil
}

func (cfg *simConfig) validate() error {
	if cfg.TickRate <= 0 {
		return eris.New("tick rate must be positive")
	}
	if cfg.MaxStepsPerFrame <= 0 {
		return eris.New("max steps per frame must be positive")
	}
	return nil
}

func (cfg *simConfig) applyToOptions(opt *Options) {
	opt.TickRate = cfg.TickRate
	opt.MaxStepsPerFrame = cfg.MaxStepsPerFrame
}

type Options struct {
	TickRate         float64              // Number of physics steps per second
	MaxStepsPerFrame int                  // Maximum steps run by one Advance
	Telemetry        *telemetry.Telemetry // Logger and tracer, discarded when nil
}

func newDefaultOptions() Options {
	// Set these to invalid values to force the config or the caller to provide them.
	return Options{
		TickRate:         0,
		MaxStepsPerFrame: 0,
		Telemetry:        nil,
	}
}

// apply merges the given options into the current options, overriding non-zero values.
func (opt *Options) apply(newOpt Options) {
	if newOpt.TickRate != 0.0 {
		opt.TickRate = newOpt.TickRate
	}
	if newOpt.MaxStepsPerFrame != 0 {
		opt.MaxStepsPerFrame = newOpt.MaxStepsPerFrame
	}
	if newOpt.Telemetry != nil {
		opt.Telemetry = newOpt.Telemetry
	}
}

// validate checks that all required options are set and valid.
func (opt *Options) validate() error {
	if opt.TickRate <= 0 {
		return eris.New("tick rate must be positive")
	}
	if opt.MaxStepsPerFrame <= 0 {
		return eris.New("max steps per frame must be positive")
	}
	return nil
}
