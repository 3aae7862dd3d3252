// Package sim drives the simulation core at a fixed timestep. A Simulation owns the entity store,
// runs integration and collision resolution for every whole step of accumulated wall time, then
// runs the registered gameplay systems and applies their deferred commands at the end of the
// frame.
package sim

import (
	"context"
	"time"

	"github.com/argus-labs/astro/pkg/sim/ecs"
	"github.com/argus-labs/astro/pkg/sim/physics"
	"github.com/argus-labs/astro/pkg/telemetry"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// System is a per-step gameplay pass. It may modify components in place but must queue
// structural changes on cmds.
type System func(s *ecs.Store, dt float32, cmds *Commands)

type namedSystem struct {
	name string
	fn   System
}

// Stats are running counters for a Simulation.
type Stats struct {
	Frames      uint64        // Advance calls
	Steps       uint64        // Physics steps run
	Contacts    uint64        // Contacts resolved
	Commands    uint64        // Deferred commands applied
	DroppedTime time.Duration // Wall time discarded because a frame hit MaxStepsPerFrame
}

type Simulation struct {
	store    *ecs.Store
	commands *Commands
	systems  []namedSystem

	step        time.Duration // Fixed step length
	dt          float32       // Fixed step length in seconds
	maxSteps    int
	accumulated time.Duration
	stats       Stats

	log    zerolog.Logger
	tracer trace.Tracer
}

// New creates a Simulation with an empty store.
func New(opts Options) (*Simulation, error) {
	cfg, err := loadSimConfig()
	if err != nil {
		return nil, eris.Wrap(err, "failed to load sim config")
	}

	options := newDefaultOptions()
	cfg.applyToOptions(&options)
	options.apply(opts)
	if err := options.validate(); err != nil {
		return nil, eris.Wrap(err, "invalid sim options")
	}

	tel := options.Telemetry
	if tel == nil {
		nop := telemetry.Nop("astro")
		tel = &nop
	}

	step := time.Duration(float64(time.Second) / options.TickRate)
	if step <= 0 {
		return nil, eris.Errorf("tick rate %v is too high", options.TickRate)
	}

	return &Simulation{
		store:    ecs.NewStore(),
		commands: &Commands{},
		step:     step,
		dt:       float32(step.Seconds()),
		maxSteps: options.MaxStepsPerFrame,
		log:      tel.GetLogger("sim"),
		tracer:   tel.Tracer,
	}, nil
}

// AddSystem registers a system to run after collision resolution on every step. Systems run in
// registration order.
func (s *Simulation) AddSystem(name string, fn System) {
	s.systems = append(s.systems, namedSystem{name: name, fn: fn})
}

// Advance accumulates wall-clock time and runs one Step per whole fixed step, up to
// MaxStepsPerFrame. Deferred commands are applied once all steps ran. Returns the number of steps.
func (s *Simulation) Advance(ctx context.Context, wall time.Duration) int {
	s.stats.Frames++
	if wall > 0 {
		s.accumulated += wall
	}

	steps := 0
	for s.accumulated >= s.step && steps < s.maxSteps {
		if ctx.Err() != nil {
			break
		}
		s.Step(ctx)
		s.accumulated -= s.step
		steps++
	}

	if steps == s.maxSteps && s.accumulated >= s.step {
		dropped := s.accumulated - s.accumulated%s.step
		s.accumulated -= dropped
		s.stats.DroppedTime += dropped
		s.log.Warn().Dur("dropped", dropped).Int("steps", steps).Msg("simulation falling behind")
	}

	applied := s.commands.Flush(s.store)
	s.stats.Commands += uint64(applied) //nolint:gosec // non-negative
	return steps
}

// Step runs one fixed step: integration, collision resolution and then every system. It doesn't
// apply deferred commands, Advance does that at the end of the frame.
func (s *Simulation) Step(ctx context.Context) physics.Report {
	ctx, span := s.tracer.Start(ctx, "sim.step")
	defer span.End()

	_, integrateSpan := s.tracer.Start(ctx, "physics.integrate")
	bodies := physics.Integrate(s.store, s.dt)
	integrateSpan.SetAttributes(attribute.Int("bodies", bodies))
	integrateSpan.End()

	_, collideSpan := s.tracer.Start(ctx, "physics.resolve_collisions")
	report := physics.ResolveCollisions(s.store, s.dt)
	collideSpan.SetAttributes(attribute.Int("pairs", report.Pairs), attribute.Int("contacts", report.Contacts))
	collideSpan.End()

	for _, sys := range s.systems {
		_, sysSpan := s.tracer.Start(ctx, "system."+sys.name)
		sys.fn(s.store, s.dt, s.commands)
		sysSpan.End()
	}

	s.stats.Steps++
	s.stats.Contacts += uint64(report.Contacts) //nolint:gosec // non-negative
	if report.Contacts > 0 {
		s.log.Debug().
			Uint64("step", s.stats.Steps).
			Int("contacts", report.Contacts).
			Int("pairs", report.Pairs).
			Msg("resolved collisions")
	}
	return report
}

// Alpha is the fraction of a step left in the accumulator, for interpolating between the last
// two physics states when rendering.
func (s *Simulation) Alpha() float32 {
	return float32(s.accumulated) / float32(s.step)
}

// Dt returns the fixed step length in seconds.
func (s *Simulation) Dt() float32 {
	return s.dt
}

// Store returns the simulation's entity store.
func (s *Simulation) Store() *ecs.Store {
	return s.store
}

// Commands returns the buffer applied at the end of every Advance.
func (s *Simulation) Commands() *Commands {
	return s.commands
}

// Stats returns a copy of the running counters.
func (s *Simulation) Stats() Stats {
	return s.stats
}
