// Command astrosim runs the asteroid field headless: it spawns a ship and a field of drifting
// asteroids, drives the simulation from the wall clock and logs what happens.
package main

import (
	"context"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/argus-labs/astro/pkg/sim"
	"github.com/argus-labs/astro/pkg/sim/component"
	"github.com/argus-labs/astro/pkg/sim/ecs"
	"github.com/argus-labs/astro/pkg/sim/kind"
	"github.com/argus-labs/astro/pkg/telemetry"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/profile"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
	flag "github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"
)

type flags struct {
	asteroids  int
	fieldSize  float32
	duration   time.Duration
	frameRate  int
	fireEvery  time.Duration
	seed       uint64
	snapshot   string
	profileRun string
}

func parseFlags() flags {
	var f flags
	flag.IntVar(&f.asteroids, "asteroids", 200, "number of asteroids to spawn")
	flag.Float32Var(&f.fieldSize, "field", 200, "half extent of the asteroid field")
	flag.DurationVar(&f.duration, "duration", 10*time.Second, "how long to run, 0 runs until interrupted")
	flag.IntVar(&f.frameRate, "fps", 60, "frames per second driving the simulation")
	flag.DurationVar(&f.fireEvery, "fire-every", 250*time.Millisecond, "how often the ship fires, 0 disables")
	flag.Uint64Var(&f.seed, "seed", 1, "seed for the asteroid field")
	flag.StringVar(&f.snapshot, "snapshot", "", "write a JSON snapshot of the store to this file on exit")
	flag.StringVar(&f.profileRun, "profile", "", "profile the run: cpu or mem")
	flag.Parse()
	return f
}

func main() {
	f := parseFlags()

	switch f.profileRun {
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	case "mem":
		defer profile.Start(profile.MemProfileAllocs, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	}

	tel, err := telemetry.New(telemetry.Options{ServiceName: "astrosim"})
	if err != nil {
		fallback := zerolog.New(os.Stderr)
		fallback.Fatal().Err(err).Msg("failed to set up telemetry")
	}
	log := tel.GetLogger("main")

	if err := run(f, &tel, log); err != nil {
		log.Error().Err(err).Msg("simulation failed")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := tel.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("failed to shut down telemetry")
	}
}

func run(f flags, tel *telemetry.Telemetry, log zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if f.duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.duration)
		defer cancel()
	}

	game, err := sim.New(sim.Options{Telemetry: tel})
	if err != nil {
		return eris.Wrap(err, "failed to create simulation")
	}
	game.AddSystem("dampening", kind.ApplyDampening)
	game.AddSystem("spin", kind.ApplySpin)
	game.AddSystem("bullets", kind.AgeBullets)
	game.AddSystem("explosions", kind.AgeExplosions)

	ship, err := populate(game.Store(), f)
	if err != nil {
		return err
	}
	log.Info().Int("asteroids", f.asteroids).Uint64("seed", f.seed).Msg("asteroid field ready")

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return loop(ctx, game, ship, f, log)
	})
	g.Go(func() error {
		<-ctx.Done()
		log.Info().Msg("stopping")
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	stats := game.Stats()
	log.Info().
		Uint64("frames", stats.Frames).
		Uint64("steps", stats.Steps).
		Uint64("contacts", stats.Contacts).
		Dur("dropped", stats.DroppedTime).
		Int("entities", game.Store().Len()).
		Msg("done")

	if f.snapshot != "" {
		return writeSnapshot(game.Store(), f.snapshot)
	}
	return nil
}

func populate(s *ecs.Store, f flags) (ecs.EntityID, error) {
	r := rand.New(rand.NewPCG(f.seed, f.seed)) //nolint:gosec // gameplay randomness

	ship, err := kind.SpawnShip(s, component.NewTransform(mgl32.Vec3{}))
	if err != nil {
		return 0, err
	}
	kind.SpawnHUD(s, "contacts", mgl32.Vec2{0.05, 0.95})

	for range f.asteroids {
		pos := randVec3(r, f.fieldSize)
		// Keep the ship's immediate surroundings clear.
		switch l := pos.Len(); {
		case l == 0:
			pos = mgl32.Vec3{10, 0, 0}
		case l < 10:
			pos = pos.Normalize().Mul(10)
		}
		size := 1 + r.IntN(4)
		velocity := randVec3(r, 5)
		if _, err := kind.SpawnAsteroid(s, component.NewTransform(pos), size, velocity); err != nil {
			return 0, err
		}
	}
	return ship, nil
}

func randVec3(r *rand.Rand, extent float32) mgl32.Vec3 {
	return mgl32.Vec3{
		(r.Float32()*2 - 1) * extent,
		(r.Float32()*2 - 1) * extent,
		(r.Float32()*2 - 1) * extent,
	}
}

// loop advances the simulation once per frame until ctx is done. The ship steers into a slow turn
// and fires so the field sees some bullets.
func loop(ctx context.Context, game *sim.Simulation, ship ecs.EntityID, f flags, log zerolog.Logger) error {
	frame := time.Second / time.Duration(max(f.frameRate, 1))
	ticker := time.NewTicker(frame)
	defer ticker.Stop()

	report := time.NewTicker(time.Second)
	defer report.Stop()

	last := time.Now()
	var sinceFire time.Duration
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-report.C:
			stats := game.Stats()
			log.Debug().
				Uint64("steps", stats.Steps).
				Uint64("contacts", stats.Contacts).
				Int("bullets", ecs.Len[kind.Bullet](game.Store())).
				Int("explosions", ecs.Len[kind.Explosion](game.Store())).
				Msg("tick")
		case now := <-ticker.C:
			wall := now.Sub(last)
			last = now

			if rec, ok := ecs.GetMut[kind.Ship](game.Store(), ship); ok {
				steer(rec, game.Dt())
			}
			sinceFire += wall
			if f.fireEvery > 0 && sinceFire >= f.fireEvery {
				sinceFire = 0
				if _, err := kind.FireBullet(game.Store(), game.Commands(), ship); err != nil {
					return eris.Wrap(err, "failed to fire")
				}
			}

			game.Advance(ctx, wall)
		}
	}
}

// yawRate is the ship's target turn rate in radians per second.
const yawRate = 0.5

// steer applies the torque that brings the ship's yaw rate to yawRate within one step. Nothing is
// added while an earlier torque is still waiting for the integrator.
func steer(ship *ecs.Entity[kind.Ship], dt float32) {
	body := &ship.Payload.Physics
	if body.ResultantAngularForce != (mgl32.Vec3{}) {
		return
	}
	spin := body.AngularVelocity().Dot(ship.Transform.Up())
	kind.Turn(ship, (yawRate-spin)*body.AngularInertia/dt)
}

func writeSnapshot(s *ecs.Store, path string) error {
	data, err := s.Serialize()
	if err != nil {
		return eris.Wrap(err, "failed to serialize store")
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return eris.Wrapf(err, "failed to write snapshot to %s", path)
	}
	return nil
}
