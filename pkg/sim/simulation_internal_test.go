package sim

import (
	"context"
	"testing"
	"time"

	"github.com/argus-labs/astro/pkg/sim/component"
	"github.com/argus-labs/astro/pkg/sim/ecs"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type drone struct {
	Phys component.PhysicalBody
}

func (drone) Name() string                     { return "drone" }
func (p *drone) Body() *component.PhysicalBody { return &p.Phys }

type marker struct{}

func (marker) Name() string { return "marker" }

func newTestSim(t *testing.T, opts Options) *Simulation {
	t.Helper()
	s, err := New(opts)
	require.NoError(t, err)
	return s
}

func TestNew_Options(t *testing.T) {
	t.Parallel()

	s := newTestSim(t, Options{})
	assert.InDelta(t, 1.0/120, s.Dt(), 1e-6)

	s = newTestSim(t, Options{TickRate: 10, MaxStepsPerFrame: 2})
	assert.InDelta(t, 0.1, s.Dt(), 1e-6)
	assert.Equal(t, 2, s.maxSteps)

	_, err := New(Options{TickRate: -1})
	require.Error(t, err)
	_, err = New(Options{MaxStepsPerFrame: -3})
	require.Error(t, err)
}

func TestNew_EnvConfig(t *testing.T) {
	t.Setenv("ASTRO_TICK_RATE", "20")
	s := newTestSim(t, Options{})
	assert.InDelta(t, 0.05, s.Dt(), 1e-6)

	t.Setenv("ASTRO_MAX_STEPS_PER_FRAME", "0")
	_, err := New(Options{})
	require.Error(t, err)

	t.Setenv("ASTRO_TICK_RATE", "fast")
	_, err = New(Options{MaxStepsPerFrame: 1})
	require.Error(t, err)
}

func TestAdvance_FixedSteps(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newTestSim(t, Options{TickRate: 10, MaxStepsPerFrame: 8})

	assert.Equal(t, 0, s.Advance(ctx, 50*time.Millisecond))
	assert.InDelta(t, 0.5, s.Alpha(), 1e-6)
	assert.Equal(t, 2, s.Advance(ctx, 200*time.Millisecond))
	assert.InDelta(t, 0.5, s.Alpha(), 1e-6)
	assert.Equal(t, 1, s.Advance(ctx, 50*time.Millisecond))
	assert.Equal(t, 0, s.Advance(ctx, -time.Second), "negative deltas are ignored")

	stats := s.Stats()
	assert.Equal(t, uint64(4), stats.Frames)
	assert.Equal(t, uint64(3), stats.Steps)
	assert.Zero(t, stats.DroppedTime)
}

func TestAdvance_DropsExcessTime(t *testing.T) {
	t.Parallel()

	s := newTestSim(t, Options{TickRate: 10, MaxStepsPerFrame: 3})
	assert.Equal(t, 3, s.Advance(context.Background(), 1050*time.Millisecond))
	assert.Equal(t, 700*time.Millisecond, s.Stats().DroppedTime)
	assert.InDelta(t, 0.5, s.Alpha(), 1e-6)
}

func TestAdvance_StopsWhenCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := newTestSim(t, Options{TickRate: 10})
	assert.Equal(t, 0, s.Advance(ctx, time.Second))
}

func TestStep_MovesBodies(t *testing.T) {
	t.Parallel()

	s := newTestSim(t, Options{TickRate: 10})
	phys, err := component.NewPhysicalBody(1, 1, 0)
	require.NoError(t, err)
	phys.SetVelocity(mgl32.Vec3{0, 10, 0})
	id := ecs.Insert(s.Store(), drone{Phys: phys}, component.NewTransform(mgl32.Vec3{}))

	report := s.Step(context.Background())
	assert.Equal(t, 0, report.Pairs)

	got, ok := ecs.Get[drone](s.Store(), id)
	require.True(t, ok)
	assert.InDelta(t, 1, got.Transform.Position.Y(), 1e-5)
}

func TestAdvance_AppliesCommandsAtEndOfFrame(t *testing.T) {
	t.Parallel()

	s := newTestSim(t, Options{TickRate: 10, MaxStepsPerFrame: 8})

	var seen []int
	s.AddSystem("spawner", func(store *ecs.Store, _ float32, cmds *Commands) {
		seen = append(seen, ecs.Len[marker](store))
		Spawn(cmds, marker{}, component.NewTransform(mgl32.Vec3{}), nil)
	})

	assert.Equal(t, 3, s.Advance(context.Background(), 300*time.Millisecond))
	// Every step of the frame saw the store as it was at the start of the frame.
	assert.Equal(t, []int{0, 0, 0}, seen)
	assert.Equal(t, 3, ecs.Len[marker](s.Store()))
	assert.Equal(t, uint64(3), s.Stats().Commands)
	assert.Equal(t, 0, s.Commands().Len())
}

func TestCommands_FIFO(t *testing.T) {
	t.Parallel()

	store := ecs.NewStore()
	cmds := &Commands{}

	var spawned []ecs.EntityID
	onSpawn := func(id ecs.EntityID) {
		spawned = append(spawned, id)
	}
	Spawn(cmds, marker{}, component.NewTransform(mgl32.Vec3{}), onSpawn)
	Spawn(cmds, marker{}, component.NewTransform(mgl32.Vec3{}), func(id ecs.EntityID) {
		onSpawn(id)
		// Queued during the flush, still applied by it.
		Despawn[marker](cmds, id)
	})
	Despawn[marker](cmds, 99)
	assert.Equal(t, 3, cmds.Len())

	assert.Equal(t, 4, cmds.Flush(store))
	assert.Equal(t, []ecs.EntityID{1, 2}, spawned)
	assert.Equal(t, 1, ecs.Len[marker](store))
	_, ok := ecs.Get[marker](store, 1)
	assert.True(t, ok)

	assert.Equal(t, 0, cmds.Flush(store))
}
