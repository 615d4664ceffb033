package simulation

import (
	"math"
	"testing"

	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testAgent builds a stationary agent at pos with default tuning.
func testAgent(id string, pos geometry.Vector3D) *Agent {
	cfg := DefaultConfig()
	return &Agent{
		ID:         id,
		Pos:        pos,
		MaxSpeed:   cfg.MaxSpeed,
		MaxForce:   cfg.MaxForce,
		GoalWeight: cfg.GoalWeight,
		GroundY:    pos.Y,
	}
}

func emptyWorld(cfg *Config) *World {
	return NewWorld(cfg.HalfExtent, cfg.BoundsMargin, nil)
}

func TestAgent_Separation(t *testing.T) {
	cfg := DefaultConfig()

	t.Run("pushes away from a close neighbor", func(t *testing.T) {
		me := testAgent("me", geometry.NewVector(0, 0, 0))
		other := testAgent("other", geometry.NewVector(1, 0, 0))

		force := me.separation([]*Agent{me, other}, cfg)

		assert.Negative(t, force.X, "separation should push away on -X")
		assert.InDelta(t, 0, force.Z, geometry.Epsilon)
		assert.LessOrEqual(t, force.Len(), cfg.MaxForce+geometry.Epsilon, "separation must respect maxForce")
	})

	t.Run("ignores neighbors outside the radius", func(t *testing.T) {
		me := testAgent("me", geometry.NewVector(0, 0, 0))
		far := testAgent("far", geometry.NewVector(cfg.SeparationRadius+0.5, 0, 0))

		force := me.separation([]*Agent{me, far}, cfg)

		assert.True(t, force.Eq(geometry.Vector3D{}), "no neighbors in range means zero force, got %v", force)
	})

	t.Run("coincident neighbor stays finite", func(t *testing.T) {
		me := testAgent("me", geometry.NewVector(0, 0, 0))
		twin := testAgent("twin", geometry.NewVector(0, 0, 0))

		force := me.separation([]*Agent{me, twin}, cfg)

		require.False(t, math.IsNaN(force.X) || math.IsNaN(force.Z), "zero-distance guard failed: %v", force)
		require.False(t, math.IsInf(force.X, 0) || math.IsInf(force.Z, 0), "zero-distance guard failed: %v", force)
		assert.LessOrEqual(t, force.Len(), cfg.MaxForce+geometry.Epsilon)
	})
}

func TestAgent_Cohesion(t *testing.T) {
	cfg := DefaultConfig()

	me := testAgent("me", geometry.NewVector(0, 0, 0))
	other := testAgent("other", geometry.NewVector(5, 0, 0))

	force := me.cohesion([]*Agent{me, other}, cfg)

	assert.Positive(t, force.X, "cohesion should pull toward the neighbor average")
	assert.LessOrEqual(t, force.Len(), cfg.MaxForce+geometry.Epsilon)

	t.Run("no neighbors in range", func(t *testing.T) {
		lonely := testAgent("lonely", geometry.NewVector(0, 0, 0))
		far := testAgent("far", geometry.NewVector(cfg.NeighborRadius+1, 0, 0))
		force := lonely.cohesion([]*Agent{lonely, far}, cfg)
		assert.True(t, force.Eq(geometry.Vector3D{}))
	})
}

func TestAgent_Alignment(t *testing.T) {
	cfg := DefaultConfig()

	me := testAgent("me", geometry.NewVector(0, 0, 0))
	other := testAgent("other", geometry.NewVector(5, 0, 0))
	other.Vel = geometry.NewVector(0.1, 0, 0)

	force := me.alignment([]*Agent{me, other}, cfg)

	assert.Positive(t, force.X, "alignment should accelerate toward the neighbor velocity")
	assert.LessOrEqual(t, force.Len(), cfg.MaxForce+geometry.Epsilon)

	t.Run("stationary neighborhood contributes nothing", func(t *testing.T) {
		still := testAgent("still", geometry.NewVector(5, 0, 0))
		force := me.alignment([]*Agent{me, still}, cfg)
		assert.True(t, force.Eq(geometry.Vector3D{}), "zero average velocity has no preferred direction")
	})
}

func TestAgent_Avoidance(t *testing.T) {
	cfg := DefaultConfig()

	t.Run("deflects inside the reaction range", func(t *testing.T) {
		w := NewWorld(cfg.HalfExtent, cfg.BoundsMargin, []Obstacle{
			NewObstacle(ShapeSphere, geometry.NewVector(2, 0, 0), 2.0),
		})
		me := testAgent("me", geometry.NewVector(0, 0, 0))

		force := me.avoidance(w, cfg)

		assert.Negative(t, force.X, "avoidance should push away from the obstacle")
		assert.LessOrEqual(t, force.Len(), cfg.MaxForce+geometry.Epsilon)
	})

	t.Run("reaction range is fixed regardless of obstacle size", func(t *testing.T) {
		// A huge obstacle just beyond the fixed range still contributes nothing.
		w := NewWorld(cfg.HalfExtent, cfg.BoundsMargin, []Obstacle{
			NewObstacle(ShapeBox, geometry.NewVector(cfg.AvoidanceRange+0.1, 0, 0), 20.0),
		})
		me := testAgent("me", geometry.NewVector(0, 0, 0))

		force := me.avoidance(w, cfg)

		assert.True(t, force.Eq(geometry.Vector3D{}), "obstacle outside fixed range must not deflect, got %v", force)
	})
}

func TestAgent_Seek(t *testing.T) {
	me := testAgent("me", geometry.NewVector(0, 0, 0))

	force := me.seek(geometry.NewVector(10, 0, 0))

	assert.Positive(t, force.X)
	assert.InDelta(t, me.MaxForce, force.Len(), geometry.Epsilon, "a distant target saturates the steering clamp")
}

func TestAgent_GoalSeek(t *testing.T) {
	cfg := DefaultConfig()
	w := emptyWorld(cfg)
	me := testAgent("me", geometry.NewVector(0, 0, 0))

	t.Run("absent goal contributes nothing", func(t *testing.T) {
		assert.True(t, me.goalSeek(w).Eq(geometry.Vector3D{}))
	})

	t.Run("set goal pulls with goal weight", func(t *testing.T) {
		w.SetGoal(geometry.NewVector(10, 0, 0))
		force := me.goalSeek(w)
		assert.Positive(t, force.X)
		assert.InDelta(t, me.MaxForce*me.GoalWeight, force.Len(), geometry.Epsilon)
	})
}

func TestAgent_ComputeStep(t *testing.T) {
	cfg := DefaultConfig()

	t.Run("velocity is clamped to maxSpeed", func(t *testing.T) {
		w := emptyWorld(cfg)
		w.SetGoal(geometry.NewVector(20, 0, 20))
		me := testAgent("me", geometry.NewVector(0, 0, 0))
		me.Vel = geometry.NewVector(cfg.MaxSpeed, 0, 0) // Already at full speed

		vel, _ := me.ComputeStep([]*Agent{me}, w, cfg, 1)

		assert.LessOrEqual(t, vel.Len(), cfg.MaxSpeed+geometry.Epsilon)
	})

	t.Run("vertical component stays pinned", func(t *testing.T) {
		w := emptyWorld(cfg)
		me := testAgent("me", geometry.NewVector(0, 0.3, 0))
		me.GroundY = 0.3
		me.Vel = geometry.NewVector(0.1, 0.5, 0.1) // Vertical velocity must not move the agent

		_, pos := me.ComputeStep([]*Agent{me}, w, cfg, 1)

		assert.Equal(t, 0.3, pos.Y)
	})

	t.Run("position is clamped into bounds minus margin", func(t *testing.T) {
		w := emptyWorld(cfg)
		limit := cfg.HalfExtent - cfg.BoundsMargin
		me := testAgent("me", geometry.NewVector(limit, 0, limit))
		me.Vel = geometry.NewVector(cfg.MaxSpeed, 0, cfg.MaxSpeed)

		_, pos := me.ComputeStep([]*Agent{me}, w, cfg, 1)

		assert.LessOrEqual(t, pos.X, limit)
		assert.LessOrEqual(t, pos.Z, limit)
	})

	t.Run("no influences means straight-line drift", func(t *testing.T) {
		w := emptyWorld(cfg)
		me := testAgent("me", geometry.NewVector(0, 0, 0))
		me.Vel = geometry.NewVector(0.1, 0, 0.05)

		vel, pos := me.ComputeStep([]*Agent{me}, w, cfg, 1)

		assert.True(t, vel.Eq(me.Vel), "velocity must be unchanged without neighbors, obstacles or goal")
		assert.True(t, pos.Eq(me.Pos.Add(me.Vel)), "position must advance by exactly one velocity increment")
	})

	t.Run("dt scales the displacement", func(t *testing.T) {
		w := emptyWorld(cfg)
		me := testAgent("me", geometry.NewVector(0, 0, 0))
		me.Vel = geometry.NewVector(0.2, 0, 0)

		_, pos := me.ComputeStep([]*Agent{me}, w, cfg, 0.5)

		assert.InDelta(t, 0.1, pos.X, geometry.Epsilon)
	})
}

func TestAgent_Heading(t *testing.T) {
	me := testAgent("me", geometry.NewVector(0, 0, 0))

	me.commit(geometry.NewVector(0, 0, 1), me.Pos)
	assert.InDelta(t, 0, me.Heading, geometry.Epsilon, "+Z velocity is heading 0")

	me.commit(geometry.NewVector(1, 0, 0), me.Pos)
	assert.InDelta(t, math.Pi/2, me.Heading, geometry.Epsilon, "+X velocity is heading pi/2")

	// A stationary agent keeps its last heading.
	me.commit(geometry.Vector3D{}, me.Pos)
	assert.InDelta(t, math.Pi/2, me.Heading, geometry.Epsilon, "heading must be left unchanged at zero velocity")
}

func BenchmarkAgent_ComputeStep(b *testing.B) {
	cfg := DefaultConfig()
	w := NewWorld(cfg.HalfExtent, cfg.BoundsMargin, DefaultObstacles())
	w.SetGoal(geometry.NewVector(10, 0, 10))

	flock := make([]*Agent, 50)
	for i := range flock {
		x := float64(i%10) - 5
		z := float64(i/10) - 2
		flock[i] = testAgent(string(rune('a'+i)), geometry.NewVector(x, 0, z))
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		flock[i%len(flock)].ComputeStep(flock, w, cfg, 1)
	}
}
