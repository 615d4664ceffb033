package simulation

import (
	"math"
	"math/rand"

	"github.com/google/uuid"
	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/geometry"
)

// minSeparation is the floor applied to pairwise distances before computing
// closeness weights (1/d), so two overlapping entities never produce an
// unbounded force.
const minSeparation = 1e-3

// Agent is one steering-capable entity. It holds simulation state only;
// visual resources live in the presentation layer, keyed by ID.
type Agent struct {
	ID  string
	Pos geometry.Vector3D
	Vel geometry.Vector3D

	MaxSpeed   float64
	MaxForce   float64
	GoalWeight float64

	// GroundY is the constant vertical offset this agent is pinned to.
	GroundY float64

	// Heading is the rendering orientation, atan2(Vel.X, Vel.Z).
	// It keeps its last value while the agent is stationary.
	Heading float64
}

// NewAgent spawns an agent at a uniformly random position inside the world
// bounds (minus margin) with a small random planar velocity.
func NewAgent(rng *rand.Rand, cfg *Config, w *World) *Agent {
	limit := w.HalfExtent() - w.Margin()
	groundY := rng.Float64() * cfg.GroundOffsetMax
	pos := geometry.NewVector(
		(rng.Float64()*2-1)*limit,
		groundY,
		(rng.Float64()*2-1)*limit,
	)
	vel := geometry.NewVectorPlanarPolar(rng.Float64()*cfg.InitialSpeed, rng.Float64()*2*math.Pi)

	a := &Agent{
		ID:         uuid.NewString(),
		Pos:        pos,
		Vel:        vel,
		MaxSpeed:   cfg.MaxSpeed,
		MaxForce:   cfg.MaxForce,
		GoalWeight: cfg.GoalWeight,
		GroundY:    groundY,
	}
	if vel.LenSqr() > 0 {
		a.Heading = math.Atan2(vel.X, vel.Z)
	}
	return a
}

// seek steers toward a target position at capped acceleration: the desired
// velocity points straight at the target at MaxSpeed, and the steering force
// is the clamped difference to the current velocity.
func (a *Agent) seek(target geometry.Vector3D) geometry.Vector3D {
	desired := target.Sub(a.Pos).Normalize().Mul(a.MaxSpeed)
	return desired.Sub(a.Vel).ClampLen(a.MaxForce)
}

// separation pushes away from flockmates inside the protected radius.
// Each neighbor contributes the normalized direction away from it, weighted
// by 1/distance so closer neighbors weigh more; the average is treated as a
// desired velocity.
func (a *Agent) separation(flock []*Agent, cfg *Config) geometry.Vector3D {
	var sum geometry.Vector3D
	count := 0
	for _, other := range flock {
		if other.ID == a.ID {
			continue
		}
		d := a.Pos.DistanceTo(other.Pos)
		if d >= cfg.SeparationRadius {
			continue
		}
		if d < minSeparation {
			d = minSeparation
		}
		away := a.Pos.Sub(other.Pos).Normalize().Mul(1 / d)
		sum = sum.Add(away)
		count++
	}
	if count == 0 {
		return geometry.Vector3D{}
	}
	avg := sum.Mul(1 / float64(count))
	if avg.LenSqr() < geometry.Epsilon {
		// Perfectly symmetric crowding cancels out; no preferred direction.
		return geometry.Vector3D{}
	}
	desired := avg.Normalize().Mul(a.MaxSpeed)
	return desired.Sub(a.Vel).ClampLen(a.MaxForce)
}

// cohesion seeks the average position of flockmates within visual range.
func (a *Agent) cohesion(flock []*Agent, cfg *Config) geometry.Vector3D {
	var center geometry.Vector3D
	count := 0
	for _, other := range flock {
		if other.ID == a.ID {
			continue
		}
		if a.Pos.DistanceTo(other.Pos) >= cfg.NeighborRadius {
			continue
		}
		center = center.Add(other.Pos)
		count++
	}
	if count == 0 {
		return geometry.Vector3D{}
	}
	return a.seek(center.Mul(1 / float64(count)))
}

// alignment matches the average velocity of flockmates within visual range,
// rescaled to MaxSpeed.
func (a *Agent) alignment(flock []*Agent, cfg *Config) geometry.Vector3D {
	var avgVel geometry.Vector3D
	count := 0
	for _, other := range flock {
		if other.ID == a.ID {
			continue
		}
		if a.Pos.DistanceTo(other.Pos) >= cfg.NeighborRadius {
			continue
		}
		avgVel = avgVel.Add(other.Vel)
		count++
	}
	if count == 0 {
		return geometry.Vector3D{}
	}
	avgVel = avgVel.Mul(1 / float64(count))
	if avgVel.LenSqr() < geometry.Epsilon {
		return geometry.Vector3D{}
	}
	desired := avgVel.Normalize().Mul(a.MaxSpeed)
	return desired.Sub(a.Vel).ClampLen(a.MaxForce)
}

// avoidance deflects away from obstacles inside the fixed reaction range,
// with the same closeness-weighted construction as separation. The range is
// deliberately independent of each obstacle's own footprint radius; that
// radius belongs to the world descriptor, not the steering rule. Avoidance
// is a force-capped deflection, not a hard constraint: strong competing
// forces can still push an agent through a footprint.
func (a *Agent) avoidance(w *World, cfg *Config) geometry.Vector3D {
	var sum geometry.Vector3D
	count := 0
	for _, obs := range w.obstacles {
		d := a.Pos.DistanceTo(obs.Position)
		if d >= cfg.AvoidanceRange {
			continue
		}
		if d < minSeparation {
			d = minSeparation
		}
		away := a.Pos.Sub(obs.Position).Normalize().Mul(1 / d)
		sum = sum.Add(away)
		count++
	}
	if count == 0 {
		return geometry.Vector3D{}
	}
	avg := sum.Mul(1 / float64(count))
	if avg.LenSqr() < geometry.Epsilon {
		return geometry.Vector3D{}
	}
	desired := avg.Normalize().Mul(a.MaxSpeed)
	return desired.Sub(a.Vel).ClampLen(a.MaxForce)
}

// goalSeek steers toward the world goal, scaled by the agent's goal weight.
// Absent goal means zero contribution.
func (a *Agent) goalSeek(w *World) geometry.Vector3D {
	goal, ok := w.Goal()
	if !ok {
		return geometry.Vector3D{}
	}
	return a.seek(goal).Mul(a.GoalWeight)
}

// ComputeStep blends the five steering contributions and integrates one time
// increment, returning the agent's next velocity and position without
// mutating it. Contributions add up rather than average, so they can
// saturate one another; only the final velocity is clamped to MaxSpeed.
// All reads go against the caller-supplied pre-step snapshot.
func (a *Agent) ComputeStep(flock []*Agent, w *World, cfg *Config, dt float64) (geometry.Vector3D, geometry.Vector3D) {
	force := a.separation(flock, cfg).Mul(cfg.SeparationWeight).
		Add(a.cohesion(flock, cfg).Mul(cfg.CohesionWeight)).
		Add(a.alignment(flock, cfg).Mul(cfg.AlignmentWeight)).
		Add(a.avoidance(w, cfg).Mul(cfg.AvoidanceWeight)).
		Add(a.goalSeek(w))

	vel := a.Vel.Add(force.Mul(dt)).ClampLen(a.MaxSpeed)
	pos := w.ClampToBounds(a.Pos.Add(vel.Mul(dt)))
	pos.Y = a.GroundY
	return vel, pos
}

// commit installs a computed step result and refreshes the heading. A
// stationary agent keeps its previous heading.
func (a *Agent) commit(vel, pos geometry.Vector3D) {
	a.Vel = vel
	a.Pos = pos
	if vel.LenSqr() > 0 {
		a.Heading = math.Atan2(vel.X, vel.Z)
	}
}
