package simulation

import (
	"math"

	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/geometry"
)

// ObstacleShape identifies the archetype an obstacle was built from.
// The shape only matters to the presentation layer; steering reacts to
// position and range alone.
type ObstacleShape string

const (
	ShapeBox      ObstacleShape = "box"
	ShapeCylinder ObstacleShape = "cylinder"
	ShapeSphere   ObstacleShape = "sphere"
)

// obstacleClearance is the extra berth added to every obstacle footprint so
// agents steer around the surface rather than the center.
const obstacleClearance = 0.5

// Obstacle is a static piece of session geometry. Immutable once the World
// is built; obstacles are never added or removed at runtime.
type Obstacle struct {
	Shape       ObstacleShape
	Position    geometry.Vector3D
	Size        float64
	AvoidRadius float64 // Effective footprint radius, derived from shape and size
}

// NewObstacle builds an obstacle with its avoidance radius derived from the
// archetype: a box contributes its half-diagonal, a cylinder or sphere its
// half size, each plus a fixed clearance.
func NewObstacle(shape ObstacleShape, pos geometry.Vector3D, size float64) Obstacle {
	r := size / 2
	if shape == ShapeBox {
		r = size * math.Sqrt2 / 2
	}
	return Obstacle{
		Shape:       shape,
		Position:    pos,
		Size:        size,
		AvoidRadius: r + obstacleClearance,
	}
}

// DefaultObstacles returns the fixed obstacle catalog used by the demo
// world: a handful of archetypes scattered over the plane.
func DefaultObstacles() []Obstacle {
	return []Obstacle{
		NewObstacle(ShapeBox, geometry.NewVector(8, 0, -6), 3.0),
		NewObstacle(ShapeBox, geometry.NewVector(-10, 0, 10), 2.5),
		NewObstacle(ShapeCylinder, geometry.NewVector(-6, 0, -12), 3.0),
		NewObstacle(ShapeCylinder, geometry.NewVector(2, 0, 14), 2.0),
		NewObstacle(ShapeSphere, geometry.NewVector(12, 0, 9), 2.5),
	}
}

// World is the static session geometry plus the one mutable piece of shared
// state: the optional goal point.
type World struct {
	halfExtent float64
	margin     float64
	obstacles  []Obstacle
	goal       *geometry.Vector3D
}

// NewWorld creates a world with the given planar bounds and obstacle set.
// The obstacle slice is copied so the caller cannot mutate session geometry
// after construction.
func NewWorld(halfExtent, margin float64, obstacles []Obstacle) *World {
	obs := make([]Obstacle, len(obstacles))
	copy(obs, obstacles)
	return &World{
		halfExtent: halfExtent,
		margin:     margin,
		obstacles:  obs,
	}
}

// HalfExtent returns half the side length of the bounded plane.
func (w *World) HalfExtent() float64 { return w.halfExtent }

// Margin returns the clamping margin inside the bounds.
func (w *World) Margin() float64 { return w.margin }

// Obstacles returns a copy of the obstacle set.
func (w *World) Obstacles() []Obstacle {
	obs := make([]Obstacle, len(w.obstacles))
	copy(obs, w.obstacles)
	return obs
}

// Goal returns the current goal point and whether one is set.
func (w *World) Goal() (geometry.Vector3D, bool) {
	if w.goal == nil {
		return geometry.Vector3D{}, false
	}
	return *w.goal, true
}

// SetGoal installs (or replaces) the shared goal point. A goal persists
// until the next SetGoal or ClearGoal; it is never cleared implicitly.
func (w *World) SetGoal(p geometry.Vector3D) {
	goal := p
	w.goal = &goal
}

// ClearGoal removes the goal; agents lose the goal-seeking contribution on
// the next step.
func (w *World) ClearGoal() {
	w.goal = nil
}

// ClampToBounds forces the horizontal components of p into
// [-halfExtent+margin, halfExtent-margin]. The vertical component passes
// through untouched; the caller pins it separately.
func (w *World) ClampToBounds(p geometry.Vector3D) geometry.Vector3D {
	limit := w.halfExtent - w.margin
	p.X = math.Max(-limit, math.Min(limit, p.X))
	p.Z = math.Max(-limit, math.Min(limit, p.Z))
	return p
}
