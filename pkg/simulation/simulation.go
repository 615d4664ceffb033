package simulation

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/geometry"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ErrInvalidPopulation is returned for out-of-contract population requests.
// Range policy (for instance a UI limiting the count to 3..7) belongs to the
// caller; the core only rejects what no caller may ask for.
var ErrInvalidPopulation = errors.New("population size must not be negative")

// Listener receives agent lifecycle notifications so an external layer can
// create and release per-agent resources (trails, lights, meshes) keyed by
// agent id. The core never owns those resources.
type Listener interface {
	AgentAdded(id string)
	AgentRemoved(id string)
}

// AgentSnapshot is the read-only per-agent view handed to the presentation
// layer once per render tick.
type AgentSnapshot struct {
	ID       string
	Position geometry.Vector3D
	Velocity geometry.Vector3D
	Heading  float64
}

// WorldDescriptor is the static world view, read once at setup to build
// visuals.
type WorldDescriptor struct {
	HalfExtent float64
	Margin     float64
	Obstacles  []Obstacle
}

// Simulation owns the agent collection and the world reference. It is an
// explicit instance by design: multiple independent simulations can coexist
// and tests construct them with a fixed seed. It has no internal timer; the
// hosting loop drives it by calling Step.
type Simulation struct {
	cfg       *Config
	world     *World
	agents    []*Agent
	running   bool
	rng       *rand.Rand
	log       *zap.Logger
	listeners []Listener
}

// NewSimulation builds a simulation with cfg.NumAgents freshly randomized
// agents. A nil rng falls back to a time-seeded source; a nil logger to a
// no-op logger.
func NewSimulation(cfg *Config, world *World, rng *rand.Rand, logger *zap.Logger) *Simulation {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Simulation{
		cfg:   cfg,
		world: world,
		rng:   rng,
		log:   logger,
	}
	s.agents = s.spawn(cfg.NumAgents)
	return s
}

func (s *Simulation) spawn(n int) []*Agent {
	agents := make([]*Agent, n)
	for i := range agents {
		agents[i] = NewAgent(s.rng, s.cfg, s.world)
	}
	return agents
}

// AddListener registers a lifecycle listener and replays AgentAdded for
// every live agent, so a late-attached presentation layer still ends up with
// one visual resource per agent.
func (s *Simulation) AddListener(l Listener) {
	s.listeners = append(s.listeners, l)
	for _, a := range s.agents {
		l.AgentAdded(a.ID)
	}
}

func (s *Simulation) notifyAdded(id string) {
	for _, l := range s.listeners {
		l.AgentAdded(id)
	}
}

func (s *Simulation) notifyRemoved(id string) {
	for _, l := range s.listeners {
		l.AgentRemoved(id)
	}
}

// Start moves the simulation to Running. Idempotent.
func (s *Simulation) Start() {
	if s.running {
		return
	}
	s.running = true
	s.log.Info("simulation started", zap.Int("agents", len(s.agents)))
}

// Stop moves the simulation to Stopped, preserving all agent state as-is.
// Idempotent; takes effect immediately since there is no in-flight work.
func (s *Simulation) Stop() {
	if !s.running {
		return
	}
	s.running = false
	s.log.Info("simulation stopped")
}

// Running reports whether Step currently advances the simulation.
func (s *Simulation) Running() bool { return s.running }

// ResizePopulation discards the current agent collection and creates n
// freshly randomized agents. Valid in either lifecycle state and does not
// change it. Negative counts are rejected rather than clamped.
func (s *Simulation) ResizePopulation(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidPopulation, n)
	}
	for _, a := range s.agents {
		s.notifyRemoved(a.ID)
	}
	s.agents = s.spawn(n)
	for _, a := range s.agents {
		s.notifyAdded(a.ID)
	}
	s.log.Info("population resized", zap.Int("agents", n))
	return nil
}

// SetGoal installs the shared goal point; it biases every agent from the
// next step on. The core never changes the goal on its own.
func (s *Simulation) SetGoal(p geometry.Vector3D) {
	s.world.SetGoal(p)
	s.log.Debug("goal set", zap.String("goal", p.String()))
}

// ClearGoal removes the shared goal point.
func (s *Simulation) ClearGoal() {
	s.world.ClearGoal()
	s.log.Debug("goal cleared")
}

// Goal returns the current goal point and whether one is set.
func (s *Simulation) Goal() (geometry.Vector3D, bool) {
	return s.world.Goal()
}

// Step advances every agent by one time increment. It is a no-op while
// Stopped. All agents observe the same pre-step snapshot: every new state is
// computed before any is committed, so no agent sees another's already
// updated position within the same step. With cfg.Workers > 1 the
// force-computation pass runs in parallel over the read-only snapshot; the
// commit phase is always serial.
func (s *Simulation) Step(dt float64) {
	if !s.running || dt <= 0 || len(s.agents) == 0 {
		return
	}

	vels := make([]geometry.Vector3D, len(s.agents))
	poss := make([]geometry.Vector3D, len(s.agents))

	if s.cfg.Workers > 1 {
		g := new(errgroup.Group)
		g.SetLimit(s.cfg.Workers)
		for i := range s.agents {
			g.Go(func() error {
				vels[i], poss[i] = s.agents[i].ComputeStep(s.agents, s.world, s.cfg, dt)
				return nil
			})
		}
		// Workers never return errors; Wait only fences the pass.
		_ = g.Wait()
	} else {
		for i, a := range s.agents {
			vels[i], poss[i] = a.ComputeStep(s.agents, s.world, s.cfg, dt)
		}
	}

	for i, a := range s.agents {
		a.commit(vels[i], poss[i])
	}
}

// Snapshots returns the read-only per-agent state for rendering.
func (s *Simulation) Snapshots() []AgentSnapshot {
	out := make([]AgentSnapshot, len(s.agents))
	for i, a := range s.agents {
		out[i] = AgentSnapshot{
			ID:       a.ID,
			Position: a.Pos,
			Velocity: a.Vel,
			Heading:  a.Heading,
		}
	}
	return out
}

// Descriptor returns the static world view for presentation setup.
func (s *Simulation) Descriptor() WorldDescriptor {
	return WorldDescriptor{
		HalfExtent: s.world.HalfExtent(),
		Margin:     s.world.Margin(),
		Obstacles:  s.world.Obstacles(),
	}
}

// Shutdown stops the simulation and discards all agents, emitting removal
// notifications so externally-owned visual resources get released.
func (s *Simulation) Shutdown() {
	s.Stop()
	for _, a := range s.agents {
		s.notifyRemoved(a.ID)
	}
	s.agents = nil
	s.log.Info("simulation shut down")
}
