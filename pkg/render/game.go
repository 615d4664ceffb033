package render

import (
	"fmt"
	"image/color"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/geometry"
	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/simulation"
	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/ui"
)

const (
	// ScreenSize is the square viewport edge in pixels.
	ScreenSize = 800

	// stepIncrement is the fixed per-tick time increment; the steering
	// constants are tuned against it.
	stepIncrement = 1.0

	// trailLength caps the per-agent trail buffer.
	trailLength = 40

	// Population bounds are a UI policy, not a core invariant.
	minPopulation = 3
	maxPopulation = 7
)

// Game is the presentation adapter: it consumes agent snapshots each tick to
// drive rendering and produces goal points and population requests from user
// input. It owns every visual resource (trails), keyed by agent id and
// created/destroyed in response to the simulation's add/remove notifications
// — the simulation itself holds no visual state.
type Game struct {
	sim  *simulation.Simulation
	cfg  *simulation.Config
	desc simulation.WorldDescriptor

	// Per-agent visual resources, maintained via Listener callbacks.
	trails map[string][]geometry.Vector3D

	panel              *ui.Panel
	widgetSeparation   *ui.Slider
	widgetCohesion     *ui.Slider
	widgetAlignment    *ui.Slider
	widgetAvoidance    *ui.Slider
	widgetGoal         *ui.Slider
	widgetPopulation   *ui.Slider
	widgetShowRadii    *ui.Checkbox
	widgetShowTrails   *ui.Checkbox
	resizeErr          error
	goalClickDebounced bool

	// Timing instrumentation (exponential moving averages in ms)
	updateAvg float64
	drawAvg   float64
}

var _ simulation.Listener = (*Game)(nil)

// NewGame wires the adapter to a simulation. It reads the world descriptor
// once for static visuals and registers itself for agent lifecycle events.
func NewGame(sim *simulation.Simulation, cfg *simulation.Config) *Game {
	g := &Game{
		sim:    sim,
		cfg:    cfg,
		desc:   sim.Descriptor(),
		trails: make(map[string][]geometry.Vector3D),
	}

	panel := ui.NewPanel(10, 10, 240, 420, "Flock Controls")

	panel.AddSection("Steering Weights")
	g.widgetSeparation = panel.AddSlider("Separation", 0, 3, cfg.SeparationWeight)
	g.widgetCohesion = panel.AddSlider("Cohesion", 0, 2, cfg.CohesionWeight)
	g.widgetAlignment = panel.AddSlider("Alignment", 0, 2, cfg.AlignmentWeight)
	g.widgetAvoidance = panel.AddSlider("Avoidance", 0, 4, cfg.AvoidanceWeight)
	g.widgetGoal = panel.AddSlider("Goal Bias", 0, 1, cfg.GoalWeight)

	panel.AddSection("Population")
	g.widgetPopulation = panel.AddIntSlider("Agents", minPopulation, maxPopulation, cfg.NumAgents)
	panel.AddButton("Respawn", func() {
		g.resizeErr = g.sim.ResizePopulation(int(g.widgetPopulation.Value))
	})

	panel.AddSection("Simulation")
	startStop := panel.AddButton("", func() {
		if g.sim.Running() {
			g.sim.Stop()
		} else {
			g.sim.Start()
		}
	})
	startStop.LabelFunc = func() string {
		if g.sim.Running() {
			return "Stop"
		}
		return "Start"
	}
	panel.AddButton("Clear Goal", func() { g.sim.ClearGoal() })

	panel.AddSection("Display")
	g.widgetShowRadii = panel.AddCheckbox("Show avoid radii", true)
	g.widgetShowTrails = panel.AddCheckbox("Show trails", true)

	g.panel = panel
	sim.AddListener(g)
	return g
}

// AgentAdded creates the trail resource for a new agent.
func (g *Game) AgentAdded(id string) {
	g.trails[id] = make([]geometry.Vector3D, 0, trailLength)
}

// AgentRemoved releases the trail resource of a discarded agent.
func (g *Game) AgentRemoved(id string) {
	delete(g.trails, id)
}

// worldToScreen maps an X/Z world point onto the viewport.
func (g *Game) worldToScreen(p geometry.Vector3D) (float32, float32) {
	scale := float64(ScreenSize) / (2 * g.desc.HalfExtent)
	return float32((p.X + g.desc.HalfExtent) * scale), float32((p.Z + g.desc.HalfExtent) * scale)
}

// screenToWorld maps a viewport point back onto the ground plane.
func (g *Game) screenToWorld(mx, my int) geometry.Vector3D {
	scale := 2 * g.desc.HalfExtent / float64(ScreenSize)
	return geometry.NewVector(
		float64(mx)*scale-g.desc.HalfExtent,
		0,
		float64(my)*scale-g.desc.HalfExtent,
	)
}

func (g *Game) Update() error {
	start := time.Now()
	defer func() {
		g.updateAvg = g.updateAvg*0.95 + float64(time.Since(start).Microseconds())/1000.0*0.05
	}()

	// 1. UI input
	g.panel.Update()

	// 2. Push slider values into the live config; the step below reads them.
	g.cfg.SeparationWeight = g.widgetSeparation.Value
	g.cfg.CohesionWeight = g.widgetCohesion.Value
	g.cfg.AlignmentWeight = g.widgetAlignment.Value
	g.cfg.AvoidanceWeight = g.widgetAvoidance.Value
	g.cfg.GoalWeight = g.widgetGoal.Value

	// 3. Goal placement: click anywhere outside the panel.
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		mx, my := ebiten.CursorPosition()
		if !g.panel.Contains(mx, my) && !g.goalClickDebounced {
			g.sim.SetGoal(g.screenToWorld(mx, my))
			g.goalClickDebounced = true
		}
	} else {
		g.goalClickDebounced = false
	}

	// 4. Advance the simulation (no-op while stopped).
	g.sim.Step(stepIncrement)

	// 5. Grow trails from the fresh snapshots.
	if g.sim.Running() {
		for _, snap := range g.sim.Snapshots() {
			trail, ok := g.trails[snap.ID]
			if !ok {
				continue
			}
			trail = append(trail, snap.Position)
			if len(trail) > trailLength {
				trail = trail[1:]
			}
			g.trails[snap.ID] = trail
		}
	}

	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	start := time.Now()
	defer func() {
		g.drawAvg = g.drawAvg*0.95 + float64(time.Since(start).Microseconds())/1000.0*0.05
	}()

	screen.Fill(color.RGBA{R: 10, G: 10, B: 30, A: 255})

	g.drawBoundsFrame(screen)
	g.drawObstacles(screen)
	g.drawGoal(screen)
	if g.widgetShowTrails.Value {
		g.drawTrails(screen)
	}
	for _, snap := range g.sim.Snapshots() {
		g.drawAgent(screen, snap)
	}

	g.panel.Draw(screen)

	// Performance readout, top right like the stats bar of old.
	msg := fmt.Sprintf("FPS: %.1f  TPS: %.1f\nUpdate: %.2fms  Draw: %.2fms\nAgents: %d",
		ebiten.ActualFPS(), ebiten.ActualTPS(), g.updateAvg, g.drawAvg, len(g.sim.Snapshots()))
	ebitenutil.DebugPrintAt(screen, msg, ScreenSize-230, 10)

	if g.resizeErr != nil {
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("resize rejected: %v", g.resizeErr), 10, ScreenSize-20)
	}
}

func (g *Game) drawBoundsFrame(screen *ebiten.Image) {
	inner := g.desc.HalfExtent - g.desc.Margin
	x0, y0 := g.worldToScreen(geometry.NewVector(-inner, 0, -inner))
	x1, y1 := g.worldToScreen(geometry.NewVector(inner, 0, inner))
	vector.StrokeRect(screen, x0, y0, x1-x0, y1-y0, 1,
		color.RGBA{R: 60, G: 60, B: 90, A: 255}, true)
}

func (g *Game) drawObstacles(screen *ebiten.Image) {
	scale := float32(float64(ScreenSize) / (2 * g.desc.HalfExtent))
	for _, obs := range g.desc.Obstacles {
		sx, sy := g.worldToScreen(obs.Position)
		vector.FillCircle(screen, sx, sy, float32(obs.Size/2)*scale,
			color.RGBA{R: 120, G: 90, B: 60, A: 255}, true)
		if g.widgetShowRadii.Value {
			vector.StrokeCircle(screen, sx, sy, float32(obs.AvoidRadius)*scale, 1,
				color.RGBA{R: 160, G: 120, B: 80, A: 120}, true)
		}
	}
}

func (g *Game) drawGoal(screen *ebiten.Image) {
	goal, ok := g.sim.Goal()
	if !ok {
		return
	}
	sx, sy := g.worldToScreen(goal)
	clr := color.RGBA{R: 80, G: 220, B: 120, A: 255}
	vector.StrokeCircle(screen, sx, sy, 8, 2, clr, true)
	vector.StrokeLine(screen, sx-12, sy, sx+12, sy, 1, clr, true)
	vector.StrokeLine(screen, sx, sy-12, sx, sy+12, 1, clr, true)
}

func (g *Game) drawTrails(screen *ebiten.Image) {
	for _, trail := range g.trails {
		for i, p := range trail {
			sx, sy := g.worldToScreen(p)
			alpha := uint8(30 + i*4)
			vector.FillCircle(screen, sx, sy, 1.5,
				color.RGBA{R: 90, G: 160, B: 255, A: alpha}, true)
		}
	}
}

var whiteImage = ebiten.NewImage(3, 3)

func init() {
	whiteImage.Fill(color.RGBA{R: 100, G: 200, B: 255, A: 255})
}

// drawAgent renders one agent as a heading-oriented triangle.
func (g *Game) drawAgent(screen *ebiten.Image, snap simulation.AgentSnapshot) {
	sx, sy := g.worldToScreen(snap.Position)

	// Heading is atan2(x, z); on screen, X maps right and Z maps down.
	angle := math.Atan2(math.Cos(snap.Heading), math.Sin(snap.Heading))

	cx, cy := float64(sx), float64(sy)
	tipX := cx + math.Cos(angle)*8
	tipY := cy + math.Sin(angle)*8
	rightX := cx + math.Cos(angle+2.5)*6
	rightY := cy + math.Sin(angle+2.5)*6
	leftX := cx + math.Cos(angle-2.5)*6
	leftY := cy + math.Sin(angle-2.5)*6

	vertices := []ebiten.Vertex{
		{DstX: float32(tipX), DstY: float32(tipY), SrcX: 1, SrcY: 1, ColorR: 1, ColorG: 1, ColorB: 1, ColorA: 1},
		{DstX: float32(rightX), DstY: float32(rightY), SrcX: 1, SrcY: 1, ColorR: 1, ColorG: 1, ColorB: 1, ColorA: 1},
		{DstX: float32(leftX), DstY: float32(leftY), SrcX: 1, SrcY: 1, ColorR: 1, ColorG: 1, ColorB: 1, ColorA: 1},
	}
	indices := []uint16{0, 1, 2}

	screen.DrawTriangles(vertices, indices, whiteImage, &ebiten.DrawTrianglesOptions{})
}

func (g *Game) Layout(w, h int) (int, int) { return ScreenSize, ScreenSize }
