package main

import (
	"flag"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/render"
	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/simulation"
)

func main() {
	configFile := flag.String("config", "config.json", "path to the JSON configuration")
	schemaFile := flag.String("schema", "config.schema.json", "path to the configuration JSON schema")
	flag.Parse()

	cfg := simulation.DefaultConfig()
	if _, err := os.Stat(*configFile); err == nil {
		loaded, err := simulation.LoadConfig(*configFile, *schemaFile)
		if err != nil {
			log.Fatalf("invalid configuration: %v", err)
		}
		cfg = loaded
	}

	world := simulation.NewWorld(cfg.HalfExtent, cfg.BoundsMargin, simulation.DefaultObstacles())
	sim := simulation.NewSimulation(cfg, world, nil, nil)
	defer sim.Shutdown()

	game := render.NewGame(sim, cfg)
	sim.Start()

	ebiten.SetWindowSize(render.ScreenSize, render.ScreenSize)
	ebiten.SetWindowTitle("Flock: goal-biased boids with obstacles")
	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
