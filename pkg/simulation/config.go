package simulation

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

type Config struct {
	// World Dimensions
	HalfExtent   float64 `json:"halfExtent"`   // The plane spans [-halfExtent, halfExtent] on X and Z
	BoundsMargin float64 `json:"boundsMargin"` // Agents are clamped this far inside the edge

	// Population
	NumAgents int `json:"numAgents"`

	// Physics / Behavior
	MaxSpeed     float64 `json:"maxSpeed"`
	MaxForce     float64 `json:"maxForce"`
	InitialSpeed float64 `json:"initialSpeed"` // Magnitude of the random spawn velocity

	// Neighborhood radii
	SeparationRadius float64 `json:"separationRadius"` // Personal space radius
	NeighborRadius   float64 `json:"neighborRadius"`   // Cohesion and alignment visual range
	AvoidanceRange   float64 `json:"avoidanceRange"`   // Obstacle reaction range, independent of obstacle size

	// Force blending weights
	SeparationWeight float64 `json:"separationWeight"`
	CohesionWeight   float64 `json:"cohesionWeight"`
	AlignmentWeight  float64 `json:"alignmentWeight"`
	AvoidanceWeight  float64 `json:"avoidanceWeight"`
	GoalWeight       float64 `json:"goalWeight"`

	// Vertical placement: each agent keeps a constant ground offset in [0, groundOffsetMax]
	GroundOffsetMax float64 `json:"groundOffsetMax"`

	// Workers > 1 enables the parallel force-computation pass
	Workers int `json:"workers"`
}

func DefaultConfig() *Config {
	return &Config{
		HalfExtent:       25.0,
		BoundsMargin:     1.0,
		NumAgents:        5,
		MaxSpeed:         0.25,
		MaxForce:         0.05,
		InitialSpeed:     0.1,
		SeparationRadius: 3.0,
		NeighborRadius:   8.0,
		AvoidanceRange:   4.0,
		SeparationWeight: 1.5,
		CohesionWeight:   0.5,
		AlignmentWeight:  0.5,
		AvoidanceWeight:  2.0,
		GoalWeight:       0.5,
		GroundOffsetMax:  0.5,
		Workers:          1,
	}
}

// LoadConfig loads configuration from a JSON file and validates it against the schema.
func LoadConfig(configFile string, schemaFile string) (*Config, error) {
	// 1. Compile Schema
	sch, err := jsonschema.Compile(schemaFile)
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}

	// 2. Read Config File
	b, err := os.ReadFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// 3. Validate against the schema
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return nil, fmt.Errorf("failed to decode config json: %w", err)
	}
	if err := sch.Validate(v); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	// 4. Unmarshal into Struct
	var cfg Config
	if err := json.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}
