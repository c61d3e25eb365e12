package config

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

// Structs

// Config holds all information parsed from
// supplied config file.
type Config struct {
	LogLevel       string
	PrometheusAddr string
	Simulation     Simulation
}

// Simulation describes the replicas the simulator
// spawns and the workload it drives through them.
type Simulation struct {
	Scenario     string
	Replicas     []string
	ReplicaCount int
	Operations   int
	Vertices     int
	GossipRounds int
	Seed         int64
	ChainLength  int
}

// Functions

// Default returns the configuration used when
// values are left out of the TOML file.
func Default() *Config {

	return &Config{
		LogLevel: "info",
		Simulation: Simulation{
			Scenario:     "convergence",
			ReplicaCount: 3,
			Operations:   1000,
			Vertices:     64,
			GossipRounds: 3,
			Seed:         1,
			ChainLength:  100000,
		},
	}
}

// LoadConfig takes in the path to the main config
// file in TOML syntax and places the values from the
// file on top of the defaults.
func LoadConfig(configFile string) (*Config, error) {

	conf := Default()

	// Parse values from TOML file into struct.
	_, err := toml.DecodeFile(configFile, conf)
	if err != nil {
		return nil, fmt.Errorf("failed to read in TOML config file at '%s' with: %v", configFile, err)
	}

	if err := conf.Validate(); err != nil {
		return nil, err
	}

	return conf, nil
}

// Validate checks the configuration for values
// the simulator cannot work with.
func (conf *Config) Validate() error {

	sim := conf.Simulation

	switch strings.ToLower(conf.LogLevel) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level '%s'", conf.LogLevel)
	}

	// Explicitly named replicas take precedence
	// over the replica count.
	if len(sim.Replicas) > 0 {

		seen := make(map[string]bool, len(sim.Replicas))

		for _, name := range sim.Replicas {

			if name == "" {
				return fmt.Errorf("replica names must not be empty")
			}

			if seen[name] {
				return fmt.Errorf("replica '%s' defined more than once", name)
			}
			seen[name] = true
		}

		if len(sim.Replicas) < 2 {
			return fmt.Errorf("simulation needs at least two replicas, got %d", len(sim.Replicas))
		}
	} else if sim.ReplicaCount < 2 {
		return fmt.Errorf("simulation needs at least two replicas, got %d", sim.ReplicaCount)
	}

	if sim.Operations < 0 || sim.Vertices < 1 || sim.GossipRounds < 1 || sim.ChainLength < 1 {
		return fmt.Errorf("simulation counts must be positive")
	}

	return nil
}

// ApplyEnv overwrites values of conf with the
// non-empty ones found in env and validates the
// result again.
func (conf *Config) ApplyEnv(env *Env) error {

	if env == nil {
		return nil
	}

	if env.LogLevel != "" {
		conf.LogLevel = env.LogLevel
	}

	if env.PrometheusAddr != "" {
		conf.PrometheusAddr = env.PrometheusAddr
	}

	if err := conf.Validate(); err != nil {
		return fmt.Errorf("invalid value in .env file: %v", err)
	}

	return nil
}
