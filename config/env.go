package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Structs

// Env holds information specific to the
// system the simulator runs on. This
// enables host adaptions without needing
// to maintain two different config files.
type Env struct {
	LogLevel       string
	PrometheusAddr string
}

// Functions

// LoadEnv reads in the supplied .env file. Variables
// already present in the process environment take
// precedence over the file's values.
func LoadEnv(envFile string) (*Env, error) {

	// Load environment file.
	err := godotenv.Load(envFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read in .env file at '%s' with: %v", envFile, err)
	}

	env := new(Env)

	// Fill variables from .env into struct.
	env.LogLevel = os.Getenv("LWWGRAPH_LOGLEVEL")
	env.PrometheusAddr = os.Getenv("LWWGRAPH_PROMETHEUS_ADDR")

	return env, nil
}
