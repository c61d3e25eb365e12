package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/Dgut/crdt/config"
	"github.com/Dgut/crdt/sim"
	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestInitLogger checks the level filter
// chosen for each flag value.
func TestInitLogger(t *testing.T) {

	for _, lvl := range []string{"debug", "info", "warn", "error", "ERROR", ""} {
		assert.NotNil(t, initLogger(lvl), lvl)
	}
}

// TestBuilder runs the shipped config with wrapped
// replicas and checks they report through the logger.
func TestBuilder(t *testing.T) {

	conf, err := config.LoadConfig("config.toml")
	require.NoError(t, err)

	conf.Simulation.Operations = 100

	var buf bytes.Buffer
	logger := level.NewFilter(log.NewLogfmtLogger(&buf), level.AllowDebug())

	report, err := sim.New(logger, conf.Simulation, newBuilder(logger, NewGraphMetrics(""))).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, report.Replicas)
	assert.Contains(t, buf.String(), "replica=alpha")
	assert.Contains(t, buf.String(), "method=Merge")
	assert.Contains(t, buf.String(), "msg=\"scenario finished\"")
}

// TestExitCode makes sure failed checks keep their
// exit code when wrapped with more context.
func TestExitCode(t *testing.T) {

	divergence := &sim.DivergenceError{Scenario: "convergence", A: "alpha", B: "beta"}
	check := &sim.CheckError{Scenario: "chain", Replica: "alpha", Check: "short path"}

	tests := []struct {
		err      error
		expected int
	}{
		{divergence, 3},
		{check, 3},
		{errors.Wrap(divergence, "round 2"), 3},
		{errors.Wrap(errors.Wrap(check, "healing"), "partition"), 3},
		{context.Canceled, 2},
		{errors.Wrap(context.Canceled, "aborted in round 0"), 2},
	}

	for _, test := range tests {
		assert.Equal(t, test.expected, exitCode(test.err), test.err.Error())
	}
}
