package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewGraphMetrics(t *testing.T) {

	metrics := NewGraphMetrics("")
	assert.NotNil(t, metrics.Replica.Operations)
	assert.NotNil(t, metrics.Replica.PathLength)

	// Discarding instruments accept any labels.
	metrics.Replica.Operations.With("replica", "a", "method", "add_vertex").Add(1)

	metrics = NewGraphMetrics(":9099")
	assert.NotNil(t, metrics.Replica.Operations)
	assert.NotNil(t, metrics.Replica.Merges)
	assert.NotNil(t, metrics.Replica.Vertices)
	assert.NotNil(t, metrics.Replica.Tombstones)
}
