package replica_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Dgut/crdt/crdt"
	"github.com/Dgut/crdt/replica"
	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
	"github.com/go-kit/kit/metrics"
	"github.com/go-kit/kit/metrics/discard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder collects values reported to the fake
// instruments below, keyed by their label values.
type recorder struct {
	lock   sync.Mutex
	values map[string]float64
	count  map[string]int
}

func newRecorder() *recorder {
	return &recorder{
		values: make(map[string]float64),
		count:  make(map[string]int),
	}
}

func (r *recorder) record(lvs []string, value float64, set bool) {

	r.lock.Lock()
	defer r.lock.Unlock()

	key := strings.Join(lvs, ",")
	if set {
		r.values[key] = value
	} else {
		r.values[key] += value
	}
	r.count[key]++
}

type fakeCounter struct {
	r   *recorder
	lvs []string
}

func (c fakeCounter) With(lvs ...string) metrics.Counter {
	return fakeCounter{c.r, append(append([]string(nil), c.lvs...), lvs...)}
}

func (c fakeCounter) Add(delta float64) {
	c.r.record(c.lvs, delta, false)
}

type fakeHistogram struct {
	r   *recorder
	lvs []string
}

func (h fakeHistogram) With(lvs ...string) metrics.Histogram {
	return fakeHistogram{h.r, append(append([]string(nil), h.lvs...), lvs...)}
}

func (h fakeHistogram) Observe(value float64) {
	h.r.record(h.lvs, value, true)
}

// TestLoggingService checks the logging middleware
// reports updates at debug level.
func TestLoggingService(t *testing.T) {

	var buf bytes.Buffer

	logger := log.NewLogfmtLogger(&buf)
	logger = level.NewFilter(logger, level.AllowDebug())

	s := replica.NewLoggingService(replica.New("alpha"), logger)
	assert.Equal(t, "alpha", s.Name())

	s.AddVertex("a")
	s.AddVertex("b")
	s.AddEdge("a", "b")
	s.RemoveEdge("a", "b")
	s.RemoveVertex("b")
	s.AnyPath("a", "b")
	s.AnyPath("a", "a")
	s.Merge(replica.New("beta").Snapshot())
	assert.Error(t, s.Apply(replica.Op{Kind: 0}))

	out := buf.String()

	assert.Contains(t, out, "replica=alpha")
	assert.Contains(t, out, "method=AddVertex vertex=a clock=1")
	assert.Contains(t, out, "method=AddEdge from=a to=b clock=3")
	assert.Contains(t, out, "method=RemoveEdge")
	assert.Contains(t, out, "method=RemoveVertex vertex=b clock=5")
	assert.Contains(t, out, "msg=\"no path found\"")
	assert.Contains(t, out, "hops=0")
	assert.Contains(t, out, "method=Merge vertices=1 edges=0 tombstones=2")
	assert.Contains(t, out, "level=warn")

	// Queries pass through unchanged.
	assert.True(t, s.ContainsVertex("a"))
	assert.False(t, s.ContainsEdge("a", "b"))
	assert.Empty(t, s.AllConnectedVertices("a"))
	assert.True(t, s.Snapshot().ContainsVertex("a"))
	assert.Equal(t, 1, s.Stats().Vertices)

	// Debug output is dropped at info level.
	buf.Reset()
	quiet := replica.NewLoggingService(replica.New("gamma"), level.NewFilter(log.NewLogfmtLogger(&buf), level.AllowInfo()))
	quiet.AddVertex("a")

	assert.Empty(t, buf.String())
}

// TestLoggingServiceTimestamp wraps a logger that already
// carries a wall-clock timestamp and makes sure the
// logical clock value does not replace it.
func TestLoggingServiceTimestamp(t *testing.T) {

	var buf bytes.Buffer

	logger := log.NewJSONLogger(&buf)
	logger = log.With(logger, "ts", log.DefaultTimestampUTC)
	logger = level.NewFilter(logger, level.AllowDebug())

	s := replica.NewLoggingService(replica.New("alpha"), logger)

	for _, update := range []func(){
		func() { s.AddVertex("x") },
		func() { s.RemoveVertex("x") },
		func() { s.AddEdge("x", "y") },
		func() { s.RemoveEdge("x", "y") },
	} {

		buf.Reset()
		update()

		entry := make(map[string]interface{})
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))

		wall, ok := entry["ts"].(string)
		require.True(t, ok, "wall-clock timestamp missing in %s", buf.String())

		_, err := time.Parse(time.RFC3339Nano, wall)
		assert.NoError(t, err)

		assert.NotNil(t, entry["clock"], "logical clock missing in %s", buf.String())
	}
}

// TestMetricsService checks operations, merges and
// path lengths are reported per replica.
func TestMetricsService(t *testing.T) {

	ops, merges, paths := newRecorder(), newRecorder(), newRecorder()

	m := &replica.Metrics{
		Operations: fakeCounter{r: ops},
		Merges:     fakeCounter{r: merges},
		PathLength: fakeHistogram{r: paths},
		Vertices:   discard.NewGauge(),
		Tombstones: discard.NewGauge(),
	}

	s := replica.NewMetricsService(replica.New("alpha"), m)

	s.AddVertex("a")
	s.AddVertex("b")
	s.AddVertex("c")
	s.AddEdge("a", "b")
	s.AddEdge("b", "c")
	s.RemoveEdge("a", "c")
	s.RemoveVertex("c")

	assert.NoError(t, s.Apply(replica.Op{Kind: crdt.OpAddVertex, From: "c", T: 100}))
	assert.Error(t, s.Apply(replica.Op{Kind: 0}))

	s.AnyPath("a", "b")
	s.AnyPath("b", "a")
	s.Merge(replica.New("beta").Snapshot())
	s.Merge(replica.New("gamma").Snapshot())

	assert.Equal(t, 3.0, ops.values["replica,alpha,method,add_vertex"])
	assert.Equal(t, 2.0, ops.values["replica,alpha,method,add_edge"])
	assert.Equal(t, 1.0, ops.values["replica,alpha,method,remove_edge"])
	assert.Equal(t, 1.0, ops.values["replica,alpha,method,remove_vertex"])
	assert.Equal(t, 1.0, ops.values["replica,alpha,method,apply"])
	assert.Equal(t, 2.0, merges.values["replica,alpha"])

	// Only the existing path is observed, with one hop.
	assert.Equal(t, 1, paths.count["replica,alpha"])
	assert.Equal(t, 1.0, paths.values["replica,alpha"])

	// Wrapped queries still answer.
	assert.Equal(t, "alpha", s.Name())
	assert.True(t, s.ContainsVertex("c"))
	assert.True(t, s.ContainsEdge("a", "b"))
	assert.Equal(t, []string{"a"}, s.AllConnectedVertices("b"))
	assert.NotNil(t, s.Snapshot())
	assert.Equal(t, 3, s.Stats().Vertices)
}
