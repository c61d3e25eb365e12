package replica

import (
	"github.com/Dgut/crdt/crdt"
	"github.com/go-kit/kit/metrics"
)

// Metrics bundles the instruments a replica reports to.
type Metrics struct {
	Operations metrics.Counter
	Merges     metrics.Counter
	PathLength metrics.Histogram
	Vertices   metrics.Gauge
	Tombstones metrics.Gauge
}

type metricsService struct {
	service Service
	m       *Metrics
}

// NewMetricsService wraps s so that each operation is
// counted and path lengths are observed. Instruments
// receive the labels "replica" and, for Operations,
// "method".
func NewMetricsService(s Service, m *Metrics) Service {
	return &metricsService{
		service: s,
		m:       m,
	}
}

func (s *metricsService) count(method string) {
	s.m.Operations.With("replica", s.service.Name(), "method", method).Add(1)
}

func (s *metricsService) Name() string {
	return s.service.Name()
}

func (s *metricsService) AddVertex(v string) int64 {
	s.count("add_vertex")
	return s.service.AddVertex(v)
}

func (s *metricsService) RemoveVertex(v string) int64 {
	s.count("remove_vertex")
	return s.service.RemoveVertex(v)
}

func (s *metricsService) AddEdge(from string, to string) int64 {
	s.count("add_edge")
	return s.service.AddEdge(from, to)
}

func (s *metricsService) RemoveEdge(from string, to string) int64 {
	s.count("remove_edge")
	return s.service.RemoveEdge(from, to)
}

func (s *metricsService) Apply(op Op) error {

	err := s.service.Apply(op)

	if err == nil {
		s.count("apply")
	}

	return err
}

func (s *metricsService) ContainsVertex(v string) bool {
	return s.service.ContainsVertex(v)
}

func (s *metricsService) ContainsEdge(from string, to string) bool {
	return s.service.ContainsEdge(from, to)
}

func (s *metricsService) AllConnectedVertices(v string) []string {
	return s.service.AllConnectedVertices(v)
}

func (s *metricsService) AnyPath(from string, to string) []string {

	path := s.service.AnyPath(from, to)

	if path != nil {
		s.m.PathLength.With("replica", s.service.Name()).Observe(float64(len(path) - 1))
	}

	return path
}

func (s *metricsService) Snapshot() *Graph {
	return s.service.Snapshot()
}

func (s *metricsService) Merge(snapshot *Graph) crdt.Stats {

	st := s.service.Merge(snapshot)

	s.m.Merges.With("replica", s.service.Name()).Add(1)
	s.m.Vertices.With("replica", s.service.Name()).Set(float64(st.Vertices))
	s.m.Tombstones.With("replica", s.service.Name()).Set(float64(st.VertexRemovals + st.EdgeRemovals))

	return st
}

func (s *metricsService) Stats() crdt.Stats {
	return s.service.Stats()
}
