package replica

import (
	"github.com/Dgut/crdt/crdt"
	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
)

type loggingService struct {
	logger  log.Logger
	service Service
}

// NewLoggingService wraps a provided existing
// service with the provided logger.
func NewLoggingService(s Service, logger log.Logger) Service {
	return &loggingService{log.With(logger, "replica", s.Name()), s}
}

func (s *loggingService) Name() string {
	return s.service.Name()
}

// AddVertex wraps this service's AddVertex
// method with added logging capabilities.
func (s *loggingService) AddVertex(v string) int64 {

	t := s.service.AddVertex(v)

	level.Debug(s.logger).Log(
		"method", "AddVertex",
		"vertex", v,
		"clock", t,
	)

	return t
}

// RemoveVertex wraps this service's RemoveVertex
// method with added logging capabilities.
func (s *loggingService) RemoveVertex(v string) int64 {

	t := s.service.RemoveVertex(v)

	level.Debug(s.logger).Log(
		"method", "RemoveVertex",
		"vertex", v,
		"clock", t,
	)

	return t
}

// AddEdge wraps this service's AddEdge
// method with added logging capabilities.
func (s *loggingService) AddEdge(from string, to string) int64 {

	t := s.service.AddEdge(from, to)

	level.Debug(s.logger).Log(
		"method", "AddEdge",
		"from", from,
		"to", to,
		"clock", t,
	)

	return t
}

// RemoveEdge wraps this service's RemoveEdge
// method with added logging capabilities.
func (s *loggingService) RemoveEdge(from string, to string) int64 {

	t := s.service.RemoveEdge(from, to)

	level.Debug(s.logger).Log(
		"method", "RemoveEdge",
		"from", from,
		"to", to,
		"clock", t,
	)

	return t
}

// Apply wraps this service's Apply method
// with added logging capabilities.
func (s *loggingService) Apply(op Op) error {

	err := s.service.Apply(op)

	logger := log.With(s.logger,
		"method", "Apply",
		"op", op.String(),
	)

	if err != nil {
		level.Warn(logger).Log("msg", "failed to apply operation", "err", err)
	} else {
		level.Debug(logger).Log()
	}

	return err
}

func (s *loggingService) ContainsVertex(v string) bool {
	return s.service.ContainsVertex(v)
}

func (s *loggingService) ContainsEdge(from string, to string) bool {
	return s.service.ContainsEdge(from, to)
}

func (s *loggingService) AllConnectedVertices(v string) []string {
	return s.service.AllConnectedVertices(v)
}

// AnyPath wraps this service's AnyPath method
// with added logging capabilities.
func (s *loggingService) AnyPath(from string, to string) []string {

	path := s.service.AnyPath(from, to)

	logger := log.With(s.logger,
		"method", "AnyPath",
		"from", from,
		"to", to,
	)

	if path == nil {
		level.Debug(logger).Log("msg", "no path found")
	} else {
		level.Debug(logger).Log("hops", len(path)-1)
	}

	return path
}

func (s *loggingService) Snapshot() *Graph {
	return s.service.Snapshot()
}

// Merge wraps this service's Merge method
// with added logging capabilities.
func (s *loggingService) Merge(snapshot *Graph) crdt.Stats {

	st := s.service.Merge(snapshot)

	level.Debug(s.logger).Log(
		"method", "Merge",
		"vertices", st.Vertices,
		"edges", st.Edges,
		"tombstones", st.VertexRemovals+st.EdgeRemovals,
	)

	return st
}

func (s *loggingService) Stats() crdt.Stats {
	return s.service.Stats()
}
