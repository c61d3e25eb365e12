package replica

import (
	"github.com/Dgut/crdt/crdt"
)

// Structs

// Graph is the graph type replicas operate on: vertices
// are identified by strings, timestamps are Lamport times.
type Graph = crdt.LWWGraph[string, int64]

// Op is an update of a Graph stamped by some replica.
type Op = crdt.Op[string, int64]

// Interfaces

// Service defines the interface a replica of an
// LWW graph provides to the simulator.
type Service interface {

	// Name returns the unique name of this replica.
	Name() string

	// AddVertex adds v to the local graph, stamped with
	// the next local clock value. It returns that value.
	AddVertex(v string) int64

	// RemoveVertex removes v from the local graph and
	// returns the timestamp used.
	RemoveVertex(v string) int64

	// AddEdge adds the directed edge from -> to and
	// returns the timestamp used.
	AddEdge(from string, to string) int64

	// RemoveEdge removes the directed edge from -> to
	// and returns the timestamp used.
	RemoveEdge(from string, to string) int64

	// Apply executes an update that already carries a
	// timestamp, e.g. one replayed from another replica's
	// operation log. The local clock observes it.
	Apply(op Op) error

	// ContainsVertex reports whether v is a vertex.
	ContainsVertex(v string) bool

	// ContainsEdge reports whether from -> to is an edge.
	ContainsEdge(from string, to string) bool

	// AllConnectedVertices returns the sorted names of all
	// vertices connected to v in either direction.
	AllConnectedVertices(v string) []string

	// AnyPath returns a shortest path from -> to, or
	// nil if there is none.
	AnyPath(from string, to string) []string

	// Snapshot returns a deep copy of the local graph
	// that can be handed to other replicas.
	Snapshot() *Graph

	// Merge incorporates the state of a snapshot taken
	// from another replica and returns the stats of the
	// merged graph.
	Merge(snapshot *Graph) crdt.Stats

	// Stats summarizes the local graph.
	Stats() crdt.Stats
}
