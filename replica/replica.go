package replica

import (
	"sort"
	"sync"

	"github.com/Dgut/crdt/clock"
	"github.com/Dgut/crdt/crdt"
	"github.com/satori/go.uuid"
)

// Structs

// Replica owns one graph and the clock stamping
// updates to it. All access is guarded by lock.
type Replica struct {
	lock  *sync.RWMutex
	name  string
	clock *clock.Clock
	graph *Graph
}

// Functions

// NewName returns a fresh random replica name for
// setups that do not name their replicas explicitly.
func NewName() string {
	return uuid.NewV4().String()
}

// New returns an empty replica called name.
func New(name string) *Replica {

	return &Replica{
		lock:  new(sync.RWMutex),
		name:  name,
		clock: clock.New(0),
		graph: crdt.NewLWWGraph[string, int64](),
	}
}

// Name returns the name of r.
func (r *Replica) Name() string {
	return r.name
}

// AddVertex adds v at the next local timestamp.
func (r *Replica) AddVertex(v string) int64 {

	r.lock.Lock()
	defer r.lock.Unlock()

	t := r.clock.Tick()
	r.graph.AddVertex(v, t)

	return t
}

// RemoveVertex removes v at the next local timestamp.
func (r *Replica) RemoveVertex(v string) int64 {

	r.lock.Lock()
	defer r.lock.Unlock()

	t := r.clock.Tick()
	r.graph.RemoveVertex(v, t)

	return t
}

// AddEdge adds from -> to at the next local timestamp.
func (r *Replica) AddEdge(from string, to string) int64 {

	r.lock.Lock()
	defer r.lock.Unlock()

	t := r.clock.Tick()
	r.graph.AddEdge(from, to, t)

	return t
}

// RemoveEdge removes from -> to at the next local timestamp.
func (r *Replica) RemoveEdge(from string, to string) int64 {

	r.lock.Lock()
	defer r.lock.Unlock()

	t := r.clock.Tick()
	r.graph.RemoveEdge(from, to, t)

	return t
}

// Apply executes op with its own timestamp and lets
// the local clock catch up with it.
func (r *Replica) Apply(op Op) error {

	r.lock.Lock()
	defer r.lock.Unlock()

	if err := op.Apply(r.graph); err != nil {
		return err
	}

	r.clock.Observe(op.T)

	return nil
}

// ContainsVertex reports whether v is a vertex.
func (r *Replica) ContainsVertex(v string) bool {

	r.lock.RLock()
	defer r.lock.RUnlock()

	return r.graph.ContainsVertex(v)
}

// ContainsEdge reports whether from -> to is an edge.
func (r *Replica) ContainsEdge(from string, to string) bool {

	r.lock.RLock()
	defer r.lock.RUnlock()

	return r.graph.ContainsEdge(from, to)
}

// AllConnectedVertices returns the neighbours of v
// in lexical order.
func (r *Replica) AllConnectedVertices(v string) []string {

	r.lock.RLock()
	connected := r.graph.AllConnectedVertices(v)
	r.lock.RUnlock()

	names := make([]string, 0, len(connected))
	for name := range connected {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

// AnyPath returns a shortest path from -> to.
func (r *Replica) AnyPath(from string, to string) []string {

	r.lock.RLock()
	defer r.lock.RUnlock()

	return r.graph.AnyPath(from, to)
}

// Snapshot returns a deep copy of the graph of r.
func (r *Replica) Snapshot() *Graph {

	r.lock.RLock()
	defer r.lock.RUnlock()

	return r.graph.Clone()
}

// Merge merges snapshot into the graph of r. The clock
// of r is lifted past every timestamp in snapshot, so
// that later local updates win over merged ones. The
// returned stats describe the graph after the merge.
func (r *Replica) Merge(snapshot *Graph) crdt.Stats {

	r.lock.Lock()
	defer r.lock.Unlock()

	if snapshot != nil {

		r.graph.Merge(snapshot)

		if latest, found := snapshot.Latest(); found {
			r.clock.Observe(latest)
		}
	}

	return r.graph.Stats()
}

// Stats summarizes the graph of r.
func (r *Replica) Stats() crdt.Stats {

	r.lock.RLock()
	defer r.lock.RUnlock()

	return r.graph.Stats()
}

// Now returns the current clock value of r.
func (r *Replica) Now() int64 {

	r.lock.RLock()
	defer r.lock.RUnlock()

	return r.clock.Now()
}
