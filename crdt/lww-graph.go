package crdt

import (
	"cmp"
)

// Structs

// LWWGraph is a directed last-writer-wins element graph.
// It stores vertices and edges, but no data attached to
// them. Vertices live in one LWWSet, edges in one LWWSet
// of destinations per source vertex.
type LWWGraph[E comparable, T cmp.Ordered] struct {
	vertices *LWWSet[E, T]
	edges    map[E]*LWWSet[E, T]
}

// Edge identifies a directed edge by its endpoints.
type Edge[E comparable] struct {
	From E
	To   E
}

// Stats summarizes the recorded state of a graph,
// including tombstones that are not visible anymore.
type Stats struct {
	Vertices       int
	VertexEntries  int
	VertexRemovals int
	Edges          int
	Sources        int
	EdgeEntries    int
	EdgeRemovals   int
}

// Functions

// NewLWWGraph returns an empty initialized new
// last-writer-wins element graph.
func NewLWWGraph[E comparable, T cmp.Ordered]() *LWWGraph[E, T] {

	return &LWWGraph[E, T]{
		vertices: NewLWWSet[E, T](),
		edges:    make(map[E]*LWWSet[E, T]),
	}
}

// adjacency returns the destination set of source
// vertex from and creates it on first use.
func (g *LWWGraph[E, T]) adjacency(from E) *LWWSet[E, T] {

	adj, found := g.edges[from]
	if !found {
		adj = NewLWWSet[E, T]()
		g.edges[from] = adj
	}

	return adj
}

// AddVertex adds vertex e to the graph at time t.
func (g *LWWGraph[E, T]) AddVertex(e E, t T) {
	g.vertices.Add(e, t)
}

// RemoveVertex removes vertex e from the graph at time t.
// Edges connected to e are not touched. They are considered
// gone by ContainsEdge if they were added no later than t.
func (g *LWWGraph[E, T]) RemoveVertex(e E, t T) {
	g.vertices.Remove(e, t)
}

// ContainsVertex reports whether e is currently a vertex.
func (g *LWWGraph[E, T]) ContainsVertex(e E) bool {
	return g.vertices.Contains(e)
}

// AddEdge adds the edge from -> to at time t. The endpoints
// need not be known yet. For the edge to be visible, both
// vertices have to be added with the same or a lesser timestamp.
func (g *LWWGraph[E, T]) AddEdge(from E, to E, t T) {
	g.adjacency(from).Add(to, t)
}

// RemoveEdge removes the edge from -> to at time t.
func (g *LWWGraph[E, T]) RemoveEdge(from E, to E, t T) {
	g.adjacency(from).Remove(to, t)
}

// ContainsEdge reports whether the edge from -> to is
// currently part of the graph. Next to the edge itself
// being a member of the adjacency set of from, both
// endpoints have to be vertices, the edge has to be added
// strictly after any removal of an endpoint, and it must
// not predate the latest addition of either endpoint.
func (g *LWWGraph[E, T]) ContainsEdge(from E, to E) bool {

	adj, found := g.edges[from]
	if !found || !adj.Contains(to) {
		return false
	}

	if !g.vertices.Contains(from) || !g.vertices.Contains(to) {
		return false
	}

	// Both lookups below are safe, membership
	// implies recorded add timestamps.
	edgeT := adj.added[to]
	fromAddT := g.vertices.added[from]
	toAddT := g.vertices.added[to]

	// Removing an endpoint removes all edges
	// added before or at the same time.
	if rmvT, removed := g.vertices.removed[from]; removed && edgeT <= rmvT {
		return false
	}

	if rmvT, removed := g.vertices.removed[to]; removed && edgeT <= rmvT {
		return false
	}

	// Edges must be added after or at the
	// same time as both of their vertices.
	if edgeT < fromAddT || edgeT < toAddT {
		return false
	}

	return true
}

// Merge applies all vertex and edge records of other to g.
// Afterwards, g reflects every operation either replica has
// observed. Only g is modified, other may be a read-only
// snapshot.
func (g *LWWGraph[E, T]) Merge(other *LWWGraph[E, T]) {

	if other == nil {
		return
	}

	g.vertices.Merge(other.vertices)

	for from, adj := range other.edges {
		g.adjacency(from).Merge(adj)
	}
}

// AllConnectedVertices returns the set of vertices connected
// to e by a currently valid edge in either direction. It scans
// all recorded edges, tombstones included.
func (g *LWWGraph[E, T]) AllConnectedVertices(e E) map[E]struct{} {

	connected := make(map[E]struct{})

	for from, adj := range g.edges {

		if from == e {

			// Outgoing edges of e.
			adj.RangeAdded(func(to E, _ T) bool {

				if g.ContainsEdge(from, to) {
					connected[to] = struct{}{}
				}

				return true
			})

			continue
		}

		// Incoming edge from this source, if any.
		if adj.AddExists(e) && g.ContainsEdge(from, e) {
			connected[from] = struct{}{}
		}
	}

	return connected
}

// Equal reports whether g and other recorded exactly
// the same vertex and edge timestamps.
func (g *LWWGraph[E, T]) Equal(other *LWWGraph[E, T]) bool {

	if g == nil || other == nil {
		return g == other
	}

	if !g.vertices.Equal(other.vertices) {
		return false
	}

	if len(g.edges) != len(other.edges) {
		return false
	}

	for from, adj := range g.edges {

		otherAdj, found := other.edges[from]
		if !found || !adj.Equal(otherAdj) {
			return false
		}
	}

	return true
}

// Clone returns a deep copy of g. Replicas hand out
// clones as snapshots to be merged elsewhere.
func (g *LWWGraph[E, T]) Clone() *LWWGraph[E, T] {

	c := &LWWGraph[E, T]{
		vertices: g.vertices.Clone(),
		edges:    make(map[E]*LWWSet[E, T], len(g.edges)),
	}

	for from, adj := range g.edges {
		c.edges[from] = adj.Clone()
	}

	return c
}

// Vertices returns all current vertices in
// no particular order.
func (g *LWWGraph[E, T]) Vertices() []E {
	return g.vertices.Elements()
}

// Edges returns all edges that ContainsEdge
// currently accepts, in no particular order.
func (g *LWWGraph[E, T]) Edges() []Edge[E] {

	var edges []Edge[E]

	for from, adj := range g.edges {

		adj.RangeAdded(func(to E, _ T) bool {

			if g.ContainsEdge(from, to) {
				edges = append(edges, Edge[E]{From: from, To: to})
			}

			return true
		})
	}

	return edges
}

// Stats counts live elements and recorded entries of g.
func (g *LWWGraph[E, T]) Stats() Stats {

	st := Stats{
		Vertices:       g.vertices.Len(),
		VertexEntries:  len(g.vertices.added),
		VertexRemovals: len(g.vertices.removed),
		Sources:        len(g.edges),
	}

	for _, adj := range g.edges {
		st.EdgeEntries += len(adj.added)
		st.EdgeRemovals += len(adj.removed)
	}

	st.Edges = len(g.Edges())

	return st
}

// Latest returns the largest timestamp recorded anywhere
// in g, be it a vertex or edge add or remove. The boolean
// is false for a graph without any records.
func (g *LWWGraph[E, T]) Latest() (T, bool) {

	var latest T
	found := false

	observe := func(m map[E]T) {

		for _, t := range m {

			if !found || t > latest {
				latest = t
				found = true
			}
		}
	}

	observe(g.vertices.added)
	observe(g.vertices.removed)

	for _, adj := range g.edges {
		observe(adj.added)
		observe(adj.removed)
	}

	return latest, found
}
