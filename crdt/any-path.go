package crdt

// AnyPath searches a path from vertex from to vertex to
// following currently valid directed edges. It runs an
// iterative breadth-first search, thus the returned path
// is one of the shortest by number of hops. The path
// contains both endpoints. It is nil if there is no path
// or either endpoint is not a vertex of the graph.
func (g *LWWGraph[E, T]) AnyPath(from E, to E) []E {

	if !g.ContainsVertex(from) || !g.ContainsVertex(to) {
		return nil
	}

	// previous maps each reached vertex to the vertex
	// it was reached from. It doubles as visited set.
	previous := map[E]E{from: from}
	queue := []E{from}

	for len(queue) > 0 {

		e := queue[0]
		queue = queue[1:]

		if e == to {
			return walkBack(previous, from, to)
		}

		adj, found := g.edges[e]
		if !found {
			continue
		}

		adj.RangeAdded(func(next E, _ T) bool {

			if _, seen := previous[next]; !seen && g.ContainsEdge(e, next) {
				previous[next] = e
				queue = append(queue, next)
			}

			return true
		})
	}

	return nil
}

// walkBack reconstructs the path ending in to
// from the predecessor map of a search.
func walkBack[E comparable](previous map[E]E, from E, to E) []E {

	var path []E

	for e := to; e != from; e = previous[e] {
		path = append(path, e)
	}
	path = append(path, from)

	// Reverse in place.
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}

	return path
}
