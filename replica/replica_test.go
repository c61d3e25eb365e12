package replica_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/Dgut/crdt/crdt"
	"github.com/Dgut/crdt/replica"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestStamping makes sure local updates are stamped
// with increasing clock values.
func TestStamping(t *testing.T) {

	r := replica.New("alpha")
	assert.Equal(t, "alpha", r.Name())

	t1 := r.AddVertex("a")
	t2 := r.AddVertex("b")
	t3 := r.AddEdge("a", "b")

	assert.True(t, t1 < t2 && t2 < t3)
	assert.Equal(t, t3, r.Now())

	assert.True(t, r.ContainsVertex("a"))
	assert.True(t, r.ContainsEdge("a", "b"))
	assert.Equal(t, []string{"a", "b"}, r.AnyPath("a", "b"))

	r.RemoveEdge("a", "b")
	assert.False(t, r.ContainsEdge("a", "b"))

	r.AddEdge("b", "a")
	r.RemoveVertex("b")
	assert.False(t, r.ContainsVertex("b"))
	assert.Empty(t, r.AllConnectedVertices("a"))
}

// TestApply replays stamped operations and
// checks the clock keeps up with them.
func TestApply(t *testing.T) {

	r := replica.New("alpha")

	require.NoError(t, r.Apply(replica.Op{Kind: crdt.OpAddVertex, From: "a", T: 10}))
	assert.Equal(t, int64(10), r.Now())

	// A local write right after wins over the applied one.
	r.RemoveVertex("a")
	assert.False(t, r.ContainsVertex("a"))

	err := r.Apply(replica.Op{Kind: 99, From: "a", T: 50})
	assert.Error(t, err)
	assert.Equal(t, int64(11), r.Now(), "failed ops must not move the clock")
}

// TestSnapshotIsolation makes sure snapshots
// and the replica do not share state.
func TestSnapshotIsolation(t *testing.T) {

	r := replica.New("alpha")
	r.AddVertex("a")

	snap := r.Snapshot()
	r.AddVertex("b")
	snap.AddVertex("c", 100)

	assert.False(t, snap.ContainsVertex("b"))
	assert.False(t, r.ContainsVertex("c"))
}

// TestMerge lets two replicas diverge and converge.
func TestMerge(t *testing.T) {

	a := replica.New("alpha")
	b := replica.New("beta")

	a.AddVertex("x")
	a.AddVertex("y")
	a.AddEdge("x", "y")

	for i := 0; i < 10; i++ {
		b.AddVertex(fmt.Sprintf("v%d", i))
	}

	a.Merge(b.Snapshot())
	merged := b.Merge(a.Snapshot())

	assert.True(t, a.Snapshot().Equal(b.Snapshot()))
	assert.Equal(t, a.Stats(), b.Stats())
	assert.Equal(t, b.Stats(), merged)
	assert.Equal(t, 12, merged.Vertices)
	assert.Equal(t, 1, merged.Edges)
	assert.Equal(t, int64(10), a.Now(), "clock lifted to largest merged timestamp")

	// Local removal after merge wins over the merged add.
	a.RemoveVertex("v9")
	assert.False(t, a.ContainsVertex("v9"))

	b.Merge(a.Snapshot())
	assert.False(t, b.ContainsVertex("v9"))

	// Merging nothing is fine.
	assert.Equal(t, b.Stats(), b.Merge(nil))
	assert.Equal(t, b.Stats(), b.Merge(crdt.NewLWWGraph[string, int64]()))
}

// TestConcurrentAccess hammers one replica from many
// goroutines while others snapshot and merge.
func TestConcurrentAccess(t *testing.T) {

	r := replica.New("alpha")
	other := replica.New("beta")
	other.AddVertex("shared")

	var wg sync.WaitGroup

	for w := 0; w < 8; w++ {

		wg.Add(1)
		go func(w int) {

			defer wg.Done()

			for i := 0; i < 100; i++ {

				v := fmt.Sprintf("w%d-%d", w, i)
				r.AddVertex(v)
				r.AddEdge(v, "shared")
				r.ContainsEdge(v, "shared")

				if i%10 == 0 {
					r.Merge(other.Snapshot())
					other.Merge(r.Snapshot())
				}
			}
		}(w)
	}

	wg.Wait()

	st := r.Stats()
	assert.Equal(t, 8*100+1, st.Vertices)
	assert.Equal(t, int64(8*100*2), r.Now(), "every local update ticks once")
	assert.Len(t, r.AllConnectedVertices("shared"), 8*100)
}

// TestNewName hands out distinct names.
func TestNewName(t *testing.T) {

	seen := make(map[string]bool)

	for i := 0; i < 50; i++ {

		name := replica.NewName()
		require.NotEmpty(t, name)
		require.False(t, seen[name], "duplicate name %s", name)
		seen[name] = true
	}
}
