/*
Package crdt implements the state-based last-writer-wins element set (LWWSet)
and the directed last-writer-wins element graph (LWWGraph) built on top of it.

Both structures are parametrized over an element type E, which only needs to
be comparable so that it can serve as a map key, and a timestamp type T, which
has to be totally ordered. Larger timestamps are considered to have happened
later. Equal add and remove timestamps are considered concurrent and resolve
to "not a member".

Membership of an element and validity of an edge are never stored. They are
recomputed from the recorded timestamps on every query, so that merging two
replicas can never leave a stale flag behind.

CAUTION! Consider these two requirements:
* Timestamps have to be generated by the caller, e.g. by a per-replica
  logical clock as provided by package clock. This package does not know
  about replica identities.
* Access to the functions this package provides is expected to be synchronized
  explicitly by some outside measures, e.g. by wrapping calls to this package
  with a mutex lock if concurrent access is possible. This package does not(!)
  synchronize access by itself.

Recorded tombstones are never purged. This is the usual trade-off of
LWW-element sets: unbounded growth in exchange for a merge that yields the same
state regardless of delivery order or duplication.
*/
package crdt
