/*
Package replica wraps one LWW graph together with its logical clock and a
name into a replica that can be used from several goroutines. It supplies
the outside synchronization package crdt requires and stamps every local
update with the replica's Lamport clock.

Replicas never share graph state. They exchange deep-copied snapshots,
which the receiving replica merges into its own graph.
*/
package replica
