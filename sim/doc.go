/*
Package sim drives a set of in-process replicas through scripted and
randomized workloads, lets them exchange snapshots in gossip rounds, and
verifies that all of them end up with equal graphs.

Scenarios:
* convergence: all replicas write concurrently, gossip with random peers
  between batches and finally with everyone.
* partition: two halves of the replicas evolve separately, including a
  conflicting pair of edges, and are healed afterwards.
* chain: one replica builds a long chain of vertices, everyone merges it
  and has to find the path along the whole chain.
*/
package sim
