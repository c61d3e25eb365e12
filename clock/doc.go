/*
Package clock provides the logical clock replicas use to stamp their
updates of an LWW graph. It implements a Lamport clock: every local event
ticks the clock, every observed remote timestamp lifts it past that
timestamp. Timestamps produced this way are totally ordered per replica and
never go backwards, which is all the graph's last-writer-wins rule needs.

A Clock is not safe for concurrent use. Replicas guard their clock with
the same lock that guards their graph.
*/
package clock
