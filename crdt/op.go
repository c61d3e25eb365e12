package crdt

import (
	"cmp"
	"fmt"
)

// Structs

// OpKind names one of the four mutating graph operations.
type OpKind uint8

// Supported operations on an LWWGraph.
const (
	OpAddVertex OpKind = iota + 1
	OpRemoveVertex
	OpAddEdge
	OpRemoveEdge
)

// Op represents one recorded update of an LWWGraph:
// the operation, the affected vertex (From) or edge
// (From -> To) and the timestamp it was issued at.
// Replaying the same ops in any order on any replica
// yields equal graphs.
type Op[E comparable, T cmp.Ordered] struct {
	Kind OpKind
	From E
	To   E
	T    T
}

// Functions

// String returns the short name of the operation.
func (k OpKind) String() string {

	switch k {
	case OpAddVertex:
		return "addv"
	case OpRemoveVertex:
		return "rmvv"
	case OpAddEdge:
		return "adde"
	case OpRemoveEdge:
		return "rmve"
	default:
		return fmt.Sprintf("op(%d)", uint8(k))
	}
}

// IsEdge reports whether k operates on an edge.
func (k OpKind) IsEdge() bool {
	return k == OpAddEdge || k == OpRemoveEdge
}

// String renders op for log output, e.g.
// "adde|1|2|7" or "addv|1|5".
func (op Op[E, T]) String() string {

	if op.Kind.IsEdge() {
		return fmt.Sprintf("%s|%v|%v|%v", op.Kind, op.From, op.To, op.T)
	}

	return fmt.Sprintf("%s|%v|%v", op.Kind, op.From, op.T)
}

// Apply executes op on g. Unknown kinds are
// reported as error and leave g untouched.
func (op Op[E, T]) Apply(g *LWWGraph[E, T]) error {

	switch op.Kind {
	case OpAddVertex:
		g.AddVertex(op.From, op.T)
	case OpRemoveVertex:
		g.RemoveVertex(op.From, op.T)
	case OpAddEdge:
		g.AddEdge(op.From, op.To, op.T)
	case OpRemoveEdge:
		g.RemoveEdge(op.From, op.To, op.T)
	default:
		return fmt.Errorf("unsupported graph operation %s", op.Kind)
	}

	return nil
}
