package crdt

import (
	"cmp"

	"github.com/pkg/errors"
)

// Variables

// ErrNoTimestamp is returned when the add or remove
// timestamp of an element is requested that was never
// added or removed respectively. Guard such lookups with
// AddExists and RemoveExists.
var ErrNoTimestamp = errors.New("no timestamp recorded for element")

// Structs

// LWWSet conforms to the specification of a state-based
// last-writer-wins element set. It keeps one timestamp per
// element for the latest add and one for the latest remove.
// If adding and removing happened at the same time, removing
// takes priority.
type LWWSet[E comparable, T cmp.Ordered] struct {
	added   map[E]T
	removed map[E]T
}

// Functions

// NewLWWSet returns an empty initialized new
// last-writer-wins element set.
func NewLWWSet[E comparable, T cmp.Ordered]() *LWWSet[E, T] {

	return &LWWSet[E, T]{
		added:   make(map[E]T),
		removed: make(map[E]T),
	}
}

// record stores t for e in m unless a later
// timestamp is already present.
func record[E comparable, T cmp.Ordered](m map[E]T, e E, t T) {

	if prior, found := m[e]; found && prior >= t {
		return
	}

	m[e] = t
}

// Add marks element e as added at time t. A stored
// add timestamp never moves backwards, thus adding
// with an older timestamp is a no-op.
func (s *LWWSet[E, T]) Add(e E, t T) {
	record(s.added, e, t)
}

// Remove marks element e as removed at time t. As
// with Add, only later timestamps replace earlier ones.
func (s *LWWSet[E, T]) Remove(e E, t T) {
	record(s.removed, e, t)
}

// AddExists reports whether e was ever added.
func (s *LWWSet[E, T]) AddExists(e E) bool {

	_, found := s.added[e]

	return found
}

// RemoveExists reports whether e was ever removed.
func (s *LWWSet[E, T]) RemoveExists(e E) bool {

	_, found := s.removed[e]

	return found
}

// AddTimestamp returns the latest add timestamp of e.
// It fails with ErrNoTimestamp if e was never added.
func (s *LWWSet[E, T]) AddTimestamp(e E) (T, error) {

	t, found := s.added[e]
	if !found {
		return t, errors.Wrapf(ErrNoTimestamp, "add of %v", e)
	}

	return t, nil
}

// RemoveTimestamp returns the latest remove timestamp
// of e. It fails with ErrNoTimestamp if e was never removed.
func (s *LWWSet[E, T]) RemoveTimestamp(e E) (T, error) {

	t, found := s.removed[e]
	if !found {
		return t, errors.Wrapf(ErrNoTimestamp, "remove of %v", e)
	}

	return t, nil
}

// Contains returns true if e was added and either
// never removed or removed strictly before its
// latest add.
func (s *LWWSet[E, T]) Contains(e E) bool {

	addT, added := s.added[e]
	if !added {
		return false
	}

	rmvT, removed := s.removed[e]
	if !removed {
		return true
	}

	return addT > rmvT
}

// Merge applies all add and remove records of other
// to s via the regular Add and Remove paths. Only s
// is modified.
func (s *LWWSet[E, T]) Merge(other *LWWSet[E, T]) {

	if other == nil {
		return
	}

	for e, t := range other.added {
		s.Add(e, t)
	}

	for e, t := range other.removed {
		s.Remove(e, t)
	}
}

// Equal compares the recorded add and remove
// timestamps of both sets. Two sets with equal
// members but different timestamps are not equal.
func (s *LWWSet[E, T]) Equal(other *LWWSet[E, T]) bool {

	if s == nil || other == nil {
		return s == other
	}

	return mapsEqual(s.added, other.added) && mapsEqual(s.removed, other.removed)
}

// Clone returns a deep copy of s that shares
// no state with it.
func (s *LWWSet[E, T]) Clone() *LWWSet[E, T] {

	c := &LWWSet[E, T]{
		added:   make(map[E]T, len(s.added)),
		removed: make(map[E]T, len(s.removed)),
	}

	for e, t := range s.added {
		c.added[e] = t
	}

	for e, t := range s.removed {
		c.removed[e] = t
	}

	return c
}

// Elements returns the current members of s
// in no particular order.
func (s *LWWSet[E, T]) Elements() []E {

	elements := make([]E, 0, len(s.added))

	for e := range s.added {

		if s.Contains(e) {
			elements = append(elements, e)
		}
	}

	return elements
}

// Len returns the number of current members.
func (s *LWWSet[E, T]) Len() int {

	n := 0

	for e := range s.added {

		if s.Contains(e) {
			n++
		}
	}

	return n
}

// RangeAdded calls fn for every element that was ever
// added, together with its latest add timestamp, until
// fn returns false. Removed elements are visited too.
func (s *LWWSet[E, T]) RangeAdded(fn func(e E, t T) bool) {

	for e, t := range s.added {

		if !fn(e, t) {
			return
		}
	}
}

// mapsEqual compares two timestamp maps key by key.
func mapsEqual[E comparable, T cmp.Ordered](a, b map[E]T) bool {

	if len(a) != len(b) {
		return false
	}

	for e, ta := range a {

		tb, found := b[e]
		if !found || ta != tb {
			return false
		}
	}

	return true
}
