package query

import "github.com/bascanada/seclog/pkg/log"

// Store owns a clause list on behalf of the host view and applies
// actions through Reduce. It is created by the host and handed to the
// builder, subscribers are notified after every dispatch that changed
// the list. A store lives on the UI event loop and is not safe for
// concurrent use.
type Store struct {
	clauses     []Clause
	subscribers []func([]Clause)
}

// NewStore creates a store holding initial.
func NewStore(initial ...Clause) *Store {
	return &Store{clauses: append([]Clause(nil), initial...)}
}

// Clauses returns the current list. Callers must not modify it.
func (s *Store) Clauses() []Clause {
	return s.clauses
}

// Dispatch reduces action into the store.
func (s *Store) Dispatch(action Action) {
	before := s.clauses
	s.clauses = Reduce(s.clauses, action)
	changed := !sameList(before, s.clauses)
	current := s.clauses

	log.Debug("dispatch %s changed=%t clauses=%d", ActionType(action), changed, len(current))

	if !changed {
		return
	}
	for _, fn := range s.subscribers {
		fn(current)
	}
}

// Subscribe registers fn to be called with the new list after changes.
func (s *Store) Subscribe(fn func([]Clause)) {
	s.subscribers = append(s.subscribers, fn)
}

// sameList reports if Reduce returned its input unchanged.
func sameList(a, b []Clause) bool {
	if len(a) != len(b) {
		return false
	}
	if len(a) == 0 {
		return true
	}
	return &a[0] == &b[0]
}
