package domain

import "fmt"

// StatusMachine validates status changes for one entity type against an
// adjacency table of legal (current -> requested) pairs.
// It holds no entity state and is safe for concurrent use.
type StatusMachine[S ~string] struct {
	entity   string
	edges    map[S]map[S]struct{}
	terminal map[S]struct{}
	known    map[S]struct{}
}

// NewStatusMachine builds a machine from an adjacency table and the declared
// terminal states. Every state appearing in the table is recognized.
// It panics if a terminal state has outgoing edges, since the tables are
// package-level data and such a table is a programming error.
func NewStatusMachine[S ~string](entity string, edges map[S][]S, terminal ...S) *StatusMachine[S] {
	m := &StatusMachine[S]{
		entity:   entity,
		edges:    make(map[S]map[S]struct{}, len(edges)),
		terminal: make(map[S]struct{}, len(terminal)),
		known:    make(map[S]struct{}),
	}

	for from, targets := range edges {
		m.known[from] = struct{}{}
		allowed := make(map[S]struct{}, len(targets))
		for _, to := range targets {
			allowed[to] = struct{}{}
			m.known[to] = struct{}{}
		}
		m.edges[from] = allowed
	}

	for _, s := range terminal {
		if len(m.edges[s]) > 0 {
			panic(fmt.Sprintf("%s status machine: terminal state %s has outgoing transitions", entity, s))
		}
		m.terminal[s] = struct{}{}
		m.known[s] = struct{}{}
	}

	return m
}

// Known reports whether s is a recognized state for this entity.
func (m *StatusMachine[S]) Known(s S) bool {
	_, ok := m.known[s]
	return ok
}

// IsTerminal reports whether s has no legal outgoing transition.
func (m *StatusMachine[S]) IsTerminal(s S) bool {
	_, ok := m.terminal[s]
	return ok
}

// CanTransition reports whether current -> requested is legal.
// A no-op (requested == current) is never legal.
func (m *StatusMachine[S]) CanTransition(current, requested S) bool {
	return m.Validate(current, requested) == nil
}

// Validate returns nil if current -> requested is legal, an ErrInvalidState
// error if either state is unrecognized, and an ErrInvalidTransition error
// otherwise.
func (m *StatusMachine[S]) Validate(current, requested S) error {
	if !m.Known(requested) {
		return Errorf(ErrInvalidState, "unknown %s status %q", m.entity, requested)
	}
	if !m.Known(current) {
		return Errorf(ErrInvalidState, "unknown current %s status %q", m.entity, current)
	}
	if current == requested {
		return Errorf(ErrInvalidTransition, "%s is already %s", m.entity, current)
	}
	if m.IsTerminal(current) {
		return Errorf(ErrInvalidTransition, "cannot change status of a %s %s", current, m.entity)
	}
	if _, ok := m.edges[current][requested]; !ok {
		return Errorf(ErrInvalidTransition, "%s cannot move from %s to %s", m.entity, current, requested)
	}
	return nil
}

// Transition returns requested if the change is legal, or current and the
// validation error otherwise.
func (m *StatusMachine[S]) Transition(current, requested S) (S, error) {
	if err := m.Validate(current, requested); err != nil {
		return current, err
	}
	return requested, nil
}

// Targets returns the states reachable from s in one step.
func (m *StatusMachine[S]) Targets(s S) []S {
	out := make([]S, 0, len(m.edges[s]))
	for to := range m.edges[s] {
		out = append(out, to)
	}
	return out
}
