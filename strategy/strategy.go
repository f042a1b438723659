package strategy

import (
	"context"
	"fmt"

	"github.com/poiesic/remedy/core"
)

// Strategy scores a normalized query against a normalized phrase.
type Strategy interface {
	ID() core.StrategyID
	Score(ctx context.Context, query, phrase []string) (float64, error)
}

// Set holds at most one Strategy per identifier.
type Set struct {
	byID map[core.StrategyID]Strategy
}

// NewSet registers strategies by their identifiers.
func NewSet(strategies ...Strategy) (*Set, error) {
	s := &Set{byID: make(map[core.StrategyID]Strategy, len(strategies))}
	for _, st := range strategies {
		if st == nil {
			return nil, ErrNilStrategy
		}
		id := st.ID()
		if err := core.ValidateStrategy(id); err != nil {
			return nil, err
		}
		if _, exists := s.byID[id]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateStrategy, id)
		}
		s.byID[id] = st
	}
	return s, nil
}

// Get returns the strategy registered for id. Identifiers outside the
// enumeration, and known identifiers nobody registered, fail with
// core.ErrUnknownStrategy.
func (s *Set) Get(id core.StrategyID) (Strategy, error) {
	if err := core.ValidateStrategy(id); err != nil {
		return nil, err
	}
	st, ok := s.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s is not configured", core.ErrUnknownStrategy, id)
	}
	return st, nil
}

// All returns the registered strategies in canonical order.
func (s *Set) All() []Strategy {
	out := make([]Strategy, 0, len(s.byID))
	for _, id := range core.Strategies {
		if st, ok := s.byID[id]; ok {
			out = append(out, st)
		}
	}
	return out
}

// IDs returns the registered identifiers in canonical order.
func (s *Set) IDs() []core.StrategyID {
	ids := make([]core.StrategyID, 0, len(s.byID))
	for _, st := range s.All() {
		ids = append(ids, st.ID())
	}
	return ids
}

// Len returns the number of registered strategies.
func (s *Set) Len() int {
	return len(s.byID)
}

// Sequential is implemented by strategies whose Score mutates shared state.
// Rankers score them one pair at a time, in corpus order, so the state they
// end up in does not depend on scheduling.
type Sequential interface {
	Sequential() bool
}

// IsSequential reports whether st asks to be scored sequentially.
func IsSequential(st Strategy) bool {
	seq, ok := st.(Sequential)
	return ok && seq.Sequential()
}
