package abci

import "sort"

// PeriodState is an immutable snapshot of every consensus-derived fact
// agreed on so far in the current period. Updates are functional: With
// returns a new value, never mutating the receiver.
type PeriodState struct {
	participants      map[string]struct{}
	periodCount       int
	periodSetupParams map[string]any
	facts             map[string]any
}

// NewPeriodState constructs the initial PeriodState for a period. The
// participant set is frozen from this point on: it never shrinks
// mid-period.
func NewPeriodState(participants []string, periodCount int, periodSetupParams map[string]any) PeriodState {
	ps := make(map[string]struct{}, len(participants))
	for _, p := range participants {
		ps[p] = struct{}{}
	}
	setup := make(map[string]any, len(periodSetupParams))
	for k, v := range periodSetupParams {
		setup[k] = v
	}
	return PeriodState{
		participants:      ps,
		periodCount:       periodCount,
		periodSetupParams: setup,
		facts:             make(map[string]any),
	}
}

// Participants returns the frozen participant set in canonical
// (lexicographic) order, so every caller that needs to iterate it for
// a deterministic error message or aggregation gets the same order
// every replica does.
func (s PeriodState) Participants() []string {
	out := make([]string, 0, len(s.participants))
	for p := range s.participants {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// HasParticipant reports whether sender is a member of the period.
func (s PeriodState) HasParticipant(sender string) bool {
	_, ok := s.participants[sender]
	return ok
}

// PeriodCount returns how many periods have elapsed before this one.
func (s PeriodState) PeriodCount() int {
	return s.periodCount
}

// PeriodSetupParam returns a period-setup parameter by name.
func (s PeriodState) PeriodSetupParam(name string) (any, bool) {
	v, ok := s.periodSetupParams[name]
	return v, ok
}

// Fact returns a domain-specific scalar fact by name (e.g.
// "most_voted_keeper_address"). Unset facts return (nil, false).
func (s PeriodState) Fact(name string) (any, bool) {
	v, ok := s.facts[name]
	return v, ok
}

// MustFact is a convenience accessor for call sites that already know
// the fact was set (e.g. a round's own StateUpdateFn output
// immediately after it computed the value). It panics if the fact is
// unset, since that always indicates a caller-side logic error, not a
// runtime condition.
func (s PeriodState) MustFact(name string) any {
	v, ok := s.facts[name]
	if !ok {
		panic("abci: period state fact " + name + " is not set")
	}
	return v
}

// With returns a new PeriodState with the given facts merged in on top
// of the receiver's. The receiver is left untouched.
func (s PeriodState) With(facts map[string]any) PeriodState {
	next := s
	next.facts = make(map[string]any, len(s.facts)+len(facts))
	for k, v := range s.facts {
		next.facts[k] = v
	}
	for k, v := range facts {
		next.facts[k] = v
	}
	return next
}

// WithPeriodCount returns a new PeriodState with PeriodCount set to
// count, used when the application's transition function starts
// a fresh period on top of the same participant set.
func (s PeriodState) WithPeriodCount(count int) PeriodState {
	next := s
	next.periodCount = count
	return next
}
