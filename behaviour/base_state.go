// Package behaviour implements the local Round Behaviour FSM: the
// controller that maps the currently active on-chain round to a local
// behaviour, enforces at-most-one-active behaviour, and reacts to
// round transitions that arrive out of band (catch-up). An
// AbstractRoundBehaviour holds exactly one active BaseState and
// advances it either on its own event or because the chain moved the
// round out from under it.
package behaviour

// Event is the label a finished state hands back to the FSM to select
// its successor in the static transition graph.
type Event string

// BaseState is the single-round worker contract every local behaviour
// implements. StateID is expected to be a package-level constant on
// the concrete type, equal to the matching round's RoundID() when
// MatchingRoundID is set.
type BaseState interface {
	// StateID uniquely identifies this state within the FSM.
	StateID() string
	// MatchingRoundID is the round id this state is the local actor
	// for, or ("", false) if this state does not correspond to any
	// round (a purely local bookkeeping state).
	MatchingRoundID() (string, bool)
	// ActWrapper is invoked once per FSM tick while this state is
	// current. It may do nothing, progress internal work, or complete
	// by calling nothing more than setting up for IsDone/Event to
	// return truthy values on a later tick (or immediately).
	ActWrapper()
	// IsDone reports whether this state has finished its work.
	IsDone() bool
	// Event returns the event this state completed with. Only
	// meaningful once IsDone() is true.
	Event() Event
	// Reset is called every time this state is (re-)entered, including
	// the very first time.
	Reset()
	// Stop is called when the FSM preempts this state because the
	// chain's round advanced out from under it. Any event queued by
	// this state is discarded by the FSM regardless of what Stop does.
	Stop()
}
