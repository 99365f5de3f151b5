package behaviour

import (
	"fmt"

	"github.com/valory-xyz/abci-round-engine/applog"
)

var fsmLog = applog.Named("behaviour")

// StateFactory builds a fresh BaseState instance. States are
// constructed once at registration time.
type StateFactory func() BaseState

// TransitionFunction is the application's declared event graph:
// current state id -> event -> next state id. This is one of two
// transition sources; the chain's round progression is the other, and
// always wins when the two disagree.
type TransitionFunction map[string]map[Event]string

// roundIndex indexes registered states whose MatchingRoundID is
// set, so the FSM can look up which local behaviour corresponds to
// whatever round id the chain reports as current.
type roundIndex map[string]string

// AbstractRoundBehaviour is the local FSM slaved to a Period's
// CurrentRoundID. It is not parameterized over the Period type
// directly -- callers supply a currentRoundIDFn so this package stays
// independent of how the embedding application wires its abci.Period.
type AbstractRoundBehaviour struct {
	initialStateID string
	transitions    TransitionFunction
	states         map[string]BaseState
	finalStates    map[string]struct{}
	roundToState   roundIndex

	currentRoundIDFn func() string

	started        bool
	lastRoundID    string
	current        string
	currentStarted bool
	nextState      *string // overrides the declared transition on the next IsDone tick
}

// New constructs an AbstractRoundBehaviour. initialStateID is the
// StateID of the state the FSM starts in; it is reset here, on entry.
// finalStateIDs names the states that terminate the FSM: a final state
// is still acted on until it reports IsDone, after which no further Act
// call does anything.
//
// Setup invariants:
//   - the transition function must be non-empty;
//   - no two registered states may share the same matching round id.
//
// Both are checked eagerly here and panic on violation, since they are
// configuration errors the embedding application must fix before
// deploying, never a runtime condition.
func New(initialStateID string, states map[string]StateFactory, transitions TransitionFunction, finalStateIDs []string, currentRoundIDFn func() string) *AbstractRoundBehaviour {
	if len(transitions) == 0 {
		panic("behaviour: empty list of state classes")
	}
	b := &AbstractRoundBehaviour{
		initialStateID:   initialStateID,
		transitions:      transitions,
		states:           make(map[string]BaseState, len(states)),
		finalStates:      make(map[string]struct{}, len(finalStateIDs)),
		roundToState:     make(roundIndex, len(states)),
		currentRoundIDFn: currentRoundIDFn,
		current:          initialStateID,
		currentStarted:   true,
	}
	for id, factory := range states {
		state := factory()
		if state.StateID() != id {
			panic(fmt.Sprintf("behaviour: state registered under id %q but StateID() returns %q", id, state.StateID()))
		}
		if roundID, ok := state.MatchingRoundID(); ok {
			if existing, taken := b.roundToState[roundID]; taken {
				panic(fmt.Sprintf("behaviour: round id already used: %q (states %q and %q)", roundID, existing, id))
			}
			b.roundToState[roundID] = id
		}
		b.states[id] = state
	}
	for _, id := range finalStateIDs {
		b.finalStates[id] = struct{}{}
	}
	if _, ok := b.states[initialStateID]; !ok {
		panic(fmt.Sprintf("behaviour: initial state %q was never registered", initialStateID))
	}
	b.states[initialStateID].Reset()
	return b
}

// CurrentStateID returns the id of the state currently active, or ""
// once the FSM has stopped: a final state finished, the declared
// transition function had no entry for a finished state's event, or a
// round change preempted the running state and no registered state
// matches the new round.
func (b *AbstractRoundBehaviour) CurrentStateID() string {
	return b.current
}

// CurrentState returns the BaseState instance currently active, or nil.
func (b *AbstractRoundBehaviour) CurrentState() BaseState {
	if b.current == "" {
		return nil
	}
	return b.states[b.current]
}

// Act implements one FSM tick.
func (b *AbstractRoundBehaviour) Act() {
	if !b.started {
		b.lastRoundID = b.currentRoundIDFn()
		b.started = true
	}

	if b.current == "" {
		return
	}

	b.processCurrentRound()

	current := b.CurrentState()
	if current == nil {
		return
	}
	if !b.currentStarted {
		current.Reset()
		b.currentStarted = true
	}

	current.ActWrapper()

	if !current.IsDone() {
		return
	}

	if _, final := b.finalStates[current.StateID()]; final {
		fsmLog.Debugf("%s is a final state", current.StateID())
		b.current = ""
		return
	}

	if b.nextState != nil {
		fsmLog.Debugf("overriding transition: current state: %q, next state: %q", b.current, *b.nextState)
		b.current = *b.nextState
		b.nextState = nil
	} else {
		event := current.Event()
		nextStateID, ok := b.transitions[b.current][event]
		fsmLog.Debugf("current state: %q, event: %q, next state: %q (found=%v)", b.current, event, nextStateID, ok)
		if !ok {
			b.current = ""
			return
		}
		b.current = nextStateID
	}
	if next := b.CurrentState(); next != nil {
		next.Reset()
	}
}

// processCurrentRound reacts to a CurrentRoundID change by preempting
// the running state if it has a matching round and that round is no
// longer current.
func (b *AbstractRoundBehaviour) processCurrentRound() {
	currentRoundID := b.currentRoundIDFn()
	if b.lastRoundID == currentRoundID {
		return
	}
	b.lastRoundID = currentRoundID

	next, hasMatch := b.roundToState[currentRoundID]
	if hasMatch {
		b.nextState = &next
	} else {
		b.nextState = nil
	}

	current := b.CurrentState()
	if current == nil {
		return
	}
	roundID, hasRound := current.MatchingRoundID()
	if !hasRound {
		return
	}
	nextID := ""
	if b.nextState != nil {
		nextID = *b.nextState
	}
	if roundID != "" && current.StateID() != nextID {
		current.Stop()
		b.current = nextID
		b.currentStarted = false
		b.nextState = nil
	}
}
