package behaviour

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeState struct {
	id          string
	roundID     string
	hasRound    bool
	done        bool
	event       Event
	actCalls    int
	resetCalls  int
	stopCalls   int
}

func (s *fakeState) StateID() string { return s.id }
func (s *fakeState) MatchingRoundID() (string, bool) {
	return s.roundID, s.hasRound
}
func (s *fakeState) ActWrapper() { s.actCalls++ }
func (s *fakeState) IsDone() bool { return s.done }
func (s *fakeState) Event() Event { return s.event }
func (s *fakeState) Reset()       { s.resetCalls++; s.done = false }
func (s *fakeState) Stop()        { s.stopCalls++ }

func TestFSM_RegistrationUniqueness(t *testing.T) {
	// property 8
	defer func() {
		r := recover()
		require.NotNil(t, r)
		assert.Contains(t, r.(string), "round id already used")
	}()
	New("a", map[string]StateFactory{
		"a": func() BaseState { return &fakeState{id: "a", roundID: "r1", hasRound: true} },
		"b": func() BaseState { return &fakeState{id: "b", roundID: "r1", hasRound: true} },
	}, TransitionFunction{"a": {"done": "b"}}, nil, func() string { return "" })
}

func TestFSM_EmptyTransitionFunction(t *testing.T) {
	defer func() {
		r := recover()
		require.NotNil(t, r)
		assert.Contains(t, r.(string), "empty list of state classes")
	}()
	New("a", map[string]StateFactory{}, TransitionFunction{}, nil, func() string { return "" })
}

func TestFSM_RoundOverridePrecedence(t *testing.T) {
	// property 7: when the observed round changes mid-flight, the
	// running state is preempted and the next tick's active behaviour
	// is the one indexed by the new round id.
	currentRound := "round_a"
	a := &fakeState{id: "state_a", roundID: "round_a", hasRound: true}
	b := &fakeState{id: "state_b", roundID: "round_b", hasRound: true}

	fsm := New("state_a", map[string]StateFactory{
		"state_a": func() BaseState { return a },
		"state_b": func() BaseState { return b },
	}, TransitionFunction{
		"state_a": {"done": "state_b"},
	}, nil, func() string { return currentRound })

	fsm.Act()
	assert.Equal(t, "state_a", fsm.CurrentStateID())
	assert.Equal(t, 1, a.actCalls)

	// round changes out from under state_a before it finished
	currentRound = "round_b"
	fsm.Act()
	assert.Equal(t, "state_b", fsm.CurrentStateID())
	assert.Equal(t, 1, a.stopCalls)
}

func TestFSM_DeclaredTransition(t *testing.T) {
	a := &fakeState{id: "state_a", hasRound: false}
	b := &fakeState{id: "state_b", hasRound: false}

	fsm := New("state_a", map[string]StateFactory{
		"state_a": func() BaseState { return a },
		"state_b": func() BaseState { return b },
	}, TransitionFunction{
		"state_a": {"done": "state_b"},
	}, nil, func() string { return "" })

	fsm.Act()
	assert.Equal(t, "state_a", fsm.CurrentStateID())

	a.done = true
	a.event = "done"
	fsm.Act()
	assert.Equal(t, "state_b", fsm.CurrentStateID())
	assert.Equal(t, 1, b.resetCalls)
}

func TestFSM_FinalState(t *testing.T) {
	a := &fakeState{id: "state_a", hasRound: false}
	fsm := New("state_a", map[string]StateFactory{
		"state_a": func() BaseState { return a },
	}, TransitionFunction{
		"state_a": {},
	}, []string{"state_a"}, func() string { return "" })

	a.done = true
	fsm.Act()
	assert.Equal(t, "", fsm.CurrentStateID())
	assert.Nil(t, fsm.CurrentState())
}
