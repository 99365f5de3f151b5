package sharedstate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valory-xyz/abci-round-engine/abci"
)

func dummyRoundFactory(id string) abci.RoundFactory {
	return func(state abci.PeriodState, params abci.ConsensusParams) abci.Round {
		return abci.NewCollectionRound(id, "tx", state, params, func(r *abci.CollectionRound) *abci.Outcome {
			return nil
		})
	}
}

func TestTypeRegistry_DuplicateNamePanics(t *testing.T) {
	reg := NewTypeRegistry()
	reg.RegisterRound("round_a", dummyRoundFactory("round_a"))
	assert.Panics(t, func() {
		reg.RegisterRound("round_a", dummyRoundFactory("round_a"))
	})
}

func TestTypeRegistry_ResolveUnknown(t *testing.T) {
	reg := NewTypeRegistry()
	_, err := reg.Resolve("nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no round registered")
}

func TestSharedState_SetupResolvesNames(t *testing.T) {
	reg := NewTypeRegistry()
	reg.RegisterRound("round_a", dummyRoundFactory("round_a"))
	reg.RegisterRound("round_b", dummyRoundFactory("round_b"))

	params := abci.NewConsensusParams(4)
	state := abci.NewPeriodState([]string{"agent_1", "agent_2", "agent_3", "agent_4"}, 0, nil)

	ss := New(reg, params, TransitionTable{
		"round_a": {abci.EventDone: "round_b"},
	})

	err := ss.Setup("round_a", state)
	require.NoError(t, err)
	assert.Equal(t, "round_a", ss.Period().CurrentRoundID())
}

func TestSharedState_SetupUnknownInitialRound(t *testing.T) {
	reg := NewTypeRegistry()
	params := abci.NewConsensusParams(4)
	state := abci.NewPeriodState([]string{"agent_1"}, 0, nil)
	ss := New(reg, params, TransitionTable{})

	err := ss.Setup("round_a", state)
	require.Error(t, err)
}

func TestSharedState_PeriodPanicsBeforeSetup(t *testing.T) {
	ss := New(NewTypeRegistry(), abci.NewConsensusParams(4), TransitionTable{})
	assert.Panics(t, func() { ss.Period() })
}

func TestSharedState_MutableFacts(t *testing.T) {
	ss := New(NewTypeRegistry(), abci.NewConsensusParams(4), TransitionTable{})

	ss.RecordBlock(42)
	assert.Equal(t, int64(42), ss.CurrentBlock())

	assert.False(t, ss.InfoReceived())
	ss.SetInfoReceived(true)
	assert.True(t, ss.InfoReceived())

	ss.TrackRequest("nonce-1", "handler-a")
	handler, ok := ss.ResolveRequest("nonce-1")
	assert.True(t, ok)
	assert.Equal(t, "handler-a", handler)

	_, ok = ss.ResolveRequest("nonce-1")
	assert.False(t, ok)
}
