package abci

// ConsensusParams carries the one fact the round/period machinery
// needs from the chain's validator set: how many participants are
// expected. Threshold is derived from it, not independently
// configured.
type ConsensusParams struct {
	maxParticipants int
}

// NewConsensusParams constructs ConsensusParams for a committee of the
// given size. Panics if maxParticipants is not positive: a consensus
// committee of zero or negative size is a construction-time
// programming error, not a runtime condition to recover from.
func NewConsensusParams(maxParticipants int) ConsensusParams {
	if maxParticipants <= 0 {
		panic("abci: max_participants must be positive")
	}
	return ConsensusParams{maxParticipants: maxParticipants}
}

// MaxParticipants returns N.
func (c ConsensusParams) MaxParticipants() int {
	return c.maxParticipants
}

// Threshold returns the minimum number of agreeing contributors
// required for a decision: floor(2N/3) + 1, the standard BFT quorum
// size. Go's integer division already floors for positive operands,
// so this is a direct translation; see consensus_params_test.go for
// the worked values (N=1->1, N=4->3, N=7->5, N=10->7).
func (c ConsensusParams) Threshold() int {
	return (2*c.maxParticipants)/3 + 1
}
