package abci

import "github.com/valory-xyz/abci-round-engine/abci/apperrors"

// VotingRound collects one boolean-or-none vote per sender and races
// three thresholds against each other: enough true votes (DONE),
// enough false votes (NEGATIVE), or enough unset/nil votes (NONE).
// Since 3*threshold > 2N, at most one of the three can be reached at a
// time -- so EndBlock's order of checks never matters for
// correctness, only for which event wins a literal tie, which cannot
// happen.
type VotingRound struct {
	baseRound
	votes   map[string]*bool
	decide  EndBlockPolicy
	exitEvt Event
}

// NewVotingRound constructs the round. exitEvent is the event emitted
// on a positive-vote threshold (EventDone is the conventional choice);
// negative and none thresholds always emit EventNegative/EventNone
// regardless of exitEvent.
func NewVotingRound(roundID string, allowedTxType TransactionType, payloadAttribute string, state PeriodState, params ConsensusParams, decide EndBlockPolicy, exitEvent Event) *VotingRound {
	return &VotingRound{
		baseRound: baseRound{
			roundID:       roundID,
			allowedTxType: allowedTxType,
			payloadAttr:   payloadAttribute,
			state:         state,
			params:        params,
		},
		votes:   make(map[string]*bool),
		decide:  decide,
		exitEvt: exitEvent,
	}
}

func (r *VotingRound) vote(p Payload) *bool {
	v, ok := p.Attribute(r.payloadAttr)
	if !ok || v == nil {
		return nil
	}
	b, ok := v.(bool)
	if !ok {
		return nil
	}
	return &b
}

// CheckPayload implements Round.
func (r *VotingRound) CheckPayload(p Payload) error {
	if err := r.checkTypeAndMembership(p); err != nil {
		return err
	}
	if _, exists := r.votes[p.Sender]; exists {
		return apperrors.NewTransactionNotValid(apperrors.DuplicateSenderMessage(p.Sender, r.roundID))
	}
	return nil
}

// ProcessPayload implements Round.
func (r *VotingRound) ProcessPayload(p Payload) error {
	if err := r.checkNotSealed(); err != nil {
		return err
	}
	if err := r.mustCheckTypeAndMembership(p); err != nil {
		return err
	}
	if _, exists := r.votes[p.Sender]; exists {
		return apperrors.NewABCIAppInternal(apperrors.DuplicateSenderMessage(p.Sender, r.roundID))
	}
	r.votes[p.Sender] = r.vote(p)
	return nil
}

func (r *VotingRound) counts() (positive, negative, none int) {
	for _, sender := range sortedSenders(r.votes) {
		v := r.votes[sender]
		switch {
		case v == nil:
			none++
		case *v:
			positive++
		default:
			negative++
		}
	}
	return
}

// PositiveVoteThresholdReached reports whether enough senders voted true.
func (r *VotingRound) PositiveVoteThresholdReached() bool {
	pos, _, _ := r.counts()
	return pos >= r.params.Threshold()
}

// NegativeVoteThresholdReached reports whether enough senders voted false.
func (r *VotingRound) NegativeVoteThresholdReached() bool {
	_, neg, _ := r.counts()
	return neg >= r.params.Threshold()
}

// NoneVoteThresholdReached reports whether enough senders submitted a
// nil vote.
func (r *VotingRound) NoneVoteThresholdReached() bool {
	_, _, none := r.counts()
	return none >= r.params.Threshold()
}

// IsMajorityPossible reports whether any of the three outcomes can
// still reach threshold given the remaining senders.
func (r *VotingRound) IsMajorityPossible() bool {
	pos, neg, none := r.counts()
	counts := map[string]int{"true": pos, "false": neg, "none": none}
	return isMajorityPossible(counts, len(r.votes), r.params.MaxParticipants(), r.params.Threshold())
}

// EndBlock implements Round.
func (r *VotingRound) EndBlock() *Outcome {
	if r.sealed {
		return nil
	}
	switch {
	case r.PositiveVoteThresholdReached():
		next := r.decide(r.state)
		r.sealed = true
		return &Outcome{State: next, Event: r.exitEvt}
	case r.NegativeVoteThresholdReached():
		r.sealed = true
		return &Outcome{State: r.state, Event: EventNegative}
	case r.NoneVoteThresholdReached():
		r.sealed = true
		return &Outcome{State: r.state, Event: EventNone}
	case !r.IsMajorityPossible():
		r.sealed = true
		return &Outcome{State: r.state, Event: EventNoMajority}
	default:
		return nil
	}
}

// Votes returns the sender->vote map collected so far. A nil value
// means the sender voted "none".
func (r *VotingRound) Votes() map[string]*bool {
	return r.votes
}
