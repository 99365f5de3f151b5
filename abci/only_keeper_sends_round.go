package abci

import "github.com/valory-xyz/abci-round-engine/abci/apperrors"

const mostVotedKeeperAddressFact = "most_voted_keeper_address"

// OnlyKeeperSendsRound has a single acceptance slot: the payload from
// the agent named by PeriodState's "most_voted_keeper_address" fact.
// Any other sender, or a second payload from the keeper itself, is
// rejected.
type OnlyKeeperSendsRound struct {
	baseRound
	payload *Payload
	decide  EndBlockPolicy
	exitEvt Event
}

// NewOnlyKeeperSendsRound constructs the round. state must already
// carry the most_voted_keeper_address fact (set by a prior
// CollectSameUntilThresholdRound); a round constructed without it
// rejects every sender, since no sender can ever equal an unset
// keeper.
func NewOnlyKeeperSendsRound(roundID string, allowedTxType TransactionType, state PeriodState, params ConsensusParams, decide EndBlockPolicy, exitEvent Event) *OnlyKeeperSendsRound {
	return &OnlyKeeperSendsRound{
		baseRound: baseRound{
			roundID:       roundID,
			allowedTxType: allowedTxType,
			state:         state,
			params:        params,
		},
		decide:  decide,
		exitEvt: exitEvent,
	}
}

func (r *OnlyKeeperSendsRound) keeper() (string, bool) {
	v, ok := r.state.Fact(mostVotedKeeperAddressFact)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// CheckPayload implements Round. Order matters: membership, then
// whether the sender is the elected keeper at all, then whether the
// keeper has already been accepted -- a non-keeper sender always gets
// "not elected as keeper", even after the keeper's payload has already
// landed.
func (r *OnlyKeeperSendsRound) CheckPayload(p Payload) error {
	if err := r.checkTypeAndMembership(p); err != nil {
		return err
	}
	keeper, ok := r.keeper()
	if !ok || p.Sender != keeper {
		return apperrors.NewTransactionNotValid(apperrors.NotKeeperMessage(p.Sender))
	}
	if r.payload != nil {
		return apperrors.NewTransactionNotValid(apperrors.KeeperValueAlreadySetMessage())
	}
	return nil
}

// ProcessPayload implements Round. Same rule order as CheckPayload.
func (r *OnlyKeeperSendsRound) ProcessPayload(p Payload) error {
	if err := r.checkNotSealed(); err != nil {
		return err
	}
	if err := r.mustCheckTypeAndMembership(p); err != nil {
		return err
	}
	keeper, ok := r.keeper()
	if !ok || p.Sender != keeper {
		return apperrors.NewABCIAppInternal(apperrors.NotKeeperMessage(p.Sender))
	}
	if r.payload != nil {
		return apperrors.NewABCIAppInternal(apperrors.KeeperAlreadySetMessage())
	}
	cp := p
	r.payload = &cp
	return nil
}

// HasKeeperSentPayload reports whether the keeper's payload has been
// accepted yet.
func (r *OnlyKeeperSendsRound) HasKeeperSentPayload() bool {
	return r.payload != nil
}

// KeeperPayload returns the accepted keeper payload, if any.
func (r *OnlyKeeperSendsRound) KeeperPayload() (Payload, bool) {
	if r.payload == nil {
		return Payload{}, false
	}
	return *r.payload, true
}

// EndBlock implements Round.
func (r *OnlyKeeperSendsRound) EndBlock() *Outcome {
	if r.sealed || r.payload == nil {
		return nil
	}
	next := r.decide(r.state)
	r.sealed = true
	return &Outcome{State: next, Event: r.exitEvt}
}
