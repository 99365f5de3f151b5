package abci

import "github.com/valory-xyz/abci-round-engine/abci/apperrors"

// CollectDifferentUntilThresholdRound collects one payload per sender
// (duplicate senders rejected, same slot rule as CollectionRound) and
// completes as soon as the number of distinct senders reaches the
// consensus threshold -- it does not require every value to be
// distinct, unlike CollectDifferentUntilAllRound; only the senders
// must be.
type CollectDifferentUntilThresholdRound struct {
	baseRound
	collection map[string]Payload
	decide     EndBlockPolicy
	exitEvt    Event
}

// NewCollectDifferentUntilThresholdRound constructs the round.
func NewCollectDifferentUntilThresholdRound(roundID string, allowedTxType TransactionType, state PeriodState, params ConsensusParams, decide EndBlockPolicy, exitEvent Event) *CollectDifferentUntilThresholdRound {
	return &CollectDifferentUntilThresholdRound{
		baseRound: baseRound{
			roundID:       roundID,
			allowedTxType: allowedTxType,
			state:         state,
			params:        params,
		},
		collection: make(map[string]Payload),
		decide:     decide,
		exitEvt:    exitEvent,
	}
}

// CheckPayload implements Round.
func (r *CollectDifferentUntilThresholdRound) CheckPayload(p Payload) error {
	if err := r.checkTypeAndMembership(p); err != nil {
		return err
	}
	if _, exists := r.collection[p.Sender]; exists {
		return apperrors.NewTransactionNotValid(apperrors.DuplicateSenderMessage(p.Sender, r.roundID))
	}
	return nil
}

// ProcessPayload implements Round.
func (r *CollectDifferentUntilThresholdRound) ProcessPayload(p Payload) error {
	if err := r.checkNotSealed(); err != nil {
		return err
	}
	if err := r.mustCheckTypeAndMembership(p); err != nil {
		return err
	}
	if _, exists := r.collection[p.Sender]; exists {
		return apperrors.NewABCIAppInternal(apperrors.DuplicateSenderMessage(p.Sender, r.roundID))
	}
	r.collection[p.Sender] = p
	return nil
}

// EndBlock implements Round.
func (r *CollectDifferentUntilThresholdRound) EndBlock() *Outcome {
	if r.sealed {
		return nil
	}
	if !r.CollectionThresholdReached() {
		return nil
	}
	next := r.decide(r.state)
	r.sealed = true
	return &Outcome{State: next, Event: r.exitEvt}
}

// CollectionThresholdReached reports whether at least threshold
// distinct senders have contributed.
func (r *CollectDifferentUntilThresholdRound) CollectionThresholdReached() bool {
	return len(r.collection) >= r.params.Threshold()
}

// Collection returns the sender->Payload map collected so far.
func (r *CollectDifferentUntilThresholdRound) Collection() map[string]Payload {
	return r.collection
}
