package abci

import "github.com/valory-xyz/abci-round-engine/abci/apperrors"

// CollectDifferentUntilAllRound collects a Set<value> keyed by the
// payload's vote-key attribute (PayloadAttribute), rejecting a value
// that has already been contributed by someone else. It completes
// once all N participants have contributed a distinct value.
type CollectDifferentUntilAllRound struct {
	baseRound
	values   map[any]struct{}
	count    int
	decide   EndBlockPolicy
	exitEvt  Event
}

// NewCollectDifferentUntilAllRound constructs the round. exitEvent is
// the event EndBlock emits on completion (typically EventDone).
func NewCollectDifferentUntilAllRound(roundID string, allowedTxType TransactionType, payloadAttribute string, state PeriodState, params ConsensusParams, decide EndBlockPolicy, exitEvent Event) *CollectDifferentUntilAllRound {
	return &CollectDifferentUntilAllRound{
		baseRound: baseRound{
			roundID:       roundID,
			allowedTxType: allowedTxType,
			payloadAttr:   payloadAttribute,
			state:         state,
			params:        params,
		},
		values:  make(map[any]struct{}),
		decide:  decide,
		exitEvt: exitEvent,
	}
}

func (r *CollectDifferentUntilAllRound) value(p Payload) any {
	v, _ := p.Attribute(r.payloadAttr)
	return v
}

// CheckPayload implements Round.
func (r *CollectDifferentUntilAllRound) CheckPayload(p Payload) error {
	if err := r.checkTypeAndMembership(p); err != nil {
		return err
	}
	v := r.value(p)
	if _, exists := r.values[v]; exists {
		return apperrors.NewTransactionNotValid(apperrors.DuplicateValueMessage(r.payloadAttr, v, r.roundID))
	}
	return nil
}

// ProcessPayload implements Round.
func (r *CollectDifferentUntilAllRound) ProcessPayload(p Payload) error {
	if err := r.checkNotSealed(); err != nil {
		return err
	}
	if err := r.mustCheckTypeAndMembership(p); err != nil {
		return err
	}
	v := r.value(p)
	if _, exists := r.values[v]; exists {
		return apperrors.NewABCIAppInternal(apperrors.DuplicateValueMessage(r.payloadAttr, v, r.roundID))
	}
	r.values[v] = struct{}{}
	r.count++
	return nil
}

// EndBlock implements Round.
func (r *CollectDifferentUntilAllRound) EndBlock() *Outcome {
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

// CollectionThresholdReached reports whether all N participants have
// contributed a distinct value.
func (r *CollectDifferentUntilAllRound) CollectionThresholdReached() bool {
	return r.count == r.params.MaxParticipants()
}

// Collection returns the set of distinct values collected so far, as a
// slice (unordered -- callers needing a deterministic order should
// sort the result, e.g. if the values are comparable strings).
func (r *CollectDifferentUntilAllRound) Collection() []any {
	out := make([]any, 0, len(r.values))
	for v := range r.values {
		out = append(out, v)
	}
	return out
}
