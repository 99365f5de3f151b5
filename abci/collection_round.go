package abci

import "github.com/valory-xyz/abci-round-engine/abci/apperrors"

// CollectionRound collects at most one payload per sender into a
// map[sender]Payload, rejecting duplicates outright. It never decides
// on its own -- EndBlock calls the application-supplied decide, which
// judges whether the collection is complete (e.g. "all N have sent").
type CollectionRound struct {
	baseRound
	collection map[string]Payload
	decide     func(r *CollectionRound) *Outcome
}

// NewCollectionRound constructs a CollectionRound. decide is invoked
// on every EndBlock call and should return a non-nil *Outcome once the
// application considers the collection complete (e.g. by consulting
// r.Len() against some threshold of its own choosing).
func NewCollectionRound(roundID string, allowedTxType TransactionType, state PeriodState, params ConsensusParams, decide func(r *CollectionRound) *Outcome) *CollectionRound {
	return &CollectionRound{
		baseRound: baseRound{
			roundID:       roundID,
			allowedTxType: allowedTxType,
			state:         state,
			params:        params,
		},
		collection: make(map[string]Payload),
		decide:     decide,
	}
}

// CheckPayload implements Round.
func (r *CollectionRound) CheckPayload(p Payload) error {
	if err := r.checkTypeAndMembership(p); err != nil {
		return err
	}
	if _, exists := r.collection[p.Sender]; exists {
		return apperrors.NewTransactionNotValid(apperrors.DuplicateSenderMessage(p.Sender, r.roundID))
	}
	return nil
}

// ProcessPayload implements Round.
func (r *CollectionRound) ProcessPayload(p Payload) error {
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
func (r *CollectionRound) EndBlock() *Outcome {
	if r.sealed {
		return nil
	}
	out := r.decide(r)
	if out != nil {
		r.sealed = true
	}
	return out
}

// Collection returns the sender->Payload map collected so far. Callers
// must not mutate the returned map.
func (r *CollectionRound) Collection() map[string]Payload {
	return r.collection
}

// Len returns how many distinct senders have submitted so far.
// Invariant: Len() <= N always, since ProcessPayload rejects duplicate
// senders.
func (r *CollectionRound) Len() int {
	return len(r.collection)
}

// Payload returns the payload for a given sender, if any was received.
func (r *CollectionRound) Payload(sender string) (Payload, bool) {
	p, ok := r.collection[sender]
	return p, ok
}
