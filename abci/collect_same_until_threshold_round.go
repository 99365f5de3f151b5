package abci

import (
	"fmt"
	"sort"

	"github.com/valory-xyz/abci-round-engine/abci/apperrors"
)

// CollectSameUntilThresholdRound collects one payload per sender and
// completes once at least `threshold` senders submitted the same
// PayloadAttribute value. MostVotedPayload resolves ties by
// lexicographic order on the canonical string encoding of the value,
// a deterministic tie-break every replica computes identically.
type CollectSameUntilThresholdRound struct {
	baseRound
	collection map[string]Payload
	decide     EndBlockPolicy
	exitEvt    Event
}

// NewCollectSameUntilThresholdRound constructs the round.
func NewCollectSameUntilThresholdRound(roundID string, allowedTxType TransactionType, payloadAttribute string, state PeriodState, params ConsensusParams, decide EndBlockPolicy, exitEvent Event) *CollectSameUntilThresholdRound {
	return &CollectSameUntilThresholdRound{
		baseRound: baseRound{
			roundID:       roundID,
			allowedTxType: allowedTxType,
			payloadAttr:   payloadAttribute,
			state:         state,
			params:        params,
		},
		collection: make(map[string]Payload),
		decide:     decide,
		exitEvt:    exitEvent,
	}
}

func (r *CollectSameUntilThresholdRound) value(p Payload) any {
	v, _ := p.Attribute(r.payloadAttr)
	return v
}

// CheckPayload implements Round.
func (r *CollectSameUntilThresholdRound) CheckPayload(p Payload) error {
	if err := r.checkTypeAndMembership(p); err != nil {
		return err
	}
	if _, exists := r.collection[p.Sender]; exists {
		return apperrors.NewTransactionNotValid(apperrors.DuplicateSenderMessage(p.Sender, r.roundID))
	}
	return nil
}

// ProcessPayload implements Round.
func (r *CollectSameUntilThresholdRound) ProcessPayload(p Payload) error {
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

// counts tallies how many senders voted for each distinct value,
// keyed by valueKey, imposing canonical
// iteration order (lexicographic on sender) so the tally itself is
// deterministic to compute across replicas even though its result
// (a plain count) does not depend on order.
func (r *CollectSameUntilThresholdRound) counts() map[string]int {
	out := make(map[string]int)
	for _, sender := range sortedSenders(r.collection) {
		v := valueKey(r.value(r.collection[sender]))
		out[v]++
	}
	return out
}

// ThresholdReached reports whether some value was submitted by at
// least Threshold() distinct senders.
func (r *CollectSameUntilThresholdRound) ThresholdReached() bool {
	threshold := r.params.Threshold()
	for _, c := range r.counts() {
		if c >= threshold {
			return true
		}
	}
	return false
}

// MostVotedPayload returns the payload attribute value with at least
// threshold votes. It fails with an ABCIAppInternalError ("not enough
// votes") if ThresholdReached is false; callers are expected to check
// ThresholdReached first.
func (r *CollectSameUntilThresholdRound) MostVotedPayload() (any, error) {
	threshold := r.params.Threshold()
	counts := r.counts()
	var winners []string
	for v, c := range counts {
		if c >= threshold {
			winners = append(winners, v)
		}
	}
	if len(winners) == 0 {
		return nil, apperrors.NewABCIAppInternal("not enough votes")
	}
	sort.Strings(winners)
	winnerKey := winners[0]
	for _, sender := range sortedSenders(r.collection) {
		p := r.collection[sender]
		if valueKey(r.value(p)) == winnerKey {
			v, _ := p.Attribute(r.payloadAttr)
			return v, nil
		}
	}
	return nil, apperrors.NewABCIAppInternal("not enough votes")
}

// IsMajorityPossible reports whether some value can still reach
// threshold given how many senders have not yet voted.
func (r *CollectSameUntilThresholdRound) IsMajorityPossible() bool {
	return isMajorityPossible(r.counts(), len(r.collection), r.params.MaxParticipants(), r.params.Threshold())
}

// EndBlock implements Round: DONE on threshold, NO_MAJORITY once no
// value can reach it, nil otherwise.
func (r *CollectSameUntilThresholdRound) EndBlock() *Outcome {
	if r.sealed {
		return nil
	}
	if r.ThresholdReached() {
		next := r.decide(r.state)
		r.sealed = true
		return &Outcome{State: next, Event: r.exitEvt}
	}
	if !r.IsMajorityPossible() {
		r.sealed = true
		return &Outcome{State: r.state, Event: EventNoMajority}
	}
	return nil
}

// Collection returns the sender->Payload map collected so far.
func (r *CollectSameUntilThresholdRound) Collection() map[string]Payload {
	return r.collection
}

// valueKey renders a payload attribute value into a canonical string
// for use as a map key and for the lexicographic tie-break, so that a
// nil value and ordinary string values both hash and sort
// deterministically.
func valueKey(v any) string {
	if v == nil {
		return "\x00nil"
	}
	if s, ok := v.(string); ok {
		return s
	}
	return formatAny(v)
}

func formatAny(v any) string {
	type stringer interface{ String() string }
	if s, ok := v.(stringer); ok {
		return s.String()
	}
	return fmt.Sprint(v)
}
