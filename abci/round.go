package abci

import (
	"sort"

	"github.com/valory-xyz/abci-round-engine/abci/apperrors"
)

// Event is a string label chosen by a completed round (or a completed
// behaviour) that drives the next transition. DONE, NEGATIVE, NONE and
// NO_MAJORITY are the events the round variants in this package emit;
// applications are free to define their own on top.
type Event string

const (
	EventDone       Event = "DONE"
	EventNegative   Event = "NEGATIVE"
	EventNone       Event = "NONE"
	EventNoMajority Event = "NO_MAJORITY"
)

// Outcome is what EndBlock returns once a round is decided: the next
// PeriodState and the event that selects the next round via the
// application's transition function.
type Outcome struct {
	State PeriodState
	Event Event
}

// Round is the shared interface every round variant in this package
// satisfies: a flat interface plus a closed set of concrete variant
// types, no inheritance tower.
type Round interface {
	// RoundID is the string identifying this round within the
	// application's transition function.
	RoundID() string
	// AllowedTxType is the only TransactionType this round will admit.
	AllowedTxType() TransactionType
	// CheckPayload is pure and side-effect free; it returns a
	// *apperrors.TransactionNotValidError if p would be rejected.
	CheckPayload(p Payload) error
	// ProcessPayload applies p to the round's collection. It returns a
	// *apperrors.ABCIAppInternalError on any violation CheckPayload
	// should already have caught -- such a failure means a replica has
	// diverged.
	ProcessPayload(p Payload) error
	// EndBlock returns a non-nil Outcome once the round is decided, or
	// nil if it should keep accepting payloads.
	EndBlock() *Outcome
}

// baseRound holds the fields every variant shares: its identity, the
// PeriodState snapshot it was constructed against, the consensus
// parameters, and the payload attribute name used as the vote key
// where a variant needs one. It is embedded, never used standalone.
type baseRound struct {
	roundID         string
	allowedTxType   TransactionType
	payloadAttr     string
	state           PeriodState
	params          ConsensusParams
	sealed          bool
}

func (b *baseRound) RoundID() string               { return b.roundID }
func (b *baseRound) AllowedTxType() TransactionType { return b.allowedTxType }

// checkNotSealed guards ProcessPayload against being called again
// after EndBlock has already returned a non-nil Outcome. Period never
// does this in normal operation -- it swaps the round out as soon as
// EndBlock decides -- so tripping this is always a caller bug.
func (b *baseRound) checkNotSealed() error {
	if b.sealed {
		return apperrors.NewABCIAppInternal("round " + b.roundID + " is already sealed")
	}
	return nil
}

// checkTypeAndMembership runs the first two rejection rules common to
// every round variant: transaction type must match, sender must be a
// participant. It returns a *apperrors.TransactionNotValidError
// suitable for CheckPayload; each
// variant's ProcessPayload re-derives the ABCIAppInternalError
// equivalent via mustCheckTypeAndMembership.
func (b *baseRound) checkTypeAndMembership(p Payload) error {
	if p.TransactionType != b.allowedTxType {
		return apperrors.NewTransactionNotValid(
			"invalid transaction type " + string(p.TransactionType) + " for round: " + b.roundID,
		)
	}
	if !b.state.HasParticipant(p.Sender) {
		return apperrors.NewTransactionNotValid(apperrors.ParticipantsMessage(b.state.Participants()))
	}
	return nil
}

// mustCheckTypeAndMembership is the ProcessPayload counterpart:
// identical rule, fatal error kind.
func (b *baseRound) mustCheckTypeAndMembership(p Payload) error {
	if p.TransactionType != b.allowedTxType {
		return apperrors.NewABCIAppInternal(
			"invalid transaction type " + string(p.TransactionType) + " for round: " + b.roundID,
		)
	}
	if !b.state.HasParticipant(p.Sender) {
		return apperrors.NewABCIAppInternal(apperrors.ParticipantsMessage(b.state.Participants()))
	}
	return nil
}

// sortedSenders returns the keys of a sender-keyed collection map in
// canonical (lexicographic) order, so every replica iterating the
// same collection produces byte-identical derived output.
func sortedSenders[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// EndBlockPolicy is supplied by the embedding application at round
// construction time. It is invoked once a round's acceptance
// threshold is met and derives the next PeriodState from the current
// one. It receives only the PeriodState; the round's collection is not
// passed to it.
type EndBlockPolicy func(state PeriodState) PeriodState
