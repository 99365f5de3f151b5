// Package abci implements the core Round/Period state machine that a
// family of replicated agents drive in lock-step from an ABCI-style
// consensus transport. A closed set of round variants
// (collection_round.go and siblings) all satisfy the flat Round
// interface in round.go, rather than a class tower.
package abci

import "github.com/google/uuid"

// TransactionType discriminates payload variants.
type TransactionType string

// Payload is a sender-stamped, round-scoped contribution to a round's
// collection. Equality is by value: two payloads with identical
// Sender, TransactionType and Attributes are the same contribution.
type Payload struct {
	// Sender is the agent identifier that produced this payload, stable
	// across the period.
	Sender string
	// TransactionType discriminates which round this payload is valid
	// for; it must equal the round's AllowedTxType to be admitted.
	TransactionType TransactionType
	// Attributes carries the payload's domain-specific fields (e.g.
	// "value", "vote"). A round only ever reads the attribute named by
	// its own PayloadAttribute.
	Attributes map[string]any

	// EnvelopeID is a tracing aid stamped by NewPayload when the payload
	// is constructed, distinct from the (round, sender) dedup slot used
	// for correctness. No round logic reads it, and no log line of this
	// module prints it.
	EnvelopeID string
}

// NewPayload constructs a Payload and stamps it with a fresh envelope
// id. Two payloads built from identical inputs still compare unequal
// on EnvelopeID; use Equal to compare by value.
func NewPayload(sender string, txType TransactionType, attrs map[string]any) Payload {
	return Payload{
		Sender:          sender,
		TransactionType: txType,
		Attributes:      attrs,
		EnvelopeID:      uuid.NewString(),
	}
}

// Attribute returns the named attribute and whether it was present.
func (p Payload) Attribute(name string) (any, bool) {
	v, ok := p.Attributes[name]
	return v, ok
}

// Equal reports value equality: sender, transaction type and
// attributes match; EnvelopeID is deliberately excluded since it is
// tracing metadata, not identity.
func (p Payload) Equal(other Payload) bool {
	if p.Sender != other.Sender || p.TransactionType != other.TransactionType {
		return false
	}
	if len(p.Attributes) != len(other.Attributes) {
		return false
	}
	for k, v := range p.Attributes {
		if ov, ok := other.Attributes[k]; !ok || ov != v {
			return false
		}
	}
	return true
}
