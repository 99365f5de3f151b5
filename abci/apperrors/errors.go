// Package apperrors contains the two error kinds payload ingestion can
// raise: a non-fatal admission rejection and a fatal
// internal-consistency violation. They are textually similar by
// construction (both route through the same message builders) but
// symbolically distinct types, so callers can tell them apart with a
// type switch instead of string matching.
package apperrors

import (
	"fmt"
	"sort"

	"github.com/pkg/errors"
)

// TransactionNotValidError signals that a payload was rejected during
// admission (CheckPayload). It is never fatal: the caller drops the
// payload and the round is left untouched.
type TransactionNotValidError struct {
	msg   string
	cause error
}

// NewTransactionNotValid wraps msg as a non-fatal admission rejection.
func NewTransactionNotValid(msg string) *TransactionNotValidError {
	return &TransactionNotValidError{msg: msg, cause: errors.New(msg)}
}

func (e *TransactionNotValidError) Error() string { return e.msg }

// Cause satisfies github.com/pkg/errors' Causer interface.
func (e *TransactionNotValidError) Cause() error { return e.cause }

// ABCIAppInternalError signals that a payload passed admission but
// failed ProcessPayload, or that a setup-time configuration invariant
// was violated. This always indicates replica divergence or a
// programming error; callers must not retry or recover from it.
type ABCIAppInternalError struct {
	msg   string
	cause error
}

// NewABCIAppInternal wraps msg as a fatal internal-consistency error.
func NewABCIAppInternal(msg string) *ABCIAppInternalError {
	return &ABCIAppInternalError{msg: "internal error: " + msg, cause: errors.New(msg)}
}

func (e *ABCIAppInternalError) Error() string { return e.msg }

// Cause satisfies github.com/pkg/errors' Causer interface.
func (e *ABCIAppInternalError) Cause() error { return e.cause }

// ----- shared message builders, so the two error kinds above never
// drift apart in wording -----

// ParticipantsMessage renders the "sender not in list of participants"
// message with participants in a total, deterministic order.
func ParticipantsMessage(participants []string) string {
	sorted := make([]string, len(participants))
	copy(sorted, participants)
	sort.Strings(sorted)
	return fmt.Sprintf("sender not in list of participants: %s", formatStringList(sorted))
}

// DuplicateSenderMessage renders the CollectionRound duplicate-sender
// rejection message.
func DuplicateSenderMessage(sender, roundID string) string {
	return fmt.Sprintf("sender %s has already sent value for round: %s", sender, roundID)
}

// DuplicateValueMessage renders the CollectDifferentUntilAllRound
// duplicate-value rejection message.
func DuplicateValueMessage(attribute string, value any, roundID string) string {
	return fmt.Sprintf("payload attribute %s with value %v has already been added for round: %s", attribute, value, roundID)
}

// NotKeeperMessage renders the OnlyKeeperSendsRound wrong-sender
// rejection message.
func NotKeeperMessage(sender string) string {
	return fmt.Sprintf("%s not elected as keeper.", sender)
}

// KeeperAlreadySetMessage renders the OnlyKeeperSendsRound
// already-submitted rejection message (process_payload wording).
func KeeperAlreadySetMessage() string {
	return "keeper already set the payload."
}

// KeeperValueAlreadySetMessage renders the OnlyKeeperSendsRound
// already-submitted rejection message as raised during admission
// (CheckPayload), worded differently from the ProcessPayload variant
// above since the two fire at different points in the payload
// lifecycle.
func KeeperValueAlreadySetMessage() string {
	return "keeper payload value already set."
}

func formatStringList(xs []string) string {
	out := "["
	for i, x := range xs {
		if i > 0 {
			out += ", "
		}
		out += "'" + x + "'"
	}
	return out + "]"
}
