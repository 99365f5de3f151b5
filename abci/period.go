package abci

import (
	"sync"

	"github.com/valory-xyz/abci-round-engine/abci/apperrors"
	"github.com/valory-xyz/abci-round-engine/applog"
)

var periodLog = applog.Named("period")

// BlockHeader carries the block metadata a Period records at
// BeginBlock.
type BlockHeader struct {
	Height int64
}

// RoundFactory builds the next Round instance given the PeriodState it
// should be constructed against. The application's transition function
// is a map from (current round id, event) to RoundFactory, so round
// succession is table-driven rather than hard-linked between concrete
// round types.
type RoundFactory func(state PeriodState, params ConsensusParams) Round

// TransitionFunction maps a round id and the event it exited with to
// the factory for the next round. A (roundID, event) pair absent from
// the table means the application considers that combination
// terminal.
type TransitionFunction map[string]map[Event]RoundFactory

// Period holds the current round and advances it as rounds complete,
// exposing CurrentRoundID as the single fact the behaviour layer
// polls. Mutations are guarded by a mutex defensively: a real
// embedding may drive ABCI delivery and the behaviour FSM tick from
// different goroutines even though neither needs true concurrency
// within itself.
type Period struct {
	mu           sync.Mutex
	params       ConsensusParams
	transition   TransitionFunction
	current      Round
	currentBlock *BlockHeader
}

// NewPeriod constructs a Period starting at initial, built by
// applying initialFactory to the given state and params.
func NewPeriod(initialFactory RoundFactory, state PeriodState, params ConsensusParams, transition TransitionFunction) *Period {
	return &Period{
		params:     params,
		transition: transition,
		current:    initialFactory(state, params),
	}
}

// CurrentRoundID returns the id of the round currently accepting
// payloads.
func (p *Period) CurrentRoundID() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current == nil {
		return ""
	}
	return p.current.RoundID()
}

// BeginBlock records block metadata for the block about to be
// delivered.
func (p *Period) BeginBlock(header BlockHeader) {
	p.mu.Lock()
	defer p.mu.Unlock()
	h := header
	p.currentBlock = &h
}

// DeliverTx routes payload through the current round's CheckPayload
// then ProcessPayload.
func (p *Period) DeliverTx(payload Payload) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current == nil {
		return apperrors.NewABCIAppInternal("no current round: period has reached a terminal state")
	}
	if err := p.current.CheckPayload(payload); err != nil {
		return err
	}
	return p.current.ProcessPayload(payload)
}

// EndBlock calls the current round's EndBlock; on a non-nil outcome it
// looks up the next round via the transition function keyed on
// (current round id, event) and installs it atomically, so
// CurrentRoundID observers never see a torn transition.
func (p *Period) EndBlock() *Outcome {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current == nil {
		return nil
	}
	outcome := p.current.EndBlock()
	if outcome == nil {
		return nil
	}
	fromRoundID := p.current.RoundID()
	factory, ok := p.transition[fromRoundID][outcome.Event]
	if !ok {
		periodLog.Infof("period: round %s exited with event %s; no transition registered, period terminal", fromRoundID, outcome.Event)
		p.current = nil
		return outcome
	}
	p.current = factory(outcome.State, p.params)
	periodLog.Infof("period: round %s -> %s on event %s", fromRoundID, p.current.RoundID(), outcome.Event)
	return outcome
}

// ReplayBatch feeds a batch of payloads through DeliverTx, continuing
// past rejections instead of stopping at the first one, and returns
// every rejection aggregated into a single error via
// hashicorp/go-multierror -- a diagnostic helper for tooling that
// wants to know everything wrong with a batch at once, not part of the
// ABCI delivery path itself, which always stops at the first
// rejection.
func (p *Period) ReplayBatch(payloads []Payload) error {
	return apperrors.Batch(func(record func(error)) {
		for _, payload := range payloads {
			if err := p.DeliverTx(payload); err != nil {
				record(err)
			}
		}
	})
}
