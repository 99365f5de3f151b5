package sharedstate

import (
	"sync"

	"github.com/valory-xyz/abci-round-engine/abci"
	"github.com/valory-xyz/abci-round-engine/applog"
)

var log = applog.Named("sharedstate")

// TransitionTable mirrors abci.TransitionFunction but maps each
// (round id, event) pair to a round name rather than a RoundFactory
// directly, so the destinations can be resolved through a TypeRegistry.
type TransitionTable map[string]map[abci.Event]string

// SharedState wraps the abci.Period a skill drives, plus the
// skill-specific mutable facts that live alongside a period's
// consensus state rather than inside it: the last seen block height,
// whether an out-of-band info blob has been received, and a map of
// pending request nonces to the handler waiting on them. None of
// these three carry a core invariant; they are external-surface
// scaffolding an application is free to ignore.
type SharedState struct {
	mu sync.Mutex

	registry   *TypeRegistry
	params     abci.ConsensusParams
	transition TransitionTable

	period *abci.Period

	currentBlock     int64
	infoReceived     bool
	requestToHandler map[string]string
}

// New constructs a SharedState bound to registry and params. Setup
// must be called before the period is driven.
func New(registry *TypeRegistry, params abci.ConsensusParams, transition TransitionTable) *SharedState {
	return &SharedState{
		registry:         registry,
		params:           params,
		transition:       transition,
		requestToHandler: make(map[string]string),
	}
}

// Setup instantiates the Period starting at initialRoundName, with
// initialState as the genesis PeriodState. An initialRoundName or a
// transition-table destination name that isn't registered is a fatal,
// loud configuration error raised here -- never deferred to first use.
// The table's source keys are used as round ids as they are and are
// not looked up in the registry.
func (s *SharedState) Setup(initialRoundName string, initialState abci.PeriodState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	initialFactory, err := s.registry.Resolve(initialRoundName)
	if err != nil {
		return err
	}

	resolved := make(abci.TransitionFunction, len(s.transition))
	for fromRound, byEvent := range s.transition {
		resolved[fromRound] = make(map[abci.Event]abci.RoundFactory, len(byEvent))
		for event, toRoundName := range byEvent {
			factory, err := s.registry.Resolve(toRoundName)
			if err != nil {
				return err
			}
			resolved[fromRound][event] = factory
		}
	}

	s.period = abci.NewPeriod(initialFactory, initialState, s.params, resolved)
	log.Infof("sharedstate: period set up, initial round %q", initialRoundName)
	return nil
}

// Period returns the underlying abci.Period. Panics if Setup has not
// run yet -- a programming error, not a runtime condition.
func (s *SharedState) Period() *abci.Period {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.period == nil {
		panic("sharedstate: Period() called before Setup()")
	}
	return s.period
}

// RecordBlock updates the last seen block height. Neither the core
// Period nor the behaviour FSM calls it.
func (s *SharedState) RecordBlock(height int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.currentBlock = height
}

// CurrentBlock returns the last height recorded via RecordBlock.
func (s *SharedState) CurrentBlock() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentBlock
}

// SetInfoReceived sets the info_received flag. Neither the core Period
// nor the behaviour FSM reads it.
func (s *SharedState) SetInfoReceived(received bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.infoReceived = received
}

// InfoReceived reports the info_received flag.
func (s *SharedState) InfoReceived() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.infoReceived
}

// TrackRequest associates a pending request nonce with the name of the
// handler waiting on its response.
func (s *SharedState) TrackRequest(nonce, handler string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requestToHandler[nonce] = handler
}

// ResolveRequest pops and returns the handler tracked for nonce, if any.
func (s *SharedState) ResolveRequest(nonce string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	handler, ok := s.requestToHandler[nonce]
	if ok {
		delete(s.requestToHandler, nonce)
	}
	return handler, ok
}
