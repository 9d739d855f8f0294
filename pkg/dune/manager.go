package dune

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// StepResult is what a phase handler's ProcessStep returns to the manager:
// the new working state, any decisions still outstanding, the events
// produced this step, and whether the phase is finished.
type StepResult struct {
	State           *GameState
	PendingRequests []AgentRequest
	Events          []Event
	PhaseComplete   bool
}

// PhaseHandler is one phase's sub-state-machine (§4.1): Initialize runs
// once on phase entry, ProcessStep runs repeatedly (each time fed the
// agent responses to its last round of requests) until it reports
// PhaseComplete, and Cleanup runs once on exit.
type PhaseHandler interface {
	Initialize(gs *GameState) (*GameState, []Event)
	ProcessStep(gs *GameState, responses []AgentResponse) (StepResult, error)
	Cleanup(gs *GameState) (*GameState, []Event)
}

// EventListener receives every event the manager's run emits, in order.
type EventListener func(Event)

// Manager drives the fixed phase sequence over a GameState, dispatching
// decisions to an AgentProvider and enforcing the per-phase step cap. It
// mirrors the teacher's PhaseService loop, generalized from Diplomacy's
// single adjudication phase to Dune's nine-phase turn structure.
type Manager struct {
	Map       *DuneMap
	Provider  AgentProvider
	StepCap   int
	listeners []EventListener
	handlers  map[PhaseType]PhaseHandler
}

// NewManager builds a manager wired to the standard map and the given
// agent provider, with the default step cap.
func NewManager(provider AgentProvider) *Manager {
	m := &Manager{
		Map:      StandardMap(),
		Provider: provider,
		StepCap:  StepCap,
	}
	m.handlers = map[PhaseType]PhaseHandler{
		PhaseSetup:           &SetupHandler{mgr: m},
		PhaseStorm:           &StormHandler{mgr: m},
		PhaseSpiceBlow:       &SpiceBlowHandler{mgr: m},
		PhaseCharity:         &CharityHandler{mgr: m},
		PhaseBidding:         &BiddingHandler{mgr: m},
		PhaseRevival:         &RevivalHandler{mgr: m},
		PhaseShipMove:        &ShipMoveHandler{mgr: m},
		PhaseBattle:          &BattleHandler{mgr: m},
		PhaseSpiceCollection: &SpiceCollectionHandler{mgr: m},
		PhaseMentatPause:     &MentatPauseHandler{mgr: m},
	}
	return m
}

// AddEventListener registers a callback invoked synchronously for every
// event the manager emits during Run/RunPhase.
func (m *Manager) AddEventListener(l EventListener) {
	m.listeners = append(m.listeners, l)
}

// RemoveEventListener removes every registered listener at once; a single
// listener cannot be removed on its own.
func (m *Manager) RemoveEventListener() {
	m.listeners = nil
}

func (m *Manager) emit(events []Event) {
	for _, e := range events {
		for _, l := range m.listeners {
			l(e)
		}
	}
}

func (m *Manager) nextEventID() string {
	return uuid.NewString()
}

// Run drives the engine from initialState to completion: through setup,
// then the fixed PhaseOrder repeated until a winner is decided or
// Config.MaxTurns is reached (§2, §8).
func (m *Manager) Run(ctx context.Context, initialState *GameState) (*GameState, error) {
	gs := initialState.Clone()
	gs.Phase = PhaseSetup

	for {
		var err error
		gs, err = m.RunPhase(ctx, gs)
		if err != nil {
			m.emit([]Event{{Type: EventError, Turn: gs.Turn, Phase: gs.Phase, Payload: err.Error()}})
			return gs, err
		}
		if gs.Winner != NoFaction {
			m.emit([]Event{{Type: EventGameEnded, Turn: gs.Turn, Phase: gs.Phase, Faction: gs.Winner}})
			return gs, nil
		}
		if gs.Phase == PhaseSetup {
			gs.Phase = PhaseOrder[0]
			gs.Turn = 1
			m.emit([]Event{{Type: EventTurnStarted, Turn: gs.Turn, Phase: gs.Phase}})
			continue
		}
		var done bool
		gs, done = m.advancePhase(gs)
		if done {
			m.emit([]Event{{Type: EventGameEnded, Turn: gs.Turn, Phase: gs.Phase, Faction: gs.Winner}})
			return gs, nil
		}
	}
}

// advancePhase moves gs.Phase to the next entry in PhaseOrder, rolling
// into a new turn (and checking the turn cap) when it wraps. The bool
// return reports whether the run is over (turn cap reached), regardless
// of whether victoryCheck found an outright winner or the game ends in a
// draw.
func (m *Manager) advancePhase(gs *GameState) (*GameState, bool) {
	idx := -1
	for i, p := range PhaseOrder {
		if p == gs.Phase {
			idx = i
			break
		}
	}
	if idx == -1 || idx == len(PhaseOrder)-1 {
		m.emit([]Event{{Type: EventTurnEnded, Turn: gs.Turn, Phase: gs.Phase}})
		if gs.Turn >= gs.Config.MaxTurns {
			gs.Winner = victoryCheck(gs, m.Map)
			return gs, true
		}
		gs.Turn++
		gs.Phase = PhaseOrder[0]
		m.emit([]Event{{Type: EventTurnStarted, Turn: gs.Turn, Phase: gs.Phase}})
		return gs, false
	}
	gs.Phase = PhaseOrder[idx+1]
	return gs, false
}

// RunPhase drives one phase's handler to completion: Initialize, then
// ProcessStep in a loop (dispatching pending requests to the provider and
// feeding back responses) until PhaseComplete or the step cap is hit, then
// Cleanup.
func (m *Manager) RunPhase(ctx context.Context, gs *GameState) (*GameState, error) {
	h, ok := m.handlers[gs.Phase]
	if !ok {
		return gs, fmt.Errorf("no handler registered for phase %s", gs.Phase)
	}

	gs, initEvents := h.Initialize(gs)
	m.emit(initEvents)
	m.emit([]Event{{Type: EventPhaseStarted, Turn: gs.Turn, Phase: gs.Phase}})

	var responses []AgentResponse
	for step := 0; ; step++ {
		if step >= m.StepCap {
			m.emit([]Event{{Type: EventStepCapAborted, Turn: gs.Turn, Phase: gs.Phase, Payload: m.StepCap}})
			return gs, &StepCapExceededError{Phase: gs.Phase, Cap: m.StepCap}
		}
		result, err := h.ProcessStep(gs, responses)
		if err != nil {
			return gs, err
		}
		gs = result.State
		m.emit(result.Events)
		m.emit([]Event{{Type: EventStepProcessed, Turn: gs.Turn, Phase: gs.Phase}})

		if err := checkInvariants(gs, m.Map); err != nil {
			m.emit([]Event{{Type: EventInvariantViolated, Turn: gs.Turn, Phase: gs.Phase, Payload: err.Invariant}})
			return gs, err
		}

		if result.PhaseComplete {
			break
		}

		for i := range result.PendingRequests {
			if result.PendingRequests[i].ID == "" {
				result.PendingRequests[i].ID = m.nextEventID()
			}
			m.emit([]Event{{Type: EventRequestDispatched, Turn: gs.Turn, Phase: gs.Phase,
				Faction: result.PendingRequests[i].FactionID, Payload: result.PendingRequests[i].RequestType}})
		}
		simultaneous := len(result.PendingRequests) > 1
		responses, err = m.Provider.GetResponses(ctx, result.PendingRequests, simultaneous)
		if err != nil {
			return gs, err
		}
	}

	gs, cleanupEvents := h.Cleanup(gs)
	m.emit(cleanupEvents)
	m.emit([]Event{{Type: EventPhaseEnded, Turn: gs.Turn, Phase: gs.Phase}})
	return gs, nil
}
