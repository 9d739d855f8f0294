package dune

import "testing"

func newShipMoveTestState() *GameState {
	atreides := newTestFactionState(Atreides)
	atreides.Reserves.Regular = 10
	atreides.Spice = 10
	gs := &GameState{
		Turn:         1,
		Phase:        PhaseShipMove,
		FactionOrder: []Faction{Atreides},
		StormOrder:   []Faction{Atreides},
		Factions:     map[Faction]*FactionState{Atreides: atreides},
	}
	return gs
}

func TestShipMoveSkipsGuildTimingWithoutGuildInGame(t *testing.T) {
	gs := newShipMoveTestState()
	h := &ShipMoveHandler{mgr: NewManager(nil)}
	gs, _ = h.Initialize(gs)

	result, err := h.ProcessStep(gs, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.PendingRequests) != 1 || result.PendingRequests[0].RequestType != ReqShipForces {
		t.Fatalf("expected to skip straight to a ReqShipForces dispatch, got %+v", result.PendingRequests)
	}
}

func TestShipMoveShipsToHomeworldFreeOfCharge(t *testing.T) {
	gs := newShipMoveTestState()
	h := &ShipMoveHandler{mgr: NewManager(nil)}
	gs, _ = h.Initialize(gs)
	result, _ := h.ProcessStep(gs, nil) // dispatch ship
	gs = result.State

	result, err := h.ProcessStep(gs, []AgentResponse{
		{FactionID: Atreides, Data: map[string]any{"territory": "arrakeen", "sector": 9, "regular": 5}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gs := result.State; gs.Factions[Atreides].Spice != 10 {
		t.Fatalf("expected shipping to the homeworld to cost no spice, spice left %d", gs.Factions[Atreides].Spice)
	}
	var onArrakeen int
	for _, s := range result.State.Factions[Atreides].OnBoard {
		if s.TerritoryID == "arrakeen" {
			onArrakeen += s.Regular
		}
	}
	if onArrakeen != 5 {
		t.Fatalf("expected 5 forces shipped to arrakeen, got %d", onArrakeen)
	}
	if result.State.PhaseStep != shipMoveStepMove {
		t.Fatalf("expected to advance to the move step, got %s", result.State.PhaseStep)
	}
}

func TestShipMoveCompletesAfterSoleFactionPassesMove(t *testing.T) {
	gs := newShipMoveTestState()
	h := &ShipMoveHandler{mgr: NewManager(nil)}
	gs, _ = h.Initialize(gs)
	result, _ := h.ProcessStep(gs, nil) // dispatch ship
	gs = result.State
	result, _ = h.ProcessStep(gs, []AgentResponse{{FactionID: Atreides, Passed: true}}) // decline to ship
	gs = result.State
	if gs.PhaseStep != shipMoveStepMove {
		t.Fatalf("expected the move step to follow even a declined shipment, got %s", gs.PhaseStep)
	}

	result, _ = h.ProcessStep(gs, nil) // dispatch move
	gs = result.State
	result, err := h.ProcessStep(gs, []AgentResponse{{FactionID: Atreides, Passed: true}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	gs = result.State

	result, err = h.ProcessStep(gs, nil) // idx now past the last faction
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.PhaseComplete {
		t.Fatalf("expected the phase to complete once the sole faction has shipped and moved")
	}
}
