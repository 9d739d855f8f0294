package dune

import "testing"

func newSpiceBlowTestState() *GameState {
	fremen := newTestFactionState(Fremen)
	fremen.OnBoard = []ForceStack{{TerritoryID: "cielago_north", Sector: 0, Regular: 2}}
	fremen.AllyID = Atreides
	atreides := newTestFactionState(Atreides)
	atreides.OnBoard = []ForceStack{{TerritoryID: "cielago_north", Sector: 0, Regular: 3}}
	atreides.AllyID = Fremen
	harkonnen := newTestFactionState(Harkonnen)
	harkonnen.OnBoard = []ForceStack{{TerritoryID: "cielago_north", Sector: 0, Regular: 4}}
	return &GameState{
		Turn:         2,
		Phase:        PhaseSpiceBlow,
		FactionOrder: []Faction{Atreides, Harkonnen, Fremen},
		Factions: map[Faction]*FactionState{
			Atreides:  atreides,
			Harkonnen: harkonnen,
			Fremen:    fremen,
		},
	}
}

func TestApplyDevourSparesFremenAndProtectedAlly(t *testing.T) {
	gs := newSpiceBlowTestState()
	h := &SpiceBlowHandler{mgr: &Manager{}}

	h.applyDevour(gs, SpiceEntry{TerritoryID: "cielago_north", Sector: 0}, true)

	if gs.Factions[Fremen].OnBoard[0].Total() != 2 {
		t.Fatalf("Fremen should always be worm-immune, lost forces: %+v", gs.Factions[Fremen].OnBoard)
	}
	if len(gs.Factions[Atreides].OnBoard) != 1 || gs.Factions[Atreides].OnBoard[0].Total() != 3 {
		t.Fatalf("protected ally should survive the devour, got %+v", gs.Factions[Atreides].OnBoard)
	}
	if len(gs.Factions[Harkonnen].OnBoard) != 0 {
		t.Fatalf("unprotected non-Fremen faction should be devoured, got %+v", gs.Factions[Harkonnen].OnBoard)
	}
	if gs.Factions[Harkonnen].Tanks.Regular != 4 {
		t.Fatalf("devoured forces should land in the tanks, have %d", gs.Factions[Harkonnen].Tanks.Regular)
	}
}

func TestApplyDevourWithoutProtectionKillsAlly(t *testing.T) {
	gs := newSpiceBlowTestState()
	h := &SpiceBlowHandler{mgr: &Manager{}}

	h.applyDevour(gs, SpiceEntry{TerritoryID: "cielago_north", Sector: 0}, false)

	if len(gs.Factions[Atreides].OnBoard) != 0 {
		t.Fatalf("unprotected ally should be devoured, got %+v", gs.Factions[Atreides].OnBoard)
	}
}

func TestApplyDevourWithoutFremenInGameDoesNotPanic(t *testing.T) {
	gs := newSpiceBlowTestState()
	delete(gs.Factions, Fremen)
	gs.Factions[Atreides].AllyID = NoFaction
	h := &SpiceBlowHandler{mgr: &Manager{}}

	h.applyDevour(gs, SpiceEntry{TerritoryID: "cielago_north", Sector: 0}, false)

	if len(gs.Factions[Atreides].OnBoard) != 0 || len(gs.Factions[Harkonnen].OnBoard) != 0 {
		t.Fatalf("expected all on-board forces to be devoured when Fremen is absent")
	}
}

func TestCleanupReshufflesSetAsideTurn1Worms(t *testing.T) {
	gs := newSpiceBlowTestState()
	gs.Turn = 1
	gs.SetAsideWormsTurn1 = []SpiceCard{
		{ID: "worm-1", Type: SpiceCardShaiHulud},
		{ID: "worm-2", Type: SpiceCardShaiHulud},
	}
	h := &SpiceBlowHandler{mgr: &Manager{}}

	newState, events := h.Cleanup(gs)

	if len(newState.SetAsideWormsTurn1) != 0 {
		t.Fatalf("expected SetAsideWormsTurn1 to be cleared, got %d left", len(newState.SetAsideWormsTurn1))
	}
	if len(newState.DeckA)+len(newState.DeckB) != 2 {
		t.Fatalf("expected both set-aside worms to be reshuffled back into the decks, got %d+%d", len(newState.DeckA), len(newState.DeckB))
	}
	var sawReshuffled bool
	for _, e := range events {
		if e.Type == EventSetAsideWormsReshuffled {
			sawReshuffled = true
		}
	}
	if !sawReshuffled {
		t.Fatalf("expected EventSetAsideWormsReshuffled")
	}
}
