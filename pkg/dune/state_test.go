package dune

import "testing"

func newTestFactionState(f Faction) *FactionState {
	return &FactionState{
		Faction:  f,
		Traitors: map[string]bool{},
		Leaders:  map[string]*LeaderState{"duncan_idaho": {ID: "duncan_idaho", Location: LeaderOffBoard}},
	}
}

func TestGameStateCloneIsIndependent(t *testing.T) {
	gs := &GameState{
		Turn:         3,
		FactionOrder: []Faction{Atreides, Harkonnen},
		Factions: map[Faction]*FactionState{
			Atreides:  newTestFactionState(Atreides),
			Harkonnen: newTestFactionState(Harkonnen),
		},
		SpiceOnBoard: []SpiceEntry{{TerritoryID: "cielago_north", Sector: 0, Amount: 8}},
	}

	clone := gs.Clone()
	clone.Turn = 99
	clone.Factions[Atreides].Spice = 42
	clone.SpiceOnBoard[0].Amount = 0
	clone.FactionOrder[0] = Harkonnen

	if gs.Turn != 3 {
		t.Fatalf("mutating clone.Turn leaked into original: got %d", gs.Turn)
	}
	if gs.Factions[Atreides].Spice != 0 {
		t.Fatalf("mutating clone faction spice leaked into original: got %d", gs.Factions[Atreides].Spice)
	}
	amt, _ := gs.SpiceAt("cielago_north", 0)
	if amt != 8 {
		t.Fatalf("mutating clone spice pile leaked into original: got %d", amt)
	}
	if gs.FactionOrder[0] != Atreides {
		t.Fatalf("mutating clone.FactionOrder leaked into original: got %v", gs.FactionOrder[0])
	}
}

func TestFactionStateTotalForcesConservedAcrossMoves(t *testing.T) {
	gs := &GameState{Factions: map[Faction]*FactionState{Atreides: newTestFactionState(Atreides)}}
	fs := gs.Factions[Atreides]
	fs.Reserves.Regular = 20
	before := fs.TotalForces()

	addForces(gs, Atreides, "arrakeen", 0, 10, 0)
	killForcesAt(gs, Atreides, "arrakeen", 0, 3, 0)
	reviveForces(gs, Atreides, 3, 0)

	after := fs.TotalForces()
	if before != after {
		t.Fatalf("force conservation violated: before=%d after=%d", before, after)
	}
}

func TestAllianceIsSymmetric(t *testing.T) {
	gs := &GameState{Factions: map[Faction]*FactionState{
		Atreides: newTestFactionState(Atreides),
		Fremen:   newTestFactionState(Fremen),
	}}
	formAlliance(gs, Atreides, Fremen)
	if gs.Factions[Atreides].AllyID != Fremen || gs.Factions[Fremen].AllyID != Atreides {
		t.Fatalf("alliance not symmetric after formAlliance")
	}
	breakAlliance(gs, Atreides)
	if gs.Factions[Atreides].AllyID != NoFaction || gs.Factions[Fremen].AllyID != NoFaction {
		t.Fatalf("alliance not cleared symmetrically after breakAlliance")
	}
}

func TestMaxHandSizeBound(t *testing.T) {
	fs := newTestFactionState(Harkonnen)
	if fs.MaxHandSize() != 8 {
		t.Fatalf("expected Harkonnen max hand size 8, got %d", fs.MaxHandSize())
	}
	fs2 := newTestFactionState(Atreides)
	if fs2.MaxHandSize() != 4 {
		t.Fatalf("expected Atreides max hand size 4, got %d", fs2.MaxHandSize())
	}
}
