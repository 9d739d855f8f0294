package dune

import "testing"

// Scenarios drawn directly from the concrete seeded examples, exercising
// each one against the handler that actually implements it rather than a
// paraphrase of the rule.

func TestScenarioStormWrapsAroundTheBoard(t *testing.T) {
	gs := &GameState{StormSector: 17}

	passed := moveStormSectors(gs, 2+1)

	if gs.StormSector != 2 {
		t.Fatalf("expected the storm to end at sector 2, got %d", gs.StormSector)
	}
	want := []int{0, 1, 2}
	if len(passed) != len(want) {
		t.Fatalf("expected the storm to pass through %v, got %v", want, passed)
	}
	for i := range want {
		if passed[i] != want[i] {
			t.Fatalf("expected the storm to pass through %v, got %v", want, passed)
		}
	}
}

func TestScenarioTurn1ShaiHuludSetAsideAndReshuffle(t *testing.T) {
	gs := &GameState{
		Turn: 1,
		DeckA: []SpiceCard{
			{ID: "worm_1", Type: SpiceCardShaiHulud},
			{ID: "territory_1", Type: SpiceCardTerritory, TerritoryID: "cielago_north", Sector: 1, Amount: 6},
		},
	}
	h := &SpiceBlowHandler{mgr: NewManager(nil)}
	gs, _ = h.Initialize(gs)

	result, err := h.ProcessStep(gs, nil) // reveal deck A
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	gs = result.State

	amt, ok := gs.SpiceAt("cielago_north", 1)
	if !ok || amt != 6 {
		t.Fatalf("expected 6 spice placed at Cielago North sector 1, got %d (present=%v)", amt, ok)
	}
	if len(gs.SetAsideWormsTurn1) != 1 || gs.SetAsideWormsTurn1[0].ID != "worm_1" {
		t.Fatalf("expected the turn-1 worm set aside rather than devouring, got %+v", gs.SetAsideWormsTurn1)
	}
	if gs.WormCount != 0 {
		t.Fatalf("expected wormCount to stay 0 for a set-aside turn-1 worm, got %d", gs.WormCount)
	}

	result, err = h.ProcessStep(gs, nil) // worm decision: nothing pending, phase completes
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.PhaseComplete {
		t.Fatalf("expected the phase to complete with no devours pending")
	}
	gs = result.State

	gs, events := h.Cleanup(gs)
	if len(gs.SetAsideWormsTurn1) != 0 {
		t.Fatalf("expected the set-aside worm to be cleared, got %d left", len(gs.SetAsideWormsTurn1))
	}
	if len(gs.DeckA)+len(gs.DeckB) != 1 {
		t.Fatalf("expected the set-aside worm reshuffled back into a deck, got %d+%d", len(gs.DeckA), len(gs.DeckB))
	}
	if gs.WormCount != 0 {
		t.Fatalf("expected wormCount to remain 0 after cleanup, got %d", gs.WormCount)
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

func TestScenarioEmperorAllyRevivalBoost(t *testing.T) {
	emperor := newTestFactionState(Emperor)
	emperor.AllyID = Harkonnen
	emperor.Spice = 20
	harkonnen := newTestFactionState(Harkonnen)
	harkonnen.AllyID = Emperor
	harkonnen.Tanks.Regular = 10
	harkonnen.Spice = 6 // covers its own 3 paid revivals at 2 spice each
	gs := &GameState{
		Turn:         2,
		Phase:        PhaseRevival,
		FactionOrder: []Faction{Emperor, Harkonnen},
		Factions: map[Faction]*FactionState{
			Emperor:   emperor,
			Harkonnen: harkonnen,
		},
	}
	h := &RevivalHandler{mgr: &Manager{}}
	gs, _ = h.Initialize(gs)

	result, err := h.ProcessStep(gs, nil) // dispatch the boost offer
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	gs = result.State
	result, err = h.ProcessStep(gs, []AgentResponse{{FactionID: Emperor, Data: EmperorAllyRevivalBoost}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	gs = result.State

	result, err = h.ProcessStep(gs, nil) // dispatch forces requests
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	gs = result.State

	// Harkonnen's free allotment (2) plus its own paid cap (3) covers 5 of
	// these; the 2 beyond that come from the Emperor's boost.
	result, err = h.ProcessStep(gs, []AgentResponse{
		{FactionID: Harkonnen, Data: map[string]int{"regular": 7}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	gs = result.State

	if gs.Factions[Emperor].Spice != 20-4 {
		t.Fatalf("expected the Emperor to lose 4 spice for the 2 boosted revivals, spice left %d", gs.Factions[Emperor].Spice)
	}
	// 2 free + 3 own-paid + 2 boosted = 7 forces revived; the boost is what
	// makes the last 2 of those possible at all.
	if gs.Factions[Harkonnen].Reserves.Regular != 7 {
		t.Fatalf("expected all 7 requested forces to revive, 2 of them via the boost, got %d", gs.Factions[Harkonnen].Reserves.Regular)
	}
	if gs.Factions[Emperor].Flags.EmperorAllyRevivalsUsed != 2 {
		t.Fatalf("expected emperorAllyRevivalsUsed to record 2, got %d", gs.Factions[Emperor].Flags.EmperorAllyRevivalsUsed)
	}
	if remaining := EmperorAllyRevivalBoost - gs.Factions[Emperor].Flags.EmperorAllyRevivalsUsed; remaining != 1 {
		t.Fatalf("expected 1 of the granted boost to remain unused, got %d", remaining)
	}
}

func TestScenarioBiddingSkipsFullHandsAndReturnsCardWhenAllIneligible(t *testing.T) {
	full := newTestFactionState(Atreides)
	full.Hand = []string{"a", "b", "c", "d"} // Atreides' max hand size is 4
	gs := &GameState{
		Turn:          2,
		Phase:         PhaseBidding,
		FactionOrder:  []Faction{Atreides},
		StormOrder:    []Faction{Atreides},
		Factions:      map[Faction]*FactionState{Atreides: full},
		TreacheryDeck: []string{"shield"},
	}
	h := &BiddingHandler{mgr: &Manager{}}
	gs, _ = h.Initialize(gs)

	result, err := h.ProcessStep(gs, nil) // karama check, no Karama holders
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	gs = result.State
	result, err = h.ProcessStep(gs, nil) // peek, draws the card, enters the round
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	gs = result.State

	result, err = h.ProcessStep(gs, nil) // bidding round: the sole faction is full-handed
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.PendingRequests) != 0 {
		t.Fatalf("expected no bid requests once every faction is ineligible, got %+v", result.PendingRequests)
	}
	var sawReturned bool
	for _, e := range result.Events {
		if e.Type == EventCardReturnedToDeck {
			sawReturned = true
		}
	}
	if !sawReturned {
		t.Fatalf("expected the card to return to the deck rather than vanish")
	}
	gs = result.State
	if len(gs.TreacheryDiscard) != 1 || gs.TreacheryDiscard[0] != "shield" {
		t.Fatalf("expected the returned card in the discard pile to be reshuffled in on the next draw, got %+v", gs.TreacheryDiscard)
	}
	if len(gs.Factions[Atreides].Hand) != 4 {
		t.Fatalf("expected the ineligible faction's hand to be untouched, got %d cards", len(gs.Factions[Atreides].Hand))
	}
}

func TestScenarioTraitorRevealKeepsWinnerSpiceButNotLosers(t *testing.T) {
	gs, b := newBattleTestState(Atreides, Harkonnen)
	gs.Factions[Atreides].Traitors = map[string]bool{"feyd_rautha": true}
	gs.Factions[Atreides].Spice = 10
	gs.Factions[Harkonnen].Spice = 10
	h := &BattleHandler{mgr: &Manager{}}
	h.plans = map[Faction]*battlePlan{
		Atreides:  {leaderID: "duncan_idaho", forcesDialed: 2},
		Harkonnen: {leaderID: "feyd_rautha", forcesDialed: 3, spiceStake: 3},
	}
	h.traitorCalls = map[Faction]bool{Atreides: true}

	events, needsCapture := h.resolve(gs, b)
	if needsCapture {
		t.Fatalf("a traitor-call win never needs a capture decision")
	}
	if gs.Factions[Atreides].Spice != 10 {
		t.Fatalf("expected Atreides to keep its full spice on a traitor-call win, got %d", gs.Factions[Atreides].Spice)
	}
	if gs.Factions[Harkonnen].Spice != 7 {
		t.Fatalf("expected Harkonnen to forfeit its 3 staked spice to the bank, got %d", gs.Factions[Harkonnen].Spice)
	}
	if len(gs.Factions[Harkonnen].OnBoard) != 0 {
		t.Fatalf("expected Harkonnen to lose every force at the battle, got %+v", gs.Factions[Harkonnen].OnBoard)
	}
	var sawRevealed bool
	for _, e := range events {
		if e.Type == EventTraitorRevealed && e.Faction == Atreides {
			sawRevealed = true
		}
	}
	if !sawRevealed {
		t.Fatalf("expected EventTraitorRevealed crediting Atreides")
	}
}

func TestScenarioTraitorRevealDiscardsPlayedCards(t *testing.T) {
	gs, b := newBattleTestState(Atreides, Harkonnen)
	gs.Factions[Atreides].Traitors = map[string]bool{"feyd_rautha": true}
	gs.Factions[Atreides].Hand = []string{"chaumas"}
	gs.Factions[Harkonnen].Hand = []string{"shield"}
	h := &BattleHandler{mgr: &Manager{}}
	h.plans = map[Faction]*battlePlan{
		Atreides:  {leaderID: "duncan_idaho", forcesDialed: 2, weapon: "chaumas"},
		Harkonnen: {leaderID: "feyd_rautha", forcesDialed: 3, defense: "shield"},
	}
	h.traitorCalls = map[Faction]bool{Atreides: true}

	h.resolve(gs, b)

	if hasCard(gs.Factions[Atreides], "chaumas") {
		t.Fatalf("expected Atreides' played weapon to be discarded")
	}
	if hasCard(gs.Factions[Harkonnen], "shield") {
		t.Fatalf("expected Harkonnen's played defense to be discarded")
	}
	var sawChaumas, sawShield bool
	for _, c := range gs.TreacheryDiscard {
		if c == "chaumas" {
			sawChaumas = true
		}
		if c == "shield" {
			sawShield = true
		}
	}
	if !sawChaumas || !sawShield {
		t.Fatalf("expected both played cards in the treachery discard pile, got %+v", gs.TreacheryDiscard)
	}
}

func TestScenarioBeneGesseritWorthlessActsAsKarama(t *testing.T) {
	if !karamaEligible(BeneGesserit, "baliset") {
		t.Fatalf("expected Bene Gesserit to play a worthless card as Karama")
	}
	if karamaEligible(Atreides, "baliset") {
		t.Fatalf("expected any other faction to be unable to play a worthless card as Karama")
	}
}
