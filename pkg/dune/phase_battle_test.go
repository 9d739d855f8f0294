package dune

import "testing"

func newBattleTestState(attacker, defender Faction) (*GameState, battlePending) {
	a := newTestFactionState(attacker)
	a.Leaders = map[string]*LeaderState{"duncan_idaho": {ID: "duncan_idaho", Location: LeaderOffBoard}}
	a.OnBoard = []ForceStack{{TerritoryID: "cielago_north", Sector: 1, Regular: 4}}
	a.Spice = 20
	d := newTestFactionState(defender)
	d.Leaders = map[string]*LeaderState{"feyd_rautha": {ID: "feyd_rautha", Location: LeaderOffBoard}}
	d.OnBoard = []ForceStack{{TerritoryID: "cielago_north", Sector: 1, Regular: 4}}
	d.Spice = 20
	gs := &GameState{
		Turn:         2,
		Phase:        PhaseBattle,
		FactionOrder: []Faction{attacker, defender},
		Factions: map[Faction]*FactionState{
			attacker: a,
			defender: d,
		},
	}
	return gs, battlePending{territoryID: "cielago_north", sector: 1, attacker: attacker, defender: defender}
}

func TestBeatsDefenseMatchesWeaponDefensePairs(t *testing.T) {
	cases := []struct {
		weapon, defense string
		want            bool
	}{
		{"gom_jabbar", "snooper", false},
		{"gom_jabbar", "shield", true},
		{"lasgun", "shield", false},
		{"lasgun", "snooper", true},
		{"", "shield", false},
	}
	for _, c := range cases {
		if got := beatsDefense(c.weapon, c.defense); got != c.want {
			t.Errorf("beatsDefense(%q, %q) = %v, want %v", c.weapon, c.defense, got, c.want)
		}
	}
}

func TestResolveHigherStrengthWins(t *testing.T) {
	gs, b := newBattleTestState(Atreides, Harkonnen)
	h := &BattleHandler{mgr: NewManager(nil)}
	h.plans = map[Faction]*battlePlan{
		Atreides:  {leaderID: "duncan_idaho", forcesDialed: 6, spentSpice: true}, // 2 + 6 = 8
		Harkonnen: {leaderID: "feyd_rautha", forcesDialed: 1, spentSpice: true},  // 6 + 1 = 7
	}
	h.traitorCalls = map[Faction]bool{}

	events, needsCapture := h.resolve(gs, b)
	if needsCapture {
		t.Fatalf("Atreides as winner never needs a capture decision")
	}
	var sawResolved bool
	for _, e := range events {
		if e.Type == EventBattleResolved && e.Faction == Atreides {
			sawResolved = true
		}
	}
	if !sawResolved {
		t.Fatalf("expected EventBattleResolved crediting Atreides as winner, got %+v", events)
	}
	if gs.Factions[Harkonnen].Leaders["feyd_rautha"].Location != LeaderInTanks {
		t.Fatalf("expected the losing leader to be tanked")
	}
}

func TestResolveMutualTraitorCallKillsBothStacks(t *testing.T) {
	gs, b := newBattleTestState(Atreides, Harkonnen)
	gs.Factions[Atreides].Traitors = map[string]bool{"feyd_rautha": true}
	gs.Factions[Harkonnen].Traitors = map[string]bool{"duncan_idaho": true}
	h := &BattleHandler{mgr: NewManager(nil)}
	h.plans = map[Faction]*battlePlan{
		Atreides:  {leaderID: "duncan_idaho", forcesDialed: 4},
		Harkonnen: {leaderID: "feyd_rautha", forcesDialed: 4},
	}
	h.traitorCalls = map[Faction]bool{Atreides: true, Harkonnen: true}

	events, needsCapture := h.resolve(gs, b)
	if needsCapture {
		t.Fatalf("a mutual traitor call destroys both stacks outright, no capture decision follows")
	}
	if len(gs.Factions[Atreides].OnBoard) != 0 || len(gs.Factions[Harkonnen].OnBoard) != 0 {
		t.Fatalf("expected both stacks to be wiped out")
	}
	var count int
	for _, e := range events {
		if e.Type == EventTraitorRevealed {
			count++
		}
	}
	if count != 2 {
		t.Fatalf("expected two EventTraitorRevealed, got %d", count)
	}
}

func TestResolveLasgunShieldExplosionKillsBothLeaders(t *testing.T) {
	gs, b := newBattleTestState(Atreides, Harkonnen)
	h := &BattleHandler{mgr: NewManager(nil)}
	h.plans = map[Faction]*battlePlan{
		Atreides:  {leaderID: "duncan_idaho", forcesDialed: 4, weapon: "lasgun"},
		Harkonnen: {leaderID: "feyd_rautha", forcesDialed: 4, defense: "shield"},
	}
	h.traitorCalls = map[Faction]bool{}

	events, needsCapture := h.resolve(gs, b)
	if needsCapture {
		t.Fatalf("a lasgun/shield explosion needs no capture decision")
	}
	if gs.Factions[Atreides].Leaders["duncan_idaho"].Location != LeaderInTanks ||
		gs.Factions[Harkonnen].Leaders["feyd_rautha"].Location != LeaderInTanks {
		t.Fatalf("expected both leaders tanked by the explosion")
	}
	var sawExplosion bool
	for _, e := range events {
		if e.Type == EventLasgunShieldExplosion {
			sawExplosion = true
		}
	}
	if !sawExplosion {
		t.Fatalf("expected EventLasgunShieldExplosion")
	}
}

func TestResolveHarkonnenWinnerDefersToCaptureStep(t *testing.T) {
	gs, b := newBattleTestState(Harkonnen, Atreides)
	// the fixture hands duncan_idaho to the attacker; give each side its own leader
	gs.Factions[Harkonnen].Leaders, gs.Factions[Atreides].Leaders = gs.Factions[Atreides].Leaders, gs.Factions[Harkonnen].Leaders
	h := &BattleHandler{mgr: NewManager(nil)}
	h.plans = map[Faction]*battlePlan{
		Harkonnen: {leaderID: "feyd_rautha", forcesDialed: 4, spentSpice: true}, // 6+4=10
		Atreides:  {leaderID: "duncan_idaho", forcesDialed: 1, spentSpice: true}, // 2+1=3
	}
	h.traitorCalls = map[Faction]bool{}

	_, needsCapture := h.resolve(gs, b)
	if !needsCapture {
		t.Fatalf("expected Harkonnen's win to require a capture-or-kill decision")
	}
	if h.captureWinner != Harkonnen || h.captureLoser != Atreides || h.captureLeader != "duncan_idaho" {
		t.Fatalf("expected capture state to record the loser's leader, got %+v/%+v/%+v", h.captureWinner, h.captureLoser, h.captureLeader)
	}

	result, err := h.capture(gs, []AgentResponse{{FactionID: Harkonnen, Data: "CAPTURE"}})
	if err != nil {
		t.Fatalf("unexpected error dispatching capture request: %v", err)
	}
	if len(result.PendingRequests) != 1 || result.PendingRequests[0].RequestType != ReqCaptureLeaderChoice {
		t.Fatalf("expected a ReqCaptureLeaderChoice dispatch first")
	}

	result, err = h.capture(gs, []AgentResponse{{FactionID: Harkonnen, Data: "CAPTURE"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gs.Factions[Atreides].Leaders["duncan_idaho"].Location != LeaderCaptured {
		t.Fatalf("expected the leader to be captured, not killed")
	}
}
