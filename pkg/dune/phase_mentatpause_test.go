package dune

import "testing"

func newMentatPauseTestState() *GameState {
	atreides := newTestFactionState(Atreides)
	atreides.OnBoard = []ForceStack{
		{TerritoryID: "arrakeen", Sector: 9, Regular: 3},
		{TerritoryID: "carthag", Sector: 10, Regular: 3},
		{TerritoryID: "tuek_sietch", Sector: 4, Regular: 3},
	}
	harkonnen := newTestFactionState(Harkonnen)
	return &GameState{
		Config:       GameConfig{MaxTurns: 10},
		Turn:         3,
		Phase:        PhaseMentatPause,
		FactionOrder: []Faction{Atreides, Harkonnen},
		Factions: map[Faction]*FactionState{
			Atreides:  atreides,
			Harkonnen: harkonnen,
		},
	}
}

func TestMentatPauseDealRequiresUnanimousAcceptance(t *testing.T) {
	gs := newMentatPauseTestState()
	gs.PendingDeals = []DealRecord{{ID: "deal-1", Summary: "truce", Parties: []Faction{Atreides, Harkonnen}}}
	mgr := NewManager(nil)
	h := &MentatPauseHandler{mgr: mgr}

	gs, _ = h.Initialize(gs)
	result, err := h.ProcessStep(gs, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.PendingRequests) != 2 {
		t.Fatalf("expected one ReqRespondToDeal per party, got %d", len(result.PendingRequests))
	}
	for _, r := range result.PendingRequests {
		if r.RequestType != ReqRespondToDeal {
			t.Fatalf("expected ReqRespondToDeal, got %s", r.RequestType)
		}
	}

	gs = result.State
	responses := []AgentResponse{
		{FactionID: Atreides, Data: map[string]any{"deal_id": "deal-1", "accept": true}},
		{FactionID: Harkonnen, Data: map[string]any{"deal_id": "deal-1", "accept": false}},
	}
	result, err = h.ProcessStep(gs, responses)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.State.DealHistory) != 0 {
		t.Fatalf("deal should not have been accepted without unanimity")
	}
	if len(result.State.PendingDeals) != 0 {
		t.Fatalf("rejected deal should be cleared from PendingDeals")
	}
	var sawRejected bool
	for _, e := range result.Events {
		if e.Type == EventDealRejected {
			sawRejected = true
		}
		if e.Type == EventDealAccepted {
			t.Fatalf("did not expect EventDealAccepted for a split vote")
		}
	}
	if !sawRejected {
		t.Fatalf("expected EventDealRejected")
	}
}

func TestMentatPauseDealAcceptedUnanimously(t *testing.T) {
	gs := newMentatPauseTestState()
	gs.PendingDeals = []DealRecord{{ID: "deal-1", Summary: "truce", Parties: []Faction{Atreides, Harkonnen}}}
	mgr := NewManager(nil)
	h := &MentatPauseHandler{mgr: mgr}

	gs, _ = h.Initialize(gs)
	result, _ := h.ProcessStep(gs, nil)
	gs = result.State
	responses := []AgentResponse{
		{FactionID: Atreides, Data: map[string]any{"deal_id": "deal-1", "accept": true}},
		{FactionID: Harkonnen, Data: map[string]any{"deal_id": "deal-1", "accept": true}},
	}
	result, err := h.ProcessStep(gs, responses)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.State.DealHistory) != 1 || result.State.DealHistory[0].ID != "deal-1" {
		t.Fatalf("expected deal-1 to move to DealHistory, got %+v", result.State.DealHistory)
	}
	found := false
	for _, e := range result.Events {
		if e.Type == EventDealAccepted {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected EventDealAccepted")
	}
}

func TestMentatPauseBGPredictionOverridesVictor(t *testing.T) {
	gs := newMentatPauseTestState()
	gs.Factions[BeneGesserit] = newTestFactionState(BeneGesserit)
	gs.BGPrediction = BGPredictionRecord{Faction: Atreides, Turn: gs.Turn}
	mgr := NewManager(nil)
	h := &MentatPauseHandler{mgr: mgr}

	gs, _ = h.Initialize(gs)
	result, err := h.ProcessStep(gs, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.PhaseComplete {
		t.Fatalf("expected the phase to complete immediately on a decided victory")
	}
	if result.State.Winner != BeneGesserit {
		t.Fatalf("expected Bene Gesserit's fulfilled prediction to override the computed winner, got %s", result.State.Winner)
	}
	var sawFulfilled bool
	for _, e := range result.Events {
		if e.Type == EventBGPredictionFulfilled {
			sawFulfilled = true
		}
	}
	if !sawFulfilled {
		t.Fatalf("expected EventBGPredictionFulfilled")
	}
}

func TestMentatPauseAllianceFormsOnMutualProposal(t *testing.T) {
	gs := newMentatPauseTestState()
	// Clear Atreides' stronghold dominance so victoryCheck doesn't short-circuit.
	gs.Factions[Atreides].OnBoard = nil
	mgr := NewManager(nil)
	h := &MentatPauseHandler{mgr: mgr}

	gs, _ = h.Initialize(gs)
	result, _ := h.ProcessStep(gs, nil) // deals step, no pending deals
	gs = result.State
	result, err := h.ProcessStep(gs, nil) // alliance step, dispatch
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.PendingRequests) != 2 {
		t.Fatalf("expected an alliance proposal request per unallied faction, got %d", len(result.PendingRequests))
	}
	gs = result.State
	responses := []AgentResponse{
		{FactionID: Atreides, Data: string(Harkonnen)},
		{FactionID: Harkonnen, Data: string(Atreides)},
	}
	result, err = h.ProcessStep(gs, responses)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.PhaseComplete {
		t.Fatalf("expected phase to complete")
	}
	if result.State.Factions[Atreides].AllyID != Harkonnen || result.State.Factions[Harkonnen].AllyID != Atreides {
		t.Fatalf("expected a symmetric alliance between Atreides and Harkonnen")
	}
}

func TestMentatPauseAllianceBreaksOnRequest(t *testing.T) {
	gs := newMentatPauseTestState()
	gs.Factions[Atreides].OnBoard = nil // avoid an early victory short-circuit
	gs.Factions[Atreides].AllyID = Harkonnen
	gs.Factions[Harkonnen].AllyID = Atreides
	mgr := NewManager(nil)
	h := &MentatPauseHandler{mgr: mgr}

	gs, _ = h.Initialize(gs)
	result, _ := h.ProcessStep(gs, nil) // deals step, none pending
	gs = result.State
	result, err := h.ProcessStep(gs, nil) // alliance step, dispatch
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	gs = result.State

	result, err = h.ProcessStep(gs, []AgentResponse{
		{FactionID: Atreides, Data: allianceBreakSentinel},
		{FactionID: Harkonnen, Passed: true},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.State.Factions[Atreides].AllyID != NoFaction || result.State.Factions[Harkonnen].AllyID != NoFaction {
		t.Fatalf("expected the alliance to be fully broken on both sides")
	}
	var sawBroken bool
	for _, e := range result.Events {
		if e.Type == EventAllianceBroken {
			sawBroken = true
		}
	}
	if !sawBroken {
		t.Fatalf("expected EventAllianceBroken")
	}
}
