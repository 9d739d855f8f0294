package dune

// CharityHandler lets every eligible faction claim CHOAM Charity up to a
// spice floor of 2 (§4.4). Each claim is an independent decision dispatched
// simultaneously since one faction's claim never affects another's
// eligibility.
type CharityHandler struct {
	mgr    *Manager
	asked  bool
}

func (h *CharityHandler) Initialize(gs *GameState) (*GameState, []Event) {
	gs = gs.Clone()
	h.asked = false
	return gs, nil
}

func (h *CharityHandler) ProcessStep(gs *GameState, responses []AgentResponse) (StepResult, error) {
	gs = gs.Clone()
	if !h.asked {
		var reqs []AgentRequest
		for _, f := range gs.FactionOrder {
			if amount, ok := charityEligible(gs.Factions[f]); ok {
				reqs = append(reqs, AgentRequest{FactionID: f, RequestType: ReqClaimCharity, Prompt: "claim CHOAM charity", Context: amount})
			}
		}
		h.asked = true
		if len(reqs) > 0 {
			return StepResult{State: gs, PendingRequests: reqs}, nil
		}
		return StepResult{State: gs, PhaseComplete: true}, nil
	}

	var events []Event
	for _, r := range responses {
		if r.Passed {
			continue
		}
		amount, _ := charityEligible(gs.Factions[r.FactionID])
		if amount <= 0 {
			continue
		}
		gs.Factions[r.FactionID].Spice += amount
		events = append(events, Event{Type: EventCharityClaimed, Turn: gs.Turn, Phase: PhaseCharity, Faction: r.FactionID, Payload: amount})
	}
	return StepResult{State: gs, Events: events, PhaseComplete: true}, nil
}

func (h *CharityHandler) Cleanup(gs *GameState) (*GameState, []Event) { return gs.Clone(), nil }
