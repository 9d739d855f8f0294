package dune

const (
	mentatPauseStepDeals    = "DEALS"
	mentatPauseStepAlliance = "ALLIANCE"
	mentatPauseStepDone     = "DONE"
)

// MentatPauseHandler is the turn's final phase: it resolves any pending
// out-of-band deals, checks the victory condition (honoring Bene
// Gesserit's secret prediction), and lets factions form or break alliances
// before the next Storm phase begins (§4.9).
type MentatPauseHandler struct {
	mgr *Manager

	askedDeals    bool
	askedAlliance bool
}

func (h *MentatPauseHandler) Initialize(gs *GameState) (*GameState, []Event) {
	gs = gs.Clone()
	h.askedDeals, h.askedAlliance = false, false
	gs.PhaseStep = mentatPauseStepDeals
	return gs, nil
}

func (h *MentatPauseHandler) ProcessStep(gs *GameState, responses []AgentResponse) (StepResult, error) {
	gs = gs.Clone()

	switch gs.PhaseStep {
	case mentatPauseStepDeals:
		return h.resolveDeals(gs, responses)
	case mentatPauseStepAlliance:
		return h.resolveAlliances(gs, responses)
	default:
		return StepResult{State: gs, PhaseComplete: true}, nil
	}
}

func (h *MentatPauseHandler) resolveDeals(gs *GameState, responses []AgentResponse) (StepResult, error) {
	var events []Event
	if len(gs.PendingDeals) == 0 {
		gs.PhaseStep = mentatPauseStepAlliance
		return h.checkVictoryThenAlliance(gs)
	}
	if !h.askedDeals {
		h.askedDeals = true
		var reqs []AgentRequest
		for _, d := range gs.PendingDeals {
			for _, p := range d.Parties {
				reqs = append(reqs, AgentRequest{FactionID: p, RequestType: ReqRespondToDeal, Prompt: "accept this proposed deal?", Context: d})
			}
		}
		return StepResult{State: gs, PendingRequests: reqs}, nil
	}

	accepted := map[string]int{}
	for _, r := range responses {
		spec, _ := r.Data.(map[string]any)
		dealID, _ := spec["deal_id"].(string)
		accept, _ := spec["accept"].(bool)
		if dealID == "" || r.Passed || !accept {
			continue
		}
		accepted[dealID]++
	}
	for _, d := range gs.PendingDeals {
		if accepted[d.ID] >= len(d.Parties) {
			gs.DealHistory = append(gs.DealHistory, d)
			events = append(events, Event{Type: EventDealAccepted, Turn: gs.Turn, Phase: PhaseMentatPause, Payload: d.ID})
		} else {
			events = append(events, Event{Type: EventDealRejected, Turn: gs.Turn, Phase: PhaseMentatPause, Payload: d.ID})
		}
	}
	gs.PendingDeals = nil
	gs.PhaseStep = mentatPauseStepAlliance
	vr, err := h.checkVictoryThenAlliance(gs)
	vr.Events = append(events, vr.Events...)
	return vr, err
}

// checkVictoryThenAlliance runs the victory check (with Bene Gesserit's
// prediction override) and, absent a winner, proceeds to the alliance
// stage.
func (h *MentatPauseHandler) checkVictoryThenAlliance(gs *GameState) (StepResult, error) {
	var events []Event
	if winner := victoryCheck(gs, h.mgr.Map); winner != NoFaction {
		gs.Winner = winner
		if _, ok := gs.Factions[BeneGesserit]; ok && gs.BGPrediction.Faction == winner && gs.Turn == gs.BGPrediction.Turn {
			gs.Winner = BeneGesserit
			events = append(events, Event{Type: EventBGPredictionFulfilled, Turn: gs.Turn, Phase: PhaseMentatPause, Faction: BeneGesserit, Payload: winner})
		}
		events = append(events, Event{Type: EventVictoryAchieved, Turn: gs.Turn, Phase: PhaseMentatPause, Faction: gs.Winner})
		return StepResult{State: gs, Events: events, PhaseComplete: true}, nil
	}
	return StepResult{State: gs, Events: events}, nil
}

// allianceBreakSentinel is the Data value an already-allied faction
// answers with to sever its alliance instead of proposing/accepting one.
const allianceBreakSentinel = "BREAK"

func (h *MentatPauseHandler) resolveAlliances(gs *GameState, responses []AgentResponse) (StepResult, error) {
	var events []Event
	if !h.askedAlliance {
		var reqs []AgentRequest
		for _, f := range gs.FactionOrder {
			prompt := "propose or accept an alliance"
			if gs.Factions[f].AllyID != NoFaction {
				prompt = "break your current alliance?"
			}
			reqs = append(reqs, AgentRequest{FactionID: f, RequestType: ReqAllianceDecision, Prompt: prompt})
		}
		h.askedAlliance = true
		if len(reqs) > 0 {
			return StepResult{State: gs, PendingRequests: reqs}, nil
		}
		return StepResult{State: gs, PhaseComplete: true}, nil
	}

	proposals := map[Faction]Faction{}
	for _, r := range responses {
		if r.Passed {
			continue
		}
		target, _ := r.Data.(string)
		if target == "" {
			continue
		}
		if gs.Factions[r.FactionID].AllyID != NoFaction {
			if target == allianceBreakSentinel {
				broken := gs.Factions[r.FactionID].AllyID
				breakAlliance(gs, r.FactionID)
				events = append(events, Event{Type: EventAllianceBroken, Turn: gs.Turn, Phase: PhaseMentatPause, Faction: r.FactionID, Payload: broken})
			}
			continue
		}
		proposals[r.FactionID] = Faction(target)
	}
	for f, target := range proposals {
		if proposals[target] == f && gs.Factions[f].AllyID == NoFaction && gs.Factions[target].AllyID == NoFaction {
			formAlliance(gs, f, target)
			events = append(events, Event{Type: EventAllianceFormed, Turn: gs.Turn, Phase: PhaseMentatPause, Faction: f, Payload: target})
		}
	}

	return StepResult{State: gs, Events: events, PhaseComplete: true}, nil
}

func (h *MentatPauseHandler) Cleanup(gs *GameState) (*GameState, []Event) {
	gs = gs.Clone()
	gs.PhaseStep = ""
	return gs, nil
}
