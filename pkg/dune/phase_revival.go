package dune

const (
	revivalStepEmperorBoost = "EMPEROR_BOOST"
	revivalStepForces       = "FORCES"
	revivalStepLeader       = "LEADER"
	revivalStepDone         = "DONE"
)

// RevivalHandler lets every faction revive forces (free allotment plus
// optional paid revival up to the per-turn cap) and, at most, one leader
// from the tanks for a flat spice cost (§4.5). Emperor may first grant its
// ally a revival boost, which raises that ally's paid-revival cap beyond the
// normal per-turn limit; the extra paid revivals the ally actually uses are
// billed to the Emperor's own treasury, not the ally's.
type RevivalHandler struct {
	mgr *Manager

	askedBoost  bool
	askedForces bool
	askedLeader bool
	boostGrant  map[Faction]int
}

func (h *RevivalHandler) Initialize(gs *GameState) (*GameState, []Event) {
	gs = gs.Clone()
	h.askedBoost, h.askedForces, h.askedLeader = false, false, false
	h.boostGrant = map[Faction]int{}
	gs.PhaseStep = revivalStepEmperorBoost
	return gs, nil
}

func (h *RevivalHandler) ProcessStep(gs *GameState, responses []AgentResponse) (StepResult, error) {
	gs = gs.Clone()

	switch gs.PhaseStep {
	case revivalStepEmperorBoost:
		return h.emperorBoost(gs, responses)
	case revivalStepForces:
		return h.forces(gs, responses)
	case revivalStepLeader:
		return h.leader(gs, responses)
	default:
		return StepResult{State: gs, PhaseComplete: true}, nil
	}
}

func (h *RevivalHandler) emperorBoost(gs *GameState, responses []AgentResponse) (StepResult, error) {
	emperor, ok := gs.Factions[Emperor]
	ally := Faction(NoFaction)
	if ok {
		ally = emperor.AllyID
	}
	allyInTanks := false
	if ally != NoFaction {
		if af, ok := gs.Factions[ally]; ok {
			allyInTanks = af.Tanks.Regular+af.Tanks.Elite > 0
		}
	}
	if !ok || ally == NoFaction || !allyInTanks {
		gs.PhaseStep = revivalStepForces
		return StepResult{State: gs}, nil
	}

	if !h.askedBoost {
		h.askedBoost = true
		return StepResult{State: gs, PendingRequests: []AgentRequest{
			{FactionID: Emperor, RequestType: ReqGrantFremenRevivalBoost, Prompt: "grant your ally a revival boost?", Context: EmperorAllyRevivalBoost},
		}}, nil
	}
	var events []Event
	for _, r := range responses {
		if r.FactionID != Emperor || r.Passed {
			continue
		}
		n, _ := r.Data.(int)
		if n <= 0 {
			n = EmperorAllyRevivalBoost
		}
		if n > EmperorAllyRevivalBoost {
			n = EmperorAllyRevivalBoost
		}
		h.boostGrant[ally] = n
		events = append(events, Event{Type: EventFremenRevivalBoostGranted, Turn: gs.Turn, Phase: PhaseRevival, Faction: Emperor, Payload: ally})
	}
	gs.PhaseStep = revivalStepForces
	return StepResult{State: gs, Events: events}, nil
}

func (h *RevivalHandler) forces(gs *GameState, responses []AgentResponse) (StepResult, error) {
	if !h.askedForces {
		var reqs []AgentRequest
		for _, f := range gs.FactionOrder {
			fs := gs.Factions[f]
			if fs.Tanks.Regular+fs.Tanks.Elite == 0 {
				continue
			}
			reqs = append(reqs, AgentRequest{FactionID: f, RequestType: ReqReviveForces, Prompt: "revive forces from the tanks"})
		}
		h.askedForces = true
		if len(reqs) > 0 {
			return StepResult{State: gs, PendingRequests: reqs}, nil
		}
		gs.PhaseStep = revivalStepLeader
		return StepResult{State: gs}, nil
	}

	var events []Event
	for _, r := range responses {
		if r.Passed {
			continue
		}
		fs := gs.Factions[r.FactionID]
		req, _ := r.Data.(map[string]int)
		regular, elite := req["regular"], req["elite"]
		total := regular + elite
		if total <= 0 {
			continue
		}
		def, _ := FactionInfo(r.FactionID)
		free := min(total, def.FreeRevivals)
		paid := total - free
		ownCap := paidRevivalCap(r.FactionID)
		boostCap := h.boostGrant[r.FactionID]
		if paid > ownCap+boostCap {
			paid = ownCap + boostCap
		}
		ownPaid, boostPaid := paid, 0
		if ownPaid > ownCap {
			ownPaid, boostPaid = ownCap, paid-ownCap
		}

		var emperor *FactionState
		if boostPaid > 0 {
			emperor = gs.Factions[Emperor]
		}
		if emperor != nil {
			if affordable := emperor.Spice / RevivalCostSpice; boostPaid > affordable {
				boostPaid = affordable
			}
		} else {
			boostPaid = 0
		}

		ownCost := ownPaid * RevivalCostSpice
		if ownCost > fs.Spice {
			ownPaid = fs.Spice / RevivalCostSpice
			ownCost = ownPaid * RevivalCostSpice
		}

		total = free + ownPaid + boostPaid
		regular = min(regular, total)
		elite = total - regular
		if total <= 0 {
			continue
		}

		fs.Spice -= ownCost
		if boostPaid > 0 {
			emperor.Spice -= boostPaid * RevivalCostSpice
			emperor.Flags.EmperorAllyRevivalsUsed = boostPaid
		}
		reviveForces(gs, r.FactionID, regular, elite)
		events = append(events, Event{Type: EventForcesRevived, Turn: gs.Turn, Phase: PhaseRevival, Faction: r.FactionID, Payload: total})
	}
	gs.PhaseStep = revivalStepLeader
	return StepResult{State: gs, Events: events}, nil
}

func (h *RevivalHandler) leader(gs *GameState, responses []AgentResponse) (StepResult, error) {
	if !h.askedLeader {
		var reqs []AgentRequest
		for _, f := range gs.FactionOrder {
			fs := gs.Factions[f]
			hasTankedLeader := false
			for _, l := range fs.Leaders {
				if l.Location == LeaderInTanks {
					hasTankedLeader = true
					break
				}
			}
			if !hasTankedLeader {
				continue
			}
			reqs = append(reqs, AgentRequest{FactionID: f, RequestType: ReqReviveLeader, Prompt: "revive one leader from the tanks"})
		}
		h.askedLeader = true
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
		fs := gs.Factions[r.FactionID]
		leaderID, _ := r.Data.(string)
		if leaderID == "" || fs.Spice < LeaderRevivalCostSpice {
			continue
		}
		if reviveLeader(gs, r.FactionID, leaderID) {
			fs.Spice -= LeaderRevivalCostSpice
			events = append(events, Event{Type: EventLeaderRevived, Turn: gs.Turn, Phase: PhaseRevival, Faction: r.FactionID, Payload: leaderID})
		}
	}
	return StepResult{State: gs, Events: events, PhaseComplete: true}, nil
}

func (h *RevivalHandler) Cleanup(gs *GameState) (*GameState, []Event) {
	gs = gs.Clone()
	gs.PhaseStep = ""
	return gs, nil
}
