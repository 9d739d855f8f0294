package dune

// SpiceCollectionHandler pays each faction controlling a stronghold or
// sand territory holding spice for the spice sitting there (§4.8): 2
// spice per force for most factions, 3 per force for Fremen (harvesters
// need no special modeling since only the yield differs). Each controller
// may decline to collect, e.g. to avoid revealing its presence.
type SpiceCollectionHandler struct {
	mgr      *Manager
	asked    bool
	declined map[Faction]bool
}

func (h *SpiceCollectionHandler) Initialize(gs *GameState) (*GameState, []Event) {
	h.asked = false
	h.declined = map[Faction]bool{}
	return gs.Clone(), nil
}

func entryKey(territoryID string, sector int) string {
	return territoryID + "#" + string(rune('0'+sector%10))
}

func (h *SpiceCollectionHandler) ProcessStep(gs *GameState, responses []AgentResponse) (StepResult, error) {
	gs = gs.Clone()
	var events []Event

	controllers := map[string]Faction{}
	var entries []SpiceEntry
	for _, entry := range gs.SpiceOnBoard {
		controller, forces := dominantForceAt(gs, entry.TerritoryID, entry.Sector)
		if controller == NoFaction || forces == 0 {
			continue
		}
		entries = append(entries, entry)
		controllers[entryKey(entry.TerritoryID, entry.Sector)] = controller
	}

	if !h.asked {
		h.asked = true
		var reqs []AgentRequest
		for _, entry := range entries {
			controller := controllers[entryKey(entry.TerritoryID, entry.Sector)]
			reqs = append(reqs, AgentRequest{
				FactionID: controller, RequestType: ReqCollectSpice,
				Prompt: "collect the spice at your controlled territory?", Context: entry,
			})
		}
		if len(reqs) > 0 {
			return StepResult{State: gs, PendingRequests: reqs}, nil
		}
	} else {
		for _, r := range responses {
			if r.Passed {
				h.declined[r.FactionID] = true
			}
		}
	}

	for _, entry := range entries {
		controller := controllers[entryKey(entry.TerritoryID, entry.Sector)]
		if h.declined[controller] {
			continue
		}
		_, forces := dominantForceAt(gs, entry.TerritoryID, entry.Sector)
		perForce := 2
		if controller == Fremen {
			perForce = 3
		}
		collect := min(entry.Amount, forces*perForce)
		if collect <= 0 {
			continue
		}
		removeSpiceAt(gs, entry.TerritoryID, entry.Sector, collect)
		gs.Factions[controller].Spice += collect
		events = append(events, Event{Type: EventSpiceCollected, Turn: gs.Turn, Phase: PhaseSpiceCollection, Faction: controller, Payload: collect})
	}

	return StepResult{State: gs, Events: events, PhaseComplete: true}, nil
}

func dominantForceAt(gs *GameState, territoryID string, sector int) (Faction, int) {
	best, bestN := NoFaction, 0
	for _, f := range gs.FactionOrder {
		n := 0
		for _, s := range gs.Factions[f].StacksAt(territoryID, sector) {
			n += s.Regular + s.Elite
		}
		if n > bestN {
			best, bestN = f, n
		}
	}
	return best, bestN
}

func (h *SpiceCollectionHandler) Cleanup(gs *GameState) (*GameState, []Event) { return gs.Clone(), nil }
