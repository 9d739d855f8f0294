package dune

// Setup's internal sub-steps: dealing is ambient, but traitor selection,
// Bene Gesserit's prediction, and initial board placement are all real
// agent decisions (§4.1 step 0 / rulebook setup).
const (
	setupStepDeal             = "DEAL"
	setupStepSelectTraitor    = "SELECT_TRAITOR"
	setupStepBGPrediction     = "BG_PREDICTION"
	setupStepDistributeForces = "DISTRIBUTE_FORCES"
	setupStepDone             = "DONE"
)

// SetupHandler deals out starting forces, spice, treachery hands, and
// traitor candidates before the first turn begins, then asks each faction
// to pick its traitor, asks Bene Gesserit for its hidden prediction, and
// asks every homeworld-holding faction to place its starting forces.
type SetupHandler struct {
	mgr *Manager

	traitorCandidates map[Faction][]string
	askedTraitor      bool
	askedPrediction   bool
	askedForces       bool
}

func (h *SetupHandler) Initialize(gs *GameState) (*GameState, []Event) {
	gs = gs.Clone()
	gs.PhaseStep = setupStepDeal
	h.traitorCandidates = map[Faction][]string{}
	h.askedTraitor, h.askedPrediction, h.askedForces = false, false, false
	return gs, nil
}

func (h *SetupHandler) ProcessStep(gs *GameState, responses []AgentResponse) (StepResult, error) {
	gs = gs.Clone()
	var events []Event

	switch gs.PhaseStep {
	case setupStepDeal:
		return h.deal(gs)
	case setupStepSelectTraitor:
		return h.selectTraitor(gs, responses)
	case setupStepBGPrediction:
		return h.bgPrediction(gs, responses)
	case setupStepDistributeForces:
		return h.distributeForces(gs, responses)
	default:
		return StepResult{State: gs, Events: events, PhaseComplete: true}, nil
	}
}

func (h *SetupHandler) deal(gs *GameState) (StepResult, error) {
	var events []Event

	if gs.Factions == nil {
		gs.Factions = map[Faction]*FactionState{}
	}
	for _, f := range gs.FactionOrder {
		def, ok := FactionInfo(f)
		if !ok {
			continue
		}
		fs := &FactionState{
			Faction:  f,
			Traitors: map[string]bool{},
			Leaders:  map[string]*LeaderState{},
			AllyID:   NoFaction,
		}
		fs.Reserves.Regular = def.RegularForces
		fs.Reserves.Elite = def.EliteForces
		for _, lid := range LeadersOf(f) {
			fs.Leaders[lid] = &LeaderState{ID: lid, Location: LeaderOffBoard}
		}
		gs.Factions[f] = fs
	}

	gs.SeatSector = map[Faction]int{}
	n := len(gs.FactionOrder)
	for i, f := range gs.FactionOrder {
		if n > 0 {
			gs.SeatSector[f] = (i * SectorCount) / n
		}
	}
	gs.StormSector = StormStartSector
	recomputeStormOrder(gs)

	gs.DeckA = DeckACards()
	gs.DeckB = DeckBCards()
	shuffleSpiceCards(gs.DeckA)
	shuffleSpiceCards(gs.DeckB)

	gs.TreacheryDeck = TreacheryDeckCards()
	shuffleStrings(gs.TreacheryDeck)

	var traitorPool []string
	for _, f := range gs.FactionOrder {
		traitorPool = append(traitorPool, LeadersOf(f)...)
	}
	shuffleStrings(traitorPool)
	gs.TraitorDeck = traitorPool

	for _, f := range gs.FactionOrder {
		fs := gs.Factions[f]
		for i := 0; i < 4 && len(gs.TreacheryDeck) > 0; i++ {
			card, ok := drawTreacheryCard(gs)
			if !ok {
				break
			}
			if len(fs.Hand) >= fs.MaxHandSize() {
				discardTreacheryCard(gs, card)
				break
			}
			fs.Hand = append(fs.Hand, card)
		}
		var candidates []string
		for i := 0; i < 4 && len(gs.TraitorDeck) > 0; i++ {
			candidates = append(candidates, gs.TraitorDeck[0])
			gs.TraitorDeck = gs.TraitorDeck[1:]
		}
		h.traitorCandidates[f] = candidates
	}

	events = append(events, Event{Type: EventPhaseStarted, Turn: gs.Turn, Phase: PhaseSetup, Payload: "factions dealt"})
	gs.PhaseStep = setupStepSelectTraitor
	return StepResult{State: gs, Events: events}, nil
}

func (h *SetupHandler) selectTraitor(gs *GameState, responses []AgentResponse) (StepResult, error) {
	if !h.askedTraitor {
		var reqs []AgentRequest
		for _, f := range gs.FactionOrder {
			if len(h.traitorCandidates[f]) == 0 {
				continue
			}
			reqs = append(reqs, AgentRequest{
				FactionID: f, RequestType: ReqSelectTraitor,
				Prompt: "select one of your four traitor candidates to keep", Context: h.traitorCandidates[f],
			})
		}
		h.askedTraitor = true
		if len(reqs) > 0 {
			return StepResult{State: gs, PendingRequests: reqs}, nil
		}
		gs.PhaseStep = setupStepBGPrediction
		return StepResult{State: gs}, nil
	}

	for _, f := range gs.FactionOrder {
		candidates := h.traitorCandidates[f]
		if len(candidates) == 0 {
			continue
		}
		chosen := candidates[0]
		for _, r := range responses {
			if r.FactionID != f || r.Passed {
				continue
			}
			pick, ok := r.Data.(string)
			if !ok {
				continue
			}
			for _, c := range candidates {
				if c == pick {
					chosen = pick
				}
			}
		}
		gs.Factions[f].Traitors[chosen] = true
	}
	gs.PhaseStep = setupStepBGPrediction
	return StepResult{State: gs}, nil
}

func (h *SetupHandler) bgPrediction(gs *GameState, responses []AgentResponse) (StepResult, error) {
	var events []Event
	if _, ok := gs.Factions[BeneGesserit]; !ok {
		gs.PhaseStep = setupStepDistributeForces
		return StepResult{State: gs}, nil
	}
	if !h.askedPrediction {
		h.askedPrediction = true
		return StepResult{State: gs, PendingRequests: []AgentRequest{
			{FactionID: BeneGesserit, RequestType: ReqBGPrediction,
				Prompt: "predict which faction will win, and by which turn", Context: gs.FactionOrder},
		}}, nil
	}
	for _, r := range responses {
		if r.FactionID != BeneGesserit || r.Passed {
			continue
		}
		spec, _ := r.Data.(map[string]any)
		factionStr, _ := spec["faction"].(string)
		turn, _ := spec["turn"].(int)
		if factionStr == "" {
			continue
		}
		if turn <= 0 {
			turn = gs.Config.MaxTurns
		}
		gs.BGPrediction = BGPredictionRecord{Faction: Faction(factionStr), Turn: turn}
		events = append(events, Event{Type: EventBGPredictionMade, Turn: gs.Turn, Phase: PhaseSetup, Faction: BeneGesserit})
	}
	gs.PhaseStep = setupStepDistributeForces
	return StepResult{State: gs, Events: events}, nil
}

func (h *SetupHandler) distributeForces(gs *GameState, responses []AgentResponse) (StepResult, error) {
	if !h.askedForces {
		var reqs []AgentRequest
		for _, f := range gs.FactionOrder {
			def, _ := FactionInfo(f)
			if def.HomeTerritory == "" {
				continue
			}
			reqs = append(reqs, AgentRequest{
				FactionID: f, RequestType: ReqDistributeForces,
				Prompt: "place your starting forces on the board", Context: def.HomeTerritory,
			})
		}
		h.askedForces = true
		if len(reqs) > 0 {
			return StepResult{State: gs, PendingRequests: reqs}, nil
		}
		gs.PhaseStep = setupStepDone
		return StepResult{State: gs, PhaseComplete: true}, nil
	}

	for _, r := range responses {
		if r.Passed {
			continue
		}
		fs := gs.Factions[r.FactionID]
		def, _ := FactionInfo(r.FactionID)
		spec, _ := r.Data.(map[string]any)
		sector, _ := spec["sector"].(int)
		regular, _ := spec["regular"].(int)
		elite, _ := spec["elite"].(int)
		if regular < 0 {
			regular = 0
		}
		if elite < 0 {
			elite = 0
		}
		if regular > fs.Reserves.Regular {
			regular = fs.Reserves.Regular
		}
		if elite > fs.Reserves.Elite {
			elite = fs.Reserves.Elite
		}
		if t := h.mgr.Map.TerritoryByID(def.HomeTerritory); t != nil && len(t.Sectors) > 0 {
			valid := false
			for _, s := range t.Sectors {
				if s == sector {
					valid = true
				}
			}
			if !valid {
				sector = t.Sectors[0]
			}
		}
		if regular+elite > 0 {
			addForces(gs, r.FactionID, def.HomeTerritory, sector, regular, elite)
		}
	}
	gs.PhaseStep = setupStepDone
	return StepResult{State: gs, PhaseComplete: true}, nil
}

func (h *SetupHandler) Cleanup(gs *GameState) (*GameState, []Event) {
	gs = gs.Clone()
	gs.SetupComplete = true
	gs.PhaseStep = ""
	return gs, nil
}
