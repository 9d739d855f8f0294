package dune

const (
	shipMoveStepGuildTiming = "GUILD_TIMING"
	shipMoveStepShip        = "SHIP"
	shipMoveStepMove        = "MOVE"
	shipMoveStepAdvisors    = "ADVISORS"
	shipMoveStepDone        = "DONE"
)

// ShipMoveHandler runs Shipment & Movement in storm order (§4.6): the
// Guild may first elect to ship out of its natural turn order, then each
// faction in turn may ship forces from reserves onto the board and move
// one group it already controls; Bene Gesserit may ship as non-combatant
// advisors and, after moving, may flip a lone stack between advisor and
// fighter status.
type ShipMoveHandler struct {
	mgr   *Manager
	order []Faction
	idx   int

	askedGuildTiming bool
	askedAdvisors    bool
}

func (h *ShipMoveHandler) Initialize(gs *GameState) (*GameState, []Event) {
	gs = gs.Clone()
	h.order = append([]Faction(nil), gs.StormOrder...)
	h.idx = 0
	h.askedGuildTiming = false
	gs.PhaseStep = shipMoveStepGuildTiming
	return gs, nil
}

func (h *ShipMoveHandler) ProcessStep(gs *GameState, responses []AgentResponse) (StepResult, error) {
	gs = gs.Clone()
	var events []Event

	if gs.PhaseStep == shipMoveStepGuildTiming {
		return h.guildTiming(gs, responses)
	}

	if h.idx >= len(h.order) {
		return StepResult{State: gs, PhaseComplete: true}, nil
	}
	f := h.order[h.idx]

	switch gs.PhaseStep {
	case shipMoveStepShip:
		if len(responses) == 0 {
			if fs := gs.Factions[f]; fs != nil {
				fs.Flags.OrnithopterAccess = false
				for _, s := range fs.OnBoard {
					if (s.TerritoryID == "arrakeen" || s.TerritoryID == "carthag") && s.BattleCapable() {
						fs.Flags.OrnithopterAccess = true
					}
				}
			}
			return StepResult{State: gs, PendingRequests: []AgentRequest{{
				FactionID: f, RequestType: ReqShipForces, Prompt: "ship forces from reserves",
			}}}, nil
		}
		r := responses[0]
		if !r.Passed {
			spec, _ := r.Data.(map[string]any)
			territoryID, _ := spec["territory"].(string)
			sector, _ := spec["sector"].(int)
			regular, _ := spec["regular"].(int)
			elite, _ := spec["elite"].(int)
			asAdvisors, _ := spec["as_advisors"].(bool)
			fs := gs.Factions[f]
			if regular <= fs.Reserves.Regular && elite <= fs.Reserves.Elite && territoryID != "" &&
				!stormBlocks(gs, h.mgr.Map, territoryID) && strongholdHasRoom(gs, h.mgr.Map, f, territoryID) {
				def, _ := FactionInfo(f)
				toHomeworld := territoryID == def.HomeTerritory
				enemyHeld := isEnemyHeldStronghold(gs, h.mgr.Map, f, territoryID)
				cost := shipmentCost(f, regular+elite, toHomeworld, enemyHeld)
				if fs.Spice >= cost {
					fs.Spice -= cost
					if f == BeneGesserit && asAdvisors {
						sendAdvisor(gs, f, territoryID, sector, regular)
						events = append(events, Event{Type: EventAdvisorSent, Turn: gs.Turn, Phase: PhaseShipMove, Faction: f, Payload: territoryID})
					} else {
						addForces(gs, f, territoryID, sector, regular, elite)
					}
					events = append(events, Event{Type: EventForcesShipped, Turn: gs.Turn, Phase: PhaseShipMove, Faction: f, Payload: territoryID})
				}
			}
		}
		gs.PhaseStep = shipMoveStepMove
		return StepResult{State: gs, Events: events}, nil

	case shipMoveStepMove:
		if len(responses) == 0 || responses[0].FactionID != f {
			return StepResult{State: gs, PendingRequests: []AgentRequest{{
				FactionID: f, RequestType: ReqMoveForces, Prompt: "move one group you control",
			}}}, nil
		}
		r := responses[0]
		if !r.Passed && !gs.Factions[f].Flags.HasMoved {
			spec, _ := r.Data.(map[string]any)
			fromT, _ := spec["from_territory"].(string)
			fromS, _ := spec["from_sector"].(int)
			toT, _ := spec["to_territory"].(string)
			toS, _ := spec["to_sector"].(int)
			regular, _ := spec["regular"].(int)
			elite, _ := spec["elite"].(int)
			if canMove(gs, h.mgr.Map, f, gs.Factions[f].Flags.OrnithopterAccess, fromT, toT, toS) {
				relocateForces(gs, f, fromT, fromS, toT, toS, regular, elite)
				gs.Factions[f].Flags.HasMoved = true
				events = append(events, Event{Type: EventForcesMoved, Turn: gs.Turn, Phase: PhaseShipMove, Faction: f, Payload: toT})
			}
		}
		if f == BeneGesserit {
			h.askedAdvisors = false
			gs.PhaseStep = shipMoveStepAdvisors
			return StepResult{State: gs, Events: events}, nil
		}
		h.idx++
		gs.PhaseStep = shipMoveStepShip
		return StepResult{State: gs, Events: events}, nil

	case shipMoveStepAdvisors:
		return h.advisors(gs, responses, f, events)

	default:
		h.idx++
		gs.PhaseStep = shipMoveStepShip
		return StepResult{State: gs}, nil
	}
}

func (h *ShipMoveHandler) guildTiming(gs *GameState, responses []AgentResponse) (StepResult, error) {
	if _, alive := gs.Factions[Guild]; !alive || (len(h.order) > 0 && h.order[0] == Guild) {
		gs.PhaseStep = shipMoveStepShip
		return h.ProcessStep(gs, nil)
	}
	if !h.askedGuildTiming {
		h.askedGuildTiming = true
		return StepResult{State: gs, PendingRequests: []AgentRequest{
			{FactionID: Guild, RequestType: ReqGuildTimingDecision, Prompt: "ship out of your normal turn order?"},
		}}, nil
	}
	var events []Event
	for _, r := range responses {
		if r.FactionID != Guild || r.Passed {
			continue
		}
		reordered := []Faction{Guild}
		for _, f := range h.order {
			if f != Guild {
				reordered = append(reordered, f)
			}
		}
		h.order = reordered
		events = append(events, Event{Type: EventGuildShippedOutOfTurn, Turn: gs.Turn, Phase: PhaseShipMove, Faction: Guild})
	}
	gs.PhaseStep = shipMoveStepShip
	return StepResult{State: gs, Events: events}, nil
}

func (h *ShipMoveHandler) advisors(gs *GameState, responses []AgentResponse, f Faction, events []Event) (StepResult, error) {
	if !h.askedAdvisors {
		h.askedAdvisors = true
		return StepResult{State: gs, Events: events, PendingRequests: []AgentRequest{
			{FactionID: BeneGesserit, RequestType: ReqFlipAdvisors, Prompt: "flip a stack between advisors and fighters?"},
		}}, nil
	}
	for _, r := range responses {
		if r.FactionID != BeneGesserit || r.Passed {
			continue
		}
		spec, _ := r.Data.(map[string]any)
		territoryID, _ := spec["territory"].(string)
		sector, _ := spec["sector"].(int)
		toFighters, _ := spec["to_fighters"].(bool)
		if territoryID == "" {
			continue
		}
		if toFighters || soleOccupant(gs, BeneGesserit, territoryID, sector) {
			flipAdvisors(gs, BeneGesserit, territoryID, sector, toFighters)
			events = append(events, Event{Type: EventAdvisorsFlipped, Turn: gs.Turn, Phase: PhaseShipMove, Faction: BeneGesserit, Payload: territoryID})
		}
	}
	h.idx++
	gs.PhaseStep = shipMoveStepShip
	return StepResult{State: gs, Events: events}, nil
}

func (h *ShipMoveHandler) Cleanup(gs *GameState) (*GameState, []Event) {
	gs = gs.Clone()
	gs.PhaseStep = ""
	for _, fs := range gs.Factions {
		fs.Flags.HasMoved = false
	}
	return gs, nil
}
