package dune

const (
	spiceBlowStepRevealA     = "REVEAL_A"
	spiceBlowStepRevealB     = "REVEAL_B"
	spiceBlowStepWormDecision = "WORM_DECISION"
	spiceBlowStepDone        = "DONE"
)

// SpiceBlowHandler reveals the top card of deck A (and, once advanced rules
// are in play, deck B), places spice or resolves a Shai-Hulud appearance,
// lets Fremen ride any worm that devours a territory, and sets aside the
// first worms of turn 1 rather than triggering a devour (§4.3).
type SpiceBlowHandler struct {
	mgr *Manager

	pendingDevours  []SpiceEntry
	devourIdx       int
	askedPlacement  bool
	askedRide       map[int]bool
	askedProtect    map[int]bool
	rideHandled     map[int]bool
	protectHandled  map[int]bool
}

func (h *SpiceBlowHandler) Initialize(gs *GameState) (*GameState, []Event) {
	gs = gs.Clone()
	gs.PhaseStep = spiceBlowStepRevealA
	h.pendingDevours = nil
	h.devourIdx = 0
	h.askedPlacement = false
	h.askedRide = map[int]bool{}
	h.askedProtect = map[int]bool{}
	h.rideHandled = map[int]bool{}
	h.protectHandled = map[int]bool{}
	return gs, nil
}

func (h *SpiceBlowHandler) ProcessStep(gs *GameState, responses []AgentResponse) (StepResult, error) {
	gs = gs.Clone()
	var events []Event

	switch gs.PhaseStep {
	case spiceBlowStepRevealA:
		evs, devours := h.revealDeck(gs, 'A')
		events = append(events, evs...)
		h.pendingDevours = append(h.pendingDevours, devours...)
		if gs.Config.AdvancedRules {
			gs.PhaseStep = spiceBlowStepRevealB
		} else {
			gs.PhaseStep = spiceBlowStepWormDecision
		}
		return StepResult{State: gs, Events: events}, nil

	case spiceBlowStepRevealB:
		evs, devours := h.revealDeck(gs, 'B')
		events = append(events, evs...)
		h.pendingDevours = append(h.pendingDevours, devours...)
		gs.PhaseStep = spiceBlowStepWormDecision
		return StepResult{State: gs, Events: events}, nil

	case spiceBlowStepWormDecision:
		return h.resolveWormDecision(gs, responses)

	default:
		return StepResult{State: gs, PhaseComplete: true}, nil
	}
}

// revealDeck keeps drawing from one deck letter until a Territory Card
// resolves, collecting any worm devour locations seen along the way
// (§4.3): a worm keeps the reveal going instead of ending it.
func (h *SpiceBlowHandler) revealDeck(gs *GameState, which byte) (events []Event, devours []SpiceEntry) {
	for {
		card, ok := drawSpiceCard(gs, which)
		if !ok {
			return events, devours
		}
		events = append(events, Event{Type: EventSpiceCardRevealed, Turn: gs.Turn, Phase: PhaseSpiceBlow, Payload: card.ID})

		if card.Type == SpiceCardShaiHulud {
			events = append(events, Event{Type: EventShaiHuludAppeared, Turn: gs.Turn, Phase: PhaseSpiceBlow, Payload: card.ID})
			if gs.Turn == 1 {
				gs.SetAsideWormsTurn1 = append(gs.SetAsideWormsTurn1, card)
				continue
			}
			gs.WormCount++
			if gs.Config.Variants.ShieldWallStronghold && gs.WormCount >= ShieldWallWormThreshold && !gs.ShieldWallDestroyed {
				gs.ShieldWallDestroyed = true
				events = append(events, Event{Type: EventShieldWallDestroyed, Turn: gs.Turn, Phase: PhaseSpiceBlow})
			}
			var discard *[]SpiceCard
			if which == 'A' {
				discard = &gs.DiscardA
			} else {
				discard = &gs.DiscardB
			}
			for i := len(*discard) - 1; i >= 0; i-- {
				if (*discard)[i].Type != SpiceCardTerritory {
					continue
				}
				top := (*discard)[i]
				devours = append(devours, SpiceEntry{TerritoryID: top.TerritoryID, Sector: top.Sector})
				break
			}
			discardSpiceCard(gs, which, card)
			continue
		}

		if !sectorStormBlocked(gs, h.mgr.Map, card.TerritoryID, card.Sector) {
			addSpiceAt(gs, card.TerritoryID, card.Sector, card.Amount)
			events = append(events, Event{Type: EventSpicePlaced, Turn: gs.Turn, Phase: PhaseSpiceBlow, Payload: card.TerritoryID})
		}
		discardSpiceCard(gs, which, card)
		return events, devours
	}
}

func (h *SpiceBlowHandler) resolveWormDecision(gs *GameState, responses []AgentResponse) (StepResult, error) {
	var events []Event

	if len(h.pendingDevours) == 0 {
		gs.PhaseStep = spiceBlowStepDone
		return StepResult{State: gs, PhaseComplete: true}, nil
	}

	if gs.Config.AdvancedRules && len(h.pendingDevours) > 1 && !h.askedPlacement {
		h.askedPlacement = true
		if _, ok := gs.Factions[Fremen]; ok {
			var ids []string
			for _, d := range h.pendingDevours {
				ids = append(ids, d.TerritoryID)
			}
			return StepResult{State: gs, PendingRequests: []AgentRequest{
				{FactionID: Fremen, RequestType: ReqPlaceSandworm, Prompt: "choose the order in which multiple worms devour", Context: ids},
			}}, nil
		}
	}
	if h.askedPlacement && len(responses) > 0 && h.devourIdx == 0 {
		for _, r := range responses {
			if r.FactionID != Fremen || r.Passed {
				continue
			}
			order, _ := r.Data.([]string)
			if len(order) == len(h.pendingDevours) {
				reordered := make([]SpiceEntry, 0, len(order))
				for _, id := range order {
					for _, d := range h.pendingDevours {
						if d.TerritoryID == id {
							reordered = append(reordered, d)
						}
					}
				}
				if len(reordered) == len(h.pendingDevours) {
					h.pendingDevours = reordered
				}
			}
		}
	}

	if h.devourIdx >= len(h.pendingDevours) {
		gs.PhaseStep = spiceBlowStepDone
		return StepResult{State: gs, PhaseComplete: true}, nil
	}
	loc := h.pendingDevours[h.devourIdx]

	if _, ok := gs.Factions[Fremen]; !ok {
		events = append(events, h.applyDevour(gs, loc, false)...)
		h.devourIdx++
		return StepResult{State: gs, Events: events}, nil
	}

	if !h.askedRide[h.devourIdx] {
		h.askedRide[h.devourIdx] = true
		return StepResult{State: gs, PendingRequests: []AgentRequest{
			{FactionID: Fremen, RequestType: ReqWormRide, Prompt: "ride this worm to the devoured territory?", Context: loc.TerritoryID},
		}}, nil
	}
	if !h.rideHandled[h.devourIdx] {
		h.rideHandled[h.devourIdx] = true
		for _, r := range responses {
			if r.FactionID != Fremen || r.Passed {
				continue
			}
			fs := gs.Factions[Fremen]
			for _, s := range fs.OnBoard {
				if s.Total() > 0 && s.TerritoryID != loc.TerritoryID {
					relocateForces(gs, Fremen, s.TerritoryID, s.Sector, loc.TerritoryID, loc.Sector, s.Regular, s.Elite)
					events = append(events, Event{Type: EventWormRidden, Turn: gs.Turn, Phase: PhaseSpiceBlow, Faction: Fremen, Payload: loc.TerritoryID})
					break
				}
			}
		}
	}

	ally := gs.Factions[Fremen].AllyID
	protectAlly := false
	if ally != NoFaction {
		if !h.askedProtect[h.devourIdx] {
			h.askedProtect[h.devourIdx] = true
			return StepResult{State: gs, Events: events, PendingRequests: []AgentRequest{
				{FactionID: Fremen, RequestType: ReqProtectAllyFromWorm, Prompt: "extend worm immunity to your ally at this territory?", Context: loc.TerritoryID},
			}}, nil
		}
		if !h.protectHandled[h.devourIdx] {
			h.protectHandled[h.devourIdx] = true
			for _, r := range responses {
				if r.FactionID == Fremen && !r.Passed {
					protectAlly = true
				}
			}
		}
	}

	events = append(events, h.applyDevour(gs, loc, protectAlly)...)
	h.devourIdx++
	return StepResult{State: gs, Events: events}, nil
}

// applyDevour kills every non-Fremen, non-protected-ally faction's forces
// at a devoured location; Fremen are always immune (§4.2, §4.3).
func (h *SpiceBlowHandler) applyDevour(gs *GameState, loc SpiceEntry, protectAlly bool) []Event {
	var events []Event
	if removed := removeSpiceAt(gs, loc.TerritoryID, loc.Sector, maxSpicePile); removed > 0 {
		events = append(events, Event{Type: EventSpiceDevoured, Turn: gs.Turn, Phase: PhaseSpiceBlow, Payload: loc.TerritoryID})
	}
	ally := NoFaction
	if fremen, ok := gs.Factions[Fremen]; ok {
		ally = fremen.AllyID
	}
	for _, fs := range gs.Factions {
		if fs.Faction == Fremen {
			events = append(events, Event{Type: EventFremenWormImmunity, Turn: gs.Turn, Phase: PhaseSpiceBlow, Faction: Fremen})
			continue
		}
		if protectAlly && fs.Faction == ally {
			continue
		}
		r, e := killEntireStackAt(gs, fs.Faction, loc.TerritoryID, loc.Sector)
		if r+e > 0 {
			events = append(events, Event{Type: EventForcesDevoured, Turn: gs.Turn, Phase: PhaseSpiceBlow, Faction: fs.Faction})
		}
	}
	return events
}

func (h *SpiceBlowHandler) Cleanup(gs *GameState) (*GameState, []Event) {
	gs = gs.Clone()
	gs.PhaseStep = ""
	if gs.Turn == 1 && len(gs.SetAsideWormsTurn1) > 0 {
		for i, c := range gs.SetAsideWormsTurn1 {
			if i%2 == 0 {
				gs.DeckA = append(gs.DeckA, c)
			} else {
				gs.DeckB = append(gs.DeckB, c)
			}
		}
		shuffleSpiceCards(gs.DeckA)
		shuffleSpiceCards(gs.DeckB)
		gs.SetAsideWormsTurn1 = nil
		return gs, []Event{{Type: EventSetAsideWormsReshuffled, Turn: gs.Turn, Phase: PhaseSpiceBlow}}
	}
	return gs, nil
}
