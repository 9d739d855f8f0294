package dune

import "fmt"

const (
	stormStepDialing       = "DIALING"
	stormStepFamilyAtomics = "FAMILY_ATOMICS_CHECK"
	stormStepWeatherCheck  = "WEATHER_CONTROL_CHECK"
	stormStepApplyMovement = "APPLY_MOVEMENT"
	stormStepDone          = "DONE"
)

// StormHandler runs the Storm phase's internal sub-state-machine (§4.2):
// two dials are combined (turn 1 dials a wide 0-20 range from a single
// nearest faction), Family Atomics may destroy the Shield Wall before the
// storm moves, Weather Control may override the dialed movement, and
// finally the storm advances and kills/destroys whatever it crosses.
type StormHandler struct {
	mgr *Manager

	dials         map[Faction]int
	dialers       []Faction
	dialedMovement int
	stormOverride int

	askedAtomics bool
	askedWeather bool
}

func (h *StormHandler) Initialize(gs *GameState) (*GameState, []Event) {
	gs = gs.Clone()
	gs.PhaseStep = stormStepDialing
	h.dials = map[Faction]int{}
	h.dialers = dialingFactions(gs)
	if gs.Turn == 1 && len(h.dialers) > 1 {
		h.dialers = h.dialers[:1]
	}
	h.dialedMovement = 0
	h.stormOverride = -1
	h.askedAtomics, h.askedWeather = false, false
	return gs, nil
}

func (h *StormHandler) ProcessStep(gs *GameState, responses []AgentResponse) (StepResult, error) {
	gs = gs.Clone()
	var events []Event

	switch gs.PhaseStep {
	case stormStepDialing:
		for _, r := range responses {
			if _, asked := h.dials[r.FactionID]; asked {
				continue
			}
			n, _ := r.Data.(int)
			h.dials[r.FactionID] = n
		}
		var pending []AgentRequest
		lo, hi := dialRange(gs.Turn)
		for _, f := range h.dialers {
			if _, ok := h.dials[f]; ok {
				continue
			}
			pending = append(pending, AgentRequest{
				FactionID: f, RequestType: ReqDialStorm,
				Prompt: fmt.Sprintf("choose a storm dial %d-%d", lo, hi),
			})
		}
		if len(pending) > 0 {
			return StepResult{State: gs, PendingRequests: pending}, nil
		}
		total := 0
		for _, f := range h.dialers {
			total += h.dials[f]
		}
		h.dialedMovement = total % SectorCount
		events = append(events, Event{Type: EventStormDialRevealed, Turn: gs.Turn, Phase: PhaseStorm, Payload: h.dialedMovement})
		gs.PhaseStep = stormStepFamilyAtomics
		return StepResult{State: gs, Events: events}, nil

	case stormStepFamilyAtomics:
		if gs.ShieldWallDestroyed {
			gs.PhaseStep = stormStepWeatherCheck
			return StepResult{State: gs}, nil
		}
		if !h.askedAtomics {
			h.askedAtomics = true
			var reqs []AgentRequest
			for f, fs := range gs.Factions {
				if hasCard(fs, "family_atomics") {
					reqs = append(reqs, AgentRequest{FactionID: f, RequestType: ReqPlayFamilyAtomics, Prompt: "play Family Atomics to destroy the Shield Wall?"})
				}
			}
			if len(reqs) > 0 {
				return StepResult{State: gs, PendingRequests: reqs}, nil
			}
			gs.PhaseStep = stormStepWeatherCheck
			return StepResult{State: gs}, nil
		}
		for _, r := range responses {
			if r.Passed {
				continue
			}
			if discardFromHand(gs, r.FactionID, "family_atomics") {
				gs.ShieldWallDestroyed = true
				events = append(events, Event{Type: EventShieldWallDestroyed, Turn: gs.Turn, Phase: PhaseStorm, Faction: r.FactionID})
			}
		}
		gs.PhaseStep = stormStepWeatherCheck
		return StepResult{State: gs, Events: events}, nil

	case stormStepWeatherCheck:
		if !h.askedWeather {
			h.askedWeather = true
			var reqs []AgentRequest
			for f, fs := range gs.Factions {
				if hasCard(fs, "weather_control") {
					reqs = append(reqs, AgentRequest{FactionID: f, RequestType: ReqPlayWeatherControl, Prompt: "play Weather Control to set the storm's movement?"})
				}
			}
			if len(reqs) > 0 {
				return StepResult{State: gs, PendingRequests: reqs}, nil
			}
			gs.PhaseStep = stormStepApplyMovement
			return StepResult{State: gs}, nil
		}
		for _, r := range responses {
			if r.Passed {
				continue
			}
			n, _ := r.Data.(int)
			if discardFromHand(gs, r.FactionID, "weather_control") {
				h.stormOverride = ((n % SectorCount) + SectorCount) % SectorCount
				events = append(events, Event{Type: EventWeatherControlPlayed, Turn: gs.Turn, Phase: PhaseStorm, Faction: r.FactionID, Payload: h.stormOverride})
			}
		}
		gs.PhaseStep = stormStepApplyMovement
		return StepResult{State: gs, Events: events}, nil

	case stormStepApplyMovement:
		movement := h.dialedMovement
		if h.stormOverride >= 0 {
			movement = h.stormOverride
		}
		passed := moveStormSectors(gs, movement)
		events = append(events, Event{Type: EventStormMoved, Turn: gs.Turn, Phase: PhaseStorm, Payload: passed})

		m := h.mgr.Map
		for _, sector := range passed {
			for _, t := range m.Territories {
				if territoryStormProtected(gs, t) {
					continue
				}
				if !t.InStorm(sector) {
					continue
				}
				destroyed := clearSpiceInTerritory(gs, t)
				if destroyed > 0 {
					events = append(events, Event{Type: EventSpiceDestroyedByStorm, Turn: gs.Turn, Phase: PhaseStorm, Payload: fmt.Sprintf("%s:%d", t.ID, destroyed)})
				}
				for _, fs := range gs.Factions {
					if fs.Faction == Fremen {
						r, e := killHalfStackAt(gs, fs.Faction, t.ID, sector)
						if r+e > 0 {
							events = append(events, Event{Type: EventForcesKilledByStorm, Turn: gs.Turn, Phase: PhaseStorm, Faction: fs.Faction, Payload: fmt.Sprintf("%s:%d", t.ID, r+e)})
						}
						continue
					}
					r, e := killEntireStackAt(gs, fs.Faction, t.ID, sector)
					if r+e > 0 {
						events = append(events, Event{Type: EventForcesKilledByStorm, Turn: gs.Turn, Phase: PhaseStorm, Faction: fs.Faction, Payload: fmt.Sprintf("%s:%d", t.ID, r+e)})
					}
				}
			}
		}
		recomputeStormOrder(gs)
		gs.PhaseStep = stormStepDone
		return StepResult{State: gs, Events: events}, nil

	default:
		return StepResult{State: gs, PhaseComplete: true}, nil
	}
}

func (h *StormHandler) Cleanup(gs *GameState) (*GameState, []Event) {
	gs = gs.Clone()
	gs.PhaseStep = ""
	return gs, nil
}

// dialRange returns the legal storm-dial range for the turn: turn 1 is a
// wide 0-20 spread dialed by a single nearest faction, turn 2+ is the
// standard 1-3 two-faction dial (§4.2).
func dialRange(turn int) (lo, hi int) {
	if turn == 1 {
		return 0, 20
	}
	return 1, 3
}

// dialingFactions returns the factions that dial the storm this turn: the
// nearest alive faction clockwise and the nearest alive faction
// counter-clockwise from the current storm sector, by fixed seat position
// (§4.2). A faction that is nearest on both sides dials alone.
func dialingFactions(gs *GameState) []Faction {
	type seated struct {
		f        Faction
		cwDist   int
		ccwDist  int
	}
	var entries []seated
	for _, f := range gs.FactionOrder {
		seat, ok := gs.SeatSector[f]
		if !ok {
			continue
		}
		cw := ((seat - gs.StormSector) % SectorCount + SectorCount) % SectorCount
		ccw := ((gs.StormSector - seat) % SectorCount + SectorCount) % SectorCount
		entries = append(entries, seated{f, cw, ccw})
	}
	if len(entries) == 0 {
		return nil
	}
	nearestCW, nearestCCW := entries[0], entries[0]
	for _, e := range entries[1:] {
		if e.cwDist < nearestCW.cwDist {
			nearestCW = e
		}
		if e.ccwDist < nearestCCW.ccwDist {
			nearestCCW = e
		}
	}
	if nearestCW.f == nearestCCW.f {
		return []Faction{nearestCW.f}
	}
	return []Faction{nearestCW.f, nearestCCW.f}
}
