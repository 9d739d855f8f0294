package dune

import "fmt"

const (
	battleStepOrder           = "ORDER"
	battleStepFindBattles     = "FIND_BATTLES"
	battleStepBGIntrusion     = "BG_INTRUSION"
	battleStepTakeUpArms      = "TAKE_UP_ARMS"
	battleStepPrescienceAsk   = "PRESCIENCE_ASK"
	battleStepPrescienceReveal = "PRESCIENCE_REVEAL"
	battleStepVoiceAsk        = "VOICE_ASK"
	battleStepPlans           = "COLLECT_PLANS"
	battleStepTraitors        = "TRAITORS"
	battleStepResolve         = "RESOLVE"
	battleStepCapture         = "CAPTURE"
	battleStepDone            = "DONE"
)

// battlePending describes one contested (territory, sector): exactly two
// factions with battle-capable forces present.
type battlePending struct {
	territoryID string
	sector      int
	attacker    Faction
	defender    Faction
}

// battlePlan is one faction's committed plan for the current battle.
type battlePlan struct {
	leaderID     string
	forcesDialed int
	weapon       string
	defense      string
	spentSpice   bool
	spiceStake   int
}

// BattleHandler resolves every contested territory, with the first
// combatant in storm order free to choose the order in which the battles
// are resolved when several are pending at once (§4.7); if it makes no
// choice, the order is that of findBattles, which is not defined. Each side may be
// intruded on by Bene Gesserit advisors, may take up arms as a Fremen ally,
// may use Prescience or Voice, commits a leader/dial/weapon/defense, may
// call a held traitor, and the higher total strength wins — with a lasgun
// against a shield exploding both stacks, a weapon beating the loser's
// defense killing that leader outright regardless of the strength result,
// and Harkonnen able to capture a losing leader instead of killing it.
type BattleHandler struct {
	mgr *Manager

	battles []battlePending
	idx     int
	plans   map[Faction]*battlePlan
	asked   map[string]bool

	traitorCalls map[Faction]bool

	usingPrescience    bool
	prescienceElement  string
	voiceCommand       string
	voiceTarget        Faction
	takeUpArmsBonus    int

	captureLoser   Faction
	captureLeader  string
	captureWinner  Faction
}

func (h *BattleHandler) Initialize(gs *GameState) (*GameState, []Event) {
	gs = gs.Clone()
	h.battles = findBattles(gs, h.mgr.Map)
	h.idx = 0
	h.asked = map[string]bool{}
	if len(h.battles) > 1 {
		gs.PhaseStep = battleStepOrder
	} else {
		gs.PhaseStep = battleStepFindBattles
	}
	return gs, nil
}

func findBattles(gs *GameState, m *DuneMap) []battlePending {
	var out []battlePending
	type key struct {
		t string
		s int
	}
	occupants := map[key][]Faction{}
	for _, t := range m.Territories {
		for _, sector := range t.Sectors {
			k := key{t.ID, sector}
			for _, f := range gs.FactionOrder {
				for _, stack := range gs.Factions[f].StacksAt(t.ID, sector) {
					if stack.BattleCapable() {
						occupants[k] = append(occupants[k], f)
					}
				}
			}
		}
	}
	for k, fs := range occupants {
		if len(fs) == 2 {
			out = append(out, battlePending{territoryID: k.t, sector: k.s, attacker: fs[0], defender: fs[1]})
		}
	}
	return out
}

// battleAggressor returns the first faction in storm order participating
// in any pending battle — the faction that chooses the resolution order
// when multiple battles are pending at once.
func battleAggressor(gs *GameState, battles []battlePending) Faction {
	for _, f := range gs.StormOrder {
		for _, b := range battles {
			if b.attacker == f || b.defender == f {
				return f
			}
		}
	}
	return NoFaction
}

func battleTerritoryIDs(battles []battlePending) []string {
	ids := make([]string, len(battles))
	for i, b := range battles {
		ids[i] = b.territoryID
	}
	return ids
}

func reorderBattles(battles []battlePending, order []string) []battlePending {
	if len(order) != len(battles) {
		return battles
	}
	out := make([]battlePending, 0, len(battles))
	for _, id := range order {
		for _, b := range battles {
			if b.territoryID == id {
				out = append(out, b)
			}
		}
	}
	if len(out) != len(battles) {
		return battles
	}
	return out
}

func (h *BattleHandler) ProcessStep(gs *GameState, responses []AgentResponse) (StepResult, error) {
	gs = gs.Clone()
	var events []Event

	if gs.PhaseStep == battleStepOrder {
		return h.order(gs, responses)
	}

	if h.idx >= len(h.battles) {
		return StepResult{State: gs, PhaseComplete: true}, nil
	}
	b := h.battles[h.idx]

	switch gs.PhaseStep {
	case battleStepFindBattles:
		h.plans = map[Faction]*battlePlan{}
		h.asked = map[string]bool{}
		h.traitorCalls = nil
		h.usingPrescience = false
		h.prescienceElement = ""
		h.voiceCommand = ""
		h.voiceTarget = NoFaction
		h.takeUpArmsBonus = 0
		events = append(events, Event{Type: EventBattleStarted, Turn: gs.Turn, Phase: PhaseBattle, Payload: fmt.Sprintf("%s:%s vs %s", b.territoryID, b.attacker, b.defender)})
		gs.PhaseStep = battleStepBGIntrusion
		return StepResult{State: gs, Events: events}, nil

	case battleStepBGIntrusion:
		return h.bgIntrusion(gs, responses, b)

	case battleStepTakeUpArms:
		return h.takeUpArms(gs, responses, b)

	case battleStepPrescienceAsk:
		return h.prescienceAsk(gs, responses, b)

	case battleStepPrescienceReveal:
		return h.prescienceReveal(gs, responses, b)

	case battleStepVoiceAsk:
		return h.voiceAsk(gs, responses, b)

	case battleStepPlans:
		return h.collectPlans(gs, responses, b)

	case battleStepTraitors:
		return h.collectTraitorCalls(gs, responses, b)

	case battleStepResolve:
		evs, needsCapture := h.resolve(gs, b)
		events = append(events, evs...)
		if needsCapture {
			gs.PhaseStep = battleStepCapture
			return StepResult{State: gs, Events: events}, nil
		}
		h.idx++
		gs.PhaseStep = battleStepFindBattles
		return StepResult{State: gs, Events: events}, nil

	case battleStepCapture:
		return h.capture(gs, responses)

	default:
		h.idx++
		gs.PhaseStep = battleStepFindBattles
		return StepResult{State: gs}, nil
	}
}

func (h *BattleHandler) order(gs *GameState, responses []AgentResponse) (StepResult, error) {
	aggressor := battleAggressor(gs, h.battles)
	if aggressor == NoFaction {
		gs.PhaseStep = battleStepFindBattles
		return StepResult{State: gs}, nil
	}
	if !h.asked1("order") {
		return StepResult{State: gs, PendingRequests: []AgentRequest{
			{FactionID: aggressor, RequestType: ReqChooseBattle, Prompt: "choose the order in which to resolve pending battles", Context: battleTerritoryIDs(h.battles)},
		}}, nil
	}
	for _, r := range responses {
		if r.FactionID != aggressor || r.Passed {
			continue
		}
		order, _ := r.Data.([]string)
		if len(order) > 0 {
			h.battles = reorderBattles(h.battles, order)
		}
	}
	gs.PhaseStep = battleStepFindBattles
	return StepResult{State: gs}, nil
}

// asked1 is a one-shot "have I already dispatched this step's request"
// check keyed by name; the asked map is reset fresh at the top-level
// Initialize and per-battle in battleStepFindBattles.
func (h *BattleHandler) asked1(key string) bool {
	if h.asked == nil {
		h.asked = map[string]bool{}
	}
	if h.asked[key] {
		return true
	}
	h.asked[key] = true
	return false
}

func (h *BattleHandler) bgIntrusion(gs *GameState, responses []AgentResponse, b battlePending) (StepResult, error) {
	bg, alive := gs.Factions[BeneGesserit]
	if !alive || BeneGesserit == b.attacker || BeneGesserit == b.defender {
		gs.PhaseStep = battleStepTakeUpArms
		return StepResult{State: gs}, nil
	}
	hasAdvisors := false
	for _, s := range bg.StacksAt(b.territoryID, b.sector) {
		if s.Advisors > 0 {
			hasAdvisors = true
		}
	}
	if !hasAdvisors {
		gs.PhaseStep = battleStepTakeUpArms
		return StepResult{State: gs}, nil
	}
	if !h.asked1(battleStepBGIntrusion) {
		return StepResult{State: gs, PendingRequests: []AgentRequest{
			{FactionID: BeneGesserit, RequestType: ReqBGIntrusion, Prompt: "intrude into this battle by flipping your advisors to fighters?", Context: b.territoryID},
		}}, nil
	}
	var events []Event
	for _, r := range responses {
		if r.FactionID == BeneGesserit && !r.Passed {
			flipAdvisors(gs, BeneGesserit, b.territoryID, b.sector, true)
			events = append(events, Event{Type: EventAdvisorsFlipped, Turn: gs.Turn, Phase: PhaseBattle, Faction: BeneGesserit, Payload: b.territoryID})
		}
	}
	gs.PhaseStep = battleStepTakeUpArms
	return StepResult{State: gs, Events: events}, nil
}

func (h *BattleHandler) takeUpArms(gs *GameState, responses []AgentResponse, b battlePending) (StepResult, error) {
	fremenSide := Faction(NoFaction)
	if b.attacker == Fremen {
		fremenSide = b.attacker
	} else if b.defender == Fremen {
		fremenSide = b.defender
	}
	ally := Faction(NoFaction)
	if fremenSide != NoFaction {
		ally = gs.Factions[fremenSide].AllyID
	}
	if fremenSide == NoFaction || ally == NoFaction {
		gs.PhaseStep = battleStepPrescienceAsk
		return StepResult{State: gs}, nil
	}
	if !h.asked1(battleStepTakeUpArms) {
		return StepResult{State: gs, PendingRequests: []AgentRequest{
			{FactionID: ally, RequestType: ReqTakeUpArms, Prompt: "take up arms alongside your Fremen ally in this battle?"},
		}}, nil
	}
	for _, r := range responses {
		if r.FactionID == ally && !r.Passed {
			h.takeUpArmsBonus = TakeUpArmsForceBonus
		}
	}
	gs.PhaseStep = battleStepPrescienceAsk
	return StepResult{State: gs}, nil
}

func (h *BattleHandler) prescienceAsk(gs *GameState, responses []AgentResponse, b battlePending) (StepResult, error) {
	if _, alive := gs.Factions[Atreides]; !alive || (Atreides != b.attacker && Atreides != b.defender) {
		gs.PhaseStep = battleStepVoiceAsk
		return StepResult{State: gs}, nil
	}
	if !h.asked1(battleStepPrescienceAsk) {
		return StepResult{State: gs, PendingRequests: []AgentRequest{
			{FactionID: Atreides, RequestType: ReqUsePrescience, Prompt: "use Prescience to peek at your opponent's plan element?"},
		}}, nil
	}
	for _, r := range responses {
		if r.FactionID != Atreides || r.Passed {
			continue
		}
		h.usingPrescience = true
		elem, _ := r.Data.(string)
		if elem == "" {
			elem = "weapon"
		}
		h.prescienceElement = elem
	}
	if h.usingPrescience {
		gs.PhaseStep = battleStepPrescienceReveal
	} else {
		gs.PhaseStep = battleStepVoiceAsk
	}
	return StepResult{State: gs}, nil
}

func (h *BattleHandler) prescienceReveal(gs *GameState, responses []AgentResponse, b battlePending) (StepResult, error) {
	opponent := b.defender
	if Atreides == b.defender {
		opponent = b.attacker
	}
	if h.plans[opponent] == nil {
		if !h.asked1("prescience_plan") {
			return StepResult{State: gs, PendingRequests: []AgentRequest{
				{FactionID: opponent, RequestType: ReqCreateBattlePlan, Prompt: "submit your battle plan", Context: b},
			}}, nil
		}
		for _, r := range responses {
			if r.FactionID != opponent {
				continue
			}
			h.plans[opponent] = parseBattlePlan(r.Data)
			events := []Event{{Type: EventBattlePlanSubmitted, Turn: gs.Turn, Phase: PhaseBattle, Faction: opponent}}
			return StepResult{State: gs, Events: events}, nil
		}
		return StepResult{State: gs}, nil
	}
	if !h.asked1("prescience_reveal") {
		var value any
		switch h.prescienceElement {
		case "leader":
			value = h.plans[opponent].leaderID
		case "forces":
			value = h.plans[opponent].forcesDialed
		case "defense":
			value = h.plans[opponent].defense
		default:
			value = h.plans[opponent].weapon
		}
		return StepResult{State: gs, PendingRequests: []AgentRequest{
			{FactionID: Atreides, RequestType: ReqRevealPrescienceElement, Prompt: "here is the revealed element", Context: value},
		}}, nil
	}
	events := []Event{{Type: EventPrescienceUsed, Turn: gs.Turn, Phase: PhaseBattle, Faction: Atreides, Payload: h.prescienceElement}}
	gs.PhaseStep = battleStepVoiceAsk
	return StepResult{State: gs, Events: events}, nil
}

func (h *BattleHandler) voiceAsk(gs *GameState, responses []AgentResponse, b battlePending) (StepResult, error) {
	if _, alive := gs.Factions[BeneGesserit]; !alive || (BeneGesserit != b.attacker && BeneGesserit != b.defender) {
		gs.PhaseStep = battleStepPlans
		return StepResult{State: gs}, nil
	}
	opponent := b.defender
	if BeneGesserit == b.defender {
		opponent = b.attacker
	}
	if !h.asked1(battleStepVoiceAsk) {
		return StepResult{State: gs, PendingRequests: []AgentRequest{
			{FactionID: BeneGesserit, RequestType: ReqUseVoice, Prompt: "use Voice to command your opponent's plan?"},
		}}, nil
	}
	var events []Event
	for _, r := range responses {
		if r.FactionID != BeneGesserit || r.Passed {
			continue
		}
		command, _ := r.Data.(string)
		if command == "" {
			continue
		}
		h.voiceCommand, h.voiceTarget = command, opponent
		events = append(events, Event{Type: EventVoiceUsed, Turn: gs.Turn, Phase: PhaseBattle, Faction: BeneGesserit, Payload: command})
	}
	if h.voiceCommand != "" && !h.asked1("voice_comply") {
		return StepResult{State: gs, Events: events, PendingRequests: []AgentRequest{
			{FactionID: h.voiceTarget, RequestType: ReqComplyWithVoice, Prompt: "your opponent used Voice on your plan", Context: h.voiceCommand},
		}}, nil
	}
	gs.PhaseStep = battleStepPlans
	return StepResult{State: gs, Events: events}, nil
}

func (h *BattleHandler) collectPlans(gs *GameState, responses []AgentResponse, b battlePending) (StepResult, error) {
	var events []Event
	for _, r := range responses {
		if r.FactionID != b.attacker && r.FactionID != b.defender {
			continue
		}
		if h.plans[r.FactionID] != nil {
			continue
		}
		plan := parseBattlePlan(r.Data)
		if r.FactionID == h.voiceTarget {
			applyVoiceConstraint(plan, h.voiceCommand)
		}
		if r.FactionID == Fremen {
			plan.forcesDialed += h.takeUpArmsBonus
		}
		h.plans[r.FactionID] = plan
		events = append(events, Event{Type: EventBattlePlanSubmitted, Turn: gs.Turn, Phase: PhaseBattle, Faction: r.FactionID})
	}
	if h.plans[b.attacker] == nil || h.plans[b.defender] == nil {
		var reqs []AgentRequest
		if h.plans[b.attacker] == nil {
			reqs = append(reqs, AgentRequest{FactionID: b.attacker, RequestType: ReqCreateBattlePlan, Prompt: "submit your battle plan", Context: b})
		}
		if h.plans[b.defender] == nil {
			reqs = append(reqs, AgentRequest{FactionID: b.defender, RequestType: ReqCreateBattlePlan, Prompt: "submit your battle plan", Context: b})
		}
		return StepResult{State: gs, PendingRequests: reqs, Events: events}, nil
	}
	h.applySpiceSupport(gs, b)
	gs.PhaseStep = battleStepTraitors
	return StepResult{State: gs, Events: events}, nil
}

// applySpiceSupport deducts each side's dialed-forces spice cost if it
// elected to pay for full (rather than half) strength; Fremen always
// fight at full strength for free and never pay (§4.7).
func (h *BattleHandler) applySpiceSupport(gs *GameState, b battlePending) {
	for _, f := range []Faction{b.attacker, b.defender} {
		plan := h.plans[f]
		if f == Fremen || !plan.spentSpice {
			continue
		}
		fs := gs.Factions[f]
		if fs.Spice < plan.forcesDialed {
			plan.spentSpice = false
			continue
		}
		fs.Spice -= plan.forcesDialed
	}
}

func (h *BattleHandler) collectTraitorCalls(gs *GameState, responses []AgentResponse, b battlePending) (StepResult, error) {
	if h.traitorCalls == nil {
		h.traitorCalls = map[Faction]bool{}
		aPlan, dPlan := h.plans[b.attacker], h.plans[b.defender]
		var reqs []AgentRequest
		if gs.Factions[b.attacker].Traitors[dPlan.leaderID] {
			reqs = append(reqs, AgentRequest{FactionID: b.attacker, RequestType: ReqCallTraitor, Prompt: "call traitor on your opponent's leader?", Context: dPlan.leaderID})
		}
		if gs.Factions[b.defender].Traitors[aPlan.leaderID] {
			reqs = append(reqs, AgentRequest{FactionID: b.defender, RequestType: ReqCallTraitor, Prompt: "call traitor on your opponent's leader?", Context: aPlan.leaderID})
		}
		if len(reqs) > 0 {
			return StepResult{State: gs, PendingRequests: reqs}, nil
		}
		gs.PhaseStep = battleStepResolve
		return StepResult{State: gs}, nil
	}
	for _, r := range responses {
		if !r.Passed {
			h.traitorCalls[r.FactionID] = true
		}
	}
	gs.PhaseStep = battleStepResolve
	return StepResult{State: gs}, nil
}

// beatsDefense reports whether a weapon defeats a defense outright: poison
// is stopped only by a snooper, projectile/lasgun only by a shield (§4.7).
func beatsDefense(weaponID, defenseID string) bool {
	def, _ := TreacheryInfo(weaponID)
	if def.Weapon == WeaponNone {
		return false
	}
	defDef, _ := TreacheryInfo(defenseID)
	switch def.Weapon {
	case WeaponPoison:
		return defDef.Defense != DefenseSnooper
	case WeaponProjectile, WeaponLasgun:
		return defDef.Defense != DefenseShield
	}
	return false
}

// resolve applies the strength comparison, traitor override, lasgun/shield
// explosion, weapon/defense leader kill, and spice-stake settlement for one
// battle. Returns whether Harkonnen must still decide capture-or-kill.
func (h *BattleHandler) resolve(gs *GameState, b battlePending) ([]Event, bool) {
	var events []Event
	aPlan, dPlan := h.plans[b.attacker], h.plans[b.defender]

	discardPlayedCard(gs, b.attacker, aPlan.weapon)
	discardPlayedCard(gs, b.attacker, aPlan.defense)
	discardPlayedCard(gs, b.defender, dPlan.weapon)
	discardPlayedCard(gs, b.defender, dPlan.defense)

	aCalledTraitor := h.traitorCalls[b.attacker] && gs.Factions[b.attacker].Traitors[dPlan.leaderID]
	dCalledTraitor := h.traitorCalls[b.defender] && gs.Factions[b.defender].Traitors[aPlan.leaderID]

	if aCalledTraitor && dCalledTraitor {
		killEntireStackAt(gs, b.attacker, b.territoryID, b.sector)
		killEntireStackAt(gs, b.defender, b.territoryID, b.sector)
		h.spendStake(gs, b.attacker, aPlan, false)
		h.spendStake(gs, b.defender, dPlan, false)
		events = append(events,
			Event{Type: EventTraitorRevealed, Turn: gs.Turn, Phase: PhaseBattle, Faction: b.attacker},
			Event{Type: EventTraitorRevealed, Turn: gs.Turn, Phase: PhaseBattle, Faction: b.defender},
			Event{Type: EventBattleResolved, Turn: gs.Turn, Phase: PhaseBattle, Faction: NoFaction, Payload: b.territoryID},
		)
		return events, false
	}

	if (aPlan.weapon == "lasgun" && dPlan.defense == "shield") || (dPlan.weapon == "lasgun" && aPlan.defense == "shield") {
		killEntireStackAt(gs, b.attacker, b.territoryID, b.sector)
		killEntireStackAt(gs, b.defender, b.territoryID, b.sector)
		if ls := gs.Factions[b.attacker].Leaders[aPlan.leaderID]; ls != nil {
			ls.Location = LeaderInTanks
		}
		if ls := gs.Factions[b.defender].Leaders[dPlan.leaderID]; ls != nil {
			ls.Location = LeaderInTanks
		}
		h.spendStake(gs, b.attacker, aPlan, false)
		h.spendStake(gs, b.defender, dPlan, false)
		events = append(events,
			Event{Type: EventLasgunShieldExplosion, Turn: gs.Turn, Phase: PhaseBattle, Payload: b.territoryID},
			Event{Type: EventBattleResolved, Turn: gs.Turn, Phase: PhaseBattle, Faction: NoFaction, Payload: b.territoryID},
		)
		return events, false
	}

	aLeaderDef, _ := LeaderInfo(aPlan.leaderID)
	dLeaderDef, _ := LeaderInfo(dPlan.leaderID)
	aStrength := battleStrength(aLeaderDef.Strength, aPlan.forcesDialed, b.attacker != Fremen && !aPlan.spentSpice)
	dStrength := battleStrength(dLeaderDef.Strength, dPlan.forcesDialed, b.defender != Fremen && !dPlan.spentSpice)

	winner, loser := b.attacker, b.defender
	winnerPlan, loserPlan := aPlan, dPlan
	traitorWin := false
	if dCalledTraitor {
		winner, loser = b.defender, b.attacker
		winnerPlan, loserPlan = dPlan, aPlan
		traitorWin = true
		events = append(events, Event{Type: EventTraitorRevealed, Turn: gs.Turn, Phase: PhaseBattle, Faction: b.defender})
	} else if aCalledTraitor {
		winner, loser = b.attacker, b.defender
		winnerPlan, loserPlan = aPlan, dPlan
		traitorWin = true
		events = append(events, Event{Type: EventTraitorRevealed, Turn: gs.Turn, Phase: PhaseBattle, Faction: b.attacker})
	} else if dStrength > aStrength {
		winner, loser = b.defender, b.attacker
		winnerPlan, loserPlan = dPlan, aPlan
	}

	leaderAlreadyDead := beatsDefense(winnerPlan.weapon, loserPlan.defense)
	if leaderAlreadyDead {
		if ls := gs.Factions[loser].Leaders[loserPlan.leaderID]; ls != nil {
			ls.Location = LeaderInTanks
			events = append(events, Event{Type: EventLeaderKilled, Turn: gs.Turn, Phase: PhaseBattle, Faction: loser, Payload: loserPlan.leaderID})
		}
	}

	killEntireStackAt(gs, loser, b.territoryID, b.sector)
	killForcesAt(gs, winner, b.territoryID, b.sector, winnerPlan.forcesDialed, 0)

	h.spendStake(gs, winner, winnerPlan, traitorWin)
	h.spendStake(gs, loser, loserPlan, false)

	needsCapture := false
	if !leaderAlreadyDead {
		loserLeaderState := gs.Factions[loser].Leaders[loserPlan.leaderID]
		if loserLeaderState != nil {
			if winner == Harkonnen {
				h.captureWinner, h.captureLoser, h.captureLeader = winner, loser, loserPlan.leaderID
				needsCapture = true
			} else {
				loserLeaderState.Location = LeaderInTanks
				events = append(events, Event{Type: EventLeaderKilled, Turn: gs.Turn, Phase: PhaseBattle, Faction: loser, Payload: loserPlan.leaderID})
			}
		}
	}

	winnerLeaderState := gs.Factions[winner].Leaders[winnerPlan.leaderID]
	if winnerLeaderState != nil {
		winnerLeaderState.Location = LeaderOffBoard
		winnerLeaderState.UsedInTerritoryID = b.territoryID
	}

	events = append(events, Event{Type: EventBattleResolved, Turn: gs.Turn, Phase: PhaseBattle, Faction: winner, Payload: b.territoryID})
	return events, needsCapture
}

// discardPlayedCard sends a weapon or defense card a faction played into a
// battle to the treachery discard pile, win or lose (§4.7); a faction that
// fought bare-handed passes an empty cardID, a no-op.
func discardPlayedCard(gs *GameState, faction Faction, cardID string) {
	if cardID == "" {
		return
	}
	discardFromHand(gs, faction, cardID)
}

// spendStake settles a battle plan's staked spice: a faction keeps its own
// stake only if it won by a revealed traitor; otherwise the stake is lost
// to the bank (§4.7).
func (h *BattleHandler) spendStake(gs *GameState, faction Faction, plan *battlePlan, keepsStake bool) {
	if plan == nil || plan.spiceStake <= 0 || keepsStake {
		return
	}
	fs := gs.Factions[faction]
	lost := min(plan.spiceStake, fs.Spice)
	fs.Spice -= lost
}

func (h *BattleHandler) capture(gs *GameState, responses []AgentResponse) (StepResult, error) {
	if !h.asked1(battleStepCapture) {
		return StepResult{State: gs, PendingRequests: []AgentRequest{
			{FactionID: h.captureWinner, RequestType: ReqCaptureLeaderChoice, Prompt: "capture or kill the losing leader?", Context: h.captureLeader},
		}}, nil
	}
	var events []Event
	kill := true
	for _, r := range responses {
		if r.FactionID != h.captureWinner {
			continue
		}
		action, _ := r.Data.(string)
		if !r.Passed && action == "CAPTURE" {
			kill = false
		}
	}
	if ls := gs.Factions[h.captureLoser].Leaders[h.captureLeader]; ls != nil {
		if kill {
			ls.Location = LeaderInTanks
			events = append(events, Event{Type: EventLeaderKilled, Turn: gs.Turn, Phase: PhaseBattle, Faction: h.captureLoser, Payload: h.captureLeader})
		} else {
			ls.Location = LeaderCaptured
			events = append(events, Event{Type: EventLeaderCaptured, Turn: gs.Turn, Phase: PhaseBattle, Faction: h.captureLoser, Payload: h.captureLeader})
		}
	}
	h.idx++
	gs.PhaseStep = battleStepFindBattles
	return StepResult{State: gs, Events: events}, nil
}

// parseBattlePlan reads a battle plan spec out of an agent response's Data
// payload.
func parseBattlePlan(data any) *battlePlan {
	spec, _ := data.(map[string]any)
	leaderID, _ := spec["leader"].(string)
	dialed, _ := spec["forces"].(int)
	weapon, _ := spec["weapon"].(string)
	defense, _ := spec["defense"].(string)
	spentSpice, _ := spec["spice_support"].(bool)
	spiceStake, _ := spec["spice_stake"].(int)
	return &battlePlan{
		leaderID: leaderID, forcesDialed: dialed, weapon: weapon, defense: defense,
		spentSpice: spentSpice, spiceStake: spiceStake,
	}
}

// applyVoiceConstraint strips the weapon or defense a Voice command
// forbids from a freshly submitted plan.
func applyVoiceConstraint(plan *battlePlan, command string) {
	switch command {
	case "no_weapon":
		plan.weapon = ""
	case "no_defense":
		plan.defense = ""
	}
}

func (h *BattleHandler) Cleanup(gs *GameState) (*GameState, []Event) {
	gs = gs.Clone()
	gs.PhaseStep = ""
	return gs, nil
}
