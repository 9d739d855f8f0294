package dune

const (
	biddingStepKarama  = "KARAMA_CHECK"
	biddingStepPeek    = "ATREIDES_PEEK"
	biddingStepRound   = "BID_ROUND"
	biddingStepDiscard = "DISCARD_OVERFLOW"
	biddingStepDone    = "DONE"
)

// BiddingHandler runs the CHOAM auction (§4.4): the Atreides privately
// peek the top card, any faction holding Karama may claim the card for
// free instead of bidding, then bidding proceeds in storm order starting
// from the faction after the previous auction's winner, each card
// auctioned in turn until every hand is full or the deck is empty for the
// round, and finally any faction left over its hand limit discards down.
type BiddingHandler struct {
	mgr *Manager

	card       string
	haveCard   bool
	highBid    int
	highBidder Faction
	order      []Faction
	passed     map[Faction]bool
	cardsDone  int
	maxCards   int

	askedKarama    bool
	askedDiscard   bool
	lastWinner     Faction
	lastCardWinner Faction
}

func (h *BiddingHandler) Initialize(gs *GameState) (*GameState, []Event) {
	gs = gs.Clone()
	h.order = h.startingBidOrder(gs)
	h.passed = map[Faction]bool{}
	h.cardsDone = 0
	h.maxCards = len(gs.FactionOrder)
	h.lastCardWinner = NoFaction
	gs.PhaseStep = biddingStepKarama
	return gs, nil
}

// startingBidOrder rotates storm order to begin right after the faction
// that won the previous auction's last card, so the auction doesn't always
// open with the same seat (§9 Open Question resolution).
func (h *BiddingHandler) startingBidOrder(gs *GameState) []Faction {
	order := append([]Faction(nil), gs.StormOrder...)
	if h.lastWinner == NoFaction {
		return order
	}
	for i, f := range order {
		if f == h.lastWinner {
			return append(append([]Faction(nil), order[i+1:]...), order[:i+1]...)
		}
	}
	return order
}

func (h *BiddingHandler) ProcessStep(gs *GameState, responses []AgentResponse) (StepResult, error) {
	gs = gs.Clone()
	var events []Event

	switch gs.PhaseStep {
	case biddingStepKarama:
		return h.karamaCheck(gs, responses)

	case biddingStepPeek:
		if h.cardsDone >= h.maxCards || (len(gs.TreacheryDeck) == 0 && len(gs.TreacheryDiscard) == 0) {
			gs.PhaseStep = biddingStepDiscard
			return StepResult{State: gs}, nil
		}
		if !h.haveCard {
			card, ok := drawTreacheryCard(gs)
			if !ok {
				gs.PhaseStep = biddingStepDiscard
				return StepResult{State: gs}, nil
			}
			h.card = card
			h.haveCard = true
			if _, alive := gs.Factions[Atreides]; alive {
				events = append(events, Event{Type: EventCardPeeked, Turn: gs.Turn, Phase: PhaseBidding, Faction: Atreides, Payload: card})
			}
		}
		h.highBid, h.highBidder = 0, NoFaction
		h.passed = map[Faction]bool{}
		gs.PhaseStep = biddingStepRound
		events = append(events, Event{Type: EventAuctionStarted, Turn: gs.Turn, Phase: PhaseBidding, Payload: h.card})
		return StepResult{State: gs, Events: events}, nil

	case biddingStepRound:
		return h.biddingRound(gs, responses)

	case biddingStepDiscard:
		return h.discardOverflow(gs, responses)

	default:
		return StepResult{State: gs, PhaseComplete: true}, nil
	}
}

func (h *BiddingHandler) karamaCheck(gs *GameState, responses []AgentResponse) (StepResult, error) {
	var events []Event
	if !h.askedKarama {
		h.askedKarama = true
		var reqs []AgentRequest
		for f, fs := range gs.Factions {
			for _, c := range fs.Hand {
				if karamaEligible(f, c) {
					reqs = append(reqs, AgentRequest{FactionID: f, RequestType: ReqUseKarama, Prompt: "play Karama to claim the next treachery card for free?"})
					break
				}
			}
		}
		if len(reqs) > 0 {
			return StepResult{State: gs, PendingRequests: reqs}, nil
		}
		gs.PhaseStep = biddingStepPeek
		return StepResult{State: gs}, nil
	}
	for _, r := range responses {
		if r.Passed {
			continue
		}
		fs := gs.Factions[r.FactionID]
		cardID, _ := r.Data.(string)
		if cardID == "" {
			cardID = "karama"
		}
		if !karamaEligible(r.FactionID, cardID) || !hasCard(fs, cardID) {
			continue
		}
		if !h.haveCard {
			card, ok := drawTreacheryCard(gs)
			if !ok {
				continue
			}
			h.card = card
			h.haveCard = true
		}
		discardFromHand(gs, r.FactionID, cardID)
		fs.Flags.KaramaFreeCardActive = true
		events = append(events, h.awardCard(gs, r.FactionID, h.card, 0)...)
		h.haveCard = false
		h.cardsDone++
	}
	gs.PhaseStep = biddingStepPeek
	return StepResult{State: gs, Events: events}, nil
}

func (h *BiddingHandler) biddingRound(gs *GameState, responses []AgentResponse) (StepResult, error) {
	var events []Event
	for _, r := range responses {
		if r.Passed {
			h.passed[r.FactionID] = true
			events = append(events, Event{Type: EventBidPassed, Turn: gs.Turn, Phase: PhaseBidding, Faction: r.FactionID})
			continue
		}
		bid, _ := r.Data.(int)
		if bid > h.highBid {
			h.highBid, h.highBidder = bid, r.FactionID
			events = append(events, Event{Type: EventBidPlaced, Turn: gs.Turn, Phase: PhaseBidding, Faction: r.FactionID, Payload: bid})
		} else {
			h.passed[r.FactionID] = true
		}
	}

	active := 0
	for _, f := range h.order {
		if !h.passed[f] {
			active++
		}
	}
	if active <= 1 && (h.highBidder != NoFaction || len(responses) > 0) {
		if h.highBidder != NoFaction {
			events = append(events, h.awardCard(gs, h.highBidder, h.card, h.highBid)...)
		} else {
			gs.TreacheryDiscard = append(gs.TreacheryDiscard, h.card)
			events = append(events, Event{Type: EventCardReturnedToDeck, Turn: gs.Turn, Phase: PhaseBidding, Payload: h.card})
		}
		h.haveCard = false
		h.cardsDone++
		gs.PhaseStep = biddingStepPeek
		return StepResult{State: gs, Events: events}, nil
	}

	var reqs []AgentRequest
	for _, f := range h.order {
		if h.passed[f] || f == h.highBidder {
			continue
		}
		if len(gs.Factions[f].Hand) >= gs.Factions[f].MaxHandSize() {
			h.passed[f] = true
			continue
		}
		reqs = append(reqs, AgentRequest{FactionID: f, RequestType: ReqBidOrPass, Prompt: "bid or pass", Context: h.highBid})
	}
	if len(reqs) == 0 {
		if h.highBidder != NoFaction {
			events = append(events, h.awardCard(gs, h.highBidder, h.card, h.highBid)...)
		} else {
			gs.TreacheryDiscard = append(gs.TreacheryDiscard, h.card)
			events = append(events, Event{Type: EventCardReturnedToDeck, Turn: gs.Turn, Phase: PhaseBidding, Payload: h.card})
		}
		h.haveCard = false
		h.cardsDone++
		gs.PhaseStep = biddingStepPeek
		return StepResult{State: gs, Events: events}, nil
	}
	return StepResult{State: gs, PendingRequests: reqs, Events: events}, nil
}

// awardCard hands a won (or Karama-claimed) card to its winner, routing
// payment to the Emperor's treasury rather than the bank and granting
// Harkonnen's bonus top-card draw (§4.4, §4.10).
func (h *BiddingHandler) awardCard(gs *GameState, winner Faction, card string, paid int) []Event {
	var events []Event
	fs := gs.Factions[winner]
	fs.Spice -= paid
	if emperor, ok := gs.Factions[Emperor]; ok && winner != Emperor && paid > 0 {
		emperor.Spice += paid
		events = append(events, Event{Type: EventEmperorTreasuryCredited, Turn: gs.Turn, Phase: PhaseBidding, Faction: Emperor, Payload: paid})
	}
	fs.Hand = append(fs.Hand, card)
	events = append(events, Event{Type: EventCardWon, Turn: gs.Turn, Phase: PhaseBidding, Faction: winner, Payload: card})
	h.lastCardWinner = winner

	if winner == Harkonnen {
		if bonus, ok := drawTreacheryCard(gs); ok {
			if len(fs.Hand) < fs.MaxHandSize() {
				fs.Hand = append(fs.Hand, bonus)
				events = append(events, Event{Type: EventHarkonnenBonusCard, Turn: gs.Turn, Phase: PhaseBidding, Faction: Harkonnen, Payload: bonus})
			} else {
				discardTreacheryCard(gs, bonus)
			}
		}
	}
	return events
}

func (h *BiddingHandler) discardOverflow(gs *GameState, responses []AgentResponse) (StepResult, error) {
	if !h.askedDiscard {
		h.askedDiscard = true
		var reqs []AgentRequest
		for f, fs := range gs.Factions {
			if len(fs.Hand) > fs.MaxHandSize() {
				reqs = append(reqs, AgentRequest{FactionID: f, RequestType: ReqChooseCardsToDiscard, Prompt: "discard down to your hand limit"})
			}
		}
		if len(reqs) > 0 {
			return StepResult{State: gs, PendingRequests: reqs}, nil
		}
		h.lastWinner = h.lastCardWinner
		return StepResult{State: gs, PhaseComplete: true}, nil
	}
	for _, r := range responses {
		if r.Passed {
			continue
		}
		ids, _ := r.Data.([]string)
		for _, id := range ids {
			discardFromHand(gs, r.FactionID, id)
		}
	}
	h.lastWinner = h.lastCardWinner
	return StepResult{State: gs, PhaseComplete: true}, nil
}

func (h *BiddingHandler) Cleanup(gs *GameState) (*GameState, []Event) {
	gs = gs.Clone()
	gs.PhaseStep = ""
	events := []Event{{Type: EventBiddingComplete, Turn: gs.Turn, Phase: PhaseBidding}}
	return gs, events
}
