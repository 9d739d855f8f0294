package dune

import "sort"

// This file collects the pure mutation primitives every phase handler
// composes from. Each function takes an already-cloned *GameState it owns
// exclusively and mutates it in place; none of them call GameState.Clone
// themselves (the caller clones once per processStep, mirroring the
// source's working-copy lifecycle).

func logAction(gs *GameState, id string, kind string, faction Faction, detail string) {
	gs.ActionLog = append(gs.ActionLog, ActionLogEntry{
		ID: id, Turn: gs.Turn, Phase: gs.Phase, Kind: kind, Faction: faction, Detail: detail,
	})
}

// addSpiceAt adds spice to a (territory, sector) pile, creating the entry
// if none exists yet.
func addSpiceAt(gs *GameState, territoryID string, sector int, amount int) {
	if amount == 0 {
		return
	}
	for i, e := range gs.SpiceOnBoard {
		if e.TerritoryID == territoryID && e.Sector == sector {
			gs.SpiceOnBoard[i].Amount += amount
			return
		}
	}
	gs.SpiceOnBoard = append(gs.SpiceOnBoard, SpiceEntry{TerritoryID: territoryID, Sector: sector, Amount: amount})
}

// removeSpiceAt removes up to amount spice from a pile, returning how much
// was actually removed, and drops the entry if it empties out.
func removeSpiceAt(gs *GameState, territoryID string, sector int, amount int) int {
	for i, e := range gs.SpiceOnBoard {
		if e.TerritoryID == territoryID && e.Sector == sector {
			taken := amount
			if taken > e.Amount {
				taken = e.Amount
			}
			gs.SpiceOnBoard[i].Amount -= taken
			if gs.SpiceOnBoard[i].Amount <= 0 {
				gs.SpiceOnBoard = append(gs.SpiceOnBoard[:i], gs.SpiceOnBoard[i+1:]...)
			}
			return taken
		}
	}
	return 0
}

// clearSpiceInTerritory removes every pile sitting anywhere within a
// territory (all of its sectors) — used by storm destruction (§4.2).
func clearSpiceInTerritory(gs *GameState, t *Territory) int {
	destroyed := 0
	filtered := gs.SpiceOnBoard[:0]
	for _, e := range gs.SpiceOnBoard {
		if e.TerritoryID == t.ID {
			destroyed += e.Amount
			continue
		}
		filtered = append(filtered, e)
	}
	gs.SpiceOnBoard = filtered
	return destroyed
}

// addForces places forces from a faction's reserves onto the board. The
// caller is responsible for having already validated reserve availability.
func addForces(gs *GameState, faction Faction, territoryID string, sector int, regular, elite int) {
	fs := gs.Factions[faction]
	fs.Reserves.Regular -= regular
	fs.Reserves.Elite -= elite
	for i, s := range fs.OnBoard {
		if s.TerritoryID == territoryID && s.Sector == sector {
			fs.OnBoard[i].Regular += regular
			fs.OnBoard[i].Elite += elite
			return
		}
	}
	fs.OnBoard = append(fs.OnBoard, ForceStack{TerritoryID: territoryID, Sector: sector, Regular: regular, Elite: elite})
}

// relocateForces moves some or all of a stack from one (territory, sector)
// to another within the same faction.
func relocateForces(gs *GameState, faction Faction, fromT string, fromS int, toT string, toS int, regular, elite int) {
	fs := gs.Factions[faction]
	for i, s := range fs.OnBoard {
		if s.TerritoryID == fromT && s.Sector == fromS {
			fs.OnBoard[i].Regular -= regular
			fs.OnBoard[i].Elite -= elite
			break
		}
	}
	pruneEmptyStacks(fs)
	found := false
	for i, s := range fs.OnBoard {
		if s.TerritoryID == toT && s.Sector == toS {
			fs.OnBoard[i].Regular += regular
			fs.OnBoard[i].Elite += elite
			found = true
			break
		}
	}
	if !found {
		fs.OnBoard = append(fs.OnBoard, ForceStack{TerritoryID: toT, Sector: toS, Regular: regular, Elite: elite})
	}
}

func pruneEmptyStacks(fs *FactionState) {
	out := fs.OnBoard[:0]
	for _, s := range fs.OnBoard {
		if s.Total() > 0 {
			out = append(out, s)
		}
	}
	fs.OnBoard = out
}

// killForcesAt sends forces from a stack to that faction's tanks (storm,
// battle losses, Shai-Hulud devour).
func killForcesAt(gs *GameState, faction Faction, territoryID string, sector int, regular, elite int) {
	fs := gs.Factions[faction]
	for i, s := range fs.OnBoard {
		if s.TerritoryID == territoryID && s.Sector == sector {
			r := min(regular, s.Regular)
			e := min(elite, s.Elite)
			fs.OnBoard[i].Regular -= r
			fs.OnBoard[i].Elite -= e
			fs.Tanks.Regular += r
			fs.Tanks.Elite += e
			break
		}
	}
	pruneEmptyStacks(fs)
}

// killEntireStackAt wipes every force a faction has at a location into the
// tanks — the Shai-Hulud devour and storm-wipe case.
func killEntireStackAt(gs *GameState, faction Faction, territoryID string, sector int) (regular, elite int) {
	fs := gs.Factions[faction]
	for _, s := range fs.OnBoard {
		if s.TerritoryID == territoryID && s.Sector == sector {
			regular += s.Regular
			elite += s.Elite
		}
	}
	killForcesAt(gs, faction, territoryID, sector, regular, elite)
	return
}

// killHalfStackAt kills ceil(total/2) of a faction's forces at a location,
// regular before elite — the Fremen storm-loss rule (§4.2): Fremen are not
// immune to the storm, only halved.
func killHalfStackAt(gs *GameState, faction Faction, territoryID string, sector int) (regular, elite int) {
	fs := gs.Factions[faction]
	for _, s := range fs.OnBoard {
		if s.TerritoryID != territoryID || s.Sector != sector {
			continue
		}
		toKill := (s.Total() + 1) / 2
		r := min(toKill, s.Regular)
		e := min(toKill-r, s.Elite)
		killForcesAt(gs, faction, territoryID, sector, r, e)
		return r, e
	}
	return 0, 0
}

// sendAdvisor ships forces directly onto the board as Bene Gesserit
// advisors: non-combatant, invisible to stronghold-occupancy and battle
// checks until flipped (§4.7).
func sendAdvisor(gs *GameState, faction Faction, territoryID string, sector int, n int) {
	fs := gs.Factions[faction]
	n = min(n, fs.Reserves.Regular)
	fs.Reserves.Regular -= n
	for i, s := range fs.OnBoard {
		if s.TerritoryID == territoryID && s.Sector == sector {
			fs.OnBoard[i].Advisors += n
			return
		}
	}
	fs.OnBoard = append(fs.OnBoard, ForceStack{TerritoryID: territoryID, Sector: sector, Advisors: n})
}

// flipAdvisors converts an entire stack between advisor and fighter status
// in place. toFighters=true flips advisors to regular forces (an
// "intrusion"); toFighters=false flips regular forces to advisors
// (permitted only while Bene Gesserit holds the location alone — callers
// enforce that).
func flipAdvisors(gs *GameState, faction Faction, territoryID string, sector int, toFighters bool) {
	fs := gs.Factions[faction]
	for i, s := range fs.OnBoard {
		if s.TerritoryID != territoryID || s.Sector != sector {
			continue
		}
		if toFighters {
			fs.OnBoard[i].Regular += s.Advisors
			fs.OnBoard[i].Advisors = 0
		} else {
			fs.OnBoard[i].Advisors += s.Regular
			fs.OnBoard[i].Regular = 0
		}
		return
	}
}

// discardFromHand removes one card from a faction's hand into the
// treachery discard pile, reporting whether the card was found.
func discardFromHand(gs *GameState, faction Faction, cardID string) bool {
	fs := gs.Factions[faction]
	for i, c := range fs.Hand {
		if c == cardID {
			fs.Hand = append(fs.Hand[:i], fs.Hand[i+1:]...)
			discardTreacheryCard(gs, cardID)
			return true
		}
	}
	return false
}

// hasCard reports whether a faction's hand contains the given card.
func hasCard(fs *FactionState, cardID string) bool {
	for _, c := range fs.Hand {
		if c == cardID {
			return true
		}
	}
	return false
}

// recomputeStormOrder reorders gs.StormOrder by clockwise distance of each
// alive faction's fixed seat from the current storm sector, nearest first
// (§4.2). Called once per turn right after the storm moves, so every phase
// that reads StormOrder this turn sees the post-movement order.
func recomputeStormOrder(gs *GameState) {
	type seated struct {
		f Faction
		d int
	}
	var entries []seated
	for _, f := range gs.FactionOrder {
		seat, ok := gs.SeatSector[f]
		if !ok {
			continue
		}
		d := ((seat - gs.StormSector) % SectorCount + SectorCount) % SectorCount
		entries = append(entries, seated{f, d})
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].d < entries[j].d })
	order := make([]Faction, len(entries))
	for i, e := range entries {
		order[i] = e.f
	}
	gs.StormOrder = order
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// reviveForces moves forces from the tanks back to reserves.
func reviveForces(gs *GameState, faction Faction, regular, elite int) {
	fs := gs.Factions[faction]
	regular = min(regular, fs.Tanks.Regular)
	elite = min(elite, fs.Tanks.Elite)
	fs.Tanks.Regular -= regular
	fs.Tanks.Elite -= elite
	fs.Reserves.Regular += regular
	fs.Reserves.Elite += elite
}

// reviveLeader moves one leader from the tanks back onto the "available"
// roster (LeaderOffBoard, eligible to be assigned to a battle plan again).
func reviveLeader(gs *GameState, faction Faction, leaderID string) bool {
	fs := gs.Factions[faction]
	ls, ok := fs.Leaders[leaderID]
	if !ok || ls.Location != LeaderInTanks {
		return false
	}
	ls.Location = LeaderOffBoard
	ls.UsedInTerritoryID = ""
	return true
}

// drawSpiceCard reveals and removes the top card of deck A or B,
// reshuffling its discard pile into a fresh deck if the deck is empty
// (mirrors the teacher's reshuffle-on-exhaustion discard-pile pattern).
func drawSpiceCard(gs *GameState, which byte) (SpiceCard, bool) {
	deck, discard := &gs.DeckA, &gs.DiscardA
	if which == 'B' {
		deck, discard = &gs.DeckB, &gs.DiscardB
	}
	if len(*deck) == 0 {
		if len(*discard) == 0 {
			return SpiceCard{}, false
		}
		*deck = append([]SpiceCard(nil), (*discard)...)
		*discard = nil
		shuffleSpiceCards(*deck)
	}
	card := (*deck)[0]
	*deck = (*deck)[1:]
	return card, true
}

func discardSpiceCard(gs *GameState, which byte, card SpiceCard) {
	if which == 'B' {
		gs.DiscardB = append(gs.DiscardB, card)
		return
	}
	gs.DiscardA = append(gs.DiscardA, card)
}

// drawTreacheryCard deals one card off the top of the treachery deck,
// reshuffling its discard pile in when exhausted.
func drawTreacheryCard(gs *GameState) (string, bool) {
	if len(gs.TreacheryDeck) == 0 {
		if len(gs.TreacheryDiscard) == 0 {
			return "", false
		}
		gs.TreacheryDeck = append([]string(nil), gs.TreacheryDiscard...)
		gs.TreacheryDiscard = nil
		shuffleStrings(gs.TreacheryDeck)
	}
	card := gs.TreacheryDeck[0]
	gs.TreacheryDeck = gs.TreacheryDeck[1:]
	return card, true
}

func discardTreacheryCard(gs *GameState, cardID string) {
	gs.TreacheryDiscard = append(gs.TreacheryDiscard, cardID)
}

// moveStormSectors advances the storm marker by n sectors (mod SectorCount)
// and returns the sectors it passed through, in order, for damage
// resolution.
func moveStormSectors(gs *GameState, n int) []int {
	passed := make([]int, 0, n)
	for i := 0; i < n; i++ {
		gs.StormSector = (gs.StormSector + 1) % SectorCount
		passed = append(passed, gs.StormSector)
	}
	return passed
}

// formAlliance links two factions symmetrically (§8 invariant: alliance
// symmetry).
func formAlliance(gs *GameState, a, b Faction) {
	gs.Factions[a].AllyID = b
	gs.Factions[b].AllyID = a
}

// breakAlliance clears the symmetric link, if any.
func breakAlliance(gs *GameState, a Faction) {
	fs := gs.Factions[a]
	if fs.AllyID == NoFaction {
		return
	}
	ally := gs.Factions[fs.AllyID]
	if ally != nil && ally.AllyID == a {
		ally.AllyID = NoFaction
	}
	fs.AllyID = NoFaction
}
