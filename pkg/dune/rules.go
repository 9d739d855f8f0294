package dune

// This file holds the read-only rule calculations phase handlers consult
// before committing a mutation: reachability, cost, eligibility, and the
// victory check. None of it mutates a GameState.

// reachableWithin runs a breadth-first search over the map's adjacency
// graph (grounded on the teacher's canBeConvoyed BFS over the province
// graph) and returns every territory ID reachable from `from` in at most
// `hops` adjacency steps, `from` included. An edge into a storm-blocked
// territory is not traversed — the storm blocks passage through a
// territory, not just landing in one (§4.6).
func reachableWithin(gs *GameState, m *DuneMap, from string, hops int) map[string]bool {
	visited := map[string]bool{from: true}
	frontier := []string{from}
	for h := 0; h < hops; h++ {
		var next []string
		for _, cur := range frontier {
			for _, adj := range m.AdjacentTo(cur) {
				if visited[adj] || stormBlocks(gs, m, adj) {
					continue
				}
				visited[adj] = true
				next = append(next, adj)
			}
		}
		frontier = next
		if len(frontier) == 0 {
			break
		}
	}
	return visited
}

// movementRange returns the faction's normal (non-ornithopter) movement
// range in adjacency hops (§4.6): Fremen move 3, everyone else 1.
func movementRange(f Faction) int {
	if f == Fremen {
		return FremenMovementRange
	}
	return DefaultMovementRange
}

// effectiveMovementRange folds in ornithopter access, which overrides the
// faction's normal range for the turn if granted (§4.6).
func effectiveMovementRange(f Faction, ornithopterAccess bool) int {
	if ornithopterAccess {
		return OrnithopterMovementRange
	}
	return movementRange(f)
}

// canMove reports whether a move from (fromT, fromS) to (toT, toS) is
// within the faction's effective range this turn, reachable without
// passing through a storm-blocked territory along the way, and the
// destination stronghold (if any) still has room for another faction
// (§4.2, §4.6, §8 invariant 2).
func canMove(gs *GameState, m *DuneMap, f Faction, ornithopterAccess bool, fromT, toT string, toS int) bool {
	hops := effectiveMovementRange(f, ornithopterAccess)
	if !reachableWithin(gs, m, fromT, hops)[toT] {
		return false
	}
	return strongholdHasRoom(gs, m, f, toT)
}

// territoryStormProtected reports whether a territory is shielded from
// this turn's storm damage, accounting for the Shield Wall: Arrakeen,
// Carthag, and Imperial Basin lose their storm protection once the Shield
// Wall has been destroyed (§4.2, grounded on the map's own stronghold
// commentary).
func territoryStormProtected(gs *GameState, t *Territory) bool {
	if !t.ProtectedFromStorm {
		return false
	}
	if gs.ShieldWallDestroyed {
		switch t.ID {
		case "arrakeen", "carthag", "imperial_basin":
			return false
		}
	}
	return true
}

// stormBlocks reports whether a territory currently sits under the storm
// and is not protected from it.
func stormBlocks(gs *GameState, m *DuneMap, territoryID string) bool {
	t := m.TerritoryByID(territoryID)
	if t == nil {
		return false
	}
	if territoryStormProtected(gs, t) {
		return false
	}
	return t.InStorm(gs.StormSector)
}

// sectorStormBlocked reports whether a specific sector of a territory sits
// under the storm, honoring multi-sector territories where only one sector
// may be affected while the rest are clear (§4.3 spice placement).
func sectorStormBlocked(gs *GameState, m *DuneMap, territoryID string, sector int) bool {
	t := m.TerritoryByID(territoryID)
	if t == nil || territoryStormProtected(gs, t) {
		return false
	}
	return sector == gs.StormSector
}

// strongholdHasRoom reports whether a faction may add forces to a
// territory without exceeding MaxStrongholdOccupants distinct factions
// there; non-stronghold territories have no occupancy limit.
func strongholdHasRoom(gs *GameState, m *DuneMap, faction Faction, territoryID string) bool {
	t := m.TerritoryByID(territoryID)
	if t == nil || !t.IsStronghold {
		return true
	}
	occupants := map[Faction]bool{faction: true}
	for f, fs := range gs.Factions {
		for _, s := range fs.OnBoard {
			if s.TerritoryID == territoryID && s.BattleCapable() {
				occupants[f] = true
			}
		}
	}
	return len(occupants) <= MaxStrongholdOccupants
}

// soleOccupant reports whether faction is the only faction with any
// forces (fighters or advisors) at a (territory, sector) — the condition
// Bene Gesserit needs to flip fighters back to advisors (§4.7).
func soleOccupant(gs *GameState, faction Faction, territoryID string, sector int) bool {
	for f, fs := range gs.Factions {
		if f == faction {
			continue
		}
		for _, s := range fs.StacksAt(territoryID, sector) {
			if s.Total() > 0 {
				return false
			}
		}
	}
	return true
}

// isEnemyHeldStronghold reports whether a territory is a stronghold
// currently occupied by at least one faction other than f, which doubles
// the faction's shipment cost there (§4.6).
func isEnemyHeldStronghold(gs *GameState, m *DuneMap, f Faction, territoryID string) bool {
	t := m.TerritoryByID(territoryID)
	if t == nil || !t.IsStronghold {
		return false
	}
	for other, fs := range gs.Factions {
		if other == f {
			continue
		}
		for _, s := range fs.OnBoard {
			if s.TerritoryID == territoryID && s.BattleCapable() {
				return true
			}
		}
	}
	return false
}

// shipmentCost computes the spice cost of shipping n forces to a
// territory, honoring Guild half-cost, doubling for enemy-held
// strongholds, and Fremen free shipment (§4.6). The destination's terrain
// is not checked here, so a Fremen shipment costs 0 wherever it goes.
func shipmentCost(f Faction, n int, toHomeworld, enemyHeld bool) int {
	def, ok := FactionInfo(f)
	if !ok || n <= 0 {
		return 0
	}
	if toHomeworld || def.FreeShipmentOnly {
		return 0
	}
	perForce := 1.0
	if def.HalfShipmentCost {
		perForce = 0.5
	}
	if enemyHeld {
		perForce *= 2
	}
	cost := float64(n) * perForce * 10.0 / 10.0 // standard 1sp-per-force baseline
	c := int(cost)
	if float64(c) < cost {
		c++ // round up fractional Guild shipments
	}
	return c
}

// paidRevivalCap is the maximum forces a faction may revive for spice in a
// single Revival phase (excludes free revivals and Tleilaxu/ally boosts).
func paidRevivalCap(f Faction) int {
	return PaidRevivalCapPerTurn
}

// battleStrength computes a battle plan's dialed strength, applying the
// half-strength rule for factions that are not Fremen when no spice is
// spent to avoid it, per §4.7 (simplified: callers supply whether spice
// support was paid).
func battleStrength(leaderStrength int, forcesDialed int, halfStrength bool) float64 {
	s := float64(forcesDialed)
	if halfStrength {
		s = s / 2
	}
	return s + float64(leaderStrength)
}

// charityEligible reports whether a faction may claim CHOAM Charity this
// turn: any faction with fewer than 2 spice may claim up to 2 (to reach
// 2); Bene Gesserit may always claim 2 regardless of current spice (§4.4).
func charityEligible(fs *FactionState) (amount int, ok bool) {
	if fs.Faction == BeneGesserit {
		return 2, true
	}
	if fs.Spice < 2 {
		return 2 - fs.Spice, true
	}
	return 0, false
}

// karamaEligible reports whether a card ID can be played as a Karama
// effect: the Karama card itself, or — Bene Gesserit only — any worthless
// card substituted for Karama (§4.10, §9 Open Question resolution: BG
// worthless-as-Karama is folded in here rather than special-cased per
// call site).
func karamaEligible(faction Faction, cardID string) bool {
	if cardID == "karama" {
		return true
	}
	if faction == BeneGesserit && IsWorthless(cardID) {
		return true
	}
	return false
}

// victoryCheck evaluates the end-of-turn victory condition (§4.9/§8): a
// single faction (or an allied pair together) controlling at least 3
// strongholds wins at the end of Mentat Pause. Once gs.Turn reaches
// Config.MaxTurns without such a winner, the faction holding the most
// strongholds is returned instead (which of several tied factions is not
// defined). Otherwise returns NoFaction; at the turn limit, only when no
// faction holds a stronghold.
func victoryCheck(gs *GameState, m *DuneMap) Faction {
	counts := map[Faction]int{}
	for _, t := range m.Territories {
		if !t.IsStronghold {
			continue
		}
		occupants := map[Faction]bool{}
		for f, fs := range gs.Factions {
			for _, s := range fs.OnBoard {
				if s.TerritoryID == t.ID && s.BattleCapable() {
					occupants[f] = true
				}
			}
		}
		for f := range occupants {
			counts[f]++
		}
	}
	for f, c := range counts {
		ally := gs.Factions[f].AllyID
		total := c
		if ally != NoFaction {
			total += counts[ally]
		}
		if total >= 3 && c >= 1 {
			return f
		}
	}
	if gs.Turn >= gs.Config.MaxTurns {
		best, bestCount := NoFaction, -1
		for f, c := range counts {
			if c > bestCount {
				best, bestCount = f, c
			}
		}
		return best
	}
	return NoFaction
}
