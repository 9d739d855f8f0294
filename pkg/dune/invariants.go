package dune

import "fmt"

// checkInvariants re-derives the small set of structural guarantees the
// engine must never violate (§3, §8 invariants 1-6) and returns the first
// one it finds broken. A nil result means the state is sound.
func checkInvariants(gs *GameState, m *DuneMap) *InvariantError {
	if m != nil {
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
			if len(occupants) > MaxStrongholdOccupants {
				return &InvariantError{Invariant: "stronghold occupancy", Turn: gs.Turn, Phase: gs.Phase, State: gs,
					Detail: fmt.Sprintf("%s holds forces from %d factions, cap is %d", t.ID, len(occupants), MaxStrongholdOccupants)}
			}
		}
	}
	for f, fs := range gs.Factions {
		if fs.Spice < 0 {
			return &InvariantError{Invariant: "non-negative spice", Turn: gs.Turn, Phase: gs.Phase, State: gs,
				Detail: fmt.Sprintf("%s has negative spice", f)}
		}
		if got, want := fs.TotalForces(), ForcePool(f); got != want {
			return &InvariantError{Invariant: "force conservation", Turn: gs.Turn, Phase: gs.Phase, State: gs,
				Detail: fmt.Sprintf("%s totals %d forces, pool is %d", f, got, want)}
		}
		if fs.AllyID != NoFaction {
			ally, ok := gs.Factions[fs.AllyID]
			if !ok || ally.AllyID != f {
				return &InvariantError{Invariant: "symmetric alliance", Turn: gs.Turn, Phase: gs.Phase, State: gs,
					Detail: fmt.Sprintf("%s claims an ally that does not reciprocate", f)}
			}
		}
		if len(fs.Hand) > fs.MaxHandSize() && gs.Phase != PhaseBidding {
			return &InvariantError{Invariant: "hand size cap", Turn: gs.Turn, Phase: gs.Phase, State: gs,
				Detail: fmt.Sprintf("%s holds more cards than its hand cap outside bidding", f)}
		}
	}
	return nil
}
