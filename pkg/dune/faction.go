package dune

// Faction identifies one of the six great houses/factions playable in a
// standard game.
type Faction string

const (
	Atreides     Faction = "atreides"
	Harkonnen    Faction = "harkonnen"
	Emperor      Faction = "emperor"
	Fremen       Faction = "fremen"
	BeneGesserit Faction = "bene_gesserit"
	Guild        Faction = "guild"
	NoFaction    Faction = ""
)

// FactionDef is the static, per-faction rule data: starting force pool,
// home stronghold, and the small set of boolean "does this faction have
// this special rule" flags consulted throughout the rules layer.
type FactionDef struct {
	Faction          Faction
	Name             string
	RegularForces    int // total regular forces in the faction's force pool
	EliteForces      int // total special forces (Fremen fedaykin, Sardaukar) in the pool
	HomeTerritory    string
	MaxHandSize      int
	FreeRevivals     int // forces revived free each turn before the paid cap kicks in
	FreeShipmentOnly bool // Fremen: free shipment from reserves to any sand territory
	HalfShipmentCost bool // Guild: ships at half price
	SpiceHalfStrength bool // non-Fremen, non-spice-supported forces fight at half strength
}

// factionCatalogue is the static table of the six playable factions.
var factionCatalogue = map[Faction]FactionDef{
	Atreides: {
		Faction: Atreides, Name: "Atreides",
		RegularForces: 20, EliteForces: 0,
		HomeTerritory: "arrakeen", MaxHandSize: 4, FreeRevivals: 2,
	},
	Harkonnen: {
		Faction: Harkonnen, Name: "Harkonnen",
		RegularForces: 20, EliteForces: 0,
		HomeTerritory: "carthag", MaxHandSize: 8, FreeRevivals: 2,
	},
	Emperor: {
		Faction: Emperor, Name: "Emperor",
		RegularForces: 15, EliteForces: 5, // Sardaukar
		HomeTerritory: "", MaxHandSize: 4, FreeRevivals: 2,
	},
	Fremen: {
		Faction: Fremen, Name: "Fremen",
		RegularForces: 10, EliteForces: 10, // Fedaykin
		HomeTerritory: "sietch_tabr", MaxHandSize: 4, FreeRevivals: 3,
		FreeShipmentOnly: true,
	},
	BeneGesserit: {
		Faction: BeneGesserit, Name: "Bene Gesserit",
		RegularForces: 20, EliteForces: 0,
		HomeTerritory: "polar_sink", MaxHandSize: 4, FreeRevivals: 2,
	},
	Guild: {
		Faction: Guild, Name: "Spacing Guild",
		RegularForces: 20, EliteForces: 0,
		HomeTerritory: "tuek_sietch", MaxHandSize: 4, FreeRevivals: 2,
		HalfShipmentCost: true,
	},
}

// AllFactions returns the six playable factions in the fixed catalogue
// order. This order seeds insertion order for GameState.Factions, which in
// turn seeds storm/seating order on turn 1.
func AllFactions() []Faction {
	return []Faction{Atreides, Harkonnen, Emperor, Fremen, BeneGesserit, Guild}
}

// FactionInfo returns the static rule data for a faction. The zero value
// (ok=false) is returned for an unrecognized faction.
func FactionInfo(f Faction) (FactionDef, bool) {
	def, ok := factionCatalogue[f]
	return def, ok
}

// ForcePool returns the total regular+elite forces a faction starts with,
// the quantity conserved by invariant 1 of §8 (force conservation).
func ForcePool(f Faction) int {
	def, ok := factionCatalogue[f]
	if !ok {
		return 0
	}
	return def.RegularForces + def.EliteForces
}
