package dune

import "sync"

var (
	stdMapOnce sync.Once
	stdMapInst *DuneMap
)

// StandardMap returns the standard Dune board: territories, sectors, and
// the adjacency graph. The map is built once and cached; subsequent calls
// return the same pointer. Callers must not mutate the returned map.
func StandardMap() *DuneMap {
	stdMapOnce.Do(func() {
		stdMapInst = buildStandardMap()
	})
	return stdMapInst
}

func buildStandardMap() *DuneMap {
	m := &DuneMap{
		Territories: make(map[string]*Territory, 44),
		Adjacency:   make(map[string][]string, 44),
	}

	add := func(id, name string, tt TerritoryType, sectors []int, protected bool) {
		m.Territories[id] = &Territory{
			ID: id, Name: name, Type: tt, Sectors: sectors,
			ProtectedFromStorm: protected,
			IsStronghold:       tt == Stronghold,
		}
	}

	// Strongholds.
	add("arrakeen", "Arrakeen", Stronghold, []int{9, 10}, true)
	add("carthag", "Carthag", Stronghold, []int{10, 11}, true)
	add("tuek_sietch", "Tuek's Sietch", Stronghold, []int{4, 5}, false)
	add("sietch_tabr", "Sietch Tabr", Stronghold, []int{13}, false)
	add("habbanya_sietch", "Habbanya Sietch", Stronghold, []int{15, 16}, false)

	// Polar Sink: the board's center, always immune to storm, adjacent to
	// every stronghold. It occupies no storm sector.
	add("polar_sink", "Polar Sink", Rock, nil, true)

	// Rock territories (never carry spice, always protected from storm).
	add("false_wall_south", "False Wall South", Rock, []int{7, 8}, true)
	add("false_wall_west", "False Wall West", Rock, []int{11, 12}, true)
	add("false_wall_east", "False Wall East", Rock, []int{1, 2}, true)
	add("shield_wall", "Shield Wall", Rock, []int{9}, true)
	add("pasty_mesa", "Pasty Mesa", Rock, []int{3, 4}, true)
	add("rock_outcroppings", "Rock Outcroppings", Rock, []int{2, 3}, true)
	add("plastic_basin", "Plastic Basin", Rock, []int{14, 15}, true)
	add("gara_kulon", "Gara Kulon", Rock, []int{0, 1}, true)

	// Imperial Basin is rock-typed for movement but loses its storm
	// protection once the Shield Wall has been destroyed (§4.2).
	add("imperial_basin", "Imperial Basin", Rock, []int{8, 9, 10}, true)

	// Sand territories: spice-eligible, unprotected from storm.
	add("cielago_north", "Cielago North", Sand, []int{0, 1}, false)
	add("cielago_south", "Cielago South", Sand, []int{1, 2}, false)
	add("cielago_depression", "Cielago Depression", Sand, []int{2}, false)
	add("broken_land", "Broken Land", Sand, []int{3}, false)
	add("bight_of_the_cliff", "Bight of the Cliff", Sand, []int{4}, false)
	add("funeral_plain", "Funeral Plain", Sand, []int{5, 6}, false)
	add("the_great_flat", "The Great Flat", Sand, []int{6, 7}, false)
	add("habbanya_erg", "Habbanya Erg", Sand, []int{16, 17}, false)
	add("wind_pass", "Wind Pass", Sand, []int{8}, false)
	add("wind_pass_north", "Wind Pass North", Sand, []int{7, 8}, false)
	add("south_mesa", "South Mesa", Sand, []int{12, 13}, false)
	add("red_chasm", "Red Chasm", Sand, []int{12}, false)
	add("the_minor_erg", "The Minor Erg", Sand, []int{13, 14}, false)
	add("habbanya_ridge_flat", "Habbanya Ridge Flat", Sand, []int{15}, false)
	add("old_gap", "Old Gap", Sand, []int{6}, false)
	add("haga_basin", "Haga Basin", Sand, []int{16}, false)
	add("basin", "The Basin", Sand, []int{9}, false)
	add("rim_wall_west", "Rim Wall West", Sand, []int{11}, false)
	add("tsimpo", "Tsimpo", Sand, []int{8, 9}, false)
	add("arsunt", "Arsunt", Sand, []int{10, 11}, false)
	add("hole_in_the_rock", "Hole in the Rock", Sand, []int{5}, false)
	add("windtrap_flat", "Windtrap Flat", Sand, []int{17, 0}, false)

	link := func(a, b string) {
		m.Adjacency[a] = append(m.Adjacency[a], b)
		m.Adjacency[b] = append(m.Adjacency[b], a)
	}

	// Ring adjacency: territories sharing or touching sectors are adjacent.
	ring := []string{
		"gara_kulon", "cielago_north", "cielago_south", "cielago_depression",
		"rock_outcroppings", "broken_land", "pasty_mesa", "bight_of_the_cliff",
		"tuek_sietch", "hole_in_the_rock", "funeral_plain", "old_gap",
		"the_great_flat", "false_wall_south", "wind_pass_north", "wind_pass",
		"imperial_basin", "shield_wall", "basin", "tsimpo", "arrakeen",
		"carthag", "arsunt", "false_wall_west", "rim_wall_west", "red_chasm",
		"south_mesa", "the_minor_erg", "sietch_tabr", "plastic_basin",
		"habbanya_ridge_flat", "habbanya_sietch", "habbanya_erg", "haga_basin",
		"false_wall_east", "windtrap_flat",
	}
	for i, id := range ring {
		next := ring[(i+1)%len(ring)]
		link(id, next)
	}

	// Polar Sink sits at the board's center and connects to every
	// stronghold plus Imperial Basin, per its role as the universal hub.
	for _, id := range []string{"arrakeen", "carthag", "tuek_sietch", "sietch_tabr", "habbanya_sietch", "imperial_basin"} {
		link("polar_sink", id)
	}

	// Shield Wall separates Imperial Basin/Arrakeen/Carthag from the deep
	// desert; it is traversable but its destruction (Family Atomics)
	// removes storm protection from those three territories, not the
	// adjacency itself.
	link("shield_wall", "false_wall_south")
	link("shield_wall", "the_great_flat")
	link("wind_pass", "the_great_flat")
	link("wind_pass", "south_mesa")
	link("wind_pass_north", "false_wall_south")

	return m
}
