package dune

// LeaderLocation is where a leader currently resides.
type LeaderLocation int

const (
	LeaderOffBoard LeaderLocation = iota
	LeaderOnBoard
	LeaderInTanks
	LeaderCaptured
)

// LeaderDef is the static definition of a leader card.
type LeaderDef struct {
	ID       string
	Name     string
	Faction  Faction
	Strength int
}

// leaderCatalogue holds five leaders per faction, a representative subset
// of the full thirteen-leader roster; strength and traitor mechanics only
// depend on the leader's identity and base strength, which this catalogue
// supplies in full.
var leaderCatalogue = map[string]LeaderDef{
	// Atreides
	"duncan_idaho":  {"duncan_idaho", "Duncan Idaho", Atreides, 2},
	"gurney_halleck": {"gurney_halleck", "Gurney Halleck", Atreides, 3},
	"thufir_hawat":  {"thufir_hawat", "Thufir Hawat", Atreides, 4},
	"dr_yueh":       {"dr_yueh", "Dr. Wellington Yueh", Atreides, 3},
	"paul_atreides": {"paul_atreides", "Paul Atreides", Atreides, 5},

	// Harkonnen
	"feyd_rautha":   {"feyd_rautha", "Feyd-Rautha", Harkonnen, 6},
	"beast_rabban":  {"beast_rabban", "Glossu Rabban", Harkonnen, 3},
	"piter_de_vries": {"piter_de_vries", "Piter de Vries", Harkonnen, 3},
	"umman_kudu":    {"umman_kudu", "Umman Kudu", Harkonnen, 2},
	"captain_iakin": {"captain_iakin", "Captain Iakin Nefud", Harkonnen, 1},

	// Emperor
	"hasimir_fenring": {"hasimir_fenring", "Hasimir Fenring", Emperor, 5},
	"burseg":          {"burseg", "Burseg", Emperor, 5},
	"caid":            {"caid", "Caid", Emperor, 4},
	"bashar":          {"bashar", "Bashar", Emperor, 3},
	"captain_aramsham": {"captain_aramsham", "Captain Aramsham", Emperor, 2},

	// Fremen
	"stilgar":       {"stilgar", "Stilgar", Fremen, 5},
	"chani":         {"chani", "Chani", Fremen, 4},
	"otheym":        {"otheym", "Otheym", Fremen, 3},
	"shadout_mapes": {"shadout_mapes", "Shadout Mapes", Fremen, 2},
	"jamis":         {"jamis", "Jamis", Fremen, 1},

	// Bene Gesserit
	"the_reverend_mother": {"the_reverend_mother", "Reverend Mother Ramallo", BeneGesserit, 1},
	"alia":                {"alia", "Alia", BeneGesserit, 5},
	"margot_fenring":      {"margot_fenring", "Margot Lady Fenring", BeneGesserit, 2},
	"princess_irulan":     {"princess_irulan", "Princess Irulan", BeneGesserit, 3},
	"wanna_marcus":        {"wanna_marcus", "Wanna Marcus", BeneGesserit, 4},

	// Guild
	"master_bewt":   {"master_bewt", "Master Bewt", Guild, 3},
	"guild_rep_1":   {"guild_rep_1", "Guild Representative Staban Tuek", Guild, 2},
	"guild_rep_2":   {"guild_rep_2", "Guild Representative Esmar Tuek", Guild, 3},
	"guild_rep_3":   {"guild_rep_3", "Guild Representative Soo-Soo Sook", Guild, 1},
	"guild_rep_4":   {"guild_rep_4", "Guild Representative Guild Bankster", Guild, 5},
}

// LeadersOf returns the leader IDs belonging to a faction, in catalogue
// iteration order (not guaranteed stable across Go versions for map
// iteration, so callers that need a deterministic order should sort).
func LeadersOf(f Faction) []string {
	var ids []string
	for id, def := range leaderCatalogue {
		if def.Faction == f {
			ids = append(ids, id)
		}
	}
	return ids
}

// LeaderInfo returns the static definition for a leader ID.
func LeaderInfo(id string) (LeaderDef, bool) {
	def, ok := leaderCatalogue[id]
	return def, ok
}

// LeaderState tracks a single leader's location and, for a leader that won
// a battle, the territory it fought in. Storm and worm handling do not
// consult UsedInTerritoryID.
type LeaderState struct {
	ID                string
	Location          LeaderLocation
	UsedInTerritoryID string // set by a battle win, cleared on revival; not reset at the end of the turn
}
