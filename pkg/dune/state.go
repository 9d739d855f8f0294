package dune

// PhaseType is one of the fixed ordered phases that make up a turn.
type PhaseType string

const (
	PhaseSetup           PhaseType = "setup"
	PhaseStorm           PhaseType = "storm"
	PhaseSpiceBlow       PhaseType = "spice_blow"
	PhaseCharity         PhaseType = "choam_charity"
	PhaseBidding         PhaseType = "bidding"
	PhaseRevival         PhaseType = "revival"
	PhaseShipMove        PhaseType = "shipment_movement"
	PhaseBattle          PhaseType = "battle"
	PhaseSpiceCollection PhaseType = "spice_collection"
	PhaseMentatPause     PhaseType = "mentat_pause"
)

// PhaseOrder is the fixed sequence of phases repeated every turn after
// setup completes.
var PhaseOrder = []PhaseType{
	PhaseStorm, PhaseSpiceBlow, PhaseCharity, PhaseBidding, PhaseRevival,
	PhaseShipMove, PhaseBattle, PhaseSpiceCollection, PhaseMentatPause,
}

// Variants enumerates the optional advanced-rules toggles named in §3.
type Variants struct {
	ShieldWallStronghold bool
	LeaderSkillCards     bool
	Homeworlds           bool
}

// GameConfig carries the enumerated options that shape a single run.
type GameConfig struct {
	MaxTurns      int
	AdvancedRules bool
	Variants      Variants
}

// DefaultConfig returns the standard-rules configuration with the default
// turn limit.
func DefaultConfig() GameConfig {
	return GameConfig{MaxTurns: DefaultMaxTurns}
}

// ForceStack is a faction's forces sitting on one (territory, sector).
type ForceStack struct {
	TerritoryID string
	Sector      int
	Regular     int
	Elite       int
	Advisors    int // Bene Gesserit only: advisor-flagged forces within this stack
}

// Total returns the number of forces (any flavor) in the stack.
func (fs ForceStack) Total() int {
	return fs.Regular + fs.Elite + fs.Advisors
}

// BattleCapable reports whether the stack can participate in a battle;
// Bene Gesserit advisor-only stacks are not battle-capable (§4.7).
func (fs ForceStack) BattleCapable() bool {
	return fs.Regular+fs.Elite > 0
}

// FactionFlags is the small per-turn bag of booleans/counters that do not
// warrant their own top-level field.
type FactionFlags struct {
	FremenStormCard         int // face-down storm card revealed for next turn (0 = none)
	EmperorAllyRevivalsUsed int
	KaramaBiddingActive     bool
	KaramaFreeCardActive    bool
	OrnithopterAccess       bool // locked at the start of the faction's Shipment & Movement turn
	HasMoved                bool // one-move-per-turn enforcement (§4.6, §8 invariant 8)
}

// FactionState is one faction's complete mutable state within a GameState
// snapshot.
type FactionState struct {
	Faction  Faction
	Spice    int
	Reserves struct{ Regular, Elite int }
	Tanks    struct{ Regular, Elite int }
	OnBoard  []ForceStack
	Hand     []string // treachery card IDs
	Traitors map[string]bool
	Leaders  map[string]*LeaderState
	AllyID   Faction
	Flags    FactionFlags
}

// MaxHandSize returns this faction's hand-size cap (§3 invariant 4).
func (fs *FactionState) MaxHandSize() int {
	def, ok := FactionInfo(fs.Faction)
	if !ok {
		return 0
	}
	return def.MaxHandSize
}

// TotalForces returns reserves + on-board + tanks, the quantity invariant
// 1 in §8 requires to stay constant.
func (fs *FactionState) TotalForces() int {
	onBoard := 0
	for _, s := range fs.OnBoard {
		onBoard += s.Total()
	}
	return fs.Reserves.Regular + fs.Reserves.Elite + onBoard + fs.Tanks.Regular + fs.Tanks.Elite
}

// StacksAt returns all force stacks this faction has at the given
// (territory, sector).
func (fs *FactionState) StacksAt(territoryID string, sector int) []ForceStack {
	var out []ForceStack
	for _, s := range fs.OnBoard {
		if s.TerritoryID == territoryID && s.Sector == sector {
			out = append(out, s)
		}
	}
	return out
}

// SpiceEntry is a single pile of spice sitting on the board.
type SpiceEntry struct {
	TerritoryID string
	Sector      int
	Amount      int
}

// ActionLogEntry is one append-only record of something that happened.
type ActionLogEntry struct {
	ID      string
	Turn    int
	Phase   PhaseType
	Kind    string
	Faction Faction
	Detail  string
}

// GameState is the complete, immutable-by-convention snapshot of the game.
// Every mutation primitive in this package either operates on a working
// copy produced by Clone, or is called by the phase manager on a copy it
// owns exclusively for the duration of one processStep call (§3 lifecycle).
type GameState struct {
	Config        GameConfig
	Turn          int
	Phase         PhaseType
	PhaseStep     string // handler-internal sub-state, e.g. storm's DIALING/APPLY_MOVEMENT/DONE
	SetupComplete bool

	FactionOrder []Faction // insertion order; seeds storm/seating order on turn 1
	Factions     map[Faction]*FactionState

	StormOrder          []Faction
	StormSector         int
	ShieldWallDestroyed bool
	WormCount           int

	// SeatSector is each faction's fixed position on the storm-sector ring,
	// assigned once at setup; storm order is recomputed from it every time
	// the storm moves (§4.2).
	SeatSector map[Faction]int

	// BGPrediction is Bene Gesserit's secret setup-time prediction of which
	// faction wins by which turn (§4.9); NoFaction means no prediction was
	// made (e.g. Bene Gesserit is not in the game).
	BGPrediction BGPredictionRecord

	DeckA, DeckB         []SpiceCard
	DiscardA, DiscardB   []SpiceCard
	SetAsideWormsTurn1   []SpiceCard

	StormDeck []int // 1..6, Fremen advanced storm-deck variant

	TreacheryDeck    []string
	TreacheryDiscard []string
	TraitorDeck      []string // hidden; never surfaced through public accessors

	SpiceOnBoard []SpiceEntry

	PendingDeals []DealRecord
	DealHistory  []DealRecord

	Winner Faction

	ActionLog []ActionLogEntry
}

// DealRecord is a thin, effectively opaque record of an out-of-band
// negotiation; the core engine does not interpret deal content.
type DealRecord struct {
	ID      string
	Summary string
	Parties []Faction
}

// BGPredictionRecord is Bene Gesserit's hidden victory prediction.
type BGPredictionRecord struct {
	Faction Faction
	Turn    int
}

// SpiceAt returns the amount of spice sitting at (territory, sector), and
// whether any is present.
func (gs *GameState) SpiceAt(territoryID string, sector int) (int, bool) {
	for _, e := range gs.SpiceOnBoard {
		if e.TerritoryID == territoryID && e.Sector == sector {
			return e.Amount, true
		}
	}
	return 0, false
}

// FactionsInOrder returns the factions in their fixed insertion order.
func (gs *GameState) FactionsInOrder() []Faction {
	out := make([]Faction, len(gs.FactionOrder))
	copy(out, gs.FactionOrder)
	return out
}

// Alive reports whether a faction still has forces or reserves anywhere.
func (gs *GameState) Alive(f Faction) bool {
	fs := gs.Factions[f]
	if fs == nil {
		return false
	}
	return fs.TotalForces() > 0
}

// Clone returns a deep copy of the GameState. Mutation primitives and phase
// handlers operate on a clone, never on the snapshot handed to them by a
// caller that still holds a reference to the original (§3, §5).
func (gs *GameState) Clone() *GameState {
	c := &GameState{
		Config:              gs.Config,
		Turn:                gs.Turn,
		Phase:               gs.Phase,
		PhaseStep:           gs.PhaseStep,
		SetupComplete:       gs.SetupComplete,
		StormSector:         gs.StormSector,
		ShieldWallDestroyed: gs.ShieldWallDestroyed,
		WormCount:           gs.WormCount,
		Winner:              gs.Winner,
		BGPrediction:        gs.BGPrediction,
	}

	c.SeatSector = make(map[Faction]int, len(gs.SeatSector))
	for f, s := range gs.SeatSector {
		c.SeatSector[f] = s
	}

	c.FactionOrder = append([]Faction(nil), gs.FactionOrder...)
	c.StormOrder = append([]Faction(nil), gs.StormOrder...)
	c.DeckA = append([]SpiceCard(nil), gs.DeckA...)
	c.DeckB = append([]SpiceCard(nil), gs.DeckB...)
	c.DiscardA = append([]SpiceCard(nil), gs.DiscardA...)
	c.DiscardB = append([]SpiceCard(nil), gs.DiscardB...)
	c.SetAsideWormsTurn1 = append([]SpiceCard(nil), gs.SetAsideWormsTurn1...)
	c.StormDeck = append([]int(nil), gs.StormDeck...)
	c.TreacheryDeck = append([]string(nil), gs.TreacheryDeck...)
	c.TreacheryDiscard = append([]string(nil), gs.TreacheryDiscard...)
	c.TraitorDeck = append([]string(nil), gs.TraitorDeck...)
	c.SpiceOnBoard = append([]SpiceEntry(nil), gs.SpiceOnBoard...)
	c.PendingDeals = append([]DealRecord(nil), gs.PendingDeals...)
	c.DealHistory = append([]DealRecord(nil), gs.DealHistory...)
	c.ActionLog = append([]ActionLogEntry(nil), gs.ActionLog...)

	c.Factions = make(map[Faction]*FactionState, len(gs.Factions))
	for f, fs := range gs.Factions {
		c.Factions[f] = fs.clone()
	}

	return c
}

func (fs *FactionState) clone() *FactionState {
	c := &FactionState{
		Faction: fs.Faction,
		Spice:   fs.Spice,
		AllyID:  fs.AllyID,
		Flags:   fs.Flags,
	}
	c.Reserves = fs.Reserves
	c.Tanks = fs.Tanks
	c.OnBoard = append([]ForceStack(nil), fs.OnBoard...)
	c.Hand = append([]string(nil), fs.Hand...)

	c.Traitors = make(map[string]bool, len(fs.Traitors))
	for k, v := range fs.Traitors {
		c.Traitors[k] = v
	}
	c.Leaders = make(map[string]*LeaderState, len(fs.Leaders))
	for id, l := range fs.Leaders {
		lc := *l
		c.Leaders[id] = &lc
	}
	return c
}
