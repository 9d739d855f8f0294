package dune

// Game-wide constants that are not per-faction (those live in FactionDef).
const (
	// DefaultMaxTurns is the default turn limit; victoryCheck describes how
	// a game still undecided at that turn is scored.
	DefaultMaxTurns = 10

	// StormStartSector is the storm's fixed reference position on turn 1.
	StormStartSector = 0

	// ShieldWallWormThreshold is the cumulative Shai-Hulud count (the
	// "shieldWallStronghold" variant) at which the Shield Wall is destroyed
	// automatically, independent of Family Atomics.
	ShieldWallWormThreshold = 4

	// RevivalCostSpice is the bank price of one paid force revival.
	RevivalCostSpice = 2

	// PaidRevivalCapPerTurn is the base number of paid revivals a faction
	// may purchase in one Revival phase, before any ally boost.
	PaidRevivalCapPerTurn = 3

	// EmperorAllyRevivalBoost is the maximum number of additional paid
	// revivals the Emperor may grant its ally per turn (§4.5).
	EmperorAllyRevivalBoost = 3

	// StepCap bounds the number of processStep iterations within a single
	// phase before the phase manager aborts with a fatal error (§4.1).
	StepCap = 100

	// DefaultMovementRange is the number of territories a non-Fremen,
	// non-ornithopter faction may move across in one Shipment & Movement turn.
	DefaultMovementRange = 1

	// FremenMovementRange and OrnithopterMovementRange are both 3 (§4.6).
	FremenMovementRange      = 3
	OrnithopterMovementRange = 3

	// MaxStrongholdOccupants is the number of distinct factions with
	// force-stacks a stronghold may hold simultaneously (§8 invariant 2).
	MaxStrongholdOccupants = 2

	// LeaderRevivalCostSpice is the bank price of reviving one leader from
	// the tanks during Revival.
	LeaderRevivalCostSpice = 2

	// maxSpicePile bounds a single removeSpiceAt call so a caller can
	// "remove everything" without first reading the pile's amount.
	maxSpicePile = 1 << 30

	// TakeUpArmsForceBonus is the forces-dialed bonus a Fremen ally
	// contributes to a Fremen battle plan when it takes up arms (§4.7).
	TakeUpArmsForceBonus = 2

	// FuzzyTerritorySuggestionMaxDistance bounds how many Levenshtein edits
	// a territory-ID lookup miss tolerates before a candidate is no longer
	// offered as a "did you mean" suggestion (§6).
	FuzzyTerritorySuggestionMaxDistance = 4
)
