package dune

import "math/rand"

// engineRand is the package-level random source consulted by every shuffle
// and default-plan tie-break in the engine. A fresh, seeded source must be
// installed via SeedEngine before a run for the determinism guarantee in
// §8 property 6 to hold; without one, shuffles fall back to the global
// math/rand default and two runs are not guaranteed to match.
var engineRand *rand.Rand

// SeedEngine installs a deterministic random source for one run.
func SeedEngine(seed int64) {
	engineRand = rand.New(rand.NewSource(seed))
}

// ResetEngine reverts to the non-deterministic global default, e.g.
// between unrelated test cases that don't care about determinism.
func ResetEngine() {
	engineRand = nil
}

func engineShuffle(n int, swap func(i, j int)) {
	if engineRand != nil {
		engineRand.Shuffle(n, swap)
		return
	}
	rand.Shuffle(n, swap)
}

func engineIntn(n int) int {
	if n <= 0 {
		return 0
	}
	if engineRand != nil {
		return engineRand.Intn(n)
	}
	return rand.Intn(n)
}

// shuffleSpiceCards shuffles a spice-card slice in place using the engine's
// seeded source.
func shuffleSpiceCards(cards []SpiceCard) {
	engineShuffle(len(cards), func(i, j int) { cards[i], cards[j] = cards[j], cards[i] })
}

// shuffleStrings shuffles a string slice in place (treachery and traitor decks).
func shuffleStrings(cards []string) {
	engineShuffle(len(cards), func(i, j int) { cards[i], cards[j] = cards[j], cards[i] })
}

func shuffleInts(vals []int) {
	engineShuffle(len(vals), func(i, j int) { vals[i], vals[j] = vals[j], vals[i] })
}
