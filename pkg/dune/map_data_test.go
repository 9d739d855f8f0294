package dune

import "testing"

func TestStandardMapIsCachedAndStable(t *testing.T) {
	m1 := StandardMap()
	m2 := StandardMap()
	if m1 != m2 {
		t.Fatalf("StandardMap() should return the same cached instance on repeated calls")
	}
	if len(m1.Territories) < 20 {
		t.Fatalf("expected a substantial territory catalogue, got %d", len(m1.Territories))
	}
}

func TestAdjacencyIsBidirectional(t *testing.T) {
	m := StandardMap()
	for id, neighbors := range m.Adjacency {
		for _, n := range neighbors {
			if !m.Adjacent(n, id) {
				t.Fatalf("adjacency %s -> %s is not reciprocated by %s -> %s", id, n, n, id)
			}
		}
	}
}

func TestStormSectorRange(t *testing.T) {
	gs := &GameState{StormSector: SectorCount - 1}
	passed := moveStormSectors(gs, 3)
	for _, s := range passed {
		if s < 0 || s >= SectorCount {
			t.Fatalf("storm sector %d out of range [0,%d)", s, SectorCount)
		}
	}
	if gs.StormSector != (SectorCount-1+3)%SectorCount {
		t.Fatalf("storm did not wrap correctly: got %d", gs.StormSector)
	}
}

func TestReachableWithinRespectsHopLimit(t *testing.T) {
	m := StandardMap()
	gs := &GameState{StormSector: -1}
	within1 := reachableWithin(gs, m, "arrakeen", 1)
	within3 := reachableWithin(gs, m, "arrakeen", 3)
	if len(within3) < len(within1) {
		t.Fatalf("larger hop count should never shrink the reachable set")
	}
	if !within1["arrakeen"] {
		t.Fatalf("origin territory should always be reachable from itself")
	}
}
