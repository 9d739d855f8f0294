package dune

import (
	"context"
	"testing"
)

func newTestInitialState(maxTurns int) *GameState {
	return &GameState{
		Config:       GameConfig{MaxTurns: maxTurns},
		FactionOrder: []Faction{Atreides, Harkonnen, Emperor, Fremen, BeneGesserit, Guild},
	}
}

func TestManagerRunCompletesWithPassAllProvider(t *testing.T) {
	mgr := NewManager(PassAllProvider{})
	final, err := mgr.Run(context.Background(), newTestInitialState(2))
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if final.Turn < 2 {
		t.Fatalf("expected at least 2 turns to have elapsed, got %d", final.Turn)
	}
	for f, fs := range final.Factions {
		if fs.TotalForces() != ForcePool(f) {
			t.Fatalf("force conservation violated for %s: have %d, want %d", f, fs.TotalForces(), ForcePool(f))
		}
	}
}

func TestDeterminismWithFixedSeed(t *testing.T) {
	runOnce := func() []EventType {
		SeedEngine(42)
		defer ResetEngine()
		mgr := NewManager(PassAllProvider{})
		var types []EventType
		mgr.AddEventListener(func(e Event) { types = append(types, e.Type) })
		_, err := mgr.Run(context.Background(), newTestInitialState(2))
		if err != nil {
			t.Fatalf("Run returned error: %v", err)
		}
		return types
	}

	first := runOnce()
	second := runOnce()

	if len(first) != len(second) {
		t.Fatalf("event counts differ across identically-seeded runs: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("event sequence diverged at index %d: %s vs %s", i, first[i], second[i])
		}
	}
}

func TestStepCapAbortsRunawayPhase(t *testing.T) {
	mgr := NewManager(PassAllProvider{})
	mgr.StepCap = 1
	mgr.handlers[PhaseStorm] = &neverCompleteHandler{}

	gs := newTestInitialState(1)
	gs.Phase = PhaseStorm
	_, err := mgr.RunPhase(context.Background(), gs)
	if err == nil {
		t.Fatalf("expected a step-cap error, got nil")
	}
	if _, ok := err.(*StepCapExceededError); !ok {
		t.Fatalf("expected *StepCapExceededError, got %T: %v", err, err)
	}
}

// neverCompleteHandler never reports PhaseComplete, exercising the
// manager's step-cap abort path.
type neverCompleteHandler struct{}

func (neverCompleteHandler) Initialize(gs *GameState) (*GameState, []Event) { return gs.Clone(), nil }
func (neverCompleteHandler) ProcessStep(gs *GameState, responses []AgentResponse) (StepResult, error) {
	return StepResult{State: gs.Clone()}, nil
}
func (neverCompleteHandler) Cleanup(gs *GameState) (*GameState, []Event) { return gs.Clone(), nil }
