package dune

import "context"

// PassAllProvider answers every request with its semantic PASS. Modeled
// directly on the teacher's HoldStrategy: the simplest possible strategy,
// useful for smoke-testing the phase manager without any decision logic
// in the way.
type PassAllProvider struct{}

func (PassAllProvider) GetResponses(ctx context.Context, requests []AgentRequest, simultaneous bool) ([]AgentResponse, error) {
	out := make([]AgentResponse, len(requests))
	for i, r := range requests {
		out[i] = AgentResponse{FactionID: r.FactionID, ActionType: "PASS", Passed: true}
	}
	return out, nil
}

// scriptedKey identifies one queued response slot.
type scriptedKey struct {
	faction Faction
	reqType RequestType
}

// ScriptedProvider answers from a pre-loaded queue of canned responses
// keyed by (faction, request type), falling back to PASS once a key's
// queue is exhausted. Modeled on the teacher's hand-rolled mock_test.go
// fixtures, generalized from Diplomacy's order-submission mock into a
// general-purpose scripted agent for deterministic integration tests.
type ScriptedProvider struct {
	queue map[scriptedKey][]AgentResponse
}

// NewScriptedProvider builds an empty scripted provider; use Queue to load
// responses before a run.
func NewScriptedProvider() *ScriptedProvider {
	return &ScriptedProvider{queue: map[scriptedKey][]AgentResponse{}}
}

// Queue appends a response to the back of the queue for (faction, reqType).
func (p *ScriptedProvider) Queue(faction Faction, reqType RequestType, resp AgentResponse) {
	k := scriptedKey{faction, reqType}
	p.queue[k] = append(p.queue[k], resp)
}

func (p *ScriptedProvider) GetResponses(ctx context.Context, requests []AgentRequest, simultaneous bool) ([]AgentResponse, error) {
	out := make([]AgentResponse, len(requests))
	for i, r := range requests {
		k := scriptedKey{r.FactionID, r.RequestType}
		q := p.queue[k]
		if len(q) == 0 {
			out[i] = AgentResponse{FactionID: r.FactionID, ActionType: "PASS", Passed: true}
			continue
		}
		out[i] = q[0]
		p.queue[k] = q[1:]
	}
	return out, nil
}
