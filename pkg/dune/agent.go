package dune

import "context"

// RequestType enumerates every kind of decision the engine can externalize
// to an agent provider (§6).
type RequestType string

const (
	ReqSelectTraitor            RequestType = "SELECT_TRAITOR"
	ReqBGPrediction             RequestType = "BG_PREDICTION"
	ReqDistributeForces         RequestType = "DISTRIBUTE_FORCES"
	ReqDialStorm                RequestType = "DIAL_STORM"
	ReqPlayWeatherControl       RequestType = "PLAY_WEATHER_CONTROL"
	ReqPlayFamilyAtomics        RequestType = "PLAY_FAMILY_ATOMICS"
	ReqPlaceSandworm            RequestType = "PLACE_SANDWORM"
	ReqWormRide                 RequestType = "WORM_RIDE"
	ReqProtectAllyFromWorm      RequestType = "PROTECT_ALLY_FROM_WORM"
	ReqAllianceDecision         RequestType = "ALLIANCE_DECISION"
	ReqBidOrPass                RequestType = "BID_OR_PASS"
	ReqReviveForces             RequestType = "REVIVE_FORCES"
	ReqReviveLeader             RequestType = "REVIVE_LEADER"
	ReqGrantFremenRevivalBoost  RequestType = "GRANT_FREMEN_REVIVAL_BOOST"
	ReqShipForces               RequestType = "SHIP_FORCES"
	ReqMoveForces               RequestType = "MOVE_FORCES"
	ReqGuildTimingDecision      RequestType = "GUILD_TIMING_DECISION"
	ReqFlipAdvisors             RequestType = "FLIP_ADVISORS"
	ReqTakeUpArms               RequestType = "TAKE_UP_ARMS"
	ReqBGIntrusion              RequestType = "BG_INTRUSION"
	ReqChooseBattle             RequestType = "CHOOSE_BATTLE"
	ReqUsePrescience            RequestType = "USE_PRESCIENCE"
	ReqRevealPrescienceElement  RequestType = "REVEAL_PRESCIENCE_ELEMENT"
	ReqCreateBattlePlan         RequestType = "CREATE_BATTLE_PLAN"
	ReqUseVoice                 RequestType = "USE_VOICE"
	ReqComplyWithVoice          RequestType = "COMPLY_WITH_VOICE"
	ReqCallTraitor              RequestType = "CALL_TRAITOR"
	ReqCaptureLeaderChoice      RequestType = "CAPTURE_LEADER_CHOICE"
	ReqChooseCardsToDiscard     RequestType = "CHOOSE_CARDS_TO_DISCARD"
	ReqCollectSpice             RequestType = "COLLECT_SPICE"
	ReqClaimCharity             RequestType = "CLAIM_CHARITY"
	ReqUseKarama                RequestType = "USE_KARAMA"
	ReqRespondToDeal            RequestType = "RESPOND_TO_DEAL"
)

// AgentRequest is one externalized decision point.
type AgentRequest struct {
	ID               string
	FactionID        Faction
	RequestType      RequestType
	Prompt           string
	Context          any
	AvailableActions []string
	TimeoutMS        int
	Urgent           bool
}

// AgentResponse is an agent's answer to one AgentRequest.
type AgentResponse struct {
	FactionID  Faction
	ActionType string
	Data       any
	Passed     bool
	Reasoning  string
}

// AgentProvider is the narrow channel through which the engine externalizes
// every non-deterministic decision (§6, §9). Only this interface is in
// scope; the reasoning behind a real, LLM-backed implementation is an
// external collaborator.
type AgentProvider interface {
	GetResponses(ctx context.Context, requests []AgentRequest, simultaneous bool) ([]AgentResponse, error)
}

// StateSyncProvider is an optional capability: a provider that maintains
// its own cached view of the game for tool execution (§9 design note: the
// reconciliation in §4.1 exists because the source relies on providers
// like this one; a from-scratch design would avoid handing out a mutable
// view in the first place).
type StateSyncProvider interface {
	UpdateState(state *GameState)
	GetState() *GameState
}

// OrnithopterOverrideProvider is an optional capability used by tests and
// tooling to force a faction's ornithopter-access flag for a turn.
type OrnithopterOverrideProvider interface {
	SetOrnithopterAccessOverride(faction Faction, hasAccess *bool)
}

// responseOrPass returns the first response for a request, or a synthetic
// PASS if none was returned — the phase manager's policy for missing or
// malformed responses (§4.1, §7).
func responseOrPass(req AgentRequest, responses []AgentResponse) AgentResponse {
	for _, r := range responses {
		if r.FactionID == req.FactionID {
			return r
		}
	}
	return AgentResponse{FactionID: req.FactionID, ActionType: "PASS", Passed: true}
}
