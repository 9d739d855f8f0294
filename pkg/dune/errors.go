package dune

import "fmt"

// ValidationError describes a single agent-correctable problem with a
// proposed action: an invalid move target, insufficient spice, hand
// overflow, an illegal bid. Handlers treat a ValidationResult carrying one
// or more of these as a PASS at the decision site and continue (§7).
type ValidationError struct {
	Code       string
	Message    string
	Suggestion string
}

func (e *ValidationError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("%s: %s (suggestion: %s)", e.Code, e.Message, e.Suggestion)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// ValidationResult is returned by rule validators; Valid is false iff
// Errors is non-empty.
type ValidationResult struct {
	Valid  bool
	Errors []ValidationError
}

func invalid(code, message string) ValidationResult {
	return ValidationResult{Errors: []ValidationError{{Code: code, Message: message}}}
}

func valid() ValidationResult { return ValidationResult{Valid: true} }

// ProtocolError is a schema-level failure from the agent provider: a
// malformed request or response shape. Fatal; the phase manager aborts the
// phase (§7).
type ProtocolError struct {
	RequestType RequestType
	Faction     Faction
	Message     string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("protocol error: %s/%s: %s", e.Faction, e.RequestType, e.Message)
}

// InvariantError reports an engine bug: force-count drift, a broken
// symmetric alliance, negative spice. Carries the offending snapshot for
// diagnostics. Fatal; the game halts (§7, §8).
type InvariantError struct {
	Invariant string
	Turn      int
	Phase     PhaseType
	Detail    string
	State     *GameState
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("invariant violated (%s) at turn %d phase %s: %s", e.Invariant, e.Turn, e.Phase, e.Detail)
}

// StepCapExceededError is raised when a phase's processStep loop exceeds
// the configured step cap (§4.1, §7) without reaching phaseComplete.
type StepCapExceededError struct {
	Phase PhaseType
	Cap   int
}

func (e *StepCapExceededError) Error() string {
	return fmt.Sprintf("phase %s exceeded step cap of %d", e.Phase, e.Cap)
}
