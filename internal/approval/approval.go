package approval

import "strings"

// Status is the approval state attached to one request lifecycle.
type Status string

const (
	StatusNotRequired Status = "not_required"
	StatusPending     Status = "pending"
	StatusApproved    Status = "approved"
	StatusDenied      Status = "denied"
)

// Decision is a resolved approval token.
type Decision string

const (
	DecisionApproved Decision = "approved"
	DecisionDenied   Decision = "denied"
)

// ParseDecision interprets raw input as an approval token. Only the literal
// tokens APPROVE and DENY match, case-insensitively; anything else is not a
// decision and should re-prompt.
func ParseDecision(raw string) (Decision, bool) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "APPROVE":
		return DecisionApproved, true
	case "DENY":
		return DecisionDenied, true
	default:
		return "", false
	}
}

// StatusFor maps a decision to the resulting lifecycle status.
func StatusFor(d Decision) Status {
	if d == DecisionApproved {
		return StatusApproved
	}
	return StatusDenied
}
