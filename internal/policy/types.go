package policy

import "github.com/davrd/steward/internal/intent"

// Action is the policy decision for a tool execution request.
type Action string

const (
	ActionAllow           Action = "allow"
	ActionRequireApproval Action = "require_approval"
)

// Config contains the settings required by the classifier.
type Config struct {
	RequireApproval []string
}

// Input is the minimum evaluation context.
type Input struct {
	Tool intent.Tool
}

// Decision is the deterministic policy result.
type Decision struct {
	Action Action
	Reason string
}
