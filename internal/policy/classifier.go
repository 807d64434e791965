package policy

import (
	"fmt"
	"strings"

	"github.com/davrd/steward/internal/intent"
)

// DefaultRequireApproval is the static destructive set.
var DefaultRequireApproval = []string{
	string(intent.ToolDeleteFile),
	string(intent.ToolUpdateRecord),
}

// Classifier performs pure, side-effect free safety decisions.
// Repeated calls with the same tool always return the same result.
type Classifier struct {
	requireApproval map[intent.Tool]struct{}
}

// NewClassifier builds a classifier from the configured destructive set.
// An empty set falls back to the default table.
func NewClassifier(cfg Config) (Classifier, error) {
	names := cfg.RequireApproval
	if len(names) == 0 {
		names = DefaultRequireApproval
	}

	requireApproval := make(map[intent.Tool]struct{}, len(names))
	for _, name := range names {
		normalized := intent.Tool(strings.ToLower(strings.TrimSpace(name)))
		if normalized == "" {
			continue
		}
		if !intent.Known(normalized) {
			return Classifier{}, fmt.Errorf("policy require_approval names unknown tool %q", name)
		}
		requireApproval[normalized] = struct{}{}
	}

	return Classifier{requireApproval: requireApproval}, nil
}

// Evaluate returns a deterministic decision for the given input.
func (c Classifier) Evaluate(input Input) Decision {
	if _, ok := c.requireApproval[input.Tool]; ok {
		return Decision{
			Action: ActionRequireApproval,
			Reason: fmt.Sprintf("%s mutates externally visible state", input.Tool),
		}
	}
	return Decision{Action: ActionAllow}
}

// Destructive reports whether the tool requires approval before execution.
func (c Classifier) Destructive(tool intent.Tool) bool {
	return c.Evaluate(Input{Tool: tool}).Action == ActionRequireApproval
}
