package recovery

import (
	"fmt"
	"path"

	"github.com/davrd/steward/internal/intent"
)

// strategy maps a failed intent to one alternative attempt.
type strategy func(failed intent.Intent, errMsg string) (intent.Intent, string)

// strategies is the single source of recovery policy, keyed by the failed
// tool. Absence of an entry means no retry. Targets are re-gated by the
// session machine, and the attempts counter bounds the chain, so the table
// cannot recurse.
var strategies = map[intent.Tool]strategy{
	intent.ToolReadFile: suggestSearchByFilename,
}

// Strategist is the deterministic recovery policy.
type Strategist struct{}

// NewStrategist returns the table-driven strategist.
func NewStrategist() Strategist {
	return Strategist{}
}

// Suggest maps a failed (tool, args, error) triple to at most one
// alternative intent plus a reflection note. A nil intent means no
// alternative is defined.
func (Strategist) Suggest(failed intent.Intent, errMsg string) (*intent.Intent, string) {
	strat, ok := strategies[failed.Tool]
	if !ok {
		return nil, ""
	}
	alternative, note := strat(failed, errMsg)
	return &alternative, note
}

// ValidateTable checks that every recovery target is a registered tool.
// A bad entry is a startup-time contract violation.
func ValidateTable() error {
	probe := intent.Intent{Args: map[string]string{"path": "/probe"}}
	for tool, strat := range strategies {
		if !intent.Known(tool) {
			return fmt.Errorf("recovery table keyed by unknown tool %q", tool)
		}
		probe.Tool = tool
		alternative, _ := strat(probe, "")
		if !intent.Known(alternative.Tool) {
			return fmt.Errorf("recovery table for %s targets unknown tool %q", tool, alternative.Tool)
		}
	}
	return nil
}

func suggestSearchByFilename(failed intent.Intent, _ string) (intent.Intent, string) {
	filename := path.Base(failed.Args["path"])
	return intent.Intent{
			Tool: intent.ToolSearchFiles,
			Args: map[string]string{"query": filename},
		},
		fmt.Sprintf("read_file failed; trying search_files for '%s'", filename)
}
