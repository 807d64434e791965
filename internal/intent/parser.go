package intent

import "strings"

// Clarification is returned when an input cannot be planned as a tool call.
type Clarification struct {
	MissingFields []string
}

// actionSpec maps one action keyword to its tool and required fields.
type actionSpec struct {
	tool     Tool
	required []string
}

// actionTable is the static keyword table. Argument extraction for simple
// actions joins the remaining tokens into the single required field.
var actionTable = map[string]actionSpec{
	"read":   {tool: ToolReadFile, required: []string{"path"}},
	"search": {tool: ToolSearchFiles, required: []string{"query"}},
	"delete": {tool: ToolDeleteFile, required: []string{"path"}},
	"get":    {tool: ToolGetRecord, required: []string{"key"}},
	"update": {tool: ToolUpdateRecord, required: []string{"key", "patch"}},
}

// Parse turns raw input text into an Intent or a Clarification.
// It is a pure function of the input string and the static action table,
// and never indexes past the available tokens.
func Parse(raw string) (Intent, *Clarification) {
	tokens := strings.Fields(raw)
	if len(tokens) == 0 {
		return Intent{}, &Clarification{MissingFields: []string{"action"}}
	}

	action := strings.ToLower(tokens[0])
	spec, ok := actionTable[action]
	if !ok {
		return Intent{}, &Clarification{MissingFields: []string{"action"}}
	}

	if spec.tool == ToolUpdateRecord {
		return parseUpdate(tokens)
	}

	field := spec.required[0]
	if len(tokens) < 2 {
		return Intent{}, &Clarification{MissingFields: []string{field}}
	}
	return Intent{
		Tool: spec.tool,
		Args: map[string]string{field: strings.Join(tokens[1:], " ")},
	}, nil
}

// parseUpdate handles "update <key> <field>=<value>". The patch is carried
// as a single "field=value" argument and split again by the provider.
func parseUpdate(tokens []string) (Intent, *Clarification) {
	switch len(tokens) {
	case 1:
		return Intent{}, &Clarification{MissingFields: []string{"key", "field", "value"}}
	case 2:
		return Intent{}, &Clarification{MissingFields: []string{"field", "value"}}
	}

	key := tokens[1]
	patch := strings.Join(tokens[2:], " ")

	field, value, found := strings.Cut(patch, "=")
	if !found {
		return Intent{}, &Clarification{MissingFields: []string{"value"}}
	}
	if strings.TrimSpace(field) == "" {
		return Intent{}, &Clarification{MissingFields: []string{"field"}}
	}
	if strings.TrimSpace(value) == "" {
		return Intent{}, &Clarification{MissingFields: []string{"value"}}
	}

	return Intent{
		Tool: ToolUpdateRecord,
		Args: map[string]string{"key": key, "patch": patch},
	}, nil
}

// ValidateTables checks the static action table against the tool registry.
// A mismatch is a programming error and should stop the process at startup.
func ValidateTables() error {
	for action, spec := range actionTable {
		if !Known(spec.tool) {
			return &TableError{Action: action, Tool: spec.tool}
		}
		if len(spec.required) == 0 {
			return &TableError{Action: action, Tool: spec.tool}
		}
	}
	return nil
}

// TableError reports a malformed static table entry.
type TableError struct {
	Action string
	Tool   Tool
}

func (e *TableError) Error() string {
	return "malformed action table entry: action=" + e.Action + " tool=" + string(e.Tool)
}
