package intent

import "fmt"

// Tool is a name from the fixed tool registry.
type Tool string

const (
	ToolReadFile     Tool = "read_file"
	ToolSearchFiles  Tool = "search_files"
	ToolDeleteFile   Tool = "delete_file"
	ToolGetRecord    Tool = "get_record"
	ToolUpdateRecord Tool = "update_record"
)

// AllTools lists every tool known at process start.
var AllTools = []Tool{
	ToolReadFile,
	ToolSearchFiles,
	ToolDeleteFile,
	ToolGetRecord,
	ToolUpdateRecord,
}

// Known reports whether name is part of the static registry.
func Known(name Tool) bool {
	for _, t := range AllTools {
		if t == name {
			return true
		}
	}
	return false
}

// Intent is one planned tool call. Immutable once constructed.
type Intent struct {
	Tool Tool              `json:"tool"`
	Args map[string]string `json:"args"`
}

func (in Intent) String() string {
	return fmt.Sprintf("%s %v", in.Tool, in.Args)
}

// Clone returns a copy with its own args map.
func (in Intent) Clone() Intent {
	args := make(map[string]string, len(in.Args))
	for k, v := range in.Args {
		args[k] = v
	}
	return Intent{Tool: in.Tool, Args: args}
}
