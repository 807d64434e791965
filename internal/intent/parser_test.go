package intent

import (
	"reflect"
	"testing"
)

func TestParse_Actions(t *testing.T) {
	cases := []struct {
		name  string
		input string
		tool  Tool
		args  map[string]string
	}{
		{
			name:  "read file",
			input: "read /configs/app.yaml",
			tool:  ToolReadFile,
			args:  map[string]string{"path": "/configs/app.yaml"},
		},
		{
			name:  "search query with spaces",
			input: "search feature flag",
			tool:  ToolSearchFiles,
			args:  map[string]string{"query": "feature flag"},
		},
		{
			name:  "delete file",
			input: "delete /configs/app.yaml",
			tool:  ToolDeleteFile,
			args:  map[string]string{"path": "/configs/app.yaml"},
		},
		{
			name:  "get record",
			input: "get user:123",
			tool:  ToolGetRecord,
			args:  map[string]string{"key": "user:123"},
		},
		{
			name:  "update record",
			input: "update user:123 plan=free",
			tool:  ToolUpdateRecord,
			args:  map[string]string{"key": "user:123", "patch": "plan=free"},
		},
		{
			name:  "uppercase action keyword",
			input: "READ /docs/readme.md",
			tool:  ToolReadFile,
			args:  map[string]string{"path": "/docs/readme.md"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in, clar := Parse(tc.input)
			if clar != nil {
				t.Fatalf("unexpected clarification: %v", clar.MissingFields)
			}
			if in.Tool != tc.tool {
				t.Fatalf("expected tool %s, got %s", tc.tool, in.Tool)
			}
			if !reflect.DeepEqual(in.Args, tc.args) {
				t.Fatalf("expected args %v, got %v", tc.args, in.Args)
			}
		})
	}
}

func TestParse_Clarifications(t *testing.T) {
	cases := []struct {
		name    string
		input   string
		missing []string
	}{
		{name: "empty input", input: "", missing: []string{"action"}},
		{name: "whitespace only", input: "   ", missing: []string{"action"}},
		{name: "unknown action", input: "restart server", missing: []string{"action"}},
		{name: "read without path", input: "read", missing: []string{"path"}},
		{name: "search without query", input: "search", missing: []string{"query"}},
		{name: "delete without path", input: "delete", missing: []string{"path"}},
		{name: "get without key", input: "get", missing: []string{"key"}},
		{name: "bare update", input: "update", missing: []string{"key", "field", "value"}},
		{name: "update without patch", input: "update user:123", missing: []string{"field", "value"}},
		{name: "update patch without equals", input: "update user:123 plan", missing: []string{"value"}},
		{name: "update patch without field", input: "update user:123 =free", missing: []string{"field"}},
		{name: "update patch without value", input: "update user:123 plan=", missing: []string{"value"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, clar := Parse(tc.input)
			if clar == nil {
				t.Fatal("expected clarification")
			}
			if !reflect.DeepEqual(clar.MissingFields, tc.missing) {
				t.Fatalf("expected missing %v, got %v", tc.missing, clar.MissingFields)
			}
		})
	}
}

func TestParse_IsPure(t *testing.T) {
	first, _ := Parse("read /docs/readme.md")
	second, _ := Parse("read /docs/readme.md")
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected identical results, got %v and %v", first, second)
	}
}

func TestValidateTables(t *testing.T) {
	if err := ValidateTables(); err != nil {
		t.Fatalf("ValidateTables error: %v", err)
	}
}
