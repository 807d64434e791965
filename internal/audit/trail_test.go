package audit

import (
	"strings"
	"testing"

	"github.com/davrd/steward/internal/approval"
	"github.com/davrd/steward/internal/intent"
)

func TestRender_OrderedList(t *testing.T) {
	readIntent := intent.Intent{
		Tool: intent.ToolReadFile,
		Args: map[string]string{"path": "/configs/missing.yaml"},
	}
	searchIntent := intent.Intent{
		Tool: intent.ToolSearchFiles,
		Args: map[string]string{"query": "missing.yaml"},
	}

	events := []Event{
		ToolCall(readIntent, false, "File not found: /configs/missing.yaml"),
		Reflection("read_file failed; trying search_files for 'missing.yaml'"),
		ToolCall(searchIntent, true, "[]"),
	}

	rendered := Render(events)
	lines := strings.Split(rendered, "\n")
	if len(lines) != 4 {
		t.Fatalf("expected header plus 3 lines, got %d: %q", len(lines), rendered)
	}
	if !strings.HasPrefix(lines[1], "1. tool_call read_file") {
		t.Fatalf("unexpected first line: %q", lines[1])
	}
	if !strings.Contains(lines[1], "ok=false") {
		t.Fatalf("expected failed call marker, got %q", lines[1])
	}
	if !strings.HasPrefix(lines[2], "2. reflection") {
		t.Fatalf("unexpected second line: %q", lines[2])
	}
	if !strings.HasPrefix(lines[3], "3. tool_call search_files") || !strings.Contains(lines[3], "ok=true") {
		t.Fatalf("unexpected third line: %q", lines[3])
	}
}

func TestRender_ApprovalEvent(t *testing.T) {
	deleteIntent := intent.Intent{
		Tool: intent.ToolDeleteFile,
		Args: map[string]string{"path": "/configs/app.yaml"},
	}

	rendered := Render([]Event{Approval(deleteIntent, approval.DecisionApproved)})
	if !strings.Contains(rendered, "approval delete_file {path=/configs/app.yaml} decision=approved") {
		t.Fatalf("unexpected rendering: %q", rendered)
	}
}

func TestRender_Empty(t *testing.T) {
	if got := Render(nil); got != "" {
		t.Fatalf("expected empty rendering, got %q", got)
	}
}

func TestFormatArgs_Deterministic(t *testing.T) {
	args := map[string]string{"key": "user:123", "patch": "plan=free"}
	first := formatArgs(args)
	for i := 0; i < 5; i++ {
		if again := formatArgs(args); again != first {
			t.Fatalf("formatArgs not deterministic: %q vs %q", again, first)
		}
	}
	if first != "{key=user:123 patch=plan=free}" {
		t.Fatalf("unexpected format: %q", first)
	}
}
