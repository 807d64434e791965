package audit

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/davrd/steward/internal/approval"
	"github.com/davrd/steward/internal/intent"
)

// EventType tags one audit record.
type EventType string

const (
	EventToolCall   EventType = "tool_call"
	EventReflection EventType = "reflection"
	EventApproval   EventType = "approval"
)

// Event is one entry in a lifecycle's append-only audit trail.
// Tool-call events carry ok plus the result or error text; reflection
// events carry a note; approval events carry the decision.
type Event struct {
	Time      time.Time         `json:"time"`
	Type      EventType         `json:"type"`
	RequestID string            `json:"request_id,omitempty"`
	Tool      intent.Tool       `json:"tool,omitempty"`
	Args      map[string]string `json:"args,omitempty"`
	OK        bool              `json:"ok,omitempty"`
	Result    string            `json:"result,omitempty"`
	Note      string            `json:"note,omitempty"`
	Decision  approval.Decision `json:"decision,omitempty"`
}

// ToolCall builds a tool invocation event. result holds the value on
// success and the error message on failure.
func ToolCall(in intent.Intent, ok bool, result string) Event {
	return Event{
		Type:   EventToolCall,
		Tool:   in.Tool,
		Args:   in.Args,
		OK:     ok,
		Result: result,
	}
}

// Reflection builds a recovery substitution event.
func Reflection(note string) Event {
	return Event{Type: EventReflection, Note: note}
}

// Approval builds a human decision event for a destructive intent.
func Approval(in intent.Intent, decision approval.Decision) Event {
	return Event{
		Type:     EventApproval,
		Tool:     in.Tool,
		Args:     in.Args,
		Decision: decision,
	}
}

// Render formats the trail as an ordered, human-readable list.
func Render(events []Event) string {
	if len(events) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("Audit trail:")
	for i, ev := range events {
		b.WriteString(fmt.Sprintf("\n%d. ", i+1))
		switch ev.Type {
		case EventToolCall:
			if ev.OK {
				b.WriteString(fmt.Sprintf("tool_call %s %s ok=true result=%s", ev.Tool, formatArgs(ev.Args), ev.Result))
			} else {
				b.WriteString(fmt.Sprintf("tool_call %s %s ok=false error=%s", ev.Tool, formatArgs(ev.Args), ev.Result))
			}
		case EventReflection:
			b.WriteString("reflection " + ev.Note)
		case EventApproval:
			b.WriteString(fmt.Sprintf("approval %s %s decision=%s", ev.Tool, formatArgs(ev.Args), ev.Decision))
		default:
			b.WriteString(string(ev.Type))
		}
	}
	return b.String()
}

func formatArgs(args map[string]string) string {
	if len(args) == 0 {
		return "{}"
	}
	keys := make([]string, 0, len(args))
	for k := range args {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+args[k])
	}
	return "{" + strings.Join(parts, " ") + "}"
}
