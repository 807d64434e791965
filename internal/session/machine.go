package session

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/davrd/steward/internal/approval"
	"github.com/davrd/steward/internal/audit"
	"github.com/davrd/steward/internal/gateway"
	"github.com/davrd/steward/internal/intent"
	"github.com/davrd/steward/internal/policy"
	"github.com/davrd/steward/internal/recovery"
)

// maxAttempts bounds tool calls per lifecycle: one original plus at most
// one recovery call.
const maxAttempts = 2

// Machine sequences one request lifecycle through plan, gate, approval,
// tool invocation, recovery and finalization. One lifecycle runs
// start-to-finish (or to its suspension point) per Turn; there is no
// concurrent processing of two lifecycles.
type Machine struct {
	classifier policy.Classifier
	client     gateway.Client
	strategist recovery.Strategist
	writer     *audit.Writer
	now        func() time.Time
}

// NewMachine wires the components and validates the static tables.
// A malformed table is a programming error and fails here, at startup,
// rather than at request time.
func NewMachine(classifier policy.Classifier, client gateway.Client) (*Machine, error) {
	if err := intent.ValidateTables(); err != nil {
		return nil, err
	}
	if err := recovery.ValidateTable(); err != nil {
		return nil, err
	}

	return &Machine{
		classifier: classifier,
		client:     client,
		strategist: recovery.NewStrategist(),
		now:        time.Now,
	}, nil
}

// SetAuditWriter attaches the persistent audit sink. The in-memory trail
// stays authoritative for lifecycle ordering; the writer is best-effort.
func (m *Machine) SetAuditWriter(w *audit.Writer) {
	m.writer = w
}

// Turn processes one line of raw input. A nil continuation starts a fresh
// lifecycle; a pending continuation is resumed through approval routing.
// The returned continuation is non-nil only when the lifecycle suspended
// awaiting approval.
func (m *Machine) Turn(ctx context.Context, raw string, cont *Continuation) (Outcome, *Continuation, error) {
	if cont != nil && cont.Approval == approval.StatusPending {
		return m.routeApproval(ctx, raw, cont)
	}

	lc := newLifecycle()

	// plan
	in, clar := intent.Parse(raw)
	if clar != nil {
		slog.Info("clarification needed", "request_id", lc.requestID, "missing", clar.MissingFields)
		return Outcome{
			Kind:    OutcomeClarification,
			Message: clarificationMessage(clar),
		}, nil, nil
	}
	lc.intent = in
	slog.Info("intent planned", "request_id", lc.requestID, "tool", in.Tool)

	// gate
	if m.classifier.Destructive(in.Tool) {
		lc.approval = approval.StatusPending
		return m.askApproval(lc)
	}
	return m.callTool(ctx, lc)
}

// routeApproval interprets the next input while a destructive intent is
// pending. Only the literal APPROVE/DENY tokens advance the lifecycle;
// anything else re-prompts without changing state.
func (m *Machine) routeApproval(ctx context.Context, raw string, cont *Continuation) (Outcome, *Continuation, error) {
	decision, ok := approval.ParseDecision(raw)
	if !ok {
		return Outcome{
			Kind: OutcomeApprovalRequest,
			Message: fmt.Sprintf("Approval for %s is still pending. Type APPROVE or DENY.",
				cont.Intent.Tool),
		}, cont, nil
	}

	lc := resumeLifecycle(cont)
	m.record(lc, audit.Approval(lc.intent, decision))
	lc.approval = approval.StatusFor(decision)
	slog.Info("approval decided", "request_id", lc.requestID, "tool", lc.intent.Tool, "decision", decision)

	if decision == approval.DecisionDenied {
		return m.finalize(lc, "Denied by human. No destructive action taken."), nil, nil
	}
	return m.callTool(ctx, lc)
}

// callTool invokes the gateway, recording every call, and runs the
// bounded reflect-retry loop on failure.
func (m *Machine) callTool(ctx context.Context, lc *lifecycle) (Outcome, *Continuation, error) {
	for {
		result, err := m.client.Invoke(ctx, lc.intent)
		if err != nil {
			// Static-table defect; nothing user-facing can fix it.
			return Outcome{}, nil, fmt.Errorf("tool gateway: %w", err)
		}

		lc.attempts++
		m.record(lc, audit.ToolCall(lc.intent, result.OK, resultText(result)))
		slog.Info("tool call finished",
			"request_id", lc.requestID,
			"tool", lc.intent.Tool,
			"attempt", lc.attempts,
			"success", result.OK,
		)

		if result.OK {
			return m.finalizeSuccess(lc, result.Value), nil, nil
		}

		if lc.attempts >= maxAttempts {
			return m.finalize(lc, fmt.Sprintf(
				"Tool failure recovery attempted, but I still could not complete the request.\nLast error: %s",
				result.Err,
			)), nil, nil
		}

		alternative, note := m.strategist.Suggest(lc.intent, result.Err)
		if alternative == nil {
			return m.finalize(lc, fmt.Sprintf(
				"Tool failed with no recovery strategy: %s", result.Err,
			)), nil, nil
		}

		m.record(lc, audit.Reflection(note))
		slog.Info("recovery substitution", "request_id", lc.requestID, "from", lc.intent.Tool, "to", alternative.Tool)
		lc.intent = *alternative

		// The earlier approval covered the failed intent, not the
		// substitute, so the new intent is gated from scratch.
		lc.approval = approval.StatusNotRequired
		if m.classifier.Destructive(lc.intent.Tool) {
			lc.approval = approval.StatusPending
			return m.askApproval(lc)
		}
	}
}

// askApproval is the suspension point: the lifecycle is returned to the
// caller as a continuation and resumes on the next input.
func (m *Machine) askApproval(lc *lifecycle) (Outcome, *Continuation, error) {
	slog.Info("approval required", "request_id", lc.requestID, "tool", lc.intent.Tool)
	return Outcome{
		Kind: OutcomeApprovalRequest,
		Message: fmt.Sprintf("Approval required before running %s with args=%v.\nType APPROVE or DENY.",
			lc.intent.Tool, lc.intent.Args),
		Trail: lc.trailCopy(),
	}, lc.continuation(), nil
}

func (m *Machine) finalizeSuccess(lc *lifecycle, value string) Outcome {
	if lc.intent.Tool == intent.ToolSearchFiles && emptyListValue(value) && hasReflection(lc.trail) {
		return m.finalize(lc,
			"Recovered from the tool failure, but the fallback search found no matches; no alternative file to read.")
	}
	return m.finalize(lc, "OK: "+value)
}

func (m *Machine) finalize(lc *lifecycle, message string) Outcome {
	slog.Info("lifecycle finalized", "request_id", lc.requestID, "events", len(lc.trail))
	return Outcome{
		Kind:    OutcomeFinal,
		Message: message,
		Trail:   lc.trailCopy(),
	}
}

// record appends to the lifecycle trail in transition order and mirrors
// the event to the persistent sink when one is attached.
func (m *Machine) record(lc *lifecycle, event audit.Event) {
	event.Time = m.now().UTC()
	event.RequestID = lc.requestID
	lc.trail = append(lc.trail, event)

	if m.writer != nil {
		if err := m.writer.Append(event); err != nil {
			slog.Warn("persist audit event failed", "request_id", lc.requestID, "error", err)
		}
	}
}

func clarificationMessage(clar *intent.Clarification) string {
	return fmt.Sprintf("I need more information to proceed. Missing: %s.",
		strings.Join(clar.MissingFields, ", "))
}

func resultText(result gateway.Result) string {
	if result.OK {
		return result.Value
	}
	return result.Err
}

func emptyListValue(value string) bool {
	trimmed := strings.TrimSpace(value)
	return trimmed == "" || trimmed == "[]"
}

func hasReflection(trail []audit.Event) bool {
	for _, ev := range trail {
		if ev.Type == audit.EventReflection {
			return true
		}
	}
	return false
}
