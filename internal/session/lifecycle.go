package session

import (
	"github.com/davrd/steward/internal/approval"
	"github.com/davrd/steward/internal/audit"
	"github.com/davrd/steward/internal/intent"
	"github.com/google/uuid"
)

// OutcomeKind classifies what a turn produced.
type OutcomeKind string

const (
	OutcomeClarification   OutcomeKind = "clarification"
	OutcomeApprovalRequest OutcomeKind = "approval_request"
	OutcomeFinal           OutcomeKind = "final"
)

// Outcome is the user-facing result of one turn.
type Outcome struct {
	Kind    OutcomeKind
	Message string
	Trail   []audit.Event
}

// Continuation is the serializable resumable context handed back to the
// caller at the approval suspension point. Feeding it into the next Turn
// resumes the suspended lifecycle; there is no hidden session state.
type Continuation struct {
	RequestID string          `json:"request_id"`
	Intent    intent.Intent   `json:"intent"`
	Approval  approval.Status `json:"approval"`
	Attempts  int             `json:"attempts"`
	Trail     []audit.Event   `json:"trail"`
}

// lifecycle is the in-flight unit of work for one user utterance.
type lifecycle struct {
	requestID string
	intent    intent.Intent
	approval  approval.Status
	attempts  int
	trail     []audit.Event
}

func newLifecycle() *lifecycle {
	return &lifecycle{
		requestID: NewRequestID(),
		approval:  approval.StatusNotRequired,
	}
}

func resumeLifecycle(cont *Continuation) *lifecycle {
	return &lifecycle{
		requestID: cont.RequestID,
		intent:    cont.Intent,
		approval:  cont.Approval,
		attempts:  cont.Attempts,
		trail:     append([]audit.Event(nil), cont.Trail...),
	}
}

func (lc *lifecycle) continuation() *Continuation {
	return &Continuation{
		RequestID: lc.requestID,
		Intent:    lc.intent,
		Approval:  lc.approval,
		Attempts:  lc.attempts,
		Trail:     append([]audit.Event(nil), lc.trail...),
	}
}

func (lc *lifecycle) trailCopy() []audit.Event {
	return append([]audit.Event(nil), lc.trail...)
}

// NewRequestID creates a lifecycle id for tracing.
func NewRequestID() string {
	return uuid.NewString()
}
