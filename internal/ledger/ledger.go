package ledger

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/promopilot/mlr/internal/types"
)

// Compliance score bounds. The score is a heuristic momentum indicator for
// reviewers, not a recomputation of the content's true compliance state, and
// it always saturates at these bounds.
const (
	MinScore = 0
	MaxScore = 100

	// acceptNudge / blockNudge shift the score on accept/block decisions
	acceptNudge = 5
	blockNudge  = 10
)

// ValidationError reports a rejected decision. It is a value, not a Go error:
// a rejected transition is an expected outcome the caller must surface to the
// reviewer and re-prompt on, never something to panic or abort over.
type ValidationError struct {
	FindingID string `json:"finding_id"`
	Field     string `json:"field"`
	Message   string `json:"message"`
}

// Error makes ValidationError usable in error contexts for logging
func (v *ValidationError) Error() string {
	return fmt.Sprintf("finding %s: %s: %s", v.FindingID, v.Field, v.Message)
}

// AuditEvent is one entry in the content unit's append-only decision log.
// Unlike the decision map, which only keeps the latest decision per finding,
// the audit log records every decision event and is never rewritten.
type AuditEvent struct {
	ID        string               `json:"id"`
	FindingID string               `json:"finding_id"`
	Action    types.DecisionAction `json:"action"`
	Reasoning string               `json:"reasoning,omitempty"`
	Actor     string               `json:"actor,omitempty"`
	Replaced  bool                 `json:"replaced"` // True when this overwrote a prior decision
	Timestamp time.Time            `json:"timestamp"`
}

// BlockerKind categorizes why approval is blocked
type BlockerKind string

const (
	// BlockerUndecided means a MUST_CHANGE finding has no decision yet
	BlockerUndecided BlockerKind = "undecided_must_change"
	// BlockerBlockingDecision means a reviewer decided a finding as blocking
	BlockerBlockingDecision BlockerKind = "blocking_decision"
	// BlockerCriticalRisk means a critical-risk finding is present
	BlockerCriticalRisk BlockerKind = "critical_risk"
)

// Blocker explains one reason CanApprove returns false
type Blocker struct {
	Kind      BlockerKind `json:"kind"`
	FindingID string      `json:"finding_id"`
	Detail    string      `json:"detail"`
}

// Ledger owns the per-finding decision state for one content unit: the
// decision map (latest decision per finding), the append-only audit log, the
// working text, and the aggregate compliance score.
//
// One ledger per content unit, constructed and owned by the caller. Ledgers
// share no state, so separate content units can be reviewed in parallel
// without coordination. The ledger itself is not safe for concurrent use.
type Ledger struct {
	unitID      string
	findings    []*types.Finding
	findingByID map[string]*types.Finding
	decisions   map[string]*types.Decision
	audit       []AuditEvent
	workingText string
	score       int
	clock       func() time.Time
}

// New creates a ledger for one content unit seeded with its reconciled
// findings and current working text. Findings must already be reconciled:
// once a decision exists for a finding, only its rationale history matters,
// so merging after this point would corrupt the audit trail.
func New(unitID string, findings []*types.Finding, workingText string) *Ledger {
	l := &Ledger{
		unitID:      unitID,
		findings:    findings,
		findingByID: make(map[string]*types.Finding, len(findings)),
		decisions:   make(map[string]*types.Decision),
		audit:       make([]AuditEvent, 0),
		workingText: workingText,
		score:       MaxScore,
		clock:       time.Now,
	}
	for _, f := range findings {
		if f != nil {
			l.findingByID[f.ID] = f
		}
	}
	return l
}

// UnitID returns the content unit this ledger belongs to
func (l *Ledger) UnitID() string {
	return l.unitID
}

// Findings returns the reconciled findings under review
func (l *Ledger) Findings() []*types.Finding {
	return l.findings
}

// Decision returns the latest decision for a finding, or nil if undecided
func (l *Ledger) Decision(findingID string) *types.Decision {
	return l.decisions[findingID]
}

// WorkingText returns the content unit's current working text, including any
// evidence appended by accepted decisions.
func (l *Ledger) WorkingText() string {
	return l.workingText
}

// Score returns the aggregate compliance score in [0, 100]
func (l *Ledger) Score() int {
	return l.score
}

// AuditLog returns the append-only decision event history, oldest first
func (l *Ledger) AuditLog() []AuditEvent {
	return l.audit
}

// Decide records the reviewer's disposition of a finding.
//
// Re-deciding a finding replaces the prior decision in the decision map (only
// the latest decision matters for gating) but the replacement is still
// appended to the audit log. A decision moving directly between two terminal
// actions, e.g. blocking then accepted, is allowed: reviewers change their
// minds, and each change is an auditable event.
//
// Returns a ValidationError, and records nothing, when the action is unknown,
// the finding is not in this ledger, or a reasoning-gated action (exception,
// deferred, risk-accepted) arrives without reasoning.
func (l *Ledger) Decide(findingID string, action types.DecisionAction, reasoning, actor string) (*types.Decision, *ValidationError) {
	if !action.IsValid() {
		return nil, &ValidationError{
			FindingID: findingID,
			Field:     "action",
			Message:   fmt.Sprintf("unknown action %q", action),
		}
	}

	f, ok := l.findingByID[findingID]
	if !ok {
		return nil, &ValidationError{
			FindingID: findingID,
			Field:     "finding_id",
			Message:   "no such finding in this content unit",
		}
	}

	if action.RequiresReasoning() && strings.TrimSpace(reasoning) == "" {
		return nil, &ValidationError{
			FindingID: findingID,
			Field:     "reasoning",
			Message:   fmt.Sprintf("reasoning is required for %s decisions", action),
		}
	}

	_, replaced := l.decisions[findingID]

	decision := &types.Decision{
		FindingID: findingID,
		Action:    action,
		Reasoning: strings.TrimSpace(reasoning),
		Actor:     actor,
		DecidedAt: l.clock(),
	}
	l.decisions[findingID] = decision

	l.audit = append(l.audit, AuditEvent{
		ID:        uuid.New().String(),
		FindingID: findingID,
		Action:    action,
		Reasoning: decision.Reasoning,
		Actor:     actor,
		Replaced:  replaced,
		Timestamp: decision.DecidedAt,
	})

	l.applySideEffects(f, action)

	return decision, nil
}

// applySideEffects handles the accept/block side effects: appending approved
// evidence to the working text and nudging the compliance score.
func (l *Ledger) applySideEffects(f *types.Finding, action types.DecisionAction) {
	switch action {
	case types.ActionAccepted:
		for _, ev := range f.Evidence {
			ev = strings.TrimSpace(ev)
			if ev == "" || strings.Contains(l.workingText, ev) {
				continue
			}
			if l.workingText != "" {
				l.workingText += "\n"
			}
			l.workingText += ev
		}
		l.score = clampScore(l.score + acceptNudge)
	case types.ActionBlocking:
		l.score = clampScore(l.score - blockNudge)
	}
}

func clampScore(s int) int {
	if s < MinScore {
		return MinScore
	}
	if s > MaxScore {
		return MaxScore
	}
	return s
}

// CanApprove reports whether the content unit may reach the approved state:
// no MUST_CHANGE finding is undecided, no decision is blocking, and no
// critical-risk finding is present.
//
// A false result is the designed negative outcome of the gate, not an error.
// Use ApprovalBlockers to explain it to the reviewer.
func (l *Ledger) CanApprove() bool {
	return len(l.ApprovalBlockers()) == 0
}

// ApprovalBlockers returns every reason the content unit cannot be approved,
// in finding order, so callers can present the full gap rather than the first.
func (l *Ledger) ApprovalBlockers() []Blocker {
	var blockers []Blocker

	for _, f := range l.findings {
		if f == nil {
			continue
		}
		decision := l.decisions[f.ID]

		if f.Category == types.CategoryMustChange && decision == nil {
			blockers = append(blockers, Blocker{
				Kind:      BlockerUndecided,
				FindingID: f.ID,
				Detail:    fmt.Sprintf("MUST_CHANGE finding %q has no decision", f.Name),
			})
		}

		if decision != nil && decision.Action == types.ActionBlocking {
			blockers = append(blockers, Blocker{
				Kind:      BlockerBlockingDecision,
				FindingID: f.ID,
				Detail:    fmt.Sprintf("finding %q was decided blocking", f.Name),
			})
		}

		if f.RiskLevel == types.RiskCritical {
			blockers = append(blockers, Blocker{
				Kind:      BlockerCriticalRisk,
				FindingID: f.ID,
				Detail:    fmt.Sprintf("finding %q carries critical risk", f.Name),
			})
		}
	}

	return blockers
}

// Undecided returns the findings that have no decision yet, in finding order
func (l *Ledger) Undecided() []*types.Finding {
	var out []*types.Finding
	for _, f := range l.findings {
		if f != nil && l.decisions[f.ID] == nil {
			out = append(out, f)
		}
	}
	return out
}
