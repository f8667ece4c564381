package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promopilot/mlr/internal/types"
)

func mustChange(id, name string) *types.Finding {
	return &types.Finding{
		ID:        id,
		Name:      name,
		Category:  types.CategoryMustChange,
		RiskLevel: types.RiskHigh,
		Source:    types.SourceMatrix,
	}
}

func shouldChange(id, name string) *types.Finding {
	return &types.Finding{
		ID:        id,
		Name:      name,
		Category:  types.CategoryShouldChange,
		RiskLevel: types.RiskLow,
		Source:    types.SourceAI,
	}
}

func TestApprovalGateUndecidedMustChange(t *testing.T) {
	l := New("unit-1", []*types.Finding{mustChange("f-1", "Superiority Claim")}, "body text")

	assert.False(t, l.CanApprove(), "undecided MUST_CHANGE finding must block approval")

	blockers := l.ApprovalBlockers()
	require.Len(t, blockers, 1)
	assert.Equal(t, BlockerUndecided, blockers[0].Kind)
	assert.Equal(t, "f-1", blockers[0].FindingID)

	_, verr := l.Decide("f-1", types.ActionAccepted, "", "reviewer@co")
	require.Nil(t, verr)
	assert.True(t, l.CanApprove(), "accepted decision should clear the gate")
}

func TestApprovalGateBlockingDecision(t *testing.T) {
	l := New("unit-1", []*types.Finding{shouldChange("f-1", "Tone Issue")}, "")

	assert.True(t, l.CanApprove(), "advisory finding alone should not block")

	_, verr := l.Decide("f-1", types.ActionBlocking, "", "reviewer@co")
	require.Nil(t, verr)
	assert.False(t, l.CanApprove())

	blockers := l.ApprovalBlockers()
	require.Len(t, blockers, 1)
	assert.Equal(t, BlockerBlockingDecision, blockers[0].Kind)
}

func TestApprovalGateCriticalRisk(t *testing.T) {
	critical := &types.Finding{
		ID:        "f-1",
		Name:      "Off-label use",
		Category:  types.CategoryShouldChange,
		RiskLevel: types.RiskCritical,
		Source:    types.SourceAI,
	}
	l := New("unit-1", []*types.Finding{critical}, "")

	_, verr := l.Decide("f-1", types.ActionAcknowledged, "", "reviewer@co")
	require.Nil(t, verr)

	assert.False(t, l.CanApprove(), "critical risk blocks approval regardless of decision")
	blockers := l.ApprovalBlockers()
	require.Len(t, blockers, 1)
	assert.Equal(t, BlockerCriticalRisk, blockers[0].Kind)
}

func TestDecideReasoningValidation(t *testing.T) {
	gated := []types.DecisionAction{
		types.ActionMLRException,
		types.ActionDeferred,
		types.ActionRiskAccepted,
	}

	for _, action := range gated {
		t.Run(string(action), func(t *testing.T) {
			l := New("unit-1", []*types.Finding{mustChange("f-1", "Claim")}, "")

			decision, verr := l.Decide("f-1", action, "   ", "reviewer@co")
			assert.Nil(t, decision)
			require.NotNil(t, verr)
			assert.Equal(t, "reasoning", verr.Field)
			assert.Nil(t, l.Decision("f-1"), "rejected transition must not create a decision")
			assert.Empty(t, l.AuditLog(), "rejected transition must not be audited")

			decision, verr = l.Decide("f-1", action, "discussed with medical affairs", "reviewer@co")
			require.Nil(t, verr)
			require.NotNil(t, decision)
			assert.Equal(t, action, decision.Action)
		})
	}
}

func TestDecideRejectsUnknownActionAndFinding(t *testing.T) {
	l := New("unit-1", []*types.Finding{mustChange("f-1", "Claim")}, "")

	_, verr := l.Decide("f-1", types.DecisionAction("approved!!"), "", "r")
	require.NotNil(t, verr)
	assert.Equal(t, "action", verr.Field)

	_, verr = l.Decide("f-404", types.ActionAccepted, "", "r")
	require.NotNil(t, verr)
	assert.Equal(t, "finding_id", verr.Field)
}

func TestRedecideReplacesDecisionKeepsAudit(t *testing.T) {
	l := New("unit-1", []*types.Finding{mustChange("f-1", "Claim")}, "")

	_, verr := l.Decide("f-1", types.ActionBlocking, "", "alice")
	require.Nil(t, verr)
	assert.False(t, l.CanApprove())

	// Direct blocking -> accepted transition, no intermediate undecided step
	_, verr = l.Decide("f-1", types.ActionAccepted, "", "bob")
	require.Nil(t, verr)
	assert.True(t, l.CanApprove())

	assert.Equal(t, types.ActionAccepted, l.Decision("f-1").Action, "only latest decision gates")

	audit := l.AuditLog()
	require.Len(t, audit, 2, "audit log keeps every decision event")
	assert.Equal(t, types.ActionBlocking, audit[0].Action)
	assert.False(t, audit[0].Replaced)
	assert.Equal(t, types.ActionAccepted, audit[1].Action)
	assert.True(t, audit[1].Replaced)
	assert.NotEqual(t, audit[0].ID, audit[1].ID)
}

func TestAcceptAppendsEvidence(t *testing.T) {
	f := mustChange("f-1", "Missing fair balance")
	f.Evidence = []string{"Individual results may vary."}
	l := New("unit-1", []*types.Finding{f}, "Product X works fast.")

	_, verr := l.Decide("f-1", types.ActionAccepted, "", "reviewer@co")
	require.Nil(t, verr)

	assert.Equal(t, "Product X works fast.\nIndividual results may vary.", l.WorkingText())

	// Re-accepting must not append the same evidence twice
	_, verr = l.Decide("f-1", types.ActionAccepted, "", "reviewer@co")
	require.Nil(t, verr)
	assert.Equal(t, "Product X works fast.\nIndividual results may vary.", l.WorkingText())
}

func TestScoreNudgesSaturate(t *testing.T) {
	findings := make([]*types.Finding, 0, 15)
	for i := 0; i < 15; i++ {
		findings = append(findings, shouldChange(
			string(rune('a'+i))+"-finding", "Finding"))
	}
	l := New("unit-1", findings, "")

	assert.Equal(t, MaxScore, l.Score())

	// Accepts at the ceiling stay at the ceiling
	_, verr := l.Decide(findings[0].ID, types.ActionAccepted, "", "r")
	require.Nil(t, verr)
	assert.Equal(t, MaxScore, l.Score())

	// Enough blocking decisions drive the score to the floor, never below
	for _, f := range findings {
		l.Decide(f.ID, types.ActionBlocking, "", "r")
	}
	assert.Equal(t, MinScore, l.Score())

	// And it comes back up bounded
	l.Decide(findings[0].ID, types.ActionAccepted, "", "r")
	assert.Equal(t, MinScore+5, l.Score())
}

func TestUndecided(t *testing.T) {
	l := New("unit-1", []*types.Finding{
		mustChange("f-1", "A"),
		mustChange("f-2", "B"),
	}, "")

	l.Decide("f-1", types.ActionAcknowledged, "", "r")

	undecided := l.Undecided()
	require.Len(t, undecided, 1)
	assert.Equal(t, "f-2", undecided[0].ID)
}

func TestDecideTimestamps(t *testing.T) {
	l := New("unit-1", []*types.Finding{mustChange("f-1", "Claim")}, "")
	fixed := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	l.clock = func() time.Time { return fixed }

	decision, verr := l.Decide("f-1", types.ActionAccepted, "", "r")
	require.Nil(t, verr)
	assert.Equal(t, fixed, decision.DecidedAt)
	assert.Equal(t, fixed, l.AuditLog()[0].Timestamp)
}

func TestLedgersAreIndependent(t *testing.T) {
	a := New("unit-a", []*types.Finding{mustChange("f-1", "Claim")}, "")
	b := New("unit-b", []*types.Finding{mustChange("f-1", "Claim")}, "")

	a.Decide("f-1", types.ActionBlocking, "", "r")

	assert.False(t, a.CanApprove())
	assert.Nil(t, b.Decision("f-1"), "decisions must not leak across content units")
}
