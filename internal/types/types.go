package types

import (
	"fmt"
	"strings"
	"time"
)

// Finding represents a single detected compliance issue against a piece of
// promotional content. Findings come from two independent sources (the brand
// rule matrix and the AI analyzer) and are reconciled before review.
type Finding struct {
	ID          string    `json:"id"`          // Stable identity used for decision lookup
	Name        string    `json:"name"`        // Short label, e.g. "Superiority Claim"
	Description string    `json:"description"` // What the problem is
	Rationale   string    `json:"rationale"`   // Why it was flagged; merges accumulate here
	Category    Category  `json:"category"`
	RiskLevel   RiskLevel `json:"risk_level"`
	Evidence    []string  `json:"evidence,omitempty"` // Pre-approved replacement text, if any
	Source      Source    `json:"source"`
}

// Validate checks if the finding has valid field values
func (f *Finding) Validate() error {
	if f.ID == "" {
		return fmt.Errorf("finding id is required")
	}
	if strings.TrimSpace(f.Name) == "" && strings.TrimSpace(f.Description) == "" {
		return fmt.Errorf("finding %s must have a name or description", f.ID)
	}
	if !f.Category.IsValid() {
		return fmt.Errorf("invalid category: %s", f.Category)
	}
	if !f.RiskLevel.IsValid() {
		return fmt.Errorf("invalid risk level: %s", f.RiskLevel)
	}
	return nil
}

// DedupeKey returns the normalized text used to group near-identical findings.
// The description wins when present; the name is the fallback. This key is for
// similarity grouping only and is distinct from the finding's identity.
func (f *Finding) DedupeKey() string {
	text := f.Description
	if strings.TrimSpace(text) == "" {
		text = f.Name
	}
	return strings.ToLower(strings.TrimSpace(text))
}

// Category classifies how binding a finding is on the content author
type Category string

const (
	// CategoryMustChange findings block approval until decided
	CategoryMustChange Category = "MUST_CHANGE"
	// CategoryCannotChange marks locked content (e.g. ISI text) that authors may not edit
	CategoryCannotChange Category = "CANNOT_CHANGE"
	// CategoryShouldChange findings are advisory
	CategoryShouldChange Category = "SHOULD_CHANGE"
)

// IsValid checks if the category value is valid
func (c Category) IsValid() bool {
	switch c {
	case CategoryMustChange, CategoryCannotChange, CategoryShouldChange:
		return true
	}
	return false
}

// RiskLevel grades the regulatory exposure of a finding
type RiskLevel string

const (
	RiskCritical RiskLevel = "critical"
	RiskHigh     RiskLevel = "high"
	RiskMedium   RiskLevel = "medium"
	RiskLow      RiskLevel = "low"
	RiskUnknown  RiskLevel = "unknown"
)

// IsValid checks if the risk level value is valid
func (r RiskLevel) IsValid() bool {
	switch r {
	case RiskCritical, RiskHigh, RiskMedium, RiskLow, RiskUnknown:
		return true
	}
	return false
}

// Source identifies which analyzer produced a finding
type Source string

const (
	// SourceMatrix findings come from the brand rule matrix
	SourceMatrix Source = "matrix"
	// SourceAI findings come from the AI analyzer
	SourceAI Source = "ai"
	// SourceMerged marks a survivor that absorbed findings from both sources
	SourceMerged Source = "merged"
)

// IsValid checks if the source value is valid
func (s Source) IsValid() bool {
	switch s {
	case SourceMatrix, SourceAI, SourceMerged:
		return true
	}
	return false
}

// DecisionAction is the reviewer's disposition of one finding
type DecisionAction string

const (
	// ActionAccepted applies the finding's pre-approved evidence, if any
	ActionAccepted DecisionAction = "accepted"
	// ActionMLRException records a medical/legal/regulatory exception; requires reasoning
	ActionMLRException DecisionAction = "mlr_exception"
	// ActionBlocking blocks approval of the content unit
	ActionBlocking DecisionAction = "blocking"
	// ActionDeferred punts the finding to a later review round; requires reasoning
	ActionDeferred DecisionAction = "deferred"
	// ActionRiskAccepted acknowledges the risk without changing content; requires reasoning
	ActionRiskAccepted DecisionAction = "risk_accepted"
	// ActionAcknowledged records that the reviewer saw the finding
	ActionAcknowledged DecisionAction = "acknowledged"
)

// IsValid checks if the decision action value is valid
func (a DecisionAction) IsValid() bool {
	switch a {
	case ActionAccepted, ActionMLRException, ActionBlocking,
		ActionDeferred, ActionRiskAccepted, ActionAcknowledged:
		return true
	}
	return false
}

// RequiresReasoning reports whether the action needs non-empty reviewer
// reasoning. Exception-style outcomes carry an audit trail of why the
// reviewer allowed them.
func (a DecisionAction) RequiresReasoning() bool {
	switch a {
	case ActionMLRException, ActionDeferred, ActionRiskAccepted:
		return true
	}
	return false
}

// Decision records a reviewer's disposition of one finding within one content
// unit. Re-deciding the same finding replaces the prior decision; the audit
// log keeps the full event history.
type Decision struct {
	FindingID string         `json:"finding_id"`
	Action    DecisionAction `json:"action"`
	Reasoning string         `json:"reasoning,omitempty"`
	Actor     string         `json:"actor,omitempty"`
	DecidedAt time.Time      `json:"decided_at"`
}

// Validate checks if the decision has valid field values
func (d *Decision) Validate() error {
	if d.FindingID == "" {
		return fmt.Errorf("finding_id is required")
	}
	if !d.Action.IsValid() {
		return fmt.Errorf("invalid action: %s", d.Action)
	}
	if d.Action.RequiresReasoning() && strings.TrimSpace(d.Reasoning) == "" {
		return fmt.Errorf("reasoning is required for %s decisions", d.Action)
	}
	return nil
}

// HistoricalDecisionRecord is a past review outcome used as precedent when
// surfacing suggestions to reviewers. The store is append-only; this core
// only reads it and ranks it against the content currently being edited.
type HistoricalDecisionRecord struct {
	ID            string         `json:"id"`
	BrandID       string         `json:"brand_id"`
	OriginalText  string         `json:"original_text"`
	SuggestedText string         `json:"suggested_text,omitempty"`
	Category      Category       `json:"category"`
	Severity      RiskLevel      `json:"severity"`
	Outcome       DecisionAction `json:"outcome"`
	Reviewer      string         `json:"reviewer,omitempty"`
	ReviewedAt    time.Time      `json:"reviewed_at"`
}

// Validate checks if the historical record has valid field values
func (h *HistoricalDecisionRecord) Validate() error {
	if h.BrandID == "" {
		return fmt.Errorf("brand_id is required")
	}
	if !h.Category.IsValid() {
		return fmt.Errorf("invalid category: %s", h.Category)
	}
	if !h.Severity.IsValid() {
		return fmt.Errorf("invalid severity: %s", h.Severity)
	}
	if !h.Outcome.IsValid() {
		return fmt.Errorf("invalid outcome: %s", h.Outcome)
	}
	return nil
}

// EvidenceItem is one entry in the pre-approved claims library, referenced by
// canonical id from inline citation markers in generated content.
type EvidenceItem struct {
	CanonicalID string `json:"canonical_id" yaml:"id"`
	Claim       string `json:"claim" yaml:"claim"`
	Reference   string `json:"reference,omitempty" yaml:"reference,omitempty"`
	ApprovedUse string `json:"approved_use,omitempty" yaml:"approved_use,omitempty"`
}

// CitationUse is one resolved reference inside generated content. Markers
// sharing a canonical id share a citation number; numbers are assigned in
// first-seen order starting at 1.
type CitationUse struct {
	CanonicalID string `json:"canonical_id"`
	Marker      string `json:"marker"`
	Number      int    `json:"number"`
	Reference   string `json:"reference,omitempty"`
}
