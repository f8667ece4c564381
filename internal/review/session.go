// Package review orchestrates one content unit's pass through the compliance
// core: gather findings from both sources, reconcile them, seed the decision
// ledger, rank historical precedents, and resolve citation markers.
//
// The session owns no I/O of its own; the finding sources, historical store,
// and claims catalog are injected by the caller. Everything downstream of the
// gather step is synchronous and deterministic.
package review

import (
	"context"
	"fmt"
	"strings"

	"github.com/promopilot/mlr/internal/citations"
	"github.com/promopilot/mlr/internal/ledger"
	"github.com/promopilot/mlr/internal/memory"
	"github.com/promopilot/mlr/internal/reconcile"
	"github.com/promopilot/mlr/internal/sources"
	"github.com/promopilot/mlr/internal/storage"
	"github.com/promopilot/mlr/internal/types"
)

// Config holds the collaborators for one review session
type Config struct {
	Asset   sources.AssetContext
	Content string

	Matrix sources.MatrixSource // Finding source; may be nil
	AI     sources.AISource     // Finding source; may be nil
	Store  storage.Storage      // Historical decisions; may be nil
	Claims citations.Catalog    // Claims library; may be nil

	// PrecedentLimit caps how many historical records are fetched for
	// ranking (default 100); PrecedentThreshold is the minimum similarity
	// (default memory.DefaultThreshold)
	PrecedentLimit     int
	PrecedentThreshold int

	// Actor is recorded on decisions and audit events
	Actor string
}

// Session is one content unit's review state
type Session struct {
	cfg    Config
	ledger *ledger.Ledger

	gather      *sources.GatherResult
	stats       reconcile.Stats
	suggestions []*memory.Match
	citations   *citations.Result
}

// NewSession creates a review session for one content unit
func NewSession(cfg Config) (*Session, error) {
	if cfg.Asset.UnitID == "" {
		return nil, fmt.Errorf("asset unit_id is required")
	}
	if strings.TrimSpace(cfg.Content) == "" {
		return nil, fmt.Errorf("content is required")
	}
	if cfg.PrecedentLimit <= 0 {
		cfg.PrecedentLimit = 100
	}
	if cfg.PrecedentThreshold <= 0 {
		cfg.PrecedentThreshold = memory.DefaultThreshold
	}
	return &Session{cfg: cfg}, nil
}

// Run executes the analysis pipeline: concurrent gather, reconciliation,
// ledger seeding, precedent ranking, and citation resolution.
//
// Source outages degrade to fewer findings (reported via Degraded), and a
// missing store or claims library just skips that stage; Run fails only on
// hard store errors.
func (s *Session) Run(ctx context.Context) error {
	s.gather = sources.Gather(ctx, s.cfg.Matrix, s.cfg.AI, s.cfg.Content, s.cfg.Asset)

	result := reconcile.ReconcileWithStats(s.gather.Matrix, s.gather.AI)
	s.stats = result.Stats

	s.ledger = ledger.New(s.cfg.Asset.UnitID, result.Findings, s.cfg.Content)

	if s.cfg.Store != nil && s.cfg.Asset.BrandID != "" {
		pool, err := s.cfg.Store.QueryByBrand(ctx, s.cfg.Asset.BrandID, s.cfg.PrecedentLimit)
		if err != nil {
			return fmt.Errorf("querying decision history: %w", err)
		}
		s.suggestions = memory.FindRelevant(s.cfg.Content, pool, s.cfg.PrecedentThreshold)
	}

	if s.cfg.Claims != nil {
		s.citations = citations.Resolve(s.cfg.Content, s.cfg.Claims)
	}

	return nil
}

// Ledger returns the content unit's decision ledger. Nil before Run.
func (s *Session) Ledger() *ledger.Ledger {
	return s.ledger
}

// Findings returns the reconciled findings under review. Nil before Run.
func (s *Session) Findings() []*types.Finding {
	if s.ledger == nil {
		return nil
	}
	return s.ledger.Findings()
}

// Degraded lists finding sources that were unavailable during Run
func (s *Session) Degraded() []string {
	if s.gather == nil {
		return nil
	}
	return s.gather.Degraded
}

// Stats returns the reconciliation statistics from Run
func (s *Session) Stats() reconcile.Stats {
	return s.stats
}

// Suggestions returns ranked historical precedents for the content
func (s *Session) Suggestions() []*memory.Match {
	return s.suggestions
}

// Citations returns the citation resolution result, or nil when no claims
// library was configured
func (s *Session) Citations() *citations.Result {
	return s.citations
}

// Decide records a reviewer decision on the ledger and, when a store is
// configured and the decision sticks, appends the outcome to the brand's
// decision history so future reviews can surface it as precedent.
func (s *Session) Decide(ctx context.Context, findingID string, action types.DecisionAction, reasoning string) (*types.Decision, *ledger.ValidationError, error) {
	if s.ledger == nil {
		return nil, nil, fmt.Errorf("session has not run")
	}

	decision, verr := s.ledger.Decide(findingID, action, reasoning, s.cfg.Actor)
	if verr != nil {
		return nil, verr, nil
	}

	if s.cfg.Store != nil && s.cfg.Asset.BrandID != "" {
		var f *types.Finding
		for _, candidate := range s.ledger.Findings() {
			if candidate != nil && candidate.ID == findingID {
				f = candidate
				break
			}
		}
		rec := &types.HistoricalDecisionRecord{
			BrandID:      s.cfg.Asset.BrandID,
			OriginalText: f.Description,
			Category:     f.Category,
			Severity:     f.RiskLevel,
			Outcome:      action,
			Reviewer:     s.cfg.Actor,
			ReviewedAt:   decision.DecidedAt,
		}
		if rec.OriginalText == "" {
			rec.OriginalText = f.Name
		}
		if len(f.Evidence) > 0 {
			rec.SuggestedText = f.Evidence[0]
		}
		if err := s.cfg.Store.RecordDecision(ctx, rec); err != nil {
			return decision, nil, fmt.Errorf("recording decision history: %w", err)
		}
	}

	return decision, nil, nil
}

// CanApprove reports whether the content unit passes the approval gate
func (s *Session) CanApprove() bool {
	return s.ledger != nil && s.ledger.CanApprove()
}

// ApprovalBlockers explains a failing approval gate
func (s *Session) ApprovalBlockers() []ledger.Blocker {
	if s.ledger == nil {
		return nil
	}
	return s.ledger.ApprovalBlockers()
}
