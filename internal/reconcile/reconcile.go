package reconcile

import (
	"strings"

	"github.com/promopilot/mlr/internal/similarity"
	"github.com/promopilot/mlr/internal/types"
)

// DefaultCandidateThreshold is the edit-distance similarity above which two
// AI-proposed rule candidates are treated as duplicates. The value is carried
// over from the production rule-candidate pipeline; changing it silently
// changes which candidates reviewers see, so callers that need a different
// threshold must pass one explicitly.
const DefaultCandidateThreshold = 0.70

// Stats summarizes one reconciliation pass
type Stats struct {
	// MatrixIn is the number of rule-matrix findings received
	MatrixIn int `json:"matrix_in"`
	// AIIn is the number of AI findings received
	AIIn int `json:"ai_in"`
	// Survivors is the number of findings in the output
	Survivors int `json:"survivors"`
	// Merges is the number of incoming findings absorbed into a survivor
	Merges int `json:"merges"`
}

// Result holds the survivors of one reconciliation pass plus its statistics
type Result struct {
	Findings []*types.Finding `json:"findings"`
	Stats    Stats            `json:"stats"`
}

// Reconcile merges rule-matrix findings and AI findings into one finding set,
// collapsing duplicates by normalized dedupe key.
//
// Both sources are processed as a single ordered stream: matrix first, then
// AI, preserving source order within each. The first finding seen for a key
// survives; later findings with the same key merge their rationale into the
// survivor (separated by "; ") instead of creating a second entry. Output
// preserves first-seen order, so the pass is deterministic and idempotent:
// reconciling its own output changes nothing.
//
// Either slice may be nil or empty; an unavailable source degrades to fewer
// findings, never to an error.
func Reconcile(matrixFindings, aiFindings []*types.Finding) []*types.Finding {
	return ReconcileWithStats(matrixFindings, aiFindings).Findings
}

// ReconcileWithStats is Reconcile plus pass statistics for logging and display.
func ReconcileWithStats(matrixFindings, aiFindings []*types.Finding) *Result {
	result := &Result{
		Findings: make([]*types.Finding, 0, len(matrixFindings)+len(aiFindings)),
		Stats: Stats{
			MatrixIn: len(matrixFindings),
			AIIn:     len(aiFindings),
		},
	}

	seen := make(map[string]*types.Finding)

	absorb := func(incoming *types.Finding) {
		if incoming == nil {
			return
		}
		key := incoming.DedupeKey()

		survivor, ok := seen[key]
		if !ok {
			// First sighting of this key: survives as-is, in order.
			// Copy so rationale merges never mutate the caller's slice.
			kept := *incoming
			seen[key] = &kept
			result.Findings = append(result.Findings, &kept)
			return
		}

		result.Stats.Merges++
		mergeRationale(survivor, incoming.Rationale)
		if survivor.Source != incoming.Source {
			survivor.Source = types.SourceMerged
		}
	}

	// Matrix findings first so the rule matrix wins default merge order
	for _, f := range matrixFindings {
		absorb(f)
	}
	for _, f := range aiFindings {
		absorb(f)
	}

	result.Stats.Survivors = len(result.Findings)
	return result
}

// mergeRationale appends incoming rationale to the survivor's, separated by
// "; ", skipping empty and already-present text.
func mergeRationale(survivor *types.Finding, rationale string) {
	rationale = strings.TrimSpace(rationale)
	if rationale == "" {
		return
	}
	if strings.Contains(survivor.Rationale, rationale) {
		return
	}
	if survivor.Rationale == "" {
		survivor.Rationale = rationale
		return
	}
	survivor.Rationale = survivor.Rationale + "; " + rationale
}

// ReconcileCandidates collapses AI-proposed rule candidates whose descriptions
// are near-duplicates under edit-distance similarity.
//
// Unlike Reconcile, the equality test here is fuzzy: a candidate is a
// duplicate of an already-accepted candidate when the similarity of their
// descriptions exceeds threshold. Each candidate linear-scans the accepted
// list and merges its rationale into the first match; candidates with no
// match are accepted in order. Quadratic in the candidate count, which stays
// in the tens for a single content unit's analysis pass.
//
// Pass threshold <= 0 to use DefaultCandidateThreshold.
func ReconcileCandidates(candidates []*types.Finding, threshold float64) []*types.Finding {
	cfg := DefaultConfig()
	if threshold > 0 {
		cfg.CandidateThreshold = threshold
	}
	return ReconcileCandidatesWithConfig(candidates, cfg)
}

// ReconcileCandidatesWithConfig is ReconcileCandidates honoring a full Config:
// cfg.CandidateThreshold sets the merge bar, and cfg.MaxCandidates bounds the
// quadratic scan. Candidates beyond the cap skip the fuzzy comparison and are
// kept as-is, so an oversized pass degrades to possible near-duplicates,
// never to dropped findings. An invalid config falls back to DefaultConfig.
func ReconcileCandidatesWithConfig(candidates []*types.Finding, cfg Config) []*types.Finding {
	if err := cfg.Validate(); err != nil {
		cfg = DefaultConfig()
	}

	accepted := make([]*types.Finding, 0, len(candidates))
	scanned := 0

	for _, candidate := range candidates {
		if candidate == nil {
			continue
		}

		if scanned >= cfg.MaxCandidates {
			kept := *candidate
			accepted = append(accepted, &kept)
			continue
		}
		scanned++

		var match *types.Finding
		for _, existing := range accepted {
			if similarity.EditDistance(existing.Description, candidate.Description) > cfg.CandidateThreshold {
				match = existing
				break
			}
		}

		if match != nil {
			mergeRationale(match, candidate.Rationale)
			continue
		}

		kept := *candidate
		accepted = append(accepted, &kept)
	}

	return accepted
}
