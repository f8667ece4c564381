// Package memory ranks past review decisions against the content currently
// being edited, so reviewers see how similar language was handled before.
//
// The matcher is pure and deterministic: similarity is recomputed from
// scratch on every query (never cached across different current-content
// values), absence of signal scores zero rather than being disguised as a
// weak match, and the ranking sort is stable so identical inputs always
// produce identical ordered output.
package memory

import (
	"sort"
	"strings"

	"github.com/promopilot/mlr/internal/similarity"
	"github.com/promopilot/mlr/internal/types"
)

// DefaultThreshold is the minimum token-overlap similarity (0-100) for a
// historical record to be surfaced as precedent.
const DefaultThreshold = 30

// Match pairs a historical record with its similarity to the current content.
// Similarity is derived per query and lives here rather than on the record so
// stale scores can never be mistaken for fresh ones.
type Match struct {
	Record     *types.HistoricalDecisionRecord `json:"record"`
	Similarity int                             `json:"similarity"`
}

// FindRelevant filters the pool to records whose original text token-overlaps
// the current text at or above threshold, ranked by similarity descending.
//
// Empty current text or a record with no original text scores 0. Ties keep
// their relative pool order (stable sort). Pass threshold <= 0 to use
// DefaultThreshold.
func FindRelevant(currentText string, pool []*types.HistoricalDecisionRecord, threshold int) []*Match {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}

	matches := make([]*Match, 0, len(pool))
	for _, record := range pool {
		if record == nil {
			continue
		}

		score := 0
		if strings.TrimSpace(currentText) != "" && strings.TrimSpace(record.OriginalText) != "" {
			score = similarity.TokenOverlap(record.OriginalText, currentText)
		}

		if score < threshold {
			continue
		}

		matches = append(matches, &Match{Record: record, Similarity: score})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Similarity > matches[j].Similarity
	})

	return matches
}
