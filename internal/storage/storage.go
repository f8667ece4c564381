// Package storage defines the persistence interface for historical review
// decisions. The store is append-only precedent data: the review core only
// reads and ranks it, and records new outcomes as reviewers decide.
package storage

import (
	"context"

	"github.com/promopilot/mlr/internal/types"
)

// Storage defines the interface for historical decision storage backends
type Storage interface {
	// RecordDecision appends one review outcome to the brand's history
	RecordDecision(ctx context.Context, rec *types.HistoricalDecisionRecord) error

	// QueryByBrand returns up to limit of the brand's most recent review
	// outcomes, newest first. Ranking against current content is the memory
	// matcher's job, not the store's.
	QueryByBrand(ctx context.Context, brandID string, limit int) ([]*types.HistoricalDecisionRecord, error)

	// Close releases the backend's resources
	Close() error
}
