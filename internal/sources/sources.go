// Package sources provides the two independent compliance finding sources —
// the brand rule matrix and the AI analyzer — and the concurrent gather step
// that feeds reconciliation.
//
// The algorithmic core downstream of this package is synchronous and pure;
// all network access and timeout policy lives here, at the integration point.
package sources

import (
	"context"
	"fmt"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/promopilot/mlr/internal/types"
)

// AssetContext describes the content unit being analyzed
type AssetContext struct {
	UnitID    string `json:"unit_id"`
	BrandID   string `json:"brand_id"`
	AssetType string `json:"asset_type"` // e.g. "email", "banner", "detail_aid"
	Audience  string `json:"audience"`   // e.g. "hcp", "patient"
}

// MatrixSource produces findings from the brand rule matrix
type MatrixSource interface {
	MatrixFindings(ctx context.Context, content string, asset AssetContext) ([]*types.Finding, error)
}

// AISource produces findings from the AI analyzer. Implementations may fail
// or return nothing; callers treat that as "no AI findings available", never
// as a reason to discard matrix findings.
type AISource interface {
	AIFindings(ctx context.Context, content string, asset AssetContext) ([]*types.Finding, error)
}

// GatherResult holds the raw output of both sources before reconciliation
type GatherResult struct {
	Matrix []*types.Finding `json:"matrix"`
	AI     []*types.Finding `json:"ai"`
	// Degraded lists sources that were unavailable this pass. Informational:
	// a degraded gather still succeeds with the findings it has.
	Degraded []string `json:"degraded,omitempty"`
}

// GatherTimeout bounds each source's share of one gather pass
const GatherTimeout = 90 * time.Second

// Gather runs both finding sources concurrently against the same content and
// waits for both. A source that errors, or a nil AI source, degrades to an
// empty contribution; Gather itself never fails. The caller hands the result
// straight to reconcile.Reconcile, which depends on Matrix/AI staying
// separate so matrix findings keep merge priority.
func Gather(ctx context.Context, matrix MatrixSource, ai AISource, content string, asset AssetContext) *GatherResult {
	result := &GatherResult{}

	gctx, cancel := context.WithTimeout(ctx, GatherTimeout)
	defer cancel()

	g, gctx := errgroup.WithContext(gctx)

	var matrixErr, aiErr error

	if matrix != nil {
		g.Go(func() error {
			findings, err := matrix.MatrixFindings(gctx, content, asset)
			if err != nil {
				matrixErr = err
				return nil // Degrade, don't fail the pass
			}
			result.Matrix = findings
			return nil
		})
	}

	if ai != nil {
		g.Go(func() error {
			findings, err := ai.AIFindings(gctx, content, asset)
			if err != nil {
				aiErr = err
				return nil
			}
			result.AI = findings
			return nil
		})
	}

	// Goroutines only record errors, so Wait cannot fail
	_ = g.Wait()

	if matrix == nil {
		result.Degraded = append(result.Degraded, "matrix: not configured")
	} else if matrixErr != nil {
		log.Printf("matrix source unavailable for unit %s: %v", asset.UnitID, matrixErr)
		result.Degraded = append(result.Degraded, fmt.Sprintf("matrix: %v", matrixErr))
	}

	if ai == nil {
		result.Degraded = append(result.Degraded, "ai: not configured")
	} else if aiErr != nil {
		log.Printf("ai source unavailable for unit %s: %v", asset.UnitID, aiErr)
		result.Degraded = append(result.Degraded, fmt.Sprintf("ai: %v", aiErr))
	}

	return result
}
