package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/promopilot/mlr/internal/types"
)

// SQLiteStorage implements the Storage interface using SQLite
type SQLiteStorage struct {
	db *sql.DB
}

// New creates a new SQLite storage backend. Pass ":memory:" for an
// in-process database (used by tests).
func New(path string) (*SQLiteStorage, error) {
	dsn := path
	if path != ":memory:" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
		// WAL mode for better concurrency between review sessions
		dsn = path + "?_journal_mode=WAL"
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteStorage{db: db}, nil
}

// RecordDecision appends one review outcome to the brand's history.
// A missing record id gets a generated one; a missing timestamp gets now.
func (s *SQLiteStorage) RecordDecision(ctx context.Context, rec *types.HistoricalDecisionRecord) error {
	if rec == nil {
		return fmt.Errorf("record is required")
	}
	if err := rec.Validate(); err != nil {
		return fmt.Errorf("invalid decision record: %w", err)
	}

	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.ReviewedAt.IsZero() {
		rec.ReviewedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO decision_history
			(id, brand_id, original_text, suggested_text, category, severity, outcome, reviewer, reviewed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.BrandID, rec.OriginalText, rec.SuggestedText,
		string(rec.Category), string(rec.Severity), string(rec.Outcome),
		rec.Reviewer, rec.ReviewedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record decision: %w", err)
	}

	return nil
}

// QueryByBrand returns up to limit of the brand's most recent outcomes,
// newest first. Limit <= 0 falls back to 100.
func (s *SQLiteStorage) QueryByBrand(ctx context.Context, brandID string, limit int) ([]*types.HistoricalDecisionRecord, error) {
	if brandID == "" {
		return nil, fmt.Errorf("brand_id is required")
	}
	if limit <= 0 {
		limit = 100
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, brand_id, original_text, suggested_text, category, severity, outcome, reviewer, reviewed_at
		FROM decision_history
		WHERE brand_id = ?
		ORDER BY reviewed_at DESC, id DESC
		LIMIT ?`,
		brandID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query decision history: %w", err)
	}
	defer rows.Close()

	var records []*types.HistoricalDecisionRecord
	for rows.Next() {
		var rec types.HistoricalDecisionRecord
		var category, severity, outcome string
		if err := rows.Scan(
			&rec.ID, &rec.BrandID, &rec.OriginalText, &rec.SuggestedText,
			&category, &severity, &outcome, &rec.Reviewer, &rec.ReviewedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan decision record: %w", err)
		}
		rec.Category = types.Category(category)
		rec.Severity = types.RiskLevel(severity)
		rec.Outcome = types.DecisionAction(outcome)
		records = append(records, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate decision history: %w", err)
	}

	return records, nil
}

// BrandSummary aggregates one brand's recorded outcomes.
type BrandSummary struct {
	BrandID  string                       `json:"brand_id"`
	Total    int                          `json:"total"`
	Outcomes map[types.DecisionAction]int `json:"outcomes"`
	LastAt   time.Time                    `json:"last_at"`
}

// Summary returns per-brand decision counts across the whole database,
// ordered by brand id.
func (s *SQLiteStorage) Summary(ctx context.Context) ([]*BrandSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT brand_id, outcome, reviewed_at
		FROM decision_history
		ORDER BY brand_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize decision history: %w", err)
	}
	defer rows.Close()

	var summaries []*BrandSummary
	byBrand := make(map[string]*BrandSummary)
	for rows.Next() {
		var brand, outcome string
		var reviewedAt time.Time
		if err := rows.Scan(&brand, &outcome, &reviewedAt); err != nil {
			return nil, fmt.Errorf("failed to scan summary row: %w", err)
		}
		sum, ok := byBrand[brand]
		if !ok {
			sum = &BrandSummary{BrandID: brand, Outcomes: make(map[types.DecisionAction]int)}
			byBrand[brand] = sum
			summaries = append(summaries, sum)
		}
		sum.Total++
		sum.Outcomes[types.DecisionAction(outcome)]++
		if reviewedAt.After(sum.LastAt) {
			sum.LastAt = reviewedAt
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate summary: %w", err)
	}

	return summaries, nil
}

// Close closes the underlying database
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}
