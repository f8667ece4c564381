package sqlite

const schema = `
-- Historical review decisions, one row per recorded outcome
CREATE TABLE IF NOT EXISTS decision_history (
    id TEXT PRIMARY KEY,
    brand_id TEXT NOT NULL,
    original_text TEXT NOT NULL DEFAULT '',
    suggested_text TEXT NOT NULL DEFAULT '',
    category TEXT NOT NULL,
    severity TEXT NOT NULL,
    outcome TEXT NOT NULL,
    reviewer TEXT NOT NULL DEFAULT '',
    reviewed_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_decision_history_brand ON decision_history(brand_id);
CREATE INDEX IF NOT EXISTS idx_decision_history_reviewed_at ON decision_history(reviewed_at);
`
