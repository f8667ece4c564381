package sources

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAnalyzer(t *testing.T) *Analyzer {
	t.Helper()
	cfg := DefaultAnalyzerConfig()
	cfg.APIKey = "test-key"
	a, err := NewAnalyzer(cfg)
	require.NoError(t, err)
	return a
}

func TestNewAnalyzerDedupConfigFromEnv(t *testing.T) {
	t.Setenv("MLR_DEDUP_THRESHOLD", "0.85")
	t.Setenv("MLR_DEDUP_MAX_CANDIDATES", "10")

	a := newTestAnalyzer(t)

	assert.Equal(t, 0.85, a.dedup.CandidateThreshold)
	assert.Equal(t, 10, a.dedup.MaxCandidates)
}

func TestNewAnalyzerRejectsInvalidDedupEnv(t *testing.T) {
	t.Setenv("MLR_DEDUP_THRESHOLD", "1.5")

	cfg := DefaultAnalyzerConfig()
	cfg.APIKey = "test-key"
	_, err := NewAnalyzer(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dedup config")
}

func TestParseFindingsCollapsesNearDuplicates(t *testing.T) {
	t.Setenv("MLR_DEDUP_THRESHOLD", "")
	t.Setenv("MLR_DEDUP_MAX_CANDIDATES", "")
	a := newTestAnalyzer(t)

	response := `{"findings": [
		{"name": "Superiority Claim", "description": "Avoid unsubstantiated superiority claims", "rationale": "no head-to-head data", "category": "MUST_CHANGE", "risk_level": "high"},
		{"name": "Superiority Claim", "description": "Avoid unsubstantiated superiority claim", "rationale": "claim lacks support", "category": "MUST_CHANGE", "risk_level": "high"},
		{"name": "Fair Balance", "description": "Include fair balance statement", "rationale": "risk info missing", "category": "MUST_CHANGE", "risk_level": "high"}
	]}`

	findings, err := a.parseFindings(response)
	require.NoError(t, err)

	require.Len(t, findings, 2, "near-duplicate model proposals must collapse")
	assert.Equal(t, "Avoid unsubstantiated superiority claims", findings[0].Description)
	assert.Equal(t, "no head-to-head data; claim lacks support", findings[0].Rationale)
	assert.Equal(t, "Include fair balance statement", findings[1].Description)
}

func TestParseFindingsNormalizesUnknownEnums(t *testing.T) {
	t.Setenv("MLR_DEDUP_THRESHOLD", "")
	a := newTestAnalyzer(t)

	response := `{"findings": [
		{"name": "Odd", "description": "Something odd", "category": "NICE_TO_HAVE", "risk_level": "severe"}
	]}`

	findings, err := a.parseFindings(response)
	require.NoError(t, err)
	require.Len(t, findings, 1)
	assert.Equal(t, "SHOULD_CHANGE", string(findings[0].Category))
	assert.Equal(t, "unknown", string(findings[0].RiskLevel))
}

func TestTruncateRuneBoundary(t *testing.T) {
	s := strings.Repeat("é", 10) // 2 bytes per rune

	got := truncate(s, 4)
	assert.Equal(t, "éééé...", got)
	assert.True(t, utf8.ValidString(got), "cut must land on a rune boundary")

	assert.Equal(t, "short", truncate("short", 10), "under the limit passes through")
	assert.Equal(t, "日本語...", truncate("日本語テキスト", 3))
}
