package citations

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promopilot/mlr/internal/types"
)

type mapCatalog map[string]*types.EvidenceItem

func (m mapCatalog) Lookup(canonicalID string) (*types.EvidenceItem, bool) {
	item, ok := m[canonicalID]
	return item, ok
}

func testCatalog() mapCatalog {
	return mapCatalog{
		"CML-0007": {CanonicalID: "CML-0007", Claim: "Fast relief", Reference: "Smith 2024"},
		"CML-0003": {CanonicalID: "CML-0003", Claim: "Well tolerated", Reference: "Jones 2023"},
	}
}

func TestResolveFirstSeenNumbering(t *testing.T) {
	content := "Works fast[CLAIM:CML-0007] and is well tolerated[CLAIM:CML-0003]. " +
		"Patients report fast relief[CLAIM:CML-0007]."

	result := Resolve(content, testCatalog())

	require.Len(t, result.CitationsUsed, 2, "same canonical id counted once")
	assert.Equal(t, "CML-0007", result.CitationsUsed[0].CanonicalID)
	assert.Equal(t, 1, result.CitationsUsed[0].Number)
	assert.Equal(t, "CML-0003", result.CitationsUsed[1].CanonicalID)
	assert.Equal(t, 2, result.CitationsUsed[1].Number)
	assert.Equal(t, "Smith 2024", result.CitationsUsed[0].Reference)

	assert.NotContains(t, result.Content, "[CLAIM:")
	// Both CML-0007 markers resolve to the same number
	assert.Equal(t, 2, strings.Count(result.Content, `data-claim-id="CML-0007" data-citation="1"`))
	assert.Equal(t, 1, strings.Count(result.Content, `data-claim-id="CML-0003" data-citation="2"`))
	assert.Empty(t, result.Unresolved)
}

func TestResolveUnresolvedMarkerLeftInPlace(t *testing.T) {
	content := "Known claim[CLAIM:CML-0007] and unknown claim[CLAIM:CML-9999]."

	result := Resolve(content, testCatalog())

	require.Len(t, result.CitationsUsed, 1, "resolvable marker still resolves")
	assert.Equal(t, "CML-0007", result.CitationsUsed[0].CanonicalID)

	assert.Contains(t, result.Content, "[CLAIM:CML-9999]", "unknown marker stays raw")
	require.Len(t, result.Unresolved, 1)
	assert.Equal(t, "CML-9999", result.Unresolved[0])
}

func TestResolveUnresolvedReportedOnce(t *testing.T) {
	content := "x[CLAIM:GONE] y[CLAIM:GONE] z[CLAIM:GONE]"

	result := Resolve(content, testCatalog())

	assert.Len(t, result.Unresolved, 1)
	assert.Equal(t, 3, strings.Count(result.Content, "[CLAIM:GONE]"))
}

func TestResolveIdempotent(t *testing.T) {
	content := "Fast[CLAIM:CML-0007], tolerated[CLAIM:CML-0003], fast again[CLAIM:CML-0007]."
	catalog := testCatalog()

	first := Resolve(content, catalog)
	second := Resolve(first.Content, catalog)

	assert.Equal(t, first.Content, second.Content, "resolving resolved content is a no-op")
	assert.Empty(t, second.CitationsUsed)
	assert.Empty(t, second.Unresolved)
}

func TestResolveNoMarkers(t *testing.T) {
	content := "Plain copy with no references at all."

	result := Resolve(content, testCatalog())

	assert.Equal(t, content, result.Content)
	assert.Empty(t, result.CitationsUsed)
	assert.Empty(t, result.Unresolved)
}

func TestResolveEmptyContent(t *testing.T) {
	result := Resolve("", testCatalog())
	assert.Equal(t, "", result.Content)
	assert.Empty(t, result.CitationsUsed)
}

func TestHasUnresolvedMarkers(t *testing.T) {
	assert.True(t, HasUnresolvedMarkers("text [CLAIM:CML-0001] more"))
	assert.False(t, HasUnresolvedMarkers("clean text"))
	assert.False(t, HasUnresolvedMarkers(`resolved <sup data-claim-id="CML-0001" data-citation="1">[1]</sup>`))
}
