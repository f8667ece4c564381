package evidence

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promopilot/mlr/internal/types"
)

func TestLoadCatalog(t *testing.T) {
	path := t.TempDir() + "/claims.yaml"
	content := `brand: brand-1
claims:
  - id: CML-0007
    claim: Fast relief within 30 minutes
    reference: Smith et al. 2024
    approved_use: HCP materials only
  - id: CML-0003
    claim: Well tolerated in adults
    reference: Jones et al. 2023
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	catalog, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "brand-1", catalog.BrandID)
	assert.Equal(t, 2, catalog.Len())

	item, ok := catalog.Lookup("CML-0007")
	require.True(t, ok)
	assert.Equal(t, "Fast relief within 30 minutes", item.Claim)
	assert.Equal(t, "Smith et al. 2024", item.Reference)

	_, ok = catalog.Lookup("CML-9999")
	assert.False(t, ok)

	items := catalog.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "CML-0007", items[0].CanonicalID, "library order preserved")
}

func TestNewCatalogRejectsDuplicates(t *testing.T) {
	_, err := NewCatalog("brand-1", []types.EvidenceItem{
		{CanonicalID: "CML-0001", Claim: "a"},
		{CanonicalID: "CML-0001", Claim: "b"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate canonical id")
}

func TestNewCatalogRejectsMissingID(t *testing.T) {
	_, err := NewCatalog("brand-1", []types.EvidenceItem{{Claim: "orphan"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no canonical id")
}

func TestLoadCatalogMissingFile(t *testing.T) {
	_, err := Load("/nonexistent/claims.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading claims library")
}
