// Package evidence loads the brand's pre-approved claims library and serves
// lookups by canonical id for citation resolution.
package evidence

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/promopilot/mlr/internal/types"
)

// Catalog is an in-memory claims library keyed by canonical id
type Catalog struct {
	BrandID string
	items   map[string]*types.EvidenceItem
	order   []string
}

// libraryFile is the YAML shape of a claims library file
type libraryFile struct {
	Brand  string               `yaml:"brand"`
	Claims []types.EvidenceItem `yaml:"claims"`
}

// Load reads a claims library from a YAML file
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading claims library: %w", err)
	}

	var file libraryFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing claims library YAML: %w", err)
	}

	return NewCatalog(file.Brand, file.Claims)
}

// NewCatalog builds a catalog from already-loaded items
func NewCatalog(brandID string, items []types.EvidenceItem) (*Catalog, error) {
	c := &Catalog{
		BrandID: brandID,
		items:   make(map[string]*types.EvidenceItem, len(items)),
	}

	for i := range items {
		item := items[i]
		id := strings.TrimSpace(item.CanonicalID)
		if id == "" {
			return nil, fmt.Errorf("claims library entry %d has no canonical id", i)
		}
		if _, exists := c.items[id]; exists {
			return nil, fmt.Errorf("duplicate canonical id %s in claims library", id)
		}
		item.CanonicalID = id
		c.items[id] = &item
		c.order = append(c.order, id)
	}

	return c, nil
}

// Lookup returns the evidence item for a canonical id
func (c *Catalog) Lookup(canonicalID string) (*types.EvidenceItem, bool) {
	item, ok := c.items[canonicalID]
	return item, ok
}

// Items returns all evidence items in library order
func (c *Catalog) Items() []*types.EvidenceItem {
	out := make([]*types.EvidenceItem, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.items[id])
	}
	return out
}

// Len returns the number of items in the catalog
func (c *Catalog) Len() int {
	return len(c.items)
}
