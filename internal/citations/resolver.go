// Package citations resolves inline claim markers emitted by content
// generation into a stable, deduplicated, numbered reference list.
//
// Generated copy carries markers of the form [CLAIM:CML-0007] pointing into
// the brand's pre-approved claims library. Resolution scans the content left
// to right, assigns 1-based citation numbers in first-seen order, reuses the
// number on every later marker with the same canonical id, and rewrites each
// resolved marker into a superscript tag the rendering layer can style.
// Markers whose canonical id is missing from the catalog are left in place
// and reported, never assigned a broken number.
package citations

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/promopilot/mlr/internal/types"
)

// markerPattern matches inline claim markers like [CLAIM:CML-0007].
// Canonical ids are alphanumeric with dashes/underscores/dots.
var markerPattern = regexp.MustCompile(`\[CLAIM:([A-Za-z0-9._-]+)\]`)

// Catalog looks up evidence items by canonical id. Implemented by the claims
// library loader in internal/evidence; tests supply small in-memory catalogs.
type Catalog interface {
	Lookup(canonicalID string) (*types.EvidenceItem, bool)
}

// Result holds the rewritten content plus everything the caller needs to
// render a reference list and flag gaps.
type Result struct {
	// Content is the input with every resolvable marker rewritten
	Content string `json:"content"`
	// CitationsUsed lists one entry per distinct canonical id, in citation order
	CitationsUsed []*types.CitationUse `json:"citations_used"`
	// Unresolved lists canonical ids that were referenced but missing from the
	// catalog, in first-seen order, deduplicated. A reportable condition, not
	// a failure: the rest of the content still resolves.
	Unresolved []string `json:"unresolved,omitempty"`
}

// Resolve scans content for claim markers and rewrites them into display form.
//
// Numbering is assigned in first-seen order starting at 1 and is stable: two
// markers with the same canonical id always get the same number, and the same
// marker text occurring twice is counted once. Content with no raw markers
// passes through untouched, so resolving already-resolved content is a no-op.
func Resolve(content string, catalog Catalog) *Result {
	result := &Result{
		Content:       content,
		CitationsUsed: make([]*types.CitationUse, 0),
	}

	assigned := make(map[string]int)   // canonicalID -> citation number
	missing := make(map[string]bool)   // canonicalID -> already reported
	replacements := make(map[string]string) // raw marker -> display form

	for _, match := range markerPattern.FindAllStringSubmatch(content, -1) {
		marker, canonicalID := match[0], match[1]

		if _, ok := assigned[canonicalID]; ok {
			continue // Same id seen again: number already assigned
		}
		if missing[canonicalID] {
			continue
		}

		item, ok := catalog.Lookup(canonicalID)
		if !ok {
			missing[canonicalID] = true
			result.Unresolved = append(result.Unresolved, canonicalID)
			continue
		}

		number := len(assigned) + 1
		assigned[canonicalID] = number
		replacements[marker] = displayForm(canonicalID, number)

		use := &types.CitationUse{
			CanonicalID: canonicalID,
			Marker:      marker,
			Number:      number,
		}
		if item != nil {
			use.Reference = item.Reference
		}
		result.CitationsUsed = append(result.CitationsUsed, use)
	}

	for marker, display := range replacements {
		result.Content = strings.ReplaceAll(result.Content, marker, display)
	}

	return result
}

// displayForm renders a resolved marker as a superscript tag carrying both
// the canonical id and the number for downstream styling.
func displayForm(canonicalID string, number int) string {
	return fmt.Sprintf(`<sup data-claim-id=%q data-citation="%d">[%d]</sup>`,
		canonicalID, number, number)
}

// HasUnresolvedMarkers reports whether content still contains raw claim
// markers. Useful as a pre-export check.
func HasUnresolvedMarkers(content string) bool {
	return markerPattern.MatchString(content)
}
