// Package reconcile merges compliance findings from the brand rule matrix and
// the AI analyzer into a single deduplicated finding set.
//
// # Overview
//
// Both finding sources run independently against the same content, so they
// routinely flag the same issue with slightly different wording. Showing a
// reviewer the same problem twice erodes trust in the tool, so reconciliation
// runs before any decision is created.
//
// # Two modes
//
// Exact-key mode (Reconcile): findings from both sources are processed as a
// single ordered stream, matrix first, keyed by normalized dedupe key
// (lowercased, trimmed description or name). The first finding per key
// survives; later arrivals merge their rationale into the survivor. Output
// order is first-seen order, which makes the pass deterministic and
// idempotent.
//
// Fuzzy mode (ReconcileCandidates): AI-proposed rule candidates rarely agree
// on exact wording, so equality there is edit-distance similarity above a
// threshold (DefaultCandidateThreshold, 0.70). Each candidate linear-scans the
// accepted list and merges into the first match. O(n²), acceptable because a
// single content unit yields tens of candidates, not thousands; Config's
// MaxCandidates caps the scan anyway, with over-cap candidates kept unmerged.
//
// # Ordering guarantee
//
// Matrix findings are always absorbed before AI findings. This fixes which
// duplicate becomes the survivor, which in turn fixes the output order, the
// merge direction of rationale text, and ultimately what the reviewer sees.
// Re-running reconciliation on identical inputs always produces an identical
// result.
//
// # Error handling
//
// Reconciliation never fails. A nil or empty source slice means that source
// was unavailable and simply contributes no findings; a nil finding inside a
// slice is skipped. Rationale merging mutates copies, never the caller's
// findings.
package reconcile
