package sources

import (
	"context"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/promopilot/mlr/internal/types"
)

// Rule is one entry in a brand's rule matrix file
type Rule struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Rationale   string `yaml:"rationale,omitempty"`
	Category    string `yaml:"category"`
	Risk        string `yaml:"risk"`
	// AppliesTo limits the rule to specific asset types; empty means all
	AppliesTo []string `yaml:"applies_to,omitempty"`
	// Triggers are phrases that must appear in the content (case-insensitive)
	// for the rule to fire; empty means the rule always fires for its assets
	Triggers []string `yaml:"triggers,omitempty"`
	// Evidence is pre-approved replacement/companion text applied when the
	// resulting finding is accepted
	Evidence []string `yaml:"evidence,omitempty"`
}

// Validate checks if the rule has valid field values
func (r *Rule) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("rule id is required")
	}
	if strings.TrimSpace(r.Name) == "" && strings.TrimSpace(r.Description) == "" {
		return fmt.Errorf("rule %s must have a name or description", r.ID)
	}
	if !types.Category(r.Category).IsValid() {
		return fmt.Errorf("rule %s: invalid category %q", r.ID, r.Category)
	}
	if !types.RiskLevel(r.Risk).IsValid() {
		return fmt.Errorf("rule %s: invalid risk %q", r.ID, r.Risk)
	}
	return nil
}

// RuleMatrix is the YAML-backed rule matrix for one brand. It implements
// MatrixSource by evaluating every rule against the content: trigger phrases
// are matched case-insensitively, asset-type restrictions are honored, and
// matching rules become findings in matrix file order so downstream
// reconciliation stays deterministic.
type RuleMatrix struct {
	BrandID string `yaml:"brand"`
	Rules   []Rule `yaml:"rules"`
}

// LoadRuleMatrix loads and validates a brand rule matrix from a YAML file
func LoadRuleMatrix(path string) (*RuleMatrix, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rule matrix: %w", err)
	}

	var matrix RuleMatrix
	if err := yaml.Unmarshal(data, &matrix); err != nil {
		return nil, fmt.Errorf("parsing rule matrix YAML: %w", err)
	}

	if err := matrix.Validate(); err != nil {
		return nil, err
	}

	return &matrix, nil
}

// Validate checks the matrix and every rule in it
func (m *RuleMatrix) Validate() error {
	if m.BrandID == "" {
		return fmt.Errorf("rule matrix must declare a brand")
	}
	seen := make(map[string]bool, len(m.Rules))
	for i := range m.Rules {
		rule := &m.Rules[i]
		if err := rule.Validate(); err != nil {
			return err
		}
		if seen[rule.ID] {
			return fmt.Errorf("duplicate rule id %s", rule.ID)
		}
		seen[rule.ID] = true
	}
	return nil
}

// MatrixFindings evaluates the matrix against content for one asset.
// The context parameter is accepted for interface symmetry with the AI
// source; evaluation itself is local and does not block.
func (m *RuleMatrix) MatrixFindings(_ context.Context, content string, asset AssetContext) ([]*types.Finding, error) {
	lowered := strings.ToLower(content)

	var findings []*types.Finding
	for i := range m.Rules {
		rule := &m.Rules[i]

		if !rule.appliesTo(asset.AssetType) {
			continue
		}
		if !rule.triggered(lowered) {
			continue
		}

		findings = append(findings, &types.Finding{
			ID:          rule.ID,
			Name:        rule.Name,
			Description: rule.Description,
			Rationale:   rule.Rationale,
			Category:    types.Category(rule.Category),
			RiskLevel:   types.RiskLevel(rule.Risk),
			Evidence:    rule.Evidence,
			Source:      types.SourceMatrix,
		})
	}

	return findings, nil
}

func (r *Rule) appliesTo(assetType string) bool {
	if len(r.AppliesTo) == 0 {
		return true
	}
	for _, t := range r.AppliesTo {
		if strings.EqualFold(t, assetType) {
			return true
		}
	}
	return false
}

func (r *Rule) triggered(loweredContent string) bool {
	if len(r.Triggers) == 0 {
		return true
	}
	for _, trigger := range r.Triggers {
		if strings.Contains(loweredContent, strings.ToLower(trigger)) {
			return true
		}
	}
	return false
}
