package sources

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"

	"github.com/promopilot/mlr/internal/reconcile"
	"github.com/promopilot/mlr/internal/types"
)

// Default analyzer model. Compliance analysis needs the reasoning tier;
// override via MLR_MODEL for cost experiments.
const ModelDefault = "claude-sonnet-4-5-20250929"

// GetModel returns the analyzer model, checking MLR_MODEL first
func GetModel() string {
	if model := os.Getenv("MLR_MODEL"); model != "" {
		return model
	}
	return ModelDefault
}

// AnalyzerConfig holds configuration for the AI finding source
type AnalyzerConfig struct {
	APIKey string // Anthropic API key (if empty, reads from ANTHROPIC_API_KEY)
	Model  string // Model to use (default: GetModel())

	// MaxRetries is the number of retries after a failed API call (default: 3)
	MaxRetries int
	// InitialBackoff is the first retry delay; doubles per attempt (default: 1s)
	InitialBackoff time.Duration
	// RequestTimeout bounds each individual API attempt (default: 60s)
	RequestTimeout time.Duration
	// MaxConcurrentCalls caps in-flight API calls across goroutines (default: 3)
	MaxConcurrentCalls int
	// RequestsPerMinute paces calls to stay inside API rate limits (default: 30)
	RequestsPerMinute int
}

// DefaultAnalyzerConfig returns the default analyzer configuration
func DefaultAnalyzerConfig() AnalyzerConfig {
	return AnalyzerConfig{
		Model:              GetModel(),
		MaxRetries:         3,
		InitialBackoff:     time.Second,
		RequestTimeout:     60 * time.Second,
		MaxConcurrentCalls: 3,
		RequestsPerMinute:  30,
	}
}

// Analyzer is the AI finding source. It sends the content plus asset context
// to the model and parses the returned findings, tolerating the usual LLM
// output quirks (code fences, prose around the JSON).
type Analyzer struct {
	client  *anthropic.Client
	model   string
	cfg     AnalyzerConfig
	dedup   reconcile.Config
	sem     *semaphore.Weighted
	limiter *rate.Limiter
}

// NewAnalyzer creates the AI finding source
func NewAnalyzer(cfg AnalyzerConfig) (*Analyzer, error) {
	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY not set")
		}
	}

	model := cfg.Model
	if model == "" {
		model = GetModel()
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.InitialBackoff <= 0 {
		cfg.InitialBackoff = time.Second
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 60 * time.Second
	}
	if cfg.MaxConcurrentCalls <= 0 {
		cfg.MaxConcurrentCalls = 3
	}
	if cfg.RequestsPerMinute <= 0 {
		cfg.RequestsPerMinute = 30
	}

	// MLR_DEDUP_* overrides apply to the candidate merge below
	dedup, err := reconcile.ConfigFromEnv()
	if err != nil {
		return nil, fmt.Errorf("loading dedup config: %w", err)
	}

	client := anthropic.NewClient(option.WithAPIKey(apiKey))

	return &Analyzer{
		client:  &client,
		model:   model,
		cfg:     cfg,
		dedup:   dedup,
		sem:     semaphore.NewWeighted(int64(cfg.MaxConcurrentCalls)),
		limiter: rate.NewLimiter(rate.Limit(float64(cfg.RequestsPerMinute)/60.0), cfg.MaxConcurrentCalls),
	}, nil
}

// aiFinding is the wire shape the model is asked to return per finding
type aiFinding struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Rationale   string   `json:"rationale"`
	Category    string   `json:"category"`
	RiskLevel   string   `json:"risk_level"`
	Evidence    []string `json:"evidence,omitempty"`
}

// aiResponse is the top-level wire shape
type aiResponse struct {
	Findings []aiFinding `json:"findings"`
}

// AIFindings analyzes content for compliance problems. Returns the model's
// findings normalized into typed values; unknown categories degrade to
// SHOULD_CHANGE and unknown risk levels to "unknown" rather than dropping
// the finding.
func (a *Analyzer) AIFindings(ctx context.Context, content string, asset AssetContext) ([]*types.Finding, error) {
	if strings.TrimSpace(content) == "" {
		return nil, nil
	}

	prompt := buildAnalysisPrompt(content, asset)

	responseText, err := a.callModel(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("AI analysis failed: %w", err)
	}

	return a.parseFindings(responseText)
}

// parseFindings turns raw model output into typed findings and collapses
// near-duplicate proposals. Models often restate the same problem with
// drifted wording, so the fuzzy candidate merge runs here, before the
// findings reach cross-source reconciliation.
func (a *Analyzer) parseFindings(responseText string) ([]*types.Finding, error) {
	var parsed aiResponse
	if err := unmarshalModelJSON(responseText, &parsed); err != nil {
		return nil, fmt.Errorf("parsing AI findings: %w (response: %s)", err, truncate(responseText, 200))
	}

	findings := make([]*types.Finding, 0, len(parsed.Findings))
	for _, raw := range parsed.Findings {
		if strings.TrimSpace(raw.Name) == "" && strings.TrimSpace(raw.Description) == "" {
			continue
		}

		category := types.Category(strings.ToUpper(strings.TrimSpace(raw.Category)))
		if !category.IsValid() {
			category = types.CategoryShouldChange
		}
		risk := types.RiskLevel(strings.ToLower(strings.TrimSpace(raw.RiskLevel)))
		if !risk.IsValid() {
			risk = types.RiskUnknown
		}

		findings = append(findings, &types.Finding{
			ID:          "ai-" + uuid.New().String(),
			Name:        raw.Name,
			Description: raw.Description,
			Rationale:   raw.Rationale,
			Category:    category,
			RiskLevel:   risk,
			Evidence:    raw.Evidence,
			Source:      types.SourceAI,
		})
	}

	return reconcile.ReconcileCandidatesWithConfig(findings, a.dedup), nil
}

// callModel makes one paced, concurrency-limited API call with retry and
// exponential backoff, and concatenates the text blocks of the response.
func (a *Analyzer) callModel(ctx context.Context, prompt string) (string, error) {
	if err := a.sem.Acquire(ctx, 1); err != nil {
		return "", fmt.Errorf("acquiring analyzer slot: %w", err)
	}
	defer a.sem.Release(1)

	var lastErr error
	backoff := a.cfg.InitialBackoff

	for attempt := 0; attempt <= a.cfg.MaxRetries; attempt++ {
		if err := a.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("waiting for rate limiter: %w", err)
		}

		attemptCtx, cancel := context.WithTimeout(ctx, a.cfg.RequestTimeout)
		response, err := a.client.Messages.New(attemptCtx, anthropic.MessageNewParams{
			Model:     anthropic.Model(a.model),
			MaxTokens: 4096,
			Messages: []anthropic.MessageParam{
				anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
			},
		})
		cancel()

		if err == nil {
			var text strings.Builder
			for _, block := range response.Content {
				if block.Type == "text" {
					text.WriteString(block.Text)
				}
			}
			return text.String(), nil
		}

		lastErr = err
		if attempt < a.cfg.MaxRetries {
			log.Printf("AI analysis attempt %d/%d failed, retrying in %v: %v",
				attempt+1, a.cfg.MaxRetries+1, backoff, err)
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return "", ctx.Err()
			}
			backoff *= 2
		}
	}

	return "", fmt.Errorf("anthropic API call failed after %d attempts: %w", a.cfg.MaxRetries+1, lastErr)
}

func buildAnalysisPrompt(content string, asset AssetContext) string {
	var sb strings.Builder

	sb.WriteString("You are an MLR (medical/legal/regulatory) reviewer for pharmaceutical promotional content.\n")
	sb.WriteString("Analyze the content below for compliance problems.\n\n")
	sb.WriteString(fmt.Sprintf("Brand: %s\nAsset type: %s\nAudience: %s\n\n", asset.BrandID, asset.AssetType, asset.Audience))
	sb.WriteString("Content:\n---\n")
	sb.WriteString(content)
	sb.WriteString("\n---\n\n")
	sb.WriteString("Respond with JSON only, in this shape:\n")
	sb.WriteString(`{"findings": [{"name": "...", "description": "...", "rationale": "...", ` +
		`"category": "MUST_CHANGE|CANNOT_CHANGE|SHOULD_CHANGE", ` +
		`"risk_level": "critical|high|medium|low", "evidence": ["optional approved replacement text"]}]}`)
	sb.WriteString("\n\nReport each distinct problem once. An empty findings array is a valid answer.")

	return sb.String()
}

// truncate shortens s to at most max runes, cutting on a rune boundary so
// multi-byte characters are never split mid-sequence.
func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max]) + "..."
}
