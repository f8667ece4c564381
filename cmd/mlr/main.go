package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/promopilot/mlr/internal/citations"
	"github.com/promopilot/mlr/internal/evidence"
	"github.com/promopilot/mlr/internal/sources"
	"github.com/promopilot/mlr/internal/storage/sqlite"
)

var (
	dbPath     string
	matrixPath string
	claimsPath string
	brandID    string
	unitID     string
	assetType  string
	audience   string
	actor      string
)

var rootCmd = &cobra.Command{
	Use:   "mlr",
	Short: "MLR compliance review for promotional content",
	Long: `mlr reconciles compliance findings from the brand rule matrix and the
AI reviewer, walks them through reviewer decisions, and resolves claim
citations against the approved claims library.

Decisions are recorded per brand so past outcomes can be surfaced as
precedent on future reviews.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", defaultDBPath(), "Path to the decision history database")
	rootCmd.PersistentFlags().StringVar(&matrixPath, "matrix", "", "Path to the brand rule matrix YAML")
	rootCmd.PersistentFlags().StringVar(&claimsPath, "claims", "", "Path to the approved claims library YAML")
	rootCmd.PersistentFlags().StringVar(&brandID, "brand", "", "Brand the content belongs to")
	rootCmd.PersistentFlags().StringVar(&unitID, "unit", "", "Content unit identifier (default: derived from the content file)")
	rootCmd.PersistentFlags().StringVar(&assetType, "asset-type", "email", "Asset type (email, banner, detail_aid, ...)")
	rootCmd.PersistentFlags().StringVar(&audience, "audience", "hcp", "Target audience (hcp, patient)")
	rootCmd.PersistentFlags().StringVar(&actor, "actor", defaultActor(), "Reviewer recorded on decisions")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func defaultDBPath() string {
	if env := os.Getenv("MLR_DB"); env != "" {
		return env
	}
	return filepath.Join(".mlr", "decisions.db")
}

func defaultActor() string {
	if env := os.Getenv("MLR_ACTOR"); env != "" {
		return env
	}
	if user := os.Getenv("USER"); user != "" {
		return user
	}
	return "reviewer"
}

// loadContent reads the content file and fills in unitID when the flag was
// not given.
func loadContent(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading content file: %w", err)
	}
	content := string(data)
	if strings.TrimSpace(content) == "" {
		return "", fmt.Errorf("content file %s is empty", path)
	}
	if unitID == "" {
		base := filepath.Base(path)
		unitID = strings.TrimSuffix(base, filepath.Ext(base))
	}
	return content, nil
}

func assetContext() sources.AssetContext {
	return sources.AssetContext{
		UnitID:    unitID,
		BrandID:   brandID,
		AssetType: assetType,
		Audience:  audience,
	}
}

// openStore opens the decision history database, creating it on first use.
func openStore() (*sqlite.SQLiteStorage, error) {
	store, err := sqlite.New(dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening decision history at %s: %w", dbPath, err)
	}
	return store, nil
}

// loadMatrix loads the rule matrix when --matrix was given; a missing flag
// just means no matrix source for this run.
func loadMatrix() (sources.MatrixSource, error) {
	if matrixPath == "" {
		return nil, nil
	}
	matrix, err := sources.LoadRuleMatrix(matrixPath)
	if err != nil {
		return nil, err
	}
	return matrix, nil
}

// loadClaims loads the claims library when --claims was given.
func loadClaims() (citations.Catalog, error) {
	if claimsPath == "" {
		return nil, nil
	}
	catalog, err := evidence.Load(claimsPath)
	if err != nil {
		return nil, err
	}
	return catalog, nil
}

// newAISource builds the AI finding source. Returns nil (no source) when no
// API key is configured so matrix-only reviews work offline.
func newAISource(disabled bool) sources.AISource {
	if disabled || os.Getenv("ANTHROPIC_API_KEY") == "" {
		return nil
	}
	analyzer, err := sources.NewAnalyzer(sources.DefaultAnalyzerConfig())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: AI reviewer unavailable: %v\n", err)
		return nil
	}
	return analyzer
}
