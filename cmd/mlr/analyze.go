package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/promopilot/mlr/internal/review"
)

var analyzeNoAI bool

var analyzeCmd = &cobra.Command{
	Use:   "analyze <content-file>",
	Short: "Analyze a content unit without making decisions",
	Long: `Run the full analysis pipeline on a content file: gather findings from
the rule matrix and the AI reviewer, reconcile duplicates, surface
precedent from past decisions, and resolve claim citations.

Nothing is decided or recorded; use 'mlr review' for the decision loop.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		sess, store, err := buildSession(ctx, args[0], analyzeNoAI)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if store != nil {
			defer store.Close()
		}

		fmt.Printf("\n%s\n\n", cyan(fmt.Sprintf("=== Analysis: %s ===", unitID)))
		printStats(sess.Stats(), sess.Degraded())
		printFindings(sess)
		printSuggestions(sess.Suggestions())
		printCitations(sess.Citations())
		printGate(sess)
	},
}

func init() {
	analyzeCmd.Flags().BoolVar(&analyzeNoAI, "no-ai", false, "Skip the AI reviewer even when an API key is configured")
	rootCmd.AddCommand(analyzeCmd)
}

// buildSession wires the collaborators selected by the global flags and runs
// the analysis pipeline. The returned store is nil when no brand was given.
func buildSession(ctx context.Context, contentPath string, noAI bool) (*review.Session, interface{ Close() error }, error) {
	content, err := loadContent(contentPath)
	if err != nil {
		return nil, nil, err
	}

	matrix, err := loadMatrix()
	if err != nil {
		return nil, nil, err
	}
	claims, err := loadClaims()
	if err != nil {
		return nil, nil, err
	}

	cfg := review.Config{
		Asset:   assetContext(),
		Content: content,
		Matrix:  matrix,
		AI:      newAISource(noAI),
		Claims:  claims,
		Actor:   actor,
	}

	var closer interface{ Close() error }
	if brandID != "" {
		store, err := openStore()
		if err != nil {
			return nil, nil, err
		}
		cfg.Store = store
		closer = store
	}

	sess, err := review.NewSession(cfg)
	if err != nil {
		if closer != nil {
			closer.Close()
		}
		return nil, nil, err
	}
	if err := sess.Run(ctx); err != nil {
		if closer != nil {
			closer.Close()
		}
		return nil, nil, err
	}
	return sess, closer, nil
}
