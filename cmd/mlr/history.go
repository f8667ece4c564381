package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/promopilot/mlr/internal/memory"
	"github.com/promopilot/mlr/internal/types"
)

var (
	historyLimit   int
	historyAgainst string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show a brand's decision history",
	Long: `List past reviewer decisions for a brand, newest first.

With --against, rank the history by similarity to a content file instead,
the same ranking 'mlr review' uses to surface precedent.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		if brandID == "" {
			fmt.Fprintf(os.Stderr, "Error: --brand is required\n")
			os.Exit(1)
		}

		store, err := openStore()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer store.Close()

		records, err := store.QueryByBrand(ctx, brandID, historyLimit)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("\n%s\n\n", cyan(fmt.Sprintf("=== Decision History: %s ===", brandID)))
		if len(records) == 0 {
			fmt.Printf("%s\n", gray("No decisions recorded for this brand."))
			return
		}

		if historyAgainst != "" {
			data, err := os.ReadFile(historyAgainst)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: reading content file: %v\n", err)
				os.Exit(1)
			}
			matches := memory.FindRelevant(string(data), records, memory.DefaultThreshold)
			if len(matches) == 0 {
				fmt.Printf("%s\n", gray("No relevant precedent for this content."))
				return
			}
			printSuggestions(matches)
			return
		}

		for _, rec := range records {
			printHistoryRecord(rec)
		}
		fmt.Printf("%s\n", gray(fmt.Sprintf("%d decision(s)", len(records))))
	},
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum number of records to show")
	historyCmd.Flags().StringVar(&historyAgainst, "against", "", "Rank history by similarity to this content file")
	rootCmd.AddCommand(historyCmd)
}

func printHistoryRecord(rec *types.HistoricalDecisionRecord) {
	fmt.Printf("  %s %s\n", decisionColor(rec.Outcome)(string(rec.Outcome)),
		gray(rec.ReviewedAt.Format("2006-01-02 15:04")))
	fmt.Printf("    %s\n", rec.OriginalText)
	if rec.SuggestedText != "" {
		fmt.Printf("    %s %s\n", gray("→"), green(rec.SuggestedText))
	}
	fmt.Printf("    %s\n\n", gray(fmt.Sprintf("%s / %s by %s", rec.Category, rec.Severity, rec.Reviewer)))
}
