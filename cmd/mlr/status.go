package main

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/promopilot/mlr/internal/types"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show decision history totals per brand",
	Long:  `Display how many review decisions are recorded per brand, broken down by outcome.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		store, err := openStore()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer store.Close()

		summaries, err := store.Summary(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("\n%s\n\n", cyan("=== Decision Ledger Status ==="))
		fmt.Printf("Database: %s\n\n", gray(dbPath))

		if len(summaries) == 0 {
			fmt.Printf("  %s\n", gray("No decisions recorded yet"))
			return
		}

		total := 0
		for _, sum := range summaries {
			total += sum.Total
			fmt.Printf("%s %s\n", yellow(sum.BrandID),
				gray(fmt.Sprintf("(%d decisions, last %s)", sum.Total, sum.LastAt.Format("2006-01-02"))))

			outcomes := make([]types.DecisionAction, 0, len(sum.Outcomes))
			for action := range sum.Outcomes {
				outcomes = append(outcomes, action)
			}
			sort.Slice(outcomes, func(i, j int) bool { return outcomes[i] < outcomes[j] })
			for _, action := range outcomes {
				fmt.Printf("  %s %d\n", decisionColor(action)(string(action)), sum.Outcomes[action])
			}
			fmt.Println()
		}
		fmt.Printf("Total: %s decisions across %d brand(s)\n",
			green(fmt.Sprintf("%d", total)), len(summaries))
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
