package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/promopilot/mlr/internal/citations"
)

var citationsOut string

var citationsCmd = &cobra.Command{
	Use:   "citations <content-file>",
	Short: "Resolve claim markers against the approved claims library",
	Long: `Rewrite every [CLAIM:id] marker in a content file into a numbered
citation backed by the approved claims library, and print the reference
list. Markers for claims missing from the library are left in place and
reported.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if claimsPath == "" {
			fmt.Fprintf(os.Stderr, "Error: --claims is required\n")
			os.Exit(1)
		}

		content, err := loadContent(args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		claims, err := loadClaims()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		result := citations.Resolve(content, claims)

		if citationsOut != "" {
			if err := os.WriteFile(citationsOut, []byte(result.Content), 0o644); err != nil {
				fmt.Fprintf(os.Stderr, "Error: writing output: %v\n", err)
				os.Exit(1)
			}
			fmt.Printf("%s wrote resolved content to %s\n\n", green("✓"), citationsOut)
		} else {
			fmt.Printf("\n%s\n\n", cyan("=== Resolved Content ==="))
			fmt.Println(result.Content)
			fmt.Println()
		}

		printCitations(result)

		if len(result.Unresolved) > 0 {
			os.Exit(1)
		}
	},
}

func init() {
	citationsCmd.Flags().StringVarP(&citationsOut, "out", "o", "", "Write resolved content to a file instead of stdout")
	rootCmd.AddCommand(citationsCmd)
}
