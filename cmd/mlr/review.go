package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/promopilot/mlr/internal/review"
	"github.com/promopilot/mlr/internal/types"
)

var reviewNoAI bool

var reviewCmd = &cobra.Command{
	Use:   "review <content-file>",
	Short: "Interactively decide the findings on a content unit",
	Long: `Analyze a content file and walk through every undecided finding,
recording a decision for each. Decisions that grant an exception, defer
work, or accept risk require documented reasoning.

With --brand set, outcomes are appended to the brand's decision history
and surface as precedent on future reviews.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		sess, store, err := buildSession(ctx, args[0], reviewNoAI)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if store != nil {
			defer store.Close()
		}

		fmt.Printf("\n%s\n\n", cyan(fmt.Sprintf("=== Review: %s ===", unitID)))
		printStats(sess.Stats(), sess.Degraded())
		printSuggestions(sess.Suggestions())
		printCitations(sess.Citations())

		if err := decisionLoop(ctx, sess); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		fmt.Println()
		printGate(sess)
	},
}

func init() {
	reviewCmd.Flags().BoolVar(&reviewNoAI, "no-ai", false, "Skip the AI reviewer even when an API key is configured")
	rootCmd.AddCommand(reviewCmd)
}

var decisionKeys = map[string]types.DecisionAction{
	"a": types.ActionAccepted,
	"e": types.ActionMLRException,
	"b": types.ActionBlocking,
	"d": types.ActionDeferred,
	"r": types.ActionRiskAccepted,
	"k": types.ActionAcknowledged,
}

// decisionLoop walks every undecided finding, prompting for an action and,
// when the action requires it, for reasoning.
func decisionLoop(ctx context.Context, sess *review.Session) error {
	undecided := sess.Ledger().Undecided()
	if len(undecided) == 0 {
		fmt.Printf("%s\n", gray("No findings to decide."))
		return nil
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          cyan("mlr> "),
		InterruptPrompt: "^C",
		EOFPrompt:       "done",
	})
	if err != nil {
		return fmt.Errorf("failed to create readline: %w", err)
	}
	defer rl.Close()

	for i, f := range undecided {
		fmt.Printf("%s\n", yellow(fmt.Sprintf("Finding %d of %d:", i+1, len(undecided))))
		printFinding(f, nil)
		fmt.Printf("  %s\n", gray("[a]ccept  [e]xception  [b]lock  [d]efer  [r]isk-accept  ac[k]nowledge  [s]kip  [q]uit"))

		done := false
		for !done {
			line, err := rl.Readline()
			if err != nil {
				if err == readline.ErrInterrupt {
					continue
				}
				if err == io.EOF {
					return nil
				}
				return err
			}
			choice := strings.ToLower(strings.TrimSpace(line))
			switch choice {
			case "":
				continue
			case "s", "skip":
				done = true
				continue
			case "q", "quit":
				return nil
			}

			action, ok := decisionKeys[choice]
			if !ok {
				action = types.DecisionAction(choice)
			}
			if !action.IsValid() {
				fmt.Printf("%s unknown choice %q\n", red("✗"), choice)
				continue
			}

			var reasoning string
			if action.RequiresReasoning() {
				reasoning, err = promptReasoning(rl, action)
				if err != nil {
					return err
				}
			}

			_, verr, err := sess.Decide(ctx, f.ID, action, reasoning)
			if err != nil {
				return err
			}
			if verr != nil {
				fmt.Printf("%s %s\n", red("✗"), verr.Message)
				continue
			}
			fmt.Printf("%s %s recorded as %s\n\n", green("✓"), f.ID, decisionColor(action)(string(action)))
			done = true
		}
	}
	return nil
}

func promptReasoning(rl *readline.Instance, action types.DecisionAction) (string, error) {
	saved := rl.Config.Prompt
	rl.SetPrompt(yellow(fmt.Sprintf("reasoning for %s> ", action)))
	defer rl.SetPrompt(saved)

	line, err := rl.Readline()
	if err != nil {
		if err == readline.ErrInterrupt || err == io.EOF {
			return "", nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}
