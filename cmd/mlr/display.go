package main

import (
	"fmt"

	"github.com/fatih/color"

	"github.com/promopilot/mlr/internal/citations"
	"github.com/promopilot/mlr/internal/memory"
	"github.com/promopilot/mlr/internal/reconcile"
	"github.com/promopilot/mlr/internal/review"
	"github.com/promopilot/mlr/internal/types"
)

var (
	cyan   = color.New(color.FgCyan, color.Bold).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	gray   = color.New(color.FgHiBlack).SprintFunc()
)

func riskColor(risk types.RiskLevel) func(a ...interface{}) string {
	switch risk {
	case types.RiskCritical, types.RiskHigh:
		return red
	case types.RiskMedium:
		return yellow
	case types.RiskLow:
		return green
	default:
		return gray
	}
}

func printFinding(f *types.Finding, decision *types.Decision) {
	rc := riskColor(f.RiskLevel)
	fmt.Printf("  %s %s %s\n", rc("●"), f.Name, gray(fmt.Sprintf("[%s]", f.ID)))
	fmt.Printf("    Category: %s  Risk: %s  Source: %s\n", f.Category, rc(string(f.RiskLevel)), f.Source)
	if f.Description != "" {
		fmt.Printf("    %s\n", f.Description)
	}
	if f.Rationale != "" {
		fmt.Printf("    Rationale: %s\n", gray(f.Rationale))
	}
	for _, ev := range f.Evidence {
		fmt.Printf("    Suggested: %s\n", green(ev))
	}
	if decision != nil {
		fmt.Printf("    Decision: %s", decisionColor(decision.Action)(string(decision.Action)))
		if decision.Reasoning != "" {
			fmt.Printf(" — %s", decision.Reasoning)
		}
		fmt.Println()
	}
	fmt.Println()
}

func decisionColor(action types.DecisionAction) func(a ...interface{}) string {
	switch action {
	case types.ActionAccepted, types.ActionAcknowledged:
		return green
	case types.ActionBlocking:
		return red
	case types.ActionDeferred:
		return gray
	default:
		return yellow
	}
}

func printFindings(sess *review.Session) {
	fmt.Printf("%s\n", yellow("Findings:"))
	findings := sess.Findings()
	if len(findings) == 0 {
		fmt.Printf("  %s\n", gray("No findings"))
		fmt.Println()
		return
	}
	led := sess.Ledger()
	for _, f := range findings {
		printFinding(f, led.Decision(f.ID))
	}
}

func printStats(stats reconcile.Stats, degraded []string) {
	fmt.Printf("%s matrix %d, ai %d, survivors %d, merges %d\n",
		yellow("Sources:"), stats.MatrixIn, stats.AIIn, stats.Survivors, stats.Merges)
	for _, src := range degraded {
		fmt.Printf("  %s %s source unavailable, review is partial\n", yellow("⚠"), src)
	}
	fmt.Println()
}

func printSuggestions(matches []*memory.Match) {
	if len(matches) == 0 {
		return
	}
	fmt.Printf("%s\n", yellow("Precedent from past reviews:"))
	for _, m := range matches {
		fmt.Printf("  %s %s\n", cyan(fmt.Sprintf("%d%%", m.Similarity)),
			m.Record.OriginalText)
		if m.Record.SuggestedText != "" {
			fmt.Printf("      %s %s\n", gray("→"), green(m.Record.SuggestedText))
		}
		fmt.Printf("      %s\n", gray(fmt.Sprintf("%s / %s by %s on %s",
			m.Record.Outcome, m.Record.Severity, m.Record.Reviewer,
			m.Record.ReviewedAt.Format("2006-01-02"))))
	}
	fmt.Println()
}

func printCitations(result *citations.Result) {
	if result == nil {
		return
	}
	if len(result.CitationsUsed) > 0 {
		fmt.Printf("%s\n", yellow("Citations:"))
		for _, use := range result.CitationsUsed {
			fmt.Printf("  [%d] %s", use.Number, use.CanonicalID)
			if use.Reference != "" {
				fmt.Printf(" — %s", use.Reference)
			}
			fmt.Println()
		}
		fmt.Println()
	}
	for _, id := range result.Unresolved {
		fmt.Printf("%s claim %s is not in the approved library\n", red("✗"), id)
	}
	if len(result.Unresolved) > 0 {
		fmt.Println()
	}
}

func printGate(sess *review.Session) {
	fmt.Printf("%s score %d/100\n", yellow("Compliance:"), sess.Ledger().Score())
	if sess.CanApprove() {
		fmt.Printf("%s content unit can be approved\n", green("✓"))
		return
	}
	fmt.Printf("%s approval blocked:\n", red("✗"))
	for _, b := range sess.ApprovalBlockers() {
		fmt.Printf("  - %s %s\n", b.Detail, gray(fmt.Sprintf("[%s]", b.FindingID)))
	}
}
