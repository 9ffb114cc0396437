package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/driftwatch/driftwatch/internal/drift"
	"github.com/driftwatch/driftwatch/internal/engine"
)

var (
	scanJSON  bool
	scanForce bool
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan the project and report design-system drift",
	Long: `Scan the project for components, design tokens and style signals, and
report drift: repeated class patterns worth extracting, hardcoded style
values with no design token, and usage of deprecated components.

Unchanged files are served from the scan cache; only files whose git
commit (or mtime, for untracked files) changed are parsed again.

Examples:
  driftwatch scan                 # Scan the current directory
  driftwatch scan -r ../app       # Scan another project
  driftwatch scan --json          # Machine-readable report`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		eng, err := newEngine(ctx, scanForce)
		if err != nil {
			fatalf("%v", err)
		}
		report, err := eng.Run(ctx)
		if err != nil {
			fatalf("scan failed: %v", err)
		}

		if scanJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(report); err != nil {
				fatalf("encode report: %v", err)
			}
			return
		}
		printReport(report)
	},
}

func init() {
	scanCmd.Flags().BoolVar(&scanJSON, "json", false, "print the full report as JSON")
	scanCmd.Flags().BoolVar(&scanForce, "force", false, "ignore the cache and rescan everything")
}

func printReport(report *engine.Report) {
	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	gray := color.New(color.FgHiBlack).SprintFunc()

	fmt.Printf("\n%s\n\n", cyan("=== driftwatch scan ==="))
	fmt.Printf("  %d files indexed, %d scanned, %d from cache (%dms)\n",
		report.Stats.FilesIndexed, report.Stats.FilesScanned,
		report.Stats.FilesFromCache, report.Stats.DurationMS)
	fmt.Printf("  %d components, %d design tokens\n\n",
		len(report.Components), len(report.Tokens))

	if len(report.Errors) > 0 {
		yellow := color.New(color.FgYellow).SprintFunc()
		fmt.Printf("%s\n", yellow(fmt.Sprintf("Scan errors (%d):", len(report.Errors))))
		for _, scanErr := range report.Errors {
			fmt.Printf("  %s: %s\n", scanErr.File, scanErr.Message)
		}
		fmt.Println()
	}

	if len(report.Drift) == 0 {
		green := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("%s\n", green("No drift detected."))
		return
	}

	fmt.Printf("Drift signals (%d):\n", len(report.Drift))
	for _, sig := range report.Drift {
		fmt.Printf("  %s %s\n", severityBadge(sig.Severity), sig.Message)
		if sig.Source.Location != "" {
			fmt.Printf("    %s\n", gray(sig.Source.Location))
		}
	}
}

func severityBadge(s drift.Severity) string {
	switch s {
	case drift.SeverityCritical:
		return color.RedString("[critical]")
	case drift.SeverityWarning:
		return color.YellowString("[warning]")
	default:
		return color.HiBlackString("[info]")
	}
}
