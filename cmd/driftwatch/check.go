package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Report how much of the project the scan cache still covers",
	Long: `Compare every candidate file's identity (git commit, or mtime for
untracked files) against the scan cache without parsing anything.

Exits non-zero when any file is stale, so CI can require a fresh scan.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		eng, err := newEngine(ctx, false)
		if err != nil {
			fatalf("%v", err)
		}
		report, err := eng.Check(ctx)
		if err != nil {
			fatalf("check failed: %v", err)
		}

		for _, fresh := range report.Scanners {
			fmt.Printf("  %-16s %d files, %d cached, %d stale\n",
				fresh.Scanner, fresh.Candidates, fresh.Cached, fresh.Stale)
		}
		if !report.LastFullScan.IsZero() {
			fmt.Printf("  last full scan: %s", report.LastFullScan.Format("2006-01-02 15:04:05"))
			if report.LastFullScanHash != "" {
				fmt.Printf(" @ %.12s", report.LastFullScanHash)
			}
			fmt.Println()
		}

		if report.Fresh() {
			fmt.Printf("\n%s\n", color.GreenString("Cache is fresh (%d files).", report.TotalCandidates))
			return
		}
		fmt.Printf("\n%s\n", color.YellowString("%d of %d files need rescanning.",
			report.TotalStale, report.TotalCandidates))
		os.Exit(1)
	},
}
