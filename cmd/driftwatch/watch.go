package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/driftwatch/driftwatch/internal/engine"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Rescan on file changes and report drift continuously",
	Long: `Watch the project tree and rescan whenever changes settle. Only files
invalidated by a change are parsed; everything else comes from the scan
cache. Stop with Ctrl-C.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		eng, err := newEngine(ctx, false)
		if err != nil {
			fatalf("%v", err)
		}

		fmt.Printf("%s\n", color.CyanString("watching %s", flagRoot))
		err = eng.Watch(ctx, func(report *engine.Report) {
			printReport(report)
		})
		if err != nil && ctx.Err() == nil {
			fatalf("watch failed: %v", err)
		}
	},
}
