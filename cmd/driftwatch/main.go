package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/driftwatch/driftwatch/internal/config"
	"github.com/driftwatch/driftwatch/internal/engine"
)

var (
	flagRoot    string
	flagVerbose bool
)

var rootCmd = &cobra.Command{
	Use:   "driftwatch",
	Short: "Design-system drift scanner",
	Long: `driftwatch scans a UI codebase for component and design-token usage,
flags drift from the design system (repeated class patterns, hardcoded
style values, deprecated component usage), and caches per-file results so
unchanged files are never scanned twice.

Configuration is read from .driftwatch.yaml at the project root when
present.`,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagRoot, "root", "r", ".", "project root to scan")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "log scan progress")
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(watchCmd)
}

// newEngine loads project configuration and constructs the engine shared
// by every command.
func newEngine(ctx context.Context, force bool) (*engine.Engine, error) {
	cfg, err := config.Load(flagRoot)
	if err != nil {
		return nil, err
	}
	return engine.New(ctx, engine.Options{
		Root:   flagRoot,
		Config: cfg,
		Logger: newLogger(flagVerbose),
		Force:  force,
	})
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
