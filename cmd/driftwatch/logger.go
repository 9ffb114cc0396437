package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
)

// cliLogger writes engine progress to stderr. Info lines are shown only in
// verbose mode; warnings and errors always print.
type cliLogger struct {
	verbose bool
}

func newLogger(verbose bool) *cliLogger {
	return &cliLogger{verbose: verbose}
}

func (l *cliLogger) Infof(format string, args ...any) {
	if !l.verbose {
		return
	}
	fmt.Fprintf(os.Stderr, "%s %s\n", color.HiBlackString("info:"), fmt.Sprintf(format, args...))
}

func (l *cliLogger) Warnf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "%s %s\n", color.YellowString("warning:"), fmt.Sprintf(format, args...))
}

func (l *cliLogger) Errorf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "%s %s\n", color.RedString("error:"), fmt.Sprintf(format, args...))
}
