package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/arthur-debert/gitboot/cmd/gitboot"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rootCmd := gitboot.NewRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		// Print the error with its remediation, plus usage when the
		// invocation itself was wrong
		gitboot.ReportError(rootCmd, err, os.Stderr)
		stop()
		os.Exit(1)
	}
}
