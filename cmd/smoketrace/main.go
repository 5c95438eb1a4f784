// Package main is the entry point for the smoketrace CLI.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/spf13/cobra"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	level := slog.LevelInfo
	if os.Getenv("SMOKETRACE_LOG_LEVEL") == "debug" {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	rootCmd := &cobra.Command{
		Use:   "smoketrace",
		Short: "Run browser test suites as distributed traces",
		Long: `smoketrace executes declarative test suites and emits one OTLP trace
per run: a root span for the suite, a child span per test case and a
grandchild span per action.

The CLI runs suites against a synthetic driver that fulfills every
expectation, which makes it a fast way to smoke-test a telemetry
pipeline end to end. Real browser drivers are wired programmatically
through the library API.`,
		Version: version,
	}
	rootCmd.AddCommand(newRunCmd(logger))
	rootCmd.AddCommand(newValidateCmd())
	rootCmd.AddCommand(newVersionCmd())

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build metadata",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("smoketrace %s %s/%s (%s)\n", version, runtime.GOOS, runtime.GOARCH, runtime.Version())
		},
	}
}
