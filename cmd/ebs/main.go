// Package main contains the cli implementation of the EBS tool. It
// uses cobra for cli tool implementation, the same as the pack's own
// schema migration CLI.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ebscore/ebs/config"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "ebs",
		Short: "Run, check, and explore EBS scripts",
	}

	rootCmd.AddCommand(runCmd())
	rootCmd.AddCommand(checkCmd())
	rootCmd.AddCommand(replCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig decodes --config if given, otherwise returns the
// zero-config defaults (spec expansion: "the embedding API itself
// takes a Go struct"; the CLI is the one place that reads TOML).
func loadConfig(path string) (config.Options, error) {
	if path == "" {
		return config.DefaultOptions(), nil
	}
	return config.NewLoader().LoadFile(path)
}

func configureLogging(level slog.Level) {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

func printDiagnosticLines(lines []string) {
	for _, l := range lines {
		fmt.Fprintln(os.Stderr, l)
	}
}
