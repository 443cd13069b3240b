package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ebscore/ebs/builtin"
	"github.com/ebscore/ebs/diagnostics"
	"github.com/ebscore/ebs/env"
	"github.com/ebscore/ebs/interp"
	"github.com/ebscore/ebs/parser"
	"github.com/ebscore/ebs/value"
)

type runFlags struct {
	configPath string
	driver     string
	dsn        string
}

func runCmd() *cobra.Command {
	flags := &runFlags{}
	cmd := &cobra.Command{
		Use:   "run <script.ebs>",
		Short: "Execute an EBS script",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runScript(args[0], flags)
		},
	}

	cmd.Flags().StringVarP(&flags.configPath, "config", "c", "", "Path to a TOML runtime configuration file")
	cmd.Flags().StringVar(&flags.driver, "driver", "", "Default connection driver (mysql|postgres|sqlite), overrides config")
	cmd.Flags().StringVar(&flags.dsn, "dsn", "", "Default connection DSN, overrides config")

	return cmd
}

func runScript(path string, flags *runFlags) error {
	cfg, err := loadConfig(flags.configPath)
	if err != nil {
		return err
	}
	if flags.driver != "" {
		cfg.DefaultDriver = flags.driver
	}
	if flags.dsn != "" {
		cfg.DefaultDSN = flags.dsn
	}
	configureLogging(cfg.LogLevel)

	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("ebs run: read %q: %w", path, err)
	}

	p, program, diags := parseProgram(path, string(src))
	if len(diags) > 0 {
		for _, d := range diags {
			fmt.Fprintln(os.Stderr, d.Error())
		}
		return fmt.Errorf("parsing failed with %d error(s)", len(diags))
	}

	h := newCLIHost(cfg)
	importer := fileImporter{baseDir: filepath.Dir(path), searchPaths: cfg.ImportPaths}
	it := interp.New(value.NewArena(), env.New(), p.Types, builtin.New(), h, env.NewScreenVars(), importer)

	if errs := parser.Bind(program, it.BuiltinSignatures()); len(errs) > 0 {
		printDiagnosticLines(bindErrorsToLines(errs))
		return fmt.Errorf("binding failed with %d error(s)", len(errs))
	}

	if err := it.Run(program); err != nil {
		return reportRuntimeError(err, path)
	}
	return nil
}

// reportRuntimeError prints the unhandled failure the way spec §7
// describes ("one error-stream line with kind, line, and message") and
// turns it into the one Diagnostic cmd/ebs's caller sees.
func reportRuntimeError(err error, path string) error {
	var diag diagnostics.Diagnostic
	if exc, ok := err.(*interp.Exception); ok {
		diag = diagnostics.FromException(exc, path)
	} else {
		diag = diagnostics.FromError(err, path)
	}
	fmt.Fprintln(os.Stderr, diag.Error())
	return diag
}
