package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ebscore/ebs/builtin"
	"github.com/ebscore/ebs/env"
	"github.com/ebscore/ebs/interp"
	"github.com/ebscore/ebs/parser"
	"github.com/ebscore/ebs/value"
)

type checkFlags struct {
	configPath string
}

// checkCmd parses and binds a script without running it (spec §6.5's
// structured diagnostics exist precisely so a caller can validate a
// script this way, with no side effect on a Host).
func checkCmd() *cobra.Command {
	flags := &checkFlags{}
	cmd := &cobra.Command{
		Use:   "check <script.ebs>",
		Short: "Parse and bind a script without executing it",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return checkScript(args[0], flags)
		},
	}
	cmd.Flags().StringVarP(&flags.configPath, "config", "c", "", "Path to a TOML runtime configuration file")
	return cmd
}

func checkScript(path string, flags *checkFlags) error {
	cfg, err := loadConfig(flags.configPath)
	if err != nil {
		return err
	}
	configureLogging(cfg.LogLevel)

	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("ebs check: read %q: %w", path, err)
	}

	p, program, diags := parseProgram(path, string(src))
	if len(diags) > 0 {
		for _, d := range diags {
			fmt.Fprintln(os.Stderr, d.Error())
		}
		return fmt.Errorf("parsing failed with %d error(s)", len(diags))
	}

	// Binding only needs a throwaway Interp to derive the builtin
	// signature table; it is never Run.
	it := interp.New(value.NewArena(), env.New(), p.Types, builtin.New(), newCLIHost(cfg), env.NewScreenVars(), nil)
	if errs := parser.Bind(program, it.BuiltinSignatures()); len(errs) > 0 {
		printDiagnosticLines(bindErrorsToLines(errs))
		return fmt.Errorf("binding failed with %d error(s)", len(errs))
	}

	fmt.Printf("%s: ok (%d statement(s), %d block(s))\n", path, len(program.Statements), len(program.Blocks))
	return nil
}
