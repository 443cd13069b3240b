package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ebscore/ebs/ast"
	"github.com/ebscore/ebs/builtin"
	"github.com/ebscore/ebs/diagnostics"
	"github.com/ebscore/ebs/env"
	"github.com/ebscore/ebs/interp"
	"github.com/ebscore/ebs/lexer"
	"github.com/ebscore/ebs/parser"
	"github.com/ebscore/ebs/source"
	"github.com/ebscore/ebs/typereg"
	"github.com/ebscore/ebs/value"
)

type replFlags struct {
	configPath string
}

func replCmd() *cobra.Command {
	flags := &replFlags{}
	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive EBS session",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runREPL(flags)
		},
	}
	cmd.Flags().StringVarP(&flags.configPath, "config", "c", "", "Path to a TOML runtime configuration file")
	return cmd
}

// runREPL keeps one Environment/Arena/type-registry triple alive across
// every submitted statement, the way a session-scoped interpreter must
// (spec §3.5: globals persist for the program's lifetime); a named
// block declared on one line has to still be callable on the next, so
// each program's freshly-hoisted Blocks are folded into a session-wide
// map before binding picks them up.
func runREPL(flags *replFlags) error {
	cfg, err := loadConfig(flags.configPath)
	if err != nil {
		return err
	}
	configureLogging(cfg.LogLevel)

	types := typereg.New()
	globals := env.New()
	arena := value.NewArena()
	screenVars := env.NewScreenVars()
	builtins := builtin.New()
	h := newCLIHost(cfg)
	blocks := map[string]*ast.BlockStatement{}

	it := interp.New(arena, globals, types, builtins, h, screenVars, nil)

	scanner := bufio.NewScanner(os.Stdin)
	fmt.Print("ebs> ")
	var buf strings.Builder
	for scanner.Scan() {
		buf.WriteString(scanner.Text())
		buf.WriteByte('\n')

		if !replReady(buf.String()) {
			fmt.Print("...  ")
			continue
		}

		src := buf.String()
		buf.Reset()

		l := lexer.New(src)
		sbuf := source.New("repl", src)
		p := parser.New(l, sbuf)
		p.Types = types
		program := p.ParseProgram()
		if errs := p.Errors(); len(errs) > 0 {
			printDiagnosticLines(errs)
			fmt.Print("ebs> ")
			continue
		}
		for name, blk := range blocks {
			if _, exists := program.Blocks[name]; !exists {
				program.Blocks[name] = blk
			}
		}

		if bindErrs := parser.Bind(program, it.BuiltinSignatures()); len(bindErrs) > 0 {
			printDiagnosticLines(bindErrorsToLines(bindErrs))
			fmt.Print("ebs> ")
			continue
		}
		for name, blk := range program.Blocks {
			blocks[name] = blk
		}

		if err := it.Run(program); err != nil {
			if exc, ok := err.(*interp.Exception); ok {
				fmt.Fprintln(os.Stderr, diagnostics.FromException(exc, "repl").Error())
			} else {
				fmt.Fprintln(os.Stderr, err)
			}
		}
		fmt.Print("ebs> ")
	}
	fmt.Println()
	return scanner.Err()
}

// replReady reports whether the accumulated buffer is a complete
// statement: braces balanced and the last non-blank line ends with `;`
// or `}` (a compound statement's own closing brace needs no trailing
// semicolon).
func replReady(buf string) bool {
	depth := 0
	for _, r := range buf {
		switch r {
		case '{':
			depth++
		case '}':
			depth--
		}
	}
	if depth > 0 {
		return false
	}
	trimmed := strings.TrimSpace(buf)
	if trimmed == "" {
		return false
	}
	return strings.HasSuffix(trimmed, ";") || strings.HasSuffix(trimmed, "}")
}
