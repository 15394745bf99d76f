// This is the main-driver for quillc.
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	heredoc "github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/quill-lang/quillc/compiler"
	"github.com/quill-lang/quillc/config"
	"github.com/quill-lang/quillc/parser"
)

var (
	debug      bool
	configPath string
)

func main() {
	root := &cobra.Command{
		Use:   "quillc",
		Short: "A compiler for the Quill language",
		Long: heredoc.Doc(`
			quillc compiles Quill - a small C-like language of typed
			declarations, assignments, if/while control flow, and
			functions - into the line-oriented assembly text format a
			graphing-calculator-style execution substrate expects.

			quillc never invokes that substrate itself: its output is
			assembly text on stdout, ready for a downstream packager to
			splice into the target's register/expression system.
		`),
	}
	root.PersistentFlags().BoolVar(&debug, "debug", false, "trace parse/lowering stages to stderr")
	root.PersistentFlags().StringVar(&configPath, "config", "quillc.yaml", "optional config file overriding the reserved-sigil policy")

	root.AddCommand(compileCmd())
	root.AddCommand(replCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func compileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "compile <path>",
		Short: "Compile a Quill source file to assembly text",
		Long: heredoc.Doc(`
			compile reads the Quill program at <path>, compiles it, and
			writes the resulting assembly text to stdout. On any parse or
			semantic error it writes a diagnostic to stderr and exits
			nonzero; nothing is written to stdout in that case.
		`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loadConfig()

			src, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			c := compiler.New(string(src))
			c.SetDebug(debug)

			out, err := c.Compile()
			if err != nil {
				printDiagnostic(err)
				os.Exit(1)
			}
			fmt.Print(out)
			return nil
		},
	}
}

func replCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Compile Quill statements interactively",
		Long: heredoc.Doc(`
			repl reads one line at a time from stdin, compiles it
			together with every earlier line that compiled, and prints
			the assembly text of the whole program so far. A line whose
			addition does not compile is reported and dropped. It is a
			convenience for exploring
			the emitted assembly shape without round-tripping through a
			file; it does not introduce any new compiler codepath.
		`),
		RunE: func(cmd *cobra.Command, args []string) error {
			loadConfig()
			runRepl(cmd.InOrStdin(), cmd.OutOrStdout())
			return nil
		},
	}
}

// runRepl accumulates statements into a single growing source buffer
// and recompiles it from scratch on every line, so a malformed later
// statement never corrupts the state built from earlier ones (the
// compiler package itself is single-pass and stateless between
// calls, per spec.md §4.4).
func runRepl(in io.Reader, out io.Writer) {
	scanner := bufio.NewScanner(in)
	var source strings.Builder

	fmt.Fprintln(out, "quillc repl - enter statements terminated by ';', Ctrl-D to exit")
	for {
		fmt.Fprint(out, "quill> ")
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}

		candidate := source.String() + line + "\n"
		c := compiler.New(candidate)
		c.SetDebug(debug)

		asmText, err := c.Compile()
		if err != nil {
			fmt.Fprintf(out, "error: %s\n", err)
			continue
		}

		source.Reset()
		source.WriteString(candidate)
		fmt.Fprint(out, asmText)
	}
}

// loadConfig reads the optional config file and installs its
// reserved-sigil policy into the parser package before any compile
// runs (spec.md §6's "exact policy is a per-variant concern").
func loadConfig() {
	cfg, err := config.Load(configPath)
	if err != nil {
		printDiagnostic(err)
		return
	}
	parser.SetReservedSigils(cfg.Sigils())
}

// printDiagnostic writes err to stderr, colorized when stderr is a
// terminal and left plain when piped - spec.md §7's error taxonomy
// gives every error a Kind/Name to report, this just decides how to
// present it.
func printDiagnostic(err error) {
	msg := err.Error()
	if term.IsTerminal(int(os.Stderr.Fd())) {
		fmt.Fprintf(os.Stderr, "\x1b[31merror:\x1b[0m %s\n", msg)
		return
	}
	fmt.Fprintf(os.Stderr, "error: %s\n", msg)
}
