package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"paston/pkg/compiler"
	"paston/pkg/utils"
)

// options shared by every sub-command.
type options struct {
	outDir string
	quiet  bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "paston [file.pas]",
		Short: "Paston compiler front end",
		Long: `paston lexes, parses and checks a Paston source file and lowers it to
three-address code.

Commands:
  tac      Print the three-address code (default)
  tokens   Print the token stream
  ast      Print the syntax tree
  check    Run semantic analysis only
  symbols  Print the global symbol table
`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			return runTAC(cmd.OutOrStdout(), args[0], opts)
		},
	}

	root.PersistentFlags().StringVarP(&opts.outDir, "out", "o", "", "directory to write <name>.tac into")
	root.PersistentFlags().BoolVarP(&opts.quiet, "quiet", "q", false, "suppress lexical warnings")

	root.AddCommand(
		fileCmd("tac", "Print the three-address code", func(w io.Writer, path string) error {
			return runTAC(w, path, opts)
		}),
		fileCmd("tokens", "Print the token stream", func(w io.Writer, path string) error {
			return runTokens(w, path, opts)
		}),
		fileCmd("ast", "Print the syntax tree", func(w io.Writer, path string) error {
			return runAST(w, path, opts)
		}),
		fileCmd("check", "Run semantic analysis only", func(w io.Writer, path string) error {
			return runCheck(w, path, opts)
		}),
		fileCmd("symbols", "Print the global symbol table", func(w io.Writer, path string) error {
			return runSymbols(w, path, opts)
		}),
	)
	return root
}

func fileCmd(name, short string, run func(w io.Writer, path string) error) *cobra.Command {
	return &cobra.Command{
		Use:   name + " <file.pas>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.OutOrStdout(), args[0])
		},
	}
}

func readSource(path string) (string, error) {
	fullPath, err := utils.ResolveSource(path)
	if err != nil {
		return "", err
	}
	src, err := os.ReadFile(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to read input file %q: %w", path, err)
	}
	return string(src), nil
}

func warn(path string, errs []error, opts *options) {
	if opts.quiet {
		return
	}
	for _, err := range errs {
		log.Printf("%s: warning: %v", path, err)
	}
}

// compile runs the full pipeline and reports skipped characters.
func compile(path string, opts *options) (*compiler.Result, error) {
	src, err := readSource(path)
	if err != nil {
		return nil, err
	}
	res, err := compiler.Compile(src)
	warn(path, res.LexErrors, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return res, nil
}

func runTAC(w io.Writer, path string, opts *options) error {
	res, err := compile(path, opts)
	if err != nil {
		return err
	}
	listing := compiler.Listing(res.Code)

	if opts.outDir == "" {
		_, err := io.WriteString(w, listing)
		return err
	}

	if err := os.MkdirAll(opts.outDir, 0o755); err != nil {
		return err
	}
	out := utils.OutputPath(opts.outDir, path, ".tac")
	if err := os.WriteFile(out, []byte(listing), 0o644); err != nil {
		return fmt.Errorf("failed to write %q: %w", out, err)
	}
	fmt.Fprintf(w, "compiled %d instructions -> %s\n", len(res.Code), out)
	return nil
}

func runTokens(w io.Writer, path string, opts *options) error {
	src, err := readSource(path)
	if err != nil {
		return err
	}
	lex := compiler.NewLexer(src)
	for _, tok := range lex.Tokens() {
		fmt.Fprintln(w, tok)
	}
	warn(path, lex.Errors(), opts)
	return nil
}

func runAST(w io.Writer, path string, opts *options) error {
	src, err := readSource(path)
	if err != nil {
		return err
	}
	lex := compiler.NewLexer(src)
	warn(path, lex.Errors(), opts)
	prog, err := compiler.Parse(lex.Tokens(), src)
	if err != nil {
		return fmt.Errorf("%s: parse: %w", path, err)
	}
	_, err = io.WriteString(w, prog.Dump())
	return err
}

// analyse stops after semantic analysis.
func analyse(path string, opts *options) (*compiler.Checked, error) {
	src, err := readSource(path)
	if err != nil {
		return nil, err
	}
	lex := compiler.NewLexer(src)
	warn(path, lex.Errors(), opts)
	prog, err := compiler.Parse(lex.Tokens(), src)
	if err != nil {
		return nil, fmt.Errorf("%s: parse: %w", path, err)
	}
	checked, err := compiler.Check(prog)
	if err != nil {
		return nil, fmt.Errorf("%s: check: %w", path, err)
	}
	return checked, nil
}

func runCheck(w io.Writer, path string, opts *options) error {
	checked, err := analyse(path, opts)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "%s: ok (%d top-level items)\n", path, len(checked.Program.Stmts))
	return nil
}

func runSymbols(w io.Writer, path string, opts *options) error {
	checked, err := analyse(path, opts)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, checked.Globals.String())
	return err
}
