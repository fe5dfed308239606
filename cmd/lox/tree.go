package main

import (
	"fmt"
	"os"

	"github.com/chzyer/readline"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"lox/internal/interpreter"
	"lox/internal/loxerror"
	"lox/internal/pipeline"
)

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run <file>",
		Short: "Run a Lox source file with the tree-walking interpreter",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			errs := loxerror.New()
			code := pipeline.Run(src, os.Stdout, errs)
			errs.PrintAll(os.Stderr)
			lastExitCode = int(code)
			return nil
		},
	}
}

func newTokenizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tokenize <file>",
		Short: "Print the token stream for a Lox source file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			errs := loxerror.New()
			for _, tok := range pipeline.Scan(src, errs) {
				fmt.Println(tok.String())
			}
			errs.PrintAll(os.Stderr)
			if errs.HadError {
				lastExitCode = int(pipeline.ExitError)
			}
			return nil
		},
	}
}

func newParseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse <file>",
		Short: "Print the parsed AST for a Lox source file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			errs := loxerror.New()
			prog := pipeline.Parse(src, errs)
			fmt.Print(prog.String())
			errs.PrintAll(os.Stderr)
			if errs.HadError {
				lastExitCode = int(pipeline.ExitError)
			}
			return nil
		},
	}
}

func newResolveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <file>",
		Short: "Parse and statically resolve a Lox source file, reporting scope errors",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			errs := loxerror.New()
			prog := pipeline.Resolve(src, errs)
			fmt.Print(prog.String())
			errs.PrintAll(os.Stderr)
			if errs.HadError {
				lastExitCode = int(pipeline.ExitError)
			}
			return nil
		},
	}
}

func newReplCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive tree-walking Lox session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rl, err := readline.New("> ")
			if err != nil {
				return err
			}
			defer rl.Close()

			errs := loxerror.New()
			// One Interpreter persists across lines so variables and
			// functions declared on one line are visible on the next —
			// only the error flags reset per line.
			it := interpreter.New(errs, os.Stdout)
			for {
				line, err := rl.Readline()
				if err != nil {
					return nil
				}
				prog := pipeline.Resolve([]byte(line), errs)
				if !errs.HadError {
					it.Run(prog)
				}
				if errs.HadError || errs.HadRuntimeError {
					errs.PrintAll(os.Stderr)
					fmt.Fprintln(os.Stderr, color.RedString("error"))
				}
				errs.Reset()
			}
		},
	}
}
