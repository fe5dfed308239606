package main

import (
	"os"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"lox/internal/bytecode/compiler"
	"lox/internal/bytecode/debug"
	"lox/internal/bytecode/vm"
	"lox/internal/loxerror"
	"lox/internal/pipeline"
)

func newVMRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "vmrun <file>",
		Short: "Compile and run a single Lox expression with the bytecode VM",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			lastExitCode = int(runVM(string(src)))
			return nil
		},
	}
}

func newVMReplCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "vmrepl",
		Short: "Start an interactive bytecode VM session, one expression per line",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rl, err := readline.New("vm> ")
			if err != nil {
				return err
			}
			defer rl.Close()

			for {
				line, err := rl.Readline()
				if err != nil {
					return nil
				}
				runVM(line)
			}
		},
	}
}

func runVM(src string) pipeline.ExitCode {
	errs := loxerror.New()
	c := compiler.New(src, errs)
	chunk, ok := c.Compile()
	if !ok {
		errs.PrintAll(os.Stderr)
		return pipeline.ExitStatic
	}

	if debugMode {
		debug.Disassemble(os.Stdout, chunk, "script")
	}

	machine := vm.New(os.Stdout, errs, debugMode)
	if machine.Interpret(chunk) == vm.RuntimeError {
		return pipeline.ExitRuntime
	}
	return pipeline.ExitOK
}
