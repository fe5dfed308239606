package main

import (
	"os"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	easy "github.com/t-tomalak/logrus-easy-formatter"
)

var (
	debugMode bool
	logLevel  string
	log       = logrus.New()
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "lox",
		Short: "A tree-walking and bytecode interpreter for Lox",
		Long: heredoc.Doc(`
			lox runs Lox programs two ways: a tree-walking interpreter
			(run, repl, tokenize, parse, resolve) and a bytecode compiler
			and VM (vmrun, vmrepl). Both share one scanner and grammar, so
			a program means the same thing under either.
		`),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return configureLogging()
		},
	}

	root.PersistentFlags().BoolVar(&debugMode, "debug", false, "trace bytecode execution and print disassembly")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level: trace, debug, info, warn, error")

	root.AddCommand(
		newRunCmd(),
		newReplCmd(),
		newTokenizeCmd(),
		newParseCmd(),
		newResolveCmd(),
		newVMRunCmd(),
		newVMReplCmd(),
	)
	return root
}

func configureLogging() error {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		return err
	}
	log.SetLevel(level)
	log.SetFormatter(&easy.Formatter{
		TimestampFormat: "15:04:05",
		LogFormat:       "[%lvl%] %time% %msg%\n",
	})
	log.SetOutput(os.Stderr)
	return nil
}

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		log.Error(err)
		return 1
	}
	return lastExitCode
}

// lastExitCode lets a subcommand report a Lox-level exit status (65,
// 70) through Execute without cobra's RunE forcing a generic 1.
var lastExitCode int
