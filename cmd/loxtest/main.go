// Command loxtest is a self-comparison harness: since this repo has
// no separately-built reference binary, it compares its own two
// backends against each other — the tree-walking interpreter and the
// bytecode VM — over testdata/expressions, the subset of programs
// (single expressions) both backends can run. It also golden-checks
// testdata/programs against tree-walking-only .out files, for
// features (statements, classes, closures) the VM backend doesn't
// reach.
//
// The side-by-side table and diff format is carried over from the
// teacher's external-reference test runner, adapted from comparing
// two processes' stdout to comparing two in-process pipelines'.
package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/exp/slices"

	"lox/internal/bytecode/compiler"
	"lox/internal/bytecode/vm"
	"lox/internal/loxerror"
	"lox/internal/pipeline"
)

const width = 100

type caseResult struct {
	name       string
	treeOutput string
	treeExit   int
	vmOutput   string
	vmExit     int
	passed     bool
}

func main() {
	exprResults, err := runExpressionCases("testdata/expressions")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	progResults, err := runProgramCases("testdata/programs")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	failed := printSection("expressions (tree vs vm)", exprResults)
	failed += printGoldenSection("programs (tree vs golden)", progResults)

	fmt.Println(strings.Repeat("=", width))
	fmt.Printf("%d case(s) failed\n", failed)
	if failed > 0 {
		os.Exit(1)
	}
}

// runExpressionCases runs every testdata/expressions/*.lox file
// through both backends and records their output.
func runExpressionCases(dir string) ([]caseResult, error) {
	paths, err := loxFiles(dir)
	if err != nil {
		return nil, err
	}

	var results []caseResult
	for _, p := range paths {
		src, err := os.ReadFile(p)
		if err != nil {
			return nil, err
		}
		expr := strings.TrimSpace(string(src))

		treeOut, treeExit := runTreeExpression(expr)
		vmOut, vmExit := runVMExpression(expr)

		// The two backends use different exit-code conventions (the
		// tree-walker exits 1 on any error, the VM keeps 65/70), so
		// only success-vs-failure is comparable across them, not the
		// literal code.
		results = append(results, caseResult{
			name:       filepath.Base(p),
			treeOutput: treeOut,
			treeExit:   treeExit,
			vmOutput:   vmOut,
			vmExit:     vmExit,
			passed:     treeOut == vmOut && (treeExit == 0) == (vmExit == 0),
		})
	}
	return results, nil
}

func runTreeExpression(expr string) (string, int) {
	var buf bytes.Buffer
	errs := loxerror.New()
	code := pipeline.Run([]byte("print "+expr+";"), &buf, errs)
	return buf.String(), int(code)
}

func runVMExpression(expr string) (string, int) {
	var buf bytes.Buffer
	errs := loxerror.New()
	c := compiler.New(expr, errs)
	chunk, ok := c.Compile()
	if !ok {
		return "", int(pipeline.ExitStatic)
	}
	machine := vm.New(&buf, errs, false)
	if machine.Interpret(chunk) == vm.RuntimeError {
		return buf.String(), int(pipeline.ExitRuntime)
	}
	return buf.String(), int(pipeline.ExitOK)
}

// golden is a tree-walking-only comparison against a checked-in
// <name>.lox.out file, for programs the VM backend has no way to run.
type golden struct {
	name     string
	expected string
	actual   string
	passed   bool
}

func runProgramCases(dir string) ([]golden, error) {
	paths, err := loxFiles(dir)
	if err != nil {
		return nil, err
	}

	var results []golden
	for _, p := range paths {
		src, err := os.ReadFile(p)
		if err != nil {
			return nil, err
		}
		expectedBytes, err := os.ReadFile(p + ".out")
		if err != nil {
			return nil, fmt.Errorf("missing golden file for %s: %w", p, err)
		}

		var buf bytes.Buffer
		errs := loxerror.New()
		pipeline.Run(src, &buf, errs)
		errs.PrintAll(&buf)

		results = append(results, golden{
			name:     filepath.Base(p),
			expected: string(expectedBytes),
			actual:   buf.String(),
			passed:   string(expectedBytes) == buf.String(),
		})
	}
	return results, nil
}

func loxFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var paths []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".lox") {
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	slices.Sort(paths)
	return paths, nil
}

func printSection(title string, results []caseResult) int {
	fmt.Println(title)
	fmt.Println(strings.Repeat("-", width))
	failed := 0
	for _, r := range results {
		if r.passed {
			fmt.Printf("  [%s] %s\n", color.GreenString("passed"), r.name)
			continue
		}
		failed++
		fmt.Printf("  [%s] %s\n", color.RedString("failed"), r.name)
		fmt.Printf("    tree: exit=%d %q\n", r.treeExit, r.treeOutput)
		fmt.Printf("    vm:   exit=%d %q\n", r.vmExit, r.vmOutput)
	}
	fmt.Println()
	return failed
}

func printGoldenSection(title string, results []golden) int {
	fmt.Println(title)
	fmt.Println(strings.Repeat("-", width))
	failed := 0
	for _, r := range results {
		if r.passed {
			fmt.Printf("  [%s] %s\n", color.GreenString("passed"), r.name)
			continue
		}
		failed++
		fmt.Printf("  [%s] %s\n", color.RedString("failed"), r.name)
		fmt.Printf("    expected %q\n", r.expected)
		fmt.Printf("    actual   %q\n", r.actual)
	}
	fmt.Println()
	return failed
}
