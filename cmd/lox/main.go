// Command lox is the interpreter's command-line entry point: a tree-
// walking front end (run/repl/tokenize/parse/resolve) and a bytecode
// front end (vmrun/vmrepl) sharing one scanner/grammar.
package main

import "os"

func main() {
	os.Exit(Execute())
}
