// Command miniruby runs, lexes, parses, or disassembles MiniRuby
// source files from the command line.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"

	"github.com/Verseth/miniruby"
	"github.com/Verseth/miniruby/config"
	"github.com/Verseth/miniruby/lexer"
	"github.com/Verseth/miniruby/parser"
	"github.com/Verseth/miniruby/pkg/bytecode"
)

func main() {
	flag.Usage = usage
	flag.Parse()

	args := flag.Args()
	if len(args) < 1 {
		usage()
		os.Exit(2)
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "run":
		run(rest)
	case "tokens":
		tokens(rest)
	case "ast":
		showAST(rest)
	case "disasm":
		disasm(rest)
	default:
		fmt.Fprintf(os.Stderr, "miniruby: unknown command %q\n", cmd)
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: miniruby <command> [file]\n\n")
	fmt.Fprintf(os.Stderr, "Commands:\n")
	fmt.Fprintf(os.Stderr, "  run FILE      compile and execute a source file\n")
	fmt.Fprintf(os.Stderr, "  tokens FILE   print the token stream\n")
	fmt.Fprintf(os.Stderr, "  ast FILE      print the parsed syntax tree\n")
	fmt.Fprintf(os.Stderr, "  disasm FILE   print compiled bytecode\n")
}

func readSource(args []string) (string, string) {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "miniruby: missing file argument")
		os.Exit(2)
	}
	path := args[0]
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "miniruby: %v\n", err)
		os.Exit(1)
	}
	return string(data), path
}

func loadLimits() {
	cfg, err := config.Load(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "miniruby: warning: %v\n", err)
		return
	}
	bytecode.SetLimits(bytecode.Limits{
		ValuePoolLimit:  cfg.Limits.ValuePoolLimit,
		LocalLimit:      cfg.Limits.LocalLimit,
		MaxJumpDistance: cfg.Limits.MaxJumpDistance,
	})
}

func run(args []string) {
	loadLimits()
	source, path := readSource(args)

	result, err := miniruby.Interpret(source, path, os.Stdout, bufio.NewReader(os.Stdin))
	if err != nil {
		fmt.Fprintf(os.Stderr, "miniruby: %v\n", err)
		os.Exit(1)
	}
	_ = result
}

func tokens(args []string) {
	source, _ := readSource(args)
	for _, tok := range lexer.Tokenize(source) {
		fmt.Println(tok.String())
	}
}

func showAST(args []string) {
	source, _ := readSource(args)
	prog, errs := parser.Parse(source)
	for _, e := range errs {
		fmt.Fprintf(os.Stderr, "miniruby: %s\n", e)
	}
	for _, stmt := range prog.Statements {
		fmt.Printf("%#v\n", stmt)
	}
}

func disasm(args []string) {
	loadLimits()
	source, path := readSource(args)
	chunk, err := miniruby.CompileChunk(source, path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "miniruby: %v\n", err)
		os.Exit(1)
	}
	chunk.DisassembleColor(os.Stdout)
}
