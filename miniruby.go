// Package miniruby is the embedding API for the MiniRuby interpreter:
// lex, parse, compile, and run source text without touching the
// lexer/parser/bytecode packages directly.
package miniruby

import (
	"io"
	"strings"

	"github.com/pkg/errors"

	"github.com/Verseth/miniruby/ast"
	"github.com/Verseth/miniruby/lexer"
	"github.com/Verseth/miniruby/parser"
	"github.com/Verseth/miniruby/pkg/bytecode"
)

// Lex tokenizes source, terminating with a single END_OF_FILE token.
func Lex(source string) []lexer.Token {
	return lexer.Tokenize(source)
}

// Parse builds a syntax tree for source. Parsing never fails outright:
// it always returns a tree, possibly containing ast.Invalid nodes,
// plus the accumulated lex/parse error messages.
func Parse(source string) (*ast.Program, []string) {
	return parser.Parse(source)
}

// CompileChunk parses and compiles source into a chunk named after
// filename. Parser and compiler errors are aggregated into a single
// error; a non-nil error means the returned chunk is nil.
func CompileChunk(source, filename string) (*bytecode.Chunk, error) {
	prog, parseErrors := parser.Parse(source)
	if len(parseErrors) > 0 {
		return nil, errors.Errorf("miniruby: %s", strings.Join(parseErrors, "; "))
	}

	chunk, compileErrors := bytecode.Compile(prog, filename, filename)
	if len(compileErrors) > 0 {
		msgs := make([]string, len(compileErrors))
		for i, e := range compileErrors {
			msgs[i] = e.Error()
		}
		return nil, errors.Errorf("miniruby: %s", strings.Join(msgs, "; "))
	}
	return chunk, nil
}

// Interpret compiles source and runs it to completion, returning the
// value RETURN left on top of the VM's stack.
func Interpret(source, filename string, stdout io.Writer, stdin io.Reader) (bytecode.Value, error) {
	chunk, err := CompileChunk(source, filename)
	if err != nil {
		return bytecode.Value{}, err
	}

	v := bytecode.New(stdout, stdin)
	result, err := v.Run(chunk)
	if err != nil {
		return bytecode.Value{}, errors.Wrap(err, "miniruby: runtime error")
	}
	return result, nil
}
