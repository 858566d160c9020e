package lexer

import (
	"fmt"

	"github.com/Verseth/miniruby/ast"
)

// Kind identifies the lexical category of a Token.
type Kind int

const (
	// Structural
	NONE Kind = iota
	END_OF_FILE
	ERROR
	NEWLINE
	SEMICOLON
	COMMA
	LPAREN
	RPAREN

	// Operators
	EQUAL
	BANG
	EQUAL_EQUAL
	NOT_EQUAL
	GREATER
	GREATER_EQUAL
	LESS
	LESS_EQUAL
	PLUS
	MINUS
	STAR
	SLASH

	// Literals
	INTEGER
	FLOAT
	STRING
	IDENTIFIER

	// Keywords
	FALSE
	TRUE
	NIL
	SELF
	IF
	ELSE
	END
	WHILE
	RETURN
)

var kindNames = map[Kind]string{
	NONE:          "NONE",
	END_OF_FILE:   "EOF",
	ERROR:         "ERROR",
	NEWLINE:       "NEWLINE",
	SEMICOLON:     "SEMICOLON",
	COMMA:         "COMMA",
	LPAREN:        "LPAREN",
	RPAREN:        "RPAREN",
	EQUAL:         "EQUAL",
	BANG:          "BANG",
	EQUAL_EQUAL:   "EQUAL_EQUAL",
	NOT_EQUAL:     "NOT_EQUAL",
	GREATER:       "GREATER",
	GREATER_EQUAL: "GREATER_EQUAL",
	LESS:          "LESS",
	LESS_EQUAL:    "LESS_EQUAL",
	PLUS:          "PLUS",
	MINUS:         "MINUS",
	STAR:          "STAR",
	SLASH:         "SLASH",
	INTEGER:       "INTEGER",
	FLOAT:         "FLOAT",
	STRING:        "STRING",
	IDENTIFIER:    "IDENTIFIER",
	FALSE:         "FALSE",
	TRUE:          "TRUE",
	NIL:           "NIL",
	SELF:          "SELF",
	IF:            "IF",
	ELSE:          "ELSE",
	END:           "END",
	WHILE:         "WHILE",
	RETURN:        "RETURN",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// reservedWords maps keyword spelling to its token kind.
var reservedWords = map[string]Kind{
	"false":  FALSE,
	"true":   TRUE,
	"nil":    NIL,
	"self":   SELF,
	"if":     IF,
	"else":   ELSE,
	"end":    END,
	"while":  WHILE,
	"return": RETURN,
}

// Token is a single lexical token: a kind, its source span, and an
// optional lexeme (present for literals, identifiers, and errors).
type Token struct {
	Kind   Kind
	Span   ast.Span
	Lexeme string
}

func (t Token) String() string {
	if t.Lexeme == "" {
		return t.Kind.String()
	}
	return fmt.Sprintf("%s(%q)", t.Kind, t.Lexeme)
}
