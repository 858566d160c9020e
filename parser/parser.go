// Package parser builds an ast.Program from a token stream, recording
// recoverable errors instead of aborting.
package parser

import (
	"fmt"

	"github.com/Verseth/miniruby/ast"
	"github.com/Verseth/miniruby/lexer"
)

// Parser is a recursive-descent parser with a precomputed token buffer
// (so arbitrary lookahead is just an index bump, not a streaming
// pushback).
type Parser struct {
	tokens []lexer.Token
	pos    int
	errors []string
}

// New creates a Parser over already-lexed tokens.
func New(tokens []lexer.Token) *Parser {
	if len(tokens) == 0 {
		tokens = []lexer.Token{{Kind: lexer.END_OF_FILE}}
	}
	return &Parser{tokens: tokens}
}

// Parse lexes and parses source in one step, matching the `parse`
// entry point of the external API.
func Parse(source string) (*ast.Program, []string) {
	p := New(lexer.Tokenize(source))
	prog := p.parseProgram()
	return prog, p.errors
}

func (p *Parser) cur() lexer.Token {
	return p.tokens[p.pos]
}

func (p *Parser) peekAt(n int) lexer.Token {
	i := p.pos + n
	if i >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[i]
}

func (p *Parser) advance() lexer.Token {
	tok := p.tokens[p.pos]
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return tok
}

func (p *Parser) errorf(format string, args ...interface{}) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

// ---------------------------------------------------------------------
// Program / statements
// ---------------------------------------------------------------------

func (p *Parser) parseProgram() *ast.Program {
	start := p.cur().Span
	p.skipSeparators()

	var statements []ast.Stmt
	for p.cur().Kind != lexer.END_OF_FILE {
		stmt := p.parseStatement()
		stmt = p.finishStatement(stmt)
		statements = append(statements, stmt)
	}

	end := p.cur().Span
	if len(statements) > 0 {
		start = statements[0].Span()
		end = statements[len(statements)-1].Span()
	}
	return &ast.Program{SpanVal: ast.Join(ast.Span{Start: start.Start, End: start.Start}, end), Statements: statements}
}

func (p *Parser) skipSeparators() {
	for p.cur().Kind == lexer.NEWLINE || p.cur().Kind == lexer.SEMICOLON {
		p.advance()
	}
}

// parseStatement parses one `expression` statement, or forwards a
// lexer ERROR token as an Invalid node without emitting its own
// "expected X" diagnostic (the lexer already described the problem).
func (p *Parser) parseStatement() ast.Stmt {
	if p.cur().Kind == lexer.ERROR {
		tok := p.advance()
		p.errorf("%s", tok.Lexeme)
		return &ast.Invalid{SpanVal: tok.Span, Lexeme: tok.Lexeme}
	}
	expr := p.parseExpression()
	return &ast.ExpressionStatement{SpanVal: expr.Span(), Expression: expr}
}

// finishStatement consumes the statement's trailing separator (if
// any), extending the statement's span to cover it, and records a
// diagnostic if a separator was required but something else followed.
// END_OF_FILE and the stop keywords of an enclosing block are
// acceptable terminators too; use finishStatementUntil for those.
func (p *Parser) finishStatement(stmt ast.Stmt) ast.Stmt {
	return p.finishStatementUntil(stmt)
}

func (p *Parser) finishStatementUntil(stmt ast.Stmt, alsoFine ...lexer.Kind) ast.Stmt {
	switch p.cur().Kind {
	case lexer.NEWLINE, lexer.SEMICOLON:
		sep := p.advance()
		stmt = extendSpan(stmt, sep.Span)
		p.skipSeparators()
	case lexer.END_OF_FILE, lexer.ERROR:
		// EOF needs no separator; a lexer ERROR is reported when the
		// next loop iteration consumes it as its own Invalid statement.
	default:
		for _, k := range alsoFine {
			if p.cur().Kind == k {
				return stmt
			}
		}
		p.errorf("unexpected %s, expected a statement separator", p.cur().Kind)
	}
	return stmt
}

func extendSpan(stmt ast.Stmt, extra ast.Span) ast.Stmt {
	switch s := stmt.(type) {
	case *ast.ExpressionStatement:
		s.SpanVal = ast.Join(s.SpanVal, extra)
		return s
	case *ast.Invalid:
		s.SpanVal = ast.Join(s.SpanVal, extra)
		return s
	default:
		return stmt
	}
}

// parseBlockStatements parses `{ statement }` until one of stop's
// kinds (or EOF) is reached, used for if/while bodies.
func (p *Parser) parseBlockStatements(stop ...lexer.Kind) []ast.Stmt {
	p.skipSeparators()
	var stmts []ast.Stmt
	for !p.atAny(stop...) && p.cur().Kind != lexer.END_OF_FILE {
		stmt := p.parseStatement()
		stmt = p.finishStatementUntil(stmt, stop...)
		stmts = append(stmts, stmt)
	}
	return stmts
}

func (p *Parser) atAny(kinds ...lexer.Kind) bool {
	cur := p.cur().Kind
	for _, k := range kinds {
		if cur == k {
			return true
		}
	}
	return false
}

// ---------------------------------------------------------------------
// Expressions, precedence-layered: assignment > equality > comparison
// > additive > multiplicative > unary > call > primary.
// ---------------------------------------------------------------------

func (p *Parser) parseExpression() ast.Expr {
	return p.parseAssignment()
}

func (p *Parser) parseAssignment() ast.Expr {
	left := p.parseEquality()
	if p.cur().Kind != lexer.EQUAL {
		return left
	}
	p.advance() // consume '='
	p.skipContinuationNewlines()
	value := p.parseAssignment() // right-associative

	if _, ok := left.(*ast.Identifier); !ok {
		p.errorf("unexpected `%s`, expected an identifier", exprDescription(left))
	}
	return &ast.Assignment{
		SpanVal: ast.Join(left.Span(), value.Span()),
		Target:  left,
		Value:   value,
	}
}

func exprDescription(e ast.Expr) string {
	switch e.(type) {
	case *ast.IntegerLiteral:
		return "INTEGER"
	case *ast.FloatLiteral:
		return "FLOAT"
	case *ast.StringLiteral:
		return "STRING"
	default:
		return "expression"
	}
}

// skipContinuationNewlines consumes newlines right after a binary
// operator token: a newline never terminates an expression mid-operator.
func (p *Parser) skipContinuationNewlines() {
	for p.cur().Kind == lexer.NEWLINE {
		p.advance()
	}
}

func (p *Parser) parseEquality() ast.Expr {
	left := p.parseComparison()
	for p.cur().Kind == lexer.EQUAL_EQUAL || p.cur().Kind == lexer.NOT_EQUAL {
		op := p.advance()
		p.skipContinuationNewlines()
		right := p.parseComparison()
		left = &ast.Binary{
			SpanVal:  ast.Join(left.Span(), right.Span()),
			Operator: binaryOpFor(op.Kind),
			Left:     left,
			Right:    right,
		}
	}
	return left
}

func (p *Parser) parseComparison() ast.Expr {
	left := p.parseAdditive()
	for p.atAny(lexer.GREATER, lexer.GREATER_EQUAL, lexer.LESS, lexer.LESS_EQUAL) {
		op := p.advance()
		p.skipContinuationNewlines()
		right := p.parseAdditive()
		left = &ast.Binary{
			SpanVal:  ast.Join(left.Span(), right.Span()),
			Operator: binaryOpFor(op.Kind),
			Left:     left,
			Right:    right,
		}
	}
	return left
}

func (p *Parser) parseAdditive() ast.Expr {
	left := p.parseMultiplicative()
	for p.cur().Kind == lexer.PLUS || p.cur().Kind == lexer.MINUS {
		op := p.advance()
		p.skipContinuationNewlines()
		right := p.parseMultiplicative()
		left = &ast.Binary{
			SpanVal:  ast.Join(left.Span(), right.Span()),
			Operator: binaryOpFor(op.Kind),
			Left:     left,
			Right:    right,
		}
	}
	return left
}

func (p *Parser) parseMultiplicative() ast.Expr {
	left := p.parseUnary()
	for p.cur().Kind == lexer.STAR || p.cur().Kind == lexer.SLASH {
		op := p.advance()
		p.skipContinuationNewlines()
		right := p.parseUnary()
		left = &ast.Binary{
			SpanVal:  ast.Join(left.Span(), right.Span()),
			Operator: binaryOpFor(op.Kind),
			Left:     left,
			Right:    right,
		}
	}
	return left
}

func (p *Parser) parseUnary() ast.Expr {
	switch p.cur().Kind {
	case lexer.BANG:
		op := p.advance()
		operand := p.parseUnary()
		return &ast.Unary{SpanVal: ast.Join(op.Span, operand.Span()), Operator: ast.UnaryNot, Operand: operand}
	case lexer.MINUS:
		op := p.advance()
		operand := p.parseUnary()
		return &ast.Unary{SpanVal: ast.Join(op.Span, operand.Span()), Operator: ast.UnaryNegate, Operand: operand}
	case lexer.PLUS:
		op := p.advance()
		operand := p.parseUnary()
		return &ast.Unary{SpanVal: ast.Join(op.Span, operand.Span()), Operator: ast.UnaryPlus, Operand: operand}
	default:
		return p.parseCall()
	}
}

func (p *Parser) parseCall() ast.Expr {
	prim := p.parsePrimary()
	ident, ok := prim.(*ast.Identifier)
	if !ok || p.cur().Kind != lexer.LPAREN {
		return prim
	}
	p.advance() // consume '('
	p.skipContinuationNewlines()

	var args []ast.Expr
	if p.cur().Kind != lexer.RPAREN {
		args = append(args, p.parseExpression())
		p.skipContinuationNewlines()
		for p.cur().Kind == lexer.COMMA {
			p.advance()
			p.skipContinuationNewlines()
			if p.cur().Kind == lexer.RPAREN {
				break // trailing comma
			}
			args = append(args, p.parseExpression())
			p.skipContinuationNewlines()
		}
	}

	closeSpan := ident.Span()
	if p.cur().Kind == lexer.RPAREN {
		closeTok := p.advance()
		closeSpan = closeTok.Span
	} else {
		p.errorf("unexpected %s, expected `)`", p.cur().Kind)
	}

	return &ast.FunctionCall{
		SpanVal:   ast.Join(ident.Span(), closeSpan),
		Name:      ident.Name,
		Arguments: args,
	}
}

func (p *Parser) parsePrimary() ast.Expr {
	tok := p.cur()
	switch tok.Kind {
	case lexer.INTEGER:
		p.advance()
		return &ast.IntegerLiteral{SpanVal: tok.Span, Digits: tok.Lexeme}
	case lexer.FLOAT:
		p.advance()
		return &ast.FloatLiteral{SpanVal: tok.Span, Digits: tok.Lexeme}
	case lexer.STRING:
		p.advance()
		return &ast.StringLiteral{SpanVal: tok.Span, Decoded: tok.Lexeme}
	case lexer.TRUE:
		p.advance()
		return &ast.TrueLiteral{SpanVal: tok.Span}
	case lexer.FALSE:
		p.advance()
		return &ast.FalseLiteral{SpanVal: tok.Span}
	case lexer.NIL:
		p.advance()
		return &ast.NilLiteral{SpanVal: tok.Span}
	case lexer.SELF:
		p.advance()
		return &ast.SelfLiteral{SpanVal: tok.Span}
	case lexer.IDENTIFIER:
		p.advance()
		return &ast.Identifier{SpanVal: tok.Span, Name: tok.Lexeme}
	case lexer.RETURN:
		return p.parseReturn()
	case lexer.IF:
		return p.parseIf()
	case lexer.WHILE:
		return p.parseWhile()
	case lexer.LPAREN:
		p.advance()
		p.skipContinuationNewlines()
		inner := p.parseExpression()
		p.skipContinuationNewlines()
		if p.cur().Kind == lexer.RPAREN {
			p.advance()
		} else {
			p.errorf("unexpected %s, expected `)`", p.cur().Kind)
		}
		return inner
	case lexer.ERROR:
		p.advance()
		p.errorf("%s", tok.Lexeme)
		return &ast.Invalid{SpanVal: tok.Span, Lexeme: tok.Lexeme}
	default:
		p.advance() // consume the lookahead so the parser always makes progress
		p.errorf("unexpected %s, expected an expression", tok.Kind)
		return &ast.Invalid{SpanVal: tok.Span, Lexeme: tok.Kind.String()}
	}
}

func (p *Parser) parseReturn() ast.Expr {
	retTok := p.advance()
	if p.atAny(lexer.NEWLINE, lexer.SEMICOLON, lexer.END_OF_FILE, lexer.END, lexer.ELSE) {
		return &ast.Return{SpanVal: retTok.Span}
	}
	value := p.parseExpression()
	return &ast.Return{SpanVal: ast.Join(retTok.Span, value.Span()), Value: value}
}

func (p *Parser) expectSeparatorBeforeBlock() {
	switch p.cur().Kind {
	case lexer.NEWLINE, lexer.SEMICOLON:
		p.advance()
		p.skipSeparators()
	default:
		p.errorf("unexpected %s, expected a statement separator", p.cur().Kind)
	}
}

func (p *Parser) parseIf() ast.Expr {
	ifTok := p.advance()
	cond := p.parseExpression()
	p.expectSeparatorBeforeBlock()

	thenStmts := p.parseBlockStatements(lexer.ELSE, lexer.END)

	var elseStmts []ast.Stmt
	if p.cur().Kind == lexer.ELSE {
		p.advance()
		if p.atAny(lexer.NEWLINE, lexer.SEMICOLON) {
			p.skipSeparators()
			elseStmts = p.parseBlockStatements(lexer.END)
		} else {
			expr := p.parseExpression()
			elseStmts = []ast.Stmt{&ast.ExpressionStatement{SpanVal: expr.Span(), Expression: expr}}
		}
	}

	endSpan := ifTok.Span
	if p.cur().Kind == lexer.END {
		endSpan = p.advance().Span
	} else {
		p.errorf("unexpected %s, expected `end`", p.cur().Kind)
	}

	return &ast.If{
		SpanVal:   ast.Join(ifTok.Span, endSpan),
		Condition: cond,
		Then:      thenStmts,
		Else:      elseStmts,
	}
}

func (p *Parser) parseWhile() ast.Expr {
	whileTok := p.advance()
	cond := p.parseExpression()
	p.expectSeparatorBeforeBlock()

	body := p.parseBlockStatements(lexer.END)

	endSpan := whileTok.Span
	if p.cur().Kind == lexer.END {
		endSpan = p.advance().Span
	} else {
		p.errorf("unexpected %s, expected `end`", p.cur().Kind)
	}

	return &ast.While{
		SpanVal:   ast.Join(whileTok.Span, endSpan),
		Condition: cond,
		Body:      body,
	}
}

func binaryOpFor(k lexer.Kind) ast.BinaryOp {
	switch k {
	case lexer.PLUS:
		return ast.BinaryAdd
	case lexer.MINUS:
		return ast.BinarySubtract
	case lexer.STAR:
		return ast.BinaryMultiply
	case lexer.SLASH:
		return ast.BinaryDivide
	case lexer.EQUAL_EQUAL:
		return ast.BinaryEqual
	case lexer.NOT_EQUAL:
		return ast.BinaryNotEqual
	case lexer.GREATER:
		return ast.BinaryGreater
	case lexer.GREATER_EQUAL:
		return ast.BinaryGreaterEqual
	case lexer.LESS:
		return ast.BinaryLess
	case lexer.LESS_EQUAL:
		return ast.BinaryLessEqual
	}
	panic(fmt.Sprintf("parser: %s is not a binary operator", k))
}

