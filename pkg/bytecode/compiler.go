package bytecode

import (
	"fmt"
	"strconv"

	"github.com/Verseth/miniruby/ast"
)

const predefinedLocals = 1

// Compiler walks a parsed Program once and emits a Chunk. Errors are
// accumulated rather than raised immediately; Compile discards the
// chunk and returns the error list if any were recorded.
type Compiler struct {
	chunk    *Chunk
	locals   map[string]byte
	lastSlot int
	errors   []error
}

// Compile performs a single pass over prog, producing a Chunk named
// name (source file filename). Slot 0 is reserved for self before any
// user local is allocated.
func Compile(prog *ast.Program, name, filename string) (*Chunk, []error) {
	c := &Compiler{
		chunk:  NewChunk(name, filename, prog.Span()),
		locals: map[string]byte{},
	}

	c.compileStatementList(prog.Statements)
	c.chunk.Emit(OpReturn)

	if n := c.lastSlot - predefinedLocals + 1; n > 0 {
		prolog := []byte{byte(OpPrepLocals), byte(n)}
		c.chunk.Code = append(prolog, c.chunk.Code...)
	}

	if len(c.errors) > 0 {
		return nil, c.errors
	}
	return c.chunk, nil
}

func (c *Compiler) fail(format string, args ...any) {
	c.errors = append(c.errors, fmt.Errorf(format, args...))
}

// allocate returns name's slot, assigning the next free one if name
// hasn't been seen as an assignment target before.
func (c *Compiler) allocate(name string) (byte, bool) {
	if slot, ok := c.locals[name]; ok {
		return slot, true
	}
	next := c.lastSlot + 1
	if next >= LocalLimit {
		c.fail("exceeded the maximum number of local variables (%d): %s", LocalLimit, name)
		return 0, false
	}
	c.locals[name] = byte(next)
	c.lastSlot = next
	return byte(next), true
}

func (c *Compiler) lookup(name string) (byte, bool) {
	slot, ok := c.locals[name]
	return slot, ok
}

// compileStatementList compiles stmts, popping the value of every
// statement but the last so exactly one value remains on the stack. An
// empty list still leaves a value: nil.
func (c *Compiler) compileStatementList(stmts []ast.Stmt) {
	if len(stmts) == 0 {
		c.chunk.Emit(OpNil)
		return
	}
	for i, stmt := range stmts {
		c.compileStmt(stmt)
		if i < len(stmts)-1 {
			c.chunk.Emit(OpPop)
		}
	}
}

func (c *Compiler) compileStmt(stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.ExpressionStatement:
		c.compileExpr(s.Expression)
	case *ast.Invalid:
		c.chunk.Emit(OpNil)
	default:
		c.chunk.Emit(OpNil)
	}
}

func (c *Compiler) compileExpr(expr ast.Expr) {
	switch e := expr.(type) {
	case *ast.IntegerLiteral:
		n, err := strconv.ParseInt(e.Digits, 10, 64)
		if err != nil {
			c.fail("malformed integer literal: %s", e.Digits)
			n = 0
		}
		c.emitValue(IntValue(n))
	case *ast.FloatLiteral:
		f, err := strconv.ParseFloat(e.Digits, 64)
		if err != nil {
			c.fail("malformed float literal: %s", e.Digits)
			f = 0
		}
		c.emitValue(FloatValue(f))
	case *ast.StringLiteral:
		c.emitValue(StringValue(e.Decoded))
	case *ast.TrueLiteral:
		c.chunk.Emit(OpTrue)
	case *ast.FalseLiteral:
		c.chunk.Emit(OpFalse)
	case *ast.NilLiteral:
		c.chunk.Emit(OpNil)
	case *ast.SelfLiteral:
		c.chunk.Emit(OpSelf)
	case *ast.Identifier:
		slot, ok := c.lookup(e.Name)
		if !ok {
			c.fail("undefined local: %s", e.Name)
			return
		}
		c.chunk.EmitWithOperand(OpGetLocal, slot)
	case *ast.Unary:
		c.compileUnary(e)
	case *ast.Binary:
		c.compileBinary(e)
	case *ast.Assignment:
		c.compileAssignment(e)
	case *ast.Return:
		c.compileReturn(e)
	case *ast.If:
		c.compileIf(e)
	case *ast.While:
		c.compileWhile(e)
	case *ast.FunctionCall:
		c.compileCall(e)
	case *ast.Invalid:
		c.chunk.Emit(OpNil)
	default:
		c.chunk.Emit(OpNil)
	}
}

func (c *Compiler) emitValue(v Value) {
	idx, err := c.chunk.AddValue(v)
	if err != nil {
		c.errors = append(c.errors, err)
		idx = 255
	}
	c.chunk.EmitWithOperand(OpLoadValue, byte(idx))
}

func (c *Compiler) compileUnary(n *ast.Unary) {
	c.compileExpr(n.Operand)
	switch n.Operator {
	case ast.UnaryNegate:
		c.chunk.Emit(OpNegate)
	case ast.UnaryNot:
		c.chunk.Emit(OpNot)
	case ast.UnaryPlus:
		// unary plus is a no-op once its operand is on the stack
	}
}

func (c *Compiler) compileBinary(n *ast.Binary) {
	c.compileExpr(n.Left)
	c.compileExpr(n.Right)
	switch n.Operator {
	case ast.BinaryAdd:
		c.chunk.Emit(OpAdd)
	case ast.BinarySubtract:
		c.chunk.Emit(OpSubtract)
	case ast.BinaryMultiply:
		c.chunk.Emit(OpMultiply)
	case ast.BinaryDivide:
		c.chunk.Emit(OpDivide)
	case ast.BinaryEqual:
		c.chunk.Emit(OpEqual)
	case ast.BinaryNotEqual:
		c.chunk.Emit(OpEqual)
		c.chunk.Emit(OpNot)
	case ast.BinaryGreater:
		c.chunk.Emit(OpGreater)
	case ast.BinaryGreaterEqual:
		c.chunk.Emit(OpGreaterEqual)
	case ast.BinaryLess:
		c.chunk.Emit(OpLess)
	case ast.BinaryLessEqual:
		c.chunk.Emit(OpLessEqual)
	}
}

func (c *Compiler) compileAssignment(n *ast.Assignment) {
	ident, ok := n.Target.(*ast.Identifier)
	if !ok {
		// The parser already recorded why the target is invalid; still
		// compile the value so the assignment yields its result.
		c.compileExpr(n.Value)
		return
	}
	c.compileExpr(n.Value)
	slot, ok := c.allocate(ident.Name)
	if !ok {
		return
	}
	c.chunk.EmitWithOperand(OpSetLocal, slot)
}

func (c *Compiler) compileReturn(n *ast.Return) {
	if n.Value != nil {
		c.compileExpr(n.Value)
	} else {
		c.chunk.Emit(OpNil)
	}
	c.chunk.Emit(OpReturn)
}

func (c *Compiler) compileIf(n *ast.If) {
	c.compileExpr(n.Condition)
	jElse := c.chunk.EmitJump(OpJumpUnless)
	c.compileStatementList(n.Then)
	jEnd := c.chunk.EmitJump(OpJump)

	if err := c.chunk.PatchJump(jElse); err != nil {
		c.errors = append(c.errors, err)
	}
	if n.Else != nil {
		c.compileStatementList(n.Else)
	} else {
		c.chunk.Emit(OpNil)
	}
	if err := c.chunk.PatchJump(jEnd); err != nil {
		c.errors = append(c.errors, err)
	}
}

func (c *Compiler) compileWhile(n *ast.While) {
	c.chunk.Emit(OpNil) // a loop that never runs yields nil
	start := c.chunk.Length()
	c.compileExpr(n.Condition)
	jExit := c.chunk.EmitJump(OpJumpUnless)
	c.chunk.Emit(OpPop) // drop the previous iteration's (or prolog nil's) value
	c.compileStatementList(n.Body)
	if err := c.chunk.EmitLoop(start); err != nil {
		c.errors = append(c.errors, err)
	}
	if err := c.chunk.PatchJump(jExit); err != nil {
		c.errors = append(c.errors, err)
	}
}

func (c *Compiler) compileCall(n *ast.FunctionCall) {
	c.chunk.Emit(OpSelf)
	for _, arg := range n.Arguments {
		c.compileExpr(arg)
	}
	idx, err := c.chunk.AddValue(CallInfoValue(n.Name, len(n.Arguments)))
	if err != nil {
		c.errors = append(c.errors, err)
		return
	}
	c.chunk.EmitWithOperand(OpCall, byte(idx))
}
