package ast

// Equal reports whether two nodes are structurally equal, ignoring spans.
// Used by golden-AST tests so whitespace-only source changes don't break
// fixture comparisons.
func Equal(a, b Node) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch av := a.(type) {
	case *Program:
		bv, ok := b.(*Program)
		return ok && equalStmts(av.Statements, bv.Statements)
	case *ExpressionStatement:
		bv, ok := b.(*ExpressionStatement)
		return ok && Equal(av.Expression, bv.Expression)
	case *Invalid:
		bv, ok := b.(*Invalid)
		return ok && av.Lexeme == bv.Lexeme
	case *IntegerLiteral:
		bv, ok := b.(*IntegerLiteral)
		return ok && av.Digits == bv.Digits
	case *FloatLiteral:
		bv, ok := b.(*FloatLiteral)
		return ok && av.Digits == bv.Digits
	case *StringLiteral:
		bv, ok := b.(*StringLiteral)
		return ok && av.Decoded == bv.Decoded
	case *TrueLiteral:
		_, ok := b.(*TrueLiteral)
		return ok
	case *FalseLiteral:
		_, ok := b.(*FalseLiteral)
		return ok
	case *NilLiteral:
		_, ok := b.(*NilLiteral)
		return ok
	case *SelfLiteral:
		_, ok := b.(*SelfLiteral)
		return ok
	case *Identifier:
		bv, ok := b.(*Identifier)
		return ok && av.Name == bv.Name
	case *Unary:
		bv, ok := b.(*Unary)
		return ok && av.Operator == bv.Operator && Equal(av.Operand, bv.Operand)
	case *Binary:
		bv, ok := b.(*Binary)
		return ok && av.Operator == bv.Operator && Equal(av.Left, bv.Left) && Equal(av.Right, bv.Right)
	case *Assignment:
		bv, ok := b.(*Assignment)
		return ok && Equal(av.Target, bv.Target) && Equal(av.Value, bv.Value)
	case *Return:
		bv, ok := b.(*Return)
		return ok && Equal(av.Value, bv.Value)
	case *If:
		bv, ok := b.(*If)
		return ok && Equal(av.Condition, bv.Condition) && equalStmts(av.Then, bv.Then) && equalStmts(av.Else, bv.Else)
	case *While:
		bv, ok := b.(*While)
		return ok && Equal(av.Condition, bv.Condition) && equalStmts(av.Body, bv.Body)
	case *FunctionCall:
		bv, ok := b.(*FunctionCall)
		if !ok || av.Name != bv.Name || len(av.Arguments) != len(bv.Arguments) {
			return false
		}
		for i := range av.Arguments {
			if !Equal(av.Arguments[i], bv.Arguments[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func equalStmts(a, b []Stmt) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}
