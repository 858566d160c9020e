package bytecode

import (
	"fmt"

	"github.com/Verseth/miniruby/ast"
)

// Chunk is a passive container for compiled bytecode: an instruction
// buffer plus the value pool its operands index into. Equality is by
// name, filename, instructions, and value pool; Chunk never reaches
// back into the AST or source it was compiled from.
type Chunk struct {
	Name      string
	Filename  string
	Span      ast.Span
	Code      []byte
	ValuePool []Value
}

// NewChunk creates an empty chunk.
func NewChunk(name, filename string, span ast.Span) *Chunk {
	return &Chunk{Name: name, Filename: filename, Span: span}
}

// Length returns the number of bytes emitted so far.
func (c *Chunk) Length() int {
	return len(c.Code)
}

// PushBytes appends raw bytes to the instruction stream and returns
// the offset of the first one.
func (c *Chunk) PushBytes(bytes ...byte) int {
	offset := len(c.Code)
	c.Code = append(c.Code, bytes...)
	return offset
}

// PatchByte overwrites the byte at offset. Used to fill in jump
// operands once the jumped-over region's length is known.
func (c *Chunk) PatchByte(offset int, b byte) {
	c.Code[offset] = b
}

// AddValue interns v into the value pool, deduplicating by structural
// equality, and returns its index. Returns -1 and a non-nil error once
// the pool is full and v is not already present.
func (c *Chunk) AddValue(v Value) (int, error) {
	for i, existing := range c.ValuePool {
		if existing.equalKind(v) {
			return i, nil
		}
	}
	if len(c.ValuePool) >= ValuePoolLimit {
		return -1, fmt.Errorf("value pool limit reached: %d", ValuePoolLimit)
	}
	c.ValuePool = append(c.ValuePool, v)
	return len(c.ValuePool) - 1, nil
}

// Emit appends a bare opcode (no operand) and returns its offset.
func (c *Chunk) Emit(op Opcode) int {
	return c.PushBytes(byte(op))
}

// EmitWithOperand appends an opcode and its one-byte operand and
// returns the opcode's offset.
func (c *Chunk) EmitWithOperand(op Opcode, operand byte) int {
	offset := c.PushBytes(byte(op))
	c.PushBytes(operand)
	return offset
}

// EmitJump appends a forward-jump opcode with a placeholder operand
// and returns the operand's offset, to be filled in by PatchJump once
// the jumped-over region has been compiled.
func (c *Chunk) EmitJump(op Opcode) int {
	c.PushBytes(byte(op))
	operandOffset := c.PushBytes(0xFF)
	return operandOffset
}

// PatchJump fills in a forward jump's operand, computed from the
// current chunk length: current_length - operand_offset - 1.
func (c *Chunk) PatchJump(operandOffset int) error {
	delta := len(c.Code) - operandOffset - 1
	if delta > MaxJumpDistance {
		return fmt.Errorf("too many bytes to jump over: %d", delta)
	}
	c.Code[operandOffset] = byte(delta)
	return nil
}

// EmitLoop appends a backward LOOP jump back to target, computed as
// current_length - target + 2 (the +2 accounts for LOOP's own opcode
// and operand bytes).
func (c *Chunk) EmitLoop(target int) error {
	delta := len(c.Code) - target + 2
	if delta > MaxJumpDistance {
		return fmt.Errorf("too many bytes to jump backward: %d", delta)
	}
	c.PushBytes(byte(OpLoop), byte(delta))
	return nil
}

// Equal reports whether two chunks are equal by spec: same name,
// filename, instructions, and value pool (spans are excluded, matching
// AST equality's span-blindness).
func (c *Chunk) Equal(other *Chunk) bool {
	if c.Name != other.Name || c.Filename != other.Filename {
		return false
	}
	if len(c.Code) != len(other.Code) {
		return false
	}
	for i := range c.Code {
		if c.Code[i] != other.Code[i] {
			return false
		}
	}
	if len(c.ValuePool) != len(other.ValuePool) {
		return false
	}
	for i := range c.ValuePool {
		if !c.ValuePool[i].equalKind(other.ValuePool[i]) {
			return false
		}
	}
	return true
}
