// Package bytecode compiles a MiniRuby AST to a compact instruction
// stream and runs it on a stack-based virtual machine.
//
// A Chunk holds the compiled code and a deduplicated value pool; the
// number of local variable slots it needs is encoded in its
// PREP_LOCALS prolog rather than stored in a field. Compile produces a
// Chunk from an *ast.Program in a single pass, assigning each local a
// fixed slot index as it is first seen.
//
// The VM's operand stack doubles as the locals array: slot 0 holds the
// self sentinel, and GET_LOCAL/SET_LOCAL index directly into the stack
// rather than a separate frame. A PREP_LOCALS instruction, inserted as
// a prolog once compilation finishes, reserves the slots a chunk's
// locals need before the first instruction runs.
//
// Chunks can round-trip through Serialize/Deserialize (wire.go) for
// persistence or transport, and Disassemble/DisassembleColor (disasm.go)
// render a chunk as a human-readable listing.
package bytecode
