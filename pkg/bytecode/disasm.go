package bytecode

import (
	"fmt"
	"io"
	"strings"

	osc52 "github.com/aymanbagabas/go-osc52/v2"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/mattn/go-isatty"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/termenv"
	"github.com/rivo/uniseg"
)

// Disassemble returns a plain-text listing of the chunk: one line per
// instruction plus a value-pool dump.
func (c *Chunk) Disassemble() string {
	var sb strings.Builder
	c.writeListing(&sb, nil)
	return sb.String()
}

// DisassembleColor writes a listing to w, colorizing each instruction
// line by opcode category when w is a terminal (it has an Fd that
// isatty accepts); for any other writer the listing is plain text.
func (c *Chunk) DisassembleColor(w io.Writer) {
	profile := termenv.Ascii
	if out, ok := w.(interface{ Fd() uintptr }); ok && isatty.IsTerminal(out.Fd()) {
		profile = termenv.ColorProfile()
	}
	c.writeListing(w, &profile)
}

func (c *Chunk) writeListing(w io.Writer, profile *termenv.Profile) {
	fmt.Fprintf(w, "; %s (%s)\n", c.Name, c.Filename)

	if len(c.ValuePool) > 0 {
		fmt.Fprintln(w, "; value pool:")
		widest := 0
		for _, v := range c.ValuePool {
			if w := uniseg.StringWidth(v.String()); w > widest {
				widest = w
			}
		}
		for i, v := range c.ValuePool {
			s := v.String()
			pad := strings.Repeat(" ", max(0, widest-uniseg.StringWidth(s)))
			fmt.Fprintf(w, ";   [%3d] %s%s  (%s)\n", i, s, pad, v.Kind)
		}
	}

	offset := 0
	for offset < len(c.Code) {
		line, n := c.disassembleInstruction(offset)
		if profile != nil {
			line = colorizeLine(*profile, Opcode(c.Code[offset]), line)
		}
		width := runewidth.StringWidth(fmt.Sprintf("%04X", offset))
		pad := strings.Repeat(" ", max(0, 6-width))
		fmt.Fprintf(w, "%04X%s%s\n", offset, pad, line)
		offset += n
	}
}

// disassembleInstruction renders one instruction and returns its
// length in bytes.
func (c *Chunk) disassembleInstruction(offset int) (string, int) {
	op := Opcode(c.Code[offset])
	info := op.Info()

	if !info.HasOperand {
		return info.Name, 1
	}
	if offset+1 >= len(c.Code) {
		return info.Name + " <missing operand>", 1
	}
	operand := c.Code[offset+1]

	switch op {
	case OpLoadValue:
		if int(operand) < len(c.ValuePool) {
			return fmt.Sprintf("%-14s %3d ; %s", info.Name, operand, c.ValuePool[operand].String()), 2
		}
	case OpCall:
		if int(operand) < len(c.ValuePool) && c.ValuePool[operand].Kind == KindCallInfo {
			ci := c.ValuePool[operand].CallInfo
			return fmt.Sprintf("%-14s %3d ; %s/%d", info.Name, operand, ci.Name, ci.ArgCount), 2
		}
	case OpJump, OpJumpUnless:
		return fmt.Sprintf("%-14s %3d ; -> %04X", info.Name, operand, offset+2+int(operand)), 2
	case OpLoop:
		return fmt.Sprintf("%-14s %3d ; -> %04X", info.Name, operand, offset+2-int(operand)), 2
	}
	return fmt.Sprintf("%-14s %3d", info.Name, operand), 2
}

// opcodeColor buckets an opcode into one of a handful of perceptually
// distinct hues, walked around the color wheel by category.
func opcodeColor(op Opcode) colorful.Color {
	var hue float64
	switch {
	case op <= OpInspectStack:
		hue = 0
	case op <= OpNegate:
		hue = 40
	case op <= OpNot:
		hue = 100
	case op <= OpSelf:
		hue = 200
	case op == OpReturn:
		hue = 0
	case op <= OpJumpUnless:
		hue = 280
	case op == OpCall:
		hue = 320
	default:
		hue = 160
	}
	return colorful.Hsv(hue, 0.55, 0.9)
}

func colorizeLine(profile termenv.Profile, op Opcode, line string) string {
	return termenv.String(line).Foreground(profile.Color(opcodeColor(op).Hex())).String()
}

// CopyDisassembly writes the chunk's disassembly to w wrapped in an
// OSC52 escape sequence, so a terminal emulator with clipboard support
// picks it up even over SSH.
func (c *Chunk) CopyDisassembly(w io.Writer) error {
	_, err := osc52.New(c.Disassemble()).WriteTo(w)
	return err
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
