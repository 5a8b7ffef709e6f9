package chip8

import (
	"fmt"

	chip8cpu "github.com/retroenv/retrogolib/arch/cpu/chip8"
)

// Opcode is one decoded 16-bit instruction word. The instruction stream
// is big-endian; Decode combines the two memory bytes accordingly so
// the field layout is independent of the host byte order.
type Opcode struct {
	Word  uint16
	Class uint8  // top nibble, selects the handler
	X     uint8  // second nibble, register index
	Y     uint8  // third nibble, register index
	N     uint8  // low nibble
	NN    uint8  // low byte
	NNN   uint16 // low 12 bits
}

// Decode builds an Opcode from the two bytes at the program counter,
// high byte first.
func Decode(hi, lo uint8) Opcode {
	w := uint16(hi)<<8 | uint16(lo)
	return Opcode{
		Word:  w,
		Class: uint8(w >> 12),
		X:     uint8(w >> 8 & 0x0F),
		Y:     uint8(w >> 4 & 0x0F),
		N:     uint8(w & 0x000F),
		NN:    uint8(w & 0x00FF),
		NNN:   w & 0x0FFF,
	}
}

func (op Opcode) String() string {
	return fmt.Sprintf("$%04X", op.Word)
}

// Disassemble formats the instruction as mnemonic plus operands, using
// the canonical instruction table to name it. Words that match no
// documented instruction come back as raw data.
func (op Opcode) Disassemble() string {
	for _, candidate := range chip8cpu.Opcodes[int(op.Class)] {
		if candidate.Instruction == nil {
			continue
		}
		if op.Word&candidate.Info.Mask != candidate.Info.Value {
			continue
		}
		if params := op.operands(); params != "" {
			return fmt.Sprintf("%s %s", candidate.Instruction.Name, params)
		}
		return candidate.Instruction.Name
	}
	return fmt.Sprintf(".word $%04X", op.Word)
}

// operands renders the parameter list for the instruction word. The
// formatting follows the common CHIP-8 assembler conventions (Vx
// registers, $-prefixed hex immediates, named special registers).
func (op Opcode) operands() string {
	switch op.Class {
	case 0x0:
		return ""
	case 0x1, 0x2:
		return fmt.Sprintf("$%03X", op.NNN)
	case 0x3, 0x4, 0x6, 0x7, 0xC:
		return fmt.Sprintf("V%X, $%02X", op.X, op.NN)
	case 0x5, 0x9:
		return fmt.Sprintf("V%X, V%X", op.X, op.Y)
	case 0x8:
		if op.N == 0x6 || op.N == 0xE {
			return fmt.Sprintf("V%X", op.X)
		}
		return fmt.Sprintf("V%X, V%X", op.X, op.Y)
	case 0xA:
		return fmt.Sprintf("I, $%03X", op.NNN)
	case 0xB:
		return fmt.Sprintf("V0, $%03X", op.NNN)
	case 0xD:
		return fmt.Sprintf("V%X, V%X, $%X", op.X, op.Y, op.N)
	case 0xE:
		return fmt.Sprintf("V%X", op.X)
	case 0xF:
		switch op.NN {
		case 0x07:
			return fmt.Sprintf("V%X, DT", op.X)
		case 0x0A:
			return fmt.Sprintf("V%X, K", op.X)
		case 0x15:
			return fmt.Sprintf("DT, V%X", op.X)
		case 0x18:
			return fmt.Sprintf("ST, V%X", op.X)
		case 0x1E:
			return fmt.Sprintf("I, V%X", op.X)
		case 0x29:
			return fmt.Sprintf("F, V%X", op.X)
		case 0x33:
			return fmt.Sprintf("B, V%X", op.X)
		case 0x55:
			return fmt.Sprintf("[I], V%X", op.X)
		case 0x65:
			return fmt.Sprintf("V%X, [I]", op.X)
		}
	}
	return ""
}
