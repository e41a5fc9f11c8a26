// Package instruction decodes raw CHIP-8 instruction words into tagged
// Instruction values and renders them as assembler text.
//
// Every CHIP-8 instruction is 2 bytes, stored big-endian. The first nibble
// selects the opcode family, the remaining nibbles carry the operands:
//
//	X   the low nibble of the upper byte, a register index
//	Y   the high nibble of the lower byte, a register index
//	N   the low nibble of the lower byte, a 4-bit immediate (sprite height)
//	NN  the lower byte, an 8-bit immediate
//	NNN the low 12 bits of the word, an address
package instruction

import (
	"fmt"
	"strings"

	"github.com/retroenv/retrogolib/arch/cpu/chip8"
)

// Op identifies the kind of a decoded instruction.
type Op uint8

// The CHIP-8 instruction set. The comment next to each constant is the
// opcode pattern it is decoded from.
const (
	Cls               Op = iota // 00E0
	Ret                         // 00EE
	Jump                        // 1NNN
	Call                        // 2NNN
	SkipEqConst                 // 3XNN
	SkipNotEqConst              // 4XNN
	SkipEqReg                   // 5XY_
	LoadConst                   // 6XNN
	AddConst                    // 7XNN
	LoadReg                     // 8XY0
	Or                          // 8XY1
	And                         // 8XY2
	Xor                         // 8XY3
	Add                         // 8XY4
	Sub                         // 8XY5
	ShiftRight                  // 8XY6
	SubN                        // 8XY7
	ShiftLeft                   // 8XYE
	SkipNotEqReg                // 9XY_
	LoadAddr                    // ANNN
	JumpOffset                  // BNNN
	Rand                        // CXNN
	Draw                        // DXYN
	SkipKeyPressed              // EX9E
	SkipKeyNotPressed           // EXA1
	LoadDelay                   // FX07
	WaitKeyPress                // FX0A
	SetDelay                    // FX15
	SetSound                    // FX18
	AddAddr                     // FX1E
	SetSpriteAddr               // FX29
	BCD                         // FX33
	Store                       // FX55
	Load                        // FX65

	opCount
)

var opNames = [opCount]string{
	"Cls", "Ret", "Jump", "Call", "SkipEqConst", "SkipNotEqConst", "SkipEqReg",
	"LoadConst", "AddConst", "LoadReg", "Or", "And", "Xor", "Add", "Sub",
	"ShiftRight", "SubN", "ShiftLeft", "SkipNotEqReg", "LoadAddr", "JumpOffset",
	"Rand", "Draw", "SkipKeyPressed", "SkipKeyNotPressed", "LoadDelay",
	"WaitKeyPress", "SetDelay", "SetSound", "AddAddr", "SetSpriteAddr", "BCD",
	"Store", "Load",
}

func (o Op) String() string {
	if o >= opCount {
		return fmt.Sprintf("Op(%d)", uint8(o))
	}
	return opNames[o]
}

// Valid reports whether o is one of the defined instruction kinds.
func (o Op) Valid() bool {
	return o < opCount
}

// mnemonics maps every op to the retrogolib CHIP-8 instruction it is
// written as in assembler listings.
var mnemonics = [opCount]*chip8.Instruction{
	Cls:               chip8.Cls,
	Ret:               chip8.Ret,
	Jump:              chip8.Jp,
	Call:              chip8.Call,
	SkipEqConst:       chip8.Se,
	SkipNotEqConst:    chip8.Sne,
	SkipEqReg:         chip8.Se,
	LoadConst:         chip8.Ld,
	AddConst:          chip8.Add,
	LoadReg:           chip8.Ld,
	Or:                chip8.Or,
	And:               chip8.And,
	Xor:               chip8.Xor,
	Add:               chip8.Add,
	Sub:               chip8.Sub,
	ShiftRight:        chip8.Shr,
	SubN:              chip8.Subn,
	ShiftLeft:         chip8.Shl,
	SkipNotEqReg:      chip8.Sne,
	LoadAddr:          chip8.Ld,
	JumpOffset:        chip8.Jp,
	Rand:              chip8.Rnd,
	Draw:              chip8.Drw,
	SkipKeyPressed:    chip8.Skp,
	SkipKeyNotPressed: chip8.Sknp,
	LoadDelay:         chip8.Ld,
	WaitKeyPress:      chip8.Ld,
	SetDelay:          chip8.Ld,
	SetSound:          chip8.Ld,
	AddAddr:           chip8.Add,
	SetSpriteAddr:     chip8.Ld,
	BCD:               chip8.Ld,
	Store:             chip8.Ld,
	Load:              chip8.Ld,
}

// Instruction is a decoded CHIP-8 instruction. Only the operand fields used
// by Op are meaningful, the others are zero.
type Instruction struct {
	Op  Op
	X   uint8  // first register operand
	Y   uint8  // second register operand
	N   uint8  // 4-bit immediate
	NN  uint8  // 8-bit immediate
	NNN uint16 // 12-bit address
}

// Mnemonic returns the lower case assembler name of the instruction.
func (i Instruction) Mnemonic() string {
	if !i.Op.Valid() {
		return ""
	}
	return strings.ToLower(mnemonics[i.Op].Name)
}

// String returns the instruction in assembler notation, for example
// "ld v3, 0xee" or "drw v1, v2, 5".
func (i Instruction) String() string {
	m := i.Mnemonic()

	switch i.Op {
	case Cls, Ret:
		return m
	case Jump, Call:
		return fmt.Sprintf("%s 0x%03x", m, i.NNN)
	case SkipEqConst, SkipNotEqConst, LoadConst, AddConst, Rand:
		return fmt.Sprintf("%s v%x, 0x%02x", m, i.X, i.NN)
	case SkipEqReg, SkipNotEqReg, LoadReg, Or, And, Xor, Add, Sub, SubN:
		return fmt.Sprintf("%s v%x, v%x", m, i.X, i.Y)
	case ShiftRight, ShiftLeft, SkipKeyPressed, SkipKeyNotPressed:
		return fmt.Sprintf("%s v%x", m, i.X)
	case LoadAddr:
		return fmt.Sprintf("%s i, 0x%03x", m, i.NNN)
	case JumpOffset:
		return fmt.Sprintf("%s v0, 0x%03x", m, i.NNN)
	case Draw:
		return fmt.Sprintf("%s v%x, v%x, %d", m, i.X, i.Y, i.N)
	case LoadDelay:
		return fmt.Sprintf("%s v%x, dt", m, i.X)
	case WaitKeyPress:
		return fmt.Sprintf("%s v%x, k", m, i.X)
	case SetDelay:
		return fmt.Sprintf("%s dt, v%x", m, i.X)
	case SetSound:
		return fmt.Sprintf("%s st, v%x", m, i.X)
	case AddAddr:
		return fmt.Sprintf("%s i, v%x", m, i.X)
	case SetSpriteAddr:
		return fmt.Sprintf("%s f, v%x", m, i.X)
	case BCD:
		return fmt.Sprintf("%s b, v%x", m, i.X)
	case Store:
		return fmt.Sprintf("%s [i], v%x", m, i.X)
	case Load:
		return fmt.Sprintf("%s v%x, [i]", m, i.X)
	default:
		return i.Op.String()
	}
}
