package instruction

import "fmt"

// DecodeError is returned for an instruction word that matches no known
// opcode pattern.
type DecodeError struct {
	Upper byte
	Lower byte
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("invalid instruction %02X%02X", e.Upper, e.Lower)
}

// Word returns the offending instruction word.
func (e *DecodeError) Word() uint16 {
	return uint16(e.Upper)<<8 | uint16(e.Lower)
}

// DecodeWord decodes a 16-bit instruction word.
func DecodeWord(w uint16) (Instruction, error) {
	return Decode(byte(w>>8), byte(w))
}

// Decode decodes the instruction formed by the upper and lower byte of an
// instruction word as it is stored in memory.
func Decode(upper, lower byte) (Instruction, error) {
	x := upper & 0x0F
	y := lower >> 4
	nnn := uint16(x)<<8 | uint16(lower)

	switch upper >> 4 {
	case 0x0:
		if x == 0 {
			switch lower {
			case 0xE0:
				return Instruction{Op: Cls}, nil
			case 0xEE:
				return Instruction{Op: Ret}, nil
			}
		}

	case 0x1:
		return Instruction{Op: Jump, NNN: nnn}, nil
	case 0x2:
		return Instruction{Op: Call, NNN: nnn}, nil
	case 0x3:
		return Instruction{Op: SkipEqConst, X: x, NN: lower}, nil
	case 0x4:
		return Instruction{Op: SkipNotEqConst, X: x, NN: lower}, nil
	case 0x5:
		// the low nibble is not checked, 5XY1..5XYF decode as 5XY0
		return Instruction{Op: SkipEqReg, X: x, Y: y}, nil
	case 0x6:
		return Instruction{Op: LoadConst, X: x, NN: lower}, nil
	case 0x7:
		return Instruction{Op: AddConst, X: x, NN: lower}, nil

	case 0x8:
		var op Op
		switch lower & 0x0F {
		case 0x0:
			op = LoadReg
		case 0x1:
			op = Or
		case 0x2:
			op = And
		case 0x3:
			op = Xor
		case 0x4:
			op = Add
		case 0x5:
			op = Sub
		case 0x6:
			op = ShiftRight
		case 0x7:
			op = SubN
		case 0xE:
			op = ShiftLeft
		default:
			return Instruction{}, &DecodeError{Upper: upper, Lower: lower}
		}
		return Instruction{Op: op, X: x, Y: y}, nil

	case 0x9:
		// same simplification as family 5
		return Instruction{Op: SkipNotEqReg, X: x, Y: y}, nil
	case 0xA:
		return Instruction{Op: LoadAddr, NNN: nnn}, nil
	case 0xB:
		return Instruction{Op: JumpOffset, NNN: nnn}, nil
	case 0xC:
		return Instruction{Op: Rand, X: x, NN: lower}, nil
	case 0xD:
		return Instruction{Op: Draw, X: x, Y: y, N: lower & 0x0F}, nil

	case 0xE:
		switch lower {
		case 0x9E:
			return Instruction{Op: SkipKeyPressed, X: x}, nil
		case 0xA1:
			return Instruction{Op: SkipKeyNotPressed, X: x}, nil
		}

	case 0xF:
		var op Op
		switch lower {
		case 0x07:
			op = LoadDelay
		case 0x0A:
			op = WaitKeyPress
		case 0x15:
			op = SetDelay
		case 0x18:
			op = SetSound
		case 0x1E:
			op = AddAddr
		case 0x29:
			op = SetSpriteAddr
		case 0x33:
			op = BCD
		case 0x55:
			op = Store
		case 0x65:
			op = Load
		default:
			return Instruction{}, &DecodeError{Upper: upper, Lower: lower}
		}
		return Instruction{Op: op, X: x}, nil
	}

	return Instruction{}, &DecodeError{Upper: upper, Lower: lower}
}
