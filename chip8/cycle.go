package chip8

import (
	"github.com/koushik255/chip8go/display"
	"github.com/koushik255/chip8go/instruction"
	"github.com/pkg/errors"
	"github.com/retroenv/retrogolib/log"
)

// StepResult describes the outcome of a single Step.
type StepResult struct {
	// PC is the program counter after the step.
	PC uint16

	// Blocked is set when a wait-for-key instruction found no key pressed.
	// The program counter was not advanced, the driver should call Step
	// again once the keypad changed.
	Blocked bool

	// Redraw is set when the instruction changed the pixel plane.
	Redraw bool
}

// Step executes one complete CPU cycle: it fetches the two bytes at the
// program counter, decodes them, executes the instruction and advances the
// program counter. On error the returned *Fault carries the program counter
// of the failing instruction and the machine state is unchanged.
func (c *Chip8) Step() (StepResult, error) {
	pc := c.PC
	if int(pc) >= MemorySize-2 {
		return StepResult{PC: pc}, &Fault{
			PC:  pc,
			Err: errors.Wrapf(ErrOutOfBounds, "fetch at %03X", pc),
		}
	}

	// instructions are stored big-endian
	upper, lower := c.Memory[pc], c.Memory[pc+1]
	word := uint16(upper)<<8 | uint16(lower)

	ins, err := instruction.Decode(upper, lower)
	if err != nil {
		return StepResult{PC: pc}, &Fault{PC: pc, Word: word, Err: err}
	}

	if c.logger != nil {
		c.logger.Debug("Executing instruction",
			log.Hex("pc", pc),
			log.Hex("opcode", word),
			log.String("instruction", ins.String()))
	}

	res, err := c.execute(ins)
	if err != nil {
		return StepResult{PC: pc}, &Fault{PC: pc, Word: word, Err: err}
	}

	if !res.Blocked {
		c.PC = res.PC
	}
	return res, nil
}

// execute runs a decoded instruction. It returns the program counter of the
// next instruction but does not set it.
func (c *Chip8) execute(ins instruction.Instruction) (StepResult, error) {
	next := c.PC + 2
	x, y := ins.X, ins.Y

	switch ins.Op {
	// 00E0: CLS
	case instruction.Cls:
		c.Display.Clear()
		return StepResult{PC: next, Redraw: true}, nil

	// 00EE: RET
	case instruction.Ret:
		addr, err := c.Stack.Pop()
		if err != nil {
			return StepResult{}, err
		}
		next = addr

	// 1NNN: JP addr
	case instruction.Jump:
		next = ins.NNN

	// 2NNN: CALL addr, the return address is the instruction after the call
	case instruction.Call:
		if err := c.Stack.Push(next); err != nil {
			return StepResult{}, err
		}
		next = ins.NNN

	// 3XNN: SE Vx, byte
	case instruction.SkipEqConst:
		if c.V[x] == ins.NN {
			next += 2
		}

	// 4XNN: SNE Vx, byte
	case instruction.SkipNotEqConst:
		if c.V[x] != ins.NN {
			next += 2
		}

	// 5XY0: SE Vx, Vy
	case instruction.SkipEqReg:
		if c.V[x] == c.V[y] {
			next += 2
		}

	// 6XNN: LD Vx, byte
	case instruction.LoadConst:
		c.V[x] = ins.NN

	// 7XNN: ADD Vx, byte, VF is not affected
	case instruction.AddConst:
		c.V[x] += ins.NN

	// 8XY0: LD Vx, Vy
	case instruction.LoadReg:
		c.V[x] = c.V[y]

	// 8XY1: OR Vx, Vy
	case instruction.Or:
		c.V[x] |= c.V[y]

	// 8XY2: AND Vx, Vy
	case instruction.And:
		c.V[x] &= c.V[y]

	// 8XY3: XOR Vx, Vy
	case instruction.Xor:
		c.V[x] ^= c.V[y]

	// 8XY4: ADD Vx, Vy, VF = carry
	case instruction.Add:
		sum := uint16(c.V[x]) + uint16(c.V[y])
		c.V[x] = byte(sum)
		c.V[FlagRegister] = flag(sum > 0xFF)

	// 8XY5: SUB Vx, Vy, VF = NOT borrow
	case instruction.Sub:
		vx, vy := c.V[x], c.V[y]
		c.V[x] = vx - vy
		c.V[FlagRegister] = flag(vx >= vy)

	// 8XY6: SHR Vx, VF = bit shifted out
	case instruction.ShiftRight:
		vx := c.V[x]
		c.V[x] = vx >> 1
		c.V[FlagRegister] = vx & 0x01

	// 8XY7: SUBN Vx, Vy, VF = NOT borrow
	case instruction.SubN:
		vx, vy := c.V[x], c.V[y]
		c.V[x] = vy - vx
		c.V[FlagRegister] = flag(vy >= vx)

	// 8XYE: SHL Vx, VF = bit shifted out
	case instruction.ShiftLeft:
		vx := c.V[x]
		c.V[x] = vx << 1
		c.V[FlagRegister] = vx >> 7

	// 9XY0: SNE Vx, Vy
	case instruction.SkipNotEqReg:
		if c.V[x] != c.V[y] {
			next += 2
		}

	// ANNN: LD I, addr
	case instruction.LoadAddr:
		c.I = ins.NNN

	// BNNN: JP V0, addr
	case instruction.JumpOffset:
		next = uint16(c.V[0]) + ins.NNN

	// CXNN: RND Vx, byte
	case instruction.Rand:
		c.V[x] = byte(c.rng.Intn(256)) & ins.NN

	// DXYN: DRW Vx, Vy, nibble
	case instruction.Draw:
		addr, err := c.span(int(ins.N))
		if err != nil {
			return StepResult{}, err
		}
		sprite := display.NewSprite(c.V[x], c.V[y], c.Memory[addr:addr+int(ins.N)])
		c.V[FlagRegister] = flag(c.Display.Draw(sprite))
		return StepResult{PC: next, Redraw: true}, nil

	// EX9E: SKP Vx
	case instruction.SkipKeyPressed:
		if c.Keys.IsPressed(c.V[x]) {
			next += 2
		}

	// EXA1: SKNP Vx
	case instruction.SkipKeyNotPressed:
		if !c.Keys.IsPressed(c.V[x]) {
			next += 2
		}

	// FX07: LD Vx, DT
	case instruction.LoadDelay:
		c.V[x] = c.DelayTimer

	// FX0A: LD Vx, K
	case instruction.WaitKeyPress:
		key, ok := c.Keys.FirstPressed()
		if !ok {
			return StepResult{PC: c.PC, Blocked: true}, nil
		}
		c.V[x] = key

	// FX15: LD DT, Vx
	case instruction.SetDelay:
		c.DelayTimer = c.V[x]

	// FX18: LD ST, Vx
	case instruction.SetSound:
		c.SoundTimer = c.V[x]

	// FX1E: ADD I, Vx
	case instruction.AddAddr:
		c.I += uint16(c.V[x])

	// FX29: LD F, Vx
	case instruction.SetSpriteAddr:
		c.I = GlyphAddress(c.V[x])

	// FX33: LD B, Vx
	case instruction.BCD:
		addr, err := c.span(3)
		if err != nil {
			return StepResult{}, err
		}
		v := c.V[x]
		c.Memory[addr] = v / 100
		c.Memory[addr+1] = (v / 10) % 10
		c.Memory[addr+2] = v % 10

	// FX55: LD [I], Vx
	case instruction.Store:
		addr, err := c.span(int(x) + 1)
		if err != nil {
			return StepResult{}, err
		}
		copy(c.Memory[addr:], c.V[:x+1])

	// FX65: LD Vx, [I]
	case instruction.Load:
		addr, err := c.span(int(x) + 1)
		if err != nil {
			return StepResult{}, err
		}
		copy(c.V[:x+1], c.Memory[addr:])

	default:
		return StepResult{}, errors.Errorf("unsupported instruction %s", ins.Op)
	}

	return StepResult{PC: next}, nil
}

// span returns the index register as memory offset after checking that n
// bytes starting there are inside memory.
func (c *Chip8) span(n int) (int, error) {
	addr := int(c.I)
	if addr+n > MemorySize {
		return 0, errors.Wrapf(ErrOutOfBounds, "%d bytes at I=%03X", n, c.I)
	}
	return addr, nil
}

func flag(b bool) byte {
	if b {
		return 1
	}
	return 0
}
