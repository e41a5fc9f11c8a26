// Package chip8 implements the CHIP-8 virtual machine: memory, registers,
// call stack and the fetch-decode-execute engine. The pixel plane and the
// keypad are provided by the display and keypad packages.
//
// The machine does not keep time. A driver calls Step at its chosen CPU rate
// and TickTimers at 60Hz, and updates the keypad between calls.
package chip8

import (
	"math/rand"
	"time"

	"github.com/koushik255/chip8go/display"
	"github.com/koushik255/chip8go/keypad"
	"github.com/pkg/errors"
	"github.com/retroenv/retrogolib/log"
)

const (
	// MemorySize is the size of the addressable memory in bytes.
	MemorySize = 4096

	// ProgramStart is the address programs are loaded to and where
	// execution begins.
	ProgramStart = 0x200

	// MaxProgramSize is the largest program LoadProgram accepts.
	MaxProgramSize = 0xDFF

	// FontAddress is the address of the built-in hex digit glyphs.
	FontAddress = 0x000

	// GlyphSize is the number of bytes of a single font glyph.
	GlyphSize = 5

	// Registers is the number of general purpose registers V0 to VF.
	Registers = 16

	// FlagRegister is the register that arithmetic, shift and draw
	// instructions overwrite with their carry, borrow or collision flag.
	FlagRegister = 0xF
)

// Chip8 is a CHIP-8 machine. It is not safe for concurrent use, a single
// driver owns it and calls Step, TickTimers and the keypad methods.
type Chip8 struct {
	// VF is also used as a flag register
	V [Registers]byte

	Memory [MemorySize]byte

	// I is the index register, only the low 12 bits address memory
	I  uint16
	PC uint16

	DelayTimer byte
	SoundTimer byte

	Stack Stack

	Display *display.Display
	Keys    keypad.Keypad

	// random source for the CXNN instruction
	rng    *rand.Rand
	logger *log.Logger
}

// Option configures a machine created by New.
type Option func(*Chip8)

// WithLogger makes the machine log every executed instruction at debug
// level.
func WithLogger(logger *log.Logger) Option {
	return func(c *Chip8) {
		c.logger = logger
	}
}

// WithRand sets the random number generator used by the CXNN instruction.
// The default one is seeded from the current time.
func WithRand(rng *rand.Rand) Option {
	return func(c *Chip8) {
		c.rng = rng
	}
}

// New creates and initializes a new CHIP-8 machine with the font loaded and
// the program counter at ProgramStart.
func New(opts ...Option) *Chip8 {
	c := &Chip8{
		Display: display.New(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.rng == nil {
		c.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	c.Reset()
	return c
}

// Reset puts the machine back into its power-on state. Memory is cleared,
// so a program has to be loaded again.
func (c *Chip8) Reset() {
	c.Memory = [MemorySize]byte{}
	copy(c.Memory[FontAddress:], fontset[:])

	c.V = [Registers]byte{}
	c.I = 0
	c.PC = ProgramStart
	c.DelayTimer = 0
	c.SoundTimer = 0
	c.Stack.Reset()
	c.Display.Clear()
	c.Keys.Reset()
}

// LoadProgram copies the program into memory starting at ProgramStart.
// The rest of the program area is zeroed.
func (c *Chip8) LoadProgram(program []byte) error {
	if len(program) > MaxProgramSize {
		return errors.Wrapf(ErrProgramTooLarge, "%d bytes (max: %d)", len(program), MaxProgramSize)
	}

	area := c.Memory[ProgramStart:]
	clear(area)
	copy(area, program)

	if c.logger != nil {
		c.logger.Debug("Program loaded",
			log.Int("size", len(program)),
			log.Hex("start", uint16(ProgramStart)))
	}
	return nil
}

// TickTimers decrements the delay and sound timers if they are not zero.
// It should be called at 60Hz.
func (c *Chip8) TickTimers() {
	if c.DelayTimer > 0 {
		c.DelayTimer--
	}
	if c.SoundTimer > 0 {
		c.SoundTimer--
	}
}

// SoundActive returns whether the beeper should sound, which is the case as
// long as the sound timer is not zero.
func (c *Chip8) SoundActive() bool {
	return c.SoundTimer > 0
}

// Plane returns a copy of the pixel plane for presentation.
func (c *Chip8) Plane() display.Plane {
	return c.Display.Plane()
}
