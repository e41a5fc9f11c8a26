package chip8

import (
	"bytes"
	"errors"
	"math/rand"
	"testing"

	"github.com/koushik255/chip8go/instruction"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

// newTestMachine returns a machine with a fixed random seed and the given
// instruction words loaded at ProgramStart.
func newTestMachine(t *testing.T, words ...uint16) *Chip8 {
	t.Helper()

	c := New(WithRand(rand.New(rand.NewSource(1))), WithLogger(log.NewTestLogger(t)))
	program := make([]byte, 0, 2*len(words))
	for _, w := range words {
		program = append(program, byte(w>>8), byte(w))
	}
	assert.NoError(t, c.LoadProgram(program))
	return c
}

func step(t *testing.T, c *Chip8) StepResult {
	t.Helper()

	res, err := c.Step()
	assert.NoError(t, err)
	return res
}

func TestAddOverflow(t *testing.T) {
	c := newTestMachine(t, 0x8014)
	c.V[0] = 200
	c.V[1] = 200

	res := step(t, c)
	assert.Equal(t, byte(0x90), c.V[0])
	assert.Equal(t, byte(1), c.V[0xF])
	assert.Equal(t, uint16(0x202), res.PC)
	assert.False(t, res.Redraw)
}

func TestAddNoCarry(t *testing.T) {
	c := newTestMachine(t, 0x8014)
	c.V[0] = 200
	c.V[1] = 55
	c.V[0xF] = 1

	step(t, c)
	assert.Equal(t, byte(255), c.V[0])
	assert.Equal(t, byte(0), c.V[0xF])
}

func TestSubBorrow(t *testing.T) {
	c := newTestMachine(t, 0x8015)
	c.V[1] = 1

	step(t, c)
	assert.Equal(t, byte(255), c.V[0])
	assert.Equal(t, byte(0), c.V[0xF])
}

func TestSubNoBorrow(t *testing.T) {
	tests := []struct {
		name     string
		x, y     byte
		expected byte
	}{
		{"greater", 10, 3, 7},
		{"equal", 5, 5, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestMachine(t, 0x8125)
			c.V[1] = tt.x
			c.V[2] = tt.y

			step(t, c)
			assert.Equal(t, tt.expected, c.V[1])
			assert.Equal(t, byte(1), c.V[0xF])
		})
	}
}

func TestSubN(t *testing.T) {
	c := newTestMachine(t, 0x8127, 0x8347)
	c.V[1] = 3
	c.V[2] = 10
	c.V[3] = 10
	c.V[4] = 3

	step(t, c)
	assert.Equal(t, byte(7), c.V[1])
	assert.Equal(t, byte(1), c.V[0xF])

	step(t, c)
	assert.Equal(t, byte(249), c.V[3])
	assert.Equal(t, byte(0), c.V[0xF])
}

func TestShiftRight(t *testing.T) {
	tests := []struct {
		value    byte
		expected byte
		flag     byte
	}{
		{0x05, 0x02, 1},
		{0x04, 0x02, 0},
		{0xFF, 0x7F, 1},
		{0x00, 0x00, 0},
	}

	for _, tt := range tests {
		c := newTestMachine(t, 0x8306)
		c.V[3] = tt.value

		step(t, c)
		assert.Equal(t, tt.expected, c.V[3])
		assert.Equal(t, tt.flag, c.V[0xF])
	}
}

func TestShiftLeft(t *testing.T) {
	tests := []struct {
		value    byte
		expected byte
		flag     byte
	}{
		{0x81, 0x02, 1},
		{0x41, 0x82, 0},
		{0xFF, 0xFE, 1},
	}

	for _, tt := range tests {
		c := newTestMachine(t, 0x830E)
		c.V[3] = tt.value

		step(t, c)
		assert.Equal(t, tt.expected, c.V[3])
		assert.Equal(t, tt.flag, c.V[0xF])
	}
}

// The flag is written after the result, so it wins when VF is the target.
func TestFlagRegisterAsOperand(t *testing.T) {
	c := newTestMachine(t, 0x8F14)
	c.V[0xF] = 200
	c.V[1] = 100

	step(t, c)
	assert.Equal(t, byte(1), c.V[0xF])
}

func TestBitwise(t *testing.T) {
	tests := []struct {
		word     uint16
		expected byte
	}{
		{0x8120, 0x0F}, // LD
		{0x8121, 0x3F}, // OR
		{0x8122, 0x0C}, // AND
		{0x8123, 0x33}, // XOR
	}

	for _, tt := range tests {
		c := newTestMachine(t, tt.word)
		c.V[1] = 0x3C
		c.V[2] = 0x0F
		c.V[0xF] = 0xAA

		step(t, c)
		assert.Equal(t, tt.expected, c.V[1])
		assert.Equal(t, byte(0x0F), c.V[2])
		assert.Equal(t, byte(0xAA), c.V[0xF])
	}
}

func TestLoadAndAddConst(t *testing.T) {
	c := newTestMachine(t, 0x65F0, 0x7520)
	c.V[0xF] = 7

	step(t, c)
	assert.Equal(t, byte(0xF0), c.V[5])

	step(t, c)
	assert.Equal(t, byte(0x10), c.V[5])
	assert.Equal(t, byte(7), c.V[0xF])
}

func TestSkips(t *testing.T) {
	tests := []struct {
		name     string
		word     uint16
		vx, vy   byte
		keyDown  bool
		expected uint16
	}{
		{name: "SE const equal", word: 0x3142, vx: 0x42, expected: 0x204},
		{name: "SE const not equal", word: 0x3142, vx: 0x41, expected: 0x202},
		{name: "SNE const equal", word: 0x4142, vx: 0x42, expected: 0x202},
		{name: "SNE const not equal", word: 0x4142, vx: 0x41, expected: 0x204},
		{name: "SE reg equal", word: 0x5120, vx: 9, vy: 9, expected: 0x204},
		{name: "SE reg not equal", word: 0x5120, vx: 9, vy: 8, expected: 0x202},
		{name: "SE reg ignores low nibble", word: 0x5127, vx: 9, vy: 9, expected: 0x204},
		{name: "SNE reg equal", word: 0x9120, vx: 9, vy: 9, expected: 0x202},
		{name: "SNE reg not equal", word: 0x9120, vx: 9, vy: 8, expected: 0x204},
		{name: "SNE reg ignores low nibble", word: 0x912F, vx: 9, vy: 8, expected: 0x204},
		{name: "SKP down", word: 0xE19E, vx: 0xA, keyDown: true, expected: 0x204},
		{name: "SKP up", word: 0xE19E, vx: 0xA, expected: 0x202},
		{name: "SKNP down", word: 0xE1A1, vx: 0xA, keyDown: true, expected: 0x202},
		{name: "SKNP up", word: 0xE1A1, vx: 0xA, expected: 0x204},
		{name: "SKP uses low nibble", word: 0xE19E, vx: 0x1A, keyDown: true, expected: 0x204},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestMachine(t, tt.word)
			c.V[1] = tt.vx
			c.V[2] = tt.vy
			c.Keys.Set(0xA, tt.keyDown)

			res := step(t, c)
			assert.Equal(t, tt.expected, res.PC)
			assert.Equal(t, tt.expected, c.PC)
		})
	}
}

func TestJumps(t *testing.T) {
	c := newTestMachine(t, 0x1ABC)
	step(t, c)
	assert.Equal(t, uint16(0xABC), c.PC)

	c = newTestMachine(t, 0xB300)
	c.V[0] = 0x10
	step(t, c)
	assert.Equal(t, uint16(0x310), c.PC)
}

func TestCallReturn(t *testing.T) {
	c := newTestMachine(t,
		0x2206, // 200: CALL 206
		0x6101, // 202: LD V1, 1
		0x1204, // 204: JP 204
		0x6202, // 206: LD V2, 2
		0x00EE, // 208: RET
	)

	step(t, c)
	assert.Equal(t, uint16(0x206), c.PC)
	assert.Equal(t, 1, c.Stack.Depth())
	assert.Equal(t, uint16(0x202), c.Stack.Entries[0])

	step(t, c)
	step(t, c)
	assert.Equal(t, uint16(0x202), c.PC)
	assert.Equal(t, 0, c.Stack.Depth())

	step(t, c)
	assert.Equal(t, byte(1), c.V[1])
	assert.Equal(t, byte(2), c.V[2])
}

func TestStackOverflow(t *testing.T) {
	c := newTestMachine(t, 0x2200) // CALL 200, recursing forever

	for range StackDepth {
		step(t, c)
	}
	assert.Equal(t, StackDepth, c.Stack.Depth())

	_, err := c.Step()
	assert.Error(t, err)
	assert.True(t, errors.Is(err, ErrStackOverflow))
	assert.False(t, errors.Is(err, ErrStackUnderflow))

	var fault *Fault
	assert.True(t, errors.As(err, &fault))
	assert.Equal(t, uint16(0x200), fault.PC)
	assert.Equal(t, uint16(0x2200), fault.Word)
	assert.Equal(t, StackDepth, c.Stack.Depth())
	assert.Equal(t, uint16(0x200), c.PC)
}

func TestStackUnderflow(t *testing.T) {
	c := newTestMachine(t, 0x00EE)

	_, err := c.Step()
	assert.True(t, errors.Is(err, ErrStackUnderflow))
	assert.Equal(t, uint16(0x200), c.PC)
}

func TestDecodeFault(t *testing.T) {
	c := newTestMachine(t, 0x6001, 0x80A9)
	step(t, c)

	_, err := c.Step()
	assert.Error(t, err)

	var decErr *instruction.DecodeError
	assert.True(t, errors.As(err, &decErr))
	assert.Equal(t, uint16(0x80A9), decErr.Word())

	var fault *Fault
	assert.True(t, errors.As(err, &fault))
	assert.Equal(t, uint16(0x202), fault.PC)
	assert.Equal(t, "pc 202 (80A9): invalid instruction 80A9", fault.Error())
	assert.Equal(t, uint16(0x202), c.PC)
}

func TestFetchBelowTopOfMemory(t *testing.T) {
	c := newTestMachine(t)
	c.Memory[0xFFC] = 0x12
	c.Memory[0xFFD] = 0x34

	c.PC = 0xFFC
	step(t, c)
	assert.Equal(t, uint16(0x234), c.PC)
}

func TestFetchAtTopOfMemory(t *testing.T) {
	for _, pc := range []uint16{0xFFE, 0xFFF, 0x1000} {
		c := newTestMachine(t)
		c.PC = pc

		_, err := c.Step()
		assert.True(t, errors.Is(err, ErrOutOfBounds))

		var fault *Fault
		assert.True(t, errors.As(err, &fault))
		assert.Equal(t, pc, fault.PC)
		assert.Equal(t, uint16(0), fault.Word)
	}
}

func TestDraw(t *testing.T) {
	c := newTestMachine(t,
		0xF029, // LD F, V0
		0xD125, // DRW V1, V2, 5
		0xD125, // DRW V1, V2, 5
	)
	c.V[0] = 0x0
	c.V[1] = 10
	c.V[2] = 3
	c.V[0xF] = 1

	step(t, c)
	assert.Equal(t, uint16(0), c.I)

	res := step(t, c)
	assert.True(t, res.Redraw)
	assert.Equal(t, byte(0), c.V[0xF])
	plane := c.Plane()
	assert.Equal(t, 14, plane.Lit())
	assert.True(t, plane.Pixel(10, 3))
	assert.True(t, plane.Pixel(13, 7))

	res = step(t, c)
	assert.True(t, res.Redraw)
	assert.Equal(t, byte(1), c.V[0xF])
	plane = c.Plane()
	assert.Equal(t, 0, plane.Lit())
}

func TestDrawWrap(t *testing.T) {
	c := newTestMachine(t, 0xA300, 0xD011)
	c.Memory[0x300] = 0xFF
	c.V[0] = 60
	c.V[1] = 0

	step(t, c)
	step(t, c)

	plane := c.Plane()
	for x := range 4 {
		assert.True(t, plane.Pixel(60+x, 0))
		assert.True(t, plane.Pixel(x, 0))
	}
	assert.False(t, plane.Pixel(4, 0))
	assert.False(t, plane.Pixel(59, 0))
}

func TestDrawOutOfBounds(t *testing.T) {
	c := newTestMachine(t, 0xAFFD, 0xD014)

	step(t, c)
	_, err := c.Step()
	assert.True(t, errors.Is(err, ErrOutOfBounds))
	plane := c.Plane()
	assert.Equal(t, 0, plane.Lit())
}

func TestClearScreen(t *testing.T) {
	c := newTestMachine(t, 0xD015, 0x00E0)

	step(t, c)
	plane := c.Plane()
	assert.True(t, plane.Lit() > 0)

	res := step(t, c)
	assert.True(t, res.Redraw)
	plane = c.Plane()
	assert.Equal(t, 0, plane.Lit())
}

func TestStoreLoadRoundTrip(t *testing.T) {
	c := newTestMachine(t,
		0xA400, // LD I, 400
		0xF355, // LD [I], V3
		0x6000, // LD V0, 0
		0x6100, // LD V1, 0
		0x6200, // LD V2, 0
		0x6300, // LD V3, 0
		0xF365, // LD V3, [I]
	)
	values := []byte{0x11, 0x22, 0x33, 0x44}
	copy(c.V[:], values)
	c.V[4] = 0x55

	for range 6 {
		step(t, c)
	}
	assert.True(t, bytes.Equal(values, c.Memory[0x400:0x404]))
	assert.Equal(t, byte(0), c.Memory[0x404])
	assert.Equal(t, byte(0), c.V[0])

	step(t, c)
	assert.True(t, bytes.Equal(values, c.V[:4]))
	assert.Equal(t, byte(0x55), c.V[4])
	assert.Equal(t, uint16(0x400), c.I)
}

func TestStoreOutOfBounds(t *testing.T) {
	c := newTestMachine(t, 0xAFFE, 0xF255)
	c.V[0], c.V[1], c.V[2] = 1, 2, 3

	step(t, c)
	_, err := c.Step()
	assert.True(t, errors.Is(err, ErrOutOfBounds))
	assert.Equal(t, byte(0), c.Memory[0xFFE])

	// the last two bytes of memory are still reachable
	c = newTestMachine(t, 0xAFFE, 0xF165)
	c.Memory[0xFFE], c.Memory[0xFFF] = 0xAB, 0xCD
	step(t, c)
	step(t, c)
	assert.Equal(t, byte(0xAB), c.V[0])
	assert.Equal(t, byte(0xCD), c.V[1])
}

func TestBCD(t *testing.T) {
	tests := []struct {
		value    byte
		expected []byte
	}{
		{0, []byte{0, 0, 0}},
		{7, []byte{0, 0, 7}},
		{42, []byte{0, 4, 2}},
		{255, []byte{2, 5, 5}},
	}

	for _, tt := range tests {
		c := newTestMachine(t, 0xA500, 0xF433)
		c.V[4] = tt.value

		step(t, c)
		step(t, c)
		assert.True(t, bytes.Equal(tt.expected, c.Memory[0x500:0x503]), "value %d", tt.value)
	}

	c := newTestMachine(t, 0xAFFE, 0xF433)
	step(t, c)
	_, err := c.Step()
	assert.True(t, errors.Is(err, ErrOutOfBounds))
}

func TestIndexRegister(t *testing.T) {
	c := newTestMachine(t, 0xA123, 0xF21E, 0xF329)
	c.V[2] = 0x10
	c.V[3] = 0xB

	step(t, c)
	assert.Equal(t, uint16(0x123), c.I)

	step(t, c)
	assert.Equal(t, uint16(0x133), c.I)

	step(t, c)
	assert.Equal(t, uint16(55), c.I)
	assert.True(t, bytes.Equal([]byte{0xE0, 0x90, 0xE0, 0x90, 0xE0}, c.Memory[c.I:c.I+GlyphSize]))
}

func TestSpriteAddressDoesNotOverflow(t *testing.T) {
	c := newTestMachine(t, 0xF029)
	c.V[0] = 0xFF

	step(t, c)
	assert.Equal(t, uint16(0xFF*5), c.I)
}

func TestTimerInstructions(t *testing.T) {
	c := newTestMachine(t, 0x6A3C, 0xFA15, 0xFA18, 0xFB07)

	for range 3 {
		step(t, c)
	}
	assert.Equal(t, byte(60), c.DelayTimer)
	assert.Equal(t, byte(60), c.SoundTimer)
	assert.True(t, c.SoundActive())

	c.TickTimers()
	step(t, c)
	assert.Equal(t, byte(59), c.V[0xB])
	assert.Equal(t, byte(59), c.DelayTimer)
}

func TestRand(t *testing.T) {
	c := newTestMachine(t, 0xC10F, 0xC200)

	step(t, c)
	assert.True(t, c.V[1] <= 0x0F)

	c.V[2] = 0xFF
	step(t, c)
	assert.Equal(t, byte(0), c.V[2])
}

func TestRandIsDeterministicWithSeed(t *testing.T) {
	a := newTestMachine(t, 0xC1FF)
	b := newTestMachine(t, 0xC1FF)

	step(t, a)
	step(t, b)
	assert.Equal(t, a.V[1], b.V[1])
}

func TestWaitKeyPress(t *testing.T) {
	c := newTestMachine(t, 0xF50A)

	for range 3 {
		res := step(t, c)
		assert.True(t, res.Blocked)
		assert.Equal(t, uint16(0x200), res.PC)
		assert.Equal(t, uint16(0x200), c.PC)
	}

	c.Keys.Press(0xC)
	c.Keys.Press(0x7)

	res := step(t, c)
	assert.False(t, res.Blocked)
	assert.Equal(t, uint16(0x202), res.PC)
	assert.Equal(t, uint16(0x202), c.PC)
	assert.Equal(t, byte(0x7), c.V[5])
}
