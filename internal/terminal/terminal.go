// Package terminal implements the pieces of the text mode frontend: drawing
// the pixel plane with block characters and translating typed characters
// into keypad presses.
package terminal

import (
	"strings"

	"github.com/koushik255/chip8go/display"
	"github.com/koushik255/chip8go/keypad"
)

// HoldFrames is the number of frames a typed key stays pressed. Terminals
// only deliver characters, not key releases.
const HoldFrames = 6

// KeyMap maps typed characters to keypad keys, using the usual layout of
// the left side of a QWERTY keyboard:
//
//	1 2 3 4      1 2 3 C
//	q w e r  ->  4 5 6 D
//	a s d f      7 8 9 E
//	z x c v      A 0 B F
var KeyMap = map[byte]byte{
	'1': 0x1, '2': 0x2, '3': 0x3, '4': 0xC,
	'q': 0x4, 'w': 0x5, 'e': 0x6, 'r': 0xD,
	'a': 0x7, 's': 0x8, 'd': 0x9, 'f': 0xE,
	'z': 0xA, 'x': 0x0, 'c': 0xB, 'v': 0xF,
}

// Escape is the character that ends a terminal session.
const Escape = 0x1b

// Keys turns typed characters into timed key presses.
type Keys struct {
	pad  *keypad.Keypad
	held [keypad.Keys]int
}

// NewKeys returns a tracker that updates the given keypad.
func NewKeys(pad *keypad.Keypad) *Keys {
	return &Keys{pad: pad}
}

// Type presses the key mapped to the character c. It returns false if the
// character is not mapped.
func (k *Keys) Type(c byte) bool {
	key, ok := KeyMap[lower(c)]
	if !ok {
		return false
	}
	k.held[key] = HoldFrames
	k.pad.Press(key)
	return true
}

// Frame advances the hold timers by one frame and releases expired keys.
func (k *Keys) Frame() {
	for key, n := range k.held {
		if n == 0 {
			continue
		}
		k.held[key] = n - 1
		if n == 1 {
			k.pad.Release(byte(key))
		}
	}
}

// Render draws the plane using half block characters, two pixel rows per
// text line. Lines end in "\r\n" so the output also works in raw mode.
func Render(p display.Plane) string {
	var sb strings.Builder
	for y := 0; y < display.Height; y += 2 {
		for x := 0; x < display.Width; x++ {
			top := p.Pixel(x, y)
			bottom := p.Pixel(x, y+1)
			switch {
			case top && bottom:
				sb.WriteRune('█')
			case top:
				sb.WriteRune('▀')
			case bottom:
				sb.WriteRune('▄')
			default:
				sb.WriteByte(' ')
			}
		}
		sb.WriteString("\r\n")
	}
	return sb.String()
}

func lower(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + 'a' - 'A'
	}
	return c
}
