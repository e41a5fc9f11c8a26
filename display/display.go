// Package display implements the CHIP-8 64x32 monochrome pixel plane.
//
// Sprites are XORed onto the plane: drawing a set bit over a set pixel turns
// it off again, which is how CHIP-8 programs erase and detect collisions.
package display

import "strings"

const (
	Width  = 64
	Height = 32

	// MaxSpriteRows is the largest number of rows a single sprite can have,
	// the height operand of the draw instruction is only 4 bits wide.
	MaxSpriteRows = 15
)

// Plane is a row-major copy of the pixel state, true means the pixel is lit.
type Plane [Width * Height]bool

// Pixel returns the state of the pixel at x, y. Coordinates wrap around.
func (p Plane) Pixel(x, y int) bool {
	return p[index(x, y)]
}

// Lit returns the number of lit pixels.
func (p Plane) Lit() int {
	n := 0
	for _, b := range p {
		if b {
			n++
		}
	}
	return n
}

// String renders the plane as Height lines of '#' (lit) and '.' (unlit).
func (p Plane) String() string {
	var sb strings.Builder
	sb.Grow((Width + 1) * Height)
	for y := 0; y < Height; y++ {
		for x := 0; x < Width; x++ {
			if p[y*Width+x] {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Sprite is the data of a single draw instruction. Only the first Rows
// entries of Data are drawn, each byte is one 8 pixel wide row with the most
// significant bit on the left.
type Sprite struct {
	Data [MaxSpriteRows]byte
	Rows uint8
	X, Y uint8
}

// NewSprite returns a sprite drawn at x, y from the given rows. Rows beyond
// MaxSpriteRows are ignored.
func NewSprite(x, y uint8, rows []byte) Sprite {
	s := Sprite{X: x, Y: y}
	s.Rows = uint8(copy(s.Data[:], rows))
	return s
}

// Display is the pixel plane of a CHIP-8 machine.
type Display struct {
	pixels Plane
}

// New returns a cleared display.
func New() *Display {
	return &Display{}
}

// Clear turns every pixel off.
func (d *Display) Clear() {
	d.pixels = Plane{}
}

// Draw XORs the sprite onto the plane. The origin is taken modulo the plane
// size and every pixel wraps around the edges individually. It returns true
// if any pixel was turned from on to off.
func (d *Display) Draw(s Sprite) bool {
	collision := false
	rows := min(int(s.Rows), MaxSpriteRows)

	ox := int(s.X) % Width
	oy := int(s.Y) % Height

	for row := 0; row < rows; row++ {
		line := s.Data[row]

		// each bit is a pixel, the most significant bit is the leftmost one
		for col := 0; col < 8; col++ {
			if line&(0x80>>col) == 0 {
				continue
			}

			i := index(ox+col, oy+row)
			if d.pixels[i] {
				collision = true
			}
			d.pixels[i] = !d.pixels[i]
		}
	}

	return collision
}

// Pixel returns the state of the pixel at x, y. Coordinates wrap around.
func (d *Display) Pixel(x, y int) bool {
	return d.pixels.Pixel(x, y)
}

// Plane returns a copy of the current pixel state.
func (d *Display) Plane() Plane {
	return d.pixels
}

func index(x, y int) int {
	x %= Width
	if x < 0 {
		x += Width
	}
	y %= Height
	if y < 0 {
		y += Height
	}
	return y*Width + x
}
