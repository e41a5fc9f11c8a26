// Package keypad holds the level state of the 16-key CHIP-8 hexadecimal
// keypad. Keys are identified by their value 0x0 to 0xF:
//
//	1 2 3 C
//	4 5 6 D
//	7 8 9 E
//	A 0 B F
//
// Translating host keys into this key space is left to the frontend.
package keypad

// Keys is the number of keys on the keypad.
const Keys = 16

// Keypad stores whether each key is currently held down.
type Keypad struct {
	down [Keys]bool
}

// Set records a key transition. Only the low 4 bits of key are used.
func (k *Keypad) Set(key byte, down bool) {
	k.down[key&0xF] = down
}

// Press marks a key as held down.
func (k *Keypad) Press(key byte) {
	k.Set(key, true)
}

// Release marks a key as released.
func (k *Keypad) Release(key byte) {
	k.Set(key, false)
}

// Reset releases all keys.
func (k *Keypad) Reset() {
	k.down = [Keys]bool{}
}

// IsPressed returns whether the key is held down. Only the low 4 bits of key
// are used.
func (k *Keypad) IsPressed(key byte) bool {
	return k.down[key&0xF]
}

// FirstPressed returns the lowest key that is held down. The second return
// value is false if no key is pressed.
func (k *Keypad) FirstPressed() (byte, bool) {
	for i, down := range k.down {
		if down {
			return byte(i), true
		}
	}
	return 0, false
}
