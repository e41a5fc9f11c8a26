package chip8

import "github.com/pkg/errors"

// StackDepth is the number of nested subroutine calls CHIP-8 allows.
const StackDepth = 16

// Stack is the return address stack. SP is the number of used entries, so
// it is also the index of the next free slot.
type Stack struct {
	Entries [StackDepth]uint16
	SP      byte
}

// Push stores a return address.
func (s *Stack) Push(addr uint16) error {
	if int(s.SP) >= StackDepth {
		return errors.Wrapf(ErrStackOverflow, "push of %03X at depth %d", addr, s.SP)
	}
	s.Entries[s.SP] = addr
	s.SP++
	return nil
}

// Pop removes and returns the most recently pushed return address.
func (s *Stack) Pop() (uint16, error) {
	if s.SP == 0 {
		return 0, errors.WithStack(ErrStackUnderflow)
	}
	s.SP--
	return s.Entries[s.SP], nil
}

// Depth returns the number of return addresses on the stack.
func (s *Stack) Depth() int {
	return int(s.SP)
}

// Reset empties the stack.
func (s *Stack) Reset() {
	*s = Stack{}
}
