package chip8

import (
	"fmt"

	"github.com/pkg/errors"
)

// Errors reported by Step and LoadProgram. They are wrapped with context, use
// errors.Is to test for them.
var (
	ErrStackOverflow   = errors.New("stack overflow")
	ErrStackUnderflow  = errors.New("stack underflow")
	ErrOutOfBounds     = errors.New("memory access out of bounds")
	ErrProgramTooLarge = errors.New("program too large")
)

// Fault is returned by Step when an instruction can not be executed. The
// machine state is left as it was before the failing step. Err is either an
// *instruction.DecodeError or wraps one of the Err values of this package.
type Fault struct {
	PC   uint16 // address of the failing instruction
	Word uint16 // raw instruction word, zero if it could not be fetched
	Err  error
}

func (f *Fault) Error() string {
	return fmt.Sprintf("pc %03X (%04X): %v", f.PC, f.Word, f.Err)
}

// Unwrap returns the cause of the fault.
func (f *Fault) Unwrap() error {
	return f.Err
}
