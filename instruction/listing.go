package instruction

import (
	"fmt"
	"io"

	"github.com/pkg/errors"
)

// Disassemble writes an assembler listing of program, which is loaded at the
// address origin. Words that do not decode are listed as data.
func Disassemble(w io.Writer, program []byte, origin uint16) error {
	for offset := 0; offset < len(program); offset += 2 {
		addr := int(origin) + offset

		if offset+1 >= len(program) {
			if _, err := fmt.Fprintf(w, "%03X  %02X    db 0x%02x\n", addr, program[offset], program[offset]); err != nil {
				return errors.Wrap(err, "writing listing")
			}
			break
		}

		upper, lower := program[offset], program[offset+1]
		text := fmt.Sprintf("db 0x%02x, 0x%02x", upper, lower)
		if ins, err := Decode(upper, lower); err == nil {
			text = ins.String()
		}

		if _, err := fmt.Fprintf(w, "%03X  %02X%02X  %s\n", addr, upper, lower, text); err != nil {
			return errors.Wrap(err, "writing listing")
		}
	}
	return nil
}
