// Package loader reads CHIP-8 programs from disk. Programs are either raw
// binary images or text files of hexadecimal instruction words such as
//
//	// draw the digit in V0
//	6000 F029 D005
//	1206
//
// Lines starting with "//" are comments, every character that is not a hex
// digit is ignored and each pair of digits forms one byte.
package loader

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/koushik255/chip8go/chip8"
	"github.com/pkg/errors"
)

// Format selects how program data is interpreted.
type Format int

const (
	// Auto picks Text for files with a text extension and Binary otherwise.
	Auto Format = iota
	Binary
	Text
)

var formatNames = map[string]Format{
	"auto":   Auto,
	"binary": Binary,
	"bin":    Binary,
	"text":   Text,
	"hex":    Text,
}

// extensions of files treated as text by Auto.
var textExtensions = map[string]struct{}{
	".hex": {},
	".txt": {},
	".c8h": {},
}

var (
	ErrTooLarge  = errors.New("program too large")
	ErrOddDigits = errors.New("odd number of hex digits")
)

// ParseFormat converts a format name as given on the command line.
func ParseFormat(s string) (Format, error) {
	f, ok := formatNames[strings.ToLower(s)]
	if !ok {
		return Auto, errors.Errorf("unsupported program format '%s'", s)
	}
	return f, nil
}

func (f Format) String() string {
	switch f {
	case Binary:
		return "binary"
	case Text:
		return "text"
	default:
		return "auto"
	}
}

// ReadFile reads and decodes the program stored in the named file.
func ReadFile(name string, format Format) ([]byte, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, errors.Wrap(err, "reading program")
	}
	return Decode(name, data, format)
}

// Decode converts file content into program bytes. The name is only used to
// resolve the Auto format.
func Decode(name string, data []byte, format Format) ([]byte, error) {
	if format == Auto {
		format = detect(name)
	}

	var program []byte
	switch format {
	case Text:
		var err error
		program, err = DecodeText(string(data))
		if err != nil {
			return nil, errors.Wrapf(err, "decoding %s", filepath.Base(name))
		}
	default:
		program = data
	}

	if len(program) > chip8.MaxProgramSize {
		return nil, errors.Wrapf(ErrTooLarge, "%s: %d bytes (max: %d)",
			filepath.Base(name), len(program), chip8.MaxProgramSize)
	}
	return program, nil
}

// DecodeText converts the hex text format into bytes.
func DecodeText(text string) ([]byte, error) {
	var digits []byte
	for _, line := range strings.Split(strings.ToLower(text), "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "//") {
			continue
		}
		for i := 0; i < len(line); i++ {
			if v, ok := hexValue(line[i]); ok {
				digits = append(digits, v)
			}
		}
	}

	if len(digits)%2 != 0 {
		return nil, errors.Wrapf(ErrOddDigits, "%d digits", len(digits))
	}

	program := make([]byte, len(digits)/2)
	for i := range program {
		program[i] = digits[2*i]<<4 | digits[2*i+1]
	}
	return program, nil
}

func hexValue(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	default:
		return 0, false
	}
}

func detect(name string) Format {
	if _, ok := textExtensions[strings.ToLower(filepath.Ext(name))]; ok {
		return Text
	}
	return Binary
}
