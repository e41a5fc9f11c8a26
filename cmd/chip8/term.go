package main

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"github.com/koushik255/chip8go/internal/driver"
	"github.com/koushik255/chip8go/internal/terminal"
	"github.com/pkg/errors"
)

const (
	cursorHome = "\x1b[H"
	clearAll   = "\x1b[2J"
	hideCursor = "\x1b[?25l"
	showCursor = "\x1b[?25h"
)

func runTerminal(ctx context.Context, d *driver.Driver) error {
	restore, err := terminal.SetCbreak(os.Stdin)
	if err != nil {
		return errors.Wrap(err, "switching terminal to cbreak mode")
	}
	defer restore()

	out := bufio.NewWriter(os.Stdout)
	fmt.Fprint(out, clearAll, hideCursor)
	defer func() {
		fmt.Fprint(out, showCursor)
		_ = out.Flush()
	}()

	typed := make(chan byte, 64)
	go readInput(typed)

	machine := d.Machine()
	keys := terminal.NewKeys(&machine.Keys)
	first := true

	err = d.Run(ctx, func(res driver.FrameResult) error {
		keys.Frame()
	drain:
		for {
			select {
			case c, ok := <-typed:
				if !ok || c == terminal.Escape {
					return errQuit
				}
				keys.Type(c)
			default:
				break drain
			}
		}

		if !res.Redraw && !first {
			return nil
		}
		first = false
		fmt.Fprint(out, cursorHome, terminal.Render(machine.Plane()))
		return out.Flush()
	})
	if errors.Is(err, errQuit) {
		return nil
	}
	return err
}

// readInput forwards typed characters until stdin is closed.
func readInput(typed chan<- byte) {
	defer close(typed)
	buf := make([]byte, 16)
	for {
		n, err := os.Stdin.Read(buf)
		for _, c := range buf[:n] {
			typed <- c
		}
		if err != nil {
			return
		}
	}
}
