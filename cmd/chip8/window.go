package main

import (
	"context"

	"github.com/faiface/pixel"
	"github.com/faiface/pixel/imdraw"
	"github.com/faiface/pixel/pixelgl"
	"github.com/koushik255/chip8go/display"
	"github.com/koushik255/chip8go/internal/driver"
	"github.com/pkg/errors"
	"golang.org/x/image/colornames"
)

// errQuit ends a session on user request, it is not reported.
var errQuit = errors.New("quit")

// windowKeys maps keyboard keys to CHIP-8 keypad keys.
var windowKeys = map[pixelgl.Button]byte{
	pixelgl.Key1: 0x1, pixelgl.Key2: 0x2, pixelgl.Key3: 0x3, pixelgl.Key4: 0xC,
	pixelgl.KeyQ: 0x4, pixelgl.KeyW: 0x5, pixelgl.KeyE: 0x6, pixelgl.KeyR: 0xD,
	pixelgl.KeyA: 0x7, pixelgl.KeyS: 0x8, pixelgl.KeyD: 0x9, pixelgl.KeyF: 0xE,
	pixelgl.KeyZ: 0xA, pixelgl.KeyX: 0x0, pixelgl.KeyC: 0xB, pixelgl.KeyV: 0xF,
}

func runWindow(ctx context.Context, scale int, d *driver.Driver) error {
	cfg := pixelgl.WindowConfig{
		Title:  "CHIP-8 Emulator",
		Bounds: pixel.R(0, 0, float64(display.Width*scale), float64(display.Height*scale)),
		VSync:  true,
	}
	win, err := pixelgl.NewWindow(cfg)
	if err != nil {
		return errors.Wrap(err, "creating window")
	}
	defer win.Destroy()

	machine := d.Machine()
	imd := imdraw.New(nil)
	first := true

	err = d.Run(ctx, func(res driver.FrameResult) error {
		if win.Closed() || win.JustPressed(pixelgl.KeyEscape) {
			return errQuit
		}

		if res.Redraw || first {
			first = false
			drawPlane(imd, machine.Plane(), float64(scale))
		}
		win.Clear(colornames.Black)
		imd.Draw(win)
		win.Update()

		// keys are sampled after the frame, they take effect in the next one
		for button, key := range windowKeys {
			machine.Keys.Set(key, win.Pressed(button))
		}
		return nil
	})
	if errors.Is(err, errQuit) {
		return nil
	}
	return err
}

// drawPlane rebuilds the rectangles of all lit pixels. Pixel rows count
// from the top, window coordinates from the bottom.
func drawPlane(imd *imdraw.IMDraw, plane display.Plane, scale float64) {
	imd.Clear()
	imd.Color = colornames.White
	for y := range display.Height {
		for x := range display.Width {
			if !plane.Pixel(x, y) {
				continue
			}
			row := float64(display.Height - 1 - y)
			imd.Push(
				pixel.V(float64(x)*scale, row*scale),
				pixel.V(float64(x+1)*scale, (row+1)*scale),
			)
			imd.Rectangle(0)
		}
	}
}
