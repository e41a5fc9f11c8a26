// Package driver runs a CHIP-8 machine at the conventional host cadence: a
// number of instructions per 60Hz frame followed by one timer tick.
package driver

import (
	"context"
	"time"

	"github.com/koushik255/chip8go/beeper"
	"github.com/koushik255/chip8go/chip8"
	"github.com/retroenv/retrogolib/log"
)

// FrameDuration is the duration of one frame at the 60Hz timer rate.
const FrameDuration = time.Second / 60

// FrameResult describes what happened during a frame.
type FrameResult struct {
	Cycles  int  // instructions executed
	Redraw  bool // the pixel plane changed
	Blocked bool // the machine is waiting for a key press
	Sound   bool // the beeper is on
}

// Driver advances a machine frame by frame.
type Driver struct {
	machine        *chip8.Chip8
	cyclesPerFrame int
	beeper         *beeper.Recorder
	logger         *log.Logger

	frames uint64
}

// Option configures a Driver.
type Option func(*Driver)

// WithBeeper records the sound timer output of every frame.
func WithBeeper(b *beeper.Recorder) Option {
	return func(d *Driver) {
		d.beeper = b
	}
}

// WithLogger sets the logger used to report faults.
func WithLogger(logger *log.Logger) Option {
	return func(d *Driver) {
		d.logger = logger
	}
}

// New returns a driver that executes cyclesPerFrame instructions per frame.
func New(machine *chip8.Chip8, cyclesPerFrame int, opts ...Option) *Driver {
	d := &Driver{
		machine:        machine,
		cyclesPerFrame: max(cyclesPerFrame, 1),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Machine returns the driven machine, frontends use it to update the keypad
// and read the pixel plane.
func (d *Driver) Machine() *chip8.Chip8 {
	return d.machine
}

// Frames returns the number of completed frames.
func (d *Driver) Frames() uint64 {
	return d.frames
}

// Frame executes up to cyclesPerFrame instructions, stopping early when the
// machine waits for a key, then ticks the timers once. A fault stops the
// frame without ticking the timers.
func (d *Driver) Frame() (FrameResult, error) {
	var res FrameResult

	for res.Cycles < d.cyclesPerFrame {
		step, err := d.machine.Step()
		if err != nil {
			if d.logger != nil {
				d.logger.Error("Execution halted",
					log.Hex("pc", d.machine.PC),
					log.Err(err))
			}
			return res, err
		}
		if step.Redraw {
			res.Redraw = true
		}
		if step.Blocked {
			res.Blocked = true
			break
		}
		res.Cycles++
	}

	res.Sound = d.machine.SoundActive()
	if d.beeper != nil {
		d.beeper.Frame(res.Sound)
	}
	d.machine.TickTimers()
	d.frames++

	return res, nil
}

// Run calls Frame at 60Hz and hands every result to present until the
// context is cancelled, present returns an error or the machine faults.
// Cancellation is not reported as an error.
func (d *Driver) Run(ctx context.Context, present func(FrameResult) error) error {
	ticker := time.NewTicker(FrameDuration)
	defer ticker.Stop()

	for {
		res, err := d.Frame()
		if err != nil {
			return err
		}
		if err := present(res); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
