// Command chip8 runs CHIP-8 programs in a window or in the terminal, or
// prints a disassembly listing of them.
//
// Usage:
//
//	chip8 [flags] <program file>
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/faiface/pixel/pixelgl"
	"github.com/koushik255/chip8go/beeper"
	"github.com/koushik255/chip8go/chip8"
	"github.com/koushik255/chip8go/instruction"
	"github.com/koushik255/chip8go/internal/config"
	"github.com/koushik255/chip8go/internal/driver"
	"github.com/koushik255/chip8go/loader"
	"github.com/retroenv/retrogolib/app"
	"github.com/retroenv/retrogolib/log"
)

// formatFlag adapts loader.Format to the flag.Value interface.
type formatFlag loader.Format

func (f *formatFlag) String() string { return loader.Format(*f).String() }
func (f *formatFlag) Set(s string) error {
	format, err := loader.ParseFormat(s)
	if err != nil {
		return err
	}
	*f = formatFlag(format)
	return nil
}

func parseFlags() config.Settings {
	settings := config.Default()
	format := formatFlag(settings.Format)

	flag.StringVar(&settings.Mode, "mode", settings.Mode, "frontend: window, term or disasm")
	flag.Var(&format, "format", "program format: auto, binary or text")
	flag.IntVar(&settings.Scale, "scale", settings.Scale, "window pixels per CHIP-8 pixel")
	flag.IntVar(&settings.CyclesPerFrame, "cpf", settings.CyclesPerFrame, "instructions executed per 60Hz frame")
	flag.StringVar(&settings.WavFile, "wav", "", "record the beeper to this WAV file")
	flag.BoolVar(&settings.Debug, "debug", false, "log every executed instruction")
	flag.BoolVar(&settings.Quiet, "q", false, "only log errors")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] <program file>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	settings.Format = loader.Format(format)
	settings.Program = flag.Arg(0)
	return settings
}

func main() {
	settings := parseFlags()
	logger := config.CreateLogger(settings.Debug, settings.Quiet)

	if err := settings.Validate(); err != nil {
		logger.Error("Invalid arguments", log.Err(err))
		flag.Usage()
		os.Exit(2)
	}

	program, err := loader.ReadFile(settings.Program, settings.Format)
	if err != nil {
		logger.Fatal("Loading program failed", log.Err(err))
	}

	if settings.Mode == config.ModeDisasm {
		if err := instruction.Disassemble(os.Stdout, program, chip8.ProgramStart); err != nil {
			logger.Fatal("Disassembling failed", log.Err(err))
		}
		return
	}

	if err := run(app.Context(), logger, settings, program); err != nil {
		logger.Fatal("Emulation failed", log.Err(err))
	}
}

func run(ctx context.Context, logger *log.Logger, settings config.Settings, program []byte) error {
	var opts []chip8.Option
	if settings.Debug {
		opts = append(opts, chip8.WithLogger(logger))
	}
	machine := chip8.New(opts...)
	if err := machine.LoadProgram(program); err != nil {
		return err
	}

	logger.Info("Program loaded",
		log.String("file", settings.Program),
		log.Int("size", len(program)),
		log.String("mode", settings.Mode))

	driverOpts := []driver.Option{driver.WithLogger(logger)}
	var recorder *beeper.Recorder
	if settings.WavFile != "" {
		recorder = beeper.New()
		driverOpts = append(driverOpts, driver.WithBeeper(recorder))
	}
	d := driver.New(machine, settings.CyclesPerFrame, driverOpts...)

	var runErr error
	switch settings.Mode {
	case config.ModeTerminal:
		runErr = runTerminal(ctx, d)
	default:
		// the window has to be driven from the main thread
		pixelgl.Run(func() {
			runErr = runWindow(ctx, settings.Scale, d)
		})
	}

	logger.Info("Emulation stopped", log.Int("frames", int(d.Frames())))

	if recorder != nil {
		if err := recorder.WriteFile(settings.WavFile); err != nil {
			return err
		}
		logger.Info("Beeper recording written",
			log.String("file", settings.WavFile),
			log.Int("samples", recorder.Samples()))
	}
	return runErr
}
