// Package config handles application configuration and setup
package config

import (
	"github.com/koushik255/chip8go/loader"
	"github.com/pkg/errors"
	"github.com/retroenv/retrogolib/log"
)

// Frontend modes.
const (
	ModeWindow   = "window"
	ModeTerminal = "term"
	ModeDisasm   = "disasm"
)

// Settings holds the options of a single emulator run.
type Settings struct {
	Program string
	Format  loader.Format
	Mode    string

	Scale          int // window pixels per CHIP-8 pixel
	CyclesPerFrame int // instructions executed per 60Hz frame
	WavFile        string

	Debug bool
	Quiet bool
}

// Default returns the settings used when no flags are given.
func Default() Settings {
	return Settings{
		Format:         loader.Auto,
		Mode:           ModeWindow,
		Scale:          10,
		CyclesPerFrame: 10,
	}
}

// Validate checks the settings for consistency.
func (s Settings) Validate() error {
	if s.Program == "" {
		return errors.New("no program file specified")
	}
	switch s.Mode {
	case ModeWindow, ModeTerminal, ModeDisasm:
	default:
		return errors.Errorf("unsupported mode '%s'", s.Mode)
	}
	if s.Scale < 1 {
		return errors.Errorf("invalid scale %d", s.Scale)
	}
	if s.CyclesPerFrame < 1 {
		return errors.Errorf("invalid cycles per frame %d", s.CyclesPerFrame)
	}
	return nil
}

// CreateLogger creates a logger with appropriate settings
func CreateLogger(debug, quiet bool) *log.Logger {
	cfg := log.DefaultConfig()
	if debug {
		cfg.Level = log.DebugLevel
	} else if quiet {
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}
