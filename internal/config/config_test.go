package config

import (
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(s *Settings)
		wantErr bool
	}{
		{"defaults with program", func(s *Settings) {}, false},
		{"no program", func(s *Settings) { s.Program = "" }, true},
		{"terminal", func(s *Settings) { s.Mode = ModeTerminal }, false},
		{"disasm", func(s *Settings) { s.Mode = ModeDisasm }, false},
		{"unknown mode", func(s *Settings) { s.Mode = "vr" }, true},
		{"zero scale", func(s *Settings) { s.Scale = 0 }, true},
		{"zero cycles", func(s *Settings) { s.CyclesPerFrame = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Default()
			s.Program = "game.ch8"
			tt.modify(&s)

			err := s.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCreateLogger(t *testing.T) {
	assert.NotNil(t, CreateLogger(true, false))
	assert.NotNil(t, CreateLogger(false, true))
	assert.NotNil(t, CreateLogger(false, false))
}
