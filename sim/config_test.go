package sim

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/inference-sim/bankqueue/sim/trace"
)

func TestNewSimConfig_Defaults(t *testing.T) {
	got := NewSimConfig(500, 42)
	want := SimConfig{
		CustomerCount: 500,
		Seed:          42,
		InterArrival:  UniformRange{Min: 1, Max: 8},
		Service:       UniformRange{Min: 1, Max: 6},
		TraceLevel:    trace.TraceLevelNone,
	}
	assert.Equal(t, want, got)
	assert.NoError(t, got.Validate())
}

func TestSimConfig_Validate_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*SimConfig)
	}{
		{"zero customers", func(c *SimConfig) { c.CustomerCount = 0 }},
		{"negative customers", func(c *SimConfig) { c.CustomerCount = -2 }},
		{"inverted inter-arrival", func(c *SimConfig) { c.InterArrival = UniformRange{Min: 8, Max: 1} }},
		{"negative service", func(c *SimConfig) { c.Service = UniformRange{Min: -1, Max: 6} }},
		{"unknown trace level", func(c *SimConfig) { c.TraceLevel = "verbose" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewSimConfig(10, 1)
			tt.mutate(&cfg)
			err := cfg.Validate()
			assert.True(t, errors.Is(err, ErrInvalidConfiguration), "got %v", err)
		})
	}
}

func TestNewSimulator_InvalidConfig_NoSimulator(t *testing.T) {
	s, err := NewSimulator(NewSimConfig(0, 1), nil)
	assert.Nil(t, s)
	assert.ErrorIs(t, err, ErrInvalidConfiguration)
}
