package sim

import (
	"fmt"

	"github.com/inference-sim/bankqueue/sim/trace"
)

// SimConfig groups the parameters of one run.
type SimConfig struct {
	CustomerCount int              // customers to serve (must be > 0)
	Seed          int64            // master seed for all random streams
	InterArrival  UniformRange     // inter-arrival interval (minutes)
	Service       UniformRange     // service duration interval (minutes)
	TraceLevel    trace.TraceLevel // "none" (default) or "events"
}

// NewSimConfig builds a config with the default bank intervals and tracing off.
func NewSimConfig(customerCount int, seed int64) SimConfig {
	return SimConfig{
		CustomerCount: customerCount,
		Seed:          seed,
		InterArrival:  DefaultInterArrival,
		Service:       DefaultService,
		TraceLevel:    trace.TraceLevelNone,
	}
}

// Validate reports the first problem found, wrapped in ErrInvalidConfiguration.
func (c SimConfig) Validate() error {
	if c.CustomerCount <= 0 {
		return fmt.Errorf("%w: customer count must be positive, got %d", ErrInvalidConfiguration, c.CustomerCount)
	}
	if err := c.InterArrival.Validate("inter-arrival"); err != nil {
		return err
	}
	if err := c.Service.Validate("service"); err != nil {
		return err
	}
	if !trace.IsValidTraceLevel(string(c.TraceLevel)) {
		return fmt.Errorf("%w: unknown trace level %q", ErrInvalidConfiguration, c.TraceLevel)
	}
	return nil
}
